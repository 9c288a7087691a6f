package world

import (
	"github.com/quakenite/server/internal/core/event"
	"github.com/quakenite/server/internal/geom"
)

// ApplyDamage runs the damage pipeline against a structure: the pain hook
// while it survives, the die hook and removal once health reaches zero.
// Returns true when the hit destroyed it.
func (s *State) ApplyDamage(st *Structure, attacker int32, amount int, point geom.Vec3) bool {
	if st == nil || !st.TakeDamage || st.Destroyed || amount <= 0 {
		return false
	}
	st.Health -= amount
	event.Emit(s.Events, event.StructureDamaged{
		Entity:   st.ID,
		Attacker: attacker,
		Amount:   amount,
		Health:   st.Health,
	})
	if st.Health > 0 {
		if st.Behavior != nil {
			st.Behavior.OnDamage(st, attacker, amount, point)
		}
		return false
	}
	if st.Behavior != nil {
		st.Behavior.OnDestroyed(st, attacker)
	}
	s.RemoveStructure(st, attacker)
	return true
}
