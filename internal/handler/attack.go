package handler

import (
	"go.uber.org/zap"

	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

const (
	attackRange     = 8192.0
	maxAttackDamage = 1000
)

// HandleAttack processes C_ATTACK [H damage]: a hitscan shot along the view.
// Structures hit go through the regular damage pipeline.
func HandleAttack(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.GetBySession(sess.ID)
	if p == nil || p.Dead {
		return
	}
	dmg := int(r.ReadH())
	if dmg <= 0 {
		return
	}
	if dmg > maxAttackDamage {
		dmg = maxAttackDamage
	}

	eye := p.Eye()
	end := eye.MA(attackRange, p.ViewAngles.Forward())
	tr := deps.World.Trace(eye, geom.Vec3{}, geom.Vec3{}, end, 0, world.MaskSolid)
	if tr.Entity.IsZero() {
		return
	}
	st, ok := deps.World.Structures().Get(tr.Entity)
	if !ok {
		return
	}
	if deps.World.ApplyDamage(st, p.ActorID, dmg, tr.EndPos) {
		deps.Log.Debug("structure destroyed",
			zap.Int32("attacker", p.ActorID),
			zap.String("piece", st.Definition().Name),
			zap.Stringer("origin", st.Origin))
	}
}
