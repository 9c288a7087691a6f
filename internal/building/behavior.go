package building

import (
	"time"

	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/scripting"
	"github.com/quakenite/server/internal/world"
)

// StaticBehavior reschedules its think every ThinkInterval and ignores pain.
type StaticBehavior struct{}

func (StaticBehavior) OnTick(s *world.Structure, now time.Duration) {
	s.NextThink = now + data.ThinkInterval
}

func (StaticBehavior) OnDamage(*world.Structure, int32, int, geom.Vec3) {}
func (StaticBehavior) OnDestroyed(*world.Structure, int32)              {}

// Script is the Lua surface a scripted structure calls into.
type Script interface {
	StructureThink(ctx scripting.StructureContext) int
	StructurePain(ctx scripting.StructureContext, attacker int32, amount int)
}

// Host is the world a scripted structure lives in. Decay goes through the
// normal damage pipeline.
type Host interface {
	ApplyDamage(s *world.Structure, attacker int32, amount int, point geom.Vec3) bool
	Now() time.Duration
}

// ScriptedBehavior asks a script for per-think health decay.
type ScriptedBehavior struct {
	script Script
	host   Host
}

func NewScriptedBehavior(script Script, host Host) *ScriptedBehavior {
	return &ScriptedBehavior{script: script, host: host}
}

func scriptContext(s *world.Structure, now time.Duration) scripting.StructureContext {
	def := s.Definition()
	return scripting.StructureContext{
		Piece:      def.Name,
		Health:     s.Health,
		MaxHealth:  def.Health,
		Owner:      s.Owner,
		AgeSeconds: (now - s.SpawnedAt).Seconds(),
	}
}

func (b *ScriptedBehavior) OnTick(s *world.Structure, now time.Duration) {
	s.NextThink = now + data.ThinkInterval
	if decay := b.script.StructureThink(scriptContext(s, now)); decay > 0 {
		b.host.ApplyDamage(s, world.NoOwner, decay, s.Origin)
	}
}

func (b *ScriptedBehavior) OnDamage(s *world.Structure, attacker int32, amount int, _ geom.Vec3) {
	b.script.StructurePain(scriptContext(s, b.host.Now()), attacker, amount)
}

func (b *ScriptedBehavior) OnDestroyed(*world.Structure, int32) {}
