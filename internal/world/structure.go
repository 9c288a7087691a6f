package world

import (
	"time"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
)

// NoOwner marks a structure placed without an attributable actor.
const NoOwner int32 = -1

// Behavior is the per-structure capability invoked by the think scheduler and
// the damage pipeline. New piece behaviors are new implementations; the
// spawner only picks one.
type Behavior interface {
	OnTick(s *Structure, now time.Duration)
	OnDamage(s *Structure, attacker int32, amount int, point geom.Vec3)
	OnDestroyed(s *Structure, attacker int32)
}

// Structure is one placed piece. Shape fields never change after spawn;
// health and the destruction flags are the only mutable state.
type Structure struct {
	ID         ecs.EntityID
	PieceType  data.PieceType
	Owner      int32
	Origin     geom.Vec3 // grid-snapped
	Yaw        int       // 0, 90, 180, 270; never applied to Bounds
	Bounds     geom.AABB // Origin + piece mins/maxs
	Health     int
	ModelIndex int

	Solid      bool
	TakeDamage bool
	Destroyed  bool

	SpawnedAt time.Duration
	NextThink time.Duration // 0 = not scheduled
	Behavior  Behavior
}

// Definition returns the catalog entry the structure was built from.
func (s *Structure) Definition() *data.PieceDefinition {
	return data.DefinitionFor(s.PieceType)
}
