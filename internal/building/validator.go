package building

import (
	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/world"
)

// Settings are the runtime building knobs.
type Settings struct {
	Enabled        bool
	StartMaterials int
	MaxStructures  int
}

// Collision is the world trace the validator and aim use.
type Collision interface {
	Trace(start, mins, maxs, end geom.Vec3, pass ecs.EntityID, mask int) world.TraceResult
}

// Census is the live structure population.
type Census interface {
	Count() int
	FirstOverlap(b geom.AABB) *world.Structure
}

// Validator decides whether a piece may be placed at an origin. It never
// mutates anything.
type Validator struct {
	settings  Settings
	collision Collision
	census    Census
}

func NewValidator(settings Settings, collision Collision, census Census) *Validator {
	return &Validator{settings: settings, collision: collision, census: census}
}

// Settings returns the settings the validator was built with.
func (v *Validator) Settings() Settings { return v.settings }

// CanPlace reports whether Check accepts the placement.
func (v *Validator) CanPlace(t data.PieceType, origin geom.Vec3, requester *world.PlayerInfo) bool {
	return v.Check(t, origin, requester) == nil
}

// Check runs the placement rules in order and returns the first rejection.
// A nil requester skips the material rule.
func (v *Validator) Check(t data.PieceType, origin geom.Vec3, requester *world.PlayerInfo) error {
	if !v.settings.Enabled {
		return ErrDisabled
	}
	if !t.Valid() {
		return ErrInvalidPiece
	}
	def := data.DefinitionFor(t)
	if requester != nil && requester.Materials < def.MaterialCost {
		return ErrInsufficientMaterials
	}
	if v.census.Count() >= v.settings.MaxStructures {
		return ErrStructureLimit
	}

	// Bounds are not rotated.
	tr := v.collision.Trace(origin, def.Mins, def.Maxs, origin, 0, world.MaskSolid)
	if tr.StartSolid || tr.AllSolid {
		return ErrWorldCollision
	}
	if v.census.FirstOverlap(def.Bounds(origin)) != nil {
		return ErrStructureOverlap
	}
	return nil
}
