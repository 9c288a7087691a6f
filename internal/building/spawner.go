package building

import (
	"go.uber.org/zap"

	"github.com/quakenite/server/internal/core/event"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/world"
)

// BehaviorFactory picks the lifecycle behavior of a new structure.
type BehaviorFactory func(t data.PieceType) world.Behavior

// Spawner turns a validated placement into a live structure.
type Spawner struct {
	state     *world.State
	validator *Validator
	behavior  BehaviorFactory
	log       *zap.Logger
}

func NewSpawner(state *world.State, validator *Validator, behavior BehaviorFactory, log *zap.Logger) *Spawner {
	if behavior == nil {
		behavior = func(data.PieceType) world.Behavior { return StaticBehavior{} }
	}
	return &Spawner{state: state, validator: validator, behavior: behavior, log: log}
}

func (sp *Spawner) Validator() *Validator { return sp.validator }

// Spawn snaps rawOrigin to the piece grid, re-validates there and creates the
// structure. On any error nothing was allocated, linked or debited.
func (sp *Spawner) Spawn(t data.PieceType, rawOrigin geom.Vec3, yaw int, requester *world.PlayerInfo) (*world.Structure, error) {
	if !sp.validator.settings.Enabled {
		return nil, ErrDisabled
	}
	if !t.Valid() {
		return nil, ErrInvalidPiece
	}
	def := data.DefinitionFor(t)
	origin := geom.Snap(rawOrigin, def.GridSnap)

	if err := sp.validator.Check(t, origin, requester); err != nil {
		return nil, err
	}

	id, ok := sp.state.ECS().CreateEntity()
	if !ok {
		sp.log.Warn("structure spawn: no free entities",
			zap.String("piece", def.Name),
			zap.Stringer("origin", origin),
			zap.Int("capacity", sp.state.ECS().Pool().Capacity()))
		return nil, ErrNoFreeEntities
	}

	owner := world.NoOwner
	if requester != nil {
		owner = requester.ActorID
	}
	now := sp.state.Now()
	st := &world.Structure{
		ID:         id,
		PieceType:  t,
		Owner:      owner,
		Origin:     origin,
		Yaw:        yaw,
		Bounds:     def.Bounds(origin),
		Health:     def.Health,
		ModelIndex: sp.state.Models.ModelIndex(def.ModelPath),
		Solid:      true,
		TakeDamage: true,
		SpawnedAt:  now,
		NextThink:  now + data.ThinkInterval,
		Behavior:   sp.behavior(t),
	}
	sp.state.LinkStructure(st)

	cost := 0
	if requester != nil {
		cost = def.MaterialCost
		requester.Materials -= cost
		requester.Dirty = true
	}

	event.Emit(sp.state.Events, event.StructurePlaced{
		Entity:    id,
		PieceType: uint8(t),
		Origin:    origin,
		Owner:     owner,
		Cost:      cost,
	})
	sp.log.Debug("structure spawned",
		zap.String("piece", def.Name),
		zap.Stringer("origin", origin),
		zap.Int32("owner", owner))
	return st, nil
}
