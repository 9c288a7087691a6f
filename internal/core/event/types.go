package event

import (
	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

// StructurePlaced is the placement effect of a new structure.
type StructurePlaced struct {
	Entity    ecs.EntityID
	PieceType uint8
	Origin    geom.Vec3
	Owner     int32
	Cost      int
}

// PlacementFailed is the denied-placement feedback for one actor.
type PlacementFailed struct {
	Actor  int32
	Reason string
}

// StructureDamaged fires for every damage application, lethal or not.
type StructureDamaged struct {
	Entity   ecs.EntityID
	Attacker int32
	Amount   int
	Health   int
}

// StructureDestroyed is the destruction effect at the structure origin.
type StructureDestroyed struct {
	Entity    ecs.EntityID
	PieceType uint8
	Origin    geom.Vec3
	Owner     int32
	Attacker  int32
}

// ActorSpawned fires when an actor joins or respawns.
type ActorSpawned struct {
	Actor int32
}
