package world

import (
	"time"

	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
)

// BuildState is one actor's build-mode state. It is reset on every (re)spawn
// and mutated only by that actor's own commands.
type BuildState struct {
	Active        bool
	SelectedType  data.PieceType
	Rotation      int // 0, 90, 180, 270
	LastPlacement time.Duration
	HasPlaced     bool
}

// Reset returns the state to its spawn defaults.
func (b *BuildState) Reset() {
	*b = BuildState{SelectedType: data.PieceWall}
}

// Toggle flips build mode. Entering selects the wall at zero rotation.
func (b *BuildState) Toggle() bool {
	b.Active = !b.Active
	if b.Active {
		b.SelectedType = data.PieceWall
		b.Rotation = 0
	}
	return b.Active
}

// Select changes the piece. It reports false (and changes nothing) outside
// build mode or for a type that is not buildable.
func (b *BuildState) Select(t data.PieceType) bool {
	if !b.Active || !t.Valid() {
		return false
	}
	b.SelectedType = t
	return true
}

// Rotate advances the rotation by 90 degrees while in build mode.
func (b *BuildState) Rotate() bool {
	if !b.Active {
		return false
	}
	b.Rotation = (b.Rotation + 90) % 360
	return true
}

// CoolingDown reports whether now is still within the placement cooldown.
func (b *BuildState) CoolingDown(now time.Duration) bool {
	return b.HasPlaced && now < b.LastPlacement+data.Cooldown
}

// MarkPlaced records a successful placement at now.
func (b *BuildState) MarkPlaced(now time.Duration) {
	b.LastPlacement = now
	b.HasPlaced = true
}

// Angles returns the placement orientation: yaw only.
func (b *BuildState) Angles() geom.Angles {
	return geom.Angles{Yaw: float64(b.Rotation)}
}
