package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quakenite/server/internal/geom"
)

// PieceType indexes the piece catalog. The zero value is the None sentinel.
type PieceType uint8

const (
	PieceNone  PieceType = iota
	PieceWall            // vertical 64x8 panel, 64 high
	PieceFloor           // horizontal 64x64 platform, 8 thick
	PieceRamp            // 45-degree ramp, 64x64x64
	PieceRoof            // angled roof piece
	NumPieceTypes
)

// Shared building constants (authoritative and observer side).
const (
	GridSize             = 64.0
	PreviewRange         = 256.0
	Cooldown             = 100 * time.Millisecond
	DefaultMaxStructures = 256
	DefaultHealth        = 150
	ThinkInterval        = time.Second
)

// Valid reports whether t names a buildable piece (None excluded).
func (t PieceType) Valid() bool {
	return t > PieceNone && t < NumPieceTypes
}

func (t PieceType) String() string {
	return DefinitionFor(t).Name
}

// ParsePieceType parses a piece number as typed on a command line (1 Wall
// through 4 Roof). Out-of-range numbers come back as PieceNone.
func ParsePieceType(s string) (PieceType, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return PieceNone, fmt.Errorf("parse piece type %q: %w", s, err)
	}
	if n <= int(PieceNone) || n >= int(NumPieceTypes) {
		return PieceNone, nil
	}
	return PieceType(n), nil
}

// ParsePieceList parses a comma-separated list of piece numbers, such as
// "1,2,4". Every entry must name a buildable piece.
func ParsePieceList(s string) ([]PieceType, error) {
	var out []PieceType
	for _, field := range strings.Split(s, ",") {
		t, err := ParsePieceType(field)
		if err != nil {
			return nil, err
		}
		if !t.Valid() {
			return nil, fmt.Errorf("parse piece list %q: %q is not a buildable piece", s, strings.TrimSpace(field))
		}
		out = append(out, t)
	}
	return out, nil
}

// PieceDefinition is the immutable description of one buildable piece.
type PieceDefinition struct {
	Type         PieceType
	Name         string
	ModelPath    string
	IconPath     string
	Mins         geom.Vec3 // collision box in piece-local space
	Maxs         geom.Vec3
	Health       int
	MaterialCost int
	GridSnap     float64
}

// Bounds returns the world bounds of the piece placed at origin.
func (d *PieceDefinition) Bounds(origin geom.Vec3) geom.AABB {
	return geom.Box(origin, d.Mins, d.Maxs)
}

var pieceDefs = [NumPieceTypes]PieceDefinition{
	PieceNone: {Type: PieceNone, Name: "None"},
	PieceWall: {
		Type:         PieceWall,
		Name:         "Wall",
		ModelPath:    "models/buildables/wall.md3",
		IconPath:     "gfx/hud/build_wall.tga",
		Mins:         geom.V(-32, -4, 0),
		Maxs:         geom.V(32, 4, 64),
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	PieceFloor: {
		Type:         PieceFloor,
		Name:         "Floor",
		ModelPath:    "models/buildables/floor.md3",
		IconPath:     "gfx/hud/build_floor.tga",
		Mins:         geom.V(-32, -32, -4),
		Maxs:         geom.V(32, 32, 4),
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	PieceRamp: {
		Type:         PieceRamp,
		Name:         "Ramp",
		ModelPath:    "models/buildables/ramp.md3",
		IconPath:     "gfx/hud/build_ramp.tga",
		Mins:         geom.V(-32, -32, 0),
		Maxs:         geom.V(32, 32, 64),
		Health:       DefaultHealth,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
	PieceRoof: {
		Type:         PieceRoof,
		Name:         "Roof",
		ModelPath:    "models/buildables/roof.md3",
		IconPath:     "gfx/hud/build_roof.tga",
		Mins:         geom.V(-32, -32, 0),
		Maxs:         geom.V(32, 32, 32),
		Health:       100,
		MaterialCost: 10,
		GridSnap:     GridSize,
	},
}

// DefinitionFor returns the definition for t. Unknown types yield the None sentinel.
func DefinitionFor(t PieceType) *PieceDefinition {
	if t >= NumPieceTypes {
		return &pieceDefs[PieceNone]
	}
	return &pieceDefs[t]
}

// Pieces returns every buildable definition in type order (None excluded).
func Pieces() []*PieceDefinition {
	out := make([]*PieceDefinition, 0, NumPieceTypes-1)
	for t := PieceWall; t < NumPieceTypes; t++ {
		out = append(out, &pieceDefs[t])
	}
	return out
}
