package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quakenite/server/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionFor_TotalFunction(t *testing.T) {
	wall := DefinitionFor(PieceWall)
	assert.Equal(t, "Wall", wall.Name)
	assert.Equal(t, geom.V(-32, -4, 0), wall.Mins)
	assert.Equal(t, geom.V(32, 4, 64), wall.Maxs)
	assert.Equal(t, 150, wall.Health)
	assert.Equal(t, 10, wall.MaterialCost)
	assert.Equal(t, 64.0, wall.GridSnap)

	assert.Equal(t, 100, DefinitionFor(PieceRoof).Health)

	none := DefinitionFor(PieceType(200))
	assert.Equal(t, PieceNone, none.Type)
	assert.Same(t, DefinitionFor(PieceNone), none)
	assert.True(t, none.Bounds(geom.V(5, 5, 5)).Empty())
}

func TestPieceType_Valid(t *testing.T) {
	assert.False(t, PieceNone.Valid())
	assert.True(t, PieceWall.Valid())
	assert.True(t, PieceRoof.Valid())
	assert.False(t, NumPieceTypes.Valid())
}

func TestParsePieceType(t *testing.T) {
	p, err := ParsePieceType("3")
	require.NoError(t, err)
	assert.Equal(t, PieceRamp, p)

	p, err = ParsePieceType("0")
	require.NoError(t, err)
	assert.Equal(t, PieceNone, p)

	p, err = ParsePieceType("9")
	require.NoError(t, err)
	assert.Equal(t, PieceNone, p)

	_, err = ParsePieceType("wall")
	assert.Error(t, err)
}

func TestParsePieceList(t *testing.T) {
	got, err := ParsePieceList("1, 2,4")
	require.NoError(t, err)
	assert.Equal(t, []PieceType{PieceWall, PieceFloor, PieceRoof}, got)

	_, err = ParsePieceList("1,0")
	assert.ErrorContains(t, err, "not a buildable piece")
	_, err = ParsePieceList("1,ramp")
	assert.Error(t, err)
	_, err = ParsePieceList("")
	assert.Error(t, err)
}

type recordingRegistrar struct {
	models, icons []string
}

func (r *recordingRegistrar) RegisterModel(p string) int { r.models = append(r.models, p); return len(r.models) }
func (r *recordingRegistrar) RegisterIcon(p string) int  { r.icons = append(r.icons, p); return len(r.icons) }

func TestPrecache_RegistersEveryPieceOnce(t *testing.T) {
	reg := &recordingRegistrar{}
	n := Precache(reg)

	assert.Equal(t, 4, n)
	assert.Equal(t, []string{
		"models/buildables/wall.md3",
		"models/buildables/floor.md3",
		"models/buildables/ramp.md3",
		"models/buildables/roof.md3",
	}, reg.models)
	assert.Len(t, reg.icons, 4)
}

func TestModelTable_StableIndices(t *testing.T) {
	mt := NewModelTable()
	Precache(mt)
	wall := mt.ModelIndex("models/buildables/wall.md3")
	assert.Equal(t, 1, wall)
	assert.Equal(t, wall, mt.RegisterModel("models/buildables/wall.md3"))
	assert.Equal(t, 0, mt.RegisterModel(""))
	assert.Equal(t, 0, mt.ModelIndex("models/unknown.md3"))
	assert.Len(t, mt.Models(), 5)
}

const arenaYAML = `
name: testarena
brushes:
  - name: ground
    mins: [-1024, -1024, -64]
    maxs: [1024, 1024, 0]
  - name: pillar
    mins: [200, 200, 0]
    maxs: [264, 264, 256]
spawns:
  - origin: [0, 0, 24]
    yaw: 90
  - origin: [100, 0, 24]
`

func TestLoadArenaMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arenaYAML), 0644))

	m, err := LoadArenaMap(path)
	require.NoError(t, err)
	assert.Equal(t, "testarena", m.Name)
	require.Len(t, m.Brushes, 2)
	assert.Equal(t, geom.V(200, 200, 0), m.Brushes[1].Bounds.Min)
	assert.Len(t, m.Solids(), 2)
	assert.Equal(t, 90.0, m.Spawn(0).Yaw)
	assert.Equal(t, geom.V(100, 0, 24), m.Spawn(3).Origin)
}

func TestParseArenaMap_RejectsEmptyBrush(t *testing.T) {
	_, err := ParseArenaMap([]byte("brushes:\n  - name: bad\n    mins: [0, 0, 0]\n    maxs: [0, 10, 10]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty bounds")
}

func TestLoadArenaMap_MissingFile(t *testing.T) {
	_, err := LoadArenaMap("/nonexistent/arena.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read arena map")
}

func TestShippedArenaSpawnsAreClear(t *testing.T) {
	m, err := LoadArenaMap("../../data/maps/qnarena1.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, m.Spawns)
	for _, s := range m.Spawns {
		for _, b := range m.Brushes {
			assert.False(t, b.Bounds.ContainsStrict(s.Origin), "spawn %v inside %s", s.Origin, b.Name)
		}
	}
}
