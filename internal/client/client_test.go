package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quakenite/server/internal/building"
	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

type recorder struct {
	sent [][]byte
}

func (r *recorder) Send(p []byte) error {
	r.sent = append(r.sent, append([]byte(nil), p...))
	return nil
}

func (r *recorder) ops() []byte {
	var out []byte
	for _, p := range r.sent {
		out = append(out, p[0])
	}
	return out
}

var flatArena = &data.ArenaMap{
	Brushes: []data.Brush{{Name: "ground", Bounds: geom.AABB{Min: geom.V(-2048, -2048, -64), Max: geom.V(2048, 2048, 0)}}},
}

var lookDown = geom.Angles{Pitch: 90}

func modelTable(paths ...string) []byte {
	w := packet.NewWriterWithOpcode(packet.S_MODEL_TABLE)
	w.WriteH(uint16(len(paths)))
	for i, p := range paths {
		w.WriteH(uint16(i + 1))
		w.WriteS(p)
	}
	return w.Bytes()
}

func spawnPacket(id ecs.EntityID, t data.PieceType, origin geom.Vec3, health int) []byte {
	w := packet.NewWriterWithOpcode(packet.S_STRUCTURE_SPAWN)
	w.WriteEntity(id)
	w.WriteC(byte(t))
	w.WriteVec(origin)
	w.WriteH(0)
	w.WriteH(1)
	w.WriteD(int32(health))
	return w.Bytes()
}

func newController(t *testing.T) (*Controller, *Mirror, *recorder) {
	t.Helper()
	m := NewMirror()
	require.NoError(t, m.Apply(modelTable(data.DefinitionFor(data.PieceWall).ModelPath, data.DefinitionFor(data.PieceFloor).ModelPath)))
	rec := &recorder{}
	return NewController(flatArena, m, rec), m, rec
}

func TestNoGhostOutsideBuildMode(t *testing.T) {
	c, _, _ := newController(t)
	p := c.UpdatePreview(View{Origin: geom.V(10, 10, 100), Angles: lookDown})
	assert.False(t, p.Valid)
	_, ok := c.Ghost()
	assert.False(t, ok)
}

func TestPreviewSnapsHitToGrid(t *testing.T) {
	c, _, rec := newController(t)
	require.NoError(t, c.ToggleBuildMode())

	p := c.UpdatePreview(View{Origin: geom.V(10, 10, 100), Angles: lookDown})
	require.True(t, p.Valid)
	assert.True(t, p.CanPlace)
	assert.Equal(t, geom.V(0, 0, 0), p.Origin)

	g, ok := c.Ghost()
	require.True(t, ok)
	assert.Equal(t, 1, g.Model)
	assert.Equal(t, TintValid, g.Tint)

	placed, err := c.Place()
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, []byte{packet.C_BUILD_MODE, packet.C_BUILD_PLACE}, rec.ops())
}

func TestPreviewMissIsDenied(t *testing.T) {
	c, _, rec := newController(t)
	require.NoError(t, c.ToggleBuildMode())

	// Looking at the sky: nothing within range.
	p := c.UpdatePreview(View{Origin: geom.V(0, 0, 100), Angles: geom.Angles{Pitch: -90}})
	assert.False(t, p.CanPlace)
	g, ok := c.Ghost()
	require.True(t, ok)
	assert.Equal(t, TintDenied, g.Tint)

	placed, err := c.Place()
	require.NoError(t, err)
	assert.False(t, placed)
	assert.Equal(t, []byte{packet.C_BUILD_MODE}, rec.ops())
}

func TestPreviewEmbeddedStartIsDenied(t *testing.T) {
	c, _, _ := newController(t)
	require.NoError(t, c.ToggleBuildMode())
	p := c.UpdatePreview(View{Origin: geom.V(0, 0, -10), Angles: lookDown})
	assert.False(t, p.CanPlace)
}

func TestNoGhostWithoutModel(t *testing.T) {
	m := NewMirror()
	c := NewController(flatArena, m, &recorder{})
	require.NoError(t, c.ToggleBuildMode())
	c.UpdatePreview(View{Origin: geom.V(0, 0, 100), Angles: lookDown})
	_, ok := c.Ghost()
	assert.False(t, ok)
}

func TestPreviewTracesMirroredStructures(t *testing.T) {
	c, m, _ := newController(t)
	require.NoError(t, c.ToggleBuildMode())

	id := ecs.NewEntityID(3, 1)
	require.NoError(t, m.Apply(spawnPacket(id, data.PieceFloor, geom.V(0, 0, 64), 150)))
	require.Equal(t, 1, m.StructureCount())

	// The floor top is at z=68; the hit snaps up to the next grid level.
	p := c.UpdatePreview(View{Origin: geom.V(0, 0, 200), Angles: lookDown})
	assert.Equal(t, geom.V(0, 0, 64), p.Origin)

	hp := packet.NewWriterWithOpcode(packet.S_STRUCTURE_HEALTH)
	hp.WriteEntity(id)
	hp.WriteD(40)
	require.NoError(t, m.Apply(hp.Bytes()))
	rep, ok := m.Structure(id)
	require.True(t, ok)
	assert.Equal(t, 40, rep.Health)

	rm := packet.NewWriterWithOpcode(packet.S_STRUCTURE_REMOVE)
	rm.WriteEntity(id)
	require.NoError(t, m.Apply(rm.Bytes()))
	assert.Equal(t, 0, m.StructureCount())

	p = c.UpdatePreview(View{Origin: geom.V(0, 0, 200), Angles: lookDown})
	assert.Equal(t, geom.V(0, 0, 0), p.Origin)
}

func failEvent(actor int32) []byte {
	w := packet.NewWriterWithOpcode(packet.S_EVENT)
	w.WriteC(packet.EventFail)
	w.WriteD(actor)
	w.WriteC(0)
	w.WriteVec(geom.Vec3{})
	return w.Bytes()
}

func TestFailEventDeniesGhostUntilAimMoves(t *testing.T) {
	c, m, _ := newController(t)
	welcome := packet.NewWriterWithOpcode(packet.S_WELCOME)
	welcome.WriteD(4)
	require.NoError(t, m.Apply(welcome.Bytes()))
	require.NoError(t, c.ToggleBuildMode())
	here := View{Origin: geom.V(0, 0, 100), Angles: lookDown}
	c.UpdatePreview(here)

	// Someone else's failure changes nothing.
	require.NoError(t, m.Apply(failEvent(5)))
	g, _ := c.Ghost()
	assert.Equal(t, TintValid, g.Tint)

	// The frame loop recomputes the preview before drawing; at the same
	// cell the refusal stays visible.
	require.NoError(t, m.Apply(failEvent(4)))
	c.UpdatePreview(here)
	c.UpdatePreview(View{Origin: geom.V(10, -10, 100), Angles: lookDown})
	g, _ = c.Ghost()
	assert.Equal(t, TintDenied, g.Tint)
	assert.True(t, c.Denied())

	// Aiming at another cell clears it.
	p := c.UpdatePreview(View{Origin: geom.V(100, 0, 100), Angles: lookDown})
	assert.Equal(t, geom.V(128, 0, 0), p.Origin)
	g, _ = c.Ghost()
	assert.Equal(t, TintValid, g.Tint)
}

func TestPlaceClearsDenial(t *testing.T) {
	c, m, rec := newController(t)
	welcome := packet.NewWriterWithOpcode(packet.S_WELCOME)
	welcome.WriteD(4)
	require.NoError(t, m.Apply(welcome.Bytes()))
	require.NoError(t, c.ToggleBuildMode())
	here := View{Origin: geom.V(0, 0, 100), Angles: lookDown}
	c.UpdatePreview(here)

	require.NoError(t, m.Apply(failEvent(4)))
	c.UpdatePreview(here)
	require.True(t, c.Denied())

	placed, err := c.Place()
	require.NoError(t, err)
	assert.True(t, placed)
	assert.False(t, c.Denied())
	assert.Equal(t, []byte{packet.C_BUILD_MODE, packet.C_BUILD_PLACE}, rec.ops())

	// Leaving build mode drops a pending refusal too.
	require.NoError(t, m.Apply(failEvent(4)))
	require.NoError(t, c.ToggleBuildMode())
	assert.False(t, c.Denied())
}

func TestLocalCommands(t *testing.T) {
	c, _, rec := newController(t)

	// Inactive: select and rotate are local no-ops and send nothing.
	require.NoError(t, c.SelectPiece(data.PieceFloor))
	require.NoError(t, c.Rotate())
	assert.Empty(t, rec.sent)

	require.NoError(t, c.ToggleBuildMode())
	require.NoError(t, c.SelectPiece(data.PieceNone))
	require.NoError(t, c.SelectPiece(data.NumPieceTypes))
	require.NoError(t, c.SelectPiece(data.PieceRamp))
	require.NoError(t, c.Rotate())
	assert.Equal(t, []byte{packet.C_BUILD_MODE, packet.C_BUILD_SELECT, packet.C_BUILD_ROTATE}, rec.ops())
	assert.Equal(t, byte(data.PieceRamp), rec.sent[1][1])
	assert.Equal(t, data.PieceRamp, c.Build().SelectedType)
	assert.Equal(t, 90, c.Build().Rotation)

	// Leaving build mode drops the preview.
	c.UpdatePreview(View{Origin: geom.V(0, 0, 100), Angles: lookDown})
	require.NoError(t, c.ToggleBuildMode())
	assert.False(t, c.Preview().Valid)
}

func TestAuthoritativeStateWins(t *testing.T) {
	c, m, _ := newController(t)
	require.NoError(t, c.ToggleBuildMode())

	w := packet.NewWriterWithOpcode(packet.S_PLAYER_STATE)
	w.WriteD(40)
	w.WriteC(0)
	w.WriteC(byte(data.PieceWall))
	w.WriteH(0)
	require.NoError(t, m.Apply(w.Bytes()))

	assert.False(t, c.Build().Active)
	assert.Equal(t, 40, m.State().Materials)
}

func TestMirrorRejectsUnknownOpcode(t *testing.T) {
	m := NewMirror()
	assert.Error(t, m.Apply([]byte{packet.C_JOIN}))
	assert.Error(t, m.Apply(nil))

	// A spawn cut short is refused without creating a replica.
	full := spawnPacket(ecs.NewEntityID(1, 1), data.PieceWall, geom.V(0, 0, 0), 150)
	assert.ErrorContains(t, m.Apply(full[:len(full)-2]), "truncated S_STRUCTURE_SPAWN")
	assert.Equal(t, 0, m.StructureCount())
}

func playerState(materials int32, active bool, t data.PieceType, rotation uint16) []byte {
	w := packet.NewWriterWithOpcode(packet.S_PLAYER_STATE)
	w.WriteD(materials)
	a := byte(0)
	if active {
		a = 1
	}
	w.WriteC(a)
	w.WriteC(byte(t))
	w.WriteH(rotation)
	return w.Bytes()
}

func TestTruncatedPacketsLeaveMirrorUntouched(t *testing.T) {
	c, m, _ := newController(t)
	states := 0
	inner := m.OnState
	m.OnState = func(st PlayerState) { states++; inner(st) }

	require.NoError(t, m.Apply(playerState(90, true, data.PieceRamp, 90)))
	require.Equal(t, 1, states)

	// Only the materials field arrived.
	err := m.Apply(playerState(7, false, data.PieceNone, 0)[:5])
	assert.ErrorContains(t, err, "truncated S_PLAYER_STATE")
	assert.Equal(t, PlayerState{Materials: 90, Active: true, SelectedType: data.PieceRamp, Rotation: 90}, m.State())
	assert.Equal(t, 1, states, "hook not called")
	assert.True(t, c.Build().Active)
	assert.Equal(t, data.PieceRamp, c.Build().SelectedType)

	id := ecs.NewEntityID(2, 1)
	require.NoError(t, m.Apply(spawnPacket(id, data.PieceWall, geom.V(0, 0, 0), 150)))
	hp := packet.NewWriterWithOpcode(packet.S_STRUCTURE_HEALTH)
	hp.WriteEntity(id)
	hp.WriteD(40)
	assert.ErrorContains(t, m.Apply(hp.Bytes()[:len(hp.Bytes())-2]), "truncated S_STRUCTURE_HEALTH")
	rep, ok := m.Structure(id)
	require.True(t, ok)
	assert.Equal(t, 150, rep.Health)

	rm := packet.NewWriterWithOpcode(packet.S_STRUCTURE_REMOVE)
	rm.WriteEntity(id)
	assert.Error(t, m.Apply(rm.Bytes()[:5]))
	assert.Equal(t, 1, m.StructureCount())

	// A model table cut inside its second index adds nothing.
	table := modelTable("models/a.md3", "models/b.md3")
	assert.ErrorContains(t, m.Apply(table[:19]), "truncated S_MODEL_TABLE")
	_, ok = m.ModelHandle("models/a.md3")
	assert.False(t, ok)
	_, ok = m.ModelHandle("")
	assert.False(t, ok)

	denied := false
	m.OnDenied = func() { denied = true }
	fail := failEvent(m.ActorID())
	assert.Error(t, m.Apply(fail[:len(fail)-4]))
	assert.False(t, denied)
}

// The preview never tests structure overlap, and its mirror may be stale, so a
// spot it accepts can still be refused by the server.
func TestPreviewAcceptanceDoesNotImplyServerAcceptance(t *testing.T) {
	ws := world.NewState(world.Options{MaxEntities: 16, Arena: flatArena})
	settings := building.Settings{Enabled: true, StartMaterials: 100, MaxStructures: 8}
	v := building.NewValidator(settings, ws, ws.Structures())
	sp := building.NewSpawner(ws, v, nil, zap.NewNop())
	_, err := sp.Spawn(data.PieceWall, geom.V(0, 0, 0), 0, nil)
	require.NoError(t, err)

	// The observer has not received the wall yet.
	c, _, _ := newController(t)
	require.NoError(t, c.ToggleBuildMode())
	p := c.UpdatePreview(View{Origin: geom.V(16, 0, 100), Angles: lookDown})
	require.True(t, p.CanPlace)

	err = v.Check(data.PieceWall, p.Origin, nil)
	assert.ErrorIs(t, err, building.ErrBlocked)
	assert.Equal(t, building.ClassGeometric, building.Classify(err))
}
