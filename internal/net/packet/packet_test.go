package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

func TestWriterReaderFields(t *testing.T) {
	w := NewWriterWithOpcode(S_STRUCTURE_SPAWN)
	w.WriteDU(7)
	w.WriteC(2)
	w.WriteF(-32.5)
	w.WriteH(270)
	w.WriteD(-150)
	w.WriteS("Selected: Wall")

	r := NewReader(w.Bytes())
	assert.Equal(t, S_STRUCTURE_SPAWN, r.Opcode())
	assert.Equal(t, uint32(7), r.ReadDU())
	assert.Equal(t, byte(2), r.ReadC())
	assert.Equal(t, -32.5, r.ReadF())
	assert.Equal(t, uint16(270), r.ReadH())
	assert.Equal(t, int32(-150), r.ReadD())
	assert.Equal(t, "Selected: Wall", r.ReadS())
	assert.Equal(t, 0, r.Remaining())
	assert.False(t, r.Short())
}

func TestVecAndEntityFields(t *testing.T) {
	id := ecs.NewEntityID(12, 3)
	w := NewWriterWithOpcode(S_STRUCTURE_HEALTH)
	w.WriteEntity(id)
	w.WriteVec(geom.V(64, -128, 4.5))
	assert.Len(t, w.Bytes(), 1+8+12)

	r := NewReader(w.Bytes())
	assert.Equal(t, id, r.ReadEntity())
	assert.Equal(t, geom.V(64, -128, 4.5), r.ReadVec())
	assert.False(t, r.Short())
}

func TestStringsUseWindows1252(t *testing.T) {
	w := NewWriterWithOpcode(S_PRINT)
	w.WriteS("café €5")
	w.WriteS("日本")
	raw := w.Bytes()
	assert.Equal(t, []byte{S_PRINT, 'c', 'a', 'f', 0xE9, ' ', 0x80, '5', 0, '?', '?', 0}, raw)

	r := NewReader(raw)
	assert.Equal(t, "café €5", r.ReadS())
	assert.Equal(t, "??", r.ReadS())
}

func TestReaderPastEndReturnsZero(t *testing.T) {
	r := NewReader([]byte{C_BUILD_SELECT})
	assert.Equal(t, byte(0), r.ReadC())
	assert.Equal(t, uint16(0), r.ReadH())
	assert.Equal(t, int32(0), r.ReadD())
	assert.Equal(t, 0.0, r.ReadF())
	assert.Equal(t, "", r.ReadS())
	assert.True(t, r.Short())

	assert.Equal(t, byte(0), NewReader(nil).Opcode())

	// A field cut in half is short too, and reading stops there.
	r = NewReader([]byte{C_ATTACK, 0x10})
	assert.Equal(t, uint16(0), r.ReadH())
	assert.True(t, r.Short())
	assert.Equal(t, 0, r.Remaining())
}

func TestUnterminatedString(t *testing.T) {
	r := NewReader([]byte{C_JOIN, 'b', 'o', 't'})
	assert.Equal(t, "bot", r.ReadS())
	assert.False(t, r.Short())
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var got []byte
	reg.Register(C_BUILD_SELECT, []SessionState{StateInWorld}, func(_ any, r *Reader) {
		got = append(got, r.ReadC())
	})
	reg.Register(C_ATTACK, []SessionState{StateInWorld}, func(any, *Reader) {
		panic("bad packet")
	})

	require.NoError(t, reg.Dispatch(nil, StateInWorld, []byte{C_BUILD_SELECT, 3}))
	assert.Equal(t, []byte{3}, got)

	assert.ErrorIs(t, reg.Dispatch(nil, StateConnected, []byte{C_BUILD_SELECT, 2}), ErrNotAllowed)
	assert.Equal(t, []byte{3}, got)
	assert.Equal(t, uint64(1), reg.Dropped())
	assert.True(t, reg.Handles(C_ATTACK))
	assert.False(t, reg.Handles(C_QUIT))

	assert.NoError(t, reg.Dispatch(nil, StateInWorld, []byte{200}), "unknown opcodes are ignored")
	assert.ErrorIs(t, reg.Dispatch(nil, StateInWorld, nil), ErrEmptyPacket)
	assert.ErrorContains(t, reg.Dispatch(nil, StateInWorld, []byte{C_ATTACK}), "panic")
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "InWorld", StateInWorld.String())
	assert.Equal(t, "Unknown(9)", SessionState(9).String())
}

func TestOpcodeName(t *testing.T) {
	assert.Equal(t, "C_BUILD_PLACE", OpcodeName(C_BUILD_PLACE))
	assert.Equal(t, "S_EVENT", OpcodeName(S_EVENT))
	assert.Equal(t, "op200", OpcodeName(200))
}
