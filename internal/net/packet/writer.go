package packet

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/charmap"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

// Writer builds a frame payload; multi-byte fields are little-endian.
type Writer struct {
	buf []byte
}

// NewWriterWithOpcode starts a payload with its opcode byte.
func NewWriterWithOpcode(opcode byte) *Writer {
	w := &Writer{buf: make([]byte, 1, 48)}
	w.buf[0] = opcode
	return w
}

func (w *Writer) WriteC(v byte) { w.buf = append(w.buf, v) }

func (w *Writer) WriteH(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) WriteDU(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) WriteD(v int32) { w.WriteDU(uint32(v)) }

// WriteF narrows v to float32.
func (w *Writer) WriteF(v float64) { w.WriteDU(math.Float32bits(float32(v))) }

func (w *Writer) WriteVec(v geom.Vec3) {
	w.WriteF(v.X)
	w.WriteF(v.Y)
	w.WriteF(v.Z)
}

func (w *Writer) WriteEntity(id ecs.EntityID) {
	w.WriteDU(id.Index())
	w.WriteDU(id.Generation())
}

// WriteS writes s as NUL-terminated Windows-1252. Runes outside the code
// page become '?'.
func (w *Writer) WriteS(s string) {
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		w.buf = append(w.buf, b)
	}
	w.buf = append(w.buf, 0)
}

func (w *Writer) Bytes() []byte { return w.buf }
