package packet

import (
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/charmap"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

// Reader decodes the fields of one frame payload. Byte 0 is the opcode.
//
// A read that runs past the end yields the zero value and marks the reader
// short, so handlers can decode a whole command and check once.
type Reader struct {
	data  []byte
	off   int
	short bool
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: 1}
}

func (r *Reader) Opcode() byte {
	if len(r.data) == 0 {
		return 0
	}
	return r.data[0]
}

// Short reports whether any read so far ran past the payload.
func (r *Reader) Short() bool { return r.short }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.off >= len(r.data) {
		return 0
	}
	return len(r.data) - r.off
}

func (r *Reader) take(n int) []byte {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadC() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *Reader) ReadH() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *Reader) ReadDU() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *Reader) ReadD() int32 { return int32(r.ReadDU()) }

// ReadF reads a float32 and widens it.
func (r *Reader) ReadF() float64 {
	return float64(math.Float32frombits(r.ReadDU()))
}

// ReadVec reads three floats as a point.
func (r *Reader) ReadVec() geom.Vec3 {
	x := r.ReadF()
	y := r.ReadF()
	return geom.V(x, y, r.ReadF())
}

// ReadEntity reads a structure handle as slot index then generation.
func (r *Reader) ReadEntity() ecs.EntityID {
	idx := r.ReadDU()
	return ecs.NewEntityID(idx, r.ReadDU())
}

// ReadS reads a NUL-terminated Windows-1252 string as UTF-8. A missing
// terminator consumes the rest of the payload without marking the reader
// short; old consoles omit it on the last field.
func (r *Reader) ReadS() string {
	if r.off >= len(r.data) {
		r.short = true
		return ""
	}
	rest := r.data[r.off:]
	raw := rest
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		raw = rest[:i]
		r.off += i + 1
	} else {
		r.off = len(r.data)
	}
	return decodeConsole(raw)
}

func decodeConsole(raw []byte) string {
	ascii := true
	for _, b := range raw {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
