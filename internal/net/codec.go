package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frames are [u16 LE total length, header included][payload]. Game commands
// and replication packets are small; MaxPayload bounds what a peer can make
// the reader allocate.
const (
	frameHeader = 2
	MaxPayload  = 8 * 1024
)

var ErrFrameSize = errors.New("frame size out of range")

// ReadFrame reads one frame and returns its payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [frameHeader]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	n := int(binary.LittleEndian.Uint16(hdr[:])) - frameHeader
	if n <= 0 || n > MaxPayload {
		return nil, fmt.Errorf("read frame: payload %d: %w", n, ErrFrameSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", n, err)
	}
	return payload, nil
}

// AppendFrame appends the framed payload to dst.
func AppendFrame(dst, payload []byte) ([]byte, error) {
	if len(payload) == 0 || len(payload) > MaxPayload {
		return dst, fmt.Errorf("write frame: payload %d: %w", len(payload), ErrFrameSize)
	}
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(payload)+frameHeader))
	return append(dst, payload...), nil
}

// WriteFrame writes one frame with a single Write call, so frames from
// different writers never interleave on a conn.
func WriteFrame(w io.Writer, payload []byte) error {
	buf, err := AppendFrame(make([]byte, 0, len(payload)+frameHeader), payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
