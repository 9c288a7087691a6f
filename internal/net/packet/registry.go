package packet

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SessionState is the protocol phase of a connection.
type SessionState int

const (
	StateConnected SessionState = iota // accepted, awaiting C_JOIN
	StateInWorld                       // joined, has an actor
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

var (
	ErrEmptyPacket = errors.New("empty packet")
	ErrNotAllowed  = errors.New("opcode not allowed in session state")
)

// HandlerFunc handles one decoded command. The session is passed as an opaque
// value so this package does not depend on the net package.
type HandlerFunc func(sess any, r *Reader)

type route struct {
	fn      HandlerFunc
	allowed uint8 // bit per SessionState
}

// Registry routes client commands to handlers, gated by session state.
type Registry struct {
	routes  [256]*route
	log     *zap.Logger
	dropped uint64
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// Register routes opcode to fn for the listed states. A later registration
// replaces an earlier one.
func (reg *Registry) Register(opcode byte, states []SessionState, fn HandlerFunc) {
	rt := &route{fn: fn}
	for _, s := range states {
		rt.allowed |= 1 << uint(s)
	}
	reg.routes[opcode] = rt
}

// Handles reports whether opcode has a handler.
func (reg *Registry) Handles(opcode byte) bool { return reg.routes[opcode] != nil }

// Dropped counts commands refused for the session state.
func (reg *Registry) Dropped() uint64 { return reg.dropped }

// Dispatch runs the handler for data[0]. Unknown opcodes are ignored; a
// command sent in the wrong state returns ErrNotAllowed. A panicking handler
// is recovered and reported as an error so one bad command cannot stop the
// tick loop.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPacket
	}
	op := data[0]
	rt := reg.routes[op]
	if rt == nil {
		reg.log.Debug("unknown opcode", zap.String("op", OpcodeName(op)), zap.Int("len", len(data)))
		return nil
	}
	if rt.allowed&(1<<uint(state)) == 0 {
		reg.dropped++
		reg.log.Debug("command refused",
			zap.String("op", OpcodeName(op)),
			zap.Stringer("state", state))
		return fmt.Errorf("%s in %s: %w", OpcodeName(op), state, ErrNotAllowed)
	}
	return reg.call(rt.fn, sess, NewReader(data), op)
}

func (reg *Registry) call(fn HandlerFunc, sess any, r *Reader, op byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("op", OpcodeName(op)),
				zap.Any("panic", rec))
			err = fmt.Errorf("handler panic for %s: %v", OpcodeName(op), rec)
		}
	}()
	fn(sess, r)
	return nil
}
