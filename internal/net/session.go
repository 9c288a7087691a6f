package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/quakenite/server/internal/net/packet"
)

// SessionConfig sizes the per-connection queues and limits.
type SessionConfig struct {
	InQueueSize      int
	OutQueueSize     int
	PacketsPerSecond int // 0 = unlimited
	Burst            int
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration // idle limit between frames; 0 = none
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn net.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // game loop reads packets from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	outBuf [][]byte // buffered packets, flushed by the output phase (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	limiter      *rate.Limiter // nil = unlimited; readLoop goroutine only
	writeTimeout time.Duration
	readTimeout  time.Duration

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, cfg SessionConfig, log *zap.Logger) *Session {
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, cfg.InQueueSize),
		OutQueue:     make(chan []byte, cfg.OutQueueSize),
		IP:           conn.RemoteAddr().String(),
		closeCh:      make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
		readTimeout:  cfg.ReadTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
	if cfg.PacketsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.PacketsPerSecond
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.PacketsPerSecond), burst)
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 10 * time.Second
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a packet for sending. The packet is not written to TCP until
// FlushOutput is called in the output phase.
// Called only from the game loop goroutine, no lock needed on outBuf.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// Pending returns the number of buffered, unflushed packets.
func (s *Session) Pending() int { return len(s.outBuf) }

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow client")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// readLoop runs in its own goroutine. It reads frames from the TCP connection
// and pushes them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.limiter != nil && !s.limiter.Allow() {
			s.log.Warn("packet rate exceeded, disconnecting",
				zap.Float64("limit", float64(s.limiter.Limit())),
				zap.Int("burst", s.limiter.Burst()))
			return
		}

		// Block until InQueue has space or session closes. Dropping commands
		// would desync the client's build state, and blocking only stalls this client.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop runs in its own goroutine. A tick's replication arrives as a
// burst on OutQueue; everything already queued goes out in one write.
func (s *Session) writeLoop() {
	defer s.Close()

	buf := make([]byte, 0, 4096)
	for {
		select {
		case data := <-s.OutQueue:
			buf = s.appendPacket(buf[:0], data)
		drain:
			for len(buf) < maxBatchBytes {
				select {
				case more := <-s.OutQueue:
					buf = s.appendPacket(buf, more)
				default:
					break drain
				}
			}
			if !s.write(buf) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

const maxBatchBytes = 32 * 1024

func (s *Session) appendPacket(buf, data []byte) []byte {
	out, err := AppendFrame(buf, data)
	if err != nil {
		s.log.Warn("dropping unframeable packet", zap.Int("len", len(data)), zap.Error(err))
		return buf
	}
	s.log.Debug("TX", zap.String("op", packet.OpcodeName(data[0])), zap.Int("len", len(data)))
	return out
}

// write reports false when the connection failed.
func (s *Session) write(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := s.conn.Write(buf); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
