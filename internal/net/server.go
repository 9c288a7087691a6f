package net

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Server accepts TCP clients and hands started sessions to the tick loop.
// The accept goroutine never touches game state.
type Server struct {
	listener   net.Listener
	nextID     atomic.Uint64
	live       atomic.Int32
	maxClients int32
	newConns   chan *Session
	sessCfg    SessionConfig
	log        *zap.Logger
	closed     atomic.Bool
}

// NewServer listens on bindAddr. maxClients <= 0 means no client limit.
func NewServer(bindAddr string, sessCfg SessionConfig, maxClients int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:   ln,
		maxClients: int32(maxClients),
		newConns:   make(chan *Session, 64),
		sessCfg:    sessCfg,
		log:        log,
	}, nil
}

// AcceptLoop runs in its own goroutine until Shutdown. Transient accept
// errors back off up to one second.
func (s *Server) AcceptLoop() {
	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			s.log.Error("accept failed", zap.Error(err), zap.Duration("retry_in", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		if tc, ok := conn.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
		}
		if s.maxClients > 0 && s.live.Load() >= s.maxClients {
			s.log.Warn("server full, rejecting client", zap.String("ip", conn.RemoteAddr().String()))
			conn.Close()
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.sessCfg, s.log)
		select {
		case s.newConns <- sess:
			s.live.Add(1)
			sess.Start()
			s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))
		default:
			s.log.Warn("connection queue full, rejecting client")
			sess.Close()
		}
	}
}

// NewSessions delivers accepted sessions to the tick loop.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// NotifyDead releases the client slot of a reaped session.
func (s *Server) NotifyDead(sessionID uint64) {
	s.live.Add(-1)
	s.log.Debug("session reaped", zap.Uint64("session", sessionID), zap.Int32("live", s.live.Load()))
}

// Live is the number of connected clients.
func (s *Server) Live() int { return int(s.live.Load()) }

// Shutdown stops accepting new connections. Existing sessions are untouched.
func (s *Server) Shutdown() {
	if s.closed.CompareAndSwap(false, true) {
		s.listener.Close()
	}
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
