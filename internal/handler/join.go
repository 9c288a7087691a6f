package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

const maxNameLen = 32

// sanitizeName strips control characters and clamps the length.
func sanitizeName(raw string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if name == "" {
		return "player"
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	return name
}

// HandleJoin processes C_JOIN: creates the actor, spawns it and sends the
// model table. Structures reach the client through replication.
func HandleJoin(sess *net.Session, r *packet.Reader, deps *Deps) {
	if deps.World.GetBySession(sess.ID) != nil {
		return
	}
	p := &world.PlayerInfo{
		SessionID: sess.ID,
		Session:   sess,
		Name:      sanitizeName(r.ReadS()),
	}
	deps.World.AddPlayer(p)
	sess.SetState(packet.StateInWorld)

	SendWelcome(sess, p.ActorID)
	SendModelTable(sess, deps.World.Models.Models())
	deps.Build.PlayerSpawned(p, int(p.ActorID))
	SendPrint(sess, "Welcome to "+deps.Config.Server.Name)

	deps.Log.Info("player joined",
		zap.Uint64("session", sess.ID),
		zap.Int32("actor", p.ActorID),
		zap.String("name", p.Name))
}

// HandleQuit processes C_QUIT. The input phase removes the actor once the
// session is closed.
func HandleQuit(sess *net.Session, _ *packet.Reader, _ *Deps) {
	sess.Close()
}
