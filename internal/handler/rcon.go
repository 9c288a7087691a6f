package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// HandleRcon processes C_RCON [S password][S command]. The bcrypt check and
// any ledger query run off the game loop; the reply is sent when the
// completion is drained. A session gets one request in flight at a time.
func HandleRcon(sess *net.Session, r *packet.Reader, deps *Deps) {
	password := r.ReadS()
	command := strings.TrimSpace(r.ReadS())

	hash := deps.Config.Admin.RconPasswordHash
	if hash == "" {
		SendPrint(sess, "rcon is disabled on this server")
		return
	}

	key := "rcon:" + strconv.FormatUint(sess.ID, 10)
	started := deps.Async.Go(key, func() func() {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return func() {
				deps.Log.Warn("rcon bad password", zap.Uint64("session", sess.ID), zap.String("ip", sess.IP))
				SendPrint(sess, "Bad rcon password")
			}
		}
		// The ledger lives in the database, so answer it here too.
		var reply string
		if fields := strings.Fields(command); len(fields) > 0 && strings.EqualFold(fields[0], "ledger") {
			reply = rconLedger(fields[1:], deps)
		}
		return func() {
			deps.Log.Info("rcon", zap.Uint64("session", sess.ID), zap.String("cmd", command))
			if reply == "" {
				reply = RunRcon(command, deps)
			}
			SendPrint(sess, reply)
		}
	})
	if !started {
		SendPrint(sess, "rcon request already pending")
	}
}

// RunRcon executes one game-state command on the loop and returns its output.
// ledger is answered by HandleRcon's off-loop job instead.
func RunRcon(command string, deps *Deps) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "usage: clearstructures | structures | status | ledger <actor>"
	}
	switch strings.ToLower(fields[0]) {
	case "clearstructures":
		n := deps.World.ClearStructures()
		return fmt.Sprintf("Removed %d structures", n)
	case "structures":
		return fmt.Sprintf("%d/%d structures, %d entities live",
			deps.World.Structures().Count(),
			deps.Config.Building.MaxStructures,
			deps.World.ECS().Pool().Live())
	case "status":
		var b strings.Builder
		fmt.Fprintf(&b, "%d players", deps.World.PlayerCount())
		deps.World.AllPlayers(func(p *world.PlayerInfo) {
			fmt.Fprintf(&b, "\n%3d %-16s materials=%d build=%v", p.ActorID, p.Name, p.Materials, p.Build.Active)
		})
		return b.String()
	}
	return "Unknown command: " + fields[0]
}

// rconLedger queries the database. It blocks for up to two seconds and is
// only called from an Async job.
func rconLedger(args []string, deps *Deps) string {
	if deps.Ledger == nil {
		return "build ledger is disabled"
	}
	if len(args) != 1 {
		return "usage: ledger <actor>"
	}
	actor, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return "bad actor id: " + args[0]
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	placed, destroyed, err := deps.Ledger.CountByOwner(ctx, int32(actor))
	if err != nil {
		deps.Log.Error("rcon ledger query", zap.Error(err))
		return "ledger query failed"
	}
	return fmt.Sprintf("actor %d: %d placed, %d destroyed", actor, placed, destroyed)
}
