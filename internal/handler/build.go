package handler

import (
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
)

// HandleBuildMode processes C_BUILD_MODE.
// Thin handler: parse → delegate to building.Commands.
func HandleBuildMode(sess *net.Session, _ *packet.Reader, deps *Deps) {
	if p := deps.World.GetBySession(sess.ID); p != nil {
		deps.Build.ToggleBuildMode(p)
	}
}

// HandleBuildSelect processes C_BUILD_SELECT [C piece type].
func HandleBuildSelect(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.GetBySession(sess.ID)
	if p == nil {
		return
	}
	deps.Build.SelectPiece(p, data.PieceType(r.ReadC()))
}

// HandleBuildRotate processes C_BUILD_ROTATE.
func HandleBuildRotate(sess *net.Session, _ *packet.Reader, deps *Deps) {
	if p := deps.World.GetBySession(sess.ID); p != nil {
		deps.Build.Rotate(p)
	}
}

// HandleBuildPlace processes C_BUILD_PLACE. Rejections are reported to the
// client by the command itself.
func HandleBuildPlace(sess *net.Session, _ *packet.Reader, deps *Deps) {
	if p := deps.World.GetBySession(sess.ID); p != nil {
		_, _ = deps.Build.Place(p)
	}
}

// HandleRespawn processes C_RESPAWN: back to a spawn point with fresh
// materials and build state.
func HandleRespawn(sess *net.Session, _ *packet.Reader, deps *Deps) {
	if p := deps.World.GetBySession(sess.ID); p != nil {
		deps.Build.PlayerSpawned(p, int(p.ActorID))
	}
}
