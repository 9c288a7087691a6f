package handler

import (
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
)

const maxViewHeight = 64

// HandleMove processes C_MOVE: the client-reported origin, view angles and
// eye height. Movement physics lives on the client; the server only needs
// the view to aim placements.
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.GetBySession(sess.ID)
	if p == nil || p.Dead {
		return
	}
	origin := r.ReadVec()
	pitch := r.ReadF()
	yaw := r.ReadF()
	vh := float64(r.ReadH())
	if r.Short() {
		return
	}

	if pitch > 90 {
		pitch = 90
	} else if pitch < -90 {
		pitch = -90
	}
	if vh > maxViewHeight {
		vh = maxViewHeight
	}
	p.Origin = origin
	p.ViewAngles = geom.Angles{Pitch: pitch, Yaw: yaw}
	p.ViewHeight = vh
}
