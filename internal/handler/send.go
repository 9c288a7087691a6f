package handler

import (
	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// All senders tolerate a nil session (bots, tests).

// SendPrint sends S_PRINT: one console line.
func SendPrint(sess *net.Session, text string) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_PRINT)
	w.WriteS(text)
	sess.Send(w.Bytes())
}

// SendWelcome sends S_WELCOME with the actor ID assigned on join.
func SendWelcome(sess *net.Session, actorID int32) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_WELCOME)
	w.WriteD(actorID)
	sess.Send(w.Bytes())
}

// SendModelTable sends S_MODEL_TABLE: every registered model path by index.
// Index 0 ("no model") is skipped.
func SendModelTable(sess *net.Session, models []string) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_MODEL_TABLE)
	n := 0
	for _, m := range models {
		if m != "" {
			n++
		}
	}
	w.WriteH(uint16(n))
	for i, m := range models {
		if m == "" {
			continue
		}
		w.WriteH(uint16(i))
		w.WriteS(m)
	}
	sess.Send(w.Bytes())
}

// SendPlayerState sends S_PLAYER_STATE: the replicated materials and build state.
func SendPlayerState(sess *net.Session, p *world.PlayerInfo) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_PLAYER_STATE)
	w.WriteD(int32(p.Materials))
	active := byte(0)
	if p.Build.Active {
		active = 1
	}
	w.WriteC(active)
	w.WriteC(byte(p.Build.SelectedType))
	w.WriteH(uint16(p.Build.Rotation))
	sess.Send(w.Bytes())
}

// SendStructureSpawn sends S_STRUCTURE_SPAWN with every replicated field.
func SendStructureSpawn(sess *net.Session, st *world.Structure) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_STRUCTURE_SPAWN)
	w.WriteEntity(st.ID)
	w.WriteC(byte(st.PieceType))
	w.WriteVec(st.Origin)
	w.WriteH(uint16(st.Yaw))
	w.WriteH(uint16(st.ModelIndex))
	w.WriteD(int32(st.Health))
	sess.Send(w.Bytes())
}

// SendStructureHealth sends S_STRUCTURE_HEALTH.
func SendStructureHealth(sess *net.Session, id ecs.EntityID, health int) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_STRUCTURE_HEALTH)
	w.WriteEntity(id)
	w.WriteD(int32(health))
	sess.Send(w.Bytes())
}

// SendStructureRemove sends S_STRUCTURE_REMOVE.
func SendStructureRemove(sess *net.Session, id ecs.EntityID) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_STRUCTURE_REMOVE)
	w.WriteEntity(id)
	sess.Send(w.Bytes())
}

// SendEvent sends S_EVENT: a place, fail or destroy effect.
func SendEvent(sess *net.Session, kind byte, actor int32, pieceType uint8, origin geom.Vec3) {
	if sess == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_EVENT)
	w.WriteC(kind)
	w.WriteD(actor)
	w.WriteC(pieceType)
	w.WriteVec(origin)
	sess.Send(w.Bytes())
}

// SessionPrinter prints console lines over the actor's session.
type SessionPrinter struct{}

func (SessionPrinter) Print(p *world.PlayerInfo, text string) {
	SendPrint(p.Session, text)
}
