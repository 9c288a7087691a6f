package client

import (
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net/packet"
)

// Join sends C_JOIN with the display name.
func Join(s Sender, name string) error {
	w := packet.NewWriterWithOpcode(packet.C_JOIN)
	w.WriteS(name)
	return s.Send(w.Bytes())
}

// Move reports the actor's feet origin, view angles and view height.
func Move(s Sender, origin geom.Vec3, angles geom.Angles, viewHeight int) error {
	w := packet.NewWriterWithOpcode(packet.C_MOVE)
	w.WriteVec(origin)
	w.WriteF(angles.Pitch)
	w.WriteF(angles.Yaw)
	w.WriteH(uint16(viewHeight))
	return s.Send(w.Bytes())
}

func Respawn(s Sender) error { return s.Send([]byte{packet.C_RESPAWN}) }
func Quit(s Sender) error    { return s.Send([]byte{packet.C_QUIT}) }

// Attack fires the hitscan weapon along the current view.
func Attack(s Sender, damage int) error {
	w := packet.NewWriterWithOpcode(packet.C_ATTACK)
	w.WriteH(uint16(damage))
	return s.Send(w.Bytes())
}
