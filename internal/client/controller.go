package client

import (
	"image/color"

	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// Ghost tints.
var (
	TintValid  = color.RGBA{R: 0, G: 255, B: 0, A: 128}
	TintDenied = color.RGBA{R: 255, G: 0, B: 0, A: 128}
)

// Sender delivers one command payload to the server.
type Sender interface {
	Send(payload []byte) error
}

// View is the observer's eye position and view angles for this frame.
type View struct {
	Origin geom.Vec3
	Angles geom.Angles
}

// Preview is the speculative placement computed for the current frame.
type Preview struct {
	Valid    bool // false outside build mode
	Origin   geom.Vec3
	Angles   geom.Angles
	CanPlace bool
}

// Ghost is what the renderer draws for the preview.
type Ghost struct {
	Model  int
	Origin geom.Vec3
	Yaw    int
	Tint   color.RGBA
}

// Controller owns the observer's local build state and speculative preview.
// Its feasibility test is advisory: it checks the trace hit and embedding only,
// never structure overlap, so the server may still refuse what it accepts.
type Controller struct {
	mirror  *Mirror
	send    Sender
	arena   []geom.AABB
	solids  []geom.AABB
	build   world.BuildState
	preview Preview
	denied  bool // last placement refused; cleared by moving the aim or placing again
}

// NewController builds a controller over the arena's brushes and the mirror.
// The mirror's state and denial hooks are taken over by the controller.
func NewController(arena *data.ArenaMap, mirror *Mirror, send Sender) *Controller {
	c := &Controller{mirror: mirror, send: send}
	if arena != nil {
		c.arena = arena.Solids()
	}
	c.build.Reset()
	mirror.OnState = c.adopt
	mirror.OnDenied = func() { c.denied = true }
	return c
}

// adopt takes the authoritative build state over the local prediction.
func (c *Controller) adopt(st PlayerState) {
	c.build.Active = st.Active
	c.build.SelectedType = st.SelectedType
	c.build.Rotation = st.Rotation
}

func (c *Controller) Build() world.BuildState { return c.build }
func (c *Controller) Preview() Preview        { return c.preview }
func (c *Controller) Denied() bool            { return c.denied }

// UpdatePreview recomputes the preview from the last received world state.
// A refusal keeps the ghost red until the aim snaps to another cell.
func (c *Controller) UpdatePreview(v View) Preview {
	if !c.build.Active {
		c.preview = Preview{}
		c.denied = false
		return c.preview
	}
	c.solids = c.mirror.AppendSolids(append(c.solids[:0], c.arena...))
	end := v.Origin.MA(data.PreviewRange, v.Angles.Forward())
	tr := geom.TraceBoxes(v.Origin, end, geom.Vec3{}, geom.Vec3{}, c.solids)
	next := Preview{
		Valid:    true,
		Origin:   geom.Snap(tr.EndPos, data.GridSize),
		Angles:   c.build.Angles(),
		CanPlace: tr.Fraction < 1 && !tr.StartSolid,
	}
	if c.denied && (!c.preview.Valid || next.Origin != c.preview.Origin) {
		c.denied = false
	}
	c.preview = next
	return c.preview
}

// Ghost reports what to draw, if anything.
func (c *Controller) Ghost() (Ghost, bool) {
	if !c.preview.Valid || !c.build.Active || !c.build.SelectedType.Valid() {
		return Ghost{}, false
	}
	model, ok := c.mirror.ModelHandle(data.DefinitionFor(c.build.SelectedType).ModelPath)
	if !ok || model == 0 {
		return Ghost{}, false
	}
	tint := TintValid
	if !c.preview.CanPlace || c.denied {
		tint = TintDenied
	}
	return Ghost{Model: model, Origin: c.preview.Origin, Yaw: c.build.Rotation, Tint: tint}, true
}

// ToggleBuildMode flips the local state and tells the server.
func (c *Controller) ToggleBuildMode() error {
	if !c.build.Toggle() {
		c.preview = Preview{}
		c.denied = false
	}
	return c.command(packet.C_BUILD_MODE)
}

// SelectPiece sends the selection only when it is buildable and build mode is on.
func (c *Controller) SelectPiece(t data.PieceType) error {
	if !c.build.Select(t) {
		return nil
	}
	w := packet.NewWriterWithOpcode(packet.C_BUILD_SELECT)
	w.WriteC(byte(t))
	return c.send.Send(w.Bytes())
}

func (c *Controller) Rotate() error {
	if !c.build.Rotate() {
		return nil
	}
	return c.command(packet.C_BUILD_ROTATE)
}

// Place asks the server to commit the current preview. Nothing is sent unless
// the local heuristic accepts; the server re-validates regardless.
func (c *Controller) Place() (bool, error) {
	if !c.build.Active || !c.preview.CanPlace {
		return false, nil
	}
	c.denied = false
	return true, c.command(packet.C_BUILD_PLACE)
}

func (c *Controller) command(op byte) error {
	return c.send.Send([]byte{op})
}
