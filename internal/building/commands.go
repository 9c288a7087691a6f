package building

import (
	"go.uber.org/zap"

	"github.com/quakenite/server/internal/core/event"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	"github.com/quakenite/server/internal/world"
)

// Console lines sent to the requester.
const (
	MsgDisabled     = "Building is disabled on this server"
	MsgModeOn       = "Build mode ON - Q to toggle, 1-4 to select piece, R to rotate"
	MsgModeOff      = "Build mode OFF"
	MsgSelected     = "Selected: "
	MsgNoMaterials  = "Not enough materials"
	MsgCannotPlace  = "Cannot place here"
	MsgLimit        = "Structure limit reached"
	MsgInvalidPiece = "Invalid piece"
)

// Printer delivers a console line to one actor.
type Printer interface {
	Print(p *world.PlayerInfo, text string)
}

// Commands executes the build-mode commands of one actor against the world.
// Game loop only.
type Commands struct {
	state    *world.State
	spawner  *Spawner
	settings Settings
	out      Printer
	log      *zap.Logger
}

func NewCommands(state *world.State, spawner *Spawner, out Printer, log *zap.Logger) *Commands {
	return &Commands{
		state:    state,
		spawner:  spawner,
		settings: spawner.Validator().Settings(),
		out:      out,
		log:      log,
	}
}

// Spawner returns the spawner placements go through.
func (c *Commands) Spawner() *Spawner { return c.spawner }

// ToggleBuildMode flips build mode for p.
func (c *Commands) ToggleBuildMode(p *world.PlayerInfo) {
	if !c.settings.Enabled {
		c.out.Print(p, MsgDisabled)
		return
	}
	if p.Build.Toggle() {
		c.out.Print(p, MsgModeOn)
	} else {
		c.out.Print(p, MsgModeOff)
	}
	p.Dirty = true
}

// SelectPiece changes the selected piece. Ignored outside build mode and for
// numbers outside Wall..Roof.
func (c *Commands) SelectPiece(p *world.PlayerInfo, t data.PieceType) {
	if !p.Build.Select(t) {
		return
	}
	c.out.Print(p, MsgSelected+data.DefinitionFor(t).Name)
	p.Dirty = true
}

// Rotate advances the preview rotation by 90 degrees.
func (c *Commands) Rotate(p *world.PlayerInfo) {
	if p.Build.Rotate() {
		p.Dirty = true
	}
}

// Place aims from p's eye and tries to spawn the selected piece there.
// Inactive mode and cooldown are silent no-ops that return nil, nil.
func (c *Commands) Place(p *world.PlayerInfo) (*world.Structure, error) {
	if !p.Build.Active || p.Dead {
		return nil, nil
	}
	now := c.state.Now()
	if p.Build.CoolingDown(now) {
		return nil, nil
	}

	def := data.DefinitionFor(p.Build.SelectedType)
	if p.Materials < def.MaterialCost {
		c.fail(p, ErrInsufficientMaterials)
		return nil, ErrInsufficientMaterials
	}

	eye := p.Eye()
	end := eye.MA(data.PreviewRange, p.ViewAngles.Forward())
	tr := c.state.Trace(eye, geom.Vec3{}, geom.Vec3{}, end, 0, world.MaskSolid)

	yaw := int(p.Build.Angles().Yaw)
	st, err := c.spawner.Spawn(p.Build.SelectedType, tr.EndPos, yaw, p)
	if err != nil {
		if Classify(err) != ClassConfig {
			c.fail(p, err)
		}
		c.log.Debug("placement rejected",
			zap.Int32("actor", p.ActorID),
			zap.String("piece", def.Name),
			zap.Stringer("aim", tr.EndPos),
			zap.Stringer("class", Classify(err)),
			zap.Error(err))
		return nil, err
	}
	p.Build.MarkPlaced(now)
	return st, nil
}

func (c *Commands) fail(p *world.PlayerInfo, err error) {
	if msg := Message(err); msg != "" {
		c.out.Print(p, msg)
	}
	event.Emit(c.state.Events, event.PlacementFailed{Actor: p.ActorID, Reason: err.Error()})
}

// PlayerSpawned is the (re)spawn hook: starting materials and a clean build
// state. Structures the actor placed earlier are untouched.
func (c *Commands) PlayerSpawned(p *world.PlayerInfo, n int) {
	sp := c.state.SpawnPoint(n)
	p.Origin = sp.Origin
	p.ViewAngles = geom.Angles{Yaw: sp.Yaw}
	p.Dead = false
	if c.settings.Enabled {
		p.Materials = c.settings.StartMaterials
	}
	p.Build.Reset()
	p.Dirty = true
	event.Emit(c.state.Events, event.ActorSpawned{Actor: p.ActorID})
}
