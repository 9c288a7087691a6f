package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/quakenite/server/internal/config"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/world"
)

// BuildManager runs build-mode commands on behalf of an actor.
// Implemented by building.Commands; handlers only parse and delegate.
type BuildManager interface {
	ToggleBuildMode(p *world.PlayerInfo)
	SelectPiece(p *world.PlayerInfo, t data.PieceType)
	Rotate(p *world.PlayerInfo)
	Place(p *world.PlayerInfo) (*world.Structure, error)
	PlayerSpawned(p *world.PlayerInfo, n int)
}

// LedgerStats answers rcon queries against the build ledger.
type LedgerStats interface {
	CountByOwner(ctx context.Context, owner int32) (placed, destroyed int, err error)
}

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	World  *world.State
	Build  BuildManager
	Ledger LedgerStats // nil without a database
	Async  *Async      // off-loop work for rcon; drained in the input phase
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.C_JOIN,
		[]packet.SessionState{packet.StateConnected},
		func(sess any, r *packet.Reader) {
			HandleJoin(sess.(*net.Session), r, deps)
		},
	)

	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.C_MOVE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleMove(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_BUILD_MODE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleBuildMode(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_BUILD_SELECT, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleBuildSelect(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_BUILD_ROTATE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleBuildRotate(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_BUILD_PLACE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleBuildPlace(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_RESPAWN, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleRespawn(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_ATTACK, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleAttack(sess.(*net.Session), r, deps)
		},
	)

	// Always allowed
	anyStates := []packet.SessionState{packet.StateConnected, packet.StateInWorld}
	reg.Register(packet.C_RCON, anyStates,
		func(sess any, r *packet.Reader) {
			HandleRcon(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_QUIT, anyStates,
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
}
