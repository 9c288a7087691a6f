package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Ledger entry kinds.
const (
	LedgerPlace   = "place"
	LedgerDestroy = "destroy"
)

// LedgerEntry is one audit row: a structure placed or destroyed. The ledger is
// never read back into the world.
type LedgerEntry struct {
	Kind      string
	PieceType uint8
	SlotIndex uint32
	SlotGen   uint32
	Owner     int32
	Attacker  int32
	X, Y, Z   float64
	Cost      int
	GameTime  time.Duration
}

// LedgerWriter persists a batch of ledger entries.
type LedgerWriter interface {
	WriteLedger(ctx context.Context, entries []LedgerEntry) error
}

type LedgerRepo struct {
	db       *DB
	serverID int
}

func NewLedgerRepo(db *DB, serverID int) *LedgerRepo {
	return &LedgerRepo{db: db, serverID: serverID}
}

var ledgerColumns = []string{
	"server_id", "kind", "piece_type", "slot_index", "slot_gen",
	"owner_id", "attacker_id", "origin_x", "origin_y", "origin_z",
	"cost", "game_time_ms",
}

// WriteLedger copies a batch of entries in a single transaction.
func (r *LedgerRepo) WriteLedger(ctx context.Context, entries []LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ledger begin: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{
			r.serverID, e.Kind, int16(e.PieceType), int64(e.SlotIndex), int64(e.SlotGen),
			e.Owner, e.Attacker, float32(e.X), float32(e.Y), float32(e.Z),
			int32(e.Cost), e.GameTime.Milliseconds(),
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"build_ledger"}, ledgerColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("ledger copy: %w", err)
	}
	return tx.Commit(ctx)
}

// CountByOwner returns how many pieces an actor placed and how many of them
// were destroyed, per the ledger.
func (r *LedgerRepo) CountByOwner(ctx context.Context, owner int32) (placed, destroyed int, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE kind = 'place'),
			COUNT(*) FILTER (WHERE kind = 'destroy')
		 FROM build_ledger WHERE server_id = $1 AND owner_id = $2`,
		r.serverID, owner,
	).Scan(&placed, &destroyed)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger count: %w", err)
	}
	return placed, destroyed, nil
}
