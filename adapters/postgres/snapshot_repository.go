package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// SnapshotRow is one persisted slot
type SnapshotRow struct {
	Slot      string    `db:"slot"`
	Payload   []byte    `db:"payload"`
	Version   int       `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SnapshotRepository stores snapshot slots in the schedule_snapshots table
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a repository over an open connection
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Connect opens and pings a postgres connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// Load returns the payload stored for slot
func (r *SnapshotRepository) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	row, err := r.Get(ctx, slot)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		return nil, false, nil
	}
	return row.Payload, true, nil
}

// Get returns the full row for slot, or nil when the slot is empty
func (r *SnapshotRepository) Get(ctx context.Context, slot string) (*SnapshotRow, error) {
	query := `
		SELECT slot, payload, version, updated_at
		FROM schedule_snapshots
		WHERE slot = $1`

	var row SnapshotRow
	if err := r.db.GetContext(ctx, &row, query, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot %q: %w", slot, err)
	}
	return &row, nil
}

// Save upserts the slot and bumps its version
func (r *SnapshotRepository) Save(ctx context.Context, slot string, payload []byte) error {
	query := `
		INSERT INTO schedule_snapshots (slot, payload, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (slot) DO UPDATE SET
			payload = EXCLUDED.payload,
			version = schedule_snapshots.version + 1,
			updated_at = EXCLUDED.updated_at`

	// JSONB must be sent as text; lib/pq encodes []byte as bytea.
	if _, err := r.db.ExecContext(ctx, query, slot, string(payload)); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", slot, err)
	}
	return nil
}

// Ping checks that the database is reachable
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying connection pool
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}
