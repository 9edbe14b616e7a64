// internal/snapshot/store.go
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shelftrack/internal/inventory"
)

// ErrNoSnapshot indicates no snapshot has been recorded yet.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Store persists full inventory snapshots to Postgres. Each snapshot
// captures every title plus the shelf order; shelf_position runs 0..n-1
// from the front and is NULL for titles not on the shelf, so a restored
// inventory reproduces the recency order exactly.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewStore creates a snapshot store on top of an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("shelftrack/snapshot"),
	}
}

// EnsureSchema creates the snapshot tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS inventory_snapshots (
			id UUID PRIMARY KEY,
			seq BIGSERIAL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS snapshot_titles (
			snapshot_id UUID NOT NULL REFERENCES inventory_snapshots(id) ON DELETE CASCADE,
			book_id TEXT NOT NULL,
			status TEXT NOT NULL,
			holder TEXT NOT NULL DEFAULT '',
			holds TEXT[] NOT NULL DEFAULT '{}',
			shelf_position INT,
			PRIMARY KEY (snapshot_id, book_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return nil
}

// Save writes one snapshot atomically and returns its ID.
func (s *Store) Save(ctx context.Context, snap inventory.Snapshot) (uuid.UUID, error) {
	id := uuid.New()
	ctx, span := s.tracer.Start(ctx, "snapshot.save",
		trace.WithAttributes(
			attribute.String("snapshot.id", id.String()),
			attribute.Int("title.count", len(snap.Titles)),
			attribute.Int("shelf.len", len(snap.ShelfOrder)),
		),
	)
	defer span.End()

	positions := make(map[inventory.BookID]int, len(snap.ShelfOrder))
	for i, bookID := range snap.ShelfOrder {
		positions[bookID] = i
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_snapshots (id) VALUES ($1)
	`, id); err != nil {
		return uuid.Nil, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_titles (snapshot_id, book_id, status, holder, holds, shelf_position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, title := range snap.Titles {
		holds := make([]string, len(title.Holds))
		for i, m := range title.Holds {
			holds[i] = string(m)
		}

		var position sql.NullInt64
		if p, ok := positions[title.ID]; ok {
			position = sql.NullInt64{Int64: int64(p), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			id, string(title.ID), string(title.Status), string(title.Holder),
			pq.Array(holds), position,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert title %s: %w", title.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// Latest loads the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (inventory.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "snapshot.latest")
	defer span.End()

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM inventory_snapshots
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("query latest snapshot: %w", err)
	}

	span.SetAttributes(attribute.String("snapshot.id", id.String()))
	return s.Load(ctx, id)
}

// Load reads one snapshot by ID.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (inventory.Snapshot, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM inventory_snapshots WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	if !exists {
		return inventory.Snapshot{}, ErrNoSnapshot
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, status, holder, holds, shelf_position
		FROM snapshot_titles
		WHERE snapshot_id = $1
		ORDER BY shelf_position ASC NULLS LAST, book_id ASC
	`, id)
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("query snapshot titles: %w", err)
	}
	defer rows.Close()

	var snap inventory.Snapshot
	for rows.Next() {
		var (
			bookID, status, holder string
			holds                  []string
			position               sql.NullInt64
		)
		if err := rows.Scan(&bookID, &status, &holder, pq.Array(&holds), &position); err != nil {
			return inventory.Snapshot{}, fmt.Errorf("scan snapshot title: %w", err)
		}

		title := inventory.Title{
			ID:     inventory.BookID(bookID),
			Status: inventory.Status(status),
			Holder: inventory.MemberID(holder),
		}
		for _, m := range holds {
			title.Holds = append(title.Holds, inventory.MemberID(m))
		}
		snap.Titles = append(snap.Titles, title)

		// Rows arrive ordered by position, so appending rebuilds the
		// front-to-back sequence.
		if position.Valid {
			snap.ShelfOrder = append(snap.ShelfOrder, title.ID)
		}
	}
	if err := rows.Err(); err != nil {
		return inventory.Snapshot{}, fmt.Errorf("iterate snapshot titles: %w", err)
	}
	return snap, nil
}
