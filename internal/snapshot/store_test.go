// internal/snapshot/store_test.go
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelftrack/internal/inventory"
)

// setupTestDB attempts to connect to a PostgreSQL database for testing.
// It skips the test if the connection cannot be established.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		env("PGHOST", "localhost"),
		env("PGPORT", "5432"),
		env("PGUSER", "user"),
		env("PGPASSWORD", "password"),
		env("PGDATABASE", "testdb"),
	)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)

	if err := db.Ping(); err != nil {
		t.Skipf("skipping snapshot tests: could not connect to postgres: %v", err)
	}

	store := NewStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))

	t.Cleanup(func() {
		db.Exec("TRUNCATE TABLE inventory_snapshots CASCADE")
		db.Close()
	})
	return db
}

func TestSaveAndLatestRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	lib := inventory.NewService(nil)
	require.NoError(t, lib.AddTitle("T1"))
	require.NoError(t, lib.AddTitle("T2"))
	require.NoError(t, lib.AddTitle("T3"))
	require.NoError(t, lib.TouchAccess("T1"))
	require.NoError(t, lib.Checkout("T2", "bob"))
	require.NoError(t, lib.Reserve("T2", "alice"))
	require.NoError(t, lib.Reserve("T2", "carol"))

	snap := lib.Snapshot()
	id, err := store.Save(ctx, snap)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	loaded, err := store.Latest(ctx)
	require.NoError(t, err)

	// Shelf order must come back exactly front-to-back.
	assert.Equal(t, snap.ShelfOrder, loaded.ShelfOrder)

	// Restoring the loaded snapshot reproduces the inventory.
	restored := inventory.NewService(nil)
	require.NoError(t, restored.Restore(loaded))
	assert.Equal(t, lib.ShelfSequence(), restored.ShelfSequence())

	title, err := restored.TitleStatus("T2")
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusCheckedOut, title.Status)
	assert.Equal(t, inventory.MemberID("bob"), title.Holder)
	assert.Equal(t, []inventory.MemberID{"alice", "carol"}, title.Holds)
}

func TestLatestPicksNewestSnapshot(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	lib := inventory.NewService(nil)
	require.NoError(t, lib.AddTitle("old"))
	_, err := store.Save(ctx, lib.Snapshot())
	require.NoError(t, err)

	require.NoError(t, lib.AddTitle("new"))
	_, err = store.Save(ctx, lib.Snapshot())
	require.NoError(t, err)

	loaded, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []inventory.BookID{"new", "old"}, loaded.ShelfOrder)
}

func TestLatestWithoutSnapshots(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadUnknownID(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
