package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
	return conn
}

func TestInitSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
}

func TestSeedFromJSON_ThenListNodes(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nodes.json")
	seed := `[
		{"id": 1, "lat": 35.6812, "lon": 139.7671, "demand": 300},
		{"id": 0, "lat": 35.6586, "lon": 139.7454, "is_depot": true},
		{"id": 2, "lat": 35.7101, "lon": 139.8107, "demand": 450.5}
	]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))
	require.NoError(t, SeedFromJSON(ctx, conn, db.SQLite, path))

	nodes, err := NewSQLNodeRepository(conn).ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, domain.Node{ID: 0, Coordinates: domain.Coordinates{Lat: 35.6586, Lon: 139.7454}, IsDepot: true}, nodes[0])
	assert.Equal(t, 1, nodes[1].ID)
	assert.Equal(t, 300.0, nodes[1].Demand)
	assert.False(t, nodes[1].IsDepot)
	assert.Equal(t, 450.5, nodes[2].Demand)
}

func TestSeedNodes_ReplacesTable(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SeedNodes(ctx, conn, db.SQLite, []NodeSeed{
		{ID: 0, Lat: 1, Lon: 1, IsDepot: true},
		{ID: 1, Lat: 2, Lon: 2, Demand: 1},
	}))
	require.NoError(t, SeedNodes(ctx, conn, db.SQLite, []NodeSeed{
		{ID: 0, Lat: 3, Lon: 3, IsDepot: true},
	}))

	nodes, err := NewSQLNodeRepository(conn).ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 3.0, nodes[0].Coordinates.Lat)
}

func TestSeedNodes_RejectsBadRows(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := SeedNodes(ctx, conn, db.SQLite, []NodeSeed{{ID: 0, Lat: 95, Lon: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	err = SeedNodes(ctx, conn, db.SQLite, []NodeSeed{{ID: 0, Lat: 0, Lon: 0, Demand: -1}})
	assert.Error(t, err)

	err = SeedFromJSON(ctx, conn, db.SQLite, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListNodes_NilDB(t *testing.T) {
	_, err := NewSQLNodeRepository(nil).ListNodes(context.Background())
	assert.Error(t, err)
}
