package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/db"
)

// InitSchema creates the nodes and distance_cache tables for dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	realType, boolType := "REAL", "INTEGER"
	if dialect == db.Postgres {
		realType, boolType = "DOUBLE PRECISION", "BOOLEAN"
	}

	createNodesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL,
		demand %[1]s NOT NULL DEFAULT 0,
		is_depot %[2]s NOT NULL DEFAULT %[3]s
	);
	`, realType, boolType, falseLiteral(dialect))

	createDistanceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters %s NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`, realType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`

	statements := []string{
		createNodesQuery,
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func falseLiteral(dialect db.Dialect) string {
	if dialect == db.Postgres {
		return "FALSE"
	}
	return "0"
}

// NodeSeed is one entry of the JSON node table.
type NodeSeed struct {
	ID      int     `json:"id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Demand  float64 `json:"demand"`
	IsDepot bool    `json:"is_depot"`
}

// SeedFromJSON replaces the node table with the contents of a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed nodes: read %q: %w", jsonPath, err)
	}

	var data []NodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed nodes: parse json: %w", err)
	}

	return SeedNodes(ctx, conn, dialect, data)
}

// SeedNodes validates rows and replaces the node table in one transaction.
func SeedNodes(ctx context.Context, conn *sql.DB, dialect db.Dialect, rows []NodeSeed) error {
	for i, item := range rows {
		if item.ID < 0 {
			return fmt.Errorf("seed nodes: invalid id at index %d: %d", i, item.ID)
		}
		c := domain.Coordinates{Lat: item.Lat, Lon: item.Lon}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("seed nodes: node %d: %w", item.ID, err)
		}
		if item.Demand < 0 {
			return fmt.Errorf("seed nodes: node %d: negative demand", item.ID)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed nodes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes;`); err != nil {
		return fmt.Errorf("seed nodes: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, db.Rebind(dialect, `
	INSERT INTO nodes (
		id,
		lat,
		lon,
		demand,
		is_depot
	)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed nodes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range rows {
		if _, err := stmt.ExecContext(ctx, n.ID, n.Lat, n.Lon, n.Demand, n.IsDepot); err != nil {
			return fmt.Errorf("seed nodes: insert id=%d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed nodes: commit tx: %w", err)
	}

	return nil
}
