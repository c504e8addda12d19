package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
)

// SQL-backed implementation of the NodeRepository port. The query is
// dialect neutral and works on both SQLite and PostgreSQL.
type SQLNodeRepository struct{ DB *sql.DB }

func NewSQLNodeRepository(db *sql.DB) *SQLNodeRepository {
	return &SQLNodeRepository{DB: db}
}

// Return all nodes stored in the database, ordered by id.
func (s *SQLNodeRepository) ListNodes(ctx context.Context) (_ []domain.Node, err error) {
	defer obs.Time(ctx, "nodes.ListNodes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql node repository: DB is nil")
	}

	query := `
	SELECT
		id,
		lat,
		lon,
		demand,
		is_depot
	FROM nodes
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list nodes: query nodes table: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.Node, 0, 64)
	for rows.Next() {
		var n domain.Node
		if err := rows.Scan(&n.ID, &n.Coordinates.Lat, &n.Coordinates.Lon, &n.Demand, &n.IsDepot); err != nil {
			return nil, fmt.Errorf("list nodes: scan row: %w", err)
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list nodes: row iteration: %w", err)
	}

	return nodes, nil
}
