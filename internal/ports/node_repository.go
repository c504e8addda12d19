package ports

import (
	"context"

	"drone-route-service/internal/domain"
)

// Port: a boundary for retrieving the node table of a routing instance.
type NodeRepository interface {
	// Retrieve all nodes ordered by id.
	ListNodes(ctx context.Context) ([]domain.Node, error)
}
