package domain

// A single location of the routing instance.
// Exactly one node per instance is the depot; every other node is a
// delivery point that must be visited exactly once. Nodes are immutable
// once loaded.
type Node struct {
	ID          int
	Coordinates Coordinates
	Demand      float64
	IsDepot     bool
}
