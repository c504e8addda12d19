package domain

// Represents a single visited position in a vehicle route.
// Cumuls holds the cumulative value of every dimension on arrival.
type RouteStop struct {
	NodeID int
	Cumuls map[string]float64
}

// Represents the solved route of a single vehicle.
// Stops begin and end at the depot; a vehicle with nothing to do
// still carries the two depot stops.
type RoutePlan struct {
	VehicleID           int
	Class               VehicleClass
	Stops               []RouteStop
	TotalDistanceMeters float64
}

// NodeIDs returns the ordered node ids of the route, depot included.
func (p RoutePlan) NodeIDs() []int {
	ids := make([]int, len(p.Stops))
	for i, s := range p.Stops {
		ids[i] = s.NodeID
	}
	return ids
}

// Solution is the complete assignment: one RoutePlan per vehicle and the
// aggregate objective (sum of arc costs over all routes).
type Solution struct {
	Plans      []RoutePlan
	Objective  float64
	Dimensions []string
}
