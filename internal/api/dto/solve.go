package dto

type NodeRequest struct {
	ID      int     `json:"id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Demand  float64 `json:"demand"`
	IsDepot bool    `json:"is_depot"`
}

type VehicleRequest struct {
	Class      string    `json:"class"`
	Capacities []float64 `json:"capacities"`
}

// SolveRequest overrides the stored node table and the configured fleet
// when the corresponding fields are present.
type SolveRequest struct {
	Nodes            []NodeRequest    `json:"nodes"`
	Dimensions       []string         `json:"dimensions"`
	Vehicles         []VehicleRequest `json:"vehicles"`
	TimeLimitSeconds *float64         `json:"time_limit_seconds"`
	Metaheuristic    string           `json:"metaheuristic"`
}

type StopResponse struct {
	NodeID int                `json:"node_id"`
	Cumuls map[string]float64 `json:"cumuls"`
}

type RouteResponse struct {
	VehicleID           int            `json:"vehicle_id"`
	Class               string         `json:"class"`
	NodeIDs             []int          `json:"node_ids"`
	TotalDistanceMeters float64        `json:"total_distance_meters"`
	Stops               []StopResponse `json:"stops"`
}

type SearchStatsResponse struct {
	Iterations       int     `json:"iterations"`
	Improvements     int     `json:"improvements"`
	PenaltyRounds    int     `json:"penalty_rounds"`
	ConstructionCost float64 `json:"construction_cost"`
	ElapsedMillis    int64   `json:"elapsed_ms"`
	StopReason       string  `json:"stop_reason"`
}

type SolveResponse struct {
	Objective  float64             `json:"objective"`
	Dimensions []string            `json:"dimensions"`
	Routes     []RouteResponse     `json:"routes"`
	Stats      SearchStatsResponse `json:"stats"`
}
