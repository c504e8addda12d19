package dto

type NodeResponse struct {
	ID      int     `json:"id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Demand  float64 `json:"demand"`
	IsDepot bool    `json:"is_depot"`
}

type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}
