package handlers

import (
	"net/http"

	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/ports"

	"go.uber.org/zap"
)

// NodeHandler exposes the stored node table.
type NodeHandler struct {
	Repo ports.NodeRepository
}

func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	nodes, err := h.Repo.ListNodes(r.Context())
	if err != nil {
		zap.L().Error("list nodes failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListNodesResponse{
		Nodes: make([]dto.NodeResponse, 0, len(nodes)),
	}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, dto.NodeResponse{
			ID:      n.ID,
			Lat:     n.Coordinates.Lat,
			Lon:     n.Coordinates.Lon,
			Demand:  n.Demand,
			IsDepot: n.IsDepot,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
