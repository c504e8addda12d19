package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/config"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/ports"
	"drone-route-service/internal/services"

	"go.uber.org/zap"
)

const maxTimeLimit = 60 * time.Second

type SolveHandler struct {
	Repo      ports.NodeRepository
	Provider  ports.DistanceProvider
	Fleet     config.Fleet
	TimeLimit time.Duration
	Options   services.Options
}

// Solve runs one routing solve over the stored (or inline) node table and
// renders every vehicle route with depot endpoints plus the objective.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.SolveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	timeLimit := h.TimeLimit
	if req.TimeLimitSeconds != nil {
		secs := *req.TimeLimitSeconds
		if secs <= 0 || secs > maxTimeLimit.Seconds() {
			writeError(w, r, http.StatusBadRequest, "time_limit_seconds must be in (0, 60]")
			return
		}
		timeLimit = time.Duration(secs * float64(time.Second))
	}

	opts := h.Options
	if req.Metaheuristic != "" {
		m, err := services.ParseMetaheuristic(req.Metaheuristic)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		opts.Metaheuristic = m
	}

	fleet := h.Fleet
	if len(req.Vehicles) > 0 || len(req.Dimensions) > 0 {
		dims := req.Dimensions
		if len(dims) == 0 {
			dims = fleet.DimensionNames()
		}
		specs := make([]config.VehicleSpec, 0, len(req.Vehicles))
		for _, v := range req.Vehicles {
			specs = append(specs, config.VehicleSpec{Class: v.Class, Capacities: v.Capacities})
		}
		if len(specs) == 0 {
			writeError(w, r, http.StatusBadRequest, "vehicles are required when dimensions are given")
			return
		}
		var err error
		fleet, err = config.BuildFleet(dims, specs)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	nodes := make([]domain.Node, 0, len(req.Nodes))
	for _, n := range req.Nodes {
		nodes = append(nodes, domain.Node{
			ID:          n.ID,
			Coordinates: domain.Coordinates{Lat: n.Lat, Lon: n.Lon},
			Demand:      n.Demand,
			IsDepot:     n.IsDepot,
		})
	}

	sol, stats, err := services.PlanRoutes(r.Context(), services.PlanRoutesRequest{
		Nodes:      nodes,
		Vehicles:   fleet.Vehicles,
		Dimensions: fleet.Dimensions,
		TimeLimit:  timeLimit,
		Options:    opts,
	}, h.Repo, h.Provider)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			zap.L().Error("solve failed", zap.Error(err))
		}
		writeError(w, r, status, msg)
		return
	}

	res := dto.SolveResponse{
		Objective:  sol.Objective,
		Dimensions: sol.Dimensions,
		Routes:     make([]dto.RouteResponse, 0, len(sol.Plans)),
		Stats: dto.SearchStatsResponse{
			Iterations:       stats.Iterations,
			Improvements:     stats.Improvements,
			PenaltyRounds:    stats.PenaltyRounds,
			ConstructionCost: stats.ConstructionCost,
			ElapsedMillis:    stats.Elapsed.Milliseconds(),
			StopReason:       string(stats.StopReason),
		},
	}
	for _, p := range sol.Plans {
		stops := make([]dto.StopResponse, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, dto.StopResponse{NodeID: s.NodeID, Cumuls: s.Cumuls})
		}
		res.Routes = append(res.Routes, dto.RouteResponse{
			VehicleID:           p.VehicleID,
			Class:               p.Class.String(),
			NodeIDs:             p.NodeIDs(),
			TotalDistanceMeters: p.TotalDistanceMeters,
			Stops:               stops,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTimeLimitTooSmall):
		return http.StatusUnprocessableEntity, "time limit too small to construct a solution"
	case errors.Is(err, domain.ErrInfeasibleInstance):
		return http.StatusUnprocessableEntity, "infeasible instance"
	case errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrUnknownVehicleClass),
		errors.Is(err, domain.ErrInvalidProblem):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
