package api

import (
	"net/http"
	"time"

	"drone-route-service/internal/api/handlers"
	"drone-route-service/internal/config"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"drone-route-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Deps are the adapters and settings the HTTP layer is wired with.
type Deps struct {
	Repo      ports.NodeRepository
	Provider  ports.DistanceProvider
	Fleet     config.Fleet
	TimeLimit time.Duration
	Options   services.Options
	// Limiter throttles /solve; nil disables throttling.
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	obs.RegisterDefault()

	mux := http.NewServeMux()

	nodeHandler := &handlers.NodeHandler{Repo: d.Repo}
	solveHandler := &handlers.SolveHandler{
		Repo:      d.Repo,
		Provider:  d.Provider,
		Fleet:     d.Fleet,
		TimeLimit: d.TimeLimit,
		Options:   d.Options,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/nodes", nodeHandler.List)
	mux.HandleFunc("/solve", rateLimit(d.Limiter, solveHandler.Solve))
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
