package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"drone-route-service/internal/api/dto"
	"drone-route-service/internal/config"
	"drone-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubRepo struct{ nodes []domain.Node }

func (r stubRepo) ListNodes(ctx context.Context) ([]domain.Node, error) { return r.nodes, nil }

func testNodes() []domain.Node {
	return []domain.Node{
		{ID: 0, Coordinates: domain.Coordinates{Lat: 35.6812, Lon: 139.7671}, IsDepot: true},
		{ID: 1, Coordinates: domain.Coordinates{Lat: 35.6830, Lon: 139.7690}, Demand: 10},
		{ID: 2, Coordinates: domain.Coordinates{Lat: 35.6800, Lon: 139.7700}, Demand: 20},
		{ID: 3, Coordinates: domain.Coordinates{Lat: 35.6790, Lon: 139.7650}, Demand: 5},
	}
}

func newTestRouter(t *testing.T, limiter *rate.Limiter) http.Handler {
	t.Helper()
	fleet, err := config.Preset(config.PresetLibrary)
	require.NoError(t, err)
	return NewRouter(Deps{
		Repo:      stubRepo{nodes: testNodes()},
		Fleet:     fleet,
		TimeLimit: 200 * time.Millisecond,
		Limiter:   limiter,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestListNodes(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/nodes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListNodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Nodes, 4)
	assert.True(t, res.Nodes[0].IsDepot)
	assert.Equal(t, 20.0, res.Nodes[2].Demand)
}

func TestSolve_StoredNodesDefaultFleet(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/solve", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Routes, 2)

	visited := map[int]bool{}
	for _, route := range res.Routes {
		require.GreaterOrEqual(t, len(route.NodeIDs), 2)
		assert.Equal(t, 0, route.NodeIDs[0])
		assert.Equal(t, 0, route.NodeIDs[len(route.NodeIDs)-1])
		for _, id := range route.NodeIDs[1 : len(route.NodeIDs)-1] {
			visited[id] = true
		}
	}
	assert.Len(t, visited, 3)
	assert.Greater(t, res.Objective, 0.0)
	assert.Equal(t, []string{"Capacity"}, res.Dimensions)
}

func TestSolve_InlineInstance(t *testing.T) {
	body := `{
		"nodes": [
			{"id": 0, "lat": 35.68, "lon": 139.76, "is_depot": true},
			{"id": 1, "lat": 35.681, "lon": 139.76, "demand": 1}
		],
		"dimensions": ["Capacity", "Energy"],
		"vehicles": [{"class": "multicopter", "capacities": [5, 100000]}],
		"time_limit_seconds": 0.2,
		"metaheuristic": "greedy_descent"
	}`
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Routes, 1)
	assert.Equal(t, []int{0, 1, 0}, res.Routes[0].NodeIDs)
	assert.Equal(t, "multicopter", res.Routes[0].Class)
	assert.Equal(t, "converged", res.Stats.StopReason)
	assert.Contains(t, res.Routes[0].Stops[2].Cumuls, "Energy")
}

func TestSolve_ErrorMapping(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"bad json", `{`, http.StatusBadRequest, "invalid json body"},
		{"unknown field", `{"depot": 1}`, http.StatusBadRequest, "invalid json body"},
		{"two objects", `{} {}`, http.StatusBadRequest, "body must contain only one JSON object"},
		{"time limit", `{"time_limit_seconds": 0}`, http.StatusBadRequest, "time_limit_seconds"},
		{"metaheuristic", `{"metaheuristic": "annealing"}`, http.StatusBadRequest, "unknown metaheuristic"},
		{"unknown class", `{"vehicles": [{"class": "balloon", "capacities": [1]}]}`, http.StatusBadRequest, "unknown vehicle class"},
		{"dimensions without vehicles", `{"dimensions": ["Capacity"]}`, http.StatusBadRequest, "vehicles are required"},
		{"invalid coordinate", `{"nodes": [{"id": 0, "lat": 91, "lon": 0, "is_depot": true}]}`, http.StatusBadRequest, "invalid coordinate"},
		{
			"infeasible",
			`{"nodes": [
				{"id": 0, "lat": 35.68, "lon": 139.76, "is_depot": true},
				{"id": 1, "lat": 35.681, "lon": 139.76, "demand": 6},
				{"id": 2, "lat": 35.682, "lon": 139.76, "demand": 6},
				{"id": 3, "lat": 35.683, "lon": 139.76, "demand": 6}
			], "vehicles": [{"class": "vtol", "capacities": [10]}, {"class": "vtol", "capacities": [10]}]}`,
			http.StatusUnprocessableEntity,
			"infeasible instance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/solve", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestSolve_RateLimited(t *testing.T) {
	h := newTestRouter(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	rec := do(t, h, http.MethodPost, "/solve", `{"time_limit_seconds": 0.05}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/solve", `{"time_limit_seconds": 0.05}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// other routes are not throttled
	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	do(t, h, http.MethodGet, "/health", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"}`)
}
