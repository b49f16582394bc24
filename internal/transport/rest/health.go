package rest

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const pingTimeout = 3 * time.Second

// Pinger is one dependency checked by the readiness probes.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	deps    []Pinger
	version string
}

// NewHealthHandler creates a HealthHandler over the given dependencies. With
// none (the in-memory catalog) the service is always ready.
func NewHealthHandler(version string, deps ...Pinger) *HealthHandler {
	return &HealthHandler{deps: deps, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 if every dependency answers, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, ok := h.check(r.Context())

	resp := HealthResponse{Status: "ok", Timestamp: time.Now()}
	status := http.StatusOK
	if !ok {
		resp.Status = "down"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Health is the full health check: per-dependency status with latency, plus
// the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())

	resp := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	}
	status := http.StatusOK
	if !ok {
		resp.Status = "down"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// check pings all dependencies concurrently under one timeout.
func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		components = make(map[string]CompStatus, len(h.deps))
		ok         = true
	)

	for _, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := dep.Ping(ctx)
			latency := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				components[dep.Name()] = CompStatus{Status: "down"}
				ok = false
				return
			}
			components[dep.Name()] = CompStatus{Status: "ok", Latency: latency.String()}
		}()
	}
	wg.Wait()

	return components, ok
}
