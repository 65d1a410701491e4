package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

const healthCheckTimeout = 2 * time.Second

// HealthProbe checks one dependency of the service.
type HealthProbe interface {
	Name() string
	Check(ctx context.Context) error
}

type pingProbe struct {
	name string
	p    types.Pinger
}

// PingProbe adapts anything with Ping(ctx) to a HealthProbe.
func PingProbe(name string, p types.Pinger) HealthProbe {
	return pingProbe{name: name, p: p}
}

func (p pingProbe) Name() string                    { return p.name }
func (p pingProbe) Check(ctx context.Context) error { return p.p.Ping(ctx) }

type componentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// HandleHealth runs every probe concurrently under a shared two second
// deadline. Any failure, panic or timeout makes the response 503.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if len(s.HealthProbes) == 0 {
		JSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(s.HealthProbes))
	for _, probe := range s.HealthProbes {
		go func() {
			var err error
			defer func() {
				if rvr := recover(); rvr != nil {
					err = fmt.Errorf("probe panicked: %v", rvr)
				}
				results <- result{name: probe.Name(), err: err}
			}()
			err = probe.Check(ctx)
		}()
	}

	components := make(map[string]componentStatus, len(s.HealthProbes))
	for range s.HealthProbes {
		select {
		case res := <-results:
			if res.err != nil {
				components[res.name] = componentStatus{Status: "unhealthy", Message: res.err.Error()}
			} else {
				components[res.name] = componentStatus{Status: "healthy"}
			}
		case <-ctx.Done():
		}
	}

	status, code := "healthy", http.StatusOK
	for _, probe := range s.HealthProbes {
		c, ok := components[probe.Name()]
		if !ok {
			c = componentStatus{Status: "unhealthy", Message: "health check timed out"}
			components[probe.Name()] = c
		}
		if c.Status != "healthy" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	if code != http.StatusOK {
		s.Logger.Warn("health check failed", "components", components)
	}
	JSON(w, r, code, healthResponse{Status: status, Components: components})
}
