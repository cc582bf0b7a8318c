package clients

import (
	"context"
	"net/http"
	"time"
)

type HealthProbe struct {
	Name     string
	Client   *Client
	Path     string
	RawQuery string
}

type HealthResult struct {
	Name       string        `json:"name"`
	OK         bool          `json:"ok"`
	StatusCode int           `json:"statusCode,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
}

// StorefrontProbes lists the read-only endpoints a session depends on.
func StorefrontProbes(c *Client, apiBase string) []HealthProbe {
	apiBase = normalizeAPIBase(apiBase)
	return []HealthProbe{
		{Name: "customization-options", Client: c, Path: apiBase + "customization-options/"},
		{Name: "search", Client: c, Path: "/products/search/", RawQuery: "q=ice"},
	}
}

func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := probe.Client.Do(ctx, http.MethodGet, probe.Path, probe.RawQuery, nil, http.Header{})
	if err != nil {
		return HealthResult{Name: probe.Name, OK: false, Latency: time.Since(start), Error: err.Error()}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return HealthResult{Name: probe.Name, OK: ok, StatusCode: resp.StatusCode, Latency: time.Since(start)}
}
