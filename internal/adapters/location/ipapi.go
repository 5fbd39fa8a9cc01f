package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// IPAPI resolves a coarse position from an IP-geolocation HTTP service.
// Any failure (network, non-200, bad payload) is reported as
// domain.ErrLocationUnavailable so callers degrade instead of erroring.
type IPAPI struct {
	url    string
	client *http.Client
}

// NewIPAPI creates a provider backed by the given geolocation endpoint.
func NewIPAPI(url string) *IPAPI {
	return &IPAPI{
		url: url,
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

type ipAPIResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

func (p *IPAPI) Resolve(ctx context.Context) (*domain.GeoPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.LocationFallbacks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LocationFallbacks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: status %d", domain.ErrLocationUnavailable, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.LocationFallbacks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	if body.Status != "" && body.Status != "success" {
		metrics.LocationFallbacks.WithLabelValues("denied").Inc()
		return nil, fmt.Errorf("%w: lookup %s", domain.ErrLocationUnavailable, body.Status)
	}

	metrics.LocationFallbacks.WithLabelValues("resolved").Inc()
	return &domain.GeoPoint{Lat: body.Lat, Lon: body.Lon}, nil
}
