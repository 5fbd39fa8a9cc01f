package location

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// Static always resolves to a fixed point. Useful for single-city
// deployments and tests.
type Static struct {
	point domain.GeoPoint
}

// NewStatic creates a provider pinned to the given coordinates.
func NewStatic(lat, lon float64) *Static {
	return &Static{point: domain.GeoPoint{Lat: lat, Lon: lon}}
}

func (s *Static) Resolve(ctx context.Context) (*domain.GeoPoint, error) {
	p := s.point
	return &p, nil
}
