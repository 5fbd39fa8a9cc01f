// Package location provides ports.LocationProvider implementations used as
// a server-side fallback when a client request carries no coordinates.
package location

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
	"github.com/kaamlink/kaamlink/internal/pkg/config"
)

// FromConfig builds the provider selected by configuration. "none" returns
// a provider that always reports unavailability, which degrades feeds to
// their unannotated form.
func FromConfig(cfg config.LocationConfig) ports.LocationProvider {
	switch cfg.Provider {
	case "static":
		return NewStatic(cfg.Lat, cfg.Lon)
	case "ip":
		return NewIPAPI(cfg.IPAPIURL)
	default:
		return Unavailable{}
	}
}

// Unavailable is a LocationProvider that never resolves.
type Unavailable struct{}

func (Unavailable) Resolve(ctx context.Context) (*domain.GeoPoint, error) {
	return nil, domain.ErrLocationUnavailable
}
