package domain

import "errors"

// ErrLocationUnavailable is returned by a LocationProvider when no fix can
// be obtained: permission denied, capability missing, or the lookup timed
// out. Callers degrade to distance-less listings; the error is never fatal
// and never retried automatically.
var ErrLocationUnavailable = errors.New("location unavailable")

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}
