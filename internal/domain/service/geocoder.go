package service

import "context"

// ReverseGeocoder turns coordinates into a human-readable address.
// Best effort: callers treat any error as "no address" and continue.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}
