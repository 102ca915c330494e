// Package shipping prices deliveries by straight-line distance from the
// store.
package shipping

import (
	"errors"
	"math"

	"doceria/database"
	"doceria/render"
)

const earthRadiusKm = 6371

var (
	ErrNotConfigured = errors.New("shipping config not found")
	ErrInvalidConfig = errors.New("shipping config lacks coordinates or per-km fee")
)

// Quote is the fee for one destination. DistanceKm is preformatted with
// two decimals.
type Quote struct {
	Fee        float64 `json:"valorFrete"`
	DistanceKm string  `json:"distanciaKm"`
}

// Distance returns the haversine distance in kilometres.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Calculate prices a delivery to (lat, lng) with the store's per-km fee.
func Calculate(q database.Querier, storeID string, lat, lng float64) (*Quote, error) {
	cfg, err := database.GetShippingConfig(q, storeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotConfigured
	}
	if cfg.Lat == nil || cfg.Lng == nil || cfg.PerKm == nil {
		return nil, ErrInvalidConfig
	}
	km := Distance(*cfg.Lat, *cfg.Lng, lat, lng)
	return &Quote{
		Fee:        render.Round2(km * *cfg.PerKm),
		DistanceKm: render.Fixed2(km),
	}, nil
}
