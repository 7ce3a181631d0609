// Package telemetry extracts location data from dish telemetry payloads.
//
// The dish exposes its location through several interfaces (gRPC get_location,
// gRPC get_status, the HTTP diagnostic page) and each one shapes the payload
// differently: flat fields, a nested gps_stats object, or a nested
// location/position object, with key spellings varying between snake_case and
// camelCase. Extraction is an ordered list of accessor strategies over a
// JSON-like value, first success wins.
package telemetry

import (
	"encoding/json"
	"strconv"
)

// Location is a single coordinate reading. Alt is nil when the payload
// carried no altitude: "not measured" is distinct from "0 m", even though
// both encode as 0.0.
type Location struct {
	Lat float64
	Lon float64
	Alt *float64
}

// AltMeters returns the altitude for encoding, defaulting to 0 when absent.
func (l Location) AltMeters() float64 {
	if l.Alt == nil {
		return 0
	}
	return *l.Alt
}

var (
	latKeys = []string{"lat", "latitude"}
	lonKeys = []string{"lon", "longitude"}
	altKeys = []string{"alt", "altitude", "altitude_m", "altitudeMeters"}
)

// Extract pulls a location out of an arbitrary decoded payload. It checks the
// top level first, then a nested gps_stats/gpsStats object, then a nested
// location/position object. Both latitude and longitude must be present and
// numeric-coercible; anything else means "no coordinate here", never an error.
func Extract(payload any) (Location, bool) {
	if payload == nil {
		return Location{}, false
	}

	if loc, ok := extractFields(payload); ok {
		return loc, true
	}
	if nested := getField(payload, "gps_stats", "gpsStats"); nested != nil {
		if loc, ok := extractFields(nested); ok {
			return loc, true
		}
	}
	if nested := getField(payload, "location", "position"); nested != nil {
		if loc, ok := extractFields(nested); ok {
			return loc, true
		}
	}
	return Location{}, false
}

func extractFields(obj any) (Location, bool) {
	lat, latOK := toFloat(getField(obj, latKeys...))
	lon, lonOK := toFloat(getField(obj, lonKeys...))
	if !latOK || !lonOK {
		return Location{}, false
	}
	loc := Location{Lat: lat, Lon: lon}
	if alt, ok := toFloat(getField(obj, altKeys...)); ok {
		loc.Alt = &alt
	}
	return loc, true
}

// getField returns the first present key among names. Only map-shaped values
// can carry fields; anything else has none.
func getField(obj any, names ...string) any {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil
	}
	for _, name := range names {
		if v, present := m[name]; present {
			return v
		}
	}
	return nil
}

// toFloat coerces JSON-decoded values to float64. String-typed numbers are
// accepted: some dish firmware revisions serialize coordinates as strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
