package telemetry

import (
	"testing"
)

func TestExtract(t *testing.T) {
	alt := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		payload any
		want    Location
		wantOK  bool
	}{
		{
			name:    "flat fields",
			payload: map[string]any{"lat": 10.5, "lon": 20.25, "alt": 100.0},
			want:    Location{Lat: 10.5, Lon: 20.25, Alt: alt(100)},
			wantOK:  true,
		},
		{
			name:    "long key spellings",
			payload: map[string]any{"latitude": 10.5, "longitude": 20.25, "altitudeMeters": 100.0},
			want:    Location{Lat: 10.5, Lon: 20.25, Alt: alt(100)},
			wantOK:  true,
		},
		{
			name:    "no altitude",
			payload: map[string]any{"lat": 10.5, "lon": 20.25},
			want:    Location{Lat: 10.5, Lon: 20.25},
			wantOK:  true,
		},
		{
			name: "nested gps_stats",
			payload: map[string]any{
				"gps_stats": map[string]any{"lat": -33.0, "lon": 151.0, "altitude_m": 5.0},
			},
			want:   Location{Lat: -33, Lon: 151, Alt: alt(5)},
			wantOK: true,
		},
		{
			name: "nested gpsStats camel case",
			payload: map[string]any{
				"gpsStats": map[string]any{"latitude": 1.0, "longitude": 2.0},
			},
			want:   Location{Lat: 1, Lon: 2},
			wantOK: true,
		},
		{
			name: "http diagnostic location object",
			payload: map[string]any{
				"location": map[string]any{"latitude": 10.5, "longitude": 20.25, "altitudeMeters": 100.0},
			},
			want:   Location{Lat: 10.5, Lon: 20.25, Alt: alt(100)},
			wantOK: true,
		},
		{
			name: "position alias",
			payload: map[string]any{
				"position": map[string]any{"lat": 3.0, "lon": 4.0},
			},
			want:   Location{Lat: 3, Lon: 4},
			wantOK: true,
		},
		{
			name: "top level wins over nested location",
			payload: map[string]any{
				"lat": 1.0, "lon": 2.0,
				"location": map[string]any{"latitude": 9.0, "longitude": 9.0},
			},
			want:   Location{Lat: 1, Lon: 2},
			wantOK: true,
		},
		{
			name:    "string typed numbers",
			payload: map[string]any{"latitude": "10.5", "longitude": "20.25", "altitude": "100"},
			want:    Location{Lat: 10.5, Lon: 20.25, Alt: alt(100)},
			wantOK:  true,
		},
		{
			name:    "longitude only",
			payload: map[string]any{"lon": 20.25},
			wantOK:  false,
		},
		{
			name: "latitude missing everywhere",
			payload: map[string]any{
				"gps_stats": map[string]any{"lon": 1.0},
				"location":  map[string]any{"longitude": 2.0},
			},
			wantOK: false,
		},
		{
			name:    "non coercible latitude treated as absent",
			payload: map[string]any{"lat": "north", "lon": 20.25},
			wantOK:  false,
		},
		{
			name: "unusable top level falls through to nested",
			payload: map[string]any{
				"lat":      "bogus",
				"location": map[string]any{"latitude": 5.0, "longitude": 6.0},
			},
			want:   Location{Lat: 5, Lon: 6},
			wantOK: true,
		},
		{
			name:    "nil payload",
			payload: nil,
			wantOK:  false,
		},
		{
			name:    "non object payload",
			payload: []any{1.0, 2.0},
			wantOK:  false,
		},
		{
			name:    "empty object",
			payload: map[string]any{},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.payload)
			if ok != tt.wantOK {
				t.Fatalf("Extract() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Lat != tt.want.Lat || got.Lon != tt.want.Lon {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
			switch {
			case tt.want.Alt == nil && got.Alt != nil:
				t.Errorf("Extract() altitude = %v, want none", *got.Alt)
			case tt.want.Alt != nil && got.Alt == nil:
				t.Errorf("Extract() altitude missing, want %v", *tt.want.Alt)
			case tt.want.Alt != nil && *got.Alt != *tt.want.Alt:
				t.Errorf("Extract() altitude = %v, want %v", *got.Alt, *tt.want.Alt)
			}
		})
	}
}

func TestAltMeters(t *testing.T) {
	if got := (Location{}).AltMeters(); got != 0 {
		t.Errorf("AltMeters() with no altitude = %v, want 0", got)
	}
	alt := 100.0
	if got := (Location{Alt: &alt}).AltMeters(); got != 100 {
		t.Errorf("AltMeters() = %v, want 100", got)
	}
}
