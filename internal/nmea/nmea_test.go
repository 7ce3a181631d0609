package nmea

import (
	"math"
	"strings"
	"testing"
	"time"

	gonmea "github.com/adrianmo/go-nmea"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		// G^P^G^G^A = 0x47^0x50^0x47^0x47^0x41 = 0x56
		{"hand computed", "GPGGA", "56"},
		// Classic NMEA 0183 documentation example
		{"gll example", "GPGLL,4916.45,N,12311.12,W,225444,A", "1D"},
		{"empty body", "", "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.body); got != tt.want {
				t.Errorf("Checksum(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestFormatLatLon(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		isLat    bool
		want     string
		wantHemi string
	}{
		{"golden gate lat", 37.8199, true, "3749.194", "N"},
		{"golden gate lon", -122.4783, false, "12228.698", "W"},
		{"southern lat", -33.8568, true, "3351.408", "S"},
		{"eastern lon", 151.2153, false, "15112.918", "E"},
		{"equator", 0, true, "0000.000", "N"},
		{"single digit degrees", 10.5, true, "1030.000", "N"},
		{"lon pads three degree digits", 20.25, false, "02015.000", "E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hemi := formatLatLon(tt.value, tt.isLat)
			if got != tt.want || hemi != tt.wantHemi {
				t.Errorf("formatLatLon(%v, %v) = %q, %q, want %q, %q",
					tt.value, tt.isLat, got, hemi, tt.want, tt.wantHemi)
			}
		})
	}
}

func TestRMC(t *testing.T) {
	fix := Fix{
		Time: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Lat:  10.5,
		Lon:  20.25,
	}
	got := RMC(fix)

	wantBody := "GPRMC,030405.00,A,1030.000,N,02015.000,E,0.0,0.0,020124,,,A"
	want := "$" + wantBody + "*" + Checksum(wantBody)
	if got != want {
		t.Errorf("RMC() = %q, want %q", got, want)
	}

	// Encoding is deterministic: same fix, identical bytes.
	if again := RMC(fix); again != got {
		t.Errorf("RMC() not deterministic: %q vs %q", got, again)
	}
}

func TestGGA(t *testing.T) {
	fix := Fix{
		Time:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Lat:       10.5,
		Lon:       20.25,
		AltMeters: 100,
	}
	got := GGA(fix)

	wantBody := "GPGGA,030405.00,1030.000,N,02015.000,E,1,08,1.0,100.0,M,0.0,M,,"
	want := "$" + wantBody + "*" + Checksum(wantBody)
	if got != want {
		t.Errorf("GGA() = %q, want %q", got, want)
	}
}

func TestTimeConvertedToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	fix := Fix{Time: time.Date(2024, 6, 1, 5, 0, 0, 0, loc)} // 00:00:00 UTC
	if got := RMC(fix); !strings.Contains(got, ",000000.00,") {
		t.Errorf("RMC() should encode UTC time, got %q", got)
	}
}

// The emitted sentences must survive a real NMEA parser, checksum included.
func TestSentencesParseBack(t *testing.T) {
	fix := Fix{
		Time:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Lat:        37.8199,
		Lon:        -122.4783,
		SpeedKnots: 0,
		TrackDeg:   0,
		AltMeters:  12.5,
	}

	payload := string(Sentences(fix))
	if !strings.HasSuffix(payload, "\r\n") {
		t.Fatalf("payload must be CRLF terminated, got %q", payload)
	}
	lines := strings.Split(strings.TrimSuffix(payload, "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("payload should hold exactly two sentences, got %d: %q", len(lines), payload)
	}

	parsed, err := gonmea.Parse(lines[0])
	if err != nil {
		t.Fatalf("RMC did not parse: %v (%q)", err, lines[0])
	}
	rmc, ok := parsed.(gonmea.RMC)
	if !ok {
		t.Fatalf("first sentence parsed as %T, want RMC", parsed)
	}
	if rmc.Validity != "A" {
		t.Errorf("RMC validity = %q, want A", rmc.Validity)
	}
	if math.Abs(rmc.Latitude-37.8199) > 0.0001 {
		t.Errorf("RMC latitude = %v, want ~37.8199", rmc.Latitude)
	}
	if math.Abs(rmc.Longitude-(-122.4783)) > 0.0001 {
		t.Errorf("RMC longitude = %v, want ~-122.4783", rmc.Longitude)
	}

	parsed, err = gonmea.Parse(lines[1])
	if err != nil {
		t.Fatalf("GGA did not parse: %v (%q)", err, lines[1])
	}
	gga, ok := parsed.(gonmea.GGA)
	if !ok {
		t.Fatalf("second sentence parsed as %T, want GGA", parsed)
	}
	if gga.FixQuality != gonmea.GPS {
		t.Errorf("GGA fix quality = %q, want %q", gga.FixQuality, gonmea.GPS)
	}
	if gga.NumSatellites != 8 {
		t.Errorf("GGA satellites = %d, want 8", gga.NumSatellites)
	}
	if math.Abs(gga.Altitude-12.5) > 0.001 {
		t.Errorf("GGA altitude = %v, want 12.5", gga.Altitude)
	}
}
