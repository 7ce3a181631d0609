// Package nmea builds NMEA 0183 position sentences from a dish location fix.
//
// Only two sentence types are produced, RMC and GGA, matching what marine
// chartplotters (OpenCPN and friends) need for a position feed. Nothing is
// ever parsed here.
package nmea

import (
	"fmt"
	"math"
	"time"
)

// Fix is a single position sample stamped with the wall-clock time it was
// acquired. The dish does not report a fix timestamp of its own.
type Fix struct {
	Time       time.Time
	Lat        float64 // decimal degrees, signed
	Lon        float64 // decimal degrees, signed
	SpeedKnots float64 // zero when unknown
	TrackDeg   float64 // zero when unknown
	AltMeters  float64 // zero when unknown
}

// Checksum returns the XOR fold of the sentence body (the text between '$'
// and '*', both exclusive) as two uppercase hex digits.
func Checksum(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return fmt.Sprintf("%02X", sum)
}

// formatLatLon renders a signed decimal-degree value as the NMEA
// degrees+minutes field and its hemisphere letter. Latitude uses two degree
// digits, longitude three.
func formatLatLon(value float64, isLat bool) (string, string) {
	hemi := "N"
	if !isLat {
		hemi = "E"
	}
	if value < 0 {
		if isLat {
			hemi = "S"
		} else {
			hemi = "W"
		}
	}
	value = math.Abs(value)
	degrees := int(value)
	minutes := (value - float64(degrees)) * 60.0
	if isLat {
		return fmt.Sprintf("%02d%06.3f", degrees, minutes), hemi
	}
	return fmt.Sprintf("%03d%06.3f", degrees, minutes), hemi
}

func timeField(ts time.Time) string {
	ts = ts.UTC()
	// Sub-second precision is never available from the dish; the ".00"
	// suffix is fixed rather than fabricated.
	return fmt.Sprintf("%02d%02d%02d.00", ts.Hour(), ts.Minute(), ts.Second())
}

func dateField(ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("%02d%02d%02d", ts.Day(), int(ts.Month()), ts.Year()%100)
}

// RMC builds a complete $GPRMC sentence (position, speed, track, date).
// Status is always "A" and the magnetic-variation fields stay empty; the
// dish exposes no validity or variation data.
func RMC(f Fix) string {
	latStr, latHemi := formatLatLon(f.Lat, true)
	lonStr, lonHemi := formatLatLon(f.Lon, false)
	body := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,%.1f,%.1f,%s,,,A",
		timeField(f.Time), latStr, latHemi, lonStr, lonHemi,
		f.SpeedKnots, f.TrackDeg, dateField(f.Time))
	return "$" + body + "*" + Checksum(body)
}

// GGA builds a complete $GPGGA sentence (position, fix quality, altitude).
// Fix quality "1", satellite count "08" and HDOP "1.0" are fixed: the dish
// location API exposes none of them, and clients expect the fields populated.
func GGA(f Fix) string {
	latStr, latHemi := formatLatLon(f.Lat, true)
	lonStr, lonHemi := formatLatLon(f.Lon, false)
	body := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,08,1.0,%.1f,M,0.0,M,,",
		timeField(f.Time), latStr, latHemi, lonStr, lonHemi, f.AltMeters)
	return "$" + body + "*" + Checksum(body)
}

// Sentences returns the RMC+GGA pair as the CRLF-terminated wire payload
// written to every output transport.
func Sentences(f Fix) []byte {
	return []byte(RMC(f) + "\r\n" + GGA(f) + "\r\n")
}
