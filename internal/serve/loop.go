package serve

import (
	"context"
	"time"

	"github.com/R167/starnmea/internal/dish"
	"github.com/R167/starnmea/internal/nmea"
	"github.com/R167/starnmea/internal/output"
)

// Loop is the poll/encode/broadcast cycle. All loop state lives here and is
// touched only by Run's goroutine.
type Loop struct {
	source   dish.Source
	sinks    []Sink
	interval time.Duration
	out      output.Output

	now         func() time.Time
	sampleShown bool
}

func NewLoop(source dish.Source, sinks []Sink, interval time.Duration, out output.Output) *Loop {
	return &Loop{
		source:   source,
		sinks:    sinks,
		interval: interval,
		out:      out,
		now:      time.Now,
	}
}

// Run cycles until ctx is cancelled: drain pending connections, acquire a
// location, stamp it with the current UTC time, encode, broadcast, sleep.
// A cycle with no location simply emits nothing. Always returns nil;
// cancellation is the one way out and it is a clean shutdown.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		for _, sink := range l.sinks {
			sink.Poll()
		}

		if loc, ok := l.source.Acquire(ctx); ok {
			fix := nmea.Fix{
				Time:      l.now().UTC(),
				Lat:       loc.Lat,
				Lon:       loc.Lon,
				AltMeters: loc.AltMeters(),
			}
			payload := nmea.Sentences(fix)
			if !l.sampleShown {
				l.sampleShown = true
				l.out.Info("Sample NMEA (first output):")
				l.out.Info("  %s", nmea.RMC(fix))
				l.out.Info("  %s", nmea.GGA(fix))
			}
			for _, sink := range l.sinks {
				sink.Broadcast(payload)
			}
		} else {
			l.out.Info("No dish location available.")
		}

		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}
