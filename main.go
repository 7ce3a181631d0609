// Command starnmea polls a Starlink dish for its location and serves it as
// NMEA 0183 position sentences (RMC + GGA) over TCP, UDP or WebSocket, for
// OpenCPN and other navigation clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/R167/starnmea/internal/config"
	"github.com/R167/starnmea/internal/dish"
	"github.com/R167/starnmea/internal/output"
	"github.com/R167/starnmea/internal/serve"
)

func main() {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	out := output.NewStreamingOutput(os.Stdout, cfg.Verbose)

	// SIGINT/SIGTERM cancel the loop; shutdown is a normal, zero exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, out); err != nil {
		out.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, out output.Output) error {
	var source dish.Source
	if cfg.TestFile != "" {
		source = &dish.FileSource{Path: cfg.TestFile}
	} else {
		source = dish.NewLiveSource(cfg.DishAddr, out)
	}

	sink, err := newSink(cfg, out)
	if err != nil {
		// The one fatal condition: the output socket could not be set up.
		return fmt.Errorf("startup: %w", err)
	}
	defer sink.Close()

	loop := serve.NewLoop(source, []serve.Sink{sink}, cfg.Interval, out)
	return loop.Run(ctx)
}

func newSink(cfg config.Config, out output.Output) (serve.Sink, error) {
	switch cfg.Mode {
	case config.ModeTCP:
		return serve.NewTCPSink(cfg.Host, cfg.Port, out)
	case config.ModeUDP:
		return serve.NewUDPSink(cfg.Host, cfg.Port, cfg.Broadcast, out)
	case config.ModeWS:
		return serve.NewWSSink(cfg.Host, cfg.Port, out)
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}
