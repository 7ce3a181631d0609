package dish

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/R167/starnmea/internal/output"
	"github.com/R167/starnmea/internal/telemetry"
)

// Source yields one location per poll cycle. A false return means "no data
// this cycle"; the serving loop emits nothing and tries again.
type Source interface {
	Acquire(ctx context.Context) (telemetry.Location, bool)
}

// rpcClient is the slice of Client the acquirer needs; tests substitute it.
type rpcClient interface {
	GetLocation(ctx context.Context) (map[string]any, error)
	GetStatus(ctx context.Context) (map[string]any, error)
	Close() error
}

// Acquirer runs the strategy ladder against one dish address:
// gRPC get_location, gRPC get_status, HTTP diagnostic page. Every step
// failure means "try the next strategy", never an error.
type Acquirer struct {
	out  output.Output
	diag *Diagnostics
	dial func(endpoint string, out output.Output) (rpcClient, error)
}

func NewAcquirer(out output.Output) *Acquirer {
	return &Acquirer{
		out:  out,
		diag: NewDiagnostics(out),
		dial: func(endpoint string, out output.Output) (rpcClient, error) {
			return NewClient(endpoint, out)
		},
	}
}

// Acquire returns the dish location, or false when no strategy produced one.
// With an unresolved host the gRPC strategies still run against the default
// endpoint; the HTTP fallback is skipped since it has nowhere to go.
func (a *Acquirer) Acquire(ctx context.Context, host string) (telemetry.Location, bool) {
	endpoint := net.JoinHostPort(DefaultDishIP, strconv.Itoa(DefaultDishPort))
	if host != "" {
		endpoint = net.JoinHostPort(host, strconv.Itoa(DefaultDishPort))
	}

	if client, err := a.dial(endpoint, a.out); err != nil {
		a.out.Debug("dish gRPC unavailable: %v", err)
	} else {
		defer client.Close()
		if raw, err := client.GetLocation(ctx); err != nil {
			a.out.Debug("get_location failed: %v", err)
		} else if loc, ok := locationFrom(payloadObject(raw)); ok {
			return loc, true
		}
		if raw, err := client.GetStatus(ctx); err != nil {
			a.out.Debug("get_status failed: %v", err)
		} else if loc, ok := locationFrom(payloadObject(raw)); ok {
			return loc, true
		}
	}

	if host == "" {
		return telemetry.Location{}, false
	}
	return a.diag.FetchLocation(ctx, host)
}

// locationFrom extracts a location from a decoded gRPC payload. get_location
// responses nest the coordinate under an "lla" object; everything else is
// left to the extractor's own nesting rules.
func locationFrom(payload map[string]any) (telemetry.Location, bool) {
	if loc, ok := telemetry.Extract(payload); ok {
		return loc, true
	}
	if lla, present := payload["lla"]; present {
		return telemetry.Extract(lla)
	}
	return telemetry.Location{}, false
}

// LiveSource wraps an Acquirer with dish address resolution state: the
// current address and the cooldown clock that decides when a failed cycle
// may re-derive it.
type LiveSource struct {
	out      output.Output
	override string
	acquirer *Acquirer

	addr        string
	lastResolve time.Time

	now     func() time.Time
	resolve func(explicit string, out output.Output) (string, bool)
}

func NewLiveSource(override string, out output.Output) *LiveSource {
	s := &LiveSource{
		out:      out,
		override: override,
		acquirer: NewAcquirer(out),
		now:      time.Now,
		resolve:  Resolve,
	}
	s.addr, _ = s.resolve(override, out)
	s.lastResolve = s.now()
	return s
}

func (s *LiveSource) Acquire(ctx context.Context) (telemetry.Location, bool) {
	loc, ok := s.acquirer.Acquire(ctx, s.addr)
	if !ok && s.now().Sub(s.lastResolve) > ResolveCooldown {
		s.addr, _ = s.resolve(s.override, s.out)
		s.lastResolve = s.now()
	}
	return loc, ok
}

// Addr returns the currently resolved dish address ("" when unresolved).
func (s *LiveSource) Addr() string {
	return s.addr
}

// FileSource reads a diagnostic JSON document from disk each cycle and runs
// it through the extractor. Used for serving deterministic data without a
// dish on the network.
type FileSource struct {
	Path string
}

func (f *FileSource) Acquire(ctx context.Context) (telemetry.Location, bool) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return telemetry.Location{}, false
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return telemetry.Location{}, false
	}
	return telemetry.Extract(payload)
}
