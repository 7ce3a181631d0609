package dish

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/R167/starnmea/internal/output"
)

const (
	// Standard Starlink Dishy IP and gRPC port
	DefaultDishIP   = "192.168.100.1"
	DefaultDishPort = 9200

	// ResolveCooldown is how long a failed resolution result is kept before
	// the address is re-derived. The dish may change address or come up
	// after a cold start.
	ResolveCooldown = 30 * time.Second

	probeTimeout = 500 * time.Millisecond
)

// Environment variables recognized when no explicit address is given.
const (
	EnvDishIP   = "STARLINK_DISH_IP"
	EnvDishHost = "STARLINK_DISH_HOST"
)

// Hostnames the dish commonly answers to on local resolvers.
var wellKnownHosts = []string{"dish", "starlink"}

// Overridable in tests.
var (
	lookupHost  = net.LookupHost
	dialTimeout = net.DialTimeout
)

// Resolve derives the dish network address. Order: explicit override,
// STARLINK_DISH_IP, STARLINK_DISH_HOST, well-known hostnames, then the
// default IP gated on a short TCP probe of its gRPC port. An override short
// circuits everything, including all network calls.
//
// Returns ("", false) when every strategy fails; that is an expected
// outcome, not an error.
func Resolve(explicit string, out output.Output) (string, bool) {
	if explicit != "" {
		return explicit, true
	}

	for _, env := range []string{EnvDishIP, EnvDishHost} {
		if host := os.Getenv(env); host != "" {
			out.Debug("dish address from %s: %s", env, host)
			return host, true
		}
	}

	for _, hostname := range wellKnownHosts {
		addrs, err := lookupHost(hostname)
		if err != nil || len(addrs) == 0 {
			continue
		}
		out.Debug("dish address from hostname %q: %s", hostname, addrs[0])
		return addrs[0], true
	}

	if probePort(DefaultDishIP, DefaultDishPort) {
		out.Debug("dish address from default IP probe: %s", DefaultDishIP)
		return DefaultDishIP, true
	}

	out.Debug("dish address unresolved")
	return "", false
}

func probePort(host string, port int) bool {
	conn, err := dialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
