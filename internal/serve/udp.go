package serve

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/R167/starnmea/internal/output"
)

// UDPSink sends each payload as a single best-effort datagram to one
// configured target, optionally a broadcast address.
type UDPSink struct {
	conn   net.PacketConn
	target *net.UDPAddr
	out    output.Output
}

func NewUDPSink(targetHost string, port int, broadcast bool, out output.Output) (*UDPSink, error) {
	target, err := net.ResolveUDPAddr("udp", net.JoinHostPort(targetHost, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}

	lc := net.ListenConfig{}
	if broadcast {
		lc.Control = broadcastControl
	}
	conn, err := lc.ListenPacket(context.Background(), "udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("open socket: %w", err)
	}

	out.Info("UDP output to %s (broadcast=%v)", target, broadcast)
	return &UDPSink{conn: conn, target: target, out: out}, nil
}

func (s *UDPSink) Poll() {}

func (s *UDPSink) Broadcast(payload []byte) {
	if len(payload) == 0 {
		return
	}
	if _, err := s.conn.WriteTo(payload, s.target); err != nil {
		s.out.Debug("udp send to %s: %v", s.target, err)
	}
}

func (s *UDPSink) Close() error {
	return s.conn.Close()
}
