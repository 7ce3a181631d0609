package serve

import (
	"net"
	"strconv"
	"time"

	"github.com/R167/starnmea/internal/output"
)

const (
	// acceptWindow bounds the per-cycle accept drain.
	acceptWindow = 10 * time.Millisecond
	// writeTimeout keeps one stalled client from blocking the cycle.
	writeTimeout = time.Second
)

// TCPSink serves the sentence stream to every connected client, the
// OpenCPN-style "TCP NMEA server on 10110" arrangement. The client set is
// owned by the serving loop alone; no locking.
type TCPSink struct {
	ln      *net.TCPListener
	clients []net.Conn
	out     output.Output
}

func NewTCPSink(bindHost string, port int, out output.Output) (*TCPSink, error) {
	addr := net.JoinHostPort(bindHost, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	out.Info("TCP server listening on %s", addr)
	return &TCPSink{ln: ln.(*net.TCPListener), out: out}, nil
}

// Addr returns the bound listener address.
func (s *TCPSink) Addr() net.Addr {
	return s.ln.Addr()
}

// ClientCount returns the number of currently connected clients.
func (s *TCPSink) ClientCount() int {
	return len(s.clients)
}

// Poll accepts pending clients. The deadline keeps the pass bounded: queued
// connections are taken immediately, then Accept times out and the cycle
// moves on.
func (s *TCPSink) Poll() {
	s.ln.SetDeadline(time.Now().Add(acceptWindow))
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.clients = append(s.clients, conn)
		s.out.Info("Client connected: %s", conn.RemoteAddr())
	}
}

// Broadcast writes the payload to every client. A failed write evicts that
// client immediately; the rest are unaffected.
func (s *TCPSink) Broadcast(payload []byte) {
	alive := s.clients[:0]
	for _, conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(payload); err != nil {
			s.out.Info("Client dropped: %s (%v)", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	s.clients = alive
}

func (s *TCPSink) Close() error {
	for _, conn := range s.clients {
		conn.Close()
	}
	s.clients = nil
	return s.ln.Close()
}
