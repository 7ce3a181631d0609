package serve

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/R167/starnmea/internal/output"
)

// WSSink streams the sentence payload to WebSocket clients, for browser
// chartplotters that cannot open raw TCP. It also serves the latest payload
// at /api/nmea for plain HTTP polling.
//
// Unlike the TCP sink, connections arrive on HTTP handler goroutines, so the
// client set is mutex protected.
type WSSink struct {
	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader
	out      output.Output

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    []byte
}

func NewWSSink(bindHost string, port int, out output.Output) (*WSSink, error) {
	addr := net.JoinHostPort(bindHost, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &WSSink{
		ln:      ln,
		out:     out,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// Local-network position feed; any origin may subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)
	mux.HandleFunc("/api/nmea", s.handleLatest)
	s.srv = &http.Server{Handler: mux}

	out.Info("WebSocket server listening on %s", addr)
	go s.srv.Serve(ln)
	return s, nil
}

// Addr returns the bound listener address.
func (s *WSSink) Addr() net.Addr {
	return s.ln.Addr()
}

func (s *WSSink) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *WSSink) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.out.Info("Client connected: %s", conn.RemoteAddr())

	// Drain (and discard) client frames so close handshakes are noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn, err)
				return
			}
		}
	}()
}

func (s *WSSink) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if len(last) == 0 {
		http.Error(w, "no position yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	w.Write(last)
}

func (s *WSSink) drop(conn *websocket.Conn, err error) {
	s.mu.Lock()
	_, present := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if present {
		s.out.Info("Client dropped: %s (%v)", conn.RemoteAddr(), err)
	}
	conn.Close()
}

func (s *WSSink) Poll() {}

func (s *WSSink) Broadcast(payload []byte) {
	s.mu.Lock()
	s.last = append([]byte(nil), payload...)
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.drop(conn, err)
		}
	}
}

func (s *WSSink) Close() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = map[*websocket.Conn]struct{}{}
	s.mu.Unlock()
	return s.srv.Close()
}
