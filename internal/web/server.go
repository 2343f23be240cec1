package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/websocket"

	"github.com/guidoenr/sortlights/internal/input"
	"github.com/guidoenr/sortlights/internal/render"
)

//go:embed index.html
var indexHTML []byte

const (
	statusInterval = 500 * time.Millisecond
	pingInterval   = 54 * time.Second
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	sendQueue      = 64
)

// Status is the JSON snapshot served at /api/status and pushed to clients.
type Status struct {
	Algorithm  string  `json:"algorithm"`
	Day        int     `json:"day"`
	Delay      float64 `json:"delay"`
	LEDCount   int     `json:"ledCount"`
	ColorOrder string  `json:"colorOrder"`
	Clients    int     `json:"clients"`
}

// Config wires the server to the rest of the process.
type Config struct {
	Addr       string
	LEDCount   int
	ColorOrder render.ColorOrder
	// Events receives control events from browsers. Sends never block.
	Events chan<- input.Event
	// Status supplies the runtime part of the snapshot.
	Status  func() Status
	Metrics http.Handler
	Log     *log.Logger
}

// Server is both a strip driver that mirrors frames to browsers over
// websocket and an input adapter accepting control events.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	frame []byte

	mu       sync.RWMutex
	clients  map[*websocketClient]bool
	lastHash uint64
	hasFrame bool
	last     []byte
}

type message struct {
	kind int
	data []byte
}

type websocketClient struct {
	conn   *websocket.Conn
	send   chan message
	server *Server
}

// NewServer creates a server for a strip of cfg.LEDCount pixels.
func NewServer(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = log.Default()
	}
	return &Server{
		cfg:     cfg,
		frame:   make([]byte, 3*cfg.LEDCount),
		clients: make(map[*websocketClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/event", s.handleEvent)
	mux.HandleFunc("/ws", s.handleWebSocket)
	if s.cfg.Metrics != nil {
		mux.Handle("/metrics", s.cfg.Metrics)
	}
	return mux
}

// Serve listens on cfg.Addr until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.cfg.Log.Printf("[web] server starting on http://%s", s.cfg.Addr)

	go s.statusLoop(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) Start() error { return nil }

func (s *Server) SetHSV(index int, h, sat, v float64) {
	off := index * 3
	if index < 0 || off+3 > len(s.frame) {
		return
	}
	s.cfg.ColorOrder.Pack(s.frame[off:off+3], render.HSV(h, sat, v))
}

// Show broadcasts the frame unless it is identical to the previous one.
func (s *Server) Show() error {
	sum := xxhash.Sum64(s.frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasFrame && sum == s.lastHash {
		return nil
	}
	s.lastHash = sum
	s.hasFrame = true
	s.last = append(s.last[:0], s.frame...)

	msg := message{kind: websocket.BinaryMessage, data: append([]byte(nil), s.frame...)}
	s.broadcastLocked(msg)
	return nil
}

func (s *Server) Close() error {
	s.closeClients()
	return nil
}

func (s *Server) status() Status {
	var st Status
	if s.cfg.Status != nil {
		st = s.cfg.Status()
	}
	st.LEDCount = s.cfg.LEDCount
	st.ColorOrder = s.cfg.ColorOrder.String()
	s.mu.RLock()
	st.Clients = len(s.clients)
	s.mu.RUnlock()
	return st
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status())
}

type eventRequest struct {
	Event string `json:"event"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := input.ParseEvent(req.Event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.offer(e) {
		http.Error(w, "event queue full", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued", "event": e.String()})
}

func (s *Server) offer(e input.Event) bool {
	if s.cfg.Events == nil {
		return false
	}
	return input.Offer(s.cfg.Events, e)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Log.Printf("[web] websocket upgrade error: %v", err)
		return
	}

	client := &websocketClient{
		conn:   conn,
		send:   make(chan message, sendQueue),
		server: s,
	}

	s.mu.Lock()
	s.clients[client] = true
	if s.hasFrame {
		client.send <- message{kind: websocket.BinaryMessage, data: append([]byte(nil), s.last...)}
	}
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

// broadcastLocked queues msg for every client, dropping clients whose queue
// is full. s.mu must be held for writing.
func (s *Server) broadcastLocked(msg message) {
	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(s.clients, client)
		}
	}
}

func (s *Server) removeClient(c *websocketClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		close(c.send)
		delete(s.clients, c)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		close(client.send)
		delete(s.clients, client)
	}
}

func (s *Server) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		data, err := json.Marshal(s.status())
		if err != nil {
			continue
		}
		s.mu.Lock()
		s.broadcastLocked(message{kind: websocket.TextMessage, data: data})
		s.mu.Unlock()
	}
}

func (c *websocketClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		e, err := input.ParseEvent(string(data))
		if err != nil {
			c.server.cfg.Log.Printf("[web] %v", err)
			continue
		}
		c.server.offer(e)
	}
}

func (c *websocketClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
