package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts websocket connections and hands them to the session.
type Server struct {
	addr       string
	upgrader   websocket.Upgrader
	session    *Session
	logger     *log.Logger
	httpServer *http.Server
	register   chan *Connection
	unregister chan *Connection

	mu          sync.Mutex
	connections map[*Connection]bool
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a websocket server for the given session.
func NewServer(addr string, logger *log.Logger, session *Session) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Clients connect from arbitrary origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		session:     session,
		logger:      logger.WithPrefix("server"),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start listens for connections. It blocks until the listener fails or
// Stop is called, returning nil on a clean shutdown.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("starting websocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and closes all connections.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				s.session.Disconnect(conn)
				_ = conn.Close()
			}
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket upgrades incoming requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.session)
	s.register <- client
	client.Start()

	go func() {
		<-client.Done()
		s.unregister <- client
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
