package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// reapInterval is how often the idle reaper scans the registry.
const reapInterval = time.Minute

// Server is the WebSocket gateway the chat relay connects to. It
// decodes relay events, hands them to the dispatcher, and writes the
// rendered replies back on the same connection. All game state lives
// behind the dispatcher's engine; the server itself only shuttles
// messages.
type Server struct {
	addr       string
	upgrader   websocket.Upgrader
	dispatcher *Dispatcher
	clock      quartz.Clock
	maxIdle    time.Duration
	logger     zerolog.Logger

	mu          sync.Mutex
	connections map[*websocket.Conn]*connWriter
}

type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) write(msg *Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(msg)
}

// NewServer creates a gateway listening on addr. maxIdle of zero
// disables idle-game reaping.
func NewServer(addr string, dispatcher *Dispatcher, clock quartz.Clock, maxIdle time.Duration, logger zerolog.Logger) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The relay authenticates at the platform, not here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		dispatcher:  dispatcher,
		clock:       clock,
		maxIdle:     maxIdle,
		logger:      logger.With().Str("component", "server").Logger(),
		connections: make(map[*websocket.Conn]*connWriter),
	}
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start runs the gateway until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.addr).Msg("gateway listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.closeConnections()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if s.maxIdle > 0 {
		g.Go(func() error {
			return s.reapLoop(ctx)
		})
	}

	return g.Wait()
}

// reapLoop periodically removes abandoned waiting games so channels
// that never start a game do not pin memory for the process lifetime.
func (s *Server) reapLoop(ctx context.Context) error {
	ticker := s.clock.TickerFunc(ctx, reapInterval, func() error {
		reaped := s.dispatcher.engine.Registry().ReapIdle(s.maxIdle)
		for _, channel := range reaped {
			s.logger.Info().Str("channel", channel).Msg("reaped idle game")
		}
		return nil
	}, "reap")

	err := ticker.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	writer := &connWriter{conn: conn}
	s.mu.Lock()
	s.connections[conn] = writer
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info().Str("remote", conn.RemoteAddr().String()).Int("total", total).Msg("relay connected")

	defer func() {
		s.mu.Lock()
		delete(s.connections, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("relay disconnected")
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("relay read failed")
			}
			return
		}

		// The engine transition commits and releases its channel lock
		// inside Dispatch; the write below never blocks game state.
		reply := s.dispatcher.Dispatch(&msg)
		if reply == nil {
			continue
		}
		if err := writer.write(reply); err != nil {
			s.logger.Error().Err(err).Msg("failed to write reply")
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}
