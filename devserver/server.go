package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/reactivity-io/reactivity-go/logger"
)

// Server is the mock backend.
type Server struct {
	cfg        Config
	data       *Dataset
	engine     *gin.Engine
	httpServer *http.Server
	addr       string
	log        *logger.Logger
}

// New creates a server over data. A nil data serves SampleDataset.
func New(cfg Config, data *Dataset) *Server {
	cfg.ApplyDefaults()
	if data == nil {
		data = SampleDataset()
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		data:   data,
		engine: gin.New(),
		log:    logger.WithComponent("devserver"),
	}
	s.engine.Use(recovery(s.log), requestID(), requestLogger(s.log))
	s.routes()
	return s
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the listener and serves in the background. It returns once the
// port is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("devserver: bind %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	s.addr = listener.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{logger.FieldError: err.Error()})
		}
	}()

	s.log.Info("Mock backend started", map[string]interface{}{
		"addr":           s.addr,
		"discovery_path": s.cfg.DiscoveryPath,
	})
	return nil
}

// Stop shuts the server down, waiting up to 5 seconds for open requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devserver: shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address, empty before Start.
func (s *Server) Addr() string {
	return s.addr
}

// URL returns the server origin, empty before Start.
func (s *Server) URL() string {
	if s.addr == "" {
		return ""
	}
	return "http://" + s.addr
}
