package http

import (
	"context"
	"errors"
	stdnet "net"
	stdhttp "net/http"
	"sync"
	"time"

	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server

	mu    sync.Mutex
	bound string
}

// NewServer reads API_PORT (default :8000) and SHUTDOWN_GRACE from cfg
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayAddr("API_PORT", ":8000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the bound address once Run is listening, the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != "" {
		return s.bound
	}
	return s.addr
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to the grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	ln, err := stdnet.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()
	log.Info().Str("addr", s.Addr()).Msg("http listening")

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Dur("grace", s.grace).Msg("http draining")
		shCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		return s.Shutdown(shCtx)
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
