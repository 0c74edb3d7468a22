package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"textguard/internal/platform/config"
	"textguard/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server wraps a chi mux and a stdlib http.Server
type Server struct {
	addr  string
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads PORT, READ_TIMEOUT, WRITE_TIMEOUT and SHUTDOWN_GRACE from cfg
// opts receive the *chi.Mux so callers can mount routes and middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		mux:   m,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 60*time.Second),
		},
	}
}

// Router returns a Router facade over the root mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the root handler, mainly for httptest
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in-flight requests for up to the grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
