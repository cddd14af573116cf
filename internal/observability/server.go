package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sandevgo/routerbot/pkg/log"
)

// Server serves /metrics as a srv.Service.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, c *DeviceCollector) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting metrics server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// ctx is already cancelled at shutdown time
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
