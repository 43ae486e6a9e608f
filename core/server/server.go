package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mailhaven/webserve/core/gate"
	"github.com/mailhaven/webserve/core/logger"
)

// Server runs the embedded HTTP listener. It is built around a
// single-instance lifecycle: one Run call serves until the context is
// canceled, then the shutdown sequence quiesces the request gate before
// closing the listener, so maintenance-grade shutdown and request draining
// share one mechanism.
type Server struct {
	addr           string
	logger         *slog.Logger
	quiesce        *gate.Gate
	shutdown       time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	maxHeaderBytes int
	tlsConfig      *tls.Config
	started        atomic.Bool
}

// New creates a new Server with the given address and options.
// Defaults to a 30-second graceful shutdown timeout and a no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:       DefaultShutdownTimeout,
		readTimeout:    DefaultReadTimeout,
		writeTimeout:   DefaultWriteTimeout,
		idleTimeout:    DefaultIdleTimeout,
		maxHeaderBytes: DefaultMaxHeaderBytes,
	}

	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("server"))

	return s
}

// Run serves until the context is canceled or the listener fails, then shuts
// down gracefully. A canceled context is the normal way to stop; Run returns
// nil after a clean shutdown. Only one Run may be active per Server.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	defer s.started.Store(false)

	srv := &http.Server{
		Addr:           s.addr,
		Handler:        handler,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		TLSConfig:      s.tlsConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "listening", slog.String("addr", s.addr))
		if s.tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	return s.stop(srv, errCh)
}

// stop drains in-flight requests through the gate, then closes the listener.
// The admission lock stays held until the listener is down, so no request is
// admitted into a dying server.
func (s *Server) stop(srv *http.Server, errCh <-chan error) error {
	start := time.Now()
	s.logger.Info("shutting down", logger.Duration(s.shutdown))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	if s.quiesce != nil {
		release, idle := s.quiesce.WaitUntilIdle(shutdownCtx, 0)
		defer release()
		if !idle {
			s.logger.Warn("shutdown proceeding with requests in flight",
				slog.Int64("in_flight", s.quiesce.InFlight()))
		}
	}

	err := srv.Shutdown(shutdownCtx)
	<-errCh // the serve goroutine exits with ErrServerClosed

	if err != nil {
		s.logger.Error("shutdown failed", logger.Error(err))
		return err
	}

	s.logger.Info("shutdown complete", logger.Elapsed(start))
	return nil
}
