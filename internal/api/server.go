// SPDX-License-Identifier: MIT

// Package api serves the generated playlist and guide over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/deeplinks/internal/api/middleware"
	"github.com/ManuGH/deeplinks/internal/config"
	xglog "github.com/ManuGH/deeplinks/internal/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Deps holds optional collaborators of the server.
type Deps struct {
	// Refresh regenerates the artifacts. It is required when
	// Server.RefreshCron is set.
	Refresh func(ctx context.Context) error
}

// Server is the delivery server.
type Server struct {
	cfg    config.AppConfig
	deps   Deps
	router http.Handler

	refreshMu sync.Mutex

	addrMu sync.RWMutex
	addr   net.Addr
	ready  chan struct{}
}

// New builds a server; nothing is bound until Run.
func New(cfg config.AppConfig, deps Deps) *Server {
	s := &Server{
		cfg:   cfg,
		deps:  deps,
		ready: make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.NoStoreCORS)
	r.Use(middleware.PerMinute(s.cfg.Server.RateLimit))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", s.artifactServer())
	r.Handle("/", s.artifactServer())

	return middleware.OTelHTTP("deeplinks")(r)
}

// Handler exposes the fully wrapped router.
func (s *Server) Handler() http.Handler { return s.router }

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.addrMu.RLock()
	defer s.addrMu.RUnlock()
	return s.addr
}

// Run binds the listener and serves until ctx is cancelled. The artifact
// watcher and the optional refresh schedule run alongside the listener;
// any of them failing stops the others.
func (s *Server) Run(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "api")

	if s.cfg.Server.RefreshCron != "" && s.deps.Refresh == nil {
		return errors.New("refresh schedule configured without a refresh function")
	}
	if err := os.MkdirAll(s.cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	listenAddr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}

	s.addrMu.Lock()
	s.addr = ln.Addr()
	s.addrMu.Unlock()
	close(s.ready)

	base := baseURL(s.cfg.Server.Host, ln.Addr())
	logger.Info().
		Str(xglog.FieldEvent, "server.listen").
		Str("addr", ln.Addr().String()).
		Str(xglog.FieldBaseURL, base).
		Str(xglog.FieldPlaylistPath, base+"/"+s.cfg.PlaylistFile).
		Str(xglog.FieldXMLTVPath, base+"/"+s.cfg.XMLTVFile).
		Msg("serving artifacts")

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.watchArtifacts(gctx)
	})
	if s.cfg.Server.RefreshCron != "" {
		g.Go(func() error {
			return s.runSchedule(gctx)
		})
	}

	err = g.Wait()
	logger.Info().Str(xglog.FieldEvent, "server.stopped").Msg("server stopped")
	return err
}
