// Package server owns the proxy's listening socket and accept loop, plus
// the loopback-only metrics listener, in the style of zengxiaobai-tavern's
// server/server.go: a struct wrapping the listener and its lifecycle
// methods, started and stopped from main.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/WhileEndless/httpcacheproxy/internal/cache"
	"github.com/WhileEndless/httpcacheproxy/internal/connhandler"
	"github.com/WhileEndless/httpcacheproxy/internal/constants"
	"github.com/WhileEndless/httpcacheproxy/internal/metrics"
)

// Server listens on addr, dispatching each accepted connection to a
// connhandler.Handler and bounding concurrent in-flight connections to
// constants.MaxConcurrentConns via a weighted semaphore.
type Server struct {
	addr       string
	handler    *connhandler.Handler
	log        *zap.SugaredLogger
	sem        *semaphore.Weighted
	metricsSrv *http.Server
}

// New builds a Server listening on addr (":<port>"), serving responses
// through a cache shared with no one else, and exposing Prometheus metrics
// on constants.MetricsAddr (loopback-only, per SPEC_FULL.md §10.3).
func New(addr string, c *cache.Cache, log *zap.SugaredLogger) *Server {
	return &Server{
		addr:    addr,
		handler: connhandler.New(c, log),
		log:     log,
		sem:     semaphore.NewWeighted(int64(constants.MaxConcurrentConns)),
		metricsSrv: &http.Server{
			Addr:    constants.MetricsAddr,
			Handler: metrics.Handler(),
		},
	}
}

// Serve opens the listening socket and blocks, accepting and dispatching
// connections until ctx is cancelled. Per spec.md §6, the accept loop itself
// never exits on its own; ctx cancellation is the additive SIGINT/SIGTERM
// drain path described in SPEC_FULL.md §12, not part of the wire protocol.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	defer ln.Close()

	go func() {
		if err := s.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Warnw("metrics listener stopped", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
		_ = s.metricsSrv.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				// Wait for in-flight connections to finish before returning.
				_ = s.sem.Acquire(context.Background(), int64(constants.MaxConcurrentConns))
				return nil
			default:
			}
			s.log.Warnw("accept failed", "err", err)
			continue
		}

		if err := s.sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			_ = s.sem.Acquire(context.Background(), int64(constants.MaxConcurrentConns))
			return nil
		}
		go func() {
			defer s.sem.Release(1)
			s.handler.Handle(conn)
		}()
	}
}
