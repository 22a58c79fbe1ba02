// Package connhandler implements the per-connection flow (component F of
// SPEC_FULL.md): read request line, parse, consult the cache, and either
// serve from cache or forward to the origin and stream the response back,
// following the 8-step flow of spec.md §4.5 and the error taxonomy of §7.
package connhandler

import (
	"errors"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/WhileEndless/httpcacheproxy/internal/cache"
	"github.com/WhileEndless/httpcacheproxy/internal/errpage"
	"github.com/WhileEndless/httpcacheproxy/internal/forward"
	"github.com/WhileEndless/httpcacheproxy/internal/lineio"
	"github.com/WhileEndless/httpcacheproxy/internal/logging"
	"github.com/WhileEndless/httpcacheproxy/internal/metrics"
	"github.com/WhileEndless/httpcacheproxy/internal/proxyerr"
	"github.com/WhileEndless/httpcacheproxy/internal/request"
	"github.com/WhileEndless/httpcacheproxy/internal/stream"
	"github.com/WhileEndless/httpcacheproxy/internal/timing"
)

// DefaultDialTimeout bounds how long an upstream connection attempt may
// take before it is treated as an "upstream unreachable" failure (spec.md
// §7, case 2).
const DefaultDialTimeout = 10 * time.Second

// Handler serves one connection at a time via Handle. It holds no
// per-connection state itself, so a single Handler is shared by every
// worker that accepts a client.
type Handler struct {
	cache       *cache.Cache
	log         *zap.SugaredLogger
	dialTimeout time.Duration
}

// New builds a Handler backed by c, logging through log.
func New(c *cache.Cache, log *zap.SugaredLogger) *Handler {
	return &Handler{cache: c, log: log, dialTimeout: DefaultDialTimeout}
}

// Handle drives one client connection end to end and always closes it
// before returning. Every error is contained here: nothing propagates to
// the caller, matching spec.md §7's propagation policy that no per-
// connection error is ever surfaced to the listen loop.
func (h *Handler) Handle(client net.Conn) {
	defer client.Close()

	id := logging.ConnID()
	log := h.log.With("conn", id, "remote", client.RemoteAddr())
	clientReader := lineio.New(client)

	line, err := clientReader.ReadLine()
	if err != nil {
		// Nothing useful was read; the client dropped the connection before
		// sending a request. Close silently.
		return
	}

	if !request.HasRecognizedPrefix(line) {
		_ = errpage.BadRequest(client, "Invalid command or malformed http://")
		metrics.RequestsTotal.WithLabelValues("bad-request").Inc()
		return
	}

	req, err := request.ParseRequestLine(line)
	if err != nil {
		_ = errpage.BadRequest(client, parseDetail(err))
		metrics.RequestsTotal.WithLabelValues("bad-request").Inc()
		return
	}

	if data, ok := h.cache.Find(req.Host, req.Path); ok {
		if _, werr := client.Write(data); werr != nil {
			log.Debugw("client write failed serving cache hit", "err", werr)
		}
		metrics.RequestsTotal.WithLabelValues("cache-hit").Inc()
		return
	}

	tm := timing.NewTimer()
	tm.StartTCP()
	upstream, err := net.DialTimeout("tcp", net.JoinHostPort(req.Host, strconv.Itoa(req.Port)), h.dialTimeout)
	tm.EndTCP()
	if err != nil {
		pe := proxyerr.NewUpstreamError("dial", err)
		_ = errpage.UpstreamUnreachable(client, "Error opening connection to server.")
		metrics.RequestsTotal.WithLabelValues("upstream-unreachable").Inc()
		log.Infow("upstream dial failed", "host", req.Host, "port", req.Port, "err", pe)
		return
	}
	defer upstream.Close()

	if err := forward.Request(upstream, req, clientReader); err != nil {
		log.Infow("request forward failed", "err", err)
		metrics.RequestsTotal.WithLabelValues("forward-error").Inc()
		return
	}

	upstreamReader := lineio.New(upstream)
	captured, overflowed, err := stream.Response(client, upstreamReader)
	metrics.UpstreamLatencySeconds.WithLabelValues(strconv.FormatBool(err == nil && !overflowed)).Observe(tm.Metrics().Total.Seconds())
	log.Debugw("request timing", "timing", tm.Metrics())

	if err != nil {
		outcome := "stream-error"
		var pe *proxyerr.Error
		if errors.As(err, &pe) && pe.Kind == proxyerr.KindClientWrite {
			outcome = "client-write-error"
		}
		metrics.RequestsTotal.WithLabelValues(outcome).Inc()
		log.Infow("response stream failed", "err", err)
		return
	}

	if overflowed {
		metrics.RequestsTotal.WithLabelValues("served-uncached").Inc()
		return
	}

	if err := h.cache.Insert(req.Host, req.Path, captured); err != nil {
		log.Warnw("cache insert skipped", "err", err)
	}
	metrics.RequestsTotal.WithLabelValues("served-cached").Inc()
}

func parseDetail(err error) string {
	var pe *proxyerr.Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
