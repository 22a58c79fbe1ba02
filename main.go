// Command proxy is a forwarding HTTP/1.0 proxy with a bounded in-memory LRU
// response cache. Usage: proxy <port>, where port is an integer strictly
// between 1024 and 65536.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/WhileEndless/httpcacheproxy/internal/cache"
	"github.com/WhileEndless/httpcacheproxy/internal/constants"
	"github.com/WhileEndless/httpcacheproxy/internal/logging"
	"github.com/WhileEndless/httpcacheproxy/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	port, err := parsePort(os.Args)
	if err != nil {
		return err
	}

	// SIGPIPE is ignored process-wide; a client that resets mid-write must
	// surface as an ordinary write error, not kill the process.
	signal.Ignore(syscall.SIGPIPE)

	log := logging.New()
	defer log.Sync() //nolint:errcheck

	c := cache.New()
	srv := server.New(fmt.Sprintf(":%d", port), c, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("listening", "port", port, "metrics_addr", constants.MetricsAddr)
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// parsePort validates argv against the CLI contract: exactly one argument,
// parsing as an integer strictly between MinListenPort and MaxListenPort.
func parsePort(argv []string) (int, error) {
	if len(argv) != 2 {
		return 0, fmt.Errorf("usage: %s <port>", progName(argv))
	}
	port, err := strconv.Atoi(argv[1])
	if err != nil {
		return 0, fmt.Errorf("port must be an integer: %w", err)
	}
	if port <= constants.MinListenPort || port >= constants.MaxListenPort {
		return 0, fmt.Errorf("port must be in (%d, %d), got %d", constants.MinListenPort, constants.MaxListenPort, port)
	}
	return port, nil
}

func progName(argv []string) string {
	if len(argv) == 0 {
		return "proxy"
	}
	return argv[0]
}
