// Package logging builds the process-wide structured logger.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// New builds a development-mode zap logger: human-readable console output,
// caller annotations, ISO8601 timestamps. Production deployments that want
// JSON output can swap this constructor; spec.md §6 leaves no CLI surface to
// select it, so one sensible default is compiled in.
func New() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		// zap's own default config is infallible in practice; a panic here
		// would mean the process can't log at all, so fail loudly.
		panic(err)
	}
	return logger.Sugar()
}

// ConnID returns a short correlation ID for a single accepted connection so
// concurrent connections' log lines can be told apart.
func ConnID() string {
	return uuid.NewString()[:8]
}
