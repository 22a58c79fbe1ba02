// Package constants defines magic numbers and default values used throughout
// the proxy, mirroring the teacher library's pkg/constants package.
package constants

const (
	// MaxCacheSize is the total byte budget for the shared response cache.
	MaxCacheSize = 1_049_000

	// MaxObjectSize is the per-entry cap; a captured response at or above
	// this size is never cached (it is still streamed to the client).
	MaxObjectSize = 102_400

	// DefaultHTTPPort is used when the client's absolute-URI omits a port.
	DefaultHTTPPort = 80

	// MaxLine bounds a single request/response header line.
	MaxLine = 8192

	// ReadBlockSize is the chunk size used to copy response bodies once
	// headers have been relayed.
	ReadBlockSize = 8192

	// MinListenPort and MaxListenPort bound the CLI's port argument,
	// exclusive on both ends per spec.md §6: (1024, 65536).
	MinListenPort = 1024
	MaxListenPort = 65536

	// MaxConcurrentConns bounds the number of connections handled at once.
	// A thread pool is permitted but not required (spec.md §5); this caps
	// runaway fan-out without changing the one-worker-per-connection model.
	MaxConcurrentConns = 512

	// MetricsAddr is the loopback-only address the /metrics listener binds.
	// It is compiled in rather than configurable, since spec.md §6 allows
	// no flags, environment variables, or config files for this binary.
	MetricsAddr = "127.0.0.1:9099"
)
