// Package timing measures per-connection phase durations, adapted from the
// teacher's client-side pkg/timing.Timer down to the phases a forwarding
// proxy actually has: dialing the origin and moving end to end. There is no
// TLS phase since this proxy never tunnels TLS, and no separate DNS phase:
// the origin's name is resolved inside the dial, so it counts as TCPConnect.
package timing

import (
	"fmt"
	"time"
)

// Metrics is a snapshot of one connection's phase durations.
type Metrics struct {
	TCPConnect time.Duration
	Total      time.Duration
}

// String renders the metrics for structured log fields.
func (m Metrics) String() string {
	return fmt.Sprintf("tcp_connect=%v total=%v", m.TCPConnect, m.Total)
}

// Timer accumulates phase boundaries for a single connection.
type Timer struct {
	start    time.Time
	tcpStart time.Time
	tcpEnd   time.Time
}

// NewTimer starts a timer at the current instant.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// StartTCP marks the beginning of the upstream dial.
func (t *Timer) StartTCP() { t.tcpStart = time.Now() }

// EndTCP marks the end of the upstream dial.
func (t *Timer) EndTCP() { t.tcpEnd = time.Now() }

// Metrics returns the durations accumulated so far.
func (t *Timer) Metrics() Metrics {
	m := Metrics{Total: time.Since(t.start)}
	if !t.tcpStart.IsZero() && !t.tcpEnd.IsZero() {
		m.TCPConnect = t.tcpEnd.Sub(t.tcpStart)
	}
	return m
}
