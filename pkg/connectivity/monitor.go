// Package connectivity provides a coarse online/offline signal from a
// periodic reachability probe. Polling is deliberate: the cost of a stale
// reading is one extra debounce cycle, which is cheaper than platform
// reachability APIs.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultProbeURL is a well-known, always-available endpoint
const DefaultProbeURL = "https://www.google.com/favicon.ico"

// DefaultProbeInterval matches one reachability check every 30 seconds
const DefaultProbeInterval = 30 * time.Second

// Probe reports whether the network is reachable right now
type Probe func(ctx context.Context) bool

// Monitor polls a Probe on a fixed interval and exposes the latest result
type Monitor interface {
	// Start probes once immediately, then on every interval tick
	Start()
	// Stop halts the probe loop
	Stop()
	// Online returns the most recent probe result
	Online() bool
}

type monitor struct {
	probe    Probe
	interval time.Duration
	online   atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// Options tunes the monitor; zero values fall back to defaults
type Options struct {
	ProbeURL     string
	Interval     time.Duration
	ProbeTimeout time.Duration
	// Probe overrides the HTTP probe entirely (tests inject a fake here)
	Probe Probe
}

// NewMonitor creates a Monitor. Until Start runs, Online reports true so a
// monitor that is never started does not strand every write in the cache.
func NewMonitor(opts Options) Monitor {
	if opts.Probe == nil {
		url := opts.ProbeURL
		if url == "" {
			url = DefaultProbeURL
		}
		timeout := opts.ProbeTimeout
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		opts.Probe = httpProbe(url, timeout)
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultProbeInterval
	}

	m := &monitor{
		probe:    opts.Probe,
		interval: opts.Interval,
	}
	m.online.Store(true)
	return m
}

// httpProbe issues a HEAD request; any error, timeout, or non-success
// response reads as offline
func httpProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return false
		}
		req.Header.Set("Cache-Control", "no-store")
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode >= 200 && resp.StatusCode < 300
	}
}

// Start probes once, then on every tick until Stop
func (m *monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	if m.interval <= 0 {
		m.interval = DefaultProbeInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.started = true

	m.online.Store(m.probe(ctx))

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.online.Store(m.probe(ctx))
			}
		}
	}()
}

// Stop halts the probe loop
func (m *monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	m.cancel()
	m.started = false
}

// Online returns the most recent probe result
func (m *monitor) Online() bool {
	return m.online.Load()
}

// Static returns a monitor pinned to a fixed value, for tests and tooling.
// Starting it is allowed but a no-op in effect: every probe reports the
// pinned value.
func Static(online bool) Monitor {
	m := &monitor{
		probe:    func(context.Context) bool { return online },
		interval: DefaultProbeInterval,
	}
	m.online.Store(online)
	return m
}
