package service

import (
	"sync"
	"time"

	"github.com/tavvy/atlas-backend/internal/domain"
)

// DefaultAutoSaveDelay is the debounce window after the last edit
const DefaultAutoSaveDelay = 2 * time.Second

// flushState is the engine's explicit debounce state machine:
// Idle -> PendingFlush(timer) -> Flushing -> Idle.
type flushState int

const (
	stateIdle flushState = iota
	statePendingFlush
	stateFlushing
)

// FlushFunc persists one accumulated patch to whichever store is
// authoritative for the draft. Errors are handled by the callee (logged,
// optimistic state kept); the engine only sequences.
type FlushFunc func(patch domain.DraftPatch)

// SyncEngine coalesces bursts of edits into debounced writes. One engine
// exists per active draft; at most one pending flush timer ever exists, and
// every edit restarts it.
type SyncEngine struct {
	mu      sync.Mutex
	state   flushState
	pending domain.DraftPatch
	timer   *time.Timer
	gen     uint64 // invalidates stale timer callbacks after restart/cancel
	delay   time.Duration
	flush   FlushFunc
}

// NewSyncEngine creates an engine with the given debounce delay
func NewSyncEngine(delay time.Duration, flush FlushFunc) *SyncEngine {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &SyncEngine{
		state:   stateIdle,
		pending: domain.DraftPatch{},
		delay:   delay,
		flush:   flush,
	}
}

// Queue merges a patch into the accumulator. immediate flushes synchronously;
// otherwise the debounce timer restarts, coalescing rapid edits into one write.
func (e *SyncEngine) Queue(patch domain.DraftPatch, immediate bool) {
	e.mu.Lock()
	e.pending.Merge(patch)
	if immediate {
		e.mu.Unlock()
		e.FlushNow()
		return
	}
	e.restartTimerLocked()
	e.mu.Unlock()
}

// restartTimerLocked cancels any pending timer and starts a fresh one.
// Callers hold e.mu.
func (e *SyncEngine) restartTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.state = statePendingFlush
	e.timer = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		if e.gen != gen || e.state != statePendingFlush {
			// restarted or cancelled after this callback was scheduled
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
		e.FlushNow()
	})
}

// FlushNow synchronously persists the accumulated patch. Used for
// immediate=true edits and for the flush-then-submit sequence, so submission
// always observes a durable view of the draft.
func (e *SyncEngine) FlushNow() {
	e.mu.Lock()
	if len(e.pending) == 0 {
		e.stopTimerLocked()
		e.state = stateIdle
		e.mu.Unlock()
		return
	}
	patch := e.pending
	e.pending = domain.DraftPatch{}
	e.stopTimerLocked()
	e.state = stateFlushing
	e.mu.Unlock()

	e.flush(patch)

	e.mu.Lock()
	// edits queued during the flush have already re-armed the timer
	if e.state == stateFlushing {
		e.state = stateIdle
	}
	e.mu.Unlock()
}

// Cancel drops the accumulator and any pending timer. Snoozing or discarding
// a draft must cancel, so a stale flush never resurrects a deleted draft.
func (e *SyncEngine) Cancel() {
	e.mu.Lock()
	e.pending = domain.DraftPatch{}
	e.stopTimerLocked()
	e.state = stateIdle
	e.mu.Unlock()
}

func (e *SyncEngine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

// Dirty reports whether edits are waiting to be persisted
func (e *SyncEngine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending) > 0
}
