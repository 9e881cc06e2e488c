package trend

import (
	"sync"
	"tad/internal/models"
	"tad/internal/trend/interfaces"
	"time"

	"go.uber.org/atomic"
)

// RunGuard enforces at most one pipeline run in flight, regardless of which
// trigger (daily, monitoring, manual) tries to start it. The running flag is
// a CAS so concurrent trigger fires race without locking; the mutex only
// protects the last-success timestamp.
type RunGuard struct {
	running     atomic.Bool
	mu          sync.Mutex
	lastSuccess time.Time
}

func NewRunGuard() interfaces.RunGuardInterface {
	return &RunGuard{}
}

// TryAcquire admits a run iff none is in flight. A false return has no side
// effects; the caller is expected to skip its trigger, not retry.
func (g *RunGuard) TryAcquire() bool {
	return g.running.CompareAndSwap(false, true)
}

// Release ends the current run. Call it exactly once per successful
// TryAcquire, on every path out of the pipeline.
func (g *RunGuard) Release(success bool) {
	if success {
		g.mu.Lock()
		g.lastSuccess = time.Now()
		g.mu.Unlock()
	}
	g.running.Store(false)
}

func (g *RunGuard) Status() models.RunState {
	state := models.RunState{IsRunning: g.running.Load()}

	g.mu.Lock()
	if !g.lastSuccess.IsZero() {
		last := g.lastSuccess
		state.LastSuccessAt = &last
	}
	g.mu.Unlock()

	return state
}
