package trend

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGuard_AcquireRelease(t *testing.T) {
	g := NewRunGuard()

	assert.True(t, g.TryAcquire())
	assert.False(t, g.TryAcquire())

	g.Release(true)
	assert.True(t, g.TryAcquire())
	g.Release(false)
}

func TestRunGuard_StatusReflectsRunning(t *testing.T) {
	g := NewRunGuard()

	assert.False(t, g.Status().IsRunning)
	g.TryAcquire()
	assert.True(t, g.Status().IsRunning)
	g.Release(false)
	assert.False(t, g.Status().IsRunning)
}

func TestRunGuard_LastSuccessOnlyOnSuccess(t *testing.T) {
	g := NewRunGuard()

	g.TryAcquire()
	g.Release(false)
	assert.Nil(t, g.Status().LastSuccessAt)

	before := time.Now()
	g.TryAcquire()
	g.Release(true)

	state := g.Status()
	require.NotNil(t, state.LastSuccessAt)
	assert.False(t, state.LastSuccessAt.Before(before))
}

func TestRunGuard_FailedRunKeepsPreviousSuccess(t *testing.T) {
	g := NewRunGuard()

	g.TryAcquire()
	g.Release(true)
	first := g.Status().LastSuccessAt
	require.NotNil(t, first)

	g.TryAcquire()
	g.Release(false)

	state := g.Status()
	require.NotNil(t, state.LastSuccessAt)
	assert.True(t, first.Equal(*state.LastSuccessAt))
}

func TestRunGuard_ConcurrentAcquireAdmitsOne(t *testing.T) {
	g := NewRunGuard()

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
	g.Release(true)
}
