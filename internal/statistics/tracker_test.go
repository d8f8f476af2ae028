package statistics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Start(t *testing.T) {
	tracker := NewTracker()
	tracker.IncrementUpdated()
	tracker.RequestCancel()

	tracker.Start(10)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 10, snapshot.Total)
	assert.Equal(t, 0, snapshot.Updated)
	assert.Equal(t, "Calculating...", snapshot.ETA)
	assert.False(t, snapshot.Cancelled)
	assert.False(t, snapshot.Done())
}

func TestTracker_IncrementProcessed(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker()
	tracker.now = func() time.Time { return current }

	tracker.Start(4)

	// One record per 30 seconds leaves 3 * 30s = 1m 30s after the first.
	current = current.Add(30 * time.Second)
	tracker.IncrementProcessed()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.Processed)
	assert.Equal(t, 30*time.Second, snapshot.Elapsed)
	assert.Equal(t, "1m 30s", snapshot.ETA)

	current = current.Add(30 * time.Second)
	tracker.IncrementProcessed()
	current = current.Add(30 * time.Second)
	tracker.IncrementProcessed()
	current = current.Add(30 * time.Second)
	tracker.IncrementProcessed()

	snapshot = tracker.Snapshot()
	assert.Equal(t, "0m 0s", snapshot.ETA)
	assert.True(t, snapshot.Done())
}

func TestTracker_countersAreIndependent(t *testing.T) {
	tracker := NewTracker()
	tracker.Start(5)

	tracker.IncrementUpdated()
	tracker.IncrementUnchanged()
	tracker.IncrementUnchanged()
	tracker.IncrementEmpty()
	tracker.IncrementError()
	for i := 0; i < 5; i++ {
		tracker.IncrementProcessed()
	}
	tracker.IncrementCacheHit()
	tracker.IncrementAPICall()
	tracker.IncrementAPICall()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.Updated)
	assert.Equal(t, 2, snapshot.Unchanged)
	assert.Equal(t, 1, snapshot.Empty)
	assert.Equal(t, 1, snapshot.Errors)
	assert.Equal(t, 1, snapshot.CacheHits)
	assert.Equal(t, 2, snapshot.APICalls)

	// processed always equals the sum of the per-record outcomes
	assert.Equal(t, snapshot.Processed,
		snapshot.Updated+snapshot.Unchanged+snapshot.Empty+snapshot.Errors)
}

func TestTracker_RequestCancel(t *testing.T) {
	tracker := NewTracker()
	tracker.Start(3)

	require.False(t, tracker.Cancelled())
	tracker.RequestCancel()
	assert.True(t, tracker.Cancelled())
	assert.True(t, tracker.Snapshot().Cancelled)
}

func TestTracker_concurrentIncrements(t *testing.T) {
	tracker := NewTracker()
	tracker.Start(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.IncrementProcessed()
				tracker.IncrementCacheHit()
			}
		}()
	}
	wg.Wait()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1000, snapshot.Processed)
	assert.Equal(t, 1000, snapshot.CacheHits)
	assert.True(t, snapshot.Done())
}
