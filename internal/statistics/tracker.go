// Package statistics tracks the progress of a batch glossary job.
package statistics

import (
	"fmt"
	"sync"
	"time"
)

// Tracker holds the shared counters for one batch job. It is written by the
// processor and the lookup client and polled by the CLI, so every method is
// safe for concurrent use. A Tracker is reset by Start at the beginning of
// each job; only one job runs at a time.
type Tracker struct {
	mu sync.Mutex

	total     int
	processed int
	updated   int
	unchanged int
	empty     int
	errors    int
	cacheHits int
	apiCalls  int

	startTime time.Time
	elapsed   time.Duration
	eta       string
	cancelled bool

	now func() time.Time
}

// Snapshot is a consistent copy of the tracker state for pollers.
type Snapshot struct {
	Total     int
	Processed int
	Updated   int
	Unchanged int
	Empty     int
	Errors    int
	CacheHits int
	APICalls  int
	Elapsed   time.Duration
	ETA       string
	Cancelled bool
}

// Done reports whether every record has been accounted for.
func (s Snapshot) Done() bool {
	return s.Total > 0 && s.Processed >= s.Total
}

// NewTracker creates an idle Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		eta: "N/A",
		now: time.Now,
	}
}

// Start resets all counters for a new job of total records and begins the
// clock.
func (t *Tracker) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
	t.processed = 0
	t.updated = 0
	t.unchanged = 0
	t.empty = 0
	t.errors = 0
	t.cacheHits = 0
	t.apiCalls = 0
	t.startTime = t.now()
	t.elapsed = 0
	t.eta = "Calculating..."
	t.cancelled = false
}

// IncrementProcessed records one finished record and refreshes the elapsed
// time and ETA estimate.
func (t *Tracker) IncrementProcessed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed++
	t.elapsed = t.now().Sub(t.startTime)

	remaining := t.total - t.processed
	perRecord := t.elapsed / time.Duration(t.processed)
	t.eta = formatETA(time.Duration(remaining) * perRecord)
}

// IncrementUpdated records one record whose target field was rewritten.
func (t *Tracker) IncrementUpdated() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updated++
}

// IncrementUnchanged records one record whose glossary already matched.
func (t *Tracker) IncrementUnchanged() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unchanged++
}

// IncrementEmpty records one record with a blank source field.
func (t *Tracker) IncrementEmpty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.empty++
}

// IncrementError records one record that failed to process or persist.
func (t *Tracker) IncrementError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors++
}

// IncrementCacheHit records a lookup satisfied from the cache.
func (t *Tracker) IncrementCacheHit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cacheHits++
}

// IncrementAPICall records a lookup that went to the network.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCalls++
}

// RequestCancel flags the job for cancellation. The processor checks the flag
// between batches; in-flight work is never interrupted.
func (t *Tracker) RequestCancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Cancelled reports whether cancellation has been requested.
func (t *Tracker) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Snapshot returns a consistent copy of all counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Total:     t.total,
		Processed: t.processed,
		Updated:   t.updated,
		Unchanged: t.unchanged,
		Empty:     t.empty,
		Errors:    t.errors,
		CacheHits: t.cacheHits,
		APICalls:  t.apiCalls,
		Elapsed:   t.elapsed,
		ETA:       t.eta,
		Cancelled: t.cancelled,
	}
}

func formatETA(remaining time.Duration) string {
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
