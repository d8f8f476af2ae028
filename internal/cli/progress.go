package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/jukmisael/japanese-glossary-generator/internal/processor"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

// ProgressPrinter polls the tracker and prints one status line per interval
// while a batch job runs.
type ProgressPrinter struct {
	tracker      *statistics.Tracker
	stdoutWriter io.Writer
	interval     time.Duration
	green        *color.Color
	red          *color.Color
}

// NewProgressPrinter creates a printer polling tracker every interval.
func NewProgressPrinter(tracker *statistics.Tracker, stdout io.Writer, interval time.Duration) *ProgressPrinter {
	return &ProgressPrinter{
		tracker:      tracker,
		stdoutWriter: stdout,
		interval:     interval,
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// Run prints progress until the job has processed every note or ctx is
// cancelled. It is meant to run in its own goroutine alongside the job.
func (p *ProgressPrinter) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot := p.tracker.Snapshot()
			p.printSnapshot(snapshot)
			if snapshot.Done() {
				return
			}
		}
	}
}

func (p *ProgressPrinter) printSnapshot(s statistics.Snapshot) {
	fmt.Fprintf(p.stdoutWriter,
		"Processed %d/%d | Updated: %s Unchanged: %d Empty: %d Errors: %s | Cache hits: %d API calls: %d | Elapsed: %s ETA: %s\n",
		s.Processed,
		s.Total,
		p.green.Sprintf("%d", s.Updated),
		s.Unchanged,
		s.Empty,
		p.red.Sprintf("%d", s.Errors),
		s.CacheHits,
		s.APICalls,
		s.Elapsed.Round(time.Second),
		s.ETA,
	)
}

// PrintSummary prints the final outcome of a batch job.
func PrintSummary(stdout io.Writer, summary processor.Summary, snapshot statistics.Snapshot) {
	if summary.Cancelled {
		color.New(color.FgYellow).Fprintln(stdout, "Processing cancelled.")
		fmt.Fprintf(stdout, "%d of %d notes were updated before cancellation.\n",
			summary.Updated, summary.Total)
	} else {
		color.New(color.FgGreen).Fprintln(stdout, "Processing completed!")
		fmt.Fprintf(stdout, "%d of %d notes were updated.\n",
			summary.Updated, summary.Total)
	}
	fmt.Fprintf(stdout, "Cache hits: %d, API calls: %d, elapsed: %s\n",
		snapshot.CacheHits, snapshot.APICalls, snapshot.Elapsed.Round(time.Second))
}
