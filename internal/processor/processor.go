// Package processor runs batch glossary jobs over the flashcard collection.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary"
	"github.com/jukmisael/japanese-glossary-generator/internal/japanese"
	"github.com/jukmisael/japanese-glossary-generator/internal/notebook"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("operation cancelled")

// Generator produces the glossary HTML for a piece of text.
type Generator interface {
	Generate(ctx context.Context, text string) string
}

// ConfirmFunc asks the user a yes/no question before a destructive step.
type ConfirmFunc func(prompt string) bool

// Config holds the batching and selection behavior of a job.
type Config struct {
	BatchSize           int
	MaxWorkers          int
	PauseBetweenBatches time.Duration
	// IgnoreExistingNotes restricts the job to notes whose target field is
	// still empty.
	IgnoreExistingNotes bool
	// OverwriteExisting skips the confirmation prompt when the target field
	// already exists on the note type.
	OverwriteExisting bool
}

// Job names the notes to process and the fields to read and write.
type Job struct {
	Deck        string
	Model       string
	SourceField string
	TargetField string
}

// Summary is the outcome of a finished or cancelled job.
type Summary struct {
	Updated   int
	Total     int
	Cancelled bool
}

// Processor orchestrates one batch job at a time: it validates the target
// field, selects notes, fans each batch out over a worker pool, persists
// updated glossaries sequentially and flushes the lookup cache after every
// batch.
type Processor struct {
	store     notebook.NoteStore
	generator Generator
	cache     *dictionary.APICache
	tracker   *statistics.Tracker
	logger    *slog.Logger
	config    Config
	confirm   ConfirmFunc
}

// NewProcessor creates a Processor. confirm is consulted before overwriting
// an existing target field and before creating a missing one.
func NewProcessor(
	store notebook.NoteStore,
	generator Generator,
	cache *dictionary.APICache,
	tracker *statistics.Tracker,
	logger *slog.Logger,
	config Config,
	confirm ConfirmFunc,
) *Processor {
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	return &Processor{
		store:     store,
		generator: generator,
		cache:     cache,
		tracker:   tracker,
		logger:    logger,
		config:    config,
		confirm:   confirm,
	}
}

// Run executes the job and returns its summary. Cancellation requested
// through the tracker takes effect between batches; in-flight notes always
// finish and their updates are persisted.
func (p *Processor) Run(ctx context.Context, job Job) (Summary, error) {
	if err := p.validateTargetField(ctx, job); err != nil {
		return Summary{}, err
	}

	ids, err := p.selectNotes(ctx, job)
	if err != nil {
		return Summary{}, err
	}

	p.tracker.Start(len(ids))
	p.logger.Info("batch processing started",
		"deck", job.Deck,
		"model", job.Model,
		"notes", len(ids))

	batches := partition(ids, p.config.BatchSize)
	for batchIndex, batch := range batches {
		if p.tracker.Cancelled() {
			p.logger.Info("processing cancelled by user")
			break
		}

		results := p.processBatch(ctx, job, batch)
		p.persistResults(ctx, job, results)

		if err := p.cache.Flush(); err != nil {
			p.logger.Warn("cache flush failed", "error", err)
		}

		if batchIndex < len(batches)-1 && p.config.PauseBetweenBatches > 0 {
			if err := sleep(ctx, p.config.PauseBetweenBatches); err != nil {
				p.tracker.RequestCancel()
			}
		}
	}

	snapshot := p.tracker.Snapshot()
	summary := Summary{
		Updated:   snapshot.Updated,
		Total:     snapshot.Total,
		Cancelled: snapshot.Cancelled,
	}
	p.logger.Info("batch processing finished",
		"updated", summary.Updated,
		"total", summary.Total,
		"cancelled", summary.Cancelled)
	return summary, nil
}

// validateTargetField makes sure the target field exists on the note type,
// creating it after confirmation when it is missing.
func (p *Processor) validateTargetField(ctx context.Context, job Job) error {
	fields, err := p.store.ModelFields(ctx, job.Model)
	if err != nil {
		return fmt.Errorf("store.ModelFields > %w", err)
	}
	if fields == nil {
		return fmt.Errorf("note type %q not found", job.Model)
	}

	for _, field := range fields {
		if field != job.TargetField {
			continue
		}
		if p.config.OverwriteExisting {
			return nil
		}
		prompt := fmt.Sprintf(
			"The target field %q already exists in this note type. Do you want to overwrite existing content?",
			job.TargetField)
		if !p.confirm(prompt) {
			return ErrAborted
		}
		return nil
	}

	prompt := fmt.Sprintf(
		"The field %q does not exist. Do you want to create it in note type %q?",
		job.TargetField, job.Model)
	if !p.confirm(prompt) {
		return ErrAborted
	}
	if err := p.store.AddField(ctx, job.Model, job.TargetField); err != nil {
		return fmt.Errorf("store.AddField > %w", err)
	}
	p.logger.Info("field added to note type",
		"field", job.TargetField,
		"model", job.Model)
	return nil
}

func (p *Processor) selectNotes(ctx context.Context, job Job) ([]int64, error) {
	filter := notebook.Filter{
		Deck:  job.Deck,
		Model: job.Model,
	}
	if p.config.IgnoreExistingNotes {
		filter.EmptyField = job.TargetField
	}
	ids, err := p.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store.Find > %w", err)
	}
	if len(ids) == 0 {
		return nil, errors.New("no notes found matching the selected criteria")
	}
	return ids, nil
}

type noteStatus string

const (
	statusEmpty     noteStatus = "Empty"
	statusUnchanged noteStatus = "Unchanged"
	statusUpdated   noteStatus = "Updated"
	statusError     noteStatus = "Error"
)

type noteResult struct {
	noteID   int64
	glossary string
	status   noteStatus
}

func (p *Processor) processBatch(ctx context.Context, job Job, ids []int64) []noteResult {
	idsCh := make(chan int64)
	resultsCh := make(chan noteResult, len(ids))

	wg := &sync.WaitGroup{}
	for i := 0; i < p.config.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idsCh {
				resultsCh <- p.processNote(ctx, job, id)
			}
		}()
	}
	for _, id := range ids {
		idsCh <- id
	}
	close(idsCh)
	wg.Wait()
	close(resultsCh)

	results := make([]noteResult, 0, len(ids))
	for result := range resultsCh {
		results = append(results, result)
	}
	return results
}

// processNote reads one note and decides its status. A failure here only
// affects this note; the batch keeps going.
func (p *Processor) processNote(ctx context.Context, job Job, noteID int64) (result noteResult) {
	defer func() {
		if r := recover(); r != nil {
			p.tracker.IncrementError()
			p.logger.Error("panic processing note", "note_id", noteID, "panic", r)
			result = noteResult{noteID: noteID, status: statusError}
		}
	}()

	value, err := p.store.ReadField(ctx, noteID, job.SourceField)
	if err != nil {
		p.tracker.IncrementError()
		p.logger.Error("error processing note", "note_id", noteID, "error", err)
		return noteResult{noteID: noteID, status: statusError}
	}

	source := strings.TrimSpace(japanese.TextLine(value))
	if source == "" {
		p.tracker.IncrementEmpty()
		return noteResult{noteID: noteID, status: statusEmpty}
	}

	glossaryHTML := p.generator.Generate(ctx, source)
	if glossaryHTML != "" {
		current, err := p.store.ReadField(ctx, noteID, job.TargetField)
		if err != nil {
			p.tracker.IncrementError()
			p.logger.Error("error processing note", "note_id", noteID, "error", err)
			return noteResult{noteID: noteID, status: statusError}
		}
		if current != glossaryHTML {
			return noteResult{noteID: noteID, glossary: glossaryHTML, status: statusUpdated}
		}
	}

	p.tracker.IncrementUnchanged()
	return noteResult{noteID: noteID, status: statusUnchanged}
}

// persistResults writes updated glossaries one note at a time. A failed
// write counts as an error, not an update.
func (p *Processor) persistResults(ctx context.Context, job Job, results []noteResult) {
	for _, result := range results {
		if result.status == statusUpdated {
			if err := p.store.WriteField(ctx, result.noteID, job.TargetField, result.glossary); err != nil {
				p.logger.Error("error saving note", "note_id", result.noteID, "error", err)
				p.tracker.IncrementError()
			} else {
				p.tracker.IncrementUpdated()
			}
		}
		p.tracker.IncrementProcessed()
	}
}

func partition(ids []int64, size int) [][]int64 {
	batches := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
