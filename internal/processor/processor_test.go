package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary"
	"github.com/jukmisael/japanese-glossary-generator/internal/notebook"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

type fakeGenerator struct {
	generate func(ctx context.Context, text string) string
}

func (f *fakeGenerator) Generate(ctx context.Context, text string) string {
	return f.generate(ctx, text)
}

func constantGenerator(html string) *fakeGenerator {
	return &fakeGenerator{generate: func(context.Context, string) string {
		return html
	}}
}

type failingWriteStore struct {
	notebook.NoteStore
}

func (s *failingWriteStore) WriteField(context.Context, int64, string, string) error {
	return errors.New("disk full")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor(
	t *testing.T,
	store notebook.NoteStore,
	generator Generator,
	config Config,
	confirm ConfirmFunc,
) (*Processor, *statistics.Tracker, string) {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	cache := dictionary.NewAPICache(dictionary.CacheConfig{
		Enabled:  true,
		FilePath: cachePath,
	}, discardLogger())
	tracker := statistics.NewTracker()
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}
	if config.MaxWorkers == 0 {
		config.MaxWorkers = 2
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return NewProcessor(store, generator, cache, tracker, discardLogger(), config, confirm),
		tracker, cachePath
}

func newStoreWithNotes(t *testing.T) (*notebook.MemoryNoteStore, []int64) {
	t.Helper()
	store := notebook.NewMemoryNoteStore()
	store.AddModel("Vocabulary", "Expression", "Glossary")
	ids := []int64{
		store.AddNote("Japanese", "Vocabulary", map[string]string{"Expression": "元気です"}),
		store.AddNote("Japanese", "Vocabulary", map[string]string{"Expression": "<b>すし</b>"}),
		store.AddNote("Japanese", "Vocabulary", map[string]string{"Expression": "   "}),
	}
	return store, ids
}

func vocabularyJob() Job {
	return Job{
		Deck:        "Japanese",
		Model:       "Vocabulary",
		SourceField: "Expression",
		TargetField: "Glossary",
	}
}

func TestProcessor_Run(t *testing.T) {
	t.Run("updates notes and leaves empty ones alone", func(t *testing.T) {
		store, ids := newStoreWithNotes(t)
		proc, tracker, cachePath := newTestProcessor(t, store,
			constantGenerator("<h3>Kanji</h3>"), Config{}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, Summary{Updated: 2, Total: 3, Cancelled: false}, summary)

		value, err := store.ReadField(context.Background(), ids[0], "Glossary")
		require.NoError(t, err)
		assert.Equal(t, "<h3>Kanji</h3>", value)

		value, err = store.ReadField(context.Background(), ids[2], "Glossary")
		require.NoError(t, err)
		assert.Equal(t, "", value, "blank source leaves the target untouched")

		snapshot := tracker.Snapshot()
		assert.Equal(t, 3, snapshot.Processed)
		assert.Equal(t, 2, snapshot.Updated)
		assert.Equal(t, 1, snapshot.Empty)
		assert.Equal(t, snapshot.Processed,
			snapshot.Updated+snapshot.Unchanged+snapshot.Empty+snapshot.Errors)

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "cache is flushed after each batch")
	})

	t.Run("matching glossaries count as unchanged", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		_ = store.AddNote("Japanese", "Vocabulary", map[string]string{
			"Expression": "元気",
			"Glossary":   "<h3>Kanji</h3>",
		})
		proc, tracker, _ := newTestProcessor(t, store,
			constantGenerator("<h3>Kanji</h3>"), Config{}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Updated)
		assert.Equal(t, 1, tracker.Snapshot().Unchanged)
	})

	t.Run("empty glossary output counts as unchanged", func(t *testing.T) {
		store, ids := newStoreWithNotes(t)
		proc, tracker, _ := newTestProcessor(t, store, constantGenerator(""), Config{}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Updated)
		assert.Equal(t, 2, tracker.Snapshot().Unchanged)

		value, err := store.ReadField(context.Background(), ids[0], "Glossary")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("skips notes that already have a glossary", func(t *testing.T) {
		store, ids := newStoreWithNotes(t)
		require.NoError(t, store.WriteField(context.Background(), ids[0], "Glossary", "old"))
		proc, tracker, _ := newTestProcessor(t, store,
			constantGenerator("<h3>Kanji</h3>"),
			Config{IgnoreExistingNotes: true}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, tracker.Snapshot().Updated)

		value, err := store.ReadField(context.Background(), ids[0], "Glossary")
		require.NoError(t, err)
		assert.Equal(t, "old", value)
	})

	t.Run("failed writes count as errors", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		proc, tracker, _ := newTestProcessor(t, &failingWriteStore{NoteStore: store},
			constantGenerator("<h3>Kanji</h3>"), Config{}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Updated)

		snapshot := tracker.Snapshot()
		assert.Equal(t, 2, snapshot.Errors)
		assert.Equal(t, 3, snapshot.Processed)
	})

	t.Run("panic in one note does not stop the batch", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		generator := &fakeGenerator{generate: func(_ context.Context, text string) string {
			if text == "元気です" {
				panic("boom")
			}
			return "<h3>Hiragana</h3>"
		}}
		proc, tracker, _ := newTestProcessor(t, store, generator, Config{}, nil)

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)

		snapshot := tracker.Snapshot()
		assert.Equal(t, 1, snapshot.Errors)
		assert.Equal(t, 3, snapshot.Processed)
	})

	t.Run("cancellation stops between batches", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		var tracker *statistics.Tracker
		generator := &fakeGenerator{generate: func(context.Context, string) string {
			tracker.RequestCancel()
			return "<h3>Kanji</h3>"
		}}
		proc, tr, _ := newTestProcessor(t, store, generator, Config{BatchSize: 1}, nil)
		tracker = tr

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.True(t, summary.Cancelled)
		assert.Equal(t, 1, tracker.Snapshot().Processed,
			"remaining batches are skipped")
	})
}

func TestProcessor_Run_Validation(t *testing.T) {
	t.Run("unknown note type", func(t *testing.T) {
		store := notebook.NewMemoryNoteStore()
		proc, _, _ := newTestProcessor(t, store, constantGenerator(""), Config{}, nil)

		_, err := proc.Run(context.Background(), vocabularyJob())
		assert.ErrorContains(t, err, `note type "Vocabulary" not found`)
	})

	t.Run("declined overwrite aborts", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		proc, _, _ := newTestProcessor(t, store, constantGenerator(""), Config{},
			func(string) bool { return false })

		_, err := proc.Run(context.Background(), vocabularyJob())
		assert.ErrorIs(t, err, ErrAborted)
	})

	t.Run("overwrite setting skips the prompt", func(t *testing.T) {
		store, _ := newStoreWithNotes(t)
		proc, _, _ := newTestProcessor(t, store, constantGenerator("x"),
			Config{OverwriteExisting: true},
			func(string) bool {
				t.Fatal("confirm should not be called")
				return false
			})

		_, err := proc.Run(context.Background(), vocabularyJob())
		assert.NoError(t, err)
	})

	t.Run("creates a missing target field after confirmation", func(t *testing.T) {
		store := notebook.NewMemoryNoteStore()
		store.AddModel("Vocabulary", "Expression")
		id := store.AddNote("Japanese", "Vocabulary", map[string]string{"Expression": "すし"})

		var prompts []string
		proc, _, _ := newTestProcessor(t, store, constantGenerator("<h3>Hiragana</h3>"),
			Config{}, func(prompt string) bool {
				prompts = append(prompts, prompt)
				return true
			})

		summary, err := proc.Run(context.Background(), vocabularyJob())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "does not exist")

		value, err := store.ReadField(context.Background(), id, "Glossary")
		require.NoError(t, err)
		assert.Equal(t, "<h3>Hiragana</h3>", value)
	})

	t.Run("declined field creation aborts", func(t *testing.T) {
		store := notebook.NewMemoryNoteStore()
		store.AddModel("Vocabulary", "Expression")

		proc, _, _ := newTestProcessor(t, store, constantGenerator(""), Config{},
			func(string) bool { return false })

		_, err := proc.Run(context.Background(), vocabularyJob())
		assert.ErrorIs(t, err, ErrAborted)

		fields, ferr := store.ModelFields(context.Background(), "Vocabulary")
		require.NoError(t, ferr)
		assert.NotContains(t, fields, "Glossary")
	})

	t.Run("no matching notes", func(t *testing.T) {
		store := notebook.NewMemoryNoteStore()
		store.AddModel("Vocabulary", "Expression", "Glossary")

		proc, _, _ := newTestProcessor(t, store, constantGenerator(""), Config{}, nil)

		_, err := proc.Run(context.Background(), vocabularyJob())
		assert.ErrorContains(t, err, "no notes found")
	})
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		size int
		want [][]int64
	}{
		{
			name: "even split",
			ids:  []int64{1, 2, 3, 4},
			size: 2,
			want: [][]int64{{1, 2}, {3, 4}},
		},
		{
			name: "remainder batch",
			ids:  []int64{1, 2, 3},
			size: 2,
			want: [][]int64{{1, 2}, {3}},
		},
		{
			name: "batch larger than input",
			ids:  []int64{1},
			size: 50,
			want: [][]int64{{1}},
		},
		{
			name: "empty input",
			ids:  nil,
			size: 10,
			want: [][]int64{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, partition(tc.ids, tc.size))
		})
	}
}
