package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jukmisael/japanese-glossary-generator/internal/cli"
	"github.com/jukmisael/japanese-glossary-generator/internal/database"
	"github.com/jukmisael/japanese-glossary-generator/internal/glossary"
	"github.com/jukmisael/japanese-glossary-generator/internal/joblog"
	"github.com/jukmisael/japanese-glossary-generator/internal/notebook"
	"github.com/jukmisael/japanese-glossary-generator/internal/processor"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

type scriptList []string

func (s *scriptList) Set(val string) error {
	scripts := strings.Split(val, ",")
	for _, script := range scripts {
		switch script {
		case "hiragana", "katakana", "kanji":
		default:
			return fmt.Errorf("invalid script: %s", script)
		}
	}
	*s = scripts
	return nil
}

func (s scriptList) String() string {
	return strings.Join(s, ",")
}

func (s *scriptList) Type() string {
	return "scripts"
}

var _ pflag.Value = (*scriptList)(nil)

func (s scriptList) contains(script string) bool {
	for _, candidate := range s {
		if candidate == script {
			return true
		}
	}
	return false
}

func newGenerateCommand() *cobra.Command {
	var (
		deck        string
		model       string
		sourceField string
		targetField string
		yes         bool
		scripts     scriptList
	)
	command := &cobra.Command{
		Use:   "generate",
		Short: "Generate glossary fields for every note in a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			// The flag overrides the configured script selection.
			if len(scripts) > 0 {
				cfg.General.IncludeHiragana = scripts.contains("hiragana")
				cfg.General.IncludeKatakana = scripts.contains("katakana")
				cfg.General.IncludeKanji = scripts.contains("kanji")
			}

			sink, err := joblog.Open(cfg.Log.FilePath)
			if err != nil {
				return fmt.Errorf("joblog.Open > %w", err)
			}
			defer func() { _ = sink.Close() }()
			// Each run starts a fresh job log.
			if err := sink.Rotate(); err != nil {
				return fmt.Errorf("sink.Rotate > %w", err)
			}
			jobLogger := sink.Logger(slog.LevelInfo)

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() { _ = db.Close() }()
			store := notebook.NewDBNoteStore(db)

			cache := newCache(cfg, jobLogger)
			cache.Load()
			if cfg.Cache.SaveIntervalMinutes > 0 {
				cache.StartPeriodicFlush(time.Duration(cfg.Cache.SaveIntervalMinutes) * time.Minute)
				defer cache.StopPeriodicFlush()
			}

			tracker := statistics.NewTracker()
			client := newLookupClient(cfg, cache, tracker, jobLogger)
			defer func() { _ = client.Close() }()

			assembler := glossary.NewAssembler(client, glossaryOptions(cfg),
				cfg.Performance.APICallWorkers)

			confirm := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm
			if yes {
				confirm = func(string) bool { return true }
			}

			proc := processor.NewProcessor(store, assembler, cache, tracker, jobLogger,
				processor.Config{
					BatchSize:           cfg.Performance.BatchSize,
					MaxWorkers:          cfg.Performance.MaxWorkers,
					PauseBetweenBatches: time.Duration(cfg.Performance.PauseBetweenBatchesMS) * time.Millisecond,
					IgnoreExistingNotes: cfg.General.IgnoreExistingGlossaryNotes,
					OverwriteExisting:   cfg.General.OverwriteExistingGlossaryNotes,
				}, confirm)

			// The first interrupt requests cancellation; in-flight notes
			// still finish and the current batch is persisted.
			signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			go func() {
				<-signalCtx.Done()
				tracker.RequestCancel()
			}()

			progressCtx, stopProgress := context.WithCancel(context.Background())
			defer stopProgress()
			go cli.NewProgressPrinter(tracker, cmd.OutOrStdout(), time.Second).Run(progressCtx)

			summary, err := proc.Run(cmd.Context(), processor.Job{
				Deck:        deck,
				Model:       model,
				SourceField: sourceField,
				TargetField: targetField,
			})
			stopProgress()
			if err != nil {
				if errors.Is(err, processor.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
					return nil
				}
				return err
			}

			cli.PrintSummary(cmd.OutOrStdout(), summary, tracker.Snapshot())
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&deck, "deck", "", "deck with the notes to process")
	flags.StringVar(&model, "model", "", "note type of the notes to process")
	flags.StringVar(&sourceField, "source-field", "", "field holding the Japanese text")
	flags.StringVar(&targetField, "target-field", "Glossary", "field receiving the generated glossary")
	flags.BoolVar(&yes, "yes", false, "answer yes to all confirmation prompts")
	flags.Var(&scripts, "scripts",
		"comma separated scripts to include, overriding the config (hiragana, katakana, kanji)")
	for _, required := range []string{"deck", "model", "source-field"} {
		if err := command.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}
	return command
}
