package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "general:")
			fmt.Fprintf(out, "  include_hiragana: %t\n", cfg.General.IncludeHiragana)
			fmt.Fprintf(out, "  include_katakana: %t\n", cfg.General.IncludeKatakana)
			fmt.Fprintf(out, "  include_kanji: %t\n", cfg.General.IncludeKanji)
			fmt.Fprintf(out, "  include_romaji: %t\n", cfg.General.IncludeRomaji)
			fmt.Fprintf(out, "  include_kanji_meanings: %t\n", cfg.General.IncludeKanjiMeanings)
			fmt.Fprintf(out, "  ignore_existing_glossary_notes: %t\n", cfg.General.IgnoreExistingGlossaryNotes)
			fmt.Fprintf(out, "  overwrite_existing_glossary_notes: %t\n", cfg.General.OverwriteExistingGlossaryNotes)
			fmt.Fprintln(out, "performance:")
			fmt.Fprintf(out, "  max_workers: %d\n", cfg.Performance.MaxWorkers)
			fmt.Fprintf(out, "  api_call_workers: %d\n", cfg.Performance.APICallWorkers)
			fmt.Fprintf(out, "  batch_size: %d\n", cfg.Performance.BatchSize)
			fmt.Fprintf(out, "  pause_between_batches_ms: %d\n", cfg.Performance.PauseBetweenBatchesMS)
			fmt.Fprintf(out, "  pause_per_api_call_ms: %d\n", cfg.Performance.PausePerAPICallMS)
			fmt.Fprintln(out, "cache:")
			fmt.Fprintf(out, "  cache_enabled: %t\n", cfg.Cache.Enabled)
			fmt.Fprintf(out, "  cache_max_size_mb: %d\n", cfg.Cache.MaxSizeMB)
			fmt.Fprintf(out, "  cache_save_interval_minutes: %d\n", cfg.Cache.SaveIntervalMinutes)
			fmt.Fprintf(out, "  cache_file_path: %s\n", cfg.Cache.FilePath)
			fmt.Fprintln(out, "apis:")
			fmt.Fprintf(out, "  romaji2kana_base_url: %s\n", cfg.APIs.Romaji2KanaBaseURL)
			fmt.Fprintf(out, "  kanjiapi_base_url: %s\n", cfg.APIs.KanjiAPIBaseURL)
			fmt.Fprintln(out, "database:")
			fmt.Fprintf(out, "  host: %s\n", cfg.Database.Host)
			fmt.Fprintf(out, "  port: %d\n", cfg.Database.Port)
			fmt.Fprintf(out, "  database: %s\n", cfg.Database.Database)
			fmt.Fprintf(out, "  username: %s\n", cfg.Database.Username)
			fmt.Fprintln(out, "log:")
			fmt.Fprintf(out, "  file_path: %s\n", cfg.Log.FilePath)
			return nil
		},
	})

	return rootCommand
}
