package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jukmisael/japanese-glossary-generator/internal/cli"
)

func newCacheCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the lookup cache",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and file size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			cache := newCache(cfg, slog.Default())
			cache.Load()
			stats := cache.GetStats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Enabled: %t\n", stats.Enabled)
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "File size: %.2f MB\n", stats.FileSizeMB)
			fmt.Fprintf(out, "File path: %s\n", cfg.Cache.FilePath)
			return nil
		},
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached lookup result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if !prompter.Confirm("Delete all cached API results?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
				return nil
			}

			cache := newCache(cfg, slog.Default())
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("cache.Clear > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Rewrite the cache file from its current entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			cache := newCache(cfg, slog.Default())
			cache.Load()
			if err := cache.Flush(); err != nil {
				return fmt.Errorf("cache.Flush > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flushed %d entries to %s\n",
				cache.Len(), cfg.Cache.FilePath)
			return nil
		},
	})

	return rootCommand
}
