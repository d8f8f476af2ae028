package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary"
	"github.com/jukmisael/japanese-glossary-generator/internal/japanese"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

func newLookupCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "lookup",
		Short: "Look up a single character or reading against the remote dictionaries",
	}
	rootCommand.AddCommand(
		newLookupKanjiCommand(),
		newLookupKanaCommand("romaji", "Convert Japanese text to romaji",
			(*dictionary.Client).Romaji),
		newLookupKanaCommand("hiragana", "Convert text to hiragana",
			(*dictionary.Client).Hiragana),
		newLookupKanaCommand("katakana", "Convert text to katakana",
			(*dictionary.Client).Katakana),
	)
	return rootCommand
}

// withLookupClient builds the cache backed lookup client, runs fn and
// persists any newly cached results.
func withLookupClient(fn func(client *dictionary.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cache := newCache(cfg, slog.Default())
	cache.Load()
	client := newLookupClient(cfg, cache, statistics.NewTracker(), slog.Default())
	defer func() { _ = client.Close() }()

	if err := fn(client); err != nil {
		return err
	}
	if err := cache.Flush(); err != nil {
		return fmt.Errorf("cache.Flush > %w", err)
	}
	return nil
}

func newLookupKanjiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kanji <character>",
		Short: "Show the dictionary entry of a kanji character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			char, size := utf8.DecodeRuneInString(args[0])
			if size != len(args[0]) || !japanese.IsKanji(char) {
				return fmt.Errorf("%q is not a single kanji character", args[0])
			}

			return withLookupClient(func(client *dictionary.Client) error {
				info := client.KanjiInfo(cmd.Context(), char)
				if info == nil {
					return fmt.Errorf("no dictionary entry found for %q", string(char))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Kanji: %s\n", info.Kanji)
				if len(info.KunReadings) > 0 {
					fmt.Fprintf(out, "Kun readings: %s\n", strings.Join(info.KunReadings, ", "))
				}
				if len(info.OnReadings) > 0 {
					fmt.Fprintf(out, "On readings: %s\n", strings.Join(info.OnReadings, ", "))
				}
				if len(info.Meanings) > 0 {
					fmt.Fprintf(out, "Meanings: %s\n", strings.Join(info.Meanings, ", "))
				}
				return nil
			})
		},
	}
}

func newLookupKanaCommand(
	use string,
	short string,
	lookup func(*dictionary.Client, context.Context, string) *string,
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <text>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookupClient(func(client *dictionary.Client) error {
				result := lookup(client, cmd.Context(), args[0])
				if result == nil {
					return fmt.Errorf("no %s conversion found for %q", use, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), *result)
				return nil
			})
		},
	}
}
