package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jukmisael/japanese-glossary-generator/internal/config"
	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary"
	"github.com/jukmisael/japanese-glossary-generator/internal/glossary"
	"github.com/jukmisael/japanese-glossary-generator/internal/statistics"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newCache(cfg *config.Config, logger *slog.Logger) *dictionary.APICache {
	return dictionary.NewAPICache(dictionary.CacheConfig{
		Enabled:   cfg.Cache.Enabled,
		FilePath:  cfg.Cache.FilePath,
		MaxSizeMB: cfg.Cache.MaxSizeMB,
	}, logger)
}

func newLookupClient(
	cfg *config.Config,
	cache *dictionary.APICache,
	tracker *statistics.Tracker,
	logger *slog.Logger,
) *dictionary.Client {
	return dictionary.NewClient(dictionary.ClientConfig{
		Romaji2KanaBaseURL: cfg.APIs.Romaji2KanaBaseURL,
		KanjiAPIBaseURL:    cfg.APIs.KanjiAPIBaseURL,
		PausePerAPICall:    time.Duration(cfg.Performance.PausePerAPICallMS) * time.Millisecond,
	}, cache, tracker, logger)
}

func glossaryOptions(cfg *config.Config) glossary.Options {
	return glossary.Options{
		IncludeHiragana:      cfg.General.IncludeHiragana,
		IncludeKatakana:      cfg.General.IncludeKatakana,
		IncludeKanji:         cfg.General.IncludeKanji,
		IncludeRomaji:        cfg.General.IncludeRomaji,
		IncludeKanjiMeanings: cfg.General.IncludeKanjiMeanings,
	}
}
