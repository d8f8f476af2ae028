// Package config loads the glossary generator configuration from a YAML file
// with built-in defaults, environment bindings for secrets, and validation.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	General     GeneralConfig     `mapstructure:"general"`
	Performance PerformanceConfig `mapstructure:"performance"`
	Cache       CacheConfig       `mapstructure:"cache"`
	APIs        APIConfig         `mapstructure:"apis"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Log         LogConfig         `mapstructure:"log"`
}

// GeneralConfig selects which glossary sections are generated and how
// existing target fields are treated.
type GeneralConfig struct {
	IncludeHiragana      bool `mapstructure:"include_hiragana"`
	IncludeKatakana      bool `mapstructure:"include_katakana"`
	IncludeKanji         bool `mapstructure:"include_kanji"`
	IncludeRomaji        bool `mapstructure:"include_romaji"`
	IncludeKanjiMeanings bool `mapstructure:"include_kanji_meanings"`
	// IgnoreExistingGlossaryNotes restricts a job to records whose target
	// field is still empty.
	IgnoreExistingGlossaryNotes bool `mapstructure:"ignore_existing_glossary_notes"`
	// OverwriteExistingGlossaryNotes skips the confirmation prompt when the
	// target field already exists.
	OverwriteExistingGlossaryNotes bool `mapstructure:"overwrite_existing_glossary_notes"`
}

// PerformanceConfig sizes the worker pools and pacing delays. The record pool
// and the lookup pool compose, so up to MaxWorkers*APICallWorkers lookups can
// be outstanding at once.
type PerformanceConfig struct {
	MaxWorkers            int `mapstructure:"max_workers" validate:"gte=1"`
	APICallWorkers        int `mapstructure:"api_call_workers" validate:"gte=1"`
	BatchSize             int `mapstructure:"batch_size" validate:"gte=1"`
	PauseBetweenBatchesMS int `mapstructure:"pause_between_batches_ms" validate:"gte=0"`
	PausePerAPICallMS     int `mapstructure:"pause_per_api_call_ms" validate:"gte=0"`
}

type CacheConfig struct {
	Enabled             bool   `mapstructure:"cache_enabled"`
	MaxSizeMB           int    `mapstructure:"cache_max_size_mb" validate:"gte=0"`
	SaveIntervalMinutes int    `mapstructure:"cache_save_interval_minutes" validate:"gte=0"`
	FilePath            string `mapstructure:"cache_file_path"`
}

// APIConfig holds the remote service base URLs. Overridable so tests and
// mirrors can point elsewhere.
type APIConfig struct {
	Romaji2KanaBaseURL string `mapstructure:"romaji2kana_base_url" validate:"url"`
	KanjiAPIBaseURL    string `mapstructure:"kanjiapi_base_url" validate:"url"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	FilePath string `mapstructure:"file_path"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/japanese-glossary")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("general.include_hiragana", true)
	v.SetDefault("general.include_katakana", true)
	v.SetDefault("general.include_kanji", true)
	v.SetDefault("general.include_romaji", true)
	v.SetDefault("general.include_kanji_meanings", true)
	v.SetDefault("general.ignore_existing_glossary_notes", false)
	v.SetDefault("general.overwrite_existing_glossary_notes", false)
	v.SetDefault("performance.max_workers", 4)
	v.SetDefault("performance.api_call_workers", 2)
	v.SetDefault("performance.batch_size", 50)
	v.SetDefault("performance.pause_between_batches_ms", 500)
	v.SetDefault("performance.pause_per_api_call_ms", 50)
	v.SetDefault("cache.cache_enabled", true)
	v.SetDefault("cache.cache_max_size_mb", 10)
	v.SetDefault("cache.cache_save_interval_minutes", 15)
	v.SetDefault("cache.cache_file_path", filepath.Join("cache", "api_cache.json"))
	v.SetDefault("apis.romaji2kana_base_url", "https://api.romaji2kana.com")
	v.SetDefault("apis.kanjiapi_base_url", "https://kanjiapi.dev")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "flashcards")
	v.SetDefault("database.username", "user")
	v.SetDefault("log.file_path", filepath.Join("logs", "glossary.log"))

	// Bind the database password to an environment variable only (not from
	// the config file).
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
