package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			// Verify the logger was set (no panic)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewGenerateCommand(t *testing.T) {
	cmd := newGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	targetFlag := cmd.Flags().Lookup("target-field")
	if assert.NotNil(t, targetFlag) {
		assert.Equal(t, "Glossary", targetFlag.DefValue)
	}
}

func TestScriptList_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    scriptList
		wantErr string
	}{
		{
			name:  "single script",
			value: "kanji",
			want:  scriptList{"kanji"},
		},
		{
			name:  "multiple scripts",
			value: "hiragana,katakana",
			want:  scriptList{"hiragana", "katakana"},
		},
		{
			name:    "unknown script",
			value:   "romaji",
			wantErr: "invalid script: romaji",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scripts scriptList
			err := scripts.Set(tt.value)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, scripts)
			assert.Equal(t, tt.value, scripts.String())
		})
	}
}

func TestNewGenerateCommand_MissingFlags(t *testing.T) {
	cmd := newGenerateCommand()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestNewLookupCommand(t *testing.T) {
	cmd := newLookupCommand()

	assert.Equal(t, "lookup", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	uses := []string{}
	for _, sub := range cmd.Commands() {
		uses = append(uses, sub.Name())
	}
	assert.ElementsMatch(t, []string{"kanji", "romaji", "hiragana", "katakana"}, uses)
}

func TestNewLookupCommand_KanjiRejectsNonKanji(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "latin text", arg: "ab"},
		{name: "hiragana", arg: "あ"},
		{name: "multiple kanji", arg: "元気"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newLookupCommand()
			cmd.SetArgs([]string{"kanji", tt.arg})
			err := cmd.Execute()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "not a single kanji character")
		})
	}
}

func TestNewMigrateCommand(t *testing.T) {
	cmd := newMigrateCommand()

	assert.Equal(t, "migrate", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestNewCacheCommand(t *testing.T) {
	cmd := newCacheCommand()

	assert.Equal(t, "cache", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewConfigCommand(t *testing.T) {
	cmd := newConfigCommand()

	assert.Equal(t, "config", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}
