package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukmisael/japanese-glossary-generator/internal/config"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := SetupTestConfig(t, tmpDir)

	loader, err := config.NewConfigLoader(cfgPath)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Performance.MaxWorkers)
	assert.Equal(t, 0, cfg.Performance.PausePerAPICallMS)
	assert.True(t, cfg.Cache.Enabled)
	assert.Contains(t, cfg.Cache.FilePath, tmpDir)
	assert.Contains(t, cfg.Log.FilePath, tmpDir)
}
