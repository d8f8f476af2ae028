// Package testutil provides shared test helpers for creating config files
// and collection fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file whose cache and log paths live under
// tmpDir, so tests never touch the real filesystem locations. Returns the
// path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"cache", "logs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`performance:
  max_workers: 2
  api_call_workers: 1
  batch_size: 10
  pause_between_batches_ms: 0
  pause_per_api_call_ms: 0
cache:
  cache_enabled: true
  cache_save_interval_minutes: 0
  cache_file_path: %s
log:
  file_path: %s
`,
		filepath.Join(tmpDir, "cache", "api_cache.json"),
		filepath.Join(tmpDir, "logs", "glossary.log"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
