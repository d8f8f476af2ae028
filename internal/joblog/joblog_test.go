package joblog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_appendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "glossary.log")

	sink, err := Open(path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	sink, err = Open(path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(contents))
}

func TestSink_Rotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.log")

	sink, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = sink.Close()
	}()

	_, err = sink.Write([]byte("previous job\n"))
	require.NoError(t, err)

	require.NoError(t, sink.Rotate())
	_, err = sink.Write([]byte("new job\n"))
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new job\n", string(contents))
}

func TestSink_Logger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.log")

	sink, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = sink.Close()
	}()

	logger := sink.Logger(slog.LevelInfo)
	logger.Info("processing record", "record_id", 42)
	logger.Debug("this level is filtered out")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "processing record")
	assert.Contains(t, string(contents), "record_id=42")
	assert.Contains(t, string(contents), "time=")
	assert.NotContains(t, string(contents), "filtered out")
}
