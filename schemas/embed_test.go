package schemas

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		content, err := fs.ReadFile(Migrations, "migrations/"+entry.Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "CREATE TABLE")
	}
}
