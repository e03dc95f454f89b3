package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_dataset_files.sql"))
	assert.Equal(t, "002", Version("sql/002_more.sql"))
	assert.Equal(t, "003", Version("003.sql"))
}

func TestPendingOrdersSQLFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.sql":  {Data: []byte("SELECT 1;")},
		"002_second.sql": {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("notes")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
	}

	names, err := Pending(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_second.sql", "010_later.sql"}, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := Pending(Files())
	require.NoError(t, err)
	assert.Contains(t, names, "001_dataset_files.sql")
}
