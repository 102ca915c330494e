package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_AppliesSchemaOnce(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitDatabase(db))
	require.NoError(t, InitDatabase(db))

	var version int
	require.NoError(t, db.Get(&version, "PRAGMA user_version"))
	assert.Equal(t, SchemaVersion, version)

	counts, err := TableCounts(db)
	require.NoError(t, err)
	assert.Contains(t, counts, "stock_movements")
	assert.Equal(t, 0, counts["orders"])
}
