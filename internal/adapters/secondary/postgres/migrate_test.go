package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles(t *testing.T) {
	files, err := fs.Glob(schemaFS, "schema/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(schemaFS, files[0])
	require.NoError(t, err)
	schema := string(content)

	// Storage-level backstops for numbering and single-decision finality.
	assert.Contains(t, schema, "UNIQUE (artifact_id, version_number)")
	assert.Contains(t, schema, "artifact_version_id")
	assert.Contains(t, schema, "IF NOT EXISTS")
}
