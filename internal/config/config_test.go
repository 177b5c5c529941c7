package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	content := "limit: 50\nlazy: true\ninclude_children: false\nnice: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, d.Limit)
	assert.Equal(t, 50.0, *d.Limit)
	require.NotNil(t, d.Lazy)
	assert.True(t, *d.Lazy)
	require.NotNil(t, d.IncludeChildren)
	assert.False(t, *d.IncludeChildren)
	require.NotNil(t, d.Nice)
	assert.Equal(t, 5, *d.Nice)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/defaults.yaml")
	assert.Error(t, err)
}
