package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksverver/wikipath/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, config.DefaultConfig().Validate())
}

func TestLoadFromYAML_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikipath.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
graph:
  path: /data/enwiki.graph
  lock_into_memory: true
metadata:
  path: /data/enwiki.metadata
`), 0o644))

	c, err := config.LoadFromYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/enwiki.graph", c.Graph.Path)
	assert.True(t, c.Graph.LockIntoMemory)
	assert.Equal(t, "/data/enwiki.metadata", c.Metadata.Path)
	assert.Equal(t, 10, c.Search.MaxPathsListed) // untouched default
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	_, err := config.LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsEmptyPaths(t *testing.T) {
	c := config.DefaultConfig()
	c.Graph.Path = ""
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsNonPositiveMaxPaths(t *testing.T) {
	c := config.DefaultConfig()
	c.Search.MaxPathsListed = 0
	assert.Error(t, c.Validate())
}
