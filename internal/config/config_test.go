package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/config"
)

func TestDefault(t *testing.T) {
	opts := config.Default()
	assert.Equal(t, 500, opts.MaxRecursionDepth)
	assert.False(t, opts.StrictEqualityWarnings)
	assert.Empty(t, opts.DefaultTimezone)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict_equality_warnings: true\n"), 0o644))

	opts, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, opts.StrictEqualityWarnings)
	assert.Equal(t, 500, opts.MaxRecursionDepth) // untouched by the file, keeps Default()
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
