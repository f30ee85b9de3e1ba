// Package testutil provides helpers for end-to-end extractor tests:
// writing stylesheet trees to disk, running the import-and-extract flow,
// and reading values out of built themes.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/cte/internal/importer"
	"bennypowers.dev/cte/internal/pipeline"
	"bennypowers.dev/cte/internal/theme"
)

// WriteTree writes the named files into a fresh temp directory and
// returns its path. Keys are slash-separated relative paths.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Extract loads the entry patterns (relative to dir) and runs the
// pipeline over them.
func Extract(t *testing.T, dir string, opts pipeline.Options, entries ...string) *pipeline.Result {
	t.Helper()
	patterns := make([]string, len(entries))
	for i, e := range entries {
		patterns[i] = filepath.Join(dir, filepath.FromSlash(e))
	}
	nodes, err := importer.Load(patterns...)
	require.NoError(t, err)
	return pipeline.Run(nodes, opts)
}

// Scalar returns the scalar value at group/key, failing the test when it
// is missing or not a scalar.
func Scalar(t *testing.T, th *theme.Theme, group theme.GroupName, key string) string {
	t.Helper()
	v, ok := th.Get(group, key)
	require.True(t, ok, "%s/%s missing", group, key)
	s, ok := v.(theme.Scalar)
	require.True(t, ok, "%s/%s is not a scalar", group, key)
	return string(s)
}

// Scale returns the scale value at group/key, failing the test when it
// is missing or not a scale.
func Scale(t *testing.T, th *theme.Theme, group theme.GroupName, key string) map[string]string {
	t.Helper()
	v, ok := th.Get(group, key)
	require.True(t, ok, "%s/%s missing", group, key)
	s, ok := v.(theme.Scale)
	require.True(t, ok, "%s/%s is not a scale", group, key)
	return s
}
