package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, relPath string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("content"), 0o644))
}

func TestNew_RejectsInvalidGlobPattern(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), []string{"[invalid"}, nil)
	require.Error(t, err)
}

func TestDiscoverFiles_MatchesCodePatternsAndSkipsIgnored(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "cmd/main.go")
	writeFile(t, root, "pkg/util.go")
	writeFile(t, root, "README.md")
	writeFile(t, root, "vendor/dep/dep.go")
	writeFile(t, root, "node_modules/pkg/index.js")

	fd, err := New(root, []string{"**/*.go", "**/*.js"}, []string{"vendor/**", "node_modules/**"})
	require.NoError(t, err)

	got, err := fd.DiscoverFiles()
	require.NoError(t, err)
	sort.Strings(got)

	assert.Equal(t, []string{"cmd/main.go", "pkg/util.go"}, got)
}

func TestDiscoverFiles_AutoIgnoresCodesearchDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "cmd/main.go")
	writeFile(t, root, ".codesearch/index/snapshot.json")

	fd, err := New(root, []string{"**/*.go", "**/*.json"}, nil)
	require.NoError(t, err)

	got, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd/main.go"}, got)
}

func TestDiscoverFiles_NoCodePatternsYieldsNoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "main.go")

	fd, err := New(root, nil, nil)
	require.NoError(t, err)

	got, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscoverFiles_EmptyRootYieldsNoFiles(t *testing.T) {
	t.Parallel()

	fd, err := New(t.TempDir(), []string{"**/*.go"}, nil)
	require.NoError(t, err)

	got, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Empty(t, got)
}
