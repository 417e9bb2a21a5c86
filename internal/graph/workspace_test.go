package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkspacePackage(t *testing.T, root, dir, name string) {
	t.Helper()
	pkgDir := filepath.Join(root, "packages", dir)
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	manifest := `{"name": "` + name + `", "version": "1.0.0"}`
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(manifest), 0o644))
}

func TestWorkspaceResolver_ResolvesScopedPackageName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeWorkspacePackage(t, root, "ui", "@acme/ui")

	r := NewWorkspaceResolver(root)
	dir, exact, ok := r.Resolve("@acme/ui")
	require.True(t, ok)
	assert.True(t, exact)
	assert.Equal(t, filepath.Join(root, "packages", "ui"), dir)
}

func TestWorkspaceResolver_ResolvesSubpathUnderPackage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeWorkspacePackage(t, root, "ui", "@acme/ui")

	r := NewWorkspaceResolver(root)
	dir, exact, ok := r.Resolve("@acme/ui/components/Button")
	require.True(t, ok)
	assert.False(t, exact)
	assert.Equal(t, filepath.Join(root, "packages", "ui", "components", "Button"), dir)
}

func TestWorkspaceResolver_UnknownPackageFails(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	r := NewWorkspaceResolver(root)
	_, _, ok := r.Resolve("@acme/missing")
	assert.False(t, ok)
}

func TestWorkspaceResolver_CachesAfterFirstResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeWorkspacePackage(t, root, "ui", "@acme/ui")

	r := NewWorkspaceResolver(root)
	_, _, ok := r.Resolve("@acme/ui")
	require.True(t, ok)
	assert.True(t, r.cache.loaded)

	// removing the manifest after warm cache should not affect subsequent lookups
	require.NoError(t, os.RemoveAll(filepath.Join(root, "packages", "ui")))
	_, _, ok = r.Resolve("@acme/ui")
	assert.True(t, ok)
}

func TestDefaultWorkspaceResolver_ResetInvalidatesCache(t *testing.T) {
	root := t.TempDir()
	writeWorkspacePackage(t, root, "ui", "@acme/ui")

	r1 := NewDefaultWorkspaceResolver(root)
	_, _, ok := r1.Resolve("@acme/ui")
	require.True(t, ok)

	ResetWorkspaceCache()

	root2 := t.TempDir()
	r2 := NewDefaultWorkspaceResolver(root2)
	_, _, ok = r2.Resolve("@acme/ui")
	assert.False(t, ok)
}
