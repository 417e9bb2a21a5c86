package graph

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// workspaceDirs are the conventional monorepo roots scanned for named
// packages, per spec.md §4.2.
var workspaceDirs = []string{"packages", "apps", "libs", "modules"}

var rePackageName = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

// workspaceCache is a process-wide, idempotently-initialized cache of
// scoped-package name → directory, as described in spec.md §9 ("Globals
// and caches"). It is exposed here as an explicit value a caller plumbs
// through (WorkspaceResolver), not a hidden package-level singleton,
// though the process-wide default lives in defaultWorkspaceCache for
// callers that don't need per-project isolation.
type workspaceCache struct {
	mu      sync.Mutex
	root    string
	loaded  bool
	byName  map[string]string // "@scope/name" -> absolute directory
}

// WorkspaceResolver resolves "@scope/name" import specifiers to an
// absolute directory by scanning workspaceDirs under root and reading
// each subdirectory's manifest for its declared package name.
type WorkspaceResolver struct {
	root  string
	cache *workspaceCache
}

// NewWorkspaceResolver creates a resolver scoped to root. Each resolver
// gets its own cache; callers that want the shared process-wide cache
// should use NewDefaultWorkspaceResolver instead.
func NewWorkspaceResolver(root string) *WorkspaceResolver {
	return &WorkspaceResolver{root: root, cache: &workspaceCache{root: root, byName: map[string]string{}}}
}

var (
	defaultCacheMu sync.Mutex
	defaultCache   *workspaceCache
)

// NewDefaultWorkspaceResolver returns a resolver backed by the process-wide
// cache for root, initializing it on first use. ResetWorkspaceCache
// invalidates it.
func NewDefaultWorkspaceResolver(root string) *WorkspaceResolver {
	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()
	if defaultCache == nil || defaultCache.root != root {
		defaultCache = &workspaceCache{root: root, byName: map[string]string{}}
	}
	return &WorkspaceResolver{root: root, cache: defaultCache}
}

// ResetWorkspaceCache invalidates the process-wide default cache, forcing
// the next NewDefaultWorkspaceResolver to rescan.
func ResetWorkspaceCache() {
	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()
	defaultCache = nil
}

func (r *WorkspaceResolver) ensureLoaded() {
	r.cache.mu.Lock()
	defer r.cache.mu.Unlock()
	if r.cache.loaded {
		return
	}
	r.cache.loaded = true

	for _, dir := range workspaceDirs {
		base := filepath.Join(r.root, dir)
		entries, err := os.ReadDir(base)
		if err != nil {
			continue // non-fatal: manifest/dir read errors are skipped
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			pkgDir := filepath.Join(base, e.Name())
			name, ok := readPackageName(pkgDir)
			if !ok {
				continue
			}
			r.cache.byName[name] = pkgDir
		}
	}
}

func readPackageName(dir string) (string, bool) {
	for _, manifest := range []string{"package.json"} {
		data, err := os.ReadFile(filepath.Join(dir, manifest))
		if err != nil {
			continue
		}
		if m := rePackageName.FindSubmatch(data); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}

// Resolve looks up a scoped package specifier ("@scope/name" or
// "@scope/name/sub/path") and returns the directory it maps to, along with
// whether that directory is the package's own root (exact=true) or a
// subpath already joined beneath it (exact=false). Callers must only apply
// the package's index-file fallback in the exact case: a subpath like
// "@acme/ui/components/Button" already names its target, not a package
// root, so it must not get "/index" appended on top of it.
func (r *WorkspaceResolver) Resolve(spec string) (dir string, exact bool, ok bool) {
	r.ensureLoaded()
	r.cache.mu.Lock()
	defer r.cache.mu.Unlock()

	if dir, ok := r.cache.byName[spec]; ok {
		return dir, true, true
	}

	segs := splitPath(spec)
	if len(segs) < 2 {
		return "", false, false
	}
	prefix := segs[0] + "/" + segs[1]
	base, ok := r.cache.byName[prefix]
	if !ok {
		return "", false, false
	}
	if len(segs) == 2 {
		return base, true, true
	}
	return filepath.Join(append([]string{base}, segs[2:]...)...), false, true
}

func splitPath(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '/' {
			out = append(out, cur)
			cur = ""
		} else {
			cur += string(r)
		}
	}
	out = append(out, cur)
	return out
}
