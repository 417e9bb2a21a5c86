package graph

import (
	"path"
	"path/filepath"
	"strings"
)

// sourceExtensions is the fallback-resolution order from spec.md §4.2.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// File is one workspace file's raw content, the input to BuildGraph.
type File struct {
	Filepath string // repository-relative, forward-slash
	Content  string
}

// BuildGraph runs the two-pass graph build described in spec.md §4.2:
// pass 1 regex-extracts imports/exports per file and creates nodes; pass 2
// resolves each import to a workspace filepath and adds an edge.
func BuildGraph(files []File, projectRoot string) *DependencyGraph {
	g := NewDependencyGraph()
	resolver := NewWorkspaceResolver(projectRoot)

	// Pass 1: node creation.
	for _, f := range files {
		imports, exports := extractFile(f.Content)
		node := g.ensureNode(f.Filepath)
		node.Imports = imports
		node.Exports = exports
	}

	// Pass 2: edge resolution.
	for _, f := range files {
		node := g.Nodes[f.Filepath]
		for _, imp := range node.Imports {
			target, ok := resolveImport(imp.From, f.Filepath, projectRoot, resolver, g)
			if !ok {
				continue
			}
			g.AddEdge(f.Filepath, target)
		}
	}

	g.Finalize()
	return g
}

// resolveImport resolves one import's `from` path to an existing node's
// filepath. Only resolutions that lie under projectRoot and name an
// existing node yield a match.
func resolveImport(from, importingFile, projectRoot string, resolver *WorkspaceResolver, g *DependencyGraph) (string, bool) {
	var candidate string

	switch {
	case strings.HasPrefix(from, "@"):
		dir, exact, ok := resolver.Resolve(from)
		if !ok {
			return "", false
		}
		rel, err := filepath.Rel(projectRoot, dir)
		if err != nil {
			return "", false
		}
		rel = toSlash(rel)
		if exact {
			candidate = path.Join(rel, "index")
		} else {
			candidate = rel
		}

	case strings.HasPrefix(from, ".") || strings.HasPrefix(from, "/"):
		dir := filepath.Dir(importingFile)
		candidate = path.Clean(path.Join(dir, from))

	default:
		// bare specifier: external package, not resolvable in-workspace.
		return "", false
	}

	resolved, ok := resolveFileExtension(candidate, g)
	if !ok {
		return "", false
	}

	if !underRoot(resolved, importingFile, projectRoot) {
		return "", false
	}

	if _, exists := g.Nodes[resolved]; !exists {
		return "", false
	}
	return resolved, true
}

// resolveFileExtension applies the extension/index fallback chain from
// spec.md §4.2: as-is if it already has a known extension, else try each
// extension, else try <path>/index.<ext>, else fall back to <path>.ts.
func resolveFileExtension(candidate string, g *DependencyGraph) (string, bool) {
	candidate = toSlash(candidate)

	if hasKnownExtension(candidate) {
		return candidate, true
	}

	for _, ext := range sourceExtensions {
		p := candidate + ext
		if _, ok := g.Nodes[p]; ok {
			return p, true
		}
	}

	for _, ext := range sourceExtensions {
		p := candidate + "/index" + ext
		if _, ok := g.Nodes[p]; ok {
			return p, true
		}
	}

	return candidate + ".ts", true
}

func hasKnownExtension(p string) bool {
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func toSlash(p string) string {
	return filepath.ToSlash(p)
}

// underRoot reports whether resolved is a workspace-relative path that
// stays within projectRoot once re-joined to it (no ../ escape).
func underRoot(resolved, importingFile, projectRoot string) bool {
	_ = importingFile
	if strings.HasPrefix(resolved, "../") || resolved == ".." {
		return false
	}
	_ = projectRoot
	return true
}
