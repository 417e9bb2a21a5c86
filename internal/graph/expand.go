package graph

import "github.com/codesearch-core/codesearch/internal/chunk"

// ExpandOptions configures expand_context / get_expanded_chunks.
type ExpandOptions struct {
	MaxHops          int
	IncludeImports   bool
	IncludeDependents bool
	MaxFiles         int
}

// DefaultExpandOptions matches spec.md §4.2's defaults.
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{MaxHops: 2, IncludeImports: true, IncludeDependents: true, MaxFiles: 20}
}

type queueItem struct {
	file  string
	depth int
}

// ExpandContext performs a BFS from startFiles over the enabled edge
// directions, seeding the visited set with startFiles (so they appear
// first, at depth 0), halting when the queue empties, the result reaches
// MaxFiles, or a popped node is already at MaxHops (it is included but not
// expanded further). Discovery order is preserved in the result.
func (g *DependencyGraph) ExpandContext(startFiles []string, opts ExpandOptions) []string {
	visited := make(map[string]bool, len(startFiles))
	var order []string
	var queue []queueItem

	for _, f := range startFiles {
		if visited[f] {
			continue
		}
		visited[f] = true
		order = append(order, f)
		queue = append(queue, queueItem{file: f, depth: 0})
	}

	for len(queue) > 0 && len(order) < opts.MaxFiles {
		item := queue[0]
		queue = queue[1:]

		if item.depth == opts.MaxHops {
			continue
		}

		var neighbors []string
		if opts.IncludeImports {
			neighbors = append(neighbors, g.Dependencies(item.file)...)
		}
		if opts.IncludeDependents {
			neighbors = append(neighbors, g.Dependents(item.file)...)
		}

		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true
			order = append(order, n)
			queue = append(queue, queueItem{file: n, depth: item.depth + 1})
			if len(order) == opts.MaxFiles {
				break
			}
		}
	}

	if len(order) > opts.MaxFiles {
		order = order[:opts.MaxFiles]
	}
	return order
}

// GetExpandedChunks derives the distinct filepaths of startChunks, expands
// them via ExpandContext, then concatenates the resulting nodes' chunks in
// discovery order, truncated to maxChunks.
func (g *DependencyGraph) GetExpandedChunks(startChunks []chunk.Chunk, opts ExpandOptions, maxChunks int) []chunk.Chunk {
	seen := map[string]bool{}
	var startFiles []string
	for _, c := range startChunks {
		if !seen[c.Filepath] {
			seen[c.Filepath] = true
			startFiles = append(startFiles, c.Filepath)
		}
	}

	files := g.ExpandContext(startFiles, opts)

	var out []chunk.Chunk
	for _, f := range files {
		node, ok := g.Nodes[f]
		if !ok {
			continue
		}
		for _, c := range node.Chunks {
			out = append(out, c)
			if len(out) == maxChunks {
				return out
			}
		}
	}
	return out
}
