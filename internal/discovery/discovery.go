// Package discovery walks a repository and selects the source files the
// Chunker and Graph Builder consume, honoring the config's code/ignore
// glob patterns.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// FileDiscovery matches repository-relative paths against compiled glob
// patterns.
type FileDiscovery struct {
	rootDir        string
	codePatterns   []glob.Glob
	ignorePatterns []glob.Glob
}

// New compiles codePatterns/ignorePatterns (as '/'-separated globs) for
// walking rootDir.
func New(rootDir string, codePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	for _, p := range codePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		fd.codePatterns = append(fd.codePatterns, g)
	}
	for _, p := range ignorePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		fd.ignorePatterns = append(fd.ignorePatterns, g)
	}
	return fd, nil
}

// DiscoverFiles walks rootDir and returns the repository-relative paths
// of every file matching a code pattern and no ignore pattern.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if fd.matchesAny(relPath, fd.codePatterns) {
			files = append(files, relPath)
		}
		return nil
	})
	return files, err
}

func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".codesearch/") || relPath == ".codesearch" {
		return true
	}
	if fd.matchesAny(relPath, fd.ignorePatterns) {
		return true
	}
	return fd.matchesAny(relPath+"/**", fd.ignorePatterns)
}

func (fd *FileDiscovery) matchesAny(path string, patterns []glob.Glob) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
