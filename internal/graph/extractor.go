package graph

import (
	"regexp"
	"strings"
)

// extractedImport mirrors an ES-module import line before it's flattened
// into one Import record per symbol.
type extractedImport struct {
	symbols []string
	from    string
	isType  bool
	line    int
}

var (
	// import [type] [* as X | Default[, { a, b as c }] | { a, b as c }] from "path"
	reImportFrom = regexp.MustCompile(`^\s*import\s+(type\s+)?(.+?)\s+from\s+['"]([^'"]+)['"]`)
	// import "path" (side effect)
	reImportSideEffect = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	// import("path") / require("path")
	reImportDynamic = regexp.MustCompile(`\b(?:import|require)\s*\(\s*['"]([^'"]+)['"]\s*\)`)

	reNamespace = regexp.MustCompile(`^\*\s*as\s+(\w+)`)
	reDefault   = regexp.MustCompile(`^(\w+)$`)
	reNamedList = regexp.MustCompile(`\{([^}]*)\}`)

	reExportDecl    = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:function|class|interface|type|const|let|var)\s+(\w+)`)
	reExportClause  = regexp.MustCompile(`^\s*export\s*\{([^}]*)\}`)
	reExportDefault = regexp.MustCompile(`^\s*export\s+default\b`)
)

// extractFile regex-extracts imports and exports from one file's raw
// content, independent of any grammar. Line numbers are 1-indexed.
func extractFile(content string) (imports []Import, exports map[string]bool) {
	exports = make(map[string]bool)
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		lineNo := i + 1

		if m := reImportFrom.FindStringSubmatch(line); m != nil {
			isType := m[1] != ""
			clause := strings.TrimSpace(m[2])
			from := m[3]
			for _, sym := range parseImportClause(clause) {
				imports = append(imports, Import{Symbol: sym.name, From: from, IsType: isType || sym.isType, Line: lineNo})
			}
			continue
		}

		if m := reImportSideEffect.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Symbol: "*", From: m[1], Line: lineNo})
			continue
		}

		for _, m := range reImportDynamic.FindAllStringSubmatch(line, -1) {
			imports = append(imports, Import{Symbol: "*", From: m[1], Line: lineNo})
		}

		if m := reExportDecl.FindStringSubmatch(line); m != nil {
			exports[m[1]] = true
			continue
		}
		if m := reExportClause.FindStringSubmatch(line); m != nil {
			for _, name := range parseExportClause(m[1]) {
				exports[name] = true
			}
			continue
		}
		if reExportDefault.MatchString(line) {
			exports["default"] = true
		}
	}

	return imports, exports
}

type clauseSymbol struct {
	name   string
	isType bool
}

// parseImportClause splits the middle portion of an import statement
// (everything between "import" and "from") into individual symbols.
// Handles: `* as X`, `Default`, `Default, { a, b as c }`, `{ a, b as c }`.
func parseImportClause(clause string) []clauseSymbol {
	var out []clauseSymbol

	if named := reNamedList.FindStringSubmatch(clause); named != nil {
		for _, part := range strings.Split(named[1], ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			isType := false
			if strings.HasPrefix(part, "type ") {
				isType = true
				part = strings.TrimSpace(strings.TrimPrefix(part, "type "))
			}
			if idx := strings.Index(part, " as "); idx >= 0 {
				alias := strings.TrimSpace(part[idx+4:])
				out = append(out, clauseSymbol{name: alias, isType: isType})
			} else {
				out = append(out, clauseSymbol{name: part, isType: isType})
			}
		}
		// strip the {...} to see if there's also a default import before it
		clause = strings.TrimSpace(reNamedList.ReplaceAllString(clause, ""))
		clause = strings.Trim(clause, ", ")
	}

	if clause == "" {
		return out
	}

	if m := reNamespace.FindStringSubmatch(clause); m != nil {
		out = append(out, clauseSymbol{name: "*"})
		return out
	}

	if m := reDefault.FindStringSubmatch(clause); m != nil {
		out = append(out, clauseSymbol{name: m[1]})
		return out
	}

	return out
}

func parseExportClause(body string) []string {
	var out []string
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			out = append(out, strings.TrimSpace(part[idx+4:]))
		} else {
			out = append(out, part)
		}
	}
	return out
}
