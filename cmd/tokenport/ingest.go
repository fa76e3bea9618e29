package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tokenport/tokenport/internal/cssfile"
	"github.com/tokenport/tokenport/internal/format"
	"github.com/tokenport/tokenport/internal/tokens"
)

// expandPaths resolves glob patterns (doublestar ** supported) and literal
// paths into a sorted, deduplicated file list.
func expandPaths(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", pattern, err)
			}
			if !seen[pattern] {
				seen[pattern] = true
				files = append(files, pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err != nil || info.IsDir() {
				continue
			}
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files matched %v", patterns)
	}
	sort.Strings(files)
	return files, nil
}

// ingestFile runs one file through the appropriate frontend: tree-sitter
// for stylesheets, the staged detection pipeline for everything else.
func ingestFile(manager *format.Manager, path string) (*format.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".css") {
		col, transformations, err := cssfile.NewParser().Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &format.Result{
			Format:          "css-stylesheet",
			Confidence:      1,
			Collections:     []*tokens.Collection{col},
			Transformations: transformations,
			Stats:           format.Stats{Collections: 1, Tokens: len(col.Tokens)},
		}, nil
	}

	result, err := manager.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// ingestAll processes every file and merges the resulting collections,
// preserving file order. Parse, detection, and normalization failures are
// terminal per file but isolated: the remaining files still process, and
// the per-file errors come back alongside the usable results. Only a batch
// with no usable file at all is an error.
func ingestAll(paths []string) ([]*tokens.Collection, []*format.Result, []string, error) {
	manager := format.NewManager()

	var cols []*tokens.Collection
	var results []*format.Result
	var fileErrs []string
	for _, path := range paths {
		result, err := ingestFile(manager, path)
		if err != nil {
			fileErrs = append(fileErrs, err.Error())
			continue
		}
		cols = append(cols, result.Collections...)
		results = append(results, result)
	}

	if len(results) == 0 && len(fileErrs) > 0 {
		return nil, nil, nil, fmt.Errorf("no file could be processed: %s", strings.Join(fileErrs, "; "))
	}
	return cols, results, fileErrs, nil
}
