package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

// tokenReferences returns the canonical reference paths a token carries,
// across its primary value and all per-mode values.
func tokenReferences(tok *tokens.Token) []string {
	var out []string
	if ref, ok := refs.Parse(tok.Value); ok {
		out = append(out, ref.Path)
	}
	modes := make([]string, 0, len(tok.ValuesByMode))
	for mode := range tok.ValuesByMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	for _, mode := range modes {
		if ref, ok := refs.Parse(tok.ValuesByMode[mode]); ok {
			out = append(out, ref.Path)
		}
	}
	return out
}

// inferCollection guesses which collection a bare reference path belongs
// to: longest matching collection-name prefix first, then the collection
// that actually defines the path, then the default bucket (the first
// collection in discovery order) for primitive-like paths.
func inferCollection(refPath string, cols []*tokens.Collection) *tokens.Collection {
	var best *tokens.Collection
	bestLen := 0
	for _, col := range cols {
		prefix := tokens.NormalizePath(col.Name)
		if prefix != "" && (refPath == prefix || strings.HasPrefix(refPath, prefix+".")) {
			if len(prefix) > bestLen {
				best = col
				bestLen = len(prefix)
			}
		}
	}
	if best != nil {
		return best
	}
	for _, col := range cols {
		if _, ok := col.Tokens[refPath]; ok {
			return col
		}
	}
	if len(cols) > 0 {
		return cols[0]
	}
	return nil
}

// collectionOrder computes a dependency-respecting processing order across
// collections: if collection A references a token inferred to live in
// collection B, B is processed first. Cycles between collections degrade
// gracefully: the cyclic set keeps its discovery order and a warning is
// emitted instead of aborting.
func collectionOrder(cols []*tokens.Collection) ([]*tokens.Collection, []string) {
	byName := map[string]*tokens.Collection{}
	var names []string
	for _, col := range cols {
		byName[col.Name] = col
		names = append(names, col.Name)
	}

	// Edge A -> B: A depends on B
	deps := map[string][]string{}
	for _, col := range cols {
		seen := map[string]bool{}
		for _, name := range col.TokenNames() {
			for _, refPath := range tokenReferences(col.Tokens[name]) {
				target := inferCollection(refPath, cols)
				if target == nil || target.Name == col.Name || seen[target.Name] {
					continue
				}
				seen[target.Name] = true
				deps[col.Name] = append(deps[col.Name], target.Name)
			}
		}
	}

	order, warnings := topologicalOrder(names, deps, "collection")

	out := make([]*tokens.Collection, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, warnings
}

// tokenOrder computes a same-collection creation order so that a token's
// same-collection dependency is always created before it. Self-references
// and cycles degrade to discovery order for the offending tokens, with a
// warning.
func tokenOrder(col *tokens.Collection) ([]string, []string) {
	names := col.TokenNames()

	deps := map[string][]string{}
	for _, name := range names {
		for _, refPath := range tokenReferences(col.Tokens[name]) {
			if refPath == name {
				continue
			}
			if _, sameCollection := col.Tokens[refPath]; sameCollection {
				deps[name] = append(deps[name], refPath)
			}
		}
	}

	return topologicalOrder(names, deps, fmt.Sprintf("collection %q token", col.Name))
}

// topologicalOrder sorts nodes so dependencies come first. Back-edges
// (cycles) are skipped with a warning, which leaves the cyclic nodes in
// discovery order relative to each other.
func topologicalOrder(nodes []string, deps map[string][]string, subject string) ([]string, []string) {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := map[string]int{}
	var order []string
	var warnings []string

	var visit func(node string, path []string)
	visit = func(node string, path []string) {
		switch state[node] {
		case done:
			return
		case inStack:
			warnings = append(warnings, fmt.Sprintf("%s dependency cycle detected: %s; falling back to discovery order",
				subject, strings.Join(append(path, node), " -> ")))
			return
		}
		state[node] = inStack
		for _, dep := range deps[node] {
			visit(dep, append(path, node))
		}
		state[node] = done
		order = append(order, node)
	}

	for _, node := range nodes {
		visit(node, nil)
	}
	return order, warnings
}
