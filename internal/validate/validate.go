// Package validate runs whole-batch pre-flight checks before any variable
// creation: missing references, circular chains, type compatibility,
// naming conventions, and reference-chain depth statistics. All checks are
// pure; findings are collected exhaustively rather than failing fast so
// the user sees the complete problem set at once.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tokenport/tokenport/internal/collections"
	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

// Error is one blocking validation finding.
type Error struct {
	Token      string `json:"token"`
	Reference  string `json:"reference,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning is one advisory finding; warnings never block creation.
type Warning struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Stats carries batch-level reference statistics.
type Stats struct {
	TotalTokens       int `json:"totalTokens"`
	TotalReferences   int `json:"totalReferences"`
	MaxReferenceDepth int `json:"maxReferenceDepth"`
}

// Report is the outcome of validating one batch.
// Valid is false only for missing-reference and circular-dependency
// findings; everything else is advisory.
type Report struct {
	Valid             bool       `json:"valid"`
	Errors            []Error    `json:"errors"`
	Warnings          []Warning  `json:"warnings"`
	MissingReferences []string   `json:"missingReferences"`
	Cycles            [][]string `json:"cycles,omitempty"`
	Stats             Stats      `json:"stats"`
}

// namingRegexp is the canonical lowercase/dot/hyphen token path pattern.
var namingRegexp = regexp.MustCompile(`^[a-z0-9]+([.\-][a-z0-9]+)*$`)

// compatibleReferenceTypes is the fixed allow-list of cross-type reference
// pairs that do not warrant a warning. A generic dimension may reference
// any of the sizing types, a number may reference an opacity, and so on.
var compatibleReferenceTypes = map[string]collections.Set[string]{
	"dimension":    collections.NewSet("spacing", "size", "space", "fontSize", "borderRadius", "borderWidth", "number"),
	"spacing":      collections.NewSet("dimension", "size", "space", "number"),
	"size":         collections.NewSet("dimension", "spacing", "space", "number"),
	"fontSize":     collections.NewSet("dimension", "number"),
	"borderRadius": collections.NewSet("dimension", "number"),
	"number":       collections.NewSet("dimension", "opacity"),
	"opacity":      collections.NewSet("number"),
	"fontFamily":   collections.NewSet("string"),
	"string":       collections.NewSet("fontFamily", "fontWeight"),
}

// reference pairs one extracted reference with its source token.
type reference struct {
	source string
	mode   string
	ref    refs.Reference
}

// Batch validates an entire import batch.
func Batch(cols []*tokens.Collection) *Report {
	report := &Report{Valid: true, Errors: []Error{}, Warnings: []Warning{}, MissingReferences: []string{}}

	catalog := buildCatalog(cols, report)
	references := extractReferences(cols, report)

	report.Stats.TotalTokens = len(catalog)
	report.Stats.TotalReferences = len(references)

	checkMissingReferences(references, catalog, report)

	graph := buildReferenceGraph(references)
	report.Cycles = detectCycles(graph)
	for _, cycle := range report.Cycles {
		err := &CircularReferenceError{Chain: cycle}
		report.Errors = append(report.Errors, Error{
			Token:      cycle[0],
			Reference:  cycle[len(cycle)-1],
			Message:    err.Error(),
			Suggestion: "Break the circular dependency chain",
		})
		report.Valid = false
	}

	checkTypeCompatibility(references, catalog, report)
	checkTokenShapes(cols, report)

	report.Stats.MaxReferenceDepth = maxReferenceDepth(graph)
	return report
}

// DetectCircularDependencies returns every circular reference chain in the
// batch. Exposed for callers that only need cycle information.
func DetectCircularDependencies(cols []*tokens.Collection) [][]string {
	report := &Report{Valid: true}
	references := extractReferences(cols, report)
	return detectCycles(buildReferenceGraph(references))
}

// buildCatalog maps every dotted token path in the batch to its token.
// The first collection defining a path wins; duplicates get a warning.
func buildCatalog(cols []*tokens.Collection, report *Report) map[string]*tokens.Token {
	catalog := map[string]*tokens.Token{}
	for _, col := range cols {
		for _, name := range col.TokenNames() {
			if _, exists := catalog[name]; exists {
				report.Warnings = append(report.Warnings, Warning{
					Token:   name,
					Message: fmt.Sprintf("token %q is defined in more than one collection; references resolve to the first definition", name),
				})
				continue
			}
			catalog[name] = col.Tokens[name]
		}
	}
	return catalog
}

// extractReferences gathers every reference in the batch, from primary
// values and per-mode values alike, and emits advisory shape findings
// (naming convention, unknown modes, empty shadows) along the way.
func extractReferences(cols []*tokens.Collection, report *Report) []reference {
	var out []reference
	for _, col := range cols {
		modeNames := collections.NewSet[string]()
		for _, m := range col.Modes {
			modeNames.Add(m.Name)
		}

		for _, name := range col.TokenNames() {
			tok := col.Tokens[name]
			if ref, ok := refs.Parse(tok.Value); ok {
				out = append(out, reference{source: name, ref: ref})
			}
			for _, mode := range sortedModeKeys(tok.ValuesByMode) {
				if !modeNames.Has(mode) {
					report.Warnings = append(report.Warnings, Warning{
						Token:   name,
						Message: fmt.Sprintf("token %q has a value for mode %q which collection %q does not declare", name, mode, col.Name),
					})
				}
				if ref, ok := refs.Parse(tok.ValuesByMode[mode]); ok {
					out = append(out, reference{source: name, mode: mode, ref: ref})
				}
			}
		}
	}
	return out
}

func sortedModeKeys(valuesByMode map[string]interface{}) []string {
	keys := make([]string, 0, len(valuesByMode))
	for k := range valuesByMode {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkMissingReferences records an error for every reference whose target
// path is absent from the catalog, with a best-effort suggestion.
func checkMissingReferences(references []reference, catalog map[string]*tokens.Token, report *Report) {
	seen := collections.NewSet[string]()
	for _, r := range references {
		if _, ok := catalog[r.ref.Path]; ok {
			continue
		}
		suggestion := suggestPath(r.ref.Path, catalog)
		report.Errors = append(report.Errors, Error{
			Token:      r.source,
			Reference:  r.ref.Path,
			Message:    (&MissingReferenceError{Token: r.source, Reference: r.ref.Path, Suggestion: suggestion}).Error(),
			Suggestion: suggestion,
		})
		if !seen.Has(r.ref.Path) {
			seen.Add(r.ref.Path)
			report.MissingReferences = append(report.MissingReferences, r.ref.Path)
		}
		report.Valid = false
	}
	sort.Strings(report.MissingReferences)
}

// suggestPath picks the cataloged path with the highest dotted-segment
// overlap with the missing path. Returns "" when nothing overlaps at all.
func suggestPath(missing string, catalog map[string]*tokens.Token) string {
	missingSegments := collections.NewSet(strings.Split(missing, ".")...)

	best := ""
	bestScore := 0
	candidates := make([]string, 0, len(catalog))
	for path := range catalog {
		candidates = append(candidates, path)
	}
	sort.Strings(candidates)

	for _, path := range candidates {
		score := 0
		for _, segment := range strings.Split(path, ".") {
			if missingSegments.Has(segment) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = path
		}
	}
	return best
}

// buildReferenceGraph maps each token path to the paths it references.
func buildReferenceGraph(references []reference) map[string][]string {
	graph := map[string][]string{}
	for _, r := range references {
		graph[r.source] = append(graph[r.source], r.ref.Path)
	}
	return graph
}

// detectCycles finds circular reference chains via depth-first traversal
// with a recursion-stack set. Each cycle is reported once.
func detectCycles(graph map[string][]string) [][]string {
	visited := map[string]bool{}
	var cycles [][]string

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		if visited[node] {
			continue
		}
		recStack := map[string]bool{}
		if cycle := cycleDFS(node, graph, visited, recStack, nil); cycle != nil {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

func cycleDFS(node string, graph map[string][]string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		// Back-edge: return the chain from the first occurrence of node
		for i, n := range path {
			if n == node {
				return append(append([]string{}, path[i:]...), node)
			}
		}
		return append(append([]string{}, path...), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range graph[node] {
		if cycle := cycleDFS(dep, graph, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// checkTypeCompatibility warns (never errors) when a token references a
// token of an incompatible semantic type.
func checkTypeCompatibility(references []reference, catalog map[string]*tokens.Token, report *Report) {
	for _, r := range references {
		source, ok := catalog[r.source]
		if !ok {
			continue
		}
		target, ok := catalog[r.ref.Path]
		if !ok {
			continue
		}
		if source.Type == "" || target.Type == "" || source.Type == target.Type {
			continue
		}
		if allowed, ok := compatibleReferenceTypes[source.Type]; ok && allowed.Has(target.Type) {
			continue
		}
		report.Warnings = append(report.Warnings, Warning{
			Token: r.source,
			Message: fmt.Sprintf("token %q of type %q references %q of type %q; these types may be incompatible",
				r.source, source.Type, r.ref.Path, target.Type),
		})
	}
}

// checkTokenShapes emits naming-convention and empty-value warnings.
func checkTokenShapes(cols []*tokens.Collection, report *Report) {
	for _, col := range cols {
		for _, name := range col.TokenNames() {
			tok := col.Tokens[name]
			if !namingRegexp.MatchString(name) {
				report.Warnings = append(report.Warnings, Warning{
					Token:   name,
					Message: fmt.Sprintf("token name %q does not match the lowercase dotted naming convention", name),
				})
			}
			if tok.Type == "shadow" && isEmptyValue(tok.Value) {
				report.Warnings = append(report.Warnings, Warning{
					Token:   name,
					Message: fmt.Sprintf("shadow token %q has an empty value", name),
				})
			}
		}
	}
}

func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		return false
	}
}

// maxReferenceDepth computes the longest reference chain via memoized DFS.
// A node revisited while still on the current path contributes depth 0,
// which short-circuits cycles instead of recursing forever.
func maxReferenceDepth(graph map[string][]string) int {
	memo := map[string]int{}
	onPath := map[string]bool{}

	var depth func(node string) int
	depth = func(node string) int {
		if d, ok := memo[node]; ok {
			return d
		}
		if onPath[node] {
			return 0
		}
		onPath[node] = true
		d := 0
		for _, dep := range graph[node] {
			if child := depth(dep) + 1; child > d {
				d = child
			}
		}
		onPath[node] = false
		memo[node] = d
		return d
	}

	max := 0
	for node := range graph {
		if d := depth(node); d > max {
			max = d
		}
	}
	return max
}
