package format

import (
	"sort"

	"github.com/tokenport/tokenport/internal/refs"
)

// MaxTraversalDepth bounds structural traversal of untrusted JSON. Values
// nested deeper are treated as opaque leaves rather than recursed into.
const MaxTraversalDepth = 32

type walkFrame struct {
	value interface{}
	depth int
}

// walkValues visits every value in a parsed JSON document using an explicit
// worklist. The visit callback receives each value and its depth; returning
// false stops descent into that value's children. Values below
// MaxTraversalDepth are not expanded.
func walkValues(root interface{}, visit func(value interface{}, depth int) bool) {
	stack := []walkFrame{{root, 0}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(frame.value, frame.depth) {
			continue
		}
		if frame.depth >= MaxTraversalDepth {
			// Too deep: treat as opaque
			continue
		}

		switch v := frame.value.(type) {
		case map[string]interface{}:
			for _, child := range v {
				stack = append(stack, walkFrame{child, frame.depth + 1})
			}
		case []interface{}:
			for _, child := range v {
				stack = append(stack, walkFrame{child, frame.depth + 1})
			}
		}
	}
}

// leafStats aggregates leaf-token signals across a document.
type leafStats struct {
	// dollarLeaves counts objects carrying $value
	dollarLeaves int
	// plainLeaves counts objects carrying value (without $value)
	plainLeaves int
	// references counts string values in any recognized reference syntax
	references int
}

// propertyStyle summarizes the observed leaf naming convention.
func (s leafStats) propertyStyle() string {
	switch {
	case s.dollarLeaves > 0 && s.plainLeaves > 0:
		return PropertyStyleMixed
	case s.dollarLeaves > 0:
		return PropertyStyleDollar
	case s.plainLeaves > 0:
		return PropertyStylePlain
	default:
		return PropertyStyleNone
	}
}

// tokenCount returns the total number of leaf tokens observed.
func (s leafStats) tokenCount() int {
	return s.dollarLeaves + s.plainLeaves
}

// collectLeafStats walks a document counting token-shaped leaves and
// reference-shaped strings.
func collectLeafStats(root interface{}) leafStats {
	var stats leafStats
	walkValues(root, func(value interface{}, depth int) bool {
		switch v := value.(type) {
		case map[string]interface{}:
			if _, ok := v["$value"]; ok {
				stats.dollarLeaves++
			} else if _, ok := v["value"]; ok {
				stats.plainLeaves++
			}
		case string:
			if isReferenceShaped(v) {
				stats.references++
			}
		}
		return true
	})
	return stats
}

// isReferenceShaped reports whether a string matches any recognized
// reference syntax (canonical or dialect-specific).
func isReferenceShaped(s string) bool {
	return refs.CurlyReferenceRegexp.MatchString(s) ||
		refs.CSSVarRegexp.MatchString(s) ||
		refs.SassVarRegexp.MatchString(s) ||
		refs.AtRefRegexp.MatchString(s) ||
		refs.BracketRefRegexp.MatchString(s)
}

// asObject returns data as a JSON object, or nil if it is not one.
func asObject(data interface{}) map[string]interface{} {
	obj, _ := data.(map[string]interface{})
	return obj
}

// sortedKeys returns an object's keys in lexicographic order. Adapters
// iterate objects in sorted order for deterministic output.
func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
