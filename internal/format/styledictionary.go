package format

import (
	"fmt"
	"strings"

	"github.com/tokenport/tokenport/internal/tokens"
)

// categoryPrefixes are the conventional Style Dictionary top-level
// categories; their presence is a dialect signal and drives type inference
// for untyped leaves.
var categoryPrefixes = map[string]string{
	"color":      "color",
	"size":       "dimension",
	"spacing":    "dimension",
	"space":      "dimension",
	"font":       "fontFamily",
	"fontsize":   "dimension",
	"border":     "dimension",
	"radius":     "dimension",
	"shadow":     "shadow",
	"time":       "duration",
	"duration":   "duration",
	"opacity":    "number",
	"z":          "number",
	"breakpoint": "dimension",
}

// StyleDictionaryAdapter handles Style Dictionary source files: nested
// category trees (or flat dot-path keys) whose leaves carry a plain value
// property and usually no explicit type.
type StyleDictionaryAdapter struct{}

// NewStyleDictionaryAdapter creates the Style Dictionary adapter.
func NewStyleDictionaryAdapter() *StyleDictionaryAdapter {
	return &StyleDictionaryAdapter{}
}

func (a *StyleDictionaryAdapter) Name() string { return FormatStyleDictionary }

func (a *StyleDictionaryAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatStyleDictionary}

	obj := asObject(data)
	if obj == nil {
		return result
	}

	stats := collectLeafStats(obj)
	result.Structure.TokenCount = stats.tokenCount()
	result.Structure.ReferenceCount = stats.references
	result.Structure.PropertyStyle = stats.propertyStyle()
	result.Structure.ReferenceStyle = "curly"

	if stats.plainLeaves == 0 {
		return result
	}

	// Plain value leaves without the dollar convention
	confidence := 0.25 + 0.3*float64(stats.plainLeaves)/float64(stats.tokenCount())

	// Category-named top-level keys
	categories := 0
	dotPathKeys := 0
	for key := range obj {
		if _, ok := categoryPrefixes[strings.ToLower(key)]; ok {
			categories++
		}
		if strings.Contains(key, ".") {
			dotPathKeys++
		}
	}
	if categories > 0 {
		confidence += 0.2
		result.Structure.HasCollections = true
	}
	if dotPathKeys > 0 {
		// Flat variant: "color.base.gray" style keys
		confidence += 0.1
	}
	if stats.references > 0 {
		confidence += 0.05
	}

	if confidence > 0.9 {
		confidence = 0.9
	}
	result.Confidence = confidence
	return result
}

// sdFrame is one unit of category-tree traversal work.
type sdFrame struct {
	obj   map[string]interface{}
	path  []string
	depth int
}

func (a *StyleDictionaryAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("Style Dictionary format requires a top-level object of categories")
	}

	result := NormalizationResult{Success: true}

	for _, category := range sortedKeys(obj) {
		body := asObject(obj[category])
		if body == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("category %q is not an object, skipped", category))
			continue
		}

		// Flat dot-path keys become their own path segments
		colName := category
		rootPath := []string{category}
		if strings.Contains(category, ".") {
			segments := strings.Split(category, ".")
			colName = segments[0]
			rootPath = segments
		}

		col := a.findCollection(&result, colName)
		a.collectTokens(body, rootPath, col, &result)
		if len(col.Tokens) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("category %q contains no tokens", category))
		}
	}

	// Drop collections that ended up empty
	kept := result.Collections[:0]
	for _, col := range result.Collections {
		if len(col.Tokens) > 0 {
			kept = append(kept, col)
		}
	}
	result.Collections = kept

	if len(result.Collections) == 0 {
		return failure("no tokens found in Style Dictionary document")
	}
	return result
}

// findCollection returns the named collection, creating it on first use.
// The flat dot-path variant can contribute to one collection from several
// top-level keys.
func (a *StyleDictionaryAdapter) findCollection(result *NormalizationResult, name string) *tokens.Collection {
	for _, col := range result.Collections {
		if col.Name == name {
			return col
		}
	}
	col := &tokens.Collection{
		Name:   name,
		Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
		Tokens: map[string]*tokens.Token{},
	}
	result.Collections = append(result.Collections, col)
	return col
}

func (a *StyleDictionaryAdapter) collectTokens(body map[string]interface{}, rootPath []string, col *tokens.Collection, result *NormalizationResult) {
	stack := []sdFrame{{obj: body, path: rootPath, depth: 0}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.depth >= MaxTraversalDepth {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("category %q exceeds maximum nesting depth, deeper tokens skipped", strings.Join(frame.path, ".")))
			continue
		}

		// A node carrying value directly is itself a token
		if rawValue, ok := frame.obj["value"]; ok {
			a.addToken(frame.path, rawValue, frame.obj, col, result)
			continue
		}

		for _, key := range sortedKeys(frame.obj) {
			child := asObject(frame.obj[key])
			if child == nil {
				continue
			}
			childPath := append(append([]string{}, frame.path...), key)
			if rawValue, ok := child["value"]; ok {
				a.addToken(childPath, rawValue, child, col, result)
				continue
			}
			stack = append(stack, sdFrame{obj: child, path: childPath, depth: frame.depth + 1})
		}
	}
}

func (a *StyleDictionaryAdapter) addToken(pathSegments []string, rawValue interface{}, node map[string]interface{}, col *tokens.Collection, result *NormalizationResult) {
	path := strings.Join(pathSegments, ".")
	tok := &tokens.Token{Value: cloneValue(rawValue)}

	result.Transformations = append(result.Transformations, tokens.Transformation{
		Type:        "property-rename",
		Description: fmt.Sprintf("renamed value to $value for token %q", path),
		Before:      "value",
		After:       "$value",
	})

	// Style Dictionary rarely types leaves explicitly; fall back to the
	// category convention, then to value-shape inference.
	if t, ok := node["type"].(string); ok {
		tok.Type = t
	} else if attrs := asObject(node["attributes"]); attrs != nil {
		if cat, ok := attrs["category"].(string); ok {
			if mapped, ok := categoryPrefixes[strings.ToLower(cat)]; ok {
				tok.Type = mapped
			}
		}
	}
	if tok.Type == "" {
		if mapped, ok := categoryPrefixes[strings.ToLower(pathSegments[0])]; ok {
			tok.Type = mapped
		} else {
			tok.Type = InferType(tok.Value)
		}
		result.Transformations = append(result.Transformations, tokens.Transformation{
			Type:        "type-inference",
			Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
			After:       tok.Type,
		})
	}

	if desc, ok := node["comment"].(string); ok {
		tok.Description = desc
	}
	col.Tokens[path] = tok
}

func (a *StyleDictionaryAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.5
}
