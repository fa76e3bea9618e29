package format

import (
	"fmt"
	"strings"

	"github.com/tokenport/tokenport/internal/tokens"
)

// TokensStudioAdapter handles Tokens Studio (Figma Tokens) exports: a root
// object of token sets with plain type/value leaves, plus $themes and
// $metadata bookkeeping keys.
type TokensStudioAdapter struct{}

// NewTokensStudioAdapter creates the Tokens Studio adapter.
func NewTokensStudioAdapter() *TokensStudioAdapter {
	return &TokensStudioAdapter{}
}

func (a *TokensStudioAdapter) Name() string { return FormatTokensStudio }

func (a *TokensStudioAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatTokensStudio}

	obj := asObject(data)
	if obj == nil {
		return result
	}

	stats := collectLeafStats(obj)
	result.Structure.TokenCount = stats.tokenCount()
	result.Structure.ReferenceCount = stats.references
	result.Structure.PropertyStyle = stats.propertyStyle()
	result.Structure.ReferenceStyle = "curly"

	confidence := 0.0

	// Bookkeeping keys are a strong dialect marker
	_, hasThemes := obj["$themes"]
	_, hasMetadata := obj["$metadata"]
	if hasThemes || hasMetadata {
		confidence += 0.4
		result.Structure.HasCollections = true
	}

	if stats.tokenCount() > 0 {
		// Plain value/type leaves dominate in this dialect
		confidence += 0.35 * float64(stats.plainLeaves) / float64(stats.tokenCount())
	}
	if stats.references > 0 {
		confidence += 0.1
	}

	// Token sets: top-level objects that are not bookkeeping keys
	for key, v := range obj {
		if !strings.HasPrefix(key, "$") && asObject(v) != nil {
			confidence += 0.1
			break
		}
	}

	if confidence > 0.9 {
		confidence = 0.9
	}
	result.Confidence = confidence
	return result
}

// studioFrame is one unit of set-tree traversal work.
type studioFrame struct {
	obj   map[string]interface{}
	path  []string
	depth int
}

func (a *TokensStudioAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("Tokens Studio format requires a top-level object of token sets")
	}

	result := NormalizationResult{Success: true}

	for _, setName := range sortedKeys(obj) {
		if strings.HasPrefix(setName, "$") {
			// $themes / $metadata bookkeeping
			continue
		}
		set := asObject(obj[setName])
		if set == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("token set %q is not an object, skipped", setName))
			continue
		}

		col := &tokens.Collection{
			Name:   setName,
			Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
			Tokens: map[string]*tokens.Token{},
		}
		a.collectTokens(set, col, &result)

		if len(col.Tokens) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("token set %q contains no tokens", setName))
			continue
		}
		result.Collections = append(result.Collections, col)
	}

	if len(result.Collections) == 0 {
		return failure("no token sets found in Tokens Studio document")
	}
	return result
}

// collectTokens walks one token set, renaming plain value/type properties
// to the canonical $value/$type shape and logging each rename.
func (a *TokensStudioAdapter) collectTokens(set map[string]interface{}, col *tokens.Collection, result *NormalizationResult) {
	stack := []studioFrame{{obj: set, depth: 0}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.depth >= MaxTraversalDepth {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("set %q exceeds maximum nesting depth, deeper tokens skipped", strings.Join(frame.path, ".")))
			continue
		}

		for _, key := range sortedKeys(frame.obj) {
			child := asObject(frame.obj[key])
			if child == nil {
				continue
			}
			childPath := append(append([]string{}, frame.path...), key)

			rawValue, hasValue := child["value"]
			if !hasValue {
				rawValue, hasValue = child["$value"]
			}
			if hasValue {
				path := strings.Join(childPath, ".")
				tok := &tokens.Token{Value: cloneValue(rawValue)}

				if _, plain := child["value"]; plain {
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "property-rename",
						Description: fmt.Sprintf("renamed value to $value for token %q", path),
						Before:      "value",
						After:       "$value",
					})
				}

				if t, ok := child["type"].(string); ok {
					tok.Type = t
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "property-rename",
						Description: fmt.Sprintf("renamed type to $type for token %q", path),
						Before:      "type",
						After:       "$type",
					})
				} else if t, ok := child["$type"].(string); ok {
					tok.Type = t
				} else {
					tok.Type = InferType(tok.Value)
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "type-inference",
						Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
						After:       tok.Type,
					})
				}

				if desc, ok := child["description"].(string); ok {
					tok.Description = desc
				} else if desc, ok := child["$description"].(string); ok {
					tok.Description = desc
				}
				col.Tokens[path] = tok
				continue
			}

			stack = append(stack, studioFrame{obj: child, path: childPath, depth: frame.depth + 1})
		}
	}
}

func (a *TokensStudioAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.5
}
