package format

import (
	"fmt"
	"strings"

	"github.com/tokenport/tokenport/internal/tokens"
)

// DTCGAdapter handles W3C Design Tokens Community Group files: nested
// groups of $type/$value tokens, optionally tagged with a $schema URL.
type DTCGAdapter struct{}

// NewDTCGAdapter creates the W3C DTCG adapter.
func NewDTCGAdapter() *DTCGAdapter {
	return &DTCGAdapter{}
}

func (a *DTCGAdapter) Name() string { return FormatDTCG }

func (a *DTCGAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatDTCG}

	obj := asObject(data)
	if obj == nil {
		return result
	}

	stats := collectLeafStats(obj)
	result.Structure.TokenCount = stats.tokenCount()
	result.Structure.ReferenceCount = stats.references
	result.Structure.PropertyStyle = stats.propertyStyle()
	result.Structure.ReferenceStyle = "curly"

	if stats.dollarLeaves == 0 {
		return result
	}

	// Base signal: $value leaves exist at all
	confidence := 0.2

	// Ratio of dollar-style leaves to all token-shaped leaves
	confidence += 0.4 * float64(stats.dollarLeaves) / float64(stats.tokenCount())

	// Nested group structure
	for _, v := range obj {
		if child := asObject(v); child != nil {
			confidence += 0.2
			break
		}
	}

	// Dialect metadata markers
	if _, ok := obj["$schema"].(string); ok {
		confidence += 0.1
	}
	if _, ok := obj["$description"].(string); ok {
		confidence += 0.05
	}
	if stats.references > 0 {
		confidence += 0.05
	}

	if confidence > 0.95 {
		confidence = 0.95
	}
	result.Confidence = confidence
	return result
}

// dtcgFrame is one unit of group-tree traversal work.
type dtcgFrame struct {
	obj           map[string]interface{}
	path          []string
	inheritedType string
	depth         int
}

func (a *DTCGAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("DTCG format requires a top-level object of token groups")
	}

	result := NormalizationResult{Success: true}

	for _, key := range sortedKeys(obj) {
		if strings.HasPrefix(key, "$") {
			// Root metadata ($schema, $description, ...), not a group
			continue
		}
		group := asObject(obj[key])
		if group == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("top-level key %q is not a group or token, skipped", key))
			continue
		}

		col := &tokens.Collection{
			Name:   key,
			Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
			Tokens: map[string]*tokens.Token{},
		}
		a.collectTokens(group, key, col, &result)

		if len(col.Tokens) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("group %q contains no tokens", key))
			continue
		}
		result.Collections = append(result.Collections, col)
	}

	if len(result.Collections) == 0 {
		return failure("no token groups found in DTCG document")
	}
	return result
}

// collectTokens walks one top-level group with an explicit worklist,
// turning every $value-bearing object into a canonical token.
func (a *DTCGAdapter) collectTokens(group map[string]interface{}, rootKey string, col *tokens.Collection, result *NormalizationResult) {
	inherited, _ := group["$type"].(string)
	stack := []dtcgFrame{{obj: group, path: []string{rootKey}, inheritedType: inherited, depth: 0}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.depth >= MaxTraversalDepth {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("group %q exceeds maximum nesting depth, deeper tokens skipped", strings.Join(frame.path, ".")))
			continue
		}

		for _, key := range sortedKeys(frame.obj) {
			if strings.HasPrefix(key, "$") {
				continue
			}
			child := asObject(frame.obj[key])
			if child == nil {
				continue
			}
			childPath := append(append([]string{}, frame.path...), key)

			if rawValue, isToken := child["$value"]; isToken {
				path := strings.Join(childPath, ".")
				tok := &tokens.Token{Value: cloneValue(rawValue)}
				if t, ok := child["$type"].(string); ok {
					tok.Type = t
				} else if frame.inheritedType != "" {
					tok.Type = frame.inheritedType
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "type-inheritance",
						Description: fmt.Sprintf("token %q inherited type %q from its group", path, tok.Type),
						After:       tok.Type,
					})
				} else {
					tok.Type = InferType(tok.Value)
					result.Transformations = append(result.Transformations, tokens.Transformation{
						Type:        "type-inference",
						Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
						After:       tok.Type,
					})
				}
				if desc, ok := child["$description"].(string); ok {
					tok.Description = desc
				}
				col.Tokens[path] = tok
				continue
			}

			// Nested group; it may refine the inherited $type
			childType := frame.inheritedType
			if t, ok := child["$type"].(string); ok {
				childType = t
			}
			stack = append(stack, dtcgFrame{
				obj:           child,
				path:          childPath,
				inheritedType: childType,
				depth:         frame.depth + 1,
			})
		}
	}
}

func (a *DTCGAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.6
}
