package format

import (
	"fmt"

	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

// FlatAdapter is the generic last-resort adapter: any flat key-value JSON
// whose values look like tokens produces something rather than a hard
// failure. It is registered last and scores deliberately low so that any
// dialect-specific adapter outranks it.
type FlatAdapter struct{}

// NewFlatAdapter creates the generic fallback adapter.
func NewFlatAdapter() *FlatAdapter {
	return &FlatAdapter{}
}

func (a *FlatAdapter) Name() string { return FormatFlat }

func (a *FlatAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatFlat}

	obj := asObject(data)
	if obj == nil || len(obj) == 0 {
		return result
	}

	tokenish := 0
	atRefs := 0
	for _, value := range obj {
		if looksLikeTokenValue(value) {
			tokenish++
		}
		if s, ok := value.(string); ok && refs.AtRefRegexp.MatchString(s) {
			atRefs++
		}
	}

	result.Structure.TokenCount = tokenish
	result.Structure.ReferenceCount = atRefs
	if atRefs > 0 {
		result.Structure.ReferenceStyle = "at-prefix"
	}

	confidence := 0.5 * float64(tokenish) / float64(len(obj))
	if atRefs > 0 {
		// Alternate at-prefixed reference convention is a usable signal
		confidence += 0.1
	}
	if confidence > 0.6 {
		confidence = 0.6
	}
	result.Confidence = confidence
	return result
}

func (a *FlatAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("flat format requires a top-level object")
	}

	result := NormalizationResult{Success: true}
	col := &tokens.Collection{
		Name:   "Tokens",
		Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
		Tokens: map[string]*tokens.Token{},
	}

	for _, key := range sortedKeys(obj) {
		value := obj[key]
		if !looksLikeTokenValue(value) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("key %q does not look like a token, skipped", key))
			continue
		}

		path := tokens.NormalizePath(key)
		if path != key {
			result.Transformations = append(result.Transformations, tokens.Transformation{
				Type:        "name-normalization",
				Description: fmt.Sprintf("normalized key %q to token path %q", key, path),
				Before:      key,
				After:       path,
			})
		}

		tok := &tokens.Token{}
		switch v := value.(type) {
		case map[string]interface{}:
			// Object carrying value/$value
			if raw, ok := v["$value"]; ok {
				tok.Value = cloneValue(raw)
			} else {
				tok.Value = cloneValue(v["value"])
			}
			if t, ok := v["$type"].(string); ok {
				tok.Type = t
			} else if t, ok := v["type"].(string); ok {
				tok.Type = t
			}
			if desc, ok := v["description"].(string); ok {
				tok.Description = desc
			}
		default:
			tok.Value = cloneValue(value)
		}

		if tok.Type == "" {
			tok.Type = InferType(tok.Value)
			result.Transformations = append(result.Transformations, tokens.Transformation{
				Type:        "type-inference",
				Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
				After:       tok.Type,
			})
		}
		col.Tokens[path] = tok
	}

	if len(col.Tokens) == 0 {
		return failure("no token-like values found in document")
	}
	result.Collections = []*tokens.Collection{col}
	return result
}

func (a *FlatAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.4
}
