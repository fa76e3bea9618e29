package format

import (
	"fmt"
	"strings"

	"github.com/tokenport/tokenport/internal/tokens"
)

// CSSVarsAdapter handles JSON documents keyed by CSS custom-property
// names: {"--color-primary": "#fff", ...}, optionally grouped under
// selector keys like ":root".
type CSSVarsAdapter struct{}

// NewCSSVarsAdapter creates the CSS custom-properties adapter.
func NewCSSVarsAdapter() *CSSVarsAdapter {
	return &CSSVarsAdapter{}
}

func (a *CSSVarsAdapter) Name() string { return FormatCSSVars }

func (a *CSSVarsAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatCSSVars}

	obj := asObject(data)
	if obj == nil {
		return result
	}

	flat := a.flatten(obj)
	if len(flat) == 0 {
		return result
	}

	dashed := 0
	varRefs := 0
	for key, value := range flat {
		if strings.HasPrefix(key, "--") {
			dashed++
		}
		if s, ok := value.(string); ok && strings.Contains(s, "var(") {
			varRefs++
		}
	}

	result.Structure.TokenCount = len(flat)
	result.Structure.ReferenceCount = varRefs
	result.Structure.ReferenceStyle = "css-var"

	confidence := 0.8 * float64(dashed) / float64(len(flat))
	if varRefs > 0 {
		confidence += 0.1
	}
	if confidence > 0.9 {
		confidence = 0.9
	}
	result.Confidence = confidence
	return result
}

// flatten merges selector-grouped declarations (":root": {...}) with
// root-level declarations into one property map.
func (a *CSSVarsAdapter) flatten(obj map[string]interface{}) map[string]interface{} {
	flat := map[string]interface{}{}
	for key, value := range obj {
		if child := asObject(value); child != nil && !strings.HasPrefix(key, "--") {
			// Selector group (":root", ".dark", "html", ...)
			for prop, v := range child {
				flat[prop] = v
			}
			continue
		}
		flat[key] = value
	}
	return flat
}

func (a *CSSVarsAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("CSS variables format requires a top-level object")
	}
	flat := a.flatten(obj)

	result := NormalizationResult{Success: true}
	col := &tokens.Collection{
		Name:   "CSS Variables",
		Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
		Tokens: map[string]*tokens.Token{},
	}

	for _, key := range sortedKeys(flat) {
		if !strings.HasPrefix(key, "--") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("key %q is not a custom property, skipped", key))
			continue
		}
		value := flat[key]
		path := tokens.NormalizePath(key)
		result.Transformations = append(result.Transformations, tokens.Transformation{
			Type:        "name-normalization",
			Description: fmt.Sprintf("normalized custom property %q to token path %q", key, path),
			Before:      key,
			After:       path,
		})

		tok := &tokens.Token{Value: cloneValue(value)}
		tok.Type = InferType(tok.Value)
		result.Transformations = append(result.Transformations, tokens.Transformation{
			Type:        "type-inference",
			Description: fmt.Sprintf("inferred type %q for token %q", tok.Type, path),
			After:       tok.Type,
		})
		col.Tokens[path] = tok
	}

	if len(col.Tokens) == 0 {
		return failure("no custom properties found in document")
	}
	result.Collections = []*tokens.Collection{col}
	return result
}

func (a *CSSVarsAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.5
}
