package format

import (
	"fmt"

	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/tokens"
)

// MaterialAdapter handles Material Theme Builder exports: a fixed document
// of schemes (light/dark/... color maps), palettes, and seed colors. The
// scheme axis maps directly onto collection modes, which makes this the
// dialect that exercises multi-mode tokens hardest.
type MaterialAdapter struct{}

// NewMaterialAdapter creates the Material Design adapter.
func NewMaterialAdapter() *MaterialAdapter {
	return &MaterialAdapter{}
}

func (a *MaterialAdapter) Name() string { return FormatMaterial }

func (a *MaterialAdapter) Detect(data interface{}) DetectionResult {
	result := DetectionResult{Format: FormatMaterial}

	obj := asObject(data)
	if obj == nil {
		return result
	}

	confidence := 0.0

	schemes := asObject(obj["schemes"])
	if schemes != nil && len(schemes) > 0 {
		confidence += 0.4
		result.Structure.HasModes = true
		result.Structure.HasCollections = true

		// Scheme entries should be flat maps of color strings
		colorish := 0
		total := 0
		for _, rawScheme := range schemes {
			scheme := asObject(rawScheme)
			if scheme == nil {
				continue
			}
			for _, v := range scheme {
				total++
				if s, ok := v.(string); ok && IsColorString(s) {
					colorish++
				}
			}
		}
		result.Structure.TokenCount = total
		if total > 0 {
			confidence += 0.2 * float64(colorish) / float64(total)
		}
	}

	if palettes := asObject(obj["palettes"]); palettes != nil && len(palettes) > 0 {
		confidence += 0.2
	}
	if _, ok := obj["seed"].(string); ok {
		confidence += 0.1
	}
	if asObject(obj["coreColors"]) != nil {
		confidence += 0.1
	}

	if confidence > 0.9 {
		confidence = 0.9
	}
	result.Confidence = confidence
	return result
}

func (a *MaterialAdapter) Normalize(data interface{}) NormalizationResult {
	obj := asObject(data)
	if obj == nil {
		return failure("Material format requires a top-level object")
	}
	schemes := asObject(obj["schemes"])
	if schemes == nil || len(schemes) == 0 {
		return failure("Material format requires a schemes object")
	}

	result := NormalizationResult{Success: true}
	col := &tokens.Collection{
		Name:   "Material",
		Tokens: map[string]*tokens.Token{},
	}

	// Scheme names become modes, in sorted order for determinism
	schemeNames := sortedKeys(schemes)
	for _, name := range schemeNames {
		col.Modes = append(col.Modes, tokens.Mode{ID: name, Name: name})
	}

	// Scheme roles become multi-mode color tokens
	for _, schemeName := range schemeNames {
		scheme := asObject(schemes[schemeName])
		if scheme == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("scheme %q is not an object, skipped", schemeName))
			continue
		}
		for _, role := range sortedKeys(scheme) {
			value, ok := scheme[role].(string)
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("scheme %q role %q has a non-string value, skipped", schemeName, role))
				continue
			}
			path := "scheme." + a.rolePath(role, &result)
			tok := col.Tokens[path]
			if tok == nil {
				tok = &tokens.Token{
					Type:         "color",
					Value:        value,
					ValuesByMode: map[string]interface{}{},
				}
				col.Tokens[path] = tok
			}
			tok.ValuesByMode[schemeName] = value
		}
	}

	// Palette steps are mode-independent single values
	if palettes := asObject(obj["palettes"]); palettes != nil {
		for _, paletteName := range sortedKeys(palettes) {
			palette := asObject(palettes[paletteName])
			if palette == nil {
				continue
			}
			for _, step := range sortedKeys(palette) {
				value, ok := palette[step].(string)
				if !ok {
					continue
				}
				path := "palette." + a.rolePath(paletteName, &result) + "." + step
				col.Tokens[path] = &tokens.Token{Type: "color", Value: value}
			}
		}
	}

	if coreColors := asObject(obj["coreColors"]); coreColors != nil {
		for _, name := range sortedKeys(coreColors) {
			value, ok := coreColors[name].(string)
			if !ok {
				continue
			}
			path := "core." + a.rolePath(name, &result)
			col.Tokens[path] = &tokens.Token{Type: "color", Value: value}
		}
	}

	if seed, ok := obj["seed"].(string); ok {
		col.Tokens["seed"] = &tokens.Token{Type: "color", Value: seed}
	}

	if len(col.Tokens) == 0 {
		return failure("no color tokens found in Material document")
	}
	result.Collections = []*tokens.Collection{col}
	return result
}

// rolePath converts a Material camelCase role name to the canonical dotted
// convention, logging the rename once per distinct role.
func (a *MaterialAdapter) rolePath(role string, result *NormalizationResult) string {
	normalized := refs.NormalizeIdentifier(role)
	if normalized != role {
		result.Transformations = append(result.Transformations, tokens.Transformation{
			Type:        "name-normalization",
			Description: fmt.Sprintf("normalized role name %q to %q", role, normalized),
			Before:      role,
			After:       normalized,
		})
	}
	return normalized
}

func (a *MaterialAdapter) Validate(data interface{}) bool {
	return a.Detect(data).Confidence > 0.5
}
