package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenport/tokenport/internal/format"
)

// TestTokensStudioDetectMarkers tests that $themes/$metadata bookkeeping
// keys are what separates Tokens Studio from Style Dictionary
func TestTokensStudioDetectMarkers(t *testing.T) {
	withMarkers := mustParse(t, `{
		"$themes": [],
		"$metadata": {"tokenSetOrder": ["global"]},
		"global": {
			"color": {"primary": {"value": "#3b82f6", "type": "color"}}
		}
	}`)
	withoutMarkers := mustParse(t, `{
		"global": {
			"color": {"primary": {"value": "#3b82f6", "type": "color"}}
		}
	}`)

	adapter := format.NewTokensStudioAdapter()
	marked := adapter.Detect(withMarkers).Confidence
	unmarked := adapter.Detect(withoutMarkers).Confidence

	assert.Greater(t, marked, 0.7)
	assert.Greater(t, marked, unmarked)
}

// TestTokensStudioNormalize tests property renames and set traversal
func TestTokensStudioNormalize(t *testing.T) {
	data := mustParse(t, `{
		"$themes": [],
		"global": {
			"color": {
				"primary": {"value": "#3b82f6", "type": "color"},
				"accent": {"value": "{color.primary}", "type": "color", "description": "alias"}
			}
		}
	}`)

	result := format.NewTokensStudioAdapter().Normalize(data)
	require.True(t, result.Success)
	require.Len(t, result.Collections, 1)

	col := result.Collections[0]
	assert.Equal(t, "global", col.Name)

	primary := col.Tokens["color.primary"]
	require.NotNil(t, primary)
	assert.Equal(t, "color", primary.Type)
	assert.Equal(t, "#3b82f6", primary.Value)

	accent := col.Tokens["color.accent"]
	require.NotNil(t, accent)
	assert.Equal(t, "alias", accent.Description)

	renames := 0
	for _, tr := range result.Transformations {
		if tr.Type == "property-rename" {
			renames++
		}
	}
	assert.Equal(t, 4, renames, "value and type renamed for both tokens")
}

// TestStyleDictionaryDetect tests category-driven detection
func TestStyleDictionaryDetect(t *testing.T) {
	data := mustParse(t, `{
		"color": {
			"base": {
				"gray": {"value": "#cccccc"},
				"red": {"value": "#ff0000", "comment": "danger"}
			}
		},
		"size": {
			"font": {"small": {"value": "12px"}}
		}
	}`)

	result := format.NewStyleDictionaryAdapter().Detect(data)
	assert.Greater(t, result.Confidence, 0.5)
	assert.True(t, result.Structure.HasCollections)
}

// TestStyleDictionaryNormalize tests category collections and the type
// convention for untyped leaves
func TestStyleDictionaryNormalize(t *testing.T) {
	data := mustParse(t, `{
		"color": {
			"base": {"gray": {"value": "#cccccc", "comment": "neutral"}}
		},
		"size": {
			"font": {"small": {"value": "12px"}}
		}
	}`)

	result := format.NewStyleDictionaryAdapter().Normalize(data)
	require.True(t, result.Success)
	require.Len(t, result.Collections, 2)

	byName := map[string]int{}
	for i, col := range result.Collections {
		byName[col.Name] = i
	}
	require.Contains(t, byName, "color")
	require.Contains(t, byName, "size")

	gray := result.Collections[byName["color"]].Tokens["color.base.gray"]
	require.NotNil(t, gray)
	assert.Equal(t, "color", gray.Type, "category convention types the leaf")
	assert.Equal(t, "neutral", gray.Description)

	small := result.Collections[byName["size"]].Tokens["size.font.small"]
	require.NotNil(t, small)
	assert.Equal(t, "dimension", small.Type)
}

// TestStyleDictionaryFlatKeys tests the flat dot-path key variant
func TestStyleDictionaryFlatKeys(t *testing.T) {
	data := mustParse(t, `{
		"color.base.gray": {"value": "#cccccc"},
		"color.base.red": {"value": "#ff0000"}
	}`)

	result := format.NewStyleDictionaryAdapter().Normalize(data)
	require.True(t, result.Success)
	require.Len(t, result.Collections, 1, "dot-path keys with a shared head merge into one collection")
	assert.Equal(t, "color", result.Collections[0].Name)
	assert.NotNil(t, result.Collections[0].Tokens["color.base.gray"])
	assert.NotNil(t, result.Collections[0].Tokens["color.base.red"])
}

// TestMaterialDetect tests scheme-driven detection
func TestMaterialDetect(t *testing.T) {
	data := mustParse(t, `{
		"seed": "#6750a4",
		"schemes": {
			"light": {"primary": "#6750a4", "onPrimary": "#ffffff"},
			"dark": {"primary": "#d0bcff", "onPrimary": "#381e72"}
		},
		"palettes": {
			"primary": {"0": "#000000", "40": "#6750a4"}
		}
	}`)

	result := format.NewMaterialAdapter().Detect(data)
	assert.Greater(t, result.Confidence, 0.7)
	assert.True(t, result.Structure.HasModes)
}

// TestMaterialNormalize tests the scheme-to-mode mapping and camelCase
// role renaming
func TestMaterialNormalize(t *testing.T) {
	data := mustParse(t, `{
		"seed": "#6750a4",
		"schemes": {
			"light": {"primary": "#6750a4", "onPrimary": "#ffffff"},
			"dark": {"primary": "#d0bcff", "onPrimary": "#381e72"}
		},
		"palettes": {
			"primary": {"40": "#6750a4"}
		},
		"coreColors": {"primary": "#6750a4"}
	}`)

	result := format.NewMaterialAdapter().Normalize(data)
	require.True(t, result.Success)
	require.Len(t, result.Collections, 1)

	col := result.Collections[0]
	assert.Equal(t, "Material", col.Name)
	require.Len(t, col.Modes, 2)
	assert.Equal(t, "dark", col.Modes[0].Name, "modes are sorted for determinism")
	assert.Equal(t, "light", col.Modes[1].Name)

	onPrimary := col.Tokens["scheme.on.primary"]
	require.NotNil(t, onPrimary, "camelCase role should normalize to dotted path")
	assert.Equal(t, "color", onPrimary.Type)
	assert.Equal(t, "#ffffff", onPrimary.ValuesByMode["light"])
	assert.Equal(t, "#381e72", onPrimary.ValuesByMode["dark"])

	assert.NotNil(t, col.Tokens["palette.primary.40"])
	assert.NotNil(t, col.Tokens["core.primary"])
	assert.NotNil(t, col.Tokens["seed"])
}

// TestCSSVarsAdapter tests selector flattening and name normalization
func TestCSSVarsAdapter(t *testing.T) {
	data := mustParse(t, `{
		":root": {
			"--color-primary": "#3b82f6",
			"--spacing-small": "8px"
		},
		"--standalone": "var(--color-primary)"
	}`)

	adapter := format.NewCSSVarsAdapter()
	detection := adapter.Detect(data)
	assert.Greater(t, detection.Confidence, 0.5)

	result := adapter.Normalize(data)
	require.True(t, result.Success)
	require.Len(t, result.Collections, 1)

	col := result.Collections[0]
	assert.Equal(t, "CSS Variables", col.Name)
	assert.NotNil(t, col.Tokens["color-primary"])
	assert.Equal(t, "color", col.Tokens["color-primary"].Type)
	assert.Equal(t, "dimension", col.Tokens["spacing-small"].Type)
	assert.NotNil(t, col.Tokens["standalone"])
}

// TestFlatAdapter tests the generic fallback on unrecognizable but
// plausible token documents
func TestFlatAdapter(t *testing.T) {
	data := mustParse(t, `{
		"colors_brand": "#3b82f6",
		"size_large": "24px",
		"title": "@colors.brand"
	}`)

	adapter := format.NewFlatAdapter()
	detection := adapter.Detect(data)
	assert.Greater(t, detection.Confidence, 0.4)
	assert.LessOrEqual(t, detection.Confidence, 0.6, "fallback never outranks a dialect adapter")

	result := adapter.Normalize(data)
	require.True(t, result.Success)

	col := result.Collections[0]
	assert.Equal(t, "Tokens", col.Name)
	assert.NotNil(t, col.Tokens["colors.brand"], "underscore keys normalize to dotted paths")
	assert.Equal(t, "dimension", col.Tokens["size.large"].Type)
}
