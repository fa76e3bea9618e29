package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenport/tokenport/internal/tokens"
)

// TestRegistryFirstRegistrationWins tests duplicate path handling
func TestRegistryFirstRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("color.base", "variable:1")
	r.Register("color.base", "variable:2")

	id, ok := r.Lookup("color.base")
	require.True(t, ok)
	assert.Equal(t, "variable:1", id)
	assert.Equal(t, 1, r.Size())
}

// TestRegistryClear tests that cleared state cannot leak across imports
func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "variable:1")
	r.Enqueue(pendingReference{VariableID: "variable:1"})

	r.Clear()
	_, ok := r.Lookup("a")
	assert.False(t, ok)
	assert.Empty(t, r.Pending())
	assert.Equal(t, 0, r.Size())
}

// TestInferCollection tests the three-stage collection guess for bare
// reference paths
func TestInferCollection(t *testing.T) {
	core := &tokens.Collection{
		Name:   "Core",
		Tokens: map[string]*tokens.Token{"color.base": {Type: "color", Value: "#111827"}},
	}
	spacing := &tokens.Collection{
		Name:   "Spacing",
		Tokens: map[string]*tokens.Token{"spacing.unit": {Type: "dimension", Value: "4px"}},
	}
	cols := []*tokens.Collection{core, spacing}

	t.Run("collection name prefix", func(t *testing.T) {
		got := inferCollection("spacing.unit", cols)
		assert.Equal(t, "Spacing", got.Name)
	})

	t.Run("defining collection", func(t *testing.T) {
		got := inferCollection("color.base", cols)
		assert.Equal(t, "Core", got.Name)
	})

	t.Run("default bucket", func(t *testing.T) {
		got := inferCollection("unknown.path", cols)
		assert.Equal(t, "Core", got.Name, "first collection in discovery order")
	})

	t.Run("no collections", func(t *testing.T) {
		assert.Nil(t, inferCollection("x", nil))
	})
}

// TestTokenOrder tests that same-collection dependencies are created first
func TestTokenOrder(t *testing.T) {
	col := &tokens.Collection{
		Name: "Core",
		Tokens: map[string]*tokens.Token{
			"a": {Type: "color", Value: "{b}"},
			"b": {Type: "color", Value: "{c}"},
			"c": {Type: "color", Value: "#000000"},
		},
	}

	order, warnings := tokenOrder(col)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

// TestTokenOrderCycleFallsBack tests graceful degradation on cycles
func TestTokenOrderCycleFallsBack(t *testing.T) {
	col := &tokens.Collection{
		Name: "Core",
		Tokens: map[string]*tokens.Token{
			"a": {Type: "color", Value: "{b}"},
			"b": {Type: "color", Value: "{a}"},
		},
	}

	order, warnings := tokenOrder(col)
	assert.Len(t, order, 2, "every token still gets a slot")
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "cycle")
}

// TestTokenOrderIgnoresSelfReference tests that a self-loop does not warn
func TestTokenOrderIgnoresSelfReference(t *testing.T) {
	col := &tokens.Collection{
		Name: "Core",
		Tokens: map[string]*tokens.Token{
			"a": {Type: "color", Value: "{a}"},
		},
	}

	order, warnings := tokenOrder(col)
	assert.Equal(t, []string{"a"}, order)
	assert.Empty(t, warnings)
}

// TestCollectionOrder tests cross-collection dependency ordering
func TestCollectionOrder(t *testing.T) {
	core := &tokens.Collection{
		Name:   "Core",
		Tokens: map[string]*tokens.Token{"color.base": {Type: "color", Value: "#111827"}},
	}
	semantic := &tokens.Collection{
		Name:   "Semantic",
		Tokens: map[string]*tokens.Token{"surface": {Type: "color", Value: "{color.base}"}},
	}

	ordered, warnings := collectionOrder([]*tokens.Collection{semantic, core})
	assert.Empty(t, warnings)
	require.Len(t, ordered, 2)
	assert.Equal(t, "Core", ordered[0].Name, "referenced collection processes first")
	assert.Equal(t, "Semantic", ordered[1].Name)
}

// TestTokenReferencesCollectsModeValues tests reference extraction across
// primary and per-mode values
func TestTokenReferencesCollectsModeValues(t *testing.T) {
	tok := &tokens.Token{
		Type:  "color",
		Value: "{a}",
		ValuesByMode: map[string]interface{}{
			"Light": "#ffffff",
			"Dark":  "{b}",
		},
	}

	assert.Equal(t, []string{"a", "b"}, tokenReferences(tok))
}
