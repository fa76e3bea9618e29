package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenport/tokenport/internal/importer"
	"github.com/tokenport/tokenport/internal/store"
	"github.com/tokenport/tokenport/internal/tokens"
)

// recordingStore wraps MemoryStore to capture variable creation order.
type recordingStore struct {
	*store.MemoryStore
	created []string
}

func (s *recordingStore) CreateVariable(ctx context.Context, name, collectionID string, variableType store.VariableType) (*store.Variable, error) {
	v, err := s.MemoryStore.CreateVariable(ctx, name, collectionID, variableType)
	if err == nil {
		s.created = append(s.created, name)
	}
	return v, err
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: store.NewMemoryStore()}
}

func singleMode(name string, toks map[string]*tokens.Token) *tokens.Collection {
	return &tokens.Collection{
		Name:   name,
		Modes:  []tokens.Mode{{ID: "default", Name: "Default"}},
		Tokens: toks,
	}
}

// TestImportSimpleBatch tests the happy path end to end: collections,
// modes, variables, values, and alias resolution
func TestImportSimpleBatch(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"color.base": {Type: "color", Value: "#111827"},
	})
	semantic := singleMode("Semantic", map[string]*tokens.Token{
		"surface": {Type: "color", Value: "{color.base}"},
	})

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{semantic, core}, importer.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.CollectionsProcessed)
	assert.Equal(t, 2, result.VariablesCreated)
	assert.Equal(t, 1, result.ReferencesResolved)
	assert.Empty(t, result.UnresolvedReferences)

	base := vs.FindVariable("Core", "Core/color/base")
	require.NotNil(t, base)
	assert.Equal(t, store.TypeColor, base.Type)

	surface := vs.FindVariable("Semantic", "Semantic/surface")
	require.NotNil(t, surface)
	require.Len(t, surface.AliasesByMode, 1)
	for _, target := range surface.AliasesByMode {
		assert.Equal(t, base.ID, target, "alias must point at the referenced variable")
	}

	rgba, ok := base.ValuesByMode[mustModeID(t, vs, "Core")].(store.RGBA)
	require.True(t, ok)
	assert.InDelta(t, 0x18/255.0, rgba.G, 0.01)
}

func mustModeID(t *testing.T, vs *store.MemoryStore, collectionName string) string {
	t.Helper()
	cols, err := vs.ListCollections(context.Background())
	require.NoError(t, err)
	for _, col := range cols {
		if col.Name == collectionName {
			require.NotEmpty(t, col.Modes)
			return col.Modes[0].ID
		}
	}
	t.Fatalf("collection %q not found", collectionName)
	return ""
}

// TestImportDependencyOrder tests that a chain a->b->c creates c first
func TestImportDependencyOrder(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"a": {Type: "color", Value: "{b}"},
		"b": {Type: "color", Value: "{c}"},
		"c": {Type: "color", Value: "#000000"},
	})

	vs := newRecordingStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{core}, importer.Options{})
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, []string{"Core/c", "Core/b", "Core/a"}, vs.created)
	assert.Equal(t, 2, result.ReferencesResolved)
}

// TestImportDuplicatePathFirstDefinitionWins tests that references to a
// path defined in several collections resolve to its first definition in
// batch order, even when dependency ordering processes a later definition
// first
func TestImportDuplicatePathFirstDefinitionWins(t *testing.T) {
	// Alpha references Beta's "helper", so Beta is created before Alpha
	// despite appearing second in the batch
	alpha := singleMode("Alpha", map[string]*tokens.Token{
		"dup":  {Type: "color", Value: "#aaaaaa"},
		"link": {Type: "color", Value: "{helper}"},
		"use":  {Type: "color", Value: "{dup}"},
	})
	beta := singleMode("Beta", map[string]*tokens.Token{
		"dup":    {Type: "color", Value: "#bbbbbb"},
		"helper": {Type: "color", Value: "#000000"},
	})

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{alpha, beta}, importer.Options{})
	require.NoError(t, err)
	require.True(t, result.Success)

	alphaDup := vs.FindVariable("Alpha", "Alpha/dup")
	betaDup := vs.FindVariable("Beta", "Beta/dup")
	use := vs.FindVariable("Alpha", "Alpha/use")
	require.NotNil(t, alphaDup)
	require.NotNil(t, betaDup)
	require.NotNil(t, use)

	require.Len(t, use.AliasesByMode, 1)
	for _, target := range use.AliasesByMode {
		assert.Equal(t, alphaDup.ID, target,
			"duplicate paths resolve to the first batch definition, as the validation warning states")
		assert.NotEqual(t, betaDup.ID, target)
	}
}

// TestImportMissingReferenceFailsClosed tests that nothing is created when
// the batch has a dangling reference
func TestImportMissingReferenceFailsClosed(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"a": {Type: "color", Value: "{ghost}"},
	})

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{core}, importer.Options{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, 0, result.VariablesCreated)
	assert.Equal(t, 0, vs.VariableCount(), "fail closed: no partial entities")
}

// TestImportCycleTolerance tests that circular references report errors
// but the import still completes, with both aliases wired
func TestImportCycleTolerance(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"a": {Type: "color", Value: "{b}"},
		"b": {Type: "color", Value: "{a}"},
	})

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{core}, importer.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success, "partial success: entities were created")
	assert.NotEmpty(t, result.Errors, "the cycle is still reported")
	assert.Equal(t, 2, result.VariablesCreated)
	assert.Equal(t, 2, result.ReferencesResolved)
	assert.Equal(t, 2, vs.VariableCount())
}

// TestImportMultiModeValues tests per-mode direct values and the default
// value covering undeclared-value modes
func TestImportMultiModeValues(t *testing.T) {
	theme := &tokens.Collection{
		Name: "Theme",
		Modes: []tokens.Mode{
			{ID: "m1", Name: "Light"},
			{ID: "m2", Name: "Dark"},
		},
		Tokens: map[string]*tokens.Token{
			"surface": {
				Type:  "color",
				Value: "#ffffff",
				ValuesByMode: map[string]interface{}{
					"Dark": "#111827",
				},
			},
		},
	}

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{theme}, importer.Options{})
	require.NoError(t, err)
	require.True(t, result.Success)

	surface := vs.FindVariable("Theme", "Theme/surface")
	require.NotNil(t, surface)
	assert.Len(t, surface.ValuesByMode, 2, "default value fills the mode without an explicit value")
}

// TestImportUndeclaredModeSkipped tests that a value for an undeclared
// mode is skipped with a warning rather than failing the token
func TestImportUndeclaredModeSkipped(t *testing.T) {
	theme := &tokens.Collection{
		Name:  "Theme",
		Modes: []tokens.Mode{{ID: "m1", Name: "Light"}},
		Tokens: map[string]*tokens.Token{
			"surface": {
				Type:         "color",
				Value:        "#ffffff",
				ValuesByMode: map[string]interface{}{"Sepia": "#f5e9da"},
			},
		},
	}

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{theme}, importer.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.VariablesCreated)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Sepia") && strings.Contains(w, "not declared") {
			found = true
		}
	}
	assert.True(t, found, "expected an undeclared-mode warning")
}

// TestImportCancelledContext tests cooperative cancellation: a cancelled
// context stops work and surfaces the context error
func TestImportCancelledContext(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"a": {Type: "color", Value: "#000000"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(ctx, vs, []*tokens.Collection{core}, importer.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.VariablesCreated)
}

// TestImportInvalidValueSkipsToken tests per-token error isolation: a bad
// value fails its token but not the batch
func TestImportInvalidValueSkipsToken(t *testing.T) {
	core := singleMode("Core", map[string]*tokens.Token{
		"bad.color":  {Type: "color", Value: "definitely not a color"},
		"good.color": {Type: "color", Value: "#3b82f6"},
	})

	vs := store.NewMemoryStore()
	result, err := importer.ImportCollections(context.Background(), vs, []*tokens.Collection{core}, importer.Options{})
	require.NoError(t, err)

	assert.True(t, result.Success, "one good variable is enough for partial success")
	assert.NotEmpty(t, result.Errors)
	assert.NotNil(t, vs.FindVariable("Core", "Core/good/color"))
}
