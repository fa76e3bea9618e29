package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenport/tokenport/internal/store"
)

// TestMemoryStoreFindOrCreate tests idempotent creation semantics
func TestMemoryStoreFindOrCreate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	col, err := s.CreateCollection(ctx, "Core")
	require.NoError(t, err)
	again, err := s.CreateCollection(ctx, "Core")
	require.NoError(t, err)
	assert.Equal(t, col.ID, again.ID, "same name returns the existing collection")

	mode, err := s.AddMode(ctx, col.ID, "Light")
	require.NoError(t, err)
	sameMode, err := s.AddMode(ctx, col.ID, "Light")
	require.NoError(t, err)
	assert.Equal(t, mode.ID, sameMode.ID)

	v, err := s.CreateVariable(ctx, "Core/color/base", col.ID, store.TypeColor)
	require.NoError(t, err)
	sameV, err := s.CreateVariable(ctx, "Core/color/base", col.ID, store.TypeColor)
	require.NoError(t, err)
	assert.Equal(t, v.ID, sameV.ID)
	assert.Equal(t, 1, s.VariableCount())
}

// TestMemoryStoreValueAliasExclusivity tests that a mode holds either a
// direct value or an alias, never both
func TestMemoryStoreValueAliasExclusivity(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	col, err := s.CreateCollection(ctx, "Core")
	require.NoError(t, err)
	mode, err := s.AddMode(ctx, col.ID, "Default")
	require.NoError(t, err)

	base, err := s.CreateVariable(ctx, "Core/base", col.ID, store.TypeColor)
	require.NoError(t, err)
	alias, err := s.CreateVariable(ctx, "Core/alias", col.ID, store.TypeColor)
	require.NoError(t, err)

	require.NoError(t, s.SetValueForMode(ctx, alias.ID, mode.ID, store.RGBA{R: 1, A: 1}))
	require.NoError(t, s.SetAlias(ctx, alias.ID, mode.ID, base.ID))

	got, err := s.GetVariable(ctx, alias.ID)
	require.NoError(t, err)
	assert.Equal(t, base.ID, got.AliasesByMode[mode.ID])
	assert.NotContains(t, got.ValuesByMode, mode.ID, "alias replaces the direct value")

	require.NoError(t, s.SetValueForMode(ctx, alias.ID, mode.ID, store.RGBA{G: 1, A: 1}))
	got, err = s.GetVariable(ctx, alias.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.AliasesByMode, mode.ID, "direct value replaces the alias")
}

// TestMemoryStoreMissingTargets tests error paths
func TestMemoryStoreMissingTargets(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	_, err := s.AddMode(ctx, "collection:999", "Light")
	assert.Error(t, err)

	_, err = s.CreateVariable(ctx, "x", "collection:999", store.TypeString)
	assert.Error(t, err)

	_, err = s.GetVariable(ctx, "variable:999")
	assert.Error(t, err)

	col, err := s.CreateCollection(ctx, "Core")
	require.NoError(t, err)
	v, err := s.CreateVariable(ctx, "Core/x", col.ID, store.TypeString)
	require.NoError(t, err)
	assert.Error(t, s.SetAlias(ctx, v.ID, "m", "variable:999"))
}

// TestMemoryStoreRemoveMode tests mode removal
func TestMemoryStoreRemoveMode(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	col, err := s.CreateCollection(ctx, "Core")
	require.NoError(t, err)
	mode, err := s.AddMode(ctx, col.ID, "Light")
	require.NoError(t, err)

	require.NoError(t, s.RemoveMode(ctx, col.ID, mode.ID))
	assert.Error(t, s.RemoveMode(ctx, col.ID, mode.ID), "second removal fails")

	cols, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Empty(t, cols[0].Modes)
}
