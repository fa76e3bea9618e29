package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tokenport/tokenport/internal/tokens"
)

// MemoryStore is an in-process VariableStore with find-or-create
// semantics, used by tests and the CLI dry-run path.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*Collection // by ID
	variables   map[string]*Variable   // by ID
	nextID      int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string]*Collection{},
		variables:   map[string]*Variable{},
	}
}

func (s *MemoryStore) newID(kind string) string {
	s.nextID++
	return fmt.Sprintf("%s:%d", kind, s.nextID)
}

// ListCollections returns all collections.
func (s *MemoryStore) ListCollections(ctx context.Context) ([]*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Collection, 0, len(s.collections))
	for _, col := range s.collections {
		out = append(out, col)
	}
	return out, nil
}

// GetVariable returns a variable by ID.
func (s *MemoryStore) GetVariable(ctx context.Context, id string) (*Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.variables[id]
	if !ok {
		return nil, fmt.Errorf("variable not found: %s", id)
	}
	return v, nil
}

// CreateCollection finds or creates a collection by name.
func (s *MemoryStore) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, col := range s.collections {
		if col.Name == name {
			return col, nil
		}
	}
	col := &Collection{ID: s.newID("collection"), Name: name}
	s.collections[col.ID] = col
	return col, nil
}

// AddMode finds or creates a mode on a collection by name.
func (s *MemoryStore) AddMode(ctx context.Context, collectionID, name string) (mode tokens.Mode, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return mode, fmt.Errorf("collection not found: %s", collectionID)
	}
	for _, m := range col.Modes {
		if m.Name == name {
			return m, nil
		}
	}
	mode = tokens.Mode{ID: s.newID("mode"), Name: name}
	col.Modes = append(col.Modes, mode)
	return mode, nil
}

// RemoveMode removes a mode from a collection.
func (s *MemoryStore) RemoveMode(ctx context.Context, collectionID, modeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collectionID]
	if !ok {
		return fmt.Errorf("collection not found: %s", collectionID)
	}
	for i, m := range col.Modes {
		if m.ID == modeID {
			col.Modes = append(col.Modes[:i], col.Modes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mode not found: %s", modeID)
}

// CreateVariable finds or creates a variable by name within a collection.
func (s *MemoryStore) CreateVariable(ctx context.Context, name, collectionID string, variableType VariableType) (*Variable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collectionID]; !ok {
		return nil, fmt.Errorf("collection not found: %s", collectionID)
	}
	for _, v := range s.variables {
		if v.CollectionID == collectionID && v.Name == name {
			return v, nil
		}
	}
	v := &Variable{
		ID:            s.newID("variable"),
		Name:          name,
		CollectionID:  collectionID,
		Type:          variableType,
		ValuesByMode:  map[string]interface{}{},
		AliasesByMode: map[string]string{},
	}
	s.variables[v.ID] = v
	return v, nil
}

// SetValueForMode sets a direct value, clearing any alias for that mode.
func (s *MemoryStore) SetValueForMode(ctx context.Context, variableID, modeID string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.variables[variableID]
	if !ok {
		return fmt.Errorf("variable not found: %s", variableID)
	}
	v.ValuesByMode[modeID] = value
	delete(v.AliasesByMode, modeID)
	return nil
}

// SetAlias aliases a variable's mode to another variable.
func (s *MemoryStore) SetAlias(ctx context.Context, variableID, modeID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.variables[variableID]
	if !ok {
		return fmt.Errorf("variable not found: %s", variableID)
	}
	if _, ok := s.variables[targetID]; !ok {
		return fmt.Errorf("alias target not found: %s", targetID)
	}
	v.AliasesByMode[modeID] = targetID
	delete(v.ValuesByMode, modeID)
	return nil
}

// VariableCount returns the number of variables in the store.
func (s *MemoryStore) VariableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.variables)
}

// FindVariable returns the variable with the given name in the named
// collection, or nil. Test and reporting helper.
func (s *MemoryStore) FindVariable(collectionName, variableName string) *Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, col := range s.collections {
		if col.Name != collectionName {
			continue
		}
		for _, v := range s.variables {
			if v.CollectionID == col.ID && v.Name == variableName {
				return v
			}
		}
	}
	return nil
}
