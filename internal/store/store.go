// Package store defines the variable-store capability the import pipeline
// targets, plus value conversion from canonical token values to typed
// store values. The live host store is an external collaborator; the
// in-memory implementation here backs tests and dry runs.
package store

import (
	"context"

	"github.com/tokenport/tokenport/internal/tokens"
)

// VariableType is the store-side type of a variable.
type VariableType string

const (
	TypeColor   VariableType = "COLOR"
	TypeFloat   VariableType = "FLOAT"
	TypeString  VariableType = "STRING"
	TypeBoolean VariableType = "BOOLEAN"
)

// RGBA is the store-side color value: channels in [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Collection is a store-side variable collection.
type Collection struct {
	ID    string
	Name  string
	Modes []tokens.Mode
}

// Variable is a store-side variable. For each mode it holds either a
// direct value or an alias to another variable, never both.
type Variable struct {
	ID           string
	Name         string
	CollectionID string
	Type         VariableType

	// ValuesByMode maps mode ID to a direct value (RGBA, float64, string, bool)
	ValuesByMode map[string]interface{}

	// AliasesByMode maps mode ID to the target variable's ID
	AliasesByMode map[string]string
}

// VariableStore is the external collaborator contract. All calls use
// find-or-create semantics by name, so re-invoking them is safe.
// Creation and mutation may suspend on I/O to the host.
type VariableStore interface {
	ListCollections(ctx context.Context) ([]*Collection, error)
	GetVariable(ctx context.Context, id string) (*Variable, error)
	CreateCollection(ctx context.Context, name string) (*Collection, error)
	AddMode(ctx context.Context, collectionID, name string) (tokens.Mode, error)
	RemoveMode(ctx context.Context, collectionID, modeID string) error
	CreateVariable(ctx context.Context, name, collectionID string, variableType VariableType) (*Variable, error)
	SetValueForMode(ctx context.Context, variableID, modeID string, value interface{}) error
	SetAlias(ctx context.Context, variableID, modeID, targetID string) error
}
