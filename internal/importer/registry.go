// Package importer creates store variables from canonical collections in
// dependency order and resolves references as aliases in a final pass.
package importer

import (
	"github.com/tokenport/tokenport/internal/refs"
)

// pendingReference is a reference that could not be resolved at creation
// time; it is materialized as an alias once every entity exists.
type pendingReference struct {
	// VariableID and ModeID locate where the alias must be set
	VariableID string
	ModeID     string
	// SourceToken is the referencing token's dotted path, for reporting
	SourceToken string
	Ref         refs.Reference
}

// Registry tracks canonical token name to created-variable ID mappings and
// the queue of references awaiting the final resolution pass.
//
// A Registry is owned by exactly one import invocation. It is constructed
// fresh per import and cleared at the end; it is never shared or global.
type Registry struct {
	idsByName map[string]string
	pending   []pendingReference
}

// NewRegistry creates an empty registry for one import invocation.
func NewRegistry() *Registry {
	return &Registry{idsByName: map[string]string{}}
}

// Register records the variable ID backing a token path. The first
// registration for a path wins; a duplicate path keeps its original
// mapping so references resolve to the first definition.
func (r *Registry) Register(tokenPath, variableID string) {
	if _, exists := r.idsByName[tokenPath]; exists {
		return
	}
	r.idsByName[tokenPath] = variableID
}

// Lookup returns the variable ID for a token path.
func (r *Registry) Lookup(tokenPath string) (string, bool) {
	id, ok := r.idsByName[tokenPath]
	return id, ok
}

// Enqueue adds a reference to the final-pass queue.
func (r *Registry) Enqueue(p pendingReference) {
	r.pending = append(r.pending, p)
}

// Pending returns the queued references in enqueue order.
func (r *Registry) Pending() []pendingReference {
	return r.pending
}

// Size returns the number of registered token mappings.
func (r *Registry) Size() int {
	return len(r.idsByName)
}

// Clear discards all state. Called when the owning import finishes so a
// reused Registry can never leak mappings across imports.
func (r *Registry) Clear() {
	r.idsByName = map[string]string{}
	r.pending = nil
}
