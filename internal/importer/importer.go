package importer

import (
	"context"
	"fmt"
	"sort"

	"github.com/tokenport/tokenport/internal/log"
	"github.com/tokenport/tokenport/internal/refs"
	"github.com/tokenport/tokenport/internal/store"
	"github.com/tokenport/tokenport/internal/tokens"
	"github.com/tokenport/tokenport/internal/validate"
)

// DefaultChunkSize bounds how many tokens are processed between
// cancellation checks. Processing is deliberately sequential: creation
// order encodes a dependency, so there is no concurrent fan-out.
const DefaultChunkSize = 50

// Options tunes one import invocation.
type Options struct {
	// ChunkSize overrides DefaultChunkSize when positive.
	ChunkSize int
}

// Result summarizes one import invocation.
//
// Success is defined as "no errors, or at least one variable was created":
// the import is non-transactional and partial success is preferred over
// all-or-nothing rollback, matching the additive nature of a variable
// store.
type Result struct {
	CollectionsProcessed int      `json:"collectionsProcessed"`
	VariablesCreated     int      `json:"variablesCreated"`
	ReferencesResolved   int      `json:"referencesResolved"`
	UnresolvedReferences []string `json:"unresolvedReferences"`
	Errors               []string `json:"errors"`
	Warnings             []string `json:"warnings"`
	Success              bool     `json:"success"`
}

// ImportCollections validates the whole batch, creates variables in
// dependency order, and resolves queued references as aliases in a single
// final pass once every possible name-to-ID mapping exists.
//
// Missing references fail closed: nothing is created. Circular references
// are reported as errors but creation proceeds, since deferred resolution
// makes cycle members constructible; their aliases still wire up pairwise.
// Cancellation is cooperative: between chunks the context is checked and
// already-created variables are not rolled back.
func ImportCollections(ctx context.Context, vs store.VariableStore, cols []*tokens.Collection, opts Options) (*Result, error) {
	result := &Result{UnresolvedReferences: []string{}, Errors: []string{}, Warnings: []string{}}

	report := validate.Batch(cols)
	for _, w := range report.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}
	if len(report.MissingReferences) > 0 {
		for _, e := range report.Errors {
			result.Errors = append(result.Errors, e.Message)
		}
		result.Success = false
		log.Warn("import blocked: %d missing references", len(report.MissingReferences))
		return result, nil
	}
	for _, cycle := range report.Cycles {
		result.Errors = append(result.Errors, (&validate.CircularReferenceError{Chain: cycle}).Error())
	}

	registry := NewRegistry()
	defer registry.Clear()

	// Duplicate paths resolve to their first definition in batch order,
	// the same rule the validation catalog advertises in its duplicate
	// warning. Collections are created in dependency order below, so the
	// owner must be pinned before processing reorders them.
	owners := map[string]string{}
	for _, col := range cols {
		for _, name := range col.TokenNames() {
			if _, ok := owners[name]; !ok {
				owners[name] = col.Name
			}
		}
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	ordered, orderWarnings := collectionOrder(cols)
	result.Warnings = append(result.Warnings, orderWarnings...)

	cancelled := false
	for _, col := range ordered {
		if err := ctx.Err(); err != nil {
			cancelled = true
			break
		}
		if err := importCollection(ctx, vs, col, registry, owners, result, chunkSize); err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			result.Errors = append(result.Errors, fmt.Sprintf("collection %q: %v", col.Name, err))
			continue
		}
		result.CollectionsProcessed++
	}

	if !cancelled {
		resolveReferences(ctx, vs, registry, result)
	} else {
		result.Warnings = append(result.Warnings, "import cancelled; already-created variables were kept")
	}

	result.Success = len(result.Errors) == 0 || result.VariablesCreated > 0
	log.Info("import finished: %d collections, %d variables, %d references resolved, %d unresolved",
		result.CollectionsProcessed, result.VariablesCreated, result.ReferencesResolved, len(result.UnresolvedReferences))

	if cancelled {
		return result, ctx.Err()
	}
	return result, nil
}

// importCollection creates one collection, its modes, and its variables in
// dependency order. Per-variable failures are logged and skipped so the
// remaining tokens still import.
func importCollection(ctx context.Context, vs store.VariableStore, col *tokens.Collection, registry *Registry, owners map[string]string, result *Result, chunkSize int) error {
	storeCol, err := vs.CreateCollection(ctx, col.Name)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// Declared modes, or a synthetic default for mode-less collections
	modes := col.Modes
	if len(modes) == 0 {
		modes = []tokens.Mode{col.DefaultMode()}
	}
	modeIDs := map[string]string{}
	for _, mode := range modes {
		created, err := vs.AddMode(ctx, storeCol.ID, mode.Name)
		if err != nil {
			return fmt.Errorf("add mode %q: %w", mode.Name, err)
		}
		modeIDs[mode.Name] = created.ID
	}
	defaultModeID := modeIDs[modes[0].Name]

	order, orderWarnings := tokenOrder(col)
	result.Warnings = append(result.Warnings, orderWarnings...)

	for i, name := range order {
		if i > 0 && i%chunkSize == 0 {
			// Yield point between chunks
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := importToken(ctx, vs, col, name, storeCol.ID, modeIDs, defaultModeID, registry, owners, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("token %q: %v", name, err))
		}
	}
	return nil
}

// importToken creates the backing variable for one token and either sets
// direct values per mode or enqueues references for the final pass. Modes
// are independent: some may resolve immediately while others queue.
func importToken(ctx context.Context, vs store.VariableStore, col *tokens.Collection, name, collectionID string, modeIDs map[string]string, defaultModeID string, registry *Registry, owners map[string]string, result *Result) error {
	tok := col.Tokens[name]

	variable, err := vs.CreateVariable(ctx, tokens.QualifiedName(col.Name, name), collectionID, store.VariableTypeFor(tok.Type))
	if err != nil {
		return fmt.Errorf("create variable: %w", err)
	}
	// Only the owning definition claims the path for alias resolution
	if owners[name] == col.Name {
		registry.Register(name, variable.ID)
	}
	result.VariablesCreated++

	// Which modes does this token value? Default value covers every
	// declared mode that has no explicit per-mode value.
	explicit := map[string]bool{}
	for mode := range tok.ValuesByMode {
		explicit[mode] = true
	}

	setOne := func(modeID string, value interface{}) error {
		if ref, ok := refs.Parse(value); ok {
			registry.Enqueue(pendingReference{
				VariableID:  variable.ID,
				ModeID:      modeID,
				SourceToken: name,
				Ref:         ref,
			})
			return nil
		}
		converted, err := store.ConvertValue(tok.Type, value)
		if err != nil {
			return err
		}
		return vs.SetValueForMode(ctx, variable.ID, modeID, converted)
	}

	if tok.Value != nil {
		for _, mode := range col.Modes {
			if explicit[mode.Name] {
				continue
			}
			if err := setOne(modeIDs[mode.Name], tok.Value); err != nil {
				return err
			}
		}
		if len(col.Modes) == 0 {
			if err := setOne(defaultModeID, tok.Value); err != nil {
				return err
			}
		}
	}

	modes := make([]string, 0, len(tok.ValuesByMode))
	for mode := range tok.ValuesByMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	for _, mode := range modes {
		modeID, declared := modeIDs[mode]
		if !declared {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("token %q: mode %q is not declared by collection %q, value skipped", name, mode, col.Name))
			continue
		}
		if err := setOne(modeID, tok.ValuesByMode[mode]); err != nil {
			return err
		}
	}
	return nil
}

// resolveReferences is the single final pass: every queued reference is
// looked up in the registry and materialized as an alias on a hit, or
// reported as unresolved on a miss. Misses never roll anything back.
func resolveReferences(ctx context.Context, vs store.VariableStore, registry *Registry, result *Result) {
	unresolved := map[string]bool{}
	for _, pending := range registry.Pending() {
		if err := ctx.Err(); err != nil {
			result.Warnings = append(result.Warnings, "reference resolution cancelled before completion")
			break
		}
		targetID, ok := registry.Lookup(pending.Ref.Path)
		if !ok {
			unresolved[pending.Ref.Path] = true
			log.Warn("unresolved reference %q from token %q", pending.Ref.Path, pending.SourceToken)
			continue
		}
		if err := vs.SetAlias(ctx, pending.VariableID, pending.ModeID, targetID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("alias %q -> %q: %v", pending.SourceToken, pending.Ref.Path, err))
			continue
		}
		result.ReferencesResolved++
	}

	paths := make([]string, 0, len(unresolved))
	for path := range unresolved {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	result.UnresolvedReferences = append(result.UnresolvedReferences, paths...)
}
