package tokens

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// wireCollection is the on-the-wire shape of one collection:
//
//	[ { "<CollectionName>": { "modes": [...], "variables": {...} } }, ... ]
type wireCollection struct {
	Modes     []Mode            `json:"modes"`
	Variables map[string]*Token `json:"variables"`
}

// ParseCanonical decodes the canonical collection wire format.
// Comments are tolerated (JSONC).
func ParseCanonical(data []byte) ([]*Collection, error) {
	var entries []map[string]wireCollection
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse canonical collection format: %w", err)
	}

	collections := make([]*Collection, 0, len(entries))
	for i, entry := range entries {
		if len(entry) != 1 {
			return nil, fmt.Errorf("canonical entry %d must have exactly one collection key, got %d", i, len(entry))
		}
		for name, wire := range entry {
			col := &Collection{
				Name:   name,
				Modes:  wire.Modes,
				Tokens: make(map[string]*Token, len(wire.Variables)),
			}
			for path, tok := range wire.Variables {
				col.Tokens[path] = tok
			}
			collections = append(collections, col)
		}
	}
	return collections, nil
}

// MarshalCanonical encodes collections into the canonical wire format.
// Token paths serialize in lexicographic order (encoding/json sorts map
// keys), so output is deterministic.
func MarshalCanonical(collections []*Collection) ([]byte, error) {
	entries := make([]map[string]wireCollection, 0, len(collections))
	for _, col := range collections {
		entries = append(entries, map[string]wireCollection{
			col.Name: {
				Modes:     col.Modes,
				Variables: col.Tokens,
			},
		})
	}
	return json.MarshalIndent(entries, "", "  ")
}
