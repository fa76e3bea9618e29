package tokens

import (
	"sort"
	"strings"
)

// Mode is a named value-set axis within a collection (e.g., "Light", "Dark")
type Mode struct {
	ID   string `json:"modeId"`
	Name string `json:"name"`
}

// Token is the atomic entity of the canonical representation.
//
// After normalization Type and Value are always present. Value may be a
// literal (string, float64, bool, map) or a canonical reference string of
// the form "{dotted.path}". Multi-mode tokens additionally carry
// ValuesByMode keyed by mode name; Value then holds the default.
type Token struct {
	// Type is the semantic type (color, dimension, number, string, boolean,
	// shadow, typography, ...)
	Type string `json:"$type"`

	// Value is the default value, possibly a reference string
	Value interface{} `json:"$value"`

	// Description is optional documentation for the token
	Description string `json:"$description,omitempty"`

	// ValuesByMode holds per-mode values keyed by mode name.
	// Keys must correspond to the owning collection's declared modes.
	ValuesByMode map[string]interface{} `json:"$valuesByMode,omitempty"`
}

// Transformation is one audit-trail entry, emitted whenever normalization
// changes a value's shape. The accumulated log is part of the pipeline's
// user-facing contract, not optional debug output.
type Transformation struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Before      interface{} `json:"before"`
	After       interface{} `json:"after"`
}

// Collection is a named group of tokens sharing an ordered list of modes.
type Collection struct {
	Name  string
	Modes []Mode
	// Tokens is keyed by dotted token path (e.g., "color.brand.primary")
	Tokens map[string]*Token
}

// DefaultMode returns the first declared mode, creating a synthetic
// "Default" mode for collections that declare none.
func (c *Collection) DefaultMode() Mode {
	if len(c.Modes) == 0 {
		return Mode{ID: "default", Name: "Default"}
	}
	return c.Modes[0]
}

// ModeNamed returns the mode with the given name, or false if the
// collection does not declare it.
func (c *Collection) ModeNamed(name string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

// TokenNames returns the collection's token paths in lexicographic order.
// Go maps have no iteration order, so this is the pipeline's canonical
// "discovery order" for deterministic processing and reporting.
func (c *Collection) TokenNames() []string {
	names := make([]string, 0, len(c.Tokens))
	for name := range c.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QualifiedName returns the store-facing variable name for a token path,
// e.g., collection "Core" + path "color.base" -> "Core/color/base".
func QualifiedName(collection, tokenPath string) string {
	return collection + "/" + strings.ReplaceAll(tokenPath, ".", "/")
}

// NormalizePath converts a raw token name to the canonical dotted,
// lowercase form used throughout the pipeline.
// e.g., "Color/Brand/Primary" -> "color.brand.primary"
func NormalizePath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "--")
	name = strings.ReplaceAll(name, "/", ".")
	name = strings.ReplaceAll(name, "--", ".")
	name = strings.ReplaceAll(name, "_", ".")
	return strings.ToLower(name)
}
