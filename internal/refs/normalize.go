// Package refs normalizes the reference syntaxes found in design-token
// dialects (CSS var(), Sass $vars, at-prefixed, bracket-enclosed) into the
// canonical curly-brace dotted-path form, and decomposes canonical
// references for the resolver.
package refs

import (
	"regexp"
	"strings"

	"github.com/tokenport/tokenport/internal/tokens"
)

// Reference is a decomposed canonical reference.
type Reference struct {
	// Original is the full reference string including braces, e.g. "{color.base}"
	Original string
	// Path is the dotted path inside the braces, e.g. "color.base"
	Path string
}

// Target returns the referenced token name.
func (r Reference) Target() string {
	return r.Path
}

// IsReference reports whether a value is a whole-token canonical reference:
// a string that starts with "{" and ends with "}" around a single path.
func IsReference(value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	match := CurlyReferenceRegexp.FindString(s)
	return match != "" && match == s
}

// Parse decomposes a whole-token reference value.
func Parse(value interface{}) (Reference, bool) {
	if !IsReference(value) {
		return Reference{}, false
	}
	s := strings.TrimSpace(value.(string))
	match := CurlyReferenceRegexp.FindStringSubmatch(s)
	if match == nil {
		return Reference{}, false
	}
	return Reference{Original: s, Path: match[1]}, true
}

// NormalizeIdentifier converts a dialect-specific identifier to dotted
// notation: double-dash and underscore become dots, camelCase boundaries
// become dots, and the result is lower-cased.
// e.g., "color--primary" -> "color.primary", "colorPrimary" -> "color.primary"
func NormalizeIdentifier(id string) string {
	id = strings.ReplaceAll(id, "--", ".")
	id = strings.ReplaceAll(id, "_", ".")
	id = camelBoundaryRegexp.ReplaceAllString(id, "$1.$2")
	return strings.ToLower(id)
}

// pattern pairs a reference syntax with its audit-log label.
type pattern struct {
	name string
	re   *regexp.Regexp
}

// Normalize rewrites non-canonical reference syntaxes in a value to
// canonical curly-brace form. Only string values are inspected; any other
// value is returned unchanged with an empty transformation log.
//
// For each pattern type only the first occurrence is rewritten per call.
// This mirrors the single-reference-per-value assumption the rest of the
// pipeline makes; see the pinning test before changing it.
func Normalize(value interface{}) (interface{}, []tokens.Transformation) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}

	// Already-canonical references are left untouched.
	original := s
	var transformations []tokens.Transformation

	patterns := []pattern{
		{"css-var", CSSVarRegexp},
		{"sass-var", SassVarRegexp},
		{"at-reference", AtRefRegexp},
		{"bracket-reference", BracketRefRegexp},
	}

	for _, p := range patterns {
		loc := p.re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		// loc[0]:loc[1] full match, loc[2]:loc[3] identifier capture
		before := s
		identifier := s[loc[2]:loc[3]]
		canonical := "{" + NormalizeIdentifier(identifier) + "}"
		s = s[:loc[0]] + canonical + s[loc[1]:]

		transformations = append(transformations, tokens.Transformation{
			Type:        "reference-syntax",
			Description: "converted " + p.name + " reference to canonical syntax",
			Before:      before,
			After:       s,
		})
	}

	if s == original {
		return original, transformations
	}
	return s, transformations
}
