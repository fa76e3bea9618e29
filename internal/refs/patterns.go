package refs

import "regexp"

// Shared regex patterns for the reference syntaxes the pipeline accepts.
// Canonical references use curly braces around a dotted path; everything
// else is rewritten into that form by Normalize.

// CurlyReferenceRegexp matches canonical references: {token.reference.path}
var CurlyReferenceRegexp = regexp.MustCompile(`\{([^{}]+)\}`)

// CSSVarRegexp matches CSS custom-property function syntax:
// var(--color-primary) or var(--color-primary, fallback)
var CSSVarRegexp = regexp.MustCompile(`var\(\s*--([A-Za-z][\w-]*)\s*(?:,[^)]*)?\)`)

// SassVarRegexp matches Sass-style dollar-prefixed identifiers: $color-primary
var SassVarRegexp = regexp.MustCompile(`\$([A-Za-z][\w.-]*)`)

// AtRefRegexp matches at-prefixed identifiers: @color.primary
var AtRefRegexp = regexp.MustCompile(`@([A-Za-z][\w.-]*)`)

// BracketRefRegexp matches bracket-enclosed identifiers: [color.primary]
var BracketRefRegexp = regexp.MustCompile(`\[([A-Za-z][\w.-]*)\]`)

// camelBoundaryRegexp matches a lower-to-upper case boundary for
// identifier normalization (colorPrimary -> color.Primary).
var camelBoundaryRegexp = regexp.MustCompile(`([a-z0-9])([A-Z])`)
