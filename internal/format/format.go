// Package format detects which design-token dialect a parsed JSON document
// is written in and normalizes it into the canonical collection shape.
//
// Each dialect is handled by one Adapter. Adapters are heuristic scorers:
// Detect never fails, it returns confidence 0 for input it cannot claim.
// The Registry picks the highest-confidence adapter and the Manager drives
// the parse -> detect -> normalize -> reference-normalization pipeline.
package format

import "github.com/tokenport/tokenport/internal/tokens"

// Format identifiers, one per supported dialect.
const (
	FormatNative          = "native"
	FormatDTCG            = "w3c-dtcg"
	FormatTokensStudio    = "tokens-studio"
	FormatStyleDictionary = "style-dictionary"
	FormatMaterial        = "material"
	FormatCSSVars         = "css-variables"
	FormatFlat            = "flat"
)

// Property naming styles observed on leaf tokens.
const (
	PropertyStyleDollar = "dollar" // $type / $value
	PropertyStylePlain  = "plain"  // type / value
	PropertyStyleMixed  = "mixed"
	PropertyStyleNone   = ""
)

// StructureInfo describes the structural signals an adapter observed while
// scoring a candidate document.
type StructureInfo struct {
	HasCollections bool   `json:"hasCollections"`
	HasModes       bool   `json:"hasModes"`
	ArrayWrapped   bool   `json:"arrayWrapped"`
	TokenCount     int    `json:"tokenCount"`
	ReferenceCount int    `json:"referenceCount"`
	PropertyStyle  string `json:"propertyStyle,omitempty"`
	ReferenceStyle string `json:"referenceStyle,omitempty"`
}

// DetectionResult is one adapter's verdict on a document.
// Confidence is a bounded [0,1] heuristic sum, not a probability; only its
// ranking against other adapters' scores matters.
type DetectionResult struct {
	Format     string        `json:"format"`
	Confidence float64       `json:"confidence"`
	Structure  StructureInfo `json:"structureInfo"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// NormalizationResult is the outcome of one adapter's Normalize call.
// Structural failures surface as Success=false with Errors populated;
// adapters never panic on malformed input.
type NormalizationResult struct {
	Collections     []*tokens.Collection    `json:"-"`
	Transformations []tokens.Transformation `json:"transformations,omitempty"`
	Warnings        []string                `json:"warnings,omitempty"`
	Errors          []string                `json:"errors,omitempty"`
	Success         bool                    `json:"success"`
}

// Adapter is the shared contract every dialect implements.
type Adapter interface {
	// Name returns the format identifier this adapter handles.
	Name() string

	// Detect scores how strongly the parsed document matches this dialect.
	// It is pure and must not panic; malformed input scores 0.
	Detect(data interface{}) DetectionResult

	// Normalize transforms the parsed document into canonical collections.
	Normalize(data interface{}) NormalizationResult

	// Validate reports whether Detect's confidence clears this adapter's
	// strictness threshold.
	Validate(data interface{}) bool
}

// failure builds a non-success NormalizationResult with one error.
func failure(msg string) NormalizationResult {
	return NormalizationResult{Errors: []string{msg}, Success: false}
}
