package format

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error type checking
var (
	// ErrParse indicates the input text could not be parsed at all
	ErrParse = errors.New("input parse failed")

	// ErrUnknownFormat indicates no adapter scored above the usable threshold
	ErrUnknownFormat = errors.New("unknown or unsupported token format")

	// ErrNormalization indicates the winning adapter failed structurally
	ErrNormalization = errors.New("normalization failed")
)

// ParseError represents malformed input text. Terminal for that input.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse input: %s\nSuggestion: Verify the file contains valid JSON (or YAML)", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a new parse error
func NewParseError(reason string) error {
	return &ParseError{Reason: reason}
}

// UnknownFormatError represents a detection failure: the best adapter's
// confidence fell below the minimum usable threshold.
type UnknownFormatError struct {
	Best DetectionResult
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown or unsupported token format (best guess %s at confidence %.2f)\nSuggestion: Export the file in a supported dialect, or restructure it as flat key-value pairs",
		e.Best.Format, e.Best.Confidence)
}

func (e *UnknownFormatError) Unwrap() error {
	return ErrUnknownFormat
}

// NewUnknownFormatError creates a new unknown format error
func NewUnknownFormatError(best DetectionResult) error {
	return &UnknownFormatError{Best: best}
}

// NormalizationError represents an adapter-local structural failure.
// Terminal for the file but isolated; other files in a batch continue.
type NormalizationError struct {
	Format string
	Errors []string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("failed to normalize %s input: %s\nSuggestion: Check the file's top-level structure against the %s dialect",
		e.Format, strings.Join(e.Errors, "; "), e.Format)
}

func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}

// NewNormalizationError creates a new normalization error
func NewNormalizationError(format string, errs []string) error {
	return &NormalizationError{Format: format, Errors: errs}
}
