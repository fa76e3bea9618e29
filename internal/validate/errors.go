package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error type checking
var (
	// ErrMissingReference indicates a reference to a token absent from the batch
	ErrMissingReference = errors.New("missing reference")

	// ErrCircularReference indicates a circular reference chain
	ErrCircularReference = errors.New("circular reference detected")
)

// MissingReferenceError represents a reference whose target token does not
// exist anywhere in the processed batch.
type MissingReferenceError struct {
	Token      string
	Reference  string
	Suggestion string
}

func (e *MissingReferenceError) Error() string {
	msg := fmt.Sprintf("token %q references %q which does not exist in the batch", e.Token, e.Reference)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\nSuggestion: Did you mean %q?", e.Suggestion)
	} else {
		msg += "\nSuggestion: Add the missing token or correct the reference path"
	}
	return msg
}

func (e *MissingReferenceError) Unwrap() error {
	return ErrMissingReference
}

// CircularReferenceError represents a circular reference chain.
type CircularReferenceError struct {
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected: %s\nSuggestion: Break the circular dependency chain",
		strings.Join(e.Chain, " -> "))
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}
