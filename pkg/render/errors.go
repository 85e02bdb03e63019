package render

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural matches every *StructuralError via errors.Is.
	ErrStructural = errors.New("render: structural error")
	// ErrMissingTranslation matches every *MissingTranslationError via errors.Is.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// StructuralError reports input the renderer cannot turn into a well-formed
// document: unbalanced group markers or a condition the translator rejects.
// It aborts the current document and is never retried.
type StructuralError struct {
	Question string
	Reason   string
	Err      error
}

func (e *StructuralError) Error() string {
	msg := "render: " + e.Reason
	if e.Question != "" {
		msg = fmt.Sprintf("render: question %q: %s", e.Question, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStructural) match.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// MissingTranslationError reports a string with no text for the language a
// document is rendered in.
type MissingTranslationError struct {
	Identifier string
	Language   string
}

func (e *MissingTranslationError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("render: missing %q translation", e.Language)
	}
	return fmt.Sprintf("render: string %s has no %q translation", e.Identifier, e.Language)
}

// Is lets errors.Is(err, ErrMissingTranslation) match.
func (e *MissingTranslationError) Is(target error) bool { return target == ErrMissingTranslation }
