package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// to submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoLanguages is returned for surveys that declare no language.
	ErrNoLanguages = errors.New("tui: survey declares no languages")
)
