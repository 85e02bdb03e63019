// Package orchestrator wires loaders, survey transformers and renderers into
// a single pipeline: load a survey once, render it in one or every
// configured language, and package the documents.
package orchestrator
