// Package model defines the survey model consumed by renderers and produced by
// the loaders under pkg/xlsform. A Survey is an ordered list of Questions (the
// order is both the render order and the grouping order), a flat list of
// Choices keyed by list name, the configured languages and a small dictionary
// of extra UI strings (`submit`, `language`, `progress_1`..`progress_3`).
//
// Every user-visible string is a *Translation carrying one value per language.
// Translations are immutable once built; identifiers used by the runtime
// lookup table are owned by render.StringRegistry, keyed by pointer identity,
// so a single Survey can be shared by concurrent per-language renders.
package model
