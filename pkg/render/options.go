package render

// RenderOptions describe per-document inputs that do not belong to the
// survey model itself.
type RenderOptions struct {
	// Language selects the default display language. Empty means the first
	// configured language of the survey.
	Language string
	// Header is inlined verbatim into the document head. Nil selects the
	// renderer's built-in header.
	Header []byte
	// Registry assigns string identifiers. Share one registry across the
	// per-language renders of a survey to keep identifiers stable; nil gives
	// the document a private registry.
	Registry *StringRegistry
	// HiddenFields are posted with the answers in addition to the inputs the
	// document runtime fills in. Names already used by the runtime or by a
	// question are skipped.
	HiddenFields map[string]string
}
