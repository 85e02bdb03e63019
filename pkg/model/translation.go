package model

import (
	"sort"
	"strings"
)

// Translation is a string with one variant per language code. Values are set
// while the model is built and treated as read-only afterwards; the pointer
// identity of a *Translation is what renderers deduplicate on.
type Translation map[string]string

// NewTranslation builds a translation from alternating language/text pairs,
// e.g. NewTranslation("en", "Yes", "es", "Sí"). A trailing odd value is ignored.
func NewTranslation(pairs ...string) *Translation {
	t := make(Translation, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		t[pairs[i]] = pairs[i+1]
	}
	return &t
}

// Set stores the text for a language, allocating the map on first use.
func (t *Translation) Set(lang, text string) {
	if t == nil {
		return
	}
	if *t == nil {
		*t = make(Translation)
	}
	(*t)[lang] = text
}

// Get returns the text for a language and whether the key is present.
func (t *Translation) Get(lang string) (string, bool) {
	if t == nil || *t == nil {
		return "", false
	}
	v, ok := (*t)[lang]
	return v, ok
}

// IsEmpty holds when there are no values or every value is blank.
func (t *Translation) IsEmpty() bool {
	if t == nil || len(*t) == 0 {
		return true
	}
	for _, v := range *t {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Languages returns the language keys in sorted order.
func (t *Translation) Languages() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(*t))
	for lang := range *t {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
