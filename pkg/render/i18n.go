package render

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// LookupTable maps language -> (identifier -> text).
type LookupTable map[string]map[string]string

// Usage accumulates the strings actually emitted while rendering one
// document. It is not safe for concurrent use; each render owns its own.
type Usage struct {
	defaultLanguage string
	languages       []string
	table           LookupTable
}

// NewUsage creates a usage for a document rendered in defaultLanguage with
// the given configured languages.
func NewUsage(defaultLanguage string, languages []string) *Usage {
	langs := append([]string(nil), languages...)
	table := make(LookupTable, len(langs))
	for _, lang := range langs {
		table[lang] = make(map[string]string)
	}
	return &Usage{
		defaultLanguage: defaultLanguage,
		languages:       langs,
		table:           table,
	}
}

// DefaultLanguage returns the language the document is displayed in.
func (u *Usage) DefaultLanguage() string {
	return u.defaultLanguage
}

// Languages returns the configured languages in order.
func (u *Usage) Languages() []string {
	return append([]string(nil), u.languages...)
}

// Has reports whether key was recorded.
func (u *Usage) Has(key string) bool {
	for _, lang := range u.languages {
		if _, ok := u.table[lang][key]; ok {
			return true
		}
	}
	return false
}

func (u *Usage) record(key string, t *model.Translation) {
	for _, lang := range u.languages {
		text, _ := t.Get(lang)
		u.table[lang][key] = text
	}
}

// LookupTable returns a copy of the accumulated table.
func (u *Usage) LookupTable() LookupTable {
	out := make(LookupTable, len(u.table))
	for lang, entries := range u.table {
		copied := make(map[string]string, len(entries))
		for k, v := range entries {
			copied[k] = v
		}
		out[lang] = copied
	}
	return out
}

// MarshalLookupTable serialises the table for embedding in a script block.
// Keys are sorted and markup characters escaped, so the output is stable and
// cannot terminate the surrounding script element.
func (u *Usage) MarshalLookupTable() ([]byte, error) {
	payload, err := json.MarshalIndent(u.table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: marshal lookup table: %w", err)
	}
	return payload, nil
}
