package render

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// Identifier is the runtime lookup key assigned to a translation.
type Identifier int

// String renders the identifier as used in span names and the lookup table.
func (id Identifier) String() string {
	return fmt.Sprintf("t%d", id)
}

// StringRegistry assigns stable identifiers to translations. Identifiers are
// allocated lazily, on first emission, from a monotonic counter that is never
// reset, so sharing one registry across the per-language renders of a survey
// resolves the same string to the same identifier in every variant. All
// methods are safe for concurrent use.
type StringRegistry struct {
	mu   sync.Mutex
	next Identifier
	ids  map[*model.Translation]Identifier
}

// NewStringRegistry creates an empty registry.
func NewStringRegistry() *StringRegistry {
	return &StringRegistry{ids: make(map[*model.Translation]Identifier)}
}

// Register returns the identifier of t, allocating the next one on first use.
func (r *StringRegistry) Register(t *model.Translation) Identifier {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids == nil {
		r.ids = make(map[*model.Translation]Identifier)
	}
	if id, ok := r.ids[t]; ok {
		return id
	}
	id := r.next
	r.next++
	r.ids[t] = id
	return id
}

// Lookup returns the identifier of t without allocating one.
func (r *StringRegistry) Lookup(t *model.Translation) (Identifier, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[t]
	return id, ok
}

// Len reports how many identifiers were allocated.
func (r *StringRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.next)
}

// DisplayText returns the text of t in the usage's default language.
func (r *StringRegistry) DisplayText(t *model.Translation, usage *Usage) (string, error) {
	text, ok := t.Get(usage.DefaultLanguage())
	if !ok {
		id := ""
		if known, found := r.Lookup(t); found {
			id = known.String()
		}
		return "", &MissingTranslationError{Identifier: id, Language: usage.DefaultLanguage()}
	}
	return text, nil
}

// RecordUsage registers t and copies its values into the usage accumulator
// for every configured language. It returns the identifier written to the
// document.
func (r *StringRegistry) RecordUsage(t *model.Translation, usage *Usage) Identifier {
	id := r.Register(t)
	usage.record(id.String(), t)
	return id
}

// RecordUsageAs records t under a fixed key instead of an allocated
// identifier. It is used for strings the runtime script looks up by name.
func (r *StringRegistry) RecordUsageAs(t *model.Translation, key string, usage *Usage) {
	usage.record(key, t)
}

// Emit records t and returns its identifier together with the default
// language text, the pair a renderer writes into the document.
func (r *StringRegistry) Emit(t *model.Translation, usage *Usage) (Identifier, string, error) {
	text, err := r.DisplayText(t, usage)
	if err != nil {
		return 0, "", err
	}
	return r.RecordUsage(t, usage), text, nil
}
