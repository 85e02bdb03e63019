package model

import "strings"

// Decorator adjusts a survey after it has been loaded and before it is
// rendered.
type Decorator interface {
	Decorate(*Survey) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Survey) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(survey *Survey) error {
	return fn(survey)
}

// ExcludeQuestions drops questions whose name is listed, plus questions whose
// condition is the literal "false" (rows switched off in the source sheet).
func ExcludeQuestions(names ...string) Decorator {
	skip := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			skip[name] = struct{}{}
		}
	}
	return DecoratorFunc(func(survey *Survey) error {
		if survey == nil {
			return nil
		}
		kept := survey.Questions[:0]
		for _, q := range survey.Questions {
			if _, drop := skip[q.Name]; drop && q.Name != "" {
				continue
			}
			if strings.TrimSpace(q.Relevant) == "false" {
				continue
			}
			kept = append(kept, q)
		}
		survey.Questions = kept
		return nil
	})
}
