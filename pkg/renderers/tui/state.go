package tui

import (
	"fmt"
	"strings"
)

// State tracks the answers collected during a walk-through, keyed by question
// name. Single-value questions store a string, multiple-choice questions a
// []string. The order in which questions were first answered is kept for
// stable pretty output.
type State struct {
	values map[string]any
	order  []string
}

// NewState seeds the state with prefilled answers.
func NewState(prefill map[string]any) *State {
	s := &State{values: make(map[string]any, len(prefill))}
	for key, value := range prefill {
		s.values[key] = cloneAnswer(value)
	}
	return s
}

// Values returns the current answer map (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// GetValue returns the answer stored for name.
func (s *State) GetValue(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// SetValue stores an answer.
func (s *State) SetValue(name string, value any) error {
	if s == nil {
		return fmt.Errorf("tui: state is nil")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tui: answer name is required")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if !s.answered(name) {
		s.order = append(s.order, name)
	}
	s.values[name] = cloneAnswer(value)
	return nil
}

// Order lists answered question names in the order they were answered.
func (s *State) Order() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

func (s *State) answered(name string) bool {
	for _, existing := range s.order {
		if existing == name {
			return true
		}
	}
	return false
}

// stringValue returns the answer as prompt default text.
func (s *State) stringValue(name string) string {
	v, ok := s.GetValue(name)
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case []string:
		return strings.Join(typed, " ")
	default:
		return fmt.Sprint(typed)
	}
}

// selections returns a multiple-choice answer as its chosen tokens.
func (s *State) selections(name string) []string {
	v, ok := s.GetValue(name)
	if !ok || v == nil {
		return nil
	}
	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return strings.Fields(typed)
	default:
		return []string{fmt.Sprint(typed)}
	}
}

func cloneAnswer(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		return append([]any(nil), typed...)
	default:
		return value
	}
}
