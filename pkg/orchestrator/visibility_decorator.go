package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/visibility"
	"github.com/goliatone/go-surveygen/pkg/visibility/expr"
)

// ResolveConditions returns a decorator that settles, at build time, every
// condition whose referenced fields all have a value in values. A question
// whose condition is false is dropped; a group whose condition is false is
// dropped through its matching end. A true condition is cleared so the
// question renders unconditionally. Conditions referring to any other field
// are left for the document runtime.
func ResolveConditions(evaluator visibility.Evaluator, values map[string]any) model.Decorator {
	if evaluator == nil {
		evaluator = expr.New()
	}
	ctx := visibility.Context{Values: values}
	return model.DecoratorFunc(func(survey *model.Survey) error {
		if survey == nil || len(values) == 0 {
			return nil
		}
		questions, err := resolveConditions(survey.Questions, evaluator, ctx)
		if err != nil {
			return fmt.Errorf("orchestrator: resolve conditions: %w", err)
		}
		survey.Questions = questions
		return nil
	})
}

func resolveConditions(questions []model.Question, evaluator visibility.Evaluator, ctx visibility.Context) ([]model.Question, error) {
	result := make([]model.Question, 0, len(questions))
	for idx := 0; idx < len(questions); idx++ {
		question := questions[idx]
		if !question.Conditional() || !resolvable(question.Relevant, ctx.Values) {
			result = append(result, question)
			continue
		}

		ok, err := evaluator.Eval(question.Name, question.Relevant, ctx)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", question.Name, err)
		}
		if ok {
			question.Relevant = ""
			result = append(result, question)
			continue
		}
		if question.Type == model.QuestionTypeGroupBegin {
			idx = matchingGroupEnd(questions, idx)
		}
	}
	return result, nil
}

func resolvable(rule string, values map[string]any) bool {
	refs := expr.References(rule)
	if len(refs) == 0 {
		return false
	}
	for _, name := range refs {
		if _, ok := values[name]; !ok {
			return false
		}
	}
	return true
}

// matchingGroupEnd returns the index of the end marker closing the group
// opened at start, or the last index when the group is never closed.
func matchingGroupEnd(questions []model.Question, start int) int {
	depth := 0
	for idx := start; idx < len(questions); idx++ {
		switch questions[idx].Type {
		case model.QuestionTypeGroupBegin:
			depth++
		case model.QuestionTypeGroupEnd:
			depth--
			if depth == 0 {
				return idx
			}
		}
	}
	return len(questions) - 1
}
