// Package visibility defines how visibility conditions ("relevant" cells) are
// evaluated outside the browser, e.g. by the terminal preview. The browser
// side evaluates the same conditions after expr.Translate turns them into
// script expressions.
package visibility

// Evaluator determines whether a question should be visible based on its
// condition and the answers collected so far.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds answers keyed by
// question name: a string for single-value questions and a []string for
// multiple-choice ones. Extras allows callers to inject values that are not
// answers, reachable from rules as `${extras.key}`.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}
