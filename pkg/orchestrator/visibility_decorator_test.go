package orchestrator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/testsupport"
)

func questionNames(survey *model.Survey) []string {
	names := make([]string, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		names = append(names, string(q.Type)+":"+q.Name)
	}
	return names
}

func TestResolveConditions_DropsFalseGroup(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	if err := ResolveConditions(nil, map[string]any{"consent": "no"}).Decorate(survey); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	want := []string{"note:intro", "select_one:consent", "hidden:token"}
	if diff := cmp.Diff(want, questionNames(survey)); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveConditions_ClearsTrueConditions(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	if err := ResolveConditions(nil, map[string]any{"consent": "yes"}).Decorate(survey); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if len(survey.Questions) != 8 {
		t.Fatalf("expected every question kept, got %d", len(survey.Questions))
	}
	if survey.Questions[2].Conditional() {
		t.Fatalf("group condition should be cleared, got %q", survey.Questions[2].Relevant)
	}
	if !survey.Questions[5].Conditional() {
		t.Fatal("condition on an unknown field must stay for the runtime")
	}
}

func TestResolveConditions_SelectedMultiple(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	values := map[string]any{"consent": "yes", "pets": []string{"cat"}}
	if err := ResolveConditions(nil, values).Decorate(survey); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	for _, q := range survey.Questions {
		if q.Name == "dog_name_known" {
			t.Fatal("dog question should be dropped when no dog is selected")
		}
	}
}

func TestResolveConditions_NoValuesIsNoop(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	before := questionNames(survey)
	if err := ResolveConditions(nil, nil).Decorate(survey); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if diff := cmp.Diff(before, questionNames(survey)); diff != "" {
		t.Fatalf("questions changed (-want +got):\n%s", diff)
	}
}

func TestResolveConditions_InvalidCondition(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	survey.Questions[1].Relevant = "(${intro} = 1"
	if err := ResolveConditions(nil, map[string]any{"intro": "x"}).Decorate(survey); err == nil {
		t.Fatal("expected error for malformed condition")
	}
}
