package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRender_WalksVisibleQuestions(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		selectIdx: []int{0, 1},
		inputs:    []string{"Lima"},
		multiIdx:  [][]int{{0, 1}},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), testsupport.SampleSurvey(), render.RenderOptions{Language: "en"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode answers: %v", err)
	}
	want := map[string]any{
		"consent":        "yes",
		"city":           "Lima",
		"pets":           []any{"dog", "cat"},
		"dog_name_known": "no",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"Do you consent?", "City", "Pets", "Do you know its name?"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Welcome", "About you"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SkipsHiddenGroup(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{selectIdx: []int{1}}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), testsupport.SampleSurvey(), render.RenderOptions{Language: "es"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "consent=no\n" {
		t.Fatalf("unexpected answers %q", got)
	}
	if diff := cmp.Diff([]string{"¿Consiente?"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FormOutputAndPrefill(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{selectIdx: []int{1}}
	r := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithPrefill(map[string]any{"source": "kiosk"}),
	)
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), testsupport.SampleSurvey(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "consent=no&source=kiosk" {
		t.Fatalf("unexpected form payload %q", got)
	}
}

func TestRender_ConfirmSubmit(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{selectIdx: []int{1}, confirm: []bool{false}}
	r := New(WithPromptDriver(driver), WithConfirmSubmit(true))

	_, err := r.Render(context.Background(), testsupport.SampleSurvey(), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if last := driver.prompts[len(driver.prompts)-1]; last != "Submit" {
		t.Fatalf("expected submit confirmation, got %q", last)
	}
}

func TestRender_UnbalancedGroupEnd(t *testing.T) {
	t.Parallel()

	survey := &model.Survey{
		Languages: []model.Language{{Code: "en"}},
		Questions: []model.Question{{Type: model.QuestionTypeGroupEnd, Name: "g"}},
	}
	_, err := New(WithPromptDriver(&stubDriver{})).Render(context.Background(), survey, render.RenderOptions{})
	if !errors.Is(err, render.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestRender_DriverErrorPropagates(t *testing.T) {
	t.Parallel()

	_, err := New(WithPromptDriver(&stubDriver{})).Render(context.Background(), testsupport.SampleSurvey(), render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), "no select scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	got := plainText("Line one<br>Line <b>two</b> &amp; more")
	if got != "Line one\nLine two & more" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
