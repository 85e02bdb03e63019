package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, *model.Survey, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("vanilla"))
	if err := registry.Register(namedRenderer("tui")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(namedRenderer("tui")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatal("expected empty name to fail")
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("vanilla") || registry.Has("pdf") {
		t.Fatal("unexpected Has result")
	}
	if _, err := registry.Get("pdf"); err == nil {
		t.Fatal("expected unknown renderer error")
	}
	got, err := registry.Get("tui")
	if err != nil || got.Name() != "tui" {
		t.Fatalf("get tui: %v %v", got, err)
	}
}
