package markup

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriter_NestedScopesIndentAndClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	html := w.Open("html", A("class", "notranslate"))
	body := w.Open("body")
	w.Text("span", []Attr{A("name", "t0")}, "Hello <br> world")
	w.Leaf("input", A("type", "radio"), A("name", "q1"), A("value", "yes"))
	body.Close()
	html.Close()

	want := "<html class=\"notranslate\">\n" +
		" <body>\n" +
		"  <span name=\"t0\">Hello <br> world</span>\n" +
		"  <input type=\"radio\" name=\"q1\" value=\"yes\" />\n" +
		" </body>\n" +
		"</html>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !w.Balanced() || w.Depth() != 0 {
		t.Fatalf("expected balanced writer, open scopes: %v", w.OpenScopes())
	}
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	scope := w.Open("div")
	scope.Close()
	scope.Close()

	if got := buf.String(); got != "<div>\n</div>\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWriter_OuterCloseUnwindsInnerScopes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WithIndent("\t"))
	outer := w.Open("form")
	inner := w.Open("div")
	w.Open("label")

	outer.Close()
	if !inner.Closed() {
		t.Fatalf("expected inner scope closed by outer close")
	}
	want := "<form>\n\t<div>\n\t\t<label>\n\t\t</label>\n\t</div>\n</form>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_WithinReleasesOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	boom := errors.New("boom")

	err := w.Within("main", []Attr{A("role", "main")}, func() error {
		return w.Within("section", nil, func() error {
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if w.Depth() != 0 {
		t.Fatalf("expected depth 0 after error, got %d (%v)", w.Depth(), w.OpenScopes())
	}
	want := "<main role=\"main\">\n <section>\n </section>\n</main>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_DeferredReleaseOnPanicPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	func() {
		defer func() { _ = recover() }()
		scope := w.Open("div")
		defer scope.Close()
		panic("abort")
	}()

	if !w.Balanced() {
		t.Fatalf("expected deferred close to run, open scopes: %v", w.OpenScopes())
	}
}

func TestWriter_EscapesAttributeValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Leaf("div", A("style", `background-image: url('x')`), A("data-x", `"quoted" & <b>`))

	want := `<div style="background-image: url(&#39;x&#39;)" data-x="&#34;quoted&#34; &amp; &lt;b&gt;" />` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_RawIsUnindented(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	scope := w.Open("script")
	w.Raw("var x = 1;")
	w.Raw("var y = 2;\n")
	scope.Close()

	want := "<script>\nvar x = 1;\nvar y = 2;\n</script>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func TestWriter_StickyError(t *testing.T) {
	t.Parallel()

	out := &failingWriter{}
	w := NewWriter(out)
	scope := w.Open("div")
	w.Text("span", nil, "x")
	scope.Close()

	if w.Err() == nil {
		t.Fatalf("expected write error")
	}
	if out.calls != 1 {
		t.Fatalf("expected writes to stop after the first failure, got %d calls", out.calls)
	}
	if !w.Balanced() {
		t.Fatalf("scope bookkeeping must stay consistent on write errors")
	}
}

func TestWriter_CloseAllUnwindsEveryScope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	html := w.Open("html")
	w.Open("body")
	w.Open("form")

	w.CloseAll()
	w.CloseAll()

	if !w.Balanced() || !html.Closed() {
		t.Fatalf("expected every scope closed, open scopes: %v", w.OpenScopes())
	}
	want := "<html>\n <body>\n  <form>\n  </form>\n </body>\n</html>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
