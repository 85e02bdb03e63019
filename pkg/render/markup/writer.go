// Package markup writes indented, well-formed nested markup. Elements are
// opened as scopes whose Close writes the matching closing tag; closing is
// idempotent and unwinds inner scopes first, so `defer scope.Close()` on every
// exit path always leaves the output balanced.
package markup

import (
	"html"
	"io"
	"strings"
)

// Attr is a single attribute. Attributes are kept in slices so output order
// is exactly the order given by the caller.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for building an Attr.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndent sets the string written once per nesting level (one space by
// default).
func WithIndent(unit string) Option {
	return func(w *Writer) {
		w.indent = unit
	}
}

// Writer emits markup to an io.Writer, tracking the open element stack. The
// first write error is kept and every later write becomes a no-op; check Err
// once rendering is done.
type Writer struct {
	out    io.Writer
	indent string
	stack  []*Scope
	err    error
}

// NewWriter wraps out.
func NewWriter(out io.Writer, options ...Option) *Writer {
	w := &Writer{out: out, indent: " "}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Scope is an open element. Close writes its closing tag.
type Scope struct {
	w      *Writer
	tag    string
	closed bool
}

// Tag returns the element name.
func (s *Scope) Tag() string { return s.tag }

// Closed reports whether the closing tag was written.
func (s *Scope) Closed() bool { return s == nil || s.closed }

// Close writes the closing tag, first closing any scope opened after s that
// is still open. Calling Close more than once is a no-op.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	w := s.w
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		top.closed = true
		w.writeIndent(len(w.stack))
		w.write("</" + top.tag + ">\n")
		if top == s {
			return
		}
	}
}

// Open writes the opening tag at the current indent and returns its scope.
func (w *Writer) Open(tag string, attrs ...Attr) *Scope {
	w.writeIndent(len(w.stack))
	w.write("<" + tag + formatAttrs(attrs) + ">\n")
	scope := &Scope{w: w, tag: tag}
	w.stack = append(w.stack, scope)
	return scope
}

// Within opens tag, runs fn and closes the scope whatever fn returns.
func (w *Writer) Within(tag string, attrs []Attr, fn func() error) error {
	scope := w.Open(tag, attrs...)
	defer scope.Close()
	if fn == nil {
		return nil
	}
	return fn()
}

// Leaf writes a void element.
func (w *Writer) Leaf(tag string, attrs ...Attr) {
	w.writeIndent(len(w.stack))
	w.write("<" + tag + formatAttrs(attrs) + " />\n")
}

// Text writes an element whose content is inner, verbatim, on one line.
func (w *Writer) Text(tag string, attrs []Attr, inner string) {
	w.writeIndent(len(w.stack))
	w.write("<" + tag + formatAttrs(attrs) + ">" + inner + "</" + tag + ">\n")
}

// Raw writes text verbatim, unindented, followed by a newline.
func (w *Writer) Raw(text string) {
	w.write(text)
	if !strings.HasSuffix(text, "\n") {
		w.write("\n")
	}
}

// CloseAll closes every open scope, innermost first.
func (w *Writer) CloseAll() {
	if len(w.stack) == 0 {
		return
	}
	w.stack[0].Close()
}

// Depth returns the number of open scopes, which is also the indent level.
func (w *Writer) Depth() int { return len(w.stack) }

// OpenScopes lists the tags of open scopes, outermost first.
func (w *Writer) OpenScopes() []string {
	out := make([]string, 0, len(w.stack))
	for _, s := range w.stack {
		out = append(out, s.tag)
	}
	return out
}

// Balanced reports whether every opened scope has been closed.
func (w *Writer) Balanced() bool { return len(w.stack) == 0 }

// Err returns the first error returned by the underlying writer.
func (w *Writer) Err() error { return w.err }

func (w *Writer) writeIndent(level int) {
	if level <= 0 || w.indent == "" {
		return
	}
	w.write(strings.Repeat(w.indent, level))
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

func formatAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range attrs {
		if attr.Key == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Value))
		b.WriteByte('"')
	}
	return b.String()
}
