package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer emits markup to an io.Writer and keeps the first write error, so
// components can write without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes parts unescaped.
func (w *Writer) Raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

// Text writes s HTML-escaped.
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (w *Writer) Attr(name, value string) {
	w.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Href writes an href attribute, dropping unsafe URLs.
func (w *Writer) Href(url string) {
	w.Attr("href", string(templ.URL(url)))
}

// Elem writes <tag>text</tag> with text escaped.
func (w *Writer) Elem(tag, text string) {
	w.Raw("<", tag, ">")
	w.Text(text)
	w.Raw("</", tag, ">")
}

// Component renders c in place.
func (w *Writer) Component(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Build turns fn into a templ.Component.
func Build(fn func(ctx context.Context, w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := NewWriter(out)
		fn(ctx, w)
		return w.Err()
	})
}
