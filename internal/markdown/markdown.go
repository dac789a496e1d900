// Package markdown renders the small Markdown dialect used by article bodies
// and page documents.
//
// Supported blocks: headings (#, ##, ###), paragraphs, unordered and ordered
// lists, block quotes, fenced code and horizontal rules. Inline: bold,
// italics, code, links and images. Links to site paths carry the router's
// link marker so the client resolves them without a reload.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// LinkMarker is the attribute that opts an anchor into client-side routing.
const LinkMarker = "data-link"

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reImage      = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s+`)
)

// Component returns a templ.Component rendering md.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

type block int

const (
	none block = iota
	para
	list
	ordered
	quote
	code
)

var closing = map[block]string{
	para:    "</p>",
	list:    "</ul>",
	ordered: "</ol>",
	quote:   "</blockquote>",
	code:    "</code></pre>",
}

type renderer struct {
	buf bytes.Buffer
	cur block
}

func (r *renderer) close() {
	if r.cur != none {
		r.buf.WriteString(closing[r.cur])
		r.cur = none
	}
}

// open switches to block b, writing tag when a new block starts. It reports
// whether b was already open.
func (r *renderer) open(b block, tag string) bool {
	if r.cur == b {
		return true
	}
	r.close()
	r.buf.WriteString(tag)
	r.cur = b
	return false
}

func (r *renderer) wrap(tag, text string) {
	r.close()
	r.buf.WriteString("<" + tag + ">" + Inline(text) + "</" + tag + ">")
}

// Render returns the HTML for md.
func Render(md string) string {
	var r renderer
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if r.cur == code {
				r.close()
			} else {
				r.open(code, `<pre><code>`)
			}
			continue
		}
		if r.cur == code {
			r.buf.WriteString(html.EscapeString(line) + "\n")
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case strings.HasPrefix(trimmed, "---"):
			r.close()
			r.buf.WriteString("<hr/>")
		case strings.HasPrefix(trimmed, "### "):
			r.wrap("h3", trimmed[4:])
		case strings.HasPrefix(trimmed, "## "):
			r.wrap("h2", trimmed[3:])
		case strings.HasPrefix(trimmed, "# "):
			r.wrap("h1", trimmed[2:])
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			r.open(list, "<ul>")
			r.buf.WriteString("<li>" + Inline(trimmed[2:]) + "</li>")
		case reOrdered.MatchString(trimmed):
			r.open(ordered, "<ol>")
			r.buf.WriteString("<li>" + Inline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>")
		case strings.HasPrefix(trimmed, "> "):
			if r.open(quote, "<blockquote>") {
				r.buf.WriteString(" ")
			}
			r.buf.WriteString(Inline(trimmed[2:]))
		default:
			if r.open(para, "<p>") {
				r.buf.WriteString(" ")
			}
			r.buf.WriteString(Inline(trimmed))
		}
	}
	r.close()
	return r.buf.String()
}

// Inline escapes s and applies inline formatting.
func Inline(s string) string {
	out := html.EscapeString(s)
	out = reImage.ReplaceAllStringFunc(out, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		src := SafeURL(sub[2])
		if src == "" {
			return sub[1]
		}
		return `<img src="` + src + `" alt="` + sub[1] + `" loading="lazy" decoding="async"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		href := SafeURL(sub[2])
		if href == "" {
			return sub[1]
		}
		switch {
		case strings.HasPrefix(href, "/"):
			return `<a href="` + href + `" ` + LinkMarker + `>` + sub[1] + `</a>`
		case strings.HasPrefix(href, "#"):
			return `<a href="` + href + `">` + sub[1] + `</a>`
		default:
			return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + sub[1] + `</a>`
		}
	})
	return outsideTags(out, func(seg string) string {
		seg = reInlineCode.ReplaceAllString(seg, "<code>$1</code>")
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})
}

// outsideTags applies fn to the text between HTML tags only, so formatting
// never rewrites attribute values.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an attribute when it is a site path, an
// anchor, or an http(s), mailto or tel URL, and "" otherwise.
func SafeURL(raw string) string {
	v := strings.TrimSpace(html.UnescapeString(raw))
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") || strings.HasPrefix(v, "#") {
		return html.EscapeString(v)
	}
	u, err := url.Parse(v)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(v)
	}
	return ""
}
