package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**tebal**", "<strong>tebal</strong>"},
		{"*miring*", "<em>miring</em>"},
		{"teks **tebal *miring* lagi**", "teks <strong>tebal <em>miring</em> lagi</strong>"},
		{"pakai `kode`", "pakai <code>kode</code>"},
		{"a < b & c", "a &lt; b &amp; c"},
		{"[berita](/berita)", `<a href="/berita" data-link>berita</a>`},
		{"[bagian](#hiv-aids)", `<a href="#hiv-aids">bagian</a>`},
		{"[situs](https://example.org)", `<a href="https://example.org" target="_blank" rel="noopener noreferrer">situs</a>`},
		{"[buruk](javascript:void)", "buruk"},
		{"![foto](/public/a.jpg)", `<img src="/public/a.jpg" alt="foto" loading="lazy" decoding="async"/>`},
	}
	for _, tt := range tests {
		if got := Inline(tt.input); got != tt.expected {
			t.Errorf("Inline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineLeavesAttributesAlone(t *testing.T) {
	got := Inline("[tautan](/a_b_c*d*)")
	if !strings.Contains(got, `href="/a_b_c*d*"`) {
		t.Errorf("href rewritten: %q", got)
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"heading", "# Judul", "<h1>Judul</h1>"},
		{"subheadings", "## Dua\n### Tiga", "<h2>Dua</h2><h3>Tiga</h3>"},
		{"paragraph joins lines", "satu\ndua\n\ntiga", "<p>satu dua</p><p>tiga</p>"},
		{"list", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered list", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"quote", "> kutipan\n> lanjut", "<blockquote>kutipan lanjut</blockquote>"},
		{"code", "```\n<b>x</b>\n```", "<pre><code>&lt;b&gt;x&lt;/b&gt;\n</code></pre>"},
		{"rule", "a\n---\nb", "<p>a</p><hr/><p>b</p>"},
		{"list then paragraph", "- a\nteks", "<ul><li>a</li></ul><p>teks</p>"},
		{"unclosed code", "```\nx", "<pre><code>x\n</code></pre>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.input); got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Component("**hai**").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<p><strong>hai</strong></p>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := map[string]string{
		"/berita":             "/berita",
		"#atas":               "#atas",
		"https://example.org": "https://example.org",
		"mailto:a@b.org":      "mailto:a@b.org",
		"//evil.example":      "",
		"javascript:alert(1)": "",
		"":                    "",
	}
	for in, want := range tests {
		if got := SafeURL(in); got != want {
			t.Errorf("SafeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
