package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suarindonesia/website/internal/content"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 Desember 2024", FormatDate("2024-12-01"))
	assert.Equal(t, "17 Agustus 1945", FormatDate("1945-08-17"))
	assert.Equal(t, "kemarin", FormatDate("kemarin"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://suar.or.id/artikel/halo", BuildURL("https://suar.or.id", "artikel", "halo"))
	assert.Equal(t, "https://suar.or.id/", BuildURL("https://suar.or.id"))
}

func TestArticleJsonLD(t *testing.T) {
	out := ArticleJsonLD(SiteConfig{Name: "Suar", URL: "https://suar.or.id"}, content.Article{
		Slug: "halo", Title: "Halo", Date: "2024-01-02", Categories: []string{"berita", "program"},
	})
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "NewsArticle", data["@type"])
	assert.Equal(t, "https://suar.or.id/artikel/halo", data["url"])
	assert.Equal(t, "berita, program", data["keywords"])
}

func TestWriterEscapes(t *testing.T) {
	c := Build(func(_ context.Context, w *Writer) {
		w.Raw(`<a`)
		w.Href("javascript:alert(1)")
		w.Raw(`>`)
		w.Text(`<script>`)
		w.Raw(`</a>`)
	})
	out := render(t, context.Background(), c)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestLayout(t *testing.T) {
	out := render(t, context.Background(), Layout(Shell{
		Site:   SiteConfig{Name: "Suar Indonesia", URL: "https://suar.or.id"},
		Meta:   PageMeta{Title: "Layanan", URL: "https://suar.or.id/layanan"},
		Active: "/layanan",
	}, templ.Raw("<p>isi</p>")))

	assert.Contains(t, out, `<title>Layanan | Suar Indonesia</title>`)
	assert.Contains(t, out, `<main id="app"><p>isi</p></main>`)
	assert.Contains(t, out, `href="/layanan" class="active" aria-current="page" data-link>`)
	assert.Contains(t, out, `<link rel="canonical" href="https://suar.or.id/layanan"/>`)
	assert.NotContains(t, out, "boot.js")
	assert.Equal(t, len(Nav), strings.Count(out, "<li><a"))
}

func TestJSONLDCannotCloseScript(t *testing.T) {
	out := render(t, context.Background(), Layout(Shell{Meta: PageMeta{JSONLD: `{"x":"</script>"}`}}, nil))
	assert.NotContains(t, out, `"</script>"`)
}

func TestFlashNotice(t *testing.T) {
	assert.Empty(t, render(t, context.Background(), FlashNotice()))

	ctx := WithFlash(context.Background(), Flash{Message: "Terkirim"})
	assert.Contains(t, render(t, ctx, FlashNotice()), "Terkirim")
}

func TestMetaSink(t *testing.T) {
	sink := &MetaSink{}
	ctx := WithMetaSink(context.Background(), sink)
	SetMeta(ctx, PageMeta{Title: "Berita"})
	assert.True(t, sink.Declared())
	assert.Equal(t, "Berita", sink.Meta.Title)

	SetMeta(context.Background(), PageMeta{Title: "ignored"})
}

func TestArticleGridEmpty(t *testing.T) {
	out := render(t, context.Background(), ArticleGrid(nil, "Belum ada berita."))
	assert.Contains(t, out, "Belum ada berita.")
}
