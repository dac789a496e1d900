package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/content"
)

// PageHeader renders the title block at the top of a page.
func PageHeader(title, lead string) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<header class="page-header">`)
		w.Elem("h1", title)
		if lead != "" {
			w.Raw(`<p class="lead">`)
			w.Text(lead)
			w.Raw(`</p>`)
		}
		w.Raw(`</header>`)
	})
}

// Hero renders the carousel of slides.
func Hero(slides []content.Slide) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		if len(slides) == 0 {
			return
		}
		w.Raw(`<section class="hero" data-carousel>`)
		for i, s := range slides {
			w.Raw(`<div class="slide`)
			if i == 0 {
				w.Raw(` active`)
			}
			w.Raw(`"`)
			if s.Image != "" {
				w.Attr("style", "background-image:url("+s.Image+")")
			}
			w.Raw(`><div class="slide-text">`)
			w.Elem("h2", s.Title)
			if s.Subtitle != "" {
				w.Elem("p", s.Subtitle)
			}
			if s.Link != "" {
				w.Raw(`<a class="button"`)
				w.Href(s.Link)
				w.Raw(` data-link>Selengkapnya</a>`)
			}
			w.Raw(`</div></div>`)
		}
		w.Raw(`</section>`)
	})
}

// ArticleCard renders an article teaser linking to its detail page.
func ArticleCard(a content.Article) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		href := "/artikel/" + a.Slug
		w.Raw(`<article class="card">`)
		if a.Image != "" {
			w.Raw(`<img loading="lazy"`)
			w.Attr("src", a.Image)
			w.Attr("alt", a.Title)
			w.Raw(`/>`)
		}
		w.Raw(`<time`)
		w.Attr("datetime", a.Date)
		w.Raw(`>`)
		w.Text(FormatDate(a.Date))
		w.Raw(`</time><h3><a`)
		w.Href(href)
		w.Raw(` data-link>`)
		w.Text(a.Title)
		w.Raw(`</a></h3>`)
		if a.Summary != "" {
			w.Elem("p", a.Summary)
		}
		w.Raw(`</article>`)
	})
}

// ArticleGrid renders teasers for articles, or empty when there are none.
func ArticleGrid(articles []content.Article, empty string) templ.Component {
	return Build(func(ctx context.Context, w *Writer) {
		if len(articles) == 0 {
			w.Raw(`<p class="empty">`)
			w.Text(empty)
			w.Raw(`</p>`)
			return
		}
		w.Raw(`<div class="grid">`)
		for _, a := range articles {
			w.Component(ctx, ArticleCard(a))
		}
		w.Raw(`</div>`)
	})
}

// SectionBlock renders a titled block of paragraphs. id, when set, makes the
// block an anchor target.
func SectionBlock(id string, s content.Section) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<section class="block"`)
		if id != "" {
			w.Attr("id", id)
		}
		w.Raw(`>`)
		if s.Title != "" {
			w.Elem("h2", s.Title)
		}
		for _, p := range s.Paragraphs {
			w.Elem("p", p)
		}
		w.Raw(`</section>`)
	})
}

// FlashNotice renders the flash stored in ctx, if any.
func FlashNotice() templ.Component {
	return Build(func(ctx context.Context, w *Writer) {
		f, ok := FlashFrom(ctx)
		if !ok {
			return
		}
		class := "flash"
		if f.Error {
			class += " flash-error"
		}
		w.Raw(`<div role="status"`)
		w.Attr("class", class)
		w.Raw(`>`)
		w.Text(f.Message)
		w.Raw(`</div>`)
	})
}
