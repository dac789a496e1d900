package pages

import (
	"context"
	"errors"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/markdown"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/views"
)

type homePage struct {
	deps Deps
}

func (p *homePage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Home, "", p.deps.Site.Description)
	c := p.deps.Static.Content()
	latest := p.deps.Content.Articles(ctx, "", 3)
	activities := p.deps.Content.Activities(ctx, 3)

	return sections(
		views.Hero(c.Slides),
		views.Build(func(_ context.Context, w *views.Writer) {
			w.Raw(`<section class="services-summary"><h2>Layanan Kami</h2><div class="grid">`)
			for _, svc := range c.Services {
				w.Raw(`<a class="card"`)
				w.Href(page.Layanan + "#" + svc.ID)
				w.Raw(` data-link>`)
				w.Elem("h3", svc.Title)
				w.Elem("p", svc.Description)
				w.Raw(`</a>`)
			}
			w.Raw(`</div></section>`)
		}),
		views.Build(func(ctx context.Context, w *views.Writer) {
			w.Raw(`<section class="latest"><h2>Berita Terbaru</h2>`)
			w.Component(ctx, views.ArticleGrid(latest, "Belum ada berita."))
			w.Raw(`<a class="button" href="/berita" data-link>Semua berita</a></section>`)
		}),
		activityList(activities, "Kegiatan Terbaru"),
	), nil
}

type beritaPage struct {
	deps Deps
}

func (p *beritaPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Berita, "Berita", "Kabar terbaru dari Suar Indonesia.")
	articles := p.deps.Content.Articles(ctx, "", 0)
	return sections(
		views.PageHeader("Berita", "Kabar terbaru dari lapangan dan kantor."),
		views.ArticleGrid(articles, "Belum ada berita."),
	), nil
}

type artikelPage struct {
	deps Deps
}

func (p *artikelPage) Render(ctx context.Context, params router.Params) (templ.Component, error) {
	slug := params.Get("slug")
	a, err := p.deps.Content.ArticleBySlug(ctx, slug)
	if errors.Is(err, content.ErrNotFound) {
		views.SetMeta(ctx, views.PageMeta{Title: "Artikel tidak ditemukan"})
		return views.ContentNotFound("Artikel", page.Berita), nil
	}
	if err != nil {
		return nil, err
	}

	views.SetMeta(ctx, views.PageMeta{
		Title:       a.Title,
		Description: a.Summary,
		URL:         views.BuildURL(p.deps.Site.URL, page.ArticlePath(a.Slug)),
		OGType:      "article",
		Image:       a.Image,
		JSONLD:      views.ArticleJsonLD(p.deps.Site, a),
	})
	return views.Build(func(ctx context.Context, w *views.Writer) {
		w.Raw(`<article class="article"><header>`)
		w.Elem("h1", a.Title)
		w.Raw(`<time`)
		w.Attr("datetime", a.Date)
		w.Raw(`>`)
		w.Text(views.FormatDate(a.Date))
		w.Raw(`</time>`)
		for _, c := range a.Categories {
			w.Raw(`<span class="tag">`)
			w.Text(c)
			w.Raw(`</span>`)
		}
		w.Raw(`</header>`)
		if a.Image != "" {
			w.Raw(`<img class="cover"`)
			w.Attr("src", a.Image)
			w.Attr("alt", a.Title)
			w.Raw(`/>`)
		}
		w.Raw(`<div class="prose">`)
		w.Component(ctx, markdown.Component(a.Content))
		w.Raw(`</div><a class="button" href="/berita" data-link>Kembali ke berita</a></article>`)
	}), nil
}
