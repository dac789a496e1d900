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

type layananPage struct {
	deps Deps
}

// Render gives every service an anchor, so "/layanan#<id>" scrolls to it.
func (p *layananPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Layanan, "Layanan", "Program dan layanan Suar Indonesia.")
	services := p.deps.Static.Content().Services
	return sections(
		views.PageHeader("Layanan", ""),
		views.Build(func(_ context.Context, w *views.Writer) {
			w.Raw(`<nav class="toc"><ul>`)
			for _, svc := range services {
				w.Raw(`<li><a`)
				w.Href("#" + svc.ID)
				w.Raw(` data-link>`)
				w.Text(svc.Title)
				w.Raw(`</a></li>`)
			}
			w.Raw(`</ul></nav>`)
			for _, svc := range services {
				w.Raw(`<section class="service"`)
				w.Attr("id", svc.ID)
				w.Raw(`>`)
				w.Elem("h2", svc.Title)
				w.Elem("p", svc.Description)
				if len(svc.Points) > 0 {
					w.Raw(`<ul>`)
					for _, pt := range svc.Points {
						w.Elem("li", pt)
					}
					w.Raw(`</ul>`)
				}
				w.Raw(`</section>`)
			}
		}),
	), nil
}

type produkPage struct {
	deps Deps
}

func (p *produkPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Produk, "Produk", "Publikasi dan produk pengetahuan Suar Indonesia.")
	products := p.deps.Static.Content().Products
	return sections(
		views.PageHeader("Produk", "Publikasi, modul dan materi edukasi."),
		views.Build(func(_ context.Context, w *views.Writer) {
			if len(products) == 0 {
				w.Raw(`<p class="empty">Belum ada produk.</p>`)
				return
			}
			w.Raw(`<div class="grid">`)
			for _, pr := range products {
				w.Raw(`<div class="card">`)
				if pr.Image != "" {
					w.Raw(`<img loading="lazy"`)
					w.Attr("src", pr.Image)
					w.Attr("alt", pr.Name)
					w.Raw(`/>`)
				}
				w.Elem("h3", pr.Name)
				w.Elem("p", pr.Description)
				if pr.Link != "" {
					w.Raw(`<a class="button"`)
					w.Href(pr.Link)
					w.Raw(` target="_blank" rel="noopener">Unduh</a>`)
				}
				w.Raw(`</div>`)
			}
			w.Raw(`</div>`)
		}),
	), nil
}

type kegiatanPage struct {
	deps Deps
}

func (p *kegiatanPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Kegiatan, "Kegiatan", "Kegiatan Suar Indonesia bersama komunitas.")
	return sections(
		views.PageHeader("Kegiatan Suar Indonesia", ""),
		activityList(p.deps.Content.Activities(ctx, 0), ""),
	), nil
}

func activityList(activities []content.Activity, title string) templ.Component {
	return views.Build(func(_ context.Context, w *views.Writer) {
		w.Raw(`<section class="activities">`)
		if title != "" {
			w.Elem("h2", title)
		}
		if len(activities) == 0 {
			w.Raw(`<p class="empty">Belum ada kegiatan.</p></section>`)
			return
		}
		w.Raw(`<ul class="timeline">`)
		for _, a := range activities {
			w.Raw(`<li`)
			w.Attr("id", "kegiatan-"+a.ID)
			w.Raw(`><time`)
			w.Attr("datetime", a.Date)
			w.Raw(`>`)
			w.Text(views.FormatDate(a.Date))
			w.Raw(`</time>`)
			w.Elem("h3", a.Title)
			if a.Location != "" {
				w.Raw(`<p class="location">`)
				w.Text(a.Location)
				w.Raw(`</p>`)
			}
			if a.Description != "" {
				w.Elem("p", a.Description)
			}
			w.Raw(`</li>`)
		}
		w.Raw(`</ul></section>`)
	})
}

type supervisiPage struct {
	deps Deps
}

func (p *supervisiPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Supervisi, "Supervisi Program", "Supervisi dan matriks program Suar Indonesia.")
	sup := p.deps.Static.Content().Supervision
	matrices := p.deps.Content.Matrices(ctx)
	return sections(
		views.PageHeader("Supervisi Program", ""),
		views.SectionBlock("", content.Section{Paragraphs: sup.Paragraphs}),
		views.Build(func(_ context.Context, w *views.Writer) {
			w.Raw(`<section class="matrices"><h2>Matriks Program</h2>`)
			if len(matrices) == 0 {
				w.Raw(`<p class="empty">Belum ada matriks program.</p></section>`)
				return
			}
			w.Raw(`<ul>`)
			for _, m := range matrices {
				w.Raw(`<li><a`)
				w.Href(page.MatrixPath(m.ID))
				w.Raw(` data-link>`)
				w.Text(m.Program)
				w.Raw(`</a> <small>`)
				w.Text(m.Period)
				w.Raw(`</small></li>`)
			}
			w.Raw(`</ul></section>`)
		}),
	), nil
}

type matrikPage struct {
	deps Deps
}

func (p *matrikPage) Render(ctx context.Context, params router.Params) (templ.Component, error) {
	id := params.Get("id")
	m, err := p.deps.Content.MatrixByID(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		views.SetMeta(ctx, views.PageMeta{Title: "Matriks tidak ditemukan"})
		return views.ContentNotFound("Matriks program", page.Supervisi), nil
	}
	if err != nil {
		return nil, err
	}

	p.deps.meta(ctx, page.MatrixPath(m.ID), m.Program, m.Summary)
	return views.Build(func(ctx context.Context, w *views.Writer) {
		w.Raw(`<article class="matrix">`)
		w.Elem("h1", m.Program)
		w.Raw(`<p class="period">Periode `)
		w.Text(m.Period)
		w.Raw(`</p>`)
		if m.Summary != "" {
			w.Component(ctx, markdown.Component(m.Summary))
		}
		w.Raw(`<table><thead><tr><th>Indikator</th><th>Target</th><th>Capaian</th></tr></thead><tbody>`)
		for _, ind := range m.Indicators {
			w.Raw(`<tr>`)
			w.Elem("td", ind.Name)
			w.Elem("td", ind.Target)
			w.Elem("td", ind.Achieved)
			w.Raw(`</tr>`)
		}
		w.Raw(`</tbody></table><a class="button" href="/supervisi-program" data-link>Kembali</a></article>`)
	}), nil
}
