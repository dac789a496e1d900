package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/markdown"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/views"
)

type profilPage struct {
	deps Deps
}

// Render prefers the page document cached in the local store and falls back
// to the static profile.
func (p *profilPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	if p.deps.Legacy != nil {
		doc, ok, err := p.deps.Legacy.Page(ctx, page.Profil)
		if err != nil {
			p.deps.Log.Warnf("pages: cached profile: %v", err)
		}
		if ok {
			p.deps.meta(ctx, page.Profil, doc.Title, "")
			return sections(views.PageHeader(doc.Title, ""), markdown.Component(doc.Body)), nil
		}
	}

	p.deps.meta(ctx, page.Profil, "Profil", p.deps.Site.Description)
	prof := p.deps.Static.Content().Profile
	parts := []templ.Component{
		views.PageHeader("Suar Indonesia", prof.Vision),
		views.Build(func(_ context.Context, w *views.Writer) {
			if len(prof.Mission) == 0 {
				return
			}
			w.Raw(`<section id="misi" class="block"><h2>Misi</h2><ol>`)
			for _, m := range prof.Mission {
				w.Elem("li", m)
			}
			w.Raw(`</ol></section>`)
		}),
	}
	for _, s := range prof.Sections {
		parts = append(parts, views.SectionBlock("", s))
	}
	return sections(parts...), nil
}

type staffPage struct {
	deps Deps
}

func (p *staffPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Staff, "Staff", "Tim Suar Indonesia.")
	staff := p.deps.Content.Staff(ctx)
	return sections(
		views.PageHeader("Staff Suar Indonesia", ""),
		views.Build(func(_ context.Context, w *views.Writer) {
			if len(staff) == 0 {
				w.Raw(`<p class="empty">Data staff belum tersedia.</p>`)
				return
			}
			w.Raw(`<div class="grid staff">`)
			for _, s := range staff {
				w.Raw(`<figure class="person">`)
				if s.Photo != "" {
					w.Raw(`<img loading="lazy"`)
					w.Attr("src", s.Photo)
					w.Attr("alt", s.Name)
					w.Raw(`/>`)
				}
				w.Raw(`<figcaption>`)
				w.Elem("strong", s.Name)
				w.Elem("span", s.Role)
				if s.Division != "" {
					w.Elem("small", s.Division)
				}
				w.Raw(`</figcaption></figure>`)
			}
			w.Raw(`</div>`)
		}),
	), nil
}

type kontakPage struct {
	deps Deps
}

func (p *kontakPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	p.deps.meta(ctx, page.Kontak, "Kontak", "Hubungi tim Suar Indonesia.")
	c := p.deps.Static.Content().Contact
	return sections(
		views.PageHeader("Kontak Tim Suar Indonesia", ""),
		views.Build(func(ctx context.Context, w *views.Writer) {
			w.Raw(`<section class="contact"><address>`)
			if c.Address != "" {
				w.Elem("p", c.Address)
			}
			if c.Phone != "" {
				w.Raw(`<p><a`)
				w.Href("tel:" + c.Phone)
				w.Raw(`>`)
				w.Text(c.Phone)
				w.Raw(`</a></p>`)
			}
			if c.Email != "" {
				w.Raw(`<p><a`)
				w.Href("mailto:" + c.Email)
				w.Raw(`>`)
				w.Text(c.Email)
				w.Raw(`</a></p>`)
			}
			w.Raw(`</address>`)

			w.Component(ctx, views.FlashNotice())
			w.Raw(`<form class="contact-form" method="post"`)
			w.Attr("action", page.Kontak)
			w.Raw(`><input type="hidden" name="_csrf"`)
			w.Attr("value", views.CSRF(ctx))
			w.Raw(`/>`)
			w.Raw(`<label>Nama <input name="name" required/></label>`)
			w.Raw(`<label>Email <input type="email" name="email" required/></label>`)
			w.Raw(`<label>Subjek <input name="subject"/></label>`)
			w.Raw(`<label>Pesan <textarea name="message" rows="5" required></textarea></label>`)
			w.Raw(`<button type="submit">Kirim</button></form></section>`)
		}),
	), nil
}
