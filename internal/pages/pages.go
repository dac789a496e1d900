// Package pages holds the pages of the site's route table.
//
// Every page is built fresh for each navigation by a page.Factory and never
// fails for missing content: lookups that miss render a "not found"
// placeholder and remote failures render an empty state.
package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/views"
)

// Content is the data source pages query.
type Content interface {
	Articles(ctx context.Context, category string, limit int) []content.Article
	ArticleBySlug(ctx context.Context, slug string) (content.Article, error)
	Activities(ctx context.Context, limit int) []content.Activity
	Staff(ctx context.Context) []content.StaffMember
	Matrices(ctx context.Context) []content.Matrix
	MatrixByID(ctx context.Context, id string) (content.Matrix, error)
}

// Deps are the collaborators shared by all pages.
type Deps struct {
	Site    views.SiteConfig
	Content Content
	Static  *content.Static
	Legacy  *content.Legacy // optional
	Log     logging.Logger
}

// Factories maps every route of page.Routes to the factory of its page.
func Factories(d Deps) map[string]page.Factory {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Static == nil {
		d.Static = content.NewStatic(content.DefaultContent())
	}
	return map[string]page.Factory{
		page.Home:      func() page.Page { return &homePage{deps: d} },
		page.Berita:    func() page.Page { return &beritaPage{deps: d} },
		page.Layanan:   func() page.Page { return &layananPage{deps: d} },
		page.Produk:    func() page.Page { return &produkPage{deps: d} },
		page.Kegiatan:  func() page.Page { return &kegiatanPage{deps: d} },
		page.Kontak:    func() page.Page { return &kontakPage{deps: d} },
		page.Profil:    func() page.Page { return &profilPage{deps: d} },
		page.Staff:     func() page.Page { return &staffPage{deps: d} },
		page.Supervisi: func() page.Page { return &supervisiPage{deps: d} },
		page.NotFound:  func() page.Page { return notFoundPage{} },
		page.Artikel:   func() page.Page { return &artikelPage{deps: d} },
		page.Matrik:    func() page.Page { return &matrikPage{deps: d} },
	}
}

// Register adds the route table to r in page.Routes order.
func Register(r *router.Router, d Deps) *router.Router {
	factories := Factories(d)
	for _, pattern := range page.Routes {
		r.Register(pattern, page.Handler(factories[pattern]))
	}
	return r
}

func (d Deps) meta(ctx context.Context, path, title, description string) {
	views.SetMeta(ctx, views.PageMeta{
		Title:       title,
		Description: description,
		URL:         views.BuildURL(d.Site.URL, path),
	})
}

// sections joins components into one.
func sections(parts ...templ.Component) templ.Component {
	return views.Build(func(ctx context.Context, w *views.Writer) {
		for _, p := range parts {
			w.Component(ctx, p)
		}
	})
}

type notFoundPage struct{}

func (notFoundPage) Render(ctx context.Context, _ router.Params) (templ.Component, error) {
	views.SetMeta(ctx, views.PageMeta{Title: "Halaman tidak ditemukan"})
	return views.NotFound(), nil
}
