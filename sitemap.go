package suar

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapURLs lists every literal route except the not-found page, then one
// entry per article and per program matrix.
func (a *App) sitemapURLs(articles []content.Article, matrices []content.Matrix) []sitemapURL {
	base := a.Config.URL
	var urls []sitemapURL
	for _, p := range a.Router.Patterns() {
		if p.Kind() != router.Literal || p.String() == page.NotFound {
			continue
		}
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, p.String())})
	}
	for _, art := range articles {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, page.ArticlePath(art.Slug)),
			LastMod: art.Date,
		})
	}
	for _, m := range matrices {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, page.MatrixPath(m.ID))})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, articles []content.Article, matrices []content.Matrix) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  a.sitemapURLs(articles, matrices),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
