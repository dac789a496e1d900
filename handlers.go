package suar

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/views"
)

func (a *App) handlePage(c echo.Context) error {
	return a.servePage(c, nil, 0)
}

// servePage resolves the request path through a request-scoped router and
// writes the mounted page. status overrides the status derived from the
// resolution when not zero.
func (a *App) servePage(c echo.Context, flash *views.Flash, status int) error {
	req := c.Request()
	host := router.NewMemoryHost(req.URL.Path)
	r := a.Router.WithHost(host)

	sink := &views.MetaSink{}
	ctx := views.WithMetaSink(req.Context(), sink)
	ctx = views.WithCSRF(ctx, CsrfToken(c))
	if flash != nil {
		ctx = views.WithFlash(ctx, *flash)
	}
	c.SetRequest(req.WithContext(ctx))

	res := r.ResolveCurrent(ctx)
	if !res.Matched && !res.Fallback {
		return echo.ErrNotFound
	}
	node, _ := host.Mounted()
	if node == nil {
		node = views.Unavailable()
	}

	code := resolutionStatus(res)
	if status != 0 && res.Err == nil {
		code = status
	}

	c.Response().Header().Add(echo.HeaderVary, "HX-Request")
	c.Response().Header().Add(echo.HeaderVary, page.PartialHeader)
	if isPartial(req) {
		return RenderStatus(c, code, node)
	}
	return RenderStatus(c, code, views.Layout(views.Shell{
		Site:   a.site(),
		Meta:   sink.Meta,
		Active: activeNav(res.Pattern),
		Client: a.clientReady,
	}, node))
}

func resolutionStatus(res router.Resolution) int {
	switch {
	case res.Err != nil:
		return http.StatusInternalServerError
	case res.Fallback, res.Pattern == page.NotFound:
		return http.StatusNotFound
	}
	return http.StatusOK
}

func isPartial(req *http.Request) bool {
	return req.Header.Get("HX-Request") == "true" || req.Header.Get(page.PartialHeader) == "true"
}

// activeNav maps a route pattern to the navigation entry it belongs to.
func activeNav(pattern string) string {
	switch pattern {
	case page.Artikel:
		return page.Berita
	case page.Matrik:
		return page.Supervisi
	}
	return pattern
}

func (a *App) handleContact(c echo.Context) error {
	msg := content.ContactMessage{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}
	saved, err := a.Repo.SubmitContact(c.Request().Context(), msg)
	switch {
	case err == nil:
		c.Logger().Infof("contact message %s received", saved.ID)
		return a.servePage(c, &views.Flash{Message: "Terima kasih, pesan Anda sudah kami terima."}, http.StatusOK)
	case errors.Is(err, content.ErrRemote):
		c.Logger().Errorf("contact message: %v", err)
		return a.servePage(c, &views.Flash{
			Message: "Pesan gagal dikirim. Silakan coba lagi nanti.",
			Error:   true,
		}, http.StatusBadGateway)
	default:
		return a.servePage(c, &views.Flash{Message: "Pesan belum lengkap: " + err.Error() + ".", Error: true},
			http.StatusUnprocessableEntity)
	}
}

// handlePublic serves the site's own public directory first and falls back
// to the assets embedded in the binary.
func (a *App) handlePublic(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))[1:]
	if name == "" {
		return echo.ErrNotFound
	}
	file := filepath.Join(a.Config.StaticDir, filepath.FromSlash(name))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		return c.File(file)
	}
	if _, err := fs.Stat(embeddedFS, name); err != nil {
		return echo.ErrNotFound
	}
	return echo.StaticFileHandler(name, embeddedFS)(c)
}

func (a *App) handleRobots(c echo.Context) error {
	file := filepath.Join(a.Config.StaticDir, "robots.txt")
	if _, err := os.Stat(file); err == nil {
		return c.File(file)
	}
	body := "User-agent: *\nDisallow: /admin\nSitemap: " + views.BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	return a.renderSitemap(c, a.Cache.Articles(ctx, "", 0), a.Cache.Matrices(ctx))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Articles(c.Request().Context(), "", feedSize))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.Layout(views.Shell{Site: a.site()}, views.NotFound()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.Layout(views.Shell{Site: a.site()}, views.ServerError()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
