package suar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/page"
)

const testPassword = "rahasia"

func seededRemote() *content.MemoryRemote {
	remote := content.NewMemoryRemote()
	remote.Seed(content.TableArticles,
		content.Row{
			"slug": "hari-aids", "title": "Hari AIDS Sedunia", "date": "2024-12-01",
			"summary": "Peringatan bersama komunitas.", "published": true,
			"content": "Peringatan **bersama** komunitas.", "categories": []any{"berita"},
		},
		content.Row{"slug": "draf", "title": "Draf", "date": "2024-12-05", "published": false},
	)
	remote.Seed(content.TableMatrices, content.Row{"id": "7", "program": "Penjangkauan", "period": "2024"})
	return remote
}

func testConfig(t *testing.T) SiteConfig {
	t.Helper()
	return SiteConfig{
		Name:          "Suar Indonesia",
		URL:           "https://suar.or.id",
		StoreDir:      t.TempDir(),
		ContentDir:    t.TempDir(),
		StaticDir:     t.TempDir(),
		AdminPassword: testPassword,
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, remote content.Remote) *App {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	a := New(cfg,
		WithLogger(logging.Discard()),
		WithRemote(remote),
		WithStatic(content.DefaultContent()),
	)
	require.NoError(t, a.Setup(ctx))
	t.Cleanup(func() {
		cancel()
		a.Close()
	})
	return a
}

// client carries cookies between requests to an App.
type client struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *App) *client {
	return &client{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.do(req)
}

// postForm submits form with the CSRF token issued by an earlier GET.
func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	if _, ok := c.cookies["_csrf"]; !ok {
		c.get(page.Kontak)
	}
	require.Contains(c.t, c.cookies, "_csrf")
	form.Set("_csrf", c.cookies["_csrf"].Value)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestServesEveryRoute(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	c := newClient(t, a)

	for _, path := range []string{
		"/", "/berita", "/layanan", "/produk", "/kegiatan-suar-indonesia",
		"/kontak-tim-suar-indonesia", "/suar-indonesia", "/staff-suar-indonesia",
		"/supervisi-program", "/artikel/hari-aids", "/matrik/7",
	} {
		t.Run(path, func(t *testing.T) {
			rec := c.get(path)
			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
			assert.Contains(t, body, `<main id="app">`)
		})
	}
}

func TestArticlePageShell(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	rec := newClient(t, a).get("/artikel/hari-aids")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Hari AIDS Sedunia | Suar Indonesia</title>")
	assert.Contains(t, body, `<link rel="canonical" href="https://suar.or.id/artikel/hari-aids"/>`)
	assert.Contains(t, body, "<strong>bersama</strong>")
	assert.Contains(t, body, `href="/berita" class="active"`)
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	c := newClient(t, a)

	for _, path := range []string{"/tidak-ada", "/artikel/a/b", "/404"} {
		rec := c.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Halaman tidak ditemukan", path)
	}
}

func TestMissingSlugKeepsShell(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	rec := newClient(t, a).get("/artikel/draf")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Artikel tidak ditemukan")
	assert.Contains(t, rec.Body.String(), `<main id="app">`)
}

func TestPartialRequest(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	c := newClient(t, a)

	for _, h := range [][2]string{{page.PartialHeader, "true"}, {"HX-Request", "true"}} {
		rec := c.get("/berita", h[0], h[1])
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.NotContains(t, body, "<!DOCTYPE html>")
		assert.NotContains(t, body, `<main id="app">`)
		assert.Contains(t, body, "Hari AIDS Sedunia")
	}

	rec := c.get("/tidak-ada", page.PartialHeader, "true")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Halaman tidak ditemukan")
}

func TestTrailingSlashRedirects(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	rec := newClient(t, a).get("/berita/")

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/berita", rec.Header().Get("Location"))
}

func TestRemoteOutageServesCache(t *testing.T) {
	remote := seededRemote()
	a := newTestApp(t, testConfig(t), remote)
	c := newClient(t, a)

	require.Equal(t, http.StatusOK, c.get("/berita").Code)

	remote.SetErr(errors.New("offline"))
	a.Cache.Invalidate()

	rec := c.get("/berita")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hari AIDS Sedunia")

	rec = c.get("/staff-suar-indonesia")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data staff belum tersedia.")
}

func TestContactForm(t *testing.T) {
	remote := seededRemote()
	a := newTestApp(t, testConfig(t), remote)
	c := newClient(t, a)

	rec := c.postForm(page.Kontak, url.Values{
		"name": {"Ayu"}, "email": {"ayu@example.org"}, "message": {"Halo, tim Suar."},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pesan Anda sudah kami terima")

	rows := remote.Rows(content.TableContact)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ayu", rows[0]["name"])
	assert.NotEmpty(t, rows[0]["id"])

	rec = c.postForm(page.Kontak, url.Values{"name": {"Ayu"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "email wajib diisi")

	remote.SetErr(errors.New("offline"))
	rec = c.postForm(page.Kontak, url.Values{
		"name": {"Ayu"}, "email": {"ayu@example.org"}, "message": {"Halo"},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pesan gagal dikirim")
}

func TestContactFormRequiresCSRF(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	req := httptest.NewRequest(http.MethodPost, page.Kontak, strings.NewReader("name=Ayu"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := newClient(t, a).do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSitemapAndFeed(t *testing.T) {
	a := newTestApp(t, testConfig(t), seededRemote())
	c := newClient(t, a)

	rec := c.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://suar.or.id/</loc>")
	assert.Contains(t, body, "<loc>https://suar.or.id/layanan</loc>")
	assert.Contains(t, body, "<loc>https://suar.or.id/artikel/hari-aids</loc>")
	assert.Contains(t, body, "<loc>https://suar.or.id/matrik/7</loc>")
	assert.NotContains(t, body, "/404")
	assert.NotContains(t, body, ":slug")
	assert.NotContains(t, body, "draf")

	rec = c.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "<title>Hari AIDS Sedunia</title>")
	assert.Contains(t, rec.Body.String(), "<category>berita</category>")
}

func TestPublicAssets(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg, seededRemote())
	c := newClient(t, a)

	rec := c.get("/public/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--nav-height")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticDir, "site.css"), []byte("body{}"), 0o644))
	rec = c.get("/public/site.css")
	assert.Equal(t, "body{}", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, c.get("/public/nope.js").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/public/../go.mod").Code)

	rec = c.get("/robots.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://suar.or.id/sitemap.xml")
}

func TestStoreFailureServesStartupScreen(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.StoreDir = blocker

	a := newTestApp(t, cfg, seededRemote())
	c := newClient(t, a)

	rec := c.get("/berita")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Situs gagal dimuat")
	assert.Contains(t, rec.Body.String(), "window.location.reload()")

	assert.Equal(t, http.StatusOK, c.get("/public/site.css").Code)
}

func TestClientScriptsOnlyWhenEnabled(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg, seededRemote())
	assert.NotContains(t, newClient(t, a).get("/").Body.String(), "boot.js")

	cfg = testConfig(t)
	cfg.Client = true
	a = newTestApp(t, cfg, seededRemote())
	assert.NotContains(t, newClient(t, a).get("/").Body.String(), "boot.js", "client assets not built")
}

func TestClientAssetsResolve(t *testing.T) {
	cfg := testConfig(t)
	cfg.Client = true
	for _, name := range ClientAssets {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticDir, name), []byte(name), 0o644))
	}
	a := newTestApp(t, cfg, seededRemote())
	c := newClient(t, a)

	body := c.get("/").Body.String()
	assert.Contains(t, body, `<script src="/public/wasm_exec.js" defer></script><script src="/public/boot.js" defer></script>`)

	for _, src := range []string{"/public/wasm_exec.js", "/public/boot.js", "/public/suar.wasm"} {
		rec := c.get(src)
		assert.Equal(t, http.StatusOK, rec.Code, src)
	}
	assert.Contains(t, c.get("/public/boot.js").Body.String(), "/public/suar.wasm")
}
