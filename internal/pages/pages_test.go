package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/store"
	"github.com/suarindonesia/website/internal/views"
)

func testDeps(t *testing.T) (Deps, *content.MemoryRemote) {
	t.Helper()
	remote := content.NewMemoryRemote()
	remote.Seed(content.TableArticles, content.Row{
		"slug": "hari-aids", "title": "Hari AIDS Sedunia", "date": "2024-12-01",
		"published": true, "content": "Peringatan **bersama** komunitas.",
		"categories": []any{"berita", "program"},
	})
	remote.Seed(content.TableMatrices, content.Row{
		"id": "7", "program": "Penjangkauan", "period": "2024",
		"indicators": []any{map[string]any{"name": "Orang dijangkau", "target": "500", "achieved": "420"}},
	})
	remote.Seed(content.TableActivities, content.Row{"id": "1", "title": "Pelatihan Konselor", "date": "2024-11-20"})
	remote.Seed(content.TableStaff, content.Row{"id": "a", "name": "Ayu", "role": "Direktur", "sort_order": 1})

	return Deps{
		Site:    views.SiteConfig{Name: "Suar Indonesia", URL: "https://suar.or.id"},
		Content: content.NewRepository(remote, nil, nil),
		Static:  content.NewStatic(content.DefaultContent()),
	}, remote
}

func newRouter(t *testing.T, d Deps, url string) (*router.Router, *router.MemoryHost) {
	t.Helper()
	host := router.NewMemoryHost(url)
	r := router.New(host, router.WithErrorPage(views.ErrorPage))
	return Register(r, d), host
}

func resolve(t *testing.T, r *router.Router, host *router.MemoryHost, path string) (router.Resolution, string) {
	t.Helper()
	res := r.Resolve(context.Background(), path)
	out, err := host.Render(context.Background())
	require.NoError(t, err)
	return res, out
}

func TestFactoriesCoverRouteTable(t *testing.T) {
	d, _ := testDeps(t)
	f := Factories(d)
	assert.Len(t, f, len(page.Routes))
	for _, p := range page.Routes {
		assert.Contains(t, f, p)
	}
}

func TestEveryRouteRenders(t *testing.T) {
	d, _ := testDeps(t)
	r, host := newRouter(t, d, "/")

	paths := map[string]string{
		"/":                          "Hari AIDS Sedunia",
		"/berita":                    "Hari AIDS Sedunia",
		"/layanan":                   `id="hiv-aids"`,
		"/produk":                    "Belum ada produk.",
		"/kegiatan-suar-indonesia":   "Pelatihan Konselor",
		"/kontak-tim-suar-indonesia": `name="message"`,
		"/suar-indonesia":            "Masyarakat yang sehat",
		"/staff-suar-indonesia":      "Ayu",
		"/supervisi-program":         `href="/matrik/7"`,
		"/404":                       "Halaman tidak ditemukan",
		"/artikel/hari-aids":         "<strong>bersama</strong>",
		"/matrik/7":                  "Orang dijangkau",
	}
	for path, want := range paths {
		t.Run(path, func(t *testing.T) {
			res, out := resolve(t, r, host, path)
			require.True(t, res.OK(), "%+v", res)
			assert.Contains(t, out, want)
		})
	}
}

func TestMissingSlugRendersNotFound(t *testing.T) {
	d, _ := testDeps(t)
	r, host := newRouter(t, d, "/")

	res, out := resolve(t, r, host, "/artikel/tidak-ada")
	assert.True(t, res.OK())
	assert.Equal(t, "tidak-ada", res.Params.Get("slug"))
	assert.Contains(t, out, "Artikel tidak ditemukan")

	res, out = resolve(t, r, host, "/matrik/99")
	assert.True(t, res.OK())
	assert.Contains(t, out, "Matriks program tidak ditemukan")
}

func TestRemoteOutageStillRenders(t *testing.T) {
	d, remote := testDeps(t)
	remote.SetErr(errors.New("offline"))
	r, host := newRouter(t, d, "/")

	for _, path := range []string{"/", "/berita", "/staff-suar-indonesia", "/supervisi-program", "/artikel/hari-aids"} {
		res, out := resolve(t, r, host, path)
		assert.True(t, res.OK(), path)
		assert.NotContains(t, out, "Terjadi kesalahan", path)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	d, _ := testDeps(t)
	h := page.Handler(Factories(d)[page.Artikel])
	params := router.Params{"slug": "hari-aids"}

	first, err := h(context.Background(), params)
	require.NoError(t, err)
	second, err := h(context.Background(), params)
	require.NoError(t, err)

	r1 := render(t, first)
	r2 := render(t, second)
	assert.Equal(t, r1, r2)
	assert.Equal(t, r1, render(t, first))
}

func TestLayananAnchorScroll(t *testing.T) {
	d, _ := testDeps(t)
	r, host := newRouter(t, d, "/")
	host.AddAnchors("hiv-aids")

	res := r.Navigate(context.Background(), "/layanan#hiv-aids")
	assert.True(t, res.OK())
	assert.Equal(t, "/layanan", r.Current().Path)
	assert.Equal(t, []router.Scroll{{ID: "hiv-aids", Offset: router.DefaultScrollOffset}}, host.Scrolls())
}

func TestPagesDeclareMeta(t *testing.T) {
	d, _ := testDeps(t)
	sink := &views.MetaSink{}
	ctx := views.WithMetaSink(context.Background(), sink)

	_, err := page.Handler(Factories(d)[page.Artikel])(ctx, router.Params{"slug": "hari-aids"})
	require.NoError(t, err)
	require.True(t, sink.Declared())
	assert.Equal(t, "Hari AIDS Sedunia", sink.Meta.Title)
	assert.Equal(t, "article", sink.Meta.OGType)
	assert.Equal(t, "https://suar.or.id/artikel/hari-aids", sink.Meta.URL)
}

func TestProfilPrefersCachedDocument(t *testing.T) {
	d, _ := testDeps(t)
	st, err := store.Open(context.Background(), store.Config{Dir: t.TempDir(), Name: "pages"})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	d.Legacy = content.NewLegacy(st)

	r, host := newRouter(t, d, "/")
	_, out := resolve(t, r, host, page.Profil)
	assert.Contains(t, out, "Masyarakat yang sehat")

	require.NoError(t, d.Legacy.SavePage(context.Background(), content.PageDoc{
		URL: page.Profil, Title: "Tentang Kami", Body: "Didirikan oleh komunitas.",
	}))
	_, out = resolve(t, r, host, page.Profil)
	assert.Contains(t, out, "Tentang Kami")
	assert.Contains(t, out, "Didirikan oleh komunitas.")
}

func TestKontakCarriesCSRFAndFlash(t *testing.T) {
	d, _ := testDeps(t)
	ctx := views.WithCSRF(context.Background(), "tok123")
	ctx = views.WithFlash(ctx, views.Flash{Message: "Pesan terkirim."})

	c, err := page.Handler(Factories(d)[page.Kontak])(ctx, nil)
	require.NoError(t, err)
	out := renderCtx(t, ctx, c)
	assert.Contains(t, out, `value="tok123"`)
	assert.Contains(t, out, "Pesan terkirim.")
}
