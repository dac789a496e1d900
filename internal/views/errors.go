package views

import (
	"context"

	"github.com/a-h/templ"
)

// NotFound renders the "page not found" content.
func NotFound() templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<section class="status status-404"><h1>Halaman tidak ditemukan</h1>`)
		w.Raw(`<p>Halaman yang Anda cari tidak tersedia atau telah dipindahkan.</p>`)
		w.Raw(`<a class="button" href="/" data-link>Kembali ke beranda</a></section>`)
	})
}

// ContentNotFound renders a "not found" placeholder for a missing item such
// as an article slug or matrix id.
func ContentNotFound(kind, back string) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<section class="status status-404"><h1>`)
		w.Text(kind)
		w.Raw(` tidak ditemukan</h1><a class="button"`)
		w.Href(back)
		w.Raw(` data-link>Kembali</a></section>`)
	})
}

// Unavailable renders the placeholder shown when a page's content could
// not be loaded.
func Unavailable() templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<section class="status status-unavailable"><h1>Konten belum tersedia</h1>`)
		w.Raw(`<p>Silakan coba beberapa saat lagi.</p></section>`)
	})
}

// ServerError renders the content of a failed page.
func ServerError() templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<section class="status status-500"><h1>Terjadi kesalahan</h1>`)
		w.Raw(`<p>Halaman ini gagal dimuat. Silakan muat ulang atau coba lagi nanti.</p></section>`)
	})
}

// ErrorPage is the router's error page: the content that replaces a page
// whose handler failed. The error itself is logged, never shown.
func ErrorPage(_ context.Context, _ string, _ error) templ.Component {
	return ServerError()
}

// StartupFailure is the full-screen document served when the site could not
// start, with a reload action.
func StartupFailure(site SiteConfig) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8"/>`)
		w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		w.Elem("title", site.Name)
		w.Raw(`<link rel="stylesheet" href="/public/site.css"/></head>`)
		w.Raw(`<body class="startup-failure"><div class="fullscreen"><h1>Situs gagal dimuat</h1>`)
		w.Raw(`<p>Penyimpanan lokal tidak dapat dibuka. Muat ulang halaman untuk mencoba lagi.</p>`)
		w.Raw(`<button type="button" onclick="window.location.reload()">Muat ulang</button>`)
		w.Raw(`</div></body></html>`)
	})
}
