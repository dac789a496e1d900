package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// CollectionCount is one row of the cache overview.
type CollectionCount struct {
	Name  string
	Count int
}

// AssetRow is one stored asset on the dashboard.
type AssetRow struct {
	URL   string
	Type  string
	Thumb string
}

// AdminStats is what the cache dashboard shows.
type AdminStats struct {
	Version     int
	Collections []CollectionCount
	LastSync    string
	Assets      []AssetRow
}

func adminDocument(title string, body func(w *Writer)) templ.Component {
	return Build(func(_ context.Context, w *Writer) {
		w.Raw(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8"/><meta name="robots" content="noindex"/>`)
		w.Elem("title", title)
		w.Raw(`<link rel="stylesheet" href="/public/site.css"/></head><body class="admin">`)
		body(w)
		w.Raw(`</body></html>`)
	})
}

func csrfField(w *Writer, token string) {
	w.Raw(`<input type="hidden" name="_csrf"`)
	w.Attr("value", token)
	w.Raw(`/>`)
}

// AdminLogin renders the cache admin login form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminDocument("Admin", func(w *Writer) {
		w.Raw(`<form class="login" method="post" action="/admin/login"><h1>Admin</h1>`)
		if showError {
			w.Raw(`<p class="flash flash-error">Kata sandi salah.</p>`)
		}
		csrfField(w, csrfToken)
		w.Raw(`<label>Kata sandi <input type="password" name="password" autofocus required/></label>`)
		w.Raw(`<button type="submit">Masuk</button></form>`)
	})
}

// AdminDashboard renders the cache overview with its maintenance actions.
func AdminDashboard(stats AdminStats, msg, csrfToken string) templ.Component {
	return adminDocument("Admin · Cache", func(w *Writer) {
		w.Raw(`<header><h1>Cache lokal</h1><form method="post" action="/admin/logout">`)
		csrfField(w, csrfToken)
		w.Raw(`<button type="submit">Keluar</button></form></header>`)
		if msg != "" {
			w.Raw(`<p class="flash">`)
			w.Text(msg)
			w.Raw(`</p>`)
		}

		w.Raw(`<p>Versi skema: `, strconv.Itoa(stats.Version), `. Sinkronisasi terakhir: `)
		if stats.LastSync == "" {
			w.Raw(`belum pernah`)
		} else {
			w.Text(stats.LastSync)
		}
		w.Raw(`.</p><form method="post" action="/admin/sync">`)
		csrfField(w, csrfToken)
		w.Raw(`<button type="submit">Sinkronkan artikel</button></form>`)

		w.Raw(`<table><thead><tr><th>Koleksi</th><th>Jumlah</th><th></th></tr></thead><tbody>`)
		for _, c := range stats.Collections {
			w.Raw(`<tr>`)
			w.Elem("td", c.Name)
			w.Raw(`<td>`, strconv.Itoa(c.Count), `</td><td><form method="post"`)
			w.Attr("action", "/admin/clear/"+c.Name)
			w.Raw(`>`)
			csrfField(w, csrfToken)
			w.Raw(`<button type="submit">Kosongkan</button></form></td></tr>`)
		}
		w.Raw(`</tbody></table>`)

		w.Raw(`<h2>Aset</h2><form method="post" action="/admin/assets" enctype="multipart/form-data">`)
		csrfField(w, csrfToken)
		w.Raw(`<input type="file" name="file" required/><button type="submit">Unggah</button></form><ul class="assets">`)
		for _, a := range stats.Assets {
			w.Raw(`<li><a`)
			w.Href(a.URL)
			w.Raw(`>`)
			if a.Thumb != "" {
				w.Raw(`<img`)
				w.Attr("src", a.Thumb)
				w.Attr("alt", a.URL)
				w.Raw(`/>`)
			} else {
				w.Text(a.URL)
			}
			w.Raw(`</a> <small>`)
			w.Text(a.Type)
			w.Raw(`</small></li>`)
		}
		w.Raw(`</ul>`)
	})
}
