package views

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// ContainerID is the id of the root container the router swaps pages into.
const ContainerID = "app"

// Shell is the page frame around the routed content.
type Shell struct {
	Site   SiteConfig
	Meta   PageMeta
	Active string // path of the current nav entry
	Client bool   // load the WebAssembly client
}

// Layout renders the full document with body inside the root container.
func Layout(s Shell, body templ.Component) templ.Component {
	return Build(func(ctx context.Context, w *Writer) {
		title := s.Site.Name
		if s.Meta.Title != "" {
			title = s.Meta.Title + " | " + s.Site.Name
		}
		desc := s.Meta.Description
		if desc == "" {
			desc = s.Site.Description
		}
		ogType := s.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		jsonLD := s.Meta.JSONLD
		if jsonLD == "" {
			jsonLD = OrganizationJsonLD(s.Site)
		}

		w.Raw(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8"/>`)
		w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		w.Elem("title", title)
		w.Raw(`<meta name="description"`)
		w.Attr("content", desc)
		w.Raw(`/><meta property="og:title"`)
		w.Attr("content", title)
		w.Raw(`/><meta property="og:type"`)
		w.Attr("content", ogType)
		w.Raw(`/>`)
		if s.Meta.URL != "" {
			w.Raw(`<meta property="og:url"`)
			w.Attr("content", s.Meta.URL)
			w.Raw(`/><link rel="canonical"`)
			w.Attr("href", s.Meta.URL)
			w.Raw(`/>`)
		}
		if s.Meta.Image != "" {
			w.Raw(`<meta property="og:image"`)
			w.Attr("content", s.Meta.Image)
			w.Raw(`/>`)
		}
		w.Raw(`<link rel="alternate" type="application/rss+xml" title="Berita" href="/feed.xml"/>`)
		w.Raw(`<link rel="stylesheet" href="/public/site.css"/>`)
		w.Raw(`<script type="application/ld+json">`, jsonLDSafe(jsonLD), `</script>`)
		if s.Client {
			w.Raw(`<script src="/public/wasm_exec.js" defer></script><script src="/public/boot.js" defer></script>`)
		}
		w.Raw(`</head><body>`)

		navbar(w, s)
		w.Raw(`<main id="`, ContainerID, `">`)
		w.Component(ctx, body)
		w.Raw(`</main>`)
		footer(w, s.Site)
		w.Raw(`</body></html>`)
	})
}

func navbar(w *Writer, s Shell) {
	w.Raw(`<header class="navbar"><a class="brand" href="/" data-link>`)
	if s.Site.Logo != "" {
		w.Raw(`<img`)
		w.Attr("src", s.Site.Logo)
		w.Attr("alt", s.Site.Name)
		w.Raw(`/>`)
	} else {
		w.Text(s.Site.Name)
	}
	w.Raw(`</a><nav><ul>`)
	for _, l := range Nav {
		w.Raw(`<li><a`)
		w.Href(l.Path)
		if l.Path == s.Active {
			w.Raw(` class="active" aria-current="page"`)
		}
		w.Raw(` data-link>`)
		w.Text(l.Label)
		w.Raw(`</a></li>`)
	}
	w.Raw(`</ul></nav></header>`)
}

func footer(w *Writer, site SiteConfig) {
	w.Raw(`<footer class="footer"><p>&copy; `, strconv.Itoa(time.Now().Year()), ` `)
	w.Text(site.Name)
	w.Raw(`</p><p><a href="/kontak-tim-suar-indonesia" data-link>Hubungi kami</a> &middot; <a href="/feed.xml">RSS</a></p></footer>`)
}

// jsonLDSafe keeps a JSON-LD payload from closing its script element.
func jsonLDSafe(s string) string {
	return strings.ReplaceAll(s, "<", `\u003c`)
}
