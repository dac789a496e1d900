package page

import "github.com/suarindonesia/website/internal/router"

// Route table paths.
const (
	Home      = "/"
	Berita    = "/berita"
	Layanan   = "/layanan"
	Produk    = "/produk"
	Kegiatan  = "/kegiatan-suar-indonesia"
	Kontak    = "/kontak-tim-suar-indonesia"
	Profil    = "/suar-indonesia"
	Staff     = "/staff-suar-indonesia"
	Supervisi = "/supervisi-program"
	NotFound  = router.NotFoundPath
	Artikel   = "/artikel/:slug"
	Matrik    = "/matrik/:id"
)

// Routes lists the route table in registration order. Static paths come
// first; the parametric ones are only reached through the segment scan.
var Routes = []string{
	Home,
	Berita,
	Layanan,
	Produk,
	Kegiatan,
	Kontak,
	Profil,
	Staff,
	Supervisi,
	NotFound,
	Artikel,
	Matrik,
}

// ArticlePath returns the path of the article with slug.
func ArticlePath(slug string) string {
	return "/artikel/" + slug
}

// MatrixPath returns the path of the program matrix with id.
func MatrixPath(id string) string {
	return "/matrik/" + id
}
