package views

// SiteConfig holds the site-wide settings every view needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Logo        string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
}

// NavLink is one entry of the top navigation.
type NavLink struct {
	Label string
	Path  string
}

// Nav is the top navigation of the site.
var Nav = []NavLink{
	{Label: "Beranda", Path: "/"},
	{Label: "Profil", Path: "/suar-indonesia"},
	{Label: "Layanan", Path: "/layanan"},
	{Label: "Berita", Path: "/berita"},
	{Label: "Kegiatan", Path: "/kegiatan-suar-indonesia"},
	{Label: "Produk", Path: "/produk"},
	{Label: "Staff", Path: "/staff-suar-indonesia"},
	{Label: "Supervisi", Path: "/supervisi-program"},
	{Label: "Kontak", Path: "/kontak-tim-suar-indonesia"},
}
