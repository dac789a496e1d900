package views

import (
	"context"
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/suarindonesia/website/internal/content"
)

// BuildURL joins path segments onto a base URL.
func BuildURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(segments...))
	return u.String()
}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders a YYYY-MM-DD date the Indonesian way, for example
// "1 Desember 2024". Unparseable input is returned as is.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("2") + " " + months[t.Month()-1] + " " + t.Format("2006")
}

// OrganizationJsonLD produces a Schema.org NGO block for the site.
func OrganizationJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "NGO",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Logo != "" {
		data["logo"] = BuildURL(cfg.URL, cfg.Logo)
	}
	return marshalJsonLD(data)
}

// ArticleJsonLD produces a Schema.org NewsArticle block for a.
func ArticleJsonLD(cfg SiteConfig, a content.Article) string {
	articleURL := BuildURL(cfg.URL, "artikel", a.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "NewsArticle",
		"headline":      a.Title,
		"description":   a.Summary,
		"datePublished": a.Date,
		"url":           articleURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if a.Image != "" {
		data["image"] = a.Image
	}
	if len(a.Categories) > 0 {
		data["keywords"] = strings.Join(a.Categories, ", ")
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type ctxKey int

const (
	csrfKey ctxKey = iota
	flashKey
	metaKey
)

// WithCSRF stores the CSRF token forms on the page must carry.
func WithCSRF(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey, token)
}

// CSRF returns the token stored by WithCSRF.
func CSRF(ctx context.Context) string {
	s, _ := ctx.Value(csrfKey).(string)
	return s
}

// Flash is a one-off notice shown above a form.
type Flash struct {
	Message string
	Error   bool
}

// WithFlash stores f for the page being rendered.
func WithFlash(ctx context.Context, f Flash) context.Context {
	return context.WithValue(ctx, flashKey, f)
}

// FlashFrom returns the flash stored by WithFlash.
func FlashFrom(ctx context.Context) (Flash, bool) {
	f, ok := ctx.Value(flashKey).(Flash)
	return f, ok && f.Message != ""
}

// MetaSink collects the metadata a page declares while it renders, so the
// shell can put it in the <head>.
type MetaSink struct {
	Meta PageMeta
	set  bool
}

// WithMetaSink attaches sink to ctx.
func WithMetaSink(ctx context.Context, sink *MetaSink) context.Context {
	return context.WithValue(ctx, metaKey, sink)
}

// SetMeta records m on the sink in ctx, if any.
func SetMeta(ctx context.Context, m PageMeta) {
	if sink, ok := ctx.Value(metaKey).(*MetaSink); ok {
		sink.Meta = m
		sink.set = true
	}
}

// Declared reports whether a page set metadata.
func (s *MetaSink) Declared() bool {
	return s.set
}
