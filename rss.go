package suar

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/views"
)

// feedSize is the number of articles in the RSS feed.
const feedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

func (a *App) renderRSS(c echo.Context, articles []content.Article) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", art.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		link := views.BuildURL(base, page.ArticlePath(art.Slug))
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        link,
			Description: art.Summary,
			PubDate:     pubDate,
			GUID:        link,
			Categories:  art.Categories,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        views.BuildURL(base, page.Berita),
			Description: a.Config.Description,
			Language:    "id",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
