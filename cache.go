package suar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/pages"
)

// ArticleCache is an in-memory cache of published articles with TTL in front
// of a content source. Every other query passes straight through.
type ArticleCache struct {
	mu       sync.RWMutex
	articles []content.Article
	fetched  time.Time
	ttl      time.Duration
	src      pages.Content
	now      func() time.Time
}

// NewArticleCache creates an ArticleCache backed by src.
func NewArticleCache(src pages.Content, ttl time.Duration) *ArticleCache {
	return &ArticleCache{src: src, ttl: ttl, now: time.Now}
}

var _ pages.Content = (*ArticleCache)(nil)

func (c *ArticleCache) valid() bool {
	return c.articles != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached articles after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ArticleCache) ensureLoaded(ctx context.Context) []content.Article {
	c.mu.RLock()
	if c.valid() {
		articles := c.articles
		c.mu.RUnlock()
		return articles
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.articles
	}
	articles := c.src.Articles(ctx, "", 0)
	// An empty result is what a failing source degrades to; keep asking.
	if len(articles) == 0 {
		return articles
	}
	c.articles = articles
	c.fetched = c.now()
	return articles
}

// Articles returns published articles newest first, optionally filtered by
// category; limit <= 0 means all.
func (c *ArticleCache) Articles(ctx context.Context, category string, limit int) []content.Article {
	articles := c.ensureLoaded(ctx)
	if category != "" {
		normalized := normalizeCategory(category)
		var filtered []content.Article
		for _, a := range articles {
			for _, cat := range a.Categories {
				if normalizeCategory(cat) == normalized {
					filtered = append(filtered, a)
					break
				}
			}
		}
		articles = filtered
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

// ArticleBySlug serves the article from the cache and asks the source on a
// miss, so a freshly published article is found before the TTL runs out.
func (c *ArticleCache) ArticleBySlug(ctx context.Context, slug string) (content.Article, error) {
	for _, a := range c.ensureLoaded(ctx) {
		if a.Slug == slug {
			return a, nil
		}
	}
	a, err := c.src.ArticleBySlug(ctx, slug)
	if err != nil {
		return content.Article{}, fmt.Errorf("article %q: %w", slug, err)
	}
	return a, nil
}

// Activities passes through to the source.
func (c *ArticleCache) Activities(ctx context.Context, limit int) []content.Activity {
	return c.src.Activities(ctx, limit)
}

// Staff passes through to the source.
func (c *ArticleCache) Staff(ctx context.Context) []content.StaffMember {
	return c.src.Staff(ctx)
}

// Matrices passes through to the source.
func (c *ArticleCache) Matrices(ctx context.Context) []content.Matrix {
	return c.src.Matrices(ctx)
}

// MatrixByID passes through to the source.
func (c *ArticleCache) MatrixByID(ctx context.Context, id string) (content.Matrix, error) {
	return c.src.MatrixByID(ctx, id)
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
