package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/store"
)

// Repository answers the typed queries pages make. Remote failures are
// logged and degrade to empty results. Articles fetched from the remote are
// mirrored into the local store, which serves them when the remote is down.
type Repository struct {
	remote Remote
	store  *store.Store
	legacy *Legacy
	log    logging.Logger
	now    func() time.Time
}

// NewRepository returns a repository over remote and st. Either may be nil:
// without a remote only cached articles are served, without a store nothing
// is mirrored.
func NewRepository(remote Remote, st *store.Store, log logging.Logger) *Repository {
	if log == nil {
		log = logging.Discard()
	}
	r := &Repository{remote: remote, store: st, log: log, now: time.Now}
	if st != nil {
		r.legacy = NewLegacy(st)
	}
	return r
}

// Legacy returns the legacy page cache, or nil without a store.
func (r *Repository) Legacy() *Legacy {
	return r.legacy
}

func (r *Repository) selectRows(ctx context.Context, table string, q Query) ([]Row, error) {
	if r.remote == nil {
		return nil, fmt.Errorf("%w: not configured", ErrRemote)
	}
	return r.remote.Select(ctx, table, q)
}

func selectAs[T any](ctx context.Context, r *Repository, table string, q Query) ([]T, error) {
	rows, err := r.selectRows(ctx, table, q)
	if err != nil {
		return nil, err
	}
	return decodeRows[T](rows)
}

// Articles returns published articles, newest first. A non-empty category
// restricts the result to articles tagged with it; limit <= 0 means all.
func (r *Repository) Articles(ctx context.Context, category string, limit int) []Article {
	q := Query{Order: "date", Desc: true}.Eq("published", "true")
	articles, err := selectAs[Article](ctx, r, TableArticles, q)
	if err != nil {
		r.log.Warnf("content: articles: %v", err)
		return r.cachedArticles(ctx, category, limit)
	}
	r.mirror(ctx, articles)

	if category != "" {
		filtered := articles[:0:0]
		for _, a := range articles {
			if a.HasCategory(category) {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}
	return limitArticles(articles, limit)
}

// ArticleBySlug returns the published article with slug. It returns
// ErrNotFound when neither the remote nor the cache has it.
func (r *Repository) ArticleBySlug(ctx context.Context, slug string) (Article, error) {
	articles, err := selectAs[Article](ctx, r, TableArticles, Query{Limit: 1}.Eq("slug", slug))
	if err == nil {
		for _, a := range articles {
			if a.Published {
				r.mirror(ctx, []Article{a})
				return a, nil
			}
		}
		return Article{}, fmt.Errorf("%w: article %s", ErrNotFound, slug)
	}
	r.log.Warnf("content: article %s: %v", slug, err)

	if r.store == nil {
		return Article{}, fmt.Errorf("%w: article %s", ErrNotFound, slug)
	}
	rec, ok, err := r.store.Get(ctx, store.Articles, slug)
	if err != nil {
		r.log.Errorf("content: cached article %s: %v", slug, err)
	}
	if !ok {
		return Article{}, fmt.Errorf("%w: article %s", ErrNotFound, slug)
	}
	a, err := articleFromRecord(rec)
	if err != nil || !a.Published {
		return Article{}, fmt.Errorf("%w: article %s", ErrNotFound, slug)
	}
	return a, nil
}

// Activities returns the latest activities, newest first.
func (r *Repository) Activities(ctx context.Context, limit int) []Activity {
	out, err := selectAs[Activity](ctx, r, TableActivities, Query{Order: "date", Desc: true, Limit: limit})
	if err != nil {
		r.log.Warnf("content: activities: %v", err)
		return nil
	}
	return out
}

// Staff returns the staff in display order.
func (r *Repository) Staff(ctx context.Context) []StaffMember {
	out, err := selectAs[StaffMember](ctx, r, TableStaff, Query{Order: "sort_order"})
	if err != nil {
		r.log.Warnf("content: staff: %v", err)
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Matrices returns every program matrix.
func (r *Repository) Matrices(ctx context.Context) []Matrix {
	out, err := selectAs[Matrix](ctx, r, TableMatrices, Query{Order: "id"})
	if err != nil {
		r.log.Warnf("content: matrices: %v", err)
		return nil
	}
	return out
}

// MatrixByID returns the matrix with id, or ErrNotFound.
func (r *Repository) MatrixByID(ctx context.Context, id string) (Matrix, error) {
	out, err := selectAs[Matrix](ctx, r, TableMatrices, Query{Limit: 1}.Eq("id", id))
	if err != nil {
		r.log.Warnf("content: matrix %s: %v", id, err)
	}
	if len(out) == 0 {
		return Matrix{}, fmt.Errorf("%w: matrix %s", ErrNotFound, id)
	}
	return out[0], nil
}

// SubmitContact validates msg, assigns its id and timestamp and inserts it
// into the remote store. Unlike the read queries a failure is returned.
func (r *Repository) SubmitContact(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	if err := msg.Validate(); err != nil {
		return msg, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return msg, fmt.Errorf("content: contact id: %w", err)
	}
	msg.ID = id.String()
	msg.CreatedAt = r.now().UTC().Format(time.RFC3339)

	if r.remote == nil {
		return msg, fmt.Errorf("%w: not configured", ErrRemote)
	}
	b, _ := json.Marshal(msg)
	var row Row
	if err := json.Unmarshal(b, &row); err != nil {
		return msg, err
	}
	if err := r.remote.Insert(ctx, TableContact, row); err != nil {
		return msg, err
	}
	return msg, nil
}

// SyncResult reports what a Sync wrote to the local store.
type SyncResult struct {
	Articles int // articles cached
	Pages    int // page documents cached
	Skipped  int // remote rows that could not be cached
}

// Sync replaces the cached articles with every published article from the
// remote, caches the remote page documents and records the sync time.
//
// Rows without a usable key are skipped. New records are written before
// stale ones are deleted, so a failure part way leaves the previous cache
// in place.
func (r *Repository) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if r.store == nil {
		return res, errors.New("content: sync needs a store")
	}
	articles, err := selectAs[Article](ctx, r, TableArticles, Query{Order: "date", Desc: true}.Eq("published", "true"))
	if err != nil {
		return res, err
	}

	keep := make(map[string]bool, len(articles))
	recs := make([]store.Record, 0, len(articles))
	for _, a := range articles {
		if a.Slug == "" || keep[a.Slug] {
			r.log.Warnf("content: sync: skipping article %q: missing or duplicate slug", a.Title)
			res.Skipped++
			continue
		}
		rec, err := toRecord(a)
		if err != nil {
			r.log.Warnf("content: sync: skipping article %s: %v", a.Slug, err)
			res.Skipped++
			continue
		}
		keep[a.Slug] = true
		recs = append(recs, rec)
	}

	for _, rec := range recs {
		if err := r.store.Put(ctx, store.Articles, rec); err != nil {
			return res, err
		}
		res.Articles++
	}
	cached, err := r.store.GetAll(ctx, store.Articles)
	if err != nil {
		return res, err
	}
	for _, rec := range cached {
		slug, _ := rec["slug"].(string)
		if keep[slug] {
			continue
		}
		if err := r.store.Delete(ctx, store.Articles, slug); err != nil {
			return res, err
		}
	}

	r.syncPages(ctx, &res)

	if err := r.legacy.SetLastSync(ctx, r.now()); err != nil {
		return res, err
	}
	r.log.Infof("content: synced %d articles and %d pages (%d skipped)", res.Articles, res.Pages, res.Skipped)
	return res, nil
}

// syncPages caches the remote page documents. A remote without a pages
// table leaves the cached documents alone.
func (r *Repository) syncPages(ctx context.Context, res *SyncResult) {
	docs, err := selectAs[PageDoc](ctx, r, TablePages, Query{Order: "url"})
	if err != nil {
		r.log.Warnf("content: sync pages: %v", err)
		return
	}
	for _, doc := range docs {
		if doc.URL == "" {
			r.log.Warnf("content: sync: skipping page %q without url", doc.Title)
			res.Skipped++
			continue
		}
		if err := r.legacy.SavePage(ctx, doc); err != nil {
			r.log.Warnf("content: sync page %s: %v", doc.URL, err)
			res.Skipped++
			continue
		}
		res.Pages++
	}
}

func (r *Repository) mirror(ctx context.Context, articles []Article) {
	if r.store == nil {
		return
	}
	for _, a := range articles {
		if err := r.putArticle(ctx, a); err != nil {
			r.log.Warnf("content: cache article %s: %v", a.Slug, err)
		}
	}
}

func (r *Repository) putArticle(ctx context.Context, a Article) error {
	rec, err := toRecord(a)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.Articles, rec)
}

func (r *Repository) cachedArticles(ctx context.Context, category string, limit int) []Article {
	if r.store == nil {
		return nil
	}
	var (
		recs []store.Record
		err  error
	)
	if category != "" {
		recs, err = r.store.QueryByIndex(ctx, store.Articles, store.IndexCategories, category)
	} else {
		recs, err = r.store.GetAll(ctx, store.Articles)
	}
	if err != nil {
		r.log.Errorf("content: cached articles: %v", err)
		return nil
	}

	articles := make([]Article, 0, len(recs))
	for _, rec := range recs {
		a, err := articleFromRecord(rec)
		if err != nil || !a.Published {
			continue
		}
		articles = append(articles, a)
	}
	sort.SliceStable(articles, func(i, j int) bool { return articles[i].Date > articles[j].Date })
	return limitArticles(articles, limit)
}

func articleFromRecord(rec store.Record) (Article, error) {
	out, err := decodeRows[Article]([]store.Record{rec})
	if err != nil {
		return Article{}, err
	}
	return out[0], nil
}

func limitArticles(articles []Article, limit int) []Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
