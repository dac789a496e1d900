package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suarindonesia/website/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{Dir: t.TempDir(), Name: "content"})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func articleRow(slug, date string, published bool, categories ...string) Row {
	cats := make([]any, len(categories))
	for i, c := range categories {
		cats[i] = c
	}
	return Row{"slug": slug, "title": "Judul " + slug, "date": date, "published": published, "categories": cats}
}

func seededRemote() *MemoryRemote {
	m := NewMemoryRemote()
	m.Seed(TableArticles,
		articleRow("hari-aids", "2024-12-01", true, "berita", "program"),
		articleRow("draf", "2024-12-05", false, "berita"),
		articleRow("pelatihan", "2024-11-02", true, "program"),
		articleRow("rilis", "2024-10-10", true, "berita"),
	)
	m.Seed(TableMatrices, Row{"id": "7", "program": "Penjangkauan", "period": "2024"})
	m.Seed(TableStaff,
		Row{"id": "b", "name": "Budi", "role": "Koordinator", "sort_order": 2},
		Row{"id": "a", "name": "Ayu", "role": "Direktur", "sort_order": 1},
	)
	return m
}

func TestArticlesFromRemote(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(seededRemote(), nil, nil)

	all := repo.Articles(ctx, "", 0)
	require.Len(t, all, 3)
	assert.Equal(t, "hari-aids", all[0].Slug)
	assert.Equal(t, "rilis", all[2].Slug)

	program := repo.Articles(ctx, "program", 0)
	require.Len(t, program, 2)

	latest := repo.Articles(ctx, "", 1)
	require.Len(t, latest, 1)
	assert.Equal(t, "hari-aids", latest[0].Slug)
}

func TestArticlesFallBackToCache(t *testing.T) {
	ctx := context.Background()
	remote := seededRemote()
	repo := NewRepository(remote, openStore(t), nil)

	require.Len(t, repo.Articles(ctx, "", 0), 3)

	remote.SetErr(errors.New("offline"))
	cached := repo.Articles(ctx, "", 0)
	require.Len(t, cached, 3)
	assert.Equal(t, "hari-aids", cached[0].Slug)

	program := repo.Articles(ctx, "program", 0)
	require.Len(t, program, 2)
	assert.Equal(t, "hari-aids", program[0].Slug)
	assert.Equal(t, "pelatihan", program[1].Slug)

	a, err := repo.ArticleBySlug(ctx, "rilis")
	require.NoError(t, err)
	assert.Equal(t, "Judul rilis", a.Title)
}

func TestRemoteFailureWithoutCacheDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	remote := seededRemote()
	remote.SetErr(errors.New("401 unauthorized"))
	repo := NewRepository(remote, nil, nil)

	assert.Empty(t, repo.Articles(ctx, "", 0))
	assert.Empty(t, repo.Activities(ctx, 3))
	assert.Empty(t, repo.Staff(ctx))
	assert.Empty(t, repo.Matrices(ctx))

	_, err := repo.ArticleBySlug(ctx, "hari-aids")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.MatrixByID(ctx, "7")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleBySlug(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(seededRemote(), nil, nil)

	a, err := repo.ArticleBySlug(ctx, "pelatihan")
	require.NoError(t, err)
	assert.Equal(t, []string{"program"}, a.Categories)

	_, err = repo.ArticleBySlug(ctx, "draf")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.ArticleBySlug(ctx, "tidak-ada")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffAndMatrices(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(seededRemote(), nil, nil)

	staff := repo.Staff(ctx)
	require.Len(t, staff, 2)
	assert.Equal(t, "Ayu", staff[0].Name)

	m, err := repo.MatrixByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Penjangkauan", m.Program)
	_, err = repo.MatrixByID(ctx, "8")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryRemote()
	repo := NewRepository(remote, nil, nil)
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }

	_, err := repo.SubmitContact(ctx, ContactMessage{Name: "Ayu"})
	assert.Error(t, err)
	assert.Empty(t, remote.Rows(TableContact))

	msg, err := repo.SubmitContact(ctx, ContactMessage{Name: "Ayu", Email: "ayu@example.org", Message: "Halo"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "2024-05-01T08:00:00Z", msg.CreatedAt)

	rows := remote.Rows(TableContact)
	require.Len(t, rows, 1)
	assert.Equal(t, msg.ID, rows[0]["id"])

	remote.SetErr(errors.New("down"))
	_, err = repo.SubmitContact(ctx, ContactMessage{Name: "Ayu", Email: "ayu@example.org", Message: "Lagi"})
	assert.ErrorIs(t, err, ErrRemote)
}

func TestSyncReplacesCache(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	require.NoError(t, st.Put(ctx, store.Articles, store.Record{"slug": "usang", "date": "2020-01-01", "published": true}))

	repo := NewRepository(seededRemote(), st, nil)
	res, err := repo.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Articles: 3}, res)

	count, err := st.Count(ctx, store.Articles)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, ok, err := repo.Legacy().LastSync(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewRepository(seededRemote(), nil, nil).Sync(ctx)
	assert.Error(t, err)
}

func TestSyncSkipsRowsWithoutSlug(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	remote := seededRemote()
	repo := NewRepository(remote, st, nil)

	_, err := repo.Sync(ctx)
	require.NoError(t, err)

	remote.Seed(TableArticles,
		articleRow("", "2025-01-01", true, "berita"),
		articleRow("baru", "2025-01-02", true, "berita"),
		articleRow("baru", "2025-01-03", true, "program"),
	)
	res, err := repo.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Articles)
	assert.Equal(t, 2, res.Skipped)

	count, err := st.Count(ctx, store.Articles)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	remote.SetErr(errors.New("offline"))
	cached := repo.Articles(ctx, "", 0)
	require.Len(t, cached, 4)
	assert.Equal(t, "baru", cached[0].Slug)
}

func TestSyncFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	remote := seededRemote()
	repo := NewRepository(remote, st, nil)

	_, err := repo.Sync(ctx)
	require.NoError(t, err)

	remote.SetErr(errors.New("offline"))
	_, err = repo.Sync(ctx)
	require.ErrorIs(t, err, ErrRemote)

	count, err := st.Count(ctx, store.Articles)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSyncCachesPages(t *testing.T) {
	ctx := context.Background()
	remote := seededRemote()
	remote.Seed(TablePages,
		Row{"url": "/suar-indonesia", "title": "Profil", "body": "Halo"},
		Row{"title": "Tanpa URL"},
	)
	repo := NewRepository(remote, openStore(t), nil)

	res, err := repo.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Articles: 3, Pages: 1, Skipped: 1}, res)

	doc, ok, err := repo.Legacy().Page(ctx, "/suar-indonesia")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Profil", doc.Title)
	assert.Equal(t, "Halo", doc.Body)
}

func TestMirrorContinuesPastBadArticle(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	remote := NewMemoryRemote()
	remote.Seed(TableArticles,
		articleRow("a", "2024-12-03", true),
		articleRow("", "2024-12-02", true),
		articleRow("c", "2024-12-01", true),
	)
	repo := NewRepository(remote, st, nil)

	require.Len(t, repo.Articles(ctx, "", 0), 3)

	count, err := st.Count(ctx, store.Articles)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLegacyPages(t *testing.T) {
	ctx := context.Background()
	l := NewLegacy(openStore(t))

	_, ok, err := l.Page(ctx, "/suar-indonesia")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.SavePage(ctx, PageDoc{URL: "/suar-indonesia", Title: "Profil", Body: "<p>Halo</p>"}))
	doc, ok, err := l.Page(ctx, "/suar-indonesia")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Profil", doc.Title)
	assert.NotEmpty(t, doc.UpdatedAt)
}
