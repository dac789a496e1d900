package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/suarindonesia/website/internal/store"
)

const lastSyncKey = "last_sync"

// Legacy is the older content path: whole page documents and sync
// bookkeeping kept in the local store.
type Legacy struct {
	store *store.Store
}

// NewLegacy returns a Legacy backed by st.
func NewLegacy(st *store.Store) *Legacy {
	return &Legacy{store: st}
}

// SavePage stores doc under its URL, replacing any previous version.
func (l *Legacy) SavePage(ctx context.Context, doc PageDoc) error {
	if doc.UpdatedAt == "" {
		doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	rec, err := toRecord(doc)
	if err != nil {
		return fmt.Errorf("content: encode page %s: %w", doc.URL, err)
	}
	return l.store.Put(ctx, store.Pages, rec)
}

// Page returns the cached document for url.
func (l *Legacy) Page(ctx context.Context, url string) (PageDoc, bool, error) {
	rec, ok, err := l.store.Get(ctx, store.Pages, url)
	if err != nil || !ok {
		return PageDoc{}, false, err
	}
	var doc PageDoc
	b, _ := json.Marshal(rec)
	if err := json.Unmarshal(b, &doc); err != nil {
		return PageDoc{}, false, fmt.Errorf("content: decode page %s: %w", url, err)
	}
	return doc, true, nil
}

// SetLastSync records the time of the last successful article sync.
func (l *Legacy) SetLastSync(ctx context.Context, t time.Time) error {
	return l.store.Put(ctx, store.Metadata, store.Record{
		"key":   lastSyncKey,
		"value": t.UTC().Format(time.RFC3339),
	})
}

// LastSync returns the time recorded by SetLastSync.
func (l *Legacy) LastSync(ctx context.Context) (time.Time, bool, error) {
	rec, ok, err := l.store.Get(ctx, store.Metadata, lastSyncKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	s, _ := rec["value"].(string)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("content: last sync %q: %w", s, err)
	}
	return t, true, nil
}
