package suar

import (
	"context"
	"time"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/store"
	"github.com/suarindonesia/website/internal/views"
)

// CacheStats summarises the local store for the admin dashboard and the
// "cache count" command.
type CacheStats struct {
	Version     int
	Collections []views.CollectionCount
	LastSync    time.Time // zero if the articles were never synced
	Assets      []views.AssetRow
}

// CollectStats reads the schema version, the record count of every
// collection, the last article sync and the stored assets from st.
func CollectStats(ctx context.Context, st *store.Store) (CacheStats, error) {
	stats := CacheStats{Version: st.Version()}

	collections, err := st.Collections()
	if err != nil {
		return CacheStats{}, err
	}
	for _, c := range collections {
		n, err := st.Count(ctx, c.Name)
		if err != nil {
			return CacheStats{}, err
		}
		stats.Collections = append(stats.Collections, views.CollectionCount{Name: c.Name, Count: n})
	}

	if t, ok, err := content.NewLegacy(st).LastSync(ctx); err != nil {
		return CacheStats{}, err
	} else if ok {
		stats.LastSync = t
	}

	assets, err := st.GetAll(ctx, store.Assets)
	if err != nil {
		return CacheStats{}, err
	}
	for _, rec := range assets {
		url, _ := rec["url"].(string)
		typ, _ := rec["type"].(string)
		thumb, _ := rec["thumb"].(string)
		stats.Assets = append(stats.Assets, views.AssetRow{URL: url, Type: typ, Thumb: thumb})
	}
	return stats, nil
}

// View converts s for the dashboard.
func (s CacheStats) View() views.AdminStats {
	v := views.AdminStats{
		Version:     s.Version,
		Collections: s.Collections,
		Assets:      s.Assets,
	}
	if !s.LastSync.IsZero() {
		v.LastSync = s.LastSync.Format("2006-01-02 15:04 MST")
	}
	return v
}
