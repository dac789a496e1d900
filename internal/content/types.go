// Package content provides the site's content: live rows from the remote
// content store, static copy loaded from YAML, and the legacy local cache
// kept in the store package.
package content

import (
	"encoding/json"
	"errors"

	"github.com/suarindonesia/website/internal/store"
)

// ErrNotFound is returned by single-item lookups that match nothing.
var ErrNotFound = errors.New("content: not found")

// Remote table names.
const (
	TableArticles   = "articles"
	TableActivities = "activities"
	TableStaff      = "staff"
	TableMatrices   = "matrices"
	TableContact    = "contact_messages"
	TablePages      = "pages"
)

// Article is a news item (berita).
type Article struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Date       string   `json:"date"` // YYYY-MM-DD
	Summary    string   `json:"summary,omitempty"`
	Content    string   `json:"content,omitempty"`
	Image      string   `json:"image,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Published  bool     `json:"published"`
}

// HasCategory reports whether a is tagged with category.
func (a Article) HasCategory(category string) bool {
	for _, c := range a.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Activity is one entry of the organisation's activity log.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// StaffMember is one person on the staff page.
type StaffMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Division string `json:"division,omitempty"`
	Photo    string `json:"photo,omitempty"`
	Order    int    `json:"sort_order"`
}

// Matrix is a program matrix: the indicators and targets of one program.
type Matrix struct {
	ID         string      `json:"id"`
	Program    string      `json:"program"`
	Period     string      `json:"period"`
	Summary    string      `json:"summary,omitempty"`
	Indicators []Indicator `json:"indicators,omitempty"`
}

// Indicator is one row of a Matrix.
type Indicator struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Achieved string `json:"achieved"`
}

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// Validate checks the fields the contact form requires.
func (m ContactMessage) Validate() error {
	switch {
	case m.Name == "":
		return errors.New("nama wajib diisi")
	case m.Email == "":
		return errors.New("email wajib diisi")
	case m.Message == "":
		return errors.New("pesan wajib diisi")
	}
	return nil
}

// PageDoc is a cached page document of the legacy content path.
type PageDoc struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// toRecord converts v to a store record through its JSON form.
func toRecord(v any) (store.Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec store.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeRows converts loosely typed rows into values of T.
func decodeRows[T any, R ~map[string]any](rows []R) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
