package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrRemote wraps every failure reported by a remote content store.
var ErrRemote = errors.New("content: remote store")

// Row is one record of a remote table.
type Row map[string]any

// Filter restricts a select to rows whose Column equals Value.
type Filter struct {
	Column string
	Value  string
}

// Query describes a select. Zero values mean no filter, storage order and
// no limit.
type Query struct {
	Filters []Filter
	Order   string
	Desc    bool
	Limit   int
}

// Eq returns q with an equality filter appended.
func (q Query) Eq(column, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Remote is the remote content store.
type Remote interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) error
}

// RESTRemote talks to a PostgREST-style endpoint: GET /rest/v1/<table> with
// column=eq.value filters, order and limit parameters, and POST for inserts.
type RESTRemote struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTRemote returns a client for baseURL authenticated with apiKey.
func NewRESTRemote(baseURL, apiKey string) *RESTRemote {
	return &RESTRemote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RESTRemote) endpoint(table string) string {
	return strings.TrimRight(r.BaseURL, "/") + "/rest/v1/" + url.PathEscape(table)
}

func (r *RESTRemote) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *RESTRemote) authorize(req *http.Request) {
	if r.APIKey == "" {
		return
	}
	req.Header.Set("apikey", r.APIKey)
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
}

// Select implements Remote.
func (r *RESTRemote) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Filters {
		params.Add(f.Column, "eq."+f.Value)
	}
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		params.Set("order", q.Order+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(table)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	req.Header.Set("Accept", "application/json")
	r.authorize(req)

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrRemote, table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: select %s: %s", ErrRemote, table, responseError(resp))
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrRemote, table, err)
	}
	return rows, nil
}

// Insert implements Remote.
func (r *RESTRemote) Insert(ctx context.Context, table string, row Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrRemote, table, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint(table), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	r.authorize(req)

	resp, err := r.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrRemote, table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: insert %s: %s", ErrRemote, table, responseError(resp))
	}
	return nil
}

func responseError(resp *http.Response) string {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(msg) == 0 {
		return resp.Status
	}
	return resp.Status + ": " + strings.TrimSpace(string(msg))
}

// MemoryRemote is an in-process Remote. Setting Err makes every call fail
// with it.
type MemoryRemote struct {
	mu     sync.Mutex
	tables map[string][]Row
	Err    error
}

// NewMemoryRemote returns an empty MemoryRemote.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{tables: map[string][]Row{}}
}

// Seed appends rows to table.
func (m *MemoryRemote) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

// SetErr changes the failure returned by every call.
func (m *MemoryRemote) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Rows returns a copy of table.
func (m *MemoryRemote) Rows(table string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.tables[table]...)
}

// Select implements Remote.
func (m *MemoryRemote) Select(_ context.Context, table string, q Query) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, m.Err)
	}
	var out []Row
	for _, row := range m.tables[table] {
		if matches(row, q.Filters) {
			out = append(out, row)
		}
	}
	if q.Order != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fmt.Sprint(out[i][q.Order]), fmt.Sprint(out[j][q.Order])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Insert implements Remote.
func (m *MemoryRemote) Insert(_ context.Context, table string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, m.Err)
	}
	m.tables[table] = append(m.tables[table], row)
	return nil
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		if fmt.Sprint(row[f.Column]) != f.Value {
			return false
		}
	}
	return true
}
