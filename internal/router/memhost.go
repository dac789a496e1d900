package router

import (
	"bytes"
	"context"
	"sync"

	"github.com/a-h/templ"
)

// Scroll records one ScrollToAnchor call on a MemoryHost.
type Scroll struct {
	ID     string
	Offset int
}

// MemoryHost is an in-process Host. The server builds one per request and
// tests use it to stand in for a browser window. Events are delivered
// synchronously on the calling goroutine.
type MemoryHost struct {
	mu        sync.Mutex
	entries   []string
	index     int
	anchors   map[string]struct{}
	scrolls   []Scroll
	mounted   templ.Component
	mounts    int
	listeners map[int]Listeners
	nextID    int
}

// NewMemoryHost returns a host whose current location is url, for example
// "/layanan#hiv-aids" or "/#/artikel/foo".
func NewMemoryHost(url string) *MemoryHost {
	if url == "" {
		url = "/"
	}
	return &MemoryHost{
		entries:   []string{url},
		anchors:   map[string]struct{}{},
		listeners: map[int]Listeners{},
	}
}

// Location implements Host.
func (h *MemoryHost) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location()
}

func (h *MemoryHost) location() Location {
	path, hash := SplitHash(h.entries[h.index])
	if hash != "" {
		hash = "#" + hash
	}
	return Location{Pathname: path, Hash: hash}
}

// PushState implements Host. Forward entries are dropped, as in a browser.
func (h *MemoryHost) PushState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// SetHash implements Host. A hashchange is emitted when the hash changes.
func (h *MemoryHost) SetHash(hash string) {
	if hash != "" && hash[0] != '#' {
		hash = "#" + hash
	}
	h.mu.Lock()
	loc := h.location()
	if loc.Hash == hash {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries[:h.index+1], loc.Pathname+hash)
	h.index = len(h.entries) - 1
	ls := h.snapshot()
	h.mu.Unlock()

	for _, l := range ls {
		if l.HashChange != nil {
			l.HashChange()
		}
	}
}

// Back moves one entry back in history and emits popstate. It reports
// whether there was an entry to go back to.
func (h *MemoryHost) Back() bool {
	return h.step(-1)
}

// Forward moves one entry forward in history and emits popstate.
func (h *MemoryHost) Forward() bool {
	return h.step(1)
}

func (h *MemoryHost) step(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	ls := h.snapshot()
	h.mu.Unlock()

	for _, l := range ls {
		if l.PopState != nil {
			l.PopState()
		}
	}
	return true
}

// Click dispatches a click on an anchor to the attached listeners and
// returns the event so callers can inspect DefaultPrevented.
func (h *MemoryHost) Click(href string, internal bool) *ClickEvent {
	ev := &ClickEvent{Href: href, Internal: internal}
	h.mu.Lock()
	ls := h.snapshot()
	h.mu.Unlock()
	for _, l := range ls {
		if l.Click != nil {
			l.Click(ev)
		}
	}
	return ev
}

func (h *MemoryHost) snapshot() []Listeners {
	out := make([]Listeners, 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if l, ok := h.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Mount implements Host by keeping node as the container content.
func (h *MemoryHost) Mount(_ context.Context, node templ.Component) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted = node
	h.mounts++
	return nil
}

// Mounted returns the current container content and how many swaps happened.
func (h *MemoryHost) Mounted() (templ.Component, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted, h.mounts
}

// Render writes the current container content as HTML.
func (h *MemoryHost) Render(ctx context.Context) (string, error) {
	node, _ := h.Mounted()
	if node == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := node.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AddAnchors declares element ids that ScrollToAnchor can find.
func (h *MemoryHost) AddAnchors(ids ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range ids {
		h.anchors[id] = struct{}{}
	}
}

// ScrollToAnchor implements Host. Every call is recorded, found or not.
func (h *MemoryHost) ScrollToAnchor(id string, offset int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrolls = append(h.scrolls, Scroll{ID: id, Offset: offset})
	_, ok := h.anchors[id]
	return ok
}

// Scrolls returns the recorded scroll requests.
func (h *MemoryHost) Scrolls() []Scroll {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Scroll, len(h.scrolls))
	copy(out, h.scrolls)
	return out
}

// History returns the session history entries.
func (h *MemoryHost) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Listen implements Host.
func (h *MemoryHost) Listen(l Listeners) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

var _ Host = (*MemoryHost)(nil)
