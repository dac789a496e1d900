// Package router maps logical paths to page handlers and keeps a Host's
// history, hash and root container in step with navigation.
//
// Resolution is two-phase: an exact lookup of the path among registered
// patterns, then a scan of every pattern in registration order using
// segment-wise matching. The first match wins. Paths that match nothing fire
// the handler registered for NotFoundPath, if any.
//
// Every resolution takes a generation token when it starts. After the
// handler returns, the container is only swapped if no newer resolution has
// started in the meantime, so overlapping navigations never interleave their
// writes to the root container.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/logging"
)

const (
	// NotFoundPath is the reserved path whose handler renders misses.
	NotFoundPath = "/404"

	// HashRoutePrefix marks a URL hash that carries a full route path.
	HashRoutePrefix = "#/"

	// DefaultScrollOffset is the height in pixels of the fixed top
	// navigation bar, subtracted from every anchor scroll target.
	DefaultScrollOffset = 80
)

// ErrNoHost is returned by operations that need a Host on a router built
// without one.
var ErrNoHost = errors.New("router: no host attached")

// Handler renders the page for a matched route.
type Handler func(ctx context.Context, params Params) (templ.Component, error)

// ErrorPage renders a replacement for a page whose handler failed.
type ErrorPage func(ctx context.Context, path string, err error) templ.Component

// State is the navigation state committed by the last successful resolution.
type State struct {
	Path   string
	Params Params
}

// Resolution describes the outcome of one route resolution.
type Resolution struct {
	Path     string
	Hash     string
	Pattern  string
	Params   Params
	Matched  bool // a registered pattern matched Path
	Fallback bool // the NotFoundPath handler ran instead
	Stale    bool // a newer resolution started; the render was discarded
	Err      error
}

// OK reports whether a matched page was rendered and swapped in.
func (r Resolution) OK() bool {
	return r.Matched && !r.Stale && r.Err == nil
}

type route struct {
	pattern Pattern
	handler Handler
}

type table struct {
	mu      sync.RWMutex
	exact   map[string]*route
	ordered []*route
}

func (t *table) add(p Pattern, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rt := &route{pattern: p, handler: h}
	t.ordered = append(t.ordered, rt)
	if _, ok := t.exact[p.String()]; !ok {
		t.exact[p.String()] = rt
	}
}

func (t *table) lookup(path string) (*route, Params, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if rt, ok := t.exact[path]; ok {
		return rt, Params{}, true
	}
	for _, rt := range t.ordered {
		if params, ok := rt.pattern.Match(path); ok {
			return rt, params, true
		}
	}
	return nil, nil, false
}

func (t *table) get(pattern string) (*route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rt, ok := t.exact[pattern]
	return rt, ok
}

func (t *table) patterns() []Pattern {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Pattern, 0, len(t.ordered))
	for _, rt := range t.ordered {
		out = append(out, rt.pattern)
	}
	return out
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for misses and handler failures.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// WithScrollOffset overrides DefaultScrollOffset.
func WithScrollOffset(px int) Option {
	return func(r *Router) { r.scrollOffset = px }
}

// WithErrorPage sets the page rendered when a handler fails.
func WithErrorPage(p ErrorPage) Option {
	return func(r *Router) { r.errorPage = p }
}

// Router resolves paths against a route table and drives a Host.
type Router struct {
	routes       *table
	host         Host
	log          logging.Logger
	scrollOffset int
	errorPage    ErrorPage

	gen atomic.Uint64

	mu     sync.Mutex
	state  State
	ctx    context.Context
	detach func()
}

// New returns a Router driving host. host may be nil for a router that only
// holds the route table; attach one later with WithHost.
func New(host Host, opts ...Option) *Router {
	r := &Router{
		routes:       &table{exact: map[string]*route{}},
		host:         host,
		log:          logging.Discard(),
		scrollOffset: DefaultScrollOffset,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithHost returns a Router that shares r's route table and options but
// drives host with its own navigation state.
func (r *Router) WithHost(host Host) *Router {
	return &Router{
		routes:       r.routes,
		host:         host,
		log:          r.log,
		scrollOffset: r.scrollOffset,
		errorPage:    r.errorPage,
	}
}

// Register adds pattern to the route table. Registering the same pattern
// twice keeps the first handler for exact lookups. It returns r so calls can
// be chained.
func (r *Router) Register(pattern string, h Handler) *Router {
	r.routes.add(ParsePattern(pattern), h)
	return r
}

// Patterns returns the registered patterns in registration order.
func (r *Router) Patterns() []Pattern {
	return r.routes.patterns()
}

// Current returns a copy of the committed navigation state.
func (r *Router) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	params := make(Params, len(r.state.Params))
	for k, v := range r.state.Params {
		params[k] = v
	}
	return State{Path: r.state.Path, Params: params}
}

// Init attaches the popstate, hashchange and click listeners to the host and
// resolves the current location once. ctx is used for every resolution
// triggered by a host event until Dispose is called.
func (r *Router) Init(ctx context.Context) (Resolution, error) {
	if r.host == nil {
		return Resolution{}, ErrNoHost
	}
	r.mu.Lock()
	if r.detach != nil {
		r.detach()
	}
	r.ctx = ctx
	r.detach = r.host.Listen(Listeners{
		PopState:   func() { r.ResolveCurrent(r.eventContext()) },
		HashChange: func() { r.ResolveCurrent(r.eventContext()) },
		Click:      func(ev *ClickEvent) { r.HandleLinkClick(r.eventContext(), ev) },
	})
	r.mu.Unlock()
	return r.ResolveCurrent(ctx), nil
}

// Dispose detaches the host listeners installed by Init.
func (r *Router) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}
}

func (r *Router) eventContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Navigate pushes path onto the host history and resolves it.
func (r *Router) Navigate(ctx context.Context, path string) Resolution {
	if r.host == nil {
		return Resolution{Path: path, Err: ErrNoHost}
	}
	r.host.PushState(path)
	return r.Resolve(ctx, path)
}

// ResolveCurrent resolves the host's current location.
func (r *Router) ResolveCurrent(ctx context.Context) Resolution {
	if r.host == nil {
		return Resolution{Err: ErrNoHost}
	}
	return r.Resolve(ctx, PathFromLocation(r.host.Location()))
}

// PathFromLocation picks the path to resolve for loc. A hash that starts
// with HashRoutePrefix is a route of its own and wins over the pathname;
// any other hash stays attached to the pathname as an anchor.
func PathFromLocation(loc Location) string {
	if strings.HasPrefix(loc.Hash, HashRoutePrefix) {
		return strings.TrimPrefix(loc.Hash, "#")
	}
	return loc.Pathname + loc.Hash
}

// Resolve matches raw against the route table, renders the matching page and
// swaps it into the host's root container. raw may carry an anchor hash,
// which is scrolled into view once the page is mounted.
func (r *Router) Resolve(ctx context.Context, raw string) Resolution {
	path, hash := SplitHash(raw)
	res := Resolution{Path: path, Hash: hash, Params: Params{}}
	if r.host == nil {
		res.Err = ErrNoHost
		return res
	}
	gen := r.gen.Add(1)

	rt, params, ok := r.routes.lookup(path)
	if !ok {
		r.log.Warnf("router: no route for %s", path)
		nf, ok := r.routes.get(NotFoundPath)
		if !ok {
			return res
		}
		res.Fallback = true
		res.Pattern = NotFoundPath
		r.dispatch(ctx, gen, nf, Params{}, &res)
		return res
	}

	res.Matched = true
	res.Pattern = rt.pattern.String()
	res.Params = params
	r.dispatch(ctx, gen, rt, params, &res)
	return res
}

func (r *Router) dispatch(ctx context.Context, gen uint64, rt *route, params Params, res *Resolution) {
	node, err := invoke(ctx, rt.handler, params)
	if err != nil {
		res.Err = err
		r.log.Errorf("router: handler for %s (%s) failed: %v", res.Path, rt.pattern, err)
		if r.errorPage == nil {
			return
		}
		node = r.errorPage(ctx, res.Path, err)
	}

	r.mu.Lock()
	if r.gen.Load() != gen {
		r.mu.Unlock()
		res.Stale = true
		r.log.Debugf("router: discarding stale render of %s", res.Path)
		return
	}
	if mountErr := r.host.Mount(ctx, node); mountErr != nil {
		r.mu.Unlock()
		r.log.Errorf("router: mount %s: %v", res.Path, mountErr)
		if res.Err == nil {
			res.Err = fmt.Errorf("router: mount %s: %w", res.Path, mountErr)
		}
		return
	}
	if res.Matched && res.Err == nil {
		r.state = State{Path: res.Path, Params: params}
	}
	r.mu.Unlock()

	if res.Matched && res.Err == nil && res.Hash != "" {
		r.scrollTo(res.Hash)
	}
}

func invoke(ctx context.Context, h Handler, params Params) (node templ.Component, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("router: handler panic: %v", v)
		}
	}()
	node, err = h(ctx, params)
	if err == nil && node == nil {
		err = errors.New("router: handler returned no content")
	}
	return node, err
}

func (r *Router) scrollTo(id string) {
	if !r.host.ScrollToAnchor(id, r.scrollOffset) {
		r.log.Debugf("router: anchor #%s not found", id)
	}
}

// HandleLinkClick intercepts a click on an anchor carrying the routing
// marker. It reports whether the click was handled; unmarked anchors are left
// to the host's native navigation.
//
// Hash-route links assign the location hash and let the hashchange listener
// resolve them. Anchor links on the current page only scroll. Anchor links
// to another page navigate first and scroll once the new page is mounted.
func (r *Router) HandleLinkClick(ctx context.Context, ev *ClickEvent) bool {
	if ev == nil || !ev.Internal || r.host == nil {
		return false
	}
	ev.PreventDefault()

	href := ev.Href
	switch {
	case strings.HasPrefix(href, HashRoutePrefix):
		r.host.SetHash(href)
	case strings.Contains(href, "#"):
		path, hash := SplitHash(href)
		if path == "" || path == r.host.Location().Pathname {
			r.scrollTo(hash)
			return true
		}
		if res := r.Navigate(ctx, path); !res.Stale {
			r.scrollTo(hash)
		}
	default:
		r.Navigate(ctx, href)
	}
	return true
}
