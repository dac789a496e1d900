package router

import (
	"context"

	"github.com/a-h/templ"
)

// Location is the part of the current URL the router cares about. Hash keeps
// its leading "#", as in the browser.
type Location struct {
	Pathname string
	Hash     string
}

// String joins pathname and hash back into a URL path.
func (l Location) String() string {
	return l.Pathname + l.Hash
}

// ClickEvent is a click on an anchor element. Internal is true when the
// anchor carries the client-side routing marker attribute.
type ClickEvent struct {
	Href     string
	Internal bool

	prevented bool
}

// PreventDefault suppresses the host's native navigation for the click.
func (e *ClickEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *ClickEvent) DefaultPrevented() bool { return e.prevented }

// Listeners are the callbacks a Host invokes for navigation events.
type Listeners struct {
	PopState   func()
	HashChange func()
	Click      func(*ClickEvent)
}

// Host is the environment a Router drives: the browser window in the wasm
// client, an in-memory stand-in on the server and in tests.
type Host interface {
	// Location returns the current pathname and hash.
	Location() Location

	// PushState adds path to the session history without emitting a
	// popstate event.
	PushState(path string)

	// SetHash assigns the location hash. Hosts emit a hashchange event
	// when the value changes.
	SetHash(hash string)

	// Mount replaces the content of the root container with node.
	Mount(ctx context.Context, node templ.Component) error

	// ScrollToAnchor smooth-scrolls the element with the given id into
	// view, offset pixels above it. It reports whether the element exists.
	ScrollToAnchor(id string, offset int) bool

	// Listen attaches l and returns a function that detaches it.
	Listen(l Listeners) (detach func())
}
