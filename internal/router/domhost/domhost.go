//go:build js && wasm

// Package domhost implements router.Host on top of the browser window, for
// the WebAssembly client.
package domhost

import (
	"bytes"
	"context"
	"errors"
	"syscall/js"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/router"
)

// LinkMarker is the boolean attribute that opts an anchor into client-side
// routing.
const LinkMarker = "data-link"

// Host drives window.history, window.location and one root container.
type Host struct {
	window    js.Value
	document  js.Value
	container js.Value
}

// New returns a Host whose root container is the element with containerID.
func New(containerID string) (*Host, error) {
	window := js.Global()
	document := window.Get("document")
	container := document.Call("getElementById", containerID)
	if container.IsNull() || container.IsUndefined() {
		return nil, errors.New("domhost: root container #" + containerID + " not found")
	}
	return &Host{window: window, document: document, container: container}, nil
}

// Location implements router.Host.
func (h *Host) Location() router.Location {
	loc := h.window.Get("location")
	return router.Location{
		Pathname: loc.Get("pathname").String(),
		Hash:     loc.Get("hash").String(),
	}
}

// PushState implements router.Host.
func (h *Host) PushState(path string) {
	h.window.Get("history").Call("pushState", js.Null(), "", path)
}

// SetHash implements router.Host. The browser emits hashchange itself.
func (h *Host) SetHash(hash string) {
	h.window.Get("location").Set("hash", hash)
}

// Mount implements router.Host by rendering node to HTML and replacing the
// container's children.
func (h *Host) Mount(ctx context.Context, node templ.Component) error {
	var buf bytes.Buffer
	if err := node.Render(ctx, &buf); err != nil {
		return err
	}
	h.container.Set("innerHTML", buf.String())
	return nil
}

// ScrollToAnchor implements router.Host.
func (h *Host) ScrollToAnchor(id string, offset int) bool {
	el := h.document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return false
	}
	top := el.Call("getBoundingClientRect").Get("top").Float() +
		h.window.Get("pageYOffset").Float() - float64(offset)
	opts := js.Global().Get("Object").New()
	opts.Set("top", top)
	opts.Set("behavior", "smooth")
	h.window.Call("scrollTo", opts)
	return true
}

// Listen implements router.Host. Callbacks run on their own goroutine
// because resolutions block on network fetches, which must not happen
// inside a js.Func. Clicks on marked anchors have their default action
// prevented synchronously.
func (h *Host) Listen(l router.Listeners) func() {
	popstate := js.FuncOf(func(js.Value, []js.Value) any {
		if l.PopState != nil {
			go l.PopState()
		}
		return nil
	})
	hashchange := js.FuncOf(func(js.Value, []js.Value) any {
		if l.HashChange != nil {
			go l.HashChange()
		}
		return nil
	})
	click := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if l.Click == nil || len(args) == 0 {
			return nil
		}
		target := args[0].Get("target")
		if target.IsNull() || target.IsUndefined() || target.Get("closest").IsUndefined() {
			return nil
		}
		anchor := target.Call("closest", "a["+LinkMarker+"]")
		if anchor.IsNull() {
			return nil
		}
		args[0].Call("preventDefault")
		ev := &router.ClickEvent{
			Href:     anchor.Call("getAttribute", "href").String(),
			Internal: true,
		}
		go l.Click(ev)
		return nil
	})

	h.window.Call("addEventListener", "popstate", popstate)
	h.window.Call("addEventListener", "hashchange", hashchange)
	h.document.Call("addEventListener", "click", click)

	return func() {
		h.window.Call("removeEventListener", "popstate", popstate)
		h.window.Call("removeEventListener", "hashchange", hashchange)
		h.document.Call("removeEventListener", "click", click)
		popstate.Release()
		hashchange.Release()
		click.Release()
	}
}

var _ router.Host = (*Host)(nil)
