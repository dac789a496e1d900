// Package page defines the contract every routed page fulfils and the route
// table the site is built from.
//
// A page renders to a templ.Component. Render may fetch data first; the
// router awaits it before swapping the result into the root container. A
// page that cannot find its primary content returns a "not found" component
// instead of an error, so the container is never left half-written.
package page

import (
	"context"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/router"
)

// Page renders one routed view. params is empty for static routes.
type Page interface {
	Render(ctx context.Context, params router.Params) (templ.Component, error)
}

// Func adapts a function to Page.
type Func func(ctx context.Context, params router.Params) (templ.Component, error)

// Render implements Page.
func (f Func) Render(ctx context.Context, params router.Params) (templ.Component, error) {
	return f(ctx, params)
}

// Factory builds a fresh Page.
type Factory func() Page

// Handler returns a router handler that builds a new page from f for every
// invocation, so no page instance is shared between navigations.
func Handler(f Factory) router.Handler {
	return func(ctx context.Context, params router.Params) (templ.Component, error) {
		if params == nil {
			params = router.Params{}
		}
		return f().Render(ctx, params)
	}
}
