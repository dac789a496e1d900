//go:build js && wasm

// Command suar-client is the WebAssembly client. It binds every route of
// the page table to the server's partial renderer and takes over
// navigation for links marked with data-link.
package main

import (
	"context"
	"syscall/js"

	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/router/domhost"
	"github.com/suarindonesia/website/internal/views"
)

func main() {
	log := logging.New(logging.Config{Prefix: "suar-client", Level: "warn"})

	host, err := domhost.New(views.ContainerID)
	if err != nil {
		log.Errorf("client: %v", err)
		ready()
		return
	}

	r := router.New(host,
		router.WithLogger(log),
		router.WithErrorPage(views.ErrorPage),
	)
	origin := js.Global().Get("location").Get("origin").String()
	for _, pattern := range page.Routes {
		r.Register(pattern, page.Handler(func() page.Page {
			return page.Remote{BaseURL: origin, Pattern: pattern}
		}))
	}

	ctx := context.Background()
	if _, err := r.Init(ctx); err != nil {
		log.Errorf("client: %v", err)
	}
	ready()

	select {}
}

// ready tells the loader that the client has started.
func ready() {
	doc := js.Global().Get("document")
	ev := js.Global().Get("Event").New("suar:ready")
	doc.Call("dispatchEvent", ev)
}
