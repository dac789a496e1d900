// Package suar serves the Suar Indonesia website, built with Go, Echo and
// templ.
//
// Every route of the page table is resolved through the same router the
// WebAssembly client runs in the browser, so a full page load and a client
// side navigation render identical content. Live content comes from the
// remote content store; articles are mirrored into a local sqlite store that
// serves them again when the remote is down.
package suar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/logging"
	"github.com/suarindonesia/website/internal/page"
	"github.com/suarindonesia/website/internal/pages"
	"github.com/suarindonesia/website/internal/router"
	"github.com/suarindonesia/website/internal/store"
	"github.com/suarindonesia/website/internal/views"
)

// App wires together the local store, the content sources, the route table
// and the HTTP surface.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Log    *log.Logger
	Store  *store.Store
	Repo   *content.Repository
	Cache  *ArticleCache
	Static *content.Static
	Router *router.Router

	remote       content.Remote
	loginLimiter *LoginLimiter
	startupErr   error
	clientReady  bool
}

// New creates an App with the given configuration. Call Setup before
// serving.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = logging.New(logging.Config{Level: cfg.LogLevel})
	}
	a.Echo.Logger = a.Log
	return a
}

// Setup opens the local store, loads content, builds the route table and
// installs middleware and routes. A store that fails to open does not fail
// Setup: the site then answers every page with the startup failure screen.
func (a *App) Setup(ctx context.Context) error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	st, err := store.Open(ctx, store.Config{Dir: a.Config.StoreDir, Name: a.Config.StoreName})
	if err != nil {
		a.Log.Errorf("suar: open local store %s: %v", a.Config.StoreName, err)
		a.startupErr = err
	} else {
		a.Store = st
	}

	if a.remote == nil && a.Config.RemoteURL != "" {
		a.remote = content.NewRESTRemote(a.Config.RemoteURL, a.Config.RemoteKey)
	}
	if a.remote == nil {
		a.Log.Warnf("suar: no remote content store configured, serving cached content only")
	}
	a.Repo = content.NewRepository(a.remote, a.Store, a.Log)
	a.Cache = NewArticleCache(a.Repo, a.Config.CacheTTL)

	if a.Static == nil {
		s, err := content.LoadStatic(a.Config.ContentDir, a.Log)
		if err != nil {
			return fmt.Errorf("suar: load content: %w", err)
		}
		a.Static = s
		if a.Config.ContentWatch {
			if err := s.Watch(ctx, 200*time.Millisecond); err != nil {
				a.Log.Warnf("suar: %v", err)
			}
		}
	}

	deps := pages.Deps{
		Site:    a.site(),
		Content: a.Cache,
		Static:  a.Static,
		Log:     a.Log,
	}
	if a.Store != nil {
		deps.Legacy = a.Repo.Legacy()
	}
	a.Router = pages.Register(router.New(nil,
		router.WithLogger(a.Log),
		router.WithErrorPage(views.ErrorPage),
	), deps)

	if a.Config.Client {
		missing := a.missingClientAssets()
		if len(missing) > 0 {
			a.Log.Warnf("suar: client disabled, %v missing from %s; run \"suar client build\"",
				missing, a.Config.StaticDir)
		}
		a.clientReady = len(missing) == 0
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	go a.loginLimiter.Run(ctx)

	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

// Start sets the App up and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// ClientAssets are the files "suar client build" writes into the static
// directory. The client is loaded only when all of them are present.
var ClientAssets = []string{"suar.wasm", "wasm_exec.js"}

func (a *App) missingClientAssets() []string {
	var missing []string
	for _, name := range ClientAssets {
		if info, err := os.Stat(filepath.Join(a.Config.StaticDir, name)); err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Logo:        a.Config.Logo,
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/*", a.handlePublic)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Route patterns and echo paths share the ":" parameter syntax.
	for _, p := range a.Router.Patterns() {
		e.GET(p.String(), a.handlePage)
	}
	e.POST(page.Kontak, a.handleContact)

	if a.Config.AdminPassword != "" {
		e.GET("/admin", a.handleAdmin)
		e.POST("/admin/login", a.handleAdminLogin)
		e.POST("/admin/logout", handleAdminLogout)
		e.POST("/admin/sync", a.handleAdminSync)
		e.POST("/admin/clear/:collection", a.handleAdminClear)
		e.POST("/admin/assets", a.handleAssetUpload)
	}

	e.RouteNotFound("/*", a.handlePage)
}

// Close releases the local store.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
