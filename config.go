package suar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"

	"github.com/suarindonesia/website/internal/content"
	"github.com/suarindonesia/website/internal/store"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, so
// "store.dir" is read from SUAR_STORE_DIR.
const EnvPrefix = "SUAR"

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name (default "Suar Indonesia")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Logo        string // Path of the logo under /public

	Addr string // Listen address (default ":3000")

	StoreDir  string // Local store directory (default "data")
	StoreName string // Local store name (default store.DefaultName)

	RemoteURL string // Remote content store endpoint; empty serves cached content only
	RemoteKey string // Remote content store API key

	ContentDir   string // Directory holding content.StaticFile (default "content")
	ContentWatch bool   // Reload static content when it changes
	StaticDir    string // Directory of user-owned public assets (default "public")
	Client       bool   // Load the WebAssembly client built by "suar client build"

	AdminPassword string // Cache admin password; empty disables /admin
	SessionSecret string // Session encryption secret, required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS

	CacheTTL time.Duration // Article cache TTL (default 5min)
	LogLevel string        // debug, info, warn, error or off (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Suar Indonesia"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StoreDir == "" {
		c.StoreDir = "data"
	}
	if c.StoreName == "" {
		c.StoreName = store.DefaultName
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c SiteConfig) validate() error {
	if c.AdminPassword != "" && c.SessionSecret == "" {
		return errors.New("suar: session.secret is required when admin.password is set")
	}
	return nil
}

// LoadConfig reads the configuration from path, if not empty, and from
// SUAR_* environment variables, which take precedence.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var d SiteConfig
	d.setDefaults()
	defaults := map[string]any{
		"name":           d.Name,
		"url":            d.URL,
		"description":    "",
		"logo":           "",
		"addr":           d.Addr,
		"store.dir":      d.StoreDir,
		"store.name":     d.StoreName,
		"remote.url":     "",
		"remote.key":     "",
		"content.dir":    d.ContentDir,
		"content.watch":  false,
		"static_dir":     d.StaticDir,
		"client":         true,
		"admin.password": "",
		"session.secret": "",
		"cookie_secure":  false,
		"cache_ttl":      d.CacheTTL,
		"log.level":      d.LogLevel,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("suar: read config %s: %w", path, err)
		}
	}

	cfg := SiteConfig{
		Name:          v.GetString("name"),
		URL:           v.GetString("url"),
		Description:   v.GetString("description"),
		Logo:          v.GetString("logo"),
		Addr:          v.GetString("addr"),
		StoreDir:      v.GetString("store.dir"),
		StoreName:     v.GetString("store.name"),
		RemoteURL:     v.GetString("remote.url"),
		RemoteKey:     v.GetString("remote.key"),
		ContentDir:    v.GetString("content.dir"),
		ContentWatch:  v.GetBool("content.watch"),
		StaticDir:     v.GetString("static_dir"),
		Client:        v.GetBool("client"),
		AdminPassword: v.GetString("admin.password"),
		SessionSecret: v.GetString("session.secret"),
		CookieSecure:  v.GetBool("cookie_secure"),
		CacheTTL:      v.GetDuration("cache_ttl"),
		LogLevel:      v.GetString("log.level"),
	}
	cfg.setDefaults()
	return cfg, cfg.validate()
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger replaces the logger built from SiteConfig.LogLevel.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithRemote replaces the remote content store built from
// SiteConfig.RemoteURL.
func WithRemote(r content.Remote) Option {
	return func(a *App) {
		a.remote = r
	}
}

// WithStatic serves c instead of the content directory.
func WithStatic(c content.SiteContent) Option {
	return func(a *App) {
		a.Static = content.NewStatic(c)
	}
}
