package suar

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suarindonesia/website/internal/store"
	"github.com/suarindonesia/website/internal/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	a.loginLimiter.Record(ip)
	c.Logger().Warnf("admin: failed login from %s", ip)
	return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// handleAdminSync replaces the cached articles and page documents with the
// remote's and drops the in-memory article cache.
func (a *App) handleAdminSync(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	res, err := a.Repo.Sync(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("admin: sync: %v", err)
		return a.renderAdminDashboard(c, "Sinkronisasi gagal: "+err.Error())
	}
	a.Cache.Invalidate()
	msg := fmt.Sprintf("%d artikel dan %d halaman disinkronkan.", res.Articles, res.Pages)
	if res.Skipped > 0 {
		msg += fmt.Sprintf(" %d baris dilewati.", res.Skipped)
	}
	return a.renderAdminDashboard(c, msg)
}

func (a *App) handleAdminClear(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	name := c.Param("collection")
	err := a.Store.Clear(c.Request().Context(), name)
	if errors.Is(err, store.ErrUnknownCollection) {
		return c.String(http.StatusNotFound, "Unknown collection")
	}
	if err != nil {
		return err
	}
	if name == store.Articles {
		a.Cache.Invalidate()
	}
	c.Logger().Infof("admin: cleared collection %s", name)
	return a.renderAdminDashboard(c, "Koleksi "+name+" dikosongkan.")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	stats, err := CollectStats(c.Request().Context(), a.Store)
	if err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(stats.View(), msg, CsrfToken(c)))
}
