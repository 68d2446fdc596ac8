package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/gate"
)

// Cookie names for the two flag stores. The admin session cookie has no
// Max-Age and ends with the browser; the device cookie outlives it.
const (
	AdminSessionName  = "portfolio_admin"
	DeviceSessionName = "portfolio_device"
)

// SessionNames lists every session the router must register.
var SessionNames = []string{AdminSessionName, DeviceSessionName}

// sessionFlags adapts a gin session to gate.FlagStore.
type sessionFlags struct {
	session sessions.Session
	options sessions.Options
}

var _ gate.FlagStore = sessionFlags{}

func (f sessionFlags) Get(key string) bool {
	value, ok := f.session.Get(key).(bool)
	return ok && value
}

func (f sessionFlags) Set(key string) error {
	f.session.Set(key, true)
	f.session.Options(f.options)
	return f.session.Save()
}

func (f sessionFlags) Clear(key string) error {
	f.session.Delete(key)
	f.session.Options(f.options)
	return f.session.Save()
}

func (a *API) deviceFlags(c *gin.Context) gate.FlagStore {
	return sessionFlags{
		session: sessions.DefaultMany(c, DeviceSessionName),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(a.deviceMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   a.secureCookies,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (a *API) sessionFlags(c *gin.Context) gate.FlagStore {
	return sessionFlags{
		session: sessions.DefaultMany(c, AdminSessionName),
		options: sessions.Options{
			Path:     "/",
			HttpOnly: true,
			Secure:   a.secureCookies,
			SameSite: http.SameSiteLaxMode,
		},
	}
}
