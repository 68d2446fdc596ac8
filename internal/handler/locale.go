package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/locale"
)

const (
	localeContextKey     = "__request_locale"
	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// LocaleMiddleware resolves the request language and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := requestLocale(c)
		c.Header("Content-Language", pref.HTMLLang)
		appendVaryHeader(c, "Accept-Language", "Cookie")
		c.Next()
	}
}

// ShowLanguage returns the active language and its UI labels.
func (a *API) ShowLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, languagePayload(requestLocale(c)))
}

// ToggleLanguage 在 en 与 id 之间切换并写入 cookie。
func (a *API) ToggleLanguage(c *gin.Context) {
	next := locale.PreferenceForLanguage(locale.Toggle(requestLocale(c).Language))
	a.persistLanguage(c, next.Language)
	c.Set(localeContextKey, next)
	c.Header("Content-Language", next.HTMLLang)
	c.JSON(http.StatusOK, languagePayload(next))
}

func languagePayload(pref locale.Preference) gin.H {
	return gin.H{
		"language":  pref.Language,
		"locale":    pref.Locale,
		"html_lang": pref.HTMLLang,
		"labels":    locale.Catalog(pref.Language),
	}
}

func requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	cookie, _ := c.Cookie(locale.CookieName)
	pref := locale.PreferenceForLanguage(locale.Resolve(cookie, c.GetHeader("Accept-Language")))
	c.Set(localeContextKey, pref)
	return pref
}

func (a *API) persistLanguage(c *gin.Context, language string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     locale.CookieName,
		Value:    language,
		Path:     "/",
		HttpOnly: false,
		Secure:   a.secureCookies,
		MaxAge:   languageCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	existing := c.Writer.Header().Get("Vary")
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	for _, token := range append(strings.Split(existing, ","), headers...) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
