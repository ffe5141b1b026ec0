// Package middleware holds request-scoped preference handling for the admin UI.
package middleware

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/models"
)

const langCookie = "lang"

// SettingsReader loads a shop's saved settings, nil when absent.
type SettingsReader interface {
	Get(ctx context.Context, shop string) (*models.ShopSettings, error)
}

// Prefs resolves the interface language (query > cookie > shop uiLanguage >
// Accept-Language) and stores it in the context. A query-provided language is
// kept in a cookie for ~30 days.
func Prefs(settings SettingsReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if ql := r.URL.Query().Get("lang"); ql != "" && i18n.IsSupported(ql) {
				lang = ql
				http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30, SameSite: http.SameSiteLaxMode})
			}
			if lang == "" {
				if c, err := r.Cookie(langCookie); err == nil && i18n.IsSupported(c.Value) {
					lang = c.Value
				}
			}
			if lang == "" && settings != nil {
				lang = shopLanguage(r, settings)
			}
			if lang == "" {
				lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}

func shopLanguage(r *http.Request, settings SettingsReader) string {
	shop, ok := auth.ShopFromContext(r.Context())
	if !ok {
		return ""
	}
	s, err := settings.Get(r.Context(), shop)
	if err != nil {
		logger.FromContext(r.Context()).Warn("load ui language", zap.String("shop", shop), zap.Error(err))
		return ""
	}
	if s == nil || !i18n.IsSupported(s.UILanguage) {
		return ""
	}
	return s.UILanguage
}

// LangFrom returns the interface language of r, or fr.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// Flash sets a translated flash message cookie using translation code (or literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(LangFrom(r), code)
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: url.QueryEscape(msg), Path: "/"})
}

// TakeFlash returns and clears the flash message, if any.
func TakeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
