package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/models"
)

type fakeSettings struct {
	s   *models.ShopSettings
	err error
}

func (f fakeSettings) Get(context.Context, string) (*models.ShopSettings, error) { return f.s, f.err }

func resolve(t *testing.T, settings SettingsReader, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	h := Prefs(settings)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LangFrom(r)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return got, w
}

func TestPrefsQueryWinsAndSetsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app?lang=en", nil)
	req.AddCookie(&http.Cookie{Name: langCookie, Value: "fr"})
	lang, w := resolve(t, nil, req)
	if lang != "en" {
		t.Fatalf("expected en got %s", lang)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != langCookie || cookies[0].Value != "en" {
		t.Fatalf("expected lang cookie, got %+v", cookies)
	}
}

func TestPrefsCookieBeatsShop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.AddCookie(&http.Cookie{Name: langCookie, Value: "en"})
	req = req.WithContext(auth.WithShop(req.Context(), "demo.myshopify.com"))
	lang, _ := resolve(t, fakeSettings{s: &models.ShopSettings{UILanguage: "fr"}}, req)
	if lang != "en" {
		t.Fatalf("expected cookie language en got %s", lang)
	}
}

func TestPrefsShopLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	req = req.WithContext(auth.WithShop(req.Context(), "demo.myshopify.com"))
	lang, _ := resolve(t, fakeSettings{s: &models.ShopSettings{UILanguage: "en"}}, req)
	if lang != "en" {
		t.Fatalf("expected shop language en got %s", lang)
	}
}

func TestPrefsFallsBackToAcceptLanguage(t *testing.T) {
	cases := []struct {
		name     string
		settings SettingsReader
	}{
		{"no settings", fakeSettings{}},
		{"store error", fakeSettings{err: errors.New("boom")}},
		{"unsupported ui language", fakeSettings{s: &models.ShopSettings{UILanguage: "pt"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/app?lang=xx", nil)
			req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
			req = req.WithContext(auth.WithShop(req.Context(), "demo.myshopify.com"))
			lang, w := resolve(t, tc.settings, req)
			if lang != "en" {
				t.Fatalf("expected en got %s", lang)
			}
			if len(w.Result().Cookies()) != 0 {
				t.Fatalf("unsupported query language must not set a cookie")
			}
		})
	}
}

func TestPrefsDefault(t *testing.T) {
	lang, _ := resolve(t, nil, httptest.NewRequest(http.MethodGet, "/app", nil))
	if lang != i18n.DefaultLang {
		t.Fatalf("expected %s got %s", i18n.DefaultLang, lang)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	w := httptest.NewRecorder()
	Flash(w, req, "text.saveSuccess")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	if msg := TakeFlash(w2, next); msg != "Saved!" {
		t.Fatalf("expected Saved! got %q", msg)
	}
	if c := w2.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("expected flash cookie to be cleared, got %+v", c)
	}
}
