package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/models"
)

func request(lang string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	ctx := i18n.WithLang(req.Context(), lang)
	ctx = auth.WithShop(ctx, "demo.myshopify.com")
	return req.WithContext(ctx)
}

func TestRenderDashboardTranslates(t *testing.T) {
	ResetForTests()
	for lang, want := range map[string]string{"en": "Gmail not configured", "fr": "Gmail non configuré"} {
		w := httptest.NewRecorder()
		if err := Render(w, request(lang), "dashboard.html", map[string]any{"SMTPConfigured": false}); err != nil {
			t.Fatalf("render %s: %v", lang, err)
		}
		body := w.Body.String()
		if !strings.Contains(body, want) {
			t.Fatalf("%s: expected %q in body: %s", lang, want, body)
		}
		if !strings.Contains(body, `<html lang="`+lang+`">`) {
			t.Fatalf("%s: expected html lang attribute", lang)
		}
	}
}

func TestRenderStatusAndContentType(t *testing.T) {
	w := httptest.NewRecorder()
	if err := RenderStatus(w, request("en"), http.StatusNotFound, "not_found.html", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !strings.Contains(w.Body.String(), "Order not found.") {
		t.Fatalf("expected not found text")
	}
}

func TestRenderSettingsForm(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]any{
		"S":              models.DefaultShopSettings("demo.myshopify.com"),
		"Layouts":        []string{"classic", "mirrored", "centered"},
		"Fonts":          []string{"Helvetica"},
		"Languages":      i18n.Supported(),
		"UILanguages":    []string{"fr", "en"},
		"Errors":         map[string]string{"brandColor": "Invalid color"},
		"SMTPConfigured": false,
		"PreviewTitle":   "INVOICE",
	}
	if err := Render(w, request("en"), "settings.html", data); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := w.Body.String()
	for _, want := range []string{`value="classic" selected`, "Invalid color", "Style &amp; Layout", `name="showWatermark" type="checkbox" value="true" checked`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in settings body", want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if err := Render(httptest.NewRecorder(), request("fr"), "missing.html", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestDict(t *testing.T) {
	dict := Funcs("fr")["dict"].(func(...any) map[string]any)
	if m := dict("a", 1, "b", 2); m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("unexpected dict %v", m)
	}
	if dict("odd") != nil {
		t.Fatalf("expected nil for odd pair count")
	}
}
