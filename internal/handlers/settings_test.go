package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/store"
)

func postForm(h *SettingsHandler, form url.Values, accept string) *httptest.ResponseRecorder {
	req := asShop(httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	h.Save(w, req)
	return w
}

func TestSettingsGetDefaults(t *testing.T) {
	h := NewSettingsHandler(store.NewSettingsStore(setupTestDB(t)))
	w := httptest.NewRecorder()
	h.Get(w, asShop(httptest.NewRequest(http.MethodGet, "/api/settings", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["layout"] != "classic" || got["showWatermark"] != true || got["smtpConfigured"] != false {
		t.Fatalf("unexpected defaults %v", got)
	}
	if _, leaked := got["smtpPassword"]; leaked {
		t.Fatalf("password must never be returned")
	}
}

func TestSettingsSaveKeepsPasswordWhenBlank(t *testing.T) {
	settings := store.NewSettingsStore(setupTestDB(t))
	h := NewSettingsHandler(settings)

	w := postForm(h, url.Values{
		"companyName":  {"Ma Boutique"},
		"brandColor":   {"#112233"},
		"layout":       {"mirrored"},
		"fontSize":     {"12"},
		"smtpEmail":    {"shop@gmail.com"},
		"smtpPassword": {"abcd efgh ijkl mnop"},
	}, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "abcd") {
		t.Fatalf("password leaked in response")
	}

	w = postForm(h, url.Values{"companyName": {"Renamed"}, "smtpPassword": {""}}, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	saved, err := settings.Get(context.Background(), testShop)
	if err != nil || saved == nil {
		t.Fatalf("get: %v", err)
	}
	if saved.CompanyName != "Renamed" || saved.Layout != "mirrored" || saved.FontSize != 12 {
		t.Fatalf("unexpected saved settings %+v", saved)
	}
	if saved.SMTPPassword != "abcdefghijklmnop" {
		t.Fatalf("expected password kept, got %q", saved.SMTPPassword)
	}
	if saved.ShowWatermark {
		t.Fatalf("unchecked watermark box must save false")
	}
}

func TestSettingsSaveValidation(t *testing.T) {
	h := NewSettingsHandler(store.NewSettingsStore(setupTestDB(t)))
	cases := map[string]url.Values{
		"brandColor":       {"brandColor": {"blue"}},
		"layout":           {"layout": {"diagonal"}},
		"fontSize":         {"fontSize": {"99"}},
		"logoSize":         {"logoSize": {"abc"}},
		"documentLanguage": {"documentLanguage": {"pt"}},
		"smtpEmail":        {"smtpEmail": {"not-an-email"}},
		"logoImage":        {"logoImage": {"https://cdn.example.com/logo.png"}},
	}
	for field, form := range cases {
		w := postForm(h, form, "application/json")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", field, w.Code)
		}
		var resp struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", field, err)
		}
		if resp.Details[field] == "" {
			t.Fatalf("%s: expected violation, got %v", field, resp.Details)
		}
	}
}

func TestSettingsSaveRejectsLargeImage(t *testing.T) {
	h := NewSettingsHandler(store.NewSettingsStore(setupTestDB(t)))
	big := "data:image/png;base64," + strings.Repeat("A", (MaxImageBytes/3+10)*4)
	w := postForm(h, url.Values{"logoImage": {big}}, "application/json")
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestSettingsMultipartUpload(t *testing.T) {
	settings := store.NewSettingsStore(setupTestDB(t))
	h := NewSettingsHandler(settings)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("companyName", "Logo Shop")
	fw, err := mw.CreateFormFile("logo", "logo.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(pngBytes(t))
	_ = mw.Close()

	req := asShop(httptest.NewRequest(http.MethodPost, "/api/settings", &body))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d %s", w.Code, w.Body.String())
	}
	saved, _ := settings.Get(context.Background(), testShop)
	if saved == nil || !strings.HasPrefix(saved.LogoImage, "data:image/png;base64,") {
		t.Fatalf("expected logo data url, got %+v", saved)
	}
}

func TestSettingsMultipartRejectsOversizedFile(t *testing.T) {
	h := NewSettingsHandler(store.NewSettingsStore(setupTestDB(t)))
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("signature", "sig.png")
	_, _ = fw.Write(append(pngBytes(t), make([]byte, MaxImageBytes)...))
	_ = mw.Close()

	req := asShop(httptest.NewRequest(http.MethodPost, "/api/settings", &body))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestSettingsBrowserPostRedirects(t *testing.T) {
	h := NewSettingsHandler(store.NewSettingsStore(setupTestDB(t)))
	w := postForm(h, url.Values{"companyName": {"Shop"}}, "text/html,application/xhtml+xml")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/app/settings" {
		t.Fatalf("unexpected redirect %s", loc)
	}
}

func TestSettingsEditShowsSavedValues(t *testing.T) {
	settings := store.NewSettingsStore(setupTestDB(t))
	in := models.DefaultShopSettings(testShop)
	in.CompanyName = "Atelier Dupont"
	if _, err := settings.Upsert(context.Background(), testShop, in); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	h := NewSettingsHandler(settings)
	w := httptest.NewRecorder()
	h.Edit(w, asShop(httptest.NewRequest(http.MethodGet, "/app/settings", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Atelier Dupont") {
		t.Fatalf("expected company name in form")
	}
}
