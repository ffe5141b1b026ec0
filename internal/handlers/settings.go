package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/middleware"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/pdf"
	"github.com/diewo77/shop-invoices/internal/store"
	"github.com/diewo77/shop-invoices/validation"
	"github.com/diewo77/shop-invoices/view"
)

// MaxImageBytes caps each uploaded logo or signature.
const MaxImageBytes = 3 << 20

// Two images plus their base64 overhead and the text fields.
const maxSettingsBody = 2*(MaxImageBytes*4/3) + 1<<20

var errTooLarge = errors.New("too_large")

// Fonts offered by the settings screen.
var Fonts = []string{"Helvetica", "Arial", "Times", "Courier"}

type SettingsHandler struct {
	settings *store.SettingsStore
}

func NewSettingsHandler(settings *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// settingsView is the JSON shape of the settings; the password is never included.
type settingsView struct {
	models.ShopSettings
	SMTPConfigured bool `json:"smtpConfigured"`
}

type settingsInput struct {
	Layout           string `json:"layout" validate:"omitempty,oneof=classic mirrored centered"`
	DocumentLanguage string `json:"documentLanguage" validate:"omitempty,oneof=fr en es de it"`
	UILanguage       string `json:"uiLanguage" validate:"omitempty,oneof=fr en es de it"`
	SMTPEmail        string `json:"smtpEmail" validate:"omitempty,email"`
}

func (h *SettingsHandler) load(r *http.Request, shop string) (models.ShopSettings, bool, error) {
	saved, err := h.settings.Get(r.Context(), shop)
	if err != nil {
		return models.ShopSettings{}, false, err
	}
	return models.ResolveSettings(shop, saved), saved != nil, nil
}

// Get returns the shop's settings merged over the defaults.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	s, _, err := h.load(r, shop)
	if err != nil {
		logger.FromContext(r.Context()).Error("load settings", zap.String("shop", shop), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settingsView{ShopSettings: s, SMTPConfigured: s.HasSMTP()})
}

// Edit shows the settings form.
func (h *SettingsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	s, _, err := h.load(r, shop)
	if err != nil {
		logger.FromContext(r.Context()).Error("load settings", zap.String("shop", shop), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, s, nil)
}

func (h *SettingsHandler) render(w http.ResponseWriter, r *http.Request, status int, s models.ShopSettings, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	if err := view.RenderStatus(w, r, status, "settings.html", map[string]any{
		"S":              s,
		"Layouts":        invoice.Layouts(),
		"Fonts":          Fonts,
		"Languages":      i18n.Supported(),
		"UILanguages":    i18n.Supported(),
		"Errors":         errs,
		"SMTPConfigured": s.HasSMTP(),
		"PreviewTitle":   i18n.ResolveBundle(s.DocumentLanguage).Doc.Invoice,
		"Flash":          middleware.TakeFlash(w, r),
	}); err != nil {
		logger.FromContext(r.Context()).Error("render settings", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Save upserts the settings from a form or multipart body. Fields absent from
// the form keep their saved value, except the watermark checkbox. A blank
// password keeps the saved one.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context()).With(zap.String("shop", shop))

	r.Body = http.MaxBytesReader(w, r.Body, maxSettingsBody)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxSettingsBody)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "too_large", nil)
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	current, _, err := h.load(r, shop)
	if err != nil {
		log.Error("load settings", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	next, v, err := applyForm(r, current)
	if errors.Is(err, errTooLarge) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "too_large", v.Translate(func(code string) string { return tr(r, code) }))
		return
	}
	if err != nil {
		log.Error("read settings form", zap.Error(err))
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	if !v.Empty() {
		errs := v.Translate(func(code string) string { return tr(r, code) })
		if apiRequest(r) && !acceptsHTML(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation", errs)
			return
		}
		h.render(w, r, http.StatusBadRequest, next, errs)
		return
	}

	saved, err := h.settings.Upsert(r.Context(), shop, next)
	if err != nil {
		log.Error("save settings", zap.Error(err))
		if acceptsHTML(r) {
			middleware.Flash(w, r, "text.saveError")
			http.Redirect(w, r, "/app/settings", http.StatusSeeOther)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	log.Info("settings saved", zap.String("smtp_email", logger.MaskEmail(saved.SMTPEmail)))
	if acceptsHTML(r) {
		middleware.Flash(w, r, "text.saveSuccess")
		http.Redirect(w, r, "/app/settings", http.StatusSeeOther)
		return
	}
	s := saved.WithDefaults()
	httpx.JSON(w, http.StatusOK, settingsView{ShopSettings: s, SMTPConfigured: s.HasSMTP()})
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// applyForm copies the submitted fields over s and validates the result.
func applyForm(r *http.Request, s models.ShopSettings) (models.ShopSettings, validation.Violations, error) {
	v := validation.Violations{}
	text := func(key string, dst *string) {
		if vals, ok := r.Form[key]; ok && len(vals) > 0 {
			*dst = strings.TrimSpace(vals[0])
		}
	}
	number := func(key string, dst *int, lo, hi int) {
		vals, ok := r.Form[key]
		if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil {
			v[key] = "out_of_range"
			return
		}
		validation.RangeInt(key, n, lo, hi, v)
		*dst = n
	}

	text("companyName", &s.CompanyName)
	text("address", &s.Address)
	text("siret", &s.Siret)
	text("tvaIntra", &s.TvaIntra)
	text("legalInfo", &s.LegalInfo)
	text("brandColor", &s.BrandColor)
	text("secondaryColor", &s.SecondaryColor)
	text("titleColor", &s.TitleColor)
	text("font", &s.Font)
	text("layout", &s.Layout)
	text("documentLanguage", &s.DocumentLanguage)
	text("uiLanguage", &s.UILanguage)
	text("smtpEmail", &s.SMTPEmail)
	number("fontSize", &s.FontSize, 6, 24)
	number("logoSize", &s.LogoSize, 20, 200)
	if pw := strings.TrimSpace(r.FormValue("smtpPassword")); pw != "" {
		s.SMTPPassword = strings.ReplaceAll(pw, " ", "")
	}
	switch strings.ToLower(r.FormValue("showWatermark")) {
	case "true", "on", "1":
		s.ShowWatermark = true
	default:
		s.ShowWatermark = false
	}

	validation.HexColor("brandColor", s.BrandColor, v)
	validation.HexColor("secondaryColor", s.SecondaryColor, v)
	validation.HexColor("titleColor", s.TitleColor, v)
	validation.OneOf("font", s.Font, Fonts, v)
	if err := validation.Struct(settingsInput{
		Layout:           s.Layout,
		DocumentLanguage: s.DocumentLanguage,
		UILanguage:       s.UILanguage,
		SMTPEmail:        s.SMTPEmail,
	}, v); err != nil {
		return s, v, err
	}

	var tooLarge bool
	for _, img := range []imageInput{
		{file: "logo", field: "logoImage", dst: &s.LogoImage},
		{file: "signature", field: "signatureImage", dst: &s.SignatureImage},
	} {
		url, present, err := imageField(r, img.file, img.field)
		if errors.Is(err, errTooLarge) {
			v[img.field] = "too_large"
			tooLarge = true
			continue
		}
		if err != nil {
			v[img.field] = "invalid_choice"
			continue
		}
		if present {
			*img.dst = url
		}
	}
	if tooLarge {
		return s, v, errTooLarge
	}
	return s, v, nil
}

type imageInput struct {
	file, field string
	dst         *string
}

// imageField reads an uploaded file or a data URL field. present is false when
// the form carries neither, so the saved image is kept.
func imageField(r *http.Request, fileKey, fieldKey string) (string, bool, error) {
	if r.MultipartForm != nil {
		if fhs := r.MultipartForm.File[fileKey]; len(fhs) > 0 && fhs[0].Size > 0 {
			url, err := fileDataURL(fhs[0])
			return url, err == nil, err
		}
	}
	vals, ok := r.Form[fieldKey]
	if !ok || len(vals) == 0 {
		return "", false, nil
	}
	src := strings.TrimSpace(vals[0])
	if src == "" {
		return "", true, nil
	}
	if pdf.DecodedSize(src) > MaxImageBytes {
		return "", false, errTooLarge
	}
	if _, _, err := pdf.DecodeDataURL(src); err != nil {
		return "", false, err
	}
	return src, true, nil
}

func fileDataURL(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageBytes {
		return "", errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageBytes {
		return "", errTooLarge
	}
	ct := http.DetectContentType(data)
	if ct != "image/png" && ct != "image/jpeg" {
		return "", pdf.ErrUnsupportedImage
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
