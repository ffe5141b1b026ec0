package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/store"
	"github.com/diewo77/shop-invoices/validation"
	"github.com/diewo77/shop-invoices/view"
)

type BannerHandler struct {
	banners *store.BannerStore
}

func NewBannerHandler(banners *store.BannerStore) *BannerHandler {
	return &BannerHandler{banners: banners}
}

type bannerInput struct {
	Message         string `json:"message"`
	BackgroundColor string `json:"backgroundColor" validate:"omitempty,hexcolor"`
	TextColor       string `json:"textColor" validate:"omitempty,hexcolor"`
	IsEnabled       *bool  `json:"isEnabled"`
	TextAlign       string `json:"textAlign" validate:"omitempty,oneof=left center right"`
}

func (h *BannerHandler) load(r *http.Request, shop string) (models.BannerConfig, error) {
	saved, err := h.banners.Get(r.Context(), shop)
	if err != nil || saved == nil {
		return models.DefaultBannerConfig(shop), err
	}
	return saved.WithDefaults(), nil
}

// Get returns the shop's banner, or the defaults when none was saved.
func (h *BannerHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	cfg, err := h.load(r, shop)
	if err != nil {
		logger.FromContext(r.Context()).Error("load banner", zap.String("shop", shop), zap.Error(err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal_error"})
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

// Save upserts the banner from a JSON body.
func (h *BannerHandler) Save(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	var in bannerInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if err := validation.Struct(in, v); err != nil {
		httpx.JSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	validation.HexColor("backgroundColor", in.BackgroundColor, v)
	validation.HexColor("textColor", in.TextColor, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation", v.Translate(func(code string) string { return tr(r, code) }))
		return
	}

	enabled := true
	if in.IsEnabled != nil {
		enabled = *in.IsEnabled
	}
	cfg := models.BannerConfig{
		Message:         in.Message,
		BackgroundColor: in.BackgroundColor,
		TextColor:       in.TextColor,
		IsEnabled:       enabled,
		TextAlign:       in.TextAlign,
	}.WithDefaults()
	if _, err := h.banners.Upsert(r.Context(), shop, cfg); err != nil {
		logger.FromContext(r.Context()).Error("save banner", zap.String("shop", shop), zap.Error(err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Edit shows the banner form.
func (h *BannerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	cfg, err := h.load(r, shop)
	if err != nil {
		logger.FromContext(r.Context()).Error("load banner", zap.String("shop", shop), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := view.Render(w, r, "banner.html", map[string]any{
		"Banner": cfg,
		"Aligns": models.BannerAligns,
	}); err != nil {
		logger.FromContext(r.Context()).Error("render banner", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
