package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/store"
	"github.com/diewo77/shop-invoices/view"
)

type DashboardHandler struct {
	settings *store.SettingsStore
}

func NewDashboardHandler(settings *store.SettingsStore) *DashboardHandler {
	return &DashboardHandler{settings: settings}
}

// Show renders the welcome screen with the Gmail connection status.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	saved, err := h.settings.Get(r.Context(), shop)
	if err != nil {
		logger.FromContext(r.Context()).Error("load settings", zap.String("shop", shop), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s := models.ResolveSettings(shop, saved)
	if err := view.Render(w, r, "dashboard.html", map[string]any{
		"CompanyName":    s.CompanyName,
		"SMTPConfigured": s.HasSMTP(),
	}); err != nil {
		logger.FromContext(r.Context()).Error("render dashboard", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
