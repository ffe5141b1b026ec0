package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/shopify"
	"github.com/diewo77/shop-invoices/internal/store"
)

// AuthHandler completes the app install: Shopify redirects to the callback
// with a signed query and an authorization code.
type AuthHandler struct {
	sessions  *store.SessionStore
	client    *shopify.Client
	apiKey    string
	apiSecret string
}

func NewAuthHandler(sessions *store.SessionStore, client *shopify.Client, apiKey, apiSecret string) *AuthHandler {
	return &AuthHandler{sessions: sessions, client: client, apiKey: apiKey, apiSecret: apiSecret}
}

// Callback verifies the redirect, exchanges the code and stores the shop's token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shop := strings.ToLower(strings.TrimSpace(q.Get("shop")))
	log := logger.FromContext(r.Context()).With(zap.String("shop", shop))

	if !shopify.ValidShopDomain(shop) {
		http.Error(w, "invalid shop", http.StatusBadRequest)
		return
	}
	if !shopify.VerifyHMAC(q, h.apiSecret) {
		log.Warn("oauth callback with bad hmac")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	tok, err := h.client.ExchangeCode(r.Context(), shop, h.apiKey, h.apiSecret, code)
	if err != nil {
		log.Error("oauth code exchange", zap.Error(err))
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}
	if _, err := h.sessions.Save(r.Context(), shop, tok.AccessToken, tok.Scope); err != nil {
		log.Error("save session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	log.Info("shop installed", zap.String("scope", tok.Scope), zap.String("token", logger.MaskSecret(tok.AccessToken)))
	http.Redirect(w, r, "/app?shop="+shop, http.StatusSeeOther)
}
