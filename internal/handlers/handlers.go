// Package handlers serves the embedded admin screens and the JSON API of a shop.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

// shopOf returns the shop resolved by the auth middleware, answering 401 when
// there is none.
func shopOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	shop, ok := auth.ShopFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	}
	return shop, ok
}

func tr(r *http.Request, code string) string {
	return i18n.T(i18n.LangFromContext(r.Context()), code)
}

// apiRequest reports whether r should get JSON rather than an HTML screen.
func apiRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") || httpx.WantsJSON(r)
}

// isNotFound also covers orders without lines or total: there is no invoice
// to show for them.
func isNotFound(err error) bool {
	return errors.Is(err, shopify.ErrOrderNotFound) ||
		errors.Is(err, invoice.ErrOrderNotFound) ||
		errors.Is(err, invoice.ErrEmptyOrder)
}
