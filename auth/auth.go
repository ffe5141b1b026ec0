// Package auth resolves which shop a request acts for. Embedded admin requests
// carry a Shopify session token signed with the app secret.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diewo77/shop-invoices/internal/shopify"
)

type ctxKey string

const shopCtxKey = ctxKey("shop")

// DevShopHeader names the shop in dev mode, when no session token is sent.
const DevShopHeader = "X-Shop-Domain"

var (
	ErrNoToken     = errors.New("missing_session_token")
	ErrInvalidShop = errors.New("invalid_shop")
)

// Verifier checks session tokens. In Dev mode the shop may also come from the
// X-Shop-Domain header or DevShop.
type Verifier struct {
	APIKey  string
	Secret  string
	Dev     bool
	DevShop string
	Leeway  time.Duration
}

type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// ShopFromToken validates a session token and returns the shop of its dest claim.
func (v *Verifier) ShopFromToken(raw string) (string, error) {
	if raw == "" {
		return "", ErrNoToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.Leeway),
		jwt.WithExpirationRequired(),
	}
	if v.APIKey != "" {
		opts = append(opts, jwt.WithAudience(v.APIKey))
	}
	var c sessionClaims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return []byte(v.Secret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	u, err := url.Parse(c.Dest)
	if err != nil || !shopify.ValidShopDomain(u.Host) {
		return "", ErrInvalidShop
	}
	return u.Host, nil
}

// ShopFromRequest finds the shop of r: bearer token, id_token query parameter,
// then the dev fallbacks.
func (v *Verifier) ShopFromRequest(r *http.Request) (string, error) {
	raw := ""
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		raw = strings.TrimSpace(h[7:])
	} else if q := r.URL.Query().Get("id_token"); q != "" {
		raw = q
	}
	if raw != "" {
		return v.ShopFromToken(raw)
	}
	if v.Dev {
		shop := strings.ToLower(strings.TrimSpace(r.Header.Get(DevShopHeader)))
		if shop == "" {
			shop = strings.ToLower(strings.TrimSpace(r.URL.Query().Get("shop")))
		}
		if shop == "" {
			shop = v.DevShop
		}
		if shop == "" {
			return "", ErrNoToken
		}
		if !shopify.ValidShopDomain(shop) {
			return "", ErrInvalidShop
		}
		return shop, nil
	}
	return "", ErrNoToken
}

// WithShop stores the shop domain in context.
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopCtxKey, shop)
}

// ShopFromContext extracts the shop domain.
func ShopFromContext(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(shopCtxKey).(string)
	return shop, ok && shop != ""
}

// Middleware attaches the shop to the request context when one is found.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shop, err := v.ShopFromRequest(r); err == nil {
			r = r.WithContext(WithShop(r.Context(), shop))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireShop answers 401 when no shop was resolved, as JSON for API clients.
func RequireShop(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ShopFromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.HasPrefix(r.URL.Path, "/api/") || (strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Error(w, "Unauthorized: open this app from the Shopify admin.", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
