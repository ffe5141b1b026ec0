package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ValidShopDomain accepts only bare *.myshopify.com hosts.
func ValidShopDomain(shop string) bool {
	if !strings.HasSuffix(shop, ".myshopify.com") {
		return false
	}
	if strings.ContainsAny(shop, "/ :@?#") {
		return false
	}
	return len(shop) >= len("a.myshopify.com")
}

// VerifyHMAC checks the hmac query parameter Shopify adds to OAuth redirects.
func VerifyHMAC(q url.Values, secret string) bool {
	provided := strings.ToLower(strings.TrimSpace(q.Get("hmac")))
	if provided == "" || secret == "" {
		return false
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(q[k], ","))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strings.Join(parts, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(provided))
}

// AccessToken is the answer of the OAuth code exchange.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeCode trades an OAuth authorization code for an offline access token.
func (c *Client) ExchangeCode(ctx context.Context, shop, apiKey, secret, code string) (*AccessToken, error) {
	body, _ := json.Marshal(map[string]string{
		"client_id":     apiKey,
		"client_secret": secret,
		"code":          code,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.shopURL(shop)+"/admin/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", ErrUpstream, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: token exchange status %d", ErrUpstream, res.StatusCode)
	}
	var tok AccessToken
	if err := json.Unmarshal(raw, &tok); err != nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: invalid token response", ErrUpstream)
	}
	return &tok, nil
}
