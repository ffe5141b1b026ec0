// Package shopify talks to the Shopify Admin API: order queries over GraphQL
// and the OAuth token exchange.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream wraps every failure of the Admin API.
var ErrUpstream = errors.New("shopify_upstream")

const maxResponseBytes = 4 << 20

// Client is a minimal Admin API client.
type Client struct {
	HTTP       *http.Client
	APIVersion string
	// BaseURL replaces https://{shop} when set, used against test servers.
	BaseURL string
}

// NewClient returns a client with a bounded HTTP timeout.
func NewClient(apiVersion string, timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}, APIVersion: apiVersion}
}

func (c *Client) shopURL(shop string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return "https://" + shop
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// GraphQLResponse is the envelope of an Admin API GraphQL answer.
type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// PostGraphQL runs query against the shop's Admin API and decodes data into T.
// Transport errors, non 2xx statuses and GraphQL errors all wrap ErrUpstream.
func PostGraphQL[T any](ctx context.Context, c *Client, shop, token, query string, vars map[string]any) (*T, error) {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.shopURL(shop), c.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", token)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}
	var out GraphQLResponse[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			if e.Extensions.Code != "" {
				msgs = append(msgs, e.Message+" ("+e.Extensions.Code+")")
			} else {
				msgs = append(msgs, e.Message)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, strings.Join(msgs, "; "))
	}
	return &out.Data, nil
}
