package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/shop-invoices/internal/models"
)

// ErrOrderNotFound is returned when the shop has no order with the given id.
var ErrOrderNotFound = errors.New("order_not_found")

const orderGIDPrefix = "gid://shopify/Order/"

// OrderSource supplies orders. Implementations never mutate what they return
// after handing it out.
type OrderSource interface {
	Get(ctx context.Context, shop, id string) (*models.Order, error)
	ListRecent(ctx context.Context, shop string, n int) ([]models.Order, error)
}

// TokenSource returns the Admin API token of a shop.
type TokenSource interface {
	AccessToken(ctx context.Context, shop string) (string, error)
}

// StaticToken serves the same token for every shop, for single-shop setups.
type StaticToken string

func (t StaticToken) AccessToken(context.Context, string) (string, error) { return string(t), nil }

// AdminOrders reads orders through the Admin GraphQL API.
type AdminOrders struct {
	Client *Client
	Tokens TokenSource
}

func NewAdminOrders(c *Client, tokens TokenSource) *AdminOrders {
	return &AdminOrders{Client: c, Tokens: tokens}
}

// OrderGID turns a numeric id into an Order GID. GIDs are returned unchanged.
func OrderGID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return orderGIDPrefix + id
}

// LegacyID returns the numeric part of an order GID.
func LegacyID(gid string) string {
	return strings.TrimPrefix(gid, orderGIDPrefix)
}

const orderQuery = `
query InvoiceOrder($id: ID!) {
  order(id: $id) {
    id
    name
    processedAt
    displayFinancialStatus
    customer { displayName email }
    lineItems(first: 100) {
      edges {
        node {
          id
          name
          quantity
          originalUnitPriceSet { shopMoney { amount currencyCode } }
        }
      }
    }
    subtotalPriceSet { shopMoney { amount currencyCode } }
    totalShippingPriceSet { shopMoney { amount currencyCode } }
    totalTaxSet { shopMoney { amount currencyCode } }
    totalPriceSet { shopMoney { amount currencyCode } }
  }
}`

const recentOrdersQuery = `
query RecentOrders($first: Int!) {
  orders(first: $first, sortKey: PROCESSED_AT, reverse: true) {
    edges {
      node {
        id
        name
        processedAt
        displayFinancialStatus
        customer { displayName email }
        totalPriceSet { shopMoney { amount currencyCode } }
      }
    }
  }
}`

type gqlMoneyBag struct {
	ShopMoney struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"shopMoney"`
}

type gqlOrder struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	ProcessedAt            time.Time `json:"processedAt"`
	DisplayFinancialStatus string    `json:"displayFinancialStatus"`
	Customer               *struct {
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	} `json:"customer"`
	LineItems struct {
		Edges []struct {
			Node struct {
				ID                   string      `json:"id"`
				Name                 string      `json:"name"`
				Quantity             int         `json:"quantity"`
				OriginalUnitPriceSet gqlMoneyBag `json:"originalUnitPriceSet"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
	SubtotalPriceSet      *gqlMoneyBag `json:"subtotalPriceSet"`
	TotalShippingPriceSet *gqlMoneyBag `json:"totalShippingPriceSet"`
	TotalTaxSet           *gqlMoneyBag `json:"totalTaxSet"`
	TotalPriceSet         *gqlMoneyBag `json:"totalPriceSet"`
}

type orderData struct {
	Order *gqlOrder `json:"order"`
}

type ordersData struct {
	Orders struct {
		Edges []struct {
			Node gqlOrder `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

// Get fetches one order with its line items.
func (a *AdminOrders) Get(ctx context.Context, shop, id string) (*models.Order, error) {
	token, err := a.Tokens.AccessToken(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("access token for %s: %w", shop, err)
	}
	data, err := PostGraphQL[orderData](ctx, a.Client, shop, token, orderQuery, map[string]any{"id": OrderGID(id)})
	if err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, ErrOrderNotFound
	}
	return data.Order.toModel()
}

// ListRecent returns the n most recently processed orders, without line items.
func (a *AdminOrders) ListRecent(ctx context.Context, shop string, n int) ([]models.Order, error) {
	if n <= 0 || n > 250 {
		n = 20
	}
	token, err := a.Tokens.AccessToken(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("access token for %s: %w", shop, err)
	}
	data, err := PostGraphQL[ordersData](ctx, a.Client, shop, token, recentOrdersQuery, map[string]any{"first": n})
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(data.Orders.Edges))
	for _, e := range data.Orders.Edges {
		o, err := e.Node.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (g *gqlOrder) toModel() (*models.Order, error) {
	o := &models.Order{
		ID:              g.ID,
		Name:            g.Name,
		ProcessedAt:     g.ProcessedAt,
		FinancialStatus: g.DisplayFinancialStatus,
	}
	if g.Customer != nil {
		o.Customer = &models.Customer{DisplayName: g.Customer.DisplayName, Email: g.Customer.Email}
	}
	for _, e := range g.LineItems.Edges {
		price, err := toMoney(&e.Node.OriginalUnitPriceSet)
		if err != nil {
			return nil, fmt.Errorf("order %s line %s: %w", g.Name, e.Node.ID, err)
		}
		o.LineItems = append(o.LineItems, models.LineItem{
			ID:        e.Node.ID,
			Name:      e.Node.Name,
			Quantity:  e.Node.Quantity,
			UnitPrice: *price,
		})
	}
	var err error
	if o.Subtotal, err = toMoney(g.SubtotalPriceSet); err != nil {
		return nil, err
	}
	if o.Shipping, err = toMoney(g.TotalShippingPriceSet); err != nil {
		return nil, err
	}
	if o.Tax, err = toMoney(g.TotalTaxSet); err != nil {
		return nil, err
	}
	if o.Total, err = toMoney(g.TotalPriceSet); err != nil {
		return nil, err
	}
	return o, nil
}

func toMoney(b *gqlMoneyBag) (*models.Money, error) {
	if b == nil {
		return nil, nil
	}
	amount := b.ShopMoney.Amount
	if amount == "" {
		amount = "0"
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", ErrUpstream, amount, err)
	}
	return &models.Money{Amount: d, CurrencyCode: b.ShopMoney.CurrencyCode}, nil
}
