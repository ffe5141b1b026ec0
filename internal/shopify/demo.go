package shopify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/shop-invoices/internal/models"
)

// DemoOrders is a fixed in-memory order source for development stores
// without orders. Every call returns fresh copies.
type DemoOrders struct{}

func eur(v string) models.Money {
	return models.Money{Amount: decimal.RequireFromString(v), CurrencyCode: "EUR"}
}

func moneyPtr(m models.Money) *models.Money { return &m }

func demoOrders() []models.Order {
	return []models.Order{
		{
			ID:              orderGIDPrefix + "1001",
			Name:            "#1001",
			ProcessedAt:     time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			FinancialStatus: models.FinancialStatusPaid,
			Customer:        &models.Customer{DisplayName: "Client de test", Email: "client@test.com"},
			LineItems: []models.LineItem{
				{ID: "gid://shopify/LineItem/1", Name: "Produit A", Quantity: 2, UnitPrice: eur("19.90")},
				{ID: "gid://shopify/LineItem/2", Name: "Produit B", Quantity: 1, UnitPrice: eur("39.90")},
			},
			Subtotal: moneyPtr(eur("79.70")),
			Shipping: moneyPtr(eur("5.00")),
			Tax:      moneyPtr(eur("0.00")),
			Total:    moneyPtr(eur("84.70")),
		},
		{
			ID:              orderGIDPrefix + "1002",
			Name:            "#1002",
			ProcessedAt:     time.Date(2025, 1, 14, 16, 5, 0, 0, time.UTC),
			FinancialStatus: "PENDING",
			Customer:        &models.Customer{DisplayName: "Marie Exemple", Email: "marie@exemple.fr"},
			LineItems: []models.LineItem{
				{ID: "gid://shopify/LineItem/3", Name: "Produit C", Quantity: 1, UnitPrice: eur("19.90")},
			},
			Subtotal: moneyPtr(eur("19.90")),
			Shipping: moneyPtr(eur("0.00")),
			Tax:      moneyPtr(eur("0.00")),
			Total:    moneyPtr(eur("19.90")),
		},
		{
			ID:              orderGIDPrefix + "1003",
			Name:            "#1003",
			ProcessedAt:     time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC),
			FinancialStatus: models.FinancialStatusPaid,
			LineItems: []models.LineItem{
				{ID: "gid://shopify/LineItem/4", Name: "Produit D", Quantity: 1, UnitPrice: eur("120.00")},
			},
			Subtotal: moneyPtr(eur("120.00")),
			Shipping: moneyPtr(eur("0.00")),
			Tax:      moneyPtr(eur("0.00")),
			Total:    moneyPtr(eur("120.00")),
		},
	}
}

// Get returns a demo order by numeric id or GID.
func (DemoOrders) Get(_ context.Context, _ string, id string) (*models.Order, error) {
	gid := OrderGID(id)
	for _, o := range demoOrders() {
		if o.ID == gid {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// ListRecent returns up to n demo orders, newest first.
func (DemoOrders) ListRecent(_ context.Context, _ string, n int) ([]models.Order, error) {
	all := demoOrders()
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all, nil
}
