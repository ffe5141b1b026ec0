package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialStatusPaid is the Shopify financial status that counts as paid.
const FinancialStatusPaid = "PAID"

// Money is an amount in a given currency, as reported by the order source.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Customer of an order.
type Customer struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// LineItem is one product line of an order.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
}

// Order is a read-only view of a Shopify order. Amounts are authoritative and
// never recomputed.
type Order struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	ProcessedAt     time.Time  `json:"processedAt"`
	FinancialStatus string     `json:"displayFinancialStatus"`
	Customer        *Customer  `json:"customer,omitempty"`
	LineItems       []LineItem `json:"lineItems,omitempty"`
	Subtotal        *Money     `json:"subtotal,omitempty"`
	Shipping        *Money     `json:"shipping,omitempty"`
	Tax             *Money     `json:"tax,omitempty"`
	Total           *Money     `json:"total,omitempty"`
}

// IsPaid reports whether the financial status is exactly PAID.
func (o *Order) IsPaid() bool {
	return strings.EqualFold(strings.TrimSpace(o.FinancialStatus), FinancialStatusPaid)
}

// CustomerName returns the customer's display name, or "" for guest orders.
func (o *Order) CustomerName() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.DisplayName
}

// CustomerEmail returns the customer's email, or "".
func (o *Order) CustomerEmail() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Email
}
