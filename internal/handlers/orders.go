package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/middleware"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/services"
	"github.com/diewo77/shop-invoices/internal/shopify"
	"github.com/diewo77/shop-invoices/view"
)

const defaultOrderLimit = 20

type OrderHandler struct {
	orders   shopify.OrderSource
	invoices *services.InvoiceService
}

func NewOrderHandler(orders shopify.OrderSource, invoices *services.InvoiceService) *OrderHandler {
	return &OrderHandler{orders: orders, invoices: invoices}
}

// orderRow is one line of the order list.
type orderRow struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Customer        string    `json:"customer"`
	Email           string    `json:"email,omitempty"`
	ProcessedAt     time.Time `json:"processedAt"`
	Date            string    `json:"-"`
	Total           string    `json:"total"`
	Currency        string    `json:"currency"`
	FinancialStatus string    `json:"financialStatus"`
	Paid            bool      `json:"paid"`
}

func newOrderRow(o models.Order, b i18n.Bundle) orderRow {
	row := orderRow{
		ID:              shopify.LegacyID(o.ID),
		Name:            o.Name,
		Customer:        o.CustomerName(),
		Email:           o.CustomerEmail(),
		ProcessedAt:     o.ProcessedAt,
		Date:            o.ProcessedAt.Format(b.DateLayout),
		FinancialStatus: o.FinancialStatus,
		Paid:            o.IsPaid(),
	}
	if row.Customer == "" {
		row.Customer = b.Doc.Guest
	}
	if o.Total != nil {
		row.Total = invoice.FormatAmount(*o.Total, b.Locale)
		row.Currency = o.Total.CurrencyCode
	}
	return row
}

// List shows the latest orders, as HTML or JSON.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	limit := defaultOrderLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 250 {
		limit = n
	}
	orders, err := h.orders.ListRecent(r.Context(), shop, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("list orders", zap.String("shop", shop), zap.Error(err))
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, "upstream", nil)
			return
		}
		h.renderList(w, r, http.StatusBadGateway, nil, tr(r, "msg.upstreamFailed"))
		return
	}

	b := i18n.ResolveBundle(i18n.LangFromContext(r.Context()))
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, newOrderRow(o, b))
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
		return
	}
	h.renderList(w, r, http.StatusOK, rows, "")
}

func (h *OrderHandler) renderList(w http.ResponseWriter, r *http.Request, status int, rows []orderRow, errMsg string) {
	if err := view.RenderStatus(w, r, status, "orders.html", map[string]any{
		"Orders": rows,
		"Error":  errMsg,
		"Flash":  middleware.TakeFlash(w, r),
	}); err != nil {
		logger.FromContext(r.Context()).Error("render orders", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type lineRow struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

func amount(m *models.Money, locale string) string {
	if m == nil {
		return ""
	}
	return invoice.FormatAmount(*m, locale)
}

// Show renders one order with its lines and totals.
func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	log := logger.FromContext(r.Context()).With(zap.String("shop", shop), zap.String("order_id", id))

	o, err := h.orders.Get(r.Context(), shop, id)
	if err != nil {
		if isNotFound(err) {
			if rerr := view.RenderStatus(w, r, http.StatusNotFound, "not_found.html", nil); rerr != nil {
				http.Error(w, tr(r, "text.notFound"), http.StatusNotFound)
			}
			return
		}
		log.Error("fetch order", zap.Error(err))
		h.renderList(w, r, http.StatusBadGateway, nil, tr(r, "msg.upstreamFailed"))
		return
	}

	b := i18n.ResolveBundle(i18n.LangFromContext(r.Context()))
	lines := make([]lineRow, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		total := models.Money{Amount: li.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(li.Quantity))), CurrencyCode: li.UnitPrice.CurrencyCode}
		lines = append(lines, lineRow{
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: invoice.FormatAmount(li.UnitPrice, b.Locale),
			Total:     invoice.FormatAmount(total, b.Locale),
		})
	}
	if err := view.Render(w, r, "order.html", map[string]any{
		"Order":    newOrderRow(*o, b),
		"Lines":    lines,
		"Subtotal": amount(o.Subtotal, b.Locale),
		"Shipping": amount(o.Shipping, b.Locale),
		"Tax":      amount(o.Tax, b.Locale),
	}); err != nil {
		log.Error("render order", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Invoice streams the order's invoice PDF inline.
func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	log := logger.FromContext(r.Context()).With(zap.String("shop", shop), zap.String("order_id", id))

	rendered, err := h.invoices.RenderPDF(r.Context(), shop, id)
	switch {
	case err == nil:
	case isNotFound(err):
		log.Info("invoice for unknown order")
		if apiRequest(r) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		if rerr := view.RenderStatus(w, r, http.StatusNotFound, "not_found.html", nil); rerr != nil {
			http.Error(w, tr(r, "text.notFound"), http.StatusNotFound)
		}
		return
	case errors.Is(err, shopify.ErrUpstream):
		log.Error("fetch order", zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "upstream", nil)
		return
	default:
		log.Error("render invoice", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", rendered.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered.PDF); err != nil {
		log.Warn("stream invoice", zap.Error(err))
	}
}
