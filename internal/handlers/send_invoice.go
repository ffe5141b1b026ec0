package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/middleware"
	"github.com/diewo77/shop-invoices/internal/services"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

type SendInvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewSendInvoiceHandler(invoices *services.InvoiceService) *SendInvoiceHandler {
	return &SendInvoiceHandler{invoices: invoices}
}

type sendInvoiceInput struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

// Send mails an order's invoice and answers {status, message}. Business
// failures (no e-mail, Gmail not configured, transport error) are 200 with
// status "error", like the embedded UI expects.
func (h *SendInvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOf(w, r)
	if !ok {
		return
	}
	var in sendInvoiceInput
	if httpx.IsJSONBody(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&in); err != nil {
			httpx.JSON(w, http.StatusBadRequest, httpx.Failure("invalid_json"))
			return
		}
	} else {
		in.OrderID = r.FormValue("orderId")
		in.Email = r.FormValue("email")
	}
	in.OrderID = strings.TrimSpace(in.OrderID)
	if in.OrderID == "" {
		h.answer(w, r, http.StatusBadRequest, "msg.orderNotFound", "")
		return
	}

	err := h.invoices.Send(r.Context(), shop, in.OrderID, in.Email)
	switch {
	case err == nil:
		h.answer(w, r, http.StatusOK, "msg.emailSent", "")
	case errors.Is(err, invoice.ErrNoRecipient):
		h.answer(w, r, http.StatusOK, "msg.missingEmail", "")
	case errors.Is(err, services.ErrNotConfigured):
		h.answer(w, r, http.StatusOK, "msg.configureSmtp", "")
	case errors.Is(err, services.ErrSendFailed):
		h.answer(w, r, http.StatusOK, "msg.sendFailed", strings.TrimPrefix(err.Error(), services.ErrSendFailed.Error()+": "))
	case isNotFound(err):
		h.answer(w, r, http.StatusNotFound, "msg.orderNotFound", "")
	case errors.Is(err, shopify.ErrUpstream):
		logger.FromContext(r.Context()).Error("fetch order for email", zap.String("shop", shop), zap.Error(err))
		h.answer(w, r, http.StatusBadGateway, "msg.upstreamFailed", "")
	default:
		logger.FromContext(r.Context()).Error("send invoice", zap.String("shop", shop), zap.Error(err))
		h.answer(w, r, http.StatusInternalServerError, "msg.sendFailed", "")
	}
}

// answer writes the Result, or flashes it and goes back to the order list
// for plain browser form posts.
func (h *SendInvoiceHandler) answer(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	if !httpx.IsJSONBody(r) && acceptsHTML(r) {
		middleware.Flash(w, r, code)
		http.Redirect(w, r, "/app/orders", http.StatusSeeOther)
		return
	}
	msg := tr(r, code)
	if detail != "" {
		msg += ": " + detail
	}
	if code == "msg.emailSent" {
		httpx.JSON(w, status, httpx.Success(msg))
		return
	}
	httpx.JSON(w, status, httpx.Failure(msg))
}
