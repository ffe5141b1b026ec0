package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diewo77/shop-invoices/httpx"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

func configureSMTP(t *testing.T, f *fixture) {
	t.Helper()
	s := models.DefaultShopSettings(testShop)
	s.SMTPEmail = "shop@gmail.com"
	s.SMTPPassword = "app-password"
	s.DocumentLanguage = "en"
	if _, err := f.settings.Upsert(context.Background(), testShop, s); err != nil {
		t.Fatalf("upsert: %v", err)
	}
}

func sendJSON(t *testing.T, h *SendInvoiceHandler, body string) (int, httpx.Result) {
	t.Helper()
	req := asShop(httptest.NewRequest(http.MethodPost, "/api/send-invoice", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Send(w, req)
	var res httpx.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, res
}

func TestSendInvoiceNotConfigured(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	h := NewSendInvoiceHandler(f.invoices)
	code, res := sendJSON(t, h, `{"orderId":"1001","email":"client@test.com"}`)
	if code != http.StatusOK || res.OK() {
		t.Fatalf("expected error result got %d %+v", code, res)
	}
	if res.Message != "Please configure your Gmail address in the Customization tab!" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("no mail may be sent without credentials")
	}
}

func TestSendInvoiceMissingEmail(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	configureSMTP(t, f)
	h := NewSendInvoiceHandler(f.invoices)
	_, res := sendJSON(t, h, `{"orderId":"1001","email":"  "}`)
	if res.OK() || res.Message != "No customer email!" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSendInvoiceSuccess(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	configureSMTP(t, f)
	h := NewSendInvoiceHandler(f.invoices)
	code, res := sendJSON(t, h, `{"orderId":"1001","email":"client@test.com"}`)
	if code != http.StatusOK || !res.OK() || res.Message != "Email sent!" {
		t.Fatalf("unexpected result %d %+v", code, res)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected exactly one mail, got %d", len(f.sender.sent))
	}
	msg := f.sender.sent[0]
	if msg.To != "client@test.com" || len(msg.Attachments) != 1 || msg.Attachments[0].Name != "Facture-1001.pdf" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestSendInvoiceTransportFailure(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	configureSMTP(t, f)
	f.sender.err = errors.New("535 auth failed")
	h := NewSendInvoiceHandler(f.invoices)
	_, res := sendJSON(t, h, `{"orderId":"1001","email":"client@test.com"}`)
	if res.OK() || res.Message != "Sending failed: 535 auth failed" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(f.sender.sent))
	}
}

func TestSendInvoiceUnknownOrder(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	configureSMTP(t, f)
	h := NewSendInvoiceHandler(f.invoices)
	code, res := sendJSON(t, h, `{"orderId":"9999","email":"client@test.com"}`)
	if code != http.StatusNotFound || res.OK() {
		t.Fatalf("unexpected result %d %+v", code, res)
	}
}

func TestSendInvoiceEmptyOrder(t *testing.T) {
	f := newFixture(t, emptyOrders{})
	configureSMTP(t, f)
	h := NewSendInvoiceHandler(f.invoices)
	code, res := sendJSON(t, h, `{"orderId":"9","email":"client@test.com"}`)
	if code != http.StatusNotFound || res.OK() {
		t.Fatalf("unexpected result %d %+v", code, res)
	}
	if res.Message != "Order not found." {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("nothing should be mailed for an empty order")
	}
}

func TestSendInvoiceBrowserFormRedirects(t *testing.T) {
	f := newFixture(t, shopify.DemoOrders{})
	configureSMTP(t, f)
	h := NewSendInvoiceHandler(f.invoices)
	form := url.Values{"orderId": {"1001"}, "email": {"client@test.com"}}
	req := asShop(httptest.NewRequest(http.MethodPost, "/api/send-invoice", strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.Send(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/app/orders" {
		t.Fatalf("expected redirect to orders, got %d", w.Code)
	}
	var flash bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" {
			flash = true
		}
	}
	if !flash || len(f.sender.sent) != 1 {
		t.Fatalf("expected flash cookie and one mail")
	}
}
