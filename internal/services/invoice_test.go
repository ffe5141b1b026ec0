package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/mailer"
	"github.com/diewo77/shop-invoices/internal/metrics"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

const shop = "demo.myshopify.com"

type memSettings struct{ s *models.ShopSettings }

func (m memSettings) Get(context.Context, string) (*models.ShopSettings, error) { return m.s, nil }

type countingOrders struct {
	calls int
	src   shopify.OrderSource
}

func (c *countingOrders) Get(ctx context.Context, shop, id string) (*models.Order, error) {
	c.calls++
	return c.src.Get(ctx, shop, id)
}

func (c *countingOrders) ListRecent(ctx context.Context, shop string, n int) ([]models.Order, error) {
	c.calls++
	return c.src.ListRecent(ctx, shop, n)
}

type fakeRenderer struct{ docs []*invoice.Document }

func (f *fakeRenderer) Render(_ context.Context, doc *invoice.Document) ([]byte, error) {
	f.docs = append(f.docs, doc)
	return []byte("%PDF-fake"), nil
}

type fakeSender struct {
	err   error
	sent  []mailer.Message
	creds []mailer.Credentials
}

func (f *fakeSender) Send(_ context.Context, c mailer.Credentials, m mailer.Message) error {
	f.creds = append(f.creds, c)
	f.sent = append(f.sent, m)
	return f.err
}

func newService(settings *models.ShopSettings, sender *fakeSender) (*InvoiceService, *countingOrders, *fakeRenderer) {
	orders := &countingOrders{src: shopify.DemoOrders{}}
	r := &fakeRenderer{}
	return NewInvoiceService(memSettings{settings}, orders, r, sender, metrics.New()), orders, r
}

func configured() *models.ShopSettings {
	s := models.DefaultShopSettings(shop)
	s.CompanyName = "Atelier Demo"
	s.SMTPEmail = "shop@gmail.com"
	s.SMTPPassword = "app-pass"
	return &s
}

func TestSend_NotConfiguredMakesNoNetworkCall(t *testing.T) {
	for name, settings := range map[string]*models.ShopSettings{
		"no record":   nil,
		"no password": {Shop: shop, SMTPEmail: "shop@gmail.com"},
		"no email":    {Shop: shop, SMTPPassword: "x"},
	} {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			svc, orders, _ := newService(settings, sender)
			err := svc.Send(context.Background(), shop, "1001", "client@test.com")
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.Empty(t, sender.sent)
			assert.Zero(t, orders.calls)
		})
	}
}

func TestSend_MissingRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc, orders, _ := newService(configured(), sender)
	err := svc.Send(context.Background(), shop, "1001", "  ")
	assert.ErrorIs(t, err, invoice.ErrNoRecipient)
	assert.Empty(t, sender.sent)
	assert.Zero(t, orders.calls)
}

func TestSend_Success(t *testing.T) {
	sender := &fakeSender{}
	svc, _, r := newService(configured(), sender)
	require.NoError(t, svc.Send(context.Background(), shop, "1001", "client@test.com"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "client@test.com", msg.To)
	assert.Equal(t, "Atelier Demo", msg.FromName)
	assert.Equal(t, "shop@gmail.com", msg.FromAddress)
	assert.Equal(t, "Votre facture pour la commande #1001", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Facture-1001.pdf", msg.Attachments[0].Name)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, []byte("%PDF-fake"), msg.Attachments[0].Data)
	assert.Equal(t, mailer.Credentials{Username: "shop@gmail.com", Password: "app-pass"}, sender.creds[0])
	require.Len(t, r.docs, 1)
	assert.NotNil(t, r.docs[0].Watermark)
}

func TestSend_TransportFailureIsReportedOnce(t *testing.T) {
	sender := &fakeSender{err: errors.New("535 auth failed")}
	svc, _, _ := newService(configured(), sender)
	err := svc.Send(context.Background(), shop, "1001", "client@test.com")
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Len(t, sender.sent, 1, "no retry")
}

func TestSend_UnknownOrder(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newService(configured(), sender)
	err := svc.Send(context.Background(), shop, "424242", "client@test.com")
	assert.ErrorIs(t, err, shopify.ErrOrderNotFound)
	assert.Empty(t, sender.sent)
}

func TestRenderPDF(t *testing.T) {
	svc, _, r := newService(nil, &fakeSender{})
	out, err := svc.RenderPDF(context.Background(), shop, "1002")
	require.NoError(t, err)
	assert.Equal(t, "Facture-1002.pdf", out.FileName)
	assert.Equal(t, "#1002", out.Order.Name)
	require.Len(t, r.docs, 1)
	assert.Nil(t, r.docs[0].Watermark, "pending order has no watermark")
	assert.Equal(t, "fr", r.docs[0].Language)
}
