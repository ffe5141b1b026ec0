// Package services holds the per-request workflows behind the invoice routes.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/mailer"
	"github.com/diewo77/shop-invoices/internal/metrics"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

var (
	// ErrNotConfigured means the shop has not saved its Gmail credentials.
	ErrNotConfigured = errors.New("smtp_not_configured")
	// ErrSendFailed wraps a transport failure of the invoice e-mail.
	ErrSendFailed = errors.New("send_failed")
)

// SettingsReader loads a shop's saved settings, nil when absent.
type SettingsReader interface {
	Get(ctx context.Context, shop string) (*models.ShopSettings, error)
}

// PDFRenderer draws an invoice document.
type PDFRenderer interface {
	Render(ctx context.Context, doc *invoice.Document) ([]byte, error)
}

// InvoiceService renders invoices and mails them.
type InvoiceService struct {
	Settings SettingsReader
	Orders   shopify.OrderSource
	Renderer PDFRenderer
	Mailer   mailer.Sender
	Metrics  *metrics.Metrics
}

func NewInvoiceService(settings SettingsReader, orders shopify.OrderSource, renderer PDFRenderer, m mailer.Sender, mt *metrics.Metrics) *InvoiceService {
	return &InvoiceService{Settings: settings, Orders: orders, Renderer: renderer, Mailer: m, Metrics: mt}
}

// RenderedInvoice is a PDF ready to stream or attach.
type RenderedInvoice struct {
	FileName string
	PDF      []byte
	Order    *models.Order
}

// SettingsFor returns the shop's settings with every default applied.
func (s *InvoiceService) SettingsFor(ctx context.Context, shop string) (models.ShopSettings, error) {
	saved, err := s.Settings.Get(ctx, shop)
	if err != nil {
		return models.ShopSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return models.ResolveSettings(shop, saved), nil
}

// RenderPDF fetches the order and renders its invoice with the shop's template.
func (s *InvoiceService) RenderPDF(ctx context.Context, shop, orderID string) (*RenderedInvoice, error) {
	settings, err := s.SettingsFor(ctx, shop)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, shop, orderID, settings)
}

func (s *InvoiceService) render(ctx context.Context, shop, orderID string, settings models.ShopSettings) (*RenderedInvoice, error) {
	order, err := s.Orders.Get(ctx, shop, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	doc, err := invoice.Compose(order, settings)
	if err != nil {
		return nil, err
	}
	pdf, err := s.Renderer.Render(ctx, doc)
	s.Metrics.Rendered(err)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", order.Name, err)
	}
	return &RenderedInvoice{FileName: doc.FileName, PDF: pdf, Order: order}, nil
}

// Send mails the invoice of orderID to recipient, once. Errors are
// invoice.ErrNoRecipient, ErrNotConfigured (before any network call),
// order lookup errors, or ErrSendFailed.
func (s *InvoiceService) Send(ctx context.Context, shop, orderID, recipient string) error {
	log := logger.FromContext(ctx).With(zap.String("shop", shop), zap.String("order_id", orderID))

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return invoice.ErrNoRecipient
	}
	settings, err := s.SettingsFor(ctx, shop)
	if err != nil {
		return err
	}
	if !settings.HasSMTP() {
		return ErrNotConfigured
	}

	rendered, err := s.render(ctx, shop, orderID, settings)
	if err != nil {
		return err
	}
	email, err := invoice.ComposeEmail(rendered.Order, settings, recipient)
	if err != nil {
		return err
	}

	err = s.Mailer.Send(ctx, mailer.Credentials{Username: settings.SMTPEmail, Password: settings.SMTPPassword}, mailer.Message{
		FromName:    email.FromName,
		FromAddress: email.FromAddress,
		To:          email.To,
		Subject:     email.Subject,
		Body:        email.Body,
		Attachments: []mailer.Attachment{{Name: email.AttachmentName, ContentType: "application/pdf", Data: rendered.PDF}},
	})
	s.Metrics.Emailed(err)
	if err != nil {
		log.Error("invoice email failed", zap.String("to", logger.MaskEmail(recipient)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	log.Info("invoice email sent", zap.String("to", logger.MaskEmail(recipient)), zap.String("order", rendered.Order.Name))
	return nil
}
