package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/shop-invoices/auth"
	"github.com/diewo77/shop-invoices/i18n"
	appdb "github.com/diewo77/shop-invoices/internal/db"
	"github.com/diewo77/shop-invoices/internal/mailer"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/pdf"
	"github.com/diewo77/shop-invoices/internal/services"
	"github.com/diewo77/shop-invoices/internal/shopify"
	"github.com/diewo77/shop-invoices/internal/store"
)

const testShop = "demo.myshopify.com"

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func pngBytes(t *testing.T) []byte {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return b
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// asShop attaches the test shop and an English interface to req.
func asShop(req *http.Request) *http.Request {
	ctx := auth.WithShop(req.Context(), testShop)
	ctx = i18n.WithLang(ctx, "en")
	return req.WithContext(ctx)
}

type fakeSender struct {
	err  error
	sent []mailer.Message
}

func (f *fakeSender) Send(_ context.Context, _ mailer.Credentials, m mailer.Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

type failingOrders struct{}

func (failingOrders) Get(context.Context, string, string) (*models.Order, error) {
	return nil, shopify.ErrUpstream
}

func (failingOrders) ListRecent(context.Context, string, int) ([]models.Order, error) {
	return nil, shopify.ErrUpstream
}

// emptyOrders returns orders that have neither lines nor a total.
type emptyOrders struct{}

func (emptyOrders) Get(_ context.Context, _ string, id string) (*models.Order, error) {
	return &models.Order{ID: id, Name: "#" + id}, nil
}

func (emptyOrders) ListRecent(context.Context, string, int) ([]models.Order, error) {
	return nil, nil
}

type fixture struct {
	db       *gorm.DB
	settings *store.SettingsStore
	sender   *fakeSender
	invoices *services.InvoiceService
}

func newFixture(t *testing.T, orders shopify.OrderSource) *fixture {
	t.Helper()
	db := setupTestDB(t)
	settings := store.NewSettingsStore(db)
	sender := &fakeSender{}
	return &fixture{
		db:       db,
		settings: settings,
		sender:   sender,
		invoices: services.NewInvoiceService(settings, orders, pdf.NewRenderer(), sender, nil),
	}
}
