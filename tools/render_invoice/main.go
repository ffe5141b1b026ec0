// Command render_invoice writes the invoice PDF of a demo order to disk, to
// check a template without a shop or a database.
//
//	go run ./tools/render_invoice -order 1001 -lang en -layout centered -out /tmp/invoice.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
	"github.com/diewo77/shop-invoices/internal/models"
	"github.com/diewo77/shop-invoices/internal/pdf"
	"github.com/diewo77/shop-invoices/internal/shopify"
)

func main() {
	orderID := flag.String("order", "1001", "Demo order id (1001, 1002 or 1003)")
	lang := flag.String("lang", "fr", "Document language")
	layout := flag.String("layout", "classic", "Layout: classic, mirrored or centered")
	company := flag.String("company", "Ma Boutique", "Company name")
	color := flag.String("color", models.DefaultBrandColor, "Brand color")
	watermark := flag.Bool("watermark", true, "Show the PAID watermark")
	out := flag.String("out", "", "Output file (default Facture-<order>.pdf)")
	flag.Parse()

	log, err := logger.New("debug", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	ctx := logger.WithContext(context.Background(), log)

	order, err := shopify.DemoOrders{}.Get(ctx, "", *orderID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "order %s: %v\n", *orderID, err)
		os.Exit(2)
	}

	s := models.DefaultShopSettings("demo.myshopify.com")
	s.CompanyName = *company
	s.BrandColor = *color
	s.Layout = *layout
	s.DocumentLanguage = *lang
	s.ShowWatermark = *watermark

	doc, err := invoice.Compose(order, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compose: %v\n", err)
		os.Exit(3)
	}
	data, err := pdf.NewRenderer().Render(ctx, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(3)
	}

	path := *out
	if path == "" {
		path = doc.FileName
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(4)
	}
	log.Info("invoice written", zap.String("path", path), zap.String("layout", doc.Layout.Name()), zap.Int("bytes", len(data)))
}
