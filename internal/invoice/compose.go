// Package invoice turns an order and a shop's template settings into an
// invoice document description and the matching e-mail.
package invoice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/models"
)

var (
	// ErrOrderNotFound is returned when there is no order to compose.
	ErrOrderNotFound = errors.New("order_not_found")
	// ErrEmptyOrder is returned for orders without line items or total.
	ErrEmptyOrder = errors.New("order_empty")
)

const (
	watermarkColor    = "#ff0000"
	watermarkSize     = 120
	footerColor       = "#999999"
	watermarkRotation = -45
	watermarkOpacity  = 0.15
	signatureWidth    = 120
	minFontSize       = 4
)

// Compose builds the invoice document. It depends only on its arguments.
func Compose(order *models.Order, s models.ShopSettings) (*Document, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if len(order.LineItems) == 0 || order.Total == nil {
		return nil, fmt.Errorf("order %s: %w", order.Name, ErrEmptyOrder)
	}
	s = s.WithDefaults()
	b := i18n.ResolveBundle(s.DocumentLanguage)
	l := ParseLayout(s.Layout)
	st := newStyles(s, l)

	doc := &Document{
		Language: b.Code,
		Layout:   l,
		Page:     PageA4,
		FileName: AttachmentName(order.Name),
	}

	doc.Header = Header{
		Direction:  l.Direction(),
		BlockAlign: l.BlockAlign(),
		Title:      Text{Value: b.Doc.Invoice, Style: st.title},
		Number:     Text{Value: order.Name, Style: st.invoiceMeta},
		Date:       Text{Value: b.Doc.Date + ": " + order.ProcessedAt.Format(b.DateLayout), Style: st.invoiceMeta},
	}
	if status := strings.TrimSpace(order.FinancialStatus); status != "" {
		doc.Header.Status = &Text{Value: b.Doc.Status + ": " + status, Style: st.invoiceMeta}
	}
	if s.LogoImage != "" {
		doc.Header.Logo = &Image{Source: s.LogoImage, Width: s.LogoSize}
	}
	if name := strings.TrimSpace(s.CompanyName); name != "" {
		doc.Header.CompanyName = &Text{Value: name, Style: st.brandName}
	}
	for _, line := range splitLines(s.Address) {
		doc.Header.Address = append(doc.Header.Address, Text{Value: line, Style: st.secondary})
	}

	customer := order.CustomerName()
	if customer == "" {
		customer = b.Doc.Guest
	}
	doc.BilledTo = BilledTo{
		Label: Text{Value: b.Doc.BilledTo, Style: st.label},
		Name:  Text{Value: customer, Style: st.secondary},
	}
	if email := order.CustomerEmail(); email != "" {
		doc.BilledTo.Email = &Text{Value: email, Style: st.secondary}
	}

	doc.Table = Table{
		HeaderStyle: st.tableHeader,
		RowStyle:    st.base,
		Headers:     [3]string{b.Doc.Description, b.Doc.Qty, b.Doc.Price},
		Rows:        make([]Row, 0, len(order.LineItems)),
	}
	for _, li := range order.LineItems {
		doc.Table.Rows = append(doc.Table.Rows, Row{
			Description: li.Name,
			Qty:         strconv.Itoa(li.Quantity),
			Price:       FormatAmount(li.UnitPrice, b.Locale),
		})
	}

	doc.Total = Text{Value: b.Doc.Total + ": " + FormatAmount(*order.Total, b.Locale), Style: st.total}

	if s.ShowWatermark && order.IsPaid() {
		doc.Watermark = &Watermark{
			Text:     Text{Value: b.Doc.Paid, Style: TextStyle{Font: s.Font, Size: watermarkSize, Color: watermarkColor, Bold: true, Align: TextCenter}},
			Rotation: watermarkRotation,
			Opacity:  watermarkOpacity,
		}
	}

	if s.SignatureImage != "" {
		doc.Signature = &Signature{
			Label: Text{Value: b.Doc.Signature, Style: st.label},
			Image: Image{Source: s.SignatureImage, Width: signatureWidth},
		}
	}

	doc.Footer = footer(s, st.footer)
	return doc, nil
}

type styles struct {
	base, brandName, title, invoiceMeta, secondary, label, tableHeader, total, footer TextStyle
}

// newStyles derives every text style from the settings: brand color for the
// title and total, secondary color for addresses and the table header, title
// color for the company name. The footer is always grey.
func newStyles(s models.ShopSettings, l Layout) styles {
	size := float64(s.FontSize)
	ts := func(delta float64, color string, bold bool, align TextAlign) TextStyle {
		sz := size + delta
		if sz < minFontSize {
			sz = minFontSize
		}
		return TextStyle{Font: s.Font, Size: sz, Color: color, Bold: bold, Align: align}
	}
	return styles{
		base:        ts(0, s.SecondaryColor, false, TextLeft),
		brandName:   ts(8, s.TitleColor, true, l.TextAlign()),
		title:       ts(6, s.BrandColor, true, l.InvoiceAlign()),
		invoiceMeta: ts(0, s.SecondaryColor, false, l.InvoiceAlign()),
		secondary:   ts(0, s.SecondaryColor, false, l.TextAlign()),
		label:       ts(0, s.BrandColor, true, l.TextAlign()),
		tableHeader: ts(0, s.SecondaryColor, true, TextLeft),
		total:       ts(4, s.BrandColor, true, TextRight),
		footer:      ts(-2, footerColor, false, TextCenter),
	}
}

func footer(s models.ShopSettings, style TextStyle) []Text {
	var ids []string
	if v := strings.TrimSpace(s.Siret); v != "" {
		ids = append(ids, "SIRET: "+v)
	}
	if v := strings.TrimSpace(s.TvaIntra); v != "" {
		ids = append(ids, "TVA: "+v)
	}
	var out []Text
	if len(ids) > 0 {
		out = append(out, Text{Value: strings.Join(ids, " | "), Style: style})
	}
	for _, line := range splitLines(s.LegalInfo) {
		out = append(out, Text{Value: line, Style: style})
	}
	return out
}

func splitLines(v string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
