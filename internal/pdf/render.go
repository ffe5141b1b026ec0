// Package pdf draws an invoice document on a single A4 page with maroto.
package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/logger"
)

// mm per logo size unit
const logoScale = 0.3

// Renderer turns invoice documents into PDF bytes.
type Renderer struct{}

// NewRenderer returns a PDF renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render draws doc and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, doc *invoice.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: %w", invoice.ErrOrderNotFound)
	}
	log := logger.FromContext(ctx)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	if len(doc.Footer) > 0 {
		if err := m.RegisterFooter(footerRows(doc.Footer)...); err != nil {
			return nil, fmt.Errorf("register footer: %w", err)
		}
	}

	addHeader(m, doc, log)
	m.AddRow(6, line.NewCol(12))
	addBilledTo(m, doc)
	addTable(m, doc)
	m.AddRow(4)
	m.AddRow(lineHeight(doc.Total.Style)+2, text.NewCol(12, doc.Total.Value, textProps(doc.Total.Style, 0)))
	if doc.Watermark != nil {
		addWatermark(m, doc.Watermark)
	}
	if doc.Signature != nil {
		addSignature(m, doc.Signature, log)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc *invoice.Document, log *zap.Logger) {
	h := doc.Header
	if h.Logo != nil {
		addImageRow(m, *h.Logo, h.Direction, log, "logo")
	}

	identity := make([]invoice.Text, 0, 1+len(h.Address))
	if h.CompanyName != nil {
		identity = append(identity, *h.CompanyName)
	}
	identity = append(identity, h.Address...)
	meta := []invoice.Text{h.Title, h.Number, h.Date}
	if h.Status != nil {
		meta = append(meta, *h.Status)
	}

	switch h.Direction {
	case invoice.DirectionColumn:
		if len(identity) > 0 {
			m.AddRow(stackHeight(identity), stackCol(12, identity))
		}
		m.AddRow(stackHeight(meta), stackCol(12, meta))
	case invoice.DirectionRowReverse:
		m.AddRow(maxf(stackHeight(identity), stackHeight(meta)), stackCol(6, meta), stackCol(6, identity))
	default:
		m.AddRow(maxf(stackHeight(identity), stackHeight(meta)), stackCol(6, identity), stackCol(6, meta))
	}
}

func addBilledTo(m core.Maroto, doc *invoice.Document) {
	b := doc.BilledTo
	block := []invoice.Text{b.Label, b.Name}
	if b.Email != nil {
		block = append(block, *b.Email)
	}
	m.AddRow(stackHeight(block)+2, stackCol(12, block))
}

func addTable(m core.Maroto, doc *invoice.Document) {
	t := doc.Table
	hs := t.HeaderStyle
	m.AddRow(lineHeight(hs)+2,
		text.NewCol(7, t.Headers[0], textProps(hs, 1)),
		text.NewCol(2, t.Headers[1], textProps(withAlign(hs, invoice.TextCenter), 1)),
		text.NewCol(3, t.Headers[2], textProps(withAlign(hs, invoice.TextRight), 1)),
	)
	m.AddRow(2, line.NewCol(12))
	rs := t.RowStyle
	for _, r := range t.Rows {
		m.AddRow(lineHeight(rs)+2,
			text.NewCol(7, r.Description, textProps(rs, 1)),
			text.NewCol(2, r.Qty, textProps(withAlign(rs, invoice.TextCenter), 1)),
			text.NewCol(3, r.Price, textProps(withAlign(rs, invoice.TextRight), 1)),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func addWatermark(m core.Maroto, w *invoice.Watermark) {
	p := textProps(w.Text.Style, 0)
	p.Color = fade(p.Color, w.Opacity)
	m.AddRow(lineHeight(w.Text.Style), text.NewCol(12, w.Text.Value, p))
}

func addSignature(m core.Maroto, s *invoice.Signature, log *zap.Logger) {
	m.AddRow(8)
	label := withAlign(s.Label.Style, invoice.TextRight)
	m.AddRow(lineHeight(label)+1, text.NewCol(12, s.Label.Value, textProps(label, 0)))
	addImageRow(m, s.Image, invoice.DirectionRowReverse, log, "signature")
}

// addImageRow places an image on its own row, on the side given by the header
// direction. Images that cannot be decoded are skipped.
func addImageRow(m core.Maroto, img invoice.Image, dir invoice.Direction, log *zap.Logger, what string) {
	data, ext, err := DecodeDataURL(img.Source)
	if err != nil {
		log.Warn("image skipped", zap.String("image", what), zap.Error(err))
		return
	}
	height := float64(img.Width) * logoScale
	pic := col.New(4).Add(image.NewFromBytes(data, ext, props.Rect{Percent: 100, Center: true}))
	switch dir {
	case invoice.DirectionRowReverse:
		m.AddRow(height, col.New(8), pic)
	case invoice.DirectionColumn:
		m.AddRow(height, col.New(4), pic, col.New(4))
	default:
		m.AddRow(height, pic, col.New(8))
	}
}

func footerRows(lines []invoice.Text) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(lineHeight(l.Style)+1).Add(text.NewCol(12, l.Value, textProps(l.Style, 0))))
	}
	return rows
}

// stackCol writes texts one under the other in a single column.
func stackCol(size int, texts []invoice.Text) core.Col {
	c := col.New(size)
	top := 0.0
	for _, t := range texts {
		c.Add(text.New(t.Value, textProps(t.Style, top)))
		top += lineHeight(t.Style)
	}
	return c
}

func stackHeight(texts []invoice.Text) float64 {
	h := 0.0
	for _, t := range texts {
		h += lineHeight(t.Style)
	}
	return h + 2
}

func withAlign(s invoice.TextStyle, a invoice.TextAlign) invoice.TextStyle {
	s.Align = a
	return s
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
