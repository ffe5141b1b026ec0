package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/shop-invoices/internal/invoice"
	"github.com/diewo77/shop-invoices/internal/models"
)

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testDocument(t *testing.T, layout string) *invoice.Document {
	t.Helper()
	total := models.Money{Amount: decimal.RequireFromString("84.70"), CurrencyCode: "EUR"}
	order := &models.Order{
		Name:            "#1001",
		ProcessedAt:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		FinancialStatus: "PAID",
		Customer:        &models.Customer{DisplayName: "Client de test", Email: "client@test.com"},
		LineItems: []models.LineItem{
			{Name: "Produit A", Quantity: 2, UnitPrice: models.Money{Amount: decimal.RequireFromString("19.90"), CurrencyCode: "EUR"}},
			{Name: "Produit B", Quantity: 1, UnitPrice: models.Money{Amount: decimal.RequireFromString("39.90"), CurrencyCode: "EUR"}},
		},
		Total: &total,
	}
	s := models.DefaultShopSettings("demo.myshopify.com")
	s.Layout = layout
	s.CompanyName = "Atelier Demo"
	s.Address = "1 rue de la Paix\n75002 Paris"
	s.Siret = "12345678900011"
	s.LogoImage = pngDataURL(t)
	s.SignatureImage = pngDataURL(t)
	doc, err := invoice.Compose(order, s)
	require.NoError(t, err)
	return doc
}

func TestRender_ProducesPDF(t *testing.T) {
	for _, layout := range invoice.Layouts() {
		t.Run(layout, func(t *testing.T) {
			out, err := NewRenderer().Render(context.Background(), testDocument(t, layout))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output is not a PDF")
		})
	}
}

func TestRender_EveryOfferedFont(t *testing.T) {
	for _, font := range []string{"Helvetica", "Arial", "Times", "Courier"} {
		t.Run(font, func(t *testing.T) {
			doc := testDocument(t, "classic")
			doc.Total.Style.Font = font
			doc.Header.Title.Style.Font = font
			out, err := NewRenderer().Render(context.Background(), doc)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestRender_SkipsRemoteImages(t *testing.T) {
	doc := testDocument(t, "classic")
	doc.Header.Logo.Source = "https://cdn.example.com/logo.png"
	out, err := NewRenderer().Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_NilDocument(t *testing.T) {
	_, err := NewRenderer().Render(context.Background(), nil)
	assert.ErrorIs(t, err, invoice.ErrOrderNotFound)
}

func TestDecodeDataURL(t *testing.T) {
	data, ext, err := DecodeDataURL(pngDataURL(t))
	require.NoError(t, err)
	assert.Equal(t, extension.Png, ext)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, ext, err = DecodeDataURL("data:image/jpeg;base64,/9j/")
	require.NoError(t, err)
	assert.Equal(t, extension.Jpg, ext)

	for _, bad := range []string{"", "https://x/logo.png", "data:image/svg+xml;base64,PHN2Zz4=", "data:image/png;base64"} {
		_, _, err := DecodeDataURL(bad)
		assert.ErrorIs(t, err, ErrUnsupportedImage, bad)
	}
}

func TestDecodedSize(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(make([]byte, 300))
	assert.Equal(t, 300, DecodedSize("data:image/png;base64,"+payload))
	assert.Equal(t, 5, DecodedSize("plain"))
}

func TestFontFamily(t *testing.T) {
	tests := map[string]string{
		"Helvetica":       fontfamily.Helvetica,
		"Arial":           fontfamily.Arial,
		"Courier New":     fontfamily.Courier,
		"Times New Roman": fontTimes,
		"Georgia":         fontTimes,
		"Times":           fontTimes,
		"Open Sans":       fontfamily.Helvetica,
		"":                fontfamily.Helvetica,
	}
	for in, want := range tests {
		assert.Equal(t, want, fontFamily(in), in)
	}
}

func TestParseHexAndFade(t *testing.T) {
	c := parseHex("#ff8000")
	assert.Equal(t, 255, c.Red)
	assert.Equal(t, 128, c.Green)
	assert.Equal(t, 0, c.Blue)
	short := parseHex("#fff")
	assert.Equal(t, 255, short.Blue)
	assert.Equal(t, 0, parseHex("nope").Red)

	f := fade(parseHex("#ff0000"), 0.15)
	assert.Equal(t, 255, f.Red)
	assert.Equal(t, 217, f.Green)
}
