package invoice

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/diewo77/shop-invoices/internal/models"
)

// FormatAmount renders a Money value with two decimals and the grouping of the
// given locale, followed by its own currency code: "1,234.50 EUR" in en-US.
func FormatAmount(m models.Money, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	p := message.NewPrinter(tag)
	s := p.Sprintf("%v", number.Decimal(m.Amount.Round(2).InexactFloat64(), number.Scale(2)))
	if code := strings.TrimSpace(m.CurrencyCode); code != "" {
		s += " " + code
	}
	return s
}
