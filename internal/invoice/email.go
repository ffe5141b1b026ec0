package invoice

import (
	"errors"
	"strings"

	"github.com/diewo77/shop-invoices/i18n"
	"github.com/diewo77/shop-invoices/internal/models"
)

// DefaultSenderName is the From display name when the shop has no company name.
const DefaultSenderName = "Boutique"

// ErrNoRecipient is returned when the invoice e-mail has nobody to go to.
var ErrNoRecipient = errors.New("missing_recipient")

// Email is the localized invoice message, without its attachment bytes.
type Email struct {
	FromName       string
	FromAddress    string
	To             string
	Subject        string
	Body           string
	AttachmentName string
}

// ComposeEmail builds the invoice e-mail in the shop's document language.
func ComposeEmail(order *models.Order, s models.ShopSettings, to string) (*Email, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, ErrNoRecipient
	}
	s = s.WithDefaults()
	b := i18n.ResolveBundle(s.DocumentLanguage)

	company := strings.TrimSpace(s.CompanyName)
	fromName := company
	if fromName == "" {
		fromName = DefaultSenderName
	}
	signOff := company
	if signOff == "" {
		signOff = b.Doc.EmailTeam
	}
	customer := order.CustomerName()
	if customer == "" {
		customer = b.Doc.Guest
	}

	var body strings.Builder
	body.WriteString(b.Doc.EmailHello + " " + customer + ",\n\n")
	body.WriteString(b.Doc.EmailBody + "\n\n")
	body.WriteString(b.Doc.EmailKind + ",\n" + signOff)

	return &Email{
		FromName:       fromName,
		FromAddress:    s.SMTPEmail,
		To:             to,
		Subject:        b.Doc.EmailSubject + " " + order.Name,
		Body:           body.String(),
		AttachmentName: AttachmentName(order.Name),
	}, nil
}
