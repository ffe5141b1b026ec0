package invoice

import "strings"

// TextStyle is the resolved style of a piece of text.
type TextStyle struct {
	Font  string    `json:"font"`
	Size  float64   `json:"size"`
	Color string    `json:"color"`
	Bold  bool      `json:"bold,omitempty"`
	Align TextAlign `json:"align"`
}

// Text is a styled string.
type Text struct {
	Value string    `json:"value"`
	Style TextStyle `json:"style"`
}

// Image is an embedded picture, stored as a data URL.
type Image struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
}

// Header is the top of the invoice: logo, company identity and invoice block.
type Header struct {
	Direction   Direction `json:"direction"`
	BlockAlign  Align     `json:"blockAlign"`
	Logo        *Image    `json:"logo,omitempty"`
	CompanyName *Text     `json:"companyName,omitempty"`
	Address     []Text    `json:"address,omitempty"`
	Title       Text      `json:"title"`
	Number      Text      `json:"number"`
	Date        Text      `json:"date"`
	Status      *Text     `json:"status,omitempty"`
}

// BilledTo is the customer block.
type BilledTo struct {
	Label Text  `json:"label"`
	Name  Text  `json:"name"`
	Email *Text `json:"email,omitempty"`
}

// Row is one line of the item table.
type Row struct {
	Description string `json:"description"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
}

// Table lists the order lines.
type Table struct {
	HeaderStyle TextStyle `json:"headerStyle"`
	RowStyle    TextStyle `json:"rowStyle"`
	Headers     [3]string `json:"headers"`
	Rows        []Row     `json:"rows"`
}

// Watermark is the "paid" stamp drawn across the page.
type Watermark struct {
	Text     Text    `json:"text"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
}

// Signature is the signature image with its caption.
type Signature struct {
	Label Text  `json:"label"`
	Image Image `json:"image"`
}

// Document is the renderer-agnostic description of one invoice.
type Document struct {
	Language  string     `json:"language"`
	Layout    Layout     `json:"layout"`
	Page      string     `json:"page"`
	FileName  string     `json:"fileName"`
	Header    Header     `json:"header"`
	BilledTo  BilledTo   `json:"billedTo"`
	Table     Table      `json:"table"`
	Total     Text       `json:"total"`
	Watermark *Watermark `json:"watermark,omitempty"`
	Signature *Signature `json:"signature,omitempty"`
	Footer    []Text     `json:"footer,omitempty"`
}

// PageA4 is the only page format produced.
const PageA4 = "A4"

// AttachmentName returns the invoice file name for an order name: "#1001"
// gives "Facture-1001.pdf".
func AttachmentName(orderName string) string {
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(orderName), "#"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "invoice"
	}
	return "Facture-" + name + ".pdf"
}
