package invoice

import "strings"

// Direction is the flow of the header blocks.
type Direction string

const (
	DirectionRow        Direction = "row"
	DirectionRowReverse Direction = "row-reverse"
	DirectionColumn     Direction = "column"
)

// Align positions a block inside its parent.
type Align string

const (
	AlignStart  Align = "start"
	AlignEnd    Align = "end"
	AlignCenter Align = "center"
)

// TextAlign aligns text inside a block.
type TextAlign string

const (
	TextLeft   TextAlign = "left"
	TextCenter TextAlign = "center"
	TextRight  TextAlign = "right"
)

// Layout is one of the three invoice layouts. Values are only obtained through
// ParseLayout or the package variables, so the direction and alignments of a
// layout always agree.
type Layout struct {
	name         string
	direction    Direction
	align        Align
	textAlign    TextAlign
	invoiceAlign TextAlign
}

var (
	Classic  = Layout{name: "classic", direction: DirectionRow, align: AlignStart, textAlign: TextLeft, invoiceAlign: TextRight}
	Mirrored = Layout{name: "mirrored", direction: DirectionRowReverse, align: AlignStart, textAlign: TextRight, invoiceAlign: TextLeft}
	Centered = Layout{name: "centered", direction: DirectionColumn, align: AlignCenter, textAlign: TextCenter, invoiceAlign: TextCenter}
)

// Layouts lists the accepted layout names.
func Layouts() []string { return []string{Classic.name, Mirrored.name, Centered.name} }

// ParseLayout maps a stored layout name to its variant. Unknown names give Classic.
func ParseLayout(name string) Layout {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Mirrored.name:
		return Mirrored
	case Centered.name:
		return Centered
	default:
		return Classic
	}
}

func (l Layout) orClassic() Layout {
	if l.name == "" {
		return Classic
	}
	return l
}

func (l Layout) Name() string            { return l.orClassic().name }
func (l Layout) Direction() Direction    { return l.orClassic().direction }
func (l Layout) BlockAlign() Align       { return l.orClassic().align }
func (l Layout) TextAlign() TextAlign    { return l.orClassic().textAlign }
func (l Layout) InvoiceAlign() TextAlign { return l.orClassic().invoiceAlign }

// MarshalText lets a Layout appear by name in JSON documents.
func (l Layout) MarshalText() ([]byte, error) { return []byte(l.Name()), nil }
