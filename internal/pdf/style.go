package pdf

import (
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/diewo77/shop-invoices/internal/invoice"
)

// fontTimes is the core Times font; maroto has no constant for it.
const fontTimes = "times"

// ptToMM converts a font size to an approximate line height in millimetres.
const ptToMM = 0.3528 * 1.4

// fontFamily maps a shop font name onto one of the core PDF fonts.
func fontFamily(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		return fontfamily.Courier
	case strings.Contains(n, "sans"):
		return fontfamily.Helvetica
	case strings.Contains(n, "times"), strings.Contains(n, "georgia"), strings.Contains(n, "serif"):
		return fontTimes
	case strings.Contains(n, "arial"):
		return fontfamily.Arial
	default:
		return fontfamily.Helvetica
	}
}

// parseHex reads #rgb or #rrggbb. Anything else gives black.
func parseHex(hex string) *props.Color {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return &props.Color{}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return &props.Color{}
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}

// fade blends c over white, approximating an opacity the core fonts cannot draw.
func fade(c *props.Color, opacity float64) *props.Color {
	mix := func(v int) int { return 255 - int(float64(255-v)*opacity+0.5) }
	return &props.Color{Red: mix(c.Red), Green: mix(c.Green), Blue: mix(c.Blue)}
}

func alignOf(a invoice.TextAlign) align.Type {
	switch a {
	case invoice.TextRight:
		return align.Right
	case invoice.TextCenter:
		return align.Center
	default:
		return align.Left
	}
}

func textProps(s invoice.TextStyle, top float64) props.Text {
	style := fontstyle.Normal
	if s.Bold {
		style = fontstyle.Bold
	}
	return props.Text{
		Top:    top,
		Family: fontFamily(s.Font),
		Style:  style,
		Size:   s.Size,
		Align:  alignOf(s.Align),
		Color:  parseHex(s.Color),
	}
}

func lineHeight(s invoice.TextStyle) float64 {
	return s.Size * ptToMM
}
