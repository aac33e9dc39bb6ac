package render

import (
	"html/template"
	"math"
	"strconv"
	"strings"
)

// Zoom is the magnified-background state of the detail image.
type Zoom struct {
	ProductID string
	Image     string
	X         float64
	Y         float64
	Active    bool
}

// NewZoom returns the resting state: hidden, focused on the top-left corner.
func NewZoom(productID, image string) Zoom {
	return Zoom{ProductID: productID, Image: image}
}

// FocusAt maps a pointer offset inside a width×height image to a focal point in percent.
// A degenerate box keeps the previous focus.
func (z Zoom) FocusAt(offsetX, offsetY, width, height float64) Zoom {
	if width > 0 {
		z.X = percent(offsetX, width)
	}
	if height > 0 {
		z.Y = percent(offsetY, height)
	}
	return z
}

// WithActive shows or hides the magnified view.
func (z Zoom) WithActive(active bool) Zoom {
	z.Active = active
	return z
}

// Style renders the CSS custom properties consumed by .zoom-container.
func (z Zoom) Style() template.CSS {
	display := "none"
	if z.Active {
		display = "block"
	}
	var b strings.Builder
	b.WriteString("--url: url(")
	b.WriteString(cssString(z.Image))
	b.WriteString("); --zoom-x: ")
	b.WriteString(pct(z.X))
	b.WriteString("; --zoom-y: ")
	b.WriteString(pct(z.Y))
	b.WriteString("; --display: ")
	b.WriteString(display)
	b.WriteString(";")
	return template.CSS(b.String())
}

func percent(offset, size float64) float64 {
	p := offset * 100 / size
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return math.Round(p*100) / 100
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			b.WriteString("\\" + strconv.FormatInt(int64(r), 16) + " ")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
