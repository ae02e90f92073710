package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/formwork/pkg/element"
)

// Size is a measured extent in points.
type Size struct {
	Width  float64
	Height float64
}

// Measurer returns the intrinsic size of text rendered with style. When
// maxWidth is positive the text is wrapped to that width; otherwise only
// explicit line breaks start new lines.
//
// Measurement is the one part of layout that depends on a rendering back
// end, so it is supplied by the caller.
type Measurer interface {
	Measure(text string, style element.CellStyle, maxWidth float64) Size
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(text string, style element.CellStyle, maxWidth float64) Size

// Measure calls f.
func (f MeasureFunc) Measure(text string, style element.CellStyle, maxWidth float64) Size {
	return f(text, style, maxWidth)
}

// DefaultFontSize is used when neither the cell nor the element sets a size.
const DefaultFontSize = 10.0

// FontMeasurer measures text with a font face scaled to the requested font
// size. The zero value uses basicfont.Face7x13 and a line height of 1.2
// times the font size.
type FontMeasurer struct {
	Face        font.Face
	LineSpacing float64
}

// NewFontMeasurer returns a measurer for face. A nil face selects the
// built-in 7x13 bitmap face.
func NewFontMeasurer(face font.Face) *FontMeasurer {
	return &FontMeasurer{Face: face}
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, style element.CellStyle, maxWidth float64) Size {
	face := m.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	size := fontSize(style)
	em := float64(face.Metrics().Height) / 64
	if em <= 0 {
		em = size
	}
	scale := size / em
	width := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64 * scale
	}

	spacing := m.LineSpacing
	if spacing <= 0 {
		spacing = 1.2
	}
	return measureLines(wrap(text, maxWidth, width), width, size*spacing)
}

// RuneMeasurer measures text on a fixed character grid using the display
// width of each rune, so wide East Asian characters take two cells. Cell
// sizes are given for a 10pt font and scale linearly with the font size.
type RuneMeasurer struct {
	CellWidth  float64
	CellHeight float64
}

// NewRuneMeasurer returns a grid measurer with 6x12 point cells.
func NewRuneMeasurer() *RuneMeasurer {
	return &RuneMeasurer{CellWidth: 6, CellHeight: 12}
}

// Measure implements Measurer.
func (m *RuneMeasurer) Measure(text string, style element.CellStyle, maxWidth float64) Size {
	scale := fontSize(style) / DefaultFontSize
	cw, ch := m.CellWidth, m.CellHeight
	if cw <= 0 {
		cw = 6
	}
	if ch <= 0 {
		ch = 12
	}
	width := func(s string) float64 {
		return float64(runewidth.StringWidth(s)) * cw * scale
	}
	return measureLines(wrap(text, maxWidth, width), width, ch*scale)
}

func fontSize(style element.CellStyle) float64 {
	if style.FontSize > 0 {
		return style.FontSize
	}
	return DefaultFontSize
}

func measureLines(lines []string, width func(string) float64, lineHeight float64) Size {
	var s Size
	for _, l := range lines {
		s.Width = max(s.Width, width(l))
	}
	s.Height = float64(len(lines)) * lineHeight
	return s
}

// wrap breaks text into lines no wider than maxWidth, breaking at spaces.
// A single word wider than maxWidth gets a line of its own. Explicit line
// breaks are kept. Empty text is one empty line.
func wrap(text string, maxWidth float64, width func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if maxWidth <= 0 {
			lines = append(lines, para)
			continue
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if width(candidate) <= maxWidth+eps {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
