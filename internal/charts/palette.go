package charts

import (
	"fmt"
	"strconv"
)

// Color is an RGB color with alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a translucent color.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// CSS formats the color as rgb() or rgba().
func (c Color) CSS() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the color as RRGGBB, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Alpha8 returns alpha scaled to 0..255.
func (c Color) Alpha8() uint8 {
	switch {
	case c.A <= 0:
		return 0
	case c.A >= 1:
		return 255
	default:
		return uint8(c.A*255 + 0.5)
	}
}

// ColorPair is the fill and border color of one series or slice.
type ColorPair struct {
	Fill   Color
	Border Color
}

// Palette is an ordered list of color pairs.
type Palette []ColorPair

// At returns the pair for index i, wrapping around the palette length.
func (p Palette) At(i int) ColorPair {
	if len(p) == 0 {
		return ColorPair{}
	}
	i %= len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

var (
	teal   = [3]uint8{75, 192, 192}
	red    = [3]uint8{255, 99, 132}
	yellow = [3]uint8{255, 205, 86}
	blue   = [3]uint8{54, 162, 235}
	purple = [3]uint8{153, 102, 255}
)

func pair(rgb [3]uint8, alpha float64) ColorPair {
	return ColorPair{
		Fill:   RGBA(rgb[0], rgb[1], rgb[2], alpha),
		Border: RGB(rgb[0], rgb[1], rgb[2]),
	}
}

var (
	// WinrateColors colors the winrate bar series.
	WinrateColors = pair(teal, 0.6)
	// TradeCountColors colors the trade count line series.
	TradeCountColors = pair(blue, 0.2)
	// ComparisonPalette colors radar series by dataset index.
	ComparisonPalette = Palette{pair(teal, 0.2), pair(red, 0.2), pair(yellow, 0.2)}
	// DistributionPalette colors pie slices by category index.
	DistributionPalette = Palette{pair(teal, 0.6), pair(red, 0.6), pair(yellow, 0.6), pair(blue, 0.6), pair(purple, 0.6)}
)
