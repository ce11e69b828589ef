package teletype

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// a 6x6x6 color cube (16-231), and a 24-step greyscale ramp (232-255), per
// the SGR palette table.
var DefaultPalette [256]Color

func init() {
	standard := [16]Color{
		{A: 0xff, R: 0, G: 0, B: 0},
		{A: 0xff, R: 205, G: 49, B: 49},
		{A: 0xff, R: 13, G: 188, B: 121},
		{A: 0xff, R: 229, G: 229, B: 16},
		{A: 0xff, R: 36, G: 114, B: 200},
		{A: 0xff, R: 188, G: 63, B: 188},
		{A: 0xff, R: 17, G: 168, B: 205},
		{A: 0xff, R: 229, G: 229, B: 229},
		{A: 0xff, R: 102, G: 102, B: 102},
		{A: 0xff, R: 241, G: 76, B: 76},
		{A: 0xff, R: 35, G: 209, B: 139},
		{A: 0xff, R: 245, G: 245, B: 67},
		{A: 0xff, R: 59, G: 142, B: 234},
		{A: 0xff, R: 214, G: 112, B: 214},
		{A: 0xff, R: 41, G: 184, B: 219},
		{A: 0xff, R: 255, G: 255, B: 255},
	}
	for i, c := range standard {
		DefaultPalette[i] = c
	}

	i := 16
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = Color{A: 0xff, R: steps[r], G: steps[g], B: steps[b]}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = Color{A: 0xff, R: gray, G: gray, B: gray}
	}
}

// DefaultForeground is the color used for an unset (default) foreground.
var DefaultForeground = Color{A: 0xff, R: 229, G: 229, B: 229}

// DefaultBackground is the color used for an unset (default) background.
var DefaultBackground = Color{A: 0xff, R: 0, G: 0, B: 0}

// colorIndexFromSGR maps an SGR color number (30-37/40-47, or 90-97/100-107
// when bright is set) to its palette index.
func colorIndexFromSGR(n int, bright bool) uint8 {
	base := n % 10
	if bright {
		return uint8(8 + base)
	}
	return uint8(base)
}

// colorFromCube256 maps an xterm 256-color index to an RGB color,
// following the same 6x6x6 cube and greyscale ramp init populates above.
func colorFromCube256(n int) Color {
	if n < 0 || n > 255 {
		return DefaultForeground
	}
	return DefaultPalette[n]
}
