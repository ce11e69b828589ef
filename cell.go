package teletype

// CellFlags is a bitmask of cell style attributes, set and cleared by
// SGR parameters.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagFaint
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagBlink
	CellFlagRapidBlink
	CellFlagInverse
	CellFlagHidden
	CellFlagStrikeout
	CellFlagFraktur
	CellFlagWide
	CellFlagWideSpacer
)

// Color is a packed 32-bit ARGB color, or a palette index when Indexed is
// true. The zero value means "default" (resolved against DefaultForeground
// or DefaultBackground depending on context).
type Color struct {
	Indexed bool
	Index   uint8 // valid iff Indexed
	A, R, G, B uint8
}

// RGB builds a truecolor Color.
func RGB(r, g, b uint8) Color { return Color{A: 0xff, R: r, G: g, B: b} }

// Indexed256 builds a Color referencing the 256-entry palette.
func Indexed256(index uint8) Color { return Color{Indexed: true, Index: index} }

// IsDefault reports whether c is the zero value (unset).
func (c Color) IsDefault() bool { return !c.Indexed && c.A == 0 && c.R == 0 && c.G == 0 && c.B == 0 }

// Resolve returns the concrete ARGB value, resolving a palette index
// against DefaultPalette and the zero value against a default.
func (c Color) Resolve(fg bool) Color {
	if c.Indexed {
		return colorFromCube256(int(c.Index))
	}
	if c.IsDefault() {
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
	return c
}

// Cell is one grid position: a Unicode scalar, style flags, and a
// foreground/background color pair. Packed cells (as stored in
// LineStore.cells) repurpose Codepoint to hold a UTF-8 byte offset into
// LineStore.text instead of a rune; see linestore.go.
type Cell struct {
	Codepoint rune
	Flags     CellFlags
	Fg        Color
	Bg        Color
}

// BlankCell is the default cell written by erasure and line padding: a
// space with no flags and default colors.
var BlankCell = Cell{Codepoint: ' '}

// HasFlag reports whether flag is set.
func (c Cell) HasFlag(flag CellFlags) bool { return c.Flags&flag != 0 }

// WithFlag returns a copy of c with flag set.
func (c Cell) WithFlag(flag CellFlags) Cell { c.Flags |= flag; return c }

// WithoutFlag returns a copy of c with flag cleared.
func (c Cell) WithoutFlag(flag CellFlags) Cell { c.Flags &^= flag; return c }

// sameStyle reports whether two cells share style (flags, fg, bg) — the
// predicate the packing rule uses to decide whether a new style-change
// cell must be emitted.
func sameStyle(a, b Cell) bool {
	return a.Flags == b.Flags && a.Fg == b.Fg && a.Bg == b.Bg
}
