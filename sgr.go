package teletype

// handleSGR applies a Select Graphic Rendition parameter sequence to
// the cell template used by subsequent bare writes. An empty arg list ("CSI m") means a single implicit 0.
// subs carries colon-delimited sub-parameters keyed by arg slot,
// accepted as an equivalent encoding for the 38/48 extended-color
// forms (see parseExtendedColor).
func (t *Teletype) handleSGR(args []int, subs [][]int) {
	if len(args) == 0 {
		args = []int{0}
	}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == 0:
			t.template = BlankCell
		case a == 1:
			t.template.Flags |= CellFlagBold
		case a == 2:
			t.template.Flags |= CellFlagFaint
		case a == 3:
			t.template.Flags |= CellFlagItalic
		case a == 4:
			t.template.Flags |= CellFlagUnderline
		case a == 5:
			t.template.Flags |= CellFlagBlink
		case a == 6:
			t.template.Flags |= CellFlagRapidBlink
		case a == 7:
			t.template.Flags |= CellFlagInverse
		case a == 8:
			t.template.Flags |= CellFlagHidden
		case a == 9:
			t.template.Flags |= CellFlagStrikeout
		case a == 21:
			t.template.Flags |= CellFlagDoubleUnderline
		case a == 22:
			t.template.Flags &^= CellFlagBold | CellFlagFaint
		case a == 23:
			t.template.Flags &^= CellFlagItalic | CellFlagFraktur
		case a == 24:
			t.template.Flags &^= CellFlagUnderline | CellFlagDoubleUnderline
		case a == 25:
			t.template.Flags &^= CellFlagBlink | CellFlagRapidBlink
		case a == 27:
			t.template.Flags &^= CellFlagInverse
		case a == 28:
			t.template.Flags &^= CellFlagHidden
		case a == 29:
			t.template.Flags &^= CellFlagStrikeout
		case a >= 30 && a <= 37:
			t.template.Fg = colorFromCube256(int(colorIndexFromSGR(a, false)))
		case a == 38:
			n := t.parseExtendedColor(args, &i, subs)
			if n != nil {
				t.template.Fg = *n
			}
		case a == 39:
			t.template.Fg = DefaultForeground
		case a >= 40 && a <= 47:
			t.template.Bg = colorFromCube256(int(colorIndexFromSGR(a, false)))
		case a == 48:
			n := t.parseExtendedColor(args, &i, subs)
			if n != nil {
				t.template.Bg = *n
			}
		case a == 49:
			t.template.Bg = DefaultBackground
		case a >= 90 && a <= 97:
			t.template.Fg = colorFromCube256(int(colorIndexFromSGR(a, true)))
		case a >= 100 && a <= 107:
			t.template.Bg = colorFromCube256(int(colorIndexFromSGR(a, true)))
		default:
			t.logTrace("unhandled SGR param %d", a)
		}
	}
}

// parseExtendedColor consumes the 256-color (38/48;5;n) or truecolor
// (38/48;2;r;g;b) SGR extension starting at args[*i+1], advancing *i
// past the consumed sub-parameters. When subs[*i] is non-empty the
// colon-delimited form was used instead (38:5:n or 38:2::r:g:b) and
// everything needed is already in that one slot, so *i is left
// untouched — colon sub-parameters never spill into the next
// semicolon-separated argument.
func (t *Teletype) parseExtendedColor(args []int, i *int, subs [][]int) *Color {
	if *i < len(subs) && len(subs[*i]) > 0 {
		return parseColonColor(subs[*i])
	}
	if *i+1 >= len(args) {
		return nil
	}
	switch args[*i+1] {
	case 5:
		if *i+2 >= len(args) {
			*i += 1
			return nil
		}
		idx := args[*i+2]
		*i += 2
		if idx < 0 || idx > 255 {
			return nil
		}
		c := Indexed256(uint8(idx))
		return &c
	case 2:
		if *i+4 >= len(args) {
			*i = len(args) - 1
			return nil
		}
		r, g, b := args[*i+2], args[*i+3], args[*i+4]
		*i += 4
		c := Color{A: 0xff, R: uint8(r), G: uint8(g), B: uint8(b)}
		return &c
	default:
		*i += 1
		return nil
	}
}

// parseColonColor decodes the colon sub-parameters of one 38/48 arg
// slot: sub[0] is the mode (5 for indexed, 2 for truecolor); for mode
// 2, a 4-element sub is "2:r:g:b" and a 5-element sub is
// "2:colorspace:r:g:b" (colorspace accepted and ignored, matching
// xterm's handling of the optional ITU colorimetry field).
func parseColonColor(sub []int) *Color {
	if len(sub) < 2 {
		return nil
	}
	switch sub[0] {
	case 5:
		idx := sub[1]
		if idx < 0 || idx > 255 {
			return nil
		}
		c := Indexed256(uint8(idx))
		return &c
	case 2:
		var r, g, b int
		switch len(sub) {
		case 4:
			r, g, b = sub[1], sub[2], sub[3]
		case 5:
			r, g, b = sub[2], sub[3], sub[4]
		default:
			return nil
		}
		c := Color{A: 0xff, R: uint8(r), G: uint8(g), B: uint8(b)}
		return &c
	default:
		return nil
	}
}
