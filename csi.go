package teletype

import "fmt"

// csiArg returns the i'th CSI parameter, or def if it was omitted or
// zero (the ANSI convention: most CSI params default when 0).
func csiArg(args []int, i, def int) int {
	if i >= len(args) || args[i] == 0 {
		return def
	}
	return args[i]
}

// csiArgRaw returns the i'th CSI parameter without the zero-means-
// default substitution, used by SGR and mode dispatch where 0 is a
// meaningful value.
func csiArgRaw(args []int, i int) int {
	if i >= len(args) {
		return 0
	}
	return args[i]
}

// handleCSI dispatches a completed, non-private CSI sequence to its
// final-byte table. subs carries colon-delimited sub-parameters keyed
// by arg slot (see parser.go's stepCSI); every final byte besides 'm'
// ignores it.
func (t *Teletype) handleCSI(final byte, args []int, subs [][]int) {
	switch final {
	case '@': // ICH - insert blank chars
		t.insertChars(csiArg(args, 0, 1))
	case 'A': // CUU
		t.moveCursor(rel(-csiArg(args, 0, 1)), motionArg{})
	case 'B': // CUD
		t.moveCursor(rel(csiArg(args, 0, 1)), motionArg{})
	case 'C': // CUF
		t.moveCursor(motionArg{}, rel(csiArg(args, 0, 1)))
	case 'D': // CUB
		t.moveCursor(motionArg{}, rel(-csiArg(args, 0, 1)))
	case 'E': // CNL
		t.moveCursor(rel(csiArg(args, 0, 1)), abs(1))
	case 'F': // CPL
		t.moveCursor(rel(-csiArg(args, 0, 1)), abs(1))
	case 'G': // CHA
		t.moveCursor(motionArg{}, abs(csiArg(args, 0, 1)))
	case 'H', 'f': // CUP / HVP
		t.moveCursor(abs(csiArg(args, 0, 1)), abs(csiArg(args, 1, 1)))
	case 'J': // ED
		t.eraseInDisplay(csiArg(args, 0, 0))
	case 'K': // EL
		t.eraseInLine(csiArg(args, 0, 0))
	case 'L': // IL
		t.insertLines(csiArg(args, 0, 1))
	case 'M': // DL
		t.deleteLines(csiArg(args, 0, 1))
	case 'P': // DCH
		t.deleteChars(csiArg(args, 0, 1))
	case 'S': // SU - scroll up n lines
		for i := 0; i < csiArg(args, 0, 1); i++ {
			t.moveCursor(rel(1), motionArg{})
		}
	case 'T': // SD - scroll down n lines
		for i := 0; i < csiArg(args, 0, 1); i++ {
			t.handleScroll()
		}
	case 'X': // ECH - erase n chars in place
		t.eraseChars(csiArg(args, 0, 1))
	case 'd': // VPA
		t.moveCursor(abs(csiArg(args, 0, 1)), motionArg{})
	case 'e': // VPR
		t.moveCursor(rel(csiArg(args, 0, 1)), motionArg{})
	case 'm': // SGR
		t.handleSGR(args, subs)
	case 'n': // DSR
		t.dsr(csiArg(args, 0, 0))
	case 'r': // DECSTBM
		t.setScrollMargins(args)
	case 's': // save cursor (ANSI.SYS form, no private marker)
		t.saveCursor()
	case 'u': // restore cursor
		t.restoreCursor()
	case 't': // window manipulation - not implemented, logged
		t.logTrace("ignoring window-manipulation CSI t %v", args)
	case 'h', 'l':
		t.setANSIMode(final == 'h', args)
	default:
		t.logTrace("unhandled CSI final byte %q args=%v", final, args)
	}
}

// handleCSIPrivate dispatches a CSI sequence carrying a private marker
// byte ('?', '>', '='), currently only DEC private mode set/reset and
// DA/DA2-style queries (logged, not answered).
func (t *Teletype) handleCSIPrivate(marker, final byte, args []int) {
	switch marker {
	case '?':
		switch final {
		case 'h', 'l':
			t.setDECMode(final == 'h', args)
			return
		}
	}
	t.logTrace("unhandled private CSI %q %q args=%v", marker, final, args)
}

func (t *Teletype) setScrollMargins(args []int) {
	top := csiArgRaw(args, 0)
	bot := csiArgRaw(args, 1)
	if top < 0 {
		top = 0
	}
	if bot < 0 {
		bot = 0
	}
	if top > 0 && bot > 0 && top >= bot {
		t.logTrace("ignoring inverted scroll margins %d;%d", top, bot)
		return
	}
	t.topMarg, t.botMarg = top, bot
	t.moveCursor(abs(1), abs(1))
}

func (t *Teletype) setANSIMode(set bool, args []int) {
	for _, a := range args {
		switch a {
		case 4: // IRM insert/replace - not modeled, logged
			t.logTrace("ignoring ANSI mode 4 (IRM) set=%v", set)
		default:
			t.logTrace("unhandled ANSI mode %d set=%v", a, set)
		}
	}
}

// setDECMode implements the DEC private mode table.
func (t *Teletype) setDECMode(set bool, args []int) {
	for _, a := range args {
		switch a {
		case 1: // DECCKM application cursor keys
			t.setFlag(FlagAppCursorKeys, set)
		case 7: // DECAWM auto-wrap
			t.setFlag(FlagAutoWrap, set)
		case 12: // blinking cursor
			t.setFlag(FlagBlinkCursor, set)
		case 25: // DECTCEM cursor visibility
			t.setFlag(FlagCursorVisible, set)
		case 1034: // 8-bit input meta
			t.setFlag(FlagEightBit, set)
		case 1047, 1049: // alternate screen buffer
			t.setFlag(FlagAltScreen, set)
			if a == 1049 {
				if set {
					t.saveCursor()
				} else {
					t.restoreCursor()
				}
			}
		case 1048: // save/restore cursor only
			if set {
				t.saveCursor()
			} else {
				t.restoreCursor()
			}
		case 2004: // bracketed paste
			t.setFlag(FlagBracketedPaste, set)
		case 7000: // DECBKM backarrow sends delete
			t.setFlag(FlagBackspaceSendsDelete, set)
		case 7001: // DECAKM application keypad
			t.setFlag(FlagAltKeypad, set)
		default:
			t.logTrace("unhandled DEC private mode %d set=%v", a, set)
		}
	}
}

// eraseInDisplay implements ED: 0 = cursor..end, 1 = start..cursor,
// 2 = every line. 3 discards every line, scrollback included, except
// the cursor's line, whose cells become line 0; the cursor moves to
// (0, 0).
func (t *Teletype) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		t.eraseInLine(0)
		for l := t.curLine + 1; l < t.store.Len(); l++ {
			t.store.ClearLine(l)
		}
	case 1:
		t.eraseInLine(1)
		for l := 0; l < t.curLine; l++ {
			t.store.ClearLine(l)
		}
	case 2:
		for l := 0; l < t.store.Len(); l++ {
			t.store.ClearLine(l)
		}
	case 3:
		cur := t.store.GetLine(t.curLine, false)
		saved := append([]Cell(nil), cur.Cells...)
		t.store.Reset()
		line := t.store.GetLine(0, true)
		line.Cells = saved
		t.curLine, t.curOffset = 0, 0
	default:
		t.logTrace("unhandled ED mode %d", mode)
	}
	t.store.UpdateOffsets(t.visCols)
}

// eraseInLine implements EL: 0 = cursor..end, 1 = start..cursor,
// 2 = whole line, via LineStore.EraseLine's three erasure regimes.
func (t *Teletype) eraseInLine(mode int) {
	n := t.store.CountCells(t.curLine)
	switch mode {
	case 0:
		t.store.EraseLine(t.curLine, t.curOffset, n, t.visCols, t.template)
	case 1:
		t.store.EraseLine(t.curLine, 0, t.curOffset, t.visCols, t.template)
	case 2:
		t.store.EraseLine(t.curLine, 0, n, t.visCols, t.template)
	default:
		t.logTrace("unhandled EL mode %d", mode)
	}
}

// eraseChars clears n cells starting at the cursor in place, without
// shifting trailing content (distinct from deleteChars).
func (t *Teletype) eraseChars(n int) {
	line := t.store.GetLine(t.curLine, true)
	end := t.curOffset + n
	if end > len(line.Cells) {
		end = len(line.Cells)
	}
	for i := t.curOffset; i < end; i++ {
		c := t.template
		line.Cells[i] = c
	}
	t.store.MarkTouched(t.curLine)
}

// insertChars shifts cells from the cursor right by n, filling the gap
// with the current template (ICH).
func (t *Teletype) insertChars(n int) {
	line := t.store.GetLine(t.curLine, true)
	if t.curOffset >= len(line.Cells) {
		return
	}
	pad := make([]Cell, n)
	for i := range pad {
		pad[i] = t.template
	}
	tail := append([]Cell(nil), line.Cells[t.curOffset:]...)
	line.Cells = append(line.Cells[:t.curOffset], append(pad, tail...)...)
	if t.visCols > 0 && len(line.Cells) > t.curOffset {
		// clamp to a single visible row's worth past the cursor so ICH
		// doesn't runaway-grow the logical line.
		max := t.curOffset + t.visCols
		if len(line.Cells) > max {
			line.Cells = line.Cells[:max]
		}
	}
	t.store.MarkTouched(t.curLine)
}

// deleteChars removes n cells at the cursor, shifting trailing content
// left (DCH). The line gets shorter; no padding is added at its end.
func (t *Teletype) deleteChars(n int) {
	line := t.store.GetLine(t.curLine, true)
	if t.curOffset >= len(line.Cells) {
		return
	}
	end := t.curOffset + n
	if end > len(line.Cells) {
		end = len(line.Cells)
	}
	line.Cells = append(line.Cells[:t.curOffset], line.Cells[end:]...)
	t.store.MarkTouched(t.curLine)
}

// regionLogicalBounds resolves the current scroll region's top and
// bottom visible rows to logical line indices.
func (t *Teletype) regionLogicalBounds() (topLline, botLline int) {
	t.store.UpdateOffsets(t.visCols)
	viewTop := t.topRowLocked()
	regTop, regBottom := t.scrollRegion()
	topLline, _ = t.store.VisibleToLogical(viewTop + regTop)
	botLline, _ = t.store.VisibleToLogical(viewTop + regBottom)
	return
}

// insertLines implements IL: n times, remove the logical line at the
// bottom of the scroll region and insert a blank one at the cursor,
// shifting the cursor's line and everything below it (within the
// region) down by one. A cursor outside the region is a no-op. Always
// resets the cursor column to 0 (§4.3 step 4).
func (t *Teletype) insertLines(n int) {
	_, regBottom := t.scrollRegion()
	topLline, botLline := t.regionLogicalBounds()
	if t.curLine < topLline || t.curLine > botLline {
		return
	}
	t.store.InvalidateCache()
	for i := 0; i < n; i++ {
		t.store.RemoveLine(botLline)
		t.store.InsertLineAfter(t.curLine - 1)
		t.store.UpdateOffsets(t.visCols)
		viewTop := t.topRowLocked()
		botLline, _ = t.store.VisibleToLogical(viewTop + regBottom)
	}
	t.curOffset = 0
	t.overflow = false
	t.store.MarkTouched(t.curLine)
}

// deleteLines implements DL: n times, remove the logical line at the
// cursor and insert a blank one at the bottom of the scroll region,
// shifting everything below the cursor (within the region) up by one.
// A cursor outside the region is a no-op. Always resets the cursor
// column to 0 (§4.3 step 4).
func (t *Teletype) deleteLines(n int) {
	_, regBottom := t.scrollRegion()
	topLline, botLline := t.regionLogicalBounds()
	if t.curLine < topLline || t.curLine > botLline {
		if t.curLine > botLline {
			t.logTrace("ignoring DL with cursor below the scroll region's bottom margin")
		}
		return
	}
	t.store.InvalidateCache()
	for i := 0; i < n && t.store.Len() > 1; i++ {
		t.store.RemoveLine(t.curLine)
		t.store.InsertLineAfter(botLline - 1)
		t.store.UpdateOffsets(t.visCols)
		viewTop := t.topRowLocked()
		botLline, _ = t.store.VisibleToLogical(viewTop + regBottom)
	}
	t.curOffset = 0
	t.overflow = false
	t.store.MarkTouched(t.curLine)
}

// dsr answers CSI 6n (cursor position report) in the exact wire form
// ESC [ row ; col R. Other DSR requests are logged and ignored.
func (t *Teletype) dsr(mode int) {
	switch mode {
	case 6:
		t.store.UpdateOffsets(t.visCols)
		vrow, vcol := t.curVisRowCol()
		top := t.topRowLocked()
		fmt.Fprintf(t.replies, "\x1b[%d;%dR", vrow-top+1, vcol+1)
	default:
		t.logTrace("unhandled DSR mode %d", mode)
	}
}
