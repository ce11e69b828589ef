package teletype

// parserState names one state of the byte-level transition table.
// The parser is embedded directly in Teletype
// rather than a standalone exported type: every transition ends in a
// direct Teletype mutation, so splitting it out would only add an
// indirection with no independent state of its own.
type parserState int

const (
	parserNormal parserState = iota
	parserUTF8Cont
	parserEscape
	parserCharset
	parserCSI0
	parserCSI
	parserOSC0
	parserOSC
	parserOSCString
	parserOSCStringEsc
)

const maxCSIArgs = 5

// feedByte advances the parser by exactly one input byte, per the
// per-byte transition table below. Malformed sequences are logged as
// protocol errors and the parser recovers to parserNormal; where the
// offending byte itself still needs handling (e.g. an ESC that aborts
// an in-progress sequence), it is reprocessed rather than dropped.
func (t *Teletype) feedByte(b byte) {
	switch t.pState {
	case parserNormal:
		t.stepNormal(b)
	case parserUTF8Cont:
		t.stepUTF8(b)
	case parserEscape:
		t.stepEscape(b)
	case parserCharset:
		t.stepCharset(b)
	case parserCSI0:
		t.stepCSI0(b)
	case parserCSI:
		t.stepCSI(b)
	case parserOSC0:
		t.stepOSC0(b)
	case parserOSC:
		t.stepOSC(b)
	case parserOSCString:
		t.stepOSCString(b)
	case parserOSCStringEsc:
		t.stepOSCStringEsc(b)
	}
}

func (t *Teletype) protoErr(state string, b byte, msg string) {
	err := newProtocolError(state, b, msg)
	t.logTrace("%v", err)
}

func (t *Teletype) stepNormal(b byte) {
	switch {
	case b == 0x1B:
		t.pState = parserEscape
	case b < 0x20 || b == 0x7F:
		t.handleControl(b)
	case b < 0x80:
		t.writeBare(rune(b))
	case b >= 0xC2 && b <= 0xDF:
		t.pUTF8Code = rune(b & 0x1F)
		t.pUTF8Remain = 1
		t.pState = parserUTF8Cont
	case b >= 0xE0 && b <= 0xEF:
		t.pUTF8Code = rune(b & 0x0F)
		t.pUTF8Remain = 2
		t.pState = parserUTF8Cont
	case b >= 0xF0 && b <= 0xF4:
		t.pUTF8Code = rune(b & 0x07)
		t.pUTF8Remain = 3
		t.pState = parserUTF8Cont
	default:
		// stray continuation byte (0x80-0xC1) or invalid lead (0xF5-0xFF)
		t.protoErr("normal", b, "invalid UTF-8 lead byte")
	}
}

func (t *Teletype) stepUTF8(b byte) {
	if b < 0x80 || b > 0xBF {
		t.protoErr("utf8", b, "expected UTF-8 continuation byte")
		t.pState = parserNormal
		t.stepNormal(b)
		return
	}
	t.pUTF8Code = (t.pUTF8Code << 6) | rune(b&0x3F)
	t.pUTF8Remain--
	if t.pUTF8Remain == 0 {
		t.writeBare(t.pUTF8Code)
		t.pState = parserNormal
	}
}

func (t *Teletype) stepEscape(b byte) {
	switch b {
	case '[':
		t.pCSIArgs = [maxCSIArgs]int{}
		t.pCSIArgCount = 0
		t.pCSIPrivate = 0
		t.pCSISubs = [maxCSIArgs][]int{}
		t.pCSIInSub = false
		t.pCSISubAcc = 0
		t.pState = parserCSI0
	case ']':
		t.pOSCArgs = t.pOSCArgs[:0]
		t.pOSCAccum = 0
		t.pOSCBuf = t.pOSCBuf[:0]
		t.pState = parserOSC0
	case '(', ')', '*', '+':
		t.pCharsetSlot = b
		t.pState = parserCharset
	case '7':
		t.saveCursor()
		t.pState = parserNormal
	case '8':
		t.restoreCursor()
		t.pState = parserNormal
	case 'M':
		t.handleScroll()
		t.pState = parserNormal
	case 'c':
		t.resetLocked()
	case '=': // DECKPAM application keypad
		t.setFlag(FlagAltKeypad, true)
		t.pState = parserNormal
	case '>': // DECKPNM normal keypad
		t.setFlag(FlagAltKeypad, false)
		t.pState = parserNormal
	default:
		t.protoErr("escape", b, "unhandled escape final byte")
		t.pState = parserNormal
	}
}

func (t *Teletype) stepCharset(b byte) {
	t.selectCharset(t.pCharsetSlot, b)
	t.pState = parserNormal
}

func (t *Teletype) stepCSI0(b byte) {
	switch b {
	case '?', '>', '=':
		t.pCSIPrivate = b
		t.pState = parserCSI
	default:
		t.pState = parserCSI
		t.stepCSI(b)
	}
}

// stepCSI accumulates one CSI parameter byte. Semicolons separate the
// top-level arguments landing in pCSIArgs; within one argument, colons
// introduce colon-delimited sub-parameters (e.g. the "2" and "R;G;B"
// components of "38:2::R:G:B") collected into pCSISubs at that arg's
// slot, an equivalent encoding to the semicolon form per SPEC_FULL
// §4.3 — grounded on phroun-purfecterm's SGRParam{Base,Subs} split.
func (t *Teletype) stepCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if t.pCSIInSub {
			t.pCSISubAcc = t.pCSISubAcc*10 + int(b-'0')
		} else if t.pCSIArgCount < maxCSIArgs {
			t.pCSIArgs[t.pCSIArgCount] = t.pCSIArgs[t.pCSIArgCount]*10 + int(b-'0')
		} else {
			t.logTrace("dropping CSI param past the %d-argument cap", maxCSIArgs)
		}
	case b == ':':
		if t.pCSIArgCount < maxCSIArgs {
			if t.pCSIInSub {
				t.pCSISubs[t.pCSIArgCount] = append(t.pCSISubs[t.pCSIArgCount], t.pCSISubAcc)
			}
			t.pCSIInSub = true
			t.pCSISubAcc = 0
		}
	case b == ';':
		if t.pCSIInSub && t.pCSIArgCount < maxCSIArgs {
			t.pCSISubs[t.pCSIArgCount] = append(t.pCSISubs[t.pCSIArgCount], t.pCSISubAcc)
		}
		t.pCSIInSub = false
		t.pCSISubAcc = 0
		if t.pCSIArgCount < maxCSIArgs {
			t.pCSIArgCount++
		}
	case b == 0x18 || b == 0x1A: // CAN / SUB abort the sequence
		t.pState = parserNormal
	case b < 0x20:
		t.handleControl(b)
	case b >= 0x40 && b <= 0x7E:
		n := t.pCSIArgCount + 1
		if n > maxCSIArgs {
			n = maxCSIArgs
		}
		if t.pCSIInSub && t.pCSIArgCount < maxCSIArgs {
			t.pCSISubs[t.pCSIArgCount] = append(t.pCSISubs[t.pCSIArgCount], t.pCSISubAcc)
		}
		t.pCSIInSub = false
		t.pCSISubAcc = 0
		args := t.pCSIArgs[:n]
		subs := t.pCSISubs[:n]
		if t.pCSIPrivate != 0 {
			t.handleCSIPrivate(t.pCSIPrivate, b, args)
		} else {
			t.handleCSI(b, args, subs)
		}
		t.pState = parserNormal
	default:
		// intermediate bytes (0x20-0x2F other than ':') are not used by
		// any sequence this parser recognizes; ignore them in place.
	}
}

func (t *Teletype) stepOSC0(b byte) {
	switch {
	case b >= '0' && b <= '9':
		t.pOSCAccum = t.pOSCAccum*10 + int(b-'0')
	case b == ';':
		t.pOSCArgs = append(t.pOSCArgs, t.pOSCAccum)
		t.pOSCAccum = 0
		t.pState = parserOSCString
	case b == 0x07:
		t.pOSCArgs = append(t.pOSCArgs, t.pOSCAccum)
		t.handleOSC(t.pOSCArgs, nil)
		t.pState = parserNormal
	case b == 0x1B:
		t.pOSCArgs = append(t.pOSCArgs, t.pOSCAccum)
		t.pState = parserOSCStringEsc
	default:
		t.protoErr("osc0", b, "unexpected byte before OSC ';'")
		t.pState = parserNormal
	}
}

func (t *Teletype) stepOSC(b byte) {
	// unreachable: stepOSC0 always transitions to parserOSCString once
	// the numeric prefix is consumed. Kept as a distinct state to mirror
	// the table's separate OSC0/OSC entries.
	t.stepOSCString(b)
}

func (t *Teletype) stepOSCString(b byte) {
	switch b {
	case 0x07:
		t.handleOSC(t.pOSCArgs, t.pOSCBuf)
		t.pState = parserNormal
	case 0x1B:
		t.pState = parserOSCStringEsc
	default:
		t.pOSCBuf = append(t.pOSCBuf, b)
	}
}

func (t *Teletype) stepOSCStringEsc(b byte) {
	if b == '\\' {
		t.handleOSC(t.pOSCArgs, t.pOSCBuf)
		t.pState = parserNormal
		return
	}
	// not a valid ST: the ESC terminated the OSC early. Reprocess b as
	// a fresh escape sequence rather than dropping it.
	t.pState = parserNormal
	t.stepEscape(b)
}
