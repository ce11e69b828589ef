package teletype

import (
	"bytes"
	"encoding/base64"
	"strconv"
)

// handleOSC dispatches a completed OSC sequence. args holds the
// semicolon-separated numeric prefix (only the first is meaningful for
// the commands wired here); buf holds the raw bytes after the last
// parsed ";" (or the whole body, for commands with no numeric args).
// This wires 0/1/2 (set title), 22/23 (push/pop title), 52 (clipboard
// read/write), 555 (request a screen capture), and 556 (dump
// LineStore stats as a reply). OSC 7 (shell-reported cwd) is accepted
// but deliberately left unhandled, captured here for future use.
func (t *Teletype) handleOSC(args []int, buf []byte) {
	if len(args) == 0 {
		t.logTrace("ignoring OSC with no command number")
		return
	}
	switch args[0] {
	case 0, 1, 2:
		t.title.SetTitle(string(buf))
	case 7:
		t.logTrace("ignoring OSC 7 (cwd report): %q", buf)
	case 22:
		t.title.PushTitle()
	case 23:
		t.title.PopTitle()
	case 52:
		t.handleClipboardOSC(buf)
	case 555:
		t.flags |= FlagCaptureRequested
	case 556:
		s := t.store.Stats()
		reply := "\x1b]556;" +
			strconv.Itoa(s.Lines) + ";" +
			strconv.Itoa(s.CellArena) + ";" +
			strconv.Itoa(s.TextArena) + ";" +
			strconv.Itoa(s.CacheSlots) + ";" +
			strconv.Itoa(s.DirtySlots) + ";" +
			strconv.Itoa(s.VisibleRows) + "\x07"
		t.replies.Write([]byte(reply))
	default:
		t.logTrace("unhandled OSC %d", args[0])
	}
}

// handleClipboardOSC implements OSC 52: "<selector>;<base64-or-?>".
// A payload of "?" is a read request, answered with the same wire
// form the teacher's ClipboardLoad emits; otherwise the payload is
// base64-decoded and written to the selected clipboard.
func (t *Teletype) handleClipboardOSC(buf []byte) {
	parts := bytes.SplitN(buf, []byte(";"), 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		t.logTrace("malformed OSC 52 payload %q", buf)
		return
	}
	selector := parts[0][0]
	payload := parts[1]
	if string(payload) == "?" {
		content := t.clipboard.Read(selector)
		if content == "" {
			return
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		reply := "\x1b]52;" + string(selector) + ";" + encoded + "\x07"
		t.replies.Write([]byte(reply))
		return
	}
	data, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		t.logTrace("invalid OSC 52 base64 payload: %v", err)
		return
	}
	t.clipboard.Write(selector, data)
}
