package teletype

import (
	"bytes"
	"testing"
)

func newTestTeletype(rows, cols int, replies *bytes.Buffer) *Teletype {
	opts := []Option{WithSize(rows, cols)}
	if replies != nil {
		opts = append(opts, WithResponse(replies))
	}
	return New(opts...)
}

func mustLineText(t *testing.T, tt *Teletype, lline int) string {
	t.Helper()
	s, err := tt.LineText(lline)
	if err != nil {
		t.Fatalf("LineText(%d): %v", lline, err)
	}
	return s
}

// Scenario 1: bare text then CR/LF.
func TestScenarioBareTextThenCRLF(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("hi\r\nworld"))

	if got := mustLineText(t, tt, 0); got != "hi" {
		t.Errorf("line 0 = %q, want %q", got, "hi")
	}
	if got := mustLineText(t, tt, 1); got != "world" {
		t.Errorf("line 1 = %q, want %q", got, "world")
	}
	line, offset := tt.CursorPosition()
	if line != 1 || offset != 5 {
		t.Errorf("cursor = (%d,%d), want (1,5)", line, offset)
	}
}

// Scenario 2: auto-wrap accounting.
func TestScenarioAutoWrap(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("abcdefghijkl"))

	if n := tt.store.CountCells(0); n != 12 {
		t.Fatalf("count_cells(line 0) = %d, want 12", n)
	}
	tt.UpdateOffsets()
	if _, count := tt.store.LogicalToVisible(0); count != 2 {
		t.Errorf("loffsets[0].count = %d, want 2", count)
	}
	if lline, coff := tt.VisibleToLogical(1); lline != 0 || coff != 10 {
		t.Errorf("visible_to_logical(1) = (%d,%d), want (0,10)", lline, coff)
	}
}

// Scenario 3: erase to end after CHA.
func TestScenarioEraseToEnd(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("abcdef"))
	tt.Write([]byte("\x1b[3G")) // CHA: column 3 (1-based) -> 0-based col 2
	tt.Write([]byte("\x1b[0K")) // EL 0: cursor to end

	if got := mustLineText(t, tt, 0); got != "ab" {
		t.Errorf("line 0 = %q, want %q", got, "ab")
	}
	_, offset := tt.CursorPosition()
	if offset != 2 {
		t.Errorf("cursor column = %d, want 2", offset)
	}
}

// Scenario 4: SGR red then reset.
func TestScenarioSGRRedThenReset(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("\x1b[31mX\x1b[0mY"))

	line := tt.GetLine(0)
	if len(line.Cells) < 2 {
		t.Fatalf("expected at least 2 cells, got %d", len(line.Cells))
	}
	red := DefaultPalette[1]
	if line.Cells[0].Fg != red {
		t.Errorf("cell(0,0).Fg = %+v, want %+v (color_nr_red)", line.Cells[0].Fg, red)
	}
	if !line.Cells[1].Fg.IsDefault() {
		t.Errorf("cell(0,1).Fg = %+v, want the default (zero) foreground", line.Cells[1].Fg)
	}
}

// Colon-delimited SGR subparameters are an equivalent encoding of the
// semicolon-chained extended-color forms.
func TestSGRColonSubparameters(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("\x1b[38:5:202mA"))
	tt.Write([]byte("\x1b[38:2::10:20:30mB"))
	tt.Write([]byte("\x1b[48:2:0:40:50:60mC"))

	line := tt.GetLine(0)
	if len(line.Cells) < 3 {
		t.Fatalf("expected at least 3 cells, got %d", len(line.Cells))
	}
	if want := Indexed256(202); line.Cells[0].Fg != want {
		t.Errorf("cell(0,0).Fg = %+v, want %+v (38:5:202)", line.Cells[0].Fg, want)
	}
	if want := (Color{A: 0xff, R: 10, G: 20, B: 30}); line.Cells[1].Fg != want {
		t.Errorf("cell(0,1).Fg = %+v, want %+v (38:2::10:20:30)", line.Cells[1].Fg, want)
	}
	if want := (Color{A: 0xff, R: 40, G: 50, B: 60}); line.Cells[2].Bg != want {
		t.Errorf("cell(0,2).Bg = %+v, want %+v (48:2:0:40:50:60)", line.Cells[2].Bg, want)
	}
}

// Scenario 5: CSI 6n device status report.
func TestScenarioDeviceStatusReport(t *testing.T) {
	var replies bytes.Buffer
	tt := newTestTeletype(5, 10, &replies)
	tt.Write([]byte("abc\x1b[6n"))

	want := "\x1b[1;4R"
	if got := replies.String(); got != want {
		t.Errorf("DSR reply = %q, want %q", got, want)
	}
}

func TestUTF8MultibyteDecoding(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("café")) // 'é' is a 2-byte UTF-8 sequence

	got := mustLineText(t, tt, 0)
	if got != "café" {
		t.Errorf("line 0 = %q, want %q", got, "café")
	}
}

func TestUTF8InvalidContinuationByteRecovers(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	// 0xE2 starts a 3-byte sequence; 'A' (0x41) is not a continuation
	// byte, so the parser must log a Protocol error, drop back to
	// Normal, and still process 'A' as a bare character.
	tt.Write([]byte{0xE2, 'A'})

	got := mustLineText(t, tt, 0)
	if got != "A" {
		t.Errorf("line 0 = %q, want %q (stray lead byte dropped, A still written)", got, "A")
	}
}

func TestUnknownCSIFinalByteIsRecoverable(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("\x1b[999zhello"))

	got := mustLineText(t, tt, 0)
	if got != "hello" {
		t.Errorf("line 0 = %q, want %q (unknown CSI final byte must not corrupt state)", got, "hello")
	}
}

func TestResetFullyReinitializes(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("\x1b[31msome text"))
	tt.Reset()

	if tt.TotalLines() != 1 {
		t.Errorf("TotalLines() after Reset = %d, want 1", tt.TotalLines())
	}
	line, offset := tt.CursorPosition()
	if line != 0 || offset != 0 {
		t.Errorf("cursor after Reset = (%d,%d), want (0,0)", line, offset)
	}
	if !tt.HasFlag(FlagAutoWrap) {
		t.Error("Reset must restore default flags (auto-wrap on)")
	}
}
