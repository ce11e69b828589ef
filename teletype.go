package teletype

import (
	"io"
	"sync"
)

// Flags is a bitmask of terminal mode flags.
type Flags uint32

const (
	// FlagAutoWrap is DECAWM; default on.
	FlagAutoWrap Flags = 1 << iota
	// FlagCursorVisible is DECTCEM; default on.
	FlagCursorVisible
	// FlagBackspaceSendsDelete is DECBKM; default on.
	FlagBackspaceSendsDelete
	// FlagAppCursorKeys is DECCKM.
	FlagAppCursorKeys
	// FlagAltScreen is XTAS.
	FlagAltScreen
	// FlagSaveCursor is XTSC.
	FlagSaveCursor
	// FlagBracketedPaste is XTBP.
	FlagBracketedPaste
	// FlagBlinkCursor toggles cursor blink.
	FlagBlinkCursor
	// FlagEightBit toggles 8-bit controls.
	FlagEightBit
	// FlagAltKeypad toggles application keypad mode.
	FlagAltKeypad
	// FlagCaptureRequested is CUTSC: the host should perform a screen
	// capture on the next frame and then clear this flag.
	FlagCaptureRequested
)

const defaultFlags = FlagAutoWrap | FlagCursorVisible | FlagBackspaceSendsDelete

// DefaultRows and DefaultCols are used when New is given no WithSize
// option.
const (
	DefaultRows = 24
	DefaultCols = 80
)

type savedCursorState struct {
	line, offset int
	template     Cell
}

// Teletype is the terminal core: cursor, style template, scroll region,
// mode flags, and the CSI/OSC/SGR dispatch that mutates a LineStore.
// All public methods are safe for concurrent use; in practice only the
// host's single IoLoop-driven goroutine calls the mutating methods
// while a renderer goroutine calls the read-only queries.
type Teletype struct {
	mu sync.RWMutex

	store *LineStore

	flags    Flags
	template Cell

	curLine, curOffset int
	overflow           bool

	topMarg, botMarg int // 1-based; 0 means unset

	scrRow, scrCol int

	visRows, visCols, pixW, pixH int

	selection Selection

	charsets      [4]byte
	activeCharset int

	savedCursor *savedCursorState

	logger     Logger
	clipboard  ClipboardProvider
	title      TitleProvider
	bell       BellProvider
	replies    io.Writer

	// parser state — see parser.go for the transition table.
	pState       parserState
	pUTF8Code    rune
	pCSIArgs     [5]int
	pCSIArgCount int
	pCSIPrivate  byte
	pCSISubs     [5][]int // colon-delimited sub-parameters, keyed by arg slot
	pCSIInSub    bool
	pCSISubAcc   int
	pOSCArgs     []int
	pOSCAccum    int
	pOSCBuf      []byte
	pCharsetSlot byte
	pUTF8Remain  int

	needsUpdate bool
}

// Option configures a Teletype during construction.
type Option func(*Teletype)

// WithSize sets the visible grid dimensions in character cells.
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return func(t *Teletype) {
		t.visRows = rows
		t.visCols = cols
	}
}

// WithPixelSize records the window's pixel dimensions, reported back
// through the renderer queries but otherwise unused by the core.
func WithPixelSize(w, h int) Option {
	return func(t *Teletype) { t.pixW, t.pixH = w, h }
}

// WithCacheSize overrides the LineStore decode-cache slot count (must
// be a power of two >= 16; an invalid value falls back to the default).
func WithCacheSize(n int) Option {
	return func(t *Teletype) { t.store = NewLineStore(n) }
}

// WithLogger overrides the Logger used for Protocol/Keymap trace and
// error reporting. Defaults to a stderr-backed logger.
func WithLogger(l Logger) Option {
	return func(t *Teletype) { t.logger = l }
}

// WithResponse sets the writer that synthesized replies (DSR, etc.) are
// sent to. Defaults to discarding them.
func WithResponse(w io.Writer) Option {
	return func(t *Teletype) { t.replies = w }
}

// SetResponse rewires the response writer after construction, for
// collaborators like IoLoop that must be built from an existing
// Teletype (see cmd/ptydemo, where the IoLoop's Output method
// becomes the Teletype's reply sink once both exist).
func (t *Teletype) SetResponse(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w == nil {
		w = NoopResponse{}
	}
	t.replies = w
}

// WithClipboard wires the clipboard collaborator that answers OSC 52
// read/write requests.
func WithClipboard(c ClipboardProvider) Option {
	return func(t *Teletype) { t.clipboard = c }
}

// WithTitle wires the title-change collaborator.
func WithTitle(p TitleProvider) Option {
	return func(t *Teletype) { t.title = p }
}

// WithBell wires the bell collaborator.
func WithBell(p BellProvider) Option {
	return func(t *Teletype) { t.bell = p }
}

// New creates a Teletype at the default size (24x80) unless overridden
// by WithSize, with a fresh empty LineStore.
func New(opts ...Option) *Teletype {
	t := &Teletype{
		flags:   defaultFlags,
		visRows: DefaultRows,
		visCols: DefaultCols,
		replies: NoopResponse{},
	}
	for _, o := range opts {
		o(t)
	}
	if t.store == nil {
		t.store = NewLineStore(defaultCacheSize)
	}
	if t.logger == nil {
		t.logger = newStdLogger()
	}
	if t.clipboard == nil {
		t.clipboard = NoopClipboard{}
	}
	if t.title == nil {
		t.title = NoopTitle{}
	}
	if t.bell == nil {
		t.bell = NoopBell{}
	}
	t.template = BlankCell
	return t
}

// Write feeds p through the byte parser, mutating the Teletype exactly
// as if the bytes had arrived from the PTY. It never returns an
// error; malformed input is handled as a protocol error and logged.
func (t *Teletype) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range p {
		t.feedByte(b)
	}
	if len(p) > 0 {
		t.needsUpdate = true
	}
	return len(p), nil
}

// HasFlag reports whether flag is set.
func (t *Teletype) HasFlag(flag Flags) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.flags&flag != 0
}

func (t *Teletype) setFlag(flag Flags, on bool) {
	if on {
		t.flags |= flag
	} else {
		t.flags &^= flag
	}
}

// ConsumeCapture atomically reads and clears FlagCaptureRequested: the
// host's render loop calls this once per frame.
func (t *Teletype) ConsumeCapture() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.flags&FlagCaptureRequested != 0
	t.flags &^= FlagCaptureRequested
	return v
}

// CursorPosition returns the cursor's logical line and cell offset.
func (t *Teletype) CursorPosition() (line, offset int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.curLine, t.curOffset
}

// VisRows and VisCols report the current visible grid size.
func (t *Teletype) VisRows() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.visRows }
func (t *Teletype) VisCols() int { t.mu.RLock(); defer t.mu.RUnlock(); return t.visCols }

// TotalLines returns the logical line count.
func (t *Teletype) TotalLines() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Len()
}

// TopRow returns the visible-row index of the top of the viewport,
// i.e. max(visRows, totalVisibleRows) - visRows.
func (t *Teletype) TopRow() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.topRowLocked()
}

func (t *Teletype) topRowLocked() int {
	total := t.store.VisibleRows()
	base := total
	if t.visRows > base {
		base = t.visRows
	}
	return base - t.visRows
}

// ScrollRowCol returns the current scrollback viewing offsets.
func (t *Teletype) ScrollRowCol() (row, col int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrRow, t.scrCol
}

// SetScrollRow clamps and sets the scrollback row offset to
// [0, max(0, total_rows - vis_rows)].
func (t *Teletype) SetScrollRow(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	max := t.store.VisibleRows() - t.visRows
	if max < 0 {
		max = 0
	}
	if row < 0 {
		row = 0
	}
	if row > max {
		row = max
	}
	t.scrRow = row
}

// SetScrollCol sets the scrollback column offset.
func (t *Teletype) SetScrollCol(col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if col < 0 {
		col = 0
	}
	t.scrCol = col
}

// SetWinsize resizes the visible grid and resets minLine to 0; the
// next UpdateOffsets re-indexes every line at the new width.
func (t *Teletype) SetWinsize(rows, cols, pixW, pixH int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rows <= 0 {
		rows = t.visRows
	}
	if cols <= 0 {
		cols = t.visCols
	}
	t.visRows, t.visCols, t.pixW, t.pixH = rows, cols, pixW, pixH
	t.store.minLine = 0
	t.needsUpdate = true
}

// SetNeedsUpdate marks the renderer dirty flag.
func (t *Teletype) SetNeedsUpdate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.needsUpdate = true
}

// NeedsUpdate reports and clears the renderer dirty flag.
func (t *Teletype) NeedsUpdate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.needsUpdate
	t.needsUpdate = false
	return v
}

// UpdateOffsets flushes the visible<->logical index; a renderer calls
// this once at the start of each frame before querying row mappings.
func (t *Teletype) UpdateOffsets() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store.UpdateOffsets(t.visCols)
}

// VisibleToLogical resolves a visible row to (logical line, cell
// offset).
func (t *Teletype) VisibleToLogical(vrow int) (lline, coff int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.VisibleToLogical(vrow)
}

// GetLine returns the unpacked line handle for lline. The returned
// pointer is valid only until the next GetLine call.
func (t *Teletype) GetLine(lline int) *Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.GetLine(lline, false)
}

// LineText renders lline's cells as a plain string, for simple
// diagnostics and doc examples.
func (t *Teletype) LineText(lline int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lline < 0 || lline >= t.store.Len() {
		return "", newProtocolError("query", 0, "line index out of range")
	}
	l := t.store.GetLine(lline, false)
	runes := make([]rune, len(l.Cells))
	for i, c := range l.Cells {
		if c.Codepoint == 0 {
			runes[i] = ' '
		} else {
			runes[i] = c.Codepoint
		}
	}
	return string(runes), nil
}

// Stats reports LineStore occupancy counters, as surfaced by the OSC
// 556 diagnostic dump.
func (t *Teletype) Stats() LineStoreStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Stats()
}

// Reset discards all scrollback and returns the cursor to the origin.
func (t *Teletype) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Teletype) resetLocked() {
	t.store.Reset()
	t.curLine, t.curOffset, t.overflow = 0, 0, false
	t.topMarg, t.botMarg = 0, 0
	t.flags = defaultFlags
	t.template = BlankCell
	t.savedCursor = nil
	t.pState = parserNormal
}

func (t *Teletype) logTrace(format string, args ...any) { t.logger.Tracef(format, args...) }
func (t *Teletype) logErr(format string, args ...any)   { t.logger.Errorf(format, args...) }
