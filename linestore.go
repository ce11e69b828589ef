package teletype

import "unicode/utf8"

// defaultCacheSize is the direct-mapped decode-cache slot count used
// when no WithCacheSize option overrides it. Any power of two >= 16
// works; 128 balances cache-hit rate against repack cost for a
// typical scrollback-heavy session.
const defaultCacheSize = 128

const minCacheSize = 16

// Line is the unpacked, editable view of one logical line returned by
// LineStore.GetLine. The backing storage is a cache slot and is only
// valid until the next GetLine or InvalidateCache call — a renderer
// that retains cell data must copy it.
type Line struct {
	Cells []Cell
	Stamp Timestamp
}

// lineDesc is one entry of LineStore.lines: the packed-cell and text
// regions backing a logical line, plus its last-mutation timestamp.
// Offsets and counts are kept as int48 so all four fields pack into a
// single cache line; nothing in this module depends on the narrower
// range.
type lineDesc struct {
	textOff, textCount int48
	cellOff, cellCount int48
	stamp              Timestamp
}

// cacheSlot is one direct-mapped decode-cache entry.
type cacheSlot struct {
	lline int // -1 when free
	dirty bool
	line  Line
}

// visOffset is one entry of LineStore.voffsets: which logical line and
// cell offset a visible row begins at.
type visOffset struct {
	lline int
	coff  int
}

// logOffset is one entry of LineStore.loffsets: the visible-row range a
// logical line currently occupies.
type logOffset struct {
	firstVrow int
	count     int
}

// LineStoreStats reports occupancy counters, used by the OSC 556
// statistics dump.
type LineStoreStats struct {
	Lines        int
	CellArena    int
	TextArena    int
	CacheSlots   int
	DirtySlots   int
	VisibleRows  int
}

// LineStore owns the packed scrollback arrays and the decode cache.
// The cell and text arenas only grow: a repacked
// line's data is appended to the tail rather than overwritten in place,
// so storage shrinks only on an explicit Reset.
type LineStore struct {
	cellArena []Cell
	textArena []byte

	lines []lineDesc
	cache []cacheSlot

	voffsets []visOffset
	loffsets []logOffset

	minLine int
}

// NewLineStore creates a store with a single empty logical line and a
// cache of cacheSize slots. cacheSize must be a power of two >= 16; an
// invalid value is replaced with defaultCacheSize.
func NewLineStore(cacheSize int) *LineStore {
	if cacheSize < minCacheSize || cacheSize&(cacheSize-1) != 0 {
		cacheSize = defaultCacheSize
	}
	s := &LineStore{
		lines: make([]lineDesc, 1),
		cache: make([]cacheSlot, cacheSize),
	}
	for i := range s.cache {
		s.cache[i].lline = -1
	}
	s.loffsets = []logOffset{{firstVrow: 0, count: 1}}
	s.voffsets = []visOffset{{lline: 0, coff: 0}}
	return s
}

// Len returns the number of logical lines (always >= 1).
func (s *LineStore) Len() int { return len(s.lines) }

func (s *LineStore) slotFor(lline int) *cacheSlot {
	return &s.cache[lline&(len(s.cache)-1)]
}

// GetLine returns the unpacked handle for lline, admitting it into the
// decode cache if necessary. edit marks the
// slot dirty so a later eviction or InvalidateCache repacks it back.
// The returned pointer is valid only until the next GetLine or
// InvalidateCache call.
func (s *LineStore) GetLine(lline int, edit bool) *Line {
	cs := s.slotFor(lline)
	if cs.lline != lline {
		if cs.lline >= 0 && cs.dirty {
			s.packSlot(cs)
		}
		cs.line = *s.unpackLine(lline)
		cs.lline = lline
		cs.dirty = false
	}
	if edit {
		cs.dirty = true
	}
	return &cs.line
}

// StampLine marks lline dirty and stamps it with ts, the monotonic
// mutation timestamp used for dirty-line tracking.
func (s *LineStore) StampLine(lline int, ts Timestamp) {
	l := s.GetLine(lline, true)
	l.Stamp = ts
}

// CountCells returns the number of Unicode scalars on lline, preferring
// the live cache content and otherwise scanning the packed text by
// counting rune boundaries.
func (s *LineStore) CountCells(lline int) int {
	cs := s.slotFor(lline)
	if cs.lline == lline {
		return len(cs.line.Cells)
	}
	d := s.lines[lline]
	text := s.textArena[int(d.textOff.get()) : int(d.textOff.get())+int(d.textCount.get())]
	return utf8.RuneCount(text)
}

// ClearLine zeroes lline's packed extents and its cache slot, without
// removing the logical line itself.
func (s *LineStore) ClearLine(lline int) {
	cs := s.slotFor(lline)
	if cs.lline == lline {
		cs.line = Line{}
		cs.dirty = true
	} else {
		if cs.lline >= 0 && cs.dirty {
			s.packSlot(cs)
		}
		cs.lline = lline
		cs.dirty = true
		cs.line = Line{}
	}
	s.lines[lline].textCount = setInt48(0)
	s.lines[lline].cellCount = setInt48(0)
}

// packSlot repacks a dirty cache slot back into its logical line's
// descriptor by appending fresh data to the arena tail.
func (s *LineStore) packSlot(cs *cacheSlot) {
	cells, text := packLine(cs.line.Cells)
	textOff := len(s.textArena)
	cellOff := len(s.cellArena)
	s.textArena = append(s.textArena, text...)
	s.cellArena = append(s.cellArena, cells...)
	s.lines[cs.lline] = lineDesc{
		textOff:   setInt48(int64(textOff)),
		textCount: setInt48(int64(len(text))),
		cellOff:   setInt48(int64(cellOff)),
		cellCount: setInt48(int64(len(cells))),
		stamp:     cs.line.Stamp,
	}
	cs.dirty = false
}

// unpackLine decodes lline's packed representation from the arenas.
func (s *LineStore) unpackLine(lline int) *Line {
	d := s.lines[lline]
	cellOff, cellCount := int(d.cellOff.get()), int(d.cellCount.get())
	textOff, textCount := int(d.textOff.get()), int(d.textCount.get())
	cells := s.cellArena[cellOff : cellOff+cellCount]
	text := s.textArena[textOff : textOff+textCount]
	return unpackLine(cells, text, d.stamp)
}

// packLine implements the run-length packing rule: a packed cell is
// emitted iff its style differs from the previous cell's; its Codepoint field
// is overwritten with the relative UTF-8 byte offset at which that
// style begins applying.
func packLine(cells []Cell) (packed []Cell, text []byte) {
	if len(cells) == 0 {
		return nil, nil
	}
	buf := make([]byte, 0, len(cells))
	packed = make([]Cell, 0, len(cells))
	var last Cell
	first := true
	for _, c := range cells {
		if first || !sameStyle(last, c) {
			styleCell := c
			styleCell.Codepoint = rune(len(buf))
			packed = append(packed, styleCell)
			last = c
			first = false
		}
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], c.Codepoint)
		buf = append(buf, rb[:n]...)
	}
	return packed, buf
}

// unpackLine is the inverse of packLine: the round-trip law
// requires unpack(pack(L)) == L cell-wise for any valid L.
func unpackLine(packed []Cell, text []byte, stamp Timestamp) *Line {
	line := &Line{Stamp: stamp}
	if len(packed) == 0 {
		return line
	}
	for i, sc := range packed {
		start := int(sc.Codepoint)
		end := len(text)
		if i+1 < len(packed) {
			end = int(packed[i+1].Codepoint)
		}
		seg := text[start:end]
		for len(seg) > 0 {
			r, size := utf8.DecodeRune(seg)
			line.Cells = append(line.Cells, Cell{Codepoint: r, Flags: sc.Flags, Fg: sc.Fg, Bg: sc.Bg})
			seg = seg[size:]
		}
	}
	return line
}

// InvalidateCache repacks every dirty slot and marks all slots free.
// Must be called before any operation that reorders s.lines.
func (s *LineStore) InvalidateCache() {
	for i := range s.cache {
		cs := &s.cache[i]
		if cs.lline >= 0 && cs.dirty {
			s.packSlot(cs)
		}
		cs.lline = -1
		cs.dirty = false
		cs.line = Line{}
	}
}

// InsertLineAfter invalidates the cache, inserts an empty logical line
// immediately after lline, and returns its index.
func (s *LineStore) InsertLineAfter(lline int) int {
	s.InvalidateCache()
	at := lline + 1
	s.lines = append(s.lines, lineDesc{})
	copy(s.lines[at+1:], s.lines[at:])
	s.lines[at] = lineDesc{}
	if s.minLine > at || s.minLine < 0 {
		s.minLine = at
	}
	return at
}

// RemoveLine invalidates the cache and removes the logical line at
// lline. At least one line is always retained.
func (s *LineStore) RemoveLine(lline int) {
	if len(s.lines) <= 1 {
		s.ClearLine(lline)
		return
	}
	s.InvalidateCache()
	s.lines = append(s.lines[:lline], s.lines[lline+1:]...)
	if s.minLine > lline {
		s.minLine = lline
	}
}

// MarkTouched records that lline was mutated, for the incremental
// offset-rebuild signal.
func (s *LineStore) MarkTouched(lline int) {
	if s.minLine < 0 || lline < s.minLine {
		s.minLine = lline
	}
}

// EraseLine implements the three erasure regimes. cols is the
// visible-column width used to decide whether start/end land on a wrap
// boundary; tmpl supplies the style written into blanked cells (its
// Codepoint is ignored — blanks always carry a space).
func (s *LineStore) EraseLine(lline, start, end, cols int, tmpl Cell) {
	line := s.GetLine(lline, true)
	n := len(line.Cells)
	boundary := func(x int) bool { return cols > 0 && x%cols == 0 }
	blank := tmpl
	blank.Codepoint = ' '

	switch {
	case end < n && !boundary(end):
		// Regime (a): overwrite [start,end) in place.
		if start < 0 {
			start = 0
		}
		for i := start; i < end && i < n; i++ {
			line.Cells[i] = blank
		}
	case boundary(end) && end < n:
		// Regime (b): split the tail into one or two new lines.
		newLines := 1
		if boundary(start) && start != 0 {
			newLines = 2
		}
		tail := append([]Cell(nil), line.Cells[end:]...)
		if start < len(line.Cells) {
			line.Cells = line.Cells[:start]
		}
		at := lline
		for i := 0; i < newLines; i++ {
			at = s.InsertLineAfter(at)
		}
		tailLine := s.GetLine(at, true)
		tailLine.Cells = tail
	default:
		// Regime (c): truncate to start (end is past all content).
		if start < 0 {
			start = 0
		}
		if start < len(line.Cells) {
			line.Cells = line.Cells[:start]
		}
	}
	s.MarkTouched(lline)
}

func wrapCount(cells int, visCols int) int {
	if visCols <= 0 {
		return 1
	}
	if cells == 0 {
		return 1
	}
	n := (cells + visCols - 1) / visCols
	if n == 0 {
		n = 1
	}
	return n
}

// UpdateOffsets rebuilds voffsets/loffsets from scratch. minLine is
// kept as a dirty marker for diagnostics, but every call performs a
// full rebuild rather than an incremental one starting at minLine —
// simpler, and produces an identical result (see DESIGN.md).
func (s *LineStore) UpdateOffsets(visCols int) {
	s.voffsets = s.voffsets[:0]
	s.loffsets = make([]logOffset, len(s.lines))
	for lline := range s.lines {
		count := wrapCount(s.CountCells(lline), visCols)
		first := len(s.voffsets)
		for w := 0; w < count; w++ {
			coff := w * visCols
			s.voffsets = append(s.voffsets, visOffset{lline: lline, coff: coff})
		}
		s.loffsets[lline] = logOffset{firstVrow: first, count: count}
	}
	s.minLine = len(s.lines)
}

// VisibleRows returns the total number of visible (wrapped) rows.
func (s *LineStore) VisibleRows() int { return len(s.voffsets) }

// VisibleToLogical resolves a visible row to its logical line and the
// cell offset that row begins at.
func (s *LineStore) VisibleToLogical(vrow int) (lline, coff int) {
	if vrow < 0 {
		vrow = 0
	}
	if vrow >= len(s.voffsets) {
		if len(s.voffsets) == 0 {
			return 0, 0
		}
		vrow = len(s.voffsets) - 1
	}
	vo := s.voffsets[vrow]
	return vo.lline, vo.coff
}

// LogicalToVisible resolves a logical line to its first visible row and
// the number of visible rows it occupies.
func (s *LineStore) LogicalToVisible(lline int) (vrow, count int) {
	if lline < 0 || lline >= len(s.loffsets) {
		return 0, 0
	}
	lo := s.loffsets[lline]
	return lo.firstVrow, lo.count
}

// Stats reports current occupancy, backing the OSC 556 dump.
func (s *LineStore) Stats() LineStoreStats {
	dirty := 0
	for _, cs := range s.cache {
		if cs.lline >= 0 && cs.dirty {
			dirty++
		}
	}
	return LineStoreStats{
		Lines:       len(s.lines),
		CellArena:   len(s.cellArena),
		TextArena:   len(s.textArena),
		CacheSlots:  len(s.cache),
		DirtySlots:  dirty,
		VisibleRows: len(s.voffsets),
	}
}

// Reset discards all lines and arena storage, returning to a single
// empty logical line. This is the only path that shrinks storage.
func (s *LineStore) Reset() {
	s.cellArena = nil
	s.textArena = nil
	s.lines = make([]lineDesc, 1)
	for i := range s.cache {
		s.cache[i] = cacheSlot{lline: -1}
	}
	s.loffsets = []logOffset{{firstVrow: 0, count: 1}}
	s.voffsets = []visOffset{{lline: 0, coff: 0}}
	s.minLine = 0
}
