package teletype

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cells := []Cell{
		{Codepoint: 'h'},
		{Codepoint: 'i'},
		{Codepoint: '!', Flags: CellFlagBold, Fg: RGB(1, 2, 3)},
		{Codepoint: '!', Flags: CellFlagBold, Fg: RGB(1, 2, 3)},
		{Codepoint: '?', Fg: Indexed256(5)},
	}
	packed, text := packLine(cells)
	got := unpackLine(packed, text, Now())
	if len(got.Cells) != len(cells) {
		t.Fatalf("round trip changed cell count: got %d, want %d", len(got.Cells), len(cells))
	}
	for i, want := range cells {
		if got.Cells[i] != want {
			t.Errorf("cell %d: got %+v, want %+v", i, got.Cells[i], want)
		}
	}
}

func TestPackUnpackEmptyLine(t *testing.T) {
	packed, text := packLine(nil)
	if packed != nil || text != nil {
		t.Fatalf("expected nil/nil for an empty line, got %v/%v", packed, text)
	}
	got := unpackLine(packed, text, Now())
	if len(got.Cells) != 0 {
		t.Fatalf("expected zero cells, got %d", len(got.Cells))
	}
}

func TestCacheSlotAdmissionEvictsDirty(t *testing.T) {
	s := NewLineStore(16)
	// Create the lines first: InsertLineAfter invalidates the whole
	// cache, which would repack the edit before the eviction below.
	other := 1 + 16
	for s.Len() <= other {
		s.InsertLineAfter(s.Len() - 1)
	}
	l := s.GetLine(1, true)
	l.Cells = []Cell{{Codepoint: 'x'}}

	// Force eviction by reusing the same direct-mapped slot (16 wide).
	_ = s.GetLine(other, false)

	// The original line's edit must have been packed out, not dropped.
	txt, err := (&Teletype{store: s}).LineText(1)
	if err != nil {
		t.Fatalf("LineText: %v", err)
	}
	if txt != "x" {
		t.Fatalf("expected evicted edit to persist as %q, got %q", "x", txt)
	}
}

func TestEraseLineRegimeOverwriteInPlace(t *testing.T) {
	s := NewLineStore(16)
	l := s.GetLine(0, true)
	l.Cells = []Cell{{Codepoint: 'a'}, {Codepoint: 'b'}, {Codepoint: 'c'}, {Codepoint: 'd'}}
	s.EraseLine(0, 1, 3, 10, BlankCell)
	l = s.GetLine(0, false)
	if len(l.Cells) != 4 {
		t.Fatalf("in-place erase must not change length, got %d cells", len(l.Cells))
	}
	if l.Cells[1].Codepoint != ' ' || l.Cells[2].Codepoint != ' ' {
		t.Fatalf("expected cells 1,2 blanked, got %+v", l.Cells)
	}
	if l.Cells[0].Codepoint != 'a' || l.Cells[3].Codepoint != 'd' {
		t.Fatalf("erase must not touch cells outside [start,end), got %+v", l.Cells)
	}
}

func TestEraseLineRegimeTruncate(t *testing.T) {
	s := NewLineStore(16)
	l := s.GetLine(0, true)
	l.Cells = []Cell{{Codepoint: 'a'}, {Codepoint: 'b'}, {Codepoint: 'c'}}
	s.EraseLine(0, 1, 10, 10, BlankCell) // end(10) is past all content -> truncate
	l = s.GetLine(0, false)
	if len(l.Cells) != 1 || l.Cells[0].Codepoint != 'a' {
		t.Fatalf("expected truncation to 1 cell, got %+v", l.Cells)
	}
}

func TestEraseLineRegimeSplitOnWrapBoundary(t *testing.T) {
	s := NewLineStore(16)
	l := s.GetLine(0, true)
	cells := make([]Cell, 15)
	for i := range cells {
		cells[i] = Cell{Codepoint: rune('a' + i)}
	}
	l.Cells = cells
	before := s.Len()
	s.EraseLine(0, 0, 10, 10, BlankCell) // end lands on a visCols boundary with room after
	if s.Len() != before+1 {
		t.Fatalf("expected the tail to split into a new line, lines went %d -> %d", before, s.Len())
	}
	tail := s.GetLine(1, false)
	if len(tail.Cells) != 5 {
		t.Fatalf("expected 5 trailing cells moved to the new line, got %d", len(tail.Cells))
	}
}

func TestRemoveLineKeepsAtLeastOne(t *testing.T) {
	s := NewLineStore(16)
	s.RemoveLine(0)
	if s.Len() != 1 {
		t.Fatalf("RemoveLine on the last line must keep one line, got %d", s.Len())
	}
}

func TestUpdateOffsetsInvariant(t *testing.T) {
	s := NewLineStore(16)
	at := s.InsertLineAfter(0)
	l := s.GetLine(at, true)
	l.Cells = make([]Cell, 23) // three visible rows at visCols=10
	s.UpdateOffsets(10)

	var total int
	for lline := 0; lline < s.Len(); lline++ {
		_, count := s.LogicalToVisible(lline)
		total += count
	}
	if total != s.VisibleRows() {
		t.Fatalf("sum of loffsets counts (%d) != voffsets length (%d)", total, s.VisibleRows())
	}

	// row 0 is line 0; rows 1..3 are line `at`, so row 3 starts at cell 20.
	lline, coff := s.VisibleToLogical(3)
	if lline != at || coff != 20 {
		t.Fatalf("visible_to_logical(3) = (%d,%d), want (%d,20)", lline, coff, at)
	}
}

func TestCacheSlotsReferenceValidLines(t *testing.T) {
	s := NewLineStore(16)
	for i := 0; i < 5; i++ {
		s.InsertLineAfter(s.Len() - 1)
	}
	s.GetLine(3, false)
	s.RemoveLine(0)
	for i := range s.cache {
		if s.cache[i].lline >= s.Len() {
			t.Fatalf("cache slot %d references stale line %d (len=%d)", i, s.cache[i].lline, s.Len())
		}
	}
}
