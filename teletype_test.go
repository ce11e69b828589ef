package teletype

import (
	"math/rand"
	"testing"
)

// Scenario 6: a scroll region bounded on both margins must not grow the
// store when a motion at its bottom edge triggers a scroll, and the
// cursor must stay on the same visible row across the scroll.
func TestScenarioScrollRegionBoundedDoesNotGrow(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("\x1b[1;3r")) // DECSTBM: margins rows 1..3
	tt.Write([]byte("\x1b[3;1H")) // CUP: park the cursor at row 3 (bottom margin)
	before := tt.TotalLines()
	beforeRow, _ := testVisRowCol(tt)

	for i := 0; i < 3; i++ {
		tt.Write([]byte("\n"))
	}

	after := tt.TotalLines()
	if after != before {
		t.Errorf("bounded scroll region grew the store: %d -> %d lines", before, after)
	}
	afterRow, _ := testVisRowCol(tt)
	if afterRow != beforeRow {
		t.Errorf("cursor visible row moved across a margin-bounded scroll: %d -> %d", beforeRow, afterRow)
	}
}

func testVisRowCol(t *Teletype) (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.store.UpdateOffsets(t.visCols)
	first, _ := t.store.LogicalToVisible(t.curLine)
	return first + t.curOffset/t.visCols, t.curOffset % t.visCols
}

func TestSetWinsizeForcesReindex(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("0123456789abcde")) // 15 cells at 10 cols -> 2 visible rows
	tt.UpdateOffsets()
	if _, count := tt.store.LogicalToVisible(0); count != 2 {
		t.Fatalf("sanity: expected 2 visible rows before resize, got %d", count)
	}

	tt.SetWinsize(5, 5, 0, 0)
	tt.UpdateOffsets()
	if _, count := tt.store.LogicalToVisible(0); count != 3 {
		t.Errorf("after resize to 5 cols, expected 3 visible rows (15/5), got %d", count)
	}
}

func TestNeedsUpdateIsConsumedOnce(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.SetNeedsUpdate()
	if !tt.NeedsUpdate() {
		t.Fatal("expected NeedsUpdate to report true once set")
	}
	if tt.NeedsUpdate() {
		t.Fatal("NeedsUpdate must clear the flag after reporting it")
	}
}

func TestSetScrollRowClampsToRange(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.SetScrollRow(-5)
	if row, _ := tt.ScrollRowCol(); row != 0 {
		t.Errorf("negative scroll row should clamp to 0, got %d", row)
	}
	tt.SetScrollRow(1 << 20)
	if row, _ := tt.ScrollRowCol(); row != 0 {
		// with only one logical line, max scrollable row is 0
		t.Errorf("scroll row should clamp to max(0, total-visRows)=0, got %d", row)
	}
}

func TestStatsReportsOccupancy(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	tt.Write([]byte("hello"))
	s := tt.Stats()
	if s.Lines != 1 {
		t.Errorf("Lines = %d, want 1", s.Lines)
	}
	if s.CacheSlots <= 0 {
		t.Errorf("CacheSlots = %d, want > 0", s.CacheSlots)
	}
	if s.DirtySlots < 0 || s.DirtySlots > s.CacheSlots {
		t.Errorf("DirtySlots = %d out of range [0,%d]", s.DirtySlots, s.CacheSlots)
	}
}

// TestInvariantsHoldUnderRandomInput feeds pseudo-random bytes (mixing
// plain text, control bytes, and CSI-shaped sequences) through Write and
// checks the per-proc invariants named in the testable-properties list
// after each chunk.
func TestInvariantsHoldUnderRandomInput(t *testing.T) {
	tt := newTestTeletype(5, 10, nil)
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte("ab \r\n\t\x1b[0123456789;mHABCDJKm")

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(6) + 1
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		tt.Write(buf)

		tt.mu.RLock()
		curLine := tt.curLine
		nLines := tt.store.Len()
		overflow := tt.overflow
		curOffset := tt.curOffset
		tt.mu.RUnlock()

		if curLine < 0 || curLine >= nLines {
			t.Fatalf("invariant 1 violated: cur_line=%d not in [0,%d)", curLine, nLines)
		}
		cellCount := tt.store.CountCells(curLine)
		if !overflow && cellCount < curOffset {
			t.Fatalf("invariant 2 violated: line has %d cells but cur_offset=%d, overflow=false", cellCount, curOffset)
		}
		if overflow && tt.visCols > 0 && cellCount%tt.visCols != 0 {
			t.Fatalf("invariant 2 violated: overflow=true but cell count %d not a multiple of vis_cols=%d", cellCount, tt.visCols)
		}

		for _, cs := range tt.store.cache {
			if cs.lline >= 0 && cs.lline >= tt.store.Len() {
				t.Fatalf("invariant 3 violated: cache slot references line %d, len=%d", cs.lline, tt.store.Len())
			}
		}

		row, _ := tt.ScrollRowCol()
		maxRow := tt.store.VisibleRows() - tt.visRows
		if maxRow < 0 {
			maxRow = 0
		}
		if row < 0 || row > maxRow {
			t.Fatalf("invariant 6 violated: scr_row=%d not in [0,%d]", row, maxRow)
		}
	}
}
