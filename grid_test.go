package vtcore

import "testing"

func TestGridRingScrollback(t *testing.T) {
	g := NewGrid(2, 4, 2)

	g.LineAt(0).Cell(0).Char = 'a'
	g.ScrollUp(0, 2, 1, true)

	if g.HistoryLen() != 1 {
		t.Fatalf("expected 1 history line, got %d", g.HistoryLen())
	}
	if g.LineAt(-1).Cell(0).Char != 'a' {
		t.Errorf("expected 'a' in scrollback")
	}
	if g.LineAt(1).Cell(0).Char != ' ' {
		t.Errorf("expected blank new bottom line")
	}
}

func TestGridScrollbackEviction(t *testing.T) {
	g := NewGrid(2, 4, 2)

	for i := 0; i < 4; i++ {
		g.LineAt(0).Cell(0).Char = rune('a' + i)
		g.ScrollUp(0, 2, 1, true)
	}

	// Capacity 2: the two youngest survive; sum of history and page
	// stays bounded.
	if g.HistoryLen() != 2 {
		t.Fatalf("expected history capped at 2, got %d", g.HistoryLen())
	}
	if got := g.LineAt(-1).Cell(0).Char; got != 'd' {
		t.Errorf("expected youngest 'd', got %q", got)
	}
	if got := g.LineAt(-2).Cell(0).Char; got != 'c' {
		t.Errorf("expected 'c', got %q", got)
	}
}

func TestGridLineAtOutOfRange(t *testing.T) {
	g := NewGrid(2, 4, 2)

	if g.LineAt(-1) != nil {
		t.Errorf("expected nil for empty scrollback")
	}
	if g.LineAt(2) != nil {
		t.Errorf("expected nil below the page")
	}
}

func TestGridScrollUpRegion(t *testing.T) {
	g := NewGrid(4, 4, 10)
	for i := 0; i < 4; i++ {
		g.LineAt(i).Cell(0).Char = rune('a' + i)
	}

	g.ScrollUp(1, 3, 1, false)

	if g.LineAt(0).Cell(0).Char != 'a' {
		t.Errorf("expected row 0 untouched")
	}
	if g.LineAt(1).Cell(0).Char != 'c' {
		t.Errorf("expected 'c' moved up")
	}
	if g.LineAt(2).Cell(0).Char != ' ' {
		t.Errorf("expected cleared row inside the region")
	}
	if g.LineAt(3).Cell(0).Char != 'd' {
		t.Errorf("expected row 3 untouched")
	}
	if g.HistoryLen() != 0 {
		t.Errorf("expected region scroll to bypass history")
	}
}

func TestGridScrollDown(t *testing.T) {
	g := NewGrid(3, 4, 0)
	for i := 0; i < 3; i++ {
		g.LineAt(i).Cell(0).Char = rune('a' + i)
	}

	g.ScrollDown(0, 3, 1)

	if g.LineAt(0).Cell(0).Char != ' ' {
		t.Errorf("expected blank top row")
	}
	if g.LineAt(1).Cell(0).Char != 'a' {
		t.Errorf("expected 'a' moved down")
	}
	if g.LineAt(2).Cell(0).Char != 'b' {
		t.Errorf("expected 'b' moved down")
	}
}

func TestGridInsertDeleteChars(t *testing.T) {
	g := NewGrid(1, 6, 0)
	for i, r := range "abcdef" {
		g.LineAt(0).Cell(i).Char = r
	}

	g.InsertChars(0, 2, 5, 2)
	if got := g.LineAt(0).Text(); got != "ab  cd" {
		t.Errorf("expected 'ab  cd', got %q", got)
	}

	g.DeleteChars(0, 2, 5, 2)
	if got := g.LineAt(0).Text(); got != "abcd" {
		t.Errorf("expected 'abcd', got %q", got)
	}
}

func TestGridCopyAreaOverlap(t *testing.T) {
	g := NewGrid(3, 6, 0)
	for i, r := range "abcdef" {
		g.LineAt(0).Cell(i).Char = r
	}

	// Overlapping copy one column to the right.
	g.CopyArea(0, 0, 0, 3, 0, 1)

	if got := g.LineAt(0).Text(); got != "aabcdf" {
		t.Errorf("expected 'aabcdf', got %q", got)
	}
}

func TestGridTabStopsAfterResize(t *testing.T) {
	g := NewGrid(2, 8, 0)

	cursor := g.Resize(2, 20, false, Position{})
	_ = cursor

	if got := g.NextTabStop(0); got != 8 {
		t.Errorf("expected default stop at 8, got %d", got)
	}
	if got := g.NextTabStop(8); got != 16 {
		t.Errorf("expected extended stop at 16, got %d", got)
	}
}

func TestGridShrinkRowsKeepsCursorContent(t *testing.T) {
	g := NewGrid(4, 10, 10)
	for i := 0; i < 4; i++ {
		g.LineAt(i).Cell(0).Char = rune('a' + i)
	}

	cursor := g.Resize(2, 10, false, Position{Row: 3, Col: 0})

	// Two top lines rotate into history; the cursor line stays on the
	// page.
	if g.HistoryLen() != 2 {
		t.Fatalf("expected 2 history lines, got %d", g.HistoryLen())
	}
	if g.LineAt(cursor.Row).Cell(0).Char != 'd' {
		t.Errorf("expected cursor to follow its line")
	}
}

func TestGridGrowRowsPullsFromHistory(t *testing.T) {
	g := NewGrid(2, 10, 10)
	g.LineAt(0).Cell(0).Char = 'a'
	g.ScrollUp(0, 2, 1, true)

	cursor := g.Resize(3, 10, false, Position{Row: 0, Col: 0})

	if g.HistoryLen() != 0 {
		t.Errorf("expected history pulled back onto the page, got %d", g.HistoryLen())
	}
	if g.LineAt(0).Cell(0).Char != 'a' {
		t.Errorf("expected 'a' back on the page")
	}
	if cursor.Row != 1 {
		t.Errorf("expected cursor shifted down to row 1, got %d", cursor.Row)
	}
}

func TestGridReflowJoinsWrappedRuns(t *testing.T) {
	g := NewGrid(2, 4, 10)
	for i, r := range "abcd" {
		g.LineAt(0).Cell(i).Char = r
	}
	for i, r := range "ef" {
		g.LineAt(1).Cell(i).Char = r
	}
	g.LineAt(1).Wrapped = true

	g.Resize(2, 8, true, Position{})

	if got := g.LineAt(0).Text(); got != "abcdef" {
		t.Errorf("expected joined 'abcdef', got %q", got)
	}
	if g.LineAt(1).Wrapped {
		t.Errorf("expected no wrapped flag after rejoin")
	}
}

func TestGridReflowKeepsWideCellsWhole(t *testing.T) {
	g := NewGrid(2, 6, 10)
	line := g.LineAt(0)
	line.Cell(0).Char = 'a'
	line.Cell(1).Char = 'b'
	line.Cell(2).Char = 'c'
	line.Cell(3).Char = '世'
	line.Cell(3).SetFlag(CellFlagWideChar)
	line.Cell(4).SetFlag(CellFlagWideCharSpacer)

	g.Resize(2, 4, true, Position{})

	// The wide cell cannot straddle the boundary at column 3/4.
	if g.LineAt(0).Cell(3).IsWide() {
		t.Errorf("expected wide cell pushed to the next line")
	}
	if got := g.LineAt(1).Cell(0).Char; got != '世' {
		t.Errorf("expected wide cell at start of continuation, got %q", got)
	}
}

func TestGridClearArea(t *testing.T) {
	g := NewGrid(3, 6, 0)
	for r := 0; r < 3; r++ {
		for c := 0; c < 6; c++ {
			g.LineAt(r).Cell(c).Char = 'x'
		}
	}

	g.ClearArea(1, 1, 2, 4, DefaultColor())

	if g.LineAt(0).Cell(0).Char != 'x' {
		t.Errorf("expected outside-area cell untouched")
	}
	if g.LineAt(1).Cell(1).Char != ' ' {
		t.Errorf("expected cleared cell")
	}
	if g.LineAt(2).Cell(5).Char != 'x' {
		t.Errorf("expected cell right of area untouched")
	}
}

func TestGridHistoryAndPageBounded(t *testing.T) {
	// Invariant: history + page never exceeds max history + rows.
	g := NewGrid(3, 5, 7)

	for i := 0; i < 50; i++ {
		g.ScrollUp(0, 3, 1, true)
		if total := g.HistoryLen() + g.Rows(); total > 7+3 {
			t.Fatalf("storage exceeded bound: %d", total)
		}
	}
	if g.HistoryLen() != 7 {
		t.Errorf("expected history at cap 7, got %d", g.HistoryLen())
	}
}
