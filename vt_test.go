package vtcore

import "testing"

// assertScreensEqual compares the full visible state of two screens.
func assertScreensEqual(t *testing.T, a, b *Screen) {
	t.Helper()

	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		t.Fatalf("size mismatch: %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	for row := 0; row < a.Rows(); row++ {
		for col := 0; col < a.Cols(); col++ {
			ca, _ := a.Cell(row, col)
			cb, _ := b.Cell(row, col)
			// Hyperlink ids are registry-local; compare targets instead.
			la := a.Hyperlink(ca.HyperlinkID)
			lb := b.Hyperlink(cb.HyperlinkID)
			ca.HyperlinkID = 0
			cb.HyperlinkID = 0
			if !ca.Equal(&cb) {
				t.Fatalf("cell (%d,%d) differs: %+v vs %+v", row, col, ca, cb)
			}
			if (la == nil) != (lb == nil) || (la != nil && la.URI != lb.URI) {
				t.Fatalf("hyperlink (%d,%d) differs: %+v vs %+v", row, col, la, lb)
			}
		}
	}
	ar, ac := a.CursorPos()
	br, bc := b.CursorPos()
	if ar != br || ac != bc {
		t.Fatalf("cursor differs: (%d,%d) vs (%d,%d)", ar, ac, br, bc)
	}
}

func TestVtRoundTrip(t *testing.T) {
	// Rendering the screen as VT sequences and feeding them to a fresh
	// screen produces a cell-equal screen.
	a := NewScreen(WithSize(6, 20))
	a.WriteString("plain \x1b[1;31mbold-red\x1b[0m\r\n")
	a.WriteString("\x1b[48;5;22mgreen-bg\x1b[0m 世界\r\n")
	a.WriteString("\x1b[4:3m\x1b[58;2;9;8;7mcurly\x1b[0m\r\n")
	a.WriteString("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\\r\n")
	a.WriteString("\x1b[3;7H")

	b := NewScreen(WithSize(6, 20))
	b.WriteString(a.VT())

	assertScreensEqual(t, a, b)
}

func TestVtRoundTripBlankScreen(t *testing.T) {
	a := NewScreen(WithSize(4, 10))
	b := NewScreen(WithSize(4, 10))
	b.WriteString(a.VT())

	assertScreensEqual(t, a, b)
}

func TestVtRoundTripCursorOnly(t *testing.T) {
	a := NewScreen(WithSize(4, 10))
	a.WriteString("\x1b[3;4H")

	b := NewScreen(WithSize(4, 10))
	b.WriteString(a.VT())

	assertScreensEqual(t, a, b)
}

func TestSnapshotReadBack(t *testing.T) {
	// Invariant: a written cell reads back with equal codepoints and
	// attributes through the snapshot interface.
	s := NewScreen(WithSize(4, 10))

	s.WriteString("\x1b[1;38;2;1;2;3mX")

	snap := s.Snapshot(SnapshotDetailFull)
	cell := snap.Lines[0].Cells[0]
	if cell.Char != "X" {
		t.Errorf("expected 'X', got %q", cell.Char)
	}
	if cell.Fg != "#010203" {
		t.Errorf("expected '#010203', got %q", cell.Fg)
	}
	if !cell.Attrs.Bold {
		t.Errorf("expected bold attribute")
	}
}

func TestSnapshotStyledSegments(t *testing.T) {
	s := NewScreen(WithSize(2, 20))

	s.WriteString("aa\x1b[31mbb\x1b[0mcc")

	snap := s.Snapshot(SnapshotDetailStyled)
	segs := snap.Lines[0].Segments
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Text != "aa" || segs[1].Text != "bb" {
		t.Errorf("unexpected segment split: %+v", segs)
	}
	if segs[1].Fg != "idx:1" {
		t.Errorf("expected red segment, got %q", segs[1].Fg)
	}
}

func TestSnapshotCursor(t *testing.T) {
	s := NewScreen(WithSize(4, 10))

	s.WriteString("\x1b[2 q\x1b[2;3H")

	snap := s.Snapshot(SnapshotDetailText)
	if snap.Cursor.Row != 1 || snap.Cursor.Col != 2 {
		t.Errorf("expected cursor (1,2), got (%d,%d)", snap.Cursor.Row, snap.Cursor.Col)
	}
	if snap.Cursor.Style != "steady-block" {
		t.Errorf("expected steady-block, got %q", snap.Cursor.Style)
	}
}

func TestScreenshotDimensions(t *testing.T) {
	s := NewScreen(WithSize(3, 12))

	s.WriteString("hi")
	img := s.Screenshot()

	// basicfont.Face7x13: 7x13 cells by default metrics.
	bounds := img.Bounds()
	if bounds.Dx() != 12*7 || bounds.Dy() != 3*13 {
		t.Errorf("unexpected screenshot size %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestScreenshotBackgroundColor(t *testing.T) {
	s := NewScreen(WithSize(2, 4))

	s.WriteString("\x1b[48;2;10;200;30mX")
	img := s.Screenshot()

	// Sample a pixel inside the first cell's background.
	c := img.RGBAAt(1, 1)
	if c.G < 100 {
		t.Errorf("expected green-ish background, got %+v", c)
	}
}
