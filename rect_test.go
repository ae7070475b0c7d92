package vtcore

import "testing"

func fillScreen(s *Screen) {
	s.WriteString("abcd\r\nefgh\r\nijkl\r\nmnop")
}

func TestCopyRectangularArea(t *testing.T) {
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)

	// Copy rows 1-2 x cols 1-2 to (3, 5).
	s.WriteString("\x1b[1;1;2;2;1;3;5$v")

	cell, _ := s.Cell(2, 4)
	if cell.Char != 'a' {
		t.Errorf("expected 'a' copied to (2,4), got %q", cell.Char)
	}
	cell, _ = s.Cell(3, 5)
	if cell.Char != 'f' {
		t.Errorf("expected 'f' copied to (3,5), got %q", cell.Char)
	}
	// Source stays intact.
	cell, _ = s.Cell(0, 0)
	if cell.Char != 'a' {
		t.Errorf("expected source intact, got %q", cell.Char)
	}
}

func TestCopyAreaEmptyRectangleIsNoop(t *testing.T) {
	// An inverted source rectangle is a documented no-op.
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)
	before := s.String()

	s.WriteString("\x1b[3;3;1;1;1;1;1$v")

	if s.String() != before {
		t.Errorf("expected no-op for inverted rectangle")
	}
}

func TestEraseRectangularArea(t *testing.T) {
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)

	s.WriteString("\x1b[2;2;3;3$z")

	if content := s.LineContent(1); content != "e  h" {
		t.Errorf("expected 'e  h', got %q", content)
	}
	if content := s.LineContent(2); content != "i  l" {
		t.Errorf("expected 'i  l', got %q", content)
	}
	if content := s.LineContent(0); content != "abcd" {
		t.Errorf("expected row 0 intact, got %q", content)
	}
}

func TestFillRectangularArea(t *testing.T) {
	s := NewScreen(WithSize(4, 8))

	s.WriteString("\x1b[66;1;1;2;3$x") // fill 'B' (66)

	if content := s.LineContent(0); content != "BBB" {
		t.Errorf("expected 'BBB', got %q", content)
	}
	if content := s.LineContent(1); content != "BBB" {
		t.Errorf("expected 'BBB', got %q", content)
	}
	if content := s.LineContent(2); content != "" {
		t.Errorf("expected row 2 empty, got %q", content)
	}
}

func TestFillAreaInvertedIsNoop(t *testing.T) {
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)
	before := s.String()

	s.WriteString("\x1b[42;3;3;1;1$x")

	if s.String() != before {
		t.Errorf("expected no-op for inverted fill rectangle")
	}
}

func TestFillAreaControlCharRejected(t *testing.T) {
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)
	before := s.String()

	s.WriteString("\x1b[7;1;1;2;2$x") // 0x07 is not a printable fill

	if s.String() != before {
		t.Errorf("expected control character fill rejected")
	}
}

func TestRectOpsHonorOriginMode(t *testing.T) {
	s := NewScreen(WithSize(10, 20))

	s.WriteString("\x1b[3;6r\x1b[?6h")
	s.WriteString("\x1b[66;1;1;1;2$x") // fill 'B' at margin-relative (1,1)-(1,2)

	cell, _ := s.Cell(2, 0)
	if cell.Char != 'B' {
		t.Errorf("expected fill at margin top-left, got %q", cell.Char)
	}
}

func TestEraseAreaClampsToPage(t *testing.T) {
	s := NewScreen(WithSize(4, 8))
	fillScreen(s)

	s.WriteString("\x1b[1;1;99;99$z")

	for r := 0; r < 4; r++ {
		if content := s.LineContent(r); content != "" {
			t.Errorf("expected row %d cleared, got %q", r, content)
		}
	}
}
