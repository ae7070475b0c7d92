package vtcore

import "testing"

func TestSgrRGBForeground(t *testing.T) {
	// Scenario: truecolor foreground leaves other attributes untouched.
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[38;2;10;20;30mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != RGBColor(10, 20, 30) {
		t.Errorf("expected fg rgb(10,20,30), got %v", cell.Fg)
	}
	if cell.Flags != 0 {
		t.Errorf("expected no style flags, got %v", cell.Flags)
	}
	if cell.Bg != DefaultColor() {
		t.Errorf("expected default bg, got %v", cell.Bg)
	}
}

func TestSgrRGBColonForm(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[38:2:10:20:30mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != RGBColor(10, 20, 30) {
		t.Errorf("expected fg rgb(10,20,30), got %v", cell.Fg)
	}
}

func TestSgrRGBColonFormWithColorspace(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[38:2::10:20:30mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != RGBColor(10, 20, 30) {
		t.Errorf("expected fg rgb(10,20,30), got %v", cell.Fg)
	}
}

func TestSgrIndexed256(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[38;5;123m\x1b[48;5;200mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != IndexedColor(123) {
		t.Errorf("expected fg idx 123, got %v", cell.Fg)
	}
	if cell.Bg != IndexedColor(200) {
		t.Errorf("expected bg idx 200, got %v", cell.Bg)
	}
}

func TestSgrBasicAndBright(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[31;102mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != IndexedColor(1) {
		t.Errorf("expected fg idx 1, got %v", cell.Fg)
	}
	if cell.Bg != IndexedColor(10) {
		t.Errorf("expected bg idx 10 (bright green), got %v", cell.Bg)
	}
}

func TestSgrStyleFlags(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[1;3;4;7;9mX")

	cell, _ := s.Cell(0, 0)
	for _, flag := range []CellFlags{
		CellFlagBold, CellFlagItalic, CellFlagUnderline,
		CellFlagReverse, CellFlagStrike,
	} {
		if !cell.HasFlag(flag) {
			t.Errorf("expected flag %v set", flag)
		}
	}

	s.WriteString("\x1b[22;23;24;27;29mY")
	cell, _ = s.Cell(0, 1)
	if cell.Flags != 0 {
		t.Errorf("expected all flags cleared, got %v", cell.Flags)
	}
}

func TestSgrUnderlineStyles(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[4:3mX")
	cell, _ := s.Cell(0, 0)
	if !cell.HasFlag(CellFlagCurlyUnderline) {
		t.Errorf("expected curly underline, got %v", cell.Flags)
	}

	s.WriteString("\x1b[4:0mY")
	cell, _ = s.Cell(0, 1)
	if cell.Flags&underlineFlags != 0 {
		t.Errorf("expected underline removed, got %v", cell.Flags)
	}
}

func TestSgrUnderlineColor(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[58;2;1;2;3m\x1b[4mX")

	cell, _ := s.Cell(0, 0)
	if cell.UnderlineColor != RGBColor(1, 2, 3) {
		t.Errorf("expected underline color rgb(1,2,3), got %v", cell.UnderlineColor)
	}

	s.WriteString("\x1b[59mY")
	cell, _ = s.Cell(0, 1)
	if cell.UnderlineColor != DefaultColor() {
		t.Errorf("expected underline color reset, got %v", cell.UnderlineColor)
	}
}

func TestSgrReset(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[1;31;42m\x1b[0mX")

	cell, _ := s.Cell(0, 0)
	if cell.Flags != 0 || cell.Fg != DefaultColor() || cell.Bg != DefaultColor() {
		t.Errorf("expected default cell after reset, got %+v", cell)
	}
}

func TestSgrEmptyIsReset(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[1;31m\x1b[mX")

	cell, _ := s.Cell(0, 0)
	if cell.Flags != 0 || cell.Fg != DefaultColor() {
		t.Errorf("expected reset by bare SGR, got %+v", cell)
	}
}

func TestSgrInvalidGroupDoesNotAbortRest(t *testing.T) {
	// The out-of-range color group fails; the bold that follows applies.
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[38;5;999;1mX")

	cell, _ := s.Cell(0, 0)
	if cell.Fg != DefaultColor() {
		t.Errorf("expected default fg after invalid spec, got %v", cell.Fg)
	}
	if !cell.HasFlag(CellFlagBold) {
		t.Errorf("expected bold from the following group")
	}
}

func TestSgrCmykParsedButUnsupported(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[31m\x1b[38:3:0:50:50:50mX")

	// The CMY group is consumed without changing the color.
	cell, _ := s.Cell(0, 0)
	if cell.Fg != IndexedColor(1) {
		t.Errorf("expected fg unchanged by CMY spec, got %v", cell.Fg)
	}
}

func TestSgrDimAndBlink(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[2;5mX\x1b[25;22mY")

	cellX, _ := s.Cell(0, 0)
	if !cellX.HasFlag(CellFlagDim) || !cellX.HasFlag(CellFlagBlinkSlow) {
		t.Errorf("expected dim+blink, got %v", cellX.Flags)
	}
	cellY, _ := s.Cell(0, 1)
	if cellY.Flags != 0 {
		t.Errorf("expected cleared flags, got %v", cellY.Flags)
	}
}
