package vtcore

import (
	"image/color"
	"testing"
)

func TestSixelRedRectangle(t *testing.T) {
	// Scenario: a 4x2 all-red image defined via raster attributes, one
	// color register and a repeated full sixel column.
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1bP0;1;0q\"1;1;4;2#0;2;100;0;0#0!4~-\x1b\\")

	if n := s.ImageCount(); n != 1 {
		t.Fatalf("expected 1 image, got %d", n)
	}

	cell, _ := s.Cell(0, 0)
	if cell.Image == nil {
		t.Fatalf("expected image fragment at cursor start")
	}
	img := s.Image(cell.Image.ImageID)
	if img == nil {
		t.Fatalf("expected stored image")
	}
	if img.Width != 4 || img.Height != 2 {
		t.Fatalf("expected 4x2 image, got %dx%d", img.Width, img.Height)
	}
	for i := 0; i < img.Width*img.Height; i++ {
		r, g, b, a := img.Data[i*4], img.Data[i*4+1], img.Data[i*4+2], img.Data[i*4+3]
		if r != 255 || g != 0 || b != 0 || a != 255 {
			t.Fatalf("pixel %d: expected opaque red, got (%d,%d,%d,%d)", i, r, g, b, a)
		}
	}
}

func TestSixelRepeatIntroducer(t *testing.T) {
	b := NewSixelImageBuilder(100, 100, 1, false, color.RGBA{0, 0, 0, 255})
	p := NewSixelParser(b)

	for _, c := range []byte("#2!10?") {
		p.Feed(c)
	}
	p.Feed('~') // one more column, all six bits
	p.Done()

	w, h := b.Size()
	// '?' is an empty sixel: advances the cursor without drawing.
	if w != 11 || h != 6 {
		t.Errorf("expected 11x6 extent, got %dx%d", w, h)
	}
}

func TestSixelNewlineAndRewind(t *testing.T) {
	b := NewSixelImageBuilder(100, 100, 1, false, color.RGBA{0, 0, 0, 255})
	p := NewSixelParser(b)

	for _, c := range []byte("@-@$@") {
		p.Feed(c)
	}
	p.Done()

	// '@' sets bit 0 only. After '-' the second row starts at y=6; '$'
	// rewinds the column.
	w, h := b.Size()
	if w != 1 || h != 7 {
		t.Errorf("expected 1x7 extent, got %dx%d", w, h)
	}
}

func TestSixelColorDefinitionRGB(t *testing.T) {
	b := NewSixelImageBuilder(10, 10, 1, false, color.RGBA{0, 0, 0, 255})
	p := NewSixelParser(b)

	for _, c := range []byte("#5;2;0;100;0@") {
		p.Feed(c)
	}
	p.Done()

	data := b.Data()
	if data[1] != 255 {
		t.Errorf("expected green pixel, got %v", data[:4])
	}
}

func TestSixelHlsIgnored(t *testing.T) {
	// HLS color definitions are parsed but the register stays unchanged.
	b := NewSixelImageBuilder(10, 10, 1, false, color.RGBA{0, 0, 0, 255})
	p := NewSixelParser(b)

	for _, c := range []byte("#1;1;120;50;100#1@") {
		p.Feed(c)
	}
	p.Done()

	// Register 1 keeps the VT340 default blue.
	data := b.Data()
	want := sixelDefaultColors[1]
	if data[0] != want.R || data[1] != want.G || data[2] != want.B {
		t.Errorf("expected default register color %v, got %v", want, data[:4])
	}
}

func TestSixelPartialImageCommits(t *testing.T) {
	// A sequence terminator before the image completes still commits the
	// partial raster.
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1bP0;0;0q\"1;1;8;6#2~~~\x1b\\")

	if n := s.ImageCount(); n != 1 {
		t.Fatalf("expected partial image committed, got %d images", n)
	}
	cell, _ := s.Cell(0, 0)
	if cell.Image == nil {
		t.Fatalf("expected image fragment")
	}
	img := s.Image(cell.Image.ImageID)
	if img.Width != 8 || img.Height != 6 {
		t.Errorf("expected raster-sized 8x6 image, got %dx%d", img.Width, img.Height)
	}
}

func TestSixelRasterClamp(t *testing.T) {
	s := NewScreen(WithSize(24, 80), WithMaxImageSize(16, 16))

	s.WriteString("\x1bP0;0;0q\"1;1;5000;5000#2~\x1b\\")

	cell, _ := s.Cell(0, 0)
	if cell.Image == nil {
		t.Fatalf("expected clamped image, got none")
	}
	img := s.Image(cell.Image.ImageID)
	if img.Width != 16 || img.Height != 16 {
		t.Errorf("expected clamped 16x16 image, got %dx%d", img.Width, img.Height)
	}
}

func TestSixelCursorAdvancesBelowImage(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	// 8x16 cells: a 16x20 image covers 2 columns and 2 rows.
	s.WriteString("\x1bP0;0;0q\"1;1;16;20#2!16~\x1b\\")

	row, col := s.CursorPos()
	if row != 2 || col != 0 {
		t.Errorf("expected cursor below image at (2, 0), got (%d, %d)", row, col)
	}
}

func TestSixelCursorNextToGraphicMode(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	s.WriteString("\x1b[?8452h")
	s.WriteString("\x1bP0;0;0q\"1;1;16;20#2!16~\x1b\\")

	row, col := s.CursorPos()
	if row != 0 || col != 2 {
		t.Errorf("expected cursor right of image at (0, 2), got (%d, %d)", row, col)
	}
}

func TestSixelTransparentBackground(t *testing.T) {
	s := NewScreen(WithSize(24, 80))

	// P2=1 selects transparent background; only drawn pixels are opaque.
	s.WriteString("\x1bP0;1;0q\"1;1;2;6#2@\x1b\\")

	cell, _ := s.Cell(0, 0)
	img := s.Image(cell.Image.ImageID)
	if img.Data[3] != 255 {
		t.Errorf("expected drawn pixel opaque, got alpha %d", img.Data[3])
	}
	// Pixel (1,0) was never drawn.
	if img.Data[7] != 0 {
		t.Errorf("expected undrawn pixel transparent, got alpha %d", img.Data[7])
	}
}
