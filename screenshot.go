package vtcore

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ScreenshotConfig controls how the page is rendered to an image.
type ScreenshotConfig struct {
	// Font face used for rendering. Defaults to basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight override the cell dimensions.
	// If zero, they are derived from the font metrics.
	CellWidth  int
	CellHeight int

	// ShowCursor renders the cursor cell inverted. Default true.
	ShowCursor *bool
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Screenshot renders the page to an RGBA image using default settings.
func (s *Screen) Screenshot() *image.RGBA {
	return s.ScreenshotWithConfig(&ScreenshotConfig{})
}

// ScreenshotWithConfig renders the page to an RGBA image with custom font
// and cursor settings. Cell colors resolve through the live palette;
// reverse video and the hidden flag are applied, images are composited
// from their fragments.
func (s *Screen) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()

	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}

	cellW := cfg.CellWidth
	cellH := cfg.CellHeight
	metrics := face.Metrics()
	if cellW == 0 {
		if adv, ok := face.GlyphAdvance('M'); ok {
			cellW = adv.Ceil()
		} else {
			cellW = 7
		}
	}
	if cellH == 0 {
		cellH = metrics.Height.Ceil()
		if cellH == 0 {
			cellH = 13
		}
	}
	ascent := metrics.Ascent.Ceil()

	showCursor := true
	if cfg.ShowCursor != nil {
		showCursor = *cfg.ShowCursor
	}

	img := image.NewRGBA(image.Rect(0, 0, s.cols*cellW, s.rows*cellH))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.palette.Background), image.Point{}, draw.Src)

	reverseScreen := s.modes.DEC(ModeReverseVideo)

	for row := 0; row < s.rows; row++ {
		line := s.active.LineAt(row)
		for col := 0; col < s.cols; col++ {
			cell := line.Cell(col)
			if cell == nil || cell.IsWideSpacer() {
				continue
			}

			fg := s.palette.Resolve(cell.Fg, true)
			bg := s.palette.Resolve(cell.Bg, false)
			if cell.HasFlag(CellFlagDim) {
				fg = dimColor(fg)
			}
			if cell.HasFlag(CellFlagReverse) != reverseScreen {
				fg, bg = bg, fg
			}

			isCursor := showCursor && s.cursor.Visible &&
				row == s.cursor.Row && col == s.cursor.Col
			if isCursor {
				fg, bg = bg, s.palette.Cursor
			}

			width := cell.Width()
			if width == 0 {
				width = 1
			}
			rect := image.Rect(col*cellW, row*cellH, (col+width)*cellW, (row+1)*cellH)
			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			if cell.Image != nil {
				s.drawImageFragment(img, cell.Image, col*cellW, row*cellH, cellW, cellH)
				continue
			}

			if cell.HasFlag(CellFlagHidden) || cell.Char == 0 || cell.Char == ' ' {
				continue
			}

			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(col*cellW, row*cellH+ascent),
			}
			d.DrawString(cell.Text())

			if cell.Flags&underlineFlags != 0 {
				uc := fg
				if !cell.UnderlineColor.IsDefault() {
					uc = s.palette.Resolve(cell.UnderlineColor, true)
				}
				y := row*cellH + cellH - 2
				for x := col * cellW; x < (col+width)*cellW; x++ {
					img.SetRGBA(x, y, uc)
				}
			}
			if cell.HasFlag(CellFlagStrike) {
				y := row*cellH + cellH/2
				for x := col * cellW; x < (col+width)*cellW; x++ {
					img.SetRGBA(x, y, fg)
				}
			}
		}
	}

	return img
}

// drawImageFragment composites one cell's slice of a registered image.
func (s *Screen) drawImageFragment(dst *image.RGBA, frag *ImageFragment, x, y, cellW, cellH int) {
	data := s.images.Image(frag.ImageID)
	if data == nil {
		return
	}
	for dy := 0; dy < cellH; dy++ {
		sy := frag.Y + dy
		if sy >= data.Height {
			break
		}
		for dx := 0; dx < cellW; dx++ {
			sx := frag.X + dx
			if sx >= data.Width {
				break
			}
			base := (sy*data.Width + sx) * 4
			a := data.Data[base+3]
			if a == 0 {
				continue
			}
			dst.SetRGBA(x+dx, y+dy, color.RGBA{
				R: data.Data[base+0],
				G: data.Data[base+1],
				B: data.Data[base+2],
				A: a,
			})
		}
	}
}

// dimColor reduces brightness to two thirds for the faint attribute.
func dimColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: 255,
	}
}
