package vtcore

import "image/color"

// sixelState identifies a state of the sixel sub-grammar.
type sixelState int

const (
	sixelGround sixelState = iota
	sixelColorIntroducer
	sixelColorParam
	sixelRepeatIntroducer
	sixelRasterSettings
)

// sixelDefaultColors is the VT340 default 16-color sixel palette.
var sixelDefaultColors = [16]color.RGBA{
	{0, 0, 0, 255},       //  0: black
	{51, 51, 204, 255},   //  1: blue
	{204, 33, 33, 255},   //  2: red
	{51, 204, 51, 255},   //  3: green
	{204, 51, 204, 255},  //  4: magenta
	{51, 204, 204, 255},  //  5: cyan
	{204, 204, 51, 255},  //  6: yellow
	{135, 135, 135, 255}, //  7: gray 50%
	{66, 66, 66, 255},    //  8: gray 25%
	{84, 84, 153, 255},   //  9: less saturated blue
	{153, 66, 66, 255},   // 10: less saturated red
	{84, 153, 84, 255},   // 11: less saturated green
	{153, 84, 153, 255},  // 12: less saturated magenta
	{84, 153, 153, 255},  // 13: less saturated cyan
	{153, 153, 84, 255},  // 14: less saturated yellow
	{204, 204, 204, 255}, // 15: gray 75%
}

// SixelParser is the streaming sub-state machine for DECSIXEL passthrough
// data. Recognized tokens: '#' color introducer, '!' repeat introducer,
// '"' raster attributes, '$' carriage return, '-' newline (6 pixel rows),
// and '?'..'~' sixel data bytes. Events go to the image builder.
type SixelParser struct {
	state   sixelState
	params  []int
	builder *SixelImageBuilder
}

// NewSixelParser creates a parser feeding the given builder.
func NewSixelParser(builder *SixelImageBuilder) *SixelParser {
	return &SixelParser{builder: builder}
}

// Feed consumes one passthrough byte.
func (p *SixelParser) Feed(b byte) {
	switch p.state {
	case sixelGround:
		p.fallback(b)

	case sixelRepeatIntroducer:
		switch {
		case isSixelDigit(b):
			p.addDigit(b)
		case isSixelData(b):
			count := p.params[0]
			for i := 0; i < count; i++ {
				p.builder.Render(b - '?')
			}
			p.transition(sixelGround)
		default:
			p.fallback(b)
		}

	case sixelColorIntroducer:
		if isSixelDigit(b) {
			p.addDigit(b)
			p.state = sixelColorParam
		} else {
			p.fallback(b)
		}

	case sixelColorParam:
		switch {
		case isSixelDigit(b):
			p.addDigit(b)
		case b == ';':
			p.params = append(p.params, 0)
		default:
			p.fallback(b)
		}

	case sixelRasterSettings:
		switch {
		case isSixelDigit(b):
			p.addDigit(b)
		case b == ';':
			p.params = append(p.params, 0)
		default:
			p.fallback(b)
		}
	}
}

// fallback handles the bytes that start a new token from any state.
func (p *SixelParser) fallback(b byte) {
	switch {
	case b == '#':
		p.transition(sixelColorIntroducer)
	case b == '!':
		p.transition(sixelRepeatIntroducer)
	case b == '"':
		p.transition(sixelRasterSettings)
	case b == '$':
		p.transition(sixelGround)
		p.builder.Rewind()
	case b == '-':
		p.transition(sixelGround)
		p.builder.Newline()
	default:
		if p.state != sixelGround {
			p.transition(sixelGround)
		}
		if isSixelData(b) {
			p.builder.Render(b - '?')
		}
		// Any other byte is ignored.
	}
}

// Done flushes a trailing token. Called when the DCS sequence terminates,
// including early termination: whatever was accumulated still commits.
func (p *SixelParser) Done() {
	p.transition(sixelGround)
}

func (p *SixelParser) transition(next sixelState) {
	p.leaveState()
	p.state = next
	switch next {
	case sixelColorIntroducer, sixelRepeatIntroducer, sixelRasterSettings:
		p.params = p.params[:0]
		p.params = append(p.params, 0)
	}
}

// leaveState commits the accumulated parameters of the state being left.
func (p *SixelParser) leaveState() {
	switch p.state {
	case sixelRasterSettings:
		if len(p.params) == 4 {
			p.builder.SetRaster(p.params[0], p.params[1], p.params[2], p.params[3])
		}

	case sixelColorParam:
		switch len(p.params) {
		case 1:
			p.builder.UseColor(p.params[0])
		case 5:
			index := p.params[0]
			if p.params[1] == 2 {
				// RGB, components in 0..100.
				r := uint8(p.params[2] * 255 / 100)
				g := uint8(p.params[3] * 255 / 100)
				b := uint8(p.params[4] * 255 / 100)
				p.builder.SetColor(index, color.RGBA{r, g, b, 255})
				p.builder.UseColor(index)
			}
			// Colorspace 1 is HLS: parsed but unsupported; the register
			// is left unchanged.
		}
	}
}

func (p *SixelParser) addDigit(b byte) {
	n := &p.params[len(p.params)-1]
	*n = *n*10 + int(b-'0')
}

func isSixelDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSixelData(b byte) bool {
	return b >= '?' && b <= '~'
}

// SixelImageBuilder accumulates sixel rendering into an RGBA buffer.
//
// The raster attributes pin the image size when present; otherwise the
// buffer grows with the drawing, bounded by the configured maximum in both
// directions (oversized rasters are clamped, not rejected).
type SixelImageBuilder struct {
	maxWidth  int
	maxHeight int

	width  int // allocated extent
	height int

	explicitSize bool
	usedWidth    int // drawn extent, used when no raster was given
	usedHeight   int

	buf []byte

	palette    [256]color.RGBA
	paletteLen int
	current    int

	x int
	y int

	// Aspect ratio is tracked for completeness; rendering is 1:1 pending
	// aspect-aware scaling.
	aspectVertical   int
	aspectHorizontal int

	transparent bool
	background  color.RGBA
}

// NewSixelImageBuilder creates a builder bounded by maxWidth x maxHeight
// pixels. With transparent set, unpainted pixels stay fully transparent;
// otherwise they take the background color.
func NewSixelImageBuilder(maxWidth, maxHeight, aspectVertical int, transparent bool, background color.RGBA) *SixelImageBuilder {
	b := &SixelImageBuilder{
		maxWidth:         maxWidth,
		maxHeight:        maxHeight,
		aspectVertical:   aspectVertical,
		aspectHorizontal: 1,
		transparent:      transparent,
		background:       background,
		paletteLen:       16,
	}
	copy(b.palette[:], sixelDefaultColors[:])
	return b
}

// SetRaster applies the raster attributes: aspect ratio and image size.
// The size is clamped to the configured maximum.
func (b *SixelImageBuilder) SetRaster(pan, pad, width, height int) {
	if pan > 0 {
		b.aspectVertical = pan
	}
	if pad > 0 {
		b.aspectHorizontal = pad
	}
	if width > b.maxWidth {
		width = b.maxWidth
	}
	if height > b.maxHeight {
		height = b.maxHeight
	}
	if width <= 0 || height <= 0 {
		return
	}
	b.explicitSize = true
	b.grow(width, height)
	b.width = width
	b.height = height
}

// SetColor defines a palette register.
func (b *SixelImageBuilder) SetColor(index int, c color.RGBA) {
	if index < 0 || index >= len(b.palette) {
		return
	}
	b.palette[index] = c
	if index >= b.paletteLen {
		b.paletteLen = index + 1
	}
}

// UseColor selects the current register.
func (b *SixelImageBuilder) UseColor(index int) {
	if b.paletteLen > 0 {
		b.current = index % b.paletteLen
	}
}

// Rewind implements '$': back to the start of the current sixel row.
func (b *SixelImageBuilder) Rewind() {
	b.x = 0
}

// Newline implements '-': start of the next sixel row (6 pixels down).
func (b *SixelImageBuilder) Newline() {
	b.x = 0
	if b.explicitSize {
		if b.y+6 < b.height {
			b.y += 6
		}
		return
	}
	if b.y+6 < b.maxHeight {
		b.y += 6
	}
}

// Render draws one sixel data byte: six vertical pixels, bit 0 on top.
func (b *SixelImageBuilder) Render(sixel byte) {
	x := b.x
	if b.explicitSize && x >= b.width {
		return
	}
	if x >= b.maxWidth {
		return
	}
	c := b.palette[b.current]
	for i := 0; i < 6; i++ {
		if sixel&(1<<i) == 0 {
			continue
		}
		y := b.y + i
		if b.explicitSize && y >= b.height {
			continue
		}
		if y >= b.maxHeight {
			continue
		}
		b.setPixel(x, y, c)
	}
	b.x++
}

// setPixel writes one pixel, growing the buffer as needed.
func (b *SixelImageBuilder) setPixel(x, y int, c color.RGBA) {
	if x >= b.width || y >= b.height {
		b.grow(x+1, y+1)
	}
	base := (y*b.width + x) * 4
	b.buf[base+0] = c.R
	b.buf[base+1] = c.G
	b.buf[base+2] = c.B
	b.buf[base+3] = c.A
	if x+1 > b.usedWidth {
		b.usedWidth = x + 1
	}
	if y+1 > b.usedHeight {
		b.usedHeight = y + 1
	}
}

// grow reallocates the buffer to cover at least width x height, filling
// fresh pixels with the background.
func (b *SixelImageBuilder) grow(width, height int) {
	if width <= b.width && height <= b.height {
		return
	}
	if width < b.width {
		width = b.width
	}
	if height < b.height {
		height = b.height
	}
	if width > b.maxWidth {
		width = b.maxWidth
	}
	if height > b.maxHeight {
		height = b.maxHeight
	}

	buf := make([]byte, width*height*4)
	if !b.transparent {
		for i := 0; i < width*height; i++ {
			buf[i*4+0] = b.background.R
			buf[i*4+1] = b.background.G
			buf[i*4+2] = b.background.B
			buf[i*4+3] = 0xff
		}
	}
	for y := 0; y < b.height; y++ {
		copy(buf[y*width*4:y*width*4+b.width*4], b.buf[y*b.width*4:(y+1)*b.width*4])
	}
	b.buf = buf
	b.width = width
	b.height = height
}

// Size returns the image dimensions: the raster size when given, else the
// drawn extent.
func (b *SixelImageBuilder) Size() (width, height int) {
	if b.explicitSize {
		return b.width, b.height
	}
	return b.usedWidth, b.usedHeight
}

// Data returns the RGBA pixels for the Size() extent.
func (b *SixelImageBuilder) Data() []byte {
	w, h := b.Size()
	if w == 0 || h == 0 {
		return nil
	}
	if w == b.width && h == b.height {
		return b.buf
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], b.buf[y*b.width*4:y*b.width*4+w*4])
	}
	return out
}
