package vtcore

import (
	"encoding/hex"
	"strings"
)

// stringCollector is the hook sub-parser for DCS functions whose payload is
// a short string (DECRQSS, XTGETTCAP, STP): it accumulates passthrough
// bytes and hands the result to a completion callback on finalize.
type stringCollector struct {
	data []byte
	done func(string)
}

// maxCollectorLen bounds string-collector accumulation.
const maxCollectorLen = 4096

func newStringCollector(done func(string)) *stringCollector {
	return &stringCollector{done: done}
}

func (c *stringCollector) Start() {}

func (c *stringCollector) Pass(b byte) {
	if len(c.data) < maxCollectorLen {
		c.data = append(c.data, b)
	}
}

func (c *stringCollector) Finalize() {
	c.done(string(c.data))
}

// sixelHook adapts the SixelParser to the hook lifecycle and commits the
// built image to the screen on finalize.
type sixelHook struct {
	parser *SixelParser
	done   func()
}

func (h *sixelHook) Start()      {}
func (h *sixelHook) Pass(b byte) { h.parser.Feed(b) }

func (h *sixelHook) Finalize() {
	h.parser.Done()
	h.done()
}

// hookSixel builds the sixel sub-parser for a DECSIXEL sequence.
// P1 selects the pixel aspect ratio, P2 the background handling.
func (q *Sequencer) hookSixel(seq *Sequence) hookParser {
	pa := seq.ParamOr(0, 1)
	pb := seq.Param(1)

	aspect := sixelAspectVertical(pa)
	transparent := pb == 1

	background := q.screen.palette.Background
	builder := NewSixelImageBuilder(q.screen.maxImageWidth, q.screen.maxImageHeight, aspect, transparent, background)
	parser := NewSixelParser(builder)

	return &sixelHook{
		parser: parser,
		done: func() {
			w, h := builder.Size()
			q.screen.sixelImage(w, h, builder.Data())
		},
	}
}

// sixelAspectVertical maps the DECSIXEL P1 parameter to the vertical
// pixel repetition factor.
func sixelAspectVertical(pa int) int {
	switch pa {
	case 7, 8, 9:
		return 1
	case 5, 6:
		return 2
	case 3, 4:
		return 3
	case 2:
		return 5
	default: // 0, 1
		return 2
	}
}

// splitSemi splits a payload at semicolons, keeping empty fields.
func splitSemi(s string) []string {
	return strings.Split(s, ";")
}

// fromHex decodes a 2-digits-per-character hex string.
func fromHex(s string) (string, bool) {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return "", false
	}
	return string(b), true
}
