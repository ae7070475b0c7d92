package vtcore

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// replyf formats a wire-exact reply and hands it to the reply provider.
// Replies are emitted in dispatch order; the provider must preserve that
// order on the wire.
func (s *Screen) replyf(format string, args ...interface{}) {
	if s.reply == nil {
		return
	}
	fmt.Fprintf(s.reply, format, args...)
}

// sendDeviceAttributes replies to DA1: VT420-class with sixel, selective
// erase, horizontal scrolling, ANSI color and rectangular editing.
func (s *Screen) sendDeviceAttributes() {
	s.replyf("\x1b[?64;4;6;21;22;28c")
}

// sendTerminalId replies to DA2 with the terminal conformance level and
// firmware version.
func (s *Screen) sendTerminalId() {
	s.replyf("\x1b[>61;%d;0c", terminalVersionNumber())
}

// sendTertiaryAttributes replies to DA3 with the unit id.
func (s *Screen) sendTertiaryAttributes() {
	s.replyf("\x1bP!|C0000000\x1b\\")
}

// sendVersion replies to XTVERSION.
func (s *Screen) sendVersion() {
	s.replyf("\x1bP>|%s %s\x1b\\", TerminalName, TerminalVersion)
}

// terminalVersionNumber encodes TerminalVersion as xterm-style
// major*10000 + minor*100 + patch.
func terminalVersionNumber() int {
	var major, minor, patch int
	fmt.Sscanf(TerminalVersion, "%d.%d.%d", &major, &minor, &patch)
	return major*10000 + minor*100 + patch
}

// deviceStatusReport replies to DSR 5 (operating status) and DSR 6 (CPR).
func (s *Screen) deviceStatusReport(n int) {
	switch n {
	case 5:
		s.replyf("\x1b[0n")
	case 6:
		row, col := s.cursorReportPosition()
		s.replyf("\x1b[%d;%dR", row, col)
	}
}

// decDeviceStatusReport replies to the DEC DSR variants.
func (s *Screen) decDeviceStatusReport(n int) {
	switch n {
	case 6:
		// DECXCPR: extended cursor position, page 1.
		row, col := s.cursorReportPosition()
		s.replyf("\x1b[?%d;%d;1R", row, col)
	case 15:
		s.replyf("\x1b[?13n") // no printer
	case 25:
		s.replyf("\x1b[?21n") // UDKs locked
	case 26:
		s.replyf("\x1b[?27;1;0;0n") // keyboard: North American
	}
}

// cursorReportPosition returns the 1-based cursor position, relative to
// the margins when origin mode is set.
func (s *Screen) cursorReportPosition() (row, col int) {
	row = s.cursor.Row
	col = s.cursor.Col
	if s.modes.DEC(ModeOrigin) {
		row -= s.marginTop
		col -= s.leftMargin()
	}
	return row + 1, col + 1
}

// requestAnsiMode replies to DECRQM for ANSI modes.
func (s *Screen) requestAnsiMode(mode int) {
	value := 0 // not recognized
	if s.modes.KnownAnsi(AnsiMode(mode)) {
		if s.modes.Ansi(AnsiMode(mode)) {
			value = 1
		} else {
			value = 2
		}
	}
	s.replyf("\x1b[%d;%d$y", mode, value)
}

// requestDECMode replies to DECRQM for DEC private modes.
func (s *Screen) requestDECMode(mode int) {
	value := 0 // not recognized
	if s.modes.KnownDEC(DECMode(mode)) {
		if s.modes.DEC(DECMode(mode)) {
			value = 1
		} else {
			value = 2
		}
	}
	s.replyf("\x1b[?%d;%d$y", mode, value)
}

// requestStatusString replies to DECRQSS: DCS 1 $ r <value> ST when the
// setting is recognized, DCS 0 $ r ST otherwise.
func (s *Screen) requestStatusString(setting string) {
	var value string
	ok := true

	switch setting {
	case "m": // SGR
		value = s.sgrStatusString() + "m"
	case "\"p": // DECSCL
		value = "64;1\"p"
	case " q": // DECSCUSR
		value = fmt.Sprintf("%d q", int(s.cursor.Style)+1)
	case "\"q": // DECSCA
		n := 0
		if s.template.Flags&CellFlagProtected != 0 {
			n = 1
		}
		value = fmt.Sprintf("%d\"q", n)
	case "r": // DECSTBM
		value = fmt.Sprintf("%d;%dr", s.marginTop+1, s.marginBottom+1)
	case "s": // DECSLRM
		value = fmt.Sprintf("%d;%ds", s.leftMargin()+1, s.rightMargin()+1)
	case "t": // DECSLPP
		value = fmt.Sprintf("%dt", s.rows)
	case "$|": // DECSCPP
		value = fmt.Sprintf("%d$|", s.cols)
	case "*|": // DECSNLS
		value = fmt.Sprintf("%d*|", s.rows)
	default:
		ok = false
	}

	if ok {
		s.replyf("\x1bP1$r%s\x1b\\", value)
	} else {
		s.replyf("\x1bP0$r\x1b\\")
	}
}

// sgrStatusString renders the current SGR state as parameters for the
// DECRQSS "m" reply.
func (s *Screen) sgrStatusString() string {
	parts := []string{"0"}
	t := s.template
	add := func(p string) { parts = append(parts, p) }

	if t.Flags&CellFlagBold != 0 {
		add("1")
	}
	if t.Flags&CellFlagDim != 0 {
		add("2")
	}
	if t.Flags&CellFlagItalic != 0 {
		add("3")
	}
	if t.Flags&CellFlagUnderline != 0 {
		add("4")
	}
	if t.Flags&CellFlagBlinkSlow != 0 {
		add("5")
	}
	if t.Flags&CellFlagReverse != 0 {
		add("7")
	}
	if t.Flags&CellFlagHidden != 0 {
		add("8")
	}
	if t.Flags&CellFlagStrike != 0 {
		add("9")
	}
	switch {
	case t.Fg.IsIndexed() && t.Fg.Index() < 8:
		add(fmt.Sprintf("%d", 30+t.Fg.Index()))
	case t.Fg.IsIndexed() && t.Fg.Index() < 16:
		add(fmt.Sprintf("%d", 90+t.Fg.Index()-8))
	case t.Fg.IsIndexed():
		add(fmt.Sprintf("38;5;%d", t.Fg.Index()))
	case t.Fg.IsRGB():
		r, g, b := t.Fg.RGB()
		add(fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	switch {
	case t.Bg.IsIndexed() && t.Bg.Index() < 8:
		add(fmt.Sprintf("%d", 40+t.Bg.Index()))
	case t.Bg.IsIndexed() && t.Bg.Index() < 16:
		add(fmt.Sprintf("%d", 100+t.Bg.Index()-8))
	case t.Bg.IsIndexed():
		add(fmt.Sprintf("48;5;%d", t.Bg.Index()))
	case t.Bg.IsRGB():
		r, g, b := t.Bg.RGB()
		add(fmt.Sprintf("48;2;%d;%d;%d", r, g, b))
	}
	return strings.Join(parts, ";")
}

// requestCapability replies to one XTGETTCAP name: DCS 1 + r key=value ST
// for known capabilities, DCS 0 + r ST otherwise. Keys and values are
// hex-encoded per xterm.
func (s *Screen) requestCapability(name string) {
	var value string
	switch name {
	case "TN", "name":
		value = TerminalName
	case "Co", "colors":
		value = "256"
	case "RGB":
		value = "8/8/8"
	default:
		s.replyf("\x1bP0+r\x1b\\")
		return
	}
	s.replyf("\x1bP1+r%s=%s\x1b\\",
		strings.ToUpper(hex.EncodeToString([]byte(name))),
		strings.ToUpper(hex.EncodeToString([]byte(value))))
}

// graphicsAttributeRequest replies to XTSMGRAPHICS read actions.
func (s *Screen) graphicsAttributeRequest(item, action, value int) {
	const (
		success = 0
		failure = 3
	)
	switch item {
	case 1: // color registers
		if action == 1 {
			s.replyf("\x1b[?%d;%d;%dS", item, success, 256)
			return
		}
	case 2: // sixel geometry
		if action == 1 {
			s.replyf("\x1b[?%d;%d;%d;%dS", item, success, s.maxImageWidth, s.maxImageHeight)
			return
		}
	}
	s.replyf("\x1b[?%d;%d;%dS", item, failure, value)
}

// windowManipulation implements the XTWINOPS subset a headless core can
// honor: report operations reply directly, resize operations go through
// the window-ops provider.
func (s *Screen) windowManipulation(op, a, b int) ApplyResult {
	switch op {
	case 4: // resize window in pixels
		cw, ch := s.windowOps.CellSizePixels()
		if cw > 0 && ch > 0 && a > 0 && b > 0 {
			s.windowOps.ResizeWindow(a/ch, b/cw)
		}
		return ResultOk
	case 8: // resize text area in characters
		if a > 0 && b > 0 {
			s.windowOps.ResizeWindow(a, b)
		}
		return ResultOk
	case 11: // report window state
		s.replyf("\x1b[1t")
		return ResultOk
	case 13: // report window position
		s.replyf("\x1b[3;0;0t")
		return ResultOk
	case 14: // report text area size in pixels
		cw, ch := s.windowOps.CellSizePixels()
		s.replyf("\x1b[4;%d;%dt", s.rows*ch, s.cols*cw)
		return ResultOk
	case 16: // report cell size in pixels
		cw, ch := s.windowOps.CellSizePixels()
		s.replyf("\x1b[6;%d;%dt", ch, cw)
		return ResultOk
	case 18, 19: // report text area size in characters
		s.replyf("\x1b[8;%d;%dt", s.rows, s.cols)
		return ResultOk
	case 22: // push title
		s.titleStack = append(s.titleStack, s.title)
		s.titleProv.PushTitle()
		return ResultOk
	case 23: // pop title
		if n := len(s.titleStack); n > 0 {
			s.title = s.titleStack[n-1]
			s.titleStack = s.titleStack[:n-1]
		}
		s.titleProv.PopTitle()
		return ResultOk
	}
	return ResultUnsupported
}

// setMark flags the cursor line with the user bookmark (SETMARK).
func (s *Screen) setMark() {
	if line := s.active.LineAt(s.cursor.Row); line != nil {
		line.Marked = true
	}
}

// inspectState hands a human-readable state dump to the inspect provider.
func (s *Screen) inspectState() {
	var sb strings.Builder
	fmt.Fprintf(&sb, "screen %dx%d cursor=(%d,%d) alt=%v\n",
		s.rows, s.cols, s.cursor.Row, s.cursor.Col, s.active == s.alternate)
	fmt.Fprintf(&sb, "margins top=%d bottom=%d left=%d right=%d\n",
		s.marginTop, s.marginBottom, s.leftMargin(), s.rightMargin())
	fmt.Fprintf(&sb, "history=%d/%d hyperlinks=%d images=%d\n",
		s.primary.HistoryLen(), s.primary.MaxHistory(), s.hyperlinks.Len(), s.images.Count())
	s.inspect.Inspect(sb.String())
}

// sixelImage attaches a decoded sixel image to the grid at the cursor.
// With sixel scrolling enabled the image starts at the cursor and the page
// scrolls to fit, and the cursor then lands below the image, or right of
// it when the sixel-cursor-next-to-graphic mode is set. Otherwise the image
// is placed at the home position and the cursor does not move.
func (s *Screen) sixelImage(width, height int, data []byte) {
	if width <= 0 || height <= 0 {
		return
	}

	id := s.images.Store(width, height, data)

	cellW, cellH := s.windowOps.CellSizePixels()
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	imgCols := (width + cellW - 1) / cellW
	imgRows := (height + cellH - 1) / cellH

	scrolling := s.modes.DEC(ModeSixelScrolling)
	startRow := s.cursor.Row
	startCol := s.cursor.Col
	if !scrolling {
		startRow, startCol = 0, 0
	}

	for r := 0; r < imgRows; r++ {
		row := startRow + r
		if row >= s.rows {
			if !scrolling {
				break
			}
			s.scrollUp(1)
			row = s.rows - 1
			startRow--
		}
		for c := 0; c < imgCols && startCol+c < s.cols; c++ {
			cell := s.active.Cell(row, startCol+c)
			if cell == nil {
				continue
			}
			s.releaseCellRefs(cell)
			cell.Reset()
			cell.Image = &ImageFragment{ImageID: id, X: c * cellW, Y: r * cellH}
			s.images.AddRef(id)
		}
	}

	if !scrolling {
		return
	}
	if s.modes.DEC(ModeSixelCursorNextToGraphic) {
		s.cursor.Row = clamp(startRow, 0, s.rows-1)
		s.cursor.Col = clamp(startCol+imgCols, 0, s.cols-1)
	} else {
		s.cursor.Row = clamp(startRow+imgRows, 0, s.rows-1)
		s.cursor.Col = startCol
	}
	s.cursor.pendingWrap = false
}
