package vtcore

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/danielgatis/go-vtcore/vtparse"
)

const (
	// DEFAULT_ROWS is the default page height.
	DEFAULT_ROWS = 24
	// DEFAULT_COLS is the default page width.
	DEFAULT_COLS = 80
	// DefaultMaxScrollback is the default scrollback line cap.
	DefaultMaxScrollback = 10000
)

// TerminalName identifies this terminal in DA2/XTVERSION/XTGETTCAP replies.
const TerminalName = "vtcore"

// TerminalVersion is reported by XTVERSION.
const TerminalVersion = "0.4.0"

// Selection defines a text region in the page.
// Start and End are normalized so Start is always before or equal to End.
type Selection struct {
	Start  Position
	End    Position
	Active bool
}

// Screen is the authoritative cell-grid model: it owns both grids
// (primary with scrollback, alternate without), the cursor, margins, modes,
// palette, tab stops and the hyperlink and image registries, and it
// executes every VT operation dispatched by the sequencer.
//
// Screen implements io.Writer; Write feeds application output through the
// parser and sequencer under the exclusive lock, so a sequence never
// interleaves with reader snapshots. All read accessors take the shared
// lock and may be called from other goroutines (e.g. a render thread).
type Screen struct {
	mu sync.RWMutex

	rows int
	cols int

	primary   *Grid
	alternate *Grid
	active    *Grid

	cursor      *Cursor
	savedCursor *SavedCursor
	template    CellTemplate
	charsets    CharsetState

	// Margins are inclusive; horizontal margins apply only while DECLRMM
	// is enabled.
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	modes   *ModeManager
	palette *Palette

	title      string
	titleStack []string
	workingDir string

	hyperlinks  *HyperlinkRegistry
	currentLink uint32
	images      *ImageRegistry

	maxImageWidth  int
	maxImageHeight int

	selection Selection

	// lastGraphic is the preceding printable for REP.
	lastGraphic rune

	maxHistory int

	reply      ReplyProvider
	bell       BellProvider
	titleProv  TitleProvider
	clipboard  ClipboardProvider
	notify     NotifyProvider
	wdProv     WorkingDirectoryProvider
	capture    CaptureProvider
	font       FontProvider
	profile    ProfileProvider
	inspect    InspectProvider
	windowOps  WindowOpsProvider
	logger     *slog.Logger

	parser    *vtparse.Parser
	sequencer *Sequencer
}

// Option configures a Screen during construction.
type Option func(*Screen)

// WithSize sets the page dimensions. Values <= 0 are replaced with the
// defaults (24x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}
	if cols <= 0 {
		cols = DEFAULT_COLS
	}
	return func(s *Screen) {
		s.rows = rows
		s.cols = cols
	}
}

// WithMaxScrollback sets the scrollback line cap for the primary grid.
func WithMaxScrollback(lines int) Option {
	return func(s *Screen) {
		s.maxHistory = lines
	}
}

// WithReply sets the writer for terminal replies. If nil, replies are
// discarded.
func WithReply(p ReplyProvider) Option {
	return func(s *Screen) {
		s.reply = p
	}
}

// WithBell sets the handler for bell events.
func WithBell(p BellProvider) Option {
	return func(s *Screen) {
		s.bell = p
	}
}

// WithTitle sets the handler for window title changes.
func WithTitle(p TitleProvider) Option {
	return func(s *Screen) {
		s.titleProv = p
	}
}

// WithClipboard sets the handler for OSC 52 clipboard access.
func WithClipboard(p ClipboardProvider) Option {
	return func(s *Screen) {
		s.clipboard = p
	}
}

// WithNotify sets the handler for OSC 777 notifications.
func WithNotify(p NotifyProvider) Option {
	return func(s *Screen) {
		s.notify = p
	}
}

// WithWorkingDirectory sets the handler for OSC 7 reports.
func WithWorkingDirectory(p WorkingDirectoryProvider) Option {
	return func(s *Screen) {
		s.wdProv = p
	}
}

// WithCapture sets the handler for capture-buffer requests.
func WithCapture(p CaptureProvider) Option {
	return func(s *Screen) {
		s.capture = p
	}
}

// WithFont sets the handler for OSC 50/60 font configuration.
func WithFont(p FontProvider) Option {
	return func(s *Screen) {
		s.font = p
	}
}

// WithProfile sets the handler for soft terminal profile switches.
func WithProfile(p ProfileProvider) Option {
	return func(s *Screen) {
		s.profile = p
	}
}

// WithInspect sets the handler for state dump requests.
func WithInspect(p InspectProvider) Option {
	return func(s *Screen) {
		s.inspect = p
	}
}

// WithWindowOps sets the handler for window manipulation requests.
func WithWindowOps(p WindowOpsProvider) Option {
	return func(s *Screen) {
		s.windowOps = p
	}
}

// WithLogger sets the logger for unknown/unsupported/invalid sequence
// diagnostics (logged at debug level).
func WithLogger(l *slog.Logger) Option {
	return func(s *Screen) {
		s.logger = l
	}
}

// WithPalette sets the initial color palette. The screen takes ownership.
func WithPalette(p *Palette) Option {
	return func(s *Screen) {
		s.palette = p
	}
}

// WithMaxImageSize bounds decoded sixel images in pixels. Larger rasters
// are clamped, not rejected.
func WithMaxImageSize(width, height int) Option {
	return func(s *Screen) {
		s.maxImageWidth = width
		s.maxImageHeight = height
	}
}

// WithReflow enables or disables text reflow on resize (DEC mode 2028 can
// change it at runtime).
func WithReflow(enabled bool) Option {
	return func(s *Screen) {
		s.modes.SetDEC(ModeTextReflow, enabled)
	}
}

// NewScreen creates a screen with the given options. Defaults: 24x80,
// 10000 lines of scrollback, autowrap on, reflow on, all providers no-op.
func NewScreen(opts ...Option) *Screen {
	s := &Screen{
		rows:           DEFAULT_ROWS,
		cols:           DEFAULT_COLS,
		maxHistory:     DefaultMaxScrollback,
		maxImageWidth:  4096,
		maxImageHeight: 4096,
		modes:          NewModeManager(),
		reply:          NoopReply{},
		bell:           NoopBell{},
		titleProv:      NoopTitle{},
		clipboard:      NoopClipboard{},
		notify:         NoopNotify{},
		wdProv:         NoopWorkingDirectory{},
		capture:        NoopCapture{},
		font:           NoopFont{},
		profile:        NoopProfile{},
		inspect:        NoopInspect{},
		windowOps:      NoopWindowOps{},
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.palette == nil {
		s.palette = NewPalette()
	}

	s.primary = NewGrid(s.rows, s.cols, s.maxHistory)
	s.alternate = NewGrid(s.rows, s.cols, 0)
	s.active = s.primary

	s.cursor = NewCursor()
	s.template = NewCellTemplate()
	s.charsets = NewCharsetState()
	s.hyperlinks = NewHyperlinkRegistry()
	s.images = NewImageRegistry()

	s.resetMargins()

	s.sequencer = NewSequencer(s)
	s.parser = vtparse.New(s.sequencer)

	return s
}

// Write processes raw application output, parsing escape sequences and
// updating the screen state. Implements io.Writer. The exclusive lock is
// held for the whole buffer, so a sequence never yields mid-dispatch.
func (s *Screen) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parser.Advance(data)
	return len(data), nil
}

// WriteString converts the string to bytes and calls Write.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// --- geometry helpers (lock held) ---

func (s *Screen) resetMargins() {
	s.marginTop = 0
	s.marginBottom = s.rows - 1
	s.marginLeft = 0
	s.marginRight = s.cols - 1
}

// hmarginsActive reports whether horizontal margins confine operations.
func (s *Screen) hmarginsActive() bool {
	return s.modes.DEC(ModeLeftRightMargin)
}

func (s *Screen) leftMargin() int {
	if s.hmarginsActive() {
		return s.marginLeft
	}
	return 0
}

func (s *Screen) rightMargin() int {
	if s.hmarginsActive() {
		return s.marginRight
	}
	return s.cols - 1
}

// originRow converts a 0-based row per origin mode to a page row.
func (s *Screen) originRow(row int) int {
	if s.modes.DEC(ModeOrigin) {
		return row + s.marginTop
	}
	return row
}

// originCol converts a 0-based column per origin mode to a page column.
func (s *Screen) originCol(col int) int {
	if s.modes.DEC(ModeOrigin) {
		return col + s.leftMargin()
	}
	return col
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- write path (lock held) ---

// writeText places one printable codepoint at the cursor, honoring
// charset mapping, combining marks, wide cells, insert mode, autowrap and
// the pending-wrap flag.
func (s *Screen) writeText(r rune) {
	r = s.charsets.Map(r)

	width := runeWidth(r)
	if width == 0 {
		if isCombining(r) {
			s.attachCombining(r)
		}
		return
	}

	autowrap := s.modes.DEC(ModeAutoWrap)
	left := s.leftMargin()
	right := s.rightMargin()

	if s.cursor.pendingWrap {
		if autowrap {
			s.cursor.Col = left
			s.indexWithWrap()
		}
		s.cursor.pendingWrap = false
	}

	// A wide character that no longer fits before the right margin wraps
	// early (autowrap) or is dropped (no autowrap).
	if width == 2 && s.cursor.Col+1 > right {
		if !autowrap {
			return
		}
		s.cursor.Col = left
		s.indexWithWrap()
	}

	if s.modes.Ansi(ModeInsert) {
		s.active.InsertChars(s.cursor.Row, s.cursor.Col, right, width)
	}

	s.cleanWideAt(s.cursor.Row, s.cursor.Col)
	cell := s.active.Cell(s.cursor.Row, s.cursor.Col)
	if cell == nil {
		return
	}
	s.releaseCellRefs(cell)
	cell.Reset()
	cell.Char = r
	cell.Combining = nil
	cell.Fg = s.template.Fg
	cell.Bg = s.template.Bg
	cell.UnderlineColor = s.template.UnderlineColor
	cell.Flags = s.template.Flags
	cell.HyperlinkID = s.currentLink
	s.hyperlinks.AddRef(s.currentLink)

	if width == 2 {
		cell.SetFlag(CellFlagWideChar)
		if spacer := s.active.Cell(s.cursor.Row, s.cursor.Col+1); spacer != nil {
			s.cleanWideAt(s.cursor.Row, s.cursor.Col+1)
			s.releaseCellRefs(spacer)
			spacer.Reset()
			spacer.Fg = s.template.Fg
			spacer.Bg = s.template.Bg
			spacer.SetFlag(CellFlagWideCharSpacer)
		}
	}

	s.lastGraphic = r

	if s.cursor.Col+width-1 >= right {
		if autowrap {
			s.cursor.pendingWrap = true
		} else {
			s.cursor.Col = right - width + 1
			if s.cursor.Col < left {
				s.cursor.Col = left
			}
		}
	} else {
		s.cursor.Col += width
	}
}

// attachCombining appends a combining mark to the cell preceding the
// cursor (or under it when pending-wrap holds the cursor on the last cell).
func (s *Screen) attachCombining(r rune) {
	col := s.cursor.Col
	if !s.cursor.pendingWrap {
		col--
	}
	if col < 0 {
		return
	}
	cell := s.active.Cell(s.cursor.Row, col)
	if cell == nil {
		return
	}
	if cell.IsWideSpacer() && col > 0 {
		cell = s.active.Cell(s.cursor.Row, col-1)
	}
	if cell != nil && cell.Char != 0 {
		cell.AppendCombining(r)
	}
}

// cleanWideAt repairs the wide-cell invariant before overwriting (row, col):
// overwriting either half of a wide pair blanks the other half.
func (s *Screen) cleanWideAt(row, col int) {
	cell := s.active.Cell(row, col)
	if cell == nil {
		return
	}
	if cell.IsWideSpacer() {
		if prev := s.active.Cell(row, col-1); prev != nil && prev.IsWide() {
			s.releaseCellRefs(prev)
			prev.Reset()
		}
	}
	if cell.IsWide() {
		if next := s.active.Cell(row, col+1); next != nil && next.IsWideSpacer() {
			s.releaseCellRefs(next)
			next.Reset()
		}
	}
}

// releaseCellRefs drops registry references held by a cell about to be
// overwritten.
func (s *Screen) releaseCellRefs(cell *Cell) {
	if cell.HyperlinkID != 0 {
		s.hyperlinks.Release(cell.HyperlinkID)
	}
	if cell.Image != nil {
		s.images.Release(cell.Image.ImageID)
	}
}

// --- cursor motion (lock held) ---

// moveCursorTo implements CUP/HVP: 0-based target, origin-aware, clamped.
func (s *Screen) moveCursorTo(row, col int) {
	s.cursor.pendingWrap = false
	row = s.originRow(row)
	col = s.originCol(col)
	if s.modes.DEC(ModeOrigin) {
		row = clamp(row, s.marginTop, s.marginBottom)
		col = clamp(col, s.leftMargin(), s.rightMargin())
	} else {
		row = clamp(row, 0, s.rows-1)
		col = clamp(col, 0, s.cols-1)
	}
	s.cursor.Row = row
	s.cursor.Col = col
}

func (s *Screen) moveCursorUp(n int) {
	s.cursor.pendingWrap = false
	top := 0
	if s.cursor.Row >= s.marginTop {
		top = s.marginTop
	}
	s.cursor.Row = clamp(s.cursor.Row-n, top, s.rows-1)
}

func (s *Screen) moveCursorDown(n int) {
	s.cursor.pendingWrap = false
	bottom := s.rows - 1
	if s.cursor.Row <= s.marginBottom {
		bottom = s.marginBottom
	}
	s.cursor.Row = clamp(s.cursor.Row+n, 0, bottom)
}

func (s *Screen) moveCursorForward(n int) {
	s.cursor.pendingWrap = false
	right := s.cols - 1
	if s.cursor.Col <= s.rightMargin() {
		right = s.rightMargin()
	}
	s.cursor.Col = clamp(s.cursor.Col+n, 0, right)
}

func (s *Screen) moveCursorBackward(n int) {
	s.cursor.pendingWrap = false
	left := 0
	if s.cursor.Col >= s.leftMargin() {
		left = s.leftMargin()
	}
	s.cursor.Col = clamp(s.cursor.Col-n, left, s.cols-1)
}

func (s *Screen) moveCursorToColumn(col int) {
	s.cursor.pendingWrap = false
	col = s.originCol(col)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

func (s *Screen) moveCursorToLine(row int) {
	s.cursor.pendingWrap = false
	row = s.originRow(row)
	s.cursor.Row = clamp(row, 0, s.rows-1)
}

func (s *Screen) moveCursorToNextLine(n int) {
	s.moveCursorDown(n)
	s.cursor.Col = s.leftMargin()
}

func (s *Screen) moveCursorToPrevLine(n int) {
	s.moveCursorUp(n)
	s.cursor.Col = s.leftMargin()
}

func (s *Screen) moveCursorToBeginOfLine() {
	s.cursor.pendingWrap = false
	s.cursor.Col = s.leftMargin()
}

func (s *Screen) backspace() {
	s.cursor.pendingWrap = false
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

func (s *Screen) moveCursorToNextTab() {
	s.cursor.pendingWrap = false
	right := s.rightMargin()
	col := s.active.NextTabStop(s.cursor.Col)
	if col > right {
		col = right
	}
	s.cursor.Col = col
}

func (s *Screen) cursorForwardTab(n int) {
	for i := 0; i < n; i++ {
		s.moveCursorToNextTab()
	}
}

func (s *Screen) cursorBackwardTab(n int) {
	s.cursor.pendingWrap = false
	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.PrevTabStop(s.cursor.Col)
	}
}

// --- index / linefeed / scroll (lock held) ---

// index moves the cursor down one line, scrolling the margin region when
// the cursor sits on the bottom margin.
func (s *Screen) index() {
	s.cursor.pendingWrap = false
	if s.cursor.Row == s.marginBottom {
		s.scrollUp(1)
	} else if s.cursor.Row < s.rows-1 {
		s.cursor.Row++
	}
}

// indexWithWrap is index for the autowrap path: the line the cursor lands
// on is flagged as a soft continuation.
func (s *Screen) indexWithWrap() {
	if s.cursor.Row == s.marginBottom {
		s.scrollUp(1)
	} else if s.cursor.Row < s.rows-1 {
		s.cursor.Row++
	}
	if line := s.active.LineAt(s.cursor.Row); line != nil {
		line.Wrapped = true
	}
}

// reverseIndex moves the cursor up one line, scrolling down at the top
// margin.
func (s *Screen) reverseIndex() {
	s.cursor.pendingWrap = false
	if s.cursor.Row == s.marginTop {
		s.scrollDown(1)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
}

func (s *Screen) linefeed() {
	if line := s.active.LineAt(s.cursor.Row); line != nil && !s.cursor.pendingWrap {
		line.Wrapped = false
	}
	if s.modes.Ansi(ModeAutomaticNewline) {
		s.cursor.Col = s.leftMargin()
	}
	s.index()
}

// backIndex moves the cursor left; at the left margin the region scrolls
// right (DECBI).
func (s *Screen) backIndex() {
	s.cursor.pendingWrap = false
	if s.cursor.Col == s.leftMargin() {
		s.insertColumns(1)
	} else if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// forwardIndex moves the cursor right; at the right margin the region
// scrolls left (DECFI).
func (s *Screen) forwardIndex() {
	s.cursor.pendingWrap = false
	if s.cursor.Col == s.rightMargin() {
		s.deleteColumns(1)
	} else if s.cursor.Col < s.cols-1 {
		s.cursor.Col++
	}
}

// scrollUp scrolls the margin region up by n. History is fed only from the
// primary grid with the region at full page and full width.
func (s *Screen) scrollUp(n int) {
	fullPage := s.marginTop == 0 && s.marginBottom == s.rows-1
	fullWidth := s.leftMargin() == 0 && s.rightMargin() == s.cols-1
	if fullWidth {
		withHistory := fullPage && s.active == s.primary
		s.active.ScrollUp(s.marginTop, s.marginBottom+1, n, withHistory)
	} else {
		s.active.ScrollUpArea(s.marginTop, s.marginBottom+1, s.leftMargin(), s.rightMargin(), n)
	}
}

func (s *Screen) scrollDown(n int) {
	if s.leftMargin() == 0 && s.rightMargin() == s.cols-1 {
		s.active.ScrollDown(s.marginTop, s.marginBottom+1, n)
	} else {
		s.active.ScrollDownArea(s.marginTop, s.marginBottom+1, s.leftMargin(), s.rightMargin(), n)
	}
}

// --- erase / edit (lock held) ---

// clearRange erases cells in a row range, honoring protection for
// selective erases and back-color-erase for the rest.
func (s *Screen) clearRange(row, startCol, endCol int, selective bool) {
	line := s.active.LineAt(row)
	if line == nil {
		return
	}
	for col := startCol; col <= endCol && col < s.cols; col++ {
		if col < 0 {
			continue
		}
		cell := line.Cell(col)
		if selective && cell.IsProtected() {
			continue
		}
		s.releaseCellRefs(cell)
		cell.ResetWithBg(s.template.Bg)
	}
}

// eraseInDisplay implements ED/DECSED.
func (s *Screen) eraseInDisplay(mode int, selective bool) {
	switch mode {
	case 0:
		s.clearRange(s.cursor.Row, s.cursor.Col, s.cols-1, selective)
		for row := s.cursor.Row + 1; row < s.rows; row++ {
			s.clearRange(row, 0, s.cols-1, selective)
		}
	case 1:
		for row := 0; row < s.cursor.Row; row++ {
			s.clearRange(row, 0, s.cols-1, selective)
		}
		s.clearRange(s.cursor.Row, 0, s.cursor.Col, selective)
	case 2:
		for row := 0; row < s.rows; row++ {
			s.clearRange(row, 0, s.cols-1, selective)
		}
	case 3:
		for row := 0; row < s.rows; row++ {
			s.clearRange(row, 0, s.cols-1, selective)
		}
		s.active.ClearHistory()
	}
}

// eraseInLine implements EL/DECSEL.
func (s *Screen) eraseInLine(mode int, selective bool) {
	switch mode {
	case 0:
		s.clearRange(s.cursor.Row, s.cursor.Col, s.cols-1, selective)
	case 1:
		s.clearRange(s.cursor.Row, 0, s.cursor.Col, selective)
	case 2:
		s.clearRange(s.cursor.Row, 0, s.cols-1, selective)
	}
}

func (s *Screen) eraseCharacters(n int) {
	if n < 1 {
		n = 1
	}
	s.clearRange(s.cursor.Row, s.cursor.Col, s.cursor.Col+n-1, false)
}

func (s *Screen) insertCharacters(n int) {
	s.active.InsertChars(s.cursor.Row, s.cursor.Col, s.rightMargin(), n)
}

func (s *Screen) deleteCharacters(n int) {
	s.active.DeleteChars(s.cursor.Row, s.cursor.Col, s.rightMargin(), n)
}

// insertLines shifts lines down from the cursor within the scroll region
// (IL). No-op when the cursor is outside the vertical margins.
func (s *Screen) insertLines(n int) {
	if s.cursor.Row < s.marginTop || s.cursor.Row > s.marginBottom {
		return
	}
	if s.leftMargin() == 0 && s.rightMargin() == s.cols-1 {
		s.active.ScrollDown(s.cursor.Row, s.marginBottom+1, n)
	} else {
		s.active.ScrollDownArea(s.cursor.Row, s.marginBottom+1, s.leftMargin(), s.rightMargin(), n)
	}
	s.cursor.Col = s.leftMargin()
}

// deleteLines shifts lines up from the cursor within the scroll region (DL).
func (s *Screen) deleteLines(n int) {
	if s.cursor.Row < s.marginTop || s.cursor.Row > s.marginBottom {
		return
	}
	if s.leftMargin() == 0 && s.rightMargin() == s.cols-1 {
		s.active.ScrollUp(s.cursor.Row, s.marginBottom+1, n, false)
	} else {
		s.active.ScrollUpArea(s.cursor.Row, s.marginBottom+1, s.leftMargin(), s.rightMargin(), n)
	}
	s.cursor.Col = s.leftMargin()
}

// insertColumns inserts n blank columns at the cursor within the margins
// (DECIC).
func (s *Screen) insertColumns(n int) {
	if s.cursor.Row < s.marginTop || s.cursor.Row > s.marginBottom {
		return
	}
	right := s.rightMargin()
	for row := s.marginTop; row <= s.marginBottom; row++ {
		s.active.InsertChars(row, s.cursor.Col, right, n)
	}
}

// deleteColumns deletes n columns at the cursor within the margins (DECDC).
func (s *Screen) deleteColumns(n int) {
	if s.cursor.Row < s.marginTop || s.cursor.Row > s.marginBottom {
		return
	}
	right := s.rightMargin()
	for row := s.marginTop; row <= s.marginBottom; row++ {
		s.active.DeleteChars(row, s.cursor.Col, right, n)
	}
}

// repeatLastGraphic implements REP: repeat the preceding printable.
func (s *Screen) repeatLastGraphic(n int) {
	if s.lastGraphic == 0 {
		return
	}
	avail := s.rightMargin() - s.cursor.Col + 1
	if n > avail {
		n = avail
	}
	r := s.lastGraphic
	for i := 0; i < n; i++ {
		s.writeText(r)
	}
	s.lastGraphic = r
}

// screenAlignmentPattern fills the page with 'E' and resets margins
// (DECALN).
func (s *Screen) screenAlignmentPattern() {
	s.resetMargins()
	s.cursor.Row = 0
	s.cursor.Col = 0
	s.cursor.pendingWrap = false
	s.active.FillArea('E', NewCellTemplate(), 0, 0, s.rows-1, s.cols-1)
}

// --- rectangle operations (lock held) ---

// rectParams resolves a rectangle from sequence parameters: 1-based,
// origin-aware, clamped to the page. ok is false for empty or inverted
// rectangles, which are documented no-ops.
func (s *Screen) rectParams(top, left, bottom, right int) (t, l, b, r int, ok bool) {
	t = s.originRow(top - 1)
	l = s.originCol(left - 1)
	b = s.originRow(bottom - 1)
	r = s.originCol(right - 1)

	t = clamp(t, 0, s.rows-1)
	b = clamp(b, 0, s.rows-1)
	l = clamp(l, 0, s.cols-1)
	r = clamp(r, 0, s.cols-1)

	if t > b || l > r {
		return 0, 0, 0, 0, false
	}
	return t, l, b, r, true
}

// copyArea implements DECCRA.
func (s *Screen) copyArea(top, left, bottom, right, dstTop, dstLeft int) {
	t, l, b, r, ok := s.rectParams(top, left, bottom, right)
	if !ok {
		return
	}
	dt := clamp(s.originRow(dstTop-1), 0, s.rows-1)
	dl := clamp(s.originCol(dstLeft-1), 0, s.cols-1)
	s.active.CopyArea(t, l, b, r, dt, dl)
}

// eraseArea implements DECERA.
func (s *Screen) eraseArea(top, left, bottom, right int) {
	t, l, b, r, ok := s.rectParams(top, left, bottom, right)
	if !ok {
		return
	}
	s.active.ClearArea(t, l, b, r, s.template.Bg)
}

// fillArea implements DECFRA.
func (s *Screen) fillArea(ch rune, top, left, bottom, right int) {
	// Only printable characters are legal fills.
	if ch < 0x20 || (ch > 0x7e && ch < 0xa0) {
		return
	}
	t, l, b, r, ok := s.rectParams(top, left, bottom, right)
	if !ok {
		return
	}
	s.active.FillArea(ch, s.template, t, l, b, r)
}

// --- margins (lock held) ---

// setTopBottomMargin implements DECSTBM (0-based inclusive inputs already
// defaulted by the sequencer).
func (s *Screen) setTopBottomMargin(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= s.rows || bottom < 0 {
		bottom = s.rows - 1
	}
	if top >= bottom {
		return
	}
	s.marginTop = top
	s.marginBottom = bottom
	s.moveCursorTo(0, 0)
}

// setLeftRightMargin implements DECSLRM; only effective while DECLRMM is
// enabled.
func (s *Screen) setLeftRightMargin(left, right int) {
	if !s.modes.DEC(ModeLeftRightMargin) {
		return
	}
	if left < 0 {
		left = 0
	}
	if right >= s.cols || right < 0 {
		right = s.cols - 1
	}
	if left >= right {
		return
	}
	s.marginLeft = left
	s.marginRight = right
	s.moveCursorTo(0, 0)
}

// --- save / restore cursor (lock held) ---

func (s *Screen) saveCursor() {
	s.savedCursor = &SavedCursor{
		Row:          s.cursor.Row,
		Col:          s.cursor.Col,
		Attrs:        s.template,
		OriginMode:   s.modes.DEC(ModeOrigin),
		AutoWrap:     s.modes.DEC(ModeAutoWrap),
		PendingWrap:  s.cursor.pendingWrap,
		CharsetState: s.charsets,
	}
}

func (s *Screen) restoreCursor() {
	if s.savedCursor == nil {
		// DECRC without DECSC homes the cursor and resets attributes.
		s.cursor.Row = 0
		s.cursor.Col = 0
		s.cursor.pendingWrap = false
		s.template = NewCellTemplate()
		return
	}
	sc := s.savedCursor
	s.cursor.Row = clamp(sc.Row, 0, s.rows-1)
	s.cursor.Col = clamp(sc.Col, 0, s.cols-1)
	s.cursor.pendingWrap = sc.PendingWrap
	s.template = sc.Attrs
	s.charsets = sc.CharsetState
	s.modes.SetDEC(ModeOrigin, sc.OriginMode)
	s.modes.SetDEC(ModeAutoWrap, sc.AutoWrap)
}

// --- modes (lock held) ---

// setAnsiMode applies an ANSI mode (SM/RM).
func (s *Screen) setAnsiMode(mode AnsiMode, on bool) ApplyResult {
	if !s.modes.KnownAnsi(mode) {
		return ResultUnsupported
	}
	s.modes.SetAnsi(mode, on)
	return ResultOk
}

// setDECMode applies a DEC private mode (DECSET/DECRST) with its side
// effects.
func (s *Screen) setDECMode(mode DECMode, on bool) ApplyResult {
	if !s.modes.KnownDEC(mode) {
		return ResultUnsupported
	}

	switch mode {
	case ModeColumns132:
		s.modes.SetDEC(mode, on)
		cols := 80
		if on {
			cols = 132
		}
		s.resizeLocked(s.rows, cols)
		s.eraseInDisplay(2, false)
		s.resetMargins()
		s.moveCursorTo(0, 0)
		return ResultOk
	case ModeOrigin:
		s.modes.SetDEC(mode, on)
		s.moveCursorTo(0, 0)
		return ResultOk
	case ModeVisibleCursor:
		s.modes.SetDEC(mode, on)
		s.cursor.Visible = on
		return ResultOk
	case ModeLeftRightMargin:
		s.modes.SetDEC(mode, on)
		if !on {
			s.marginLeft = 0
			s.marginRight = s.cols - 1
		}
		return ResultOk
	case ModeUseAltScreen:
		s.modes.SetDEC(mode, on)
		s.selectAltScreen(on, false, false)
		return ResultOk
	case ModeAltScreenKeepCursor:
		s.modes.SetDEC(mode, on)
		s.selectAltScreen(on, false, true)
		return ResultOk
	case ModeSaveCursor:
		s.modes.SetDEC(mode, on)
		if on {
			s.saveCursor()
		} else {
			s.restoreCursor()
		}
		return ResultOk
	case ModeExtendedAltScreen:
		s.modes.SetDEC(mode, on)
		s.selectAltScreen(on, true, true)
		return ResultOk
	default:
		s.modes.SetDEC(mode, on)
		return ResultOk
	}
}

// selectAltScreen switches between the primary and alternate grids.
// saveRestore carries the cursor across the switch (1049); clearOnEnter
// wipes the alternate on entry (1047/1049).
func (s *Screen) selectAltScreen(enter, saveRestore, clearOnEnter bool) {
	if enter {
		if s.active == s.alternate {
			return
		}
		if saveRestore {
			s.saveCursor()
		}
		s.active = s.alternate
		if clearOnEnter {
			s.active.ClearPage()
		}
		return
	}
	if s.active == s.primary {
		return
	}
	s.active = s.primary
	if saveRestore {
		s.restoreCursor()
	}
}

// --- reset (lock held) ---

// resetHard implements RIS.
func (s *Screen) resetHard() {
	s.primary = NewGrid(s.rows, s.cols, s.maxHistory)
	s.alternate = NewGrid(s.rows, s.cols, 0)
	s.active = s.primary
	s.cursor = NewCursor()
	s.savedCursor = nil
	s.template = NewCellTemplate()
	s.charsets = NewCharsetState()
	s.modes.Reset()
	s.palette.Reset()
	s.resetMargins()
	s.hyperlinks = NewHyperlinkRegistry()
	s.currentLink = 0
	s.images.Clear()
	s.lastGraphic = 0
	s.workingDir = ""
	s.titleStack = nil
	s.selection = Selection{}
}

// resetSoft implements DECSTR.
func (s *Screen) resetSoft() {
	s.template = NewCellTemplate()
	s.cursor.Visible = true
	s.cursor.Style = CursorStyleBlinkingBlock
	s.cursor.pendingWrap = false
	s.modes.SetDEC(ModeVisibleCursor, true)
	s.modes.SetDEC(ModeOrigin, false)
	s.modes.SetDEC(ModeAutoWrap, true)
	s.modes.SetAnsi(ModeInsert, false)
	s.modes.SetAnsi(ModeKeyboardAction, false)
	s.resetMargins()
	s.charsets = NewCharsetState()
	s.savedCursor = nil
}

// --- resize (lock held) ---

func (s *Screen) resizeLocked(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if rows == s.rows && cols == s.cols {
		return
	}

	reflow := s.modes.DEC(ModeTextReflow)

	cursor := Position{Row: s.cursor.Row, Col: s.cursor.Col}
	if s.active == s.primary {
		cursor = s.primary.Resize(rows, cols, reflow, cursor)
		s.alternate.Resize(rows, cols, false, Position{})
	} else {
		s.primary.Resize(rows, cols, reflow, Position{})
		cursor = s.alternate.Resize(rows, cols, false, cursor)
	}

	s.rows = rows
	s.cols = cols
	s.cursor.Row = clamp(cursor.Row, 0, rows-1)
	s.cursor.Col = clamp(cursor.Col, 0, cols-1)
	s.cursor.pendingWrap = false
	s.resetMargins()
}

// Resize changes the page size from the host side. Reflow applies per the
// text-reflow mode. Applied at a sequence boundary: the exclusive lock
// serializes it against Write.
func (s *Screen) Resize(rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeLocked(rows, cols)
}

// --- public read interface ---

// Rows returns the page height.
func (s *Screen) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Cols returns the page width.
func (s *Screen) Cols() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols
}

// Cell returns a copy of the cell at (row, col) in the active grid, and
// false when out of bounds.
func (s *Screen) Cell(row, col int) (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell := s.active.Cell(row, col)
	if cell == nil {
		return Cell{}, false
	}
	return cell.Copy(), true
}

// CursorPos returns the current cursor position (0-based).
func (s *Screen) CursorPos() (row, col int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Row, s.cursor.Col
}

// CursorVisible returns true if the cursor is currently visible.
func (s *Screen) CursorVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Visible
}

// CursorStyle returns the current cursor rendering style.
func (s *Screen) CursorStyle() CursorStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Style
}

// Title returns the current window title.
func (s *Screen) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// WorkingDirectory returns the URI reported by OSC 7, if any.
func (s *Screen) WorkingDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workingDir
}

// IsAlternateScreen returns true if the alternate grid is active.
func (s *Screen) IsAlternateScreen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active == s.alternate
}

// Margins returns the active margins (inclusive). Horizontal margins are
// the full width unless DECLRMM is enabled.
func (s *Screen) Margins() (top, bottom, left, right int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marginTop, s.marginBottom, s.leftMargin(), s.rightMargin()
}

// ModeDEC returns the current value of a DEC private mode.
func (s *Screen) ModeDEC(mode DECMode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes.DEC(mode)
}

// ModeAnsi returns the current value of an ANSI mode.
func (s *Screen) ModeAnsi(mode AnsiMode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes.Ansi(mode)
}

// SetModeDEC sets a DEC private mode from the host side, with the same
// side effects as DECSET/DECRST.
func (s *Screen) SetModeDEC(mode DECMode, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDECMode(mode, on)
}

// SetReply replaces the reply provider at runtime.
func (s *Screen) SetReply(p ReplyProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = p
}

// HistoryLen returns the number of scrollback lines of the primary grid.
func (s *Screen) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.HistoryLen()
}

// HistoryLine returns the text of a scrollback line; offset -1 is the
// youngest scrollback line.
func (s *Screen) HistoryLine(offset int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line := s.primary.LineAt(offset)
	if line == nil {
		return ""
	}
	return line.Text()
}

// SetMaxScrollback changes the scrollback cap at runtime.
func (s *Screen) SetMaxScrollback(lines int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxHistory = lines
	s.primary.SetMaxHistory(lines)
}

// LineContent returns the text content of a page line with trailing blanks
// trimmed.
func (s *Screen) LineContent(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line := s.active.LineAt(row)
	if line == nil {
		return ""
	}
	return line.Text()
}

// LineWrapped returns true if the page line is a soft continuation of the
// previous line.
func (s *Screen) LineWrapped(row int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line := s.active.LineAt(row)
	return line != nil && line.Wrapped
}

// LineMarked returns true if the page line carries the user bookmark flag.
func (s *Screen) LineMarked(row int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line := s.active.LineAt(row)
	return line != nil && line.Marked
}

// String returns the visible page as a newline-separated string with
// trailing empty lines omitted. Implements fmt.Stringer.
func (s *Screen) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lines []string
	lastNonEmpty := -1
	for row := 0; row < s.rows; row++ {
		text := s.active.LineAt(row).Text()
		lines = append(lines, text)
		if text != "" {
			lastNonEmpty = row
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	return strings.Join(lines[:lastNonEmpty+1], "\n")
}

// Hyperlink resolves a cell's hyperlink id to its target.
func (s *Screen) Hyperlink(id uint32) *Hyperlink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hyperlinks.Link(id)
}

// Image returns the image data for an id, or nil.
func (s *Screen) Image(id uint32) *ImageData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.images.Image(id)
}

// ImageCount returns the number of stored images.
func (s *Screen) ImageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.images.Count()
}

// PaletteSnapshot returns a copy of the current palette state.
func (s *Screen) PaletteSnapshot() Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.palette
}

// --- selection (read interface for hosts) ---

// SetSelection sets the active text selection region, normalizing the
// bounds.
func (s *Screen) SetSelection(start, end Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if end.Before(start) {
		start, end = end, start
	}
	s.selection = Selection{Start: start, End: end, Active: true}
}

// ClearSelection deactivates the current selection.
func (s *Screen) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Active = false
}

// GetSelection returns the current selection state.
func (s *Screen) GetSelection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// GetSelectedText extracts the text within the active selection. Rows are
// separated by newlines; soft-wrapped line breaks are joined.
func (s *Screen) GetSelectedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.selection.Active {
		return ""
	}
	start, end := s.selection.Start, s.selection.End

	var sb strings.Builder
	for row := start.Row; row <= end.Row && row < s.rows; row++ {
		line := s.active.LineAt(row)
		if line == nil {
			continue
		}
		startCol, endCol := 0, s.cols-1
		if row == start.Row {
			startCol = start.Col
		}
		if row == end.Row {
			endCol = end.Col
		}
		for col := startCol; col <= endCol && col < s.cols; col++ {
			cell := line.Cell(col)
			if cell.IsWideSpacer() {
				continue
			}
			sb.WriteString(cell.Text())
		}
		if row < end.Row {
			next := s.active.LineAt(row + 1)
			if next == nil || !next.Wrapped {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
