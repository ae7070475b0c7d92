package vtcore

import "io"

// ReplyProvider receives bytes the terminal writes back to the host stream
// (responses to DSR/DA/DECRQM/XTGETTCAP/...). Replies are wire-exact and
// must be forwarded in order. Typically an io.Writer connected to the PTY.
type ReplyProvider = io.Writer

// NoopReply discards all reply data.
type NoopReply struct{}

func (NoopReply) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// BellProvider handles bell events triggered by BEL (0x07).
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// TitleProvider handles window title changes (OSC 0/2) and the title stack
// (XTWINOPS 22/23).
type TitleProvider interface {
	// SetTitle is called when the title changes.
	SetTitle(title string)
	// PushTitle saves the current title to the stack.
	PushTitle()
	// PopTitle restores the title from the stack.
	PopTitle()
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

// ClipboardProvider handles clipboard read/write operations (OSC 52).
type ClipboardProvider interface {
	// Read returns content from the specified clipboard ('c' for clipboard,
	// 'p' for primary selection).
	Read(clipboard byte) string
	// Write stores content to the specified clipboard.
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

// NotifyProvider handles desktop notifications (OSC 777).
type NotifyProvider interface {
	// Notify is called with the notification title and body.
	Notify(title, body string)
}

// NoopNotify ignores all notifications.
type NoopNotify struct{}

func (NoopNotify) Notify(title, body string) {}

// WorkingDirectoryProvider handles OSC 7 working directory reports.
type WorkingDirectoryProvider interface {
	// SetWorkingDirectory is called with the reported file:// URI.
	SetWorkingDirectory(uri string)
}

// NoopWorkingDirectory ignores working directory reports.
type NoopWorkingDirectory struct{}

func (NoopWorkingDirectory) SetWorkingDirectory(uri string) {}

// CaptureProvider handles capture-buffer requests: the host is asked to
// capture lineCount lines of the current buffer (logicalLines joins wrapped
// lines).
type CaptureProvider interface {
	CaptureBuffer(lineCount int, logicalLines bool)
}

// NoopCapture ignores capture requests.
type NoopCapture struct{}

func (NoopCapture) CaptureBuffer(lineCount int, logicalLines bool) {}

// FontProvider handles font configuration (OSC 50/60).
type FontProvider interface {
	// SetFont is called with the requested font specification.
	SetFont(spec string)
	// Font returns the current font specification for queries.
	Font() string
}

// NoopFont ignores font operations.
type NoopFont struct{}

func (NoopFont) SetFont(spec string) {}
func (NoopFont) Font() string        { return "" }

// ProfileProvider handles soft terminal profile switches (DCS $ p).
type ProfileProvider interface {
	SetTerminalProfile(name string)
}

// NoopProfile ignores profile switches.
type NoopProfile struct{}

func (NoopProfile) SetTerminalProfile(name string) {}

// InspectProvider receives state-dump requests for debugging.
type InspectProvider interface {
	Inspect(dump string)
}

// NoopInspect ignores state dumps.
type NoopInspect struct{}

func (NoopInspect) Inspect(dump string) {}

// WindowOpsProvider handles window manipulation requests (XTWINOPS) that
// need host cooperation: resizes and size queries in pixels.
type WindowOpsProvider interface {
	// ResizeWindow asks the host to resize to the given cell dimensions.
	ResizeWindow(rows, cols int)
	// CellSizePixels returns the size of one cell in pixels.
	CellSizePixels() (width, height int)
}

// NoopWindowOps refuses resizes and reports a conventional 8x16 cell.
type NoopWindowOps struct{}

func (NoopWindowOps) ResizeWindow(rows, cols int)     {}
func (NoopWindowOps) CellSizePixels() (width, height int) { return 8, 16 }

var (
	_ ReplyProvider     = NoopReply{}
	_ BellProvider      = NoopBell{}
	_ TitleProvider     = NoopTitle{}
	_ ClipboardProvider = NoopClipboard{}
	_ NotifyProvider    = NoopNotify{}
	_ CaptureProvider   = NoopCapture{}
	_ FontProvider      = NoopFont{}
	_ ProfileProvider   = NoopProfile{}
	_ InspectProvider   = NoopInspect{}
	_ WindowOpsProvider = NoopWindowOps{}
)
