// Package vtcore implements a headless virtual terminal core: a byte-stream
// interpreter that consumes application output (UTF-8 text mixed with escape
// sequences) and maintains an authoritative, queryable model of a character
// cell grid.
//
// The core is built from three subsystems:
//
//   - [github.com/danielgatis/go-vtcore/vtparse]: the VT500-series byte
//     state machine emitting parser events
//   - [Sequencer]: the semantic dispatcher mapping recognized sequences to
//     screen operations through a [FunctionRegistry], including the embedded
//     sub-grammars (sixel images, DECRQSS, XTGETTCAP)
//   - [Screen] and [Grid]: the cell grid with primary/alternate buffers,
//     scrollback, margins, cursor, SGR state, tab stops, hyperlinks and
//     image attachments
//
// # Quick Start
//
// Create a screen and write escape sequences to it:
//
//	screen := vtcore.NewScreen()
//	screen.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(screen.String()) // "Hello World!"
//
// Screen implements [io.Writer], so it can sit directly behind a PTY:
//
//	cmd := exec.Command("ls", "--color")
//	cmd.Stdout = screen
//	cmd.Run()
//
// # Dual Buffers
//
// Screen maintains two grids: the primary (with scrollback) and the
// alternate (no scrollback), switched by full-screen applications via
// DECSET 47/1047/1049. Use [Screen.IsAlternateScreen] to check which is
// active.
//
// # Cells and Attributes
//
// Each cell stores a base codepoint with optional combining marks, tagged
// colors (default / indexed / RGB, see [Color]), a style flag set, and
// registry ids for hyperlinks and image fragments:
//
//	cell, ok := screen.Cell(row, col)
//	if ok {
//	    fmt.Printf("%s bold=%v\n", cell.Text(), cell.HasFlag(vtcore.CellFlagBold))
//	}
//
// # Replies
//
// Sequences like DSR, DA1 or DECRQM make the terminal write bytes back to
// the host. Supply a [ReplyProvider] to receive them wire-exact and in
// order:
//
//	screen := vtcore.NewScreen(vtcore.WithReply(ptyWriter))
//
// # Providers
//
// Host callbacks are provider interfaces with no-op defaults: [BellProvider],
// [TitleProvider], [ClipboardProvider], [NotifyProvider],
// [WorkingDirectoryProvider], [CaptureProvider], [FontProvider],
// [ProfileProvider], [InspectProvider] and [WindowOpsProvider].
//
// # Concurrency
//
// One goroutine owns the write path; [Screen.Write] holds the exclusive
// lock for a whole buffer, so a sequence never yields mid-dispatch. Read
// accessors ([Screen.Cell], [Screen.Snapshot], [Screen.Screenshot], ...)
// take the shared lock and are safe to call from a render goroutine.
//
// # Snapshots and Round-Trips
//
// [Screen.Snapshot] captures the page as JSON-marshalable data at three
// levels of detail. [Screen.VT] re-emits the page as a VT byte stream that
// reproduces a cell-equal screen when fed to a fresh instance.
// [Screen.Screenshot] renders the page to an RGBA image.
//
// # Images
//
// Sixel graphics (DCS q) decode through a streaming [SixelParser] into the
// image registry; cells reference image fragments by id. Rasters beyond
// the configured maximum are clamped, not rejected.
package vtcore
