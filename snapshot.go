package vtcore

import "fmt"

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is a complete capture of the visible page, taken under the
// shared lock so it never observes a half-applied sequence.
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Lines  []SnapshotLine `json:"lines"`
}

// SnapshotSize holds the page dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Wrapped  bool              `json:"wrapped,omitempty"`
	Marked   bool              `json:"marked,omitempty"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment is a run of identically styled text within a line.
type SnapshotSegment struct {
	Text  string        `json:"text"`
	Fg    string        `json:"fg,omitempty"`
	Bg    string        `json:"bg,omitempty"`
	Attrs SnapshotAttrs `json:"attrs,omitempty"`
	Link  string        `json:"link,omitempty"`
}

// SnapshotCell is a single cell with full attributes.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attrs      SnapshotAttrs `json:"attrs,omitempty"`
	Link       string        `json:"link,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
	ImageID    uint32        `json:"image_id,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Overline      bool `json:"overline,omitempty"`
}

var cursorStyleNames = map[CursorStyle]string{
	CursorStyleBlinkingBlock:     "blinking-block",
	CursorStyleSteadyBlock:       "steady-block",
	CursorStyleBlinkingUnderline: "blinking-underline",
	CursorStyleSteadyUnderline:   "steady-underline",
	CursorStyleBlinkingBar:       "blinking-bar",
	CursorStyleSteadyBar:         "steady-bar",
}

// Snapshot captures the visible page at the requested level of detail.
func (s *Screen) Snapshot(detail SnapshotDetail) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Size: SnapshotSize{Rows: s.rows, Cols: s.cols},
		Cursor: SnapshotCursor{
			Row:     s.cursor.Row,
			Col:     s.cursor.Col,
			Visible: s.cursor.Visible,
			Style:   cursorStyleNames[s.cursor.Style],
		},
	}

	for row := 0; row < s.rows; row++ {
		line := s.active.LineAt(row)
		sl := SnapshotLine{
			Text:    line.Text(),
			Wrapped: line.Wrapped,
			Marked:  line.Marked,
		}
		switch detail {
		case SnapshotDetailStyled:
			sl.Segments = s.lineSegments(line)
		case SnapshotDetailFull:
			sl.Cells = s.lineCells(line)
		}
		snap.Lines = append(snap.Lines, sl)
	}
	return snap
}

// lineSegments groups a line into runs of identical styling.
func (s *Screen) lineSegments(line *Line) []SnapshotSegment {
	var segments []SnapshotSegment
	var cur *SnapshotSegment

	for col := 0; col < line.Len(); col++ {
		cell := line.Cell(col)
		if cell.IsWideSpacer() {
			continue
		}
		fg := snapshotColor(cell.Fg)
		bg := snapshotColor(cell.Bg)
		attrs := snapshotAttrs(cell.Flags)
		link := ""
		if l := s.hyperlinks.Link(cell.HyperlinkID); l != nil {
			link = l.URI
		}

		if cur != nil && cur.Fg == fg && cur.Bg == bg && cur.Attrs == attrs && cur.Link == link {
			cur.Text += cell.Text()
			continue
		}
		segments = append(segments, SnapshotSegment{
			Text: cell.Text(), Fg: fg, Bg: bg, Attrs: attrs, Link: link,
		})
		cur = &segments[len(segments)-1]
	}
	return segments
}

// lineCells captures every cell of a line.
func (s *Screen) lineCells(line *Line) []SnapshotCell {
	cells := make([]SnapshotCell, 0, line.Len())
	for col := 0; col < line.Len(); col++ {
		cell := line.Cell(col)
		sc := SnapshotCell{
			Char:       cell.Text(),
			Fg:         snapshotColor(cell.Fg),
			Bg:         snapshotColor(cell.Bg),
			Attrs:      snapshotAttrs(cell.Flags),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		}
		if l := s.hyperlinks.Link(cell.HyperlinkID); l != nil {
			sc.Link = l.URI
		}
		if cell.Image != nil {
			sc.ImageID = cell.Image.ImageID
		}
		cells = append(cells, sc)
	}
	return cells
}

// snapshotColor renders a tagged color for JSON: "" for default,
// "idx:N" for indexed, "#rrggbb" for RGB.
func snapshotColor(c Color) string {
	switch {
	case c.IsIndexed():
		return fmt.Sprintf("idx:%d", c.Index())
	case c.IsRGB():
		r, g, b := c.RGB()
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	default:
		return ""
	}
}

func snapshotAttrs(flags CellFlags) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          flags&CellFlagBold != 0,
		Dim:           flags&CellFlagDim != 0,
		Italic:        flags&CellFlagItalic != 0,
		Underline:     flags&underlineFlags != 0,
		Blink:         flags&(CellFlagBlinkSlow|CellFlagBlinkFast) != 0,
		Reverse:       flags&CellFlagReverse != 0,
		Hidden:        flags&CellFlagHidden != 0,
		Strikethrough: flags&CellFlagStrike != 0,
		Overline:      flags&CellFlagOverline != 0,
	}
}
