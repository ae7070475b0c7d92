package vtcore

import (
	"fmt"
	"strings"
)

// VT renders the visible page as a VT byte stream: feeding the result to a
// fresh screen of the same size reproduces a cell-equal page, cursor
// included. Attribute runs are coalesced: an SGR sequence is emitted only
// where the attributes change.
func (s *Screen) VT() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("\x1b[2J\x1b[H\x1b[0m")

	var cur CellTemplate
	var curLink uint32

	for row := 0; row < s.rows; row++ {
		line := s.active.LineAt(row)
		used := line.usedColumns()
		if row > 0 {
			sb.WriteString("\r\n")
		}
		for col := 0; col < used; col++ {
			cell := line.Cell(col)
			if cell.IsWideSpacer() {
				continue
			}
			want := CellTemplate{
				Fg:             cell.Fg,
				Bg:             cell.Bg,
				UnderlineColor: cell.UnderlineColor,
				Flags:          cell.Flags &^ (CellFlagWideChar | CellFlagWideCharSpacer),
			}
			if want != cur {
				sb.WriteString(sgrTransition(want))
				cur = want
			}
			if cell.HyperlinkID != curLink {
				if link := s.hyperlinks.Link(cell.HyperlinkID); link != nil {
					fmt.Fprintf(&sb, "\x1b]8;id=%s;%s\x1b\\", link.ID, link.URI)
				} else {
					sb.WriteString("\x1b]8;;\x1b\\")
				}
				curLink = cell.HyperlinkID
			}
			sb.WriteString(cell.Text())
		}
	}

	if curLink != 0 {
		sb.WriteString("\x1b]8;;\x1b\\")
	}
	sb.WriteString("\x1b[0m")

	// Restore the cursor last so the round-trip lands it correctly.
	fmt.Fprintf(&sb, "\x1b[%d;%dH", s.cursor.Row+1, s.cursor.Col+1)
	return sb.String()
}

// sgrTransition emits one absolute SGR sequence for the wanted attributes
// (reset followed by the active set), which keeps the stream simple and
// deterministic.
func sgrTransition(t CellTemplate) string {
	var parts []string
	parts = append(parts, "0")

	if t.Flags&CellFlagBold != 0 {
		parts = append(parts, "1")
	}
	if t.Flags&CellFlagDim != 0 {
		parts = append(parts, "2")
	}
	if t.Flags&CellFlagItalic != 0 {
		parts = append(parts, "3")
	}
	if t.Flags&CellFlagUnderline != 0 {
		parts = append(parts, "4")
	}
	if t.Flags&CellFlagDoubleUnderline != 0 {
		parts = append(parts, "4:2")
	}
	if t.Flags&CellFlagCurlyUnderline != 0 {
		parts = append(parts, "4:3")
	}
	if t.Flags&CellFlagDottedUnderline != 0 {
		parts = append(parts, "4:4")
	}
	if t.Flags&CellFlagDashedUnderline != 0 {
		parts = append(parts, "4:5")
	}
	if t.Flags&CellFlagBlinkSlow != 0 {
		parts = append(parts, "5")
	}
	if t.Flags&CellFlagBlinkFast != 0 {
		parts = append(parts, "6")
	}
	if t.Flags&CellFlagReverse != 0 {
		parts = append(parts, "7")
	}
	if t.Flags&CellFlagHidden != 0 {
		parts = append(parts, "8")
	}
	if t.Flags&CellFlagStrike != 0 {
		parts = append(parts, "9")
	}
	if t.Flags&CellFlagFramed != 0 {
		parts = append(parts, "51")
	}
	if t.Flags&CellFlagEncircled != 0 {
		parts = append(parts, "52")
	}
	if t.Flags&CellFlagOverline != 0 {
		parts = append(parts, "53")
	}

	parts = append(parts, sgrColorParams(t.Fg, 30, 38)...)
	parts = append(parts, sgrColorParams(t.Bg, 40, 48)...)
	if !t.UnderlineColor.IsDefault() {
		parts = append(parts, sgrColorParams(t.UnderlineColor, -1, 58)...)
	}

	return "\x1b[" + strings.Join(parts, ";") + "m"
}

// sgrColorParams renders a color as SGR parameters. base is the 30/40
// shortcut base (-1 when no shortcut exists), ext the 38/48/58 introducer.
func sgrColorParams(c Color, base, ext int) []string {
	switch {
	case c.IsIndexed():
		idx := int(c.Index())
		if base >= 0 && idx < 8 {
			return []string{fmt.Sprintf("%d", base+idx)}
		}
		if base >= 0 && idx < 16 {
			return []string{fmt.Sprintf("%d", base+60+idx-8)}
		}
		return []string{fmt.Sprintf("%d;5;%d", ext, idx)}
	case c.IsRGB():
		r, g, b := c.RGB()
		return []string{fmt.Sprintf("%d;2;%d;%d;%d", ext, r, g, b)}
	default:
		return nil
	}
}
