package vtcore

// applySGR runs the SGR mini-parser over the sequence parameters and
// applies each recognized attribute to the cell template. An out-of-range
// color specification invalidates only its own group; the remaining
// parameters still apply.
func (q *Sequencer) applySGR(seq *Sequence) ApplyResult {
	s := q.screen
	t := &s.template
	result := ResultOk

	if seq.ParamCount() == 0 {
		*t = NewCellTemplate()
		return ResultOk
	}

	for i := 0; i < seq.ParamCount(); i++ {
		group := seq.SubParams(i)
		p := seq.Param(i)

		switch p {
		case 0:
			*t = NewCellTemplate()
		case 1:
			t.SetFlag(CellFlagBold)
		case 2:
			t.SetFlag(CellFlagDim)
		case 3:
			t.SetFlag(CellFlagItalic)
		case 4:
			// 4:x selects an underline style as a sub-parameter.
			t.ClearFlag(underlineFlags)
			if len(group) > 1 {
				switch group[1] {
				case 0:
					// 4:0 = no underline
				case 1:
					t.SetFlag(CellFlagUnderline)
				case 2:
					t.SetFlag(CellFlagDoubleUnderline)
				case 3:
					t.SetFlag(CellFlagCurlyUnderline)
				case 4:
					t.SetFlag(CellFlagDottedUnderline)
				case 5:
					t.SetFlag(CellFlagDashedUnderline)
				default:
					result = ResultInvalid
				}
			} else {
				t.SetFlag(CellFlagUnderline)
			}
		case 5:
			t.SetFlag(CellFlagBlinkSlow)
		case 6:
			t.SetFlag(CellFlagBlinkFast)
		case 7:
			t.SetFlag(CellFlagReverse)
		case 8:
			t.SetFlag(CellFlagHidden)
		case 9:
			t.SetFlag(CellFlagStrike)
		case 21:
			t.ClearFlag(underlineFlags)
			t.SetFlag(CellFlagDoubleUnderline)
		case 22:
			t.ClearFlag(CellFlagBold | CellFlagDim)
		case 23:
			t.ClearFlag(CellFlagItalic)
		case 24:
			t.ClearFlag(underlineFlags)
		case 25:
			t.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)
		case 27:
			t.ClearFlag(CellFlagReverse)
		case 28:
			t.ClearFlag(CellFlagHidden)
		case 29:
			t.ClearFlag(CellFlagStrike)
		case 30, 31, 32, 33, 34, 35, 36, 37:
			t.Fg = IndexedColor(uint8(p - 30))
		case 38:
			color, consumed, ok := parseSGRColor(seq, i)
			if !ok {
				result = ResultInvalid
			} else {
				t.Fg = color
			}
			i += consumed
		case 39:
			t.Fg = DefaultColor()
		case 40, 41, 42, 43, 44, 45, 46, 47:
			t.Bg = IndexedColor(uint8(p - 40))
		case 48:
			color, consumed, ok := parseSGRColor(seq, i)
			if !ok {
				result = ResultInvalid
			} else {
				t.Bg = color
			}
			i += consumed
		case 49:
			t.Bg = DefaultColor()
		case 51:
			t.SetFlag(CellFlagFramed)
		case 52:
			t.SetFlag(CellFlagEncircled)
		case 53:
			t.SetFlag(CellFlagOverline)
		case 54:
			t.ClearFlag(CellFlagFramed | CellFlagEncircled)
		case 55:
			t.ClearFlag(CellFlagOverline)
		case 58:
			color, consumed, ok := parseSGRColor(seq, i)
			if !ok {
				result = ResultInvalid
			} else {
				t.UnderlineColor = color
			}
			i += consumed
		case 59:
			t.UnderlineColor = DefaultColor()
		case 90, 91, 92, 93, 94, 95, 96, 97:
			t.Fg = IndexedColor(uint8(p - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			t.Bg = IndexedColor(uint8(p - 100 + 8))
		default:
			result = ResultInvalid
		}
	}

	return result
}

const underlineFlags = CellFlagUnderline | CellFlagDoubleUnderline |
	CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline

// parseSGRColor consumes the color specification after a 38/48/58
// introducer. Both parameter styles are accepted:
//
//	38;5;N       38;2;R;G;B          (semicolon groups)
//	38:5:N       38:2:R:G:B          (colon sub-parameters)
//	38:2::R:G:B                      (with color-space id)
//	38:3:F:C:M:Y  38:4:F:C:M:Y:K     (CMY/CMYK: parsed, unsupported)
//
// Returns the color, the number of extra parameter groups consumed, and
// whether the specification was valid.
func parseSGRColor(seq *Sequence, i int) (Color, int, bool) {
	group := seq.SubParams(i)

	if len(group) > 1 {
		// Colon form: everything lives in this group.
		sub := group[1:]
		switch sub[0] {
		case 5:
			if len(sub) >= 2 && sub[1] < 256 {
				return IndexedColor(uint8(sub[1])), 0, true
			}
			return 0, 0, false
		case 2:
			// Either 2:R:G:B or 2::R:G:B (with empty color-space id).
			rgb := sub[1:]
			if len(rgb) == 4 {
				rgb = rgb[1:]
			}
			if len(rgb) >= 3 && rgb[0] < 256 && rgb[1] < 256 && rgb[2] < 256 {
				return RGBColor(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])), 0, true
			}
			return 0, 0, false
		case 3, 4:
			// CMY/CMYK parsed but unsupported; the group is consumed
			// without changing the color.
			return 0, 0, false
		default:
			return 0, 0, false
		}
	}

	// Semicolon form: the mode and components are separate groups.
	if i+1 >= seq.ParamCount() {
		return 0, 0, false
	}
	switch seq.Param(i + 1) {
	case 5:
		if i+2 < seq.ParamCount() && seq.Param(i+2) < 256 {
			return IndexedColor(uint8(seq.Param(i + 2))), 2, true
		}
		return 0, 1, false
	case 2:
		if i+4 < seq.ParamCount() {
			r, g, b := seq.Param(i+2), seq.Param(i+3), seq.Param(i+4)
			if r < 256 && g < 256 && b < 256 {
				return RGBColor(uint8(r), uint8(g), uint8(b)), 4, true
			}
			return 0, 4, false
		}
		return 0, seq.ParamCount() - i - 1, false
	default:
		return 0, 1, false
	}
}
