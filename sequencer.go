package vtcore

import (
	"log/slog"

	"github.com/danielgatis/go-vtcore/vtparse"
)

// ApplyResult is the discriminated outcome of dispatching one sequence.
type ApplyResult int

const (
	// ResultOk: the function was applied.
	ResultOk ApplyResult = iota
	// ResultUnsupported: recognized but not implemented; logged, no-op.
	ResultUnsupported
	// ResultInvalid: parameter values outside the function's contract;
	// that function fails, subsequent functions proceed.
	ResultInvalid
)

// String returns the result name.
func (r ApplyResult) String() string {
	switch r {
	case ResultOk:
		return "ok"
	case ResultUnsupported:
		return "unsupported"
	case ResultInvalid:
		return "invalid"
	}
	return "?"
}

// hookParser is a sub-parser owned by the sequencer for the lifetime of
// one DCS sequence: Start on hook, Pass for every passthrough byte,
// Finalize on unhook. Finalize commits the accumulated side effect even
// when the sequence terminated early.
type hookParser interface {
	Start()
	Pass(b byte)
	Finalize()
}

// Sequencer consumes parser events, builds Sequence values, resolves them
// through the function registry and applies them to the screen. It is the
// single dispatch point; the registry is the single source of truth for
// what the terminal understands.
type Sequencer struct {
	screen   *Screen
	registry *FunctionRegistry
	hooked   hookParser
}

var _ vtparse.Performer = (*Sequencer)(nil)

// NewSequencer creates a sequencer bound to a screen.
func NewSequencer(screen *Screen) *Sequencer {
	return &Sequencer{
		screen:   screen,
		registry: NewFunctionRegistry(),
	}
}

// Print writes one printable codepoint to the screen.
func (q *Sequencer) Print(r rune) {
	q.screen.writeText(r)
}

// Execute dispatches a C0 control character.
func (q *Sequencer) Execute(b byte) {
	s := q.screen
	switch b {
	case 0x07: // BEL
		s.bell.Ring()
	case 0x08: // BS
		s.backspace()
	case 0x09: // HT
		s.moveCursorToNextTab()
	case 0x0a: // LF
		s.linefeed()
	case 0x0b, 0x0c: // VT, FF
		// xterm treats both as IND; pinned by tests.
		s.index()
	case 0x0d: // CR
		s.moveCursorToBeginOfLine()
	case 0x0e: // SO: lock shift G1
		s.charsets.LockShift(CharsetSlotG1)
	case 0x0f: // SI: lock shift G0
		s.charsets.LockShift(CharsetSlotG0)
	case 0x18, 0x1a:
		// CAN/SUB abort sequences in the parser; nothing to do here.
	case 0x00, 0x05:
		// NUL, ENQ ignored.
	default:
		s.logger.Debug("unsupported C0 control", slog.Int("byte", int(b)))
	}
}

// EscDispatch applies a completed ESC sequence.
func (q *Sequencer) EscDispatch(inters []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	if final == '\\' {
		// ST terminating an OSC/DCS; the string was already dispatched.
		return
	}
	seq := Sequence{Category: CategoryESC, Inters: string(inters), Final: final}
	q.dispatch(&seq)
}

// CsiDispatch applies a completed CSI sequence.
func (q *Sequencer) CsiDispatch(params [][]uint16, leader byte, inters []byte, ignore bool, final byte) {
	if ignore {
		q.screen.logger.Debug("malformed CSI sequence dropped")
		return
	}
	seq := Sequence{
		Category: CategoryCSI,
		Leader:   leader,
		Inters:   string(inters),
		Params:   params,
		Final:    final,
	}
	q.dispatch(&seq)
}

// OscDispatch applies a completed OSC sequence.
func (q *Sequencer) OscDispatch(data []byte, bellTerminated bool) {
	q.handleOsc(data, bellTerminated)
}

// Hook installs the sub-parser for a DCS sequence.
func (q *Sequencer) Hook(params [][]uint16, leader byte, inters []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	seq := Sequence{
		Category: CategoryDCS,
		Leader:   leader,
		Inters:   string(inters),
		Params:   params,
		Final:    final,
	}
	def := q.registry.Select(&seq)
	if def == nil {
		q.screen.logger.Debug("unknown DCS sequence", slog.String("seq", seq.String()))
		return
	}

	switch def.ID {
	case FuncDECSIXEL:
		q.hooked = q.hookSixel(&seq)
	case FuncDECRQSS:
		q.hooked = newStringCollector(func(data string) {
			q.screen.requestStatusString(data)
		})
	case FuncXTGETTCAP:
		q.hooked = newStringCollector(func(data string) {
			q.hookedGetTcap(data)
		})
	case FuncSTP:
		q.hooked = newStringCollector(func(data string) {
			q.screen.profile.SetTerminalProfile(data)
		})
	}

	if q.hooked != nil {
		q.hooked.Start()
	}
}

// Put forwards one DCS passthrough byte to the installed sub-parser.
func (q *Sequencer) Put(b byte) {
	if q.hooked != nil {
		q.hooked.Pass(b)
	}
}

// Unhook finalizes and destroys the sub-parser. A partial sixel image is
// still committed.
func (q *Sequencer) Unhook() {
	if q.hooked != nil {
		q.hooked.Finalize()
		q.hooked = nil
	}
}

// SosPmApcDispatch receives SOS/PM/APC strings; the core recognizes none.
func (q *Sequencer) SosPmApcDispatch(kind byte, data []byte) {
	q.screen.logger.Debug("ignored control string",
		slog.String("kind", string(kind)), slog.Int("len", len(data)))
}

// dispatch resolves a sequence through the registry and applies it.
func (q *Sequencer) dispatch(seq *Sequence) {
	def := q.registry.Select(seq)
	if def == nil {
		q.screen.logger.Debug("unknown VT sequence", slog.String("seq", seq.String()))
		return
	}

	switch q.apply(def, seq) {
	case ResultUnsupported:
		q.screen.logger.Debug("unsupported VT sequence", slog.String("seq", seq.String()))
	case ResultInvalid:
		q.screen.logger.Debug("invalid VT sequence", slog.String("seq", seq.String()))
	}
}

// apply executes one resolved function against the screen.
func (q *Sequencer) apply(def *FunctionDefinition, seq *Sequence) ApplyResult {
	s := q.screen

	switch def.ID {
	// --- ESC ---
	case FuncDECSC:
		s.saveCursor()
	case FuncDECRC:
		s.restoreCursor()
	case FuncDECKPAM, FuncDECKPNM:
		// Keypad mode concerns input encoding; out of core scope.
		return ResultOk
	case FuncIND:
		s.index()
	case FuncNEL:
		s.moveCursorToBeginOfLine()
		s.index()
	case FuncHTS:
		s.active.SetTabStop(s.cursor.Col)
	case FuncRI:
		s.reverseIndex()
	case FuncSS2:
		s.charsets.Shift(CharsetSlotG2)
	case FuncSS3:
		s.charsets.Shift(CharsetSlotG3)
	case FuncDECALN:
		s.screenAlignmentPattern()
	case FuncDECBI:
		s.backIndex()
	case FuncDECFI:
		s.forwardIndex()
	case FuncRIS:
		s.resetHard()
	case FuncSCSG0Special:
		s.charsets.Designate(CharsetSlotG0, CharsetSpecial)
	case FuncSCSG0USASCII:
		s.charsets.Designate(CharsetSlotG0, CharsetUSASCII)
	case FuncSCSG0UK:
		s.charsets.Designate(CharsetSlotG0, CharsetUK)
	case FuncSCSG1Special:
		s.charsets.Designate(CharsetSlotG1, CharsetSpecial)
	case FuncSCSG1USASCII:
		s.charsets.Designate(CharsetSlotG1, CharsetUSASCII)
	case FuncSCSG1UK:
		s.charsets.Designate(CharsetSlotG1, CharsetUK)
	case FuncSCSG2Special:
		s.charsets.Designate(CharsetSlotG2, CharsetSpecial)
	case FuncSCSG2USASCII:
		s.charsets.Designate(CharsetSlotG2, CharsetUSASCII)
	case FuncSCSG3Special:
		s.charsets.Designate(CharsetSlotG3, CharsetSpecial)
	case FuncSCSG3USASCII:
		s.charsets.Designate(CharsetSlotG3, CharsetUSASCII)

	// --- CSI cursor motion ---
	case FuncCUU:
		s.moveCursorUp(seq.ParamOr(0, 1))
	case FuncCUD:
		s.moveCursorDown(seq.ParamOr(0, 1))
	case FuncCUF, FuncHPR:
		s.moveCursorForward(seq.ParamOr(0, 1))
	case FuncCUB:
		s.moveCursorBackward(seq.ParamOr(0, 1))
	case FuncCNL:
		s.moveCursorToNextLine(seq.ParamOr(0, 1))
	case FuncCPL:
		s.moveCursorToPrevLine(seq.ParamOr(0, 1))
	case FuncCHA, FuncHPA:
		s.moveCursorToColumn(seq.ParamOr(0, 1) - 1)
	case FuncVPA:
		s.moveCursorToLine(seq.ParamOr(0, 1) - 1)
	case FuncVPR:
		s.moveCursorDown(seq.ParamOr(0, 1))
	case FuncCUP, FuncHVP:
		s.moveCursorTo(seq.ParamOr(0, 1)-1, seq.ParamOr(1, 1)-1)
	case FuncCHT:
		s.cursorForwardTab(seq.ParamOr(0, 1))
	case FuncCBT:
		s.cursorBackwardTab(seq.ParamOr(0, 1))

	// --- CSI editing ---
	case FuncICH:
		s.insertCharacters(seq.ParamOr(0, 1))
	case FuncDCH:
		s.deleteCharacters(seq.ParamOr(0, 1))
	case FuncECH:
		s.eraseCharacters(seq.ParamOr(0, 1))
	case FuncIL:
		s.insertLines(seq.ParamOr(0, 1))
	case FuncDL:
		s.deleteLines(seq.ParamOr(0, 1))
	case FuncDECIC:
		s.insertColumns(seq.ParamOr(0, 1))
	case FuncDECDC:
		s.deleteColumns(seq.ParamOr(0, 1))
	case FuncED:
		mode := seq.Param(0)
		if mode > 3 {
			return ResultInvalid
		}
		s.eraseInDisplay(mode, seq.Leader == '?')
	case FuncEL:
		mode := seq.Param(0)
		if mode > 2 {
			return ResultInvalid
		}
		s.eraseInLine(mode, seq.Leader == '?')
	case FuncSU:
		s.scrollUp(seq.ParamOr(0, 1))
	case FuncSD:
		s.scrollDown(seq.ParamOr(0, 1))
	case FuncREP:
		s.repeatLastGraphic(seq.ParamOr(0, 1))

	// --- CSI rectangle ops ---
	case FuncDECCRA:
		s.copyArea(
			seq.ParamOr(0, 1), seq.ParamOr(1, 1),
			seq.ParamOr(2, s.rows), seq.ParamOr(3, s.cols),
			seq.ParamOr(5, 1), seq.ParamOr(6, 1))
	case FuncDECERA:
		s.eraseArea(
			seq.ParamOr(0, 1), seq.ParamOr(1, 1),
			seq.ParamOr(2, s.rows), seq.ParamOr(3, s.cols))
	case FuncDECFRA:
		s.fillArea(rune(seq.Param(0)),
			seq.ParamOr(1, 1), seq.ParamOr(2, 1),
			seq.ParamOr(3, s.rows), seq.ParamOr(4, s.cols))

	// --- CSI modes ---
	case FuncSM:
		result := ResultOk
		for i := 0; i < seq.ParamCount(); i++ {
			if r := s.setAnsiMode(AnsiMode(seq.Param(i)), true); r > result {
				result = r
			}
		}
		return result
	case FuncRM:
		result := ResultOk
		for i := 0; i < seq.ParamCount(); i++ {
			if r := s.setAnsiMode(AnsiMode(seq.Param(i)), false); r > result {
				result = r
			}
		}
		return result
	case FuncDECSET:
		result := ResultOk
		for i := 0; i < seq.ParamCount(); i++ {
			if r := s.setDECMode(DECMode(seq.Param(i)), true); r > result {
				result = r
			}
		}
		return result
	case FuncDECRST:
		result := ResultOk
		for i := 0; i < seq.ParamCount(); i++ {
			if r := s.setDECMode(DECMode(seq.Param(i)), false); r > result {
				result = r
			}
		}
		return result
	case FuncXTSAVE:
		for i := 0; i < seq.ParamCount(); i++ {
			s.modes.SaveDEC(DECMode(seq.Param(i)))
		}
	case FuncXTRESTORE:
		for i := 0; i < seq.ParamCount(); i++ {
			mode := DECMode(seq.Param(i))
			s.setDECMode(mode, s.modes.RestoreDEC(mode))
		}

	// --- CSI attributes ---
	case FuncSGR:
		return q.applySGR(seq)
	case FuncDECSCUSR:
		style := seq.Param(0)
		if style > 6 {
			return ResultInvalid
		}
		if style == 0 {
			style = 1
		}
		s.cursor.Style = CursorStyle(style - 1)
	case FuncDECSCA:
		switch seq.Param(0) {
		case 0, 2:
			s.template.ClearFlag(CellFlagProtected)
		case 1:
			s.template.SetFlag(CellFlagProtected)
		default:
			return ResultInvalid
		}

	// --- CSI margins ---
	case FuncDECSTBM:
		s.setTopBottomMargin(seq.ParamOr(0, 1)-1, seq.ParamOr(1, s.rows)-1)
	case FuncDECSLRM:
		s.setLeftRightMargin(seq.ParamOr(0, 1)-1, seq.ParamOr(1, s.cols)-1)
	case FuncSCOSC:
		s.saveCursor()
	case FuncSCORC:
		s.restoreCursor()

	// --- CSI reports ---
	case FuncDA1:
		if seq.Param(0) != 0 {
			return ResultInvalid
		}
		s.sendDeviceAttributes()
	case FuncDA2:
		s.sendTerminalId()
	case FuncDA3:
		s.sendTertiaryAttributes()
	case FuncDSR:
		s.deviceStatusReport(seq.Param(0))
	case FuncDECDSR:
		s.decDeviceStatusReport(seq.Param(0))
	case FuncDECRQMANSI:
		if seq.ParamCount() != 1 {
			return ResultInvalid
		}
		s.requestAnsiMode(seq.Param(0))
	case FuncDECRQM:
		if seq.ParamCount() != 1 {
			return ResultInvalid
		}
		s.requestDECMode(seq.Param(0))
	case FuncXTVERSION:
		s.sendVersion()
	case FuncXTSMGRAPHICS:
		s.graphicsAttributeRequest(seq.Param(0), seq.Param(1), seq.Param(2))
	case FuncWINMANIP:
		return s.windowManipulation(seq.Param(0), seq.Param(1), seq.Param(2))

	// --- CSI screen geometry ---
	case FuncDECSCPP:
		cols := seq.ParamOr(0, 80)
		// Only 80 and 132 are specified; any column count is accepted as
		// an extension.
		s.resizeLocked(s.rows, cols)
	case FuncDECSNLS:
		rows := seq.Param(0)
		if rows < 1 {
			return ResultInvalid
		}
		s.resizeLocked(rows, s.cols)

	// --- CSI misc ---
	case FuncTBC:
		switch seq.Param(0) {
		case 0:
			s.active.ClearTabStop(s.cursor.Col)
		case 3:
			s.active.ClearAllTabStops()
		default:
			return ResultInvalid
		}
	case FuncDECSTR:
		s.resetSoft()
	case FuncSETMARK:
		s.setMark()

	default:
		return ResultUnsupported
	}

	return ResultOk
}

// hookedGetTcap decodes the hex-encoded, semicolon-separated capability
// names of an XTGETTCAP request and replies to each.
func (q *Sequencer) hookedGetTcap(data string) {
	for _, hexName := range splitSemi(data) {
		name, ok := fromHex(hexName)
		if !ok {
			q.screen.replyf("\x1bP0+r\x1b\\")
			continue
		}
		q.screen.requestCapability(name)
	}
}
