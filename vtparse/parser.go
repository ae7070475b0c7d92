// Package vtparse implements the VT500-series escape sequence state machine.
//
// The parser consumes raw bytes and emits events to a Performer: printable
// codepoints, C0 controls, and complete ESC/CSI/OSC/DCS sequences. It follows
// the state diagram used by DEC VT500 terminals and xterm, is total (every
// byte fires exactly one transition) and never allocates unbounded memory
// for malformed input.
package vtparse

import "unicode/utf8"

// State identifies a parser state.
type State int

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCsiEntry
	StateCsiParam
	StateCsiIntermediate
	StateCsiIgnore
	StateDcsEntry
	StateDcsParam
	StateDcsIntermediate
	StateDcsPassthrough
	StateDcsIgnore
	StateOscString
	StateSosPmApcString
)

var stateNames = [...]string{
	"Ground",
	"Escape",
	"EscapeIntermediate",
	"CsiEntry",
	"CsiParam",
	"CsiIntermediate",
	"CsiIgnore",
	"DcsEntry",
	"DcsParam",
	"DcsIntermediate",
	"DcsPassthrough",
	"DcsIgnore",
	"OscString",
	"SosPmApcString",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Caps bounding memory for a single sequence. Excess input is silently
// dropped and the sequence still runs to completion.
const (
	// MaxParams is the maximum number of parameter groups per sequence.
	MaxParams = 16
	// MaxSubParams is the maximum number of sub-parameters per group.
	MaxSubParams = 8
	// MaxIntermediates is the maximum number of collected intermediate bytes.
	MaxIntermediates = 2
	// MaxStringLen caps OSC / SOS / PM / APC payload accumulation (1 MiB).
	MaxStringLen = 1 << 20
)

// Parser is the byte-level VT escape sequence state machine.
// It is not safe for concurrent use; the caller owns serialization.
type Parser struct {
	performer Performer
	state     State

	params     [][]uint16
	curGroup   []uint16
	curVal     uint32
	seenParam  bool
	leader     byte
	inters     []byte
	ignore     bool
	paramsFull bool

	oscBuf  []byte
	strKind byte

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int
}

// New creates a parser delivering events to the given performer.
func New(performer Performer) *Parser {
	return &Parser{
		performer: performer,
		params:    make([][]uint16, 0, MaxParams),
		inters:    make([]byte, 0, MaxIntermediates),
	}
}

// State returns the current parser state.
func (p *Parser) State() State {
	return p.state
}

// Reset returns the parser to Ground and discards any partial sequence.
func (p *Parser) Reset() {
	if p.state == StateDcsPassthrough {
		p.performer.Unhook()
	}
	p.state = StateGround
	p.clear()
	p.utf8Len = 0
	p.utf8Need = 0
}

// Advance feeds a buffer of bytes through the state machine.
func (p *Parser) Advance(data []byte) {
	for _, b := range data {
		p.advance(b)
	}
}

// clear resets per-sequence collection state (the "clear" action).
func (p *Parser) clear() {
	p.params = p.params[:0]
	p.curGroup = nil
	p.curVal = 0
	p.seenParam = false
	p.leader = 0
	p.inters = p.inters[:0]
	p.ignore = false
	p.paramsFull = false
}

func (p *Parser) advance(b byte) {
	// CAN and SUB abort any sequence from any state.
	if b == 0x18 || b == 0x1a {
		if p.state == StateDcsPassthrough {
			p.performer.Unhook()
		}
		p.state = StateGround
		p.utf8Reset()
		p.performer.Execute(b)
		return
	}

	switch p.state {
	case StateGround:
		p.advanceGround(b)
	case StateEscape:
		p.advanceEscape(b)
	case StateEscapeIntermediate:
		p.advanceEscapeIntermediate(b)
	case StateCsiEntry:
		p.advanceCsiEntry(b)
	case StateCsiParam:
		p.advanceCsiParam(b)
	case StateCsiIntermediate:
		p.advanceCsiIntermediate(b)
	case StateCsiIgnore:
		p.advanceCsiIgnore(b)
	case StateDcsEntry:
		p.advanceDcsEntry(b)
	case StateDcsParam:
		p.advanceDcsParam(b)
	case StateDcsIntermediate:
		p.advanceDcsIntermediate(b)
	case StateDcsPassthrough:
		p.advanceDcsPassthrough(b)
	case StateDcsIgnore:
		p.advanceDcsIgnore(b)
	case StateOscString:
		p.advanceOscString(b)
	case StateSosPmApcString:
		p.advanceSosPmApcString(b)
	}
}

func (p *Parser) execute(b byte) {
	p.utf8Reset()
	p.performer.Execute(b)
}

func isC0(b byte) bool {
	return b <= 0x17 || b == 0x19 || (b >= 0x1c && b <= 0x1f)
}

// --- Ground ---

func (p *Parser) advanceGround(b byte) {
	switch {
	case b == 0x1b:
		p.utf8Reset()
		p.state = StateEscape
		p.clear()
	case isC0(b):
		p.execute(b)
	case b >= 0x20 && b < 0x7f:
		if p.utf8Need > 0 {
			// Truncated multi-byte sequence.
			p.performer.Print(utf8.RuneError)
			p.utf8Reset()
		}
		p.performer.Print(rune(b))
	case b == 0x7f:
		// DEL is ignored.
	default:
		p.advanceUTF8(b)
	}
}

// advanceUTF8 feeds one byte >= 0x80 into the streaming UTF-8 decoder.
func (p *Parser) advanceUTF8(b byte) {
	if p.utf8Need == 0 {
		switch {
		case b >= 0xc2 && b <= 0xdf:
			p.utf8Need = 2
		case b >= 0xe0 && b <= 0xef:
			p.utf8Need = 3
		case b >= 0xf0 && b <= 0xf4:
			p.utf8Need = 4
		default:
			// Stray continuation byte or invalid lead.
			p.performer.Print(utf8.RuneError)
			return
		}
		p.utf8Buf[0] = b
		p.utf8Len = 1
		return
	}

	if b < 0x80 || b > 0xbf {
		// Not a continuation byte: the pending sequence is malformed.
		p.performer.Print(utf8.RuneError)
		p.utf8Reset()
		p.advanceGround(b)
		return
	}

	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len == p.utf8Need {
		r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
		p.performer.Print(r)
		p.utf8Reset()
	}
}

func (p *Parser) utf8Reset() {
	p.utf8Len = 0
	p.utf8Need = 0
}

// --- Escape ---

func (p *Parser) advanceEscape(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateEscapeIntermediate
	case b == 'P':
		p.state = StateDcsEntry
		p.clear()
	case b == 'X', b == '^', b == '_':
		p.strKind = b
		p.oscBuf = p.oscBuf[:0]
		p.state = StateSosPmApcString
	case b == '[':
		p.state = StateCsiEntry
		p.clear()
	case b == ']':
		p.oscBuf = p.oscBuf[:0]
		p.state = StateOscString
	case b >= 0x30 && b <= 0x7e:
		p.performer.EscDispatch(p.inters, p.ignore, b)
		p.state = StateGround
	default:
		// 0x7f ignored.
	}
}

func (p *Parser) advanceEscapeIntermediate(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
	case b >= 0x30 && b <= 0x7e:
		p.performer.EscDispatch(p.inters, p.ignore, b)
		p.state = StateGround
	}
}

// --- CSI ---

func (p *Parser) advanceCsiEntry(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateCsiIntermediate
	case b >= '0' && b <= '9', b == ';', b == ':':
		p.param(b)
		p.state = StateCsiParam
	case b >= 0x3c && b <= 0x3f:
		p.leader = b
		p.state = StateCsiParam
	case b >= 0x40 && b <= 0x7e:
		p.csiDispatch(b)
	}
}

func (p *Parser) advanceCsiParam(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= '0' && b <= '9', b == ';', b == ':':
		p.param(b)
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateCsiIntermediate
	case b >= 0x3c && b <= 0x3f:
		p.ignore = true
		p.state = StateCsiIgnore
	case b >= 0x40 && b <= 0x7e:
		p.csiDispatch(b)
	}
}

func (p *Parser) advanceCsiIntermediate(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
	case b >= 0x30 && b <= 0x3f:
		p.ignore = true
		p.state = StateCsiIgnore
	case b >= 0x40 && b <= 0x7e:
		p.csiDispatch(b)
	}
}

func (p *Parser) advanceCsiIgnore(b byte) {
	switch {
	case isC0(b):
		p.execute(b)
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x40 && b <= 0x7e:
		p.state = StateGround
	}
}

func (p *Parser) csiDispatch(final byte) {
	p.endParam()
	p.performer.CsiDispatch(p.params, p.leader, p.inters, p.ignore, final)
	p.state = StateGround
}

// --- DCS ---

func (p *Parser) advanceDcsEntry(b byte) {
	switch {
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateDcsIntermediate
	case b >= '0' && b <= '9', b == ';', b == ':':
		p.param(b)
		p.state = StateDcsParam
	case b >= 0x3c && b <= 0x3f:
		p.leader = b
		p.state = StateDcsParam
	case b >= 0x40 && b <= 0x7e:
		p.hook(b)
	}
}

func (p *Parser) advanceDcsParam(b byte) {
	switch {
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= '0' && b <= '9', b == ';', b == ':':
		p.param(b)
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
		p.state = StateDcsIntermediate
	case b >= 0x3c && b <= 0x3f:
		p.state = StateDcsIgnore
	case b >= 0x40 && b <= 0x7e:
		p.hook(b)
	}
}

func (p *Parser) advanceDcsIntermediate(b byte) {
	switch {
	case b == 0x1b:
		p.state = StateEscape
		p.clear()
	case b >= 0x20 && b <= 0x2f:
		p.collect(b)
	case b >= 0x30 && b <= 0x3f:
		p.state = StateDcsIgnore
	case b >= 0x40 && b <= 0x7e:
		p.hook(b)
	}
}

func (p *Parser) hook(final byte) {
	p.endParam()
	p.performer.Hook(p.params, p.leader, p.inters, p.ignore, final)
	p.state = StateDcsPassthrough
}

func (p *Parser) advanceDcsPassthrough(b byte) {
	switch {
	case b == 0x1b:
		p.performer.Unhook()
		p.state = StateEscape
		p.clear()
	case b == 0x9c:
		p.performer.Unhook()
		p.state = StateGround
	case b == 0x7f:
		// ignored
	default:
		p.performer.Put(b)
	}
}

func (p *Parser) advanceDcsIgnore(b byte) {
	switch b {
	case 0x1b:
		p.state = StateEscape
		p.clear()
	case 0x9c:
		p.state = StateGround
	}
}

// --- OSC ---

func (p *Parser) advanceOscString(b byte) {
	switch {
	case b == 0x07:
		p.performer.OscDispatch(p.oscBuf, true)
		p.state = StateGround
	case b == 0x1b:
		// ST arrives as ESC \; dispatch now, the trailing backslash is
		// consumed by the Escape state as an ESC dispatch of ST.
		p.performer.OscDispatch(p.oscBuf, false)
		p.state = StateEscape
		p.clear()
	case b == 0x9c:
		p.performer.OscDispatch(p.oscBuf, false)
		p.state = StateGround
	case b < 0x20:
		// Other C0 bytes inside OSC are ignored.
	default:
		if len(p.oscBuf) < MaxStringLen {
			p.oscBuf = append(p.oscBuf, b)
		}
	}
}

// --- SOS / PM / APC ---

func (p *Parser) advanceSosPmApcString(b byte) {
	switch {
	case b == 0x1b:
		p.performer.SosPmApcDispatch(p.strKind, p.oscBuf)
		p.state = StateEscape
		p.clear()
	case b == 0x9c:
		p.performer.SosPmApcDispatch(p.strKind, p.oscBuf)
		p.state = StateGround
	case b < 0x20:
		// ignored
	default:
		if len(p.oscBuf) < MaxStringLen {
			p.oscBuf = append(p.oscBuf, b)
		}
	}
}

// --- collection actions ---

func (p *Parser) collect(b byte) {
	if len(p.inters) < MaxIntermediates {
		p.inters = append(p.inters, b)
	} else {
		p.ignore = true
	}
}

// param accumulates digits and separators into parameter groups.
// ';' closes a group; ':' appends a sub-parameter to the current group.
func (p *Parser) param(b byte) {
	p.seenParam = true
	if p.paramsFull {
		return
	}

	switch b {
	case ';':
		p.closeGroup()
	case ':':
		if len(p.curGroup) < MaxSubParams {
			p.curGroup = append(p.curGroup, uint16(p.curVal))
		}
		p.curVal = 0
	default:
		v := p.curVal*10 + uint32(b-'0')
		if v > 0xffff {
			v = 0xffff
		}
		p.curVal = v
	}
}

// closeGroup flushes the in-progress group (including the accumulating
// value) into params.
func (p *Parser) closeGroup() {
	group := p.curGroup
	if len(group) < MaxSubParams {
		group = append(group, uint16(p.curVal))
	}
	p.params = append(p.params, group)
	p.curGroup = nil
	p.curVal = 0
	if len(p.params) >= MaxParams {
		p.paramsFull = true
	}
}

// endParam closes the final parameter group before dispatch. A sequence
// with no parameter bytes at all dispatches with an empty params list so
// per-function defaults apply.
func (p *Parser) endParam() {
	if p.seenParam && !p.paramsFull {
		p.closeGroup()
	}
}
