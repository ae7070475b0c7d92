package vtcore

// AnsiMode identifies an ECMA-48 mode set via SM/RM.
type AnsiMode int

// ANSI mode numbers.
const (
	ModeKeyboardAction   AnsiMode = 2  // KAM
	ModeInsert           AnsiMode = 4  // IRM
	ModeSendReceive      AnsiMode = 12 // SRM
	ModeAutomaticNewline AnsiMode = 20 // LNM
)

// DECMode identifies a DEC private mode set via DECSET/DECRST.
type DECMode int

// DEC private mode numbers.
const (
	ModeCursorKeys          DECMode = 1    // DECCKM
	ModeColumns132          DECMode = 3    // DECCOLM
	ModeSmoothScroll        DECMode = 4    // DECSCLM
	ModeReverseVideo        DECMode = 5    // DECSCNM
	ModeOrigin              DECMode = 6    // DECOM
	ModeAutoWrap            DECMode = 7    // DECAWM
	ModeMouseX10            DECMode = 9    //
	ModeShowToolbar         DECMode = 10   //
	ModeBlinkingCursor      DECMode = 12   //
	ModeVisibleCursor       DECMode = 25   // DECTCEM
	ModeShowScrollbar       DECMode = 30   //
	ModeUseAltScreen        DECMode = 47   //
	ModeAllowColumns80to132 DECMode = 40   //
	ModeSixelScrolling      DECMode = 80   // DECSDM family
	ModeLeftRightMargin     DECMode = 69   // DECLRMM
	ModeMouseNormal         DECMode = 1000 //
	ModeMouseHighlight      DECMode = 1001 //
	ModeMouseButton         DECMode = 1002 //
	ModeMouseAnyEvent       DECMode = 1003 //
	ModeFocusTracking       DECMode = 1004 //
	ModeMouseUTF8           DECMode = 1005 //
	ModeMouseSGR            DECMode = 1006 //
	ModeMouseAlternateScroll DECMode = 1007 //
	ModeMouseURXVT          DECMode = 1015 //
	ModeMouseSGRPixels      DECMode = 1016 //
	ModeAltScreenKeepCursor DECMode = 1047 //
	ModeSaveCursor          DECMode = 1048 //
	ModeExtendedAltScreen   DECMode = 1049 //
	ModePrivateColorRegisters DECMode = 1070 //
	ModeBracketedPaste      DECMode = 2004 //
	ModeBatchedRendering    DECMode = 2026 //
	ModeTextReflow          DECMode = 2028 //
	ModeSixelCursorNextToGraphic DECMode = 8452 //
)

// modeSaveDepth caps each mode's XTSAVE stack.
const modeSaveDepth = 8

type modeEntry struct {
	value bool
	stack []bool
}

// ModeManager tracks the two disjoint mode namespaces with per-mode save
// stacks (XTSAVE/XTRESTORE).
type ModeManager struct {
	ansi map[AnsiMode]*modeEntry
	dec  map[DECMode]*modeEntry
}

// NewModeManager creates the manager with power-on defaults: autowrap on,
// cursor visible, text reflow on, sixel scrolling on.
func NewModeManager() *ModeManager {
	m := &ModeManager{
		ansi: make(map[AnsiMode]*modeEntry),
		dec:  make(map[DECMode]*modeEntry),
	}
	m.SetDEC(ModeAutoWrap, true)
	m.SetDEC(ModeVisibleCursor, true)
	m.SetDEC(ModeTextReflow, true)
	m.SetDEC(ModeSixelScrolling, true)
	return m
}

func (m *ModeManager) ansiEntry(mode AnsiMode) *modeEntry {
	e, ok := m.ansi[mode]
	if !ok {
		e = &modeEntry{}
		m.ansi[mode] = e
	}
	return e
}

func (m *ModeManager) decEntry(mode DECMode) *modeEntry {
	e, ok := m.dec[mode]
	if !ok {
		e = &modeEntry{}
		m.dec[mode] = e
	}
	return e
}

// Ansi returns the current value of an ANSI mode.
func (m *ModeManager) Ansi(mode AnsiMode) bool {
	if e, ok := m.ansi[mode]; ok {
		return e.value
	}
	return false
}

// DEC returns the current value of a DEC mode.
func (m *ModeManager) DEC(mode DECMode) bool {
	if e, ok := m.dec[mode]; ok {
		return e.value
	}
	return false
}

// SetAnsi sets an ANSI mode.
func (m *ModeManager) SetAnsi(mode AnsiMode, on bool) {
	m.ansiEntry(mode).value = on
}

// SetDEC sets a DEC mode.
func (m *ModeManager) SetDEC(mode DECMode, on bool) {
	m.decEntry(mode).value = on
}

// SaveDEC pushes the current value of a DEC mode onto its save stack
// (XTSAVE). The stack is bounded; the oldest entry is dropped on overflow.
func (m *ModeManager) SaveDEC(mode DECMode) {
	e := m.decEntry(mode)
	if len(e.stack) >= modeSaveDepth {
		e.stack = e.stack[1:]
	}
	e.stack = append(e.stack, e.value)
}

// RestoreDEC pops a DEC mode's save stack (XTRESTORE) and returns the
// restored value. Without a saved entry the current value is kept.
func (m *ModeManager) RestoreDEC(mode DECMode) bool {
	e := m.decEntry(mode)
	if n := len(e.stack); n > 0 {
		e.value = e.stack[n-1]
		e.stack = e.stack[:n-1]
	}
	return e.value
}

// Reset restores power-on defaults and clears all save stacks.
func (m *ModeManager) Reset() {
	m.ansi = make(map[AnsiMode]*modeEntry)
	m.dec = make(map[DECMode]*modeEntry)
	m.SetDEC(ModeAutoWrap, true)
	m.SetDEC(ModeVisibleCursor, true)
	m.SetDEC(ModeTextReflow, true)
	m.SetDEC(ModeSixelScrolling, true)
}

// knownAnsiModes lists the recognized ANSI modes for DECRQM replies.
var knownAnsiModes = map[AnsiMode]bool{
	ModeKeyboardAction:   true,
	ModeInsert:           true,
	ModeSendReceive:      true,
	ModeAutomaticNewline: true,
}

// knownDECModes lists the recognized DEC modes for DECRQM replies.
var knownDECModes = map[DECMode]bool{
	ModeCursorKeys: true, ModeColumns132: true, ModeSmoothScroll: true,
	ModeReverseVideo: true, ModeOrigin: true, ModeAutoWrap: true,
	ModeMouseX10: true, ModeBlinkingCursor: true, ModeVisibleCursor: true,
	ModeUseAltScreen: true, ModeSixelScrolling: true, ModeLeftRightMargin: true,
	ModeMouseNormal: true, ModeMouseButton: true, ModeMouseAnyEvent: true,
	ModeFocusTracking: true, ModeMouseSGR: true, ModeMouseAlternateScroll: true,
	ModeMouseSGRPixels: true, ModeAltScreenKeepCursor: true,
	ModeSaveCursor: true, ModeExtendedAltScreen: true,
	ModePrivateColorRegisters: true, ModeBracketedPaste: true,
	ModeBatchedRendering: true, ModeTextReflow: true,
	ModeSixelCursorNextToGraphic: true,
}

// KnownAnsi reports whether the ANSI mode number is recognized.
func (m *ModeManager) KnownAnsi(mode AnsiMode) bool {
	return knownAnsiModes[mode]
}

// KnownDEC reports whether the DEC mode number is recognized.
func (m *ModeManager) KnownDEC(mode DECMode) bool {
	return knownDECModes[mode]
}
