package vtparse

import (
	"fmt"
	"strings"
	"testing"
)

// recorder captures parser events as printable trace strings.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Print(ru rune)   { r.add("print %q", ru) }
func (r *recorder) Execute(b byte)  { r.add("execute %#x", b) }
func (r *recorder) CsiDispatch(params [][]uint16, leader byte, inters []byte, ignore bool, final byte) {
	r.add("csi %v leader=%q inters=%q ignore=%v final=%c", params, leader, inters, ignore, final)
}
func (r *recorder) EscDispatch(inters []byte, ignore bool, final byte) {
	r.add("esc inters=%q final=%c", inters, final)
}
func (r *recorder) OscDispatch(data []byte, bell bool) {
	r.add("osc %q bell=%v", data, bell)
}
func (r *recorder) Hook(params [][]uint16, leader byte, inters []byte, ignore bool, final byte) {
	r.add("hook %v final=%c", params, final)
}
func (r *recorder) Put(b byte) { r.add("put %c", b) }
func (r *recorder) Unhook()    { r.add("unhook") }
func (r *recorder) SosPmApcDispatch(kind byte, data []byte) {
	r.add("str %c %q", kind, data)
}

func parse(input string) *recorder {
	rec := &recorder{}
	p := New(rec)
	p.Advance([]byte(input))
	return rec
}

func TestPrintASCII(t *testing.T) {
	rec := parse("AB")
	want := []string{`print 'A'`, `print 'B'`}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("expected %v, got %v", want, rec.events)
	}
}

func TestPrintUTF8(t *testing.T) {
	rec := parse("é世🎉")
	want := []string{`print 'é'`, `print '世'`, `print '🎉'`}
	for i, w := range want {
		if i >= len(rec.events) || rec.events[i] != w {
			t.Fatalf("expected %v, got %v", want, rec.events)
		}
	}
}

func TestMalformedUTF8(t *testing.T) {
	// A lead byte followed by a non-continuation byte yields U+FFFD and
	// the following byte is reprocessed.
	rec := parse("\xc3A")
	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %v", rec.events)
	}
	if rec.events[0] != `print '�'` {
		t.Errorf("expected replacement char, got %s", rec.events[0])
	}
	if rec.events[1] != `print 'A'` {
		t.Errorf("expected 'A' after replacement, got %s", rec.events[1])
	}
}

func TestStrayContinuationByte(t *testing.T) {
	rec := parse("\x80")
	if len(rec.events) != 1 || rec.events[0] != `print '�'` {
		t.Errorf("expected single replacement char, got %v", rec.events)
	}
}

func TestExecuteC0(t *testing.T) {
	rec := parse("\x07\x0a")
	want := []string{"execute 0x7", "execute 0xa"}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("expected %v, got %v", want, rec.events)
	}
}

func TestExecuteResetsUTF8Decoder(t *testing.T) {
	// Control byte in the middle of a multi-byte sequence aborts it.
	rec := parse("\xe4\x07")
	if len(rec.events) != 1 || rec.events[0] != "execute 0x7" {
		t.Errorf("expected execute only, got %v", rec.events)
	}
}

func TestCsiNoParams(t *testing.T) {
	rec := parse("\x1b[H")
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %v", rec.events)
	}
	if !strings.HasPrefix(rec.events[0], "csi []") {
		t.Errorf("expected empty params, got %s", rec.events[0])
	}
	if !strings.Contains(rec.events[0], "final=H") {
		t.Errorf("expected final H, got %s", rec.events[0])
	}
}

func TestCsiParams(t *testing.T) {
	rec := parse("\x1b[2;3H")
	if len(rec.events) != 1 || !strings.HasPrefix(rec.events[0], "csi [[2] [3]]") {
		t.Errorf("expected params [[2] [3]], got %v", rec.events)
	}
}

func TestCsiEmptyParam(t *testing.T) {
	rec := parse("\x1b[;5H")
	if len(rec.events) != 1 || !strings.HasPrefix(rec.events[0], "csi [[0] [5]]") {
		t.Errorf("expected params [[0] [5]], got %v", rec.events)
	}
}

func TestCsiSubParams(t *testing.T) {
	rec := parse("\x1b[38:2:10:20:30m")
	if len(rec.events) != 1 || !strings.HasPrefix(rec.events[0], "csi [[38 2 10 20 30]]") {
		t.Errorf("expected one sub-param group, got %v", rec.events)
	}
}

func TestCsiLeader(t *testing.T) {
	rec := parse("\x1b[?25h")
	if len(rec.events) != 1 || !strings.Contains(rec.events[0], `leader='?'`) {
		t.Errorf("expected leader '?', got %v", rec.events)
	}
}

func TestCsiIntermediate(t *testing.T) {
	rec := parse("\x1b[2 q")
	if len(rec.events) != 1 || !strings.Contains(rec.events[0], `inters=" "`) {
		t.Errorf("expected space intermediate, got %v", rec.events)
	}
}

func TestCsiParamCap(t *testing.T) {
	// 20 params; groups beyond MaxParams are dropped but the sequence
	// still dispatches.
	var sb strings.Builder
	sb.WriteString("\x1b[")
	for i := 0; i < 20; i++ {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%d", i)
	}
	sb.WriteByte('m')

	rec := &recorder{}
	p := New(rec)
	p.Advance([]byte(sb.String()))

	if len(rec.events) != 1 {
		t.Fatalf("expected dispatch despite overflow, got %v", rec.events)
	}
	count := strings.Count(rec.events[0], "[") - 1 // outer bracket
	if count != MaxParams {
		t.Errorf("expected %d param groups, got %d: %s", MaxParams, count, rec.events[0])
	}
}

func TestCsiParamValueClamp(t *testing.T) {
	rec := parse("\x1b[99999999d")
	if len(rec.events) != 1 || !strings.HasPrefix(rec.events[0], "csi [[65535]]") {
		t.Errorf("expected clamped param, got %v", rec.events)
	}
}

func TestEscDispatch(t *testing.T) {
	rec := parse("\x1bM")
	if len(rec.events) != 1 || rec.events[0] != `esc inters="" final=M` {
		t.Errorf("expected RI dispatch, got %v", rec.events)
	}
}

func TestEscIntermediate(t *testing.T) {
	rec := parse("\x1b(0")
	if len(rec.events) != 1 || rec.events[0] != `esc inters="(" final=0` {
		t.Errorf("expected charset designation, got %v", rec.events)
	}
}

func TestOscBelTerminated(t *testing.T) {
	rec := parse("\x1b]0;hello\x07")
	if len(rec.events) != 1 || rec.events[0] != `osc "0;hello" bell=true` {
		t.Errorf("expected OSC with bell, got %v", rec.events)
	}
}

func TestOscStTerminated(t *testing.T) {
	rec := parse("\x1b]2;title\x1b\\")
	if len(rec.events) < 1 || rec.events[0] != `osc "2;title" bell=false` {
		t.Errorf("expected OSC with ST, got %v", rec.events)
	}
}

func TestDcsHookPutUnhook(t *testing.T) {
	rec := parse("\x1bP0;1q#0\x1b\\")
	want := []string{"hook [[0] [1]] final=q", "put #", "put 0", "unhook"}
	if len(rec.events) < 4 {
		t.Fatalf("expected at least 4 events, got %v", rec.events)
	}
	for i, w := range want {
		if rec.events[i] != w {
			t.Errorf("event %d: expected %q, got %q", i, w, rec.events[i])
		}
	}
}

func TestCanAbortsSequence(t *testing.T) {
	rec := parse("\x1b[12\x18A")
	want := []string{"execute 0x18", `print 'A'`}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("expected abort then print, got %v", rec.events)
	}
}

func TestCanAbortsDcs(t *testing.T) {
	rec := parse("\x1bPq12\x18")
	last := rec.events[len(rec.events)-2]
	if last != "unhook" {
		t.Errorf("expected unhook before execute, got %v", rec.events)
	}
}

func TestApcString(t *testing.T) {
	rec := parse("\x1b_Gpayload\x1b\\")
	if len(rec.events) < 1 || rec.events[0] != `str _ "Gpayload"` {
		t.Errorf("expected APC dispatch, got %v", rec.events)
	}
}

func TestDelIgnored(t *testing.T) {
	rec := parse("A\x7fB")
	if len(rec.events) != 2 {
		t.Errorf("expected DEL to be ignored, got %v", rec.events)
	}
}

func TestTotality(t *testing.T) {
	// Feed every byte value in several states; the machine must always
	// return to a defined state and never panic.
	p := New(&recorder{})
	for i := 0; i < 256; i++ {
		p.Advance([]byte{0x1b, '[', byte(i)})
	}
	for i := 0; i < 256; i++ {
		p.Advance([]byte{byte(i)})
	}
	p.Advance([]byte("\x1b[mA"))
	if p.State() != StateGround {
		t.Errorf("expected Ground after fuzz, got %v", p.State())
	}
}
