package vtcore

import "testing"

func TestRegistrySelectByShape(t *testing.T) {
	r := NewFunctionRegistry()

	seq := &Sequence{Category: CategoryCSI, Final: 'H', Params: [][]uint16{{2}, {3}}}
	def := r.Select(seq)
	if def == nil || def.ID != FuncCUP {
		t.Fatalf("expected CUP, got %+v", def)
	}
}

func TestRegistryLeaderDisambiguates(t *testing.T) {
	r := NewFunctionRegistry()

	plain := r.Select(&Sequence{Category: CategoryCSI, Final: 'c'})
	if plain == nil || plain.ID != FuncDA1 {
		t.Fatalf("expected DA1, got %+v", plain)
	}

	secondary := r.Select(&Sequence{Category: CategoryCSI, Leader: '>', Final: 'c'})
	if secondary == nil || secondary.ID != FuncDA2 {
		t.Fatalf("expected DA2, got %+v", secondary)
	}
}

func TestRegistryIntermediateDisambiguates(t *testing.T) {
	r := NewFunctionRegistry()

	sgr := r.Select(&Sequence{Category: CategoryCSI, Final: 'm'})
	if sgr == nil || sgr.ID != FuncSGR {
		t.Fatalf("expected SGR, got %+v", sgr)
	}

	decstr := r.Select(&Sequence{Category: CategoryCSI, Inters: "!", Final: 'p'})
	if decstr == nil || decstr.ID != FuncDECSTR {
		t.Fatalf("expected DECSTR, got %+v", decstr)
	}
}

func TestRegistryArityDisambiguates(t *testing.T) {
	r := NewFunctionRegistry()

	// CSI s without parameters is the ANSI.SYS cursor save; with
	// parameters it sets the horizontal margins.
	save := r.Select(&Sequence{Category: CategoryCSI, Final: 's'})
	if save == nil || save.ID != FuncSCOSC {
		t.Fatalf("expected SCOSC, got %+v", save)
	}

	margins := r.Select(&Sequence{Category: CategoryCSI, Final: 's', Params: [][]uint16{{5}, {10}}})
	if margins == nil || margins.ID != FuncDECSLRM {
		t.Fatalf("expected DECSLRM, got %+v", margins)
	}
}

func TestRegistryUnknownSequence(t *testing.T) {
	r := NewFunctionRegistry()

	if def := r.Select(&Sequence{Category: CategoryCSI, Inters: "%%", Final: '~'}); def != nil {
		t.Errorf("expected nil for unknown shape, got %+v", def)
	}
}

func TestRegistryOscLookup(t *testing.T) {
	r := NewFunctionRegistry()

	if def := r.SelectOsc(8); def == nil || def.ID != FuncHYPERLINK {
		t.Fatalf("expected hyperlink for OSC 8, got %+v", def)
	}
	if def := r.SelectOsc(31337); def != nil {
		t.Errorf("expected nil for unknown OSC code")
	}
}

func TestSequenceParamHelpers(t *testing.T) {
	seq := &Sequence{Params: [][]uint16{{0}, {5, 2, 1}, {7}}}

	if seq.Param(0) != 0 || seq.ParamOr(0, 9) != 9 {
		t.Errorf("expected zero param to default")
	}
	if seq.Param(1) != 5 {
		t.Errorf("expected primary sub-param 5")
	}
	if got := seq.SubParams(1); len(got) != 3 || got[1] != 2 {
		t.Errorf("unexpected sub-params %v", got)
	}
	if seq.Param(9) != 0 {
		t.Errorf("expected missing param to read 0")
	}
}

func TestUnknownCsiSequenceIsNoop(t *testing.T) {
	s := NewScreen(WithSize(4, 10))

	s.WriteString("abc\x1b[?1234z def")

	// The unknown sequence is swallowed; surrounding text is intact.
	if content := s.LineContent(0); content != "abc def" {
		t.Errorf("expected 'abc def', got %q", content)
	}
}

func TestFunctionTableHasDocs(t *testing.T) {
	r := NewFunctionRegistry()
	for _, def := range r.Functions() {
		if def.Name == "" || def.Doc == "" {
			t.Errorf("function %v missing name or doc", def.ID)
		}
	}
}
