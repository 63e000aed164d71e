package fea

import (
	"bytes"
	"testing"

	"github.com/npillmayer/otfea/ot"
)

func TestValueRecordFormats(t *testing.T) {
	tests := []struct {
		vr   ValueRecord
		want string
	}{
		{ValueRecord{}, "<NULL>"},
		{ValueRecord{XAdvance: ot.Some(-40)}, "<0 0 -40 0>"},
		{ValueRecord{XPlacement: ot.Some(10), XAdvance: ot.Some(20)}, "<10 0 20 0>"},
		{ValueRecord{XPlacement: ot.Some(1), XPlaDevice: true},
			"<1 0 0 0 <device NULL> <device NULL> <device NULL> <device NULL>>"},
	}
	for i, test := range tests {
		if got := test.vr.AsFea(""); got != test.want {
			t.Errorf("test #%d: expected %q, have %q", i, test.want, got)
		}
	}
	if !(ValueRecord{}).IsEmpty() {
		t.Errorf("expected zero value record to be empty")
	}
	if (ValueRecord{YAdvDevice: true}).IsEmpty() {
		t.Errorf("expected value record with device to be non-empty")
	}
}

func TestAnchors(t *testing.T) {
	var null *Anchor
	if null.AsFea("") != "<anchor NULL>" {
		t.Errorf("expected nil anchor to render as NULL anchor, is %q", null.AsFea(""))
	}
	a := &Anchor{X: 120, Y: -5}
	if a.AsFea("") != "<anchor 120 -5>" {
		t.Errorf("unexpected anchor rendering %q", a.AsFea(""))
	}
	a.ContourPoint = ot.Some(7)
	if a.AsFea("") != "<anchor 120 -5 contourpoint 7>" {
		t.Errorf("unexpected contour anchor rendering %q", a.AsFea(""))
	}
}

func TestRules(t *testing.T) {
	def := &GlyphClassDefinition{Name: "GlyphClass3", Glyphs: []string{"a", "b"}}
	pair := &Positioning{
		Glyphs: []GlyphContainer{GlyphName{"T"}, GlyphClassName{def}},
		Values: []ValueRecord{{XAdvance: ot.Some(-50)}, {}},
	}
	if s := pair.AsFea(""); s != "pos T <0 0 -50 0> @GlyphClass3 <NULL>;" {
		t.Errorf("unexpected pair rule %q", s)
	}
	curs := &CursivePos{Glyphs: GlyphName{"alef"}, Exit: &Anchor{X: 10, Y: 20}}
	if s := curs.AsFea(""); s != "pos cursive alef <anchor NULL> <anchor 10 20>;" {
		t.Errorf("unexpected cursive rule %q", s)
	}
	top := &MarkClass{Name: "Anchor1_0"}
	mdef := &MarkClassDefinition{Class: top, Anchor: &Anchor{X: 0, Y: 500}, Glyphs: GlyphClass{[]string{"acute", "grave"}}}
	if s := mdef.AsFea(""); s != "markClass [acute grave] <anchor 0 500> @Anchor1_0;" {
		t.Errorf("unexpected mark class definition %q", s)
	}
	base := &MarkBasePos{Base: GlyphName{"a"}, Marks: []MarkAttachment{
		{Anchor: &Anchor{X: 250, Y: 450}, Class: top},
		{Class: &MarkClass{Name: "Anchor1_1"}},
	}}
	if s := base.AsFea(""); s != "pos base a <anchor 250 450> mark @Anchor1_0 <anchor NULL> mark @Anchor1_1;" {
		t.Errorf("unexpected mark-to-base rule %q", s)
	}
	if s := def.AsFea(""); s != "@GlyphClass3 = [a b];" {
		t.Errorf("unexpected class definition %q", s)
	}
}

func TestLookupFlags(t *testing.T) {
	if s := (LookupFlag{ot.LOOKUP_FLAG_RIGHT_TO_LEFT | ot.LOOKUP_FLAG_IGNORE_MARKS}).AsFea(""); s != "lookupflag RightToLeft IgnoreMarks;" {
		t.Errorf("unexpected lookup flag %q", s)
	}
	if s := (LookupFlag{0x0208}).AsFea(""); s != "lookupflag 520;" {
		t.Errorf("unexpected numeric lookup flag %q", s)
	}
}

func TestBlocksAndFile(t *testing.T) {
	r := &Routine{Name: "PairPositioning1", Flags: ot.LOOKUP_FLAG_IGNORE_MARKS}
	r.Add(&Positioning{
		Glyphs: []GlyphContainer{GlyphName{"A"}},
		Values: []ValueRecord{{XAdvance: ot.Some(5)}},
	})
	feat := &FeatureBlock{Tag: "kern"}
	feat.Add(ScriptStatement{"latn"}, LanguageStatement{"TRK"}, LookupReference{r.Name})
	f := &File{}
	f.Add(LanguageSystem{"latn", "dflt"}, r, feat)
	want := `languagesystem latn dflt;
lookup PairPositioning1 {
    lookupflag IgnoreMarks;
    pos A <0 0 5 0>;
} PairPositioning1;
feature kern {
    script latn;
    language TRK;
    lookup PairPositioning1;
} kern;
`
	if got := f.AsFea(); got != want {
		t.Errorf("unexpected feature file:\n%s\nexpected:\n%s", got, want)
	}
	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil || int(n) != len(want) || buf.String() != want {
		t.Errorf("WriteTo did not write the feature file: n=%d, err=%v", n, err)
	}
}

func TestDiagnosticIndentation(t *testing.T) {
	d := &Diagnostic{Kind: "Mark to Mark pos", Dump: []string{"<Lookup>", "</Lookup>"}}
	r := &Routine{Name: "MarkToMark1", Statements: []Statement{d}}
	want := `lookup MarkToMark1 {
    # XXX Unparsable rule: Mark to Mark pos
    # ----
    # <Lookup>
    # </Lookup>
    # ----
} MarkToMark1;`
	if got := r.AsFea(""); got != want {
		t.Errorf("unexpected diagnostic rendering:\n%s", got)
	}
}
