package unparse

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newTestUnparser(opts ...Option) *unparser {
	u := &unparser{namer: ot.SyntheticNames, config: DefaultConfig()}
	for _, opt := range opts {
		opt(u)
	}
	u.registry = NewRegistry(u.namer, u.config.ClassShareMin)
	return u
}

func render(r *fea.Routine) []string {
	lines := make([]string, len(r.Statements))
	for i, s := range r.Statements {
		lines[i] = s.AsFea("")
	}
	return lines
}

func TestInvertClassDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	g1, g2, g3 := ot.GlyphIndex(1), ot.GlyphIndex(2), ot.GlyphIndex(3)
	cdef1 := ot.NewClassDefinitions(map[ot.GlyphIndex]uint16{g1: 1, g2: 1})
	cov := ot.NewCoverage(g1, g2, g3)
	classes := InvertClassDef(cdef1, &cov)
	if !slices.Equal(classes[0], []ot.GlyphIndex{g3}) {
		t.Errorf("expected class 0 to be {g3}, is %v", classes[0])
	}
	if !slices.Equal(classes[1], []ot.GlyphIndex{g1, g2}) {
		t.Errorf("expected class 1 to be {g1,g2}, is %v", classes[1])
	}
	classes = InvertClassDef(ot.NewClassDefinitions(nil), nil)
	if len(classes[0]) != 0 {
		t.Errorf("expected class 0 of second class def to be empty, is %v", classes[0])
	}
}

func TestSinglePositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser(WithGlyphNamer(ot.GlyphNames{".notdef", "A", "B"}))
	lookup := &ot.LookupTable{
		Type: ot.GPosLookupTypeSingle,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeSingle,
			Format:     1,
			Coverage:   ot.NewCoverage(1, 2),
			GPos: ot.GPosLookupPayload{SingleFmt1: &ot.GPosSingleFmt1Payload{
				ValueFormat: ot.ValueFormatYPlacement,
				Value:       ot.ValueRecord{YPlacement: -30},
			}},
		}},
	}
	r, deps, err := u.decodeLookup(0, lookup)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependencies, have %v", deps)
	}
	want := []string{"pos A <0 -30 0 0>;", "pos B <0 -30 0 0>;"}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, have %v", want, got)
	}
	if r.Name != "SinglePositioning1" {
		t.Errorf("unexpected routine name %s", r.Name)
	}
	r, _, err = u.decodeLookup(1, singleAdjustments(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"pos A <0 0 10 0>;", "pos B <0 0 20 0>;"}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, have %v", want, got)
	}
}

func TestPairPositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	r, _, err := u.decodeLookup(0, pairAdjustments(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"pos glyph00001 <0 0 -50 0> glyph00002 <NULL>;",
		"pos glyph00001 <0 0 -50 0> glyph00003 <NULL>;",
	}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, have %v", want, got)
	}
}

func TestPairClassPositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	payload := &ot.GPosPairFmt2Payload{
		ValueFormat1: ot.ValueFormatXAdvance,
		ClassDef1:    ot.NewClassDefinitions(map[ot.GlyphIndex]uint16{1: 1, 2: 1}),
		ClassDef2:    ot.NewClassDefinitions(map[ot.GlyphIndex]uint16{5: 1}),
		Class1Count:  2,
		Class2Count:  2,
		ClassRecords: []ot.GPosClass1Record{
			{Class2Records: []ot.GPosClass2ValueRecord{{}, {Value1: ot.ValueRecord{XAdvance: -10}}}},
			{Class2Records: []ot.GPosClass2ValueRecord{
				{Value1: ot.ValueRecord{XAdvance: -99}}, // class 2/0 has no glyphs
				{Value1: ot.ValueRecord{XAdvance: -20}},
			}},
		},
	}
	lookup := &ot.LookupTable{
		Type: ot.GPosLookupTypePair,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypePair,
			Format:     2,
			Coverage:   ot.NewCoverage(1, 2, 3),
			GPos:       ot.GPosLookupPayload{PairFmt2: payload},
		}},
	}
	r, _, err := u.decodeLookup(0, lookup)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"pos glyph00003 <0 0 -10 0> glyph00005 <NULL>;",
		"pos [glyph00001 glyph00002] <0 0 -20 0> glyph00005 <NULL>;",
	}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, have %v", want, got)
	}
	// inconsistent class counts
	payload.Class2Count = 3
	_, _, err = u.decodeLookup(7, lookup)
	var serr *ot.StructuralError
	if !errors.As(err, &serr) || serr.Lookup != 7 || serr.Subtable != 0 {
		t.Errorf("expected structural error for lookup 7, subtable 0, have %v", err)
	}
}

func TestCursiveAttachment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	lookup := &ot.LookupTable{
		Type: ot.GPosLookupTypeCursive,
		Flag: ot.LOOKUP_FLAG_RIGHT_TO_LEFT,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeCursive,
			Format:     1,
			Coverage:   ot.NewCoverage(4, 5),
			GPos: ot.GPosLookupPayload{CursiveFmt1: &ot.GPosCursiveFmt1Payload{
				Entries: []ot.GPosEntryExitAnchor{
					{Entry: ot.NewAnchor(0, 100)},
					{Entry: ot.NewAnchor(10, 100), Exit: ot.NewAnchor(500, 100)},
				},
			}},
		}},
	}
	r, _, err := u.decodeLookup(0, lookup)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"pos cursive glyph00004 <anchor 0 100> <anchor NULL>;",
		"pos cursive glyph00005 <anchor 10 100> <anchor 500 100>;",
	}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected %v, have %v", want, got)
	}
	if !strings.Contains(r.AsFea(""), "lookupflag RightToLeft;") {
		t.Errorf("expected lookup flag in routine:\n%s", r.AsFea(""))
	}
	lookup.Subtables[0].GPos.CursiveFmt1.Entries = lookup.Subtables[0].GPos.CursiveFmt1.Entries[:1]
	if _, _, err = u.decodeLookup(0, lookup); !errors.Is(err, ot.ErrMalformed) {
		t.Errorf("expected short entry/exit array to be malformed, have %v", err)
	}
}

func markToBase() *ot.LookupTable {
	return &ot.LookupTable{
		Type: ot.GPosLookupTypeMarkToBase,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeMarkToBase,
			Format:     1,
			Coverage:   ot.NewCoverage(10, 11, 12),
			GPos: ot.GPosLookupPayload{MarkToBaseFmt1: &ot.GPosMarkToBaseFmt1Payload{
				BaseCoverage:   ot.NewCoverage(1, 2, 3),
				MarkClassCount: 2,
				MarkRecords: []ot.GPosMarkAttachRecord{
					{Class: 0, Anchor: ot.NewAnchor(0, 500)},
					{Class: 0, Anchor: ot.NewAnchor(0, 500)},
					{Class: 1, Anchor: ot.NewAnchor(0, -50)},
				},
				BaseRecords: []ot.GPosBaseAttachRecord{
					{Anchors: []*ot.Anchor{ot.NewAnchor(100, 600), ot.NewAnchor(100, 0)}},
					{Anchors: []*ot.Anchor{ot.NewAnchor(100, 600), ot.NewAnchor(100, 0)}},
					{Anchors: []*ot.Anchor{ot.NewAnchor(200, 600), nil}},
				},
			}},
		}},
	}
}

func TestMarkToBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	r, _, err := u.decodeLookup(0, markToBase())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"markClass [glyph00010 glyph00011] <anchor 0 500> @Anchor2_0;",
		"markClass glyph00012 <anchor 0 -50> @Anchor2_1;",
		"pos base [glyph00001 glyph00002] <anchor 100 600> mark @Anchor2_0 <anchor 100 0> mark @Anchor2_1;",
		"pos base glyph00003 <anchor 200 600> mark @Anchor2_0 <anchor NULL> mark @Anchor2_1;",
	}
	if got := render(r); !slices.Equal(got, want) {
		t.Errorf("expected\n%s\nhave\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestMarkToBaseMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	lookup := markToBase()
	lookup.Subtables[0].GPos.MarkToBaseFmt1.MarkRecords[2].Class = 2
	_, _, err := u.decodeLookup(3, lookup)
	var serr *ot.StructuralError
	if !errors.As(err, &serr) || serr.Lookup != 3 {
		t.Errorf("expected structural error for mark class out of range, have %v", err)
	}
	lookup = markToBase()
	lookup.Subtables[0].GPos.MarkToBaseFmt1.MarkRecords[0].Anchor = nil
	if _, _, err = u.decodeLookup(3, lookup); !errors.Is(err, ot.ErrMalformed) {
		t.Errorf("expected missing mark anchor to be malformed, have %v", err)
	}
}

func TestMarkToBaseWithoutMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	lookup := markToBase()
	lookup.Subtables[0].Coverage = ot.NewCoverage()
	lookup.Subtables[0].GPos.MarkToBaseFmt1.MarkRecords = nil
	r, _, err := u.decodeLookup(0, lookup)
	if err != nil {
		t.Fatal(err)
	}
	if got := render(r); len(got) != 0 {
		t.Errorf("expected no rules for subtable without marks, have\n%s", strings.Join(got, "\n"))
	}
}

func TestMarkToMarkIsUnparsable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	lookup := &ot.LookupTable{
		Type: ot.GPosLookupTypeMarkToMark,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeMarkToMark,
			Format:     1,
			Coverage:   ot.NewCoverage(10),
			GPos: ot.GPosLookupPayload{MarkToMarkFmt1: &ot.GPosMarkToMarkFmt1Payload{
				Mark2Coverage:  ot.NewCoverage(12),
				MarkClassCount: 1,
				Mark1Records:   []ot.GPosMarkAttachRecord{{Class: 0, Anchor: ot.NewAnchor(100, 200)}},
				Mark2Records:   []ot.GPosBaseAttachRecord{{Anchors: []*ot.Anchor{ot.NewAnchor(50, 500)}}},
			}},
		}},
	}
	r, deps, err := u.decodeLookup(2, lookup)
	if err != nil {
		t.Fatalf("expected unsupported lookup not to fail, have %v", err)
	}
	if len(deps) != 0 || len(r.Statements) != 1 {
		t.Fatalf("expected single statement without dependencies, have %d", len(r.Statements))
	}
	d, ok := r.Statements[0].(*fea.Diagnostic)
	if !ok {
		t.Fatalf("expected diagnostic, is %T", r.Statements[0])
	}
	text := d.AsFea("")
	if !strings.HasPrefix(text, fea.DiagnosticPrefix+"Mark to Mark pos") {
		t.Errorf("expected diagnostic to reference 'Mark to Mark pos', is\n%s", text)
	}
	if !strings.Contains(text, `# <Lookup index="2">`) {
		t.Errorf("expected diagnostic to contain a structural dump, is\n%s", text)
	}
}

func TestChainedContextIsUnparsable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	r, deps, err := u.decodeLookup(0, chainedContext(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 0 {
		t.Errorf("expected decoder to declare no dependencies, have %v", deps)
	}
	if !strings.HasPrefix(r.Statements[0].AsFea(""), fea.DiagnosticPrefix+"Chained Contextual pos") {
		t.Errorf("unexpected diagnostic %s", r.Statements[0].AsFea(""))
	}
}

func TestExtension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	inner := singleAdjustments(1, 2)
	inner.Subtables = append(inner.Subtables, singleAdjustments(3).Subtables...)
	ext := extension(inner)
	//
	u := newTestUnparser()
	r, _, err := u.decodeLookup(0, ext)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Statements) != 2 || !strings.HasPrefix(r.Name, "SinglePositioning") {
		t.Errorf("expected first wrapped subtable only, have %v", render(r))
	}
	//
	conf := DefaultConfig()
	conf.ExtensionSubtables = true
	u = newTestUnparser(WithConfig(conf))
	r, _, err = u.decodeLookup(0, ext)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Statements) != 3 {
		t.Errorf("expected all wrapped subtables, have %v", render(r))
	}
	//
	ext.Subtables[0].GPos.ExtensionFmt1.Resolved = nil
	if _, _, err = u.decodeLookup(0, ext); !errors.Is(err, ot.ErrMalformed) {
		t.Errorf("expected empty extension to be malformed, have %v", err)
	}
}

func TestUnknownLookupType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	u := newTestUnparser()
	r, _, err := u.decodeLookup(0, &ot.LookupTable{Type: 12})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(r.Statements[0].AsFea(""), fea.DiagnosticPrefix+"Unknown lookup type 12") {
		t.Errorf("unexpected diagnostic %s", r.Statements[0].AsFea(""))
	}
}
