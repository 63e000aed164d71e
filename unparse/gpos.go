package unparse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
)

// Routine name prefixes per GPOS lookup type.
var routinePrefix = map[ot.LayoutTableLookupType]string{
	ot.GPosLookupTypeSingle:            "SinglePositioning",
	ot.GPosLookupTypePair:              "PairPositioning",
	ot.GPosLookupTypeCursive:           "CursiveAttachment",
	ot.GPosLookupTypeMarkToBase:        "MarkToBase",
	ot.GPosLookupTypeMarkToLigature:    "MarkToLigature",
	ot.GPosLookupTypeMarkToMark:        "MarkToMark",
	ot.GPosLookupTypeContextPos:        "ContextualPositioning",
	ot.GPosLookupTypeChainedContextPos: "ChainedContextualPositioning",
}

// Kinds of lookups without a semantic decoding.
const (
	kindMarkToLigature = "Mark to lig pos"
	kindMarkToMark     = "Mark to Mark pos"
	kindContextual     = "Contextual pos"
	kindChained        = "Chained Contextual pos"
)

// decodeLookup decodes one lookup into a routine. Dependencies returned are
// those the routine's rules invoke by name; no decoder currently emits
// references to other lookups.
func (u *unparser) decodeLookup(index int, lookup *ot.LookupTable) (*fea.Routine, []int, error) {
	if lookup == nil {
		return nil, nil, ot.Malformed(index, ot.NoSubtable, "LookupList", "lookup is missing")
	}
	return u.decodeAs(index, lookup, lookup.Type, lookup.Subtables)
}

func (u *unparser) decodeAs(index int, lookup *ot.LookupTable, lt ot.LayoutTableLookupType,
	nodes []*ot.LookupNode) (*fea.Routine, []int, error) {
	//
	tracer().Debugf("decoding lookup #%d of type %s", index, lt.GPosString())
	var err error
	var r *fea.Routine
	switch lt {
	case ot.GPosLookupTypeSingle:
		r = u.newRoutine(lt, lookup)
		err = u.decodeSingle(r, index, nodes)
	case ot.GPosLookupTypePair:
		r = u.newRoutine(lt, lookup)
		err = u.decodePair(r, index, nodes)
	case ot.GPosLookupTypeCursive:
		r = u.newRoutine(lt, lookup)
		err = u.decodeCursive(r, index, nodes)
	case ot.GPosLookupTypeMarkToBase:
		r = u.newRoutine(lt, lookup)
		err = u.decodeMarkToBase(r, index, nodes)
	case ot.GPosLookupTypeMarkToLigature:
		r = u.unparsable(lt, lookup, index, kindMarkToLigature)
	case ot.GPosLookupTypeMarkToMark:
		r = u.unparsable(lt, lookup, index, kindMarkToMark)
	case ot.GPosLookupTypeContextPos:
		r = u.unparsable(lt, lookup, index, kindContextual)
	case ot.GPosLookupTypeChainedContextPos:
		r = u.unparsable(lt, lookup, index, kindChained)
	case ot.GPosLookupTypeExtensionPos:
		return u.decodeExtension(index, lookup, nodes)
	default:
		r = u.unparsable(lt, lookup, index, fmt.Sprintf("Unknown lookup type %d", lt))
	}
	if err != nil {
		tracer().Errorf("cannot decode lookup #%d: %v", index, err)
		return nil, nil, err
	}
	return r, nil, nil
}

func (u *unparser) newRoutine(lt ot.LayoutTableLookupType, lookup *ot.LookupTable) *fea.Routine {
	prefix, ok := routinePrefix[lt]
	if !ok {
		prefix = "Lookup"
	}
	return &fea.Routine{
		Name:  u.registry.Gensym(prefix),
		Flags: lookup.Flag,
	}
}

// unparsable creates a routine consisting of a single diagnostic, containing
// a structural dump of the lookup.
func (u *unparser) unparsable(lt ot.LayoutTableLookupType, lookup *ot.LookupTable, index int, kind string) *fea.Routine {
	tracer().Infof("lookup #%d: unparsable rule: %s", index, kind)
	r := u.newRoutine(lt, lookup)
	r.Add(&fea.Diagnostic{Kind: kind, Dump: ot.DumpXML(lookup, index)})
	return r
}

// --- Extension -------------------------------------------------------------

func (u *unparser) decodeExtension(index int, lookup *ot.LookupTable, nodes []*ot.LookupNode) (*fea.Routine, []int, error) {
	const section = "ExtensionPos"
	if len(nodes) == 0 {
		return nil, nil, ot.Malformed(index, ot.NoSubtable, section, "extension lookup without subtables")
	}
	var inner []*ot.LookupNode
	var innerType ot.LayoutTableLookupType
	for j, node := range nodes {
		if node == nil || node.GPos.ExtensionFmt1 == nil || node.GPos.ExtensionFmt1.Resolved == nil {
			if j == 0 {
				return nil, nil, ot.Malformed(index, j, section, "extension subtable does not wrap a subtable")
			}
			continue
		}
		ext := node.GPos.ExtensionFmt1
		t := ext.WrappedType()
		if j == 0 {
			if t == ot.GPosLookupTypeExtensionPos {
				return nil, nil, ot.Malformed(index, j, section, "extension subtable wraps another extension")
			}
			innerType = t
		} else if !u.config.ExtensionSubtables || t != innerType {
			continue
		}
		inner = append(inner, ext.Resolved)
	}
	if len(inner) < len(nodes) {
		tracer().Infof("extension lookup #%d: decoding %d of %d subtables", index, len(inner), len(nodes))
	}
	return u.decodeAs(index, lookup, innerType, inner)
}

// --- Single positioning ----------------------------------------------------

func (u *unparser) decodeSingle(r *fea.Routine, index int, nodes []*ot.LookupNode) error {
	const section = "SinglePos"
	for j, node := range nodes {
		if node == nil {
			return ot.Malformed(index, j, section, "subtable is missing")
		}
		glyphs := node.Coverage.Glyphs
		switch {
		case node.GPos.SingleFmt1 != nil:
			p := node.GPos.SingleFmt1
			vr := DecodeValueRecord(p.ValueFormat, p.Value)
			for _, g := range glyphs {
				r.Add(u.positioning([]ot.GlyphIndex{g}, vr))
			}
		case node.GPos.SingleFmt2 != nil:
			p := node.GPos.SingleFmt2
			if len(p.Values) != len(glyphs) {
				return ot.Malformed(index, j, section+"/Values",
					"%d value records for %d coverage glyphs", len(p.Values), len(glyphs))
			}
			for i, g := range glyphs {
				r.Add(u.positioning([]ot.GlyphIndex{g}, DecodeValueRecord(p.ValueFormat, p.Values[i])))
			}
		default:
			return missingPayload(index, j, section, node)
		}
	}
	return nil
}

func (u *unparser) positioning(glyphs []ot.GlyphIndex, vr fea.ValueRecord) *fea.Positioning {
	return &fea.Positioning{
		Glyphs: []fea.GlyphContainer{u.registry.ClassFor(glyphs)},
		Values: []fea.ValueRecord{vr},
	}
}

// --- Pair positioning ------------------------------------------------------

func (u *unparser) decodePair(r *fea.Routine, index int, nodes []*ot.LookupNode) error {
	const section = "PairPos"
	for j, node := range nodes {
		if node == nil {
			return ot.Malformed(index, j, section, "subtable is missing")
		}
		var err error
		switch {
		case node.GPos.PairFmt1 != nil:
			err = u.decodePairGlyphs(r, index, j, node)
		case node.GPos.PairFmt2 != nil:
			err = u.decodePairClasses(r, index, j, node)
		default:
			err = missingPayload(index, j, section, node)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (u *unparser) decodePairGlyphs(r *fea.Routine, index, j int, node *ot.LookupNode) error {
	p := node.GPos.PairFmt1
	glyphs := node.Coverage.Glyphs
	if len(p.PairSets) != len(glyphs) {
		return ot.Malformed(index, j, "PairPos/PairSets",
			"%d pair sets for %d coverage glyphs", len(p.PairSets), len(glyphs))
	}
	for i, first := range glyphs {
		for _, rec := range p.PairSets[i].Records {
			r.Add(&fea.Positioning{
				Glyphs: []fea.GlyphContainer{
					u.registry.ClassFor([]ot.GlyphIndex{first}),
					u.registry.ClassFor([]ot.GlyphIndex{rec.SecondGlyph}),
				},
				Values: []fea.ValueRecord{
					DecodeValueRecord(p.ValueFormat1, rec.Value1),
					DecodeValueRecord(p.ValueFormat2, rec.Value2),
				},
			})
		}
	}
	return nil
}

func (u *unparser) decodePairClasses(r *fea.Routine, index, j int, node *ot.LookupNode) error {
	p := node.GPos.PairFmt2
	if int(p.Class1Count) != len(p.ClassRecords) {
		return ot.Malformed(index, j, "PairPos/Class1Record",
			"%d class-1 records for class count %d", len(p.ClassRecords), p.Class1Count)
	}
	classes1 := InvertClassDef(p.ClassDef1, &node.Coverage)
	classes2 := InvertClassDef(p.ClassDef2, nil)
	for c1, row := range p.ClassRecords {
		if int(p.Class2Count) != len(row.Class2Records) {
			return ot.Malformed(index, j, "PairPos/Class2Record",
				"%d class-2 records in row %d for class count %d", len(row.Class2Records), c1, p.Class2Count)
		}
		for c2, rec := range row.Class2Records {
			v1 := DecodeValueRecord(p.ValueFormat1, rec.Value1)
			v2 := DecodeValueRecord(p.ValueFormat2, rec.Value2)
			if v1.IsEmpty() && v2.IsEmpty() {
				continue
			}
			first, second := classes1[uint16(c1)], classes2[uint16(c2)]
			if len(first) == 0 || len(second) == 0 {
				tracer().Debugf("lookup #%d/%d: skipping class cell (%d,%d) without glyphs", index, j, c1, c2)
				continue
			}
			r.Add(&fea.Positioning{
				Glyphs: []fea.GlyphContainer{u.registry.ClassFor(first), u.registry.ClassFor(second)},
				Values: []fea.ValueRecord{v1, v2},
			})
		}
	}
	return nil
}

// InvertClassDef turns a class definition into a mapping class → glyphs, each
// glyph set in ascending glyph order. If coverage is given, class 0 holds
// the coverage glyphs not explicitly classified. Without a coverage, class 0
// is empty.
func InvertClassDef(cdef ot.ClassDefinitions, coverage *ot.Coverage) map[uint16][]ot.GlyphIndex {
	classes := make(map[uint16][]ot.GlyphIndex)
	for g, c := range cdef.Range() {
		classes[c] = append(classes[c], g)
	}
	if coverage != nil {
		var zero []ot.GlyphIndex
		for _, g := range coverage.Glyphs {
			if !cdef.Classified(g) && !slices.Contains(zero, g) {
				zero = append(zero, g)
			}
		}
		slices.Sort(zero)
		if len(zero) > 0 {
			classes[0] = zero
		}
	}
	return classes
}

// --- Cursive attachment ----------------------------------------------------

func (u *unparser) decodeCursive(r *fea.Routine, index int, nodes []*ot.LookupNode) error {
	const section = "CursivePos"
	for j, node := range nodes {
		if node == nil {
			return ot.Malformed(index, j, section, "subtable is missing")
		}
		p := node.GPos.CursiveFmt1
		if p == nil {
			return missingPayload(index, j, section, node)
		}
		glyphs := node.Coverage.Glyphs
		if len(p.Entries) != len(glyphs) {
			return ot.Malformed(index, j, section+"/EntryExitRecord",
				"%d entry/exit records for %d coverage glyphs", len(p.Entries), len(glyphs))
		}
		for i, g := range glyphs {
			r.Add(&fea.CursivePos{
				Glyphs: u.registry.ClassFor([]ot.GlyphIndex{g}),
				Entry:  DecodeAnchor(p.Entries[i].Entry),
				Exit:   DecodeAnchor(p.Entries[i].Exit),
			})
		}
	}
	return nil
}

// --- Mark to base ----------------------------------------------------------

func (u *unparser) decodeMarkToBase(r *fea.Routine, index int, nodes []*ot.LookupNode) error {
	const section = "MarkBasePos"
	for j, node := range nodes {
		if node == nil {
			return ot.Malformed(index, j, section, "subtable is missing")
		}
		p := node.GPos.MarkToBaseFmt1
		if p == nil {
			return missingPayload(index, j, section, node)
		}
		if err := checkMarkToBase(index, j, node, p); err != nil {
			return err
		}
		prefix := u.registry.Gensym("Anchor")
		classes := u.markClasses(r, prefix, node.Coverage.Glyphs, p.MarkRecords)
		if len(classes) == 0 {
			tracer().Debugf("lookup #%d/%d: no marks, skipping base rules", index, j)
			continue
		}
		u.baseRules(r, prefix, classes, p)
	}
	return nil
}

func checkMarkToBase(index, j int, node *ot.LookupNode, p *ot.GPosMarkToBaseFmt1Payload) error {
	if len(p.MarkRecords) != node.Coverage.Len() {
		return ot.Malformed(index, j, "MarkBasePos/MarkArray",
			"%d mark records for %d coverage glyphs", len(p.MarkRecords), node.Coverage.Len())
	}
	for i, mr := range p.MarkRecords {
		if mr.Anchor == nil {
			return ot.Malformed(index, j, "MarkBasePos/MarkArray", "mark record %d has no anchor", i)
		}
		if mr.Class >= p.MarkClassCount {
			return ot.Malformed(index, j, "MarkBasePos/MarkArray",
				"mark record %d has class %d, class count is %d", i, mr.Class, p.MarkClassCount)
		}
	}
	if len(p.BaseRecords) != p.BaseCoverage.Len() {
		return ot.Malformed(index, j, "MarkBasePos/BaseArray",
			"%d base records for %d base coverage glyphs", len(p.BaseRecords), p.BaseCoverage.Len())
	}
	for i, br := range p.BaseRecords {
		if len(br.Anchors) != int(p.MarkClassCount) {
			return ot.Malformed(index, j, "MarkBasePos/BaseArray",
				"base record %d has %d anchors, class count is %d", i, len(br.Anchors), p.MarkClassCount)
		}
	}
	return nil
}

// markClasses groups marks into anchor classes, deduplicating identical
// (class, x, y) triples, and emits one mark class definition per anchor class.
// It returns the distinct mark classes seen, in ascending order.
func (u *unparser) markClasses(r *fea.Routine, prefix string, marks []ot.GlyphIndex,
	records []ot.GPosMarkAttachRecord) []int {
	//
	var order []*AnchorClass
	var seen []int
	for i, mr := range records {
		a := mr.Anchor
		ac, isNew := u.registry.AnchorClassFor(prefix, int(mr.Class), int(a.XCoordinate), int(a.YCoordinate))
		if isNew {
			ac.Anchor = DecodeAnchor(a)
			order = append(order, ac)
		}
		ac.Glyphs = append(ac.Glyphs, marks[i])
		if !slices.Contains(seen, int(mr.Class)) {
			seen = append(seen, int(mr.Class))
		}
	}
	for _, ac := range order {
		r.Add(&fea.MarkClassDefinition{
			Class:  ac.Mark,
			Anchor: ac.Anchor,
			Glyphs: u.registry.ClassFor(ac.Glyphs),
		})
	}
	slices.Sort(seen)
	return seen
}

// baseRules groups base glyphs by their complete tuple of anchors (one per
// mark class seen) and emits one rule per distinct tuple. A missing anchor
// is kept as a NULL anchor for its mark class.
func (u *unparser) baseRules(r *fea.Routine, prefix string, classes []int, p *ot.GPosMarkToBaseFmt1Payload) {
	type group struct {
		bases []ot.GlyphIndex
		marks []fea.MarkAttachment
	}
	var keys []string
	groups := make(map[string]*group)
	for i, base := range p.BaseCoverage.Glyphs {
		marks := make([]fea.MarkAttachment, len(classes))
		parts := make([]string, len(classes))
		for k, c := range classes {
			anchor := DecodeAnchor(p.BaseRecords[i].Anchors[c])
			marks[k] = fea.MarkAttachment{Anchor: anchor, Class: u.registry.MarkClass(prefix, c)}
			parts[k] = anchor.AsFea("")
		}
		key := strings.Join(parts, " ")
		g, ok := groups[key]
		if !ok {
			g = &group{marks: marks}
			groups[key] = g
			keys = append(keys, key)
		}
		g.bases = append(g.bases, base)
	}
	for _, key := range keys {
		g := groups[key]
		r.Add(&fea.MarkBasePos{Base: u.registry.ClassFor(g.bases), Marks: g.marks})
	}
}

func missingPayload(index, j int, section string, node *ot.LookupNode) error {
	return ot.Malformed(index, j, section, "no payload for lookup type %d format %d",
		node.LookupType, node.Format)
}
