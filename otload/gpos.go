package otload

import (
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/otfea/ot"
)

// ConvertGPOS converts a parsed GPOS layout table into the ot object model.
// numGlyphs is the number of glyphs of the font, needed for enumerating
// pair sets.
func ConvertGPOS(layout tables.Layout, numGlyphs int) (*ot.GPosTable, error) {
	gpos := &ot.GPosTable{
		Scripts:  convertScripts(layout.ScriptList),
		Features: convertFeatures(layout.FeatureList),
	}
	conv := converter{numGlyphs: numGlyphs}
	for i, lk := range layout.LookupList.Lookups {
		lookup, err := conv.convertLookup(i, lk)
		if err != nil {
			return nil, err
		}
		gpos.Lookups = append(gpos.Lookups, lookup)
	}
	return gpos, nil
}

func convertScripts(sl tables.ScriptList) ot.ScriptList {
	var scripts ot.ScriptList
	for i, rec := range sl.Records {
		if i >= len(sl.Scripts) {
			break
		}
		s := sl.Scripts[i]
		script := ot.Script{Tag: ot.Tag(rec.Tag)}
		if s.DefaultLangSys != nil {
			ls := convertLangSys(ot.Dflt, *s.DefaultLangSys)
			script.DefaultLangSys = &ls
		}
		for j, lrec := range s.LangSysRecords {
			if j < len(s.LangSys) {
				script.LangSys = append(script.LangSys, convertLangSys(ot.Tag(lrec.Tag), s.LangSys[j]))
			}
		}
		scripts.Scripts = append(scripts.Scripts, script)
	}
	return scripts
}

const noRequiredFeature = 0xFFFF

func convertLangSys(tag ot.Tag, ls tables.LangSys) ot.LangSys {
	out := ot.LangSys{Tag: tag, FeatureIndices: ls.FeatureIndices}
	if ls.RequiredFeatureIndex != noRequiredFeature {
		out.RequiredFeature = ot.Some(ls.RequiredFeatureIndex)
	}
	return out
}

func convertFeatures(fl tables.FeatureList) ot.FeatureList {
	var features ot.FeatureList
	for i, rec := range fl.Records {
		if i >= len(fl.Features) {
			break
		}
		features.Features = append(features.Features, ot.Feature{
			Tag:               ot.Tag(rec.Tag),
			LookupListIndices: fl.Features[i].LookupListIndices,
		})
	}
	return features
}

// --- Lookups ---------------------------------------------------------------

type converter struct {
	numGlyphs int
	inx       int // index of the lookup being converted
	sub       int // index of the subtable being converted
}

func (conv *converter) malformed(section string, format string, args ...any) error {
	return ot.Malformed(conv.inx, conv.sub, section, format, args...)
}

func (conv *converter) convertLookup(inx int, lk tables.Lookup) (*ot.LookupTable, error) {
	conv.inx, conv.sub = inx, ot.NoSubtable
	subtables, err := lk.AsGPOSLookups()
	if err != nil {
		return nil, conv.malformed("LookupList", "cannot parse subtables: %v", err)
	}
	lookup := &ot.LookupTable{
		Flag:             ot.LayoutTableLookupFlag(lk.LookupFlag),
		MarkFilteringSet: lk.MarkFilteringSet,
	}
	for j, sub := range subtables {
		conv.sub = j
		node, err := conv.node(sub)
		if err != nil {
			return nil, err
		}
		if j == 0 {
			lookup.Type = node.LookupType
		}
		lookup.Subtables = append(lookup.Subtables, node)
	}
	if len(subtables) == 0 {
		tracer().Infof("GPOS lookup #%d has no subtables", inx)
	}
	return lookup, nil
}

func (conv *converter) node(sub tables.GPOSLookup) (*ot.LookupNode, error) {
	switch st := sub.(type) {
	case tables.SinglePos:
		return conv.singlePos(st)
	case tables.PairPos:
		return conv.pairPos(st)
	case tables.CursivePos:
		return conv.cursivePos(st)
	case tables.MarkBasePos:
		return conv.markBasePos(st)
	case tables.MarkLigPos:
		return conv.markLigPos(st)
	case tables.MarkMarkPos:
		return conv.markMarkPos(st)
	case tables.ContextualPos:
		return conv.contextualPos(st)
	case tables.ChainedContextualPos:
		return conv.chainedContextualPos(st)
	case tables.ExtensionPos:
		return conv.extensionPos(st)
	}
	return nil, conv.malformed("LookupList", "unsupported subtable %T", sub)
}

func (conv *converter) singlePos(st tables.SinglePos) (*ot.LookupNode, error) {
	node := &ot.LookupNode{LookupType: ot.GPosLookupTypeSingle, Coverage: coverage(st.Cov())}
	switch d := st.Data.(type) {
	case tables.SinglePosData1:
		node.Format = 1
		node.GPos.SingleFmt1 = &ot.GPosSingleFmt1Payload{
			ValueFormat: ot.ValueFormat(d.ValueFormat),
			Value:       valueRecord(d.ValueRecord),
		}
	case tables.SinglePosData2:
		node.Format = 2
		payload := &ot.GPosSingleFmt2Payload{ValueFormat: ot.ValueFormat(d.ValueFormat)}
		for _, v := range d.ValueRecords {
			payload.Values = append(payload.Values, valueRecord(v))
		}
		node.GPos.SingleFmt2 = payload
	default:
		return nil, conv.malformed("SinglePos", "unsupported format %T", st.Data)
	}
	return node, nil
}

func (conv *converter) pairPos(st tables.PairPos) (*ot.LookupNode, error) {
	node := &ot.LookupNode{LookupType: ot.GPosLookupTypePair, Coverage: coverage(st.Cov())}
	switch d := st.Data.(type) {
	case tables.PairPosData1:
		node.Format = 1
		payload := &ot.GPosPairFmt1Payload{
			ValueFormat1: ot.ValueFormat(d.ValueFormat1),
			ValueFormat2: ot.ValueFormat(d.ValueFormat2),
		}
		for _, set := range d.PairSets {
			payload.PairSets = append(payload.PairSets, conv.pairSet(set))
		}
		node.GPos.PairFmt1 = payload
	case tables.PairPosData2:
		node.Format = 2
		c1, c2 := classExtent(d.ClassDef1), classExtent(d.ClassDef2)
		payload := &ot.GPosPairFmt2Payload{
			ValueFormat1: ot.ValueFormat(d.ValueFormat1),
			ValueFormat2: ot.ValueFormat(d.ValueFormat2),
			ClassDef1:    classDefinitions(d.ClassDef1),
			ClassDef2:    classDefinitions(d.ClassDef2),
			Class1Count:  uint16(c1),
			Class2Count:  uint16(c2),
		}
		payload.ClassRecords = make([]ot.GPosClass1Record, c1)
		for i := range payload.ClassRecords {
			row := make([]ot.GPosClass2ValueRecord, c2)
			for j := range row {
				rec := d.Record(uint16(i), uint16(j))
				row[j] = ot.GPosClass2ValueRecord{
					Value1: valueRecord(rec.ValueRecord1),
					Value2: valueRecord(rec.ValueRecord2),
				}
			}
			payload.ClassRecords[i].Class2Records = row
		}
		node.GPos.PairFmt2 = payload
	default:
		return nil, conv.malformed("PairPos", "unsupported format %T", st.Data)
	}
	return node, nil
}

// pairSet enumerates the records of a pair set. Pair sets are stored in
// compressed form and may only be searched, so every glyph of the font is
// probed as a second glyph.
func (conv *converter) pairSet(set tables.PairSet) ot.GPosPairSet {
	var out ot.GPosPairSet
	for g := 0; g < conv.numGlyphs; g++ {
		if rec, ok := set.FindGlyph(tables.GlyphID(g)); ok {
			out.Records = append(out.Records, ot.PairValueRecord{
				SecondGlyph: ot.GlyphIndex(rec.SecondGlyph),
				Value1:      valueRecord(rec.ValueRecord1),
				Value2:      valueRecord(rec.ValueRecord2),
			})
		}
	}
	return out
}

func (conv *converter) cursivePos(st tables.CursivePos) (*ot.LookupNode, error) {
	payload := &ot.GPosCursiveFmt1Payload{}
	for _, ee := range st.EntryExits {
		payload.Entries = append(payload.Entries, ot.GPosEntryExitAnchor{
			Entry: anchor(ee.EntryAnchor),
			Exit:  anchor(ee.ExitAnchor),
		})
	}
	return &ot.LookupNode{
		LookupType: ot.GPosLookupTypeCursive,
		Format:     1,
		Coverage:   coverage(st.Cov()),
		GPos:       ot.GPosLookupPayload{CursiveFmt1: payload},
	}, nil
}

func (conv *converter) markBasePos(st tables.MarkBasePos) (*ot.LookupNode, error) {
	marks := markRecords(st.MarkArray)
	// the class count is not exposed; marks use every class at least once
	classes := 0
	for _, m := range marks {
		classes = max(classes, int(m.Class)+1)
	}
	payload := &ot.GPosMarkToBaseFmt1Payload{
		BaseCoverage:   coverage(st.BaseCoverage),
		MarkClassCount: uint16(classes),
		MarkRecords:    marks,
	}
	matrix := st.BaseArray.Anchors()
	for i := 0; i < matrix.Len(); i++ {
		row, err := conv.anchorRow(matrix, i, classes, "MarkBasePos/BaseArray")
		if err != nil {
			return nil, err
		}
		payload.BaseRecords = append(payload.BaseRecords, ot.GPosBaseAttachRecord{Anchors: row})
	}
	return &ot.LookupNode{
		LookupType: ot.GPosLookupTypeMarkToBase,
		Format:     1,
		Coverage:   coverage(st.Cov()),
		GPos:       ot.GPosLookupPayload{MarkToBaseFmt1: payload},
	}, nil
}

func (conv *converter) markLigPos(st tables.MarkLigPos) (*ot.LookupNode, error) {
	classes := int(st.MarkClassCount)
	payload := &ot.GPosMarkToLigatureFmt1Payload{
		LigatureCoverage: coverage(st.LigatureCoverage),
		MarkClassCount:   st.MarkClassCount,
		MarkRecords:      markRecords(st.MarkArray),
	}
	for _, attach := range st.LigatureArray.LigatureAttachs {
		matrix := attach.Anchors()
		var lig ot.GPosLigatureAttachRecord
		for c := 0; c < matrix.Len(); c++ {
			row, err := conv.anchorRow(matrix, c, classes, "MarkLigPos/LigatureArray")
			if err != nil {
				return nil, err
			}
			lig.Components = append(lig.Components, ot.GPosComponentRecord{Anchors: row})
		}
		payload.LigatureRecords = append(payload.LigatureRecords, lig)
	}
	return &ot.LookupNode{
		LookupType: ot.GPosLookupTypeMarkToLigature,
		Format:     1,
		Coverage:   coverage(st.MarkCoverage),
		GPos:       ot.GPosLookupPayload{MarkToLigatureFmt1: payload},
	}, nil
}

func (conv *converter) markMarkPos(st tables.MarkMarkPos) (*ot.LookupNode, error) {
	classes := int(st.MarkClassCount)
	payload := &ot.GPosMarkToMarkFmt1Payload{
		Mark2Coverage:  coverage(st.Mark2Coverage),
		MarkClassCount: st.MarkClassCount,
		Mark1Records:   markRecords(st.Mark1Array),
	}
	matrix := st.Mark2Array.Anchors()
	for i := 0; i < matrix.Len(); i++ {
		row, err := conv.anchorRow(matrix, i, classes, "MarkMarkPos/Mark2Array")
		if err != nil {
			return nil, err
		}
		payload.Mark2Records = append(payload.Mark2Records, ot.GPosBaseAttachRecord{Anchors: row})
	}
	return &ot.LookupNode{
		LookupType: ot.GPosLookupTypeMarkToMark,
		Format:     1,
		Coverage:   coverage(st.Mark1Coverage),
		GPos:       ot.GPosLookupPayload{MarkToMarkFmt1: payload},
	}, nil
}

// anchorRow reads one row of an anchor matrix. The matrix does not expose
// its row width, so a row narrower than classes surfaces as a panic, which
// is turned into a structural error.
func (conv *converter) anchorRow(matrix tables.AnchorMatrix, i, classes int, section string) (row []*ot.Anchor, err error) {
	defer func() {
		if r := recover(); r != nil {
			row, err = nil, conv.malformed(section, "record %d has fewer than %d anchors", i, classes)
		}
	}()
	row = make([]*ot.Anchor, classes)
	for c := range row {
		row[c] = anchor(matrix.Anchor(i, c))
	}
	return row, nil
}

func (conv *converter) contextualPos(st tables.ContextualPos) (*ot.LookupNode, error) {
	node := &ot.LookupNode{LookupType: ot.GPosLookupTypeContextPos, Coverage: coverage(st.Cov())}
	switch d := st.Data.(type) {
	case tables.ContextualPos1:
		node.Format = 1
		payload := &ot.GPosContextFmt1Payload{}
		for _, set := range d.SeqRuleSet {
			var rs ot.GPosRuleSet
			for _, rule := range set.SeqRule {
				rs.Rules = append(rs.Rules, ot.GPosSequenceRule{
					InputGlyphs: glyphs(rule.InputSequence),
					Records:     lookupRecords(rule.SeqLookupRecords),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ContextFmt1 = payload
	case tables.ContextualPos2:
		node.Format = 2
		payload := &ot.GPosContextFmt2Payload{ClassDef: classDefinitions(d.ClassDef)}
		for _, set := range d.ClassSeqRuleSet {
			var rs ot.GPosClassRuleSet
			for _, rule := range set.SeqRule {
				rs.Rules = append(rs.Rules, ot.GPosClassSequenceRule{
					InputClasses: rule.InputSequence,
					Records:      lookupRecords(rule.SeqLookupRecords),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ContextFmt2 = payload
	case tables.ContextualPos3:
		node.Format = 3
		node.GPos.ContextFmt3 = &ot.GPosContextFmt3Payload{
			InputCoverages: coverages(d.Coverages),
			Records:        lookupRecords(d.SeqLookupRecords),
		}
	default:
		return nil, conv.malformed("ContextPos", "unsupported format %T", st.Data)
	}
	return node, nil
}

func (conv *converter) chainedContextualPos(st tables.ChainedContextualPos) (*ot.LookupNode, error) {
	node := &ot.LookupNode{LookupType: ot.GPosLookupTypeChainedContextPos, Coverage: coverage(st.Cov())}
	switch d := st.Data.(type) {
	case tables.ChainedContextualPos1:
		node.Format = 1
		payload := &ot.GPosChainingContextFmt1Payload{}
		for _, set := range d.ChainedSeqRuleSet {
			var rs ot.GPosChainedRuleSet
			for _, rule := range set.ChainedSeqRules {
				rs.Rules = append(rs.Rules, ot.GPosChainedSequenceRule{
					Backtrack: glyphs(rule.BacktrackSequence),
					Input:     glyphs(rule.InputSequence),
					Lookahead: glyphs(rule.LookaheadSequence),
					Records:   lookupRecords(rule.SeqLookupRecords),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ChainingContextFmt1 = payload
	case tables.ChainedContextualPos2:
		node.Format = 2
		payload := &ot.GPosChainingContextFmt2Payload{
			BacktrackClassDef: classDefinitions(d.BacktrackClassDef),
			InputClassDef:     classDefinitions(d.InputClassDef),
			LookaheadClassDef: classDefinitions(d.LookaheadClassDef),
		}
		for _, set := range d.ChainedClassSeqRuleSet {
			var rs ot.GPosChainedClassRuleSet
			for _, rule := range set.ChainedSeqRules {
				rs.Rules = append(rs.Rules, ot.GPosChainedClassRule{
					Backtrack: rule.BacktrackSequence,
					Input:     rule.InputSequence,
					Lookahead: rule.LookaheadSequence,
					Records:   lookupRecords(rule.SeqLookupRecords),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ChainingContextFmt2 = payload
	case tables.ChainedContextualPos3:
		node.Format = 3
		node.GPos.ChainingContextFmt3 = &ot.GPosChainingContextFmt3Payload{
			BacktrackCoverages: coverages(d.BacktrackCoverages),
			InputCoverages:     coverages(d.InputCoverages),
			LookaheadCoverages: coverages(d.LookaheadCoverages),
			Records:            lookupRecords(d.SeqLookupRecords),
		}
	default:
		return nil, conv.malformed("ChainContextPos", "unsupported format %T", st.Data)
	}
	return node, nil
}

func (conv *converter) extensionPos(st tables.ExtensionPos) (*ot.LookupNode, error) {
	inner, err := st.Resolve()
	if err != nil {
		return nil, conv.malformed("ExtensionPos", "cannot resolve extension: %v", err)
	}
	resolved, err := conv.node(inner)
	if err != nil {
		return nil, err
	}
	return &ot.LookupNode{
		LookupType: ot.GPosLookupTypeExtensionPos,
		Format:     1,
		GPos: ot.GPosLookupPayload{ExtensionFmt1: &ot.GPosExtensionFmt1Payload{
			ResolvedType: ot.LayoutTableLookupType(st.ExtensionLookupType),
			Resolved:     resolved,
		}},
	}, nil
}

// --- Common tables ---------------------------------------------------------

// coverage expands a coverage table into the list of covered glyphs, in
// coverage index order.
func coverage(cov tables.Coverage) ot.Coverage {
	switch c := cov.(type) {
	case tables.Coverage1:
		return ot.NewCoverage(glyphs(c.Glyphs)...)
	case tables.Coverage2:
		var gg []ot.GlyphIndex
		for _, r := range c.Ranges {
			for g := int(r.StartGlyphID); g <= int(r.EndGlyphID); g++ {
				gg = append(gg, ot.GlyphIndex(g))
			}
		}
		return ot.NewCoverage(gg...)
	}
	return ot.Coverage{}
}

func coverages(covs []tables.Coverage) []ot.Coverage {
	out := make([]ot.Coverage, len(covs))
	for i, c := range covs {
		out[i] = coverage(c)
	}
	return out
}

// classDefinitions flattens a class definition table into a glyph-to-class
// mapping.
func classDefinitions(cdef tables.ClassDef) ot.ClassDefinitions {
	var out ot.ClassDefinitions
	switch c := cdef.(type) {
	case tables.ClassDef1:
		for i, class := range c.ClassValueArray {
			out.Set(ot.GlyphIndex(int(c.StartGlyphID)+i), class)
		}
	case tables.ClassDef2:
		for _, r := range c.ClassRangeRecords {
			for g := int(r.StartGlyphID); g <= int(r.EndGlyphID); g++ {
				out.Set(ot.GlyphIndex(g), r.Class)
			}
		}
	}
	return out
}

func classExtent(cdef tables.ClassDef) int {
	if cdef == nil {
		return 1
	}
	return max(cdef.Extent(), 1)
}

func glyphs(gids []tables.GlyphID) []ot.GlyphIndex {
	out := make([]ot.GlyphIndex, len(gids))
	for i, g := range gids {
		out[i] = ot.GlyphIndex(g)
	}
	return out
}

func lookupRecords(recs []tables.SequenceLookupRecord) []ot.SequenceLookupRecord {
	out := make([]ot.SequenceLookupRecord, len(recs))
	for i, r := range recs {
		out[i] = ot.SequenceLookupRecord{SequenceIndex: r.SequenceIndex, LookupListIndex: r.LookupListIndex}
	}
	return out
}

func markRecords(ma tables.MarkArray) []ot.GPosMarkAttachRecord {
	out := make([]ot.GPosMarkAttachRecord, len(ma.MarkRecords))
	for i, rec := range ma.MarkRecords {
		out[i].Class = rec.MarkClass
		if i < len(ma.MarkAnchors) {
			out[i].Anchor = anchor(ma.MarkAnchors[i])
		}
	}
	return out
}

// deviceOffset marks a device table as present. Parsed value records carry
// the device tables themselves, not their offsets.
const deviceOffset = 1

func device(d tables.DeviceTable) uint16 {
	if d == nil {
		return 0
	}
	return deviceOffset
}

func valueRecord(v tables.ValueRecord) ot.ValueRecord {
	return ot.ValueRecord{
		XPlacement: v.XPlacement,
		YPlacement: v.YPlacement,
		XAdvance:   v.XAdvance,
		YAdvance:   v.YAdvance,
		XPlaDevice: device(v.XPlaDevice),
		YPlaDevice: device(v.YPlaDevice),
		XAdvDevice: device(v.XAdvDevice),
		YAdvDevice: device(v.YAdvDevice),
	}
}

func anchor(a tables.Anchor) *ot.Anchor {
	switch a := a.(type) {
	case tables.AnchorFormat1:
		return ot.NewAnchor(a.XCoordinate, a.YCoordinate)
	case tables.AnchorFormat2:
		return &ot.Anchor{
			Format:      ot.AnchorFormat2,
			XCoordinate: a.XCoordinate,
			YCoordinate: a.YCoordinate,
			AnchorPoint: a.AnchorPoint,
		}
	case tables.AnchorFormat3:
		return &ot.Anchor{
			Format:        ot.AnchorFormat3,
			XCoordinate:   a.XCoordinate,
			YCoordinate:   a.YCoordinate,
			XDeviceOffset: device(a.XDevice),
			YDeviceOffset: device(a.YDevice),
		}
	case nil:
		return nil
	}
	tracer().Errorf("unknown anchor format %T", a)
	return nil
}
