package otload

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/otfea/ot"
)

// LoadTTX loads a TTX dump of a font from a file. The dump has to contain a
// GPOS table; a GlyphOrder table is optional.
func LoadTTX(path string) (*Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	font, err := ParseTTX(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load TTX %s: %w", path, err)
	}
	return font, nil
}

// ParseTTX reads a TTX dump of a font. Glyphs are numbered as in the
// GlyphOrder table, if present. Glyph names not listed there are numbered
// in order of appearance.
func ParseTTX(in io.Reader) (*Font, error) {
	var dump ttxFont
	if err := xml.NewDecoder(in).Decode(&dump); err != nil {
		return nil, err
	}
	if dump.GPOS == nil {
		return nil, fmt.Errorf("ttx: missing GPOS table")
	}
	r := newTTXReader(dump.GlyphOrder)
	gpos := &ot.GPosTable{
		Scripts:  r.scripts(dump.GPOS.Scripts),
		Features: r.features(dump.GPOS.Features),
	}
	for _, lk := range dump.GPOS.Lookups {
		gpos.Lookups = append(gpos.Lookups, r.lookup(lk))
	}
	if r.err != nil {
		return nil, r.err
	}
	tracer().Debugf("ttx: %d glyphs, %d GPOS lookups", len(r.names), len(gpos.Lookups))
	return &Font{NumGlyphs: len(r.names), GPOS: gpos, names: r.names}, nil
}

// ttxReader converts TTX elements to the ot model. The first error
// encountered is kept; later conversions go on with zero values.
type ttxReader struct {
	glyphs    map[string]ot.GlyphIndex
	names     ot.GlyphNames
	lookupInx int
	err       error
}

func newTTXReader(order []ttxGlyphID) *ttxReader {
	r := &ttxReader{glyphs: make(map[string]ot.GlyphIndex, len(order))}
	for _, g := range order {
		if g.ID >= len(r.names) {
			r.names = append(r.names, make(ot.GlyphNames, g.ID+1-len(r.names))...)
		}
		r.names[g.ID] = g.Name
		r.glyphs[g.Name] = ot.GlyphIndex(g.ID)
	}
	return r
}

func (r *ttxReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("ttx: lookup #%d: "+format, append([]any{r.lookupInx}, args...)...)
	}
}

func (r *ttxReader) int(v ttxValue, what string) int {
	n, err := v.Int()
	if err != nil {
		r.fail("invalid %s: %v", what, err)
	}
	return n
}

func (r *ttxReader) int16(s, what string) int16 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		r.fail("invalid %s: %v", what, err)
	}
	return int16(n)
}

func (r *ttxReader) glyph(name string) ot.GlyphIndex {
	if g, ok := r.glyphs[name]; ok {
		return g
	}
	g := ot.GlyphIndex(len(r.names))
	r.names = append(r.names, name)
	r.glyphs[name] = g
	return g
}

func (r *ttxReader) glyphList(values []ttxValue) []ot.GlyphIndex {
	out := make([]ot.GlyphIndex, len(values))
	for i, v := range values {
		out[i] = r.glyph(v.Value)
	}
	return out
}

func (r *ttxReader) classList(values []ttxValue) []uint16 {
	out := make([]uint16, len(values))
	for i, v := range values {
		out[i] = uint16(r.int(v, "class"))
	}
	return out
}

// --- Script and feature lists ----------------------------------------------

func (r *ttxReader) scripts(records []ttxScriptRecord) ot.ScriptList {
	var sl ot.ScriptList
	for _, rec := range records {
		script := ot.Script{Tag: ot.T(rec.Tag.Value)}
		if rec.DefaultLangSys != nil {
			ls := r.langSys(ot.Dflt, *rec.DefaultLangSys)
			script.DefaultLangSys = &ls
		}
		for _, lrec := range rec.LangSys {
			script.LangSys = append(script.LangSys, r.langSys(ot.T(lrec.Tag.Value), lrec.LangSys))
		}
		sl.Scripts = append(sl.Scripts, script)
	}
	return sl
}

func (r *ttxReader) langSys(tag ot.Tag, ls ttxLangSys) ot.LangSys {
	out := ot.LangSys{Tag: tag}
	if ls.ReqFeatureIndex.Value != "" {
		if req := r.int(ls.ReqFeatureIndex, "ReqFeatureIndex"); req != noRequiredFeature {
			out.RequiredFeature = ot.Some(uint16(req))
		}
	}
	for _, fi := range ls.FeatureIndex {
		out.FeatureIndices = append(out.FeatureIndices, uint16(r.int(fi, "FeatureIndex")))
	}
	return out
}

func (r *ttxReader) features(records []ttxFeatureRecord) ot.FeatureList {
	var fl ot.FeatureList
	for _, rec := range records {
		feature := ot.Feature{Tag: ot.T(rec.Tag.Value)}
		for _, li := range rec.LookupListIndex {
			feature.LookupListIndices = append(feature.LookupListIndices, uint16(r.int(li, "LookupListIndex")))
		}
		fl.Features = append(fl.Features, feature)
	}
	return fl
}

// --- Lookups ---------------------------------------------------------------

func (r *ttxReader) lookup(lk ttxLookup) *ot.LookupTable {
	r.lookupInx = lk.Index
	lookup := &ot.LookupTable{
		Type: ot.LayoutTableLookupType(r.int(lk.LookupType, "LookupType")),
		Flag: ot.LayoutTableLookupFlag(r.int(lk.LookupFlag, "LookupFlag")),
	}
	if lk.MarkFilteringSet != nil {
		lookup.MarkFilteringSet = uint16(r.int(*lk.MarkFilteringSet, "MarkFilteringSet"))
	}
	for _, st := range lk.Subtables {
		if node := r.node(st); node != nil {
			lookup.Subtables = append(lookup.Subtables, node)
		}
	}
	return lookup
}

func (r *ttxReader) node(st ttxSubtable) *ot.LookupNode {
	if st.Format == "" {
		tracer().Infof("ttx: ignoring element <%s> in lookup #%d", st.XMLName.Local, r.lookupInx)
		return nil
	}
	format, err := strconv.Atoi(st.Format)
	if err != nil {
		r.fail("invalid %s format %q", st.XMLName.Local, st.Format)
		return nil
	}
	node := &ot.LookupNode{Format: uint16(format)}
	if len(st.Coverage) > 0 {
		node.Coverage = r.coverage(st.Coverage[0])
	}
	switch kind := st.XMLName.Local; kind {
	case "SinglePos":
		node.LookupType = ot.GPosLookupTypeSingle
		r.singlePos(node, st)
	case "PairPos":
		node.LookupType = ot.GPosLookupTypePair
		r.pairPos(node, st)
	case "CursivePos":
		node.LookupType = ot.GPosLookupTypeCursive
		node.GPos.CursiveFmt1 = r.cursivePos(st)
	case "MarkBasePos":
		node.LookupType = ot.GPosLookupTypeMarkToBase
		node.Coverage = r.coverage(st.MarkCoverage)
		node.GPos.MarkToBaseFmt1 = r.markBasePos(st)
	case "MarkLigPos":
		node.LookupType = ot.GPosLookupTypeMarkToLigature
		node.Coverage = r.coverage(st.MarkCoverage)
		node.GPos.MarkToLigatureFmt1 = r.markLigPos(st)
	case "MarkMarkPos":
		node.LookupType = ot.GPosLookupTypeMarkToMark
		node.Coverage = r.coverage(st.Mark1Coverage)
		node.GPos.MarkToMarkFmt1 = r.markMarkPos(st)
	case "ContextPos":
		node.LookupType = ot.GPosLookupTypeContextPos
		r.contextPos(node, st)
	case "ChainContextPos":
		node.LookupType = ot.GPosLookupTypeChainedContextPos
		r.chainContextPos(node, st)
	case "ExtensionPos":
		node.LookupType = ot.GPosLookupTypeExtensionPos
		if len(st.Extended) != 1 {
			r.fail("extension wraps %d subtables", len(st.Extended))
			return nil
		}
		node.GPos.ExtensionFmt1 = &ot.GPosExtensionFmt1Payload{
			ResolvedType: ot.LayoutTableLookupType(r.int(st.ExtensionLookupType, "ExtensionLookupType")),
			Resolved:     r.node(st.Extended[0]),
		}
	default:
		tracer().Infof("ttx: ignoring element <%s> in lookup #%d", kind, r.lookupInx)
		return nil
	}
	return node
}

func (r *ttxReader) singlePos(node *ot.LookupNode, st ttxSubtable) {
	vf := ot.ValueFormat(r.int(st.ValueFormat, "ValueFormat"))
	switch node.Format {
	case 1:
		payload := &ot.GPosSingleFmt1Payload{ValueFormat: vf}
		if len(st.Value) > 0 {
			payload.Value = r.valueRecord(st.Value[0])
		}
		node.GPos.SingleFmt1 = payload
	case 2:
		payload := &ot.GPosSingleFmt2Payload{ValueFormat: vf}
		for _, v := range st.Value {
			payload.Values = append(payload.Values, r.valueRecord(v))
		}
		node.GPos.SingleFmt2 = payload
	default:
		r.fail("unsupported SinglePos format %d", node.Format)
	}
}

func (r *ttxReader) pairPos(node *ot.LookupNode, st ttxSubtable) {
	vf1 := ot.ValueFormat(r.int(st.ValueFormat1, "ValueFormat1"))
	vf2 := ot.ValueFormat(r.int(st.ValueFormat2, "ValueFormat2"))
	switch node.Format {
	case 1:
		payload := &ot.GPosPairFmt1Payload{ValueFormat1: vf1, ValueFormat2: vf2}
		for _, ps := range st.PairSet {
			var set ot.GPosPairSet
			for _, pr := range ps.PairValueRecord {
				set.Records = append(set.Records, ot.PairValueRecord{
					SecondGlyph: r.glyph(pr.SecondGlyph.Value),
					Value1:      r.valueRecord(pr.Value1),
					Value2:      r.valueRecord(pr.Value2),
				})
			}
			payload.PairSets = append(payload.PairSets, set)
		}
		node.GPos.PairFmt1 = payload
	case 2:
		payload := &ot.GPosPairFmt2Payload{
			ValueFormat1: vf1,
			ValueFormat2: vf2,
			ClassDef1:    r.classDef(st.ClassDef1),
			ClassDef2:    r.classDef(st.ClassDef2),
			Class1Count:  uint16(len(st.Class1Record)),
		}
		for _, c1 := range st.Class1Record {
			var row ot.GPosClass1Record
			for _, c2 := range c1.Class2Record {
				row.Class2Records = append(row.Class2Records, ot.GPosClass2ValueRecord{
					Value1: r.valueRecord(c2.Value1),
					Value2: r.valueRecord(c2.Value2),
				})
			}
			payload.ClassRecords = append(payload.ClassRecords, row)
		}
		if len(st.Class1Record) > 0 {
			payload.Class2Count = uint16(len(st.Class1Record[0].Class2Record))
		}
		node.GPos.PairFmt2 = payload
	default:
		r.fail("unsupported PairPos format %d", node.Format)
	}
}

func (r *ttxReader) cursivePos(st ttxSubtable) *ot.GPosCursiveFmt1Payload {
	payload := &ot.GPosCursiveFmt1Payload{}
	for _, ee := range st.EntryExitRecord {
		payload.Entries = append(payload.Entries, ot.GPosEntryExitAnchor{
			Entry: r.anchor(ee.EntryAnchor),
			Exit:  r.anchor(ee.ExitAnchor),
		})
	}
	return payload
}

func (r *ttxReader) markBasePos(st ttxSubtable) *ot.GPosMarkToBaseFmt1Payload {
	marks := r.markRecords(st.MarkArray)
	classes := markClassCount(marks, st.BaseRecord)
	payload := &ot.GPosMarkToBaseFmt1Payload{
		BaseCoverage:   r.coverage(st.BaseCoverage),
		MarkClassCount: uint16(classes),
		MarkRecords:    marks,
	}
	for _, rec := range st.BaseRecord {
		payload.BaseRecords = append(payload.BaseRecords, ot.GPosBaseAttachRecord{
			Anchors: r.anchorRow(rec, classes),
		})
	}
	return payload
}

func (r *ttxReader) markLigPos(st ttxSubtable) *ot.GPosMarkToLigatureFmt1Payload {
	marks := r.markRecords(st.MarkArray)
	var components []ttxAnchorRecord
	for _, lig := range st.LigatureAttach {
		components = append(components, lig.ComponentRecord...)
	}
	classes := markClassCount(marks, components)
	payload := &ot.GPosMarkToLigatureFmt1Payload{
		LigatureCoverage: r.coverage(st.LigatureCoverage),
		MarkClassCount:   uint16(classes),
		MarkRecords:      marks,
	}
	for _, lig := range st.LigatureAttach {
		var attach ot.GPosLigatureAttachRecord
		for _, comp := range lig.ComponentRecord {
			attach.Components = append(attach.Components, ot.GPosComponentRecord{
				Anchors: r.anchorRow(comp, classes),
			})
		}
		payload.LigatureRecords = append(payload.LigatureRecords, attach)
	}
	return payload
}

func (r *ttxReader) markMarkPos(st ttxSubtable) *ot.GPosMarkToMarkFmt1Payload {
	marks := r.markRecords(st.Mark1Array)
	classes := markClassCount(marks, st.Mark2Record)
	payload := &ot.GPosMarkToMarkFmt1Payload{
		Mark2Coverage:  r.coverage(st.Mark2Coverage),
		MarkClassCount: uint16(classes),
		Mark1Records:   marks,
	}
	for _, rec := range st.Mark2Record {
		payload.Mark2Records = append(payload.Mark2Records, ot.GPosBaseAttachRecord{
			Anchors: r.anchorRow(rec, classes),
		})
	}
	return payload
}

// markClassCount derives the number of mark classes, which TTX only
// mentions in a comment.
func markClassCount(marks []ot.GPosMarkAttachRecord, records []ttxAnchorRecord) int {
	maxClass := -1
	for _, m := range marks {
		maxClass = max(maxClass, int(m.Class))
	}
	for _, rec := range records {
		for _, a := range rec.Anchors {
			maxClass = max(maxClass, a.Index)
		}
	}
	return maxClass + 1
}

func (r *ttxReader) markRecords(ma ttxMarkArray) []ot.GPosMarkAttachRecord {
	out := make([]ot.GPosMarkAttachRecord, len(ma.MarkRecord))
	for i, rec := range ma.MarkRecord {
		out[i] = ot.GPosMarkAttachRecord{
			Class:  uint16(r.int(rec.Class, "mark class")),
			Anchor: r.anchor(rec.MarkAnchor),
		}
	}
	return out
}

func (r *ttxReader) anchorRow(rec ttxAnchorRecord, classes int) []*ot.Anchor {
	row := make([]*ot.Anchor, classes)
	for _, a := range rec.Anchors {
		if a.Index < 0 || a.Index >= classes {
			r.fail("anchor index %d out of range", a.Index)
			continue
		}
		row[a.Index] = r.anchor(&a)
	}
	return row
}

func (r *ttxReader) contextPos(node *ot.LookupNode, st ttxSubtable) {
	switch node.Format {
	case 1:
		payload := &ot.GPosContextFmt1Payload{}
		for _, set := range st.PosRuleSet {
			var rs ot.GPosRuleSet
			for _, rule := range set.Rules {
				rs.Rules = append(rs.Rules, ot.GPosSequenceRule{
					InputGlyphs: r.glyphList(rule.Input),
					Records:     r.lookupRecords(rule.PosLookupRecord),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ContextFmt1 = payload
	case 2:
		payload := &ot.GPosContextFmt2Payload{ClassDef: r.classDef(st.ClassDef)}
		for _, set := range st.PosClassSet {
			var rs ot.GPosClassRuleSet
			for _, rule := range set.Rules {
				rs.Rules = append(rs.Rules, ot.GPosClassSequenceRule{
					InputClasses: r.classList(rule.Class),
					Records:      r.lookupRecords(rule.PosLookupRecord),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ContextFmt2 = payload
	case 3:
		node.GPos.ContextFmt3 = &ot.GPosContextFmt3Payload{
			InputCoverages: r.coverages(st.Coverage),
			Records:        r.lookupRecords(st.PosLookupRecord),
		}
	default:
		r.fail("unsupported ContextPos format %d", node.Format)
	}
}

func (r *ttxReader) chainContextPos(node *ot.LookupNode, st ttxSubtable) {
	switch node.Format {
	case 1:
		payload := &ot.GPosChainingContextFmt1Payload{}
		for _, set := range st.ChainPosRuleSet {
			var rs ot.GPosChainedRuleSet
			for _, rule := range set.Rules {
				rs.Rules = append(rs.Rules, ot.GPosChainedSequenceRule{
					Backtrack: r.glyphList(rule.Backtrack),
					Input:     r.glyphList(rule.Input),
					Lookahead: r.glyphList(rule.LookAhead),
					Records:   r.lookupRecords(rule.PosLookupRecord),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ChainingContextFmt1 = payload
	case 2:
		payload := &ot.GPosChainingContextFmt2Payload{
			BacktrackClassDef: r.classDef(st.BacktrackClassDef),
			InputClassDef:     r.classDef(st.InputClassDef),
			LookaheadClassDef: r.classDef(st.LookAheadClassDef),
		}
		for _, set := range st.ChainPosClassSet {
			var rs ot.GPosChainedClassRuleSet
			for _, rule := range set.Rules {
				rs.Rules = append(rs.Rules, ot.GPosChainedClassRule{
					Backtrack: r.classList(rule.Backtrack),
					Input:     r.classList(rule.Input),
					Lookahead: r.classList(rule.LookAhead),
					Records:   r.lookupRecords(rule.PosLookupRecord),
				})
			}
			payload.RuleSets = append(payload.RuleSets, rs)
		}
		node.GPos.ChainingContextFmt2 = payload
	case 3:
		node.GPos.ChainingContextFmt3 = &ot.GPosChainingContextFmt3Payload{
			BacktrackCoverages: r.coverages(st.BacktrackCoverage),
			InputCoverages:     r.coverages(st.InputCoverage),
			LookaheadCoverages: r.coverages(st.LookAheadCoverage),
			Records:            r.lookupRecords(st.PosLookupRecord),
		}
		if len(st.InputCoverage) > 0 {
			node.Coverage = r.coverage(st.InputCoverage[0])
		}
	default:
		r.fail("unsupported ChainContextPos format %d", node.Format)
	}
}

// --- Common tables ---------------------------------------------------------

func (r *ttxReader) coverage(c ttxCoverage) ot.Coverage {
	return ot.NewCoverage(r.glyphList(c.Glyph)...)
}

func (r *ttxReader) coverages(cc []ttxCoverage) []ot.Coverage {
	out := make([]ot.Coverage, len(cc))
	for i, c := range cc {
		out[i] = r.coverage(c)
	}
	return out
}

func (r *ttxReader) classDef(cd ttxClassDef) ot.ClassDefinitions {
	var out ot.ClassDefinitions
	for _, e := range cd.Entries {
		out.Set(r.glyph(e.Glyph), uint16(e.Class))
	}
	return out
}

func (r *ttxReader) lookupRecords(recs []ttxLookupRecord) []ot.SequenceLookupRecord {
	out := make([]ot.SequenceLookupRecord, len(recs))
	for i, rec := range recs {
		out[i] = ot.SequenceLookupRecord{
			SequenceIndex:   uint16(r.int(rec.SequenceIndex, "SequenceIndex")),
			LookupListIndex: uint16(r.int(rec.LookupListIndex, "LookupListIndex")),
		}
	}
	return out
}

func (r *ttxReader) valueRecord(v ttxValueRecord) ot.ValueRecord {
	rec := ot.ValueRecord{
		XPlacement: r.int16(v.XPlacement, "XPlacement"),
		YPlacement: r.int16(v.YPlacement, "YPlacement"),
		XAdvance:   r.int16(v.XAdvance, "XAdvance"),
		YAdvance:   r.int16(v.YAdvance, "YAdvance"),
	}
	if v.XPlaDevice != nil {
		rec.XPlaDevice = deviceOffset
	}
	if v.YPlaDevice != nil {
		rec.YPlaDevice = deviceOffset
	}
	if v.XAdvDevice != nil {
		rec.XAdvDevice = deviceOffset
	}
	if v.YAdvDevice != nil {
		rec.YAdvDevice = deviceOffset
	}
	return rec
}

func (r *ttxReader) anchor(a *ttxAnchor) *ot.Anchor {
	if a == nil || a.Empty == "1" {
		return nil
	}
	format, err := strconv.Atoi(a.Format)
	if err != nil {
		r.fail("invalid anchor format %q", a.Format)
		return nil
	}
	anchor := &ot.Anchor{
		Format:      ot.AnchorFormat(format),
		XCoordinate: int16(r.int(a.XCoordinate, "XCoordinate")),
		YCoordinate: int16(r.int(a.YCoordinate, "YCoordinate")),
	}
	if a.AnchorPoint.Value != "" {
		anchor.AnchorPoint = uint16(r.int(a.AnchorPoint, "AnchorPoint"))
	}
	if a.XDevice != nil {
		anchor.XDeviceOffset = deviceOffset
	}
	if a.YDevice != nil {
		anchor.YDeviceOffset = deviceOffset
	}
	return anchor
}

// --- TTX elements ----------------------------------------------------------

type ttxFont struct {
	GlyphOrder []ttxGlyphID `xml:"GlyphOrder>GlyphID"`
	GPOS       *ttxGPOS     `xml:"GPOS"`
}

type ttxGlyphID struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type ttxGPOS struct {
	Scripts  []ttxScriptRecord  `xml:"ScriptList>ScriptRecord"`
	Features []ttxFeatureRecord `xml:"FeatureList>FeatureRecord"`
	Lookups  []ttxLookup        `xml:"LookupList>Lookup"`
}

type ttxScriptRecord struct {
	Tag            ttxValue           `xml:"ScriptTag"`
	DefaultLangSys *ttxLangSys        `xml:"Script>DefaultLangSys"`
	LangSys        []ttxLangSysRecord `xml:"Script>LangSysRecord"`
}

type ttxLangSysRecord struct {
	Tag     ttxValue   `xml:"LangSysTag"`
	LangSys ttxLangSys `xml:"LangSys"`
}

type ttxLangSys struct {
	ReqFeatureIndex ttxValue   `xml:"ReqFeatureIndex"`
	FeatureIndex    []ttxValue `xml:"FeatureIndex"`
}

type ttxFeatureRecord struct {
	Tag             ttxValue   `xml:"FeatureTag"`
	LookupListIndex []ttxValue `xml:"Feature>LookupListIndex"`
}

type ttxLookup struct {
	Index            int           `xml:"index,attr"`
	LookupType       ttxValue      `xml:"LookupType"`
	LookupFlag       ttxValue      `xml:"LookupFlag"`
	MarkFilteringSet *ttxValue     `xml:"MarkFilteringSet"`
	Subtables        []ttxSubtable `xml:",any"`
}

// ttxSubtable is the union of all GPOS subtable elements. The element name
// tells which fields are in use.
type ttxSubtable struct {
	XMLName  xml.Name
	Format   string        `xml:"Format,attr"`
	Coverage []ttxCoverage `xml:"Coverage"`

	ValueFormat  ttxValue          `xml:"ValueFormat"`
	Value        []ttxValueRecord  `xml:"Value"`
	ValueFormat1 ttxValue          `xml:"ValueFormat1"`
	ValueFormat2 ttxValue          `xml:"ValueFormat2"`
	PairSet      []ttxPairSet      `xml:"PairSet"`
	ClassDef1    ttxClassDef       `xml:"ClassDef1"`
	ClassDef2    ttxClassDef       `xml:"ClassDef2"`
	Class1Record []ttxClass1Record `xml:"Class1Record"`

	EntryExitRecord []ttxEntryExit `xml:"EntryExitRecord"`

	MarkCoverage     ttxCoverage         `xml:"MarkCoverage"`
	BaseCoverage     ttxCoverage         `xml:"BaseCoverage"`
	LigatureCoverage ttxCoverage         `xml:"LigatureCoverage"`
	Mark1Coverage    ttxCoverage         `xml:"Mark1Coverage"`
	Mark2Coverage    ttxCoverage         `xml:"Mark2Coverage"`
	MarkArray        ttxMarkArray        `xml:"MarkArray"`
	Mark1Array       ttxMarkArray        `xml:"Mark1Array"`
	BaseRecord       []ttxAnchorRecord   `xml:"BaseArray>BaseRecord"`
	Mark2Record      []ttxAnchorRecord   `xml:"Mark2Array>Mark2Record"`
	LigatureAttach   []ttxLigatureAttach `xml:"LigatureArray>LigatureAttach"`

	ClassDef          ttxClassDef       `xml:"ClassDef"`
	PosRuleSet        []ttxRuleSet      `xml:"PosRuleSet"`
	PosClassSet       []ttxRuleSet      `xml:"PosClassSet"`
	ChainPosRuleSet   []ttxRuleSet      `xml:"ChainPosRuleSet"`
	ChainPosClassSet  []ttxRuleSet      `xml:"ChainPosClassSet"`
	BacktrackClassDef ttxClassDef       `xml:"BacktrackClassDef"`
	InputClassDef     ttxClassDef       `xml:"InputClassDef"`
	LookAheadClassDef ttxClassDef       `xml:"LookAheadClassDef"`
	BacktrackCoverage []ttxCoverage     `xml:"BacktrackCoverage"`
	InputCoverage     []ttxCoverage     `xml:"InputCoverage"`
	LookAheadCoverage []ttxCoverage     `xml:"LookAheadCoverage"`
	PosLookupRecord   []ttxLookupRecord `xml:"PosLookupRecord"`

	ExtensionLookupType ttxValue      `xml:"ExtensionLookupType"`
	Extended            []ttxSubtable `xml:",any"`
}

type ttxCoverage struct {
	Glyph []ttxValue `xml:"Glyph"`
}

type ttxClassDef struct {
	Entries []ttxClassDefEntry `xml:"ClassDef"`
}

type ttxClassDefEntry struct {
	Glyph string `xml:"glyph,attr"`
	Class int    `xml:"class,attr"`
}

type ttxPairSet struct {
	PairValueRecord []ttxPairValueRecord `xml:"PairValueRecord"`
}

type ttxPairValueRecord struct {
	SecondGlyph ttxValue       `xml:"SecondGlyph"`
	Value1      ttxValueRecord `xml:"Value1"`
	Value2      ttxValueRecord `xml:"Value2"`
}

type ttxClass1Record struct {
	Class2Record []ttxClass2Record `xml:"Class2Record"`
}

type ttxClass2Record struct {
	Value1 ttxValueRecord `xml:"Value1"`
	Value2 ttxValueRecord `xml:"Value2"`
}

type ttxEntryExit struct {
	EntryAnchor *ttxAnchor `xml:"EntryAnchor"`
	ExitAnchor  *ttxAnchor `xml:"ExitAnchor"`
}

type ttxMarkArray struct {
	MarkRecord []ttxMarkRecord `xml:"MarkRecord"`
}

type ttxMarkRecord struct {
	Class      ttxValue   `xml:"Class"`
	MarkAnchor *ttxAnchor `xml:"MarkAnchor"`
}

// ttxAnchorRecord holds the anchors of a base, mark or ligature component,
// indexed by mark class.
type ttxAnchorRecord struct {
	Anchors []ttxAnchor `xml:",any"`
}

type ttxLigatureAttach struct {
	ComponentRecord []ttxAnchorRecord `xml:"ComponentRecord"`
}

type ttxAnchor struct {
	Index       int        `xml:"index,attr"`
	Format      string     `xml:"Format,attr"`
	Empty       string     `xml:"empty,attr"`
	XCoordinate ttxValue   `xml:"XCoordinate"`
	YCoordinate ttxValue   `xml:"YCoordinate"`
	AnchorPoint ttxValue   `xml:"AnchorPoint"`
	XDevice     *ttxDevice `xml:"XDeviceTable"`
	YDevice     *ttxDevice `xml:"YDeviceTable"`
}

// ttxDevice stands for a device table. Only its presence is recorded.
type ttxDevice struct{}

type ttxValueRecord struct {
	XPlacement string     `xml:"XPlacement,attr"`
	YPlacement string     `xml:"YPlacement,attr"`
	XAdvance   string     `xml:"XAdvance,attr"`
	YAdvance   string     `xml:"YAdvance,attr"`
	XPlaDevice *ttxDevice `xml:"XPlaDevice"`
	YPlaDevice *ttxDevice `xml:"YPlaDevice"`
	XAdvDevice *ttxDevice `xml:"XAdvDevice"`
	YAdvDevice *ttxDevice `xml:"YAdvDevice"`
}

// ttxRuleSet holds the rules of a contextual rule set. Rule elements are
// named differently per lookup type and format.
type ttxRuleSet struct {
	Rules []ttxRule `xml:",any"`
}

type ttxRule struct {
	Backtrack       []ttxValue        `xml:"Backtrack"`
	Input           []ttxValue        `xml:"Input"`
	LookAhead       []ttxValue        `xml:"LookAhead"`
	Class           []ttxValue        `xml:"Class"`
	PosLookupRecord []ttxLookupRecord `xml:"PosLookupRecord"`
}

type ttxLookupRecord struct {
	SequenceIndex   ttxValue `xml:"SequenceIndex"`
	LookupListIndex ttxValue `xml:"LookupListIndex"`
}

type ttxValue struct {
	Value string `xml:"value,attr"`
}

func (v ttxValue) Int() (int, error) {
	if v.Value == "" {
		return 0, fmt.Errorf("missing value")
	}
	if strings.HasPrefix(v.Value, "0x") || strings.HasPrefix(v.Value, "0X") {
		n, err := strconv.ParseInt(v.Value[2:], 16, 32)
		return int(n), err
	}
	return strconv.Atoi(v.Value)
}
