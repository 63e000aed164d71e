package unparse

import (
	"github.com/npillmayer/otfea/ot"
)

// --- Synthetic GPOS tables -------------------------------------------------

var xAdvance = ot.ValueFormatXAdvance

// singleAdjustments creates a single positioning lookup in array format with
// one statement per glyph.
func singleAdjustments(glyphs ...ot.GlyphIndex) *ot.LookupTable {
	values := make([]ot.ValueRecord, len(glyphs))
	for i := range values {
		values[i] = ot.ValueRecord{XAdvance: int16(10 * (i + 1))}
	}
	return &ot.LookupTable{
		Type: ot.GPosLookupTypeSingle,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeSingle,
			Format:     2,
			Coverage:   ot.NewCoverage(glyphs...),
			GPos: ot.GPosLookupPayload{
				SingleFmt2: &ot.GPosSingleFmt2Payload{ValueFormat: xAdvance, Values: values},
			},
		}},
	}
}

// pairAdjustments creates a pair positioning lookup in glyph format, kerning
// first against every glyph of seconds.
func pairAdjustments(first ot.GlyphIndex, seconds ...ot.GlyphIndex) *ot.LookupTable {
	set := ot.GPosPairSet{}
	for _, g := range seconds {
		set.Records = append(set.Records, ot.PairValueRecord{
			SecondGlyph: g,
			Value1:      ot.ValueRecord{XAdvance: -50},
		})
	}
	return &ot.LookupTable{
		Type: ot.GPosLookupTypePair,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypePair,
			Format:     1,
			Coverage:   ot.NewCoverage(first),
			GPos: ot.GPosLookupPayload{
				PairFmt1: &ot.GPosPairFmt1Payload{ValueFormat1: xAdvance, PairSets: []ot.GPosPairSet{set}},
			},
		}},
	}
}

// chainedContext creates a chained contextual lookup in coverage format,
// invoking the given lookups.
func chainedContext(invoked ...int) *ot.LookupTable {
	recs := make([]ot.SequenceLookupRecord, len(invoked))
	for i, l := range invoked {
		recs[i] = ot.SequenceLookupRecord{SequenceIndex: 0, LookupListIndex: uint16(l)}
	}
	return &ot.LookupTable{
		Type: ot.GPosLookupTypeChainedContextPos,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypeChainedContextPos,
			Format:     3,
			Coverage:   ot.NewCoverage(1),
			GPos: ot.GPosLookupPayload{
				ChainingContextFmt3: &ot.GPosChainingContextFmt3Payload{
					InputCoverages: []ot.Coverage{ot.NewCoverage(1)},
					Records:        recs,
				},
			},
		}},
	}
}

// extension wraps the subtables of a lookup into extension subtables.
func extension(lookup *ot.LookupTable) *ot.LookupTable {
	ext := &ot.LookupTable{Type: ot.GPosLookupTypeExtensionPos, Flag: lookup.Flag}
	for _, node := range lookup.Subtables {
		ext.Subtables = append(ext.Subtables, &ot.LookupNode{
			LookupType: ot.GPosLookupTypeExtensionPos,
			Format:     1,
			GPos: ot.GPosLookupPayload{
				ExtensionFmt1: &ot.GPosExtensionFmt1Payload{ResolvedType: lookup.Type, Resolved: node},
			},
		})
	}
	return ext
}

// langSys describes one language system of a synthetic script list: the
// features it references, by feature index.
type langSys struct {
	script, lang string
	features     []uint16
}

// gposTable assembles a GPOS table. Language systems with lang "dflt" become
// default language systems of their script.
func gposTable(lookups []*ot.LookupTable, features []ot.Feature, systems ...langSys) *ot.GPosTable {
	t := &ot.GPosTable{Lookups: lookups, Features: ot.FeatureList{Features: features}}
	for _, ls := range systems {
		var script *ot.Script
		for i := range t.Scripts.Scripts {
			if t.Scripts.Scripts[i].Tag == ot.T(ls.script) {
				script = &t.Scripts.Scripts[i]
			}
		}
		if script == nil {
			t.Scripts.Scripts = append(t.Scripts.Scripts, ot.Script{Tag: ot.T(ls.script)})
			script = &t.Scripts.Scripts[len(t.Scripts.Scripts)-1]
		}
		if ls.lang == "dflt" {
			script.DefaultLangSys = &ot.LangSys{FeatureIndices: ls.features}
		} else {
			script.LangSys = append(script.LangSys, ot.LangSys{Tag: ot.T(ls.lang), FeatureIndices: ls.features})
		}
	}
	return t
}

func feature(tag string, lookups ...uint16) ot.Feature {
	return ot.Feature{Tag: ot.T(tag), LookupListIndices: lookups}
}

// glyphRange returns glyphs from, from+1, … to inclusive.
func glyphRange(from, to ot.GlyphIndex) []ot.GlyphIndex {
	var glyphs []ot.GlyphIndex
	for g := from; g <= to; g++ {
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// classKerning creates a pair positioning lookup in class format, kerning the
// glyphs of firsts (class 1) against glyph second.
func classKerning(firsts []ot.GlyphIndex, second ot.GlyphIndex) *ot.LookupTable {
	cdef1 := make(map[ot.GlyphIndex]uint16, len(firsts))
	for _, g := range firsts {
		cdef1[g] = 1
	}
	return &ot.LookupTable{
		Type: ot.GPosLookupTypePair,
		Subtables: []*ot.LookupNode{{
			LookupType: ot.GPosLookupTypePair,
			Format:     2,
			Coverage:   ot.NewCoverage(firsts...),
			GPos: ot.GPosLookupPayload{PairFmt2: &ot.GPosPairFmt2Payload{
				ValueFormat1: xAdvance,
				ClassDef1:    ot.NewClassDefinitions(cdef1),
				ClassDef2:    ot.NewClassDefinitions(map[ot.GlyphIndex]uint16{second: 1}),
				Class1Count:  2,
				Class2Count:  2,
				ClassRecords: []ot.GPosClass1Record{
					{Class2Records: []ot.GPosClass2ValueRecord{{}, {}}},
					{Class2Records: []ot.GPosClass2ValueRecord{{}, {Value1: ot.ValueRecord{XAdvance: -40}}}},
				},
			}},
		}},
	}
}
