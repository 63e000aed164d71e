package ot

// GPosLookupPayload is a typed payload for GPOS lookup-subtable variants.
// Exactly one pointer field is expected to be non-nil for a concrete GPOS node.
type GPosLookupPayload struct {
	SingleFmt1          *GPosSingleFmt1Payload          `xml:"SinglePos1"`
	SingleFmt2          *GPosSingleFmt2Payload          `xml:"SinglePos2"`
	PairFmt1            *GPosPairFmt1Payload            `xml:"PairPos1"`
	PairFmt2            *GPosPairFmt2Payload            `xml:"PairPos2"`
	CursiveFmt1         *GPosCursiveFmt1Payload         `xml:"CursivePos1"`
	MarkToBaseFmt1      *GPosMarkToBaseFmt1Payload      `xml:"MarkBasePos1"`
	MarkToLigatureFmt1  *GPosMarkToLigatureFmt1Payload  `xml:"MarkLigPos1"`
	MarkToMarkFmt1      *GPosMarkToMarkFmt1Payload      `xml:"MarkMarkPos1"`
	ContextFmt1         *GPosContextFmt1Payload         `xml:"ContextPos1"`
	ContextFmt2         *GPosContextFmt2Payload         `xml:"ContextPos2"`
	ContextFmt3         *GPosContextFmt3Payload         `xml:"ContextPos3"`
	ChainingContextFmt1 *GPosChainingContextFmt1Payload `xml:"ChainContextPos1"`
	ChainingContextFmt2 *GPosChainingContextFmt2Payload `xml:"ChainContextPos2"`
	ChainingContextFmt3 *GPosChainingContextFmt3Payload `xml:"ChainContextPos3"`
	ExtensionFmt1       *GPosExtensionFmt1Payload       `xml:"ExtensionPos1"`
}

type GPosSingleFmt1Payload struct {
	ValueFormat ValueFormat
	Value       ValueRecord
}

type GPosSingleFmt2Payload struct {
	ValueFormat ValueFormat
	Values      []ValueRecord `xml:"Value"`
}

// GPosPairSet lists the pair adjustments for one first glyph of a pair.
type GPosPairSet struct {
	Records []PairValueRecord `xml:"PairValueRecord"`
}

// GPosPairFmt1Payload holds one pair set per coverage glyph, in coverage order.
type GPosPairFmt1Payload struct {
	ValueFormat1 ValueFormat
	ValueFormat2 ValueFormat
	PairSets     []GPosPairSet `xml:"PairSet"`
}

type GPosClass2ValueRecord struct {
	Value1 ValueRecord
	Value2 ValueRecord
}

// GPosClass1Record is one row of the class matrix of a class-pair subtable.
type GPosClass1Record struct {
	Class2Records []GPosClass2ValueRecord `xml:"Class2Record"`
}

// GPosPairFmt2Payload describes pair adjustments by class. ClassRecords is
// indexed by class-1 first, then class-2.
type GPosPairFmt2Payload struct {
	ValueFormat1 ValueFormat
	ValueFormat2 ValueFormat
	ClassDef1    ClassDefinitions
	ClassDef2    ClassDefinitions
	Class1Count  uint16
	Class2Count  uint16
	ClassRecords []GPosClass1Record `xml:"Class1Record"`
}

// GPosEntryExitAnchor holds the anchors for one cursive glyph. Either may be nil.
type GPosEntryExitAnchor struct {
	Entry *Anchor `xml:"EntryAnchor"`
	Exit  *Anchor `xml:"ExitAnchor"`
}

// GPosCursiveFmt1Payload holds one entry/exit record per coverage glyph.
type GPosCursiveFmt1Payload struct {
	Entries []GPosEntryExitAnchor `xml:"EntryExitRecord"`
}

// GPosMarkAttachRecord associates a mark glyph with a mark class and an anchor.
type GPosMarkAttachRecord struct {
	Class  uint16
	Anchor *Anchor `xml:"MarkAnchor"`
}

// GPosBaseAttachRecord holds one anchor per mark class. Anchors may be nil.
type GPosBaseAttachRecord struct {
	Anchors []*Anchor `xml:"BaseAnchor"`
}

// GPosMarkToBaseFmt1Payload attaches marks (covered by the node's coverage)
// to bases (covered by BaseCoverage).
type GPosMarkToBaseFmt1Payload struct {
	BaseCoverage   Coverage
	MarkClassCount uint16
	MarkRecords    []GPosMarkAttachRecord `xml:"MarkRecord"`
	BaseRecords    []GPosBaseAttachRecord `xml:"BaseRecord"`
}

// GPosComponentRecord holds one anchor per mark class for a ligature component.
type GPosComponentRecord struct {
	Anchors []*Anchor `xml:"LigatureAnchor"`
}

type GPosLigatureAttachRecord struct {
	Components []GPosComponentRecord `xml:"ComponentRecord"`
}

type GPosMarkToLigatureFmt1Payload struct {
	LigatureCoverage Coverage
	MarkClassCount   uint16
	MarkRecords      []GPosMarkAttachRecord     `xml:"MarkRecord"`
	LigatureRecords  []GPosLigatureAttachRecord `xml:"LigatureAttach"`
}

type GPosMarkToMarkFmt1Payload struct {
	Mark2Coverage  Coverage
	MarkClassCount uint16
	Mark1Records   []GPosMarkAttachRecord `xml:"Mark1Record"`
	Mark2Records   []GPosBaseAttachRecord `xml:"Mark2Record"`
}

type GPosSequenceRule struct {
	InputGlyphs []GlyphIndex           `xml:"Input"`
	Records     []SequenceLookupRecord `xml:"PosLookupRecord"`
}

type GPosRuleSet struct {
	Rules []GPosSequenceRule `xml:"PosRule"`
}

type GPosClassSequenceRule struct {
	InputClasses []uint16               `xml:"Class"`
	Records      []SequenceLookupRecord `xml:"PosLookupRecord"`
}

type GPosClassRuleSet struct {
	Rules []GPosClassSequenceRule `xml:"PosClassRule"`
}

type GPosContextFmt1Payload struct {
	RuleSets []GPosRuleSet `xml:"PosRuleSet"`
}

type GPosContextFmt2Payload struct {
	ClassDef ClassDefinitions
	RuleSets []GPosClassRuleSet `xml:"PosClassSet"`
}

type GPosContextFmt3Payload struct {
	InputCoverages []Coverage             `xml:"Coverage"`
	Records        []SequenceLookupRecord `xml:"PosLookupRecord"`
}

type GPosChainedSequenceRule struct {
	Backtrack []GlyphIndex
	Input     []GlyphIndex
	Lookahead []GlyphIndex
	Records   []SequenceLookupRecord `xml:"PosLookupRecord"`
}

type GPosChainedRuleSet struct {
	Rules []GPosChainedSequenceRule `xml:"ChainPosRule"`
}

type GPosChainedClassRule struct {
	Backtrack []uint16
	Input     []uint16
	Lookahead []uint16
	Records   []SequenceLookupRecord `xml:"PosLookupRecord"`
}

type GPosChainedClassRuleSet struct {
	Rules []GPosChainedClassRule `xml:"ChainPosClassRule"`
}

type GPosChainingContextFmt1Payload struct {
	RuleSets []GPosChainedRuleSet `xml:"ChainPosRuleSet"`
}

type GPosChainingContextFmt2Payload struct {
	BacktrackClassDef ClassDefinitions
	InputClassDef     ClassDefinitions
	LookaheadClassDef ClassDefinitions
	RuleSets          []GPosChainedClassRuleSet `xml:"ChainPosClassSet"`
}

type GPosChainingContextFmt3Payload struct {
	BacktrackCoverages []Coverage             `xml:"BacktrackCoverage"`
	InputCoverages     []Coverage             `xml:"InputCoverage"`
	LookaheadCoverages []Coverage             `xml:"LookAheadCoverage"`
	Records            []SequenceLookupRecord `xml:"PosLookupRecord"`
}

// GPosExtensionFmt1Payload wraps a subtable of another lookup type.
type GPosExtensionFmt1Payload struct {
	ResolvedType LayoutTableLookupType `xml:"ExtensionLookupType"`
	Resolved     *LookupNode           `xml:"Subtable"`
}

// WrappedType is the lookup type of the wrapped subtable. If ResolvedType is
// unset, the type of the resolved subtable is used.
func (p *GPosExtensionFmt1Payload) WrappedType() LayoutTableLookupType {
	if p == nil {
		return 0
	}
	if p.ResolvedType == 0 && p.Resolved != nil {
		return p.Resolved.LookupType
	}
	return p.ResolvedType
}

// SequenceLookupRecords collects the nested-lookup records of a contextual
// payload, in table order. It returns nil for non-contextual payloads.
func (p GPosLookupPayload) SequenceLookupRecords() []SequenceLookupRecord {
	var recs []SequenceLookupRecord
	switch {
	case p.ContextFmt1 != nil:
		for _, set := range p.ContextFmt1.RuleSets {
			for _, r := range set.Rules {
				recs = append(recs, r.Records...)
			}
		}
	case p.ContextFmt2 != nil:
		for _, set := range p.ContextFmt2.RuleSets {
			for _, r := range set.Rules {
				recs = append(recs, r.Records...)
			}
		}
	case p.ContextFmt3 != nil:
		recs = append(recs, p.ContextFmt3.Records...)
	case p.ChainingContextFmt1 != nil:
		for _, set := range p.ChainingContextFmt1.RuleSets {
			for _, r := range set.Rules {
				recs = append(recs, r.Records...)
			}
		}
	case p.ChainingContextFmt2 != nil:
		for _, set := range p.ChainingContextFmt2.RuleSets {
			for _, r := range set.Rules {
				recs = append(recs, r.Records...)
			}
		}
	case p.ChainingContextFmt3 != nil:
		recs = append(recs, p.ChainingContextFmt3.Records...)
	case p.ExtensionFmt1 != nil && p.ExtensionFmt1.Resolved != nil:
		recs = p.ExtensionFmt1.Resolved.GPos.SequenceLookupRecords()
	}
	return recs
}
