package ot

import (
	"iter"
	"strconv"
)

// GPosTable is the object model of an OpenType GPOS table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gpos).
//
// Lookups are identified by their index into Lookups. Entries must not be nil.
type GPosTable struct {
	Scripts  ScriptList
	Features FeatureList
	Lookups  []*LookupTable
}

// LookupCount returns the number of lookups in the lookup list.
func (t *GPosTable) LookupCount() int {
	if t == nil {
		return 0
	}
	return len(t.Lookups)
}

// Lookup returns the lookup at index i, or nil if out of range.
func (t *GPosTable) Lookup(i int) *LookupTable {
	if t == nil || i < 0 || i >= len(t.Lookups) {
		return nil
	}
	return t.Lookups[i]
}

// RangeLookups iterates lookups in declaration order.
func (t *GPosTable) RangeLookups() iter.Seq2[int, *LookupTable] {
	return func(yield func(int, *LookupTable) bool) {
		if t == nil {
			return
		}
		for i, lt := range t.Lookups {
			if !yield(i, lt) {
				return
			}
		}
	}
}

// GPOS Table
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#table-organization

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
)

const gposLookupTypeNames = "Single|Pair|Cursive|MarkToBase|MarkToLigature|MarkToMark|ContextPos|Chained|Ext"

var gposLookupTypeInx = [...]int{0, 7, 12, 20, 31, 46, 57, 68, 76, 80}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= GPosLookupTypeSingle && lt <= GPosLookupTypeExtensionPos {
		i := lt - 1
		return gposLookupTypeNames[gposLookupTypeInx[i] : gposLookupTypeInx[i+1]-1]
	}
	return strconv.Itoa(int(lt))
}

// IsContextual reports whether a GPOS lookup type invokes other lookups.
func (lt LayoutTableLookupType) IsContextual() bool {
	return lt == GPosLookupTypeContextPos || lt == GPosLookupTypeChainedContextPos
}

// ValueFormat is a bitmask that describes which fields are present in a ValueRecord.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#value-record
type ValueFormat uint16

const (
	ValueFormatXPlacement ValueFormat = 0x0001 // Includes horizontal adjustment for placement
	ValueFormatYPlacement ValueFormat = 0x0002 // Includes vertical adjustment for placement
	ValueFormatXAdvance   ValueFormat = 0x0004 // Includes horizontal adjustment for advance
	ValueFormatYAdvance   ValueFormat = 0x0008 // Includes vertical adjustment for advance
	ValueFormatXPlaDevice ValueFormat = 0x0010 // Includes Device table for horizontal placement
	ValueFormatYPlaDevice ValueFormat = 0x0020 // Includes Device table for vertical placement
	ValueFormatXAdvDevice ValueFormat = 0x0040 // Includes Device table for horizontal advance
	ValueFormatYAdvDevice ValueFormat = 0x0080 // Includes Device table for vertical advance
	// Bits 0x0F00 are reserved for future use
)

// Has reports whether all bits of flag are set in the value format.
func (vf ValueFormat) Has(flag ValueFormat) bool {
	return vf&flag == flag
}

// ValueRecord represents a positioning adjustment for a glyph.
// The fields carrying meaning depend on the ValueFormat bitmask accompanying
// the record.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#value-record
type ValueRecord struct {
	XPlacement int16  `xml:"XPlacement,attr,omitempty"` // Horizontal adjustment for placement, in design units
	YPlacement int16  `xml:"YPlacement,attr,omitempty"` // Vertical adjustment for placement, in design units
	XAdvance   int16  `xml:"XAdvance,attr,omitempty"`   // Horizontal adjustment for advance, in design units
	YAdvance   int16  `xml:"YAdvance,attr,omitempty"`   // Vertical adjustment for advance, in design units
	XPlaDevice uint16 `xml:"XPlaDevice,attr,omitempty"` // Offset to Device table for horizontal placement (may be NULL)
	YPlaDevice uint16 `xml:"YPlaDevice,attr,omitempty"` // Offset to Device table for vertical placement (may be NULL)
	XAdvDevice uint16 `xml:"XAdvDevice,attr,omitempty"` // Offset to Device table for horizontal advance (may be NULL)
	YAdvDevice uint16 `xml:"YAdvDevice,attr,omitempty"` // Offset to Device table for vertical advance (may be NULL)
}

// AnchorFormat represents the format of an Anchor table.
type AnchorFormat uint16

const (
	AnchorFormat1 AnchorFormat = 1 // Design units only
	AnchorFormat2 AnchorFormat = 2 // Design units plus contour point
	AnchorFormat3 AnchorFormat = 3 // Design units plus Device tables
)

// Anchor represents an attachment point on a glyph.
// https://docs.microsoft.com/en-us/typography/opentype/spec/gpos#anchor-tables
type Anchor struct {
	Format        AnchorFormat `xml:"Format,attr"`             // Format identifier
	XCoordinate   int16        `xml:"XCoordinate"`             // Horizontal value, in design units
	YCoordinate   int16        `xml:"YCoordinate"`             // Vertical value, in design units
	AnchorPoint   uint16       `xml:"AnchorPoint,omitempty"`   // Index to glyph contour point (Format 2 only)
	XDeviceOffset uint16       `xml:"XDeviceOffset,omitempty"` // Offset to Device table for X coordinate (Format 3 only)
	YDeviceOffset uint16       `xml:"YDeviceOffset,omitempty"` // Offset to Device table for Y coordinate (Format 3 only)
}

// NewAnchor creates a format 1 anchor.
func NewAnchor(x, y int16) *Anchor {
	return &Anchor{Format: AnchorFormat1, XCoordinate: x, YCoordinate: y}
}

// PairValueRecord represents a kerning pair with positioning adjustments.
// Used in GPOS Lookup Type 2 (Pair Adjustment).
type PairValueRecord struct {
	SecondGlyph GlyphIndex  // Glyph ID of second glyph in pair
	Value1      ValueRecord // Positioning for first glyph
	Value2      ValueRecord // Positioning for second glyph
}
