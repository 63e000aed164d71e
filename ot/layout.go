package ot

import (
	"encoding/xml"
	"iter"
	"slices"
	"strconv"
)

// LayoutTableLookupFlag is a flag type for layout tables (GPOS and GSUB).
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const ( // LookupFlag bit enumeration
	// Note that the RIGHT_TO_LEFT flag is used only for GPOS type 3 lookups and is ignored
	// otherwise. It is not used by client software in determining text direction.
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, the lookup carries a MarkFilteringSet.
	LOOKUP_FLAG_reserved                  LayoutTableLookupFlag = 0x00E0 // For future use (Set to zero)
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified.
)

// LayoutTableLookupType is a type identifier for layout lookup records (GPOS and GSUB).
// Enum values are different for GPOS and GSUB.
type LayoutTableLookupType uint16

// --- Coverage --------------------------------------------------------------

// Coverage is an ordered list of glyphs. The position of a glyph within
// the list is its coverage index, which is used to join against arrays
// running parallel to the coverage.
type Coverage struct {
	Glyphs []GlyphIndex `xml:"Glyph"`
}

// NewCoverage creates a coverage from a list of glyphs, keeping their order.
func NewCoverage(glyphs ...GlyphIndex) Coverage {
	return Coverage{Glyphs: glyphs}
}

// Len returns the number of glyphs covered.
func (c Coverage) Len() int {
	return len(c.Glyphs)
}

// Match returns the Coverage Index for a glyph, and true if present.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	for i, cg := range c.Glyphs {
		if cg == g {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether a glyph is present in the coverage.
func (c Coverage) Contains(g GlyphIndex) bool {
	_, ok := c.Match(g)
	return ok
}

// --- Class definitions -----------------------------------------------------

// ClassDefinitions maps glyphs to (small integer) classes.
// Glyphs not contained in the mapping implicitly belong to class 0.
type ClassDefinitions struct {
	classes map[GlyphIndex]uint16
}

// NewClassDefinitions creates a class definition table from a map.
// Entries for class 0 are dropped, as class 0 is implicit.
func NewClassDefinitions(m map[GlyphIndex]uint16) ClassDefinitions {
	cdef := ClassDefinitions{classes: make(map[GlyphIndex]uint16, len(m))}
	for g, c := range m {
		cdef.Set(g, c)
	}
	return cdef
}

// Set assigns class c to glyph g.
func (cdef *ClassDefinitions) Set(g GlyphIndex, c uint16) {
	if c == 0 {
		if cdef.classes != nil {
			delete(cdef.classes, g)
		}
		return
	}
	if cdef.classes == nil {
		cdef.classes = make(map[GlyphIndex]uint16)
	}
	cdef.classes[g] = c
}

// Lookup returns the class of glyph g, which is 0 for glyphs not explicitly classified.
func (cdef ClassDefinitions) Lookup(g GlyphIndex) uint16 {
	return cdef.classes[g]
}

// Classified reports whether glyph g is explicitly assigned to a class.
func (cdef ClassDefinitions) Classified(g GlyphIndex) bool {
	_, ok := cdef.classes[g]
	return ok
}

// Len returns the number of explicitly classified glyphs.
func (cdef ClassDefinitions) Len() int {
	return len(cdef.classes)
}

// Range iterates over explicitly classified glyphs in ascending glyph order.
func (cdef ClassDefinitions) Range() iter.Seq2[GlyphIndex, uint16] {
	return func(yield func(GlyphIndex, uint16) bool) {
		glyphs := make([]GlyphIndex, 0, len(cdef.classes))
		for g := range cdef.classes {
			glyphs = append(glyphs, g)
		}
		slices.Sort(glyphs)
		for _, g := range glyphs {
			if !yield(g, cdef.classes[g]) {
				return
			}
		}
	}
}

// MarshalXML writes class definitions as a list of
//
//	<ClassDef glyph="12" class="1"/>
//
// entries in glyph order.
func (cdef ClassDefinitions) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for g, c := range cdef.Range() {
		entry := xml.StartElement{
			Name: xml.Name{Local: "ClassDef"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "glyph"}, Value: strconv.Itoa(int(g))},
				{Name: xml.Name{Local: "class"}, Value: strconv.Itoa(int(c))},
			},
		}
		if err := e.EncodeToken(entry); err != nil {
			return err
		}
		if err := e.EncodeToken(entry.End()); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// SequenceLookupRecord references a nested lookup from a contextual lookup,
// to be applied at a given position of the input sequence.
type SequenceLookupRecord struct {
	SequenceIndex   uint16
	LookupListIndex uint16
}
