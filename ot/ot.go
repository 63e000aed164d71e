package ot

import (
	"fmt"
	"strings"
)

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("kern"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended with spaces or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return MakeTag([]byte(t))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// Name returns the tag as used in feature files, i.e. without trailing blanks.
func (t Tag) Name() string {
	return strings.TrimRight(t.String(), " \x00")
}

// MarshalText renders a tag as its 4-letter string.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Well known tags for default script and language system.
var (
	DFLT = T("DFLT")
	Dflt = T("dflt")
)

// --- Glyph names -----------------------------------------------------------

// GlyphNamer maps glyph indices to glyph names. Feature files reference glyphs
// by name, never by index.
type GlyphNamer interface {
	GlyphName(GlyphIndex) string
}

// GlyphNames is a GlyphNamer backed by a list of names, indexed by glyph.
// Glyphs without an entry (or with an empty entry) get a synthesized name.
type GlyphNames []string

// GlyphName returns the name of glyph g.
func (names GlyphNames) GlyphName(g GlyphIndex) string {
	if int(g) < len(names) && names[g] != "" {
		return names[g]
	}
	return SyntheticGlyphName(g)
}

// SyntheticGlyphName is the fallback name for glyphs without a name,
// e.g. "glyph00042".
func SyntheticGlyphName(g GlyphIndex) string {
	return fmt.Sprintf("glyph%05d", g)
}

type syntheticNamer struct{}

func (syntheticNamer) GlyphName(g GlyphIndex) string {
	return SyntheticGlyphName(g)
}

// SyntheticNames is a GlyphNamer returning SyntheticGlyphName for every glyph.
var SyntheticNames GlyphNamer = syntheticNamer{}
