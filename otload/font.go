package otload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/otfea/ot"
	"golang.org/x/image/font/sfnt"
)

// Font is a loaded OpenType font, reduced to what is needed for decompiling
// its GPOS table.
type Font struct {
	Fontname  string
	Binary    []byte
	NumGlyphs int
	GPOS      *ot.GPosTable // never nil; empty for fonts without GPOS
	names     ot.GlyphNames
}

// GlyphName returns the name of glyph g as recorded in the font, or a
// synthesized name for glyphs without one.
func (f *Font) GlyphName(g ot.GlyphIndex) string {
	if f == nil {
		return ot.SyntheticGlyphName(g)
	}
	return f.names.GlyphName(g)
}

// LoadFont loads an OpenType font (TTF or OTF) from a file.
func LoadFont(fontfile string) (*Font, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("cannot load font %s: %w", fontfile, err)
	}
	return f, nil
}

// ParseFont loads an OpenType font (TTF or OTF) from memory.
func ParseFont(fbytes []byte) (*Font, error) {
	f := &Font{Binary: fbytes}
	sf, err := sfnt.Parse(fbytes)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = sf.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Infof("font has no full name: %v", err)
	}
	ld, err := opentype.NewLoader(bytes.NewReader(fbytes))
	if err != nil {
		return nil, err
	}
	raw, err := ld.RawTable(opentype.MustNewTag("maxp"))
	if err != nil {
		return nil, err
	}
	maxp, _, err := tables.ParseMaxp(raw)
	if err != nil {
		return nil, err
	}
	f.NumGlyphs = int(maxp.NumGlyphs)
	f.names = loadGlyphNames(ld, f.NumGlyphs)
	raw, err = ld.RawTable(opentype.MustNewTag("GPOS"))
	if err != nil {
		tracer().Infof("font %q has no GPOS table", f.Fontname)
		f.GPOS = &ot.GPosTable{}
		return f, nil
	}
	layout, _, err := tables.ParseLayout(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot parse GPOS: %w", err)
	}
	if f.GPOS, err = ConvertGPOS(layout, f.NumGlyphs); err != nil {
		return nil, err
	}
	tracer().Infof("font %q: %d glyphs, %d GPOS lookups", f.Fontname, f.NumGlyphs, f.GPOS.LookupCount())
	return f, nil
}

// loadGlyphNames reads glyph names from the post or CFF table. Fonts
// without glyph names get synthesized names.
func loadGlyphNames(ld *opentype.Loader, n int) ot.GlyphNames {
	fnt, err := font.NewFont(ld)
	if err != nil {
		tracer().Infof("cannot read glyph names: %v", err)
		return nil
	}
	names := make(ot.GlyphNames, n)
	for g := range names {
		names[g] = fnt.GlyphName(font.GID(g))
	}
	return names
}
