package otfea

import (
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/otfea/unparse"
	"github.com/npillmayer/schuko"
)

// DecompileFont loads a font and decompiles its GPOS table into feature-file
// text. conf may be nil, in which case default parameters are used (see
// package unparse for the configuration keys).
func DecompileFont(fontfile string, conf schuko.Configuration) (string, error) {
	f, err := LoadFont(fontfile)
	if err != nil {
		return "", err
	}
	file, err := Decompile(f.GPOS, f, conf)
	if err != nil {
		return "", err
	}
	tracer().Infof("decompiled GPOS of %s", fontfile)
	return file.AsFea(), nil
}

// Decompile decompiles a GPOS table into a feature-file statement tree.
// Glyphs are named by namer, which may be nil for synthetic glyph names.
func Decompile(gpos *ot.GPosTable, namer ot.GlyphNamer, conf schuko.Configuration) (*fea.File, error) {
	return unparse.Unparse(gpos, unparse.WithGlyphNamer(namer), unparse.WithConfiguration(conf))
}
