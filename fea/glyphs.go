package fea

import "strings"

// GlyphContainer is a glyph reference in a rule: a single glyph, a literal
// glyph class, or a reference to a named glyph class.
type GlyphContainer interface {
	Statement
	GlyphSet() []string
}

// GlyphName references a single glyph.
type GlyphName struct {
	Name string
}

func (g GlyphName) AsFea(string) string { return g.Name }

func (g GlyphName) GlyphSet() []string { return []string{g.Name} }

// GlyphClass is a literal glyph class, written inline as "[a b c]".
type GlyphClass struct {
	Glyphs []string
}

func (c GlyphClass) AsFea(string) string {
	return "[" + strings.Join(c.Glyphs, " ") + "]"
}

func (c GlyphClass) GlyphSet() []string { return c.Glyphs }

// GlyphClassDefinition defines a named glyph class: "@name = [a b c];".
type GlyphClassDefinition struct {
	Name   string
	Glyphs []string
}

func (d *GlyphClassDefinition) AsFea(string) string {
	return "@" + d.Name + " = " + GlyphClass{Glyphs: d.Glyphs}.AsFea("") + ";"
}

// GlyphClassName references a named glyph class: "@name".
type GlyphClassName struct {
	Definition *GlyphClassDefinition
}

func (n GlyphClassName) AsFea(string) string {
	return "@" + n.Definition.Name
}

func (n GlyphClassName) GlyphSet() []string { return n.Definition.Glyphs }

var _ GlyphContainer = GlyphName{}
var _ GlyphContainer = GlyphClass{}
var _ GlyphContainer = GlyphClassName{}
