package fea

import (
	"strings"
)

// Positioning adjusts a sequence of glyphs, one value record per position.
// One position makes a single adjustment, two positions make a pair adjustment.
type Positioning struct {
	Glyphs []GlyphContainer
	Values []ValueRecord
}

func (p *Positioning) AsFea(string) string {
	var b strings.Builder
	b.WriteString("pos")
	for i, g := range p.Glyphs {
		b.WriteByte(' ')
		b.WriteString(g.AsFea(""))
		if i < len(p.Values) {
			b.WriteByte(' ')
			b.WriteString(p.Values[i].AsFea(""))
		}
	}
	b.WriteByte(';')
	return b.String()
}

// CursivePos attaches glyphs cursively by entry and exit anchors.
// Either anchor may be nil.
type CursivePos struct {
	Glyphs GlyphContainer
	Entry  *Anchor
	Exit   *Anchor
}

func (c *CursivePos) AsFea(string) string {
	return "pos cursive " + c.Glyphs.AsFea("") + " " + c.Entry.AsFea("") + " " + c.Exit.AsFea("") + ";"
}

// MarkClass is a named class of marks sharing an attachment anchor.
type MarkClass struct {
	Name string
}

// MarkClassDefinition adds glyphs with an anchor to a mark class:
// "markClass [a b] <anchor 1 2> @name;".
type MarkClassDefinition struct {
	Class  *MarkClass
	Anchor *Anchor
	Glyphs GlyphContainer
}

func (d *MarkClassDefinition) AsFea(string) string {
	return "markClass " + d.Glyphs.AsFea("") + " " + d.Anchor.AsFea("") + " @" + d.Class.Name + ";"
}

// MarkAttachment pairs a base anchor with the mark class attaching to it.
type MarkAttachment struct {
	Anchor *Anchor
	Class  *MarkClass
}

// MarkBasePos attaches marks to base glyphs:
// "pos base [a b] <anchor 1 2> mark @top <anchor 3 4> mark @bottom;".
type MarkBasePos struct {
	Base  GlyphContainer
	Marks []MarkAttachment
}

func (m *MarkBasePos) AsFea(string) string {
	var b strings.Builder
	b.WriteString("pos base ")
	b.WriteString(m.Base.AsFea(""))
	for _, a := range m.Marks {
		b.WriteByte(' ')
		b.WriteString(a.Anchor.AsFea(""))
		b.WriteString(" mark @")
		b.WriteString(a.Class.Name)
	}
	b.WriteByte(';')
	return b.String()
}

// Comment is a comment line, including the leading '#', or an empty line.
type Comment struct {
	Text string
}

func (c Comment) AsFea(indent string) string {
	return strings.ReplaceAll(c.Text, "\n", "\n"+indent)
}

// DiagnosticPrefix starts the header line of a Diagnostic.
const DiagnosticPrefix = "# XXX Unparsable rule: "

const diagnosticDelimiter = "# ----"

// Diagnostic stands in for a rule which cannot be expressed in feature-file
// syntax. It renders as comments: a header naming the kind of rule, followed
// by a structural dump of the raw table data between delimiter lines.
type Diagnostic struct {
	Kind string
	Dump []string
}

func (d *Diagnostic) AsFea(indent string) string {
	lines := make([]string, 0, len(d.Dump)+3)
	lines = append(lines, DiagnosticPrefix+d.Kind, diagnosticDelimiter)
	for _, l := range d.Dump {
		lines = append(lines, "# "+l)
	}
	lines = append(lines, diagnosticDelimiter)
	return strings.Join(lines, "\n"+indent)
}
