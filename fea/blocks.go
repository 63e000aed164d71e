package fea

import (
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/otfea/ot"
)

// LookupFlag sets lookup flags within a lookup block.
type LookupFlag struct {
	Flag ot.LayoutTableLookupFlag
}

var lookupFlagNames = []struct {
	flag ot.LayoutTableLookupFlag
	name string
}{
	{ot.LOOKUP_FLAG_RIGHT_TO_LEFT, "RightToLeft"},
	{ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS, "IgnoreBaseGlyphs"},
	{ot.LOOKUP_FLAG_IGNORE_LIGATURES, "IgnoreLigatures"},
	{ot.LOOKUP_FLAG_IGNORE_MARKS, "IgnoreMarks"},
}

// AsFea renders flags by name. Flags referring to GDEF mark classes or mark
// filtering sets cannot be named without GDEF, so those are rendered numerically.
func (f LookupFlag) AsFea(string) string {
	if f.Flag&^0x000F != 0 || f.Flag == 0 {
		return "lookupflag " + strconv.Itoa(int(f.Flag)) + ";"
	}
	var names []string
	for _, n := range lookupFlagNames {
		if f.Flag&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return "lookupflag " + strings.Join(names, " ") + ";"
}

// Routine is the decompiled form of one lookup: a named lookup block.
type Routine struct {
	Name       string
	Flags      ot.LayoutTableLookupFlag
	Statements []Statement
}

// Add appends statements to a routine.
func (r *Routine) Add(stmts ...Statement) {
	r.Statements = append(r.Statements, stmts...)
}

// Body returns the statements of a routine as they appear within its block,
// including a leading lookupflag statement if flags are set.
func (r *Routine) Body() []Statement {
	if r.Flags == 0 {
		return r.Statements
	}
	body := make([]Statement, 0, len(r.Statements)+1)
	body = append(body, LookupFlag{Flag: r.Flags})
	return append(body, r.Statements...)
}

func (r *Routine) AsFea(indent string) string {
	return block("lookup "+r.Name+" {", "} "+r.Name+";", r.Body(), indent)
}

// LookupReference references a lookup defined elsewhere: "lookup name;".
type LookupReference struct {
	Name string
}

func (l LookupReference) AsFea(string) string {
	return "lookup " + l.Name + ";"
}

// FeatureBlock is a feature definition: "feature kern { ... } kern;".
type FeatureBlock struct {
	Tag        string
	Statements []Statement
}

// Add appends statements to a feature block.
func (f *FeatureBlock) Add(stmts ...Statement) {
	f.Statements = append(f.Statements, stmts...)
}

func (f *FeatureBlock) AsFea(indent string) string {
	return block("feature "+f.Tag+" {", "} "+f.Tag+";", f.Statements, indent)
}

// ScriptStatement selects a script within a feature block.
type ScriptStatement struct {
	Tag string
}

func (s ScriptStatement) AsFea(string) string { return "script " + s.Tag + ";" }

// LanguageStatement selects a language system within a feature block.
type LanguageStatement struct {
	Tag string
}

func (l LanguageStatement) AsFea(string) string { return "language " + l.Tag + ";" }

// LanguageSystem declares a script/language pair at top level.
type LanguageSystem struct {
	Script, Language string
}

func (l LanguageSystem) AsFea(string) string {
	return "languagesystem " + l.Script + " " + l.Language + ";"
}

func block(open, close string, stmts []Statement, indent string) string {
	var b strings.Builder
	b.WriteString(open)
	b.WriteByte('\n')
	inner := indent + indentStep
	for _, s := range stmts {
		if text := s.AsFea(inner); text != "" {
			b.WriteString(inner)
			b.WriteString(text)
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteString(close)
	return b.String()
}

// File is the root of a feature-file statement tree.
type File struct {
	Statements []Statement
}

// Add appends top-level statements to a file.
func (f *File) Add(stmts ...Statement) {
	f.Statements = append(f.Statements, stmts...)
}

// AsFea renders the complete feature file.
func (f *File) AsFea() string {
	var b strings.Builder
	for _, s := range f.Statements {
		b.WriteString(s.AsFea(""))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the rendered feature file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.AsFea())
	return int64(n), err
}
