package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

func featuresOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	fm := intp.result.Features
	features := fm.Features()
	pterm.Printf("GPOS has %d features\n", len(features))
	if len(features) == 0 {
		return
	}
	data := [][]string{
		{"Feature", "Script", "Language", "Lookups"},
	}
	for _, tag := range features {
		if common := fm.Common(tag); len(common) > 0 {
			data = append(data, []string{tag.String(), "*", "*", formatIndices(common)})
		}
		for _, b := range fm.Buckets(tag) {
			data = append(data, []string{tag.String(), b.Script.String(), b.Language.String(),
				formatIndices(b.Lookups)})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func featureOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	if op.noArg() {
		return featuresOp(intp, op)
	}
	for _, stmt := range intp.result.File.Statements {
		if fb, ok := stmt.(*fea.FeatureBlock); ok && fb.Tag == op.arg {
			pterm.Println(fb.AsFea(""))
			return
		}
	}
	return fmt.Errorf("no feature %q", op.arg), false
}

func lookupsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	gpos := intp.font.GPOS
	count := gpos.LookupCount()
	pterm.Printf("GPOS LookupList has %d entries\n", count)
	if count == 0 {
		return
	}
	data := [][]string{
		{"Index", "Type", "Subtables", "Flags", "Routine"},
	}
	for i, lookup := range gpos.RangeLookups() {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatLookupType(lookup),
			fmt.Sprintf("%d", lookup.SubTableCount()),
			formatLookupFlags(lookup.Flag),
			intp.formatRoutine(i),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

// lookupOp prints the routine decoded from a lookup. With format "xml",
// a structural dump of the lookup is printed instead.
func lookupOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	if op.noArg() {
		return lookupsOp(intp, op)
	}
	var i int
	if i, err = intp.lookupIndex(op); err != nil {
		return
	}
	lookup := intp.font.GPOS.Lookup(i)
	pterm.Printf("Lookup %d: type=%s flags=%s subtables=%d\n", i,
		formatLookupType(lookup), formatLookupFlags(lookup.Flag), lookup.SubTableCount())
	if strings.EqualFold(op.format, "xml") {
		pterm.Println(strings.Join(ot.DumpXML(lookup, i), "\n"))
		return
	}
	r, ok := intp.result.Routines[i]
	if !ok {
		return fmt.Errorf("lookup %d has not been decoded", i), false
	}
	pterm.Println(r.AsFea(""))
	return
}

func scriptsOp(intp *Intp, op *Op) (err error, stop bool) {
	scripts := intp.font.GPOS.Scripts
	pterm.Printf("GPOS ScriptList has %d entries\n", scripts.Len())
	data := [][]string{
		{"Script", "Name", "Language", "Required", "Features"},
	}
	for tag, script := range scripts.Range() {
		name := scriptName(tag)
		if ls := script.DefaultLangSys; ls != nil {
			data = append(data, []string{tag.String(), name, "(default)",
				formatRequired(ls.RequiredFeature), formatIndices(ls.FeatureIndices)})
		}
		for _, ls := range script.LangSys {
			data = append(data, []string{tag.String(), name, ls.Tag.String(),
				formatRequired(ls.RequiredFeature), formatIndices(ls.FeatureIndices)})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func classesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	classes := intp.result.Classes
	pterm.Printf("%d named glyph classes\n", len(classes))
	for _, def := range classes {
		if op.arg == "" || op.arg == def.Name {
			pterm.Println(def.AsFea(""))
		}
	}
	return
}

func allOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkResult(); err != nil {
		return
	}
	pterm.Print(intp.result.File.AsFea())
	return
}

// --- Formatting -------------------------------------------------------

func (intp *Intp) formatRoutine(i int) string {
	r, ok := intp.result.Routines[i]
	if !ok {
		return "-"
	}
	if intp.result.Inlined(i) {
		return r.Name + " (inlined)"
	}
	return r.Name
}

func formatLookupType(lookup *ot.LookupTable) string {
	lt := lookup.Type
	if lt == 0 {
		return "Unknown(0)"
	}
	if lt == ot.GPosLookupTypeExtensionPos {
		return lt.GPosString() + "/" + lookup.EffectiveType().GPosString()
	}
	return lt.GPosString()
}

func formatLookupFlags(flag ot.LayoutTableLookupFlag) string {
	if flag == 0 {
		return "-"
	}
	parts := make([]string, 0, 6)
	if flag&ot.LOOKUP_FLAG_RIGHT_TO_LEFT != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 {
		parts = append(parts, "IgnoreBase")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		parts = append(parts, "UseMarkFilteringSet")
	}
	if flag&ot.LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK != 0 {
		parts = append(parts, fmt.Sprintf("MarkAttachType=%d", flag>>8))
	}
	return strings.Join(parts, "|")
}

func formatIndices[T int | uint16](inx []T) string {
	if len(inx) == 0 {
		return "-"
	}
	s := make([]string, len(inx))
	for i, n := range inx {
		s[i] = strconv.Itoa(int(n))
	}
	return strings.Join(s, " ")
}

func formatRequired(req ot.Option[uint16]) string {
	if inx, ok := req.Unwrap(); ok {
		return strconv.Itoa(int(inx))
	}
	return "-"
}

// scriptName returns the English name of an OpenType script tag. Most
// OpenType script tags are lowercase ISO 15924 codes; tags of newer shaping
// models (e.g. "dev2") and DFLT have no ISO counterpart.
func scriptName(tag ot.Tag) string {
	if tag == ot.DFLT {
		return "Default"
	}
	code := strings.TrimSpace(tag.String())
	if len(code) != 4 {
		return "?"
	}
	script, err := language.ParseScript(strings.ToUpper(code[:1]) + code[1:])
	if err != nil {
		return "?"
	}
	return display.English.Scripts().Name(script)
}
