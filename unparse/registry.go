package unparse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
)

// Registry synthesizes names and deduplicates glyph classes and anchor
// classes for one decompilation. Entries are never removed.
type Registry struct {
	counter  int                // symbol counter, shared by all synthesized names
	shareMin int                // glyph sets of this size or larger become named classes
	namer    ot.GlyphNamer
	classes  *linkedhashmap.Map // sorted member names => *fea.GlyphClassDefinition
	anchors  *linkedhashmap.Map // anchorKey => *AnchorClass
	marks    map[string]*fea.MarkClass
}

// NewRegistry creates an empty registry. Glyph sets with at least shareMin
// members are registered as named glyph classes.
func NewRegistry(namer ot.GlyphNamer, shareMin int) *Registry {
	if namer == nil {
		namer = ot.SyntheticNames
	}
	return &Registry{
		shareMin: shareMin,
		namer:    namer,
		classes:  linkedhashmap.New(),
		anchors:  linkedhashmap.New(),
		marks:    make(map[string]*fea.MarkClass),
	}
}

// Gensym returns a fresh name, consisting of prefix and a running number.
func (r *Registry) Gensym(prefix string) string {
	r.counter++
	return prefix + strconv.Itoa(r.counter)
}

// GlyphName returns the name of a glyph.
func (r *Registry) GlyphName(g ot.GlyphIndex) string {
	return r.namer.GlyphName(g)
}

// GlyphNames returns the names of a list of glyphs, in list order.
func (r *Registry) GlyphNames(glyphs []ot.GlyphIndex) []string {
	names := make([]string, len(glyphs))
	for i, g := range glyphs {
		names[i] = r.namer.GlyphName(g)
	}
	return names
}

// ClassFor returns a glyph reference for a set of glyphs: a glyph name for a
// single glyph, a literal class for small sets, and a reference to a named
// class for large sets. Named classes are identified by their sorted member
// names, so requesting the same set twice (in whatever order) yields the same
// class.
func (r *Registry) ClassFor(glyphs []ot.GlyphIndex) fea.GlyphContainer {
	names := r.GlyphNames(glyphs)
	if len(names) == 1 {
		return fea.GlyphName{Name: names[0]}
	}
	if len(names) < r.shareMin {
		return fea.GlyphClass{Glyphs: names}
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	key := strings.Join(sorted, " ")
	if def, found := r.classes.Get(key); found {
		return fea.GlyphClassName{Definition: def.(*fea.GlyphClassDefinition)}
	}
	def := &fea.GlyphClassDefinition{Name: r.Gensym("GlyphClass"), Glyphs: sorted}
	tracer().Debugf("new glyph class @%s with %d members", def.Name, len(sorted))
	r.classes.Put(key, def)
	return fea.GlyphClassName{Definition: def}
}

// Definitions returns all named glyph classes in creation order.
func (r *Registry) Definitions() []*fea.GlyphClassDefinition {
	defs := make([]*fea.GlyphClassDefinition, 0, r.classes.Size())
	for _, v := range r.classes.Values() {
		defs = append(defs, v.(*fea.GlyphClassDefinition))
	}
	return defs
}

// AnchorClass is an attachment anchor shared by a group of marks.
// All anchor classes of one mark class share a fea.MarkClass.
type AnchorClass struct {
	Mark   *fea.MarkClass
	Anchor *fea.Anchor
	Glyphs []ot.GlyphIndex
}

type anchorKey struct {
	prefix string
	class  int
	x, y   int
}

// AnchorClassFor returns the anchor class for a mark class at anchor position
// (x, y). Mark classes are named prefix_class. The same 4-tuple always yields the same
// anchor class; distinct tuples never do.
func (r *Registry) AnchorClassFor(prefix string, class int, x, y int) (*AnchorClass, bool) {
	key := anchorKey{prefix: prefix, class: class, x: x, y: y}
	if ac, found := r.anchors.Get(key); found {
		return ac.(*AnchorClass), false
	}
	ac := &AnchorClass{
		Mark:   r.MarkClass(prefix, class),
		Anchor: &fea.Anchor{X: x, Y: y},
	}
	r.anchors.Put(key, ac)
	return ac, true
}

// MarkClass returns the mark class named prefix_class.
func (r *Registry) MarkClass(prefix string, class int) *fea.MarkClass {
	name := fmt.Sprintf("%s_%d", prefix, class)
	mc, ok := r.marks[name]
	if !ok {
		mc = &fea.MarkClass{Name: name}
		r.marks[name] = mc
	}
	return mc
}
