package unparse

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
)

type routineEntry struct {
	routine  *fea.Routine
	deps     []int // lookups invoked by this lookup
	useCount int
	inline   bool
}

type unparser struct {
	table    *ot.GPosTable
	namer    ot.GlyphNamer
	config   Config
	registry *Registry
	routines map[int]*routineEntry // lookup index => decoded routine
	order    []int                 // processing order of lookups
	features *FeatureMap
	shared   *linkedhashset.Set // lookup indices of routines emitted once and referenced by name
}

// Result is the outcome of a decompilation: the statement tree and the
// intermediate state it has been assembled from.
type Result struct {
	File     *fea.File
	Routines map[int]*fea.Routine // routine per lookup index
	Order    []int                // lookup indices in the order they have been decoded
	Features *FeatureMap          // features after tidying
	Shared   []int                // lookup indices of shared routines, in emission order
	Classes  []*fea.GlyphClassDefinition
}

// Inlined reports whether the routine for a lookup has been spliced into feature
// blocks instead of being referenced by name.
func (r *Result) Inlined(lookup int) bool {
	_, ok := r.Routines[lookup]
	return ok && !slices.Contains(r.Shared, lookup)
}

// Unparse decompiles a GPOS table into a feature-file statement tree.
//
// Unparse either succeeds completely or returns an error. Lookups which have no
// feature-file equivalent are not an error; they are decompiled into diagnostic
// comments. Malformed table data results in an error wrapping an
// *ot.StructuralError, and no statement tree is returned.
func Unparse(gpos *ot.GPosTable, opts ...Option) (*fea.File, error) {
	res, err := Decompile(gpos, opts...)
	if err != nil {
		return nil, err
	}
	return res.File, nil
}

// Decompile is like Unparse, but returns the intermediate state as well.
func Decompile(gpos *ot.GPosTable, opts ...Option) (*Result, error) {
	if gpos == nil {
		gpos = &ot.GPosTable{}
	}
	u := &unparser{
		table:    gpos,
		namer:    ot.SyntheticNames,
		config:   DefaultConfig(),
		routines: make(map[int]*routineEntry),
		features: NewFeatureMap(),
		shared:   linkedhashset.New(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.registry = NewRegistry(u.namer, u.config.ClassShareMin)
	if err := u.run(); err != nil {
		tracer().Errorf("decompiling GPOS failed: %v", err)
		return nil, fmt.Errorf("cannot decompile GPOS: %w", err)
	}
	return u.result(), nil
}

func (u *unparser) run() error {
	if u.config.Lookups {
		if err := u.orderLookups(); err != nil {
			return err
		}
		if err := u.decodeLookups(); err != nil {
			return err
		}
	}
	if err := u.collectFeatures(); err != nil {
		return err
	}
	u.features.CollapseUniform()
	u.features.HoistCommon()
	if u.config.Lookups {
		u.countUses()
	}
	tracer().Infof("decompiled %d lookups, %d features, %d shared lookups, %d glyph classes",
		len(u.routines), len(u.features.Features()), u.shared.Size(), len(u.registry.Definitions()))
	return nil
}

// --- Step 1: dependency order ----------------------------------------------

// orderLookups places every lookup invoked by a contextual lookup before the
// invoking lookup. Placement is repeated until a pass does not move any lookup.
// If an order repeats, lookups depend on each other cyclically.
func (u *unparser) orderLookups() error {
	n := u.table.LookupCount()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	seen := map[string]bool{fmt.Sprint(order): true}
	for pass := 1; ; pass++ {
		changed := false
		placed := make([]bool, n)
		work := make([]int, 0, n)
		for _, inx := range order {
			if placed[inx] {
				continue
			}
			for _, dep := range u.dependencies(inx) {
				if dep < 0 || dep >= n {
					return ot.Malformed(inx, ot.NoSubtable, "SequenceLookupRecord",
						"invoked lookup %d out of range [0..%d)", dep, n)
				}
				if dep == inx {
					tracer().Infof("lookup #%d invokes itself", inx)
					continue
				}
				if !placed[dep] {
					work = append(work, dep)
					placed[dep] = true
					changed = true
				}
			}
			work = append(work, inx)
			placed[inx] = true
		}
		if !changed {
			tracer().Debugf("lookup order settled after %d pass(es)", pass)
			break
		}
		key := fmt.Sprint(work)
		if seen[key] {
			moved := movedLookups(order, work)
			tracer().Errorf("lookups %v depend on each other cyclically", moved)
			return ot.Malformed(moved[0], ot.NoSubtable, "LookupList",
				"lookups %v depend on each other cyclically, order %v repeats", moved, work)
		}
		seen[key] = true
		order = work
	}
	u.order = order
	return nil
}

// movedLookups lists the lookups which changed position between two orders,
// in the sequence of the later order.
func movedLookups(before, after []int) []int {
	var moved []int
	for i, inx := range after {
		if before[i] != inx {
			moved = append(moved, inx)
		}
	}
	return moved
}

func (u *unparser) dependencies(inx int) []int {
	lookup := u.table.Lookup(inx)
	if lookup == nil || !lookup.EffectiveType().IsContextual() {
		return nil
	}
	return lookup.Dependencies()
}

// --- Step 2: decode --------------------------------------------------------

func (u *unparser) decodeLookups() error {
	for _, inx := range u.order {
		r, deps, err := u.decodeLookup(inx, u.table.Lookup(inx))
		if err != nil {
			return err
		}
		for _, dep := range u.dependencies(inx) {
			if !slices.Contains(deps, dep) {
				deps = append(deps, dep)
			}
		}
		u.routines[inx] = &routineEntry{routine: r, deps: deps, inline: true}
	}
	return nil
}

// --- Step 3: feature collection --------------------------------------------

func (u *unparser) collectFeatures() error {
	n := u.table.LookupCount()
	for script, s := range u.table.Scripts.Range() {
		for lang, ls := range s.RangeLangSys() {
			for _, fi := range ls.FeatureIndexList() {
				f := u.table.Features.Feature(int(fi))
				if f == nil {
					return ot.Malformed(ot.NoLookup, ot.NoSubtable, "FeatureList",
						"script '%s' language '%s' references feature %d, which does not exist",
						script.Name(), lang.Name(), fi)
				}
				lookups := make([]int, len(f.LookupListIndices))
				for i, l := range f.LookupListIndices {
					if int(l) >= n {
						return ot.Malformed(ot.NoLookup, ot.NoSubtable, "FeatureList",
							"feature '%s' references lookup %d, which does not exist", f.Tag.Name(), l)
					}
					lookups[i] = int(l)
				}
				u.features.Append(f.Tag, script, lang, lookups...)
			}
		}
	}
	tracer().Debugf("collected %d features", len(u.features.Features()))
	return nil
}

// --- Step 6: use counts ----------------------------------------------------

func (u *unparser) countUses() {
	for _, tag := range u.features.Features() {
		u.use(u.features.Common(tag))
		for _, b := range u.features.Buckets(tag) {
			u.use(b.Lookups)
		}
	}
}

func (u *unparser) use(lookups []int) {
	for _, l := range lookups {
		e := u.routines[l]
		e.useCount++
		if !e.inline {
			continue
		}
		if e.routine.Flags != 0 {
			u.share(l, e)
		} else if e.useCount > 1 && len(e.routine.Statements) > u.config.InlineLimit {
			u.share(l, e)
		}
	}
}

func (u *unparser) share(l int, e *routineEntry) {
	e.inline = false
	u.shared.Add(l)
}

// --- Step 7: assembly ------------------------------------------------------

func (u *unparser) result() *Result {
	res := &Result{
		File:     u.assemble(),
		Routines: make(map[int]*fea.Routine, len(u.routines)),
		Order:    u.order,
		Features: u.features,
		Shared:   u.sharedLookups(),
		Classes:  u.registry.Definitions(),
	}
	for l, e := range u.routines {
		res.Routines[l] = e.routine
	}
	return res
}

func (u *unparser) sharedLookups() []int {
	shared := make([]int, 0, u.shared.Size())
	for _, v := range u.shared.Values() {
		shared = append(shared, v.(int))
	}
	return shared
}

func (u *unparser) assemble() *fea.File {
	file := &fea.File{}
	if u.config.LanguageSystems {
		for _, ls := range u.languageSystems() {
			file.Add(ls)
		}
	}
	if u.config.Lookups && u.config.ClassesFirst {
		u.addGlyphClasses(file)
	}
	if u.config.Lookups && u.shared.Size() > 0 {
		file.Add(fea.Comment{Text: "# Shared lookups"})
		for _, l := range u.sharedLookups() {
			file.Add(u.routines[l].routine)
		}
	}
	for _, tag := range u.features.Features() {
		file.Add(u.featureBlock(tag))
	}
	if u.config.Lookups && !u.config.ClassesFirst {
		u.addGlyphClasses(file)
	}
	return file
}

func (u *unparser) addGlyphClasses(file *fea.File) {
	defs := u.registry.Definitions()
	if len(defs) == 0 {
		return
	}
	file.Add(fea.Comment{Text: "# Glyph classes"})
	for _, def := range defs {
		file.Add(def)
	}
}

func (u *unparser) featureBlock(tag ot.Tag) *fea.FeatureBlock {
	fb := &fea.FeatureBlock{Tag: tag.Name()}
	fb.Add(u.lookupStatements(u.features.Common(tag))...)
	if u.features.IsDefaultOnly(tag) {
		fb.Add(u.lookupStatements(u.features.Buckets(tag)[0].Lookups)...)
		return fb
	}
	for _, b := range u.features.Buckets(tag) {
		fb.Add(
			fea.Comment{},
			fea.ScriptStatement{Tag: b.Script.Name()},
			fea.LanguageStatement{Tag: b.Language.Name()},
		)
		fb.Add(u.lookupStatements(b.Lookups)...)
	}
	return fb
}

// lookupStatements returns the statements applying lookups within a feature:
// either the statements of a routine or a reference to a shared routine.
func (u *unparser) lookupStatements(lookups []int) []fea.Statement {
	if !u.config.Lookups {
		return nil
	}
	var stmts []fea.Statement
	for _, l := range lookups {
		e := u.routines[l]
		if e.inline {
			stmts = append(stmts, e.routine.Statements...)
		} else {
			stmts = append(stmts, fea.LookupReference{Name: e.routine.Name})
		}
	}
	return stmts
}

// languageSystems lists every script/language pair of the script list,
// with DFLT first.
func (u *unparser) languageSystems() []fea.LanguageSystem {
	var systems []fea.LanguageSystem
	for script, s := range u.table.Scripts.Range() {
		for lang := range s.RangeLangSys() {
			ls := fea.LanguageSystem{Script: script.Name(), Language: lang.Name()}
			if !slices.Contains(systems, ls) {
				systems = append(systems, ls)
			}
		}
	}
	slices.SortStableFunc(systems, func(a, b fea.LanguageSystem) int {
		return dfltFirst(a.Script) - dfltFirst(b.Script)
	})
	return systems
}

func dfltFirst(script string) int {
	if script == ot.DFLT.Name() {
		return 0
	}
	return 1
}
