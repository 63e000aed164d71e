package ot

import "iter"

// ScriptList is the list of scripts of a layout table, in table order.
type ScriptList struct {
	Scripts []Script
}

// Script is a semantic container for one OpenType Script table.
// DefaultLangSys may be nil.
type Script struct {
	Tag            Tag
	DefaultLangSys *LangSys
	LangSys        []LangSys
}

// LangSys is one language system of a script. Features are referenced by
// their index into the FeatureList.
type LangSys struct {
	Tag             Tag            // language tag; unused for a default language system
	RequiredFeature Option[uint16] // index of a required feature, if any
	FeatureIndices  []uint16
}

// FeatureList is the list of features of a layout table.
// Duplicate feature tags are legal and common (one per script/language).
type FeatureList struct {
	Features []Feature
}

// Feature is a semantic view of one OpenType Feature table.
type Feature struct {
	Tag               Tag
	LookupListIndices []uint16
}

// Len returns the number of scripts in the list.
func (sl *ScriptList) Len() int {
	if sl == nil {
		return 0
	}
	return len(sl.Scripts)
}

// Range iterates scripts in table order.
func (sl *ScriptList) Range() iter.Seq2[Tag, *Script] {
	return func(yield func(Tag, *Script) bool) {
		if sl == nil {
			return
		}
		for i := range sl.Scripts {
			if !yield(sl.Scripts[i].Tag, &sl.Scripts[i]) {
				return
			}
		}
	}
}

// RangeLangSys iterates the language systems of a script, starting with
// the default language system (tagged 'dflt'), followed by explicit language
// systems in table order.
func (s *Script) RangeLangSys() iter.Seq2[Tag, *LangSys] {
	return func(yield func(Tag, *LangSys) bool) {
		if s == nil {
			return
		}
		if s.DefaultLangSys != nil {
			if !yield(Dflt, s.DefaultLangSys) {
				return
			}
		}
		for i := range s.LangSys {
			if !yield(s.LangSys[i].Tag, &s.LangSys[i]) {
				return
			}
		}
	}
}

// FeatureIndexList returns the feature indices referenced by a language system,
// with the required feature (if any) first.
func (ls *LangSys) FeatureIndexList() []uint16 {
	if ls == nil {
		return nil
	}
	req, ok := ls.RequiredFeature.Unwrap()
	if !ok {
		return ls.FeatureIndices
	}
	inx := make([]uint16, 0, len(ls.FeatureIndices)+1)
	inx = append(inx, req)
	for _, fi := range ls.FeatureIndices {
		if fi != req {
			inx = append(inx, fi)
		}
	}
	return inx
}

// Len returns the number of features in the list.
func (fl *FeatureList) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.Features)
}

// Feature returns the feature at index i, or nil if out of range.
func (fl *FeatureList) Feature(i int) *Feature {
	if fl == nil || i < 0 || i >= len(fl.Features) {
		return nil
	}
	return &fl.Features[i]
}
