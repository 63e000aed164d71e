package unparse

import (
	"slices"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/otfea/ot"
)

// Bucket holds the lookups of one feature for one script and language system.
// Lookups keep the order of collection; duplicates are retained.
type Bucket struct {
	Script   ot.Tag
	Language ot.Tag
	Lookups  []int
}

// IsDefault reports whether a bucket is the default script/language bucket.
func (b *Bucket) IsDefault() bool {
	return b.Script == ot.DFLT && b.Language == ot.Dflt
}

type featureEntry struct {
	scripts *linkedhashmap.Map // script tag => *linkedhashmap.Map (language tag => *Bucket)
	common  []int              // lookups hoisted from all buckets
}

// FeatureMap is an ordered mapping feature → script → language → lookups.
// Iteration order at every level is insertion order.
type FeatureMap struct {
	features *linkedhashmap.Map // feature tag => *featureEntry
}

// NewFeatureMap creates an empty feature map.
func NewFeatureMap() *FeatureMap {
	return &FeatureMap{features: linkedhashmap.New()}
}

func (fm *FeatureMap) entry(feature ot.Tag) *featureEntry {
	if e, found := fm.features.Get(feature); found {
		return e.(*featureEntry)
	}
	e := &featureEntry{scripts: linkedhashmap.New()}
	fm.features.Put(feature, e)
	return e
}

// Bucket returns the bucket for (feature, script, language), creating it
// (and any missing level) if not present.
func (fm *FeatureMap) Bucket(feature, script, language ot.Tag) *Bucket {
	e := fm.entry(feature)
	var langs *linkedhashmap.Map
	if l, found := e.scripts.Get(script); found {
		langs = l.(*linkedhashmap.Map)
	} else {
		langs = linkedhashmap.New()
		e.scripts.Put(script, langs)
	}
	if b, found := langs.Get(language); found {
		return b.(*Bucket)
	}
	b := &Bucket{Script: script, Language: language}
	langs.Put(language, b)
	return b
}

// Append adds lookups to the bucket for (feature, script, language).
func (fm *FeatureMap) Append(feature, script, language ot.Tag, lookups ...int) {
	b := fm.Bucket(feature, script, language)
	b.Lookups = append(b.Lookups, lookups...)
}

// Features returns the feature tags in order of first collection.
func (fm *FeatureMap) Features() []ot.Tag {
	tags := make([]ot.Tag, 0, fm.features.Size())
	for _, k := range fm.features.Keys() {
		tags = append(tags, k.(ot.Tag))
	}
	return tags
}

// Buckets returns the buckets of a feature in collection order, script-major.
func (fm *FeatureMap) Buckets(feature ot.Tag) []*Bucket {
	e, found := fm.features.Get(feature)
	if !found {
		return nil
	}
	var buckets []*Bucket
	for _, l := range e.(*featureEntry).scripts.Values() {
		for _, b := range l.(*linkedhashmap.Map).Values() {
			buckets = append(buckets, b.(*Bucket))
		}
	}
	return buckets
}

// Common returns the lookups of a feature which apply to all of its buckets,
// as determined by HoistCommon.
func (fm *FeatureMap) Common(feature ot.Tag) []int {
	if e, found := fm.features.Get(feature); found {
		return e.(*featureEntry).common
	}
	return nil
}

// EffectiveLookups returns all lookups applying to (feature, script, language),
// including lookups common to all buckets of the feature. The second return
// value is false if there is no such bucket.
func (fm *FeatureMap) EffectiveLookups(feature, script, language ot.Tag) ([]int, bool) {
	for _, b := range fm.Buckets(feature) {
		if b.Script == script && b.Language == language {
			lookups := slices.Clone(fm.Common(feature))
			return append(lookups, b.Lookups...), true
		}
	}
	return nil, false
}

// CollapseUniform collapses every feature whose buckets all carry the same
// list of lookups into a single default bucket (DFLT/dflt).
func (fm *FeatureMap) CollapseUniform() {
	for _, tag := range fm.Features() {
		buckets := fm.Buckets(tag)
		if len(buckets) == 0 {
			continue
		}
		first := buckets[0].Lookups
		uniform := true
		for _, b := range buckets[1:] {
			if !slices.Equal(first, b.Lookups) {
				uniform = false
				break
			}
		}
		if !uniform {
			continue
		}
		tracer().Debugf("feature '%s' is uniform over %d language systems", tag, len(buckets))
		e := &featureEntry{scripts: linkedhashmap.New()}
		langs := linkedhashmap.New()
		langs.Put(ot.Dflt, &Bucket{Script: ot.DFLT, Language: ot.Dflt, Lookups: slices.Clone(first)})
		e.scripts.Put(ot.DFLT, langs)
		fm.features.Put(tag, e) // keeps position of tag
	}
}

// HoistCommon moves lookups present in every bucket of a multi-bucket feature
// out of the buckets and into the feature's common part, which applies to all
// language systems. Order of common lookups follows the first bucket.
func (fm *FeatureMap) HoistCommon() {
	for _, tag := range fm.Features() {
		buckets := fm.Buckets(tag)
		if len(buckets) < 2 {
			continue
		}
		var common []int
		for _, l := range buckets[0].Lookups {
			if slices.Contains(common, l) {
				continue
			}
			inAll := true
			for _, b := range buckets[1:] {
				if !slices.Contains(b.Lookups, l) {
					inAll = false
					break
				}
			}
			if inAll {
				common = append(common, l)
			}
		}
		if len(common) == 0 {
			continue
		}
		tracer().Debugf("feature '%s': hoisting common lookups %v", tag, common)
		// one occurrence per bucket, further duplicates stay
		for _, b := range buckets {
			for _, l := range common {
				if i := slices.Index(b.Lookups, l); i >= 0 {
					b.Lookups = slices.Delete(b.Lookups, i, i+1)
				}
			}
		}
		e, _ := fm.features.Get(tag)
		e.(*featureEntry).common = common
	}
}

// IsDefaultOnly reports whether a feature consists of the default bucket only.
func (fm *FeatureMap) IsDefaultOnly(feature ot.Tag) bool {
	buckets := fm.Buckets(feature)
	return len(buckets) == 1 && buckets[0].IsDefault()
}
