package unparse

import (
	"slices"
	"testing"

	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var (
	kern = ot.T("kern")
	latn = ot.T("latn")
	cyrl = ot.T("cyrl")
	deu  = ot.T("DEU ")
)

func TestFeatureMapOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	fm := NewFeatureMap()
	fm.Append(ot.T("mark"), latn, ot.Dflt, 4)
	fm.Append(kern, latn, ot.Dflt, 1, 2)
	fm.Append(kern, cyrl, ot.Dflt, 3)
	fm.Append(kern, latn, deu, 2)
	fm.Append(kern, latn, ot.Dflt, 2)
	if tags := fm.Features(); len(tags) != 2 || tags[0] != ot.T("mark") || tags[1] != kern {
		t.Errorf("expected features in collection order, have %v", tags)
	}
	buckets := fm.Buckets(kern)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets for kern, have %d", len(buckets))
	}
	if buckets[0].Script != latn || buckets[1].Script != latn || buckets[1].Language != deu || buckets[2].Script != cyrl {
		t.Errorf("expected buckets script-major in collection order")
	}
	if !slices.Equal(buckets[0].Lookups, []int{1, 2, 2}) {
		t.Errorf("expected duplicates to be retained, have %v", buckets[0].Lookups)
	}
}

func TestTidyFullHoist(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	fm := NewFeatureMap()
	fm.Append(kern, latn, ot.Dflt, 3, 7)
	fm.Append(kern, cyrl, ot.Dflt, 3, 7)
	fm.CollapseUniform()
	fm.HoistCommon()
	buckets := fm.Buckets(kern)
	if len(buckets) != 1 || !buckets[0].IsDefault() {
		t.Fatalf("expected feature to collapse to DFLT/dflt, have %d buckets", len(buckets))
	}
	if !slices.Equal(buckets[0].Lookups, []int{3, 7}) {
		t.Errorf("expected lookups [3 7], have %v", buckets[0].Lookups)
	}
	if !fm.IsDefaultOnly(kern) {
		t.Errorf("expected kern to be default only")
	}
}

func TestTidyPartialHoist(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	fm := NewFeatureMap()
	fm.Append(kern, latn, ot.Dflt, 3, 7)
	fm.Append(kern, cyrl, ot.Dflt, 3, 9)
	fm.CollapseUniform()
	fm.HoistCommon()
	if common := fm.Common(kern); !slices.Equal(common, []int{3}) {
		t.Errorf("expected lookup 3 to be common, have %v", common)
	}
	// no lookup lost or duplicated
	for _, c := range []struct {
		script ot.Tag
		want   []int
	}{
		{latn, []int{3, 7}},
		{cyrl, []int{3, 9}},
	} {
		got, ok := fm.EffectiveLookups(kern, c.script, ot.Dflt)
		if !ok || !slices.Equal(got, c.want) {
			t.Errorf("expected %s to apply %v, have %v", c.script, c.want, got)
		}
	}
	buckets := fm.Buckets(kern)
	if !slices.Equal(buckets[0].Lookups, []int{7}) || !slices.Equal(buckets[1].Lookups, []int{9}) {
		t.Errorf("expected bucket-specific lookups 7 and 9, have %v and %v",
			buckets[0].Lookups, buckets[1].Lookups)
	}
	if _, ok := fm.EffectiveLookups(kern, deu, ot.Dflt); ok {
		t.Errorf("expected no lookups for unknown script")
	}
}

func TestTidyPartialHoistKeepsDuplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	fm := NewFeatureMap()
	fm.Append(kern, latn, ot.Dflt, 3, 3, 7)
	fm.Append(kern, cyrl, ot.Dflt, 3, 9)
	fm.CollapseUniform()
	fm.HoistCommon()
	if common := fm.Common(kern); !slices.Equal(common, []int{3}) {
		t.Errorf("expected lookup 3 to be common, have %v", common)
	}
	if got, _ := fm.EffectiveLookups(kern, latn, ot.Dflt); !slices.Equal(got, []int{3, 3, 7}) {
		t.Errorf("expected latn to keep its duplicate, have %v", got)
	}
	if got, _ := fm.EffectiveLookups(kern, cyrl, ot.Dflt); !slices.Equal(got, []int{3, 9}) {
		t.Errorf("expected cyrl to apply [3 9], have %v", got)
	}
}

func TestTidySingleBucket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	fm := NewFeatureMap()
	fm.Append(ot.T("mark"), latn, deu, 1)
	fm.Append(kern, latn, ot.Dflt, 2)
	fm.CollapseUniform()
	if !fm.IsDefaultOnly(ot.T("mark")) {
		t.Errorf("expected single bucket to collapse to default")
	}
	if tags := fm.Features(); tags[0] != ot.T("mark") {
		t.Errorf("expected collapsing to keep feature order, have %v", tags)
	}
}
