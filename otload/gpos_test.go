package otload

import (
	"bytes"
	"testing"

	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadGPOS converts the GPOS table of a test font without going through
// ParseFont, as toy fonts lack the tables needed for naming.
func loadGPOS(t *testing.T, path string) *ot.GPosTable {
	t.Helper()
	b, err := td.Files.ReadFile(path)
	require.NoError(t, err)
	ld, err := opentype.NewLoader(bytes.NewReader(b))
	require.NoError(t, err)
	raw, err := ld.RawTable(opentype.MustNewTag("maxp"))
	require.NoError(t, err)
	maxp, _, err := tables.ParseMaxp(raw)
	require.NoError(t, err)
	raw, err = ld.RawTable(opentype.MustNewTag("GPOS"))
	require.NoError(t, err)
	layout, _, err := tables.ParseLayout(raw)
	require.NoError(t, err)
	gpos, err := ConvertGPOS(layout, int(maxp.NumGlyphs))
	require.NoError(t, err)
	return gpos
}

func TestConvertPairSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.load")
	defer teardown()
	//
	gpos := loadGPOS(t, "toys/gpos/gpos2_1_font6.otf")
	require.Equal(t, 1, gpos.LookupCount())
	lookup := gpos.Lookup(0)
	assert.Equal(t, ot.GPosLookupTypePair, lookup.Type)
	require.Equal(t, 1, lookup.SubTableCount())
	p := lookup.Subtable(0).GPos.PairFmt1
	require.NotNil(t, p)
	assert.Equal(t, ot.ValueFormat(1), p.ValueFormat1)
	assert.Equal(t, ot.ValueFormat(2), p.ValueFormat2)
	require.Len(t, p.PairSets, 1)
	want := []ot.PairValueRecord{
		{SecondGlyph: 19, Value1: ot.ValueRecord{XPlacement: -200}, Value2: ot.ValueRecord{YPlacement: -100}},
		{SecondGlyph: 20, Value1: ot.ValueRecord{XPlacement: -300}, Value2: ot.ValueRecord{YPlacement: -400}},
	}
	if diff := cmp.Diff(want, p.PairSets[0].Records); diff != "" {
		t.Errorf("pair set mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertCursive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.load")
	defer teardown()
	//
	gpos := loadGPOS(t, "toys/gpos/GPOSCursive.ttf")
	require.Equal(t, 4, gpos.LookupCount())
	lookup := gpos.Lookup(0)
	assert.Equal(t, ot.GPosLookupTypeCursive, lookup.Type)
	require.Equal(t, 1, lookup.SubTableCount())
	p := lookup.Subtable(0).GPos.CursiveFmt1
	require.NotNil(t, p)
	want := []ot.GPosEntryExitAnchor{
		{Entry: ot.NewAnchor(405, 45), Exit: ot.NewAnchor(0, 0)},
		{Entry: ot.NewAnchor(452, 500), Exit: ot.NewAnchor(0, 0)},
	}
	if diff := cmp.Diff(want, p.Entries); diff != "" {
		t.Errorf("cursive anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertLookupTypes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.load")
	defer teardown()
	//
	for _, path := range []string{"common/NotoSansArabic.ttf", "common/DejaVuSans.ttf"} {
		gpos := loadGPOS(t, path)
		require.Greater(t, gpos.LookupCount(), 0, path)
		for i, lookup := range gpos.RangeLookups() {
			require.NotNil(t, lookup, "%s: lookup #%d", path, i)
			for j, node := range lookup.Range() {
				require.NotNil(t, node, "%s: lookup #%d/%d", path, i, j)
				assert.Equal(t, lookup.EffectiveType(), node.Unwrap().LookupType,
					"%s: lookup #%d/%d has mixed subtable types", path, i, j)
			}
		}
	}
}
