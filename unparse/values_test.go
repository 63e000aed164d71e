package unparse

import (
	"testing"

	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestDecodeValueRecord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	vf := ot.ValueFormatXPlacement | ot.ValueFormatXAdvance // 0x0005
	v := DecodeValueRecord(vf, ot.ValueRecord{XPlacement: 10, YPlacement: 0, XAdvance: 20, YAdvance: 0})
	if x, ok := v.XPlacement.Unwrap(); !ok || x != 10 {
		t.Errorf("expected x placement 10, is %v", v.XPlacement)
	}
	if x, ok := v.XAdvance.Unwrap(); !ok || x != 20 {
		t.Errorf("expected x advance 20, is %v", v.XAdvance)
	}
	if v.YPlacement.IsSome() || v.YAdvance.IsSome() {
		t.Errorf("expected y fields to be absent")
	}
	if got := v.AsFea(""); got != "<10 0 20 0>" {
		t.Errorf("unexpected rendering %q", got)
	}
	// fields not announced by the value format are ignored
	v = DecodeValueRecord(0, ot.ValueRecord{XAdvance: 20})
	if !v.IsEmpty() {
		t.Errorf("expected flagless value record to be empty, is %s", v.AsFea(""))
	}
	v = DecodeValueRecord(vf, ot.ValueRecord{})
	if !v.IsEmpty() {
		t.Errorf("expected all-zero value record to be empty, is %s", v.AsFea(""))
	}
	v = DecodeValueRecord(ot.ValueFormatXAdvDevice, ot.ValueRecord{XAdvDevice: 0x20})
	if v.IsEmpty() || !v.XAdvDevice {
		t.Errorf("expected device offset to be reported")
	}
}

func TestDecodeAnchor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otfea.unparse")
	defer teardown()
	//
	if a := DecodeAnchor(nil); a != nil {
		t.Errorf("expected nil anchor to decode to nil")
	}
	a := DecodeAnchor(ot.NewAnchor(100, -20))
	if a.X != 100 || a.Y != -20 || a.ContourPoint.IsSome() {
		t.Errorf("unexpected anchor %s", a.AsFea(""))
	}
	a = DecodeAnchor(&ot.Anchor{Format: ot.AnchorFormat2, XCoordinate: 5, YCoordinate: 6, AnchorPoint: 3})
	if got := a.AsFea(""); got != "<anchor 5 6 contourpoint 3>" {
		t.Errorf("unexpected anchor %q", got)
	}
}
