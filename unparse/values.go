package unparse

import (
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
)

// DecodeValueRecord turns a raw value record into its semantic form. A field is
// present if its bit is set in the value format and its value is non-zero.
// Device offsets are reported as present, but are not decoded.
func DecodeValueRecord(vf ot.ValueFormat, vr ot.ValueRecord) fea.ValueRecord {
	var v fea.ValueRecord
	if vf.Has(ot.ValueFormatXPlacement) {
		v.XPlacement = ot.NonZero(int(vr.XPlacement))
	}
	if vf.Has(ot.ValueFormatYPlacement) {
		v.YPlacement = ot.NonZero(int(vr.YPlacement))
	}
	if vf.Has(ot.ValueFormatXAdvance) {
		v.XAdvance = ot.NonZero(int(vr.XAdvance))
	}
	if vf.Has(ot.ValueFormatYAdvance) {
		v.YAdvance = ot.NonZero(int(vr.YAdvance))
	}
	v.XPlaDevice = vf.Has(ot.ValueFormatXPlaDevice) && vr.XPlaDevice != 0
	v.YPlaDevice = vf.Has(ot.ValueFormatYPlaDevice) && vr.YPlaDevice != 0
	v.XAdvDevice = vf.Has(ot.ValueFormatXAdvDevice) && vr.XAdvDevice != 0
	v.YAdvDevice = vf.Has(ot.ValueFormatYAdvDevice) && vr.YAdvDevice != 0
	return v
}

// DecodeAnchor turns a raw anchor into its semantic form. A nil anchor
// decodes to nil, i.e. a NULL anchor.
func DecodeAnchor(a *ot.Anchor) *fea.Anchor {
	if a == nil {
		return nil
	}
	anchor := &fea.Anchor{X: int(a.XCoordinate), Y: int(a.YCoordinate)}
	if a.Format == ot.AnchorFormat2 {
		anchor.ContourPoint = ot.Some(int(a.AnchorPoint))
	}
	return anchor
}
