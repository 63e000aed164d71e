package fea

import (
	"fmt"

	"github.com/npillmayer/otfea/ot"
)

// ValueRecord is a positioning adjustment with independently optional fields.
// Device adjustments are not decoded; a set device flag renders as a
// "<device NULL>" placeholder.
type ValueRecord struct {
	XPlacement ot.Option[int]
	YPlacement ot.Option[int]
	XAdvance   ot.Option[int]
	YAdvance   ot.Option[int]
	XPlaDevice bool
	YPlaDevice bool
	XAdvDevice bool
	YAdvDevice bool
}

// IsEmpty reports whether no field of v is present.
func (v ValueRecord) IsEmpty() bool {
	return v.XPlacement.IsNone() && v.YPlacement.IsNone() &&
		v.XAdvance.IsNone() && v.YAdvance.IsNone() && !v.hasDevices()
}

func (v ValueRecord) hasDevices() bool {
	return v.XPlaDevice || v.YPlaDevice || v.XAdvDevice || v.YAdvDevice
}

// AsFea renders a value record in format B ("<x y xa ya>"), or format C if
// device adjustments are present. Absent fields are written as 0.
// An empty record renders as "<NULL>".
func (v ValueRecord) AsFea(string) string {
	if v.IsEmpty() {
		return "<NULL>"
	}
	s := fmt.Sprintf("<%d %d %d %d", v.XPlacement.Or(0), v.YPlacement.Or(0),
		v.XAdvance.Or(0), v.YAdvance.Or(0))
	if v.hasDevices() {
		for range 4 {
			s += " <device NULL>"
		}
	}
	return s + ">"
}

// Anchor is an attachment point, optionally bound to a contour point.
type Anchor struct {
	X, Y         int
	ContourPoint ot.Option[int]
}

// AsFea renders an anchor. A nil anchor renders as "<anchor NULL>".
func (a *Anchor) AsFea(string) string {
	if a == nil {
		return "<anchor NULL>"
	}
	if p, ok := a.ContourPoint.Unwrap(); ok {
		return fmt.Sprintf("<anchor %d %d contourpoint %d>", a.X, a.Y, p)
	}
	return fmt.Sprintf("<anchor %d %d>", a.X, a.Y)
}
