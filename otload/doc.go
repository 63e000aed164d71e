/*
Package otload loads OpenType fonts and converts their GPOS table into the
object model of package ot.

Fonts are parsed with go-text/typesetting. Lookup subtables are converted
one by one into typed ot.LookupNode payloads. Extension subtables stay
wrapped, i.e. a lookup of type 9 in the font is a lookup of type 9 in the
model, with the resolved subtable attached to each extension node.

Besides binary fonts, otload reads GPOS dumps in TTX format (as written by
fontTools). TTX dumps are convenient for tests and for inspecting fonts
which are not at hand as binaries.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otload

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otfea.load'
func tracer() tracing.Trace {
	return tracing.Select("otfea.load")
}
