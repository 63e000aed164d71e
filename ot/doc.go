/*
Package ot provides an in-memory object model of an OpenType GPOS table, as
needed for decompiling positioning lookups into feature-file rules.

Package ot does not parse font binaries. Tables are either constructed by
a loader (see package otload) or assembled directly by clients and tests.
The model keeps the field names of the OpenType specification, so that a
structural dump of a lookup (see DumpXML) reads like the binary table it
was created from.

The GPOS model consists of

▪︎ a script list, with a default and explicit language systems per script,
each referencing features by index,

▪︎ a feature list, each feature referencing lookups by index,

▪︎ a lookup list of typed lookup tables. Every subtable is a LookupNode
carrying exactly one typed payload, one per GPOS lookup type and format.

Glyphs are referenced by GlyphIndex throughout. Clients needing glyph names
provide a GlyphNamer.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otfea.ot'
func tracer() tracing.Trace {
	return tracing.Select("otfea.ot")
}
