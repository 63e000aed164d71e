/*
Package unparse decompiles an OpenType GPOS table into a feature-file
statement tree.

Decompilation is a small compiler backend: every lookup of the table is
decoded into a Routine (a named lookup block), then features are collected
from the script list and tidied, and finally a statement tree is assembled.

	file, err := unparse.Unparse(gpos, unparse.WithGlyphNamer(names))
	if err != nil {
	    return err // input violated a structural precondition
	}
	fmt.Print(file.AsFea())

Processing steps are, in this order:

▪︎ Lookups are ordered such that lookups invoked by contextual lookups come
first. Dependency cycles are reported as errors.

▪︎ Every lookup is decoded by a decoder for its lookup type. Lookup types
without a semantic decoding (mark-to-ligature, mark-to-mark, contextual and
chained contextual positioning) produce a diagnostic comment containing a
structural dump of the lookup.

▪︎ Features are collected per script and language system, then tidied: a
feature using identical lookups for every language system is collapsed to
the default script and language, and lookups common to every language
system of a feature are hoisted to the feature's default part.

▪︎ Lookups used more than once with more than a few rules are shared, i.e.
defined once and referenced by name. All other lookups are inlined into
the feature blocks.

▪︎ Large glyph sets are defined once as named glyph classes and referenced
by name.

Unparse is not safe for concurrent use of the same options, but independent
calls do not share any state.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package unparse

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otfea.unparse'
func tracer() tracing.Trace {
	return tracing.Select("otfea.unparse")
}
