/*
Package otfea decompiles the GPOS table of OpenType fonts into feature files.

Feature files are the source format of OpenType layout tables, as read by
feature-file compilers like AFDKO's makeotf or fontTools' feaLib. Turning a
compiled GPOS table back into feature-file statements makes a font's
positioning rules readable, diffable, and (mostly) re-compilable.

	fea, err := otfea.DecompileFont("MyFont.otf", nil)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Print(fea)

The work is done by sub-packages:

▪︎ otload loads fonts (binary or TTX dumps) and converts the GPOS table into
the object model of package ot.

▪︎ unparse decompiles an ot.GPosTable into a statement tree of package fea.

▪︎ fea renders the statement tree as feature-file text.

Package otfea glues these together for the common case.

# Links

OpenType feature file syntax:
https://adobe-type-tools.github.io/afdko/OpenTypeFeatureFileSpecification.html

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otfea

import (
	"path/filepath"
	"strings"

	"github.com/npillmayer/otfea/otload"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otfea'
func tracer() tracing.Trace {
	return tracing.Select("otfea")
}

// LoadFont loads a font from a file. Files with extension ".ttx" are read as
// TTX dumps, everything else as a binary OpenType font (TTF or OTF).
func LoadFont(fontfile string) (*otload.Font, error) {
	if strings.EqualFold(filepath.Ext(fontfile), ".ttx") {
		tracer().Debugf("reading %s as TTX dump", fontfile)
		return otload.LoadTTX(fontfile)
	}
	return otload.LoadFont(fontfile)
}
