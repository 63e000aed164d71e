/*
Package fea is a statement tree for OpenType feature files (Adobe feature-file
syntax, as read by makeotf, feaLib and others).

The tree is built from Statement nodes. Leaf statements are rules
(positioning, cursive attachment, mark-to-base attachment), definitions
(glyph classes, mark classes), comments and diagnostics. Block statements
(lookups, features) contain further statements. A File is the root of a tree.

Every node renders itself in feature-file syntax through AsFea. Blocks indent
their content by four blanks per nesting level.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fea

// Statement is a node of a feature-file statement tree.
// AsFea renders the node; indent is the indentation of the node's first
// line and is used for continuation lines.
type Statement interface {
	AsFea(indent string) string
}

const indentStep = "    "
