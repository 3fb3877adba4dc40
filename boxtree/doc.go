/*
Package boxtree builds the tree of CSS boxes for a styled document.

The box tree is the input to layout. It differs from the styled tree in
various ways: elements with `display: none` do not generate boxes, while
other elements generate additional anonymous boxes, e.g., for table
structures missing rows or cells, or for inline content mixed with blocks.
Replaced elements (images, embedded objects) are represented by a single box
without children.

Boxes are stored in an arena (type Tree) and refer to each other by ID. Each
box references its DOM node and its calculated style; neither is owned by the
box. Geometry fields are empty after building and populated by package
layout.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package boxtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.boxtree'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.boxtree")
}
