/*
Package layout positions the boxes of a box tree.

Layout computes widths top-down and heights bottom-up. Block flow is driven by
an explicit stack of frames, one per block container under construction, so
deeply nested documents do not exhaust the goroutine stack. Inline content is
broken into line boxes greedily; tables are laid out with a column width
distribution following the CSS 2.1 automatic and fixed table layout
algorithms.

All coordinates are absolute, in points, with the origin at the top left
corner of the continuous (unpaginated) canvas. Layout never fails: negative
or undefined dimensions are clamped to zero.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.layout'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.layout")
}
