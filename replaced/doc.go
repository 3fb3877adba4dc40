/*
Package replaced dispatches the drawing of replaced content.

Replaced elements, e.g. images or embedded objects, are opaque to layout.
Their content is produced by drawers, which are registered for content-type
keys at configuration time:

   reg := replaced.NewRegistry()
   reg.Register("image", replaced.NewImageDrawer(resolver, baseURI))
   reg.Register(replaced.PieChartKey, replaced.PieChartDrawer{})
   reg.Freeze()

Content types without a drawer are rendered as placeholders. A missing
drawer is never an error.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package replaced

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.replaced'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.replaced")
}
