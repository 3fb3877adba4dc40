/*
Package css provides functionality for CSS styling.

CSS properties are plentyful and some of them are complicated.
This package trys to shield clients from the cumbersome handling of
CSS properties resulting of (1) the textual nature of CSS properties
and (2) the complicated semantics of computing style attributes for a
given node.

Clients get typed values from a calculated style:

   d := css.DisplayOf(cs)         // display mode flags
   w := css.Dimen(cs, "width")    // option type for dimensions
   m := css.Margins(cs)           // four margins, possibly auto
   fs := css.FontSize(cs)         // in points

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.css'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.css")
}
