/*
Package metrics provides font metrics for text layout.

Layout does not deal with glyphs. It asks a Provider for the advance width of
text runs and for the vertical extent of a font. Providers have to be safe for
concurrent use, as documents may be laid out in parallel.

Three providers are included: Monospace, with a fixed advance per rune, mainly
for tests; Basic, built on the bitmap face of golang.org/x/image/font/basicfont
and scaled to the requested size; and TrueType, which loads font files via
github.com/fogleman/gg.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package metrics

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.metrics'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.metrics")
}
