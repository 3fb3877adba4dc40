/*
Package pagebox renders HTML documents into pages of positioned boxes.

A rendering pass runs the style resolver, the box tree builder, the layout
engine and the paginator for one document:

	eng, err := pagebox.New(config.Default())
	out, err := eng.Render(ctx, doc)
	for _, page := range out.Pages { ... }

The resulting pages reference boxes of out.Tree, ready to be serialized by a
page-based output renderer. An Engine may render several documents
concurrently; see RenderAll.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pagebox

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox")
}
