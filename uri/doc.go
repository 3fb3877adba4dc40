/*
Package uri resolves and loads the external resources of a document.

A Resolver is constructed explicitly and handed to the components needing
it, e.g. the image drawer of package replaced. Resolvers are safe for
concurrent use once constructed.

Nested archive URIs of the form

   jar:http://host/a.jar!/images/logo.png

are supported: relative references resolve against the innermost path,
keeping the outer archive prefix. Optionally, an OASIS XML catalog maps public
and system identifiers and URIs to local resources.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package uri

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'pagebox.uri'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.uri")
}
