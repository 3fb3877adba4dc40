/*
Package paginate splits a laid out box tree into pages.

The paginator walks the positioned tree in document order and collects
pagination atoms: line boxes, table rows, leaf blocks and replaced boxes.
Atoms are never split. A page ends before the first atom which would
overflow it, or before an atom preceded by a forced break. If a break is to
be avoided, the paginator looks backwards on the current page for an earlier
permissible break; if there is none, it breaks at the current position.

Every box of the tree is assigned to exactly one page, the page its first
atom is placed on. Boxes spanning several pages are reported as continued on
later pages. Table header groups are repeated at the top of continuation
pages, footer groups at the bottom of pages a table continues past.

Pages are produced lazily. A Paginator is not restartable.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package paginate

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.paginate'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.paginate")
}
