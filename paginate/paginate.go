package paginate

import (
	"fmt"
	"math"

	"github.com/npillmayer/pagebox/boxtree"
)

// PageSize is the size of a page's content area in points. A page height
// of zero or less means pages of unlimited height.
type PageSize struct {
	Width, Height float64
}

// LineRange denotes the line boxes [From, To) of an inline container which
// are placed on a page.
type LineRange struct {
	Box      boxtree.ID
	From, To int
}

// Repeat is a table row group drawn once more on a page, translated by
// (DX, DY) from document to page coordinates.
type Repeat struct {
	Group  boxtree.ID
	DX, DY float64
}

// PageBox is the content of one page. It references boxes of the laid out
// tree; page coordinates are document coordinates translated by (DX, DY).
type PageBox struct {
	Number      int // starting at 1
	Size        PageSize
	Top, Bottom float64 // the slice of the document placed on this page
	DX, DY      float64
	// Boxes starting on this page, in document order.
	Boxes []boxtree.ID
	// Continued lists boxes started on an earlier page having content on this
	// page, outermost first.
	Continued []boxtree.ID
	Lines     []LineRange
	Headers   []Repeat // repeated table header groups
	Footers   []Repeat // repeated table footer groups
}

func (pb *PageBox) String() string {
	return fmt.Sprintf("page %d [%.2f…%.2f] %d boxes", pb.Number, pb.Top, pb.Bottom, len(pb.Boxes))
}

// Paginator produces the pages of a box tree.
type Paginator struct {
	t      *boxtree.Tree
	size   PageSize
	atoms  []atom
	rest   []boxtree.ID // boxes after the last atom
	tables map[boxtree.ID]*tableInfo
	pos    int    // next atom to place
	carry  []atom // atoms moved to the next page by a backward search
	pageOf map[boxtree.ID]int
	number int
	done   bool
}

const epsilon = 0.001

// New creates a paginator for a laid out box tree.
func New(t *boxtree.Tree, size PageSize) *Paginator {
	if math.IsNaN(size.Height) || size.Height <= 0 {
		size.Height = math.Inf(1)
	}
	pg := &Paginator{t: t, size: size, pageOf: make(map[boxtree.ID]int)}
	pg.atoms, pg.rest, pg.tables = collect(t)
	pg.done = t.Root() == nil
	tracer().Debugf("paginating %d atoms, page height %.2f", len(pg.atoms), size.Height)
	return pg
}

// All returns the remaining pages.
func (pg *Paginator) All() []*PageBox {
	var pages []*PageBox
	for page, ok := pg.Next(); ok; page, ok = pg.Next() {
		pages = append(pages, page)
	}
	return pages
}

// Next returns the next page. It returns false after the last page.
func (pg *Paginator) Next() (*PageBox, bool) {
	if pg.done {
		return nil, false
	}
	pg.number++
	page := &PageBox{Number: pg.number, Size: pg.size}
	entries := pg.carry
	pg.carry = nil
	if pg.number == 1 {
		page.Top = pg.t.Root().MarginBox().Y
	} else if len(entries) > 0 {
		page.Top = entries[0].top
	} else if pg.pos < len(pg.atoms) {
		page.Top = pg.atoms[pg.pos].top
	}
	var header *tableInfo
	var headerH float64
	limit := func() float64 { return page.Top + pg.size.Height - headerH }
	setHeader := func(a atom) {
		if a.table != boxtree.NoBox && a.part != headerRow && pg.number > 1 {
			if info := pg.tables[a.table]; info.header != boxtree.NoBox && pg.pageOf[info.header] < pg.number {
				header, headerH = info, info.headerH
			}
		}
	}
	if len(entries) > 0 {
		setHeader(entries[0])
	}
	for pg.pos < len(pg.atoms) {
		a := pg.atoms[pg.pos]
		if len(entries) == 0 {
			if pg.number > 1 {
				page.Top = a.top
			}
			setHeader(a)
			entries = append(entries, a)
			pg.pos++
			continue
		}
		if a.forced {
			break
		}
		if pg.need(a) <= limit()+epsilon {
			entries = append(entries, a)
			pg.pos++
			continue
		}
		if a.avoid {
			if k := pg.searchBack(entries, a); k > 0 {
				tracer().Debugf("break before atom avoided, moving %d atoms to next page", len(entries)-k)
				pg.carry = entries[k:]
				entries = entries[:k]
			}
		}
		break
	}
	if pg.pos >= len(pg.atoms) && len(pg.carry) == 0 {
		pg.done = true
	}
	pg.fill(page, entries, header)
	return page, true
}

// need returns the bottom of an atom including space reserved for a
// repeated table footer.
func (pg *Paginator) need(a atom) float64 {
	if a.table != boxtree.NoBox && a.part == bodyRow {
		return a.bottom + pg.tables[a.table].footerH
	}
	return a.bottom
}

// searchBack looks for the nearest earlier break before entries[k] which
// is permitted and lets entries[k:] and a fit on a fresh page.
func (pg *Paginator) searchBack(entries []atom, a atom) int {
	for k := len(entries) - 1; k > 0; k-- {
		if pg.need(a)-entries[k].top > pg.size.Height+epsilon {
			return 0
		}
		if !entries[k].avoid {
			return k
		}
	}
	return 0
}

// fill assigns boxes, lines and repeated table parts to a page.
func (pg *Paginator) fill(page *PageBox, entries []atom, header *tableInfo) {
	page.Bottom = page.Top
	offset := 0.0
	if header != nil {
		g := pg.t.Box(header.header)
		offset = header.headerH
		page.Headers = append(page.Headers, Repeat{Group: g.ID, DY: -g.Content.Y})
	}
	page.DY = offset - page.Top
	seen := make(map[boxtree.ID]bool)
	for _, a := range entries {
		for _, id := range a.boxes {
			page.Boxes = append(page.Boxes, id)
			pg.pageOf[id] = page.Number
		}
		pg.continued(page, a, seen)
		page.Bottom = math.Max(page.Bottom, a.bottom)
		if a.line >= 0 {
			if n := len(page.Lines); n > 0 && page.Lines[n-1].Box == a.box && page.Lines[n-1].To == a.line {
				page.Lines[n-1].To++
			} else {
				page.Lines = append(page.Lines, LineRange{Box: a.box, From: a.line, To: a.line + 1})
			}
		}
	}
	if pg.done {
		for _, id := range pg.rest {
			page.Boxes = append(page.Boxes, id)
			pg.pageOf[id] = page.Number
		}
	}
	if n := len(entries); n > 0 {
		last := entries[n-1]
		if last.table != boxtree.NoBox && last.part == bodyRow {
			if info := pg.tables[last.table]; info.footer != boxtree.NoBox && pg.continues(last.table) {
				g := pg.t.Box(info.footer)
				vs := info.footerH - g.Content.H
				y := last.bottom + page.DY + vs
				page.Footers = append(page.Footers, Repeat{Group: g.ID, DY: y - g.Content.Y})
			}
		}
	}
	tracer().Debugf("%s", page)
}

// continues is true if the next atom belongs to table t.
func (pg *Paginator) continues(t boxtree.ID) bool {
	if len(pg.carry) > 0 {
		return pg.carry[0].table == t
	}
	return pg.pos < len(pg.atoms) && pg.atoms[pg.pos].table == t
}

// continued records the ancestors of an atom's box which started on an
// earlier page.
func (pg *Paginator) continued(page *PageBox, a atom, seen map[boxtree.ID]bool) {
	var chain []boxtree.ID
	for b := pg.t.Box(a.box); b != nil; b = pg.t.ParentOf(b) {
		if seen[b.ID] {
			break
		}
		seen[b.ID] = true
		if n, ok := pg.pageOf[b.ID]; ok && n < page.Number {
			chain = append(chain, b.ID)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		page.Continued = append(page.Continued, chain[i])
	}
}
