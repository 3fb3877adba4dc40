package paginate

import (
	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/tree"
)

// atom is a unit of content which is never split across pages.
type atom struct {
	top, bottom float64
	box         boxtree.ID   // the atom's box, or the container of a line
	line        int          // index of the line box, -1 for box atoms
	boxes       []boxtree.ID // boxes first appearing with this atom, in document order
	forced      bool         // a forced break precedes the atom
	avoid       bool         // a break before the atom should be avoided
	table       boxtree.ID   // table of a row atom, NoBox otherwise
	part        rowPart
}

type rowPart uint8

const (
	bodyRow rowPart = iota
	headerRow
	footerRow
)

// tableInfo holds the repeatable parts of a table.
type tableInfo struct {
	header, footer   boxtree.ID
	headerH, footerH float64 // heights including border spacing
}

type walkFrame struct {
	box     *boxtree.Box
	next    int
	descend bool
	marked  bool // the box contains an atom emitted earlier
	inside  bool // page-break-inside: avoid
}

// collector flattens a box tree into a sequence of atoms.
type collector struct {
	t       *boxtree.Tree
	atoms   []atom
	tables  map[boxtree.ID]*tableInfo
	pending []boxtree.ID
	forced  bool
	avoid   bool
	stack   []walkFrame
	marked  int // frames below this index are marked
	avoidIn int // number of marked frames with page-break-inside: avoid
}

// collect walks the tree in document order. Boxes following the last atom
// are returned separately.
func collect(t *boxtree.Tree) ([]atom, []boxtree.ID, map[boxtree.ID]*tableInfo) {
	c := &collector{t: t, tables: make(map[boxtree.ID]*tableInfo)}
	root := t.Root()
	if root == nil {
		return nil, nil, c.tables
	}
	c.enter(root)
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.descend && top.next < len(top.box.Children) {
			child := t.Box(top.box.Children[top.next])
			top.next++
			c.enter(child)
			continue
		}
		c.leave()
	}
	return c.atoms, c.pending, c.tables
}

func (c *collector) enter(b *boxtree.Box) {
	c.pending = append(c.pending, b.ID)
	if bb := css.BreakBefore(b.Style); bb.IsForced() {
		c.forced = true
	} else if bb.IsAvoid() {
		c.avoid = true
	}
	c.stack = append(c.stack, walkFrame{box: b, inside: css.BreakInside(b.Style).IsAvoid()})
	f := &c.stack[len(c.stack)-1]
	switch {
	case b.OutOfFlow:
	case b.Kind == boxtree.TableBox:
		c.tableInfo(b)
		f.descend = true
	case b.Kind == boxtree.TableRowBox, b.Kind == boxtree.ReplacedBox, b.Float != css.FloatNone:
		c.subtree(b)
		c.emitBox(b)
	case len(b.Lines) > 0:
		c.emitLines(b)
	case len(b.Children) == 0:
		if b.Kind != boxtree.TextBox && b.Kind != boxtree.LineBreakBox {
			c.emitBox(b)
		}
	case c.hasInline(b):
		c.subtree(b) // inline content without lines
	default:
		f.descend = true
	}
}

func (c *collector) leave() {
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	if f.marked && f.inside {
		c.avoidIn--
	}
	c.marked = min(c.marked, len(c.stack))
	if ba := css.BreakAfter(f.box.Style); ba.IsForced() {
		c.forced = true
	} else if ba.IsAvoid() {
		c.avoid = true
	}
}

func (c *collector) hasInline(b *boxtree.Box) bool {
	for _, ch := range c.t.Children(b) {
		if ch.IsInlineLevel() {
			return true
		}
	}
	return false
}

// subtree adds the descendants of b to the pending boxes.
func (c *collector) subtree(b *boxtree.Box) {
	_ = c.t.Walk(b, func(d *boxtree.Box, _ int) error {
		if d != b {
			c.pending = append(c.pending, d.ID)
		}
		return nil
	})
}

func (c *collector) emit(a atom) {
	a.forced = c.forced && len(c.atoms) > 0
	a.avoid = !a.forced && (c.avoid || c.avoidIn > 0)
	a.boxes = c.pending
	c.pending = nil
	c.forced, c.avoid = false, false
	for i := c.marked; i < len(c.stack); i++ {
		c.stack[i].marked = true
		if c.stack[i].inside {
			c.avoidIn++
		}
	}
	c.marked = len(c.stack)
	c.atoms = append(c.atoms, a)
}

func (c *collector) emitBox(b *boxtree.Box) {
	r := b.BorderBox()
	a := atom{top: r.Y, bottom: r.Bottom(), box: b.ID, line: -1, table: boxtree.NoBox}
	if b.Kind == boxtree.TableRowBox {
		a.table, a.part = c.rowContext(b)
	}
	c.emit(a)
}

// emitLines emits the line boxes of an inline container. Inline descendants
// are assigned to the line holding their first fragment.
func (c *collector) emitLines(b *boxtree.Box) {
	first := make(map[boxtree.ID]int)
	for i, l := range b.Lines {
		for _, fr := range l.Fragments {
			if _, ok := first[fr.Box]; !ok {
				first[fr.Box] = i
			}
		}
	}
	type entry struct {
		id   boxtree.ID
		line int
	}
	var entries []entry
	_ = c.t.Walk(b, func(d *boxtree.Box, _ int) error {
		if d == b {
			return nil
		}
		line, ok := first[d.ID]
		if !ok {
			line = -1
		}
		entries = append(entries, entry{d.ID, line})
		if d.Kind == boxtree.InlineBox {
			return nil
		}
		// atomic inlines and floats travel with their descendants
		_ = c.t.Walk(d, func(dd *boxtree.Box, _ int) error {
			if dd != d {
				entries = append(entries, entry{dd.ID, line})
			}
			return nil
		})
		return tree.SkipChildren
	})
	next := len(b.Lines) - 1
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].line < 0 {
			entries[i].line = next
		} else {
			next = entries[i].line
		}
	}
	k := 0
	for i, l := range b.Lines {
		for ; k < len(entries) && (entries[k].line <= i || i == len(b.Lines)-1); k++ {
			c.pending = append(c.pending, entries[k].id)
		}
		c.emit(atom{top: l.Y, bottom: l.Bottom(), box: b.ID, line: i, table: boxtree.NoBox})
	}
}

// rowContext finds the table of a row and the kind of its row group.
func (c *collector) rowContext(row *boxtree.Box) (boxtree.ID, rowPart) {
	p := c.t.ParentOf(row)
	part := bodyRow
	if p != nil && p.Kind == boxtree.TableRowGroupBox {
		if info := c.tables[p.Parent]; info != nil {
			switch p.ID {
			case info.header:
				part = headerRow
			case info.footer:
				part = footerRow
			}
		}
		p = c.t.ParentOf(p)
	}
	if p == nil || p.Kind != boxtree.TableBox {
		return boxtree.NoBox, bodyRow
	}
	return p.ID, part
}

func (c *collector) tableInfo(b *boxtree.Box) {
	info := &tableInfo{header: boxtree.NoBox, footer: boxtree.NoBox}
	_, vs := css.BorderSpacing(b.Style)
	for _, g := range c.t.Children(b) {
		if g.Kind != boxtree.TableRowGroupBox {
			continue
		}
		switch {
		case info.header == boxtree.NoBox && g.Display.Contains(css.TableHeaderGroupMode):
			info.header, info.headerH = g.ID, g.Content.H+vs
		case info.footer == boxtree.NoBox && g.Display.Contains(css.TableFooterGroupMode):
			info.footer, info.footerH = g.ID, g.Content.H+vs
		}
	}
	c.tables[b.ID] = info
}
