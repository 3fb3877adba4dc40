package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
)

// gridCell is a cell anchored at a grid slot.
type gridCell struct {
	box              *boxtree.Box
	row, col         int
	rowSpan, colSpan int
}

// grid is the table grid of rows and columns, in display order.
type grid struct {
	captions []*boxtree.Box
	groups   []*boxtree.Box // row groups
	rows     []*boxtree.Box
	rowGroup []int // group index per row, -1 for rows not in a group
	cells    []gridCell
	ncols    int
}

// buildGrid assigns cells to grid slots. Slots covered by row- or
// column-spanning cells are skipped. Row spans do not cross row groups.
func (p *pass) buildGrid(b *boxtree.Box) *grid {
	g := &grid{}
	occupied := make(map[[2]int]bool)
	addRow := func(row *boxtree.Box, gi, remaining int) {
		r := len(g.rows)
		g.rows = append(g.rows, row)
		g.rowGroup = append(g.rowGroup, gi)
		col := 0
		for _, c := range p.t.Children(row) {
			for occupied[[2]int{r, col}] {
				col++
			}
			cs, rs := max(1, c.ColSpan), min(max(1, c.RowSpan), remaining)
			for i := r; i < r+rs; i++ {
				for j := col; j < col+cs; j++ {
					occupied[[2]int{i, j}] = true
				}
			}
			g.cells = append(g.cells, gridCell{box: c, row: r, col: col, rowSpan: rs, colSpan: cs})
			col += cs
			g.ncols = max(g.ncols, col)
		}
	}
	for _, c := range p.t.Children(b) {
		switch c.Kind {
		case boxtree.TableCaptionBox:
			g.captions = append(g.captions, c)
		case boxtree.TableRowGroupBox:
			gi := len(g.groups)
			g.groups = append(g.groups, c)
			rows := p.t.Children(c)
			for i, row := range rows {
				addRow(row, gi, len(rows)-i)
			}
		case boxtree.TableRowBox:
			addRow(c, -1, 1)
		}
	}
	return g
}

// columns computes the intrinsic minimum and maximum widths of the grid's
// columns, and the width hints given by cells of the first span. Hints are
// border box widths, -1 for columns without a hint. Percentage hints refer
// to ref and are ignored if ref is zero. hs is the horizontal border spacing.
func (p *pass) columns(g *grid, ref, hs float64, firstRowOnly bool) (mins, maxs, hints []float64) {
	mins = make([]float64, g.ncols)
	maxs = make([]float64, g.ncols)
	hints = make([]float64, g.ncols)
	for i := range hints {
		hints[i] = -1
	}
	var spanning []gridCell
	for _, gc := range g.cells {
		if firstRowOnly && gc.row > 0 {
			break
		}
		if gc.colSpan > 1 {
			spanning = append(spanning, gc)
			continue
		}
		c := gc.box
		e := p.edges(c, ref)
		if d := css.Dimen(c.Style, "width"); !d.IsPercent() || ref > 0 {
			if w, ok := p.specifiedWidth(c, ref, e); ok {
				hints[gc.col] = math.Max(hints[gc.col], w+e.hor())
			}
		}
		if firstRowOnly {
			continue
		}
		ow := p.outerWidths(c)
		mins[gc.col] = math.Max(mins[gc.col], ow.min)
		maxs[gc.col] = math.Max(maxs[gc.col], ow.max)
	}
	if firstRowOnly {
		return
	}
	for _, gc := range spanning {
		ow := p.outerWidths(gc.box)
		gap := float64(gc.colSpan-1) * hs
		var smin, smax float64
		for j := gc.col; j < gc.col+gc.colSpan; j++ {
			smin += mins[j]
			smax += maxs[j]
		}
		if extra := ow.min - gap - smin; extra > 0 {
			for j := gc.col; j < gc.col+gc.colSpan; j++ {
				mins[j] += extra / float64(gc.colSpan)
			}
		}
		if extra := ow.max - gap - smax; extra > 0 {
			for j := gc.col; j < gc.col+gc.colSpan; j++ {
				maxs[j] += extra / float64(gc.colSpan)
			}
		}
	}
	for i := range maxs {
		maxs[i] = math.Max(maxs[i], mins[i])
	}
	return
}

// DistributeColumns computes column widths for a table grid of width avail.
// Columns with a width hint (non-negative) get their hint, but never less
// than their minimum. The remaining width is distributed over the other
// columns proportionally to their minimum widths, rounding down to 1/100 pt.
// The rounding remainder goes to the last flexible column, so the widths sum
// up to avail. No column gets less than its minimum.
func DistributeColumns(mins, hints []float64, avail float64) []float64 {
	cols := make([]float64, len(mins))
	var flex []int
	var fixed, flexMin float64
	for i, m := range mins {
		m = clamp0(m)
		if i < len(hints) && hints[i] >= 0 {
			cols[i] = math.Max(hints[i], m)
			fixed += cols[i]
			continue
		}
		flex = append(flex, i)
		flexMin += m
	}
	rest := avail - fixed
	if len(flex) == 0 {
		if n := len(cols); n > 0 && rest > 0 {
			cols[n-1] += rest
		}
		return cols
	}
	if rest <= flexMin {
		for _, i := range flex {
			cols[i] = clamp0(mins[i])
		}
		return cols
	}
	var assigned float64
	for k, i := range flex {
		m := clamp0(mins[i])
		if k == len(flex)-1 {
			cols[i] = math.Max(m, rest-assigned)
			break
		}
		share := rest / float64(len(flex))
		if flexMin > 0 {
			share = rest * m / flexMin
		}
		cols[i] = math.Max(m, math.Floor(share*100)/100)
		assigned += cols[i]
	}
	return cols
}

// fixedColumns computes column widths for table-layout: fixed. Columns
// without a hint share the remaining width equally.
func fixedColumns(hints []float64, avail float64) []float64 {
	cols := make([]float64, len(hints))
	var fixed float64
	free := 0
	for i, h := range hints {
		if h >= 0 {
			cols[i] = h
			fixed += h
		} else {
			free++
		}
	}
	rest := clamp0(avail - fixed)
	for i, h := range hints {
		if h < 0 {
			cols[i] = rest / float64(free)
		}
	}
	if free == 0 && len(cols) > 0 {
		cols[len(cols)-1] += rest
	}
	return cols
}

// tableWidths returns the intrinsic content widths of a table.
func (p *pass) tableWidths(b *boxtree.Box) widths {
	g := p.buildGrid(b)
	var w widths
	if g.ncols > 0 {
		hs, _ := css.BorderSpacing(b.Style)
		mins, maxs, hints := p.columns(g, 0, hs, false)
		spacing := float64(g.ncols+1) * hs
		w.min, w.max = spacing, spacing
		for i := range mins {
			w.min += mins[i]
			w.max += math.Max(maxs[i], hints[i])
		}
	}
	for _, c := range g.captions {
		w.min = math.Max(w.min, p.outerWidths(c).min)
	}
	return w
}

// layoutTable lays out a table with its margin box at (x, y). In-flow
// tables without a width use the available width, other tables shrink to
// fit.
func (p *pass) layoutTable(b *boxtree.Box, x, y, cbW float64, inFlow bool) {
	e := p.edges(b, cbW)
	hs, vs := css.BorderSpacing(b.Style)
	g := p.buildGrid(b)
	avail := clamp0(cbW - e.margin.Horizontal() - e.hor())
	intr := p.contentWidths(b)
	tw, specified := p.specifiedWidth(b, cbW, e)
	switch {
	case specified:
	case inFlow:
		tw = avail
	default:
		tw = math.Min(avail, intr.max)
	}
	tw = math.Max(p.clampWidth(b, tw, cbW), intr.min)
	if inFlow && specified {
		rest := cbW - tw - e.hor() - e.margin.Horizontal()
		switch {
		case e.auto[css.Left] && e.auto[css.Right]:
			e.margin[css.Left], e.margin[css.Right] = clamp0(rest/2), clamp0(rest/2)
		case e.auto[css.Left]:
			e.margin[css.Left] = clamp0(rest)
		}
	}
	e.apply(b)
	b.Content = boxtree.Rect{
		X: x + e.margin[css.Left] + e.border[css.Left] + e.padding[css.Left],
		Y: y + e.margin[css.Top] + e.border[css.Top] + e.padding[css.Top],
		W: tw,
	}
	cy := b.Content.Y
	for _, c := range g.captions {
		w, ce := p.blockWidth(c, tw)
		p.layoutRoot(c, b.Content.X, cy, w, ce, 0)
		cy = c.MarginBox().Bottom()
	}
	if g.ncols > 0 {
		cy = p.layoutGrid(b, g, cy, hs, vs)
	}
	h := cy - b.Content.Y
	if sh, ok := p.specifiedHeight(b, 0, e); ok {
		h = math.Max(h, sh)
	}
	b.Content.H = p.clampHeight(b, h, 0)
	if dx, dy := p.relativeOffset(b, cbW); dx != 0 || dy != 0 {
		p.translate(b, dx, dy)
	}
	tracer().Debugf("table %s: %d×%d grid, width %.2f", b, len(g.rows), g.ncols, tw)
}

// layoutGrid lays out rows and cells of a table starting at y and returns
// the bottom of the grid.
func (p *pass) layoutGrid(b *boxtree.Box, g *grid, y, hs, vs float64) float64 {
	gridW := clamp0(b.Content.W - float64(g.ncols+1)*hs)
	var cols []float64
	if css.IsFixedTableLayout(b.Style) {
		_, _, hints := p.columns(g, gridW, hs, true)
		cols = fixedColumns(hints, gridW)
	} else {
		mins, _, hints := p.columns(g, gridW, hs, false)
		cols = DistributeColumns(mins, hints, gridW)
	}
	colX := make([]float64, g.ncols+1)
	colX[0] = b.Content.X + hs
	for i, w := range cols {
		colX[i+1] = colX[i] + w + hs
	}
	// cells are laid out at y = 0 first, heights determine the rows
	rowH := make([]float64, len(g.rows))
	for r, row := range g.rows {
		if h, ok := p.specifiedHeight(row, 0, boxEdges{}); ok {
			rowH[r] = h
		}
	}
	for _, gc := range g.cells {
		c := gc.box
		cw := colX[gc.col+gc.colSpan] - colX[gc.col] - hs
		e := p.edges(c, b.Content.W)
		p.layoutRoot(c, colX[gc.col], 0, clamp0(cw-e.hor()), e, 0)
		if gc.rowSpan == 1 {
			rowH[gc.row] = math.Max(rowH[gc.row], c.BorderBox().H)
		}
	}
	for _, gc := range g.cells {
		if gc.rowSpan == 1 {
			continue
		}
		spanned := float64(gc.rowSpan-1) * vs
		for r := gc.row; r < gc.row+gc.rowSpan; r++ {
			spanned += rowH[r]
		}
		if need := gc.box.BorderBox().H - spanned; need > 0 {
			rowH[gc.row+gc.rowSpan-1] += need
		}
	}
	rowY := make([]float64, len(g.rows)+1)
	rowY[0] = y + vs
	for r, h := range rowH {
		rowY[r+1] = rowY[r] + h + vs
	}
	for r, row := range g.rows {
		row.Margin, row.Border, row.Padding = boxtree.Edges{}, boxtree.Edges{}, boxtree.Edges{}
		row.Content = boxtree.Rect{X: b.Content.X, Y: rowY[r], W: b.Content.W, H: rowH[r]}
	}
	for gi, grp := range g.groups {
		first, last := -1, -1
		for r, rg := range g.rowGroup {
			if rg == gi {
				if first < 0 {
					first = r
				}
				last = r
			}
		}
		grp.Margin, grp.Border, grp.Padding = boxtree.Edges{}, boxtree.Edges{}, boxtree.Edges{}
		grp.Content = boxtree.Rect{X: b.Content.X, Y: rowY[0], W: b.Content.W}
		if first >= 0 {
			grp.Content.Y = rowY[first]
			grp.Content.H = rowY[last] + rowH[last] - rowY[first]
		}
	}
	for _, gc := range g.cells {
		c := gc.box
		h := rowY[gc.row+gc.rowSpan-1] + rowH[gc.row+gc.rowSpan-1] - rowY[gc.row]
		p.translate(c, 0, rowY[gc.row])
		c.Content.H = clamp0(h - c.Padding.Vertical() - c.Border.Vertical())
	}
	if len(g.rows) == 0 {
		return y
	}
	return rowY[len(g.rows)]
}
