package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
)

// widths are the intrinsic minimum and maximum content widths of a box.
type widths struct {
	min, max float64
}

// contentWidths returns the intrinsic widths of a box's content, excluding
// its own edges.
func (p *pass) contentWidths(b *boxtree.Box) widths {
	if w, ok := p.intr[b.ID]; ok {
		return w
	}
	var w widths
	switch {
	case b.Kind == boxtree.TableBox:
		w = p.tableWidths(b)
	case b.Kind == boxtree.ReplacedBox:
		rw, _ := p.replacedSize(b, 0, p.edges(b, 0))
		w = widths{rw, rw}
	case p.hasInlineContent(b):
		w = p.inlineWidths(p.flatten(b, 0, true))
	default:
		var floats float64
		for _, c := range p.t.Children(b) {
			if c.OutOfFlow {
				continue
			}
			cw := p.outerWidths(c)
			w.min = math.Max(w.min, cw.min)
			if c.Float != css.FloatNone {
				floats += cw.max
				w.max = math.Max(w.max, floats)
				continue
			}
			floats = 0
			w.max = math.Max(w.max, cw.max)
		}
	}
	w.max = math.Max(w.min, w.max)
	p.intr[b.ID] = w
	return w
}

// outerWidths returns the intrinsic widths of a box's margin box. Percentages
// resolve to zero.
func (p *pass) outerWidths(b *boxtree.Box) widths {
	e := p.edges(b, 0)
	var w widths
	if d := css.Dimen(b.Style, "width"); !d.IsPercent() && b.Kind != boxtree.TableBox {
		if sw, ok := p.specifiedWidth(b, 0, e); ok {
			sw = p.clampWidth(b, sw, 0)
			w = widths{sw, sw}
		} else {
			w = p.contentWidths(b)
		}
	} else {
		w = p.contentWidths(b)
	}
	edges := e.hor() + e.margin.Horizontal()
	return widths{w.min + edges, w.max + edges}
}

// inlineWidths computes the widths of flattened inline content. The minimum
// is the widest unbreakable run, the maximum the widest line without soft
// wraps.
func (p *pass) inlineWidths(items []item) widths {
	var w widths
	var run, line, trail float64
	endLine := func() {
		w.max = math.Max(w.max, line-trail)
		line, trail = 0, 0
	}
	for _, it := range items {
		switch it.kind {
		case wordItem, gapItem:
			run += it.w
			line += it.w
			trail = 0
		case spaceItem:
			if it.collapsible && line == 0 {
				continue
			}
			line += it.w
			if it.wrap {
				w.min = math.Max(w.min, run)
				run = 0
			} else {
				run += it.w
			}
			if it.collapsible {
				trail += it.w
			}
		case atomicItem:
			if it.wrap {
				w.min = math.Max(w.min, run)
				w.min = math.Max(w.min, it.min)
				run = 0
			} else {
				run += it.min
			}
			line += it.w
			trail = 0
		case breakItem:
			w.min = math.Max(w.min, run)
			run = 0
			endLine()
		case floatItem:
			fw := p.outerWidths(it.box)
			w.min = math.Max(w.min, fw.min)
			line += fw.max
		}
	}
	w.min = math.Max(w.min, run)
	endLine()
	return w
}
