package layout

import (
	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
)

// replacedSize computes the content size of a replaced box from its CSS
// dimensions and the intrinsic size reported by its drawer. A missing
// dimension is derived from the intrinsic aspect ratio.
func (p *pass) replacedSize(b *boxtree.Box, cbW float64, e boxEdges) (w, h float64) {
	sw, hasW := p.specifiedWidth(b, cbW, e)
	sh, hasH := p.specifiedHeight(b, 0, e)
	iw, ih, ok := p.e.drawers.IntrinsicSize(b, b.ContentType)
	iw, ih = clamp0(iw), clamp0(ih)
	switch {
	case hasW && hasH:
		w, h = sw, sh
	case hasW:
		w, h = sw, ih
		if ok && iw > 0 {
			h = sw * ih / iw
		}
	case hasH:
		w, h = iw, sh
		if ok && ih > 0 {
			w = sh * iw / ih
		}
	case ok:
		w, h = iw, ih
	}
	return p.clampWidth(b, w, cbW), p.clampHeight(b, h, 0)
}

// layoutReplaced sizes a replaced box with its margin box at (x, y) and
// asks the drawer registry for its content.
func (p *pass) layoutReplaced(b *boxtree.Box, x, y, cbW float64, inFlow bool) {
	e := p.edges(b, cbW)
	w, h := p.replacedSize(b, cbW, e)
	if inFlow {
		rest := cbW - w - e.hor() - e.margin.Horizontal()
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
		W: w,
		H: h,
	}
	p.res.Contents[b.ID] = p.e.drawers.Render(b, b.ContentType, w, h)
	tracer().Debugf("replaced %s sized %.2f×%.2f", b, w, h)
}
