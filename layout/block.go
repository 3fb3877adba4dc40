package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
)

// collapse accumulates adjoining vertical margins. The collapsed margin is
// the maximum of the positive margins plus the minimum of the negative ones.
type collapse struct {
	pos, neg float64
}

func (c collapse) add(m float64) collapse {
	if m > 0 {
		c.pos = math.Max(c.pos, m)
	} else {
		c.neg = math.Min(c.neg, m)
	}
	return c
}

func (c collapse) value() float64 {
	return c.pos + c.neg
}

// CollapseMargins returns the collapsed value of adjoining margins.
func CollapseMargins(margins ...float64) float64 {
	var c collapse
	for _, m := range margins {
		c = c.add(m)
	}
	return c.value()
}

// frame is a block container under construction.
type frame struct {
	box      *boxtree.Box
	next     int          // index of the next child to lay out
	cursor   float64      // bottom of the last in-flow content, excluding pending margins
	pending  collapse     // margins not yet resolved to a position
	resolved bool         // the top edge of the content has been fixed
	bfc      *floatContext
	ownBFC   bool
	edges    boxEdges
	cbW      float64 // width of the containing block
	cbH      float64 // height of the containing block, if definite
	height   float64 // specified height
	hasH     bool
	inline   bool // children form an inline formatting context
	// collapseBottom is set if the bottom margin of the last child collapses
	// with the box's bottom margin.
	collapseBottom bool
}

// resolve fixes the position of pending margins of the top frame, and of all
// enclosing frames whose top edge still awaits resolution. It returns the
// y position for the next content.
func resolve(stack []*frame) float64 {
	top := stack[len(stack)-1]
	y := top.cursor + top.pending.value()
	top.pending = collapse{}
	for i := len(stack) - 1; i >= 0 && !stack[i].resolved; i-- {
		stack[i].resolved = true
		stack[i].box.Content.Y = y
		stack[i].cursor = y
	}
	top.cursor = y
	return y
}

func (p *pass) hasInlineContent(b *boxtree.Box) bool {
	for _, c := range p.t.Children(b) {
		if c.IsInlineLevel() {
			return true
		}
	}
	return false
}

// layoutRoot lays out a block container establishing a new block formatting
// context. Its margin box is placed at (x, y), its content width is w.
func (p *pass) layoutRoot(b *boxtree.Box, x, y, w float64, e boxEdges, cbH float64) {
	e.apply(b)
	b.Content = boxtree.Rect{
		X: x + e.margin[css.Left] + e.border[css.Left] + e.padding[css.Left],
		Y: y + e.margin[css.Top] + e.border[css.Top] + e.padding[css.Top],
		W: clamp0(w),
	}
	h, hasH := p.specifiedHeight(b, cbH, e)
	root := &frame{
		box:      b,
		cursor:   b.Content.Y,
		resolved: true,
		bfc:      newFloatContext(b.Content.X, b.Content.Right()),
		ownBFC:   true,
		edges:    e,
		cbW:      w,
		cbH:      cbH,
		height:   h,
		hasH:     hasH,
		inline:   p.hasInlineContent(b),
	}
	stack := []*frame{root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.inline && f.next == 0 {
			p.layoutInline(stack)
			f.next = len(f.box.Children)
		}
		if f.next >= len(f.box.Children) {
			stack = p.finish(stack)
			continue
		}
		c := p.t.Box(f.box.Children[f.next])
		f.next++
		switch {
		case c.OutOfFlow:
			c.Content = boxtree.Rect{X: f.box.Content.X, Y: f.cursor}
		case c.Float != css.FloatNone:
			p.layoutFloat(f, c, f.cursor+f.pending.value())
		case c.Kind == boxtree.BlockBox:
			stack = p.enter(stack, c)
		case c.Kind == boxtree.TableBox, c.Kind == boxtree.ReplacedBox:
			p.layoutBlockLevelAtomic(stack, c)
		default:
			tracer().Infof("unexpected %s in block flow, skipping", c)
		}
	}
}

// enter starts the layout of an in-flow block child c of the top frame.
func (p *pass) enter(stack []*frame, c *boxtree.Box) []*frame {
	f := stack[len(stack)-1]
	w, e := p.blockWidth(c, f.box.Content.W)
	e.apply(c)
	c.Content = boxtree.Rect{
		X: f.box.Content.X + e.margin[css.Left] + e.border[css.Left] + e.padding[css.Left],
		W: w,
	}
	own := establishesBFC(c)
	clear := css.ClearOf(c.Style)
	h, hasH := p.specifiedHeight(c, f.heightRef(), e)
	nf := &frame{
		box:    c,
		bfc:    f.bfc,
		ownBFC: own,
		edges:  e,
		cbW:    f.box.Content.W,
		cbH:    f.heightRef(),
		height: h,
		hasH:   hasH,
		inline: p.hasInlineContent(c),
	}
	if own {
		nf.bfc = newFloatContext(c.Content.X, c.Content.Right())
	}
	minH, _ := css.Dimen(c.Style, "min-height").Resolve(nf.cbH, css.FontSize(c.Style))
	nf.collapseBottom = !own && !hasH && minH <= 0 &&
		e.border[css.Bottom] == 0 && e.padding[css.Bottom] == 0
	f.pending = f.pending.add(e.margin[css.Top])
	if !own && clear == css.ClearNone && e.border[css.Top] == 0 && e.padding[css.Top] == 0 {
		// top margin collapses with the first child's
		nf.pending = f.pending
		f.pending = collapse{}
		nf.cursor = f.cursor
		c.Content.Y = nf.cursor + nf.pending.value()
		return append(stack, nf)
	}
	y := resolve(stack)
	if clear != css.ClearNone {
		y = math.Max(y, f.bfc.clearY(clear))
	}
	c.Content.Y = y + e.border[css.Top] + e.padding[css.Top]
	nf.resolved = true
	nf.cursor = c.Content.Y
	return append(stack, nf)
}

func (f *frame) heightRef() float64 {
	if f.hasH {
		return f.height
	}
	return 0
}

// finish completes the top frame and pops it off the stack.
func (p *pass) finish(stack []*frame) []*frame {
	f := stack[len(stack)-1]
	b := f.box
	e := f.edges
	if len(stack) == 1 { // formatting context root
		bottom := f.cursor + f.pending.value()
		if fb := f.bfc.bottom(); fb > bottom {
			bottom = fb
		}
		p.setHeight(f, bottom-b.Content.Y)
		return stack[:0]
	}
	parent := stack[len(stack)-2]
	if !f.resolved && f.collapseBottom { // empty box, margins collapse through
		b.Content.Y = f.cursor + f.pending.value()
		p.setHeight(f, 0)
		parent.pending = f.pending.add(e.margin[css.Bottom])
		return stack[:len(stack)-1]
	}
	if !f.resolved {
		resolve(stack)
	}
	var bottom float64
	if f.collapseBottom {
		bottom = f.cursor
	} else {
		bottom = f.cursor + f.pending.value()
	}
	if f.ownBFC {
		bottom = math.Max(bottom, f.bfc.bottom())
	}
	p.setHeight(f, bottom-b.Content.Y)
	parent.cursor = b.BorderBox().Bottom()
	if f.collapseBottom {
		parent.pending = f.pending.add(e.margin[css.Bottom])
	} else {
		parent.pending = collapse{}.add(e.margin[css.Bottom])
	}
	if dx, dy := p.relativeOffset(b, f.cbW); dx != 0 || dy != 0 {
		p.translate(b, dx, dy)
	}
	return stack[:len(stack)-1]
}

func (p *pass) setHeight(f *frame, h float64) {
	if f.hasH {
		h = f.height
	}
	f.box.Content.H = p.clampHeight(f.box, h, f.cbH)
}

// layoutBlockLevelAtomic places a block-level table or replaced box in flow.
func (p *pass) layoutBlockLevelAtomic(stack []*frame, c *boxtree.Box) {
	f := stack[len(stack)-1]
	e := p.edges(c, f.box.Content.W)
	f.pending = f.pending.add(e.margin[css.Top])
	y := resolve(stack)
	if clear := css.ClearOf(c.Style); clear != css.ClearNone {
		y = math.Max(y, f.bfc.clearY(clear))
	}
	p.layoutAtomic(c, f.box.Content.X, y-e.margin[css.Top], f.box.Content.W, true)
	f.cursor = c.BorderBox().Bottom()
	f.pending = collapse{}.add(e.margin[css.Bottom])
}

// layoutAtomic lays out a box independently from its surroundings, with its
// margin box at (x, y). Block containers shrink to fit; inFlow block-level
// tables and replaced boxes honor auto margins.
func (p *pass) layoutAtomic(b *boxtree.Box, x, y, cbW float64, inFlow bool) {
	switch b.Kind {
	case boxtree.TableBox:
		p.layoutTable(b, x, y, cbW, inFlow)
	case boxtree.ReplacedBox:
		p.layoutReplaced(b, x, y, cbW, inFlow)
	default:
		w, e := p.shrinkToFit(b, cbW)
		e.auto = [4]bool{}
		p.layoutRoot(b, x, y, w, e, 0)
	}
}

// layoutFloat lays out a floating box and places it in the float context of
// frame f, not above y.
func (p *pass) layoutFloat(f *frame, c *boxtree.Box, y float64) {
	p.layoutAtomic(c, 0, 0, f.box.Content.W, false)
	if clear := css.ClearOf(c.Style); clear != css.ClearNone {
		y = math.Max(y, f.bfc.clearY(clear))
	}
	mb := c.MarginBox()
	pos := f.bfc.place(c.Float, mb.W, mb.H, y)
	p.translate(c, pos.X-mb.X, pos.Y-mb.Y)
	tracer().Debugf("placed float %s at %s", c, pos)
}
