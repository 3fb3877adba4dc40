package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/metrics"
	"github.com/npillmayer/pagebox/tree"
)

type itemKind uint8

const (
	wordItem itemKind = iota
	spaceItem
	atomicItem
	breakItem // forced line break
	floatItem
	oofItem
	gapItem // start or end edges of an inline box
)

// item is a piece of flattened inline content.
type item struct {
	kind        itemKind
	box         *boxtree.Box
	text        string
	w           float64
	min         float64 // minimum width of atomic inlines, when measuring
	wrap        bool    // a line may break after this item
	collapsible bool
}

// vmetrics are the vertical metrics of a style's font.
type vmetrics struct {
	ascent, descent float64
	above, below    float64 // extent from the baseline including half-leading
}

func (p *pass) vmetricsOf(cs *style.CalculatedStyle) vmetrics {
	if v, ok := p.verts[cs]; ok {
		return v
	}
	a, d := p.e.metrics.Extent(metrics.SpecOf(cs))
	lead := (css.LineHeight(cs) - a - d) / 2
	v := vmetrics{ascent: a, descent: d, above: clamp0(a + lead), below: clamp0(d + lead)}
	p.verts[cs] = v
	return v
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// flatten collects the inline content of b in document order. If measure is
// set, atomic inlines are measured instead of laid out.
func (p *pass) flatten(b *boxtree.Box, cbW float64, measure bool) []item {
	type entry struct {
		box  *boxtree.Box
		next int
	}
	var items []item
	space := true // collapsible white space at the start of a line is dropped
	wraps := css.WhiteSpace(b.Style).Wraps()
	stack := []entry{{box: b}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.box.Children) {
			if ib := top.box; len(stack) > 1 {
				if w := ib.Margin[css.Right] + ib.Border[css.Right] + ib.Padding[css.Right]; w != 0 {
					items = append(items, item{kind: gapItem, box: ib, w: w})
				}
			}
			stack = stack[:len(stack)-1]
			continue
		}
		c := p.t.Box(top.box.Children[top.next])
		top.next++
		switch {
		case c.OutOfFlow:
			items = append(items, item{kind: oofItem, box: c})
		case c.Float != css.FloatNone:
			items = append(items, item{kind: floatItem, box: c})
		case c.Kind == boxtree.TextBox:
			items, space = p.splitText(items, c, space)
		case c.Kind == boxtree.LineBreakBox:
			items = append(items, item{kind: breakItem, box: c})
			space = true
		case c.Kind == boxtree.InlineBox:
			e := p.edges(c, cbW)
			e.auto = [4]bool{}
			e.apply(c)
			if w := e.margin[css.Left] + e.border[css.Left] + e.padding[css.Left]; w != 0 {
				items = append(items, item{kind: gapItem, box: c, w: w})
			}
			stack = append(stack, entry{box: c})
		case c.IsAtomicInline():
			it := item{kind: atomicItem, box: c, wrap: wraps}
			if measure {
				ow := p.outerWidths(c)
				it.w, it.min = ow.max, ow.min
			} else {
				p.layoutAtomic(c, 0, 0, cbW, false)
				it.w = c.MarginBox().W
				it.min = it.w
			}
			if n := len(items); n > 0 && wraps {
				items[n-1].wrap = true
			}
			items = append(items, it)
			space = false
		default:
			tracer().Infof("unexpected %s in inline flow, skipping", c)
		}
	}
	return items
}

// splitText splits the text of a text box into words and spaces, applying
// the box's white-space mode.
func (p *pass) splitText(items []item, b *boxtree.Box, space bool) ([]item, bool) {
	ws := css.WhiteSpace(b.Style)
	f := metrics.SpecOf(b.Style)
	m := p.e.metrics
	text := b.Text
	newline := func(c byte) bool { return c == '\n' && ws.PreservesNewlines() }
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case newline(c):
			items = append(items, item{kind: breakItem, box: b})
			space = true
			i++
		case isSpace(c):
			j := i
			for j < len(text) && isSpace(text[j]) && !newline(text[j]) {
				j++
			}
			run := text[i:j]
			i = j
			if ws.CollapsesSpaces() {
				if space {
					continue
				}
				run, space = " ", true
			} else {
				space = false
			}
			items = append(items, item{
				kind:        spaceItem,
				box:         b,
				text:        run,
				w:           m.Advance(run, f),
				wrap:        ws.Wraps(),
				collapsible: ws.CollapsesSpaces(),
			})
		default:
			j := i
			for j < len(text) && !isSpace(text[j]) {
				j++
			}
			word := text[i:j]
			i = j
			items = append(items, item{kind: wordItem, box: b, text: word, w: m.Advance(word, f)})
			space = false
		}
	}
	return items, space
}

// hasLineContent is true if items produce at least one line box.
func hasLineContent(items []item) bool {
	for _, it := range items {
		switch it.kind {
		case wordItem, atomicItem, breakItem:
			return true
		case spaceItem:
			if !it.collapsible {
				return true
			}
		}
	}
	return false
}

// lineState is the line currently being filled.
type lineState struct {
	y        float64
	x0, x1   float64
	used     float64
	content  bool // a word, atomic or non-collapsible space has been added
	deferred []int
}

// layoutInline lays out the inline children of the top frame into line
// boxes.
func (p *pass) layoutInline(stack []*frame) {
	f := stack[len(stack)-1]
	b := f.box
	items := p.flatten(b, b.Content.W, false)
	if !hasLineContent(items) {
		y := f.cursor + f.pending.value()
		for _, it := range items {
			switch it.kind {
			case floatItem:
				p.layoutFloat(f, it.box, y)
			case oofItem:
				it.box.Content = boxtree.Rect{X: b.Content.X, Y: y}
			}
		}
		return
	}
	y := resolve(stack)
	strut := p.vmetricsOf(b.Style)
	strutH := strut.above + strut.below
	indent := finite(css.Length(b.Style, "text-indent", b.Content.W))
	placed := make(map[boxtree.ID]bool)
	band := func(l *lineState, first bool) {
		l.x0, l.x1 = f.bfc.available(l.y, strutH, b.Content.X, b.Content.Right())
		if first {
			l.x0 = math.Min(l.x0+indent, l.x1)
		}
	}
	placeFloat := func(i int, at float64) {
		c := items[i].box
		if !placed[c.ID] {
			placed[c.ID] = true
			p.layoutFloat(f, c, at)
		}
	}
	first := true
	for pos := 0; pos < len(items); {
		l := &lineState{y: y}
		band(l, first)
		end, forced := pos, false
		lastBreak := -1
	fill:
		for ; end < len(items); end++ {
			it := items[end]
			switch it.kind {
			case breakItem:
				end++
				forced = true
				break fill
			case oofItem:
				continue
			case floatItem:
				if placed[it.box.ID] {
					continue
				}
				fw := p.floatWidth(it.box, b.Content.W)
				if !l.content || l.used+fw <= l.x1-l.x0 {
					placeFloat(end, l.y)
					band(l, first)
				} else {
					l.deferred = append(l.deferred, end)
				}
				continue
			case spaceItem:
				if it.collapsible && !l.content {
					continue
				}
				l.used += it.w
				if it.wrap {
					lastBreak = end
				}
				continue
			}
			if l.content && l.used+it.w > l.x1-l.x0 && lastBreak >= 0 && lastBreak < end {
				end = lastBreak + 1
				break fill
			}
			for !l.content && l.used+it.w > l.x1-l.x0 && f.bfc.intrudes(l.y, strutH) {
				l.y = f.bfc.nextBottom(l.y, strutH)
				band(l, first)
			}
			l.used += it.w
			if it.kind != gapItem {
				l.content = true
			}
			if it.wrap {
				lastBreak = end
			}
		}
		if end == pos { // cannot happen, guards against endless loops
			end++
		}
		last := end >= len(items)
		if bottom, ok := p.finishLine(b, items[pos:end], l, forced, last); ok {
			y = bottom
			first = false
		} else {
			y = l.y
		}
		for _, i := range l.deferred {
			if i < end {
				placeFloat(i, y)
			}
		}
		pos = end
	}
	f.cursor = y
	p.inlineGeometry(b)
}

// floatWidth returns the margin box width of a float before it is placed.
func (p *pass) floatWidth(c *boxtree.Box, cbW float64) float64 {
	w, e := p.shrinkToFit(c, cbW)
	return w + e.hor() + e.margin.Horizontal()
}

// finishLine positions the items of a line and appends the line box to b.
// It returns the bottom of the line, or false if the line is empty.
func (p *pass) finishLine(b *boxtree.Box, items []item, l *lineState, forced, last bool) (float64, bool) {
	first, end := 0, len(items)
	for first < end && skipAtEdge(items[first]) {
		first++
	}
	for end > first && skipAtEdge(items[end-1]) {
		end--
	}
	content := forced
	strut := p.vmetricsOf(b.Style)
	above, below := strut.above, strut.below
	var used float64
	spaces := 0
	for i := first; i < end; i++ {
		it := items[i]
		switch it.kind {
		case wordItem, spaceItem:
			v := p.vmetricsOf(it.box.Style)
			above, below = math.Max(above, v.above), math.Max(below, v.below)
			used += it.w
			content = true
			if it.kind == spaceItem {
				spaces++
			}
		case atomicItem:
			above = math.Max(above, it.box.MarginBox().H)
			used += it.w
			content = true
		case gapItem:
			used += it.w
		}
	}
	if !content {
		for _, it := range items {
			if it.kind == oofItem {
				it.box.Content = boxtree.Rect{X: l.x0, Y: l.y}
			}
		}
		return 0, false
	}
	line := boxtree.LineBox{
		Rect:     boxtree.Rect{X: l.x0, Y: l.y, W: l.x1 - l.x0, H: above + below},
		Baseline: l.y + above,
	}
	slack := l.x1 - l.x0 - used
	var x, extra float64
	switch css.TextAlign(b.Style) {
	case css.AlignRight:
		x = slack
	case css.AlignCenter:
		x = slack / 2
	case css.AlignJustify:
		if !forced && !last && spaces > 0 && slack > 0 {
			extra = slack / float64(spaces)
		}
	}
	x = l.x0 + math.Max(0, x)
	for i, it := range items {
		switch {
		case it.kind == oofItem:
			it.box.Content = boxtree.Rect{X: x, Y: l.y}
		case i < first || i >= end:
		case it.kind == wordItem:
			v := p.vmetricsOf(it.box.Style)
			line.Fragments = append(line.Fragments, boxtree.Fragment{
				Rect: boxtree.Rect{X: x, Y: line.Baseline - v.ascent, W: it.w, H: v.ascent + v.descent},
				Box:  it.box.ID,
				Text: it.text,
			})
			x += it.w
		case it.kind == spaceItem:
			x += it.w + extra
		case it.kind == atomicItem:
			mb := it.box.MarginBox()
			p.translate(it.box, x-mb.X, line.Baseline-mb.H-mb.Y)
			line.Fragments = append(line.Fragments, boxtree.Fragment{
				Rect: it.box.MarginBox(),
				Box:  it.box.ID,
			})
			x += it.w
		case it.kind == gapItem:
			x += it.w
		}
	}
	b.Lines = append(b.Lines, line)
	return line.Bottom(), true
}

func skipAtEdge(it item) bool {
	return it.kind == spaceItem && it.collapsible || it.kind == breakItem
}

// inlineGeometry sets the content rectangles of text and inline boxes to the
// union of their fragments.
func (p *pass) inlineGeometry(b *boxtree.Box) {
	seen := make(map[boxtree.ID]bool)
	for _, l := range b.Lines {
		for _, fr := range l.Fragments {
			c := p.t.Box(fr.Box)
			if c.Kind != boxtree.TextBox {
				c = p.t.ParentOf(c)
			}
			for ; c != nil && c != b; c = p.t.ParentOf(c) {
				if !seen[c.ID] {
					seen[c.ID] = true
					c.Content = fr.Rect
				} else {
					c.Content = union(c.Content, fr.Rect)
				}
			}
		}
	}
	_ = p.t.Walk(b, func(c *boxtree.Box, _ int) error {
		if c == b {
			return nil
		}
		if !seen[c.ID] && (c.Kind == boxtree.TextBox || c.Kind == boxtree.InlineBox || c.Kind == boxtree.LineBreakBox) {
			c.Content = boxtree.Rect{X: b.Content.X, Y: b.Content.Y}
		}
		if c.Kind != boxtree.InlineBox {
			return tree.SkipChildren
		}
		return nil
	})
}

func union(a, b boxtree.Rect) boxtree.Rect {
	x0, y0 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x1, y1 := math.Max(a.Right(), b.Right()), math.Max(a.Bottom(), b.Bottom())
	return boxtree.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
