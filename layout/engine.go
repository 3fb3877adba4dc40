package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/metrics"
	"github.com/npillmayer/pagebox/replaced"
)

// Constraints describe the initial containing block.
type Constraints struct {
	X, Y   float64 // top left corner
	Width  float64
	Height float64 // reference for percentage heights; 0 if indefinite
}

// Engine lays out box trees. An engine holds no per-document state and may
// be used for several documents concurrently.
type Engine struct {
	metrics metrics.Provider
	drawers *replaced.Registry
}

// NewEngine creates a layout engine. If m is nil, metrics.Basic is used.
// drawers may be nil, in which case all replaced content is rendered as
// placeholders.
func NewEngine(m metrics.Provider, drawers *replaced.Registry) *Engine {
	if m == nil {
		m = metrics.Basic{}
	}
	return &Engine{metrics: m, drawers: drawers}
}

// Result holds the outcome of a layout pass which is not stored in the boxes
// themselves.
type Result struct {
	Contents map[boxtree.ID]replaced.Content // drawn content of replaced boxes
	Height   float64                         // height of the laid out document
}

// pass holds the state of a single layout pass.
type pass struct {
	e     *Engine
	t     *boxtree.Tree
	res   *Result
	verts map[*style.CalculatedStyle]vmetrics
	intr  map[boxtree.ID]widths
}

// Layout computes the geometry of all boxes of t. Geometry is overwritten,
// calling Layout twice with the same constraints yields the same result.
func (e *Engine) Layout(t *boxtree.Tree, cb Constraints) *Result {
	res := &Result{Contents: make(map[boxtree.ID]replaced.Content)}
	root := t.Root()
	if root == nil {
		return res
	}
	p := &pass{
		e:     e,
		t:     t,
		res:   res,
		verts: make(map[*style.CalculatedStyle]vmetrics),
		intr:  make(map[boxtree.ID]widths),
	}
	_ = t.Walk(root, func(b *boxtree.Box, _ int) error {
		b.Content, b.Lines = boxtree.Rect{}, nil
		b.Padding, b.Border, b.Margin = boxtree.Edges{}, boxtree.Edges{}, boxtree.Edges{}
		return nil
	})
	width := clamp0(cb.Width)
	switch root.Kind {
	case boxtree.TableBox, boxtree.ReplacedBox:
		p.layoutAtomic(root, cb.X, cb.Y, width, false)
	default:
		w, e := p.blockWidth(root, width)
		p.layoutRoot(root, cb.X, cb.Y, w, e, clamp0(cb.Height))
	}
	res.Height = clamp0(root.MarginBox().Bottom() - cb.Y)
	tracer().Debugf("layout of %d boxes done, height = %.2f", t.Len(), res.Height)
	return res
}

// --- Box edges and sizes ---------------------------------------------------

// boxEdges are the resolved edges of a box. Auto margins are flagged and
// resolve to zero unless centering applies.
type boxEdges struct {
	margin  boxtree.Edges
	auto    [4]bool
	padding boxtree.Edges
	border  boxtree.Edges
}

func (e boxEdges) hor() float64 {
	return e.padding.Horizontal() + e.border.Horizontal()
}

func (e boxEdges) vert() float64 {
	return e.padding.Vertical() + e.border.Vertical()
}

func (p *pass) edges(b *boxtree.Box, cbW float64) boxEdges {
	var e boxEdges
	if b.Kind == boxtree.TextBox || b.Kind == boxtree.LineBreakBox {
		return e
	}
	cs := b.Style
	fs := css.FontSize(cs)
	m := css.Margins(cs)
	for dir := css.Top; dir <= css.Left; dir++ {
		if m[dir].IsAuto() {
			e.auto[dir] = true
			continue
		}
		e.margin[dir] = finite(m[dir].ResolveOr(cbW, fs, 0))
	}
	e.padding = css.Padding(cs, cbW)
	e.border = css.BorderWidths(cs)
	if b.Kind == boxtree.TableCellBox || b.Kind == boxtree.TableRowBox || b.Kind == boxtree.TableRowGroupBox {
		e.margin, e.auto = boxtree.Edges{}, [4]bool{}
	}
	return e
}

func (e boxEdges) apply(b *boxtree.Box) {
	b.Margin, b.Padding, b.Border = e.margin, e.padding, e.border
}

// specifiedWidth returns the content width set by property width, if any.
func (p *pass) specifiedWidth(b *boxtree.Box, cbW float64, e boxEdges) (float64, bool) {
	d := css.Dimen(b.Style, "width")
	if d.IsPercent() && cbW <= 0 {
		return 0, false
	}
	w, ok := d.Resolve(cbW, css.FontSize(b.Style))
	if !ok {
		return 0, false
	}
	if b.Style.Get("box-sizing") == "border-box" {
		w -= e.hor()
	}
	return clamp0(w), true
}

// clampWidth applies min-width and max-width.
func (p *pass) clampWidth(b *boxtree.Box, w, cbW float64) float64 {
	fs := css.FontSize(b.Style)
	if maxW, ok := css.Dimen(b.Style, "max-width").Resolve(cbW, fs); ok {
		w = math.Min(w, maxW)
	}
	if minW, ok := css.Dimen(b.Style, "min-width").Resolve(cbW, fs); ok {
		w = math.Max(w, minW)
	}
	return clamp0(w)
}

// specifiedHeight returns the content height set by property height, if any.
// Percentages need a definite containing block height.
func (p *pass) specifiedHeight(b *boxtree.Box, cbH float64, e boxEdges) (float64, bool) {
	d := css.Dimen(b.Style, "height")
	if d.IsPercent() && cbH <= 0 {
		return 0, false
	}
	h, ok := d.Resolve(cbH, css.FontSize(b.Style))
	if !ok {
		return 0, false
	}
	if b.Style.Get("box-sizing") == "border-box" {
		h -= e.vert()
	}
	return clamp0(h), true
}

// clampHeight applies min-height and max-height.
func (p *pass) clampHeight(b *boxtree.Box, h, cbH float64) float64 {
	fs := css.FontSize(b.Style)
	if d := css.Dimen(b.Style, "max-height"); !d.IsPercent() || cbH > 0 {
		if maxH, ok := d.Resolve(cbH, fs); ok {
			h = math.Min(h, maxH)
		}
	}
	if d := css.Dimen(b.Style, "min-height"); !d.IsPercent() || cbH > 0 {
		if minH, ok := d.Resolve(cbH, fs); ok {
			h = math.Max(h, minH)
		}
	}
	return clamp0(h)
}

// blockWidth computes the content width of a block-level box in normal flow
// and resolves auto margins.
func (p *pass) blockWidth(b *boxtree.Box, cbW float64) (float64, boxEdges) {
	e := p.edges(b, cbW)
	w, specified := p.specifiedWidth(b, cbW, e)
	if !specified {
		w = p.clampWidth(b, cbW-e.margin.Horizontal()-e.hor(), cbW)
		return w, e
	}
	w = p.clampWidth(b, w, cbW)
	rest := cbW - w - e.hor() - e.margin.Horizontal()
	switch {
	case e.auto[css.Left] && e.auto[css.Right]:
		e.margin[css.Left] = clamp0(rest / 2)
		e.margin[css.Right] = clamp0(rest / 2)
	case e.auto[css.Left]:
		e.margin[css.Left] = clamp0(rest)
	case e.auto[css.Right]:
		e.margin[css.Right] = clamp0(rest)
	}
	return w, e
}

// shrinkToFit computes the content width of floats and inline-blocks.
func (p *pass) shrinkToFit(b *boxtree.Box, cbW float64) (float64, boxEdges) {
	e := p.edges(b, cbW)
	if w, ok := p.specifiedWidth(b, cbW, e); ok {
		return p.clampWidth(b, w, cbW), e
	}
	cw := p.contentWidths(b)
	avail := cbW - e.margin.Horizontal() - e.hor()
	w := math.Min(math.Max(cw.min, avail), cw.max)
	return p.clampWidth(b, w, cbW), e
}

// --- Helpers ---------------------------------------------------------------

// clamp0 maps negative and undefined values to zero.
func clamp0(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if math.IsInf(x, 1) {
		return math.MaxFloat32
	}
	return x
}

// finite maps undefined values to zero, keeping the sign otherwise.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// translate moves a box and its subtree.
func (p *pass) translate(b *boxtree.Box, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	_ = p.t.Walk(b, func(c *boxtree.Box, _ int) error {
		c.Content.X += dx
		c.Content.Y += dy
		for i := range c.Lines {
			l := &c.Lines[i]
			l.X += dx
			l.Y += dy
			l.Baseline += dy
			for j := range l.Fragments {
				l.Fragments[j].X += dx
				l.Fragments[j].Y += dy
			}
		}
		return nil
	})
}

// relativeOffset returns the shift of a relatively positioned box.
func (p *pass) relativeOffset(b *boxtree.Box, cbW float64) (dx, dy float64) {
	var offsets []css.PositionOffset
	m := css.PositionPattern[bool](css.PositionOf(b.Style)).With(&offsets)
	if !m.OneOf(css.PositionPatterns[bool]{Relative: true}) {
		return 0, 0
	}
	fs := css.FontSize(b.Style)
	off := [4]float64{}
	set := [4]bool{}
	for _, o := range offsets {
		if v, ok := o.Dim.Resolve(cbW, fs); ok {
			off[o.Dir], set[o.Dir] = finite(v), true
		}
	}
	switch {
	case set[css.Left]:
		dx = off[css.Left]
	case set[css.Right]:
		dx = -off[css.Right]
	}
	switch {
	case set[css.Top]:
		dy = off[css.Top]
	case set[css.Bottom]:
		dy = -off[css.Bottom]
	}
	return dx, dy
}

// establishesBFC is true for block containers which start a new block
// formatting context.
func establishesBFC(b *boxtree.Box) bool {
	if b.Float != css.FloatNone || b.IsAtomicInline() {
		return true
	}
	switch b.Kind {
	case boxtree.TableCellBox, boxtree.TableCaptionBox:
		return true
	}
	if b.Display.Contains(css.FlowRootMode) {
		return true
	}
	ov := b.Style.Get("overflow")
	return ov != "" && ov != "visible"
}
