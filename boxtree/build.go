package boxtree

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// ErrLimitExceeded is returned if a document exceeds the nesting depth or the
// number of boxes configured for the builder.
var ErrLimitExceeded = errors.New("box tree resource limit exceeded")

// Replacement describes the box for a replaced element.
type Replacement struct {
	ContentType string // key for the drawer registry
	OutOfFlow   bool   // content does not take part in layout
}

// Replacer decides which elements are replaced elements, i.e. elements
// whose content is drawn by an external drawer.
type Replacer interface {
	Replace(n *html.Node, cs *style.CalculatedStyle) (Replacement, bool)
}

// ReplacerFunc is an adapter to use ordinary functions as Replacers.
type ReplacerFunc func(*html.Node, *style.CalculatedStyle) (Replacement, bool)

// Replace calls f(n, cs).
func (f ReplacerFunc) Replace(n *html.Node, cs *style.CalculatedStyle) (Replacement, bool) {
	return f(n, cs)
}

// Options control the box tree builder.
type Options struct {
	Replacer Replacer // optional
	MaxDepth int      // maximum nesting depth of the styled tree; 0 means DefaultMaxDepth
	MaxBoxes int      // maximum number of boxes; 0 means DefaultMaxBoxes
}

// Default resource limits.
const (
	DefaultMaxDepth = 512
	DefaultMaxBoxes = 1 << 20
)

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxBoxes <= 0 {
		o.MaxBoxes = DefaultMaxBoxes
	}
	return o
}

type builder struct {
	t    *Tree
	opts Options
}

// Build creates the box tree for a styled tree.
//
// Elements with `display: none` are omitted. Missing table wrappers and
// anonymous block boxes are generated as required by CSS 2.1, whitespace
// inside table structures is dropped. Absolutely positioned elements get the
// forced-hidden style and no children. Malformed structures are repaired;
// the only error condition is exceeding a resource limit, which results in
// an error wrapping ErrLimitExceeded.
func Build(styled *tree.Node[*styledtree.StyNode], opts Options) (*Tree, error) {
	if styled == nil || styled.Payload == nil {
		return nil, tree.ErrEmptyTree
	}
	bld := &builder{t: &Tree{}, opts: opts.withDefaults()}
	if err := bld.generate(styled); err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	bld.fixup()
	bld.t.compact()
	if bld.t.Len() > bld.opts.MaxBoxes {
		err := fmt.Errorf("%w: more than %d boxes", ErrLimitExceeded, bld.opts.MaxBoxes)
		tracer().Errorf("%v", err)
		return nil, err
	}
	tracer().Debugf("box tree has %d boxes", bld.t.Len())
	return bld.t, nil
}

// --- Generating boxes ------------------------------------------------------

func (bld *builder) generate(styled *tree.Node[*styledtree.StyNode]) error {
	parent := NoBox
	if !bld.isBlockRoot(styled.Payload) {
		cs := styled.Payload.Styles()
		root := bld.t.newBox(BlockBox, NoBox, nil, cs.Anonymous(style.KeyValue{Key: "display", Value: "block"}))
		root.Anonymous = true
		root.Display = css.BlockMode | css.InnerBlockMode
		parent = root.ID
	}
	type pending struct {
		node   *tree.Node[*styledtree.StyNode]
		parent ID
		depth  int
	}
	stack := []pending{{styled, parent, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > bld.opts.MaxDepth {
			return fmt.Errorf("%w: nesting depth exceeds %d", ErrLimitExceeded, bld.opts.MaxDepth)
		}
		b, descend := bld.boxFor(top.node.Payload, top.parent)
		if b == nil {
			continue
		}
		if bld.t.Len() > bld.opts.MaxBoxes {
			return fmt.Errorf("%w: more than %d boxes", ErrLimitExceeded, bld.opts.MaxBoxes)
		}
		if p := bld.t.Box(top.parent); p != nil {
			p.Children = append(p.Children, b.ID)
		}
		if !descend {
			continue
		}
		children := top.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{children[i], b.ID, top.depth + 1})
		}
	}
	return nil
}

func (bld *builder) isBlockRoot(sn *styledtree.StyNode) bool {
	if sn.IsText() || bld.replacement(sn) != nil {
		return false
	}
	disp := css.DisplayOf(sn.Styles())
	return !disp.Contains(css.DisplayNone) && kindOf(disp) == BlockBox &&
		!css.PositionOf(sn.Styles()).IsOutOfFlow()
}

func (bld *builder) replacement(sn *styledtree.StyNode) *Replacement {
	if bld.opts.Replacer == nil || !sn.IsElement() {
		return nil
	}
	if r, ok := bld.opts.Replacer.Replace(sn.HTMLNode(), sn.Styles()); ok {
		return &r
	}
	return nil
}

// boxFor creates the box for a styled node, if any. descend reports whether
// the children of the styled node generate boxes.
func (bld *builder) boxFor(sn *styledtree.StyNode, parent ID) (b *Box, descend bool) {
	h, cs := sn.HTMLNode(), sn.Styles()
	if sn.IsText() {
		b = bld.t.newBox(TextBox, parent, h, cs)
		b.Display = css.InlineMode
		b.Text = norm.NFC.String(h.Data)
		return b, false
	}
	disp := css.DisplayOf(cs)
	if disp.Contains(css.DisplayNone) {
		return nil, false
	}
	if disp.Overlaps(css.TableColumnMode | css.TableColGroupMode) {
		tracer().Debugf("%s: table columns do not generate boxes", sn)
		return nil, false
	}
	if r := bld.replacement(sn); r != nil {
		b = bld.t.newBox(ReplacedBox, parent, h, cs)
		b.ContentType = r.ContentType
		b.Display = disp
		b.Float = css.FloatOf(cs)
		if r.OutOfFlow {
			hide(b)
		}
		return b, false
	}
	if css.PositionOf(cs).IsOutOfFlow() {
		b = bld.t.newBox(BlockBox, parent, h, cs)
		hide(b)
		return b, false
	}
	if h.Type == html.ElementNode && h.DataAtom == atom.Br {
		b = bld.t.newBox(LineBreakBox, parent, h, cs)
		b.Display = css.InlineMode
		return b, false
	}
	b = bld.t.newBox(kindOf(disp), parent, h, cs)
	b.Display = disp
	b.Float = css.FloatOf(cs)
	if b.Float != css.FloatNone && disp.IsInlineLevel() { // floats are blockified
		b.Display = disp&^(css.InlineMode|css.InnerInlineMode) | css.BlockMode
		if b.Kind == InlineBox {
			b.Kind = BlockBox
			b.Display |= css.InnerBlockMode
		}
	}
	if b.Kind == TableCellBox {
		b.ColSpan = spanAttr(b, "colspan", 1000)
		b.RowSpan = spanAttr(b, "rowspan", 65534)
	}
	return b, true
}

func kindOf(disp css.DisplayMode) Kind {
	switch {
	case disp.Contains(css.TableMode):
		return TableBox
	case disp.IsRowGroup():
		return TableRowGroupBox
	case disp.Contains(css.TableRowMode):
		return TableRowBox
	case disp.Contains(css.TableCellMode):
		return TableCellBox
	case disp.Contains(css.TableCaptionMode):
		return TableCaptionBox
	case disp.IsInlineLevel() && !disp.Contains(css.InnerBlockMode):
		return InlineBox
	}
	return BlockBox
}

// hide turns b into a box which takes no part in layout.
func hide(b *Box) {
	b.Style = style.ForcedHidden()
	b.OutOfFlow = true
	b.Display = css.BlockMode | css.InnerBlockMode
	b.Float = css.FloatNone
}

func spanAttr(b *Box, key string, limit int) int {
	v, ok := b.Attr(key)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		tracer().Infof("%s: ignoring %s=%q", b, key, v)
		return 1
	}
	return min(n, limit)
}

// --- Repairing structure ---------------------------------------------------

// fixup visits boxes bottom-up and inserts anonymous boxes where needed.
func (bld *builder) fixup() {
	var order []ID
	_ = bld.t.Walk(bld.t.Root(), func(b *Box, _ int) error {
		order = append(order, b.ID)
		return nil
	})
	for i := len(order) - 1; i >= 0; i-- {
		bld.fixBox(bld.t.boxes[order[i]])
	}
}

func (bld *builder) fixBox(b *Box) {
	switch b.Kind {
	case TableBox:
		bld.wrapChildren(b, func(c *Box) bool {
			return c.Kind == TableRowGroupBox || c.Kind == TableRowBox || c.Kind == TableCaptionBox
		}, bld.anonRow)
		bld.orderTableParts(b)
		return
	case TableRowGroupBox:
		bld.wrapChildren(b, func(c *Box) bool { return c.Kind == TableRowBox }, bld.anonRow)
		return
	case TableRowBox:
		bld.wrapChildren(b, func(c *Box) bool { return c.Kind == TableCellBox }, bld.anonCell)
		return
	}
	bld.wrapTableParts(b)
	if b.Kind == InlineBox && bld.hasInFlowBlock(b) {
		tracer().Infof("%s contains block-level boxes, turning it into a block", b)
		b.Kind = BlockBox
		b.Display = css.BlockMode | css.InnerBlockMode
	}
	if b.IsBlockContainer() {
		bld.wrapInlineRuns(b)
	}
}

// wrapChildren wraps consecutive children of a table box which are not
// proper children into anonymous boxes created by wrap. Whitespace outside
// such runs is dropped.
func (bld *builder) wrapChildren(b *Box, proper func(*Box) bool, wrap func(*Box, []ID) *Box) {
	var kids, run []ID
	flush := func() {
		if len(run) > 0 {
			kids = append(kids, wrap(b, run).ID)
			run = nil
		}
	}
	for _, id := range b.Children {
		c := bld.t.boxes[id]
		switch {
		case proper(c):
			flush()
			kids = append(kids, id)
		case c.IsWhitespace() && len(run) == 0:
			c.Parent = NoBox
		default:
			run = append(run, id)
		}
	}
	flush()
	b.Children = kids
}

// orderTableParts puts the children of a table into display order:
// captions, the first header group, bodies, the first footer group.
func (bld *builder) orderTableParts(b *Box) {
	var captions, body []ID
	head, foot := NoBox, NoBox
	for _, id := range b.Children {
		c := bld.t.boxes[id]
		switch {
		case c.Kind == TableCaptionBox:
			captions = append(captions, id)
		case head == NoBox && c.Display.Contains(css.TableHeaderGroupMode):
			head = id
		case foot == NoBox && c.Display.Contains(css.TableFooterGroupMode):
			foot = id
		default:
			body = append(body, id)
		}
	}
	kids := captions
	if head != NoBox {
		kids = append(kids, head)
	}
	kids = append(kids, body...)
	if foot != NoBox {
		kids = append(kids, foot)
	}
	b.Children = kids
}

func (bld *builder) anonBox(kind Kind, parent *Box, display string, children []ID) *Box {
	a := bld.t.newBox(kind, parent.ID, nil, parent.Style.Anonymous(style.KeyValue{
		Key: "display", Value: style.Property(display),
	}))
	a.Anonymous = true
	a.Display, _ = css.ParseDisplay(style.Property(display))
	a.Children = children
	for _, id := range children {
		bld.t.boxes[id].Parent = a.ID
	}
	return a
}

func (bld *builder) anonRow(parent *Box, children []ID) *Box {
	row := bld.anonBox(TableRowBox, parent, "table-row", children)
	tracer().Debugf("wrapping %d boxes into anonymous row %s", len(children), row)
	bld.fixBox(row)
	return row
}

func (bld *builder) anonCell(parent *Box, children []ID) *Box {
	cell := bld.anonBox(TableCellBox, parent, "table-cell", children)
	tracer().Debugf("wrapping %d boxes into anonymous cell %s", len(children), cell)
	bld.fixBox(cell)
	return cell
}

// wrapTableParts wraps runs of table-internal boxes found outside of tables
// into anonymous tables.
func (bld *builder) wrapTableParts(b *Box) {
	var kids, run, ws []ID
	flush := func() {
		if len(run) == 0 {
			return
		}
		display := "table"
		if b.Kind == InlineBox {
			display = "inline-table"
		}
		table := bld.anonBox(TableBox, b, display, run)
		tracer().Infof("%s: wrapping misparented table parts into anonymous table", b)
		bld.fixBox(table)
		kids = append(kids, table.ID)
		run = nil
	}
	for _, id := range b.Children {
		c := bld.t.boxes[id]
		switch {
		case c.IsTablePart():
			for _, w := range ws { // whitespace between table parts
				bld.t.boxes[w].Parent = NoBox
			}
			ws = nil
			run = append(run, id)
		case c.IsWhitespace() && len(run) > 0:
			ws = append(ws, id)
		default:
			flush()
			kids = append(kids, ws...)
			ws = nil
			kids = append(kids, id)
		}
	}
	flush()
	b.Children = append(kids, ws...)
}

// neutral boxes do not take part in the inline/block decision of their
// siblings.
func neutral(c *Box) bool {
	return c.OutOfFlow || c.Float != css.FloatNone
}

func (bld *builder) hasInFlowBlock(b *Box) bool {
	for _, id := range b.Children {
		if c := bld.t.boxes[id]; c.IsBlockLevel() && !neutral(c) {
			return true
		}
	}
	return false
}

// wrapInlineRuns wraps runs of inline-level boxes into anonymous block boxes,
// if b contains block-level boxes. Runs of collapsible whitespace are dropped.
func (bld *builder) wrapInlineRuns(b *Box) {
	if !bld.hasInFlowBlock(b) {
		return
	}
	collapsible := css.WhiteSpace(b.Style).CollapsesSpaces()
	var kids, run, floating []ID
	flush := func() {
		if len(run) == 0 {
			return
		}
		blank := true
		for _, id := range run {
			if c := bld.t.boxes[id]; !c.IsWhitespace() && !neutral(c) {
				blank = false
			}
		}
		if blank && collapsible {
			for _, id := range run {
				if c := bld.t.boxes[id]; neutral(c) {
					kids = append(kids, id)
				} else {
					c.Parent = NoBox
				}
			}
		} else {
			kids = append(kids, bld.anonBox(BlockBox, b, "block", run).ID)
		}
		run = nil
	}
	for _, id := range b.Children {
		c := bld.t.boxes[id]
		switch {
		case neutral(c):
			floating = append(floating, id)
		case c.IsBlockLevel():
			flush()
			kids = append(kids, floating...)
			kids = append(kids, id)
			floating = nil
		default:
			run = append(run, floating...)
			run = append(run, id)
			floating = nil
		}
	}
	if len(run) > 0 {
		run = append(run, floating...)
		floating = nil
	}
	flush()
	b.Children = append(kids, floating...)
}
