package boxtree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"golang.org/x/net/html"
)

// ID addresses a box within its tree.
type ID int32

// NoBox is the ID of a non-existing box, e.g. the parent of the root.
const NoBox ID = -1

// Kind is the type of a box.
type Kind uint8

// Kinds of boxes.
const (
	BlockBox Kind = iota
	InlineBox
	TextBox
	LineBreakBox
	TableBox
	TableRowGroupBox
	TableRowBox
	TableCellBox
	TableCaptionBox
	ReplacedBox
)

var kindNames = [...]string{
	"block", "inline", "text", "br", "table", "row-group", "row", "cell", "caption", "replaced",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Rect is a rectangle in points. X and Y denote the top left corner.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Grow returns r enlarged by edges e.
func (r Rect) Grow(e Edges) Rect {
	return Rect{
		X: r.X - e[css.Left],
		Y: r.Y - e[css.Top],
		W: r.W + e[css.Left] + e[css.Right],
		H: r.H + e[css.Top] + e[css.Bottom],
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f %.2f×%.2f)", r.X, r.Y, r.W, r.H)
}

// Edges are the widths of the four sides of a box edge, indexed by css.PosDir.
type Edges [4]float64

// Horizontal returns the sum of left and right edge.
func (e Edges) Horizontal() float64 { return e[css.Left] + e[css.Right] }

// Vertical returns the sum of top and bottom edge.
func (e Edges) Vertical() float64 { return e[css.Top] + e[css.Bottom] }

// Add returns the sum of two edges.
func (e Edges) Add(o Edges) Edges {
	for i := range e {
		e[i] += o[i]
	}
	return e
}

// LineBox is a line of inline content, positioned in absolute coordinates.
type LineBox struct {
	Rect
	Baseline  float64 // y coordinate of the baseline
	Fragments []Fragment
}

// Fragment is a piece of inline content on a line: a run of text, or an
// atomic inline box.
type Fragment struct {
	Rect
	Box  ID     // the text or atomic inline box the fragment belongs to
	Text string // empty for atomic inlines
}

// Box is a node of the box tree.
type Box struct {
	ID       ID
	Parent   ID
	Children []ID
	Kind     Kind
	// Anonymous boxes are generated by the builder and have no DOM node.
	Anonymous bool
	Display   css.DisplayMode
	Float     css.FloatT
	// OutOfFlow is set for absolutely positioned elements and for replaced
	// content declared out of flow. These boxes carry the forced-hidden style
	// and take no space.
	OutOfFlow bool
	Node      *html.Node
	Style     *style.CalculatedStyle
	// Text holds the NFC-normalized content of text boxes.
	Text string
	// ContentType is the drawer key of replaced boxes.
	ContentType      string
	ColSpan, RowSpan int

	// Geometry, set by layout. All coordinates are absolute.
	Content Rect
	Padding Edges
	Border  Edges
	Margin  Edges
	Lines   []LineBox
}

// PaddingBox returns the rectangle including padding.
func (b *Box) PaddingBox() Rect {
	return b.Content.Grow(b.Padding)
}

// BorderBox returns the rectangle including padding and border.
func (b *Box) BorderBox() Rect {
	return b.Content.Grow(b.Padding.Add(b.Border))
}

// MarginBox returns the rectangle including padding, border and margins.
func (b *Box) MarginBox() Rect {
	return b.Content.Grow(b.Padding.Add(b.Border).Add(b.Margin))
}

// IsInlineLevel is true for boxes participating in an inline formatting
// context.
func (b *Box) IsInlineLevel() bool {
	switch b.Kind {
	case TextBox, LineBreakBox, InlineBox:
		return true
	case BlockBox, TableBox, ReplacedBox:
		return !b.OutOfFlow && b.Float == css.FloatNone && b.Display.IsInlineLevel()
	}
	return false
}

// IsAtomicInline is true for inline-level boxes which are laid out as a unit,
// e.g. inline-blocks or images.
func (b *Box) IsAtomicInline() bool {
	return b.IsInlineLevel() && (b.Kind == BlockBox || b.Kind == TableBox || b.Kind == ReplacedBox)
}

// IsBlockLevel is true for boxes participating in a block formatting context.
// Floats and out-of-flow boxes count as block-level.
func (b *Box) IsBlockLevel() bool {
	switch b.Kind {
	case BlockBox, TableBox, ReplacedBox:
		return !b.IsInlineLevel()
	}
	return false
}

// IsTablePart is true for table rows, row groups, cells and captions.
func (b *Box) IsTablePart() bool {
	return b.Kind >= TableRowGroupBox && b.Kind <= TableCaptionBox
}

// IsBlockContainer is true for boxes which may contain block-level boxes.
func (b *Box) IsBlockContainer() bool {
	return b.Kind == BlockBox || b.Kind == TableCellBox || b.Kind == TableCaptionBox
}

// IsWhitespace is true for text boxes containing white space only.
func (b *Box) IsWhitespace() bool {
	return b.Kind == TextBox && strings.TrimSpace(b.Text) == ""
}

// Tag returns the element name of a box's DOM node, if any.
func (b *Box) Tag() string {
	if b.Node == nil || b.Node.Type != html.ElementNode {
		return ""
	}
	return b.Node.Data
}

// Attr returns an attribute of the box's DOM node.
func (b *Box) Attr(key string) (string, bool) {
	if b.Node == nil {
		return "", false
	}
	for _, a := range b.Node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (b *Box) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s", b.ID, b.Kind)
	if tag := b.Tag(); tag != "" {
		fmt.Fprintf(&sb, " <%s>", tag)
	}
	if b.Anonymous {
		sb.WriteString(" anon")
	}
	if b.OutOfFlow {
		sb.WriteString(" out-of-flow")
	}
	if b.Float != css.FloatNone {
		fmt.Fprintf(&sb, " float:%s", b.Float)
	}
	switch b.Kind {
	case TextBox:
		t := b.Text
		if len(t) > 24 {
			t = t[:21] + "..."
		}
		fmt.Fprintf(&sb, " %q", t)
	case ReplacedBox:
		fmt.Fprintf(&sb, " [%s]", b.ContentType)
	}
	return sb.String()
}
