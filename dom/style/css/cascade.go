package css

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
)

// Typed accessors for calculated styles. All accessors are total: malformed
// property values are traced and replaced by the property's initial value.

// DisplayOf returns the display mode of a style.
func DisplayOf(cs *style.CalculatedStyle) DisplayMode {
	d, err := ParseDisplay(cs.Get("display"))
	if err != nil {
		tracer().Infof("%v, using block", err)
	}
	return d
}

// PositionOf returns the position of a style, including offsets.
func PositionOf(cs *style.CalculatedStyle) PositionT {
	pos := Position(cs.Get("position"))
	if pos.IsStatic() {
		return pos
	}
	offsets := make([]PositionOffset, 0, 4)
	for dir := Top; dir <= Left; dir++ {
		offsets = append(offsets, PositionOffset{Dim: Dimen(cs, dir.String()), Dir: dir})
	}
	return pos.WithOffsets(offsets)
}

// FloatOf returns the float mode of a style.
func FloatOf(cs *style.CalculatedStyle) FloatT {
	return Float(cs.Get("float"))
}

// ClearOf returns the clear mode of a style.
func ClearOf(cs *style.CalculatedStyle) ClearT {
	return Clear(cs.Get("clear"))
}

// BreakBefore returns the page-break-before mode of a style.
func BreakBefore(cs *style.CalculatedStyle) BreakT {
	return PageBreak(cs.Get("page-break-before"))
}

// BreakAfter returns the page-break-after mode of a style.
func BreakAfter(cs *style.CalculatedStyle) BreakT {
	return PageBreak(cs.Get("page-break-after"))
}

// BreakInside returns the page-break-inside mode of a style.
func BreakInside(cs *style.CalculatedStyle) BreakT {
	return PageBreak(cs.Get("page-break-inside"))
}

// Dimen returns a property as a dimension.
func Dimen(cs *style.CalculatedStyle, key string) DimenT {
	p := cs.Get(key)
	d, err := ParseDimen(p)
	if err != nil {
		tracer().Infof("property %s: %v", key, err)
		d, _ = ParseDimen(style.InitialValue(cs.Node(), key))
	}
	return d
}

// Length resolves a property to a length in points. Percentages refer to ref.
// Values which cannot be resolved (e.g., auto) result in 0.
func Length(cs *style.CalculatedStyle, key string, ref float64) float64 {
	return Dimen(cs, key).ResolveOr(ref, FontSize(cs), 0)
}

// Margins returns the four margins of a style, ordered by PosDir.
// Margins may be auto.
func Margins(cs *style.CalculatedStyle) [4]DimenT {
	var m [4]DimenT
	for dir := Top; dir <= Left; dir++ {
		m[dir] = Dimen(cs, "margin-"+dir.String())
	}
	return m
}

// Padding returns the four paddings of a style in points, ordered by PosDir.
// Percentages refer to the width of the containing block.
func Padding(cs *style.CalculatedStyle, cbWidth float64) [4]float64 {
	var p [4]float64
	for dir := Top; dir <= Left; dir++ {
		p[dir] = max(0, Length(cs, "padding-"+dir.String(), cbWidth))
	}
	return p
}

// BorderWidths returns the four border widths of a style in points, ordered by
// PosDir. Borders with style none or hidden have a width of zero.
func BorderWidths(cs *style.CalculatedStyle) [4]float64 {
	var b [4]float64
	for dir := Top; dir <= Left; dir++ {
		s := cs.Get("border-" + dir.String() + "-style")
		if s == "none" || s == "hidden" || s.IsEmpty() {
			continue
		}
		b[dir] = max(0, Length(cs, "border-"+dir.String()+"-width", 0))
	}
	return b
}

// BorderSpacing returns horizontal and vertical border spacing in points.
func BorderSpacing(cs *style.CalculatedStyle) (h, v float64) {
	fields := strings.Fields(string(cs.Get("border-spacing")))
	fs := FontSize(cs)
	if len(fields) == 0 {
		return 0, 0
	}
	hd, err := ParseDimen(style.Property(fields[0]))
	if err != nil {
		tracer().Infof("border-spacing: %v", err)
		return 0, 0
	}
	h = max(0, hd.ResolveOr(0, fs, 0))
	v = h
	if len(fields) > 1 {
		if vd, err := ParseDimen(style.Property(fields[1])); err == nil {
			v = max(0, vd.ResolveOr(0, fs, 0))
		}
	}
	return h, v
}

// ColorOf returns a color property. currentcolor resolves to property color.
func ColorOf(cs *style.CalculatedStyle, key string) color.Color {
	c, err := cs.Get(key).Color()
	if err != nil {
		tracer().Infof("property %s: %v", key, err)
	}
	if c == nil && key != "color" {
		return ColorOf(cs, "color")
	}
	if c == nil {
		return color.Black
	}
	return c
}

// IsFixedTableLayout is true for table-layout: fixed.
func IsFixedTableLayout(cs *style.CalculatedStyle) bool {
	return cs.Get("table-layout") == "fixed"
}

// --- Fonts and lines -------------------------------------------------------

var fontSizeKeywords = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    13.5,
	"x-large":  18,
	"xx-large": 24,
}

const defaultFontSize = 12.0

// FontSize returns the computed font size of a style in points.
// Relative sizes refer to the font size of the parent.
func FontSize(cs *style.CalculatedStyle) float64 {
	// collect the chain of styles setting font-size locally
	var chain []style.Property
	for it := cs; it != nil; it = it.Parent() {
		if p, ok := it.Local("font-size"); ok {
			if p.IsInherit() {
				continue
			}
			chain = append(chain, p)
			if p.IsInitial() {
				break
			}
		}
	}
	size := defaultFontSize
	for i := len(chain) - 1; i >= 0; i-- {
		size = resolveFontSize(chain[i], size)
	}
	return size
}

func resolveFontSize(p style.Property, parent float64) float64 {
	s := strings.ToLower(string(p))
	if s == "initial" {
		return defaultFontSize
	}
	if kw, ok := fontSizeKeywords[s]; ok {
		return kw
	}
	switch s {
	case "smaller":
		return parent / 1.2
	case "larger":
		return parent * 1.2
	}
	d, err := ParseDimen(p)
	if err != nil {
		tracer().Infof("font-size: %v", err)
		return parent
	}
	return max(0, d.ResolveOr(parent, parent, parent))
}

// LineHeight returns the computed line height of a style in points.
// `normal` is 1.2 times the font size.
func LineHeight(cs *style.CalculatedStyle) float64 {
	fs := FontSize(cs)
	definer := cs
	var p style.Property
	for it := cs; it != nil; it = it.Parent() {
		if lp, ok := it.Local("line-height"); ok && !lp.IsInherit() {
			definer, p = it, lp
			break
		}
	}
	s := strings.ToLower(string(p))
	if s == "" || s == "normal" || s == "initial" {
		return 1.2 * fs
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return max(0, f*fs) // unitless factors inherit as factors
	}
	d, err := ParseDimen(p)
	if err != nil {
		tracer().Infof("line-height: %v", err)
		return 1.2 * fs
	}
	dfs := FontSize(definer)
	return max(0, d.ResolveOr(dfs, dfs, 1.2*fs))
}

// WhiteSpaceT is an enum type for CSS property white-space.
type WhiteSpaceT uint8

// Values for CSS property white-space.
const (
	WhiteSpaceNormal WhiteSpaceT = iota
	WhiteSpaceNowrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// WhiteSpace returns the white-space mode of a style.
func WhiteSpace(cs *style.CalculatedStyle) WhiteSpaceT {
	switch cs.Get("white-space") {
	case "nowrap":
		return WhiteSpaceNowrap
	case "pre":
		return WhiteSpacePre
	case "pre-wrap", "break-spaces":
		return WhiteSpacePreWrap
	case "pre-line":
		return WhiteSpacePreLine
	}
	return WhiteSpaceNormal
}

// CollapsesSpaces is true if sequences of white space collapse.
func (ws WhiteSpaceT) CollapsesSpaces() bool {
	return ws == WhiteSpaceNormal || ws == WhiteSpaceNowrap || ws == WhiteSpacePreLine
}

// PreservesNewlines is true if newline characters force line breaks.
func (ws WhiteSpaceT) PreservesNewlines() bool {
	return ws == WhiteSpacePre || ws == WhiteSpacePreWrap || ws == WhiteSpacePreLine
}

// Wraps is true if lines may be broken at soft wrap opportunities.
func (ws WhiteSpaceT) Wraps() bool {
	return ws != WhiteSpaceNowrap && ws != WhiteSpacePre
}

// TextAlignT is an enum type for CSS property text-align.
type TextAlignT uint8

// Values for CSS property text-align.
const (
	AlignLeft TextAlignT = iota
	AlignRight
	AlignCenter
	AlignJustify
)

// TextAlign returns the text alignment of a style.
func TextAlign(cs *style.CalculatedStyle) TextAlignT {
	rtl := cs.Get("direction") == "rtl"
	switch cs.Get("text-align") {
	case "right":
		return AlignRight
	case "center":
		return AlignCenter
	case "justify":
		return AlignJustify
	case "end":
		if !rtl {
			return AlignRight
		}
	case "start":
		if rtl {
			return AlignRight
		}
	}
	return AlignLeft
}
