package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	dimenUnbound  uint32 = 0x0005 // "none", e.g. for max-width
	kindMask      uint32 = 0x000f

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenREM     uint32 = 0x0400
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d     dimen.DU
	ratio float64 // percentage or font-relative factor
	flags uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| Unbound
	| JustDimen dimen
	| Percentage Percent
	| FontRel unit
*/

// Auto creates a CSS dimension with value `auto`.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit creates a CSS dimension with value `inherit`.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial creates a CSS dimension with value `initial`.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// Unbound creates a CSS dimension with value `none`.
func Unbound() DimenT {
	return DimenT{flags: dimenUnbound}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Points creates a CSS dimension with a fixed value of x points.
func Points(x float64) DimenT {
	return JustDimen(dimen.DU(math.Round(x * float64(dimen.PT))))
}

// Percentage creates a CSS dimension with a %-relative value.
// n is given in percent, i.e. Percentage(50) is half of the reference length.
func Percentage(n float64) DimenT {
	return DimenT{ratio: n / 100, flags: dimenPercent}
}

// FontRelative creates a CSS dimension relative to the font size (em units).
func FontRelative(n float64) DimenT {
	return DimenT{ratio: n, flags: dimenEM}
}

// IsAuto is true for dimension `auto`.
func (d DimenT) IsAuto() bool {
	return d.flags == dimenAuto
}

// IsNone is true for an unset dimension.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

// IsUnbound is true for dimension value `none`.
func (d DimenT) IsUnbound() bool {
	return d.flags == dimenUnbound
}

// IsAbsolute is true for a fixed dimension.
func (d DimenT) IsAbsolute() bool {
	return d.flags == dimenAbsolute
}

// IsPercent is true for a %-relative dimension.
func (d DimenT) IsPercent() bool {
	return d.flags == dimenPercent
}

// IsFontRelative is true for em/ex/rem dimensions.
func (d DimenT) IsFontRelative() bool {
	return d.flags&relativeMask > 0 && d.flags != dimenPercent
}

// Unwrap returns the fixed dimension. Non-absolute dimensions return 0.
func (d DimenT) Unwrap() dimen.DU {
	var du dimen.DU
	if DimenPattern[bool](d).With(&du).OneOf(DimenPatterns[bool]{Just: true}) {
		return du
	}
	return 0
}

// Resolve returns a length in points. Percentages refer to ref, font-relative
// dimensions to fontSize. ok is false for auto, none and unset dimensions.
func (d DimenT) Resolve(ref, fontSize float64) (pt float64, ok bool) {
	switch {
	case d.flags == dimenAbsolute:
		return DUToPoints(d.d), true
	case d.flags == dimenPercent:
		return d.ratio * ref, true
	case d.flags == dimenEM, d.flags == dimenREM:
		return d.ratio * fontSize, true
	case d.flags == dimenEX:
		return d.ratio * fontSize / 2, true
	}
	return 0, false
}

// ResolveOr is like Resolve, but returns a fallback value if d cannot be
// resolved.
func (d DimenT) ResolveOr(ref, fontSize, fallback float64) float64 {
	if pt, ok := d.Resolve(ref, fontSize); ok {
		return pt
	}
	return fallback
}

func (d DimenT) String() string {
	switch {
	case d.flags == dimenNone:
		return "<unset>"
	case d.flags == dimenAuto:
		return "auto"
	case d.flags == dimenInherit:
		return "inherit"
	case d.flags == dimenInitial:
		return "initial"
	case d.flags == dimenUnbound:
		return "none"
	case d.flags == dimenPercent:
		return strconv.FormatFloat(d.ratio*100, 'f', -1, 64) + "%"
	case d.flags == dimenEM:
		return strconv.FormatFloat(d.ratio, 'f', -1, 64) + "em"
	case d.flags == dimenEX:
		return strconv.FormatFloat(d.ratio, 'f', -1, 64) + "ex"
	case d.flags == dimenREM:
		return strconv.FormatFloat(d.ratio, 'f', -1, 64) + "rem"
	}
	return strconv.FormatFloat(DUToPoints(d.d), 'f', -1, 64) + "pt"
}

// DUToPoints converts design units to points.
func DUToPoints(du dimen.DU) float64 {
	return float64(du) / float64(dimen.PT)
}

// Unit conversion factors to points.
var unitPoints = map[string]float64{
	"pt": 1,
	"px": 0.75,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
	"pc": 12,
	"q":  72 / 101.6,
}

// ParseDimen parses a property value into a dimension.
// Unitless numbers other than zero are rejected. An empty value results in an
// unset dimension.
func ParseDimen(p style.Property) (DimenT, error) {
	s := strings.TrimSpace(strings.ToLower(string(p)))
	switch s {
	case "":
		return DimenT{}, nil
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "none":
		return Unbound(), nil
	case "0", "+0", "-0":
		return JustDimen(0), nil
	case "thin":
		return Points(0.75), nil
	case "medium":
		return Points(2.25), nil
	case "thick":
		return Points(3.75), nil
	}
	num, unit := splitNumber(s)
	if num == "" {
		return DimenT{}, fmt.Errorf("not a dimension: %q", string(p))
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return DimenT{}, fmt.Errorf("not a dimension: %q", string(p))
	}
	switch unit {
	case "%":
		return Percentage(x), nil
	case "em":
		return FontRelative(x), nil
	case "rem":
		return DimenT{ratio: x, flags: dimenREM}, nil
	case "ex", "ch":
		return DimenT{ratio: x, flags: dimenEX}, nil
	case "":
		if x == 0 {
			return JustDimen(0), nil
		}
		return DimenT{}, fmt.Errorf("dimension without unit: %q", string(p))
	}
	if f, ok := unitPoints[unit]; ok {
		return Points(x * f), nil
	}
	return DimenT{}, fmt.Errorf("unknown unit in dimension %q", string(p))
}

// splitNumber splits a numeric prefix from a unit suffix.
func splitNumber(s string) (num, unit string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && i == 0) {
			i++
			continue
		}
		break
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// ---------------------------------------------------------------------------

// Match starts a pattern match on a dimension.
func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

// Matcher is an helper type for matching dimensions in switch statements:
//
//	switch m := d.Match(); m {
//	case m.Just(&du):
//	    …
//	case m.IsKind(css.Auto()):
//	    …
//	}
type Matcher struct {
	dimen DimenT
}

// IsKind matches if the dimension is of the same kind as d.
func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case m.dimen.flags&relativeMask > 0 || d.flags&relativeMask > 0:
		if m.dimen.flags == d.flags {
			return m
		}
		return nil
	case (m.dimen.flags & kindMask) == (d.flags & kindMask):
		return m
	}
	return nil
}

// Just matches a fixed dimension and extracts its value.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches a %-relative dimension and extracts its value in percent.
func (m *Matcher) Percentage(p *float64) *Matcher {
	if m.dimen.flags == dimenPercent {
		if p != nil {
			*p = m.dimen.ratio * 100
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

// DimenPatterns holds results for the different kinds of dimensions.
type DimenPatterns[T any] struct {
	Auto    T
	Inherit T
	Initial T
	Just    T
	Percent T
	Default T
}

// DimenPattern starts an expression match on a dimension.
func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

// MatchExpr is part of pattern matching for DimenT types and intended to be
// instantiated using `DimenPattern()` only.
type MatchExpr[T any] struct {
	dimen DimenT
}

// OneOf selects a result matching the kind of the dimension.
func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch m.dimen.flags {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	case dimenPercent:
		return patterns.Percent
	}
	return patterns.Default
}

// With extracts the fixed value of the dimension.
func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}
