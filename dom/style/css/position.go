package css

import (
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
)

// position is an enum type for the CSS position property.
type position uint16

// Enum values for type Position
const (
	positionUnset    position = iota
	positionStatic            // CSS static (default)
	positionRelative          // CSS relative
	positionAbsolute          // CSS absolute
	positionFixed             // CSS fixed
)

// PositionT is an option type for CSS positions.
type PositionT struct {
	offsets []PositionOffset
	kind    position
}

// PositionOffset is one of the offset properties top, right, bottom and left.
type PositionOffset struct {
	Dim DimenT
	Dir PosDir
}

// PosDir is either Top, Right, Bottom or Left.
type PosDir uint8

// Directions, clockwise. They double as indices into edge arrays.
const (
	Top PosDir = iota
	Right
	Bottom
	Left
)

func (dir PosDir) String() string {
	switch dir {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return "?"
}

// NormalizeOffsets normalizes offset properties (Top, Right, Bottom, Left) into
// a 4-way slice, ordered by PosDir. Invalid PosDir-s are silently dropped.
// Missing offsets are auto.
func NormalizeOffsets(offsets []PositionOffset) []PositionOffset {
	norm := make([]PositionOffset, 4)
	for i := Top; i <= Left; i++ {
		norm[i] = PositionOffset{Dim: Auto(), Dir: i}
	}
	for _, o := range offsets {
		if o.Dir <= Left {
			norm[int(o.Dir)] = o
		}
	}
	return norm
}

/*
type PositionT
	= Undefined
	| Static
	| Relative top right bottom left
	| Absolute top right bottom left
	| Fixed top right bottom left
*/

// Static creates a CSS position of value `static`.
func Static() PositionT {
	return PositionT{kind: positionStatic}
}

// Relative creates a CSS position of value `relative`, given optional offsets.
// offsets may be provided partially or none at all.
func Relative(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionRelative, offsets: NormalizeOffsets(offsets)}
}

// Absolute creates a CSS position of value `absolute`, given optional offsets.
// offsets may be provided partially or none at all.
func Absolute(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionAbsolute, offsets: NormalizeOffsets(offsets)}
}

// Fixed creates a CSS position of value `fixed`, given optional offsets.
// offsets may be provided partially or none at all.
func Fixed(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionFixed, offsets: NormalizeOffsets(offsets)}
}

// Position returns an optional position type from a property string.
// It will never return an error, even with illegal input, but instead will then
// return an unset position.
func Position(p style.Property) PositionT {
	switch strings.ToLower(string(p)) {
	case "static":
		return Static()
	case "relative", "sticky":
		return Relative(nil)
	case "absolute":
		return Absolute(nil)
	case "fixed":
		return Fixed(nil)
	}
	return PositionT{}
}

// WithOffsets returns a copy of p with offsets replaced.
func (p PositionT) WithOffsets(offsets []PositionOffset) PositionT {
	if p.kind == positionUnset || p.kind == positionStatic {
		return p
	}
	return PositionT{kind: p.kind, offsets: NormalizeOffsets(offsets)}
}

// --- Expression matching ---------------------------------------------------

// PositionPatterns holds results for the different kinds of positions.
type PositionPatterns[T any] struct {
	Unset    T
	Static   T
	Absolute T
	Relative T
	Fixed    T
	Default  T
}

// PositionPattern starts an expression match on a position.
func PositionPattern[T any](p PositionT) *PMatchExpr[T] {
	return &PMatchExpr[T]{pos: p}
}

// PMatchExpr is part of pattern matching for PositionT types and intended to be instantiated
// using `PositionPattern()` only.
type PMatchExpr[T any] struct {
	pos PositionT
}

// OneOf selects a result matching the kind of the position.
func (m *PMatchExpr[T]) OneOf(patterns PositionPatterns[T]) T {
	switch m.pos.kind {
	case positionUnset:
		return patterns.Unset
	case positionStatic:
		return patterns.Static
	case positionAbsolute:
		return patterns.Absolute
	case positionRelative:
		return patterns.Relative
	case positionFixed:
		return patterns.Fixed
	}
	return patterns.Default
}

// With extracts the offsets of the position.
func (m *PMatchExpr[T]) With(o *[]PositionOffset) *PMatchExpr[T] {
	if o != nil {
		*o = m.pos.offsets
	}
	return m
}

// ---------------------------------------------------------------------------

// IsStatic returns true if p is static or unset.
func (p PositionT) IsStatic() bool {
	return p.kind == positionStatic || p.kind == positionUnset
}

// IsOutOfFlow returns true for positions which take a box out of normal flow.
func (p PositionT) IsOutOfFlow() bool {
	return PositionPattern[bool](p).OneOf(PositionPatterns[bool]{Absolute: true, Fixed: true})
}

// --- Floats ----------------------------------------------------------------

// FloatT is an enum type for the CSS float property.
type FloatT uint8

// Values for CSS property `float`.
const (
	FloatNone FloatT = iota
	FloatLeft
	FloatRight
)

// Float interprets a property value as a float mode. Illegal values result
// in FloatNone.
func Float(p style.Property) FloatT {
	switch strings.ToLower(string(p)) {
	case "left", "inline-start":
		return FloatLeft
	case "right", "inline-end":
		return FloatRight
	}
	return FloatNone
}

func (f FloatT) String() string {
	switch f {
	case FloatLeft:
		return "left"
	case FloatRight:
		return "right"
	}
	return "none"
}

// ClearT is a set of float sides for the CSS clear property.
type ClearT uint8

// Values for CSS property `clear`.
const (
	ClearNone  ClearT = 0
	ClearLeft  ClearT = 1
	ClearRight ClearT = 2
	ClearBoth  ClearT = ClearLeft | ClearRight
)

// Clear interprets a property value as a clear mode. Illegal values result
// in ClearNone.
func Clear(p style.Property) ClearT {
	switch strings.ToLower(string(p)) {
	case "left", "inline-start":
		return ClearLeft
	case "right", "inline-end":
		return ClearRight
	case "both":
		return ClearBoth
	}
	return ClearNone
}

// Clears returns true if c clears floats of side f.
func (c ClearT) Clears(f FloatT) bool {
	switch f {
	case FloatLeft:
		return c&ClearLeft > 0
	case FloatRight:
		return c&ClearRight > 0
	}
	return false
}
