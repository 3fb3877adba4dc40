package layout

import (
	"math"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/css"
)

// floatContext tracks the floats of a block formatting context.
type floatContext struct {
	x0, x1 float64        // content edges of the formatting context root
	left   []boxtree.Rect // margin boxes of left floats
	right  []boxtree.Rect // margin boxes of right floats
}

func newFloatContext(x0, x1 float64) *floatContext {
	return &floatContext{x0: x0, x1: x1}
}

func overlaps(r boxtree.Rect, y, h float64) bool {
	if h <= 0 {
		return r.Y <= y && y < r.Bottom()
	}
	return r.Y < y+h && y < r.Bottom()
}

// available returns the horizontal band free of floats between y and y+h,
// limited to [x0, x1].
func (fc *floatContext) available(y, h, x0, x1 float64) (float64, float64) {
	for _, r := range fc.left {
		if overlaps(r, y, h) {
			x0 = math.Max(x0, r.Right())
		}
	}
	for _, r := range fc.right {
		if overlaps(r, y, h) {
			x1 = math.Min(x1, r.X)
		}
	}
	return x0, math.Max(x0, x1)
}

// intrudes is true if a float overlaps the band between y and y+h.
func (fc *floatContext) intrudes(y, h float64) bool {
	for _, rs := range [][]boxtree.Rect{fc.left, fc.right} {
		for _, r := range rs {
			if overlaps(r, y, h) {
				return true
			}
		}
	}
	return false
}

// nextBottom returns the smallest bottom edge of floats overlapping y, or
// y if there are none.
func (fc *floatContext) nextBottom(y, h float64) float64 {
	next := math.Inf(1)
	for _, rs := range [][]boxtree.Rect{fc.left, fc.right} {
		for _, r := range rs {
			if overlaps(r, y, h) && r.Bottom() > y {
				next = math.Min(next, r.Bottom())
			}
		}
	}
	if math.IsInf(next, 1) {
		return y
	}
	return next
}

// place finds a position for a float's margin box of size w × h at or below
// y. Floats are placed at the outermost free position, below earlier floats
// if too wide to fit beside them.
func (fc *floatContext) place(side css.FloatT, w, h, y float64) boxtree.Rect {
	// a float is never placed above an earlier float
	for _, rs := range [][]boxtree.Rect{fc.left, fc.right} {
		for _, r := range rs {
			y = math.Max(y, r.Y)
		}
	}
	for {
		x0, x1 := fc.available(y, h, fc.x0, fc.x1)
		if x1-x0 >= w || !fc.intrudes(y, h) {
			r := boxtree.Rect{X: x0, Y: y, W: w, H: h}
			if side == css.FloatRight {
				r.X = x1 - w
				fc.right = append(fc.right, r)
			} else {
				fc.left = append(fc.left, r)
			}
			return r
		}
		y = fc.nextBottom(y, h)
	}
}

// clearY returns the position below all floats cleared by c.
func (fc *floatContext) clearY(c css.ClearT) float64 {
	y := math.Inf(-1)
	if c.Clears(css.FloatLeft) {
		for _, r := range fc.left {
			y = math.Max(y, r.Bottom())
		}
	}
	if c.Clears(css.FloatRight) {
		for _, r := range fc.right {
			y = math.Max(y, r.Bottom())
		}
	}
	return y
}

// bottom returns the lowest bottom edge of all floats.
func (fc *floatContext) bottom() float64 {
	return fc.clearY(css.ClearBoth)
}
