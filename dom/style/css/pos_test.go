package css_test

import (
	"testing"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPositionPattern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.css")
	defer teardown()
	//
	o := []css.PositionOffset{
		{Dim: css.Points(10), Dir: css.Bottom},
	}
	f := css.Fixed(o)
	m := css.PositionPattern[int](f)
	out := m.OneOf(css.PositionPatterns[int]{
		Unset:   10,
		Fixed:   99,
		Default: -1,
	})
	if out != 99 {
		t.Errorf("expected out to be 99, isn't: %#v", out)
	}
	var off []css.PositionOffset
	fixed := css.PositionPattern[bool](f).With(&off).OneOf(css.PositionPatterns[bool]{
		Fixed: true,
	})
	if !fixed {
		t.Errorf("expected fixed position to match")
	}
	if len(off) != 4 {
		t.Fatalf("expected 4 offsets, aren't: %#v", off)
	}
	if !off[css.Top].Dim.IsAuto() || off[css.Bottom].Dim.String() != "10pt" {
		t.Errorf("expected offsets (auto,_,10pt,_), have %v", off)
	}
	rel := css.PositionPattern[string](css.Relative(nil)).OneOf(css.PositionPatterns[string]{
		Static:  "static",
		Default: "other",
	})
	if rel != "" {
		t.Errorf("expected zero value for unmatched relative position, have %q", rel)
	}
}

func TestPositionFromProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.css")
	defer teardown()
	//
	for _, tc := range []struct {
		value     style.Property
		outOfFlow bool
		static    bool
	}{
		{"absolute", true, false},
		{"FIXED", true, false},
		{"relative", false, false},
		{"static", false, true},
		{"bogus", false, true},
	} {
		pos := css.Position(tc.value)
		if pos.IsOutOfFlow() != tc.outOfFlow {
			t.Errorf("position %q: expected out-of-flow=%v", tc.value, tc.outOfFlow)
		}
		if pos.IsStatic() != tc.static {
			t.Errorf("position %q: expected static=%v", tc.value, tc.static)
		}
	}
	var off []css.PositionOffset
	css.PositionPattern[bool](css.Position("absolute")).With(&off)
	if len(off) != 4 {
		t.Errorf("expected absolute position to carry 4 offsets")
	}
}

func TestFloatAndClear(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.css")
	defer teardown()
	//
	if css.Float("left") != css.FloatLeft || css.Float("right") != css.FloatRight {
		t.Errorf("float values not recognized")
	}
	if css.Float("center") != css.FloatNone {
		t.Errorf("expected illegal float to be none")
	}
	both := css.Clear("both")
	if !both.Clears(css.FloatLeft) || !both.Clears(css.FloatRight) {
		t.Errorf("expected clear:both to clear both sides")
	}
	if css.Clear("left").Clears(css.FloatRight) {
		t.Errorf("expected clear:left not to clear right floats")
	}
}

func TestPageBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.css")
	defer teardown()
	//
	if !css.PageBreak("always").IsForced() || !css.PageBreak("page").IsForced() {
		t.Errorf("expected always/page to be forced breaks")
	}
	if !css.PageBreak("avoid").IsAvoid() || css.PageBreak("auto").IsAvoid() {
		t.Errorf("avoid not recognized")
	}
}
