package replaced

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/npillmayer/pagebox/boxtree"
)

// PieChartKey is the content-type key for pie charts.
const PieChartKey = "chart/pie"

// PieChartDrawer draws pie charts for elements like
//
//	<object type="chart/pie" data-values="3,5,2"></object>
//
// Charts are rasterized at Scale pixels per point (default 2).
type PieChartDrawer struct {
	Scale float64
}

var piePalette = [][3]float64{
	{0.26, 0.52, 0.96}, {0.92, 0.26, 0.21}, {0.98, 0.74, 0.02},
	{0.20, 0.66, 0.33}, {0.61, 0.15, 0.69}, {0.00, 0.67, 0.76},
}

// IntrinsicSize is part of interface Drawer. Pie charts are 144 points
// square by default.
func (PieChartDrawer) IntrinsicSize(box *boxtree.Box) (float64, float64, bool) {
	return 144, 144, true
}

// Draw is part of interface Drawer.
func (pc PieChartDrawer) Draw(box *boxtree.Box, w, h float64) (Content, error) {
	values, err := pieValues(box)
	if err != nil {
		return Content{}, err
	}
	scale := pc.Scale
	if scale <= 0 {
		scale = 2
	}
	pw, ph := int(math.Ceil(w*scale)), int(math.Ceil(h*scale))
	if pw <= 0 || ph <= 0 {
		return Content{Width: max(0, w), Height: max(0, h)}, nil
	}
	dc := gg.NewContext(pw, ph)
	cx, cy := float64(pw)/2, float64(ph)/2
	r := math.Min(cx, cy) * 0.95
	var total float64
	for _, v := range values {
		total += v
	}
	angle := -math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := v / total * 2 * math.Pi
		c := piePalette[i%len(piePalette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, r, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		angle += sweep
	}
	return Content{Width: w, Height: h, Image: dc.Image()}, nil
}

func pieValues(box *boxtree.Box) ([]float64, error) {
	attr, ok := box.Attr("data-values")
	if !ok {
		return nil, fmt.Errorf("pie chart without data-values")
	}
	var values []float64
	var total float64
	for _, f := range strings.FieldsFunc(attr, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("illegal pie chart value %q", f)
		}
		values = append(values, v)
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("pie chart without positive values")
	}
	return values, nil
}
