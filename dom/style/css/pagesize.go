package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
)

// Named page sizes in points, portrait orientation.
var namedPageSizes = map[string][2]float64{
	"a3":     {841.89, 1190.55},
	"a4":     {595.28, 841.89},
	"a5":     {419.53, 595.28},
	"b4":     {708.66, 1000.63},
	"b5":     {498.90, 708.66},
	"letter": {612, 792},
	"legal":  {612, 1008},
	"ledger": {792, 1224},
}

// ParsePageSize interprets a value of the @page `size` property, e.g.
// "A4", "letter landscape" or "210mm 297mm". Width and height are returned in
// points. Value "auto" yields A4.
func ParsePageSize(p style.Property) (w, h float64, err error) {
	fields := strings.Fields(strings.ToLower(string(p)))
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("empty page size")
	}
	var landscape, named bool
	var lengths []float64
	for _, f := range fields {
		switch f {
		case "auto":
			w, h, named = namedPageSizes["a4"][0], namedPageSizes["a4"][1], true
		case "portrait":
		case "landscape":
			landscape = true
		default:
			if sz, ok := namedPageSizes[f]; ok {
				w, h, named = sz[0], sz[1], true
				continue
			}
			d, err := ParseDimen(style.Property(f))
			if err != nil || !d.IsAbsolute() {
				return 0, 0, fmt.Errorf("illegal page size %q", string(p))
			}
			lengths = append(lengths, DUToPoints(d.Unwrap()))
		}
	}
	switch {
	case named && len(lengths) > 0:
		return 0, 0, fmt.Errorf("illegal page size %q", string(p))
	case len(lengths) == 1:
		w, h = lengths[0], lengths[0]
	case len(lengths) == 2:
		w, h = lengths[0], lengths[1]
	case len(lengths) > 2:
		return 0, 0, fmt.Errorf("illegal page size %q", string(p))
	case !named:
		return 0, 0, fmt.Errorf("illegal page size %q", string(p))
	}
	if landscape && w < h || !landscape && named && w > h {
		w, h = h, w
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("illegal page size %q", string(p))
	}
	return w, h, nil
}
