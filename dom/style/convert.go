package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"maroon":      {0x80, 0, 0, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"fuchsia":     {0xff, 0, 0xff, 0xff},
	"magenta":     {0xff, 0, 0xff, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"lime":        {0, 0xff, 0, 0xff},
	"olive":       {0x80, 0x80, 0, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"navy":        {0, 0, 0x80, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"teal":        {0, 0x80, 0x80, 0xff},
	"aqua":        {0, 0xff, 0xff, 0xff},
	"cyan":        {0, 0xff, 0xff, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"brown":       {0xa5, 0x2a, 0x2a, 0xff},
	"pink":        {0xff, 0xc0, 0xcb, 0xff},
	"gold":        {0xff, 0xd7, 0, 0xff},
	"lightgray":   {0xd3, 0xd3, 0xd3, 0xff},
	"lightgrey":   {0xd3, 0xd3, 0xd3, 0xff},
	"darkgray":    {0xa9, 0xa9, 0xa9, 0xff},
	"darkgrey":    {0xa9, 0xa9, 0xa9, 0xff},
	"powderblue":  {0xb0, 0xe0, 0xe6, 0xff},
	"transparent": {0, 0, 0, 0},
}

// Color interprets a property value as a CSS color. Supported notations are
// named colors, #rgb, #rrggbb, #rrggbbaa, rgb(…) and rgba(…).
// Value "currentcolor" and empty values return nil without an error;
// clients are expected to substitute the element's color.
func (p Property) Color() (color.Color, error) {
	s := strings.TrimSpace(strings.ToLower(string(p)))
	if s == "" || s == "currentcolor" || s == "default" {
		return nil, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(s)
	}
	return nil, fmt.Errorf("unknown color %q", string(p))
}

func parseHexColor(h string) (color.Color, error) {
	switch len(h) {
	case 3, 4:
		var exp strings.Builder
		for _, r := range h {
			exp.WriteRune(r)
			exp.WriteRune(r)
		}
		h = exp.String()
	case 6, 8:
	default:
		return nil, fmt.Errorf("malformed hex color #%s", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("malformed hex color #%s: %w", h, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func parseRGBFunc(s string) (color.Color, error) {
	lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if lp < 0 || rp < lp {
		return nil, fmt.Errorf("malformed color function %q", s)
	}
	args := strings.FieldsFunc(s[lp+1:rp], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) < 3 || len(args) > 4 {
		return nil, fmt.Errorf("malformed color function %q", s)
	}
	var comp [4]uint8
	comp[3] = 0xff
	for i, a := range args {
		var f float64
		var err error
		if strings.HasSuffix(a, "%") {
			f, err = strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
			f = f * 255 / 100
		} else if i == 3 {
			f, err = strconv.ParseFloat(a, 64)
			f *= 255
		} else {
			f, err = strconv.ParseFloat(a, 64)
		}
		if err != nil {
			return nil, fmt.Errorf("malformed color function %q: %w", s, err)
		}
		comp[i] = uint8(max(0, min(255, f+0.5)))
	}
	return color.NRGBA{R: comp[0], G: comp[1], B: comp[2], A: comp[3]}, nil
}

// ColorString returns a CSS notation for a color.
func ColorString(c color.Color) string {
	if c == nil {
		return "currentcolor"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	for _, name := range []string{"black", "white", "red", "blue", "green", "gray"} {
		if namedColors[name] == color.RGBA(n) {
			return name
		}
	}
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
