package metrics

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec selects a font variant in a given size.
type FontSpec struct {
	Size      float64 // in points
	Bold      bool
	Italic    bool
	Monospace bool
}

func (f FontSpec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.1fpt", f.Size)
	if f.Bold {
		b.WriteString(" bold")
	}
	if f.Italic {
		b.WriteString(" italic")
	}
	if f.Monospace {
		b.WriteString(" mono")
	}
	return b.String()
}

// SpecOf extracts the font selection of a calculated style.
func SpecOf(cs *style.CalculatedStyle) FontSpec {
	spec := FontSpec{Size: css.FontSize(cs)}
	switch cs.Get("font-weight") {
	case "bold", "bolder", "600", "700", "800", "900":
		spec.Bold = true
	}
	switch cs.Get("font-style") {
	case "italic", "oblique":
		spec.Italic = true
	}
	family := strings.ToLower(string(cs.Get("font-family")))
	spec.Monospace = strings.Contains(family, "monospace") || strings.Contains(family, "courier")
	return spec
}

// Provider measures text.
type Provider interface {
	// Advance returns the width of a text run in points.
	Advance(text string, f FontSpec) float64
	// Extent returns ascent and descent of a font in points, both positive.
	Extent(f FontSpec) (ascent, descent float64)
}

// --- Monospace -------------------------------------------------------------

// Monospace is a provider where every rune has an advance of Factor em.
// A zero Factor means 0.5.
type Monospace struct {
	Factor float64
}

// Advance is part of interface Provider.
func (m Monospace) Advance(text string, f FontSpec) float64 {
	return float64(utf8.RuneCountInString(text)) * m.factor() * f.Size
}

// Extent is part of interface Provider.
func (m Monospace) Extent(f FontSpec) (float64, float64) {
	return 0.8 * f.Size, 0.2 * f.Size
}

func (m Monospace) factor() float64 {
	if m.Factor <= 0 {
		return 0.5
	}
	return m.Factor
}

// --- Basic -----------------------------------------------------------------

// Basic measures text with the 7x13 bitmap face of package basicfont, scaled
// to the requested font size. Bold text is widened by one pixel per glyph,
// as synthetic bold rendering would do.
type Basic struct{}

var basicFace = basicfont.Face7x13

// Advance is part of interface Provider.
func (Basic) Advance(text string, f FontSpec) float64 {
	w := font.MeasureString(basicFace, text)
	px := fix2float(w)
	if f.Bold {
		px += float64(utf8.RuneCountInString(text))
	}
	return px * f.Size / float64(basicFace.Height)
}

// Extent is part of interface Provider.
func (Basic) Extent(f FontSpec) (float64, float64) {
	scale := f.Size / float64(basicFace.Height)
	return float64(basicFace.Ascent) * scale, float64(basicFace.Descent) * scale
}

func fix2float(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// --- TrueType --------------------------------------------------------------

// TrueType measures text with font files. Faces are loaded on demand and
// cached per variant and size. If a font file cannot be loaded, measuring
// falls back to a Basic provider.
type TrueType struct {
	paths    map[variant]string
	mu       sync.Mutex // font.Face implementations are not safe for concurrent use
	faces    map[faceKey]font.Face
	failed   map[string]bool
	fallback Basic
}

type variant uint8

const (
	regular variant = iota
	bold
	italic
	boldItalic
	mono
)

type faceKey struct {
	path string
	size float64
}

// FontFiles lists font files for the variants of a font family.
// Only Regular is required.
type FontFiles struct {
	Regular, Bold, Italic, BoldItalic, Monospace string
}

// NewTrueType creates a provider for a set of font files.
func NewTrueType(files FontFiles) *TrueType {
	tt := &TrueType{
		paths:  make(map[variant]string),
		faces:  make(map[faceKey]font.Face),
		failed: make(map[string]bool),
	}
	for v, p := range map[variant]string{
		regular: files.Regular, bold: files.Bold, italic: files.Italic,
		boldItalic: files.BoldItalic, mono: files.Monospace,
	} {
		if p != "" {
			tt.paths[v] = p
		}
	}
	return tt
}

func (tt *TrueType) pathFor(f FontSpec) string {
	candidates := []variant{regular}
	switch {
	case f.Monospace:
		candidates = []variant{mono, regular}
	case f.Bold && f.Italic:
		candidates = []variant{boldItalic, bold, italic, regular}
	case f.Bold:
		candidates = []variant{bold, regular}
	case f.Italic:
		candidates = []variant{italic, regular}
	}
	for _, v := range candidates {
		if p, ok := tt.paths[v]; ok {
			return p
		}
	}
	return ""
}

// face returns a cached face. tt.mu must be held.
func (tt *TrueType) face(f FontSpec) font.Face {
	path := tt.pathFor(f)
	if path == "" || tt.failed[path] {
		return nil
	}
	key := faceKey{path, f.Size}
	if face, ok := tt.faces[key]; ok {
		return face
	}
	face, err := gg.LoadFontFace(path, f.Size)
	if err != nil {
		tracer().Infof("cannot load font %s: %v", path, err)
		tt.failed[path] = true
		return nil
	}
	tt.faces[key] = face
	return face
}

// Advance is part of interface Provider.
func (tt *TrueType) Advance(text string, f FontSpec) float64 {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	face := tt.face(f)
	if face == nil {
		return tt.fallback.Advance(text, f)
	}
	return fix2float(font.MeasureString(face, text))
}

// Extent is part of interface Provider.
func (tt *TrueType) Extent(f FontSpec) (float64, float64) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	face := tt.face(f)
	if face == nil {
		return tt.fallback.Extent(f)
	}
	m := face.Metrics()
	return fix2float(m.Ascent), fix2float(m.Descent)
}
