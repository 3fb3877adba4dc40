package replaced

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/uri"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func element(tag string, attrs ...string) *boxtree.Box {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return &boxtree.Box{Kind: boxtree.ReplacedBox, Node: n}
}

type fixedDrawer struct{ w float64 }

func (d fixedDrawer) IntrinsicSize(*boxtree.Box) (float64, float64, bool) { return d.w, d.w, true }

func (d fixedDrawer) Draw(_ *boxtree.Box, w, h float64) (Content, error) {
	return Content{Width: w, Height: h}, nil
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.replaced")
	defer teardown()
	//
	reg := NewRegistry()
	reg.Register("a", fixedDrawer{1})
	reg.Register("a", fixedDrawer{2}) // last registration wins
	w, _, ok := reg.IntrinsicSize(element("object"), "a")
	assert.True(t, ok)
	assert.Equal(t, 2.0, w)
	_, ok = reg.Lookup("A")
	assert.False(t, ok, "keys are case-sensitive")
	//
	c := reg.Render(element("object"), "unknown/type", 10, 20)
	assert.True(t, c.Placeholder)
	assert.Equal(t, "unknown/type", c.Key)
	assert.Equal(t, 10.0, c.Width)
	c = reg.Render(element("object"), "a", 10, 20)
	assert.False(t, c.Placeholder)
	assert.Equal(t, "a", c.Key)
	//
	reg.Freeze()
	reg.Register("b", fixedDrawer{3})
	_, ok = reg.Lookup("b")
	assert.False(t, ok, "registration after freeze is a no-op")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := reg.Lookup("a")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestDefaultReplacer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.replaced")
	defer teardown()
	//
	cs := style.NewCalculatedStyle(nil, nil, nil)
	for _, tc := range []struct {
		box *boxtree.Box
		key string
		ok  bool
	}{
		{element("img", "src", "x.png"), ImageKey, true},
		{element("object", "type", "image/png"), ImageKey, true},
		{element("object", "type", PieChartKey), PieChartKey, true},
		{element("embed", "type", "application/pdf"), "application/pdf", true},
		{element("object"), "", false},
		{element("div"), "", false},
	} {
		r, ok := DefaultReplacer.Replace(tc.box.Node, cs)
		assert.Equal(t, tc.ok, ok, tc.box.Node.Data)
		assert.Equal(t, tc.key, r.ContentType)
	}
	pmap := style.NewPropertyMap()
	pmap.Set("position", "absolute")
	r, ok := DefaultReplacer.Replace(element("img").Node, style.NewCalculatedStyle(nil, nil, pmap))
	assert.True(t, ok)
	assert.True(t, r.OutOfFlow)
}

func pngDataURI(t *testing.T, w, h int) string {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestImageDrawer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.replaced")
	defer teardown()
	//
	d := NewImageDrawer(uri.NewResolver(), "")
	src := pngDataURI(t, 8, 4)
	w, h, ok := d.IntrinsicSize(element("img", "src", src))
	require.True(t, ok)
	assert.InDelta(t, 6.0, w, 1e-9) // 8px at 96 dpi
	assert.InDelta(t, 3.0, h, 1e-9)
	w, h, ok = d.IntrinsicSize(element("img", "src", src, "width", "16"))
	require.True(t, ok)
	assert.InDelta(t, 12.0, w, 1e-9)
	assert.InDelta(t, 6.0, h, 1e-9, "aspect ratio is kept")
	//
	reg := NewRegistry()
	reg.Register(ImageKey, d)
	c := reg.Render(element("img", "src", src), ImageKey, 6, 3)
	assert.False(t, c.Placeholder)
	require.NotNil(t, c.Image)
	assert.Equal(t, 8, c.Image.Bounds().Dx())
	c = reg.Render(element("img", "src", "missing.png"), ImageKey, 6, 3)
	assert.True(t, c.Placeholder, "broken images become placeholders")
}

func TestPieChart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.replaced")
	defer teardown()
	//
	var pie PieChartDrawer
	c, err := pie.Draw(element("object", "type", PieChartKey, "data-values", "3, 5,2"), 50, 40)
	require.NoError(t, err)
	require.NotNil(t, c.Image)
	assert.Equal(t, image.Rect(0, 0, 100, 80), c.Image.Bounds())
	_, a, _, _ := c.Image.At(50, 40).RGBA()
	assert.NotZero(t, a, "center of the pie is painted")
	_, err = pie.Draw(element("object", "data-values", "1,x"), 50, 40)
	assert.Error(t, err)
	_, err = pie.Draw(element("object"), 50, 40)
	assert.Error(t, err)
}
