package metrics

import (
	"sync"
	"testing"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestMonospace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.metrics")
	defer teardown()
	//
	m := Monospace{}
	f := FontSpec{Size: 10}
	assert.Equal(t, 25.0, m.Advance("Hello", f))
	assert.Equal(t, 5.0, m.Advance("Ünï", FontSpec{Size: 10, Bold: true})-10)
	a, d := m.Extent(f)
	assert.InDelta(t, 10.0, a+d, 1e-9)
}

func TestBasicScales(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.metrics")
	defer teardown()
	//
	var b Basic
	small := b.Advance("abc", FontSpec{Size: 13})
	assert.InDelta(t, 21.0, small, 1e-9) // 3 glyphs of 7px at 13px
	large := b.Advance("abc", FontSpec{Size: 26})
	assert.InDelta(t, 2*small, large, 1e-9)
	assert.Greater(t, b.Advance("abc", FontSpec{Size: 13, Bold: true}), small)
	a, d := b.Extent(FontSpec{Size: 13})
	assert.Equal(t, 11.0, a)
	assert.Equal(t, 2.0, d)
}

func TestTrueTypeFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.metrics")
	defer teardown()
	//
	tt := NewTrueType(FontFiles{Regular: "/does/not/exist.ttf"})
	f := FontSpec{Size: 12}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, Basic{}.Advance("text", f), tt.Advance("text", f))
		}()
	}
	wg.Wait()
}

func TestSpecOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.metrics")
	defer teardown()
	//
	pmap := style.NewPropertyMap()
	pmap.Set("font-size", "20pt")
	pmap.Set("font-weight", "bold")
	pmap.Set("font-family", "Courier, monospace")
	parent := style.NewCalculatedStyle(nil, nil, pmap)
	child := style.NewCalculatedStyle(nil, parent, nil)
	spec := SpecOf(child)
	assert.Equal(t, 20.0, spec.Size)
	assert.True(t, spec.Bold)
	assert.True(t, spec.Monospace)
	assert.False(t, spec.Italic)
}
