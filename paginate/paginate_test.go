package paginate

import (
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagebox/layout"
	"github.com/npillmayer/pagebox/metrics"
	"github.com/npillmayer/pagebox/replaced"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// laidOut builds and lays out a document 200pt wide. Lines are 14.4pt high.
func laidOut(t *testing.T, doc string) *boxtree.Tree {
	t.Helper()
	c := cssom.NewCSSOM(cssom.WithInlineStyles(douceuradapter.ParseInline))
	ua, err := douceuradapter.Parse(cssom.UserAgentCSS)
	require.NoError(t, err)
	require.NoError(t, c.AddStyleSheet(ua, cssom.UserAgent))
	author, err := douceuradapter.Parse(`body, p { margin: 0 } td { padding: 0 } table { border-spacing: 0 }`)
	require.NoError(t, err)
	require.NoError(t, c.AddStyleSheet(author, cssom.Author))
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	styled, err := c.Style(root)
	require.NoError(t, err)
	bt, err := boxtree.Build(styled, boxtree.Options{Replacer: replaced.DefaultReplacer})
	require.NoError(t, err)
	layout.NewEngine(metrics.Monospace{}, nil).Layout(bt, layout.Constraints{Width: 200})
	return bt
}

func paragraphs(n int, attrs map[int]string) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteString(`<p id="p` + string(rune('0'+i)) + `" ` + attrs[i] + `>line</p>`)
	}
	return sb.String()
}

func byID(bt *boxtree.Tree, id string) *boxtree.Box {
	var found *boxtree.Box
	_ = bt.Walk(bt.Root(), func(b *boxtree.Box, _ int) error {
		if v, ok := b.Attr("id"); ok && v == id && found == nil {
			found = b
		}
		return nil
	})
	return found
}

// checkCoverage asserts that the pages list every box exactly once, in
// document order.
func checkCoverage(t *testing.T, bt *boxtree.Tree, pages []*PageBox) {
	t.Helper()
	var want, got []boxtree.ID
	_ = bt.Walk(bt.Root(), func(b *boxtree.Box, _ int) error {
		want = append(want, b.ID)
		return nil
	})
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
		got = append(got, p.Boxes...)
	}
	assert.Equal(t, want, got)
}

func TestCoverage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	bt := laidOut(t, `<h1>Heading</h1>`+paragraphs(5, nil)+
		`<div style="float:left;width:40pt">float</div><p>Some <b>bold</b> and <i>italic</i> text,`+
		` an <span style="display:inline-block">inline block</span> and more text to wrap around.</p>`+
		`<table><tr><td>a</td><td rowspan="2">b</td></tr><tr><td>c</td></tr></table>`+
		`<div style="height:10pt"></div><div style="position:absolute">gone</div>`)
	for _, h := range []float64{30, 50, 100, 1000, 0} {
		pages := New(bt, PageSize{Width: 200, Height: h}).All()
		require.NotEmpty(t, pages, "page height %.0f", h)
		checkCoverage(t, bt, pages)
	}
}

func TestBreaksByExtent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	bt := laidOut(t, paragraphs(7, nil))
	pg := New(bt, PageSize{Width: 200, Height: 50})
	var pages []*PageBox
	for page, ok := pg.Next(); ok; page, ok = pg.Next() {
		pages = append(pages, page)
	}
	require.Len(t, pages, 3)
	assert.InDelta(t, 43.2, pages[1].Top, 0.001)
	assert.InDelta(t, -43.2, pages[1].DY, 0.001)
	assert.Len(t, pages[0].Lines, 3)
	assert.Len(t, pages[2].Lines, 1)
	assert.Equal(t, byID(bt, "p4").ID, pages[1].Lines[0].Box)
	_, ok := pg.Next()
	assert.False(t, ok, "paginator is not restartable")
	checkCoverage(t, bt, pages)
}

func TestForcedBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	bt := laidOut(t, paragraphs(3, map[int]string{
		1: `style="page-break-before:always"`, // no empty first page
		2: `style="page-break-after:always"`,
	}))
	pages := New(bt, PageSize{Width: 200, Height: 1000}).All()
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Lines, 2)
	assert.Equal(t, byID(bt, "p3").ID, pages[1].Lines[0].Box)
	checkCoverage(t, bt, pages)
}

func TestAvoidedBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	bt := laidOut(t, paragraphs(4, map[int]string{3: `style="page-break-after:avoid"`}))
	pages := New(bt, PageSize{Width: 200, Height: 50}).All()
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Lines, 2)
	assert.Equal(t, byID(bt, "p3").ID, pages[1].Lines[0].Box)
	assert.InDelta(t, 28.8, pages[1].Top, 0.001)
	checkCoverage(t, bt, pages)
}

func TestAvoidFallsBackToCurrentPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	bt := laidOut(t, `<div id="d" style="page-break-inside:avoid">`+paragraphs(6, nil)+`</div>`)
	pages := New(bt, PageSize{Width: 200, Height: 50}).All()
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Lines, 3)
	assert.Len(t, pages[1].Lines, 3)
	assert.Equal(t, []boxtree.ID{bt.Root().ID}, pages[1].Continued[:1])
	assert.Contains(t, pages[1].Continued, byID(bt, "d").ID)
	checkCoverage(t, bt, pages)
}

func TestRepeatedTableHeaders(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.paginate")
	defer teardown()
	//
	var rows strings.Builder
	for i := 0; i < 6; i++ {
		rows.WriteString(`<tr><td>row</td></tr>`)
	}
	bt := laidOut(t, `<table><thead id="h"><tr><td>head</td></tr></thead><tbody>`+rows.String()+
		`</tbody><tfoot id="f"><tr><td>foot</td></tr></tfoot></table>`)
	head, foot := byID(bt, "h"), byID(bt, "f")
	require.NotNil(t, head)
	require.NotNil(t, foot)
	pages := New(bt, PageSize{Width: 200, Height: 60}).All()
	require.Len(t, pages, 3)
	assert.Empty(t, pages[0].Headers)
	require.Len(t, pages[0].Footers, 1)
	assert.Equal(t, foot.ID, pages[0].Footers[0].Group)
	for _, p := range pages[1:] {
		require.Len(t, p.Headers, 1, "page %d", p.Number)
		assert.Equal(t, head.ID, p.Headers[0].Group)
		assert.InDelta(t, 0, head.Content.Y+p.Headers[0].DY, 0.001)
		assert.InDelta(t, 14.4, p.Top+p.DY, 0.001, "body starts below the header")
	}
	assert.Empty(t, pages[2].Footers)
	checkCoverage(t, bt, pages)
}

func TestEmptyTree(t *testing.T) {
	pg := New(&boxtree.Tree{}, PageSize{Height: 100})
	assert.Empty(t, pg.All())
}
