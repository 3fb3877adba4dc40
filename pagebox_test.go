package pagebox

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/config"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagebox/metrics"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/net/html"
)

// Pages are 200×100pt with 10pt margins, leaving room for five lines of
// 14.4pt each.
func testEngine(t *testing.T) *Engine {
	t.Helper()
	v := config.New()
	v.Set("page.size", "200pt 100pt")
	v.Set("page.margin", "10pt")
	v.Set("workers", 2)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	eng, err := New(cfg, WithMetrics(metrics.Monospace{}))
	require.NoError(t, err)
	return eng
}

func parse(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func lines(n int) string {
	var sb strings.Builder
	sb.WriteString("<html><head><style>body, p { margin: 0 }</style></head><body>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "\n  <p>line %d</p>", i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestRender(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	eng := testEngine(t)
	out, err := eng.Render(context.Background(), parse(t, lines(10)))
	require.NoError(t, err)
	assert.Equal(t, [2]float64{200, 100}, out.PageSize)
	assert.Equal(t, [4]float64{10, 10, 10, 10}, out.Margins)
	require.Len(t, out.Pages, 2)
	var placed []boxtree.ID
	for i, page := range out.Pages {
		assert.Equal(t, i+1, page.Number)
		placed = append(placed, page.Boxes...)
	}
	var walked []boxtree.ID
	require.NoError(t, out.Tree.Walk(out.Tree.Root(), func(b *boxtree.Box, _ int) error {
		walked = append(walked, b.ID)
		return nil
	}))
	assert.Equal(t, walked, placed, "every box is placed on exactly one page")
	assert.Equal(t, out.Tree.Len(), len(walked), "no detached boxes")
}

func TestAuthorSheetsAndPageRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	eng := testEngine(t)
	sheet, err := douceuradapter.Parse(`@page { size: 300pt 400pt; margin-top: 20pt; margin-left: 10%; margin-right: auto }`)
	require.NoError(t, err)
	out, err := eng.Render(context.Background(), parse(t, lines(10)), sheet)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{300, 400}, out.PageSize)
	assert.Equal(t, 20.0, out.Margins[css.Top])
	assert.Equal(t, 10.0, out.Margins[css.Bottom])
	assert.InDelta(t, 30.0, out.Margins[css.Left], 0.001, "percentages refer to the page width")
	assert.Equal(t, 10.0, out.Margins[css.Right], "auto keeps the configured margin")
	assert.Len(t, out.Pages, 1)
}

func TestRenderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	eng := testEngine(t)
	_, err := eng.Render(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Render(ctx, parse(t, lines(3)))
	assert.ErrorIs(t, err, context.Canceled)
	out, err := eng.Render(context.Background(), parse(t, "<p>x</p>"), cssom.StyleSheet(nil))
	require.NoError(t, err, "nil sheets are skipped")
	assert.Len(t, out.Pages, 1)
}

func TestInvalidConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	cfg := config.Default()
	cfg.Page.Size = "huge"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
	eng, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, eng)
}

func TestRenderAll(t *testing.T) {
	defer goleak.VerifyNone(t)
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	eng := testEngine(t)
	docs := make([]Document, 5)
	for i := range docs {
		docs[i] = Document{Root: parse(t, lines(5*(i+1)))}
	}
	outs, err := eng.RenderAll(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, outs, 5)
	for i, out := range outs {
		assert.Len(t, out.Pages, i+1, "document %d", i)
	}
	docs[2].Root = nil
	_, err = eng.RenderAll(context.Background(), docs)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
