package boxtree

import (
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func buildFromHTML(t *testing.T, doc string, opts Options) (*Tree, error) {
	t.Helper()
	c := cssom.NewCSSOM(cssom.WithInlineStyles(douceuradapter.ParseInline))
	ua, err := douceuradapter.Parse(cssom.UserAgentCSS)
	require.NoError(t, err)
	require.NoError(t, c.AddStyleSheet(ua, cssom.UserAgent))
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	styled, err := c.Style(root)
	require.NoError(t, err)
	return Build(styled, opts)
}

func mustBuild(t *testing.T, doc string) *Tree {
	t.Helper()
	bt, err := buildFromHTML(t, doc, Options{})
	require.NoError(t, err)
	checkStructure(t, bt)
	return bt
}

// checkStructure asserts that every box is reachable exactly once and
// links back to its parent.
func checkStructure(t *testing.T, bt *Tree) {
	t.Helper()
	seen := map[ID]bool{}
	n := 0
	_ = bt.Walk(bt.Root(), func(b *Box, _ int) error {
		assert.False(t, seen[b.ID], "box %s visited twice", b)
		assert.Equal(t, ID(n), b.ID, "IDs follow document order")
		seen[b.ID] = true
		n++
		assert.NotNil(t, b.Style, "box %s has no style", b)
		for _, id := range b.Children {
			assert.Equal(t, b.ID, bt.Box(id).Parent, "parent link of %s", bt.Box(id))
		}
		return nil
	})
	assert.Equal(t, bt.Len(), n, "every box is reachable from the root")
}

func byID(bt *Tree, id string) *Box {
	var found *Box
	_ = bt.Walk(bt.Root(), func(b *Box, _ int) error {
		if v, ok := b.Attr("id"); ok && v == id && found == nil {
			found = b
		}
		return nil
	})
	return found
}

func kinds(bt *Tree, b *Box) []Kind {
	var k []Kind
	for _, c := range bt.Children(b) {
		k = append(k, c.Kind)
	}
	return k
}

func TestDisplayNone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<div id="a"><p>a</p><div id="hidden" style="display:none"><p>b</p></div></div>`)
	assert.Nil(t, byID(bt, "hidden"))
	a := byID(bt, "a")
	require.NotNil(t, a)
	assert.Len(t, a.Children, 1)
	t.Logf("\n%s", bt)
}

func TestAnonymousBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<div id="mixed">text<p>para</p>more <b>bold</b></div><div id="blocks">
	  <p>a</p>
	  <p>b</p>
	</div>`)
	mixed := byID(bt, "mixed")
	require.NotNil(t, mixed)
	assert.Equal(t, []Kind{BlockBox, BlockBox, BlockBox}, kinds(bt, mixed))
	children := bt.Children(mixed)
	assert.True(t, children[0].Anonymous)
	assert.False(t, children[1].Anonymous)
	assert.True(t, children[2].Anonymous)
	assert.Equal(t, []Kind{TextBox, InlineBox}, kinds(bt, children[2]))
	blocks := byID(bt, "blocks")
	require.NotNil(t, blocks)
	assert.Len(t, blocks.Children, 2, "whitespace between blocks is dropped")
}

func TestInlineContainingBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<div><span id="s">a<p>b</p></span></div>`)
	s := byID(bt, "s")
	require.NotNil(t, s)
	assert.Equal(t, BlockBox, s.Kind)
	assert.Equal(t, []Kind{BlockBox, BlockBox}, kinds(bt, s))
}

func TestTableWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<table id="t">
	  <tr id="r"> <td colspan="2">a</td> <td>b</td> </tr>
	</table>`)
	table := byID(bt, "t")
	require.NotNil(t, table)
	assert.Equal(t, []Kind{TableRowGroupBox}, kinds(bt, table)) // tbody inserted by the parser
	row := byID(bt, "r")
	require.NotNil(t, row)
	assert.Equal(t, []Kind{TableCellBox, TableCellBox}, kinds(bt, row))
	assert.Equal(t, 2, bt.Children(row)[0].ColSpan)
	assert.Equal(t, 1, bt.Children(row)[1].ColSpan)
}

func TestAnonymousTableParts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `
	<div id="table" style="display:table"><span style="display:table-cell">x</span></div>
	<div id="cells"><span style="display:table-cell">a</span> <span style="display:table-cell">b</span></div>
	<div id="row" style="display:table-row">loose text</div>`)
	table := byID(bt, "table")
	require.NotNil(t, table)
	require.Equal(t, []Kind{TableRowBox}, kinds(bt, table))
	row := bt.Children(table)[0]
	assert.True(t, row.Anonymous)
	assert.Equal(t, []Kind{TableCellBox}, kinds(bt, row))
	//
	cells := byID(bt, "cells")
	require.NotNil(t, cells)
	require.Equal(t, []Kind{TableBox}, kinds(bt, cells))
	anonTable := bt.Children(cells)[0]
	assert.True(t, anonTable.Anonymous)
	require.Equal(t, []Kind{TableRowBox}, kinds(bt, anonTable))
	assert.Equal(t, []Kind{TableCellBox, TableCellBox}, kinds(bt, bt.Children(anonTable)[0]))
	//
	loose := byID(bt, "row")
	require.NotNil(t, loose)
	parent := bt.ParentOf(loose)
	assert.Equal(t, TableBox, parent.Kind)
	assert.True(t, parent.Anonymous)
	assert.Equal(t, []Kind{TableCellBox}, kinds(bt, loose))
}

func TestOutOfFlowIsForcedHidden(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<p>a <span id="abs" style="position:absolute">b<i>c</i></span> d</p>`)
	abs := byID(bt, "abs")
	require.NotNil(t, abs)
	assert.True(t, abs.OutOfFlow)
	assert.True(t, abs.Style.IsForcedHidden())
	assert.Same(t, style.ForcedHidden(), abs.Style)
	assert.False(t, abs.Style.IsVisible())
	assert.Empty(t, abs.Children)
	p := bt.ParentOf(abs)
	assert.Equal(t, "p", p.Tag(), "out-of-flow box does not split inline content")
}

func TestReplacedAndText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	replacer := ReplacerFunc(func(n *html.Node, _ *style.CalculatedStyle) (Replacement, bool) {
		switch n.Data {
		case "img":
			return Replacement{ContentType: "image"}, true
		case "object":
			return Replacement{ContentType: "hidden", OutOfFlow: true}, true
		}
		return Replacement{}, false
	})
	bt, err := buildFromHTML(t, `<p id="p">Cafe`+"\u0301"+` <img id="img" src="x.png"><object id="obj"><p>fallback</p></object></p>`,
		Options{Replacer: replacer})
	require.NoError(t, err)
	img := byID(bt, "img")
	require.NotNil(t, img)
	assert.Equal(t, ReplacedBox, img.Kind)
	assert.Equal(t, "image", img.ContentType)
	assert.True(t, img.IsAtomicInline())
	obj := byID(bt, "obj")
	require.NotNil(t, obj)
	assert.True(t, obj.OutOfFlow)
	assert.Empty(t, obj.Children)
	p := byID(bt, "p")
	text := bt.Children(p)[0]
	assert.Equal(t, TextBox, text.Kind)
	assert.Equal(t, "Caf\u00e9 ", text.Text, "text is NFC normalized")
}

func TestLimits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	deep := strings.Repeat("<div>", 40) + "x" + strings.Repeat("</div>", 40)
	_, err := buildFromHTML(t, deep, Options{MaxDepth: 20})
	assert.ErrorIs(t, err, ErrLimitExceeded)
	_, err = buildFromHTML(t, "<p>a</p><p>b</p><p>c</p>", Options{MaxBoxes: 4})
	assert.ErrorIs(t, err, ErrLimitExceeded)
	_, err = buildFromHTML(t, deep, Options{})
	assert.NoError(t, err)
}

func TestFloatsAreBlockified(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<div id="d"><span id="f" style="float:left">F</span>text<p>x</p></div>`)
	f := byID(bt, "f")
	require.NotNil(t, f)
	assert.Equal(t, BlockBox, f.Kind)
	assert.True(t, f.IsBlockLevel())
	d := byID(bt, "d")
	// float joins the anonymous block of the following text
	assert.Equal(t, []Kind{BlockBox, BlockBox}, kinds(bt, d))
	assert.Equal(t, bt.Children(d)[0].ID, f.Parent)
}

func TestTablePartsInDisplayOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<table id="t"><tfoot id="f"><tr><td>f</td></tr></tfoot>
		<tbody id="b"><tr><td>b</td></tr></tbody><thead id="h"><tr><td>h</td></tr></thead>
		<caption id="c">cap</caption></table>`)
	table := byID(bt, "t")
	require.NotNil(t, table)
	var order []string
	for _, c := range bt.Children(table) {
		id, _ := c.Attr("id")
		order = append(order, id)
	}
	assert.Equal(t, []string{"c", "h", "b", "f"}, order)
}

func TestDetachedBoxesAreDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.boxtree")
	defer teardown()
	//
	bt := mustBuild(t, `<div id="ws">
	  <p>a</p>
	  <p>b</p>
	  <table> <tr> <td>c</td> </tr> </table>
	</div>`)
	ws := byID(bt, "ws")
	require.NotNil(t, ws)
	for i := 0; i < bt.Len(); i++ {
		b := bt.Box(ID(i))
		if b != bt.Root() {
			assert.NotNil(t, bt.ParentOf(b), "box %s is detached", b)
		}
	}
}
