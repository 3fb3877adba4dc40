package cssom_test

import (
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func buildCSSOM(t *testing.T, ua, author string) *cssom.CSSOM {
	c := cssom.NewCSSOM(cssom.WithInlineStyles(douceuradapter.ParseInline))
	if ua != "" {
		sheet, err := douceuradapter.Parse(ua)
		require.NoError(t, err)
		require.NoError(t, c.AddStyleSheet(sheet, cssom.UserAgent))
	}
	if author != "" {
		sheet, err := douceuradapter.Parse(author)
		require.NoError(t, err)
		require.NoError(t, c.AddStyleSheet(sheet, cssom.Author))
	}
	return c
}

func styleDoc(t *testing.T, c *cssom.CSSOM, doc string) map[string]*styledtree.StyNode {
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	styled, err := c.Style(root)
	require.NoError(t, err)
	byID := map[string]*styledtree.StyNode{}
	err = tree.Walk(styled, func(n *tree.Node[*styledtree.StyNode], depth int) error {
		if id, ok := n.Payload.Attr("id"); ok {
			byID[id] = n.Payload
		}
		return nil
	})
	require.NoError(t, err)
	return byID
}

func TestSpecificityAndOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `
		p { color: red; margin-left: 1pt }
		#x { color: blue }
		p { color: green; margin-left: 2pt }
	`)
	nodes := styleDoc(t, c, `<p id="x">a</p><p id="y">b</p>`)
	assert.Equal(t, style.Property("blue"), nodes["x"].Styles().Get("color"))
	assert.Equal(t, style.Property("green"), nodes["y"].Styles().Get("color"))
	assert.Equal(t, style.Property("2pt"), nodes["x"].Styles().Get("margin-left"),
		"later rule wins on equal specificity")
}

func TestOriginsAndImportance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t,
		`div { color: gray; width: 1pt !important } span { color: gray }`,
		`div { color: red !important; width: 2pt !important } span { color: red }`)
	nodes := styleDoc(t, c, `
		<div id="a" style="color: blue">a</div>
		<div id="b" style="color: blue !important">b</div>
		<span id="c" style="color: blue">c</span>`)
	assert.Equal(t, style.Property("red"), nodes["a"].Styles().Get("color"),
		"author !important beats style attribute")
	assert.Equal(t, style.Property("blue"), nodes["b"].Styles().Get("color"),
		"style attribute !important beats author !important")
	assert.Equal(t, style.Property("blue"), nodes["c"].Styles().Get("color"),
		"style attribute beats author rule")
	assert.Equal(t, style.Property("1pt"), nodes["a"].Styles().Get("width"),
		"user-agent !important beats everything")
}

func TestInlineStyleLastDeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `span { color: red } div { height: 1pt; border-top-width: 7pt }`)
	nodes := styleDoc(t, c, `
		<span id="a" style="color: blue">a</span>
		<div id="b" style="height:5pt">b</div>
		<div id="c" style="height:40pt;border:1pt solid">c</div>
		<div id="d" style="height: ;color: green">d</div>`)
	assert.Equal(t, style.Property("blue"), nodes["a"].Styles().Get("color"))
	assert.Equal(t, style.Property("5pt"), nodes["b"].Styles().Get("height"))
	assert.Equal(t, style.Property("40pt"), nodes["c"].Styles().Get("height"))
	assert.Equal(t, style.Property("1pt"), nodes["c"].Styles().Get("border-top-width"))
	assert.Equal(t, style.Property("solid"), nodes["c"].Styles().Get("border-left-style"))
	assert.Equal(t, style.Property("1pt"), nodes["d"].Styles().Get("height"),
		"empty inline value does not override the author rule")
	assert.Equal(t, style.Property("green"), nodes["d"].Styles().Get("color"))
}

func TestInheritanceThroughCascade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `
		#outer { color: navy; font-size: 14pt; padding: 3pt; border: 1pt solid }
		#inner { margin: 1pt 2pt }
	`)
	nodes := styleDoc(t, c, `<div id="outer"><p id="inner">x<em id="em">y</em></p></div>`)
	outer, inner, em := nodes["outer"].Styles(), nodes["inner"].Styles(), nodes["em"].Styles()
	for _, key := range []string{"color", "font-size", "font-family", "text-align"} {
		assert.Equal(t, outer.Get(key), inner.Get(key), key)
		assert.Equal(t, inner.Get(key), em.Get(key), key)
	}
	assert.Equal(t, style.Property("0"), inner.Get("padding-left"), "padding is not inherited")
	assert.Equal(t, style.Property("3pt"), outer.Get("padding-bottom"))
	assert.Equal(t, style.Property("solid"), outer.Get("border-left-style"))
	assert.Equal(t, style.Property("2pt"), inner.Get("margin-left"))
	assert.Equal(t, style.Property("1pt"), inner.Get("margin-bottom"))
}

func TestMalformedSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := cssom.NewCSSOM()
	sheet, err := douceuradapter.Parse(`p { color: red } p[[ { color: blue }`)
	if err != nil {
		assert.ErrorIs(t, err, cssom.ErrMalformedStylesheet)
		return
	}
	err = c.AddStyleSheet(sheet, cssom.Author)
	assert.ErrorIs(t, err, cssom.ErrMalformedStylesheet)
	assert.Equal(t, 0, c.RuleCount(), "no rule of a malformed sheet is added")
}

func TestPseudoElementsNeverMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `p::first-line { color: red }`)
	nodes := styleDoc(t, c, `<p id="p">x</p>`)
	assert.Equal(t, style.Property("black"), nodes["p"].Styles().Get("color"))
}

func TestFrozenAndErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `p { color: red }`)
	_, err := c.Style(nil)
	assert.ErrorIs(t, err, cssom.ErrNoDocument)
	_ = styleDoc(t, c, `<p>x</p>`)
	sheet, err := douceuradapter.Parse(`p { color: blue }`)
	require.NoError(t, err)
	assert.ErrorIs(t, c.AddStyleSheet(sheet, cssom.Author), cssom.ErrFrozen)
}

func TestPageStyleAndMedia(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, "", `
		@page { size: A5 landscape; margin: 1cm 2cm }
		@media screen { p { color: red } }
		@media print { p { color: green } }
	`)
	ps := c.PageStyle()
	w, h, ok := ps.PageSize()
	require.True(t, ok)
	assert.Greater(t, w, h)
	assert.Equal(t, style.Property("2cm"), ps.Margins[1])
	nodes := styleDoc(t, c, `<p id="p">x</p>`)
	assert.Equal(t, style.Property("green"), nodes["p"].Styles().Get("color"))
}

func TestUserAgentSheetParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	c := buildCSSOM(t, cssom.UserAgentCSS, "")
	assert.Greater(t, c.RuleCount(), 20)
	nodes := styleDoc(t, c, `<h1 id="h">Title</h1>`)
	assert.Equal(t, style.Property("bold"), nodes["h"].Styles().Get("font-weight"))
}
