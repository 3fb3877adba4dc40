package douceuradapter

import (
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	decls, err := ParseInline("height:5pt")
	require.NoError(t, err)
	assert.Equal(t, []cssom.Declaration{{Key: "height", Value: "5pt"}}, decls)
	decls, err = ParseInline("margin-top:20pt;height:5pt")
	require.NoError(t, err)
	assert.Equal(t, []cssom.Declaration{
		{Key: "margin-top", Value: "20pt"},
		{Key: "height", Value: "5pt"},
	}, decls)
	decls, err = ParseInline("color: red; width: 3pt !important")
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, style.Property("3pt"), decls[1].Value)
	assert.True(t, decls[1].Important, "!important on the last declaration")
	decls, err = ParseInline(" width: 1pt; ")
	require.NoError(t, err)
	assert.Len(t, decls, 1)
	decls, err = ParseInline("height: ; color: blue")
	require.NoError(t, err)
	assert.Equal(t, []cssom.Declaration{{Key: "color", Value: "blue"}}, decls,
		"empty values are dropped")
	decls, err = ParseInline("")
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	sheet, err := Parse(`p { color: red } @media screen { p { color: blue } } @media print { em { color: green } }`)
	require.NoError(t, err)
	rules := sheet.Rules()
	require.Len(t, rules, 2, "screen media rules are skipped")
	assert.Equal(t, "p", rules[0].Selector())
	assert.Equal(t, "em", rules[1].Selector())
	assert.Equal(t, style.Property("green"), rules[1].Value("color"))
	_, err = Parse(`p { ; }`)
	assert.ErrorIs(t, err, cssom.ErrMalformedStylesheet)
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<html><head>
		<style>h1 { color: red }</style>
		<style media="screen">h2 { color: red }</style>
		<style media="print, screen">h3 { color: red }</style>
		</head><body><p>x</p><style>h4 { color: red }</style></body></html>`))
	require.NoError(t, err)
	sheets, err := ExtractStyleElements(doc)
	require.NoError(t, err)
	var selectors []string
	for _, sheet := range sheets {
		for _, r := range sheet.Rules() {
			selectors = append(selectors, r.Selector())
		}
	}
	assert.Equal(t, []string{"h1", "h3", "h4"}, selectors)
	doc, err = html.Parse(strings.NewReader(`<style>p { ; }</style>`))
	require.NoError(t, err)
	_, err = ExtractStyleElements(doc)
	assert.ErrorIs(t, err, cssom.ErrMalformedStylesheet)
}
