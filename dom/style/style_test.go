package style

import (
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestSplitCompound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	kv, err := SplitCompoundProperty("margin", "1px 2px")
	require.NoError(t, err)
	require.Len(t, kv, 4)
	assert.Equal(t, KeyValue{"margin-top", "1px"}, kv[0])
	assert.Equal(t, KeyValue{"margin-right", "2px"}, kv[1])
	assert.Equal(t, KeyValue{"margin-bottom", "1px"}, kv[2])
	assert.Equal(t, KeyValue{"margin-left", "2px"}, kv[3])
	//
	kv, err = SplitCompoundProperty("border-left", "red 2pt solid")
	require.NoError(t, err)
	assert.ElementsMatch(t, []KeyValue{
		{"border-left-width", "2pt"},
		{"border-left-style", "solid"},
		{"border-left-color", "red"},
	}, kv)
	//
	kv, err = SplitCompoundProperty("break-before", "page")
	require.NoError(t, err)
	assert.Equal(t, []KeyValue{{"page-break-before", "always"}}, kv)
	//
	_, err = SplitCompoundProperty("margin", "1px 2px 3px 4px 5px")
	assert.Error(t, err)
}

func TestPropertyMapGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	pmap := NewPropertyMap()
	pmap.Set("margin-top", "10pt")
	pmap.Set("color", "Red")
	pmap.Set("font-family", `"Times New Roman"`)
	p, ok := pmap.Property("margin-top")
	assert.True(t, ok)
	assert.Equal(t, Property("10pt"), p)
	p, _ = pmap.Property("color")
	assert.Equal(t, Property("red"), p, "values are normalized to lower case")
	p, _ = pmap.Property("font-family")
	assert.Equal(t, Property(`"Times New Roman"`), p, "quoted values keep their case")
	assert.NotNil(t, pmap.Group(PGMargins))
	assert.Equal(t, 3, pmap.Size())
}

func parseDoc(t *testing.T, s string) *html.Node {
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestCalculatedStyleInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	parentProps := NewPropertyMap()
	parentProps.Set("color", "blue")
	parentProps.Set("margin-top", "5pt")
	parent := NewCalculatedStyle(nil, nil, parentProps)
	child := NewCalculatedStyle(nil, parent, nil)
	assert.Equal(t, parent.Get("color"), child.Get("color"), "color is inherited")
	assert.Equal(t, Property("0"), child.Get("margin-top"), "margins are not inherited")
	//
	props := NewPropertyMap()
	props.Set("margin-top", "inherit")
	props.Set("color", "initial")
	explicit := NewCalculatedStyle(nil, parent, props)
	assert.Equal(t, Property("5pt"), explicit.Get("margin-top"))
	assert.Equal(t, Property("black"), explicit.Get("color"))
	//
	grandchild := NewCalculatedStyle(nil, explicit, nil)
	assert.Equal(t, Property("black"), grandchild.Get("color"))
}

func TestDisplayDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	doc := parseDoc(t, "<table><tr><td>x</td></tr></table><span>y</span>")
	displays := map[string]Property{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			displays[n.Data] = DisplayPropertyForHTMLNode(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	assert.Equal(t, Property("table"), displays["table"])
	assert.Equal(t, Property("table-row-group"), displays["tbody"])
	assert.Equal(t, Property("table-cell"), displays["td"])
	assert.Equal(t, Property("inline"), displays["span"])
	assert.Equal(t, Property("none"), displays["head"])
}

func TestForcedHidden(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	var wg sync.WaitGroup
	styles := make([]*CalculatedStyle, 8)
	for i := range styles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			styles[i] = ForcedHidden()
		}(i)
	}
	wg.Wait()
	for _, s := range styles {
		assert.Same(t, ForcedHidden(), s)
		assert.True(t, s.IsForcedHidden())
		assert.Equal(t, Property("hidden"), s.Get("visibility"))
		assert.Equal(t, Property("0"), s.Get("margin-left"))
		assert.False(t, s.IsVisible())
	}
	assert.False(t, NewCalculatedStyle(nil, nil, nil).IsForcedHidden())
}

func TestColors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.style")
	defer teardown()
	//
	c, err := Property("#ff0000").Color()
	require.NoError(t, err)
	assert.Equal(t, "red", ColorString(c))
	c, err = Property("#0f0").Color()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0xff, 0, 0xff}, c)
	c, err = Property("rgb(0, 0, 255)").Color()
	require.NoError(t, err)
	assert.Equal(t, "blue", ColorString(c))
	c, err = Property("currentcolor").Color()
	assert.NoError(t, err)
	assert.Nil(t, c)
	_, err = Property("no-such-color").Color()
	assert.Error(t, err)
}
