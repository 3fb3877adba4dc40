package replaced

import (
	"strings"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageKey is the content-type key for raster images.
const ImageKey = "image"

// DefaultReplacer treats <img> elements, and <object> and <embed> elements
// with a type attribute, as replaced elements. Images and objects with an
// image type map to ImageKey, other objects to their type attribute.
// Absolutely positioned replaced elements are out of flow.
var DefaultReplacer = boxtree.ReplacerFunc(replace)

func replace(n *html.Node, cs *style.CalculatedStyle) (boxtree.Replacement, bool) {
	var key string
	switch n.DataAtom {
	case atom.Img:
		key = ImageKey
	case atom.Object, atom.Embed:
		typ, ok := attr(n, "type")
		if !ok || typ == "" {
			return boxtree.Replacement{}, false
		}
		key = typ
		if strings.HasPrefix(typ, "image/") {
			key = ImageKey
		}
	default:
		return boxtree.Replacement{}, false
	}
	return boxtree.Replacement{
		ContentType: key,
		OutOfFlow:   css.PositionOf(cs).IsOutOfFlow(),
	}, true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
