package style

import (
	"golang.org/x/net/html"
)

// initialValues holds the CSS initial value of every property the engine
// knows about. Properties not listed here have an initial value of NullStyle.
//
// Values "currentcolor" and "normal" are kept symbolic and resolved by the
// typed accessors of package css.
var initialValues = map[string]Property{
	"float":                      "none",
	"clear":                      "none",
	"visibility":                 "visible",
	"position":                   "static",
	"overflow":                   "visible",
	"top":                        "auto",
	"right":                      "auto",
	"bottom":                     "auto",
	"left":                       "auto",
	"width":                      "auto",
	"height":                     "auto",
	"min-width":                  "0",
	"min-height":                 "0",
	"max-width":                  "none",
	"max-height":                 "none",
	"box-sizing":                 "content-box",
	"margin-top":                 "0",
	"margin-left":                "0",
	"margin-right":               "0",
	"margin-bottom":              "0",
	"padding-top":                "0",
	"padding-left":               "0",
	"padding-right":              "0",
	"padding-bottom":             "0",
	"border-top-width":           "medium",
	"border-left-width":          "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-top-style":           "none",
	"border-left-style":          "none",
	"border-right-style":         "none",
	"border-bottom-style":        "none",
	"border-top-color":           "currentcolor",
	"border-left-color":          "currentcolor",
	"border-right-color":         "currentcolor",
	"border-bottom-color":        "currentcolor",
	"border-top-left-radius":     "0",
	"border-top-right-radius":    "0",
	"border-bottom-left-radius":  "0",
	"border-bottom-right-radius": "0",
	"color":                      "black",
	"background-color":           "transparent",
	"direction":                  "ltr",
	"white-space":                "normal",
	"word-spacing":               "normal",
	"letter-spacing":             "normal",
	"word-break":                 "normal",
	"overflow-wrap":              "normal",
	"text-align":                 "left",
	"text-indent":                "0",
	"line-height":                "normal",
	"vertical-align":             "baseline",
	"font-family":                "serif",
	"font-size":                  "12pt",
	"font-style":                 "normal",
	"font-weight":                "normal",
	"table-layout":               "auto",
	"border-spacing":             "0",
	"border-collapse":            "separate",
	"caption-side":               "top",
	"page-break-before":          "auto",
	"page-break-after":           "auto",
	"page-break-inside":          "auto",
	"orphans":                    "2",
	"widows":                     "2",
}

// InitialValue returns the initial value for a given key. For property
// `display` the initial value depends on the HTML element, as real-world
// user agents apply a default stylesheet.
func InitialValue(node *html.Node, key string) Property {
	if key == "display" {
		return DisplayPropertyForHTMLNode(node)
	}
	return initialValues[key]
}

// KnownProperties returns the keys of all properties with an initial value.
func KnownProperties() []string {
	keys := make([]string, 0, len(initialValues)+1)
	keys = append(keys, "display")
	for k := range initialValues {
		keys = append(keys, k)
	}
	return keys
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "block"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type == html.TextNode {
		return "inline"
	}
	if node.Type != html.ElementNode {
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "title", "meta", "link", "base", "template", "noscript":
		return "none"
	case "html", "body", "address", "article", "aside", "blockquote", "center", "dd", "details",
		"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption", "figure", "footer",
		"form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "legend",
		"main", "menu", "nav", "ol", "p", "pre", "section", "summary", "ul":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "caption":
		return "table-caption"
	case "thead":
		return "table-header-group"
	case "tbody":
		return "table-row-group"
	case "tfoot":
		return "table-footer-group"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "col":
		return "table-column"
	case "colgroup":
		return "table-column-group"
	}
	tracer().Debugf("HTML element %s will be set to display: inline", node.Data)
	return "inline"
}
