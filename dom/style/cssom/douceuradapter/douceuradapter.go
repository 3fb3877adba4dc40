/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'pagebox.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.cssom")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css css.Stylesheet
}

// Wrap a douceur.css.Stylesheet into CssStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{*css}
	return sheet
}

// Parse parses CSS source text into a stylesheet. Parse errors are reported
// as wrapped cssom.ErrMalformedStylesheet.
func Parse(source string) (*CSSStyles, error) {
	sheet, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cssom.ErrMalformedStylesheet, err)
	}
	return Wrap(sheet), nil
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.css.Rules) == 0
}

// AppendRules appends rules from another stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	if othercss, ok := other.(*CSSStyles); ok {
		sheet.css.Rules = append(sheet.css.Rules, othercss.css.Rules...)
		return
	}
	tracer().Infof("cannot append rules from stylesheet of type %T", other)
}

// Rules returns all the rules of a stylesheet.
//
// Rules of @media blocks applying to print media are flattened into the
// list of rules; other @media blocks are skipped. @page rules are included,
// all other at-rules are dropped.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := make([]cssom.Rule, 0, len(sheet.css.Rules))
	stack := make([]*css.Rule, 0, len(sheet.css.Rules))
	for i := len(sheet.css.Rules) - 1; i >= 0; i-- {
		stack = append(stack, sheet.css.Rules[i])
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case r.Kind == css.QualifiedRule:
			rules = append(rules, Rule(*r))
		case r.Name == "@page":
			rules = append(rules, Rule(*r))
		case r.Name == "@media" && appliesToPrint(r.Prelude):
			for i := len(r.Rules) - 1; i >= 0; i-- {
				stack = append(stack, r.Rules[i])
			}
		default:
			tracer().Debugf("skipping at-rule %s %s", r.Name, r.Prelude)
		}
	}
	return rules
}

// appliesToPrint checks a media query list for print media. Media features
// are not evaluated.
func appliesToPrint(prelude string) bool {
	for _, q := range strings.Split(strings.ToLower(prelude), ",") {
		fields := strings.Fields(q)
		if len(fields) == 0 {
			return true
		}
		if fields[0] == "only" && len(fields) > 1 {
			fields = fields[1:]
		}
		switch fields[0] {
		case "print", "all":
			return true
		case "not":
			if len(fields) > 1 && fields[1] != "print" && fields[1] != "all" {
				return true
			}
		default:
			if strings.HasPrefix(fields[0], "(") {
				return true
			}
		}
	}
	return false
}

var _ cssom.StyleSheet = &CSSStyles{}

// Rule is an adapter for interface cssom.Rule.
type Rule css.Rule

// Selector returns the prelude / selectors of the rule.
// For @page rules, the prelude is prefixed by "@page".
func (r Rule) Selector() string {
	if r.Kind == css.AtRule {
		return strings.TrimSpace(r.Name + " " + r.Prelude)
	}
	return r.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "margin-top"
func (r Rule) Properties() []string {
	decl := r.Declarations
	props := make([]string, 0, len(decl))
	for _, d := range decl {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property values for given key with this rule, e.g. "15px".
// If a key is declared more than once, the last declaration wins.
func (r Rule) Value(key string) style.Property {
	if d := r.lastDeclaration(key); d != nil {
		return style.Property(d.Value)
	}
	return ""
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	if d := r.lastDeclaration(key); d != nil {
		return d.Important
	}
	return false
}

func (r Rule) lastDeclaration(key string) *css.Declaration {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == key {
			return r.Declarations[i]
		}
	}
	return nil
}

var _ cssom.Rule = &Rule{}

// ParseInline parses the content of an HTML style attribute. It is a
// cssom.DeclarationParser.
// Declarations with empty values are dropped.
func ParseInline(attr string) ([]cssom.Declaration, error) {
	// douceur stores a declaration only when it is terminated
	attr = strings.TrimSpace(attr)
	if attr != "" && !strings.HasSuffix(attr, ";") {
		attr += ";"
	}
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return nil, err
	}
	r := make([]cssom.Declaration, 0, len(decls))
	for _, d := range decls {
		if strings.TrimSpace(d.Value) == "" {
			tracer().Debugf("inline style: empty value for %s dropped", d.Property)
			continue
		}
		r = append(r, cssom.Declaration{
			Key:       d.Property,
			Value:     style.Property(d.Value),
			Important: d.Important,
		})
	}
	return r, nil
}

var _ cssom.DeclarationParser = ParseInline

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets, in document order.
// Style elements for media other than print are skipped.
func ExtractStyleElements(htmldoc *html.Node) ([]*CSSStyles, error) {
	var sheets []*CSSStyles
	stack := []*html.Node{htmldoc}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Style {
			if media, ok := attr(n, "media"); ok && !appliesToPrint(media) {
				continue
			}
			var source strings.Builder
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				if ch.Type == html.TextNode {
					source.WriteString(ch.Data)
				}
			}
			sheet, err := Parse(source.String())
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
			continue
		}
		for ch := n.LastChild; ch != nil; ch = ch.PrevSibling {
			stack = append(stack, ch)
		}
	}
	return sheets, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
