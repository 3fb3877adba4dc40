package cssom

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"golang.org/x/net/html"
)

// ErrMalformedStylesheet is returned for stylesheets the cascade cannot
// operate on, e.g. stylesheets containing unparsable selectors.
var ErrMalformedStylesheet = errors.New("malformed stylesheet")

// ErrFrozen is returned when adding styles to a CSSOM which is in use.
var ErrFrozen = errors.New("CSSOM is frozen")

// Origin is the source of a stylesheet.
type Origin uint8

// Origins of stylesheets. Style attributes of HTML elements are handled
// separately and are not a valid argument to AddStyleSheet.
const (
	UserAgent Origin = iota
	Author
)

func (o Origin) String() string {
	if o == UserAgent {
		return "user-agent"
	}
	return "author"
}

// precedence orders declarations by origin and importance, ascending.
type precedence uint8

const (
	uaNormal precedence = iota
	authorNormal
	inlineNormal
	authorImportant
	inlineImportant
	uaImportant
)

func precedenceOf(o Origin, important bool) precedence {
	switch {
	case o == UserAgent && important:
		return uaImportant
	case o == UserAgent:
		return uaNormal
	case important:
		return authorImportant
	}
	return authorNormal
}

// compiledRule is a single selector together with its declarations.
// Selector groups are split into one compiled rule per selector, as
// specificity is a property of individual selectors.
type compiledRule struct {
	selector    cascadia.Sel
	specificity cascadia.Specificity
	origin      Origin
	order       int // source order, across all stylesheets
	decls       []Declaration
}

// CSSOM is the "CSS Object Model", similar to the DOM for HTML.
// Our CSSOM consists of a set of stylesheets, each relevant for a sub-tree
// of the DOM. This sub-tree is called the "scope" of the stylesheet.
// Sub-trees are identified through their top node.
//
// A CSSOM is populated by calls to AddStyleSheet. It is frozen either
// explicitly or on first use for styling; from then on it is safe for
// concurrent use by multiple goroutines.
type CSSOM struct {
	mu          sync.RWMutex
	frozen      bool
	rules       []compiledRule
	pageRules   []pageRule
	order       int
	parseInline DeclarationParser
}

// Option configures a CSSOM.
type Option func(*CSSOM)

// WithInlineStyles sets a parser for HTML style attributes. Without it,
// style attributes are ignored.
func WithInlineStyles(p DeclarationParser) Option {
	return func(c *CSSOM) {
		c.parseInline = p
	}
}

// NewCSSOM creates an empty CSSOM.
func NewCSSOM(opts ...Option) *CSSOM {
	c := &CSSOM{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddStyleSheet compiles the rules of a stylesheet and appends them to the
// cascade. Compound properties are split into their fine grained components.
//
// An unparsable selector results in an error wrapping ErrMalformedStylesheet,
// and no rule of the stylesheet is added.
func (c *CSSOM) AddStyleSheet(sheet StyleSheet, origin Origin) error {
	if sheet == nil || sheet.Empty() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return ErrFrozen
	}
	var rules []compiledRule
	var pages []pageRule
	order := c.order
	for _, r := range sheet.Rules() {
		prelude := strings.TrimSpace(r.Selector())
		decls := splitDeclarations(r)
		if strings.HasPrefix(prelude, "@page") {
			pages = append(pages, pageRule{
				selector: strings.TrimSpace(strings.TrimPrefix(prelude, "@page")),
				decls:    decls,
			})
			continue
		}
		group, err := cascadia.ParseGroupWithPseudoElements(prelude)
		if err != nil {
			tracer().Errorf("cannot compile selector %q: %v", prelude, err)
			return fmt.Errorf("%w: selector %q: %v", ErrMalformedStylesheet, prelude, err)
		}
		for _, sel := range group {
			if sel.PseudoElement() != "" {
				tracer().Debugf("selector %q addresses a pseudo-element, will never match", sel.String())
			}
			rules = append(rules, compiledRule{
				selector:    sel,
				specificity: sel.Specificity(),
				origin:      origin,
				order:       order,
				decls:       decls,
			})
			order++
		}
	}
	c.rules = append(c.rules, rules...)
	c.pageRules = append(c.pageRules, pages...)
	c.order = order
	tracer().Debugf("added %d %s rules to CSSOM", len(rules), origin)
	return nil
}

// splitDeclarations converts the declarations of a rule to fine grained
// declarations. Malformed compound properties are dropped.
func splitDeclarations(r Rule) []Declaration {
	keys := r.Properties()
	decls := make([]Declaration, 0, len(keys))
	for _, key := range keys {
		decls = appendDeclaration(decls, Declaration{
			Key:       key,
			Value:     r.Value(key),
			Important: r.IsImportant(key),
		})
	}
	return decls
}

func appendDeclaration(decls []Declaration, d Declaration) []Declaration {
	d.Key = strings.ToLower(strings.TrimSpace(d.Key))
	if strings.TrimSpace(string(d.Value)) == "" {
		tracer().Debugf("dropping declaration %s without value", d.Key)
		return decls
	}
	if !style.IsCompoundProperty(d.Key) {
		return append(decls, d)
	}
	kv, err := style.SplitCompoundProperty(d.Key, d.Value)
	if err != nil {
		tracer().Infof("dropping declaration %s: %v", d.Key, err)
		return decls
	}
	for _, p := range kv {
		decls = append(decls, Declaration{Key: p.Key, Value: p.Value, Important: d.Important})
	}
	return decls
}

// Freeze makes the CSSOM read-only. Subsequent calls to AddStyleSheet
// return ErrFrozen.
func (c *CSSOM) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// RuleCount returns the number of compiled rules, i.e. selectors.
func (c *CSSOM) RuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

// matchedDecl is a declaration matching an element, with its sort keys.
type matchedDecl struct {
	prec        precedence
	specificity cascadia.Specificity
	order       int
	decl        Declaration
}

// Resolve computes the calculated style of an HTML element, given the
// calculated style of its parent.
//
// Matching declarations are ordered by origin and importance, then by
// specificity, then by source order; the last one wins. Style attributes
// take precedence over any selector of the same origin and importance.
// Properties not set by any rule are resolved by the calculated style,
// either by inheritance or by their initial value.
//
// Resolve has no side effects and may be called concurrently.
func (c *CSSOM) Resolve(element *html.Node, parent *style.CalculatedStyle) *style.CalculatedStyle {
	if element == nil || element.Type != html.ElementNode {
		return style.NewCalculatedStyle(element, parent, nil)
	}
	c.mu.RLock()
	var matched []matchedDecl
	for i := range c.rules {
		r := &c.rules[i]
		if r.selector.PseudoElement() != "" || !r.selector.Match(element) {
			continue
		}
		for _, d := range r.decls {
			matched = append(matched, matchedDecl{
				prec:        precedenceOf(r.origin, d.Important),
				specificity: r.specificity,
				order:       r.order,
				decl:        d,
			})
		}
	}
	parseInline := c.parseInline
	c.mu.RUnlock()
	matched = append(matched, inlineDeclarations(element, parseInline)...)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.prec != b.prec {
			return a.prec < b.prec
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})
	pmap := style.NewPropertyMap()
	for _, m := range matched {
		pmap.Set(m.decl.Key, m.decl.Value)
	}
	return style.NewCalculatedStyle(element, parent, pmap)
}

// inlineSpecificity is larger than the specificity of any selector.
var inlineSpecificity = cascadia.Specificity{1 << 20, 0, 0}

func inlineDeclarations(element *html.Node, parse DeclarationParser) []matchedDecl {
	var attr string
	found := false
	for _, a := range element.Attr {
		if a.Key == "style" && a.Namespace == "" {
			attr, found = a.Val, true
		}
	}
	if !found || strings.TrimSpace(attr) == "" {
		return nil
	}
	if parse == nil {
		tracer().Debugf("no parser for style attributes configured, ignoring style of <%s>", element.Data)
		return nil
	}
	parsed, err := parse(attr)
	if err != nil {
		tracer().Infof("ignoring malformed style attribute of <%s>: %v", element.Data, err)
		return nil
	}
	var decls []Declaration
	for _, d := range parsed {
		decls = appendDeclaration(decls, d)
	}
	matched := make([]matchedDecl, len(decls))
	for i, d := range decls {
		prec := inlineNormal
		if d.Important {
			prec = inlineImportant
		}
		matched[i] = matchedDecl{prec: prec, specificity: inlineSpecificity, order: i, decl: d}
	}
	return matched
}

// --- Page rules ------------------------------------------------------------

type pageRule struct {
	selector string
	decls    []Declaration
}

// PageStyle holds the properties of @page rules.
type PageStyle struct {
	Size    style.Property    // value of property size, may be empty
	Margins [4]style.Property // margins, ordered top, right, bottom, left; may be empty
}

// PageSize returns the page dimensions in points, if set.
func (ps PageStyle) PageSize() (w, h float64, ok bool) {
	if ps.Size.IsEmpty() {
		return 0, 0, false
	}
	w, h, err := css.ParsePageSize(ps.Size)
	if err != nil {
		tracer().Infof("@page: %v", err)
		return 0, 0, false
	}
	return w, h, true
}

// PageStyle collects the properties of all @page rules without page
// selector, in source order. Rules for :first, :left and :right pages are
// not considered.
func (c *CSSOM) PageStyle() PageStyle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ps PageStyle
	dirs := map[string]int{"margin-top": 0, "margin-right": 1, "margin-bottom": 2, "margin-left": 3}
	for _, pr := range c.pageRules {
		if pr.selector != "" {
			tracer().Debugf("@page %s is not supported", pr.selector)
			continue
		}
		for _, d := range pr.decls {
			if d.Key == "size" {
				ps.Size = d.Value
			} else if i, ok := dirs[d.Key]; ok {
				ps.Margins[i] = d.Value
			}
		}
	}
	return ps
}
