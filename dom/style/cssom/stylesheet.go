package cssom

import "github.com/npillmayer/pagebox/dom/style"

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// construction of the styled node tree, we introduce an interface
// for CSS stylesheets. Clients for the styling engine will have to
// provide a concrete implementation of this interface (e.g., see
// package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// At-rules other than @page are expected to be resolved by the stylesheet
// implementation. Page rules report a selector starting with "@page",
// optionally followed by a page selector, e.g. "@page :first".
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}

// Declaration is a single property declaration, as found in HTML style
// attributes.
type Declaration struct {
	Key       string
	Value     style.Property
	Important bool
}

// DeclarationParser parses the content of an HTML style attribute.
type DeclarationParser func(string) ([]Declaration, error)
