package style

import (
	"golang.org/x/net/html"
)

// CalculatedStyle holds the cascaded style properties of a single element,
// together with a link to the calculated style of its parent element.
//
// Values are resolved on demand: a locally set value wins; `inherit` and
// unset inheritable properties are looked up along the parent chain; all other
// properties fall back to their initial value.
//
// A CalculatedStyle is never modified after it has been created. It is
// therefore safe to share between goroutines.
type CalculatedStyle struct {
	node   *html.Node
	parent *CalculatedStyle
	props  *PropertyMap
}

// NewCalculatedStyle creates a calculated style for an HTML node. props are
// the cascaded values of node; clients must not modify props afterwards.
func NewCalculatedStyle(node *html.Node, parent *CalculatedStyle, props *PropertyMap) *CalculatedStyle {
	if props == nil {
		props = NewPropertyMap()
	}
	return &CalculatedStyle{node: node, parent: parent, props: props}
}

// Node returns the HTML node this style has been calculated for. May be nil
// for anonymous boxes and for the forced-hidden style.
func (cs *CalculatedStyle) Node() *html.Node {
	if cs == nil {
		return nil
	}
	return cs.node
}

// Parent returns the calculated style of the parent element, or nil.
func (cs *CalculatedStyle) Parent() *CalculatedStyle {
	if cs == nil {
		return nil
	}
	return cs.parent
}

// Local returns a property value only if it has been set for this element.
func (cs *CalculatedStyle) Local(key string) (Property, bool) {
	if cs == nil {
		return NullStyle, false
	}
	p, ok := cs.props.Property(key)
	return p, ok && !p.IsEmpty()
}

// Get returns the resolved value of a style property.
func (cs *CalculatedStyle) Get(key string) Property {
	inherited := IsCascading(key)
	for it := cs; it != nil; it = it.parent {
		p, ok := it.Local(key)
		switch {
		case ok && p.IsInitial():
			return InitialValue(it.node, key)
		case ok && p.IsInherit():
			continue
		case ok:
			return p
		case !inherited:
			return InitialValue(it.node, key)
		}
	}
	return InitialValue(cs.Node(), key)
}

// Properties returns the locally set properties.
func (cs *CalculatedStyle) Properties() *PropertyMap {
	if cs == nil {
		return nil
	}
	return cs.props
}

// Anonymous derives a style for an anonymous box. Anonymous boxes inherit
// inheritable properties from cs and carry initial values otherwise, apart
// from the given overrides.
func (cs *CalculatedStyle) Anonymous(overrides ...KeyValue) *CalculatedStyle {
	pmap := NewPropertyMap()
	for _, kv := range overrides {
		pmap.Set(kv.Key, kv.Value)
	}
	return &CalculatedStyle{parent: cs, props: pmap}
}

// IsVisible is true unless property visibility is hidden or collapse.
func (cs *CalculatedStyle) IsVisible() bool {
	v := cs.Get("visibility")
	return v != "hidden" && v != "collapse"
}

// --- Forced hidden style --------------------------------------------------

// forcedHidden is constructed once at package initialization and never
// modified afterwards.
var forcedHidden = newForcedHidden()

func newForcedHidden() *CalculatedStyle {
	pmap := NewPropertyMap()
	pmap.Set("visibility", "hidden")
	pmap.Set("display", "block")
	pmap.Set("float", "none")
	pmap.Set("position", "static")
	pmap.Set("width", "0")
	pmap.Set("height", "0")
	pmap.Set("page-break-before", "auto")
	pmap.Set("page-break-after", "auto")
	for _, dir := range fourDirs {
		pmap.Set("margin-"+dir, "0")
		pmap.Set("padding-"+dir, "0")
		pmap.Set("border-"+dir+"-width", "0")
		pmap.Set("border-"+dir+"-style", "none")
	}
	return &CalculatedStyle{props: pmap}
}

// ForcedHidden returns the shared style instance for boxes which must not
// participate in normal flow. Every call returns the identical instance,
// allowing clients to check for it by reference (see IsForcedHidden).
// Its visibility always resolves to "hidden" and its box edges to zero.
func ForcedHidden() *CalculatedStyle {
	return forcedHidden
}

// IsForcedHidden returns true if cs is the shared forced-hidden style.
func (cs *CalculatedStyle) IsForcedHidden() bool {
	return cs == forcedHidden
}
