package uri

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Catalog is an OASIS XML catalog, mapping public identifiers, system
// identifiers and URIs to alternative URIs.
//
// See https://www.oasis-open.org/committees/download.php/14809/xml-catalogs.html
//
// A catalog is loaded once and read-only afterwards; it is safe for
// concurrent use.
type Catalog struct {
	public        map[string]string
	system        map[string]string
	uris          map[string]string
	rewriteSystem []rewrite
	rewriteURI    []rewrite
}

type rewrite struct {
	prefix, replacement string
}

// LoadCatalogFile loads a catalog from an XML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f, "file://"+path)
}

// LoadCatalog reads a catalog in OASIS XML format. Relative URIs of catalog
// entries are resolved against base, respecting xml:base attributes.
// Entries nextCatalog and delegate* are not supported and will be skipped.
func LoadCatalog(r io.Reader, base string) (*Catalog, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "catalog" {
		return nil, fmt.Errorf("reading catalog: missing <catalog> root element")
	}
	c := &Catalog{
		public: make(map[string]string),
		system: make(map[string]string),
		uris:   make(map[string]string),
	}
	type pending struct {
		el   *etree.Element
		base string
	}
	stack := []pending{{root, base}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, el := range p.el.ChildElements() {
			elBase := p.base
			if xb := el.SelectAttrValue("xml:base", ""); xb != "" {
				elBase = resolveAgainst(p.base, xb)
			}
			target := func(key string) string {
				return resolveAgainst(elBase, el.SelectAttrValue(key, ""))
			}
			switch el.Tag {
			case "public":
				c.public[normalizePublicID(el.SelectAttrValue("publicId", ""))] = target("uri")
			case "system":
				c.system[el.SelectAttrValue("systemId", "")] = target("uri")
			case "uri":
				c.uris[el.SelectAttrValue("name", "")] = target("uri")
			case "rewriteSystem":
				c.rewriteSystem = append(c.rewriteSystem, rewrite{
					el.SelectAttrValue("systemIdStartString", ""), target("rewritePrefix"),
				})
			case "rewriteURI":
				c.rewriteURI = append(c.rewriteURI, rewrite{
					el.SelectAttrValue("uriStartString", ""), target("rewritePrefix"),
				})
			case "group":
				stack = append(stack, pending{el, elBase})
			default:
				tracer().Debugf("catalog entry <%s> not supported", el.Tag)
			}
		}
	}
	// longest prefix wins
	for _, rw := range [][]rewrite{c.rewriteSystem, c.rewriteURI} {
		sort.SliceStable(rw, func(i, j int) bool { return len(rw[i].prefix) > len(rw[j].prefix) })
	}
	tracer().Debugf("catalog loaded: %d public, %d system, %d uri entries",
		len(c.public), len(c.system), len(c.uris))
	return c, nil
}

// ResolvePublic maps a public identifier.
func (c *Catalog) ResolvePublic(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	u, ok := c.public[normalizePublicID(id)]
	return u, ok
}

// ResolveSystem maps a system identifier.
func (c *Catalog) ResolveSystem(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	if u, ok := c.system[id]; ok {
		return u, true
	}
	return applyRewrite(c.rewriteSystem, id)
}

// ResolveURI maps a URI.
func (c *Catalog) ResolveURI(uri string) (string, bool) {
	if c == nil {
		return "", false
	}
	if u, ok := c.uris[uri]; ok {
		return u, true
	}
	return applyRewrite(c.rewriteURI, uri)
}

func applyRewrite(rules []rewrite, s string) (string, bool) {
	for _, rw := range rules {
		if rw.prefix != "" && strings.HasPrefix(s, rw.prefix) {
			return rw.replacement + strings.TrimPrefix(s, rw.prefix), true
		}
	}
	return "", false
}

// normalizePublicID collapses white space, as required for public identifiers.
func normalizePublicID(id string) string {
	return strings.Join(strings.Fields(id), " ")
}

func resolveAgainst(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
