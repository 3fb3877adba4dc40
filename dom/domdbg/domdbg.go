/*
Package domdbg implements helpers to debug a styled DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
	tp "github.com/xlab/treeprint"
)

// StyledTreeString returns a printable representation of a styled tree.
// For every element, the values of the given style properties are listed.
func StyledTreeString(root *tree.Node[*styledtree.StyNode], keys ...string) string {
	if root == nil {
		return "<empty>"
	}
	type item struct {
		n      *tree.Node[*styledtree.StyNode]
		parent tp.Tree
	}
	p := tp.New()
	stack := []item{{root, p}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		label := describe(it.n.Payload, keys)
		if it.n.ChildCount() == 0 {
			it.parent.AddNode(label)
			continue
		}
		branch := it.parent.AddBranch(label)
		children := it.n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{children[i], branch})
		}
	}
	return p.String()
}

func describe(sn *styledtree.StyNode, keys []string) string {
	if sn.IsText() {
		return fmt.Sprintf("%q", shorten(sn.HTMLNode().Data, 20))
	}
	var b strings.Builder
	b.WriteString(sn.String())
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, sn.Styles().Get(k))
	}
	return b.String()
}

func shorten(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l]) + "…"
	}
	return s
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

var defaultGroups = []string{
	style.PGMargins,
	style.PGPadding,
	style.PGBorder,
	style.PGDisplay,
}

// ToGraphViz outputs a diagram for a styled tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the tree, a Writer, and an optional list of style parameter groups.
// The diagram will include all locally set styles belonging to one of the
// parameter groups.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Margins
//     - Padding
//     - Border
//     - Display
//
func ToGraphViz(root *tree.Node[*styledtree.StyNode], w io.Writer, styleGroups []string) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	names := make(map[*styledtree.StyNode]string, 1024)
	err = tree.Walk(root, func(n *tree.Node[*styledtree.StyNode], depth int) error {
		if err := domNode(n.Payload, w, names, &gparams); err != nil {
			return err
		}
		if parent := n.Parent(); parent != nil && n != root {
			e := edge{node{parent.Payload, names[parent.Payload]}, node{n.Payload, names[n.Payload]}}
			return gparams.EdgeTmpl.Execute(w, e)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

type node struct {
	N    *styledtree.StyNode
	Name string
}

func domNode(n *styledtree.StyNode, w io.Writer, names map[*styledtree.StyNode]string, gparams *graphParamsType) error {
	name := names[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(names)+1)
		names[n] = name
	}
	if err := gparams.NodeTmpl.Execute(w, &node{n, name}); err != nil {
		return err
	}
	if n.IsText() || n.Styles() == nil {
		return nil
	}
	pmap := n.Styles().Properties()
	var prev *style.PropertyGroup
	for _, s := range gparams.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil {
			continue
		}
		if err := gparams.StylegroupTmpl.Execute(w, pg); err != nil {
			return err
		}
		var err error
		if prev == nil {
			err = gparams.PgedgeTmpl.Execute(w, pgedge{name, pg})
		} else {
			err = gparams.PgpgTmpl.Execute(w, []*style.PropertyGroup{prev, pg})
		}
		if err != nil {
			return err
		}
		prev = pg
	}
	return nil
}

type edge struct {
	N1, N2 node
}

type pgedge struct {
	Name      string
	PropGroup *style.PropertyGroup
}

func shortText(n *styledtree.StyNode) string {
	s := "\"\\\"" + shorten(n.HTMLNode().Data, 10) + "\\\"\""
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "\u2423", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [{{ .Fontname }} = "helvetica" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if .N.IsText }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .N.String }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 | printf "pg%p"  }} -> {{ index . 1 | printf "pg%p" }} [dir=none weight=1 style="dashed"] ;
`
