package main

import (
	"fmt"

	"github.com/npillmayer/pagebox"
	"github.com/npillmayer/pagebox/boxtree"
	"github.com/xlab/treeprint"
)

// dumpPages lists the pages of a rendered document. Boxes are nested as in
// the box tree, restricted to the boxes starting on a page.
func dumpPages(out *pagebox.Output) string {
	t := out.Tree
	root := treeprint.New()
	for _, page := range out.Pages {
		pb := root.AddBranch(page.String())
		if len(page.Continued) > 0 {
			cont := pb.AddBranch("continued")
			for _, id := range page.Continued {
				cont.AddNode(t.Box(id).String())
			}
		}
		for _, r := range page.Headers {
			pb.AddNode(fmt.Sprintf("header %s at %+.2f,%+.2f", t.Box(r.Group), r.DX, r.DY))
		}
		branches := make(map[boxtree.ID]treeprint.Tree, len(page.Boxes))
		for _, id := range page.Boxes {
			b := t.Box(id)
			parent, ok := branches[b.Parent]
			if !ok {
				parent = pb
			}
			branches[id] = parent.AddBranch(label(out, b))
		}
		for _, l := range page.Lines {
			pb.AddNode(fmt.Sprintf("lines %d…%d of %s", l.From, l.To, t.Box(l.Box)))
		}
		for _, r := range page.Footers {
			pb.AddNode(fmt.Sprintf("footer %s at %+.2f,%+.2f", t.Box(r.Group), r.DX, r.DY))
		}
	}
	return root.String()
}

func label(out *pagebox.Output, b *boxtree.Box) string {
	s := b.String() + " " + b.BorderBox().String()
	if c, ok := out.Contents[b.ID]; ok {
		s += " [" + c.Key + "]"
	}
	return s
}
