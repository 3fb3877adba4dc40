package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/pagebox"
	"github.com/npillmayer/pagebox/config"
	"github.com/npillmayer/pagebox/dom"
	"github.com/npillmayer/pagebox/dom/domdbg"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

type options struct {
	configFile string
	css        []string
	pageSize   string
	boxes      bool
	styled     []string
	dot        string
	selectors  []string
	trace      string
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "pagedump [flags] file.html ...",
		Short: "Render HTML documents and dump their pages",
		Args:  cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupTracing(opts.trace)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file (YAML, TOML or JSON)")
	flags.StringArrayVar(&opts.css, "css", nil, "author stylesheet, may be repeated")
	flags.StringVar(&opts.pageSize, "page-size", "", `page size, e.g. "A5 landscape"`)
	flags.BoolVar(&opts.boxes, "boxes", false, "print the laid out box tree")
	flags.StringSliceVar(&opts.styled, "styled", nil, "print the styled tree with the given properties")
	flags.Lookup("styled").NoOptDefVal = "display"
	flags.StringVar(&opts.dot, "dot", "", "write the styled tree in GraphViz format to a file")
	flags.StringArrayVar(&opts.selectors, "select", nil, `print the text of elements, "#id" or a tag name`)
	flags.StringVar(&opts.trace, "trace", "error", "trace level: error, info or debug")
	return cmd
}

func setupTracing(level string) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	tracing.Select("pagebox").SetTraceLevel(tracing.TraceLevelFromString(level))
}

func run(ctx context.Context, w io.Writer, opts options, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.pageSize != "" {
		cfg.Page.Size = opts.pageSize
	}
	var sheets []cssom.StyleSheet
	for _, name := range opts.css {
		src, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		sheet, err := douceuradapter.Parse(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sheets = append(sheets, sheet)
	}
	outs, err := render(ctx, cfg, sheets, files)
	if err != nil {
		return err
	}
	for i, out := range outs {
		fmt.Fprintf(w, "%s: %d pages of %.2f×%.2fpt\n", files[i], len(out.Pages), out.PageSize[0], out.PageSize[1])
		if len(opts.styled) > 0 {
			fmt.Fprintln(w, domdbg.StyledTreeString(out.Styled, opts.styled...))
		}
		if opts.boxes {
			fmt.Fprintln(w, out.Tree.Dump(out.Tree.Root(), true))
		}
		for _, sel := range opts.selectors {
			printSelection(w, out.Styled, sel)
		}
		if opts.dot != "" {
			if err := writeDot(dotName(opts.dot, i, len(outs)), out.Styled); err != nil {
				return err
			}
		}
		fmt.Fprint(w, dumpPages(out))
	}
	return nil
}

// render renders files in parallel. Files in the same directory share an
// engine, which resolves relative resource references against it.
func render(ctx context.Context, cfg *config.Config, sheets []cssom.StyleSheet, files []string) ([]*pagebox.Output, error) {
	var dirs []string
	groups := make(map[string][]int)
	for i, name := range files {
		dir, err := filepath.Abs(filepath.Dir(name))
		if err != nil {
			return nil, err
		}
		if _, ok := groups[dir]; !ok {
			dirs = append(dirs, dir)
		}
		groups[dir] = append(groups[dir], i)
	}
	outs := make([]*pagebox.Output, len(files))
	for _, dir := range dirs {
		eng, err := pagebox.New(cfg, pagebox.WithBase(baseURI(dir)))
		if err != nil {
			return nil, err
		}
		docs := make([]pagebox.Document, len(groups[dir]))
		for j, i := range groups[dir] {
			if docs[j].Root, err = readHTML(files[i]); err != nil {
				return nil, err
			}
			docs[j].Sheets = sheets
		}
		rendered, err := eng.RenderAll(ctx, docs)
		if err != nil {
			return nil, err
		}
		for j, i := range groups[dir] {
			outs[i] = rendered[j]
		}
	}
	return outs, nil
}

func baseURI(dir string) string {
	return "file://" + filepath.ToSlash(dir) + "/"
}

// printSelection prints the text content of the elements matching sel.
func printSelection(w io.Writer, root *tree.Node[*styledtree.StyNode], sel string) {
	var nodes []*tree.Node[*styledtree.StyNode]
	if id, ok := strings.CutPrefix(sel, "#"); ok {
		if n := dom.FindByID(root, id); n != nil {
			nodes = append(nodes, n)
		}
	} else {
		nodes = tree.FindAll(root, dom.NodeIsElement(strings.ToLower(sel)))
	}
	if len(nodes) == 0 {
		fmt.Fprintf(w, "%s: no match\n", sel)
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "%s: %q\n", n.Payload, strings.TrimSpace(dom.TextContent(n)))
	}
}

// dotName numbers the DOT files if more than one document is rendered.
func dotName(name string, i, n int) string {
	if n <= 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i+1, ext)
}

func writeDot(name string, root *tree.Node[*styledtree.StyNode]) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := domdbg.ToGraphViz(root, f, nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readHTML(name string) (*html.Node, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return html.Parse(f)
}
