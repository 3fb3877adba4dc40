package pagebox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/config"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/npillmayer/pagebox/dom/style/cssom"
	"github.com/npillmayer/pagebox/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/layout"
	"github.com/npillmayer/pagebox/metrics"
	"github.com/npillmayer/pagebox/paginate"
	"github.com/npillmayer/pagebox/replaced"
	"github.com/npillmayer/pagebox/tree"
	"github.com/npillmayer/pagebox/uri"
	"github.com/npillmayer/tyse/core/dimen"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// ErrMalformedDocument is returned for documents which cannot be styled,
// e.g. a missing root node.
var ErrMalformedDocument = errors.New("malformed document")

// Engine renders documents. It is safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	metrics  metrics.Provider
	drawers  *replaced.Registry
	resolver *uri.Resolver
	base     string
	ua       cssom.StyleSheet
	layout   *layout.Engine
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics sets the font metrics provider.
func WithMetrics(m metrics.Provider) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithDrawers replaces the default drawer registry. The registry is frozen
// when the engine is created.
func WithDrawers(r *replaced.Registry) Option {
	return func(e *Engine) {
		e.drawers = r
	}
}

// WithResolver sets the resolver for images and other resources.
func WithResolver(r *uri.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithBase sets the base URI for relative resource references.
func WithBase(base string) Option {
	return func(e *Engine) {
		e.base = base
	}
}

// New creates an engine. A nil configuration means config.Default().
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		r, err := newResolver(cfg.Resources)
		if err != nil {
			return nil, err
		}
		e.resolver = r
	}
	if e.metrics == nil {
		e.metrics = newMetrics(cfg.Fonts)
	}
	if e.drawers == nil {
		e.drawers = replaced.NewRegistry()
		e.drawers.Register(replaced.ImageKey, replaced.NewImageDrawer(e.resolver, e.base))
		e.drawers.Register(replaced.PieChartKey, replaced.PieChartDrawer{})
	}
	e.drawers.Freeze()
	fs, _ := cfg.FontSize()
	ua, err := douceuradapter.Parse(cssom.UserAgentCSS + fmt.Sprintf("html { font-size: %gpt }\n", fs))
	if err != nil {
		return nil, fmt.Errorf("user agent stylesheet: %w", err)
	}
	e.ua = ua
	e.layout = layout.NewEngine(e.metrics, e.drawers)
	return e, nil
}

func newResolver(rc config.ResourcesConfig) (*uri.Resolver, error) {
	var opts []uri.Option
	if rc.Catalog != "" {
		cat, err := uri.LoadCatalogFile(rc.Catalog)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		opts = append(opts, uri.WithCatalog(cat))
	}
	if rc.AllowHTTP {
		timeout, err := time.ParseDuration(rc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: resources.timeout: %v", config.ErrInvalid, err)
		}
		opts = append(opts, uri.WithNetwork(timeout))
	}
	if rc.MaxSize > 0 {
		opts = append(opts, uri.WithMaxSize(rc.MaxSize))
	}
	return uri.NewResolver(opts...), nil
}

func newMetrics(fc config.FontsConfig) metrics.Provider {
	if fc.Regular == "" {
		return metrics.Basic{}
	}
	return metrics.NewTrueType(metrics.FontFiles{
		Regular:    fc.Regular,
		Bold:       fc.Bold,
		Italic:     fc.Italic,
		BoldItalic: fc.BoldItalic,
		Monospace:  fc.Monospace,
	})
}

// Output is the result of rendering a document.
type Output struct {
	Styled   *tree.Node[*styledtree.StyNode]
	Tree     *boxtree.Tree
	Contents map[boxtree.ID]replaced.Content // drawn replaced content
	Pages    []*paginate.PageBox
	PageSize [2]float64 // width and height of the pages in points
	Margins  [4]float64 // page margins, ordered top, right, bottom, left
}

// Document is a parsed HTML document with additional author stylesheets.
type Document struct {
	Root   *html.Node
	Sheets []cssom.StyleSheet
}

// Render styles, lays out and paginates a document. <style> elements of the
// document are applied before sheets. Cancellation is checked between the
// phases of the pass; a cancelled pass returns no output.
func (e *Engine) Render(ctx context.Context, doc *html.Node, sheets ...cssom.StyleSheet) (*Output, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrMalformedDocument)
	}
	c := cssom.NewCSSOM(cssom.WithInlineStyles(douceuradapter.ParseInline))
	if err := c.AddStyleSheet(e.ua, cssom.UserAgent); err != nil {
		return nil, err
	}
	embedded, err := douceuradapter.ExtractStyleElements(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cssom.ErrMalformedStylesheet, err)
	}
	for _, sheet := range embedded {
		if err := c.AddStyleSheet(sheet, cssom.Author); err != nil {
			return nil, err
		}
	}
	for _, sheet := range sheets {
		if err := c.AddStyleSheet(sheet, cssom.Author); err != nil {
			return nil, err
		}
	}
	styled, err := c.Style(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bt, err := boxtree.Build(styled, boxtree.Options{
		Replacer: replaced.DefaultReplacer,
		MaxDepth: e.cfg.Limits.MaxDepth,
		MaxBoxes: e.cfg.Limits.MaxBoxes,
	})
	if err != nil {
		tracer().Errorf("building boxes: %v", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := &Output{Styled: styled, Tree: bt}
	out.PageSize, out.Margins = e.pageGeometry(c.PageStyle())
	w := max(0, out.PageSize[0]-out.Margins[css.Left]-out.Margins[css.Right])
	h := max(0, out.PageSize[1]-out.Margins[css.Top]-out.Margins[css.Bottom])
	res := e.layout.Layout(bt, layout.Constraints{Width: w, Height: h})
	out.Contents = res.Contents
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out.Pages = paginate.New(bt, paginate.PageSize{Width: w, Height: h}).All()
	tracer().Infof("rendered %d boxes on %d pages", bt.Len(), len(out.Pages))
	return out, nil
}

// pageGeometry merges @page rules of a document with the configured page.
func (e *Engine) pageGeometry(ps cssom.PageStyle) (size [2]float64, margins [4]float64) {
	size[0], size[1], _ = e.cfg.PageSize()
	if w, h, ok := ps.PageSize(); ok {
		size = [2]float64{w, h}
	}
	margins, _ = e.cfg.PageMargins()
	for i, m := range ps.Margins {
		if m.IsEmpty() {
			continue
		}
		d, err := css.ParseDimen(m)
		if err != nil {
			tracer().Infof("@page margin %q ignored", m)
			continue
		}
		var du dimen.DU
		var pcnt float64
		switch mt := d.Match(); mt {
		case mt.Just(&du):
			margins[i] = max(0, css.DUToPoints(du))
		case mt.Percentage(&pcnt): // of the page width
			margins[i] = max(0, pcnt*size[0]/100)
		case mt.IsKind(css.Auto()):
		default:
			tracer().Infof("@page margin %q ignored", m)
		}
	}
	return size, margins
}

// RenderAll renders documents in parallel, at most cfg.Workers at a time.
// If one document fails, the others are cancelled and the first error is
// returned.
func (e *Engine) RenderAll(ctx context.Context, docs []Document) ([]*Output, error) {
	outs := make([]*Output, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, doc := range docs {
		g.Go(func() error {
			out, err := e.Render(ctx, doc.Root, doc.Sheets...)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
