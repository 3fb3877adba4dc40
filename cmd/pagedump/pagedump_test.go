package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/config"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestPagedump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"doc.html":    `<html><body><h1 id="title">Title</h1><p>Hello World</p><p class="next">Next page</p></body></html>`,
		"print.css":   `.next { page-break-before: always }`,
		"config.yaml": "page:\n  size: 200pt 300pt\n  margin: 10pt\n",
	})
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--css", filepath.Join(dir, "print.css"),
		"--boxes",
		filepath.Join(dir, "doc.html"),
	})
	require.NoError(t, cmd.Execute())
	dump := out.String()
	t.Log(dump)
	assert.Contains(t, dump, "2 pages of 200.00×300.00pt")
	assert.Contains(t, dump, "page 1")
	assert.Contains(t, dump, "page 2")
	assert.Contains(t, dump, "body", "box tree is printed")
}

func TestPagedumpPageSizeFlag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{"doc.html": `<p>x</p>`})
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--page-size", "A5 landscape", filepath.Join(dir, "doc.html")})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.Contains(out.String(), "1 pages of 595."), out.String())
}

func TestPagedumpErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{"doc.html": `<p>x</p>`})
	for _, args := range [][]string{
		{},
		{filepath.Join(dir, "missing.html")},
		{"--css", filepath.Join(dir, "missing.css"), filepath.Join(dir, "doc.html")},
		{"--page-size", "huge", filepath.Join(dir, "doc.html")},
	} {
		cmd := rootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}

func writePNG(t *testing.T, path string, size int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, size, size))))
}

func TestImagesResolveAgainstTheirDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	doc := `<html><body><img id="pic" src="pic.png"></body></html>`
	a := writeFiles(t, map[string]string{"doc.html": doc})
	b := writeFiles(t, map[string]string{"doc.html": doc})
	writePNG(t, filepath.Join(a, "pic.png"), 40) // 30pt at 96 dpi
	writePNG(t, filepath.Join(b, "pic.png"), 80) // 60pt
	files := []string{filepath.Join(a, "doc.html"), filepath.Join(b, "doc.html"), filepath.Join(a, "doc.html")}
	outs, err := render(context.Background(), config.Default(), nil, files)
	require.NoError(t, err)
	require.Len(t, outs, 3)
	for i, want := range []float64{30, 60, 30} {
		var pic *boxtree.Box
		_ = outs[i].Tree.Walk(outs[i].Tree.Root(), func(box *boxtree.Box, _ int) error {
			if v, ok := box.Attr("id"); ok && v == "pic" {
				pic = box
			}
			return nil
		})
		require.NotNil(t, pic, "document %d", i)
		assert.InDelta(t, want, pic.Content.W, 0.01, "document %d", i)
	}
}

func TestPagedumpStyledTreeAndSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	dir := writeFiles(t, map[string]string{
		"doc.html": `<html><body><h1 id="title">Title</h1><p>one <b>two</b></p><p>three</p></body></html>`,
	})
	dot := filepath.Join(dir, "styled.dot")
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--styled=display,font-weight",
		"--select", "#title", "--select", "P", "--select", "#none",
		"--dot", dot,
		filepath.Join(dir, "doc.html"),
	})
	require.NoError(t, cmd.Execute())
	dump := out.String()
	t.Log(dump)
	assert.Contains(t, dump, "<p> display=block")
	assert.Contains(t, dump, "font-weight=")
	assert.Contains(t, dump, `<h1>: "Title"`)
	assert.Contains(t, dump, `<p>: "one two"`)
	assert.Contains(t, dump, `<p>: "three"`)
	assert.Contains(t, dump, "#none: no match")
	graph, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(graph), "digraph g {"))
}

func TestDotFilesAreNumbered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox")
	defer teardown()
	//
	assert.Equal(t, "tree.dot", dotName("tree.dot", 0, 1))
	assert.Equal(t, "tree-2.dot", dotName("tree.dot", 1, 3))
	assert.Equal(t, "out/tree-1", dotName("out/tree", 0, 2))
}
