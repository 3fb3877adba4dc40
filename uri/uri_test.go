package uri

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNestedArchive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.uri")
	defer teardown()
	//
	r := NewResolver()
	for _, tc := range []struct{ base, ref, expected string }{
		{"jar:http://host/a.jar!/", "logo.png", "jar:http://host/a.jar!/logo.png"},
		{"jar:http://host/a.jar!/img/", "../logo.png", "jar:http://host/a.jar!/logo.png"},
		{"jar:file:/x/a.zip!/doc/index.html", "pic.gif", "jar:file:/x/a.zip!/doc/pic.gif"},
		{"http://example.com/", "http://other.com/x.png", "http://other.com/x.png"},
		{"jar:http://host/a.jar!/", "https://other.com/x.png", "https://other.com/x.png"},
		{"http://example.com/a/b.html", "c.png", "http://example.com/a/c.png"},
		{"", "c.png", "c.png"},
	} {
		res, err := r.Resolve(tc.base, tc.ref)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, res, "resolve(%q, %q)", tc.base, tc.ref)
	}
}

const testCatalog = `<?xml version="1.0"?>
<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
  <public publicId="-//W3C//DTD XHTML 1.0 Strict//EN" uri="dtd/xhtml1-strict.dtd"/>
  <system systemId="http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd" uri="dtd/xhtml1-strict.dtd"/>
  <group xml:base="http://mirror.example.org/">
    <uri name="http://example.com/logo.png" uri="images/logo.png"/>
  </group>
  <rewriteURI uriStartString="http://cdn.example.com/" rewritePrefix="file:///var/cdn/"/>
  <nextCatalog catalog="other.xml"/>
</catalog>`

func TestCatalog(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.uri")
	defer teardown()
	//
	c, err := LoadCatalog(strings.NewReader(testCatalog), "file:///etc/xml/catalog.xml")
	require.NoError(t, err)
	u, ok := c.ResolvePublic("-//W3C//DTD   XHTML 1.0 Strict//EN")
	assert.True(t, ok)
	assert.Equal(t, "file:///etc/xml/dtd/xhtml1-strict.dtd", u)
	u, ok = c.ResolveSystem("http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd")
	assert.True(t, ok)
	assert.Equal(t, "file:///etc/xml/dtd/xhtml1-strict.dtd", u)
	u, ok = c.ResolveURI("http://example.com/logo.png")
	assert.True(t, ok)
	assert.Equal(t, "http://mirror.example.org/images/logo.png", u)
	u, ok = c.ResolveURI("http://cdn.example.com/a/b.css")
	assert.True(t, ok)
	assert.Equal(t, "file:///var/cdn/a/b.css", u)
	_, ok = c.ResolveURI("http://unknown.org/")
	assert.False(t, ok)
	//
	r := NewResolver(WithCatalog(c))
	res, err := r.Resolve("http://base/", "http://example.com/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "http://mirror.example.org/images/logo.png", res)
	//
	_, err = LoadCatalog(strings.NewReader(`<notacatalog/>`), "")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "pagebox.uri")
	defer teardown()
	//
	dir := t.TempDir()
	plain := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello"), 0o600))
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("img/inner.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("inner"))
	require.NoError(t, zw.Close())
	archive := filepath.Join(dir, "a.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o600))
	//
	r := NewResolver()
	ctx := context.Background()
	data, err := r.Load(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	data, err = r.Load(ctx, "file://"+filepath.ToSlash(plain))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	data, err = r.Load(ctx, "jar:file://"+filepath.ToSlash(archive)+"!/img/inner.txt")
	require.NoError(t, err)
	assert.Equal(t, "inner", string(data))
	data, err = r.Load(ctx, "data:text/plain;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	_, err = r.Load(ctx, "http://example.com/x.png")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = r.Load(ctx, "gopher://x")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}
