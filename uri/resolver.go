package uri

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedScheme is returned when loading a resource with a URI scheme
// the resolver cannot handle.
var ErrUnsupportedScheme = errors.New("unsupported URI scheme")

// archiveSeparator separates the archive URI from the path within the archive.
const archiveSeparator = "!/"

// Resolver resolves relative references and loads resources.
type Resolver struct {
	catalog      *Catalog
	client       *http.Client
	allowNetwork bool
	maxSize      int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCatalog lets the resolver consult a catalog before resolving.
func WithCatalog(c *Catalog) Option {
	return func(r *Resolver) {
		r.catalog = c
	}
}

// WithNetwork enables loading of http and https resources.
func WithNetwork(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.allowNetwork = true
		r.client = &http.Client{Timeout: timeout}
	}
}

// WithMaxSize limits the size of loaded resources.
func WithMaxSize(n int64) Option {
	return func(r *Resolver) {
		r.maxSize = n
	}
}

// NewResolver creates a resolver. Without options, it resolves references
// and loads resources from the local file system, data URIs and local jar
// archives.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{maxSize: 64 << 20}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a possibly-relative reference against a base URI.
//
// If ref is already absolute, it is returned as-is, regardless of base.
// If base is a nested archive URI (scheme:outer!/inner), ref is resolved
// against the innermost path, preserving the outer prefix.
// If a catalog is configured and maps ref, the mapped URI is returned.
func (r *Resolver) Resolve(base, ref string) (string, error) {
	if r != nil && r.catalog != nil {
		if mapped, ok := r.catalog.ResolveURI(ref); ok {
			tracer().Debugf("catalog maps %s to %s", ref, mapped)
			return mapped, nil
		}
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("malformed reference %q: %w", ref, err)
	}
	if refURL.IsAbs() || base == "" {
		return ref, nil
	}
	if i := strings.LastIndex(base, archiveSeparator); i >= 0 {
		outer, inner := base[:i+1], base[i+1:]
		innerURL, err := url.Parse(inner)
		if err != nil {
			return "", fmt.Errorf("malformed base %q: %w", base, err)
		}
		return outer + innerURL.ResolveReference(refURL).String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("malformed base %q: %w", base, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// Load reads the resource addressed by an absolute URI or a file path.
// Supported are file paths, file:, data:, http(s): (if enabled) and jar:
// URIs wrapping one of these.
func (r *Resolver) Load(ctx context.Context, uri string) ([]byte, error) {
	if i := strings.LastIndex(uri, archiveSeparator); i >= 0 && strings.HasPrefix(uri, "jar:") {
		archive, err := r.Load(ctx, strings.TrimPrefix(uri[:i], "jar:"))
		if err != nil {
			return nil, err
		}
		return r.fromArchive(archive, uri[i+len(archiveSeparator):])
	}
	u, err := url.Parse(uri)
	if err != nil || len(u.Scheme) <= 1 { // treat drive letters as paths
		return r.readFile(uri)
	}
	switch u.Scheme {
	case "file":
		return r.readFile(filepath.FromSlash(u.Path))
	case "data":
		return decodeDataURI(uri)
	case "http", "https":
		if !r.allowNetwork {
			return nil, fmt.Errorf("%w: network access disabled for %s", ErrUnsupportedScheme, uri)
		}
		return r.fetch(ctx, uri)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

func (r *Resolver) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.readLimited(f, path)
}

func (r *Resolver) readLimited(rd io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rd, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("resource %s exceeds %d bytes", name, r.maxSize)
	}
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, uri)
	}
	return r.readLimited(resp.Body, uri)
}

func (r *Resolver) fromArchive(archive []byte, entry string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	entry = strings.TrimPrefix(entry, "/")
	f, err := zr.Open(entry)
	if err != nil {
		return nil, fmt.Errorf("archive entry %s: %w", entry, err)
	}
	defer f.Close()
	return r.readLimited(f, entry)
}

// decodeDataURI decodes RFC 2397 data URIs.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI: %w", err)
	}
	return []byte(s), nil
}
