package replaced

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strconv"
	"sync"

	"github.com/npillmayer/pagebox/boxtree"
	"github.com/npillmayer/pagebox/uri"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WEBP decoder
)

// ImageDrawer draws raster images referenced by src (<img>, <embed>) or
// data (<object>) attributes. Decoded images are cached by URI.
type ImageDrawer struct {
	resolver *uri.Resolver
	base     string
	dpi      float64
	mu       sync.RWMutex
	cache    map[string]image.Image
}

// NewImageDrawer creates an image drawer resolving references against a
// base URI.
func NewImageDrawer(resolver *uri.Resolver, base string) *ImageDrawer {
	return &ImageDrawer{
		resolver: resolver,
		base:     base,
		dpi:      96,
		cache:    make(map[string]image.Image),
	}
}

// SetResolution sets the resolution for converting image pixels to points.
// The default is 96 dpi, as for CSS pixels.
func (d *ImageDrawer) SetResolution(dpi float64) {
	if dpi > 0 {
		d.dpi = dpi
	}
}

// IntrinsicSize is part of interface Drawer. HTML width and height
// attributes, given in pixels, take precedence over the image dimensions.
func (d *ImageDrawer) IntrinsicSize(box *boxtree.Box) (float64, float64, bool) {
	pxToPt := 72 / d.dpi
	aw, okw := pixelAttr(box, "width")
	ah, okh := pixelAttr(box, "height")
	if okw && okh {
		return aw * pxToPt, ah * pxToPt, true
	}
	img, err := d.load(box)
	if err != nil {
		tracer().Infof("image for %s: %v", box, err)
		return 0, 0, false
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	switch {
	case okw && w > 0: // keep aspect ratio
		w, h = aw, h*aw/w
	case okh && h > 0:
		w, h = w*ah/h, ah
	}
	return w * pxToPt, h * pxToPt, true
}

// Draw is part of interface Drawer.
func (d *ImageDrawer) Draw(box *boxtree.Box, w, h float64) (Content, error) {
	img, err := d.load(box)
	if err != nil {
		return Content{}, err
	}
	return Content{Width: w, Height: h, Image: img}, nil
}

func (d *ImageDrawer) load(box *boxtree.Box) (image.Image, error) {
	ref, ok := box.Attr("src")
	if !ok {
		ref, ok = box.Attr("data")
	}
	if !ok || ref == "" {
		return nil, fmt.Errorf("no image source")
	}
	u, err := d.resolver.Resolve(d.base, ref)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	img, ok := d.cache[u]
	d.mu.RUnlock()
	if ok {
		return img, nil
	}
	data, err := d.resolver.Load(context.Background(), u)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u, err)
	}
	tracer().Debugf("decoded %s image %s", format, u)
	d.mu.Lock()
	d.cache[u] = img
	d.mu.Unlock()
	return img, nil
}

func pixelAttr(box *boxtree.Box, key string) (float64, bool) {
	v, ok := box.Attr(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
