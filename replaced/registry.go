package replaced

import (
	"image"
	"sync"

	"github.com/npillmayer/pagebox/boxtree"
)

// Content is the drawable result for a replaced box.
type Content struct {
	Key           string
	Width, Height float64     // in points
	Image         image.Image // rasterized content; nil for placeholders
	Placeholder   bool
}

// Drawer produces the content of replaced boxes. Drawers have to be safe for
// concurrent use.
type Drawer interface {
	// IntrinsicSize returns the natural size of the content in points, if
	// there is one.
	IntrinsicSize(box *boxtree.Box) (w, h float64, ok bool)
	// Draw produces the content for a box, scaled to w × h points.
	Draw(box *boxtree.Box, w, h float64) (Content, error)
}

// Registry maps content-type keys to drawers. Keys are case-sensitive.
type Registry struct {
	mu      sync.RWMutex
	drawers map[string]Drawer
	frozen  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{drawers: make(map[string]Drawer)}
}

// Register sets the drawer for a key. A later registration for the same key
// replaces an earlier one. After Freeze, Register is a no-op.
func (r *Registry) Register(key string, d Drawer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		tracer().Infof("registry is frozen, ignoring drawer for %q", key)
		return
	}
	if _, ok := r.drawers[key]; ok {
		tracer().Debugf("replacing drawer for %q", key)
	}
	r.drawers[key] = d
}

// Freeze ends the configuration phase.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the drawer for a key.
func (r *Registry) Lookup(key string) (Drawer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drawers[key]
	return d, ok
}

// Keys returns the registered keys, unordered.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.drawers))
	for k := range r.drawers {
		keys = append(keys, k)
	}
	return keys
}

// IntrinsicSize asks the drawer for key for the natural size of a box.
func (r *Registry) IntrinsicSize(box *boxtree.Box, key string) (w, h float64, ok bool) {
	d, found := r.Lookup(key)
	if !found {
		return 0, 0, false
	}
	return d.IntrinsicSize(box)
}

// Render draws the content of a replaced box. If no drawer is registered for
// key, or the drawer fails, a placeholder is returned.
func (r *Registry) Render(box *boxtree.Box, key string, w, h float64) Content {
	d, ok := r.Lookup(key)
	if !ok {
		tracer().Infof("no drawer for %q, using placeholder for %s", key, box)
		return Placeholder(key, w, h)
	}
	c, err := d.Draw(box, w, h)
	if err != nil {
		tracer().Infof("drawing %s failed, using placeholder: %v", box, err)
		return Placeholder(key, w, h)
	}
	c.Key = key
	return c
}

// Placeholder creates placeholder content.
func Placeholder(key string, w, h float64) Content {
	return Content{Key: key, Width: max(0, w), Height: max(0, h), Placeholder: true}
}
