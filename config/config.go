package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/style/css"
	"github.com/spf13/viper"
)

// ErrInvalid is returned for settings which cannot be interpreted.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of a rendering engine.
type Config struct {
	Page      PageConfig      `mapstructure:"page"`
	Text      TextConfig      `mapstructure:"text"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Fonts     FontsConfig     `mapstructure:"fonts"`
	Resources ResourcesConfig `mapstructure:"resources"`
	// Workers limits the number of documents rendered in parallel.
	Workers int `mapstructure:"workers"`
}

// PageConfig describes the default page. @page rules of a document take
// precedence.
type PageConfig struct {
	Size   string `mapstructure:"size"`   // e.g. "A4", "letter landscape", "210mm 297mm"
	Margin string `mapstructure:"margin"` // margin shorthand, e.g. "2cm 1.5cm"
}

// TextConfig holds text defaults.
type TextConfig struct {
	FontSize string `mapstructure:"font_size"`
}

// LimitsConfig bounds the resources used for a document.
type LimitsConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
	MaxBoxes int `mapstructure:"max_boxes"`
}

// FontsConfig names TrueType font files. If Regular is empty, built-in
// metrics are used.
type FontsConfig struct {
	Regular    string `mapstructure:"regular"`
	Bold       string `mapstructure:"bold"`
	Italic     string `mapstructure:"italic"`
	BoldItalic string `mapstructure:"bold_italic"`
	Monospace  string `mapstructure:"monospace"`
}

// ResourcesConfig controls how images and other resources are located.
type ResourcesConfig struct {
	Catalog   string `mapstructure:"catalog"`    // OASIS XML catalog file
	AllowHTTP bool   `mapstructure:"allow_http"` // fetch http(s) resources
	Timeout   string `mapstructure:"timeout"`    // for http(s) requests
	MaxSize   int64  `mapstructure:"max_size"`   // bytes per resource
}

// SetDefaults sets the default values of all settings.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("page.size", "A4")
	v.SetDefault("page.margin", "2cm")
	v.SetDefault("text.font_size", "12pt")
	v.SetDefault("limits.max_depth", 512)
	v.SetDefault("limits.max_boxes", 1<<20)
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")
	v.SetDefault("fonts.monospace", "")
	v.SetDefault("resources.catalog", "")
	v.SetDefault("resources.allow_http", false)
	v.SetDefault("resources.timeout", "30s")
	v.SetDefault("resources.max_size", 32<<20)
	v.SetDefault("workers", 4)
}

// New creates a viper instance with defaults, reading environment variables
// with prefix PAGEBOX_.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("PAGEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the default configuration, overridden by environment
// variables.
func Default() *Config {
	c, err := FromViper(New())
	if err != nil {
		tracer().Errorf("defaults: %v", err)
		return &Config{Page: PageConfig{Size: "A4"}}
	}
	return c
}

// Load reads a configuration file. An empty path reads defaults and
// environment variables only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		tracer().Infof("configuration read from %s", v.ConfigFileUsed())
	}
	return FromViper(v)
}

// FromViper extracts and validates a configuration.
func FromViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that all settings can be interpreted.
func (c *Config) Validate() error {
	if _, _, err := c.PageSize(); err != nil {
		return err
	}
	if _, err := c.PageMargins(); err != nil {
		return err
	}
	if _, err := c.FontSize(); err != nil {
		return err
	}
	if c.Limits.MaxDepth < 0 || c.Limits.MaxBoxes < 0 {
		return fmt.Errorf("%w: negative limits", ErrInvalid)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalid)
	}
	return nil
}

// PageSize returns the page dimensions in points.
func (c *Config) PageSize() (w, h float64, err error) {
	w, h, err = css.ParsePageSize(style.Property(c.Page.Size))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page.size: %v", ErrInvalid, err)
	}
	return w, h, nil
}

// PageMargins returns the page margins in points, ordered top, right,
// bottom, left.
func (c *Config) PageMargins() ([4]float64, error) {
	return ParseMargins(c.Page.Margin)
}

// FontSize returns the default font size in points.
func (c *Config) FontSize() (float64, error) {
	return absLength(c.Text.FontSize)
}

// ContentArea returns the size of the page area available for content.
func (c *Config) ContentArea() (w, h float64, err error) {
	if w, h, err = c.PageSize(); err != nil {
		return 0, 0, err
	}
	m, err := c.PageMargins()
	if err != nil {
		return 0, 0, err
	}
	return max(0, w-m[css.Left]-m[css.Right]), max(0, h-m[css.Top]-m[css.Bottom]), nil
}

// ParseMargins interprets a CSS margin shorthand of one to four absolute
// lengths.
func ParseMargins(s string) ([4]float64, error) {
	var m [4]float64
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return m, nil
	}
	if len(fields) > 4 {
		return m, fmt.Errorf("%w: margin %q", ErrInvalid, s)
	}
	var v [4]float64
	for i, f := range fields {
		x, err := absLength(f)
		if err != nil {
			return m, err
		}
		v[i] = x
	}
	switch len(fields) {
	case 1:
		m = [4]float64{v[0], v[0], v[0], v[0]}
	case 2:
		m = [4]float64{v[0], v[1], v[0], v[1]}
	case 3:
		m = [4]float64{v[0], v[1], v[2], v[1]}
	case 4:
		m = v
	}
	return m, nil
}

func absLength(s string) (float64, error) {
	if s == "0" {
		return 0, nil
	}
	d, err := css.ParseDimen(style.Property(s))
	if err != nil || !d.IsAbsolute() {
		return 0, fmt.Errorf("%w: length %q", ErrInvalid, s)
	}
	x := css.DUToPoints(d.Unwrap())
	if x < 0 {
		return 0, fmt.Errorf("%w: negative length %q", ErrInvalid, s)
	}
	return x, nil
}
