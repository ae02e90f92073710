package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/layout"
	"github.com/matzehuels/formwork/pkg/store"
	"github.com/matzehuels/formwork/pkg/template"
)

// Config is the contents of config.toml.
//
//	[page]
//	size = "A4"
//	orientation = "portrait"
//	margin = 36
//
//	[layout]
//	distribution = "proportional"
//	min_column_width = 8
//
//	[store]
//	backend = "file"
//	dir = "~/.config/formwork/templates"
//
//	[store.redis]
//	addr = "localhost:6379"
type Config struct {
	Page   PageConfig     `toml:"page"`
	Layout layout.Options `toml:"layout"`
	Store  store.Config   `toml:"store"`

	// Measurer selects the text measurer for layout: "font" or "rune".
	Measurer string `toml:"measurer"`
}

// PageConfig holds the defaults for new templates.
type PageConfig struct {
	Size        string               `toml:"size"`
	Orientation template.Orientation `toml:"orientation"`
	Margin      float64              `toml:"margin"`
}

// Measurers accepted in Config.Measurer.
const (
	MeasurerFont = "font"
	MeasurerRune = "rune"
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Page.Size == "" {
		c.Page.Size = template.A4.Name
	}
	if c.Page.Orientation == "" {
		c.Page.Orientation = template.Portrait
	}
	if c.Page.Margin == 0 {
		c.Page.Margin = 36
	}
	if c.Measurer == "" {
		c.Measurer = MeasurerFont
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendFile
	}
	c.Layout.SetDefaults()
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if _, ok := template.LookupPageSize(c.Page.Size); !ok {
		return ferrors.Invalid("config", "page.size", "unknown page size %q", c.Page.Size)
	}
	if c.Page.Orientation != template.Portrait && c.Page.Orientation != template.Landscape {
		return ferrors.Invalid("config", "page.orientation", "unknown orientation %q", c.Page.Orientation)
	}
	if err := ferrors.NonNegative("config", "page.margin", c.Page.Margin); err != nil {
		return err
	}
	if c.Measurer != MeasurerFont && c.Measurer != MeasurerRune {
		return ferrors.Invalid("config", "measurer", "unknown measurer %q", c.Measurer)
	}
	return c.Layout.Validate()
}

// measurer returns the configured text measurer.
func (c *Config) measurer() layout.Measurer {
	if c.Measurer == MeasurerRune {
		return layout.NewRuneMeasurer()
	}
	return layout.NewFontMeasurer(nil)
}

// LoadConfig reads the TOML file at path. A missing file yields the
// defaults unless required is set. Unknown keys are rejected so typos do not
// pass silently.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return DefaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	if cfg.Store.Dir != "" {
		cfg.Store.Dir = expandHome(cfg.Store.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
