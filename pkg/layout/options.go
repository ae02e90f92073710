package layout

import (
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// Distribution is the policy for sharing out slack when the columns' content
// widths are narrower than the table.
type Distribution string

const (
	// Proportional grows each auto column in proportion to its content width.
	Proportional Distribution = "proportional"
	// Equal makes the auto columns equally wide where content allows; columns
	// whose content is wider than the equal share keep their content width.
	Equal Distribution = "equal"
	// None keeps content widths and leaves the slack unused.
	None Distribution = "none"
)

// Default option values, in points.
const (
	DefaultMinColumnWidth = 8.0
	DefaultMinRowHeight   = 5.0
	DefaultChoiceChrome   = 18.0
	DefaultCheckBoxSize   = 12.0
)

// Options tune the table layout.
type Options struct {
	// MinColumnWidth and MinRowHeight floor every computed width and height.
	MinColumnWidth float64 `toml:"min_column_width" json:"min_column_width"`
	MinRowHeight   float64 `toml:"min_row_height" json:"min_row_height"`

	// ChoiceChrome is the extra width of a combobox (drop-down button).
	ChoiceChrome float64 `toml:"choice_chrome" json:"choice_chrome"`

	// CheckBoxSize is the side of the square checkbox control.
	CheckBoxSize float64 `toml:"checkbox_size" json:"checkbox_size"`

	Distribution Distribution `toml:"distribution" json:"distribution"`

	// GlobalFontSize overrides element font sizes unless the element opts
	// out. Zero means unset.
	GlobalFontSize float64 `toml:"-" json:"global_font_size,omitempty"`
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	o := Options{}
	o.SetDefaults()
	return o
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.MinColumnWidth <= 0 {
		o.MinColumnWidth = DefaultMinColumnWidth
	}
	if o.MinRowHeight <= 0 {
		o.MinRowHeight = DefaultMinRowHeight
	}
	if o.ChoiceChrome <= 0 {
		o.ChoiceChrome = DefaultChoiceChrome
	}
	if o.CheckBoxSize <= 0 {
		o.CheckBoxSize = DefaultCheckBoxSize
	}
	if o.Distribution == "" {
		o.Distribution = Proportional
	}
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"MinColumnWidth", o.MinColumnWidth},
		{"MinRowHeight", o.MinRowHeight},
		{"ChoiceChrome", o.ChoiceChrome},
		{"CheckBoxSize", o.CheckBoxSize},
	} {
		if err := ferrors.Positive("layout", c.field, c.v); err != nil {
			return err
		}
	}
	if err := ferrors.NonNegative("layout", "GlobalFontSize", o.GlobalFontSize); err != nil {
		return err
	}
	switch o.Distribution {
	case Proportional, Equal, None:
		return nil
	}
	return ferrors.Invalid("layout", "Distribution", "unknown distribution %q", o.Distribution)
}
