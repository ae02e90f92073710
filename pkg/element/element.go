package element

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Element is a placeable template element. The common attributes apply to
// every kind; exactly one payload pointer matching Kind is populated (none
// for rectangles and ellipses).
//
// Fields are exported so the element can be persisted field-for-field. Writing
// them directly bypasses change tracking; editors should go through [Element.Set].
type Element struct {
	ID   string `json:"id" bson:"id"`
	Kind Kind   `json:"kind" bson:"kind"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Rotation float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
	ZIndex   int     `json:"z_index" bson:"z_index"`

	Style Style `json:"style" bson:"style"`
	Font  *Font `json:"font,omitempty" bson:"font,omitempty"`

	Text       *TextContent      `json:"text,omitempty" bson:"text,omitempty"`
	Image      *ImageSource      `json:"image,omitempty" bson:"image,omitempty"`
	Line       *LinePoints       `json:"line,omitempty" bson:"line,omitempty"`
	Table      *Table            `json:"table,omitempty" bson:"table,omitempty"`
	Barcode    *BarcodeData      `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Signature  *SignatureBlock   `json:"signature,omitempty" bson:"signature,omitempty"`
	AutoNumber *AutoNumberFormat `json:"autonumber,omitempty" bson:"autonumber,omitempty"`
	LabelInput *LabelInput       `json:"labelinput,omitempty" bson:"labelinput,omitempty"`

	// Attributes hold the values of properties contributed by registered
	// variants; built-in kinds leave it empty.
	Attributes map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Style holds the appearance attributes shared by all kinds.
// Colours are hex strings ("#rrggbb"); an empty colour means none.
type Style struct {
	Background   string  `json:"background,omitempty" bson:"background,omitempty"`
	BorderColor  string  `json:"border_color,omitempty" bson:"border_color,omitempty"`
	BorderWidth  float64 `json:"border_width,omitempty" bson:"border_width,omitempty"`
	ShadowColor  string  `json:"shadow_color,omitempty" bson:"shadow_color,omitempty"`
	ShadowWidth  float64 `json:"shadow_width,omitempty" bson:"shadow_width,omitempty"`
	CornerRadius float64 `json:"corner_radius,omitempty" bson:"corner_radius,omitempty"`
	Opacity      float64 `json:"opacity" bson:"opacity"`
	Visible      bool    `json:"visible" bson:"visible"`
}

// Font holds typography settings.
type Font struct {
	Family           string    `json:"family" bson:"family"`
	Size             float64   `json:"size" bson:"size"`
	Weight           string    `json:"weight,omitempty" bson:"weight,omitempty"`
	Style            string    `json:"style,omitempty" bson:"style,omitempty"`
	Foreground       string    `json:"foreground,omitempty" bson:"foreground,omitempty"`
	HAlign           Alignment `json:"h_align,omitempty" bson:"h_align,omitempty"`
	VAlign           Alignment `json:"v_align,omitempty" bson:"v_align,omitempty"`
	IgnoreGlobalSize bool      `json:"ignore_global_size,omitempty" bson:"ignore_global_size,omitempty"`
}

// EffectiveSize returns the font size after applying a template-wide size.
// A global size of 0 means unset.
func (f *Font) EffectiveSize(global float64) float64 {
	if f == nil {
		return global
	}
	if global > 0 && !f.IgnoreGlobalSize {
		return global
	}
	return f.Size
}

// TextContent is the payload of text and label elements.
type TextContent struct {
	Content  string `json:"content" bson:"content"`
	WordWrap bool   `json:"word_wrap,omitempty" bson:"word_wrap,omitempty"`
}

// ImageSource is the payload of image elements.
type ImageSource struct {
	Source  string  `json:"source" bson:"source"`
	Stretch Stretch `json:"stretch" bson:"stretch"`
}

// LinePoints is the payload of line elements. Points are relative to the
// element origin.
type LinePoints struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// BarcodeData is the payload of barcode elements.
type BarcodeData struct {
	Symbology Symbology `json:"symbology" bson:"symbology"`
	Value     string    `json:"value" bson:"value"`
	ShowText  bool      `json:"show_text,omitempty" bson:"show_text,omitempty"`
}

// SignatureBlock is the payload of signature elements.
type SignatureBlock struct {
	Signer   string `json:"signer,omitempty" bson:"signer,omitempty"`
	Caption  string `json:"caption,omitempty" bson:"caption,omitempty"`
	ShowDate bool   `json:"show_date,omitempty" bson:"show_date,omitempty"`
}

// AutoNumberFormat is the payload of auto-number elements. The n-th printed
// value is Start + n*Step, zero padded to Digits.
type AutoNumberFormat struct {
	Prefix string `json:"prefix,omitempty" bson:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty" bson:"suffix,omitempty"`
	Start  int    `json:"start" bson:"start"`
	Step   int    `json:"step" bson:"step"`
	Digits int    `json:"digits,omitempty" bson:"digits,omitempty"`
}

// LabelInput is the payload of the label + input composite.
type LabelInput struct {
	Label       string  `json:"label" bson:"label"`
	Value       string  `json:"value,omitempty" bson:"value,omitempty"`
	Placeholder string  `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	LabelWidth  float64 `json:"label_width" bson:"label_width"`
	Binding     string  `json:"binding,omitempty" bson:"binding,omitempty"`
}

// NewID returns a fresh element identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of e with a new identity.
func (e *Element) Clone() *Element {
	c := e.Copy()
	c.ID = NewID()
	return c
}

// Copy returns a deep copy of e that keeps its identity. It is meant for
// snapshots; a copy must not be added to a template alongside the original.
func (e *Element) Copy() *Element {
	c := *e
	if e.Font != nil {
		f := *e.Font
		c.Font = &f
	}
	if e.Text != nil {
		v := *e.Text
		c.Text = &v
	}
	if e.Image != nil {
		v := *e.Image
		c.Image = &v
	}
	if e.Line != nil {
		v := *e.Line
		c.Line = &v
	}
	if e.Table != nil {
		c.Table = e.Table.Clone()
	}
	c.Attributes = maps.Clone(e.Attributes)
	if e.Barcode != nil {
		v := *e.Barcode
		c.Barcode = &v
	}
	if e.Signature != nil {
		v := *e.Signature
		c.Signature = &v
	}
	if e.AutoNumber != nil {
		v := *e.AutoNumber
		c.AutoNumber = &v
	}
	if e.LabelInput != nil {
		v := *e.LabelInput
		c.LabelInput = &v
	}
	return &c
}

// Bounds returns the element rectangle as x, y, width, height.
func (e *Element) Bounds() (x, y, w, h float64) {
	return e.X, e.Y, e.Width, e.Height
}

// Contains reports whether the point (px, py) lies inside the element's
// unrotated bounds.
func (e *Element) Contains(px, py float64) bool {
	return px >= e.X && px <= e.X+e.Width && py >= e.Y && py <= e.Y+e.Height
}

// Properties returns the property names recognized for kind, sorted.
func Properties(kind Kind) []string {
	props, _ := propertiesOf(kind)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasProperty reports whether kind recognizes the property name.
func HasProperty(kind Kind, name string) bool {
	_, ok := lookupProperty(kind, name)
	return ok
}

// payload returns *p. When it is nil a default from def is returned; it is
// installed only when write is set, so reads never change the element.
func payload[T any](p **T, write bool, def func() *T) *T {
	if *p != nil {
		return *p
	}
	v := def()
	if write {
		*p = v
	}
	return v
}

func (e *Element) font(write bool) *Font {
	return payload(&e.Font, write, defaultFont)
}

func (e *Element) text(write bool) *TextContent {
	return payload(&e.Text, write, func() *TextContent { return &TextContent{} })
}

func (e *Element) image(write bool) *ImageSource {
	return payload(&e.Image, write, func() *ImageSource { return &ImageSource{Stretch: StretchNone} })
}

func (e *Element) line(write bool) *LinePoints {
	return payload(&e.Line, write, func() *LinePoints { return &LinePoints{} })
}

func (e *Element) table(write bool) *Table {
	return payload(&e.Table, write, func() *Table { return &Table{} })
}

func (e *Element) barcode(write bool) *BarcodeData {
	return payload(&e.Barcode, write, func() *BarcodeData { return &BarcodeData{Symbology: SymbologyCode128} })
}

func (e *Element) signature(write bool) *SignatureBlock {
	return payload(&e.Signature, write, func() *SignatureBlock { return &SignatureBlock{} })
}

func (e *Element) autoNumber(write bool) *AutoNumberFormat {
	return payload(&e.AutoNumber, write, func() *AutoNumberFormat { return &AutoNumberFormat{Step: 1} })
}

func (e *Element) labelInput(write bool) *LabelInput {
	return payload(&e.LabelInput, write, func() *LabelInput { return &LabelInput{} })
}
