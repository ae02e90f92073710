package element

import (
	"slices"
	"sync"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// Category groups variants for toolbox listings.
type Category string

const (
	CategoryText     Category = "text"
	CategoryShape    Category = "shape"
	CategoryData     Category = "data"
	CategoryMedia    Category = "media"
	CategoryFormItem Category = "form"
)

// Variant describes one element kind and how to build it.
type Variant struct {
	Kind        Kind
	DisplayName string
	Category    Category
	// Factory returns a new element carrying the variant's defaults. The
	// registry assigns the ID and Kind after the factory returns.
	Factory func() *Element

	// Typography gives a registered kind the font properties. Ignored for
	// built-in kinds.
	Typography bool
	// Properties are added to the kind's property table on Register.
	Properties []Property
}

// Registry maps kinds to variants. It is safe for concurrent lookups.
type Registry struct {
	mu       sync.RWMutex
	variants map[Kind]Variant
}

// NewRegistry returns a registry holding the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[Kind]Variant)}
	for _, v := range builtins() {
		r.variants[v.Kind] = v
	}
	return r
}

// Register adds or replaces a variant. Property tables are keyed by kind and
// shared by every registry, so the latest registration of a kind defines its
// properties.
func (r *Registry) Register(v Variant) error {
	if v.Kind == "" {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "variant kind cannot be empty")
	}
	if v.Factory == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "variant %q has no factory", v.Kind)
	}
	for _, p := range v.Properties {
		if err := p.check(v.Kind); err != nil {
			return err
		}
	}
	installProperties(v)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.Kind] = v
	return nil
}

// Lookup returns the variant registered for kind.
func (r *Registry) Lookup(kind Kind) (Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[kind]
	return v, ok
}

// Create builds a new element of the given kind with a fresh ID.
func (r *Registry) Create(kind Kind) (*Element, error) {
	v, ok := r.Lookup(kind)
	if !ok {
		return nil, ferrors.UnknownVariant(string(kind))
	}
	e := v.Factory()
	e.ID = NewID()
	e.Kind = kind
	return e, nil
}

// Variants returns all registered variants sorted by kind.
func (r *Registry) Variants() []Variant {
	r.mu.RLock()
	out := make([]Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Variant) int {
		switch {
		case a.Kind < b.Kind:
			return -1
		case a.Kind > b.Kind:
			return 1
		}
		return 0
	})
	return out
}

// Default sizes and styles, in points.
const (
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 10.0
	DefaultForeground = "#000000"
	DefaultBorder     = "#000000"
)

func defaultStyle() Style {
	return Style{Opacity: 1, Visible: true}
}

func defaultFont() *Font {
	return &Font{
		Family:     DefaultFontFamily,
		Size:       DefaultFontSize,
		Foreground: DefaultForeground,
		HAlign:     AlignLeft,
		VAlign:     AlignTop,
	}
}

func sized(w, h float64) *Element {
	return &Element{Width: w, Height: h, Style: defaultStyle()}
}

func builtins() []Variant {
	return []Variant{
		{Kind: KindText, DisplayName: "Text", Category: CategoryText, Factory: func() *Element {
			e := sized(120, 24)
			e.Font = defaultFont()
			e.Text = &TextContent{Content: "Text", WordWrap: true}
			return e
		}},
		{Kind: KindLabel, DisplayName: "Label", Category: CategoryText, Factory: func() *Element {
			e := sized(80, 18)
			e.Font = defaultFont()
			e.Text = &TextContent{Content: "Label"}
			return e
		}},
		{Kind: KindImage, DisplayName: "Image", Category: CategoryMedia, Factory: func() *Element {
			e := sized(100, 100)
			e.Image = &ImageSource{Stretch: StretchUniform}
			return e
		}},
		{Kind: KindLine, DisplayName: "Line", Category: CategoryShape, Factory: func() *Element {
			e := sized(100, 1)
			e.Style.BorderColor = DefaultBorder
			e.Style.BorderWidth = 1
			e.Line = &LinePoints{X2: 100}
			return e
		}},
		{Kind: KindRectangle, DisplayName: "Rectangle", Category: CategoryShape, Factory: func() *Element {
			e := sized(100, 60)
			e.Style.BorderColor = DefaultBorder
			e.Style.BorderWidth = 1
			return e
		}},
		{Kind: KindEllipse, DisplayName: "Ellipse", Category: CategoryShape, Factory: func() *Element {
			e := sized(80, 80)
			e.Style.BorderColor = DefaultBorder
			e.Style.BorderWidth = 1
			return e
		}},
		{Kind: KindTable, DisplayName: "Table", Category: CategoryData, Factory: func() *Element {
			e := sized(300, 90)
			e.Style.BorderColor = DefaultBorder
			e.Style.BorderWidth = 1
			e.Font = defaultFont()
			e.Table = NewTable(3, 3)
			e.Table.CellPadding = 2
			return e
		}},
		{Kind: KindBarcode, DisplayName: "Barcode", Category: CategoryData, Factory: func() *Element {
			e := sized(160, 60)
			e.Font = defaultFont()
			e.Font.HAlign = AlignCenter
			e.Barcode = &BarcodeData{Symbology: SymbologyCode128, Value: "12345678", ShowText: true}
			return e
		}},
		{Kind: KindSignature, DisplayName: "Signature", Category: CategoryFormItem, Factory: func() *Element {
			e := sized(180, 50)
			e.Font = defaultFont()
			e.Signature = &SignatureBlock{Caption: "Signature", ShowDate: true}
			return e
		}},
		{Kind: KindAutoNumber, DisplayName: "Auto Number", Category: CategoryData, Factory: func() *Element {
			e := sized(60, 18)
			e.Font = defaultFont()
			e.AutoNumber = &AutoNumberFormat{Start: 1, Step: 1, Digits: 4}
			return e
		}},
		{Kind: KindLabelInput, DisplayName: "Label + Input", Category: CategoryFormItem, Factory: func() *Element {
			e := sized(220, 24)
			e.Font = defaultFont()
			e.LabelInput = &LabelInput{Label: "Label", LabelWidth: 80}
			return e
		}},
	}
}
