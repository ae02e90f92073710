package element

import (
	"fmt"
	"maps"
	"math"
	"sync"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// accessor reads and writes one named property. coerce normalizes an
// incoming value to the property's canonical type so old and new values
// compare by equality.
type accessor struct {
	get    func(e *Element) any
	put    func(e *Element, v any) error
	coerce func(v any) (any, error)
}

// propertyTable maps kind -> property name -> accessor. Built-in kinds are
// filled at init; Registry.Register installs tables for further kinds. A
// kind's map is replaced, never mutated, once published.
var (
	propertyMu    sync.RWMutex
	propertyTable = map[Kind]map[string]accessor{}
)

func lookupProperty(kind Kind, name string) (accessor, bool) {
	propertyMu.RLock()
	defer propertyMu.RUnlock()
	a, ok := propertyTable[kind][name]
	return a, ok
}

func propertiesOf(kind Kind) (map[string]accessor, bool) {
	propertyMu.RLock()
	defer propertyMu.RUnlock()
	props, ok := propertyTable[kind]
	return props, ok
}

// Property is a named property contributed by a registered variant. Get and
// Put must be set. Coerce normalizes incoming values to the type Get
// returns; when nil, values are stored as given. Values must be comparable.
type Property struct {
	Name   string
	Get    func(e *Element) any
	Put    func(e *Element, v any) error
	Coerce func(v any) (any, error)
}

// StringAttribute returns a string property stored in Element.Attributes
// under name. Reading an unset attribute yields def.
func StringAttribute(name, def string) Property {
	return Property{
		Name: name,
		Get: func(e *Element) any {
			if v, ok := e.Attributes[name]; ok {
				return v
			}
			return def
		},
		Put: func(e *Element, v any) error {
			if e.Attributes == nil {
				e.Attributes = make(map[string]string)
			}
			e.Attributes[name] = v.(string)
			return nil
		},
		Coerce: toString,
	}
}

func (p Property) toAccessor() accessor {
	coerce := p.Coerce
	if coerce == nil {
		coerce = func(v any) (any, error) { return v, nil }
	}
	return accessor{get: p.Get, put: p.Put, coerce: coerce}
}

func (p Property) check(kind Kind) error {
	if p.Name == "" || p.Get == nil || p.Put == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "variant %q: property %q needs a name, Get and Put", kind, p.Name)
	}
	return nil
}

// installProperties publishes the property table for v.Kind. Built-in kinds
// keep their own properties and gain v.Properties; other kinds get the
// common properties, typography when v.Typography is set, and v.Properties.
func installProperties(v Variant) {
	propertyMu.Lock()
	defer propertyMu.Unlock()
	var props map[string]accessor
	if builtin, ok := builtinProperties[v.Kind]; ok {
		props = maps.Clone(builtin)
	} else {
		props = commonProperties()
		if v.Typography {
			maps.Copy(props, typographyProperties())
		}
	}
	for _, p := range v.Properties {
		props[p.Name] = p.toAccessor()
	}
	propertyTable[v.Kind] = props
}

// builtinProperties holds the tables of the built-in kinds as built at init.
var builtinProperties = map[Kind]map[string]accessor{}

// structural properties reshape a table's cell matrix and discard state.
var structural = map[string]bool{"Rows": true, "Columns": true}

// IsStructural reports whether setting the named property on a table can
// discard cells, so undo needs a snapshot of the payload.
func IsStructural(kind Kind, name string) bool {
	return kind == KindTable && structural[name]
}

// Get returns the current value of the named property.
func (e *Element) Get(name string) (any, error) {
	a, ok := lookupProperty(e.Kind, name)
	if !ok {
		return nil, ferrors.UnknownProperty(e.ID, string(e.Kind), name)
	}
	return a.get(e), nil
}

// Holds reports whether the named property already equals value once value
// is coerced to the property's type. Set with such a value changes nothing.
func (e *Element) Holds(name string, value any) (bool, error) {
	a, ok := lookupProperty(e.Kind, name)
	if !ok {
		return false, ferrors.UnknownProperty(e.ID, string(e.Kind), name)
	}
	v, err := a.coerce(value)
	if err != nil {
		return false, invalidValue(e.ID, name, err)
	}
	return a.get(e) == v, nil
}

// Set assigns the named property. When the new value equals the current one
// nothing is mutated and changed is false. On error the element is untouched.
func (e *Element) Set(name string, value any) (change Change, changed bool, err error) {
	a, ok := lookupProperty(e.Kind, name)
	if !ok {
		return Change{}, false, ferrors.UnknownProperty(e.ID, string(e.Kind), name)
	}
	v, err := a.coerce(value)
	if err != nil {
		return Change{}, false, invalidValue(e.ID, name, err)
	}
	old := a.get(e)
	if old == v {
		return Change{}, false, nil
	}
	if err := a.put(e, v); err != nil {
		return Change{}, false, err
	}
	return Change{Type: PropertyChanged, Element: e, Property: name, Old: old, New: v}, true, nil
}

func invalidValue(id, name string, err error) error {
	return &ferrors.Error{Code: ferrors.ErrCodeInvalidValue, Message: err.Error(), Subject: id, Field: name}
}

// =============================================================================
// Accessor constructors
// =============================================================================

func floatProp(field func(e *Element, write bool) *float64) accessor {
	return accessor{
		get:    func(e *Element) any { return *field(e, false) },
		put:    func(e *Element, v any) error { *field(e, true) = v.(float64); return nil },
		coerce: toFloat,
	}
}

func intProp(field func(e *Element, write bool) *int) accessor {
	return accessor{
		get:    func(e *Element) any { return *field(e, false) },
		put:    func(e *Element, v any) error { *field(e, true) = v.(int); return nil },
		coerce: toInt,
	}
}

func stringProp(field func(e *Element, write bool) *string) accessor {
	return accessor{
		get:    func(e *Element) any { return *field(e, false) },
		put:    func(e *Element, v any) error { *field(e, true) = v.(string); return nil },
		coerce: toString,
	}
}

func boolProp(field func(e *Element, write bool) *bool) accessor {
	return accessor{
		get:    func(e *Element) any { return *field(e, false) },
		put:    func(e *Element, v any) error { *field(e, true) = v.(bool); return nil },
		coerce: toBool,
	}
}

func alignProp(field func(e *Element, write bool) *Alignment, valid func(Alignment) bool) accessor {
	return accessor{
		get: func(e *Element) any { return *field(e, false) },
		put: func(e *Element, v any) error { *field(e, true) = v.(Alignment); return nil },
		coerce: func(v any) (any, error) {
			var a Alignment
			switch x := v.(type) {
			case Alignment:
				a = x
			case string:
				a = Alignment(x)
			default:
				return nil, fmt.Errorf("expected alignment, got %T", v)
			}
			if !valid(a) {
				return nil, fmt.Errorf("invalid alignment %q", a)
			}
			return a, nil
		},
	}
}

// tableDimension resizes the matrix instead of assigning the field directly.
func tableDimension(rows bool) accessor {
	return accessor{
		get: func(e *Element) any {
			if rows {
				return e.table(false).Rows
			}
			return e.table(false).Columns
		},
		put: func(e *Element, v any) error {
			t := e.table(true)
			if rows {
				return t.Resize(v.(int), t.Columns)
			}
			return t.Resize(t.Rows, v.(int))
		},
		coerce: func(v any) (any, error) {
			n, err := toInt(v)
			if err != nil {
				return nil, err
			}
			if n.(int) < 0 {
				return nil, fmt.Errorf("must not be negative, got %d", n)
			}
			return n, nil
		},
	}
}

// tableFloat assigns a table scalar and invalidates the resolved layout.
func tableFloat(field func(t *Table) *float64) accessor {
	return accessor{
		get: func(e *Element) any { return *field(e.table(false)) },
		put: func(e *Element, v any) error {
			t := e.table(true)
			*field(t) = v.(float64)
			t.LayoutKey = ""
			return nil
		},
		coerce: toFloat,
	}
}

func toFloat(v any) (any, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		return nil, fmt.Errorf("expected number, got %T", v)
	}
	if math.IsNaN(f) {
		return nil, fmt.Errorf("NaN is not a valid value")
	}
	return f, nil
}

func toInt(v any) (any, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("expected integer, got %g", x)
		}
		return int(x), nil
	default:
		return nil, fmt.Errorf("expected integer, got %T", v)
	}
}

func toString(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return nil, fmt.Errorf("expected string, got %T", v)
	}
}

func toBool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

// =============================================================================
// Property tables
// =============================================================================

func commonProperties() map[string]accessor {
	return map[string]accessor{
		"Name":         stringProp(func(e *Element, _ bool) *string { return &e.Name }),
		"X":            floatProp(func(e *Element, _ bool) *float64 { return &e.X }),
		"Y":            floatProp(func(e *Element, _ bool) *float64 { return &e.Y }),
		"Width":        floatProp(func(e *Element, _ bool) *float64 { return &e.Width }),
		"Height":       floatProp(func(e *Element, _ bool) *float64 { return &e.Height }),
		"Rotation":     floatProp(func(e *Element, _ bool) *float64 { return &e.Rotation }),
		"ZIndex":       intProp(func(e *Element, _ bool) *int { return &e.ZIndex }),
		"Background":   stringProp(func(e *Element, _ bool) *string { return &e.Style.Background }),
		"BorderColor":  stringProp(func(e *Element, _ bool) *string { return &e.Style.BorderColor }),
		"BorderWidth":  floatProp(func(e *Element, _ bool) *float64 { return &e.Style.BorderWidth }),
		"ShadowColor":  stringProp(func(e *Element, _ bool) *string { return &e.Style.ShadowColor }),
		"ShadowWidth":  floatProp(func(e *Element, _ bool) *float64 { return &e.Style.ShadowWidth }),
		"CornerRadius": floatProp(func(e *Element, _ bool) *float64 { return &e.Style.CornerRadius }),
		"Opacity":      floatProp(func(e *Element, _ bool) *float64 { return &e.Style.Opacity }),
		"Visible":      boolProp(func(e *Element, _ bool) *bool { return &e.Style.Visible }),
	}
}

func typographyProperties() map[string]accessor {
	return map[string]accessor{
		"FontFamily":           stringProp(func(e *Element, w bool) *string { return &e.font(w).Family }),
		"FontSize":             floatProp(func(e *Element, w bool) *float64 { return &e.font(w).Size }),
		"FontWeight":           stringProp(func(e *Element, w bool) *string { return &e.font(w).Weight }),
		"FontStyle":            stringProp(func(e *Element, w bool) *string { return &e.font(w).Style }),
		"Foreground":           stringProp(func(e *Element, w bool) *string { return &e.font(w).Foreground }),
		"HorizontalAlignment":  alignProp(func(e *Element, w bool) *Alignment { return &e.font(w).HAlign }, Alignment.IsHorizontal),
		"VerticalAlignment":    alignProp(func(e *Element, w bool) *Alignment { return &e.font(w).VAlign }, Alignment.IsVertical),
		"IgnoreGlobalFontSize": boolProp(func(e *Element, w bool) *bool { return &e.font(w).IgnoreGlobalSize }),
	}
}

func variantProperties(kind Kind) map[string]accessor {
	switch kind {
	case KindText, KindLabel:
		return map[string]accessor{
			"Text":     stringProp(func(e *Element, w bool) *string { return &e.text(w).Content }),
			"WordWrap": boolProp(func(e *Element, w bool) *bool { return &e.text(w).WordWrap }),
		}
	case KindImage:
		return map[string]accessor{
			"Source": stringProp(func(e *Element, w bool) *string { return &e.image(w).Source }),
			"Stretch": {
				get: func(e *Element) any { return e.image(false).Stretch },
				put: func(e *Element, v any) error { e.image(true).Stretch = v.(Stretch); return nil },
				coerce: func(v any) (any, error) {
					var s Stretch
					switch x := v.(type) {
					case Stretch:
						s = x
					case string:
						s = Stretch(x)
					default:
						return nil, fmt.Errorf("expected stretch mode, got %T", v)
					}
					if !s.valid() {
						return nil, fmt.Errorf("invalid stretch mode %q", s)
					}
					return s, nil
				},
			},
		}
	case KindLine:
		return map[string]accessor{
			"X1": floatProp(func(e *Element, w bool) *float64 { return &e.line(w).X1 }),
			"Y1": floatProp(func(e *Element, w bool) *float64 { return &e.line(w).Y1 }),
			"X2": floatProp(func(e *Element, w bool) *float64 { return &e.line(w).X2 }),
			"Y2": floatProp(func(e *Element, w bool) *float64 { return &e.line(w).Y2 }),
		}
	case KindTable:
		return map[string]accessor{
			"Rows":        tableDimension(true),
			"Columns":     tableDimension(false),
			"CellSpacing": tableFloat(func(t *Table) *float64 { return &t.CellSpacing }),
			"CellPadding": tableFloat(func(t *Table) *float64 { return &t.CellPadding }),
		}
	case KindBarcode:
		return map[string]accessor{
			"Symbology": {
				get: func(e *Element) any { return e.barcode(false).Symbology },
				put: func(e *Element, v any) error { e.barcode(true).Symbology = v.(Symbology); return nil },
				coerce: func(v any) (any, error) {
					switch x := v.(type) {
					case Symbology:
						return x, nil
					case string:
						return Symbology(x), nil
					}
					return nil, fmt.Errorf("expected symbology, got %T", v)
				},
			},
			"Value":    stringProp(func(e *Element, w bool) *string { return &e.barcode(w).Value }),
			"ShowText": boolProp(func(e *Element, w bool) *bool { return &e.barcode(w).ShowText }),
		}
	case KindSignature:
		return map[string]accessor{
			"Signer":   stringProp(func(e *Element, w bool) *string { return &e.signature(w).Signer }),
			"Caption":  stringProp(func(e *Element, w bool) *string { return &e.signature(w).Caption }),
			"ShowDate": boolProp(func(e *Element, w bool) *bool { return &e.signature(w).ShowDate }),
		}
	case KindAutoNumber:
		return map[string]accessor{
			"Prefix": stringProp(func(e *Element, w bool) *string { return &e.autoNumber(w).Prefix }),
			"Suffix": stringProp(func(e *Element, w bool) *string { return &e.autoNumber(w).Suffix }),
			"Start":  intProp(func(e *Element, w bool) *int { return &e.autoNumber(w).Start }),
			"Step":   intProp(func(e *Element, w bool) *int { return &e.autoNumber(w).Step }),
			"Digits": intProp(func(e *Element, w bool) *int { return &e.autoNumber(w).Digits }),
		}
	case KindLabelInput:
		return map[string]accessor{
			"Label":       stringProp(func(e *Element, w bool) *string { return &e.labelInput(w).Label }),
			"Value":       stringProp(func(e *Element, w bool) *string { return &e.labelInput(w).Value }),
			"Placeholder": stringProp(func(e *Element, w bool) *string { return &e.labelInput(w).Placeholder }),
			"LabelWidth":  floatProp(func(e *Element, w bool) *float64 { return &e.labelInput(w).LabelWidth }),
			"Binding":     stringProp(func(e *Element, w bool) *string { return &e.labelInput(w).Binding }),
		}
	}
	return nil
}

func init() {
	for _, kind := range Kinds {
		props := commonProperties()
		if kind.HasTypography() {
			for name, a := range typographyProperties() {
				props[name] = a
			}
		}
		for name, a := range variantProperties(kind) {
			props[name] = a
		}
		builtinProperties[kind] = props
		propertyTable[kind] = props
	}
}
