package element

// Kind is the variant tag of an element.
type Kind string

// Built-in element kinds.
const (
	KindText       Kind = "text"
	KindLabel      Kind = "label"
	KindImage      Kind = "image"
	KindLine       Kind = "line"
	KindRectangle  Kind = "rectangle"
	KindEllipse    Kind = "ellipse"
	KindTable      Kind = "table"
	KindBarcode    Kind = "barcode"
	KindSignature  Kind = "signature"
	KindAutoNumber Kind = "autonumber"
	KindLabelInput Kind = "labelinput"
)

// Kinds lists the built-in kinds in declaration order.
var Kinds = []Kind{
	KindText,
	KindLabel,
	KindImage,
	KindLine,
	KindRectangle,
	KindEllipse,
	KindTable,
	KindBarcode,
	KindSignature,
	KindAutoNumber,
	KindLabelInput,
}

func (k Kind) String() string { return string(k) }

// HasTypography reports whether elements of this kind carry font settings.
func (k Kind) HasTypography() bool {
	switch k {
	case KindText, KindLabel, KindTable, KindBarcode, KindSignature, KindAutoNumber, KindLabelInput:
		return true
	default:
		return false
	}
}

// Alignment is a horizontal or vertical content alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignTop     Alignment = "top"
	AlignBottom  Alignment = "bottom"
	AlignStretch Alignment = "stretch"
)

// IsHorizontal reports whether a is valid on the horizontal axis.
func (a Alignment) IsHorizontal() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignStretch:
		return true
	}
	return false
}

// IsVertical reports whether a is valid on the vertical axis.
func (a Alignment) IsVertical() bool {
	switch a {
	case AlignTop, AlignCenter, AlignBottom, AlignStretch:
		return true
	}
	return false
}

// Stretch controls how an image fills its element box.
type Stretch string

const (
	StretchNone          Stretch = "none"
	StretchFill          Stretch = "fill"
	StretchUniform       Stretch = "uniform"
	StretchUniformToFill Stretch = "uniform-to-fill"
)

func (s Stretch) valid() bool {
	switch s {
	case StretchNone, StretchFill, StretchUniform, StretchUniformToFill:
		return true
	}
	return false
}
