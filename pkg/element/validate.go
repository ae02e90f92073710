package element

import (
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// Validate checks the element's invariants without modifying it. It returns
// the first violation as a VALIDATION_FAILED or INDEX_OUT_OF_RANGE error
// naming the element ID and the offending field.
func (e *Element) Validate() error {
	id := e.ID
	if e.Kind == "" {
		return ferrors.Invalid(id, "Kind", "element has no kind")
	}
	checks := []error{
		ferrors.Positive(id, "Width", e.Width),
		ferrors.Positive(id, "Height", e.Height),
		ferrors.NonNegative(id, "X", e.X),
		ferrors.NonNegative(id, "Y", e.Y),
		ferrors.UnitInterval(id, "Opacity", e.Style.Opacity),
		ferrors.NonNegative(id, "BorderWidth", e.Style.BorderWidth),
		ferrors.NonNegative(id, "ShadowWidth", e.Style.ShadowWidth),
		ferrors.NonNegative(id, "CornerRadius", e.Style.CornerRadius),
		ferrors.Color(id, "Background", e.Style.Background),
		ferrors.Color(id, "BorderColor", e.Style.BorderColor),
		ferrors.Color(id, "ShadowColor", e.Style.ShadowColor),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if e.Font != nil && HasProperty(e.Kind, "FontSize") {
		if err := e.Font.validate(id); err != nil {
			return err
		}
	}
	return e.validatePayload()
}

// ValidateBounds reports whether the element's rectangle lies within a page
// of the given extent. Being off the page is a soft condition, so it does
// not produce an error.
func (e *Element) ValidateBounds(pageWidth, pageHeight float64) bool {
	return e.X >= 0 && e.Y >= 0 &&
		e.X+e.Width <= pageWidth &&
		e.Y+e.Height <= pageHeight
}

func (f *Font) validate(id string) error {
	if err := ferrors.Positive(id, "FontSize", f.Size); err != nil {
		return err
	}
	if err := ferrors.Color(id, "Foreground", f.Foreground); err != nil {
		return err
	}
	if f.HAlign != "" && !f.HAlign.IsHorizontal() {
		return ferrors.Invalid(id, "HorizontalAlignment", "invalid alignment %q", f.HAlign)
	}
	if f.VAlign != "" && !f.VAlign.IsVertical() {
		return ferrors.Invalid(id, "VerticalAlignment", "invalid alignment %q", f.VAlign)
	}
	return nil
}

func (e *Element) validatePayload() error {
	id := e.ID
	missing := func(field string) error {
		return ferrors.Invalid(id, field, "%s element has no %s payload", e.Kind, field)
	}
	switch e.Kind {
	case KindText, KindLabel:
		if e.Text == nil {
			return missing("Text")
		}
	case KindImage:
		if e.Image == nil {
			return missing("Image")
		}
		if !e.Image.Stretch.valid() {
			return ferrors.Invalid(id, "Stretch", "invalid stretch mode %q", e.Image.Stretch)
		}
	case KindLine:
		if e.Line == nil {
			return missing("Line")
		}
	case KindTable:
		if e.Table == nil {
			return missing("Table")
		}
		return e.Table.Validate(id)
	case KindBarcode:
		if e.Barcode == nil {
			return missing("Barcode")
		}
		if _, err := EncodeBarcode(e.Barcode.Symbology, e.Barcode.Value); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeValidation, err, "barcode cannot be encoded").
				With(id, "Value")
		}
	case KindSignature:
		if e.Signature == nil {
			return missing("Signature")
		}
	case KindAutoNumber:
		if e.AutoNumber == nil {
			return missing("AutoNumber")
		}
		if e.AutoNumber.Step == 0 {
			return ferrors.Invalid(id, "Step", "step must not be zero")
		}
		if e.AutoNumber.Digits < 0 {
			return ferrors.Invalid(id, "Digits", "must not be negative, got %d", e.AutoNumber.Digits)
		}
	case KindLabelInput:
		if e.LabelInput == nil {
			return missing("LabelInput")
		}
		if err := ferrors.NonNegative(id, "LabelWidth", e.LabelInput.LabelWidth); err != nil {
			return err
		}
		if e.LabelInput.LabelWidth > e.Width {
			return ferrors.Invalid(id, "LabelWidth", "label width %g exceeds element width %g",
				e.LabelInput.LabelWidth, e.Width)
		}
	case KindRectangle, KindEllipse:
	default:
		// Registered kinds have no payload rules of their own.
		if _, ok := propertiesOf(e.Kind); !ok {
			return ferrors.UnknownVariant(string(e.Kind))
		}
	}
	return nil
}
