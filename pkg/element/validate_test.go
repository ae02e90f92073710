package element

import (
	"math"
	"testing"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		mutate func(e *Element)
		field  string
	}{
		{"ZeroWidth", KindText, func(e *Element) { e.Width = 0 }, "Width"},
		{"NegativeHeight", KindRectangle, func(e *Element) { e.Height = -1 }, "Height"},
		{"NegativeX", KindImage, func(e *Element) { e.X = -0.5 }, "X"},
		{"NegativeY", KindLine, func(e *Element) { e.Y = -2 }, "Y"},
		{"OpacityAboveOne", KindText, func(e *Element) { e.Style.Opacity = 1.5 }, "Opacity"},
		{"OpacityNaN", KindText, func(e *Element) { e.Style.Opacity = math.NaN() }, "Opacity"},
		{"NegativeBorder", KindEllipse, func(e *Element) { e.Style.BorderWidth = -1 }, "BorderWidth"},
		{"NegativeShadow", KindEllipse, func(e *Element) { e.Style.ShadowWidth = -1 }, "ShadowWidth"},
		{"NegativeCorner", KindRectangle, func(e *Element) { e.Style.CornerRadius = -3 }, "CornerRadius"},
		{"BadColor", KindRectangle, func(e *Element) { e.Style.Background = "blue-ish" }, "Background"},
		{"ZeroFontSize", KindLabel, func(e *Element) { e.Font.Size = 0 }, "FontSize"},
		{"MissingPayload", KindText, func(e *Element) { e.Text = nil }, "Text"},
		{"BadStretch", KindImage, func(e *Element) { e.Image.Stretch = "tile" }, "Stretch"},
		{"TableNoRows", KindTable, func(e *Element) { e.Table.Rows = 0 }, "Rows"},
		{"BadBarcode", KindBarcode, func(e *Element) {
			e.Barcode.Symbology = SymbologyEAN
			e.Barcode.Value = "not digits"
		}, "Value"},
		{"ZeroStep", KindAutoNumber, func(e *Element) { e.AutoNumber.Step = 0 }, "Step"},
		{"WideLabel", KindLabelInput, func(e *Element) { e.LabelInput.LabelWidth = 500 }, "LabelWidth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElement(t, tt.kind)
			tt.mutate(e)

			err := e.Validate()
			if !ferrors.IsValidation(err) {
				t.Fatalf("Validate = %v, want validation error", err)
			}
			var fe *ferrors.Error
			if !ferrors.As(err, &fe) {
				t.Fatalf("error is %T, want *errors.Error", err)
			}
			if fe.Subject != e.ID {
				t.Errorf("subject = %q, want %q", fe.Subject, e.ID)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	e := &Element{ID: "x", Kind: "hologram", Width: 1, Height: 1, Style: Style{Opacity: 1}}
	if err := e.Validate(); !ferrors.Is(err, ferrors.ErrCodeUnknownVariant) {
		t.Errorf("Validate = %v, want unknown variant", err)
	}
}

func TestValidateOpacityTransitions(t *testing.T) {
	e := newElement(t, KindText)
	if _, _, err := e.Set("Opacity", 0.5); err != nil {
		t.Fatal(err)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("opacity 0.5: %v", err)
	}
	// Out-of-range values are accepted by Set and rejected by Validate.
	if _, _, err := e.Set("Opacity", 1.5); err != nil {
		t.Fatalf("Set 1.5: %v", err)
	}
	if err := e.Validate(); !ferrors.IsValidation(err) {
		t.Errorf("opacity 1.5: %v, want validation error", err)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		want       bool
	}{
		{"Inside", 10, 10, 100, 50, true},
		{"Exact", 0, 0, 595, 842, true},
		{"RightEdge", 500, 10, 100, 50, false},
		{"Bottom", 10, 800, 100, 50, false},
		{"Negative", -1, 0, 10, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Element{X: tt.x, Y: tt.y, Width: tt.w, Height: tt.h}
			if got := e.ValidateBounds(595, 842); got != tt.want {
				t.Errorf("ValidateBounds = %v, want %v", got, tt.want)
			}
		})
	}
}
