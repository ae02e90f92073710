package errors

import (
	"math"
	"testing"
)

func TestNumericChecks(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"positive ok", func() error { return Positive("e", "Width", 1) }, false},
		{"positive zero", func() error { return Positive("e", "Width", 0) }, true},
		{"positive negative", func() error { return Positive("e", "Width", -3) }, true},
		{"positive NaN", func() error { return Positive("e", "Width", math.NaN()) }, true},
		{"positive Inf", func() error { return Positive("e", "Width", math.Inf(1)) }, true},
		{"non-negative zero", func() error { return NonNegative("e", "X", 0) }, false},
		{"non-negative negative", func() error { return NonNegative("e", "X", -0.01) }, true},
		{"unit interval low", func() error { return UnitInterval("e", "Opacity", 0) }, false},
		{"unit interval high", func() error { return UnitInterval("e", "Opacity", 1) }, false},
		{"unit interval over", func() error { return UnitInterval("e", "Opacity", 1.5) }, true},
		{"unit interval under", func() error { return UnitInterval("e", "Opacity", -0.1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"#000000", false},
		{"#1f2937", false},
		{"#fff", false},
		{"black", true},
		{"#12", true},
		{"#gggggg", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Color("e", "Background", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Color(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTemplateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0d8e3c84-5a0b-4b5f-9bb4-7a4d1f7f3d10", false},
		{"slug", "shipping-label_v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"space", "a b", true},
		{"glob", "labels*", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateTemplateID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "labels/shipping.json", false},
		{"absolute", "/tmp/shipping.json", false},
		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeValidation,
		ErrCodeIndexOutOfRange,
		ErrCodeUnknownVariant,
		ErrCodeUnknownProperty,
		ErrCodeInvalidValue,
		ErrCodeCommandReplay,
		ErrCodeDuplicateElement,
		ErrCodeInvalidInput,
		ErrCodeInvalidPath,
		ErrCodeInvalidFormat,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
