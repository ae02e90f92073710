package element

import (
	"testing"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

func TestEncodeBarcode(t *testing.T) {
	tests := []struct {
		sym   Symbology
		value string
		code  ferrors.Code
	}{
		{SymbologyCode128, "12345678", ""},
		{SymbologyCode39, "ABC-123", ""},
		{SymbologyEAN, "5901234123457", ""},
		{SymbologyQR, "https://example.com/invoice/42", ""},
		{SymbologyDataMatrix, "LOT 42", ""},
		{SymbologyEAN, "12ab", ferrors.ErrCodeInvalidValue},
		{SymbologyCode128, "", ferrors.ErrCodeInvalidValue},
		{"pdf417", "x", ferrors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(string(tt.sym)+"/"+tt.value, func(t *testing.T) {
			w, h, err := BarcodeModules(tt.sym, tt.value)
			if tt.code != "" {
				if got := ferrors.GetCode(err); got != tt.code {
					t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BarcodeModules: %v", err)
			}
			if w <= 0 || h <= 0 {
				t.Errorf("modules = %dx%d, want positive", w, h)
			}
		})
	}
}
