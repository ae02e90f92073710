package element

import (
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// Symbology names a barcode encoding.
type Symbology string

const (
	SymbologyCode128    Symbology = "code128"
	SymbologyCode39     Symbology = "code39"
	SymbologyEAN        Symbology = "ean"
	SymbologyQR         Symbology = "qr"
	SymbologyDataMatrix Symbology = "datamatrix"
)

// Symbologies lists the supported barcode encodings.
var Symbologies = []Symbology{
	SymbologyCode128,
	SymbologyCode39,
	SymbologyEAN,
	SymbologyQR,
	SymbologyDataMatrix,
}

// EncodeBarcode encodes value with the given symbology.
func EncodeBarcode(sym Symbology, value string) (barcode.Barcode, error) {
	if value == "" {
		return nil, ferrors.New(ferrors.ErrCodeInvalidValue, "barcode value cannot be empty")
	}
	var (
		bc  barcode.Barcode
		err error
	)
	switch sym {
	case SymbologyCode128:
		bc, err = code128.Encode(value)
	case SymbologyCode39:
		bc, err = code39.Encode(value, false, true)
	case SymbologyEAN:
		bc, err = ean.Encode(value)
	case SymbologyQR:
		bc, err = qr.Encode(value, qr.M, qr.Auto)
	case SymbologyDataMatrix:
		bc, err = datamatrix.Encode(value)
	default:
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "unsupported symbology %q", sym)
	}
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidValue, err, "cannot encode %q as %s", value, sym)
	}
	return bc, nil
}

// BarcodeModules returns the encoded symbol size in modules (bars or dots).
// Renderers scale this to the element box.
func BarcodeModules(sym Symbology, value string) (w, h int, err error) {
	bc, err := EncodeBarcode(sym, value)
	if err != nil {
		return 0, 0, err
	}
	b := bc.Bounds()
	return b.Dx(), b.Dy(), nil
}
