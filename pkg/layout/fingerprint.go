package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/formwork/pkg/element"
)

// fingerprintInput lists everything Compute reads, apart from the measurer.
type fingerprintInput struct {
	Width         float64               `json:"w"`
	Font          *element.Font         `json:"f,omitempty"`
	Rows          int                   `json:"r"`
	Columns       int                   `json:"c"`
	Cells         []element.TableCell   `json:"cells"`
	ColumnConfigs []element.TableColumn `json:"cols"`
	Spacing       float64               `json:"s"`
	Padding       float64               `json:"p"`
	Options       Options               `json:"o"`
}

// Fingerprint hashes the layout inputs of el under opts. Two calls return
// the same key exactly when Compute would see the same inputs.
func Fingerprint(el *element.Element, opts Options) string {
	t := el.Table
	in := fingerprintInput{
		Width:   el.Width,
		Font:    el.Font,
		Options: opts,
	}
	if t != nil {
		in.Rows, in.Columns = t.Rows, t.Columns
		in.Cells, in.ColumnConfigs = t.Cells, t.ColumnConfigs
		in.Spacing, in.Padding = t.CellSpacing, t.CellPadding
	}
	data, _ := json.Marshal(in)
	return Hash(data)
}

// Hash computes the SHA-256 of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
