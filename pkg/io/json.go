package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

// Version is the envelope version written by this package.
const Version = 1

type document struct {
	Version  int                  `json:"version"`
	Template *template.Definition `json:"template"`
}

// WriteJSON encodes d as indented JSON and writes it to w.
func WriteJSON(d *template.Definition, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Version: Version, Template: d}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to a JSON file at path. The file is written to a
// temporary sibling first and renamed, so a failed export never leaves a
// truncated template behind.
func ExportJSON(d *template.Definition, path string) error {
	if err := ferrors.ValidatePath(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".formwork-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(d, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadOption configures [ReadJSON], [ImportJSON] and [Unmarshal].
type ReadOption func(*readConfig)

type readConfig struct {
	validate bool
}

// WithValidation makes a read also validate the decoded definition. Without
// it only the envelope is checked, so templates saved mid-edit with values
// that do not validate yet can still be reopened.
func WithValidation() ReadOption {
	return func(c *readConfig) { c.validate = true }
}

// ReadJSON decodes a template from r.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, the
// envelope version is unsupported or the template is missing. With
// [WithValidation], structural problems in the template itself are returned
// as validation errors. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...ReadOption) (*template.Definition, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode template")
	}
	if doc.Version < 1 || doc.Version > Version {
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported template version %d", doc.Version)
	}
	if doc.Template == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "missing template")
	}
	d := doc.Template
	if d.Elements == nil {
		d.Elements = []*element.Element{}
	}
	if cfg.validate {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ImportJSON reads the template file at path. The returned definition
// records path in its Path field.
func ImportJSON(path string, opts ...ReadOption) (*template.Definition, error) {
	if err := ferrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadJSON(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Marshal returns the JSON encoding of d.
func Marshal(d *template.Definition) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a template from data.
func Unmarshal(data []byte, opts ...ReadOption) (*template.Definition, error) {
	return ReadJSON(bytes.NewReader(data), opts...)
}
