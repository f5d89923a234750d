package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
)

// ReadViolins decodes and validates violin data.
func ReadViolins(r io.Reader) (dataset.ViolinData, error) {
	var v dataset.ViolinData
	if err := decode(r, &v); err != nil {
		return v, err
	}
	return v, v.Validate()
}

// ReadBoxplots decodes box plot data, de-duplicates its name sets and
// validates it.
func ReadBoxplots(r io.Reader) (dataset.BoxplotData, error) {
	var b dataset.BoxplotData
	if err := decode(r, &b); err != nil {
		return b, err
	}
	b.Normalize()
	return b, b.Validate()
}

// ImportViolins reads violin data from the file at path.
func ImportViolins(path string) (dataset.ViolinData, error) {
	f, err := open(path)
	if err != nil {
		return dataset.ViolinData{}, err
	}
	defer f.Close()
	return ReadViolins(f)
}

// ImportBoxplots reads box plot data from the file at path.
func ImportBoxplots(path string) (dataset.BoxplotData, error) {
	f, err := open(path)
	if err != nil {
		return dataset.BoxplotData{}, err
	}
	defer f.Close()
	return ReadBoxplots(f)
}

func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode")
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}
