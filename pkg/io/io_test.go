package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
)

const violinsJSON = `{
  "binCentres": [0.5, 1.5, 2.5],
  "density": [
    {"name": "T cells", "id": "tcells", "values": [0.1, 1, 0.3]},
    {"name": "B cells", "id": "bcells", "values": [0.4, 0.2, 1]}
  ]
}`

const boxplotsJSON = `{
  "records": [
    {"names": ["PopA", "CondX"], "count": 10},
    {"names": ["CondX"], "count": 20}
  ],
  "populations": ["PopA", "PopA"],
  "conditions": ["CondX"],
  "barColors": {"PopA": "#336699"}
}`

func TestReadViolins(t *testing.T) {
	v, err := ReadViolins(strings.NewReader(violinsJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"T cells", "B cells"}, v.Names())
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, v.BinCentres)
}

func TestReadViolinsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"density": [`},
		{"unknown field", `{"bins": [1]}`},
		{"misaligned", `{"binCentres": [1, 2], "density": [{"name": "a", "id": "a", "values": [1]}]}`},
		{"duplicate id", `{"binCentres": [1], "density": [{"name": "a", "id": "x", "values": [1]}, {"name": "b", "id": "x", "values": [1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadViolins(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDataset), "got %v", err)
		})
	}
}

func TestReadBoxplotsNormalizes(t *testing.T) {
	b, err := ReadBoxplots(strings.NewReader(boxplotsJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"PopA"}, b.Populations)
	assert.Len(t, b.Records, 2)
	assert.Equal(t, 30.0, b.Records.Sum("CondX"))
}

func TestReadBoxplotsBadColor(t *testing.T) {
	input := strings.Replace(boxplotsJSON, "#336699", "blue", 1)
	_, err := ReadBoxplots(strings.NewReader(input))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDataset), "got %v", err)
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "violins.json")
	want, err := ReadViolins(strings.NewReader(violinsJSON))
	require.NoError(t, err)

	require.NoError(t, ExportJSON(want, path))
	got, err := ImportViolins(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportBoxplots(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestWriteJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(dataset.Record{Names: []string{"PopA"}, Count: 1}, &buf))
	assert.Equal(t, "{\n  \"names\": [\n    \"PopA\"\n  ],\n  \"count\": 1\n}\n", buf.String())
}
