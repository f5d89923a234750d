package hierarchy

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
)

func square(id, name, parent string) gates.Gate {
	return gates.Gate{
		ID:       id,
		Name:     name,
		Parent:   parent,
		Channels: []string{"CD3", "CD19"},
		Vertices: []gates.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "offset viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">g</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" class="hierarchy" viewBox="0 0 800.00 600.00" width="800" height="600">g</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">g</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">g</svg>`,
		},
		{
			name: "zero size",
			svg:  `<svg viewBox="0 0 0 0">g</svg>`,
			want: `<svg viewBox="0 0 0 0">g</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), `digraph G { cells -> tcells; }`)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output missing <svg> tag")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("invalid DOT accepted")
	}
}

func TestDiagram(t *testing.T) {
	schema, err := gates.NewSchema([]gates.Gate{
		square("cells", "Cells", ""),
		square("tcells", "T cells", "cells"),
	})
	if err != nil {
		t.Fatal(err)
	}
	store := gates.NewMemoryStore(schema.Styles(nil)...)

	svg, err := Diagram(context.Background(), schema, store)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	out := string(svg)
	for _, want := range []string{"T cells", `class="hierarchy"`} {
		if !strings.Contains(out, want) {
			t.Errorf("diagram missing %q", want)
		}
	}
}

type failingStore struct{ *gates.MemoryStore }

func (*failingStore) List(context.Context) ([]gates.Style, error) {
	return nil, errors.New(errors.ErrCodeStore, "down")
}

func TestDiagramStoreError(t *testing.T) {
	schema, err := gates.NewSchema([]gates.Gate{square("cells", "Cells", "")})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Diagram(context.Background(), schema, &failingStore{gates.NewMemoryStore()})
	if !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("err = %v, want STORE_ERROR", err)
	}
}
