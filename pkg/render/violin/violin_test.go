package violin

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/render/svg"
)

func twoGroups() dataset.ViolinData {
	bins := make([]float64, 10)
	a := make([]float64, 10)
	b := make([]float64, 10)
	for i := range bins {
		bins[i] = float64(i)
		a[i] = float64(i) / 9
		b[i] = 1 - float64(i)/9
	}
	return dataset.ViolinData{
		BinCentres: bins,
		Density: []dataset.DensitySeries{
			{Name: "T cells", ID: "tcells", Values: a},
			{Name: "B cells", ID: "bcells", Values: b},
		},
	}
}

func count(c *svg.Container, match func(*svg.Element) bool) int {
	n := 0
	c.View(func(root *svg.Element) { n = len(root.Find(match)) })
	return n
}

func TestRenderRepeatedInvocation(t *testing.T) {
	ctx := context.Background()
	target := svg.NewContainer(svg.ViolinsSelector)
	chart := New()

	for i := 0; i < 3; i++ {
		if err := chart.Render(ctx, target, twoGroups()); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}

	if n := count(target, func(e *svg.Element) bool { return e.Tag == "path" && e.HasClass("violin") }); n != 2 {
		t.Errorf("got %d violin paths, want 2", n)
	}
	if n := count(target, func(e *svg.Element) bool { return e.HasClass("axis") }); n != 2 {
		t.Errorf("got %d axis groups, want 2", n)
	}
	if n := count(target, func(e *svg.Element) bool { return e.Tag == "script" }); n != 1 {
		t.Errorf("got %d scripts, want 1", n)
	}
}

func TestRenderLayout(t *testing.T) {
	target := svg.NewContainer(svg.ViolinsSelector)
	if err := New().Render(context.Background(), target, twoGroups()); err != nil {
		t.Fatal(err)
	}
	out := string(target.Bytes())

	for _, want := range []string{
		`transform="translate(0,40)"`, // bottom axis: 20 + 60 - 40
		`transform="translate(60,0)"`, // left axis
		`id="tcells"`,
		`id="bcells"`,
		`fill="#0088AA55"`,
		`stroke="#0088AA55"`,
		`style="cursor: pointer"`,
		">T cells</text>",
		`width="300"`,
		`height="60"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	var left *svg.Element
	target.View(func(root *svg.Element) {
		for _, g := range root.ByClass("axis") {
			if v, _ := g.Attr("transform"); v == "translate(60,0)" {
				left = g
			}
		}
	})
	if left == nil {
		t.Fatal("left axis not found")
	}
	if len(left.ByClass("domain")) != 0 {
		t.Error("left axis should have no domain path")
	}
}

func TestRenderUsesStoredStyles(t *testing.T) {
	ctx := context.Background()
	store := gates.NewMemoryStore(gates.Style{ID: "bcells", Fill: "#123456", Stroke: "#123456"})
	target := svg.NewContainer(svg.ViolinsSelector)

	if err := New(WithStyles(store), WithColor("#abcdef")).Render(ctx, target, twoGroups()); err != nil {
		t.Fatal(err)
	}
	target.View(func(root *svg.Element) {
		if v, _ := root.ByID("bcells")[0].Attr("fill"); v != "#123456" {
			t.Errorf("bcells fill = %q, want stored colour", v)
		}
		if v, _ := root.ByID("tcells")[0].Attr("fill"); v != "#abcdef" {
			t.Errorf("tcells fill = %q, want chart colour", v)
		}
	})
}

func TestRenderRecolorEndpoint(t *testing.T) {
	target := svg.NewContainer(svg.ViolinsSelector)
	New(WithRecolorEndpoint("/api/gates/{id}/color")).Render(context.Background(), target, twoGroups())
	if !strings.Contains(string(target.Bytes()), `data-recolor="/api/gates/{id}/color"`) {
		t.Error("endpoint not attached to root")
	}
}

func TestRecolor(t *testing.T) {
	ctx := context.Background()
	store := gates.NewMemoryStore(gates.Style{ID: "tcells", Fill: "#0088AA55", Stroke: "#0088AA55"})
	target := svg.NewContainer(svg.ViolinsSelector)
	if err := New().Render(ctx, target, twoGroups()); err != nil {
		t.Fatal(err)
	}
	// A second element sharing the id, as on a linked chart.
	target.Update(func(root *svg.Element) error {
		root.Add("path").SetAttr("id", "tcells").SetAttr("fill", "#0088AA55")
		return nil
	})

	color, err := Recolor(ctx, target, store, "tcells", "#ff0000")
	if err != nil {
		t.Fatalf("Recolor: %v", err)
	}
	if color != "#ff000055" {
		t.Errorf("color = %q, want alpha suffix kept", color)
	}

	target.View(func(root *svg.Element) {
		for _, e := range root.ByID("tcells") {
			if v, _ := e.Attr("fill"); v != color {
				t.Errorf("fill = %q, want %q", v, color)
			}
			if v, _ := e.Attr("stroke"); v != color {
				t.Errorf("stroke = %q, want %q", v, color)
			}
		}
	})

	st, _ := store.StyleFor(ctx, "tcells")
	if st.Fill != color || st.Stroke != color {
		t.Errorf("stored style = %+v", st)
	}
}

func TestRecolorErrors(t *testing.T) {
	ctx := context.Background()
	target := svg.NewContainer(svg.ViolinsSelector)
	New().Render(ctx, target, twoGroups())

	if _, err := Recolor(ctx, target, nil, "tcells", "red"); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("bad colour: got %v", err)
	}
	if _, err := Recolor(ctx, target, nil, "nope", "#ff0000"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown id: got %v", err)
	}

	// The store rejects unknown gates and the chart is left untouched.
	store := gates.NewMemoryStore()
	if _, err := Recolor(ctx, target, store, "tcells", "#ff0000"); !errors.Is(err, errors.ErrCodeGateNotFound) {
		t.Errorf("unknown gate: got %v", err)
	}
	target.View(func(root *svg.Element) {
		if v, _ := root.ByID("tcells")[0].Attr("fill"); v != DefaultColor {
			t.Errorf("fill changed to %q after failed recolour", v)
		}
	})
}
