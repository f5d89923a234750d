package gates

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
)

// Vertex is a polygon corner in the gate's two channels.
type Vertex struct {
	X, Y float64
}

// Gate is a polygon gate over two channels, optionally nested in a parent.
type Gate struct {
	ID       string
	Name     string
	Parent   string
	Channels []string
	Vertices []Vertex
}

// Contains reports whether the event's values for the gate channels fall
// inside the polygon. Events lacking a channel are outside.
func (g Gate) Contains(values map[string]float64) bool {
	if len(g.Channels) != 2 {
		return false
	}
	x, ok := values[g.Channels[0]]
	if !ok {
		return false
	}
	y, ok := values[g.Channels[1]]
	if !ok {
		return false
	}
	return inPolygon(g.Vertices, x, y)
}

// inPolygon is the even-odd ray casting test.
func inPolygon(vs []Vertex, x, y float64) bool {
	inside := false
	for i, j := 0, len(vs)-1; i < len(vs); j, i = i, i+1 {
		a, b := vs[i], vs[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Schema is a gating hierarchy: gates connected parent to child.
type Schema struct {
	gates    map[string]Gate
	order    []string
	children map[string][]string
}

// NewSchema validates gates and links them into a hierarchy. IDs must be
// unique, parents must exist, and polygons need two channels and at least
// three vertices.
func NewSchema(gates []Gate) (*Schema, error) {
	s := &Schema{
		gates:    make(map[string]Gate, len(gates)),
		children: make(map[string][]string),
	}
	for _, g := range gates {
		if err := errors.ValidateGateID(g.ID); err != nil {
			return nil, err
		}
		if _, dup := s.gates[g.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGate, "duplicate gate id %q", g.ID)
		}
		if len(g.Channels) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidGate, "gate %q: want 2 channels, got %d", g.ID, len(g.Channels))
		}
		if len(g.Vertices) < 3 {
			return nil, errors.New(errors.ErrCodeInvalidGate, "gate %q: polygon needs at least 3 vertices", g.ID)
		}
		if g.Name == "" {
			g.Name = g.ID
		}
		s.gates[g.ID] = g
		s.order = append(s.order, g.ID)
	}
	for _, id := range s.order {
		p := s.gates[id].Parent
		if p == "" {
			continue
		}
		if _, ok := s.gates[p]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidGate, "gate %q: unknown parent %q", id, p)
		}
		s.children[p] = append(s.children[p], id)
	}
	for _, id := range s.order {
		if s.cyclic(id) {
			return nil, errors.New(errors.ErrCodeInvalidGate, "gate %q: parent cycle", id)
		}
	}
	return s, nil
}

func (s *Schema) cyclic(id string) bool {
	seen := map[string]bool{}
	for id != "" {
		if seen[id] {
			return true
		}
		seen[id] = true
		id = s.gates[id].Parent
	}
	return false
}

// Len returns the number of gates.
func (s *Schema) Len() int { return len(s.order) }

// Gates returns the gates in document order.
func (s *Schema) Gates() []Gate {
	out := make([]Gate, len(s.order))
	for i, id := range s.order {
		out[i] = s.gates[id]
	}
	return out
}

// Gate returns a gate by ID.
func (s *Schema) Gate(id string) (Gate, bool) {
	g, ok := s.gates[id]
	return g, ok
}

// Children returns the direct children of id in document order.
func (s *Schema) Children(id string) []string {
	return slices.Clone(s.children[id])
}

// Populations returns the leaf gates: gates with a parent and no children.
// Each one defines a labelled cell population.
func (s *Schema) Populations() []Gate {
	var out []Gate
	for _, id := range s.order {
		g := s.gates[id]
		if g.Parent != "" && len(s.children[id]) == 0 {
			out = append(out, g)
		}
	}
	return out
}

// Chain returns the gate followed by its ancestors up to the root.
func (s *Schema) Chain(id string) []Gate {
	var out []Gate
	for id != "" {
		g, ok := s.gates[id]
		if !ok {
			break
		}
		out = append(out, g)
		id = g.Parent
	}
	return out
}

// Labels returns, per event, the names of every population whose gate and
// ancestor gates all contain the event.
func (s *Schema) Labels(events dataset.Events) [][]string {
	pops := s.Populations()
	chains := make([][]Gate, len(pops))
	for i, p := range pops {
		chains[i] = s.Chain(p.ID)
	}

	out := make([][]string, len(events))
	for i, e := range events {
		for j, chain := range chains {
			if containsAll(chain, e.Values) {
				out[i] = append(out[i], pops[j].Name)
			}
		}
	}
	return out
}

func containsAll(chain []Gate, values map[string]float64) bool {
	for _, g := range chain {
		if !g.Contains(values) {
			return false
		}
	}
	return true
}

// Tag appends population labels to each event's tags.
func (s *Schema) Tag(events dataset.Events) {
	for i, labels := range s.Labels(events) {
		events[i].Tags = append(events[i].Tags, labels...)
	}
}

// DefaultPalette seeds gate colours.
var DefaultPalette = []string{
	"#0088AA55", "#AA008855", "#88AA0055", "#663F4655", "#E0A45855", "#3F6B8A55",
}

// Styles returns a style per gate, cycling through palette.
func (s *Schema) Styles(palette []string) []Style {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	out := make([]Style, len(s.order))
	for i, id := range s.order {
		g := s.gates[id]
		c := palette[i%len(palette)]
		out[i] = Style{ID: g.ID, Name: g.Name, Parent: g.Parent, Stroke: c, Fill: c, Width: DefaultWidth}
	}
	return out
}

// DOT returns the hierarchy in Graphviz DOT format. Population gates are
// filled with their style colour when styles are given.
func (s *Schema) DOT(styles []Style) string {
	fill := make(map[string]string, len(styles))
	for _, st := range styles {
		fill[st.ID] = st.Fill
	}
	leaf := make(map[string]bool)
	for _, p := range s.Populations() {
		leaf[p.ID] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"sans-serif\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#AA0000\", penwidth=2];\n")
	buf.WriteString("\n")

	for _, id := range s.order {
		g := s.gates[id]
		attrs := fmt.Sprintf("label=%q, tooltip=%q", g.Name, g.Channels[0]+" / "+g.Channels[1])
		if c, ok := fill[id]; ok && leaf[id] {
			attrs += fmt.Sprintf(", fillcolor=%q", c)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, attrs)
	}

	buf.WriteString("\n")
	for _, id := range s.order {
		for _, c := range s.children[id] {
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, c)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}
