package gates

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// Gating-ML 2.0 namespaces.
const (
	nsGating    = "http://www.isac-net.org/std/Gating-ML/v2.0/gating"
	nsDatatypes = "http://www.isac-net.org/std/Gating-ML/v2.0/datatypes"
)

type gatingDocument struct {
	Gates []polygonGate `xml:",any"`
}

type polygonGate struct {
	XMLName    xml.Name
	ID         string `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating id,attr"`
	Name       string `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating name,attr"`
	Parent     string `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating parent_id,attr"`
	Dimensions []struct {
		FCS struct {
			Name string `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/datatypes name,attr"`
		} `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/datatypes fcs-dimension"`
	} `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating dimension"`
	Vertices []struct {
		Coordinates []struct {
			Value string `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/datatypes value,attr"`
		} `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating coordinate"`
	} `xml:"http://www.isac-net.org/std/Gating-ML/v2.0/gating vertex"`
}

// ParseGatingML reads polygon gates from a Gating-ML 2.0 document. Every
// top-level element must be a gating:PolygonGate.
func ParseGatingML(r io.Reader) (*Schema, error) {
	var doc gatingDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGate, err, "decode gating-ml")
	}

	gates := make([]Gate, 0, len(doc.Gates))
	for _, pg := range doc.Gates {
		if pg.XMLName.Space != nsGating || pg.XMLName.Local != "PolygonGate" {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s not supported", qualified(pg.XMLName))
		}
		g := Gate{ID: pg.ID, Name: pg.Name, Parent: pg.Parent}
		for _, d := range pg.Dimensions {
			g.Channels = append(g.Channels, d.FCS.Name)
		}

		var coords []float64
		for _, v := range pg.Vertices {
			for _, c := range v.Coordinates {
				f, err := strconv.ParseFloat(c.Value, 64)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidGate, err, "gate %q: coordinate %q", pg.ID, c.Value)
				}
				coords = append(coords, f)
			}
		}
		if len(coords)%2 != 0 {
			return nil, errors.New(errors.ErrCodeInvalidGate, "gate %q: odd number of coordinates", pg.ID)
		}
		for i := 0; i < len(coords); i += 2 {
			g.Vertices = append(g.Vertices, Vertex{coords[i], coords[i+1]})
		}
		gates = append(gates, g)
	}
	return NewSchema(gates)
}

func qualified(n xml.Name) string {
	switch n.Space {
	case nsGating:
		return "gating:" + n.Local
	case nsDatatypes:
		return "data-type:" + n.Local
	}
	return n.Local
}
