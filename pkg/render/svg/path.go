package svg

import (
	"math"
	"strings"
)

// Path accumulates SVG path data.
type Path struct {
	b strings.Builder
}

func (p *Path) MoveTo(x, y float64) {
	p.b.WriteString("M" + Num(x) + "," + Num(y))
}

func (p *Path) LineTo(x, y float64) {
	p.b.WriteString("L" + Num(x) + "," + Num(y))
}

func (p *Path) CurveTo(x1, y1, x2, y2, x, y float64) {
	p.b.WriteString("C" + Num(x1) + "," + Num(y1) + "," + Num(x2) + "," + Num(y2) + "," + Num(x) + "," + Num(y))
}

func (p *Path) Close() { p.b.WriteString("Z") }

func (p *Path) String() string { return p.b.String() }

// basis is a uniform cubic B-spline through a sequence of points. The first
// line of an area starts with a move; the second continues it and closes.
type basis struct {
	path          *Path
	line          int
	point         int
	x0, y0, x1, y1 float64
}

func (c *basis) lineStart() {
	c.x0, c.x1, c.y0, c.y1 = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	c.point = 0
}

func (c *basis) lineEnd() {
	switch c.point {
	case 3:
		c.bezier(c.x1, c.y1)
		fallthrough
	case 2:
		c.path.LineTo(c.x1, c.y1)
	}
	if c.line == 1 {
		c.path.Close()
	}
	c.line = 1 - c.line
}

func (c *basis) add(x, y float64) {
	switch c.point {
	case 0:
		c.point = 1
		if c.line == 1 {
			c.path.LineTo(x, y)
		} else {
			c.path.MoveTo(x, y)
		}
	case 1:
		c.point = 2
	case 2:
		c.point = 3
		c.path.LineTo((5*c.x0+c.x1)/6, (5*c.y0+c.y1)/6)
		c.bezier(x, y)
	default:
		c.bezier(x, y)
	}
	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
}

func (c *basis) bezier(x, y float64) {
	c.path.CurveTo(
		(2*c.x0+c.x1)/3, (2*c.y0+c.y1)/3,
		(c.x0+2*c.x1)/3, (c.y0+2*c.y1)/3,
		(c.x0+4*c.x1+x)/6, (c.y0+4*c.y1+y)/6,
	)
}

// BasisArea returns a closed area path smoothed with a cubic B-spline. The
// upper boundary (xs, y1) is traced forward and the lower boundary (xs, y0)
// backward. Non-finite points split the area into separate segments.
func BasisArea(xs, y0, y1 []float64) string {
	n := min(len(xs), len(y0), len(y1))
	var p Path
	c := basis{path: &p}

	defined := func(i int) bool {
		return !math.IsNaN(xs[i]) && !math.IsNaN(y0[i]) && !math.IsNaN(y1[i]) &&
			!math.IsInf(xs[i], 0) && !math.IsInf(y0[i], 0) && !math.IsInf(y1[i], 0)
	}

	start := 0
	inside := false
	for i := 0; i <= n; i++ {
		if (i < n && defined(i)) != inside {
			inside = !inside
			if inside {
				start = i
				c.line = 0
				c.lineStart()
			} else {
				c.lineEnd()
				c.lineStart()
				for k := i - 1; k >= start; k-- {
					c.add(xs[k], y0[k])
				}
				c.lineEnd()
			}
		}
		if inside {
			c.add(xs[i], y1[i])
		}
	}
	return p.String()
}
