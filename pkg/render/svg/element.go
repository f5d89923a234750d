package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const namespace = "http://www.w3.org/2000/svg"

type attr struct {
	name, value string
}

// Element is a node in an SVG document. Attributes and inline styles keep
// their insertion order so serialised output is stable.
type Element struct {
	Tag      string
	Children []*Element
	Text     string

	// Raw marks Text as script or stylesheet content written inside CDATA.
	Raw bool

	attrs  []attr
	styles []attr
}

// New returns an empty element with the given tag.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value in place. Numbers
// are formatted with [Num].
func (e *Element) SetAttr(name string, value any) *Element {
	v := format(value)
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = v
			return e
		}
	}
	e.attrs = append(e.attrs, attr{name, v})
	return e
}

// RemoveAttr deletes the named attribute if present.
func (e *Element) RemoveAttr(name string) *Element {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			break
		}
	}
	return e
}

// Style sets an inline style property.
func (e *Element) Style(name string, value any) *Element {
	v := format(value)
	for i := range e.styles {
		if e.styles[i].name == name {
			e.styles[i].value = v
			return e
		}
	}
	e.styles = append(e.styles, attr{name, v})
	return e
}

// StyleValue returns an inline style property.
func (e *Element) StyleValue(name string) (string, bool) {
	for _, s := range e.styles {
		if s.name == name {
			return s.value, true
		}
	}
	return "", false
}

// SetText sets the element's character data.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// HasClass reports whether the class attribute contains class.
func (e *Element) HasClass(class string) bool {
	v, _ := e.Attr("class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Append adds children and returns the last one, so that
// parent.Append(New("g")) yields the new group.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

// Add creates a child with tag, appends it, and returns it.
func (e *Element) Add(tag string) *Element {
	return e.Append(New(tag))
}

// Clear removes every child.
func (e *Element) Clear() {
	e.Children = nil
}

// RemoveChildren removes direct children for which match returns true and
// reports how many were removed.
func (e *Element) RemoveChildren(match func(*Element) bool) int {
	kept := e.Children[:0]
	removed := 0
	for _, c := range e.Children {
		if match(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(e.Children); i++ {
		e.Children[i] = nil
	}
	e.Children = kept
	return removed
}

// Find returns every descendant of e, in document order, for which match
// returns true. The receiver itself is not tested.
func (e *Element) Find(match func(*Element) bool) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// ByID returns every descendant whose id attribute equals id.
func (e *Element) ByID(id string) []*Element {
	return e.Find(func(n *Element) bool {
		v, ok := n.Attr("id")
		return ok && v == id
	})
}

// ByClass returns every descendant carrying class.
func (e *Element) ByClass(class string) []*Element {
	return e.Find(func(n *Element) bool { return n.HasClass(class) })
}

// ByTag returns every descendant with the given tag.
func (e *Element) ByTag(tag string) []*Element {
	return e.Find(func(n *Element) bool { return n.Tag == tag })
}

// WriteTo serialises the element and its subtree as indented XML.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	e.write(&buf, 0)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// String returns the serialised element.
func (e *Element) String() string {
	var buf bytes.Buffer
	e.write(&buf, 0)
	return buf.String()
}

func (e *Element) write(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.name, escape(a.value))
	}
	if len(e.styles) > 0 {
		parts := make([]string, len(e.styles))
		for i, s := range e.styles {
			parts[i] = s.name + ": " + s.value
		}
		fmt.Fprintf(buf, ` style="%s"`, escape(strings.Join(parts, "; ")))
	}

	switch {
	case len(e.Children) == 0 && e.Text == "":
		buf.WriteString("/>\n")
		return
	case e.Raw:
		buf.WriteString("><![CDATA[")
		buf.WriteString(strings.ReplaceAll(e.Text, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]>")
	default:
		buf.WriteByte('>')
		buf.WriteString(escape(e.Text))
	}

	if len(e.Children) > 0 {
		buf.WriteByte('\n')
		for _, c := range e.Children {
			c.write(buf, depth+1)
		}
		buf.WriteString(indent)
	}
	fmt.Fprintf(buf, "</%s>\n", e.Tag)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escape(s string) string { return escaper.Replace(s) }

// Num formats a coordinate rounded to two decimals without trailing zeros.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Translate formats an SVG translate transform.
func Translate(x, y float64) string {
	return "translate(" + Num(x) + "," + Num(y) + ")"
}

// Rotate formats an SVG rotate transform.
func Rotate(deg float64) string {
	return "rotate(" + Num(deg) + ")"
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
