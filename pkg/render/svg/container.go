package svg

import (
	"bytes"
	"io"
	"slices"
	"sync"
)

// Selectors of the page containers the chart renderers draw into.
const (
	ViolinsSelector  = "div#violins svg"
	BoxplotsSelector = "div#boxplots svg"
	ColorbarSelector = "div#colorbar svg"
)

// Container is a pre-existing rendering target: an <svg> root identified by
// a selector. Renderers either append to it or clear and rebuild it.
// All access to the tree goes through Update and View.
type Container struct {
	mu       sync.Mutex
	selector string
	root     *Element
}

// NewContainer returns an empty container for selector.
func NewContainer(selector string) *Container {
	return &Container{selector: selector, root: New("svg").SetAttr("xmlns", namespace)}
}

// Selector returns the selector the container was created for.
func (c *Container) Selector() string { return c.selector }

// Update runs fn with exclusive access to the root element.
func (c *Container) Update(fn func(root *Element) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.root)
}

// View runs fn with the root element. fn must not modify the tree.
func (c *Container) View(fn func(root *Element)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.root)
}

// WriteTo writes the container as a standalone SVG document.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root.WriteTo(w)
}

// Bytes returns the container as a standalone SVG document.
func (c *Container) Bytes() []byte {
	var buf bytes.Buffer
	c.WriteTo(&buf)
	return buf.Bytes()
}

// Page holds containers keyed by selector.
type Page struct {
	mu         sync.RWMutex
	containers map[string]*Container
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{containers: make(map[string]*Container)}
}

// Container returns the container for selector, creating it on first use.
func (p *Page) Container(selector string) *Container {
	p.mu.RLock()
	c, ok := p.containers[selector]
	p.mu.RUnlock()
	if ok {
		return c
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.containers[selector]; ok {
		return c
	}
	c = NewContainer(selector)
	p.containers[selector] = c
	return c
}

// Lookup returns an existing container.
func (p *Page) Lookup(selector string) (*Container, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.containers[selector]
	return c, ok
}

// Reset replaces the container for selector with an empty one.
func (p *Page) Reset(selector string) *Container {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := NewContainer(selector)
	p.containers[selector] = c
	return c
}

// Selectors returns the known selectors in sorted order.
func (p *Page) Selectors() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.containers))
	for s := range p.containers {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Embed appends a stylesheet and script to root unless a block with the
// same name is already present. Either body may be empty.
func Embed(root *Element, name, css, js string) {
	for _, c := range root.Children {
		if v, _ := c.Attr("data-asset"); v == name {
			return
		}
	}
	if css != "" {
		st := New("style").SetAttr("data-asset", name).SetText(css)
		st.Raw = true
		root.Append(st)
	}
	if js != "" {
		sc := New("script").SetAttr("data-asset", name).SetText(js)
		sc.Raw = true
		root.Append(sc)
	}
}

// Size sets the root's width, height and viewBox.
func Size(root *Element, width, height float64) {
	root.SetAttr("width", width).
		SetAttr("height", height).
		SetAttr("viewBox", "0 0 "+Num(width)+" "+Num(height))
}

// Margin is the space reserved around a chart's plotting area.
type Margin struct {
	Top, Right, Bottom, Left float64
}
