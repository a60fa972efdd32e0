package dom

import (
	"slices"

	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/placement"
)

// Element is a node in a [Document]. Create elements with
// [Document.CreateElement].
type Element struct {
	doc *Document

	id, tag string
	text    string
	classes *ClassList
	attrs   map[string]string

	style  geom.InlineStyle
	margin geom.Edges

	size      geom.Size
	hasSize   bool
	wrapWidth float64
	absolute  bool

	// x, y is the margin-box origin of a root element in the viewport.
	x, y float64
	root bool

	parent   *Element
	children []*Element
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element id, or "" when unset.
func (e *Element) ID() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.id
}

// SetID assigns the element id. It fails when a connected element already
// uses it.
func (e *Element) SetID(id string) error {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if other, ok := d.byID[id]; ok && other != e && other.connectedLocked() {
		return ErrDuplicateID
	}
	if e.id != "" && d.byID[e.id] == e {
		delete(d.byID, e.id)
	}
	e.id = id
	if id != "" {
		d.byID[id] = e
	}
	return nil
}

// Text returns the element's text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.text
}

// SetText sets the element's text content.
func (e *Element) SetText(s string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.text = s
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttribute sets the named attribute.
func (e *Element) SetAttribute(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.attrs[name] = value
}

// RemoveAttribute deletes the named attribute.
func (e *Element) RemoveAttribute(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	delete(e.attrs, name)
}

// Attributes returns a copy of all attributes.
func (e *Element) Attributes() map[string]string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// AddClass adds class names.
func (e *Element) AddClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.classes.Add(names...)
}

// RemoveClass removes class names.
func (e *Element) RemoveClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.classes.Remove(names...)
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.classes.Contains(name)
}

// ToggleClass flips a class and reports whether it is now present.
func (e *Element) ToggleClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.classes.Toggle(name)
}

// ClassNames returns the classes in insertion order.
func (e *Element) ClassNames() []string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.classes.Values()
}

// InlineStyle returns the element's inline offsets and margin.
func (e *Element) InlineStyle() geom.InlineStyle {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.style
}

// SetInlineStyle replaces the element's inline offsets and margin.
func (e *Element) SetInlineStyle(s geom.InlineStyle) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.style = s
}

// Margin returns the element's computed margins, before any inline margin.
func (e *Element) Margin() geom.Edges {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.margin
}

// SetMargin sets the element's computed margins.
func (e *Element) SetMargin(m geom.Edges) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.margin = m
}

// SetSize fixes the element's border-box size. Elements without a size
// shrink-wrap their in-flow children.
func (e *Element) SetSize(width, height float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.size = geom.Size{Width: width, Height: height}
	e.hasSize = true
}

// SetWrapWidth overrides the document's wrap width for this element.
func (e *Element) SetWrapWidth(w float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.wrapWidth = w
}

// SetAbsolute takes the element out of normal flow.
func (e *Element) SetAbsolute(abs bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.absolute = abs
}

// MoveTo positions a root element's margin box in the viewport.
func (e *Element) MoveTo(x, y float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.x, e.y = x, y
}

// AppendChild appends c as the last child of e, detaching it from any
// previous parent.
func (e *Element) AppendChild(c *Element) error {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.doc != d || c == e {
		return ErrInvalidParent
	}
	for p := e.parent; p != nil; p = p.parent {
		if p == c {
			return ErrInvalidParent
		}
	}
	c.detachLocked()
	c.parent = e
	e.children = append(e.children, c)
	return nil
}

// Position returns the margin-box origin given to MoveTo.
func (e *Element) Position() (x, y float64) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.x, e.y
}

// Wrap puts wrapper in e's place, at the same sibling index or root
// position, and moves e inside it as its first child.
func (e *Element) Wrap(wrapper *Element) error {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if wrapper.doc != d || wrapper == e || wrapper.parent != nil || wrapper.root || len(wrapper.children) > 0 {
		return ErrInvalidParent
	}
	switch {
	case e.parent != nil:
		p := e.parent
		i := slices.Index(p.children, e)
		p.children[i] = wrapper
		wrapper.parent = p
	case e.root:
		i := slices.Index(d.roots, e)
		d.roots[i] = wrapper
		wrapper.root = true
		e.root = false
	}
	wrapper.x, wrapper.y = e.x, e.y
	e.parent = wrapper
	e.x, e.y = 0, 0
	wrapper.children = []*Element{e}
	return nil
}

// Remove detaches e from its parent or from the document roots. The
// element keeps its subtree and can be re-attached.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.detachLocked()
}

func (e *Element) detachLocked() {
	if p := e.parent; p != nil {
		p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
		e.parent = nil
	}
	if e.root {
		d := e.doc
		d.roots = slices.DeleteFunc(d.roots, func(r *Element) bool { return r == e })
		e.root = false
	}
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Clone(e.children)
}

// Connected reports whether e is attached to its document. A nil element is
// not connected.
func (e *Element) Connected() bool {
	if e == nil {
		return false
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.connectedLocked()
}

func (e *Element) connectedLocked() bool {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n.root
}

// Geometry returns the element's offset box and computed margins.
func (e *Element) Geometry() placement.AnchorGeometry {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	box := e.borderBox()
	var origin geom.Rect
	if e.parent != nil {
		origin = e.parent.borderBox()
	}
	return placement.AnchorGeometry{
		OffsetLeft:   box.Left - origin.Left,
		OffsetTop:    box.Top - origin.Top,
		OffsetWidth:  box.Width(),
		OffsetHeight: box.Height(),
		Margin:       e.effectiveMargin(),
	}
}

// OffsetSize returns the laid-out border-box size.
func (e *Element) OffsetSize() geom.Size {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.offsetSize()
}

// BoundingClientRect returns the border box in viewport coordinates, or the
// zero rectangle when e is detached.
func (e *Element) BoundingClientRect() geom.Rect {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	if !e.connectedLocked() {
		return geom.Rect{}
	}
	return e.borderBox()
}

var (
	_ placement.Anchor  = (*Element)(nil)
	_ placement.Overlay = (*Element)(nil)
)
