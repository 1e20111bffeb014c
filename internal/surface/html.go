package surface

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
)

// HTMLDocument is a parsed HTML document acting as a mutable surface.
// It implements both Shell and Frame: the shell's root is the <body>
// element, and frame targets are located with simple selectors
// ("#id", ".class", or a tag name).
//
// All mutation and rendering goes through one mutex so the daemon's
// HTTP handlers can serve the document while the syncer mutates it.
type HTMLDocument struct {
	mu   sync.Mutex
	root *html.Node
}

// ParseHTMLDocument parses an HTML document into a surface.
func ParseHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategorySurface, "parse surface document").Build()
	}
	return &HTMLDocument{root: root}, nil
}

// Root returns the <body> element, or nil before one exists.
func (d *HTMLDocument) Root() ClassTarget {
	if d == nil {
		return nil
	}
	if n := d.find(func(n *html.Node) bool { return n.Data == "body" }); n != nil {
		return &Element{doc: d, node: n}
	}
	return nil
}

// ClassTarget locates an element by selector for class mutation.
// Returns nil when no element matches.
func (d *HTMLDocument) ClassTarget(selector string) ClassTarget {
	if e := d.Find(selector); e != nil {
		return e
	}
	return nil
}

// AttributeTarget locates an element by selector for attribute mutation.
// Returns nil when no element matches.
func (d *HTMLDocument) AttributeTarget(selector string) AttributeTarget {
	if e := d.Find(selector); e != nil {
		return e
	}
	return nil
}

// Find locates the first element matching a selector: "#id" by id,
// ".name" by class, anything else by tag name. Returns nil when the
// document holds no match.
func (d *HTMLDocument) Find(selector string) *Element {
	if d == nil || selector == "" {
		return nil
	}

	var match func(*html.Node) bool
	switch {
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		match = func(n *html.Node) bool { return getAttr(n, "id") == id }
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		match = func(n *html.Node) bool { return hasClass(getAttr(n, "class"), class) }
	default:
		match = func(n *html.Node) bool { return n.Data == selector }
	}

	if n := d.find(match); n != nil {
		return &Element{doc: d, node: n}
	}
	return nil
}

func (d *HTMLDocument) find(match func(*html.Node) bool) *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// Render serializes the document.
func (d *HTMLDocument) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := html.Render(w, d.root); err != nil {
		return ferrors.WrapError(err, ferrors.CategorySurface, "render surface document").Build()
	}
	return nil
}

// Bytes renders the document into memory.
func (d *HTMLDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Element is a located node within an HTMLDocument. All methods are
// nil-receiver-safe: applicators call them on failed lookups and expect
// a silent no-op.
type Element struct {
	doc  *HTMLDocument
	node *html.Node
}

// AddClass adds a class to the element if not already present.
func (e *Element) AddClass(name string) {
	if e == nil || name == "" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	current := getAttr(e.node, "class")
	if hasClass(current, name) {
		return
	}
	setAttr(e.node, "class", strings.TrimSpace(current+" "+name))
}

// RemoveClass removes a class from the element.
func (e *Element) RemoveClass(name string) {
	if e == nil || name == "" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	current := getAttr(e.node, "class")
	if !hasClass(current, name) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(current) {
		if c != name {
			kept = append(kept, c)
		}
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	if e == nil {
		return false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	return hasClass(getAttr(e.node, "class"), name)
}

// SetAttribute sets an attribute on the element.
func (e *Element) SetAttribute(name, value string) {
	if e == nil || name == "" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	setAttr(e.node, name, value)
}

// Attribute returns an attribute value, empty when absent.
func (e *Element) Attribute(name string) string {
	if e == nil {
		return ""
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	return getAttr(e.node, name)
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, value string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}
