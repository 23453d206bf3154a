// Package memory provides an in-memory host surface.
//
// Document implements host.Renderer over a plain tree of Node values. It is
// used by tests and the CLI to observe exactly which host operations the
// reconciler performs.
package memory

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/go-drift/reconciler/pkg/host"
)

// ContainerTag is the tag of nodes returned by Document.NewContainer.
const ContainerTag = "#container"

// Node is an in-memory host instance.
type Node struct {
	id       int
	tag      string
	props    map[string]any
	children []*Node
	parent   *Node
	removed  bool
}

// Tag returns the node's tag.
func (n *Node) Tag() string { return n.tag }

// ID returns the creation sequence number of the node.
func (n *Node) ID() int { return n.id }

// Prop returns the current value of a prop.
func (n *Node) Prop(name string) any { return n.props[name] }

// Props returns a copy of the current props.
func (n *Node) Props() map[string]any { return maps.Clone(n.props) }

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Removed reports whether RemoveInstance was called for the node.
func (n *Node) Removed() bool { return n.removed }

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.tag == host.TextTag {
		fmt.Fprint(sb, n.props[host.TextProp])
		return
	}
	for _, child := range n.children {
		child.writeText(sb)
	}
}

// String renders the subtree as compact markup, props sorted by name.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeMarkup(&sb)
	return sb.String()
}

func (n *Node) writeMarkup(sb *strings.Builder) {
	if n.tag == host.TextTag {
		fmt.Fprint(sb, n.props[host.TextProp])
		return
	}
	if n.tag == ContainerTag {
		for _, child := range n.children {
			child.writeMarkup(sb)
		}
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.tag)
	keys := make([]string, 0, len(n.props))
	for k := range n.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, fmt.Sprint(n.props[k]))
	}
	sb.WriteString(">")
	for _, child := range n.children {
		child.writeMarkup(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">")
}

// Stats counts the host operations a Document has performed.
type Stats struct {
	Creates  int
	Patches  int
	Removes  int
	Attaches int
}

// Document is an in-memory host.Renderer.
type Document struct {
	nextID int
	stats  Stats
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// NewContainer creates a detached container node to mount roots into.
func (d *Document) NewContainer() *Node {
	return d.newNode(ContainerTag, nil)
}

// Stats returns a snapshot of the operation counters.
func (d *Document) Stats() Stats {
	return d.stats
}

func (d *Document) newNode(tag string, props map[string]any) *Node {
	d.nextID++
	return &Node{id: d.nextID, tag: tag, props: maps.Clone(props)}
}

// CreateInstance implements host.Renderer.
func (d *Document) CreateInstance(tag string, props map[string]any) host.Handle {
	d.stats.Creates++
	return d.newNode(tag, props)
}

// DiffAndPatch implements host.Renderer. Props are replaced wholesale; the
// node identity is preserved.
func (d *Document) DiffAndPatch(h host.Handle, prev, next map[string]any) host.Handle {
	node := h.(*Node)
	if maps.EqualFunc(prev, next, func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) }) {
		return node
	}
	d.stats.Patches++
	node.props = maps.Clone(next)
	return node
}

// RemoveInstance implements host.Renderer.
func (d *Document) RemoveInstance(h host.Handle) {
	node := h.(*Node)
	d.stats.Removes++
	node.removed = true
	if node.parent != nil {
		node.parent.children = slices.DeleteFunc(node.parent.children, func(c *Node) bool { return c == node })
		node.parent = nil
	}
}

// ReplaceChildren implements host.Renderer.
func (d *Document) ReplaceChildren(parent host.Handle, children []host.Handle) {
	p := parent.(*Node)
	d.stats.Attaches++
	for _, old := range p.children {
		if old.parent == p {
			old.parent = nil
		}
	}
	p.children = p.children[:0]
	for _, h := range children {
		child := h.(*Node)
		if child.parent != nil && child.parent != p {
			child.parent.children = slices.DeleteFunc(child.parent.children, func(c *Node) bool { return c == child })
		}
		child.parent = p
		p.children = append(p.children, child)
	}
}
