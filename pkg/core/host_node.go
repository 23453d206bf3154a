package core

import (
	"slices"

	"github.com/go-drift/reconciler/pkg/host"
)

// hostNode is a mounted host element. It owns one host handle and acts as
// the host slot for its children.
type hostNode struct {
	ownerLink

	rt    *Runtime
	el    *Element
	frame *contextFrame
	depth int

	handle       host.Handle
	children     []node
	childKeys    []string
	childHandles []host.Handle
}

func (n *hostNode) currentElement() *Element     { return n.el }
func (n *hostNode) receivedFrame() *contextFrame { return n.frame }
func (n *hostNode) hostHandle() host.Handle      { return n.handle }
func (n *hostNode) publicHandle() any            { return n.handle }

func (n *hostNode) mount(_ hostSlot, depth int) {
	n.depth = depth
	n.frame = n.rt.stack.current()
	n.handle = n.rt.renderer.CreateInstance(n.el.Tag(), n.el.Props)
	n.children, n.childKeys = n.rt.reconcileChildren(nil, nil, n.el.Children, n, depth+1)
	n.syncChildren()
}

func (n *hostNode) receive(el *Element) {
	prev := n.el
	n.el = el
	n.frame = n.rt.stack.current()
	if prev != el {
		if h := n.rt.renderer.DiffAndPatch(n.handle, prev.Props, el.Props); h != nil {
			n.handle = h
		}
	}
	n.children, n.childKeys = n.rt.reconcileChildren(n.children, n.childKeys, el.Children, n, n.depth+1)
	n.syncChildren()
}

// unmount tears down children first, so that composite descendants run
// WillUnmount while this node's handle is still attached.
func (n *hostNode) unmount() {
	for _, child := range n.children {
		n.rt.unmountNode(child)
	}
	n.children, n.childKeys, n.childHandles = nil, nil, nil
	if n.handle != nil {
		n.rt.renderer.RemoveInstance(n.handle)
		n.handle = nil
	}
}

// release removes the host instance of an abandoned mount. Children are
// released on their own, since every node created during the mount is
// tracked.
func (n *hostNode) release() {
	n.children, n.childKeys, n.childHandles = nil, nil, nil
	if n.handle != nil {
		n.rt.renderer.RemoveInstance(n.handle)
		n.handle = nil
	}
}

// syncChildren re-attaches the children's host handles when they differ from
// the last attached list.
func (n *hostNode) syncChildren() {
	handles := collectHandles(n.children)
	if slices.Equal(handles, n.childHandles) {
		return
	}
	n.childHandles = handles
	n.rt.renderer.ReplaceChildren(n.handle, handles)
}

func collectHandles(nodes []node) []host.Handle {
	handles := make([]host.Handle, 0, len(nodes))
	for _, c := range nodes {
		if h := c.hostHandle(); h != nil {
			handles = append(handles, h)
		}
	}
	return handles
}
