package core

import "github.com/go-drift/reconciler/pkg/host"

// node is a mounted element: a host node or a composite instance.
type node interface {
	currentElement() *Element
	// receivedFrame is the unmasked context frame the node was last
	// reconciled under.
	receivedFrame() *contextFrame
	mount(slot hostSlot, depth int)
	receive(el *Element)
	unmount()
	hostHandle() host.Handle
	// publicHandle is what a ref to the node resolves to.
	publicHandle() any
	// elementOwner is the composite that created the node's element, or nil.
	elementOwner() *instance
	setElementOwner(inst *instance)
	// release discards a node whose mount was abandoned, without running
	// lifecycle hooks.
	release()
}

// hostSlot is the nearest host ancestor of a node (or a root container). It
// re-attaches its children's host handles when they change.
type hostSlot interface {
	syncChildren()
}

// reconcileChild is the single-child reconciliation step: reuse existing when
// the element matches by type and key, otherwise replace it.
func (rt *Runtime) reconcileChild(existing node, el *Element, slot hostSlot, depth int) node {
	if el == nil {
		if existing != nil {
			rt.unmountNode(existing)
		}
		return nil
	}
	if existing != nil && canUpdate(existing.currentElement(), el) {
		rt.receiveNode(existing, el)
		return existing
	}
	if existing != nil {
		rt.unmountNode(existing)
	}
	return rt.mountNode(el, slot, depth)
}

// reconcileChildren matches next against the previous children by key, or by
// position for unkeyed children. prevKeys holds the slot key of each previous
// child. Unmatched previous children are unmounted in order.
func (rt *Runtime) reconcileChildren(prev []node, prevKeys []string, next []*Element, slot hostSlot, depth int) ([]node, []string) {
	byKey := make(map[string]int, len(prev))
	for i, k := range prevKeys {
		byKey[k] = i
	}
	used := make([]bool, len(prev))

	nodes := make([]node, 0, len(next))
	keys := make([]string, 0, len(next))
	for i, el := range next {
		if el == nil {
			continue
		}
		k := childKey(el, i)
		var existing node
		if j, ok := byKey[k]; ok && !used[j] {
			used[j] = true
			existing = prev[j]
		}
		if n := rt.reconcileChild(existing, el, slot, depth); n != nil {
			nodes = append(nodes, n)
			keys = append(keys, k)
		}
	}
	for j, n := range prev {
		if !used[j] {
			rt.unmountNode(n)
		}
	}
	return nodes, keys
}

func (rt *Runtime) instantiate(el *Element) node {
	if def := el.Definition(); def != nil {
		return rt.newInstance(def, el)
	}
	return &hostNode{rt: rt, el: el}
}

// mountNode instantiates and mounts el. Nodes created while reconciling are
// tracked as provisional until the enclosing update settles; when a mount
// panics, the nodes created below it are released so that none of them stays
// registered or holds a host handle.
func (rt *Runtime) mountNode(el *Element, slot hostSlot, depth int) node {
	n := rt.instantiate(el)
	owner := rt.ownerOf(el)
	n.setElementOwner(owner)

	mark := len(rt.provisional)
	rt.provisional = append(rt.provisional, n)
	mounted := false
	defer func() {
		if !mounted {
			rt.abandon(mark)
		}
	}()

	n.mount(slot, depth)
	rt.attachRef(n, el.Ref, owner)
	mounted = true
	return n
}

// abandon releases the provisional nodes created since mark, newest first.
func (rt *Runtime) abandon(mark int) {
	for i := len(rt.provisional) - 1; i >= mark; i-- {
		n := rt.provisional[i]
		rt.detachRef(n, n.currentElement().Ref, n.elementOwner())
		n.release()
	}
	rt.settle(mark)
}

// settle stops tracking the provisional nodes created since mark, once the
// update that created them has completed and attached them to the tree.
func (rt *Runtime) settle(mark int) {
	clear(rt.provisional[mark:])
	rt.provisional = rt.provisional[:mark]
}

// receiveNode updates n with el. When both the element and the context frame
// are identical to the previous reconciliation the whole subtree is skipped.
func (rt *Runtime) receiveNode(n node, el *Element) {
	prev := n.currentElement()
	if prev == el && n.receivedFrame() == rt.stack.current() {
		return
	}
	prevOwner := n.elementOwner()
	owner := rt.ownerOf(el)
	n.setElementOwner(owner)
	n.receive(el)
	if prev.Ref != el.Ref || prevOwner != owner {
		rt.detachRef(n, prev.Ref, prevOwner)
		rt.attachRef(n, el.Ref, owner)
	}
}

func (rt *Runtime) unmountNode(n node) {
	rt.detachRef(n, n.currentElement().Ref, n.elementOwner())
	n.unmount()
}
