package core

// ownerLink records the composite whose render created a node's element.
// Ownership lives on the mounted node, never on the element, so a shared
// element is owned separately by every component that renders it.
type ownerLink struct {
	creator *instance
}

func (o *ownerLink) elementOwner() *instance        { return o.creator }
func (o *ownerLink) setElementOwner(inst *instance) { o.creator = inst }

// ownerOf resolves the owner of an element reconciled below the instance
// currently reconciling its output. An element belongs to the nearest
// instance in the creator chain whose last render created it; elements
// received through Children are passed up to the instance that created them.
// Top-level elements have no owner.
func (rt *Runtime) ownerOf(el *Element) *instance {
	for inst := rt.reconciling; inst != nil; inst = inst.creator {
		if _, ok := inst.created[el]; ok {
			return inst
		}
	}
	return nil
}

// recordCreated indexes the elements of out that inst created, that is every
// element except those it received as children.
func (inst *instance) recordCreated(out *Element) {
	var received map[*Element]struct{}
	if len(inst.el.Children) > 0 {
		received = make(map[*Element]struct{})
		for _, c := range inst.el.Children {
			markTree(received, c, nil)
		}
	}
	inst.created = make(map[*Element]struct{})
	markTree(inst.created, out, received)
}

func markTree(set map[*Element]struct{}, el *Element, skip map[*Element]struct{}) {
	if el == nil {
		return
	}
	if _, ok := skip[el]; ok {
		return
	}
	set[el] = struct{}{}
	for _, c := range el.Children {
		markTree(set, c, skip)
	}
}
