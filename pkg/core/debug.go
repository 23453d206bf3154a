package core

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DebugState is a snapshot of a runtime's internal bookkeeping.
type DebugState struct {
	// Batching reports whether a batch is open.
	Batching bool
	// Owner is the definition name of the instance currently rendering.
	Owner string
	// ContextDepth is the number of frames on the context stack.
	ContextDepth int
	// LiveInstances is the number of mounted composite instances.
	LiveInstances int
	// Roots is the number of mounted containers.
	Roots int
	// Dirty is the number of instances awaiting the next flush pass.
	Dirty int
}

// Debug returns a snapshot of the runtime's bookkeeping. Outside any render
// or batch, Batching is false, Owner is empty and ContextDepth is zero.
func (rt *Runtime) Debug() DebugState {
	s := DebugState{
		Batching:      rt.tx.batching(),
		ContextDepth:  rt.stack.depth(),
		LiveInstances: rt.registry.len(),
		Roots:         len(rt.roots),
		Dirty:         len(rt.tx.dirty),
	}
	if rt.owner != nil {
		s.Owner = rt.owner.def.name
	}
	return s
}

// DumpTree returns an indented description of every mounted root, in the
// order the roots were created, for debugging.
func (rt *Runtime) DumpTree() string {
	roots := slices.SortedFunc(maps.Values(rt.roots), func(a, b *root) int {
		return cmp.Compare(a.seq, b.seq)
	})
	var sb strings.Builder
	for _, r := range roots {
		if r.node != nil {
			dumpNode(&sb, r.node, 0)
		}
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, n node, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	switch n := n.(type) {
	case *instance:
		fmt.Fprintf(sb, "%s [%s]", n.def.name, n.lifecycle)
		if n.el.Key != "" {
			fmt.Fprintf(sb, " key=%q", n.el.Key)
		}
		sb.WriteString("\n")
		if n.rendered != nil {
			dumpNode(sb, n.rendered, indent+1)
		}
	case *hostNode:
		fmt.Fprintf(sb, "<%s>", n.el.Tag())
		if n.el.Key != "" {
			fmt.Fprintf(sb, " key=%q", n.el.Key)
		}
		sb.WriteString("\n")
		for _, c := range n.children {
			dumpNode(sb, c, indent+1)
		}
	}
}
