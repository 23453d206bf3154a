package core

import "maps"

// contextFrame is an immutable snapshot of the unmasked context visible at a
// point in the tree. Frames are compared by pointer: a node whose element and
// frame are both unchanged is skipped during reconciliation.
type contextFrame struct {
	values Context
}

// extend returns a new frame with values layered over f. Nearest provider wins.
func (f *contextFrame) extend(values Context) *contextFrame {
	merged := make(Context, len(f.values)+len(values))
	maps.Copy(merged, f.values)
	maps.Copy(merged, values)
	return &contextFrame{values: merged}
}

// emptyContext is handed to every instance that declares no context types.
// It is shared, so callers must treat Context values as read-only.
var emptyContext = Context{}

// mask projects the frame onto the declared keys. Declared keys that no
// provider supplies are present with a nil value.
func (f *contextFrame) mask(keys []string) Context {
	if len(keys) == 0 {
		return emptyContext
	}
	out := make(Context, len(keys))
	for _, k := range keys {
		out[k] = f.values[k]
	}
	return out
}

// contextStack tracks the frame pushed by each composite along the current
// reconciliation path. The bottom is the runtime's root frame.
type contextStack struct {
	root   *contextFrame
	frames []*contextFrame
}

func newContextStack() contextStack {
	return contextStack{root: &contextFrame{values: Context{}}}
}

func (s *contextStack) current() *contextFrame {
	if len(s.frames) == 0 {
		return s.root
	}
	return s.frames[len(s.frames)-1]
}

// push makes f current and returns a function restoring the previous depth.
// The restore function unwinds any frames left by a failed subtree.
func (s *contextStack) push(f *contextFrame) (restore func()) {
	depth := len(s.frames)
	s.frames = append(s.frames, f)
	return func() { s.unwindTo(depth) }
}

func (s *contextStack) unwindTo(depth int) {
	if depth > len(s.frames) {
		return
	}
	clear(s.frames[depth:])
	s.frames = s.frames[:depth]
}

func (s *contextStack) depth() int {
	return len(s.frames)
}

func (s *contextStack) reset() {
	s.unwindTo(0)
}
