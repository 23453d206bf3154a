package core

// attachRef binds name in owner's ref table to n.
func (rt *Runtime) attachRef(n node, name string, owner *instance) {
	if name == "" || owner == nil {
		return
	}
	if owner.refs == nil {
		owner.refs = make(map[string]node)
	}
	owner.refs[name] = n
}

// detachRef removes owner's binding for name, but only while it still points
// at n. When siblings swap ref names in one render, an earlier sibling may
// already have rebound the name.
func (rt *Runtime) detachRef(n node, name string, owner *instance) {
	if name == "" || owner == nil {
		return
	}
	if bound, ok := owner.refs[name]; ok && bound == n {
		delete(owner.refs, name)
	}
}
