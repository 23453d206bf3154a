// Package host defines the contract between the reconciler and the surface it
// renders to.
//
// The reconciler never mutates a host surface directly. It asks a Renderer to
// create, patch, attach and remove host instances, and treats the returned
// Handle values as opaque identities. Structural diffing of host properties is
// entirely the renderer's concern.
package host

// Handle is a live host-surface instance such as a DOM node.
type Handle interface {
	// Tag returns the host tag the handle was created for.
	Tag() string
}

// Renderer is the external tree-diff/host-rendering collaborator.
type Renderer interface {
	// CreateInstance creates a detached host instance for a host element.
	CreateInstance(tag string, props map[string]any) Handle

	// DiffAndPatch applies the difference between prev and next props to h
	// and returns the handle now representing the element. Implementations
	// normally return h itself.
	DiffAndPatch(h Handle, prev, next map[string]any) Handle

	// RemoveInstance releases a host instance and detaches it from its parent.
	RemoveInstance(h Handle)

	// ReplaceChildren sets the ordered child list of parent.
	ReplaceChildren(parent Handle, children []Handle)
}

// TextTag is the reserved tag used for text content.
const TextTag = "#text"

// TextProp is the prop key carrying the content of a text instance.
const TextProp = "text"
