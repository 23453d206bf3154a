package core

// RenderFunc renders a stateless component from its props, masked context and
// children.
type RenderFunc func(props Props, ctx Context, children []*Element) *Element

// DefineFunc registers a stateless component whose output depends only on
// its props, context and children. It supports every Define option.
func DefineFunc(name string, render RenderFunc, opts ...DefineOption) *Definition {
	return Define(name, func(Props) Component {
		return &funcComponent{render: render}
	}, opts...)
}

type funcComponent struct {
	Base
	render RenderFunc
}

func (f *funcComponent) Render() *Element {
	return f.render(f.Props(), f.Context(), f.Children())
}
