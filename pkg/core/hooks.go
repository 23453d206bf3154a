package core

// StateField is a typed accessor for one key of a map-shaped state.
//
//	var count = core.StateField[int]{Name: "count"}
//
//	func (c *counter) Render() *core.Element {
//	    return core.Text(strconv.Itoa(count.Get(c)))
//	}
//
//	count.Set(c, count.Get(c)+1, nil)
type StateField[T any] struct {
	Name string
}

// Get returns the field's committed value, or the zero value when the state
// does not hold it or holds a value of another type.
func (f StateField[T]) Get(c Component) T {
	var zero T
	v, ok := c.base().StateMap()[f.Name]
	if !ok {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		return zero
	}
	return t
}

// Set requests a merge of the field's new value.
func (f StateField[T]) Set(c Component, value T, callback func()) {
	c.base().SetState(map[string]any{f.Name: value}, callback)
}

// Update requests a merge computed from the field's value in the state as
// folded so far, so repeated calls within one batch compose.
func (f StateField[T]) Update(c Component, fn func(T) T, callback func()) {
	c.base().SetStateFunc(func(prev any, _ Props) map[string]any {
		var cur T
		if v, ok := stateMap(prev)[f.Name].(T); ok {
			cur = v
		}
		return map[string]any{f.Name: fn(cur)}
	}, callback)
}

// PropField is a typed accessor for one prop.
type PropField[T any] struct {
	Name string
}

// Get returns the prop's value, or the zero value when absent or mistyped.
func (f PropField[T]) Get(c Component) T {
	t, _ := c.base().Props()[f.Name].(T)
	return t
}

// From reads the prop from a props map, as passed to hooks.
func (f PropField[T]) From(props Props) T {
	t, _ := props[f.Name].(T)
	return t
}
