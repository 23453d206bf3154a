package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/reconciler/pkg/host"
)

func TestDocument_CreateAndAttach(t *testing.T) {
	doc := NewDocument()
	root := doc.NewContainer()

	div := doc.CreateInstance("div", map[string]any{"id": "x", "n": 2})
	text := doc.CreateInstance(host.TextTag, map[string]any{host.TextProp: "hi"})
	doc.ReplaceChildren(div, []host.Handle{text})
	doc.ReplaceChildren(root, []host.Handle{div})

	assert.Equal(t, `<div id="x" n="2">hi</div>`, root.String())
	assert.Equal(t, "hi", root.TextContent())
	assert.Same(t, root, div.(*Node).Parent())
	assert.Equal(t, Stats{Creates: 2, Attaches: 2}, doc.Stats())
}

func TestDocument_CreateCopiesProps(t *testing.T) {
	doc := NewDocument()
	props := map[string]any{"a": 1}
	n := doc.CreateInstance("p", props).(*Node)

	props["a"] = 2
	assert.Equal(t, 1, n.Prop("a"))

	n.Props()["a"] = 3
	assert.Equal(t, 1, n.Prop("a"))
}

func TestDocument_DiffAndPatch(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateInstance("p", map[string]any{"a": 1})

	same := doc.DiffAndPatch(n, map[string]any{"a": 1}, map[string]any{"a": 1})
	assert.Same(t, n, same)
	assert.Equal(t, 0, doc.Stats().Patches)

	patched := doc.DiffAndPatch(n, map[string]any{"a": 1}, map[string]any{"b": 2})
	assert.Same(t, n, patched)
	assert.Equal(t, 1, doc.Stats().Patches)
	assert.Nil(t, n.(*Node).Prop("a"))
	assert.Equal(t, 2, n.(*Node).Prop("b"))
}

func TestDocument_RemoveInstance(t *testing.T) {
	doc := NewDocument()
	root := doc.NewContainer()
	a := doc.CreateInstance("a", nil)
	b := doc.CreateInstance("b", nil)
	doc.ReplaceChildren(root, []host.Handle{a, b})

	doc.RemoveInstance(a)

	assert.True(t, a.(*Node).Removed())
	assert.Nil(t, a.(*Node).Parent())
	require.Len(t, root.Children(), 1)
	assert.Same(t, b, root.FirstChild())
	assert.Equal(t, "<b></b>", root.String())
}

func TestDocument_ReplaceChildrenMovesNodes(t *testing.T) {
	doc := NewDocument()
	left := doc.CreateInstance("left", nil)
	right := doc.CreateInstance("right", nil)
	child := doc.CreateInstance("c", nil)

	doc.ReplaceChildren(left, []host.Handle{child})
	doc.ReplaceChildren(right, []host.Handle{child})

	assert.Empty(t, left.(*Node).Children())
	assert.Same(t, right, child.(*Node).Parent())
}

func TestNode_IDsIncrease(t *testing.T) {
	doc := NewDocument()
	first := doc.NewContainer()
	second := doc.CreateInstance("x", nil).(*Node)

	assert.Less(t, first.ID(), second.ID())
	assert.Equal(t, ContainerTag, first.Tag())
	assert.Nil(t, first.FirstChild())
}
