package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objState struct {
	Str    string
	hidden int
}

func TestFold_MergesInOrder(t *testing.T) {
	state := map[string]any{"a": 1, "b": 1}
	got := fold(state, []update{
		{kind: updateMerge, partial: map[string]any{"a": 2}},
		{kind: updateMerge, partial: map[string]any{"a": 3, "c": 1}},
	}, nil)

	assert.Equal(t, map[string]any{"a": 3, "b": 1, "c": 1}, got)
	assert.Equal(t, map[string]any{"a": 1, "b": 1}, state, "input state must not be modified")
}

func TestFold_UpdaterSeesFoldedState(t *testing.T) {
	inc := func(prev any, props Props) map[string]any {
		n, _ := prev.(map[string]any)["n"].(int)
		step, _ := props["step"].(int)
		return map[string]any{"n": n + step}
	}
	got := fold(map[string]any{"n": 0}, []update{
		{kind: updateFunc, updater: inc},
		{kind: updateFunc, updater: inc},
		{kind: updateFunc, updater: inc},
	}, Props{"step": 2})

	assert.Equal(t, map[string]any{"n": 6}, got)
}

func TestFold_ReplaceKeepsIdentity(t *testing.T) {
	first := &objState{Str: "first"}
	second := &objState{Str: "second"}

	got := fold(first, []update{{kind: updateReplace, value: second}}, nil)
	assert.Same(t, second, got)

	got = fold(first, []update{
		{kind: updateMerge, partial: map[string]any{"Str": "fourth"}},
		{kind: updateReplace, value: second},
	}, nil)
	assert.Same(t, second, got)
}

func TestFold_ReplaceDiscardsEarlierMerges(t *testing.T) {
	replacement := map[string]any{"b": 2}
	got := fold(map[string]any{"x": 0}, []update{
		{kind: updateMerge, partial: map[string]any{"a": 1}},
		{kind: updateReplace, value: replacement},
		{kind: updateMerge, partial: map[string]any{"c": 3}},
	}, nil)

	assert.Equal(t, map[string]any{"b": 2, "c": 3}, got)
	assert.NotContains(t, got, "a")
	assert.NotContains(t, got, "x")
	assert.Equal(t, map[string]any{"b": 2}, replacement, "the replacement value must not be modified")
}

func TestFold_MergeAfterReplaceLosesType(t *testing.T) {
	got := fold(nil, []update{
		{kind: updateReplace, value: &objState{Str: "sixth", hidden: 9}},
		{kind: updateMerge, partial: map[string]any{"Str": "seventh"}},
	}, nil)

	m, ok := got.(map[string]any)
	require.True(t, ok, "merged state should be a map, got %T", got)
	assert.Equal(t, map[string]any{"Str": "seventh"}, m)
}

func TestFold_NilPartialIsIgnored(t *testing.T) {
	state := map[string]any{"a": 1}
	got := fold(state, []update{{kind: updateMerge}, {kind: updateFunc, updater: func(any, Props) map[string]any { return nil }}}, nil)
	assert.Equal(t, state, got)
}

func TestUpdateQueue_Drain(t *testing.T) {
	var q updateQueue
	var order []string
	q.push(update{kind: updateMerge, partial: map[string]any{"a": 1}, callback: func() { order = append(order, "first") }})
	q.push(update{kind: updateForce, callback: func() { order = append(order, "second") }})
	require.True(t, q.pending())

	next, force, callbacks := q.drain(nil, nil)
	assert.Equal(t, map[string]any{"a": 1}, next)
	assert.True(t, force)
	assert.False(t, q.pending())
	for _, cb := range callbacks {
		cb()
	}
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStateMap(t *testing.T) {
	assert.Equal(t, map[string]any{}, stateMap(nil))
	assert.Equal(t, map[string]any{}, stateMap(42))
	assert.Equal(t, map[string]any{"Str": "x"}, stateMap(objState{Str: "x", hidden: 1}))
	assert.Equal(t, map[string]any{"Str": "y"}, stateMap(&objState{Str: "y"}))
	assert.Equal(t, map[string]any{"k": 1}, stateMap(Props{"k": 1}))
	assert.Equal(t, map[string]any{}, stateMap(map[int]string{1: "a"}))
}
