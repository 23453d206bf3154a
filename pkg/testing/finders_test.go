package testing

import (
	"testing"

	"github.com/go-drift/reconciler/pkg/core"
	"github.com/go-drift/reconciler/pkg/host/memory"
)

func mountList(t *testing.T, items ...string) *Tester {
	t.Helper()
	tester := NewTesterWithT(t)
	if _, err := tester.Render(core.H("main", nil,
		core.C(tallyDef, core.Props{"label": "items"}),
		core.C(listDef, core.Props{"items": items}),
	)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return tester
}

func TestByTag(t *testing.T) {
	tester := mountList(t, "a", "b", "c")

	result := tester.Find(ByTag("li"))
	if result.Count() != 3 {
		t.Fatalf("expected 3 li nodes, got %d", result.Count())
	}
	if got := result.At(1).TextContent(); got != "b" {
		t.Errorf("At(1) = %q, want %q", got, "b")
	}
}

func TestByText(t *testing.T) {
	tester := mountList(t, "apple", "banana")

	if !tester.Find(ByText("banana")).Exists() {
		t.Error("expected to find text banana")
	}
	if tester.Find(ByText("ban")).Exists() {
		t.Error("ByText should not match partial text")
	}
}

func TestByTextContaining(t *testing.T) {
	tester := mountList(t, "apple", "pineapple", "cherry")

	if got := tester.Find(ByTextContaining("apple")).Count(); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
}

func TestByProp(t *testing.T) {
	tester := mountList(t)

	node := tester.Find(ByProp("class", "tally")).First()
	if node.Tag() != "div" {
		t.Errorf("expected div, got %q", node.Tag())
	}
}

func TestFinderResult_FirstOrNil(t *testing.T) {
	tester := mountList(t)

	if tester.Find(ByTag("li")).FirstOrNil() != nil {
		t.Error("expected nil for no matches")
	}
}

func TestFinderResult_First_PanicsOnEmpty(t *testing.T) {
	tester := mountList(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic from First() with no matches")
		}
	}()
	tester.Find(ByTag("table")).First()
}

func TestByPredicate(t *testing.T) {
	tester := mountList(t, "x", "y")

	result := tester.Find(ByPredicate(func(n *memory.Node) bool {
		return len(n.Children()) == 2
	}))
	// main, the tally div and the ul each hold two nodes.
	if result.Count() != 3 {
		t.Errorf("expected 3 nodes with two children, got %d", result.Count())
	}
}

func TestDescendant(t *testing.T) {
	tester := mountList(t, "one")

	inList := tester.Find(Descendant(ByTag("ul"), ByText("one")))
	if inList.Count() != 1 {
		t.Errorf("expected 1 text under ul, got %d", inList.Count())
	}
	inTally := tester.Find(Descendant(ByProp("class", "tally"), ByText("one")))
	if inTally.Exists() {
		t.Error("expected no match under the tally")
	}
}

func TestAncestor(t *testing.T) {
	tester := mountList(t, "one")

	result := tester.Find(Ancestor(ByText("one"), ByTag("ul")))
	if result.Count() != 1 {
		t.Errorf("expected 1 ul ancestor, got %d", result.Count())
	}
}

func TestFinders_TrackReorder(t *testing.T) {
	tester := mountList(t, "a", "b")
	first := tester.Find(ByText("a")).First()

	if _, err := tester.Render(core.H("main", nil,
		core.C(tallyDef, core.Props{"label": "items"}),
		core.C(listDef, core.Props{"items": []string{"b", "a"}}),
	)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := tester.Find(ByTag("li")).At(1).TextContent(); got != "a" {
		t.Errorf("expected a second after reorder, got %q", got)
	}
	if tester.Find(ByText("a")).First() != first {
		t.Error("expected keyed node to be kept across reorder")
	}
}
