package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/reconciler/pkg/host"
	"github.com/go-drift/reconciler/pkg/host/memory"
)

// Finder locates nodes in the host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	// The root itself is never a candidate.
	Evaluate(root *memory.Node) []*memory.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memory.Node
	finder Finder
}

// Find evaluates f against the tester's container.
func (t *Tester) Find(f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(t.container), finder: f}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memory.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memory.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memory.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memory.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *memory.Node) []*memory.Node {
	return collectMatches(root, func(n *memory.Node) bool { return n.Tag() == f.tag })
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag finds host nodes with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

type propFinder struct {
	name  string
	value any
}

func (f *propFinder) Evaluate(root *memory.Node) []*memory.Node {
	want := fmt.Sprint(f.value)
	return collectMatches(root, func(n *memory.Node) bool {
		v, ok := n.Props()[f.name]
		return ok && fmt.Sprint(v) == want
	})
}

func (f *propFinder) Description() string {
	return fmt.Sprintf("ByProp(%q, %v)", f.name, f.value)
}

// ByProp finds host nodes whose prop name formats the same as value.
func ByProp(name string, value any) Finder {
	return &propFinder{name: name, value: value}
}

type textFinder struct {
	text string
}

func (f *textFinder) Evaluate(root *memory.Node) []*memory.Node {
	return collectMatches(root, func(n *memory.Node) bool {
		return n.Tag() == host.TextTag && fmt.Sprint(n.Prop(host.TextProp)) == f.text
	})
}

func (f *textFinder) Description() string {
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText finds text nodes with exactly the given text.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

type textContainingFinder struct {
	substring string
}

func (f *textContainingFinder) Evaluate(root *memory.Node) []*memory.Node {
	return collectMatches(root, func(n *memory.Node) bool {
		return n.Tag() == host.TextTag && strings.Contains(fmt.Sprint(n.Prop(host.TextProp)), f.substring)
	})
}

func (f *textContainingFinder) Description() string {
	return fmt.Sprintf("ByTextContaining(%q)", f.substring)
}

// ByTextContaining finds text nodes containing the given substring.
func ByTextContaining(substring string) Finder {
	return &textContainingFinder{substring: substring}
}

type predicateFinder struct {
	fn   func(*memory.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *memory.Node) []*memory.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate finds nodes matching an arbitrary predicate.
func ByPredicate(fn func(*memory.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(custom)"}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *memory.Node) []*memory.Node {
	var result []*memory.Node
	seen := make(map[*memory.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, n := range f.matching.Evaluate(ancestor) {
			if !seen[n] {
				seen[n] = true
				result = append(result, n)
			}
		}
	}
	return result
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant finds nodes matching `matching` that are descendants of nodes
// matching `of`.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *memory.Node) []*memory.Node {
	targets := f.of.Evaluate(root)
	var result []*memory.Node
	for _, candidate := range f.matching.Evaluate(root) {
		for _, target := range targets {
			if isAncestorOf(candidate, target) {
				result = append(result, candidate)
				break
			}
		}
	}
	return result
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor finds nodes matching `matching` that are ancestors of nodes
// matching `of`.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant *memory.Node) bool {
	for p := descendant.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

func collectMatches(root *memory.Node, predicate func(*memory.Node) bool) []*memory.Node {
	var result []*memory.Node
	for _, child := range root.Children() {
		walkTree(child, func(n *memory.Node) {
			if predicate(n) {
				result = append(result, n)
			}
		})
	}
	return result
}

func walkTree(n *memory.Node, visitor func(*memory.Node)) {
	visitor(n)
	for _, child := range n.Children() {
		walkTree(child, visitor)
	}
}
