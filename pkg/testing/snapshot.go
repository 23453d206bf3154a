package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/reconciler/pkg/host"
	"github.com/go-drift/reconciler/pkg/host/memory"
)

// UpdateSnapshotsEnv is the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "RECONCILER_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the host tree below a container.
type Snapshot struct {
	Nodes []*HostNode `json:"nodes"`
}

// HostNode is one serialized host node. Prop values are formatted with
// fmt.Sprint so snapshots are independent of the concrete prop types.
type HostNode struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*HostNode       `json:"children,omitempty"`
}

// CaptureSnapshot captures the tester's container.
func (t *Tester) CaptureSnapshot() *Snapshot {
	return CaptureNode(t.container)
}

// CaptureNode captures the children of container.
func CaptureNode(container *memory.Node) *Snapshot {
	snap := &Snapshot{Nodes: []*HostNode{}}
	for _, child := range container.Children() {
		snap.Nodes = append(snap.Nodes, captureHostNode(child))
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// RECONCILER_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

func captureHostNode(n *memory.Node) *HostNode {
	out := &HostNode{Tag: n.Tag()}
	if n.Tag() == host.TextTag {
		out.Text = fmt.Sprint(n.Prop(host.TextProp))
		return out
	}
	if props := n.Props(); len(props) > 0 {
		out.Props = make(map[string]string, len(props))
		for k, v := range props {
			out.Props[k] = fmt.Sprint(v)
		}
	}
	for _, child := range n.Children() {
		out.Children = append(out.Children, captureHostNode(child))
	}
	return out
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := max(len(expectedLines), len(actualLines))
	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
