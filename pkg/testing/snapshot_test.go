package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/reconciler/pkg/core"
)

func TestCaptureSnapshot_Structure(t *testing.T) {
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, core.Props{"label": "hits"}); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	snap := tester.CaptureSnapshot()
	if len(snap.Nodes) != 1 {
		t.Fatalf("expected 1 root node, got %d", len(snap.Nodes))
	}
	root := snap.Nodes[0]
	if root.Tag != "div" || root.Props["class"] != "tally" {
		t.Errorf("unexpected root %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if got := root.Children[1].Children[0].Text; got != "0" {
		t.Errorf("expected text 0, got %q", got)
	}
}

func TestCaptureSnapshot_Empty(t *testing.T) {
	tester := NewTesterWithT(t)

	snap := tester.CaptureSnapshot()
	if snap.Nodes == nil || len(snap.Nodes) != 0 {
		t.Errorf("expected empty non-nil node list, got %v", snap.Nodes)
	}
}

func TestSnapshot_Diff_Equal(t *testing.T) {
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()

	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
}

func TestSnapshot_Diff_Different(t *testing.T) {
	tester := NewTesterWithT(t)
	c, err := tester.Mount(tallyDef, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	a := tester.CaptureSnapshot()

	count.Set(c, 5, nil)
	b := tester.CaptureSnapshot()

	diff := a.Diff(b)
	if diff == "" {
		t.Fatal("expected diff for different snapshots")
	}
	if !strings.Contains(diff, `"text": "5"`) {
		t.Errorf("expected diff to mention new text, got:\n%s", diff)
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	snap := tester.CaptureSnapshot()

	dir := t.TempDir()
	path := filepath.Join(dir, "testdata", "tally.snapshot.json")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}

	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester := NewTesterWithT(t)
	snap := tester.CaptureSnapshot()

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snap.MatchesFile(sub, filepath.Join(t.TempDir(), "missing", "snap.json"))

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester := NewTesterWithT(t)

	c, err := tester.Mount(tallyDef, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	first := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "snap.json")
	if err := first.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	count.Set(c, 9, nil)
	second := tester.CaptureSnapshot()

	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	second.MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "update.snapshot.json")

	t.Setenv(UpdateSnapshotsEnv, "1")
	snap.MatchesFile(t, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
