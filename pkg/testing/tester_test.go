package testing

import (
	"testing"

	"github.com/go-drift/reconciler/pkg/core"
	"github.com/go-drift/reconciler/pkg/devtools"
	"github.com/go-drift/reconciler/pkg/errors"
)

func TestNewTester_Defaults(t *testing.T) {
	tester := NewTesterWithT(t)

	if tester.Runtime() == nil {
		t.Fatal("expected runtime")
	}
	if tester.Container() == nil {
		t.Fatal("expected container")
	}
	if got := tester.Markup(); got != "" {
		t.Errorf("expected empty container, got %q", got)
	}
	if got := len(tester.Diagnostics()); got != 0 {
		t.Errorf("expected no diagnostics, got %d", got)
	}
}

func TestMount_RendersTree(t *testing.T) {
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	want := `<div class="tally"><label>total</label><span id="value">0</span></div>`
	if got := tester.Markup(); got != want {
		t.Errorf("Markup() = %q, want %q", got, want)
	}
	if got := tester.Text(); got != "total0" {
		t.Errorf("Text() = %q, want %q", got, "total0")
	}
}

func TestRender_UpdatesInPlace(t *testing.T) {
	tester := NewTesterWithT(t)
	first, err := tester.Render(core.C(tallyDef, core.Props{"label": "a"}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := tester.Render(core.C(tallyDef, core.Props{"label": "b"}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if first != second {
		t.Error("expected the same instance after a compatible render")
	}
	if got := tester.Text(); got != "b0" {
		t.Errorf("Text() = %q, want %q", got, "b0")
	}
	if got := tester.Document().Stats().Creates; got != 5 {
		t.Errorf("expected 5 host creates, got %d", got)
	}
}

func TestBatch_CoalescesUpdates(t *testing.T) {
	tester := NewTesterWithT(t)
	c, err := tester.Mount(tallyDef, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	patchesBefore := tester.Document().Stats().Patches

	err = tester.Batch(func() {
		for range 3 {
			count.Update(c, func(n int) int { return n + 1 }, nil)
		}
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	if got := tester.Find(ByProp("id", "value")).First().TextContent(); got != "3" {
		t.Errorf("expected count 3, got %q", got)
	}
	if got := tester.Document().Stats().Patches - patchesBefore; got != 1 {
		t.Errorf("expected 1 patch, got %d", got)
	}
	if got := tester.Devtools().Count(devtools.EventUpdate); got != 1 {
		t.Errorf("expected 1 update event, got %d", got)
	}
}

func TestDiagnostics_CollectsUnmountedMutation(t *testing.T) {
	tester := NewTesterWithT(t)
	c, err := tester.Mount(tallyDef, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := tester.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}

	count.Set(c, 7, nil)

	got := tester.DiagnosticsOf(errors.KindUnmountedMutation)
	if len(got) != 1 {
		t.Fatalf("expected 1 unmounted mutation diagnostic, got %d", len(got))
	}
	if got[0].Component != "Tally" {
		t.Errorf("expected component Tally, got %q", got[0].Component)
	}

	tester.ResetDiagnostics()
	if n := len(tester.Diagnostics()); n != 0 {
		t.Errorf("expected diagnostics reset, got %d", n)
	}
}

func TestCounter_ReadsMetrics(t *testing.T) {
	tester := NewTesterWithT(t)
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if got := tester.Counter("reconciler_mounts_total"); got != 1 {
		t.Errorf("mounts = %d, want 1", got)
	}
	if got := tester.Counter("reconciler_render_passes_total"); got != 1 {
		t.Errorf("render passes = %d, want 1", got)
	}
	if got := tester.Counter("reconciler_nonexistent_total"); got != 0 {
		t.Errorf("unknown counter = %d, want 0", got)
	}

	if err := tester.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if got := tester.Counter("reconciler_unmounts_total"); got != 1 {
		t.Errorf("unmounts = %d, want 1", got)
	}
}

func TestCleanup_UnmountsTree(t *testing.T) {
	tester := NewTester()
	if _, err := tester.Mount(tallyDef, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	tester.Cleanup()

	if got := tester.Markup(); got != "" {
		t.Errorf("expected empty container after cleanup, got %q", got)
	}
	if got := tester.Runtime().Debug().LiveInstances; got != 0 {
		t.Errorf("expected no live instances, got %d", got)
	}
}
