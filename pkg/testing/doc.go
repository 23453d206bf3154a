// Package testing provides a harness for exercising components against an
// in-memory host.
//
// # Quick Start
//
// Create a tester, mount a definition, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := rtest.NewTesterWithT(t)
//	    c, err := tester.Mount(Counter, nil)
//	    require.NoError(t, err)
//
//	    c.(*counter).SetState(map[string]any{"n": 1}, nil)
//
//	    assert.True(t, tester.Find(rtest.ByText("1")).Exists())
//	    assert.Empty(t, tester.Diagnostics())
//	}
//
// # Diagnostics and Metrics
//
// The tester installs itself as the runtime's warner, so every diagnostic is
// available through Diagnostics and DiagnosticsOf. Metrics are recorded
// through an OpenTelemetry SDK meter provider with a manual reader and read
// back with Counter.
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	RECONCILER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import rtest "github.com/go-drift/reconciler/pkg/testing"
package testing
