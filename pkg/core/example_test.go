package core_test

import (
	"fmt"
	"strconv"

	"github.com/go-drift/reconciler/pkg/core"
	"github.com/go-drift/reconciler/pkg/host/memory"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

var count = core.StateField[int]{Name: "count"}

type clicker struct {
	core.Base
}

func (c *clicker) InitialState() any { return map[string]any{"count": 0} }

func (c *clicker) Render() *core.Element {
	return core.H("button", core.Props{"label": c.Props()["label"]},
		core.Text(strconv.Itoa(count.Get(c))))
}

var Clicker = core.Define("Clicker", func(core.Props) core.Component { return &clicker{} },
	core.WithDefaultProps(core.Props{"label": "clicks"}))

// This example mounts a component into an in-memory host and updates it.
func ExampleRuntime_Mount() {
	doc := memory.NewDocument()
	container := doc.NewContainer()
	rt := core.NewRuntime(doc, core.WithMetrics(telemetry.Noop()))

	c, err := rt.Mount(Clicker, nil, container)
	if err != nil {
		panic(err)
	}
	fmt.Println(container)

	count.Update(c, func(n int) int { return n + 1 }, nil)
	fmt.Println(container)

	// Output:
	// <button label="clicks">0</button>
	// <button label="clicks">1</button>
}

// Requests issued inside BatchedUpdates are folded into a single render.
func ExampleRuntime_BatchedUpdates() {
	doc := memory.NewDocument()
	container := doc.NewContainer()
	rt := core.NewRuntime(doc, core.WithMetrics(telemetry.Noop()))

	c, _ := rt.Mount(Clicker, core.Props{"label": "batched"}, container)
	_ = rt.BatchedUpdates(func() {
		for range 3 {
			count.Update(c, func(n int) int { return n + 1 }, nil)
		}
		fmt.Println("inside:", count.Get(c))
	})
	fmt.Println("after:", count.Get(c))
	fmt.Println("patches:", doc.Stats().Patches)

	// Output:
	// inside: 0
	// after: 3
	// patches: 1
}

// Providers publish context that descendants read by declaring its keys.
func ExampleWithContextTypes() {
	provider := core.Define("ThemeProvider", func(core.Props) core.Component { return &themeProvider{} },
		core.WithChildContextTypes("color"))
	label := core.DefineFunc("Label", func(_ core.Props, ctx core.Context, _ []*core.Element) *core.Element {
		return core.H("span", nil, core.Text(fmt.Sprint(ctx["color"])))
	}, core.WithContextTypes("color"))

	doc := memory.NewDocument()
	container := doc.NewContainer()
	rt := core.NewRuntime(doc, core.WithMetrics(telemetry.Noop()))
	_, _ = rt.Render(core.C(provider, core.Props{"color": "teal"}, core.C(label, nil)), container)
	fmt.Println(container)

	// Output:
	// <section><span>teal</span></section>
}

type themeProvider struct {
	core.Base
}

func (p *themeProvider) ChildContext() core.Context {
	return core.Context{"color": p.Props()["color"]}
}

func (p *themeProvider) Render() *core.Element {
	return core.H("section", nil, p.Children()...)
}
