package scenario

import (
	"fmt"

	"github.com/go-drift/reconciler/pkg/core"
)

func init() {
	register(&Scenario{
		Name:    "counter",
		Summary: "three increments in one batch produce a single re-render",
		run:     runCounter,
	})
	register(&Scenario{
		Name:    "morph",
		Summary: "a component switching its rendered type replaces the host subtree",
		run:     runMorph,
	})
	register(&Scenario{
		Name:    "context",
		Summary: "a provider's context reaches a consumer through a component that ignores it",
		run:     runContext,
	})
	register(&Scenario{
		Name:    "keyed",
		Summary: "reordering keyed children moves host nodes instead of recreating them",
		run:     runKeyed,
	})
	register(&Scenario{
		Name:    "diagnostics",
		Summary: "state updates during render and after unmount raise diagnostics",
		run:     runDiagnostics,
	})
}

var count = core.StateField[int]{Name: "count"}

type counter struct {
	core.Base
}

func (c *counter) InitialState() any { return map[string]any{"count": 0} }

func (c *counter) Render() *core.Element {
	return core.H("button", core.Props{"label": c.Props()["label"]}, core.Text(fmt.Sprint(count.Get(c))))
}

var counterDef = core.Define("Counter", func(core.Props) core.Component { return &counter{} },
	core.WithDefaultProps(core.Props{"label": "clicks"}))

func runCounter(e *env) error {
	c, err := e.render("mount", core.C(counterDef, nil))
	if err != nil {
		return err
	}
	return e.batch("increment x3", func() {
		for range 3 {
			count.Update(c, func(n int) int { return n + 1 }, nil)
		}
	})
}

var mode = core.StateField[string]{Name: "mode"}

type morph struct {
	core.Base
}

func (m *morph) InitialState() any { return map[string]any{"mode": "text"} }

func (m *morph) Render() *core.Element {
	if mode.Get(m) == "image" {
		return core.H("img", core.Props{"src": "logo.png"})
	}
	return core.H("p", nil, core.Text("logo"))
}

var morphDef = core.Define("Morph", func(core.Props) core.Component { return &morph{} })

func runMorph(e *env) error {
	c, err := e.render("mount", core.C(morphDef, nil))
	if err != nil {
		return err
	}
	return e.batch("switch to image", func() { mode.Set(c, "image", nil) })
}

type themeProvider struct {
	core.Base
}

func (p *themeProvider) ChildContext() core.Context {
	return core.Context{"theme": p.Props()["theme"]}
}

func (p *themeProvider) Render() *core.Element {
	return core.H("section", nil, p.Children()...)
}

var providerDef = core.Define("ThemeProvider", func(core.Props) core.Component { return &themeProvider{} },
	core.WithChildContextTypes("theme"))

var passthroughDef = core.DefineFunc("Passthrough", func(_ core.Props, _ core.Context, children []*core.Element) *core.Element {
	return core.H("div", nil, children...)
})

var swatchDef = core.DefineFunc("Swatch", func(_ core.Props, ctx core.Context, _ []*core.Element) *core.Element {
	return core.H("span", nil, core.Text(fmt.Sprint(ctx["theme"])))
}, core.WithContextTypes("theme"))

func themed(theme string) *core.Element {
	return core.C(providerDef, core.Props{"theme": theme},
		core.C(passthroughDef, nil, core.C(swatchDef, nil)))
}

func runContext(e *env) error {
	if _, err := e.render("mount teal", themed("teal")); err != nil {
		return err
	}
	_, err := e.render("switch to plum", themed("plum"))
	return err
}

var shelfDef = core.DefineFunc("Shelf", func(props core.Props, _ core.Context, _ []*core.Element) *core.Element {
	items, _ := props["items"].([]string)
	children := make([]*core.Element, 0, len(items))
	for _, item := range items {
		children = append(children, core.H("li", core.Props{"id": item}).WithKey(item))
	}
	return core.H("ul", nil, children...)
})

func runKeyed(e *env) error {
	if _, err := e.render("mount", core.C(shelfDef, core.Props{"items": []string{"a", "b", "c"}})); err != nil {
		return err
	}
	if _, err := e.render("reverse", core.C(shelfDef, core.Props{"items": []string{"c", "b", "a"}})); err != nil {
		return err
	}
	_, err := e.render("drop middle", core.C(shelfDef, core.Props{"items": []string{"c", "a"}}))
	return err
}

// eager bumps its own count while rendering until it reaches 1.
type eager struct {
	core.Base
}

func (c *eager) InitialState() any { return map[string]any{"count": 0} }

func (c *eager) Render() *core.Element {
	if count.Get(c) == 0 {
		count.Set(c, 1, nil)
	}
	return core.H("em", nil, core.Text(fmt.Sprint(count.Get(c))))
}

var eagerDef = core.Define("Eager", func(core.Props) core.Component { return &eager{} })

func runDiagnostics(e *env) error {
	c, err := e.render("mount", core.C(eagerDef, nil))
	if err != nil {
		return err
	}
	if _, err := e.rt.Unmount(e.container); err != nil {
		return err
	}
	count.Set(c, 5, nil)
	e.step("update after unmount")
	return nil
}
