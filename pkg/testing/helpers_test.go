package testing

import (
	"fmt"

	"github.com/go-drift/reconciler/pkg/core"
)

var count = core.StateField[int]{Name: "count"}

// tally renders a labelled count inside a div.
type tally struct {
	core.Base
}

func (c *tally) InitialState() any { return map[string]any{"count": 0} }

func (c *tally) Render() *core.Element {
	return core.H("div", core.Props{"class": "tally"},
		core.H("label", nil, core.Text(fmt.Sprint(c.Props()["label"]))),
		core.H("span", core.Props{"id": "value"}, core.Text(fmt.Sprint(count.Get(c)))),
	)
}

var tallyDef = core.Define("Tally", func(core.Props) core.Component { return &tally{} },
	core.WithDefaultProps(core.Props{"label": "total"}))

var listDef = core.DefineFunc("List", func(props core.Props, _ core.Context, _ []*core.Element) *core.Element {
	items, _ := props["items"].([]string)
	children := make([]*core.Element, 0, len(items))
	for _, item := range items {
		children = append(children, core.H("li", nil, core.Text(item)).WithKey(item))
	}
	return core.H("ul", nil, children...)
})
