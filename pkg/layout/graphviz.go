package layout

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// plainFormat is Graphviz's line-oriented layout dump. go-graphviz only
// names the image formats, but the core renderer plugin provides this one.
const plainFormat graphviz.Format = "plain"

// Graphviz lays out graphs with the WebAssembly build of Graphviz.
type Graphviz struct {
	engine string
}

// NewGraphviz returns a positioner running the given layout engine
// ("dot", "neato", ...).
func NewGraphviz(engine string) (*Graphviz, error) {
	if err := errs.ValidateEngine(engine); err != nil {
		return nil, err
	}
	return &Graphviz{engine: engine}, nil
}

// Name returns "graphviz:<engine>".
func (g *Graphviz) Name() string { return "graphviz:" + g.engine }

// Positions lays out dot. A runtime that fails to start is reported as
// TOOL_MISSING, a graph Graphviz cannot parse as INVALID_FORMAT, and a
// failed render as TOOL_MISCONFIGURED.
func (g *Graphviz) Positions(ctx context.Context, dot string) (Positions, error) {
	return observe(ctx, g.Name(), func() (Positions, error) {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeToolMissing, err, "init graphviz")
		}
		defer gv.Close()

		graph, err := graphviz.ParseBytes([]byte(dot))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
		}
		defer graph.Close()

		gv.SetLayout(graphviz.Layout(g.engine))

		var buf bytes.Buffer
		if err := gv.Render(ctx, graph, plainFormat, &buf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeToolMisconfigured, err, "layout with %s", g.engine)
		}
		return parsePlain(&buf)
	})
}

var _ Positioner = (*Graphviz)(nil)
