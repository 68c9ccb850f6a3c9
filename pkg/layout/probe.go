package layout

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/observability"
)

// ProbeGraph is the graph laid out by the capability probe. A working
// engine returns no positions for it.
const ProbeGraph = "graph {}"

const (
	missingMessage = `layout engine not available.

Install Graphviz (https://graphviz.org/download/) so that the "dot" binary
is on PATH, or select the built-in engine with backend = "graphviz" in the
[layout] section of the configuration file.`

	misconfiguredMessage = `an error occurred while testing the layout engine.

Graphviz is installed but failed to lay out the empty graph. Check the
installation of Graphviz and the [layout] section of the configuration.

For support, please open an issue at https://github.com/matzehuels/dottex/issues.`
)

// Available reports whether p lays out [ProbeGraph] without error and
// returns no positions. It never fails; panics inside p count as
// unavailable.
func Available(ctx context.Context, p Positioner) bool {
	return probe(ctx, p) == nil
}

// Require is the asserting form of [Available]. It returns nil when the
// engine works, a TOOL_MISSING error when the engine is not installed, and
// a TOOL_MISCONFIGURED error for any other failure, including a probe that
// returns positions.
func Require(ctx context.Context, p Positioner) error {
	err := probe(ctx, p)
	switch {
	case err == nil:
		return nil
	case errs.Is(err, errs.ErrCodeToolMissing):
		return errs.Wrap(errs.ErrCodeToolMissing, err, "%s", missingMessage)
	default:
		return errs.Wrap(errs.ErrCodeToolMisconfigured, err, "%s", misconfiguredMessage)
	}
}

func probe(ctx context.Context, p Positioner) (err error) {
	name := "unknown"
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(errs.ErrCodeToolMisconfigured, "%s panicked: %v", name, r)
		}
		observability.Layout().OnProbe(ctx, name, err == nil, string(errs.GetCode(err)))
	}()

	if p == nil {
		return errs.New(errs.ErrCodeToolMisconfigured, "no layout engine configured")
	}
	name = p.Name()

	pos, err := p.Positions(ctx, ProbeGraph)
	if err != nil {
		return err
	}
	if len(pos) != 0 {
		return errs.New(errs.ErrCodeToolMisconfigured, "%s returned %d positions for %q", name, len(pos), ProbeGraph)
	}
	return nil
}

// Describe returns a one-line summary of a Require error for status output.
func Describe(err error) string {
	switch errs.GetCode(err) {
	case "":
		if err == nil {
			return "available"
		}
		return err.Error()
	case errs.ErrCodeToolMissing:
		return "not installed"
	case errs.ErrCodeToolMisconfigured:
		return "installed but not working"
	default:
		return fmt.Sprintf("unavailable (%s)", errs.GetCode(err))
	}
}
