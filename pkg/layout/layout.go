package layout

import (
	"context"
	"time"

	"github.com/matzehuels/dottex/pkg/observability"
)

// Positions maps node names to their coordinates in points.
type Positions map[string][]float64

// Positioner lays out a graph description.
type Positioner interface {
	// Name identifies the positioner and its engine, e.g. "graphviz:neato".
	// It is part of cache keys and metric labels.
	Name() string

	// Positions returns the coordinates of every node of dot. A graph
	// without nodes yields an empty, non-nil map.
	Positions(ctx context.Context, dot string) (Positions, error)
}

// Func adapts a function to the Positioner interface.
type Func struct {
	ID string
	Fn func(ctx context.Context, dot string) (Positions, error)
}

// Name returns f.ID.
func (f Func) Name() string { return f.ID }

// Positions calls f.Fn.
func (f Func) Positions(ctx context.Context, dot string) (Positions, error) {
	return f.Fn(ctx, dot)
}

// observe reports a layout run to the registered hooks.
func observe(ctx context.Context, name string, run func() (Positions, error)) (Positions, error) {
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, name)
	start := time.Now()
	pos, err := run()
	hooks.OnLayoutComplete(ctx, name, len(pos), time.Since(start), err)
	return pos, err
}
