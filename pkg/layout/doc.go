// Package layout asks a Graphviz layout engine where the nodes of a graph
// go, and checks whether such an engine is usable at all.
//
// # Positioners
//
// A [Positioner] turns a DOT graph description into [Positions], the same
// node-to-coordinates mapping dot2tex produces with --format positions.
// Coordinates are in points.
//
//   - [Graphviz]: in-process Graphviz compiled to WebAssembly
//     ([github.com/goccy/go-graphviz]); needs nothing installed.
//   - [Exec]: an installed Graphviz binary (dot -Tplain), DOT on stdin.
//   - [Cached]: wraps another positioner with a [cache.Cache].
//   - [Func]: adapts a plain function.
//
// # Capability Probe
//
// [Available] and [Require] lay out the empty graph "graph {}" and expect
// an empty result. [Available] reduces every failure to false. [Require]
// reports why the engine is unusable:
//
//	if err := layout.Require(ctx, p); err != nil {
//	    switch {
//	    case errors.Is(err, errors.ErrCodeToolMissing):
//	        // install Graphviz
//	    case errors.Is(err, errors.ErrCodeToolMisconfigured):
//	        // installation is broken
//	    }
//	}
//
// Neither retries.
package layout
