// Package dot builds Graphviz graph descriptions whose labels are safe for
// dot2tex.
//
// # Usage
//
//	g := dot.New(dot.Options{Directed: true, TeX: true})
//	g.AddEdge("11,1", "10,2", nil)
//	g.AddEdge(m, "x_1", "rank 2")
//	fmt.Print(g.String())
//
// Node identifiers come from [quote.Key] (or [quote.KeyWithHash] with
// Options.HashKeys), node and edge labels from [quote.Str]. With
// Options.TeX every label also gets a texlbl attribute holding
// $[quote.Latex]$, which dot2tex typesets instead of the plain label.
//
// # Edge Lists
//
// [ParseEdgeList] reads a line-oriented edge list:
//
//	# comment
//	a              isolated node
//	a -> b         edge
//	a -> b : text  labelled edge
package dot
