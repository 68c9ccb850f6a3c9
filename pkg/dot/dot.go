package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/dottex/pkg/quote"
)

// Options configures graph generation.
type Options struct {
	// Name is the graph name; "G" when empty.
	Name string

	// Directed emits a digraph with -> edges instead of a graph with --.
	Directed bool

	// TeX adds texlbl attributes for dot2tex.
	TeX bool

	// HashKeys derives node identifiers with quote.KeyWithHash, so values
	// that only differ in stripped characters stay distinct.
	HashKeys bool
}

type node struct {
	id    string
	value any
}

type edge struct {
	from, to string
	label    any
}

// Graph accumulates nodes and edges in insertion order.
type Graph struct {
	opts  Options
	nodes []node
	index map[string]int
	edges []edge
}

// New creates an empty graph.
func New(opts Options) *Graph {
	if opts.Name == "" {
		opts.Name = "G"
	}
	return &Graph{opts: opts, index: make(map[string]int)}
}

// AddNode adds v unless a node with the same identifier exists, and returns
// the identifier.
func (g *Graph) AddNode(v any) string {
	id := g.key(v)
	if _, ok := g.index[id]; !ok {
		g.index[id] = len(g.nodes)
		g.nodes = append(g.nodes, node{id: id, value: v})
	}
	return id
}

// AddEdge adds an edge, adding its endpoints as needed. A nil label means
// an unlabelled edge.
func (g *Graph) AddEdge(from, to, label any) {
	g.edges = append(g.edges, edge{from: g.AddNode(from), to: g.AddNode(to), label: label})
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// String renders the graph as DOT.
func (g *Graph) String() string {
	kind, op := "graph", "--"
	if g.opts.Directed {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s {\n", kind, quoteID(quote.Key(g.opts.Name)))

	for _, n := range g.nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", quoteID(n.id), strings.Join(g.labelAttrs(n.value), ", "))
	}

	if len(g.edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "  %s %s %s", quoteID(e.from), op, quoteID(e.to))
		if e.label != nil {
			fmt.Fprintf(&buf, " [%s]", strings.Join(g.labelAttrs(e.label), ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (g *Graph) key(v any) string {
	if g.opts.HashKeys {
		return quote.KeyWithHash(v)
	}
	return quote.Key(v)
}

func (g *Graph) labelAttrs(v any) []string {
	attrs := []string{"label=" + quoteAttr(quote.Str(v))}
	if g.opts.TeX {
		attrs = append(attrs, "texlbl="+quoteAttr("$"+quote.Latex(v)+"$"))
	}
	return attrs
}

// quoteID wraps an identifier produced by quote.Key, which holds neither
// quotes nor backslashes.
func quoteID(id string) string {
	return `"` + id + `"`
}

// quoteAttr wraps a sanitized label. Sanitized labels hold no quotes, but a
// trailing backslash would escape the closing one.
func quoteAttr(s string) string {
	if strings.HasSuffix(s, `\`) {
		s += " "
	}
	return `"` + s + `"`
}
