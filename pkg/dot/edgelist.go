package dot

import (
	"bufio"
	"io"
	"strings"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// ParseEdgeList reads an edge list (see package documentation) into a new
// graph built with opts. Node names and labels are taken verbatim after
// trimming surrounding whitespace.
func ParseEdgeList(r io.Reader, opts Options) (*Graph, error) {
	g := New(opts)
	sc := bufio.NewScanner(r)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		from, rest, isEdge := strings.Cut(line, "->")
		from = strings.TrimSpace(from)
		if from == "" {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: missing source node", lineNo)
		}
		if !isEdge {
			g.AddNode(from)
			continue
		}

		to, label, labelled := strings.Cut(rest, ":")
		to = strings.TrimSpace(to)
		if to == "" {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: missing target node", lineNo)
		}
		if labelled {
			g.AddEdge(from, to, strings.TrimSpace(label))
		} else {
			g.AddEdge(from, to, nil)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read edge list")
	}
	return g, nil
}
