package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dottex/pkg/dot"
)

// dotCommand creates the dot command, which converts an edge list to DOT.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts       dot.Options
		undirected bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Convert an edge list into a DOT graph with sanitized labels",
		Long: `Dot reads an edge list (a file, or stdin when omitted or "-") and prints a
DOT graph whose node identifiers and labels are sanitized for Graphviz and,
with --tex, dot2tex.

Each line is one of:

  node
  from -> to
  from -> to : edge label

Blank lines and lines starting with # are ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readInput(cmd, name)
			if err != nil {
				return err
			}

			opts.Directed = !undirected
			g, err := dot.ParseEdgeList(strings.NewReader(src), opts)
			if err != nil {
				return err
			}
			logger.Debug("parsed edge list", "nodes", g.NodeCount(), "edges", g.EdgeCount())

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), g.String())
				return err
			}
			if err := os.WriteFile(output, []byte(g.String()), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Infof("Wrote %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.TeX, "tex", false, "add texlbl attributes for dot2tex")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "emit an undirected graph")
	cmd.Flags().BoolVar(&opts.HashKeys, "hash-keys", false, "suffix node identifiers with a content hash")
	cmd.Flags().StringVar(&opts.Name, "name", "", "graph name (default \"G\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write DOT to this file instead of stdout")

	return cmd
}
