package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// positionsCommand creates the positions command.
func (c *CLI) positionsCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "positions [file]",
		Short: "Lay out a DOT graph and print node positions as JSON",
		Long: `Positions lays out a DOT graph (a file, or stdin when omitted or "-") and
prints a JSON object mapping node names to [x, y] in points.

Layouts are cached unless --no-cache is given or the cache backend is "none".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readInput(cmd, name)
			if err != nil {
				return err
			}
			if err := errs.ValidateDOT(src); err != nil {
				return err
			}

			p, closeFn, err := c.newPositioner(ctx, flags, false)
			if err != nil {
				return err
			}
			defer closeFn()

			logger.Debug("laying out graph", "positioner", p.Name(), "bytes", len(src))
			prog := newProgress(logger)
			pos, err := p.Positions(ctx, src)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d nodes with %s", len(pos), p.Name()))

			data, err := json.MarshalIndent(pos, "", "  ")
			if err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "encode positions")
			}
			data = append(data, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to this file instead of stdout")

	return cmd
}
