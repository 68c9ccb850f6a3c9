package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/layout"
)

// checkCommand creates the check command, which probes the layout engine.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags layoutFlags
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the Graphviz layout engine works",
		Long: `Check lays out an empty graph with the configured engine.

It fails with TOOL_MISSING when Graphviz cannot be found and with
TOOL_MISCONFIGURED when it is present but does not behave as expected.
With --quiet only failures are reported, without the probe details.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeFn, err := c.newPositioner(ctx, flags, true)
			if err != nil {
				return err
			}
			defer closeFn()

			if quiet {
				if !layout.Available(ctx, p) {
					return errs.New(errs.ErrCodeToolMisconfigured, "%s is not available", p.Name())
				}
				return nil
			}

			out := cmd.OutOrStdout()
			spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Probing "+p.Name()+"...")
			spinner.Start()

			if err := layout.Require(ctx, p); err != nil {
				spinner.StopWithError(out, p.Name()+": "+layout.Describe(err))
				printDetail(out, "%s", errs.UserMessage(err))
				return err
			}
			spinner.StopWithSuccess(out, p.Name()+": "+layout.Describe(nil))
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report failures")

	return cmd
}
