package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dottex/internal/config"
)

// configCommand creates the config command, which prints the effective
// configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showPath {
				path := c.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				fmt.Fprintln(out, path)
				return nil
			}

			cfg, err := c.config()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, cfg.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file path instead")

	return cmd
}
