package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/quote"
)

// quoteFuncs maps quote subcommand kinds to their sanitizers.
var quoteFuncs = map[string]func(any) string{
	"latex":    func(x any) string { return quote.Latex(x) },
	"str":      func(x any) string { return quote.Str(x) },
	"key":      func(x any) string { return quote.Key(x) },
	"key-hash": func(x any) string { return quote.KeyWithHash(x) },
}

// quoteCommand creates the quote command.
func (c *CLI) quoteCommand() *cobra.Command {
	var tex bool

	cmd := &cobra.Command{
		Use:   "quote latex|str|key|key-hash [text...]",
		Short: "Sanitize text for use as a dot2tex label or node key",
		Long: `Quote sanitizes text the way dottex labels graph nodes.

  latex     label for dot2tex's texlbl attribute
  str       plain-text label for Graphviz
  key       node identifier
  key-hash  node identifier with a content hash suffix

The text is the remaining arguments joined by spaces, or stdin when none are
given. By default text is treated as a plain string and rendered verbatim;
with --tex it is taken to be LaTeX already.`,
		ValidArgs: []string{"latex", "str", "key", "key-hash"},
		Args:      cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, ok := quoteFuncs[args[0]]
			if !ok {
				return errs.New(errs.ErrCodeInvalidInput, "unknown quote kind %q (want latex, str, key or key-hash)", args[0])
			}

			var text string
			if len(args) > 1 {
				text = strings.Join(args[1:], " ")
			} else {
				in, err := readInput(cmd, "")
				if err != nil {
					return err
				}
				text = strings.TrimSuffix(in, "\n")
			}

			var v any = text
			if tex {
				v = quote.TeX(text)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), fn(v))
			return err
		},
	}

	cmd.Flags().BoolVar(&tex, "tex", false, "treat the text as LaTeX source instead of a plain string")

	return cmd
}
