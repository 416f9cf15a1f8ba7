// The globdot command prints a GraphViz digraph of a compiled pattern.
//
// Example:
//
//	$ globdot 'src/**/*.{c|h}' | dot -Tsvg > pattern.svg
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/DrJosh9000/globby"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var caseInsensitive bool
	cmd := &cobra.Command{
		Use:           "globdot [flags] PATTERN",
		Short:         "Print a GraphViz digraph of a glob pattern",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := globby.Parse(args[0], globby.CaseInsensitive(caseInsensitive))
			if err != nil {
				return errors.Wrapf(err, "couldn't parse pattern %q", args[0])
			}
			if err := p.WriteDot(stdout); err != nil {
				return errors.Wrap(err, "couldn't write Dot output")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", false, "match letters regardless of case")
	return cmd
}
