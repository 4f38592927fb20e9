package main

import (
	"fmt"
	"io"

	"github.com/robaho/go-combinations/pkg/combinations"
	"github.com/spf13/cobra"
)

func patternsCmd(opts *options) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the combinations in precedence order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			printPatterns(cmd.OutOrStdout(), e.library, verbose)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show cardinality and leg count")
	return cmd
}

func printPatterns(w io.Writer, library *combinations.Combinations, verbose bool) {
	for i, name := range library.Names() {
		if !verbose {
			fmt.Fprintf(w, "%2d %s\n", i+1, name)
			continue
		}
		def, _ := library.Lookup(name)
		fmt.Fprintf(w, "%2d %-24s %-8s legs %d, mincount %d\n", i+1, name, def.Cardinality, len(def.Legs), def.MinCount)
	}
}
