package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/repl"
)

func newReplCmd(root *rootOptions) *cobra.Command {
	var maxVisible int
	cmd := &cobra.Command{
		Use:   "repl [QUERY]",
		Short: "Edit a query interactively with live completions",
		Long: `Edit a query with completions shown as you type. Tab accepts the
selected suggestion, Up and Down move the selection, Enter prints the query
and exits, Esc exits without printing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := root.newEngine(ctx, nil)
			if err != nil {
				return err
			}
			var initial string
			if len(args) == 1 {
				initial = args[0]
			}
			final, err := repl.Run(ctx, engine, repl.Options{
				Query:      initial,
				NoColor:    root.run.NoColor,
				MaxVisible: maxVisible,
			})
			if err != nil {
				return err
			}
			if final != "" {
				fmt.Fprintln(cmd.OutOrStdout(), final)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxVisible, "max-visible", 0, "suggestions shown at once (default 10)")
	return cmd
}
