package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/formatter"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "catalog [commands|functions]",
		Short:     "List the commands and functions completions are drawn from",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(formatter.SectionCommands), string(formatter.SectionFunctions)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := root.outputFormat(output)
			if err != nil {
				return err
			}
			opts := root.renderOptions(format)
			c := definitions.Default()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				return formatter.RenderCatalog(w, c, formatter.CatalogSection(args[0]), opts)
			}
			switch format {
			case formatter.FormatJSON, formatter.FormatYAML:
				data := map[string]any{
					"commands":  c.Commands(),
					"functions": c.Functions(definitions.FunctionEval, definitions.FunctionAgg),
				}
				return formatter.Render(w, data, formatter.Table{}, opts)
			}
			for i, section := range []formatter.CatalogSection{formatter.SectionCommands, formatter.SectionFunctions} {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := formatter.RenderCatalog(w, c, section, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output, formatter.Formats)
	return cmd
}
