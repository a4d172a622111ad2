package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/parser"
	"github.com/oakwood-commons/esqlc/internal/formatter"
)

// parseDump is what esqlc parse prints.
type parseDump struct {
	Commands []map[string]interface{} `json:"commands" yaml:"commands"`
	Errors   []string                 `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newParseCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse QUERY",
		Short: "Dump the syntax tree of a query",
		Long: `Dump the tree the completion engine sees for QUERY, including the
incomplete nodes and the errors the parser recovered from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := formatter.FormatYAML
			if output != "" {
				f, err := formatter.ParseFormat(output)
				if err != nil {
					return err
				}
				if f != formatter.FormatYAML && f != formatter.FormatJSON {
					return fmt.Errorf("parse supports yaml and json output, not %q", f)
				}
				format = f
			}
			query, err := readQuery(cmd, args[0])
			if err != nil {
				return err
			}
			res := parser.Parse(query)
			dump := parseDump{Commands: ast.CommandsToMaps(res.Commands)}
			for _, e := range res.Errors {
				dump.Errors = append(dump.Errors, e.Error())
			}
			return formatter.Render(cmd.OutOrStdout(), dump, formatter.Table{}, root.renderOptions(format))
		},
	}
	addOutputFlag(cmd, &output, []formatter.Format{formatter.FormatYAML, formatter.FormatJSON})
	return cmd
}
