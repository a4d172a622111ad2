package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/config"
	"github.com/oakwood-commons/esqlc/internal/formatter"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage esqlc configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var output string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the merged configuration",
		Long: `Show the defaults overlaid with the user config file. With -o raw the
user file is printed verbatim, or the commented defaults when there is none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch output {
			case "raw":
				raw := config.DefaultConfigYAML()
				if path := config.ResolvePath(root.configFile); path != "" {
					b, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read config file %s: %w", path, err)
					}
					raw = b
				}
				_, err := w.Write(raw)
				return err
			case "", string(formatter.FormatYAML), string(formatter.FormatJSON):
				format := formatter.FormatYAML
				if output != "" {
					format = formatter.Format(output)
				}
				return formatter.Render(w, root.cfg, formatter.Table{}, root.renderOptions(format))
			default:
				return fmt.Errorf("%w %q (expected yaml, json or raw)", formatter.ErrUnknownFormat, output)
			}
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "", "output format: yaml|json|raw (default yaml)")

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the path of the user config file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := config.ResolvePath(root.configFile)
			if p == "" {
				p = "(none, using defaults)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.AddCommand(get, path)
	return cmd
}
