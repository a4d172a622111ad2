// Package cmd implements the esqlc command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/config"
	"github.com/oakwood-commons/esqlc/internal/formatter"
	"github.com/oakwood-commons/esqlc/pkg/logger"
	"github.com/oakwood-commons/esqlc/pkg/settings"
)

// rootOptions holds the persistent flags and the state derived from them
// before a subcommand runs.
type rootOptions struct {
	configFile string
	schema     string
	debug      bool
	noColor    bool

	cfg *config.Config
	run *settings.Run
}

// NewRootCmd builds the esqlc command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "ES|QL autocomplete engine",
		Long: `esqlc computes context-aware completions for ES|QL queries.

Fields, sources and enrich policies come from a schema file (YAML, JSON or
TOML) given with --schema or the schema.path config key.`,
		Example: `  esqlc suggest 'FROM logs | WHERE '
  esqlc suggest --schema schema.yaml -o json 'FROM logs | STATS avg('
  esqlc repl --schema schema.yaml
  esqlc serve --addr :8080
  esqlc catalog functions -o markdown`,
		Version:           versionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/esqlc/config.yaml)")
	flags.StringVar(&opts.schema, "schema", "", "schema file with fields, sources and policies; '-' reads stdin")
	flags.BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable color output")

	root.AddCommand(
		newSuggestCmd(opts),
		newReplCmd(opts),
		newServeCmd(opts),
		newCatalogCmd(opts),
		newParseCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// setup loads the config, resolves the run settings and attaches the
// logger and settings to the command context.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	var level int8
	if o.debug {
		level = logger.LevelDebug
	}
	lgr := logger.WithValues(logger.Get(level), logger.CommandKey, cmd.Name())

	path := config.ResolvePath(o.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg
	lgr.V(1).Info("config loaded", "path", path)

	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.NoColor = o.noColor || cfg.Output.NoColor || os.Getenv("NO_COLOR") != ""
	run.Schema = settings.SchemaSettings{Path: cfg.Schema.Path}
	if o.schema != "" {
		run.Schema = settings.SchemaSettings{Path: o.schema, FromFlag: true}
	}
	o.run = run

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

// outputFormat returns the -o value, falling back to the configured
// default.
func (o *rootOptions) outputFormat(flag string) (formatter.Format, error) {
	if flag == "" && o.cfg != nil {
		flag = o.cfg.Output.Format
	}
	return formatter.ParseFormat(flag)
}

func (o *rootOptions) renderOptions(format formatter.Format) formatter.Options {
	return formatter.Options{Format: format, NoColor: o.run.NoColor}
}

// addOutputFlag registers -o with shell completion of the given formats.
func addOutputFlag(cmd *cobra.Command, target *string, formats []formatter.Format) {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	cmd.Flags().StringVarP(target, "output", "o", "", fmt.Sprintf("output format: %v (default from config)", names))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp))
}

// readQuery returns the query argument, reading stdin for "-".
func readQuery(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	return string(b), nil
}

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print esqlc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}
