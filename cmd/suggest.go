package cmd

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/formatter"
	"github.com/oakwood-commons/esqlc/internal/limiter"
)

type suggestOptions struct {
	offset      int
	triggerKind string
	triggerChar string
	output      string
	filter      string
	limit       limiter.Config
}

func newSuggestCmd(root *rootOptions) *cobra.Command {
	o := &suggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest QUERY",
		Short: "Print the completions at a position of a query",
		Long: `Print the completions at --offset within QUERY, or at its end when the
offset is not given. A QUERY of '-' is read from stdin.`,
		Example: `  esqlc suggest 'FROM logs | SORT bytes '
  esqlc suggest --offset 5 'FROM logs | LIMIT 10'
  esqlc suggest -o list --filter st 'FROM logs | '`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root, args[0])
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.offset, "offset", -1, "byte offset of the cursor (default end of query)")
	f.StringVar(&o.triggerKind, "trigger-kind", completion.TriggerInvoked.String(), "how completion was requested: invoked|character|incomplete")
	f.StringVar(&o.triggerChar, "trigger-char", "", "the character typed when --trigger-kind=character")
	f.StringVar(&o.filter, "filter", "", "keep suggestions whose label fuzzy-matches this word")
	f.IntVar(&o.limit.Limit, "limit", 0, "show at most N suggestions")
	f.IntVar(&o.limit.Offset, "offset-results", 0, "skip the first N suggestions")
	f.IntVar(&o.limit.Tail, "tail", 0, "show the last N suggestions (mutually exclusive with --limit)")
	addOutputFlag(cmd, &o.output, []formatter.Format{formatter.FormatTable, formatter.FormatList, formatter.FormatJSON, formatter.FormatYAML, formatter.FormatMarkdown})
	_ = cmd.RegisterFlagCompletionFunc("trigger-kind", cobra.FixedCompletions([]string{"invoked", "character", "incomplete"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (o *suggestOptions) request(query string) (completion.Request, error) {
	kind, err := completion.ParseTriggerKind(o.triggerKind)
	if err != nil {
		return completion.Request{}, err
	}
	offset := o.offset
	if offset < 0 {
		offset = len(query)
	}
	if offset > len(query) {
		return completion.Request{}, fmt.Errorf("--offset %d is past the end of the query (%d bytes)", offset, len(query))
	}
	if kind == completion.TriggerCharacter && o.triggerChar == "" && offset > 0 {
		o.triggerChar = query[offset-1 : offset]
	}
	return completion.Request{
		Query:   query,
		Offset:  offset,
		Trigger: completion.Trigger{Kind: kind, Character: o.triggerChar},
	}, nil
}

func (o *suggestOptions) run(cmd *cobra.Command, root *rootOptions, arg string) error {
	if err := o.limit.Validate(); err != nil {
		return err
	}
	format, err := root.outputFormat(o.output)
	if err != nil {
		return err
	}
	query, err := readQuery(cmd, arg)
	if err != nil {
		return err
	}
	req, err := o.request(query)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine, err := root.newEngine(ctx, nil)
	if err != nil {
		return err
	}
	items, err := engine.Suggest(ctx, req)
	if err != nil {
		return err
	}
	items = limiter.Apply(o.limit, filterSuggestions(items, o.filter))
	return formatter.RenderSuggestions(cmd.OutOrStdout(), items, root.renderOptions(format))
}

// filterSuggestions keeps the items whose label contains the characters
// of word in order, ignoring case. Engine order is preserved.
func filterSuggestions(items []completion.Suggestion, word string) []completion.Suggestion {
	if word == "" {
		return items
	}
	out := make([]completion.Suggestion, 0, len(items))
	for _, s := range items {
		if fuzzy.MatchFold(word, s.Label) {
			out = append(out, s)
		}
	}
	return out
}
