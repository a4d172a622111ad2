package definitions

var (
	byOption = &Option{
		Name:        OptionBy,
		Description: "By",
		Optional:    true,
		Signature: CommandSignature{
			MultipleParams: true,
			Params:         []Param{{Name: "column", Type: TypeColumn}},
		},
	}
	metadataOption = &Option{
		Name:        OptionMetadata,
		Description: "Metadata",
		Optional:    true,
		Signature: CommandSignature{
			MultipleParams: true,
			Params:         []Param{{Name: "column", Type: TypeColumn}},
		},
	}
	asOption = &Option{
		Name:        OptionAs,
		Description: "As",
		Signature: CommandSignature{
			Params: []Param{
				{Name: "oldName", Type: TypeColumn},
				{Name: "newName", Type: TypeColumn},
			},
		},
	}
	onOption = &Option{
		Name:        OptionOn,
		Description: "On",
		Optional:    true,
		Signature: CommandSignature{
			Params: []Param{{Name: "matchingColumn", Type: TypeColumn}},
		},
	}
	withOption = &Option{
		Name:        OptionWith,
		Description: "With",
		Optional:    true,
		Signature: CommandSignature{
			MultipleParams: true,
			Params:         []Param{{Name: "assignment", Type: TypeAny}},
		},
	}
	appendSeparatorOption = &Option{
		Name:        OptionAppendSeparator,
		Description: "Append separator",
		Optional:    true,
		AssignType:  true,
		Signature: CommandSignature{
			Params: []Param{{Name: "separator", Type: TypeKeyword}},
		},
	}

	ccqMode = &Mode{
		Name:        "ccq.mode",
		Description: "Cross-clusters query mode",
		Prefix:      "_",
		Values: []ModeValue{
			{Name: "any", Description: "Enrich takes place on any cluster"},
			{Name: "coordinator", Description: "Enrich takes place on the coordinating cluster receiving an ES|QL"},
			{Name: "remote", Description: "Enrich takes place on the cluster hosting the target index."},
		},
	}
)

// MetadataFields are the reserved fields accepted by FROM ... METADATA.
var MetadataFields = []string{"_version", "_id", "_index", "_source", "_ignored"}

func builtinCommands() []*Command {
	return []*Command{
		{
			Name:        CommandFrom,
			Description: "Retrieves data from one or more data streams, indices, or aliases.",
			Examples:    []string{"from logs", "from logs-*", "from logs_*, events-*"},
			Source:      true,
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "index", Type: TypeSource, Wildcards: true}},
			},
			Options: []*Option{metadataOption},
		},
		{
			Name:        CommandRow,
			Description: "Produces a row with one or more columns with values that you specify. This can be useful for testing.",
			Examples:    []string{"row a=1", "row a=1, b=2"},
			Source:      true,
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "expression", Type: TypeAny}},
			},
		},
		{
			Name:        CommandShow,
			Description: "Returns information about the deployment and its capabilities",
			Examples:    []string{"show info"},
			Source:      true,
			Signature: CommandSignature{
				Params: []Param{{Name: "functions", Type: TypeFunction}},
			},
		},
		{
			Name:        CommandMeta,
			Description: "Returns information about the functions available in this deployment",
			Examples:    []string{"meta functions"},
			Source:      true,
			Signature: CommandSignature{
				Params: []Param{{Name: "functions", Type: TypeFunction}},
			},
		},
		{
			Name:        CommandStats,
			Description: "Calculates aggregate statistics, such as average, count, and sum, over the incoming search results set. Similar to SQL aggregation, if the stats command is used without a BY clause, only one row is returned, which is the aggregation over the entire incoming search results set. When you use a BY clause, one row is returned for each distinct value in the field specified in the BY clause. The stats command returns only the fields in the aggregation, and you can use a wide range of statistical functions with the stats command. When you perform more than one aggregation, separate each aggregation with a comma.",
			Examples:    []string{"… | stats avg = avg(a)", "… | stats sum(b) by b", "… | stats sum(b) by b % 2"},
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "expression", Type: TypeFunction, Optional: true}},
			},
			Options: []*Option{byOption},
		},
		{
			Name:        CommandEval,
			Description: "Calculates an expression and puts the resulting value into a search results field.",
			Examples:    []string{"… | eval b * c", "… | eval a = b * c", "… | eval then = date_add(now(), 1 year)"},
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "expression", Type: TypeAny}},
			},
		},
		{
			Name:        CommandRename,
			Description: "Renames an old column to a new one",
			Examples:    []string{"… | rename old as new", "… | rename old as new, a as b"},
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "renameClause", Type: TypeColumn}},
			},
			Options: []*Option{asOption},
		},
		{
			Name:        CommandLimit,
			Description: "Returns the first search results, in search order, based on the \"limit\" specified.",
			Examples:    []string{"… | limit 100", "… | limit 0"},
			Signature: CommandSignature{
				Params: []Param{{Name: "size", Type: TypeInteger, ConstantOnly: true}},
			},
		},
		{
			Name:        CommandKeep,
			Description: "Rearranges fields in the input table by applying the keep clauses in fields",
			Examples:    []string{"… | keep a", "… | keep a,b"},
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "column", Type: TypeColumn, Wildcards: true}},
			},
		},
		{
			Name:        CommandDrop,
			Description: "Drops columns",
			Examples:    []string{"… | drop a", "… | drop a,b"},
			Signature: CommandSignature{
				MultipleParams: true,
				Params:         []Param{{Name: "column", Type: TypeColumn, Wildcards: true}},
			},
		},
		{
			Name:        CommandSort,
			Description: "Sorts all results by the specified fields. By default, null values are treated as being larger than any other value. With an ascending sort order, null values are sorted last, and with a descending sort order, null values are sorted first. You can change that by providing NULLS FIRST or NULLS LAST",
			Examples: []string{
				"… | sort a  desc, b nulls last, c asc nulls first",
				"… | sort b nulls last",
				"… | sort c asc nulls first",
			},
			Signature: CommandSignature{
				MultipleParams: true,
				Params: []Param{
					{Name: "expression", Type: TypeAny},
					{Name: "direction", Type: TypeKeyword, Optional: true, Values: []string{"asc", "desc"}},
					{Name: "nulls", Type: TypeKeyword, Optional: true, Values: []string{"nulls first", "nulls last"}},
				},
			},
		},
		{
			Name:        CommandWhere,
			Description: "Uses \"predicate-expressions\" to filter search results. A predicate expression, when evaluated, returns TRUE or FALSE. The where command only returns the results that evaluate to TRUE. For example, to filter results for a specific field value",
			Examples:    []string{"… | where status_code == 200"},
			Signature: CommandSignature{
				Params: []Param{{Name: "expression", Type: TypeBoolean}},
			},
		},
		{
			Name:        CommandDissect,
			Description: "Extracts multiple string values from a single string input, based on a pattern",
			Examples:    []string{"… | dissect a \"%{b} %{c}\" APPEND_SEPARATOR = \":\""},
			Signature: CommandSignature{
				Params: []Param{
					{Name: "column", Type: TypeColumn, InnerType: TypeKeyword},
					{Name: "pattern", Type: TypeKeyword, ConstantOnly: true},
				},
			},
			Options: []*Option{appendSeparatorOption},
		},
		{
			Name:        CommandGrok,
			Description: "Extracts multiple string values from a single string input, based on a pattern",
			Examples:    []string{"… | grok a \"%{IP:b} %{NUMBER:c}\""},
			Signature: CommandSignature{
				Params: []Param{
					{Name: "column", Type: TypeColumn, InnerType: TypeKeyword},
					{Name: "pattern", Type: TypeKeyword, ConstantOnly: true},
				},
			},
		},
		{
			Name:        CommandMvExpand,
			Description: "Expands multivalued fields into one row per value, duplicating other fields",
			Examples:    []string{"row a=[1,2,3] | mv_expand a"},
			Signature: CommandSignature{
				Params: []Param{{Name: "column", Type: TypeColumn, InnerType: TypeAny}},
			},
		},
		{
			Name:        CommandEnrich,
			Description: "Enrich table with another table. Before you can use enrich, you need to create and execute an enrich policy.",
			Examples: []string{
				"… | enrich my-policy",
				"… | enrich my-policy on pivotField",
				"… | enrich my-policy on pivotField with a = enrichFieldA, b = enrichFieldB",
			},
			Signature: CommandSignature{
				Params: []Param{{Name: "policyName", Type: TypeSource, InnerType: TypePolicy}},
			},
			Options: []*Option{onOption, withOption},
			Modes:   []*Mode{ccqMode},
		},
	}
}
