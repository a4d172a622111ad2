package definitions

var (
	expressionCommands = []CommandName{CommandEval, CommandWhere, CommandRow, CommandSort}
	mathCommands       = []CommandName{CommandStats, CommandEval, CommandWhere, CommandRow, CommandSort}
)

// widerNumeric returns the result type of arithmetic between a and b.
func widerNumeric(a, b Type) Type {
	rank := map[Type]int{TypeInteger: 0, TypeLong: 1, TypeUnsignedLong: 2, TypeDouble: 3}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}

func binary(left, right, ret Type) Signature {
	return Signature{
		Params:     []Param{{Name: "left", Type: left}, {Name: "right", Type: right}},
		ReturnType: ret,
	}
}

func mathOperator(name, description string) *Function {
	var sigs []Signature
	for _, l := range NumericTypes {
		for _, r := range NumericTypes {
			sigs = append(sigs, binary(l, r, widerNumeric(l, r)))
		}
	}
	if name == "+" || name == "-" {
		sigs = append(sigs, binary(TypeDate, TypeTimeLiteral, TypeDate))
		if name == "+" {
			sigs = append(sigs, binary(TypeTimeLiteral, TypeDate, TypeDate))
		}
	}
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: mathCommands,
		SupportedOptions:  []OptionName{OptionBy},
		Signatures:        sigs,
	}
}

func comparisonOperator(name, description string) *Function {
	var sigs []Signature
	for _, l := range NumericTypes {
		for _, r := range NumericTypes {
			sigs = append(sigs, binary(l, r, TypeBoolean))
		}
	}
	for _, l := range []Type{TypeKeyword, TypeText} {
		for _, r := range []Type{TypeKeyword, TypeText} {
			sigs = append(sigs, binary(l, r, TypeBoolean))
		}
	}
	for _, t := range []Type{TypeDate, TypeIP, TypeVersion} {
		sigs = append(sigs, binary(t, t, TypeBoolean))
	}
	if name == "==" || name == "!=" {
		sigs = append(sigs, binary(TypeBoolean, TypeBoolean, TypeBoolean))
	}
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: expressionCommands,
		SupportedOptions:  []OptionName{OptionBy},
		Signatures:        sigs,
	}
}

func patternOperator(name, description string) *Function {
	var sigs []Signature
	for _, t := range []Type{TypeText, TypeKeyword} {
		sigs = append(sigs, binary(t, TypeKeyword, TypeBoolean))
	}
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: expressionCommands,
		Signatures:        sigs,
	}
}

func listOperator(name, description string) *Function {
	var sigs []Signature
	for _, t := range []Type{TypeBoolean, TypeDate, TypeDouble, TypeInteger, TypeIP, TypeKeyword, TypeLong, TypeText, TypeUnsignedLong, TypeVersion} {
		sigs = append(sigs, binary(t, ArrayOf(t), TypeBoolean))
	}
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: expressionCommands,
		Signatures:        sigs,
	}
}

func logicalOperator(name, description string) *Function {
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: expressionCommands,
		SupportedOptions:  []OptionName{OptionBy},
		Signatures:        []Signature{binary(TypeBoolean, TypeBoolean, TypeBoolean)},
	}
}

func nullOperator(name, description string) *Function {
	return &Function{
		Name:              name,
		Type:              FunctionBuiltin,
		Description:       description,
		SupportedCommands: expressionCommands,
		Signatures: []Signature{{
			Params:     []Param{{Name: "left", Type: TypeAny}},
			ReturnType: TypeBoolean,
		}},
	}
}

func builtinFunctions() []*Function {
	return []*Function{
		mathOperator("+", "Add (+)"),
		mathOperator("-", "Subtract (-)"),
		mathOperator("*", "Multiply (*)"),
		mathOperator("/", "Divide (/)"),
		mathOperator("%", "Module (%)"),
		comparisonOperator("==", "Equal to"),
		comparisonOperator("!=", "Not equal to"),
		comparisonOperator("<", "Less than"),
		comparisonOperator(">", "Greater than"),
		comparisonOperator("<=", "Less than or equal to"),
		comparisonOperator(">=", "Greater than or equal to"),
		patternOperator("like", "Filter data based on string patterns"),
		patternOperator("not_like", "Filter data based on string patterns"),
		patternOperator("rlike", "Filter data based on string regular expressions"),
		patternOperator("not_rlike", "Filter data based on string regular expressions"),
		listOperator("in", "Test if a field or expression is in a list of literals"),
		listOperator("not_in", "Test if a field or expression is not in a list of literals"),
		logicalOperator("and", "and"),
		logicalOperator("or", "or"),
		{
			Name:               "not",
			Type:               FunctionBuiltin,
			Description:        "Negates the following boolean expression",
			SupportedCommands:  expressionCommands,
			SupportedOptions:   []OptionName{OptionBy},
			IgnoreAsSuggestion: true,
			Signatures: []Signature{{
				Params:     []Param{{Name: "expression", Type: TypeBoolean}},
				ReturnType: TypeBoolean,
			}},
		},
		nullOperator("is null", "Predicate for NULL comparison: returns true if the value is NULL"),
		nullOperator("is not null", "Predicate for NULL comparison: returns true if the value is not NULL"),
		{
			Name:        "=",
			Type:        FunctionBuiltin,
			Description: "Assign (=)",
			SupportedCommands: []CommandName{
				CommandEval, CommandStats, CommandRow, CommandDissect, CommandGrok, CommandEnrich,
			},
			SupportedOptions: []OptionName{OptionBy, OptionWith},
			Signatures:       []Signature{binary(TypeAny, TypeAny, TypeVoid)},
		},
		{
			Name:              "functions",
			Type:              FunctionBuiltin,
			Description:       "Show ES|QL available functions with signatures",
			SupportedCommands: []CommandName{CommandMeta},
			Signatures:        []Signature{{ReturnType: TypeVoid}},
		},
		{
			Name:              "info",
			Type:              FunctionBuiltin,
			Description:       "Show information about the current ES node",
			SupportedCommands: []CommandName{CommandShow},
			Signatures:        []Signature{{ReturnType: TypeVoid}},
		},
	}
}
