// Package definitions holds the catalog of ES|QL commands, options and
// functions consulted by the completion engine.
//
// Command and option names are enumerated, and every function signature is
// checked against them when the catalog is loaded, so a misspelled name in
// the catalog fails loudly instead of silently never matching.
package definitions

import "strings"

// CommandName enumerates the pipeline commands.
type CommandName string

const (
	CommandFrom     CommandName = "from"
	CommandRow      CommandName = "row"
	CommandShow     CommandName = "show"
	CommandMeta     CommandName = "meta"
	CommandStats    CommandName = "stats"
	CommandEval     CommandName = "eval"
	CommandRename   CommandName = "rename"
	CommandLimit    CommandName = "limit"
	CommandKeep     CommandName = "keep"
	CommandDrop     CommandName = "drop"
	CommandSort     CommandName = "sort"
	CommandWhere    CommandName = "where"
	CommandDissect  CommandName = "dissect"
	CommandGrok     CommandName = "grok"
	CommandMvExpand CommandName = "mv_expand"
	CommandEnrich   CommandName = "enrich"
)

// OptionName enumerates command options.
type OptionName string

const (
	OptionBy              OptionName = "by"
	OptionMetadata        OptionName = "metadata"
	OptionAs              OptionName = "as"
	OptionOn              OptionName = "on"
	OptionWith            OptionName = "with"
	OptionAppendSeparator OptionName = "append_separator"
)

// FunctionType groups functions by where they may be used.
type FunctionType string

const (
	FunctionEval    FunctionType = "eval"
	FunctionAgg     FunctionType = "agg"
	FunctionBuiltin FunctionType = "builtin"
)

// Param describes one parameter of a function, command or option.
type Param struct {
	Name               string   `yaml:"name" json:"name"`
	Type               Type     `yaml:"type" json:"type"`
	Optional           bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
	ConstantOnly       bool     `yaml:"constantOnly,omitempty" json:"constantOnly,omitempty"`
	LiteralOptions     []string `yaml:"literalOptions,omitempty" json:"literalOptions,omitempty"`
	LiteralSuggestions []string `yaml:"literalSuggestions,omitempty" json:"literalSuggestions,omitempty"`

	// Command parameters only.
	Wildcards bool     `yaml:"-" json:"wildcards,omitempty"`
	InnerType Type     `yaml:"-" json:"innerType,omitempty"`
	Values    []string `yaml:"-" json:"values,omitempty"`
}

// Signature is one overload of a function.
type Signature struct {
	Params     []Param `yaml:"params" json:"params"`
	MinParams  int     `yaml:"minParams,omitempty" json:"minParams,omitempty"`
	ReturnType Type    `yaml:"returnType" json:"returnType"`
}

// Function describes a function or operator.
type Function struct {
	Name              string        `yaml:"name" json:"name"`
	Alias             []string      `yaml:"alias,omitempty" json:"alias,omitempty"`
	Type              FunctionType  `yaml:"type" json:"type"`
	Description       string        `yaml:"description" json:"description"`
	SupportedCommands []CommandName `yaml:"supportedCommands" json:"supportedCommands"`
	SupportedOptions  []OptionName  `yaml:"supportedOptions,omitempty" json:"supportedOptions,omitempty"`
	Signatures        []Signature   `yaml:"signatures" json:"signatures"`
	Examples          []string      `yaml:"examples,omitempty" json:"examples,omitempty"`

	// IgnoreAsSuggestion hides the function from completion lists while
	// keeping it available for type resolution.
	IgnoreAsSuggestion bool `yaml:"ignoreAsSuggestion,omitempty" json:"ignoreAsSuggestion,omitempty"`
}

// Supports reports whether the function may be used in command, or in
// option when option is not empty.
func (f *Function) Supports(command CommandName, option OptionName) bool {
	if option != "" {
		for _, o := range f.SupportedOptions {
			if o == option {
				return true
			}
		}
		return false
	}
	for _, c := range f.SupportedCommands {
		if c == command {
			return true
		}
	}
	return false
}

// Returns reports whether any signature returns one of types. The "any"
// type matches every return type.
func (f *Function) Returns(types ...Type) bool {
	for _, t := range types {
		if t == TypeAny {
			return true
		}
	}
	for _, sig := range f.Signatures {
		for _, t := range types {
			if sig.ReturnType == t {
				return true
			}
		}
	}
	return false
}

// HasArgs reports whether any signature takes more than one parameter.
func (f *Function) HasArgs() bool {
	for _, sig := range f.Signatures {
		if len(sig.Params) > 1 {
			return true
		}
	}
	return false
}

// CommandSignature is the parameter list of a command or option.
type CommandSignature struct {
	MultipleParams bool    `json:"multipleParams,omitempty"`
	Params         []Param `json:"params"`
}

// Option describes a named command sub-clause.
type Option struct {
	Name        OptionName       `json:"name"`
	Description string           `json:"description"`
	Signature   CommandSignature `json:"signature"`
	Optional    bool             `json:"optional"`
	// AssignType options take "name = value" rather than "name value".
	AssignType bool `json:"assignType,omitempty"`
}

// ModeValue is one allowed value of a command mode.
type ModeValue struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Mode is a prefixed setting accepted by a command, such as the ENRICH
// "_coordinator:" prefix.
type Mode struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Prefix      string      `json:"prefix"`
	Values      []ModeValue `json:"values"`
}

// Command describes a pipeline command.
type Command struct {
	Name        CommandName      `json:"name"`
	Description string           `json:"description"`
	Examples    []string         `json:"examples,omitempty"`
	Signature   CommandSignature `json:"signature"`
	Options     []*Option        `json:"options,omitempty"`
	Modes       []*Mode          `json:"modes,omitempty"`
	// Source commands start a pipeline.
	Source bool `json:"source,omitempty"`
}

// Option returns the command option called name.
func (c *Command) Option(name string) (*Option, bool) {
	for _, o := range c.Options {
		if strings.EqualFold(string(o.Name), name) {
			return o, true
		}
	}
	return nil, false
}
