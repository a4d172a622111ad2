//revive:disable:exported
package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

// Kind indicates the type of a suggestion.
type Kind string

const (
	KindMethod    Kind = "Method"    // Pipeline command
	KindFunction  Kind = "Function"  // Function call
	KindOperator  Kind = "Operator"  // Builtin operator
	KindVariable  Kind = "Variable"  // Field or user variable
	KindKeyword   Kind = "Keyword"   // Punctuation such as pipe and comma
	KindConstant  Kind = "Constant"  // Literal constant
	KindValue     Kind = "Value"     // Quoted literal value
	KindClass     Kind = "Class"     // Enrich policy or integration
	KindIssue     Kind = "Issue"     // Plain source or placeholder
	KindReference Kind = "Reference" // Command option or setting
)

// TriggerSuggestCommand asks the editor to open suggestions again once the
// item has been inserted.
var TriggerSuggestCommand = &Command{ID: "editor.action.triggerSuggest", Title: "Trigger Suggestion Dialog"}

// CreatePolicyCommand asks the editor to open the enrich policy flow.
var CreatePolicyCommand = &Command{ID: "esql.policies.create", Title: "Click to create"}

// Command is an editor action run after a suggestion is accepted.
type Command struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Range is a byte range of the query replaced by a suggestion. Offsets
// are 0-based; End is exclusive.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Suggestion represents a single completion item.
type Suggestion struct {
	Label         string   `json:"label" yaml:"label"`                                     // Display text
	Text          string   `json:"text" yaml:"text"`                                       // Text to insert
	Kind          Kind     `json:"kind" yaml:"kind"`                                       // Type of completion
	Detail        string   `json:"detail,omitempty" yaml:"detail,omitempty"`               // Short description
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty"` // Markdown help
	SortText      string   `json:"sortText,omitempty" yaml:"sortText,omitempty"`           // Sort key, lower first
	AsSnippet     bool     `json:"asSnippet,omitempty" yaml:"asSnippet,omitempty"`         // Text holds $0 placeholders
	Command       *Command `json:"command,omitempty" yaml:"command,omitempty"`             // Follow-up editor action
	Range         *Range   `json:"range,omitempty" yaml:"range,omitempty"`                 // Text replaced on insertion
}

// FieldMetadata carries optional field documentation.
type FieldMetadata struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Field is a column of the data the query reads.
type Field struct {
	Name     string           `json:"name" yaml:"name" toml:"name"`
	Type     definitions.Type `json:"type" yaml:"type" toml:"type"`
	Metadata *FieldMetadata   `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// DataStream is a data stream of an integration source.
type DataStream struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Title string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
}

// Source is an index, alias or integration that FROM can read.
type Source struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Hidden      bool         `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Title       string       `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Type        string       `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	DataStreams []DataStream `json:"dataStreams,omitempty" yaml:"dataStreams,omitempty" toml:"data_streams,omitempty"`
}

// Policy is an enrich policy.
type Policy struct {
	Name          string   `json:"name" yaml:"name" toml:"name"`
	SourceIndices []string `json:"sourceIndices" yaml:"sourceIndices" toml:"source_indices"`
	MatchField    string   `json:"matchField" yaml:"matchField" toml:"match_field"`
	EnrichFields  []string `json:"enrichFields" yaml:"enrichFields" toml:"enrich_fields"`
}

// Variable is a column introduced by the query itself.
type Variable struct {
	Name     string
	Type     definitions.Type
	Location ast.Location
}

// Variables maps a name to its definitions in query order.
type Variables map[string][]Variable

// Latest returns the most recent definition of name.
func (v Variables) Latest(name string) (Variable, bool) {
	defs := v[name]
	if len(defs) == 0 {
		return Variable{}, false
	}
	return defs[len(defs)-1], true
}

// TriggerKind tells how the completion was requested.
type TriggerKind int

const (
	TriggerInvoked    TriggerKind = iota // Explicit request, such as Ctrl+Space
	TriggerCharacter                     // A trigger character was typed
	TriggerIncomplete                    // Re-request for an incomplete list
)

var triggerKindNames = map[TriggerKind]string{
	TriggerInvoked:    "invoked",
	TriggerCharacter:  "character",
	TriggerIncomplete: "incomplete",
}

func (k TriggerKind) String() string {
	if name, ok := triggerKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TriggerKind(%d)", int(k))
}

// ParseTriggerKind parses the name of a trigger kind.
func ParseTriggerKind(s string) (TriggerKind, error) {
	for k, name := range triggerKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind %q", s)
}

// TriggerCharacters request suggestions as soon as they are typed.
var TriggerCharacters = []string{",", "(", "=", " "}

// IsTriggerCharacter reports whether s is one of TriggerCharacters.
func IsTriggerCharacter(s string) bool {
	for _, c := range TriggerCharacters {
		if s == c {
			return true
		}
	}
	return false
}

// Trigger describes what caused the completion request.
type Trigger struct {
	Kind      TriggerKind `json:"kind" yaml:"kind"`
	Character string      `json:"character,omitempty" yaml:"character,omitempty"`
}

// Request asks for suggestions at Offset within Query.
type Request struct {
	Query   string  `json:"query" yaml:"query"`
	Offset  int     `json:"offset" yaml:"offset"`
	Trigger Trigger `json:"trigger" yaml:"trigger"`
}

// Callbacks supplies the data a query runs against. Failing calls are
// treated as returning nothing.
type Callbacks interface {
	// GetFieldsFor returns the fields available to query, which is the
	// text of the pipeline before the command being completed.
	GetFieldsFor(ctx context.Context, query string) ([]Field, error)
	GetSources(ctx context.Context) ([]Source, error)
	GetPolicies(ctx context.Context) ([]Policy, error)
}

// ASTProvider parses repaired query text.
type ASTProvider interface {
	Parse(ctx context.Context, text string) ([]*ast.Command, error)
}

//revive:enable:exported
