package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafana/regexp"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

// ErrUnsupportedFormat is returned for schema files whose extension is
// not one of .yaml, .yml, .json or .toml.
var ErrUnsupportedFormat = errors.New("unsupported schema format")

// Format is the serialization of a schema document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Schema is the data a query runs against: the fields every query sees,
// the fields of individual indices, and the sources and enrich policies
// of the cluster.
type Schema struct {
	Fields   []completion.Field            `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Indices  map[string][]completion.Field `json:"indices,omitempty" yaml:"indices,omitempty" toml:"indices,omitempty"`
	Sources  []completion.Source           `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Policies []completion.Policy           `json:"policies,omitempty" yaml:"policies,omitempty" toml:"policies,omitempty"`
}

// merge appends the contents of other to s. Index field lists are
// concatenated.
func (s *Schema) merge(other *Schema) {
	s.Fields = append(s.Fields, other.Fields...)
	s.Sources = append(s.Sources, other.Sources...)
	s.Policies = append(s.Policies, other.Policies...)
	if len(other.Indices) > 0 && s.Indices == nil {
		s.Indices = make(map[string][]completion.Field, len(other.Indices))
	}
	for name, fields := range other.Indices {
		s.Indices[name] = append(s.Indices[name], fields...)
	}
}

// LoadSchema parses a schema document, auto-detecting the format.
// Multi-document YAML is merged into a single schema.
func LoadSchema(data []byte) (*Schema, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}
	return LoadSchemaAs([]byte(input), DetectFormat(input))
}

// LoadSchemaAs parses a schema document of a known format.
func LoadSchemaAs(data []byte, format Format) (*Schema, error) {
	var (
		schema *Schema
		err    error
	)
	switch format {
	case FormatJSON:
		schema, err = loadJSON(data)
	case FormatTOML:
		schema, err = loadTOML(data)
	case FormatYAML:
		schema, err = loadYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := normalize(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// LoadSchemaFile reads a schema file. The format follows the extension;
// files without one are detected from their content. "-" reads stdin.
func LoadSchemaFile(path string) (*Schema, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadSchemaAs(data, FormatYAML)
	case ".json":
		return LoadSchemaAs(data, FormatJSON)
	case ".toml":
		return LoadSchemaAs(data, FormatTOML)
	case "":
		return LoadSchema(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// DetectFormat guesses the format of a schema document.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}
	// TOML [section] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") {
		return FormatJSON
	}
	return FormatYAML
}

func loadJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &s, nil
}

// loadYAML decodes one or more YAML documents separated by --- and merges
// them.
func loadYAML(data []byte) (*Schema, error) {
	out := &Schema{}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	docs := 0
	for {
		var doc Schema
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		out.merge(&doc)
		docs++
	}
	if docs == 0 {
		return nil, fmt.Errorf("no documents found in YAML")
	}
	return out, nil
}

func loadTOML(data []byte) (*Schema, error) {
	var s Schema
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return &s, nil
}

var (
	// [fields], [[sources]], ["table name"], [indices."logs-*"]
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", not name: value
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports whether input has TOML section headers, or mostly
// key = value lines.
func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionPattern.MatchString(line) {
			sections++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}
