package definitions

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed functions.yaml
var functionsYAML []byte

var typeShorthands = map[string][]Type{
	"numeric": NumericTypes,
	"string":  {TypeKeyword, TypeText},
}

type rawParam struct {
	Name               string   `yaml:"name"`
	Type               string   `yaml:"type"`
	Optional           bool     `yaml:"optional"`
	ConstantOnly       bool     `yaml:"constantOnly"`
	LiteralOptions     []string `yaml:"literalOptions"`
	LiteralSuggestions []string `yaml:"literalSuggestions"`
}

type rawSignature struct {
	Params     []rawParam `yaml:"params"`
	MinParams  int        `yaml:"minParams"`
	ReturnType string     `yaml:"returnType"`
	Linked     bool       `yaml:"linked"`
}

type rawFunction struct {
	Name               string         `yaml:"name"`
	Alias              []string       `yaml:"alias"`
	Type               FunctionType   `yaml:"type"`
	Description        string         `yaml:"description"`
	SupportedCommands  []CommandName  `yaml:"supportedCommands"`
	SupportedOptions   []OptionName   `yaml:"supportedOptions"`
	Signatures         []rawSignature `yaml:"signatures"`
	Examples           []string       `yaml:"examples"`
	IgnoreAsSuggestion bool           `yaml:"ignoreAsSuggestion"`
}

type rawCatalog struct {
	Functions []rawFunction `yaml:"functions"`
}

// decodeFunctions parses a YAML function catalog and expands compact
// signatures into one signature per concrete type combination.
func decodeFunctions(data []byte) ([]*Function, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode function catalog: %w", err)
	}
	fns := make([]*Function, 0, len(raw.Functions))
	for _, rf := range raw.Functions {
		fn := &Function{
			Name:               strings.ToLower(rf.Name),
			Alias:              rf.Alias,
			Type:               rf.Type,
			Description:        rf.Description,
			SupportedCommands:  rf.SupportedCommands,
			SupportedOptions:   rf.SupportedOptions,
			Examples:           rf.Examples,
			IgnoreAsSuggestion: rf.IgnoreAsSuggestion,
		}
		for _, rs := range rf.Signatures {
			sigs, err := expandSignature(rs)
			if err != nil {
				return nil, fmt.Errorf("function %q: %w", rf.Name, err)
			}
			fn.Signatures = append(fn.Signatures, sigs...)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

func splitTypes(types string) []Type {
	var out []Type
	for _, part := range strings.Split(types, "|") {
		part = strings.TrimSpace(part)
		if expanded, ok := typeShorthands[part]; ok {
			out = append(out, expanded...)
			continue
		}
		out = append(out, Type(part))
	}
	return out
}

func expandSignature(rs rawSignature) ([]Signature, error) {
	alternatives := make([][]Type, len(rs.Params))
	width := 1
	for i, p := range rs.Params {
		alternatives[i] = splitTypes(p.Type)
		if rs.Linked && len(alternatives[i]) > 1 {
			if width > 1 && len(alternatives[i]) != width {
				return nil, fmt.Errorf("linked parameter %q has %d types, want %d", p.Name, len(alternatives[i]), width)
			}
			width = len(alternatives[i])
		}
	}

	var combos [][]Type
	if rs.Linked {
		for row := 0; row < width; row++ {
			combo := make([]Type, len(alternatives))
			for i, alts := range alternatives {
				combo[i] = alts[0]
				if len(alts) > 1 {
					combo[i] = alts[row]
				}
			}
			combos = append(combos, combo)
		}
	} else {
		combos = [][]Type{{}}
		for _, alts := range alternatives {
			var next [][]Type
			for _, prefix := range combos {
				for _, t := range alts {
					combo := append(append([]Type(nil), prefix...), t)
					next = append(next, combo)
				}
			}
			combos = next
		}
	}

	sigs := make([]Signature, 0, len(combos))
	for _, combo := range combos {
		sig := Signature{MinParams: rs.MinParams}
		for i, p := range rs.Params {
			sig.Params = append(sig.Params, Param{
				Name:               p.Name,
				Type:               combo[i],
				Optional:           p.Optional,
				ConstantOnly:       p.ConstantOnly,
				LiteralOptions:     p.LiteralOptions,
				LiteralSuggestions: p.LiteralSuggestions,
			})
		}
		ret, err := resolveReturnType(rs.ReturnType, sig.Params)
		if err != nil {
			return nil, err
		}
		sig.ReturnType = ret
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func resolveReturnType(ret string, params []Param) (Type, error) {
	if !strings.HasPrefix(ret, "@") {
		return Type(ret), nil
	}
	name := ret[1:]
	for _, p := range params {
		if p.Name == name {
			return p.Type, nil
		}
	}
	return "", fmt.Errorf("return type refers to unknown parameter %q", name)
}
