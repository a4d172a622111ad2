package definitions

import (
	"fmt"
	"strings"
)

func printParam(p Param) string {
	sep := ":"
	if p.Optional {
		sep = ":?"
	}
	return fmt.Sprintf("%s%s %s", p.Name, sep, p.Type)
}

// Declaration renders a signature as "name(a: type, b:? type): ret".
// Variadic signatures end with the repeated last parameter.
func Declaration(name string, sig Signature) string {
	args := make([]string, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		args = append(args, printParam(p))
	}
	if sig.MinParams > 0 && len(sig.Params) > 0 {
		last := printParam(sig.Params[len(sig.Params)-1])
		if missing := sig.MinParams - len(sig.Params); missing > 0 {
			for i := 0; i < missing; i++ {
				args = append(args, last)
			}
		}
		args = append(args, "[... "+last+"]")
	}
	return fmt.Sprintf("%s(%s): %s", name, strings.Join(args, ", "), sig.ReturnType)
}

// Declarations renders every signature of fn.
func (f *Function) Declarations() []string {
	out := make([]string, 0, len(f.Signatures))
	for _, sig := range f.Signatures {
		out = append(out, Declaration(f.Name, sig))
	}
	return out
}

// Documentation renders the first declaration and the examples of fn as
// markdown.
func (f *Function) Documentation() string {
	var b strings.Builder
	b.WriteString("**Declaration:**\n\n")
	b.WriteString("```\n")
	b.WriteString(Declaration(f.Name, f.Signatures[0]))
	b.WriteString("\n```\n")
	if len(f.Examples) > 0 {
		b.WriteString("\n**Examples:**\n\n")
		for _, ex := range f.Examples {
			fmt.Fprintf(&b, "- `%s`\n", ex)
		}
	}
	return b.String()
}
