package definitions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownCommand is returned when a function refers to a command or
	// option that is not in the catalog.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidParamType is returned when a signature uses a type the
	// catalog does not know.
	ErrInvalidParamType = errors.New("invalid parameter type")
	// ErrDuplicateFunction is returned when two functions share a name or
	// alias.
	ErrDuplicateFunction = errors.New("duplicate function")
)

// Catalog is the read-only lookup of commands and functions. It is safe
// for concurrent use once loaded.
type Catalog struct {
	commands     []*Command
	commandIndex map[CommandName]*Command
	functions    []*Function
	byName       map[string]*Function
	byType       map[FunctionType][]*Function
	allNames     []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It panics if the embedded
// function catalog is invalid, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(functionsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load builds a catalog from the built-in commands and operators plus the
// functions of a YAML catalog, and validates it.
func Load(functionsData []byte) (*Catalog, error) {
	fns, err := decodeFunctions(functionsData)
	if err != nil {
		return nil, err
	}
	return New(builtinCommands(), append(builtinFunctions(), fns...))
}

// New builds and validates a catalog.
func New(commands []*Command, functions []*Function) (*Catalog, error) {
	c := &Catalog{
		commands:     commands,
		commandIndex: make(map[CommandName]*Command, len(commands)),
		byName:       make(map[string]*Function, len(functions)),
		byType:       make(map[FunctionType][]*Function),
	}
	options := make(map[OptionName]bool)
	for _, cmd := range commands {
		c.commandIndex[cmd.Name] = cmd
		for _, opt := range cmd.Options {
			options[opt.Name] = true
		}
	}

	for _, fn := range functions {
		if err := c.validate(fn, options); err != nil {
			return nil, err
		}
		for _, name := range append([]string{fn.Name}, fn.Alias...) {
			key := strings.ToLower(name)
			if _, dup := c.byName[key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
			}
			c.byName[key] = fn
		}
		c.functions = append(c.functions, fn)
		c.byType[fn.Type] = append(c.byType[fn.Type], fn)
		c.allNames = append(c.allNames, fn.Name)
	}
	sort.Strings(c.allNames)
	return c, nil
}

func (c *Catalog) validate(fn *Function, options map[OptionName]bool) error {
	switch fn.Type {
	case FunctionEval, FunctionAgg, FunctionBuiltin:
	default:
		return fmt.Errorf("function %q: unknown function type %q", fn.Name, fn.Type)
	}
	if len(fn.Signatures) == 0 {
		return fmt.Errorf("function %q: no signatures", fn.Name)
	}
	for _, cmd := range fn.SupportedCommands {
		if _, ok := c.commandIndex[cmd]; !ok {
			return fmt.Errorf("%w: function %q supports %q", ErrUnknownCommand, fn.Name, cmd)
		}
	}
	for _, opt := range fn.SupportedOptions {
		if !options[opt] {
			return fmt.Errorf("%w: function %q supports option %q", ErrUnknownCommand, fn.Name, opt)
		}
	}
	for _, sig := range fn.Signatures {
		for _, p := range sig.Params {
			if !p.Type.IsValid() {
				return fmt.Errorf("%w: function %q param %q has type %q", ErrInvalidParamType, fn.Name, p.Name, p.Type)
			}
		}
		if !sig.ReturnType.IsValid() {
			return fmt.Errorf("%w: function %q returns %q", ErrInvalidParamType, fn.Name, sig.ReturnType)
		}
	}
	return nil
}

// Commands returns every command in declaration order.
func (c *Catalog) Commands() []*Command {
	return c.commands
}

// Command returns the command called name, case-insensitively.
func (c *Catalog) Command(name string) (*Command, bool) {
	cmd, ok := c.commandIndex[CommandName(strings.ToLower(name))]
	return cmd, ok
}

// IsSourceCommand reports whether name starts a pipeline.
func (c *Catalog) IsSourceCommand(name string) bool {
	cmd, ok := c.Command(name)
	return ok && cmd.Source
}

// Function returns the function called name or one of its aliases.
func (c *Catalog) Function(name string) (*Function, bool) {
	fn, ok := c.byName[strings.ToLower(name)]
	return fn, ok
}

// Functions returns the functions of the given types in declaration
// order, or every function when no type is given.
func (c *Catalog) Functions(types ...FunctionType) []*Function {
	if len(types) == 0 {
		return c.functions
	}
	var out []*Function
	for _, fn := range c.functions {
		for _, t := range types {
			if fn.Type == t {
				out = append(out, fn)
				break
			}
		}
	}
	return out
}

// Builtins returns the operators.
func (c *Catalog) Builtins() []*Function {
	return c.byType[FunctionBuiltin]
}

// IsBuiltin reports whether name is an operator.
func (c *Catalog) IsBuiltin(name string) bool {
	fn, ok := c.Function(name)
	return ok && fn.Type == FunctionBuiltin
}

// IsAggregation reports whether name is an aggregation function.
func (c *Catalog) IsAggregation(name string) bool {
	fn, ok := c.Function(name)
	return ok && fn.Type == FunctionAgg
}

// FunctionNames returns every function name, sorted.
func (c *Catalog) FunctionNames() []string {
	return c.allNames
}
