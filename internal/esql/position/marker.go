package position

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
)

// IsMarker reports whether n is a column or source whose name ends with
// the cursor marker.
func IsMarker(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Column:
		return strings.HasSuffix(v.Name, Marker)
	case *ast.Source:
		return strings.HasSuffix(v.Name, Marker)
	}
	return false
}

// CleanNode returns nil when n is a marker and n otherwise.
func CleanNode(n ast.Node) ast.Node {
	if n == nil || IsMarker(n) {
		return nil
	}
	return n
}

// Clean returns a shallow copy of n whose argument list holds no marker,
// looking one level into arrays. Nodes without arguments are returned
// unchanged. Text keeps whatever the parser saw.
func Clean(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Command:
		return v.WithArgs(removeMarkers(v.Args))
	case *ast.Option:
		return v.WithArgs(removeMarkers(v.Args))
	case *ast.Function:
		return v.WithArgs(removeMarkers(v.Args))
	}
	return n
}

// CleanCommand is Clean for commands.
func CleanCommand(c *ast.Command) *ast.Command {
	if c == nil {
		return nil
	}
	return c.WithArgs(removeMarkers(c.Args))
}

// CleanOption is Clean for options.
func CleanOption(o *ast.Option) *ast.Option {
	if o == nil {
		return nil
	}
	return o.WithArgs(removeMarkers(o.Args))
}

// CleanFunction is Clean for functions.
func CleanFunction(f *ast.Function) *ast.Function {
	if f == nil {
		return nil
	}
	return f.WithArgs(removeMarkers(f.Args))
}

func removeMarkers(args []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(args))
	for _, arg := range args {
		if arg == nil || IsMarker(arg) {
			continue
		}
		if arr, ok := arg.(*ast.Array); ok {
			items := make([]ast.Node, 0, len(arr.Items))
			for _, item := range arr.Items {
				if !IsMarker(item) {
					items = append(items, item)
				}
			}
			out = append(out, arr.WithItems(items))
			continue
		}
		out = append(out, arg)
	}
	return out
}
