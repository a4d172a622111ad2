package ast

// ToMap converts a node into plain maps and slices so it can be handed to
// a YAML or JSON encoder.
func ToMap(n Node) map[string]interface{} {
	if n == nil {
		return nil
	}
	m := map[string]interface{}{
		"type":     n.Kind().String(),
		"name":     n.NodeName(),
		"location": []int{n.Loc().Min, n.Loc().Max},
	}
	if n.NodeText() != n.NodeName() {
		m["text"] = n.NodeText()
	}
	if n.IsIncomplete() {
		m["incomplete"] = true
	}
	switch v := n.(type) {
	case *Literal:
		m["literalType"] = string(v.LiteralType)
		m["value"] = v.Value
	case *Source:
		m["sourceType"] = string(v.SourceType)
	case *Column:
		if v.Quoted {
			m["quoted"] = true
		}
	case *TimeInterval:
		m["quantity"] = v.Quantity
		m["unit"] = v.Unit
	case *List:
		m["values"] = toMaps(v.Values)
	}
	if args := Args(n); len(args) > 0 {
		m["args"] = toMaps(args)
	}
	return m
}

// CommandsToMaps converts every command with ToMap.
func CommandsToMaps(commands []*Command) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(commands))
	for _, c := range commands {
		out = append(out, ToMap(c))
	}
	return out
}

func toMaps(nodes []Node) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ToMap(n))
	}
	return out
}
