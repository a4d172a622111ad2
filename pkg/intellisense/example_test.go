package intellisense_test

import (
	"context"
	"fmt"

	"github.com/oakwood-commons/esqlc/pkg/intellisense"
)

func Example() {
	schema, err := intellisense.LoadSchema([]byte(`
fields:
  - name: bytes
    type: long
  - name: host
    type: keyword
sources:
  - name: logs
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	engine := intellisense.NewEngine(
		intellisense.WithCallbacks(intellisense.NewStaticCallbacks(schema)),
	)
	query := "FROM logs | SORT bytes "
	suggestions, err := engine.Suggest(context.Background(), intellisense.Request{
		Query:   query,
		Offset:  len(query),
		Trigger: intellisense.Trigger{Kind: intellisense.TriggerCharacter, Character: " "},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range suggestions {
		if s.Label == "asc" || s.Label == "desc" {
			fmt.Println(s.Label)
		}
	}
	// Output:
	// asc
	// desc
}
