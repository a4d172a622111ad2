package completion

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

// request is the state of one Suggest call shared by the suggesters.
// Callback results are fetched at most once and never change afterwards.
type request struct {
	ctx         context.Context
	catalog     *definitions.Catalog
	callbacks   Callbacks
	log         logr.Logger
	innerText   string
	commands    []*ast.Command
	fieldsQuery string

	fieldsOnce sync.Once
	fields     []Field
	fieldIndex map[string]Field

	sourcesOnce sync.Once
	sources     []Source

	policiesOnce sync.Once
	policies     []Policy
}

func (r *request) loadFields() {
	r.fieldsOnce.Do(func() {
		fields, err := r.callbacks.GetFieldsFor(r.ctx, r.fieldsQuery)
		if err != nil {
			r.log.Error(err, "fetching fields", "query", r.fieldsQuery)
			fields = nil
		}
		r.fields = fields
		r.fieldIndex = make(map[string]Field, len(fields))
		for _, f := range fields {
			r.fieldIndex[f.Name] = f
		}
	})
}

// fieldsMap returns the fields keyed by name.
func (r *request) fieldsMap() map[string]Field {
	r.loadFields()
	return r.fieldIndex
}

// fieldsByType returns suggestions for the fields of one of types, minus
// ignored names. "any" matches every field.
func (r *request) fieldsByType(types []definitions.Type, ignored []string, opts insertOptions) []Suggestion {
	r.loadFields()
	var out []Field
	for _, f := range r.fields {
		if contains(ignored, f.Name) {
			continue
		}
		if matchesTypes(f.Type, types) {
			out = append(out, f)
		}
	}
	return fieldSuggestions(out, opts)
}

func matchesTypes(t definitions.Type, types []definitions.Type) bool {
	for _, candidate := range types {
		if candidate == definitions.TypeAny || definitions.CompatibleTypes(t, candidate) {
			return true
		}
	}
	return false
}

func (r *request) loadSources() []Source {
	r.sourcesOnce.Do(func() {
		sources, err := r.callbacks.GetSources(r.ctx)
		if err != nil {
			r.log.Error(err, "fetching sources")
			sources = nil
		}
		r.sources = sources
	})
	return r.sources
}

// sourceSuggestions offers every visible source.
func (r *request) sourceSuggestions() []Suggestion {
	var items []sourceItem
	for _, src := range r.loadSources() {
		if src.Hidden {
			continue
		}
		items = append(items, sourceItem{
			name:          src.Name,
			title:         src.Title,
			typ:           src.Type,
			isIntegration: len(src.DataStreams) > 0,
		})
	}
	return sourceSuggestions(items)
}

// dataStreamsFor returns the data streams of the integration called name.
func (r *request) dataStreamsFor(name string) ([]DataStream, bool) {
	for _, src := range r.loadSources() {
		if src.Name == name {
			return src.DataStreams, src.DataStreams != nil
		}
	}
	return nil, false
}

func (r *request) loadPolicies() []Policy {
	r.policiesOnce.Do(func() {
		policies, err := r.callbacks.GetPolicies(r.ctx)
		if err != nil {
			r.log.Error(err, "fetching policies")
			policies = nil
		}
		r.policies = policies
	})
	return r.policies
}

func (r *request) policySuggestions() []Suggestion {
	return policySuggestions(r.loadPolicies())
}

func (r *request) policyMetadata(name string) (Policy, bool) {
	for _, p := range r.loadPolicies() {
		if p.Name == name {
			return p, true
		}
	}
	return Policy{}, false
}

// variables collects the variables of the whole query against fields.
func (r *request) variables(fields map[string]Field) Variables {
	return CollectVariables(r.catalog, r.commands, fields, r.innerText)
}

func (r *request) references(fields map[string]Field, vars Variables) References {
	return References{Catalog: r.catalog, Fields: fields, Variables: vars}
}

// withEnrichFields returns a copy of fields plus the enrich fields of a
// policy, typed as double.
func withEnrichFields(fields map[string]Field, policy Policy, ok bool) map[string]Field {
	if !ok {
		return fields
	}
	out := make(map[string]Field, len(fields)+len(policy.EnrichFields))
	for k, v := range fields {
		out[k] = v
	}
	for _, name := range policy.EnrichFields {
		out[name] = Field{Name: name, Type: definitions.TypeDouble}
	}
	return out
}
