package schema

import "fmt"

// schemaFilter decides whether objects in a schema are kept.
type schemaFilter func(schema string) bool

func schemaNameFilter(schema string) schemaFilter {
	return func(s string) bool {
		return s == schema
	}
}

func notSchemaNameFilter(schema string) schemaFilter {
	return func(s string) bool {
		return s != schema
	}
}

func orSchemaFilter(filters ...schemaFilter) schemaFilter {
	return func(s string) bool {
		for _, filter := range filters {
			if filter(s) {
				return true
			}
		}
		return false
	}
}

func andSchemaFilter(filters ...schemaFilter) schemaFilter {
	return func(s string) bool {
		if len(filters) == 0 {
			return false
		}

		for _, filter := range filters {
			if !filter(s) {
				return false
			}
		}
		return true
	}
}

func allSchemas(string) bool {
	return true
}

// buildSchemaFilter keeps the included schemas, or everything but the excluded schemas. Supplying both is rejected.
func buildSchemaFilter(include, exclude []string) (schemaFilter, error) {
	switch {
	case len(include) > 0 && len(exclude) > 0:
		return nil, fmt.Errorf("include %v and exclude %v: %w", include, exclude, ErrAmbiguousFilter)
	case len(include) > 0:
		var filters []schemaFilter
		for _, s := range include {
			filters = append(filters, schemaNameFilter(s))
		}
		return orSchemaFilter(filters...), nil
	case len(exclude) > 0:
		var filters []schemaFilter
		for _, s := range exclude {
			filters = append(filters, notSchemaNameFilter(s))
		}
		return andSchemaFilter(filters...), nil
	default:
		return allSchemas, nil
	}
}

func filterRows[T any](rows []T, getSchema func(T) string, filter schemaFilter) []T {
	var filtered []T
	for _, row := range rows {
		if filter(getSchema(row)) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// FilterBySchema returns a copy of the snapshot holding only objects in the matching schemas. Dependency edges are
// rebuilt over the kept objects; edges into removed objects are dropped. The receiver is not modified.
func (i *Inspected) FilterBySchema(include, exclude []string) (*Inspected, error) {
	filter, err := buildSchemaFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	out := newInspected()
	out.Schemas = i.Schemas.Filter(func(s *NamedSchema) bool { return filter(s.Name) })
	for _, r := range i.Relations.Values() {
		if !filter(r.Schema) {
			continue
		}
		c := *r
		c.Dependencies = Dependencies{}
		c.Indexes, c.Constraints = nil, nil
		out.addRelation(&c)
	}
	for _, f := range i.Functions.Values() {
		if !filter(f.Schema) {
			continue
		}
		c := *f
		c.Dependencies = Dependencies{}
		out.addFunction(&c)
	}
	for _, e := range i.Enums.Values() {
		if !filter(e.Schema) {
			continue
		}
		c := *e
		c.Dependencies = Dependencies{}
		out.Enums.Set(c.Signature(), &c)
	}
	for _, t := range i.Triggers.Values() {
		if !filter(t.Schema) {
			continue
		}
		c := *t
		c.Dependencies = Dependencies{}
		out.Triggers.Set(c.Signature(), &c)
	}
	out.Indexes = i.Indexes.Filter(func(idx *Index) bool { return filter(idx.Schema) })
	out.Constraints = i.Constraints.Filter(func(c *Constraint) bool { return filter(c.Schema) })
	out.Sequences = i.Sequences.Filter(func(s *Sequence) bool { return filter(s.Schema) })
	out.Domains = i.Domains.Filter(func(d *Domain) bool { return filter(d.Schema) })
	out.Extensions = i.Extensions.Filter(func(e *Extension) bool { return filter(e.Schema) })
	out.Privileges = i.Privileges.Filter(func(p *Privilege) bool { return filter(p.Schema) })
	out.Policies = i.Policies.Filter(func(p *Policy) bool { return filter(p.Schema) })
	out.Collations = i.Collations.Filter(func(c *Collation) bool { return filter(c.Schema) })
	out.Comments = i.Comments.Filter(func(c *Comment) bool { return filter(c.Schema) })
	out.attachTableObjects()

	var edges []candidateEdge
	for _, obj := range i.GraphObjects() {
		if !filter(obj.GetSchema()) {
			continue
		}
		for _, dep := range obj.GetDependencies().DependentOn {
			edges = append(edges, candidateEdge{dependent: obj.Signature(), dependency: dep})
		}
	}
	out.buildDependencyGraph(edges, func(candidateEdge) {})

	for _, u := range i.Unresolved {
		if _, ok := out.GetDependencyBySignature(u.Dependent); ok {
			out.Unresolved = append(out.Unresolved, u)
		}
	}
	return out, nil
}
