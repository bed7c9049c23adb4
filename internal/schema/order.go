package schema

import (
	"errors"
	"fmt"
	"io"

	"github.com/stripe/pg-schema-inspect/internal/graph"
)

type (
	OrderOpt func(*orderOptions)

	orderOptions struct {
		drop                  bool
		excludeSelectables    bool
		excludeTriggers       bool
		excludeEnums          bool
		includeForeignKeyDeps bool
	}
)

// WithDropOrder reverses the order, so dependents come before their dependencies.
func WithDropOrder() OrderOpt {
	return func(o *orderOptions) {
		o.drop = true
	}
}

func WithoutSelectables() OrderOpt {
	return func(o *orderOptions) {
		o.excludeSelectables = true
	}
}

func WithoutTriggers() OrderOpt {
	return func(o *orderOptions) {
		o.excludeTriggers = true
	}
}

func WithoutEnums() OrderOpt {
	return func(o *orderOptions) {
		o.excludeEnums = true
	}
}

// WithForeignKeyDeps orders referenced tables before the tables whose foreign keys reference them.
func WithForeignKeyDeps() OrderOpt {
	return func(o *orderOptions) {
		o.includeForeignKeyDeps = true
	}
}

// graphVertex adapts a GraphObject to the graph package.
type graphVertex struct {
	obj GraphObject
}

func (v graphVertex) GetId() string {
	return v.obj.Signature()
}

func buildOrderOptions(opts []OrderOpt) orderOptions {
	var options orderOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// dependencyGraph builds the graph of the selected object kinds. An edge goes from a dependency to its dependent, so
// a topological sort yields a valid create order. Edges to objects of excluded kinds are dropped.
func (i *Inspected) dependencyGraph(opts ...OrderOpt) (*graph.Graph[graphVertex], error) {
	options := buildOrderOptions(opts)

	g := graph.NewGraph[graphVertex]()
	var objs []GraphObject
	if !options.excludeSelectables {
		for _, s := range i.Selectables.Values() {
			objs = append(objs, s)
		}
	}
	if !options.excludeEnums {
		for _, e := range i.Enums.Values() {
			objs = append(objs, e)
		}
	}
	if !options.excludeTriggers {
		for _, t := range i.Triggers.Values() {
			objs = append(objs, t)
		}
	}
	for _, obj := range objs {
		g.AddVertex(graphVertex{obj: obj})
	}
	for _, obj := range objs {
		for _, dep := range obj.GetDependencies().DependentOn {
			if !g.HasVertexWithId(dep) {
				continue
			}
			if err := g.AddEdge(dep, obj.Signature()); err != nil {
				return nil, fmt.Errorf("adding edge from %s to %s: %w", dep, obj.Signature(), err)
			}
		}
	}

	if options.includeForeignKeyDeps {
		fkGraph, err := i.foreignKeyGraph(g)
		if err != nil {
			return nil, err
		}
		if err := g.Union(fkGraph, func(old, _ graphVertex) graphVertex { return old }); err != nil {
			return nil, fmt.Errorf("merging foreign key edges: %w", err)
		}
	}
	return g, nil
}

// foreignKeyGraph holds an edge from every referenced table to each table referencing it. Only tables already in base
// take part; self-references are ignored.
func (i *Inspected) foreignKeyGraph(base *graph.Graph[graphVertex]) (*graph.Graph[graphVertex], error) {
	g := graph.NewGraph[graphVertex]()
	for _, c := range i.Constraints.Values() {
		if !c.IsFK() {
			continue
		}
		table, foreignTable := c.Table(), c.ForeignTable()
		if table == foreignTable || !base.HasVertexWithId(table) || !base.HasVertexWithId(foreignTable) {
			continue
		}
		g.AddVertex(base.GetVertex(table))
		g.AddVertex(base.GetVertex(foreignTable))
		if err := g.AddEdge(foreignTable, table); err != nil {
			return nil, fmt.Errorf("adding foreign key edge for %s: %w", c.Signature(), err)
		}
	}
	return g, nil
}

// DependencyOrder returns the signatures of the selected objects in create order, or drop order with WithDropOrder.
// Among objects whose dependencies are all satisfied, signatures are emitted in ascending order, so the output is
// deterministic. If the objects cannot be ordered, a *CyclicDependencyError holding every unorderable signature is
// returned.
func (i *Inspected) DependencyOrder(opts ...OrderOpt) ([]string, error) {
	options := buildOrderOptions(opts)
	g, err := i.dependencyGraph(opts...)
	if err != nil {
		return nil, err
	}
	vertices, err := g.TopologicallySortLexicographically()
	if err != nil {
		var cycleErr *graph.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &CyclicDependencyError{Signatures: cycleErr.Remaining}
		}
		return nil, fmt.Errorf("sorting dependency graph: %w", err)
	}

	order := make([]string, 0, len(vertices))
	for _, v := range vertices {
		order = append(order, v.GetId())
	}
	if options.drop {
		for l, r := 0, len(order)-1; l < r; l, r = l+1, r-1 {
			order[l], order[r] = order[r], order[l]
		}
	}
	return order, nil
}

// DependencyOrderObjects is DependencyOrder, resolved to the objects themselves.
func (i *Inspected) DependencyOrderObjects(opts ...OrderOpt) ([]GraphObject, error) {
	order, err := i.DependencyOrder(opts...)
	if err != nil {
		return nil, err
	}
	objs := make([]GraphObject, 0, len(order))
	for _, sig := range order {
		obj, _ := i.GetDependencyBySignature(sig)
		objs = append(objs, obj)
	}
	return objs, nil
}

// EncodeDOT writes the ordering graph in Graphviz DOT format.
func (i *Inspected) EncodeDOT(w io.Writer, opts ...OrderOpt) error {
	g, err := i.dependencyGraph(opts...)
	if err != nil {
		return err
	}
	return graph.EncodeDOT(g, w, true)
}
