package schema

import (
	"sort"

	"github.com/stripe/pg-schema-inspect/internal/set"
)

// candidateEdge is a dependency reported while loading. It becomes an edge once both ends resolve.
type candidateEdge struct {
	dependent  string
	dependency string
	// dependencySchema decides whether a missing dependency is expected, i.e., filtered out.
	dependencySchema string
}

// buildDependencyGraph replaces the edges of every graph object with the resolved candidate edges and computes their
// transitive closures. Edges whose dependent is not a graph object are dropped. Edges whose dependency is missing are
// passed to onUnresolved.
func (i *Inspected) buildDependencyGraph(edges []candidateEdge, onUnresolved func(candidateEdge)) {
	objs := i.GraphObjects()
	for _, obj := range objs {
		obj.GetDependencies().reset()
	}

	dependentOn := make(map[string]*set.Set[string, string])
	dependents := make(map[string]*set.Set[string, string])
	getOrCreate := func(m map[string]*set.Set[string, string], key string) *set.Set[string, string] {
		s, ok := m[key]
		if !ok {
			s = set.NewSet[string]()
			m[key] = s
		}
		return s
	}

	for _, e := range edges {
		if _, ok := i.GetDependencyBySignature(e.dependent); !ok {
			continue
		}
		if _, ok := i.GetDependencyBySignature(e.dependency); !ok {
			onUnresolved(e)
			continue
		}
		if e.dependent == e.dependency {
			continue
		}
		getOrCreate(dependentOn, e.dependent).Add(e.dependency)
		getOrCreate(dependents, e.dependency).Add(e.dependent)
	}

	for _, obj := range objs {
		deps := obj.GetDependencies()
		sig := obj.Signature()
		if s, ok := dependentOn[sig]; ok {
			deps.DependentOn = s.Values()
		}
		if s, ok := dependents[sig]; ok {
			deps.Dependents = s.Values()
		}
	}

	for _, obj := range objs {
		deps := obj.GetDependencies()
		sig := obj.Signature()
		deps.DependentOnAll = i.closure(sig, func(d *Dependencies) []string { return d.DependentOn })
		deps.DependentsAll = i.closure(sig, func(d *Dependencies) []string { return d.Dependents })
	}
}

// closure walks the edges returned by next breadth-first from start. The result is sorted and excludes start, even if
// start is part of a cycle.
func (i *Inspected) closure(start string, next func(*Dependencies) []string) []string {
	visited := map[string]bool{start: true}
	var out []string
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		obj, ok := i.GetDependencyBySignature(cur)
		if !ok {
			continue
		}
		for _, n := range next(obj.GetDependencies()) {
			if visited[n] {
				continue
			}
			visited[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	sort.Strings(out)
	return out
}
