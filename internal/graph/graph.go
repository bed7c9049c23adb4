package graph

import (
	"fmt"
	"sort"
	"strings"
)

type Vertex interface {
	GetId() string
}

type AdjacencyMatrix map[string]map[string]bool

// Graph is a directed graph. An edge from source to target means source must be emitted before target
// when the graph is topologically sorted.
type Graph[V Vertex] struct {
	verticesById map[string]V
	edges        AdjacencyMatrix
}

func NewGraph[V Vertex]() *Graph[V] {
	return &Graph[V]{
		verticesById: make(map[string]V),
		edges:        make(AdjacencyMatrix),
	}
}

// AddVertex adds a vertex to the graph.
// If the vertex already exists, it will override it and keep the edges
func (g *Graph[V]) AddVertex(v V) {
	g.verticesById[v.GetId()] = v
	if g.edges[v.GetId()] == nil {
		g.edges[v.GetId()] = make(map[string]bool)
	}
}

// AddEdge adds an edge to the graph. If the vertex doesn't exist, it will error
func (g *Graph[V]) AddEdge(sourceId, targetId string) error {
	if !g.HasVertexWithId(sourceId) {
		return fmt.Errorf("source %s does not exist", sourceId)
	}
	if !g.HasVertexWithId(targetId) {
		return fmt.Errorf("target %s does not exist", targetId)
	}
	g.edges[sourceId][targetId] = true

	return nil
}

// Union unions the graph with a new graph. If a vertex exists in both graphs,
// it uses the merge function to determine what the new vertex is
func (g *Graph[V]) Union(new *Graph[V], merge func(old, new V) V) error {
	for _, newV := range new.verticesById {
		if g.HasVertexWithId(newV.GetId()) {
			id := newV.GetId()
			// merge the vertices using the procedure defined by the user
			newV = merge(g.GetVertex(newV.GetId()), newV)
			if newV.GetId() != id {
				return fmt.Errorf("the merge function must return a vertex with the same id: "+
					"expected %s but found %s", id, newV.GetId())
			}
		}
		g.AddVertex(newV)
	}

	for source, adjacentEdgesMap := range new.edges {
		for target, isAdjacent := range adjacentEdgesMap {
			if isAdjacent {
				if err := g.AddEdge(source, target); err != nil {
					return fmt.Errorf("adding an edge from the new graph: %w", err)
				}
			}
		}
	}

	return nil
}

func (g *Graph[V]) GetVertex(id string) V {
	return g.verticesById[id]
}

func (g *Graph[V]) HasVertexWithId(id string) bool {
	_, hasVertex := g.verticesById[id]
	return hasVertex
}

// CycleError is returned when a graph cannot be fully reduced by a topological sort. Remaining holds the
// sorted ids of every vertex left in the graph once no more sources could be found.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected among %d vertices: %s", len(e.Remaining), strings.Join(e.Remaining, ", "))
}

// TopologicallySortInBatches runs Kahn's algorithm: every round removes all vertices with no remaining
// incoming edges and emits them as one batch, sorted by id. Flattening the batches gives a deterministic
// topological order. If the graph cannot be reduced, a *CycleError is returned and no partial order.
func (g *Graph[V]) TopologicallySortInBatches() ([][]V, error) {
	incomingEdgeCountByVertex := make(map[string]int, len(g.verticesById))
	for id := range g.verticesById {
		incomingEdgeCountByVertex[id] = 0
	}
	for _, adjacentEdgesMap := range g.edges {
		for target, isAdjacent := range adjacentEdgesMap {
			if isAdjacent {
				incomingEdgeCountByVertex[target]++
			}
		}
	}

	var batches [][]V
	for len(incomingEdgeCountByVertex) > 0 {
		var readyIds []string
		for id, count := range incomingEdgeCountByVertex {
			if count == 0 {
				readyIds = append(readyIds, id)
			}
		}
		if len(readyIds) == 0 {
			remaining := make([]string, 0, len(incomingEdgeCountByVertex))
			for id := range incomingEdgeCountByVertex {
				remaining = append(remaining, id)
			}
			sort.Strings(remaining)
			return nil, &CycleError{Remaining: remaining}
		}
		sort.Strings(readyIds)

		batch := make([]V, 0, len(readyIds))
		for _, id := range readyIds {
			batch = append(batch, g.verticesById[id])
			delete(incomingEdgeCountByVertex, id)
		}
		for _, id := range readyIds {
			for target, isAdjacent := range g.edges[id] {
				if isAdjacent {
					incomingEdgeCountByVertex[target]--
				}
			}
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// TopologicallySortLexicographically flattens TopologicallySortInBatches.
func (g *Graph[V]) TopologicallySortLexicographically() ([]V, error) {
	batches, err := g.TopologicallySortInBatches()
	if err != nil {
		return nil, err
	}
	var output []V
	for _, batch := range batches {
		output = append(output, batch...)
	}
	return output, nil
}
