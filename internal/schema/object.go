package schema

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type (
	// Object is any schema object that can be created and dropped.
	Object interface {
		GetSchema() string
		GetName() string
		// Signature is the canonical, quoted identity of the object. It is unique within the object's kind and is
		// the node key of the dependency graph.
		Signature() string
		CreateStatement() string
		DropStatement() string
	}

	// GraphObject is an object that takes part in the dependency graph.
	GraphObject interface {
		Object
		GetDependencies() *Dependencies
	}

	// Selectable is an object with column-like output: a relation or a routine.
	Selectable interface {
		GraphObject
		GetColumns() []*Column
		IsFunction() bool
	}
)

// Dependencies holds the edges of an object in the dependency graph. Every list is sorted and deduplicated once the
// graph is built.
type Dependencies struct {
	// DependentOn are the signatures of the objects this object requires to exist first.
	DependentOn []string `yaml:"dependent_on,omitempty"`
	// Dependents is the inverse of DependentOn.
	Dependents []string `yaml:"dependents,omitempty"`
	// DependentOnAll is the transitive closure of DependentOn, excluding the object itself.
	DependentOnAll []string `yaml:"dependent_on_all,omitempty"`
	// DependentsAll is the transitive closure of Dependents, excluding the object itself.
	DependentsAll []string `yaml:"dependents_all,omitempty"`
}

func (d *Dependencies) GetDependencies() *Dependencies {
	return d
}

func (d *Dependencies) reset() {
	*d = Dependencies{}
}

// OrderedMap maps signatures to objects and iterates in insertion order.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set adds or replaces the value. Replacing keeps the original position.
func (m *OrderedMap[V]) Set(key string, val V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

func (m *OrderedMap[V]) Get(key string) (V, bool) {
	val, ok := m.values[key]
	return val, ok
}

func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *OrderedMap[V]) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	keys := make([]string, 0, len(m.keys)-1)
	for _, k := range m.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	m.keys = keys
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// SortedKeys returns the keys in ascending order.
func (m *OrderedMap[V]) SortedKeys() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

// Values returns the values in insertion order.
func (m *OrderedMap[V]) Values() []V {
	vals := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		vals = append(vals, m.values[k])
	}
	return vals
}

// Filter returns a new map holding the entries for which keep returns true, in the same order.
func (m *OrderedMap[V]) Filter(keep func(V) bool) *OrderedMap[V] {
	out := NewOrderedMap[V]()
	for _, k := range m.keys {
		if v := m.values[k]; keep(v) {
			out.Set(k, v)
		}
	}
	return out
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *OrderedMap[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		var valNode yaml.Node
		if err := valNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &valNode)
	}
	return node, nil
}
