package util

import "sort"

// Keys returns the keys for a map in no particular order.
func Keys[K comparable, V any](val map[K]V) []K {
	out := make([]K, 0, len(val))
	for k := range val {
		out = append(out, k)
	}
	return out
}

// SortedKeys returns the string keys of a map in ascending order.
func SortedKeys[V any](val map[string]V) []string {
	out := Keys(val)
	sort.Strings(out)
	return out
}
