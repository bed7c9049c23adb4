package main

import (
	"github.com/stripe/pg-schema-inspect/internal/util"
)

// keys returns the keys of the map in ascending order, or nil if it is empty.
func keys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	return util.SortedKeys(m)
}
