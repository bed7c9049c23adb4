package diff

import (
	"github.com/google/go-cmp/cmp"

	"github.com/stripe/pg-schema-inspect/internal/schema"
)

type (
	// objectDiff holds an object that exists in both snapshots but changed.
	objectDiff[S schema.Object] struct {
		old S
		new S
	}

	// listDiff represents the differences between two collections of objects keyed by signature.
	listDiff[S schema.Object] struct {
		// adds are in the new snapshot's order
		adds []S
		// deletes are in the old snapshot's order
		deletes []S
		// alters only contains objects that changed
		alters []objectDiff[S]
	}
)

// diffMaps pairs up objects by signature. equal decides whether a persisted object changed.
func diffMaps[S schema.Object](old, new *schema.OrderedMap[S], equal func(old, new S) bool) listDiff[S] {
	var ld listDiff[S]
	for _, n := range new.Values() {
		o, ok := old.Get(n.Signature())
		if !ok {
			ld.adds = append(ld.adds, n)
			continue
		}
		if !equal(o, n) {
			ld.alters = append(ld.alters, objectDiff[S]{old: o, new: n})
		}
	}
	for _, o := range old.Values() {
		if !new.Has(o.Signature()) {
			ld.deletes = append(ld.deletes, o)
		}
	}
	return ld
}

// structEqual compares objects that carry no graph fields.
func structEqual[S schema.Object](old, new S) bool {
	return cmp.Equal(old, new)
}

func selectableEqual(old, new schema.Selectable) bool {
	switch o := old.(type) {
	case *schema.Relation:
		n, ok := new.(*schema.Relation)
		return ok && o.Equal(n)
	case *schema.Function:
		n, ok := new.(*schema.Function)
		return ok && o.Equal(n)
	default:
		return false
	}
}
