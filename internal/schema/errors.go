package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedDialect is returned when no catalog loader exists for the requested backend.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrAmbiguousFilter is returned when both included and excluded schemas are supplied.
	ErrAmbiguousFilter = errors.New("include and exclude schema filters are mutually exclusive")
	// ErrCyclicDependency is matched by every CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrInvalidEnumTransition is returned when an enum cannot be altered in place into another enum.
	ErrInvalidEnumTransition = errors.New("invalid enum transition")
	// ErrInvalidObjectAccess is returned when a kind-specific operation is invoked on the wrong kind of object.
	ErrInvalidObjectAccess = errors.New("invalid object access")
)

// CyclicDependencyError is returned when objects cannot be ordered. Signatures holds every object that was left
// once no object without unresolved dependencies remained.
type CyclicDependencyError struct {
	Signatures []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between: %s", strings.Join(e.Signatures, ", "))
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// UnresolvedDependency is an edge reported by the catalog whose target was not loaded. It is recorded rather than
// treated as an error.
type UnresolvedDependency struct {
	Dependent  string `yaml:"dependent"`
	Dependency string `yaml:"dependency"`
}
