package schema

import (
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

// Enum is an enum type. Its elements can only be added to in place: removing or reordering elements requires the
// type to be recreated.
type Enum struct {
	Schema   string   `yaml:"schema"`
	Name     string   `yaml:"name"`
	Elements []string `yaml:"elements"`

	Dependencies `yaml:",inline"`
}

func (e *Enum) GetSchema() string {
	return e.Schema
}

func (e *Enum) GetName() string {
	return e.Name
}

func (e *Enum) Signature() string {
	return pgidentifier.Qualify(e.Schema, e.Name)
}

func (e *Enum) quotedElements() string {
	quoted := make([]string, 0, len(e.Elements))
	for _, el := range e.Elements {
		quoted = append(quoted, pgidentifier.QuoteLiteral(el))
	}
	return strings.Join(quoted, ", ")
}

func (e *Enum) CreateStatement() string {
	return fmt.Sprintf("create type %s as enum (%s);", e.Signature(), e.quotedElements())
}

func (e *Enum) DropStatement() string {
	return fmt.Sprintf("drop type %s;", e.Signature())
}

// CanBeChangedTo is true if every element of e appears in target in the same relative order, i.e., target can be
// reached by only adding values.
func (e *Enum) CanBeChangedTo(target *Enum) bool {
	i := 0
	for _, el := range target.Elements {
		if i < len(e.Elements) && e.Elements[i] == el {
			i++
		}
	}
	return i == len(e.Elements)
}

// ChangeStatements returns one add value statement per element of target missing from e, scanning target from left to
// right. Each value is placed after the element preceding it in target, or before the first existing element if it
// has no predecessor.
func (e *Enum) ChangeStatements(target *Enum) ([]string, error) {
	if !e.CanBeChangedTo(target) {
		return nil, fmt.Errorf(
			"%s cannot be changed from (%s) to (%s): %w",
			e.Signature(), e.quotedElements(), target.quotedElements(), ErrInvalidEnumTransition,
		)
	}

	existing := make(map[string]bool, len(e.Elements))
	for _, el := range e.Elements {
		existing[el] = true
	}

	var statements []string
	var previous *string
	for i, el := range target.Elements {
		if !existing[el] {
			var position string
			switch {
			case previous != nil:
				position = " after " + pgidentifier.QuoteLiteral(*previous)
			case len(e.Elements) > 0:
				position = " before " + pgidentifier.QuoteLiteral(e.Elements[0])
			}
			statements = append(statements, fmt.Sprintf(
				"alter type %s add value %s%s;", e.Signature(), pgidentifier.QuoteLiteral(el), position,
			))
		}
		previous = &target.Elements[i]
	}
	return statements, nil
}

func (e *Enum) Equal(other *Enum) bool {
	if e.Signature() != other.Signature() || len(e.Elements) != len(other.Elements) {
		return false
	}
	for i := range e.Elements {
		if e.Elements[i] != other.Elements[i] {
			return false
		}
	}
	return true
}
