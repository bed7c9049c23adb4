package schema

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

// Column is a column of a relation, or a parameter or output column of a routine.
type Column struct {
	Name string `yaml:"name"`
	// DBType is the catalog type name, e.g., int4.
	DBType string `yaml:"dbtype"`
	// DBTypeStr is the type as it is written in DDL, e.g., character varying(10). For enum-typed columns, it is the
	// enum's signature.
	DBTypeStr string `yaml:"dbtypestr"`
	// HostType is the Go type values of the column map to. It is informational.
	HostType string `yaml:"hosttype,omitempty"`
	// Default is the default expression. For generated columns, it is the generation expression.
	Default string `yaml:"default,omitempty"`
	NotNull bool   `yaml:"not_null"`
	IsEnum  bool   `yaml:"is_enum,omitempty"`
	// Enum is the signature of the column's enum type. It is only set if the enum was loaded.
	Enum             string `yaml:"enum,omitempty"`
	Collation        string `yaml:"collation,omitempty"`
	IsIdentity       bool   `yaml:"is_identity,omitempty"`
	IsIdentityAlways bool   `yaml:"is_identity_always,omitempty"`
	IsGenerated      bool   `yaml:"is_generated,omitempty"`
	IsInherited      bool   `yaml:"is_inherited,omitempty"`
}

func (c *Column) QuotedName() string {
	return pgidentifier.QuoteIdentifier(c.Name)
}

func (c *Column) collationSubclause() string {
	if c.Collation == "" {
		return ""
	}
	return " collate " + pgidentifier.QuoteIdentifier(c.Collation)
}

func (c *Column) identityType() string {
	if c.IsIdentityAlways {
		return "always"
	}
	return "by default"
}

// CreationClause is the column's definition inside a create table statement.
func (c *Column) CreationClause() string {
	x := fmt.Sprintf("%s %s%s", c.QuotedName(), c.DBTypeStr, c.collationSubclause())
	if c.IsIdentity {
		x += fmt.Sprintf(" generated %s as identity", c.identityType())
	}
	if c.NotNull {
		x += " not null"
	}
	if c.IsGenerated {
		x += fmt.Sprintf(" generated always as (%s) stored", c.Default)
	} else if c.Default != "" {
		x += " default " + c.Default
	}
	return x
}

func (c *Column) AddColumnClause() string {
	return "add column " + c.CreationClause()
}

func (c *Column) DropColumnClause() string {
	return "drop column " + c.QuotedName()
}

func (c *Column) AlterDefaultClause() string {
	if c.Default == "" {
		return fmt.Sprintf("alter column %s drop default", c.QuotedName())
	}
	return fmt.Sprintf("alter column %s set default %s", c.QuotedName(), c.Default)
}

// DropExpressionClause turns a generated column into a plain one that keeps its values.
func (c *Column) DropExpressionClause() string {
	return fmt.Sprintf("alter column %s drop expression", c.QuotedName())
}

func (c *Column) AlterNotNullClause() string {
	keyword := "drop"
	if c.NotNull {
		keyword = "set"
	}
	return fmt.Sprintf("alter column %s %s not null", c.QuotedName(), keyword)
}

// AlterIdentityClause moves the identity state of old to the identity state of c.
func (c *Column) AlterIdentityClause(old *Column) string {
	switch {
	case !c.IsIdentity:
		return fmt.Sprintf("alter column %s drop identity", c.QuotedName())
	case old.IsIdentity:
		return fmt.Sprintf("alter column %s set generated %s", c.QuotedName(), c.identityType())
	default:
		return fmt.Sprintf("alter column %s add generated %s as identity", c.QuotedName(), c.identityType())
	}
}

func (c *Column) AlterDataTypeClause() string {
	return fmt.Sprintf(
		"alter column %s set data type %s%s using %s::%s",
		c.QuotedName(), c.DBTypeStr, c.collationSubclause(), c.QuotedName(), c.DBTypeStr,
	)
}

// AlterEnumTypeClause changes the type between two enums. There is no cast between enum types, so values go through
// text.
func (c *Column) AlterEnumTypeClause() string {
	return fmt.Sprintf(
		"alter column %s set data type %s%s using %s::text::%s",
		c.QuotedName(), c.DBTypeStr, c.collationSubclause(), c.QuotedName(), c.DBTypeStr,
	)
}

// ChangeEnumToStringStatement converts the enum column to varchar so its enum can be dropped.
func (c *Column) ChangeEnumToStringStatement(table string) (string, error) {
	if !c.IsEnum {
		return "", fmt.Errorf("column %s of %s is not an enum: %w", c.QuotedName(), table, ErrInvalidObjectAccess)
	}
	return fmt.Sprintf(
		"alter table %s alter column %s set data type varchar using %s::varchar;",
		table, c.QuotedName(), c.QuotedName(),
	), nil
}

// ChangeStringToEnumStatement converts a column previously changed to varchar back to its enum type.
func (c *Column) ChangeStringToEnumStatement(table string) (string, error) {
	if !c.IsEnum {
		return "", fmt.Errorf("column %s of %s is not an enum: %w", c.QuotedName(), table, ErrInvalidObjectAccess)
	}
	return fmt.Sprintf(
		"alter table %s alter column %s set data type %s using %s::%s;",
		table, c.QuotedName(), c.DBTypeStr, c.QuotedName(), c.DBTypeStr,
	), nil
}

// Equal compares every attribute except the host type mapping.
func (c *Column) Equal(other *Column) bool {
	a, b := *c, *other
	a.HostType, b.HostType = "", ""
	return a == b
}
