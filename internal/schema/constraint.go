package schema

import (
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

type ConstraintType string

const (
	ConstraintTypePrimaryKey ConstraintType = "p"
	ConstraintTypeUnique     ConstraintType = "u"
	ConstraintTypeForeignKey ConstraintType = "f"
	ConstraintTypeCheck      ConstraintType = "c"
	ConstraintTypeExclusion  ConstraintType = "x"
)

// Constraint is a table constraint. Primary key and unique constraints reference their backing index by name.
type Constraint struct {
	Schema         string         `yaml:"schema"`
	TableName      string         `yaml:"table_name"`
	Name           string         `yaml:"name"`
	ConstraintType ConstraintType `yaml:"constraint_type"`
	Definition     string         `yaml:"definition"`
	// Index is the name of the backing index, in the constraint's schema.
	Index              string   `yaml:"index,omitempty"`
	ForeignTableSchema string   `yaml:"foreign_table_schema,omitempty"`
	ForeignTableName   string   `yaml:"foreign_table_name,omitempty"`
	FKColumnsLocal     []string `yaml:"fk_columns_local,omitempty"`
	FKColumnsForeign   []string `yaml:"fk_columns_foreign,omitempty"`
	IsDeferrable       bool     `yaml:"is_deferrable,omitempty"`
	InitiallyDeferred  bool     `yaml:"initially_deferred,omitempty"`
}

func (c *Constraint) GetSchema() string {
	return c.Schema
}

func (c *Constraint) GetName() string {
	return c.Name
}

func (c *Constraint) Signature() string {
	return pgidentifier.QualifyWithTable(c.Schema, c.TableName, c.Name)
}

func (c *Constraint) Table() string {
	return pgidentifier.Qualify(c.Schema, c.TableName)
}

func (c *Constraint) IsFK() bool {
	return c.ConstraintType == ConstraintTypeForeignKey
}

// ForeignTable is the signature of the referenced table of a foreign key. It is empty for other constraints.
func (c *Constraint) ForeignTable() string {
	if !c.IsFK() {
		return ""
	}
	return pgidentifier.Qualify(c.ForeignTableSchema, c.ForeignTableName)
}

// IndexSignature is the signature of the backing index, if any.
func (c *Constraint) IndexSignature() string {
	if c.Index == "" {
		return ""
	}
	return pgidentifier.QualifyWithTable(c.Schema, c.TableName, c.Index)
}

// UsesIndex is true for primary key and unique constraints attached to an existing index.
func (c *Constraint) UsesIndex() bool {
	return c.Index != "" && (c.ConstraintType == ConstraintTypePrimaryKey || c.ConstraintType == ConstraintTypeUnique)
}

func (c *Constraint) CreateStatement() string {
	if c.UsesIndex() {
		keyword := "unique"
		if c.ConstraintType == ConstraintTypePrimaryKey {
			keyword = "primary key"
		}
		var deferrable string
		if c.IsDeferrable {
			deferrable = " deferrable"
			if c.InitiallyDeferred {
				deferrable += " initially deferred"
			}
		}
		return fmt.Sprintf(
			"alter table %s add constraint %s %s using index %s%s;",
			c.Table(), pgidentifier.QuoteIdentifier(c.Name), keyword, pgidentifier.QuoteIdentifier(c.Index), deferrable,
		)
	}
	return c.CreateWithIndexStatement()
}

// CreateWithIndexStatement adds the constraint from its definition, building a backing index if it needs one.
// Partitioned tables cannot attach a primary key or unique constraint to an existing index.
func (c *Constraint) CreateWithIndexStatement() string {
	return fmt.Sprintf("alter table %s add constraint %s %s;", c.Table(), pgidentifier.QuoteIdentifier(c.Name), c.Definition)
}

const notValidSuffix = " NOT VALID"

// ValidatedBy is true if c is a NOT VALID constraint and other is the same constraint once validated.
func (c *Constraint) ValidatedBy(other *Constraint) bool {
	if !strings.HasSuffix(c.Definition, notValidSuffix) {
		return false
	}
	validated := *c
	validated.Definition = strings.TrimSuffix(c.Definition, notValidSuffix)
	return validated.Equal(other)
}

// ValidateStatement checks the existing rows against the constraint without dropping it.
func (c *Constraint) ValidateStatement() string {
	return fmt.Sprintf("alter table %s validate constraint %s;", c.Table(), pgidentifier.QuoteIdentifier(c.Name))
}

func (c *Constraint) DropStatement() string {
	return fmt.Sprintf("alter table %s drop constraint %s;", c.Table(), pgidentifier.QuoteIdentifier(c.Name))
}

func (c *Constraint) Equal(other *Constraint) bool {
	return c.Signature() == other.Signature() &&
		c.ConstraintType == other.ConstraintType &&
		c.Definition == other.Definition &&
		c.Index == other.Index &&
		c.IsDeferrable == other.IsDeferrable &&
		c.InitiallyDeferred == other.InitiallyDeferred
}
