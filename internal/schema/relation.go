package schema

import (
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

// RelationKind is the closed set of relation kinds, using the catalog's relkind codes.
type RelationKind string

const (
	RelationKindTable            RelationKind = "r"
	RelationKindPartitionedTable RelationKind = "p"
	RelationKindView             RelationKind = "v"
	RelationKindMaterializedView RelationKind = "m"
	RelationKindCompositeType    RelationKind = "c"
)

func (k RelationKind) IsValid() bool {
	switch k {
	case RelationKindTable, RelationKindPartitionedTable, RelationKindView, RelationKindMaterializedView,
		RelationKindCompositeType:
		return true
	default:
		return false
	}
}

type Persistence string

const (
	PersistencePermanent Persistence = "p"
	PersistenceUnlogged  Persistence = "u"
	PersistenceTemporary Persistence = "t"
)

// Relation is a table, view, materialized view or composite type.
type Relation struct {
	Schema  string       `yaml:"schema"`
	Name    string       `yaml:"name"`
	Kind    RelationKind `yaml:"relationtype"`
	Columns []*Column    `yaml:"columns"`
	// Definition is the query of a view or materialized view.
	Definition string `yaml:"definition,omitempty"`
	// ParentTable is the signature of the table this table inherits from or is a partition of.
	ParentTable string `yaml:"parent_table,omitempty"`
	// PartitionKeyDef is the partition key of a partitioned table, e.g., RANGE (created_at).
	PartitionKeyDef string `yaml:"partition_def,omitempty"`
	// ForValues is the partition bound of a partition, e.g., FOR VALUES FROM ('2020-01-01') TO ('2021-01-01').
	ForValues        string      `yaml:"for_values,omitempty"`
	RowSecurity      bool        `yaml:"rowsecurity,omitempty"`
	ForceRowSecurity bool        `yaml:"forcerowsecurity,omitempty"`
	Persistence      Persistence `yaml:"persistence,omitempty"`

	// Indexes and Constraints are keyed by signature. They are shared with the inspected schema.
	Indexes     *OrderedMap[*Index]      `yaml:"-"`
	Constraints *OrderedMap[*Constraint] `yaml:"-"`

	Dependencies `yaml:",inline"`
}

func (r *Relation) GetSchema() string {
	return r.Schema
}

func (r *Relation) GetName() string {
	return r.Name
}

func (r *Relation) Signature() string {
	return pgidentifier.Qualify(r.Schema, r.Name)
}

func (r *Relation) GetColumns() []*Column {
	return r.Columns
}

func (r *Relation) IsFunction() bool {
	return false
}

// Column returns the column with the given name.
func (r *Relation) Column(name string) (*Column, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (r *Relation) IsTable() bool {
	return r.Kind == RelationKindTable || r.Kind == RelationKindPartitionedTable
}

// IsPartitioned is true for tables that are partitioned by a key.
func (r *Relation) IsPartitioned() bool {
	return r.Kind == RelationKindPartitionedTable
}

func (r *Relation) IsPartitioningChild() bool {
	return r.IsTable() && r.ParentTable != "" && r.ForValues != ""
}

func (r *Relation) IsInheritanceChild() bool {
	return r.IsTable() && r.ParentTable != "" && r.ForValues == ""
}

// ContainsData is true for relations that store rows themselves. A partitioned table keeps its rows in its
// partitions.
func (r *Relation) ContainsData() bool {
	return r.Kind == RelationKindTable || r.Kind == RelationKindMaterializedView
}

// IsAlterable is true for tables whose columns can be altered directly. Partitions take their columns from their
// parent.
func (r *Relation) IsAlterable() bool {
	return r.IsTable() && !r.IsPartitioningChild()
}

func (r *Relation) persistencePrefix() string {
	switch r.Persistence {
	case PersistenceUnlogged:
		return "unlogged "
	case PersistenceTemporary:
		return "temporary "
	default:
		return ""
	}
}

func (r *Relation) CreateStatement() string {
	n := r.Signature()
	switch r.Kind {
	case RelationKindTable, RelationKindPartitionedTable:
		if r.IsPartitioningChild() {
			return fmt.Sprintf("create %stable %s partition of %s %s;\n", r.persistencePrefix(), n, r.ParentTable, r.ForValues)
		}
		var colDefs []string
		for _, c := range r.Columns {
			if c.IsInherited {
				continue
			}
			colDefs = append(colDefs, "    "+c.CreationClause())
		}
		colspec := strings.Join(colDefs, ",\n")
		if colspec != "" {
			colspec = "\n" + colspec
		}
		var suffix string
		if r.PartitionKeyDef != "" {
			suffix = " partition by " + r.PartitionKeyDef
		} else if r.IsInheritanceChild() {
			suffix = fmt.Sprintf(" inherits (%s)", r.ParentTable)
		}
		return fmt.Sprintf("create %stable %s (%s\n)%s;\n", r.persistencePrefix(), n, colspec, suffix)
	case RelationKindView:
		return fmt.Sprintf("create or replace view %s as %s\n", n, r.Definition)
	case RelationKindMaterializedView:
		return fmt.Sprintf("create materialized view %s as %s\n", n, r.Definition)
	case RelationKindCompositeType:
		var colDefs []string
		for _, c := range r.Columns {
			colDefs = append(colDefs, c.CreationClause())
		}
		return fmt.Sprintf("create type %s as (%s);", n, strings.Join(colDefs, ", "))
	default:
		return r.unknownKindStatement()
	}
}

func (r *Relation) DropStatement() string {
	n := r.Signature()
	switch r.Kind {
	case RelationKindTable, RelationKindPartitionedTable:
		return fmt.Sprintf("drop table %s;", n)
	case RelationKindView:
		return fmt.Sprintf("drop view if exists %s;", n)
	case RelationKindMaterializedView:
		return fmt.Sprintf("drop materialized view if exists %s;", n)
	case RelationKindCompositeType:
		return fmt.Sprintf("drop type %s;", n)
	default:
		return r.unknownKindStatement()
	}
}

// unknownKindStatement is a no-op standing in for the DDL of a relation kind that has no statement synthesis.
func (r *Relation) unknownKindStatement() string {
	return fmt.Sprintf("select 1; -- unknown relation kind %q: %s", r.Kind, r.Signature())
}

// AlterTableStatement wraps a clause, e.g., from Column.AddColumnClause, into a statement on this table.
func (r *Relation) AlterTableStatement(clause string) string {
	return fmt.Sprintf("alter table %s %s;", r.Signature(), clause)
}

func (r *Relation) AlterRLSStatement() string {
	keyword := "disable"
	if r.RowSecurity {
		keyword = "enable"
	}
	return r.AlterTableStatement(keyword + " row level security")
}

func (r *Relation) AlterForceRLSStatement() string {
	keyword := "no force"
	if r.ForceRowSecurity {
		keyword = "force"
	}
	return r.AlterTableStatement(keyword + " row level security")
}

// Equal compares the defining attributes of two relations. Dependency edges, indexes and constraints are not
// compared.
func (r *Relation) Equal(other *Relation) bool {
	if r.Schema != other.Schema || r.Name != other.Name || r.Kind != other.Kind ||
		r.Definition != other.Definition || r.ParentTable != other.ParentTable ||
		r.PartitionKeyDef != other.PartitionKeyDef || r.ForValues != other.ForValues ||
		r.RowSecurity != other.RowSecurity || r.ForceRowSecurity != other.ForceRowSecurity ||
		r.Persistence != other.Persistence {
		return false
	}
	return columnsEqual(r.Columns, other.Columns)
}

func columnsEqual(a, b []*Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
