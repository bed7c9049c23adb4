package schema

import (
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

type Index struct {
	Schema           string   `yaml:"schema"`
	TableName        string   `yaml:"table_name"`
	Name             string   `yaml:"name"`
	Definition       string   `yaml:"definition"`
	KeyColumns       []string `yaml:"key_columns"`
	IncludedColumns  []string `yaml:"included_columns,omitempty"`
	IsUnique         bool     `yaml:"is_unique"`
	IsPK             bool     `yaml:"is_pk"`
	IsExclusion      bool     `yaml:"is_exclusion_constraint"`
	IsImmediate      bool     `yaml:"is_immediate"`
	IsClustered      bool     `yaml:"is_clustered"`
	Algorithm        string   `yaml:"algorithm"`
	PartialPredicate string   `yaml:"partial_predicate,omitempty"`
}

func (i *Index) GetSchema() string {
	return i.Schema
}

func (i *Index) GetName() string {
	return i.Name
}

func (i *Index) Signature() string {
	return pgidentifier.QualifyWithTable(i.Schema, i.TableName, i.Name)
}

// Table is the signature of the indexed table.
func (i *Index) Table() string {
	return pgidentifier.Qualify(i.Schema, i.TableName)
}

// CreateStatement is the index definition. Indexes backing exclusion constraints are created by their constraint,
// so they produce a no-op that keeps their position in a statement list.
func (i *Index) CreateStatement() string {
	if i.IsExclusion {
		return fmt.Sprintf("select 1; -- %s;", i.Definition)
	}
	// A partitioned index is built together with the indexes of its partitions.
	return strings.Replace(i.Definition, " ON ONLY ", " ON ", 1) + ";"
}

func (i *Index) DropStatement() string {
	return fmt.Sprintf("drop index if exists %s;", pgidentifier.Qualify(i.Schema, i.Name))
}

func (i *Index) Equal(other *Index) bool {
	return i.Signature() == other.Signature() &&
		i.Definition == other.Definition &&
		i.IsUnique == other.IsUnique &&
		i.IsPK == other.IsPK &&
		i.IsExclusion == other.IsExclusion &&
		i.IsImmediate == other.IsImmediate &&
		i.IsClustered == other.IsClustered &&
		i.Algorithm == other.Algorithm &&
		i.PartialPredicate == other.PartialPredicate
}
