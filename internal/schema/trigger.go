package schema

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

// TriggerEnabled is the firing state of a trigger, using the catalog's tgenabled codes.
type TriggerEnabled string

const (
	TriggerEnabledOrigin   TriggerEnabled = "O"
	TriggerEnabledDisabled TriggerEnabled = "D"
	TriggerEnabledReplica  TriggerEnabled = "R"
	TriggerEnabledAlways   TriggerEnabled = "A"
)

type Trigger struct {
	Schema         string         `yaml:"schema"`
	TableName      string         `yaml:"table_name"`
	Name           string         `yaml:"name"`
	ProcSchema     string         `yaml:"proc_schema"`
	ProcName       string         `yaml:"proc_name"`
	Enabled        TriggerEnabled `yaml:"enabled"`
	FullDefinition string         `yaml:"full_definition"`

	Dependencies `yaml:",inline"`
}

// NewTrigger builds a trigger that depends on its table.
func NewTrigger(schema, table, name string) *Trigger {
	t := &Trigger{Schema: schema, TableName: table, Name: name, Enabled: TriggerEnabledOrigin}
	t.DependentOn = []string{t.Table()}
	return t
}

func (t *Trigger) GetSchema() string {
	return t.Schema
}

func (t *Trigger) GetName() string {
	return t.Name
}

func (t *Trigger) Signature() string {
	return pgidentifier.QualifyWithTable(t.Schema, t.TableName, t.Name)
}

// Table is the signature of the table the trigger is on.
func (t *Trigger) Table() string {
	return pgidentifier.Qualify(t.Schema, t.TableName)
}

func (t *Trigger) enabledKeyword() string {
	switch t.Enabled {
	case TriggerEnabledDisabled:
		return "disable trigger"
	case TriggerEnabledReplica:
		return "enable replica trigger"
	case TriggerEnabledAlways:
		return "enable always trigger"
	default:
		return ""
	}
}

// CreateStatement creates the trigger. Triggers are created enabled, so any other firing state needs an extra
// statement.
func (t *Trigger) CreateStatement() string {
	stmt := t.FullDefinition + ";"
	if keyword := t.enabledKeyword(); keyword != "" {
		stmt += fmt.Sprintf("\nalter table %s %s %s;", t.Table(), keyword, pgidentifier.QuoteIdentifier(t.Name))
	}
	return stmt
}

func (t *Trigger) DropStatement() string {
	return fmt.Sprintf("drop trigger if exists %s on %s;", pgidentifier.QuoteIdentifier(t.Name), t.Table())
}

func (t *Trigger) Equal(other *Trigger) bool {
	return t.Signature() == other.Signature() &&
		t.ProcSchema == other.ProcSchema &&
		t.ProcName == other.ProcName &&
		t.Enabled == other.Enabled &&
		t.FullDefinition == other.FullDefinition
}
