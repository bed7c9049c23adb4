package schema

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

type FunctionKind string

const (
	FunctionKindFunction  FunctionKind = "f"
	FunctionKindProcedure FunctionKind = "p"
	FunctionKindAggregate FunctionKind = "a"
	FunctionKindWindow    FunctionKind = "w"
)

// Function is a function, procedure, aggregate or window function. Overloads are distinguished by their identity
// arguments.
type Function struct {
	Schema            string `yaml:"schema"`
	Name              string `yaml:"name"`
	IdentityArguments string `yaml:"identity_arguments"`
	// Inputs are the parameters the routine is called with.
	Inputs []*Column `yaml:"inputs"`
	// Columns is the shape of the result: the output parameters, or a single column named after the routine.
	Columns        []*Column    `yaml:"columns"`
	ResultString   string       `yaml:"result_string"`
	ReturnType     string       `yaml:"return_type"`
	Language       string       `yaml:"language"`
	Definition     string       `yaml:"definition"`
	FullDefinition string       `yaml:"full_definition"`
	Volatility     string       `yaml:"volatility"`
	Strict         bool         `yaml:"strictness"`
	SecurityType   string       `yaml:"security_type"`
	Kind           FunctionKind `yaml:"kind"`

	Dependencies `yaml:",inline"`
}

func (f *Function) GetSchema() string {
	return f.Schema
}

func (f *Function) GetName() string {
	return f.Name
}

func (f *Function) Signature() string {
	return pgidentifier.QualifyWithArgs(f.Schema, f.Name, f.IdentityArguments)
}

func (f *Function) GetColumns() []*Column {
	return f.Columns
}

func (f *Function) IsFunction() bool {
	return true
}

func (f *Function) thing() string {
	switch f.Kind {
	case FunctionKindProcedure:
		return "procedure"
	case FunctionKindAggregate:
		return "aggregate"
	default:
		return "function"
	}
}

func (f *Function) CreateStatement() string {
	return f.FullDefinition + ";"
}

func (f *Function) DropStatement() string {
	return fmt.Sprintf("drop %s if exists %s;", f.thing(), f.Signature())
}

func (f *Function) Equal(other *Function) bool {
	return f.Signature() == other.Signature() &&
		f.ResultString == other.ResultString &&
		f.ReturnType == other.ReturnType &&
		f.Language == other.Language &&
		f.Definition == other.Definition &&
		f.FullDefinition == other.FullDefinition &&
		f.Volatility == other.Volatility &&
		f.Strict == other.Strict &&
		f.SecurityType == other.SecurityType &&
		f.Kind == other.Kind &&
		columnsEqual(f.Inputs, other.Inputs) &&
		columnsEqual(f.Columns, other.Columns)
}
