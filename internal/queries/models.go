package queries

import "database/sql"

type SchemaRow struct {
	Schema string
}

type EnumRow struct {
	Schema   string
	Name     string
	Elements []string
}

// RelationRow is one column of a relation. Relations without columns produce a single row with an invalid
// PositionNumber.
type RelationRow struct {
	RelationType     string
	Schema           string
	Name             string
	Definition       string
	ParentSchema     string
	ParentName       string
	PartitionKeyDef  string
	ForValues        string
	RowSecurity      bool
	ForceRowSecurity bool
	Persistence      string

	PositionNumber   sql.NullInt32
	AttName          string
	NotNull          bool
	DataType         string
	DataTypeString   string
	DefaultDef       string
	IsEnum           bool
	EnumSchema       string
	EnumName         string
	Collation        string
	IsIdentity       bool
	IsIdentityAlways bool
	IsGenerated      bool
	IsInherited      bool
}

// FunctionRow is one parameter of a routine. Routines without parameters produce a single row with an invalid
// PositionNumber.
type FunctionRow struct {
	Schema            string
	Name              string
	IdentityArguments string
	ResultString      string
	Language          string
	Definition        string
	FullDefinition    string
	Volatility        string
	Strict            bool
	SecurityType      string
	Kind              string
	ReturnType        string

	PositionNumber sql.NullInt32
	ParameterName  string
	ParameterMode  string
	DataType       string
}

type IndexRow struct {
	Schema           string
	TableName        string
	Name             string
	Definition       string
	KeyColumns       []string
	IncludedColumns  []string
	IsUnique         bool
	IsPK             bool
	IsExclusion      bool
	IsImmediate      bool
	IsClustered      bool
	Algorithm        string
	PartialPredicate string
}

type ConstraintRow struct {
	Schema             string
	TableName          string
	Name               string
	ConstraintType     string
	Definition         string
	IndexName          string
	ForeignTableSchema string
	ForeignTableName   string
	FKColumnsLocal     []string
	FKColumnsForeign   []string
	IsDeferrable       bool
	InitiallyDeferred  bool
}

type SequenceRow struct {
	Schema     string
	Name       string
	TableName  string
	ColumnName string
	DataType   string
	StartValue int64
	Increment  int64
	MaxValue   int64
	MinValue   int64
	CacheSize  int64
	Cycle      bool
}

type ExtensionRow struct {
	Schema  string
	Name    string
	Version string
}

type PrivilegeRow struct {
	ObjectType  string
	Schema      string
	Name        string
	Grantee     string
	Privilege   string
	IsGrantable bool
}

type CollationRow struct {
	Schema    string
	Name      string
	Provider  string
	Encoding  int32
	LcCollate string
	LcCtype   string
	Version   string
}

// DomainRow is one check constraint of a domain. Domains without checks produce a single row with an empty
// ConstraintName.
type DomainRow struct {
	Schema         string
	Name           string
	DataType       string
	Collation      string
	NotNull        bool
	Default        string
	ConstraintName string
	Check          string
}

type TriggerRow struct {
	Schema         string
	TableName      string
	Name           string
	ProcSchema     string
	ProcName       string
	Enabled        string
	FullDefinition string
}

type PolicyRow struct {
	Schema      string
	TableName   string
	Name        string
	CommandType string
	Permissive  bool
	Roles       []string
	Qual        string
	WithCheck   string
}

type CommentRow struct {
	ObjectType        string
	Schema            string
	Name              string
	IdentityArguments sql.NullString
	ColumnName        string
	Comment           string
}

// DependencyRow reports that the first object depends on the second. IdentityArguments are only valid for routines.
type DependencyRow struct {
	Schema                       string
	Name                         string
	IdentityArguments            sql.NullString
	SchemaDependentOn            string
	NameDependentOn              string
	IdentityArgumentsDependentOn sql.NullString
}
