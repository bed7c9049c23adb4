package schema

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
	"github.com/stripe/pg-schema-inspect/internal/queries"
	"github.com/stripe/pg-schema-inspect/pkg/log"
)

// CatalogRows are the pre-fetched catalog rows of every resource a snapshot is built from.
type CatalogRows struct {
	Schemas      []queries.SchemaRow
	Enums        []queries.EnumRow
	Relations    []queries.RelationRow
	Indexes      []queries.IndexRow
	Sequences    []queries.SequenceRow
	Constraints  []queries.ConstraintRow
	Extensions   []queries.ExtensionRow
	Functions    []queries.FunctionRow
	Privileges   []queries.PrivilegeRow
	Collations   []queries.CollationRow
	Domains      []queries.DomainRow
	Triggers     []queries.TriggerRow
	Policies     []queries.PolicyRow
	Comments     []queries.CommentRow
	Dependencies []queries.DependencyRow
}

type (
	LoadOpt func(*loadOptions)

	loadOptions struct {
		includeSchemas []string
		excludeSchemas []string
		logger         log.Logger
		hostTypes      HostTypeMapper
	}
)

// WithIncludeSchemas only loads objects in the given schemas. It cannot be combined with WithExcludeSchemas.
func WithIncludeSchemas(schemas ...string) LoadOpt {
	return func(o *loadOptions) {
		o.includeSchemas = append(o.includeSchemas, schemas...)
	}
}

// WithExcludeSchemas loads objects in every schema but the given ones. It cannot be combined with WithIncludeSchemas.
func WithExcludeSchemas(schemas ...string) LoadOpt {
	return func(o *loadOptions) {
		o.excludeSchemas = append(o.excludeSchemas, schemas...)
	}
}

// WithLogger sets the logger unresolved dependencies are reported to.
func WithLogger(logger log.Logger) LoadOpt {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// WithHostTypeMapper overrides how catalog types are mapped to Go types.
func WithHostTypeMapper(m HostTypeMapper) LoadOpt {
	return func(o *loadOptions) {
		o.hostTypes = m
	}
}

func buildLoadOptions(opts []LoadOpt) (loadOptions, schemaFilter, error) {
	options := loadOptions{
		logger:    log.NoopLogger(),
		hostTypes: DefaultHostTypeMapper,
	}
	for _, opt := range opts {
		opt(&options)
	}
	filter, err := buildSchemaFilter(options.includeSchemas, options.excludeSchemas)
	if err != nil {
		return loadOptions{}, nil, err
	}
	return options, filter, nil
}

type loader struct {
	options   loadOptions
	inScope   schemaFilter
	inspected *Inspected
	// edges are the dependency edges collected while loading. They are resolved once every object exists.
	edges []candidateEdge
}

// Load builds a snapshot from catalog rows. Objects outside the schema filter are dropped before anything is built.
func Load(rows CatalogRows, opts ...LoadOpt) (*Inspected, error) {
	options, filter, err := buildLoadOptions(opts)
	if err != nil {
		return nil, err
	}
	l := &loader{options: options, inScope: filter, inspected: newInspected()}
	return l.load(rows)
}

func (l *loader) load(rows CatalogRows) (*Inspected, error) {
	l.loadSchemas(filterRows(rows.Schemas, func(r queries.SchemaRow) string { return r.Schema }, l.inScope))
	// Enums come before relations so enum-typed columns can resolve their enum.
	l.loadEnums(filterRows(rows.Enums, func(r queries.EnumRow) string { return r.Schema }, l.inScope))
	if err := l.loadRelations(filterRows(rows.Relations, func(r queries.RelationRow) string { return r.Schema }, l.inScope)); err != nil {
		return nil, fmt.Errorf("loading relations: %w", err)
	}
	l.loadIndexes(filterRows(rows.Indexes, func(r queries.IndexRow) string { return r.Schema }, l.inScope))
	l.loadSequences(filterRows(rows.Sequences, func(r queries.SequenceRow) string { return r.Schema }, l.inScope))
	l.loadConstraints(filterRows(rows.Constraints, func(r queries.ConstraintRow) string { return r.Schema }, l.inScope))
	l.loadExtensions(filterRows(rows.Extensions, func(r queries.ExtensionRow) string { return r.Schema }, l.inScope))
	l.loadFunctions(filterRows(rows.Functions, func(r queries.FunctionRow) string { return r.Schema }, l.inScope))
	l.loadPrivileges(filterRows(rows.Privileges, func(r queries.PrivilegeRow) string { return r.Schema }, l.inScope))
	l.loadCollations(filterRows(rows.Collations, func(r queries.CollationRow) string { return r.Schema }, l.inScope))
	l.loadDomains(filterRows(rows.Domains, func(r queries.DomainRow) string { return r.Schema }, l.inScope))
	l.loadTriggers(filterRows(rows.Triggers, func(r queries.TriggerRow) string { return r.Schema }, l.inScope))
	l.loadPolicies(filterRows(rows.Policies, func(r queries.PolicyRow) string { return r.Schema }, l.inScope))
	l.loadComments(filterRows(rows.Comments, func(r queries.CommentRow) string { return r.Schema }, l.inScope))
	l.inspected.attachTableObjects()

	// Dependency rows are not filtered: an edge from an in-scope object to an out-of-scope one must still be seen to
	// be classified.
	l.collectDependencyRows(rows.Dependencies)
	l.inspected.buildDependencyGraph(l.edges, l.reportUnresolved)
	return l.inspected, nil
}

func (l *loader) loadSchemas(rows []queries.SchemaRow) {
	for _, row := range rows {
		s := &NamedSchema{Name: row.Schema}
		l.inspected.Schemas.Set(s.Signature(), s)
	}
}

func (l *loader) loadEnums(rows []queries.EnumRow) {
	for _, row := range rows {
		e := &Enum{Schema: row.Schema, Name: row.Name, Elements: row.Elements}
		l.inspected.Enums.Set(e.Signature(), e)
	}
}

type relationKey struct {
	kind, schema, name string
}

func (l *loader) loadRelations(rows []queries.RelationRow) error {
	groups := groupRows(rows, func(r queries.RelationRow) relationKey {
		return relationKey{kind: r.RelationType, schema: r.Schema, name: r.Name}
	})
	for _, group := range groups {
		first := group[0]
		kind := RelationKind(first.RelationType)
		if !kind.IsValid() {
			return fmt.Errorf("%s has unknown relation kind %q", pgidentifier.Qualify(first.Schema, first.Name), first.RelationType)
		}
		r := &Relation{
			Schema:           first.Schema,
			Name:             first.Name,
			Kind:             kind,
			Definition:       first.Definition,
			PartitionKeyDef:  first.PartitionKeyDef,
			ForValues:        first.ForValues,
			RowSecurity:      first.RowSecurity,
			ForceRowSecurity: first.ForceRowSecurity,
			Persistence:      Persistence(first.Persistence),
		}
		if first.ParentName != "" {
			r.ParentTable = pgidentifier.Qualify(first.ParentSchema, first.ParentName)
			l.edges = append(l.edges, candidateEdge{
				dependent:        r.Signature(),
				dependency:       r.ParentTable,
				dependencySchema: first.ParentSchema,
			})
		}
		for _, row := range group {
			// Relations without columns are reported as one row without a position.
			if !row.PositionNumber.Valid {
				continue
			}
			c := l.buildColumn(row)
			r.Columns = append(r.Columns, c)
			if row.IsEnum {
				l.edges = append(l.edges, candidateEdge{
					dependent:        r.Signature(),
					dependency:       pgidentifier.Qualify(row.EnumSchema, row.EnumName),
					dependencySchema: row.EnumSchema,
				})
			}
		}
		l.inspected.addRelation(r)
	}
	return nil
}

func (l *loader) buildColumn(row queries.RelationRow) *Column {
	c := &Column{
		Name:             row.AttName,
		DBType:           row.DataType,
		DBTypeStr:        row.DataTypeString,
		HostType:         l.options.hostTypes(row.DataType),
		Default:          row.DefaultDef,
		NotNull:          row.NotNull,
		IsEnum:           row.IsEnum,
		Collation:        row.Collation,
		IsIdentity:       row.IsIdentity,
		IsIdentityAlways: row.IsIdentityAlways,
		IsGenerated:      row.IsGenerated,
		IsInherited:      row.IsInherited,
	}
	if row.IsEnum {
		sig := pgidentifier.Qualify(row.EnumSchema, row.EnumName)
		if _, ok := l.inspected.Enums.Get(sig); ok {
			c.Enum = sig
			c.DBTypeStr = sig
		}
	}
	return c
}

func (l *loader) loadIndexes(rows []queries.IndexRow) {
	for _, row := range rows {
		idx := &Index{
			Schema:           row.Schema,
			TableName:        row.TableName,
			Name:             row.Name,
			Definition:       row.Definition,
			KeyColumns:       row.KeyColumns,
			IncludedColumns:  row.IncludedColumns,
			IsUnique:         row.IsUnique,
			IsPK:             row.IsPK,
			IsExclusion:      row.IsExclusion,
			IsImmediate:      row.IsImmediate,
			IsClustered:      row.IsClustered,
			Algorithm:        row.Algorithm,
			PartialPredicate: row.PartialPredicate,
		}
		l.inspected.Indexes.Set(idx.Signature(), idx)
	}
}

func (l *loader) loadSequences(rows []queries.SequenceRow) {
	for _, row := range rows {
		s := &Sequence{
			Schema:     row.Schema,
			Name:       row.Name,
			TableName:  row.TableName,
			ColumnName: row.ColumnName,
			DataType:   row.DataType,
			StartValue: row.StartValue,
			Increment:  row.Increment,
			MinValue:   row.MinValue,
			MaxValue:   row.MaxValue,
			CacheSize:  row.CacheSize,
			Cycle:      row.Cycle,
		}
		l.inspected.Sequences.Set(s.Signature(), s)
	}
}

func (l *loader) loadConstraints(rows []queries.ConstraintRow) {
	for _, row := range rows {
		c := &Constraint{
			Schema:             row.Schema,
			TableName:          row.TableName,
			Name:               row.Name,
			ConstraintType:     ConstraintType(row.ConstraintType),
			Definition:         row.Definition,
			Index:              row.IndexName,
			ForeignTableSchema: row.ForeignTableSchema,
			ForeignTableName:   row.ForeignTableName,
			FKColumnsLocal:     row.FKColumnsLocal,
			FKColumnsForeign:   row.FKColumnsForeign,
			IsDeferrable:       row.IsDeferrable,
			InitiallyDeferred:  row.InitiallyDeferred,
		}
		l.inspected.Constraints.Set(c.Signature(), c)
	}
}

func (l *loader) loadExtensions(rows []queries.ExtensionRow) {
	for _, row := range rows {
		e := &Extension{Schema: row.Schema, Name: row.Name, Version: row.Version}
		l.inspected.Extensions.Set(e.Signature(), e)
	}
}

type functionKey struct {
	schema, name, identityArguments string
}

func (l *loader) loadFunctions(rows []queries.FunctionRow) {
	groups := groupRows(rows, func(r queries.FunctionRow) functionKey {
		return functionKey{schema: r.Schema, name: r.Name, identityArguments: r.IdentityArguments}
	})
	for _, group := range groups {
		first := group[0]
		f := &Function{
			Schema:            first.Schema,
			Name:              first.Name,
			IdentityArguments: first.IdentityArguments,
			ResultString:      first.ResultString,
			ReturnType:        first.ReturnType,
			Language:          first.Language,
			Definition:        first.Definition,
			FullDefinition:    first.FullDefinition,
			Volatility:        first.Volatility,
			Strict:            first.Strict,
			SecurityType:      first.SecurityType,
			Kind:              FunctionKind(first.Kind),
		}
		for _, row := range group {
			if !row.PositionNumber.Valid {
				continue
			}
			c := &Column{
				Name:      row.ParameterName,
				DBType:    row.DataType,
				DBTypeStr: row.DataType,
				HostType:  l.options.hostTypes(row.DataType),
			}
			switch row.ParameterMode {
			case "o", "t":
				f.Columns = append(f.Columns, c)
			case "b":
				f.Inputs = append(f.Inputs, c)
				out := *c
				f.Columns = append(f.Columns, &out)
			default:
				f.Inputs = append(f.Inputs, c)
			}
		}
		if len(f.Columns) == 0 && f.ReturnType != "" && f.Kind != FunctionKindProcedure {
			f.Columns = []*Column{{
				Name:      f.Name,
				DBType:    f.ReturnType,
				DBTypeStr: f.ReturnType,
				HostType:  l.options.hostTypes(f.ReturnType),
			}}
		}
		l.inspected.addFunction(f)
	}
}

func (l *loader) loadPrivileges(rows []queries.PrivilegeRow) {
	for _, row := range rows {
		p := &Privilege{
			ObjectType:  row.ObjectType,
			Schema:      row.Schema,
			Name:        row.Name,
			TargetUser:  row.Grantee,
			Privilege:   row.Privilege,
			IsGrantable: row.IsGrantable,
		}
		l.inspected.Privileges.Set(p.Signature(), p)
	}
}

func (l *loader) loadCollations(rows []queries.CollationRow) {
	for _, row := range rows {
		c := &Collation{
			Schema:    row.Schema,
			Name:      row.Name,
			Provider:  row.Provider,
			Encoding:  row.Encoding,
			LcCollate: row.LcCollate,
			LcCtype:   row.LcCtype,
			Version:   row.Version,
		}
		l.inspected.Collations.Set(c.Signature(), c)
	}
}

func (l *loader) loadDomains(rows []queries.DomainRow) {
	groups := groupRows(rows, func(r queries.DomainRow) [2]string {
		return [2]string{r.Schema, r.Name}
	})
	for _, group := range groups {
		first := group[0]
		d := &Domain{
			Schema:    first.Schema,
			Name:      first.Name,
			DataType:  first.DataType,
			Collation: first.Collation,
			Default:   first.Default,
			NotNull:   first.NotNull,
		}
		for _, row := range group {
			if row.ConstraintName == "" {
				continue
			}
			d.Checks = append(d.Checks, DomainCheck{Name: row.ConstraintName, Definition: row.Check})
		}
		l.inspected.Domains.Set(d.Signature(), d)
	}
}

func (l *loader) loadTriggers(rows []queries.TriggerRow) {
	for _, row := range rows {
		t := NewTrigger(row.Schema, row.TableName, row.Name)
		t.ProcSchema = row.ProcSchema
		t.ProcName = row.ProcName
		t.Enabled = TriggerEnabled(row.Enabled)
		t.FullDefinition = row.FullDefinition
		for _, dep := range t.DependentOn {
			l.edges = append(l.edges, candidateEdge{dependent: t.Signature(), dependency: dep, dependencySchema: t.Schema})
		}
		// pg_depend has no row linking a trigger to its function. Trigger functions take no arguments.
		if row.ProcName != "" && row.ProcSchema != "pg_catalog" {
			l.edges = append(l.edges, candidateEdge{
				dependent:        t.Signature(),
				dependency:       pgidentifier.QualifyWithArgs(row.ProcSchema, row.ProcName, ""),
				dependencySchema: row.ProcSchema,
			})
		}
		l.inspected.Triggers.Set(t.Signature(), t)
	}
}

func (l *loader) loadPolicies(rows []queries.PolicyRow) {
	for _, row := range rows {
		p := &Policy{
			Schema:      row.Schema,
			TableName:   row.TableName,
			Name:        row.Name,
			CommandType: PolicyCommand(row.CommandType),
			Permissive:  row.Permissive,
			Roles:       row.Roles,
			Qual:        row.Qual,
			WithCheck:   row.WithCheck,
		}
		l.inspected.Policies.Set(p.Signature(), p)
	}
}

func (l *loader) loadComments(rows []queries.CommentRow) {
	for _, row := range rows {
		c := &Comment{
			ObjectType: row.ObjectType,
			Schema:     row.Schema,
			Name:       row.Name,
			ColumnName: row.ColumnName,
			Text:       row.Comment,
		}
		if row.IdentityArguments.Valid {
			args := row.IdentityArguments.String
			c.IdentityArguments = &args
		}
		l.inspected.Comments.Set(c.Signature(), c)
	}
}

func (l *loader) collectDependencyRows(rows []queries.DependencyRow) {
	for _, row := range rows {
		// Edges of objects that were filtered out are irrelevant.
		if !l.inScope(row.Schema) {
			continue
		}
		l.edges = append(l.edges, candidateEdge{
			dependent:        dependencySignature(row.Schema, row.Name, row.IdentityArguments.String, row.IdentityArguments.Valid),
			dependency:       dependencySignature(row.SchemaDependentOn, row.NameDependentOn, row.IdentityArgumentsDependentOn.String, row.IdentityArgumentsDependentOn.Valid),
			dependencySchema: row.SchemaDependentOn,
		})
	}
}

func dependencySignature(schema, name, identityArguments string, isRoutine bool) string {
	if isRoutine {
		return pgidentifier.QualifyWithArgs(schema, name, identityArguments)
	}
	return pgidentifier.Qualify(schema, name)
}

// reportUnresolved records an edge whose target could not be found. Targets outside the schema filter are expected to
// be missing and are skipped silently.
func (l *loader) reportUnresolved(e candidateEdge) {
	if !l.inScope(e.dependencySchema) {
		return
	}
	l.inspected.Unresolved = append(l.inspected.Unresolved, UnresolvedDependency{
		Dependent:  e.dependent,
		Dependency: e.dependency,
	})
	l.options.logger.Warnf("%s depends on %s, which was not loaded; dropping the dependency", e.dependent, e.dependency)
}

// groupRows groups rows by key. Groups are returned in the order their first row appears.
func groupRows[T any, K comparable](rows []T, key func(T) K) [][]T {
	indexByKey := make(map[K]int)
	var groups [][]T
	for _, row := range rows {
		k := key(row)
		idx, ok := indexByKey[k]
		if !ok {
			idx = len(groups)
			indexByKey[k] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], row)
	}
	return groups
}
