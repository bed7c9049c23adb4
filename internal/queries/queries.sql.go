package queries

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// userNamespaceFilter restricts n to namespaces that hold user objects.
const userNamespaceFilter = `
    n.nspname not in ('pg_catalog', 'information_schema')
    and n.nspname not like 'pg_toast%'
    and n.nspname not like 'pg_temp_%'
`

// extensionObjects lists every object owned by an extension. Those are recreated by the extension itself.
const extensionObjects = `
extension_objects as (
    select d.objid
    from pg_catalog.pg_depend d
    where d.refclassid = 'pg_catalog.pg_extension'::regclass
      and d.deptype = 'e'
)`

const getSchemas = `
select n.nspname::text as schema
from pg_catalog.pg_namespace n
where ` + userNamespaceFilter + `
order by n.nspname
`

func (q *Queries) GetSchemas(ctx context.Context) ([]SchemaRow, error) {
	return query(ctx, q.db, getSchemas, func(rows *sql.Rows, i *SchemaRow) error {
		return rows.Scan(&i.Schema)
	})
}

const getEnums = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    t.typname::text as name,
    array(
        select e.enumlabel::text
        from pg_catalog.pg_enum e
        where e.enumtypid = t.oid
        order by e.enumsortorder
    )::text[] as elements
from pg_catalog.pg_type t
inner join pg_catalog.pg_namespace n on n.oid = t.typnamespace
where t.typtype = 'e'
  and t.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, t.typname
`

func (q *Queries) GetEnums(ctx context.Context) ([]EnumRow, error) {
	return query(ctx, q.db, getEnums, func(rows *sql.Rows, i *EnumRow) error {
		return rows.Scan(&i.Schema, &i.Name, pq.Array(&i.Elements))
	})
}

const getRelations = `
with ` + extensionObjects + `,
relations as (
    select
        c.oid,
        c.relkind::text as relation_type,
        n.nspname::text as schema,
        c.relname::text as name,
        case when c.relkind in ('v', 'm') then pg_catalog.pg_get_viewdef(c.oid) else '' end as definition,
        coalesce(pn.nspname::text, '') as parent_schema,
        coalesce(pc.relname::text, '') as parent_name,
        case when c.relkind = 'p' then pg_catalog.pg_get_partkeydef(c.oid) else '' end as partition_key_def,
        case when c.relispartition then pg_catalog.pg_get_expr(c.relpartbound, c.oid) else '' end as for_values,
        c.relrowsecurity as row_security,
        c.relforcerowsecurity as force_row_security,
        c.relpersistence::text as persistence
    from pg_catalog.pg_class c
    inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
    left join pg_catalog.pg_inherits i on i.inhrelid = c.oid
    left join pg_catalog.pg_class pc on pc.oid = i.inhparent
    left join pg_catalog.pg_namespace pn on pn.oid = pc.relnamespace
    where c.relkind in ('r', 'p', 'v', 'm', 'c')
      and c.oid not in (select objid from extension_objects)
      and not exists (
          select 1 from pg_catalog.pg_type t where t.typrelid = c.oid and t.oid in (select objid from extension_objects)
      )
      and ` + userNamespaceFilter + `
)
select
    r.relation_type,
    r.schema,
    r.name,
    r.definition,
    r.parent_schema,
    r.parent_name,
    r.partition_key_def,
    r.for_values,
    r.row_security,
    r.force_row_security,
    r.persistence,
    a.attnum::int as position_number,
    coalesce(a.attname::text, '') as att_name,
    coalesce(a.attnotnull, false) as not_null,
    coalesce(t.typname::text, '') as data_type,
    coalesce(pg_catalog.format_type(a.atttypid, a.atttypmod), '') as data_type_string,
    coalesce(pg_catalog.pg_get_expr(ad.adbin, ad.adrelid), '') as default_def,
    coalesce(t.typtype = 'e', false) as is_enum,
    coalesce(tn.nspname::text, '') as enum_schema,
    coalesce(t.typname::text, '') as enum_name,
    coalesce(case when a.attcollation <> t.typcollation then col.collname::text end, '') as collation,
    coalesce(a.attidentity <> '', false) as is_identity,
    coalesce(a.attidentity = 'a', false) as is_identity_always,
    coalesce(a.attgenerated <> '', false) as is_generated,
    coalesce(a.attinhcount > 0, false) as is_inherited
from relations r
left join pg_catalog.pg_attribute a on a.attrelid = r.oid and a.attnum > 0 and not a.attisdropped
left join pg_catalog.pg_attrdef ad on ad.adrelid = a.attrelid and ad.adnum = a.attnum
left join pg_catalog.pg_type t on t.oid = a.atttypid
left join pg_catalog.pg_namespace tn on tn.oid = t.typnamespace
left join pg_catalog.pg_collation col on col.oid = a.attcollation
order by r.relation_type, r.schema, r.name, a.attnum
`

func (q *Queries) GetRelations(ctx context.Context) ([]RelationRow, error) {
	return query(ctx, q.db, getRelations, func(rows *sql.Rows, i *RelationRow) error {
		return rows.Scan(
			&i.RelationType,
			&i.Schema,
			&i.Name,
			&i.Definition,
			&i.ParentSchema,
			&i.ParentName,
			&i.PartitionKeyDef,
			&i.ForValues,
			&i.RowSecurity,
			&i.ForceRowSecurity,
			&i.Persistence,
			&i.PositionNumber,
			&i.AttName,
			&i.NotNull,
			&i.DataType,
			&i.DataTypeString,
			&i.DefaultDef,
			&i.IsEnum,
			&i.EnumSchema,
			&i.EnumName,
			&i.Collation,
			&i.IsIdentity,
			&i.IsIdentityAlways,
			&i.IsGenerated,
			&i.IsInherited,
		)
	})
}

// Aggregates are skipped: pg_get_functiondef cannot render them.
const getFunctions = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    p.proname::text as name,
    pg_catalog.pg_get_function_identity_arguments(p.oid) as identity_arguments,
    coalesce(pg_catalog.pg_get_function_result(p.oid), '') as result_string,
    l.lanname::text as language,
    coalesce(p.prosrc, '') as definition,
    pg_catalog.pg_get_functiondef(p.oid) as full_definition,
    p.provolatile::text as volatility,
    p.proisstrict as strict,
    case when p.prosecdef then 'DEFINER' else 'INVOKER' end as security_type,
    p.prokind::text as kind,
    coalesce(pg_catalog.format_type(p.prorettype, null), '') as return_type,
    args.position_number::int as position_number,
    coalesce(args.parameter_name, '') as parameter_name,
    coalesce(args.parameter_mode, '') as parameter_mode,
    coalesce(args.data_type, '') as data_type
from pg_catalog.pg_proc p
inner join pg_catalog.pg_namespace n on n.oid = p.pronamespace
inner join pg_catalog.pg_language l on l.oid = p.prolang
left join lateral (
    select
        a.position_number,
        coalesce(p.proargnames[a.position_number], '')::text as parameter_name,
        coalesce(p.proargmodes[a.position_number]::text, 'i') as parameter_mode,
        pg_catalog.format_type(a.type_oid, null) as data_type
    from unnest(coalesce(p.proallargtypes, p.proargtypes::oid[])) with ordinality as a(type_oid, position_number)
) args on true
where p.prokind <> 'a'
  and p.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, p.proname, pg_catalog.pg_get_function_identity_arguments(p.oid), args.position_number
`

func (q *Queries) GetFunctions(ctx context.Context) ([]FunctionRow, error) {
	return query(ctx, q.db, getFunctions, func(rows *sql.Rows, i *FunctionRow) error {
		return rows.Scan(
			&i.Schema,
			&i.Name,
			&i.IdentityArguments,
			&i.ResultString,
			&i.Language,
			&i.Definition,
			&i.FullDefinition,
			&i.Volatility,
			&i.Strict,
			&i.SecurityType,
			&i.Kind,
			&i.ReturnType,
			&i.PositionNumber,
			&i.ParameterName,
			&i.ParameterMode,
			&i.DataType,
		)
	})
}

const getIndexes = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    t.relname::text as table_name,
    c.relname::text as name,
    pg_catalog.pg_get_indexdef(i.indexrelid) as definition,
    array(
        select pg_catalog.pg_get_indexdef(i.indexrelid, k, true)
        from generate_series(1, i.indnkeyatts) k
        order by k
    )::text[] as key_columns,
    array(
        select pg_catalog.pg_get_indexdef(i.indexrelid, k, true)
        from generate_series(i.indnkeyatts + 1, i.indnatts) k
        order by k
    )::text[] as included_columns,
    i.indisunique as is_unique,
    i.indisprimary as is_pk,
    i.indisexclusion as is_exclusion,
    i.indimmediate as is_immediate,
    i.indisclustered as is_clustered,
    am.amname::text as algorithm,
    coalesce(pg_catalog.pg_get_expr(i.indpred, i.indrelid), '') as partial_predicate
from pg_catalog.pg_index i
inner join pg_catalog.pg_class c on c.oid = i.indexrelid
inner join pg_catalog.pg_class t on t.oid = i.indrelid
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
inner join pg_catalog.pg_am am on am.oid = c.relam
where c.relkind in ('i', 'I')
  and t.relkind in ('r', 'p', 'm')
  and not exists (select 1 from pg_catalog.pg_inherits inh where inh.inhrelid = c.oid)
  and t.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, t.relname, c.relname
`

func (q *Queries) GetIndexes(ctx context.Context) ([]IndexRow, error) {
	return query(ctx, q.db, getIndexes, func(rows *sql.Rows, i *IndexRow) error {
		return rows.Scan(
			&i.Schema,
			&i.TableName,
			&i.Name,
			&i.Definition,
			pq.Array(&i.KeyColumns),
			pq.Array(&i.IncludedColumns),
			&i.IsUnique,
			&i.IsPK,
			&i.IsExclusion,
			&i.IsImmediate,
			&i.IsClustered,
			&i.Algorithm,
			&i.PartialPredicate,
		)
	})
}

const getConstraints = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    t.relname::text as table_name,
    con.conname::text as name,
    con.contype::text as constraint_type,
    pg_catalog.pg_get_constraintdef(con.oid) as definition,
    coalesce(case when con.contype in ('p', 'u') then ic.relname::text end, '') as index_name,
    coalesce(fn.nspname::text, '') as foreign_table_schema,
    coalesce(ft.relname::text, '') as foreign_table_name,
    array(
        select a.attname::text
        from unnest(con.conkey) with ordinality k(attnum, ord)
        inner join pg_catalog.pg_attribute a on a.attrelid = con.conrelid and a.attnum = k.attnum
        order by k.ord
    )::text[] as fk_columns_local,
    array(
        select a.attname::text
        from unnest(con.confkey) with ordinality k(attnum, ord)
        inner join pg_catalog.pg_attribute a on a.attrelid = con.confrelid and a.attnum = k.attnum
        order by k.ord
    )::text[] as fk_columns_foreign,
    con.condeferrable as is_deferrable,
    con.condeferred as initially_deferred
from pg_catalog.pg_constraint con
inner join pg_catalog.pg_class t on t.oid = con.conrelid
inner join pg_catalog.pg_namespace n on n.oid = t.relnamespace
left join pg_catalog.pg_class ic on ic.oid = con.conindid
left join pg_catalog.pg_class ft on ft.oid = con.confrelid
left join pg_catalog.pg_namespace fn on fn.oid = ft.relnamespace
where con.conrelid <> 0
  and con.conparentid = 0
  and con.conislocal
  and con.contype in ('p', 'u', 'f', 'c', 'x')
  and t.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, t.relname, con.conname
`

func (q *Queries) GetConstraints(ctx context.Context) ([]ConstraintRow, error) {
	return query(ctx, q.db, getConstraints, func(rows *sql.Rows, i *ConstraintRow) error {
		return rows.Scan(
			&i.Schema,
			&i.TableName,
			&i.Name,
			&i.ConstraintType,
			&i.Definition,
			&i.IndexName,
			&i.ForeignTableSchema,
			&i.ForeignTableName,
			pq.Array(&i.FKColumnsLocal),
			pq.Array(&i.FKColumnsForeign),
			&i.IsDeferrable,
			&i.InitiallyDeferred,
		)
	})
}

// Identity sequences are owned by their column and are excluded.
const getSequences = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    c.relname::text as name,
    coalesce(t.relname::text, '') as table_name,
    coalesce(a.attname::text, '') as column_name,
    pg_catalog.format_type(s.seqtypid, null) as data_type,
    s.seqstart as start_value,
    s.seqincrement as increment,
    s.seqmax as max_value,
    s.seqmin as min_value,
    s.seqcache as cache_size,
    s.seqcycle as cycle
from pg_catalog.pg_class c
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
inner join pg_catalog.pg_sequence s on s.seqrelid = c.oid
left join pg_catalog.pg_depend d
    on d.objid = c.oid
    and d.classid = 'pg_catalog.pg_class'::regclass
    and d.refclassid = 'pg_catalog.pg_class'::regclass
    and d.deptype = 'a'
left join pg_catalog.pg_class t on t.oid = d.refobjid
left join pg_catalog.pg_attribute a on a.attrelid = d.refobjid and a.attnum = d.refobjsubid
where c.relkind = 'S'
  and not exists (
      select 1 from pg_catalog.pg_depend di where di.objid = c.oid and di.deptype = 'i'
  )
  and c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, c.relname
`

func (q *Queries) GetSequences(ctx context.Context) ([]SequenceRow, error) {
	return query(ctx, q.db, getSequences, func(rows *sql.Rows, i *SequenceRow) error {
		return rows.Scan(
			&i.Schema,
			&i.Name,
			&i.TableName,
			&i.ColumnName,
			&i.DataType,
			&i.StartValue,
			&i.Increment,
			&i.MaxValue,
			&i.MinValue,
			&i.CacheSize,
			&i.Cycle,
		)
	})
}

const getExtensions = `
select
    n.nspname::text as schema,
    e.extname::text as name,
    e.extversion::text as version
from pg_catalog.pg_extension e
inner join pg_catalog.pg_namespace n on n.oid = e.extnamespace
where e.extname <> 'plpgsql'
order by e.extname
`

func (q *Queries) GetExtensions(ctx context.Context) ([]ExtensionRow, error) {
	return query(ctx, q.db, getExtensions, func(rows *sql.Rows, i *ExtensionRow) error {
		return rows.Scan(&i.Schema, &i.Name, &i.Version)
	})
}

const getPrivileges = `
with ` + extensionObjects + `
select
    case when c.relkind = 'S' then 'sequence' else 'table' end as object_type,
    n.nspname::text as schema,
    c.relname::text as name,
    case when acl.grantee = 0 then 'PUBLIC' else pg_catalog.pg_get_userbyid(acl.grantee)::text end as grantee,
    lower(acl.privilege_type) as privilege,
    acl.is_grantable
from pg_catalog.pg_class c
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
cross join lateral aclexplode(c.relacl) acl
where c.relkind in ('r', 'p', 'v', 'm', 'S')
  and acl.grantee <> c.relowner
  and c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, c.relname, grantee, privilege
`

func (q *Queries) GetPrivileges(ctx context.Context) ([]PrivilegeRow, error) {
	return query(ctx, q.db, getPrivileges, func(rows *sql.Rows, i *PrivilegeRow) error {
		return rows.Scan(&i.ObjectType, &i.Schema, &i.Name, &i.Grantee, &i.Privilege, &i.IsGrantable)
	})
}

const getCollations = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    c.collname::text as name,
    c.collprovider::text as provider,
    c.collencoding as encoding,
    coalesce(c.collcollate::text, '') as lc_collate,
    coalesce(c.collctype::text, '') as lc_ctype,
    coalesce(c.collversion::text, '') as version
from pg_catalog.pg_collation c
inner join pg_catalog.pg_namespace n on n.oid = c.collnamespace
where c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, c.collname
`

func (q *Queries) GetCollations(ctx context.Context) ([]CollationRow, error) {
	return query(ctx, q.db, getCollations, func(rows *sql.Rows, i *CollationRow) error {
		return rows.Scan(&i.Schema, &i.Name, &i.Provider, &i.Encoding, &i.LcCollate, &i.LcCtype, &i.Version)
	})
}

const getDomains = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    t.typname::text as name,
    pg_catalog.format_type(t.typbasetype, t.typtypmod) as data_type,
    coalesce(case when t.typcollation <> bt.typcollation then col.collname::text end, '') as collation,
    t.typnotnull as not_null,
    coalesce(t.typdefault, '') as "default",
    coalesce(con.conname::text, '') as constraint_name,
    coalesce(pg_catalog.pg_get_constraintdef(con.oid), '') as "check"
from pg_catalog.pg_type t
inner join pg_catalog.pg_namespace n on n.oid = t.typnamespace
inner join pg_catalog.pg_type bt on bt.oid = t.typbasetype
left join pg_catalog.pg_collation col on col.oid = t.typcollation
left join pg_catalog.pg_constraint con on con.contypid = t.oid and con.contype = 'c'
where t.typtype = 'd'
  and t.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, t.typname, con.conname
`

func (q *Queries) GetDomains(ctx context.Context) ([]DomainRow, error) {
	return query(ctx, q.db, getDomains, func(rows *sql.Rows, i *DomainRow) error {
		return rows.Scan(
			&i.Schema, &i.Name, &i.DataType, &i.Collation, &i.NotNull, &i.Default, &i.ConstraintName, &i.Check,
		)
	})
}

const getTriggers = `
with ` + extensionObjects + `
select
    n.nspname::text as schema,
    c.relname::text as table_name,
    tg.tgname::text as name,
    pn.nspname::text as proc_schema,
    p.proname::text as proc_name,
    tg.tgenabled::text as enabled,
    pg_catalog.pg_get_triggerdef(tg.oid) as full_definition
from pg_catalog.pg_trigger tg
inner join pg_catalog.pg_class c on c.oid = tg.tgrelid
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
inner join pg_catalog.pg_proc p on p.oid = tg.tgfoid
inner join pg_catalog.pg_namespace pn on pn.oid = p.pronamespace
where not tg.tgisinternal
  and tg.tgparentid = 0
  and c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by n.nspname, c.relname, tg.tgname
`

func (q *Queries) GetTriggers(ctx context.Context) ([]TriggerRow, error) {
	return query(ctx, q.db, getTriggers, func(rows *sql.Rows, i *TriggerRow) error {
		return rows.Scan(&i.Schema, &i.TableName, &i.Name, &i.ProcSchema, &i.ProcName, &i.Enabled, &i.FullDefinition)
	})
}

const getPolicies = `
select
    n.nspname::text as schema,
    c.relname::text as table_name,
    pol.polname::text as name,
    pol.polcmd::text as command_type,
    pol.polpermissive as permissive,
    array(
        select case when r = 0 then 'public' else quote_ident(pg_catalog.pg_get_userbyid(r)) end
        from unnest(pol.polroles) r
        order by 1
    )::text[] as roles,
    coalesce(pg_catalog.pg_get_expr(pol.polqual, pol.polrelid), '') as qual,
    coalesce(pg_catalog.pg_get_expr(pol.polwithcheck, pol.polrelid), '') as with_check
from pg_catalog.pg_policy pol
inner join pg_catalog.pg_class c on c.oid = pol.polrelid
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
where ` + userNamespaceFilter + `
order by n.nspname, c.relname, pol.polname
`

func (q *Queries) GetPolicies(ctx context.Context) ([]PolicyRow, error) {
	return query(ctx, q.db, getPolicies, func(rows *sql.Rows, i *PolicyRow) error {
		return rows.Scan(
			&i.Schema, &i.TableName, &i.Name, &i.CommandType, &i.Permissive, pq.Array(&i.Roles), &i.Qual, &i.WithCheck,
		)
	})
}

const getComments = `
with ` + extensionObjects + `
select
    case c.relkind
        when 'v' then 'view'
        when 'm' then 'materialized view'
        when 'c' then 'type'
        when 'S' then 'sequence'
        when 'i' then 'index'
        else 'table'
    end as object_type,
    n.nspname::text as schema,
    c.relname::text as name,
    null::text as identity_arguments,
    '' as column_name,
    d.description as comment
from pg_catalog.pg_description d
inner join pg_catalog.pg_class c on d.classoid = 'pg_catalog.pg_class'::regclass and d.objoid = c.oid
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
where d.objsubid = 0
  and c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
union all
select
    'column' as object_type,
    n.nspname::text as schema,
    c.relname::text as name,
    null::text as identity_arguments,
    a.attname::text as column_name,
    d.description as comment
from pg_catalog.pg_description d
inner join pg_catalog.pg_class c on d.classoid = 'pg_catalog.pg_class'::regclass and d.objoid = c.oid
inner join pg_catalog.pg_namespace n on n.oid = c.relnamespace
inner join pg_catalog.pg_attribute a on a.attrelid = c.oid and a.attnum = d.objsubid
where d.objsubid > 0
  and c.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
union all
select
    case when p.prokind = 'p' then 'procedure' else 'function' end as object_type,
    n.nspname::text as schema,
    p.proname::text as name,
    pg_catalog.pg_get_function_identity_arguments(p.oid) as identity_arguments,
    '' as column_name,
    d.description as comment
from pg_catalog.pg_description d
inner join pg_catalog.pg_proc p on d.classoid = 'pg_catalog.pg_proc'::regclass and d.objoid = p.oid
inner join pg_catalog.pg_namespace n on n.oid = p.pronamespace
where p.prokind <> 'a'
  and p.oid not in (select objid from extension_objects)
  and ` + userNamespaceFilter + `
order by 1, 2, 3, 4, 5
`

func (q *Queries) GetComments(ctx context.Context) ([]CommentRow, error) {
	return query(ctx, q.db, getComments, func(rows *sql.Rows, i *CommentRow) error {
		return rows.Scan(&i.ObjectType, &i.Schema, &i.Name, &i.IdentityArguments, &i.ColumnName, &i.Comment)
	})
}

// getDependencies reports direct dependencies between relations, routines and enums. Views and materialized views
// depend on objects through their rewrite rules; routines returning a relation's row type depend on the row type,
// which is mapped back to its relation.
const getDependencies = `
with ` + extensionObjects + `,
things as (
    select p.oid as objid, p.pronamespace as namespace, p.proname::text as name,
        pg_catalog.pg_get_function_identity_arguments(p.oid) as identity_arguments
    from pg_catalog.pg_proc p
    where p.prokind <> 'a'
    union all
    select c.oid, c.relnamespace, c.relname::text, null::text
    from pg_catalog.pg_class c
    where c.relkind in ('r', 'p', 'v', 'm', 'c')
    union all
    select t.oid, t.typnamespace, t.typname::text, null::text
    from pg_catalog.pg_type t
    where t.typtype = 'e'
),
named_things as (
    select t.objid, n.nspname::text as schema, t.name, t.identity_arguments
    from things t
    inner join pg_catalog.pg_namespace n on n.oid = t.namespace
    where t.objid not in (select objid from extension_objects)
      and ` + userNamespaceFilter + `
),
referenced as (
    select nt.objid as ref_objid, nt.objid as thing_objid from named_things nt
    union all
    select t.oid, t.typrelid
    from pg_catalog.pg_type t
    where t.typrelid <> 0
    union all
    select t.oid, et.typrelid
    from pg_catalog.pg_type t
    inner join pg_catalog.pg_type et on et.oid = t.typelem
    where t.typcategory = 'A' and et.typrelid <> 0
    union all
    select t.oid, t.typelem
    from pg_catalog.pg_type t
    where t.typcategory = 'A' and t.typelem <> 0
),
edges as (
    select distinct rw.ev_class as objid, r.thing_objid as objid_dependent_on
    from pg_catalog.pg_depend d
    inner join pg_catalog.pg_rewrite rw on d.classid = 'pg_catalog.pg_rewrite'::regclass and d.objid = rw.oid
    inner join referenced r on r.ref_objid = d.refobjid
    where d.deptype = 'n' and rw.ev_class <> r.thing_objid
    union
    select distinct d.objid, r.thing_objid
    from pg_catalog.pg_depend d
    inner join referenced r on r.ref_objid = d.refobjid
    where d.deptype = 'n'
      and d.classid in ('pg_catalog.pg_proc'::regclass, 'pg_catalog.pg_class'::regclass)
      and d.objid <> r.thing_objid
)
select
    t.schema,
    t.name,
    t.identity_arguments,
    dep.schema as schema_dependent_on,
    dep.name as name_dependent_on,
    dep.identity_arguments as identity_arguments_dependent_on
from edges e
inner join named_things t on t.objid = e.objid
inner join named_things dep on dep.objid = e.objid_dependent_on
order by 1, 2, 3, 4, 5, 6
`

func (q *Queries) GetDependencies(ctx context.Context) ([]DependencyRow, error) {
	return query(ctx, q.db, getDependencies, func(rows *sql.Rows, i *DependencyRow) error {
		return rows.Scan(
			&i.Schema,
			&i.Name,
			&i.IdentityArguments,
			&i.SchemaDependentOn,
			&i.NameDependentOn,
			&i.IdentityArgumentsDependentOn,
		)
	})
}
