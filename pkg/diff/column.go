package diff

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/schema"
)

// columnRecreated is true if the column cannot be altered into its new shape and is dropped and added back. A
// generation expression can only be removed in place, never added or changed.
func columnRecreated(old, new *schema.Column) bool {
	return new.IsGenerated && (!old.IsGenerated || old.Default != new.Default)
}

// AlterClauses returns the clauses moving a column from old to new. Clauses come in a fixed order: default, set not
// null, identity, drop not null, then type and collation. A default is set before the column becomes not null, and
// identity is dropped before not null is. Changes between two enum types cast through text.
//
// A column that stops being generated has its expression dropped ahead of the default slot. A column that becomes
// generated, or whose generation expression changes, is dropped and added back.
func AlterClauses(old, new *schema.Column) []string {
	if columnRecreated(old, new) {
		return []string{old.DropColumnClause(), new.AddColumnClause()}
	}
	var clauses []string
	oldDefault := old.Default
	if old.IsGenerated && !new.IsGenerated {
		clauses = append(clauses, new.DropExpressionClause())
		oldDefault = ""
	}
	if oldDefault != new.Default && !new.IsGenerated {
		clauses = append(clauses, new.AlterDefaultClause())
	}
	if new.NotNull && !old.NotNull {
		clauses = append(clauses, new.AlterNotNullClause())
	}
	if old.IsIdentity != new.IsIdentity || (new.IsIdentity && old.IsIdentityAlways != new.IsIdentityAlways) {
		clauses = append(clauses, new.AlterIdentityClause(old))
	}
	if old.NotNull && !new.NotNull {
		clauses = append(clauses, new.AlterNotNullClause())
	}
	if old.DBTypeStr != new.DBTypeStr || old.Collation != new.Collation {
		if old.IsEnum && new.IsEnum {
			clauses = append(clauses, new.AlterEnumTypeClause())
		} else {
			clauses = append(clauses, new.AlterDataTypeClause())
		}
	}
	return clauses
}

// AlterColumnStatements wraps AlterClauses into one statement per clause on the given table.
func AlterColumnStatements(table string, old, new *schema.Column) []string {
	var statements []string
	for _, clause := range AlterClauses(old, new) {
		statements = append(statements, fmt.Sprintf("alter table %s %s;", table, clause))
	}
	return statements
}

func alterColumnPlanStatements(table string, old, new *schema.Column) []Statement {
	var statements []Statement
	for _, clause := range AlterClauses(old, new) {
		stmt := newStatement(fmt.Sprintf("alter table %s %s;", table, clause))
		switch clause {
		case old.DropColumnClause():
			stmt.Hazards = append(stmt.Hazards, migrationHazardColumnDropped)
		case new.AlterNotNullClause():
			if new.NotNull {
				stmt.Hazards = append(stmt.Hazards, migrationHazardSetNotNullScansTable)
			}
		case new.AlterDataTypeClause(), new.AlterEnumTypeClause():
			stmt.Hazards = append(stmt.Hazards, migrationHazardColumnTypeRewritesTable)
			stmt.Timeout = statementTimeoutTableRewrite
			// Changing the type discards the column's statistics.
			statements = append(statements, stmt, analyzeColumnStatement(table, new))
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

func analyzeColumnStatement(table string, c *schema.Column) Statement {
	stmt := newStatement(fmt.Sprintf("analyze %s (%s);", table, c.QuotedName()), migrationHazardAnalyzeColumn)
	stmt.Timeout = statementTimeoutAnalyzeColumn
	return stmt
}
