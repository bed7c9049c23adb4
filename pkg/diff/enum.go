package diff

import (
	"fmt"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/internal/util"
)

// EnumStatements returns the statements adding the values of new missing from old. It returns an error wrapping
// schema.ErrInvalidEnumTransition if values were removed or reordered.
func EnumStatements(old, new *schema.Enum) ([]string, error) {
	return old.ChangeStatements(new)
}

// rebuildEnumStatements recreates an enum that cannot be altered in place. Columns typed with the enum are moved to
// varchar while the type is recreated, then back to the enum if they still use it.
func rebuildEnumStatements(old, new *schema.Enum, oldSchema, newSchema *schema.Inspected, droppedTables map[string]bool) ([]Statement, error) {
	var toString, toEnum []Statement
	oldColumns := oldSchema.EnumColumns(old.Signature())
	for _, table := range util.SortedKeys(oldColumns) {
		if droppedTables[table] {
			continue
		}
		for _, col := range oldColumns[table] {
			// Defaults are typed with the enum, so they would block dropping it.
			if col.Default != "" {
				toString = append(toString, newStatement(fmt.Sprintf("alter table %s alter column %s drop default;", table, col.QuotedName())))
			}
			stmt, err := col.ChangeEnumToStringStatement(table)
			if err != nil {
				return nil, err
			}
			toString = append(toString, newStatement(stmt, migrationHazardColumnTypeRewritesTable))

			newTable, ok := newSchema.Tables.Get(table)
			if !ok {
				continue
			}
			newCol, ok := newTable.Column(col.Name)
			if !ok || newCol.Enum != new.Signature() {
				continue
			}
			stmt, err = newCol.ChangeStringToEnumStatement(table)
			if err != nil {
				return nil, err
			}
			toEnum = append(toEnum, newStatement(stmt, migrationHazardColumnTypeRewritesTable))
			if newCol.Default != "" {
				toEnum = append(toEnum, newStatement(fmt.Sprintf("alter table %s %s;", table, newCol.AlterDefaultClause())))
			}
		}
	}
	var statements []Statement
	statements = append(statements, toString...)
	statements = append(statements,
		newStatement(old.DropStatement(), migrationHazardEnumRebuilt),
		newStatement(new.CreateStatement()),
	)
	statements = append(statements, toEnum...)
	return statements, nil
}

func enumPlanStatements(old, new *schema.Enum, oldSchema, newSchema *schema.Inspected, droppedTables map[string]bool) ([]Statement, error) {
	if old.CanBeChangedTo(new) {
		ddls, err := EnumStatements(old, new)
		if err != nil {
			return nil, fmt.Errorf("altering %s: %w", old.Signature(), err)
		}
		var statements []Statement
		for _, ddl := range ddls {
			statements = append(statements, newStatement(ddl))
		}
		return statements, nil
	}
	return rebuildEnumStatements(old, new, oldSchema, newSchema, droppedTables)
}
