package diff

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kr/pretty"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/log"
	"github.com/stripe/pg-schema-inspect/pkg/sqldb"
	"github.com/stripe/pg-schema-inspect/pkg/tempdb"
)

// ExecuteStatements runs the statements one by one on a single connection. It changes the session-level statement
// timeout of the connection, so pass a *sql.Conn rather than a pool when the session is reused afterwards.
func ExecuteStatements(ctx context.Context, conn sqldb.Queryable, statements []Statement) error {
	// A transaction-level timeout cannot be used: some statements, e.g., concurrent index builds, cannot run inside a
	// transaction block.
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET SESSION statement_timeout = %d", stmt.Timeout.Milliseconds())); err != nil {
			return fmt.Errorf("setting statement timeout: %w", err)
		}
		if _, err := conn.ExecContext(ctx, stmt.ToSQL()); err != nil {
			return fmt.Errorf("executing migration statement %q: %w", stmt.DDL, err)
		}
	}
	return nil
}

// ValidatePlan runs the plan against a temporary database holding the old snapshot and checks that the migrated
// database matches the new snapshot.
func ValidatePlan(ctx context.Context, factory tempdb.Factory, old, new *schema.Inspected, plan Plan, logger log.Logger) error {
	tempDb, err := factory.Create(ctx)
	if err != nil {
		return fmt.Errorf("creating temp database: %w", err)
	}
	defer func(drop tempdb.Dropper) {
		if err := drop(ctx); err != nil {
			logger.Errorf("an error occurred while dropping the temp database: %s", err)
		}
	}(tempDb.Drop)

	conn, err := tempDb.ConnPool.Conn(ctx)
	if err != nil {
		return fmt.Errorf("opening database connection: %w", err)
	}
	defer conn.Close()

	if err := setSchemaForEmptyDatabase(ctx, conn, old); err != nil {
		return fmt.Errorf("inserting schema in temporary database: %w", err)
	}
	if err := ExecuteStatements(ctx, conn, plan.Statements); err != nil {
		return fmt.Errorf("running migration plan: %w", err)
	}

	migrated, err := schema.GetSchema(ctx, conn)
	if err != nil {
		return fmt.Errorf("fetching schema from migrated database: %w", err)
	}
	migrated, err = migrated.FilterBySchema(nil, []string{tempDb.MetadataSchema})
	if err != nil {
		return err
	}
	return assertMigratedSchemaMatchesTarget(migrated, new)
}

func setSchemaForEmptyDatabase(ctx context.Context, conn *sql.Conn, target *schema.Inspected) error {
	empty, err := schema.Load(schema.CatalogRows{})
	if err != nil {
		return err
	}
	statements, err := newPlanner(empty, target, log.NoopLogger()).plan()
	if err != nil {
		return fmt.Errorf("building schema diff: %w", err)
	}
	if err := ExecuteStatements(ctx, conn, statements); err != nil {
		return fmt.Errorf("executing statements: %w\n%# v", err, pretty.Formatter(statements))
	}
	return nil
}

func assertMigratedSchemaMatchesTarget(migrated, target *schema.Inspected) error {
	statements, err := newPlanner(migrated, target, log.NoopLogger()).plan()
	if err != nil {
		return fmt.Errorf("building schema diff between migrated database and new schema: %w", err)
	}
	if len(statements) > 0 {
		var ddl []string
		for _, stmt := range statements {
			ddl = append(ddl, stmt.DDL)
		}
		return fmt.Errorf("diff detected:\n%s", strings.Join(ddl, "\n"))
	}
	return nil
}
