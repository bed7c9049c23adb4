package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/diff"
	"github.com/stripe/pg-schema-inspect/pkg/log"
	"github.com/stripe/pg-schema-inspect/pkg/tempdb"
)

// newTempDbFactory creates temporary databases on the instance connConfig points at.
func newTempDbFactory(ctx context.Context, connConfig *pgx.ConnConfig, logger log.Logger) (tempdb.Factory, error) {
	factory, err := tempdb.NewOnInstanceFactory(ctx, func(ctx context.Context, dbName string) (*sql.DB, error) {
		cfg := connConfig.Copy()
		cfg.Database = dbName
		return openDbWithPgxConfig(cfg)
	}, tempdb.WithRootDatabase(connConfig.Database), tempdb.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating temp db factory: %w", err)
	}
	return factory, nil
}

// loadSchema loads the snapshot described by the source. Directories are run on a temporary database created through
// factory.
func loadSchema(ctx context.Context, source schemaSourceConfig, deps diff.SchemaSourceDeps) (*schema.Inspected, error) {
	var schemaSource diff.SchemaSource
	if len(source.dirs) > 0 {
		var err error
		if schemaSource, err = diff.DirSchemaSource(source.dirs); err != nil {
			return nil, err
		}
	} else {
		connPool, err := openDbWithPgxConfig(source.connConfig)
		if err != nil {
			return nil, fmt.Errorf("opening database connection: %w", err)
		}
		defer connPool.Close()
		schemaSource = diff.DBSchemaSource(connPool)
	}

	inspected, err := schemaSource.GetSchema(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return inspected, nil
}

// inspectDatabase loads a snapshot of the database connConfig points at.
func inspectDatabase(ctx context.Context, connConfig *pgx.ConnConfig, opts []schema.LoadOpt) (*schema.Inspected, error) {
	return loadSchema(ctx, schemaSourceConfig{connConfig: connConfig}, diff.SchemaSourceDeps{LoadOpts: opts})
}
