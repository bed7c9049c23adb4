package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/diff"
	"github.com/stripe/pg-schema-inspect/pkg/log"
	"github.com/stripe/pg-schema-inspect/pkg/tempdb"
)

func buildValidateCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a schema can be created, dropped and created again in dependency order on a temporary database",
	}

	connFlags := createConnectionFlags(cmd, "", "The instance temporary databases are created on")
	sourceFlags := createSchemaSourceFlags(cmd, "schema-")
	filterFlags := createSchemaFilterFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := root.setup(cmd)
		if err != nil {
			return err
		}
		defer env.sync()

		connConfig, err := parseConnectionFlags(connFlags, env.cfg)
		if err != nil {
			return err
		}
		source, err := sourceFlags.parse(env.cfg)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true

		tempDbFactory, err := newTempDbFactory(cmd.Context(), connConfig, env.logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := tempDbFactory.Close(); err != nil {
				env.logger.Errorf("error shutting down temp db factory: %v", err)
			}
		}()

		target, err := loadSchema(cmd.Context(), source, diff.SchemaSourceDeps{
			TempDbFactory: tempDbFactory,
			Logger:        env.logger,
			LoadOpts:      filterFlags.loadOpts(env.cfg, env.logger),
		})
		if err != nil {
			return err
		}

		if err := validateRoundTrip(cmd.Context(), cmd, tempDbFactory, target, env.logger); err != nil {
			return err
		}
		cmdPrintln(cmd, "Schema validated successfully")
		return nil
	}

	return cmd
}

type roundTripPhase struct {
	name       string
	statements []diff.Statement
}

// validateRoundTrip runs the create script, the drop script and the create script again on an empty temporary
// database, then checks the database matches target.
func validateRoundTrip(ctx context.Context, cmd *cobra.Command, factory tempdb.Factory, target *schema.Inspected, logger log.Logger) error {
	empty, err := schema.Load(schema.CatalogRows{})
	if err != nil {
		return err
	}
	createPlan, err := diff.Generate(empty, target, diff.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("generating create script: %w", err)
	}
	dropPlan, err := diff.Generate(target, empty, diff.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("generating drop script: %w", err)
	}

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

	for _, phase := range []roundTripPhase{
		{name: "create", statements: createPlan.Statements},
		{name: "drop", statements: dropPlan.Statements},
		{name: "create again", statements: createPlan.Statements},
	} {
		cmdPrintln(cmd, header(fmt.Sprintf("Running %s (%d statements)", phase.name, len(phase.statements))))
		if err := diff.ExecuteStatements(ctx, conn, phase.statements); err != nil {
			return fmt.Errorf("%s: %w", phase.name, err)
		}
	}

	migrated, err := schema.GetSchema(ctx, conn, tempDb.ExcludeMetadataOptions...)
	if err != nil {
		return fmt.Errorf("inspecting temp database: %w", err)
	}
	remaining, err := diff.Generate(migrated, target)
	if err != nil {
		return fmt.Errorf("comparing temp database with schema: %w", err)
	}
	if len(remaining.Statements) > 0 {
		var ddl []string
		for _, stmt := range remaining.Statements {
			ddl = append(ddl, stmt.DDL)
		}
		return fmt.Errorf("temp database does not match the schema after the round trip:\n%s", strings.Join(ddl, "\n"))
	}
	return nil
}
