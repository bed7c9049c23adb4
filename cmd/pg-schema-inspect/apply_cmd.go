package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/spf13/cobra"

	internalschema "github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/diff"
	"github.com/stripe/pg-schema-inspect/pkg/schema"
)

func buildApplyCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Migrate your database to the match the inputted schema (apply the schema to the database)",
	}

	connFlags := createConnectionFlags(cmd, "from-", "The database to migrate")
	toSchemaFlags := createSchemaSourceFlags(cmd, "to-")
	filterFlags := createSchemaFilterFlags(cmd)
	planFlags := createPlanFlags(cmd)
	allowedHazardsTypesStrs := cmd.Flags().StringSlice("allow-hazards", nil,
		"Specify the hazards that are allowed. Order does not matter, and duplicates are ignored. If the"+
			" migration plan contains unwanted hazards (hazards not in this list), then the migration will fail to run"+
			" (example: --allow-hazards DELETES_DATA,INDEX_BUILD)")
	skipConfirmPrompt := cmd.Flags().Bool("skip-confirm-prompt", false, "Skips prompt asking for user to confirm before applying")
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
		toSchema, err := toSchemaFlags.parse(env.cfg)
		if err != nil {
			return err
		}
		planConfig, err := planFlags.parsePlanConfig()
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true

		loadOpts := filterFlags.loadOpts(env.cfg, env.logger)
		plan, err := generatePlan(cmd.Context(), generatePlanParameters{
			fromConnConfig: connConfig,
			toSchema:       toSchema,
			loadOpts:       loadOpts,
			planConfig:     planConfig,
			logger:         env.logger,
		})
		if err != nil {
			return err
		} else if len(plan.Statements) == 0 {
			cmdPrintln(cmd, "Schema matches expected. No plan generated")
			return nil
		}

		cmdPrintln(cmd, header("Review plan"))
		cmdPrint(cmd, planToPrettyS(plan), "\n\n")

		if err := failIfHazardsNotAllowed(plan, *allowedHazardsTypesStrs); err != nil {
			return err
		}

		if !*skipConfirmPrompt {
			if err := mustContinuePrompt(
				fmt.Sprintf(
					"Apply migration with the following hazards: %s?",
					strings.Join(*allowedHazardsTypesStrs, ", "),
				),
			); err != nil {
				return err
			}
		}

		if err := runPlan(cmd.Context(), cmd, connConfig, loadOpts, plan); err != nil {
			return err
		}
		cmdPrintln(cmd, "Schema applied successfully")
		return nil
	}

	return cmd
}

func failIfHazardsNotAllowed(plan diff.Plan, allowedHazardsTypesStrs []string) error {
	isAllowedByHazardType := make(map[diff.MigrationHazardType]bool)
	for _, val := range allowedHazardsTypesStrs {
		isAllowedByHazardType[strings.ToUpper(val)] = true
	}
	var disallowedHazardMsgs []string
	for i, stmt := range plan.Statements {
		var disallowedTypes []diff.MigrationHazardType
		for _, hzd := range stmt.Hazards {
			if !isAllowedByHazardType[hzd.Type] {
				disallowedTypes = append(disallowedTypes, hzd.Type)
			}
		}
		if len(disallowedTypes) > 0 {
			disallowedHazardMsgs = append(disallowedHazardMsgs,
				fmt.Sprintf("- Statement %d: %s", getDisplayableStmtIdx(i), strings.Join(disallowedTypes, ", ")),
			)
		}

	}
	if len(disallowedHazardMsgs) > 0 {
		return fmt.Errorf("prohibited hazards found\n"+
			"These hazards must be allowed via the allow-hazards flag, e.g., --allow-hazards %s\n"+
			"Prohibited hazards in the following statements:\n%s",
			strings.Join(getHazardTypes(plan), ","),
			strings.Join(disallowedHazardMsgs, "\n"))
	}
	return nil
}

func runPlan(ctx context.Context, cmd *cobra.Command, connConfig *pgx.ConnConfig, loadOpts []internalschema.LoadOpt, plan diff.Plan) error {
	connPool, err := openDbWithPgxConfig(connConfig)
	if err != nil {
		return err
	}
	defer connPool.Close()

	conn, err := connPool.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	currentHash, err := schema.GetSchemaHash(ctx, conn, loadOpts...)
	if err != nil {
		return fmt.Errorf("getting current schema hash: %w", err)
	}
	if currentHash != plan.CurrentSchemaHash {
		return fmt.Errorf("the schema changed since the plan was generated: expected hash %s, got %s", plan.CurrentSchemaHash, currentHash)
	}

	// Due to the way *sql.Db works, when a statement_timeout is set for the session, it will NOT reset
	// by default when it's returned to the pool. Statements therefore all run on one connection, which is closed
	// afterwards.
	for i, stmt := range plan.Statements {
		cmdPrintln(cmd, header(fmt.Sprintf("Executing statement %d", getDisplayableStmtIdx(i))))
		cmdPrintf(cmd, "%s\n\n", statementToPrettyS(stmt))
		start := time.Now()
		if err := diff.ExecuteStatements(ctx, conn, []diff.Statement{stmt}); err != nil {
			return fmt.Errorf("the database may be in a dirty state: %w", err)
		}
		cmdPrintf(cmd, "Finished executing statement. Duration: %s\n", time.Since(start))
	}
	cmdPrintln(cmd, header("Complete"))

	return nil
}

func getHazardTypes(plan diff.Plan) []diff.MigrationHazardType {
	seenHazardTypes := make(map[diff.MigrationHazardType]bool)
	var hazardTypes []diff.MigrationHazardType
	for _, hazard := range plan.Hazards() {
		if !seenHazardTypes[hazard.Type] {
			seenHazardTypes[hazard.Type] = true
			hazardTypes = append(hazardTypes, hazard.Type)
		}
	}
	sort.Slice(hazardTypes, func(i, j int) bool {
		return hazardTypes[i] < hazardTypes[j]
	})
	return hazardTypes
}
