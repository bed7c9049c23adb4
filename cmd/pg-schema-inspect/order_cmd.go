package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stripe/pg-schema-inspect/internal/schema"
)

type orderFlags struct {
	drop          bool
	foreignKeys   bool
	noSelectables bool
	noTriggers    bool
	noEnums       bool
	dot           bool
	kinds         bool
}

func (o orderFlags) orderOpts() []schema.OrderOpt {
	var opts []schema.OrderOpt
	if o.drop {
		opts = append(opts, schema.WithDropOrder())
	}
	if o.foreignKeys {
		opts = append(opts, schema.WithForeignKeyDeps())
	}
	if o.noSelectables {
		opts = append(opts, schema.WithoutSelectables())
	}
	if o.noTriggers {
		opts = append(opts, schema.WithoutTriggers())
	}
	if o.noEnums {
		opts = append(opts, schema.WithoutEnums())
	}
	return opts
}

func buildOrderCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the signatures of a database's views, functions, tables, enums and triggers in dependency order",
	}

	connFlags := createConnectionFlags(cmd, "", "The database to inspect")
	filterFlags := createSchemaFilterFlags(cmd)
	var flags orderFlags
	cmd.Flags().BoolVar(&flags.drop, "drop", false, "Print the drop order, dependents first")
	cmd.Flags().BoolVar(&flags.foreignKeys, "fk", false, "Order referenced tables before the tables referencing them")
	cmd.Flags().BoolVar(&flags.noSelectables, "no-selectables", false, "Leave out tables, views and functions")
	cmd.Flags().BoolVar(&flags.noTriggers, "no-triggers", false, "Leave out triggers")
	cmd.Flags().BoolVar(&flags.noEnums, "no-enums", false, "Leave out enums")
	cmd.Flags().BoolVar(&flags.dot, "dot", false, "Print the dependency graph in Graphviz DOT format instead")
	cmd.Flags().BoolVar(&flags.kinds, "kinds", false, "Prefix each signature with the kind of object")

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

		cmd.SilenceUsage = true

		inspected, err := inspectDatabase(cmd.Context(), connConfig, filterFlags.loadOpts(env.cfg, env.logger))
		if err != nil {
			return err
		}
		if flags.dot {
			return inspected.EncodeDOT(cmd.OutOrStdout(), flags.orderOpts()...)
		}

		objs, err := inspected.DependencyOrderObjects(flags.orderOpts()...)
		if err != nil {
			var cycleErr *schema.CyclicDependencyError
			if errors.As(err, &cycleErr) {
				cmdPrintln(cmd, header("Cycle"))
				for _, sig := range cycleErr.Signatures {
					cmdPrintln(cmd, sig)
				}
			}
			return err
		}
		for _, obj := range objs {
			if flags.kinds {
				cmdPrintf(cmd, "%-18s %s\n", objectKind(obj), obj.Signature())
				continue
			}
			cmdPrintln(cmd, obj.Signature())
		}
		return nil
	}

	return cmd
}

func objectKind(obj schema.GraphObject) string {
	switch o := obj.(type) {
	case *schema.Relation:
		switch o.Kind {
		case schema.RelationKindTable:
			return "table"
		case schema.RelationKindPartitionedTable:
			return "partitioned table"
		case schema.RelationKindView:
			return "view"
		case schema.RelationKindMaterializedView:
			return "materialized view"
		case schema.RelationKindCompositeType:
			return "composite type"
		}
	case *schema.Function:
		switch o.Kind {
		case schema.FunctionKindProcedure:
			return "procedure"
		case schema.FunctionKindAggregate:
			return "aggregate"
		default:
			return "function"
		}
	case *schema.Enum:
		return "enum"
	case *schema.Trigger:
		return "trigger"
	}
	return "object"
}
