package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/diff"
)

const (
	outputFormatSQL  = "sql"
	outputFormatYAML = "yaml"
)

func buildInspectCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the objects of a database, as DDL in dependency order or as YAML",
	}

	connFlags := createConnectionFlags(cmd, "", "The database to inspect")
	filterFlags := createSchemaFilterFlags(cmd)
	format := cmd.Flags().String("format", outputFormatSQL, "Output format: sql or yaml")
	hashOnly := cmd.Flags().Bool("hash", false, "Only print the hash of the schema")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := root.setup(cmd)
		if err != nil {
			return err
		}
		defer env.sync()

		if *format != outputFormatSQL && *format != outputFormatYAML {
			return fmt.Errorf("unknown format %q: expected %s or %s", *format, outputFormatSQL, outputFormatYAML)
		}
		connConfig, err := parseConnectionFlags(connFlags, env.cfg)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true

		inspected, err := inspectDatabase(cmd.Context(), connConfig, filterFlags.loadOpts(env.cfg, env.logger))
		if err != nil {
			return err
		}
		env.logger.Infof("inspected %d selectables, %d enums and %d triggers", inspected.Selectables.Len(), inspected.Enums.Len(), inspected.Triggers.Len())

		if *hashOnly {
			hash, err := inspected.Hash()
			if err != nil {
				return err
			}
			cmdPrintln(cmd, hash)
			return nil
		}

		out, err := renderSchema(inspected, *format)
		if err != nil {
			return err
		}
		cmdPrint(cmd, out)
		return nil
	}

	return cmd
}

// renderSchema renders the snapshot. As SQL, it is the script creating every object from an empty database.
func renderSchema(inspected *schema.Inspected, format string) (string, error) {
	if format == outputFormatYAML {
		out, err := inspected.YAML()
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	empty, err := schema.Load(schema.CatalogRows{})
	if err != nil {
		return "", err
	}
	plan, err := diff.Generate(empty, inspected)
	if err != nil {
		return "", fmt.Errorf("building create script: %w", err)
	}
	return plan.ToSQL(), nil
}
