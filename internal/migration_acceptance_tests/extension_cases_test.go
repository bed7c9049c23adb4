package migration_acceptance_tests

import "github.com/stripe/pg-schema-inspect/pkg/diff"

var extensionAcceptanceTestCases = []acceptanceTestCase{
	{
		name: "create extension",
		oldSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    name TEXT
			);
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE EXTENSION pg_trgm;
			CREATE TABLE foobar(
			    name TEXT
			);
			CREATE INDEX foobar_name_trgm ON foobar USING gin (name gin_trgm_ops);
			`,
		},
		expectedHazardTypes: []diff.MigrationHazardType{
			diff.MigrationHazardTypeIndexBuild,
		},
	},
	{
		name: "drop extension",
		oldSchemaDDL: []string{
			`
			CREATE EXTENSION pg_trgm;
			`,
		},
		newSchemaDDL: []string{},
		expectedHazardTypes: []diff.MigrationHazardType{
			diff.MigrationHazardTypeHasUntrackableDependencies,
		},
	},
	{
		name: "move extension to another schema",
		oldSchemaDDL: []string{
			`
			CREATE SCHEMA extensions;
			CREATE EXTENSION pg_trgm;
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE SCHEMA extensions;
			CREATE EXTENSION pg_trgm WITH SCHEMA extensions;
			`,
		},
	},
}
