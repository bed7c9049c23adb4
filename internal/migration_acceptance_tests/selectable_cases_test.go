package migration_acceptance_tests

import "github.com/stripe/pg-schema-inspect/pkg/diff"

var selectableAcceptanceTestCases = []acceptanceTestCase{
	{
		name: "Create view on function",
		oldSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    price NUMERIC NOT NULL
			);
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    price NUMERIC NOT NULL
			);
			CREATE FUNCTION with_tax(amount NUMERIC) RETURNS NUMERIC
			    LANGUAGE SQL
			    IMMUTABLE
			    RETURN amount * 1.2;
			CREATE VIEW prices AS SELECT id, with_tax(price) AS price FROM foobar;
			`,
		},
	},
	{
		name: "Change view definition",
		oldSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    price NUMERIC NOT NULL
			);
			CREATE VIEW prices AS SELECT id, price FROM foobar;
			CREATE VIEW expensive AS SELECT id FROM prices WHERE price > 100;
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    price NUMERIC NOT NULL
			);
			CREATE VIEW prices AS SELECT id, price * 2 AS price FROM foobar;
			CREATE VIEW expensive AS SELECT id FROM prices WHERE price > 100;
			`,
		},
	},
	{
		name: "Change function body used by a view",
		oldSchemaDDL: []string{
			`
			CREATE FUNCTION add(a integer, b integer) RETURNS integer
			    LANGUAGE SQL
			    IMMUTABLE
			    RETURN a + b;
			CREATE VIEW sums AS SELECT add(1, 2) AS total;
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE FUNCTION add(a integer, b integer) RETURNS integer
			    LANGUAGE SQL
			    IMMUTABLE
			    RETURN b + a;
			CREATE VIEW sums AS SELECT add(1, 2) AS total;
			`,
		},
	},
	{
		name: "Drop table under a view",
		oldSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY
			);
			CREATE VIEW foobar_ids AS SELECT id FROM foobar;
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE TABLE other(
			    id INT PRIMARY KEY
			);
			`,
		},
		expectedHazardTypes: []diff.MigrationHazardType{
			diff.MigrationHazardTypeDeletesData,
		},
	},
	{
		name: "Recreate trigger when its function changes",
		oldSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    updated_at TIMESTAMPTZ
			);
			CREATE FUNCTION touch() RETURNS TRIGGER
			    LANGUAGE plpgsql AS $$
			    BEGIN
			        NEW.updated_at = now();
			        RETURN NEW;
			    END;
			$$;
			CREATE TRIGGER foobar_touch BEFORE UPDATE ON foobar FOR EACH ROW EXECUTE FUNCTION touch();
			`,
		},
		newSchemaDDL: []string{
			`
			CREATE TABLE foobar(
			    id INT PRIMARY KEY,
			    updated_at TIMESTAMPTZ
			);
			CREATE FUNCTION touch() RETURNS TRIGGER
			    LANGUAGE plpgsql AS $$
			    BEGIN
			        NEW.updated_at = clock_timestamp();
			        RETURN NEW;
			    END;
			$$;
			CREATE TRIGGER foobar_touch BEFORE UPDATE ON foobar FOR EACH ROW EXECUTE FUNCTION touch();
			`,
		},
	},
}
