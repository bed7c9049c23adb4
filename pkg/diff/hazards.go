package diff

import (
	"time"

	"github.com/stripe/pg-schema-inspect/internal/schema"
)

const (
	statementTimeoutDefault = 3 * time.Second
	// statementTimeoutTableDrop is the statement timeout for table drops. It may a take a while to delete the data.
	// Since the table is being dropped, locks shouldn't be a concern
	statementTimeoutTableDrop = 20 * time.Minute
	// statementTimeoutIndexBuild is the statement timeout for index builds, which scale with the size of the table
	statementTimeoutIndexBuild = 20 * time.Minute
	// statementTimeoutTableRewrite covers statements that rewrite every row of a table
	statementTimeoutTableRewrite = 20 * time.Minute
	statementTimeoutAnalyzeColumn = 20 * time.Minute
)

var (
	migrationHazardTableDropped = MigrationHazard{
		Type:    MigrationHazardTypeDeletesData,
		Message: "Deletes all rows in the table (and the table itself)",
	}
	migrationHazardColumnDropped = MigrationHazard{
		Type:    MigrationHazardTypeDeletesData,
		Message: "Deletes all values in the column",
	}
	migrationHazardSetNotNullScansTable = MigrationHazard{
		Type: MigrationHazardTypeAcquiresAccessExclusiveLock,
		Message: "Marking a column as not null requires a full table scan, which will lock out " +
			"writes to the table while it runs",
	}
	migrationHazardColumnTypeRewritesTable = MigrationHazard{
		Type: MigrationHazardTypeAcquiresAccessExclusiveLock,
		Message: "This will completely lock the table while the data is being re-written. " +
			"The duration of this conversion depends on if the type conversion is trivial or not.",
	}
	migrationHazardAnalyzeColumn = MigrationHazard{
		Type: MigrationHazardTypeImpactsDatabasePerformance,
		Message: "Running analyze will read rows from the table, putting increased load " +
			"on the database and consuming database resources. It won't prevent reads/writes to " +
			"the table, but it could affect performance when executing queries.",
	}
	migrationHazardFunctionCannotTrackDependencies = MigrationHazard{
		Type: MigrationHazardTypeHasUntrackableDependencies,
		Message: "Dependencies, i.e. other functions used in the function body, of non-sql functions cannot be tracked. " +
			"As a result, we cannot guarantee that function dependencies are ordered properly relative to this " +
			"statement.",
	}
	migrationHazardFunctionDroppedCannotTrackDependencies = MigrationHazard{
		Type: MigrationHazardTypeHasUntrackableDependencies,
		Message: "Dependencies, i.e. other functions used in the function body, of non-sql functions cannot be " +
			"tracked. As a result, we cannot guarantee that function dependencies are ordered properly relative to " +
			"this statement. For drops, this means you need to ensure that all functions this function depends on " +
			"are dropped after this statement.",
	}
	migrationHazardIndexBuild = MigrationHazard{
		Type: MigrationHazardTypeIndexBuild,
		Message: "This might affect database performance. " +
			"Index builds require a non-trivial amount of CPU and lock out writes to the table while they run.",
	}
	migrationHazardIndexDroppedQueryPerf = MigrationHazard{
		Type: MigrationHazardTypeIndexDropped,
		Message: "Dropping this index means queries that use this index might perform worse because " +
			"they will no longer will be able to leverage it.",
	}
	migrationHazardIndexDroppedAcquiresLock = MigrationHazard{
		Type:    MigrationHazardTypeAcquiresAccessExclusiveLock,
		Message: "Index drops will lock out all accesses to the table. They should be fast",
	}
	migrationHazardForeignKeyAdded = MigrationHazard{
		Type: MigrationHazardTypeAcquiresShareLock,
		Message: "This will lock writes to the owning table and referenced table while the constraint is being " +
			"validated.",
	}
	migrationHazardSequenceCannotTrackDependencies = MigrationHazard{
		Type:    MigrationHazardTypeHasUntrackableDependencies,
		Message: "This sequence has no owner, so it cannot be tracked. It may be in use by a table or function.",
	}
	migrationHazardSequenceDropped = MigrationHazard{
		Type:    MigrationHazardTypeDeletesData,
		Message: "By deleting a sequence, its value will be permanently lost",
	}
	migrationHazardExtensionDroppedCannotTrackDependencies = MigrationHazard{
		Type:    MigrationHazardTypeHasUntrackableDependencies,
		Message: "This extension may be in use by tables, indexes, functions, triggers, etc.",
	}
	migrationHazardExtensionAlteredVersionUpgraded = MigrationHazard{
		Type:    MigrationHazardTypeExtensionVersionUpgrade,
		Message: "This extension's version is being upgraded. Be sure the newer version is backwards compatible with your use case.",
	}
	migrationHazardEnumRebuilt = MigrationHazard{
		Type: MigrationHazardTypeAcquiresAccessExclusiveLock,
		Message: "Values were removed from or reordered in this enum, so it is recreated. Every column using it is " +
			"rewritten twice.",
	}

	migrationHazardRLSEnabled = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Enabling RLS on a table could cause queries to fail if not correctly configured.",
	}
	migrationHazardRLSDisabled = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Disabling RLS on a table could allow unauthorized access to data.",
	}
	migrationHazardRLSForced = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Forcing RLS on a table could cause queries to fail if not correctly configured.",
	}
	migrationHazardRLSUnforced = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Disabling forcing RLS on a table could allow unauthorized access to data.",
	}
	migrationHazardPermissivePolicyAdded = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Adding a permissive policy could allow unauthorized access to data.",
	}
	migrationHazardPermissivePolicyRemoved = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Removing a permissive policy could cause queries to fail if not correctly configured.",
	}
	migrationHazardRestrictivePolicyAdded = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Adding a restrictive policy could cause queries to fail if not correctly configured.",
	}
	migrationHazardRestrictivePolicyRemoved = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Removing a restrictive policy could allow unauthorized access to data.",
	}
	migrationHazardPrivilegeGranted = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Granting privileges could allow unauthorized access to data.",
	}
	migrationHazardPrivilegeRevoked = MigrationHazard{
		Type:    MigrationHazardTypeAuthzUpdate,
		Message: "Revoking privileges could cause queries to fail if not correctly configured.",
	}
)

func policyAddedHazard(pol *schema.Policy) MigrationHazard {
	if pol.Permissive {
		return migrationHazardPermissivePolicyAdded
	}
	return migrationHazardRestrictivePolicyAdded
}

func policyRemovedHazard(pol *schema.Policy) MigrationHazard {
	if pol.Permissive {
		return migrationHazardPermissivePolicyRemoved
	}
	return migrationHazardRestrictivePolicyRemoved
}

func rlsHazard(enabled bool) MigrationHazard {
	if enabled {
		return migrationHazardRLSEnabled
	}
	return migrationHazardRLSDisabled
}

func forceRLSHazard(forced bool) MigrationHazard {
	if forced {
		return migrationHazardRLSForced
	}
	return migrationHazardRLSUnforced
}
