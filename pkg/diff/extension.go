package diff

import (
	"github.com/stripe/pg-schema-inspect/internal/schema"
)

// ExtensionStatements returns the statements moving an installed extension from old to new. A version change is an
// in-place update; any other change reinstalls the extension.
func ExtensionStatements(old, new *schema.Extension) []string {
	switch {
	case *old == *new:
		return nil
	case old.EqualIgnoringVersion(new):
		if new.Version == "" {
			return nil
		}
		return []string{new.UpdateStatement()}
	default:
		return []string{old.DropStatement(), new.CreateStatement()}
	}
}

func extensionPlanStatements(old, new *schema.Extension) []Statement {
	var statements []Statement
	for _, ddl := range ExtensionStatements(old, new) {
		switch ddl {
		case new.UpdateStatement():
			statements = append(statements, newStatement(ddl, migrationHazardExtensionAlteredVersionUpgraded))
		case old.DropStatement():
			statements = append(statements, newStatement(ddl, migrationHazardExtensionDroppedCannotTrackDependencies))
		default:
			statements = append(statements, newStatement(ddl))
		}
	}
	return statements
}
