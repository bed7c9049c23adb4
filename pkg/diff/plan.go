package diff

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type MigrationHazardType = string

const (
	MigrationHazardTypeAcquiresAccessExclusiveLock MigrationHazardType = "ACQUIRES_ACCESS_EXCLUSIVE_LOCK"
	MigrationHazardTypeAcquiresShareLock           MigrationHazardType = "ACQUIRES_SHARE_LOCK"
	MigrationHazardTypeAuthzUpdate                 MigrationHazardType = "AUTHZ_UPDATE"
	MigrationHazardTypeDeletesData                 MigrationHazardType = "DELETES_DATA"
	MigrationHazardTypeHasUntrackableDependencies  MigrationHazardType = "HAS_UNTRACKABLE_DEPENDENCIES"
	MigrationHazardTypeIndexBuild                  MigrationHazardType = "INDEX_BUILD"
	MigrationHazardTypeIndexDropped                MigrationHazardType = "INDEX_DROPPED"
	MigrationHazardTypeImpactsDatabasePerformance  MigrationHazardType = "IMPACTS_DATABASE_PERFORMANCE"
	MigrationHazardTypeIsUserGenerated             MigrationHazardType = "IS_USER_GENERATED"
	MigrationHazardTypeExtensionVersionUpgrade     MigrationHazardType = "UPGRADING_EXTENSION_VERSION"
)

type MigrationHazard struct {
	Type    MigrationHazardType
	Message string
}

func (p MigrationHazard) String() string {
	return fmt.Sprintf("%s: %s", p.Type, p.Message)
}

// Statement is one step of a plan. DDL may hold several SQL statements, e.g., a trigger followed by the statement
// setting its firing state.
type Statement struct {
	DDL     string
	Timeout time.Duration
	Hazards []MigrationHazard
}

// newStatement builds a statement from object DDL, which carries its own terminator.
func newStatement(ddl string, hazards ...MigrationHazard) Statement {
	return Statement{
		DDL:     strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ddl), ";")),
		Timeout: statementTimeoutDefault,
		Hazards: hazards,
	}
}

func (s Statement) ToSQL() string {
	return s.DDL + ";"
}

type Plan struct {
	Statements []Statement
	// CurrentSchemaHash is the hash of the snapshot the plan migrates from. It can be compared against a fresh snapshot
	// before applying the plan.
	CurrentSchemaHash string
}

// ToSQL renders the plan as a script.
func (p Plan) ToSQL() string {
	var sb strings.Builder
	for _, stmt := range p.Statements {
		sb.WriteString(stmt.ToSQL())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Hazards returns every hazard of the plan's statements, in statement order.
func (p Plan) Hazards() []MigrationHazard {
	var hazards []MigrationHazard
	for _, stmt := range p.Statements {
		hazards = append(hazards, stmt.Hazards...)
	}
	return hazards
}

func (p Plan) ApplyStatementTimeoutModifier(regex *regexp.Regexp, timeout time.Duration) Plan {
	var modifiedStmts []Statement
	for _, stmt := range p.Statements {
		if regex.MatchString(stmt.DDL) {
			stmt.Timeout = timeout
		}
		modifiedStmts = append(modifiedStmts, stmt)
	}
	p.Statements = modifiedStmts
	return p
}

func (p Plan) InsertStatement(index int, statement Statement) (Plan, error) {
	if index < 0 || index > len(p.Statements) {
		return Plan{}, fmt.Errorf("index must be >= 0 and <= %d", len(p.Statements))
	}
	if index == len(p.Statements) {
		p.Statements = append(p.Statements, statement)
		return p, nil
	}
	p.Statements = append(p.Statements[:index+1], p.Statements[index:]...)
	p.Statements[index] = statement
	return p, nil
}
