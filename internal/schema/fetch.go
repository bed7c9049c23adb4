package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/concurrent"
	"github.com/stripe/pg-schema-inspect/internal/queries"
)

// Inspector loads a snapshot from a live database.
type Inspector interface {
	Inspect(ctx context.Context, db queries.DBTX, opts ...LoadOpt) (*Inspected, error)
}

type postgresInspector struct{}

func (postgresInspector) Inspect(ctx context.Context, db queries.DBTX, opts ...LoadOpt) (*Inspected, error) {
	return GetSchema(ctx, db, opts...)
}

// NewInspector returns the inspector for the given dialect.
func NewInspector(dialect string) (Inspector, error) {
	switch strings.ToLower(dialect) {
	case "postgresql", "postgres":
		return postgresInspector{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", dialect, ErrUnsupportedDialect)
	}
}

// GetSchema fetches the catalog rows of db and loads them into a snapshot.
func GetSchema(ctx context.Context, db queries.DBTX, opts ...LoadOpt) (*Inspected, error) {
	// Only *sql.DB is known to be safe for concurrent use, e.g., a single pgx connection is not.
	goroutineRunner := concurrent.NewSynchronousGoroutineRunner()
	if _, ok := db.(*sql.DB); ok {
		goroutineRunner = concurrent.NewGoroutineLimiter(50)
	}

	// Reject bad options before querying anything.
	if _, _, err := buildLoadOptions(opts); err != nil {
		return nil, err
	}

	rows, err := fetchCatalogRows(ctx, queries.New(db), goroutineRunner)
	if err != nil {
		return nil, err
	}
	return Load(rows, opts...)
}

func fetchCatalogRows(ctx context.Context, q *queries.Queries, runner concurrent.GoroutineRunner) (CatalogRows, error) {
	var rows CatalogRows
	g := concurrent.NewGroup(runner)
	submissions := []struct {
		name   string
		submit func() error
	}{
		{"schemas", func() error { return concurrent.SubmitInto(ctx, g, &rows.Schemas, func() ([]queries.SchemaRow, error) { return q.GetSchemas(ctx) }) }},
		{"enums", func() error { return concurrent.SubmitInto(ctx, g, &rows.Enums, func() ([]queries.EnumRow, error) { return q.GetEnums(ctx) }) }},
		{"relations", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Relations, func() ([]queries.RelationRow, error) { return q.GetRelations(ctx) })
		}},
		{"indexes", func() error { return concurrent.SubmitInto(ctx, g, &rows.Indexes, func() ([]queries.IndexRow, error) { return q.GetIndexes(ctx) }) }},
		{"sequences", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Sequences, func() ([]queries.SequenceRow, error) { return q.GetSequences(ctx) })
		}},
		{"constraints", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Constraints, func() ([]queries.ConstraintRow, error) { return q.GetConstraints(ctx) })
		}},
		{"extensions", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Extensions, func() ([]queries.ExtensionRow, error) { return q.GetExtensions(ctx) })
		}},
		{"functions", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Functions, func() ([]queries.FunctionRow, error) { return q.GetFunctions(ctx) })
		}},
		{"privileges", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Privileges, func() ([]queries.PrivilegeRow, error) { return q.GetPrivileges(ctx) })
		}},
		{"collations", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Collations, func() ([]queries.CollationRow, error) { return q.GetCollations(ctx) })
		}},
		{"domains", func() error { return concurrent.SubmitInto(ctx, g, &rows.Domains, func() ([]queries.DomainRow, error) { return q.GetDomains(ctx) }) }},
		{"triggers", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Triggers, func() ([]queries.TriggerRow, error) { return q.GetTriggers(ctx) })
		}},
		{"policies", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Policies, func() ([]queries.PolicyRow, error) { return q.GetPolicies(ctx) })
		}},
		{"comments", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Comments, func() ([]queries.CommentRow, error) { return q.GetComments(ctx) })
		}},
		{"dependencies", func() error {
			return concurrent.SubmitInto(ctx, g, &rows.Dependencies, func() ([]queries.DependencyRow, error) { return q.GetDependencies(ctx) })
		}},
	}
	for _, s := range submissions {
		if err := s.submit(); err != nil {
			return CatalogRows{}, fmt.Errorf("starting %s fetch: %w", s.name, err)
		}
	}
	if err := g.Wait(ctx); err != nil {
		return CatalogRows{}, fmt.Errorf("fetching catalog: %w", err)
	}
	return rows, nil
}
