package diff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/log"
	"github.com/stripe/pg-schema-inspect/pkg/sqldb"
	"github.com/stripe/pg-schema-inspect/pkg/tempdb"
)

var errTempDbFactoryRequired = errors.New("a temp database factory is required to load a schema from DDL")

// SchemaSourceDeps are the dependencies a SchemaSource may need to produce a snapshot.
type SchemaSourceDeps struct {
	TempDbFactory tempdb.Factory
	Logger        log.Logger
	LoadOpts      []schema.LoadOpt
}

// SchemaSource produces a schema snapshot, e.g., to diff against.
type SchemaSource interface {
	GetSchema(ctx context.Context, deps SchemaSourceDeps) (*schema.Inspected, error)
}

type (
	ddlStatement struct {
		stmt string
		// file is the file the statement was read from, if any
		file string
	}

	ddlSchemaSource struct {
		ddl []ddlStatement
	}
)

// DirSchemaSource returns a SchemaSource that runs every .sql file under the given directories, in lexical order, on
// a temporary database and inspects the result.
func DirSchemaSource(dirs []string) (SchemaSource, error) {
	var ddl []ddlStatement
	for _, dir := range dirs {
		stmts, err := getDDLFromPath(dir)
		if err != nil {
			return nil, err
		}
		ddl = append(ddl, stmts...)
	}
	return &ddlSchemaSource{ddl: ddl}, nil
}

func getDDLFromPath(path string) ([]ddlStatement, error) {
	var ddl []ddlStatement
	if err := filepath.Walk(path, func(path string, entry os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walking path %q: %w", path, err)
		}
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".sql" {
			return nil
		}

		fileContents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file %q: %w", entry.Name(), err)
		}

		// Files are run whole: splitting on ; would break on strings, comments and function bodies.
		ddl = append(ddl, ddlStatement{
			stmt: string(fileContents),
			file: path,
		})
		return nil
	}); err != nil {
		return nil, err
	}
	return ddl, nil
}

// DDLSchemaSource returns a SchemaSource that runs the given DDL on a temporary database and inspects the result.
func DDLSchemaSource(stmts []string) SchemaSource {
	var ddl []ddlStatement
	for _, stmt := range stmts {
		ddl = append(ddl, ddlStatement{stmt: stmt})
	}
	return &ddlSchemaSource{ddl: ddl}
}

func (s *ddlSchemaSource) GetSchema(ctx context.Context, deps SchemaSourceDeps) (*schema.Inspected, error) {
	if deps.TempDbFactory == nil {
		return nil, errTempDbFactoryRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.NoopLogger()
	}

	tempDb, err := deps.TempDbFactory.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating temp database: %w", err)
	}
	defer func(drop tempdb.Dropper) {
		if err := drop(ctx); err != nil {
			logger.Errorf("an error occurred while dropping the temp database: %s", err)
		}
	}(tempDb.Drop)

	for _, ddlStmt := range s.ddl {
		if _, err := tempDb.ConnPool.ExecContext(ctx, ddlStmt.stmt); err != nil {
			debugInfo := ""
			if ddlStmt.file != "" {
				debugInfo = fmt.Sprintf(" (from %s)", ddlStmt.file)
			}
			return nil, fmt.Errorf("running DDL%s: %w", debugInfo, err)
		}
	}

	inspected, err := schema.GetSchema(ctx, tempDb.ConnPool, deps.LoadOpts...)
	if err != nil {
		return nil, err
	}
	return inspected.FilterBySchema(nil, []string{tempDb.MetadataSchema})
}

type dbSchemaSource struct {
	queryable sqldb.Queryable
}

// DBSchemaSource returns a SchemaSource that inspects the given database. It is recommended that the queryable is a
// *sql.DB with a max # of connections set.
func DBSchemaSource(queryable sqldb.Queryable) SchemaSource {
	return &dbSchemaSource{queryable: queryable}
}

func (s *dbSchemaSource) GetSchema(ctx context.Context, deps SchemaSourceDeps) (*schema.Inspected, error) {
	return schema.GetSchema(ctx, s.queryable, deps.LoadOpts...)
}
