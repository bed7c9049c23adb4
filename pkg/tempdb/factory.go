package tempdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v4"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/internal/util"
	"github.com/stripe/pg-schema-inspect/pkg/log"
)

const (
	DefaultOnInstanceDbPrefix       = "pgschemainspecttmp_"
	DefaultOnInstanceMetadataSchema = "pgschemainspecttmp_metadata"
	DefaultOnInstanceMetadataTable  = "metadata"
)

type (
	Dropper func(ctx context.Context) error

	// Database is a temporary database. Always call Drop to clean up the database and its connections.
	Database struct {
		Name     string
		ConnPool *sql.DB
		// MetadataSchema holds the factory's bookkeeping table.
		MetadataSchema string
		// ExcludeMetadataOptions keeps the factory's bookkeeping schema out of inspections of the database.
		ExcludeMetadataOptions []schema.LoadOpt
		Drop                   Dropper
	}

	// Factory is used to create temp databases. These databases do not have to be in-memory. They might be, for
	// example, be created on the target Postgres server
	Factory interface {
		Create(ctx context.Context) (*Database, error)

		io.Closer
	}
)

type (
	onInstanceFactoryOptions struct {
		dbPrefix       string
		metadataSchema string
		metadataTable  string
		logger         log.Logger
		rootDatabase   string
	}

	OnInstanceFactoryOpt func(*onInstanceFactoryOptions)
)

// WithLogger sets the logger for the factory. If not set, a SimpleLogger will be used
func WithLogger(logger log.Logger) OnInstanceFactoryOpt {
	return func(opts *onInstanceFactoryOptions) {
		opts.logger = logger
	}
}

// WithDbPrefix sets the prefix for the temp database name
func WithDbPrefix(prefix string) OnInstanceFactoryOpt {
	return func(opts *onInstanceFactoryOptions) {
		opts.dbPrefix = prefix
	}
}

// WithMetadataSchema sets the name of the schema containing the metadata
func WithMetadataSchema(schema string) OnInstanceFactoryOpt {
	return func(opts *onInstanceFactoryOptions) {
		opts.metadataSchema = schema
	}
}

// WithMetadataTable sets the metadata table name
func WithMetadataTable(table string) OnInstanceFactoryOpt {
	return func(opts *onInstanceFactoryOptions) {
		opts.metadataTable = table
	}
}

// WithRootDatabase sets the database to connect to when creating temporary databases
func WithRootDatabase(db string) OnInstanceFactoryOpt {
	return func(opts *onInstanceFactoryOptions) {
		opts.rootDatabase = db
	}
}

type (
	CreateConnForDbFn func(ctx context.Context, dbName string) (*sql.DB, error)

	// onInstanceFactory creates temporary databases on the provided Postgres server
	onInstanceFactory struct {
		rootDb          *sql.DB
		createConnForDb CreateConnForDbFn
		options         onInstanceFactoryOptions
	}
)

// NewOnInstanceFactory creates temporary databases on the Postgres instance reached through createConnForDb. The
// root database is used to create and drop the temporary databases, which are then connected to through
// createConnForDb as well.
// Make sure to always call Close() on the returned Factory to ensure the root connection is closed
//
// Databases orphaned by a crash keep the prefix, and their metadata table records when they were created, so they
// can be cleaned up with a TTL.
func NewOnInstanceFactory(ctx context.Context, createConnForDb CreateConnForDbFn, opts ...OnInstanceFactoryOpt) (Factory, error) {
	options := onInstanceFactoryOptions{
		dbPrefix:       DefaultOnInstanceDbPrefix,
		metadataSchema: DefaultOnInstanceMetadataSchema,
		metadataTable:  DefaultOnInstanceMetadataTable,
		rootDatabase:   "postgres",
		logger:         log.SimpleLogger(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if !pgidentifier.IsSimpleIdentifier(options.dbPrefix) {
		return nil, fmt.Errorf("dbPrefix (%s) must be a simple Postgres identifier matching the following regex: %s", options.dbPrefix, pgidentifier.SimpleIdentifierRegex)
	}

	rootDb, err := createConnForDb(ctx, options.rootDatabase)
	if err != nil {
		return nil, err
	}
	if err := assertConnPoolIsOnExpectedDatabase(ctx, rootDb, options.rootDatabase); err != nil {
		rootDb.Close()
		return nil, fmt.Errorf("assertConnPoolIsOnExpectedDatabase: %w", err)
	}

	return &onInstanceFactory{
		rootDb:          rootDb,
		createConnForDb: createConnForDb,
		options:         options,
	}, nil
}

func (o *onInstanceFactory) Close() error {
	return o.rootDb.Close()
}

func (o *onInstanceFactory) Create(ctx context.Context) (_ *Database, retErr error) {
	id, err := pgidentifier.RandomUUID()
	if err != nil {
		return nil, err
	}
	tempDbName := o.options.dbPrefix + id
	if _, err = o.rootDb.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s;", pgidentifier.QuoteIdentifier(tempDbName))); err != nil {
		return nil, fmt.Errorf("creating database %s: %w", tempDbName, err)
	}
	defer func() {
		// Only drop the temp database if an error occurred during creation
		if retErr != nil {
			if err := o.dropTempDatabase(ctx, tempDbName); err != nil {
				o.options.logger.Errorf("Failed to drop temporary database %s because of error %s. This drop was automatically triggered by error %s", tempDbName, err.Error(), retErr.Error())
			}
		}
	}()

	tempDbConn, err := o.createConnForDb(ctx, tempDbName)
	if err != nil {
		return nil, err
	}
	// The drop may fail, so the pool is closed on its own.
	defer util.DoOnErrOrPanic(&retErr, func() {
		_ = tempDbConn.Close()
	})
	if err := assertConnPoolIsOnExpectedDatabase(ctx, tempDbConn, tempDbName); err != nil {
		return nil, fmt.Errorf("assertConnPoolIsOnExpectedDatabase: %w", err)
	}

	// Record when the database was created, so a cleanup process can find databases the dropper never reached.
	sanitizedSchemaName := pgx.Identifier{o.options.metadataSchema}.Sanitize()
	sanitizedTableName := pgx.Identifier{o.options.metadataSchema, o.options.metadataTable}.Sanitize()
	createMetadataStmts := fmt.Sprintf(`
		CREATE SCHEMA %s
			CREATE TABLE %s(
				db_created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
			);
		INSERT INTO %s DEFAULT VALUES;
	`, sanitizedSchemaName, sanitizedTableName, sanitizedTableName)
	if _, err := tempDbConn.ExecContext(ctx, createMetadataStmts); err != nil {
		return nil, fmt.Errorf("creating metadata: %w", err)
	}

	return &Database{
		Name:                   tempDbName,
		ConnPool:               tempDbConn,
		MetadataSchema:         o.options.metadataSchema,
		ExcludeMetadataOptions: []schema.LoadOpt{schema.WithExcludeSchemas(o.options.metadataSchema)},
		Drop: func(ctx context.Context) error {
			_ = tempDbConn.Close()
			return o.dropTempDatabase(ctx, tempDbName)
		},
	}, nil
}

// assertConnPoolIsOnExpectedDatabase provides validation that a user properly passed in a proper CreateConnForDbFn
func assertConnPoolIsOnExpectedDatabase(ctx context.Context, connPool *sql.DB, expectedDatabase string) error {
	var dbName string
	if err := connPool.QueryRowContext(ctx, "SELECT current_database();").Scan(&dbName); err != nil {
		return err
	}
	if dbName != expectedDatabase {
		return fmt.Errorf("connection pool is on database %s, expected %s", dbName, expectedDatabase)
	}

	return nil
}

func (o *onInstanceFactory) dropTempDatabase(ctx context.Context, dbName string) error {
	if !strings.HasPrefix(dbName, o.options.dbPrefix) {
		return fmt.Errorf("drop non-temporary database: %s", dbName)
	}
	_, err := o.rootDb.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s;", pgidentifier.QuoteIdentifier(dbName)))
	return err
}
