package schema

import (
	"context"
	"fmt"

	internalschema "github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/sqldb"
)

type (
	LoadOpt  = internalschema.LoadOpt
	OrderOpt = internalschema.OrderOpt

	// CyclicDependencyError holds every signature that could not be ordered.
	CyclicDependencyError = internalschema.CyclicDependencyError
)

var (
	WithIncludeSchemas = internalschema.WithIncludeSchemas
	WithExcludeSchemas = internalschema.WithExcludeSchemas
	WithLogger         = internalschema.WithLogger

	WithDropOrder      = internalschema.WithDropOrder
	WithoutSelectables = internalschema.WithoutSelectables
	WithoutTriggers    = internalschema.WithoutTriggers
	WithoutEnums       = internalschema.WithoutEnums
	WithForeignKeyDeps = internalschema.WithForeignKeyDeps

	ErrAmbiguousFilter  = internalschema.ErrAmbiguousFilter
	ErrCyclicDependency = internalschema.ErrCyclicDependency
)

// GetSchemaHash hash gets the hash of the target schema. It can be used to compare against the hash in the migration
// plan to determine if the plan is still valid.
//
// We do not expose the snapshot struct yet because it is subject to change, and we do not want folks depending on its
// API.
func GetSchemaHash(ctx context.Context, queryable sqldb.Queryable, opts ...LoadOpt) (string, error) {
	schema, err := internalschema.GetSchema(ctx, queryable, opts...)
	if err != nil {
		return "", fmt.Errorf("getting schema: %w", err)
	}
	hash, err := schema.Hash()
	if err != nil {
		return "", fmt.Errorf("hashing schema: %w", err)
	}

	return hash, nil
}

// GetDependencyOrder inspects the database and returns the signatures of its views, functions, tables, enums and
// triggers in an order they can be created in, or dropped in with WithDropOrder.
func GetDependencyOrder(ctx context.Context, queryable sqldb.Queryable, loadOpts []LoadOpt, orderOpts ...OrderOpt) ([]string, error) {
	schema, err := internalschema.GetSchema(ctx, queryable, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("getting schema: %w", err)
	}
	order, err := schema.DependencyOrder(orderOpts...)
	if err != nil {
		return nil, fmt.Errorf("ordering objects: %w", err)
	}
	return order, nil
}
