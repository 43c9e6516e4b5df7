// Package store provides the hand-written query layer over Postgres.
// Queries follow the sqlc consumer shape: a Queries struct bound to a DBTX,
// typed params structs per insert, pgtype values for nullable columns.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries exposes all database operations bound to one DBTX.
type Queries struct {
	db DBTX
}

// New binds a Queries to a pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
