package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Transactor opens the transactions that wrap balance mutations: postback
// credits, withdrawal reservations and rejection refunds. Callers lock rows
// with the repos' ForUpdate reads inside the returned tx.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin balance tx: %w", err)
	}
	return tx, nil
}
