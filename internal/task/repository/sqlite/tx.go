package sqlite

import (
	"context"
	"fmt"

	"scheduling-assistant/internal/task/repository"
)

// Atomic runs fn against a transaction-bound repository while holding the writer lock.
func (r *implRepository) Atomic(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	if r.inTx {
		return fn(ctx, r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "sqlite repository: begin: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToBegin, err)
	}
	defer tx.Rollback()

	txRepo := &implRepository{
		l:    r.l,
		db:   r.db,
		q:    tx,
		mu:   r.mu,
		inTx: true,
		now:  r.now,
	}
	if err := fn(ctx, txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "sqlite repository: commit: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToCommit, err)
	}
	return nil
}
