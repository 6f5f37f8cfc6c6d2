// internal/service/accrual.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"banking-service/internal/repository"
	"banking-service/pkg/db"

	"github.com/shopspring/decimal"
)

var (
	// accrualRate is the per-tick growth applied to a balance below its
	// ceiling.
	accrualRate = decimal.RequireFromString("0.05")
	// accrualCeilingFactor caps a balance at this multiple of the user's
	// initial deposit.
	accrualCeilingFactor = decimal.RequireFromString("2.07")
)

// AccrualJob periodically grows every balance by 5%, capped at 2.07 times the
// user's initial deposit. Exactly one job runs per process; ticks are handled
// sequentially by a single goroutine, so scans never overlap.
type AccrualJob struct {
	dbBeginner db.DBTxBeginner
	userRepo   repository.UserRepository
	interval   time.Duration
	logger     *slog.Logger
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewAccrualJob creates the accrual job with the given tick interval.
func NewAccrualJob(
	dbBeginner db.DBTxBeginner,
	userRepo repository.UserRepository,
	interval time.Duration,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) *AccrualJob {
	return &AccrualJob{
		dbBeginner: dbBeginner,
		userRepo:   userRepo,
		interval:   interval,
		logger:     logger,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// Run ticks on the configured interval until ctx is cancelled. A slow scan
// delays the next tick instead of overlapping it.
func (j *AccrualJob) Run(ctx context.Context) {
	j.logger.Info("Balance accrual job started", "interval", j.interval.String())
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Balance accrual job stopped")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("Balance accrual run failed", "error", err)
			}
		}
	}
}

// RunOnce performs one batch scan over all users in a single transaction.
// Users at or above their ceiling are untouched; an empty user set is a
// logged no-op.
func (j *AccrualJob) RunOnce(ctx context.Context) error {
	txController, err := j.beginTx(ctx, j.dbBeginner)
	if err != nil {
		return fmt.Errorf("accrual: failed to begin transaction: %w", err)
	}
	defer j.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("accrual: transaction controller does not implement DBExecutor")
	}

	users, err := j.userRepo.All(ctx, txExecutor)
	if err != nil {
		return fmt.Errorf("accrual: failed to list users: %w", err)
	}
	if len(users) == 0 {
		j.logger.Info("No users found. Skipping balance accrual.")
		return j.commitTx(txController)
	}

	updated := 0
	for i := range users {
		user := &users[i]
		ceiling := user.InitialDeposit.Mul(accrualCeilingFactor)
		if user.Balance.GreaterThanOrEqual(ceiling) {
			continue
		}
		next := user.Balance.Add(user.Balance.Mul(accrualRate).Round(3))
		if next.GreaterThan(ceiling) {
			// The stored value keeps the fixed 3-digit scale, so the clamp
			// rounds toward zero rather than over the ceiling.
			next = ceiling.RoundDown(3)
		}
		if next.Equal(user.Balance) {
			continue
		}
		if err := j.userRepo.UpdateBalance(ctx, txExecutor, user.ID, next); err != nil {
			return fmt.Errorf("accrual: failed to update user %d: %w", user.ID, err)
		}
		updated++
	}

	if err := j.commitTx(txController); err != nil {
		return fmt.Errorf("accrual: failed to commit transaction: %w", err)
	}

	j.logger.Info("Balance accrual completed", "users", len(users), "updated", updated)
	return nil
}
