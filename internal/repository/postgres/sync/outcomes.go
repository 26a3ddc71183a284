package sync

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/repository/postgresql"
)

// outcomeTable is the sync_outcomes-backed idempotency store. RunInTx comes
// from the embedded database, so Applied joins whatever transaction the
// ledger transition opened.
type outcomeTable struct {
	*postgresql.Database
}

func (t *outcomeTable) Lookup(ctx context.Context, actionID string) (*entity.SyncOutcome, error) {
	var outcome entity.SyncOutcome

	// Reads go through the root connection: a prior outcome exists only if
	// an earlier batch committed it.
	err := t.DB.NewSelect().Model(&outcome).Where("action_id = ?", actionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting sync outcome")
	}

	return &outcome, nil
}

func (t *outcomeTable) Applied(ctx context.Context, action Action, entityID int) error {
	outcome := entity.SyncOutcome{
		ActionID:  action.ActionID,
		WorkerID:  &action.WorkerID,
		EntityID:  &entityID,
		Status:    entity.OutcomeApplied,
		CreatedAt: time.Now(),
	}

	if _, err := t.IDB(ctx).NewInsert().Model(&outcome).Exec(ctx); err != nil {
		return errors.Wrap(err, "creating sync outcome")
	}

	return nil
}

// Rejected persists a consumed rejection on the root connection. It runs
// after the ledger transaction rolled back, so the write must not ride on
// it; a lost write only costs one re-evaluation of the same rejection, hence
// the swallowed error and the conflict no-op.
func (t *outcomeTable) Rejected(ctx context.Context, action Action, reason string) {
	outcome := entity.SyncOutcome{
		ActionID:  action.ActionID,
		WorkerID:  &action.WorkerID,
		Status:    entity.OutcomeRejected,
		Reason:    &reason,
		CreatedAt: time.Now(),
	}

	_, _ = t.DB.NewInsert().Model(&outcome).On("CONFLICT (action_id) DO NOTHING").Exec(context.WithoutCancel(ctx))
}
