// Package sync replays batches of offline client actions against the
// attendance ledger with idempotency and authorization guarantees.
package sync

import (
	"context"
	"fmt"
	"net/http"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/repository/postgresql"
	"sitetrack/backend/internal/repository/postgres/attendance"
)

// Ledger is the slice of the attendance repository the reconciler drives.
// Offline actions go through the identical transitions the live path uses.
type Ledger interface {
	CheckIn(ctx context.Context, request attendance.CheckInRequest) (attendance.CheckInResponse, error)
	CheckOut(ctx context.Context, request attendance.CheckOutRequest) (attendance.CheckOutResponse, error)
	TrackLocation(ctx context.Context, request attendance.TrackRequest) (attendance.TrackResponse, error)
}

// Outcomes is the idempotency store for processed action ids. RunInTx must
// join a transaction already carried by the context, so Applied commits
// atomically with the ledger transition it marks.
type Outcomes interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Lookup(ctx context.Context, actionID string) (*entity.SyncOutcome, error)
	Applied(ctx context.Context, action Action, entityID int) error
	Rejected(ctx context.Context, action Action, reason string)
}

type Repository struct {
	ledger   Ledger
	outcomes Outcomes
}

func NewRepository(database *postgresql.Database, ledger Ledger) *Repository {
	return &Repository{ledger: ledger, outcomes: &outcomeTable{database}}
}

// ProcessBatch applies the actions strictly in submission order: later
// actions may depend on state mutated by earlier ones. One action's failure
// never aborts the rest of the batch.
func (r *Repository) ProcessBatch(ctx context.Context, actorID int, actorRole string, actions []Action) BatchResult {
	result := BatchResult{
		Applied:  []AppliedAction{},
		Rejected: []RejectedAction{},
		Skipped:  []SkippedAction{},
	}

	for _, action := range actions {
		r.processAction(ctx, actorID, actorRole, action, &result)
	}

	return result
}

func (r *Repository) processAction(ctx context.Context, actorID int, actorRole string, action Action, result *BatchResult) {
	// An unexpected failure in one action is recorded and skipped past.
	defer func() {
		if rec := recover(); rec != nil {
			result.Rejected = append(result.Rejected, RejectedAction{
				ActionID: action.ActionID,
				Reason:   ReasonInternal,
				Detail:   map[string]interface{}{"error": fmt.Sprint(rec)},
			})
		}
	}()

	if detail, ok := validateEnvelope(action); !ok {
		// Nothing to consume: a malformed envelope has no side effect
		// and re-validates identically on resubmission.
		result.Rejected = append(result.Rejected, RejectedAction{
			ActionID: action.ActionID,
			Reason:   ReasonMalformed,
			Detail:   map[string]interface{}{"error": detail},
		})
		return
	}

	if prior, err := r.outcomes.Lookup(ctx, action.ActionID); err != nil {
		result.Rejected = append(result.Rejected, RejectedAction{
			ActionID: action.ActionID,
			Reason:   ReasonInternal,
			Detail:   map[string]interface{}{"error": err.Error()},
		})
		return
	} else if prior != nil {
		result.Skipped = append(result.Skipped, SkippedAction{
			ActionID: action.ActionID,
			Status:   prior.Status,
			EntityID: prior.EntityID,
			Reason:   prior.Reason,
		})
		return
	}

	if detail, ok := authorize(actorID, actorRole, action); !ok {
		r.outcomes.Rejected(ctx, action, ReasonUnauthorized)
		result.Rejected = append(result.Rejected, RejectedAction{
			ActionID: action.ActionID,
			Reason:   ReasonUnauthorized,
			Detail:   map[string]interface{}{"error": detail},
		})
		return
	}

	entityID, err := r.apply(ctx, action)
	if err == nil {
		result.Applied = append(result.Applied, AppliedAction{
			ActionID: action.ActionID,
			EntityID: entityID,
		})
		return
	}

	if webErr, ok := web.IsRequestError(err); ok && webErr.Status < http.StatusInternalServerError {
		// Domain rejection: the id is consumed, resubmission returns the
		// same outcome without re-attempting the side effect.
		reason := rejectionReason(webErr)
		r.outcomes.Rejected(ctx, action, reason)
		result.Rejected = append(result.Rejected, RejectedAction{
			ActionID: action.ActionID,
			Reason:   reason,
			Detail:   webErr.Data,
		})
		return
	}

	// Infrastructure failure: retryable, the id stays unconsumed.
	result.Rejected = append(result.Rejected, RejectedAction{
		ActionID: action.ActionID,
		Reason:   ReasonInternal,
		Detail:   map[string]interface{}{"error": err.Error()},
	})
}

// apply runs the ledger transition and the applied-outcome insert in one
// transaction: the side effect and its idempotency marker commit together.
func (r *Repository) apply(ctx context.Context, action Action) (int, error) {
	var entityID int

	err := r.outcomes.RunInTx(ctx, func(ctx context.Context) error {
		switch action.Type {
		case ActionCheckIn:
			response, err := r.ledger.CheckIn(ctx, attendance.CheckInRequest{
				WorkerID:  action.WorkerID,
				ProjectID: action.ProjectID,
				Latitude:  *action.Latitude,
				Longitude: *action.Longitude,
				At:        action.At,
			})
			if err != nil {
				return err
			}
			entityID = response.AttendanceID

		case ActionCheckOut:
			response, err := r.ledger.CheckOut(ctx, attendance.CheckOutRequest{
				WorkerID:  action.WorkerID,
				Latitude:  action.Latitude,
				Longitude: action.Longitude,
				At:        action.At,
			})
			if err != nil {
				return err
			}
			entityID = response.AttendanceID

		case ActionLocationPing:
			response, err := r.ledger.TrackLocation(ctx, attendance.TrackRequest{
				WorkerID:  action.WorkerID,
				Latitude:  *action.Latitude,
				Longitude: *action.Longitude,
				At:        action.At,
			})
			if err != nil {
				return err
			}
			entityID = response.AttendanceID
		}

		return r.outcomes.Applied(ctx, action, entityID)
	})

	return entityID, err
}

// rejectionReason pulls the machine-readable reason code out of a domain
// rejection, falling back to the HTTP class.
func rejectionReason(webErr *web.Error) string {
	if reason, ok := webErr.Data["reason"].(string); ok {
		return reason
	}
	if webErr.Status == http.StatusConflict {
		return attendance.ReasonAlreadyCheckedIn
	}
	return "REJECTED"
}
