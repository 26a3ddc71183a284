package sync

import (
	"context"
	"net/http"
	"testing"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/repository/postgres/attendance"

	"github.com/pkg/errors"
)

// fakeLedger records the transitions the reconciler drives and answers with
// programmable responses.
type fakeLedger struct {
	checkIn  func(attendance.CheckInRequest) (attendance.CheckInResponse, error)
	checkOut func(attendance.CheckOutRequest) (attendance.CheckOutResponse, error)
	track    func(attendance.TrackRequest) (attendance.TrackResponse, error)

	calls []string
}

func (f *fakeLedger) CheckIn(_ context.Context, request attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	f.calls = append(f.calls, ActionCheckIn)
	if f.checkIn == nil {
		return attendance.CheckInResponse{AttendanceID: 100}, nil
	}
	return f.checkIn(request)
}

func (f *fakeLedger) CheckOut(_ context.Context, request attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	f.calls = append(f.calls, ActionCheckOut)
	if f.checkOut == nil {
		return attendance.CheckOutResponse{AttendanceID: 100}, nil
	}
	return f.checkOut(request)
}

func (f *fakeLedger) TrackLocation(_ context.Context, request attendance.TrackRequest) (attendance.TrackResponse, error) {
	f.calls = append(f.calls, ActionLocationPing)
	if f.track == nil {
		return attendance.TrackResponse{AttendanceID: 100}, nil
	}
	return f.track(request)
}

// fakeOutcomes is an in-memory idempotency store with real rollback
// semantics: writes made inside a failed RunInTx are discarded, writes made
// through Rejected stick regardless.
type fakeOutcomes struct {
	rows     map[string]entity.SyncOutcome
	applyErr error
}

func newFakeOutcomes() *fakeOutcomes {
	return &fakeOutcomes{rows: map[string]entity.SyncOutcome{}}
}

func (f *fakeOutcomes) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[string]entity.SyncOutcome, len(f.rows))
	for k, v := range f.rows {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		f.rows = snapshot
		return err
	}
	return nil
}

func (f *fakeOutcomes) Lookup(_ context.Context, actionID string) (*entity.SyncOutcome, error) {
	if row, ok := f.rows[actionID]; ok {
		return &row, nil
	}
	return nil, nil
}

func (f *fakeOutcomes) Applied(_ context.Context, action Action, entityID int) error {
	id := entityID
	f.rows[action.ActionID] = entity.SyncOutcome{
		ActionID: action.ActionID,
		EntityID: &id,
		Status:   entity.OutcomeApplied,
	}
	return f.applyErr
}

func (f *fakeOutcomes) Rejected(_ context.Context, action Action, reason string) {
	if _, ok := f.rows[action.ActionID]; ok {
		return
	}
	r := reason
	f.rows[action.ActionID] = entity.SyncOutcome{
		ActionID: action.ActionID,
		Status:   entity.OutcomeRejected,
		Reason:   &r,
	}
}

func newTestRepository(ledger *fakeLedger, outcomes *fakeOutcomes) *Repository {
	return &Repository{ledger: ledger, outcomes: outcomes}
}

func actionWithID(actionType, actionID string) Action {
	a := validAction(actionType)
	a.ActionID = actionID
	return a
}

func TestProcessBatchAppliesInOrder(t *testing.T) {
	ledger := &fakeLedger{}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)

	batch := []Action{
		actionWithID(ActionCheckIn, "11111111-1111-4111-8111-111111111111"),
		actionWithID(ActionLocationPing, "22222222-2222-4222-8222-222222222222"),
		actionWithID(ActionCheckOut, "33333333-3333-4333-8333-333333333333"),
	}

	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, batch)

	if len(result.Applied) != 3 || len(result.Rejected) != 0 || len(result.Skipped) != 0 {
		t.Fatalf("ProcessBatch() applied/rejected/skipped = %d/%d/%d, want 3/0/0",
			len(result.Applied), len(result.Rejected), len(result.Skipped))
	}

	want := []string{ActionCheckIn, ActionLocationPing, ActionCheckOut}
	for i, call := range ledger.calls {
		if call != want[i] {
			t.Fatalf("ledger calls = %v, want %v", ledger.calls, want)
		}
	}

	for _, action := range batch {
		row, ok := outcomes.rows[action.ActionID]
		if !ok || row.Status != entity.OutcomeApplied {
			t.Errorf("action %s not recorded as applied", action.ActionID)
		}
	}
}

func TestProcessBatchSkipsDuplicate(t *testing.T) {
	ledger := &fakeLedger{}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)

	action := validAction(ActionCheckIn)
	entityID := 42
	outcomes.rows[action.ActionID] = entity.SyncOutcome{
		ActionID: action.ActionID,
		EntityID: &entityID,
		Status:   entity.OutcomeApplied,
	}

	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})

	if len(ledger.calls) != 0 {
		t.Fatalf("ledger called %d times for a replayed action", len(ledger.calls))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("ProcessBatch() skipped = %d, want 1", len(result.Skipped))
	}
	skipped := result.Skipped[0]
	if skipped.Status != entity.OutcomeApplied || skipped.EntityID == nil || *skipped.EntityID != 42 {
		t.Errorf("skipped outcome = %+v, want original applied outcome with entity 42", skipped)
	}
}

func TestProcessBatchDomainRejectionConsumed(t *testing.T) {
	ledger := &fakeLedger{
		track: func(attendance.TrackRequest) (attendance.TrackResponse, error) {
			return attendance.TrackResponse{}, web.NewRejection(
				errors.New("exit limit exceeded"),
				http.StatusUnprocessableEntity,
				attendance.ReasonExitLimit,
				map[string]interface{}{"blacklisted": true},
			)
		},
	}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)
	action := validAction(ActionLocationPing)

	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})

	if len(result.Rejected) != 1 {
		t.Fatalf("ProcessBatch() rejected = %d, want 1", len(result.Rejected))
	}
	rejected := result.Rejected[0]
	if rejected.Reason != attendance.ReasonExitLimit {
		t.Errorf("rejection reason = %q, want %q", rejected.Reason, attendance.ReasonExitLimit)
	}
	if got, ok := rejected.Detail["blacklisted"].(bool); !ok || !got {
		t.Errorf("rejection detail = %v, want blacklisted=true carried through", rejected.Detail)
	}

	row, ok := outcomes.rows[action.ActionID]
	if !ok || row.Status != entity.OutcomeRejected {
		t.Fatal("domain rejection not persisted as a consumed outcome")
	}
	if row.Reason == nil || *row.Reason != attendance.ReasonExitLimit {
		t.Errorf("persisted reason = %v, want %q", row.Reason, attendance.ReasonExitLimit)
	}

	// A replay returns the stored outcome without driving the ledger again.
	replay := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})
	if len(replay.Skipped) != 1 || len(ledger.calls) != 1 {
		t.Errorf("replay skipped = %d, ledger calls = %d, want 1 and 1",
			len(replay.Skipped), len(ledger.calls))
	}
}

func TestProcessBatchInfraFailureRetryable(t *testing.T) {
	broken := errors.New("connection reset")
	ledger := &fakeLedger{
		checkIn: func(attendance.CheckInRequest) (attendance.CheckInResponse, error) {
			return attendance.CheckInResponse{}, broken
		},
	}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)
	action := validAction(ActionCheckIn)

	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})

	if len(result.Rejected) != 1 || result.Rejected[0].Reason != ReasonInternal {
		t.Fatalf("ProcessBatch() rejected = %+v, want one %s rejection", result.Rejected, ReasonInternal)
	}
	if _, ok := outcomes.rows[action.ActionID]; ok {
		t.Fatal("infrastructure failure consumed the action id")
	}

	// The id stayed unconsumed, so a retry reaches the ledger again.
	ledger.checkIn = nil
	retry := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})
	if len(retry.Applied) != 1 || len(ledger.calls) != 2 {
		t.Errorf("retry applied = %d, ledger calls = %d, want 1 and 2",
			len(retry.Applied), len(ledger.calls))
	}
}

func TestProcessBatchRollsBackAppliedMarkOnFailure(t *testing.T) {
	ledger := &fakeLedger{}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)
	action := validAction(ActionCheckOut)

	// The ledger succeeds but the outcome insert fails: the transaction
	// rolls back and the applied mark written inside it must not survive.
	outcomes.applyErr = errors.New("deadlock detected")
	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})

	if len(result.Rejected) != 1 || result.Rejected[0].Reason != ReasonInternal {
		t.Fatalf("ProcessBatch() rejected = %+v, want one %s rejection", result.Rejected, ReasonInternal)
	}
	if len(outcomes.rows) != 0 {
		t.Fatalf("outcome rows after rolled-back action = %d, want 0", len(outcomes.rows))
	}
}

func TestProcessBatchMalformedNotConsumed(t *testing.T) {
	ledger := &fakeLedger{}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)

	action := validAction(ActionCheckIn)
	action.Latitude = nil

	result := repo.ProcessBatch(context.Background(), 7, auth.RoleWorker, []Action{action})

	if len(result.Rejected) != 1 || result.Rejected[0].Reason != ReasonMalformed {
		t.Fatalf("ProcessBatch() rejected = %+v, want one %s rejection", result.Rejected, ReasonMalformed)
	}
	if len(ledger.calls) != 0 {
		t.Error("ledger driven by a malformed action")
	}
	if len(outcomes.rows) != 0 {
		t.Error("malformed action consumed its id")
	}
}

func TestProcessBatchUnauthorizedConsumed(t *testing.T) {
	ledger := &fakeLedger{}
	outcomes := newFakeOutcomes()
	repo := newTestRepository(ledger, outcomes)
	action := validAction(ActionCheckIn)

	result := repo.ProcessBatch(context.Background(), 99, auth.RoleWorker, []Action{action})

	if len(result.Rejected) != 1 || result.Rejected[0].Reason != ReasonUnauthorized {
		t.Fatalf("ProcessBatch() rejected = %+v, want one %s rejection", result.Rejected, ReasonUnauthorized)
	}
	if len(ledger.calls) != 0 {
		t.Error("ledger driven by an unauthorized action")
	}

	row, ok := outcomes.rows[action.ActionID]
	if !ok || row.Status != entity.OutcomeRejected || row.Reason == nil || *row.Reason != ReasonUnauthorized {
		t.Error("unauthorized action not persisted as a consumed rejection")
	}
}
