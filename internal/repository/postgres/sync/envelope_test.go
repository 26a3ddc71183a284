package sync

import (
	"net/http"
	"testing"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/repository/postgres/attendance"

	"github.com/pkg/errors"
)

func fl(v float64) *float64 { return &v }

func validAction(actionType string) Action {
	return Action{
		ActionID:  "3b1e9a3c-8a53-4c53-b8a2-6f0d2a1d9e11",
		Type:      actionType,
		WorkerID:  7,
		ProjectID: 3,
		Latitude:  fl(41.31),
		Longitude: fl(69.24),
	}
}

func TestValidateEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Action)
		wantOK bool
	}{
		{"valid check-in", func(a *Action) {}, true},
		{"missing action id", func(a *Action) { a.ActionID = "" }, false},
		{"action id not a uuid", func(a *Action) { a.ActionID = "not-a-uuid" }, false},
		{"missing worker", func(a *Action) { a.WorkerID = 0 }, false},
		{"check-in without project", func(a *Action) { a.ProjectID = 0 }, false},
		{"check-in without coordinates", func(a *Action) { a.Latitude = nil }, false},
		{"unknown type", func(a *Action) { a.Type = "TELEPORT" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAction(ActionCheckIn)
			tt.mutate(&a)

			reason, ok := validateEnvelope(a)
			if ok != tt.wantOK {
				t.Errorf("validateEnvelope() ok = %v, want %v (reason %q)", ok, tt.wantOK, reason)
			}
			if !ok && reason == "" {
				t.Error("validateEnvelope() rejected without a reason")
			}
		})
	}

	t.Run("check-out coordinates optional", func(t *testing.T) {
		a := validAction(ActionCheckOut)
		a.Latitude = nil
		a.Longitude = nil

		if reason, ok := validateEnvelope(a); !ok {
			t.Errorf("validateEnvelope() rejected check-out without coordinates: %q", reason)
		}
	})

	t.Run("location ping needs coordinates", func(t *testing.T) {
		a := validAction(ActionLocationPing)
		a.Longitude = nil

		if _, ok := validateEnvelope(a); ok {
			t.Error("validateEnvelope() accepted a ping without coordinates")
		}
	})
}

func TestAuthorize(t *testing.T) {
	action := validAction(ActionCheckIn)

	tests := []struct {
		name      string
		actorID   int
		actorRole string
		wantOK    bool
	}{
		{"worker for own action", 7, auth.RoleWorker, true},
		{"supervisor for own action", 7, auth.RoleSupervisor, true},
		{"worker for someone else", 8, auth.RoleWorker, false},
		{"admin may not record attendance", 7, auth.RoleAdmin, false},
		{"dashboard may not record attendance", 7, auth.RoleDashboard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := authorize(tt.actorID, tt.actorRole, action)
			if ok != tt.wantOK {
				t.Errorf("authorize(%d, %s) ok = %v, want %v (reason %q)", tt.actorID, tt.actorRole, ok, tt.wantOK, reason)
			}
		})
	}
}

func TestRejectionReason(t *testing.T) {
	t.Run("reason code carried in error data", func(t *testing.T) {
		err := web.NewRejection(errors.New("outside geofence"), http.StatusUnprocessableEntity, attendance.ReasonGeofenceOut, map[string]interface{}{"distance_meters": 128.4})
		webErr, _ := web.IsRequestError(err)

		if got := rejectionReason(webErr); got != attendance.ReasonGeofenceOut {
			t.Errorf("rejectionReason() = %q, want %q", got, attendance.ReasonGeofenceOut)
		}
	})

	t.Run("bare conflict maps to already checked in", func(t *testing.T) {
		err := web.NewRequestError(errors.New("duplicate"), http.StatusConflict)
		webErr, _ := web.IsRequestError(err)

		if got := rejectionReason(webErr); got != attendance.ReasonAlreadyCheckedIn {
			t.Errorf("rejectionReason() = %q, want %q", got, attendance.ReasonAlreadyCheckedIn)
		}
	})

	t.Run("reasonless rejection falls back", func(t *testing.T) {
		err := web.NewRequestError(errors.New("bad request"), http.StatusUnprocessableEntity)
		webErr, _ := web.IsRequestError(err)

		if got := rejectionReason(webErr); got != "REJECTED" {
			t.Errorf("rejectionReason() = %q, want REJECTED", got)
		}
	})
}
