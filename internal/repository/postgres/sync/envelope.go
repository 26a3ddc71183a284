package sync

import (
	"sitetrack/backend/internal/auth"

	"github.com/google/uuid"
)

// Envelope rejection reasons.
const (
	ReasonMalformed    = "MALFORMED_ACTION"
	ReasonUnauthorized = "UNAUTHORIZED_ACTOR"
	ReasonInternal     = "INTERNAL_ERROR"
)

// validateEnvelope checks that an action is well formed for its declared
// type. It is pure: no storage, no clock.
func validateEnvelope(a Action) (string, bool) {
	if a.ActionID == "" {
		return "action_id is required", false
	}
	if _, err := uuid.Parse(a.ActionID); err != nil {
		return "action_id must be a uuid", false
	}
	if a.WorkerID <= 0 {
		return "worker_id is required", false
	}

	switch a.Type {
	case ActionCheckIn:
		if a.ProjectID <= 0 {
			return "project_id is required for check-in", false
		}
		if a.Latitude == nil || a.Longitude == nil {
			return "coordinates are required for check-in", false
		}
	case ActionCheckOut:
		// Coordinates are optional on check-out.
	case ActionLocationPing:
		if a.Latitude == nil || a.Longitude == nil {
			return "coordinates are required for a location ping", false
		}
	default:
		return "unknown action type", false
	}

	return "", true
}

// authorize applies the same precondition the live endpoint would: the
// submitting identity is the worker the action refers to, in a role allowed
// to record attendance.
func authorize(actorID int, actorRole string, a Action) (string, bool) {
	if actorRole != auth.RoleWorker && actorRole != auth.RoleSupervisor {
		return "role may not record attendance", false
	}
	if actorID != a.WorkerID {
		return "action refers to another worker", false
	}
	return "", true
}
