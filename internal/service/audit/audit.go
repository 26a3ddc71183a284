// Package audit records attendance transitions for the compliance trail.
// Recording is fire-and-forget: a sink failure never affects the transition
// that produced the event.
package audit

import (
	"context"
	"log"
	"time"

	"sitetrack/backend/internal/entity"
	"sitetrack/backend/internal/pkg/repository/postgresql"

	"github.com/google/uuid"
)

// Recorder is the sink interface the ledger calls after every committed
// transition.
type Recorder interface {
	Record(ctx context.Context, event entity.TransitionEvent)
}

// Store writes transition events to postgres.
type Store struct {
	*postgresql.Database
}

func NewStore(database *postgresql.Database) *Store {
	return &Store{Database: database}
}

func (s *Store) Record(ctx context.Context, event entity.TransitionEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	// Outside the transition's transaction on purpose: the trail is
	// best-effort and must not hold or fail the transition.
	if _, err := s.NewInsert().Model(&event).Exec(context.WithoutCancel(ctx)); err != nil {
		log.Println("audit: recording transition event:", err)
	}
}

// Discard is a no-op Recorder for tests and tooling.
type Discard struct{}

func (Discard) Record(context.Context, entity.TransitionEvent) {}
