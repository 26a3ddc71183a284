package sync

import (
	"context"

	"sitetrack/backend/internal/repository/postgres/sync"
)

type Sync interface {
	ProcessBatch(ctx context.Context, actorID int, actorRole string, actions []sync.Action) sync.BatchResult
}
