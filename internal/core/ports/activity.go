package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// ActivityRepository defines persistence for audit log entries.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*domain.ActivityEntry, error)
}

// ActivityRecorder accepts audit entries for asynchronous persistence.
// Record must never block the caller.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}
