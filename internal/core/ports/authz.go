package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// Authorizer runs one authorization evaluation for a protected route.
// An empty required set means any authenticated role suffices. The returned
// decision is non-terminal (zero) when the request was cancelled mid-flight.
type Authorizer interface {
	Evaluate(ctx context.Context, token string, required []domain.Role) domain.Decision
}
