// Package ports defines the contracts between the dispatch core and its
// infrastructure: order storage, transactions and decision metrics.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every read is scoped to a tenant except the maintenance listing used by jobs.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores the aggregate only if the stored row still has
	// expectedVersion. It is the compare-and-set that keeps two concurrent
	// transitions from both applying on the same observed status.
	//
	// Returns:
	//   - *errs.VersionIsInvalidError if the row moved on or does not exist
	//     within the order's tenant
	Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// Get retrieves an order of the given tenant.
	// Returns *errs.ObjectNotFoundError when no such order exists in that tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error)

	// ListByStatus returns the tenant's orders in any of statuses, oldest update first.
	ListByStatus(ctx context.Context, tenantID kernel.UUID, statuses []order.Status) ([]*order.Order, error)

	// ListAssignedBefore returns up to limit orders of any tenant that have been
	// in the assigned status since before cutoff, oldest first.
	ListAssignedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
