package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DefaultReleaseBatchSize bounds how many orders one run releases.
const DefaultReleaseBatchSize = 100

var ErrReleaseStaleAssignmentsCommandIsNotConstructed = errors.New(
	"ReleaseStaleAssignmentsCommand must be created via NewReleaseStaleAssignmentsCommand constructor",
)

// ReleaseStaleAssignmentsCommand returns orders that were assigned before
// cutoff and never started to pending, so dispatchers can reassign them.
//
// Example:
//
//	cmd, _ := NewReleaseStaleAssignmentsCommand(time.Now().Add(-30*time.Minute), DefaultReleaseBatchSize)
//	released, err := handler.Handle(ctx, cmd)
type ReleaseStaleAssignmentsCommand struct {
	cutoff time.Time
	limit  int

	guard guard.ConstructorGuard
}

func NewReleaseStaleAssignmentsCommand(cutoff time.Time, limit int) (ReleaseStaleAssignmentsCommand, error) {
	if cutoff.IsZero() {
		return ReleaseStaleAssignmentsCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	if limit <= 0 {
		return ReleaseStaleAssignmentsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}

	return ReleaseStaleAssignmentsCommand{
		cutoff: cutoff,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseStaleAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStaleAssignmentsCommandIsNotConstructed)
}

func (c ReleaseStaleAssignmentsCommand) Cutoff() time.Time {
	return c.cutoff
}

func (c ReleaseStaleAssignmentsCommand) Limit() int {
	return c.limit
}
