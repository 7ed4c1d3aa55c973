package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
)

// ErrNoOpTransition is returned when a caller requests the status an order
// already has.
var ErrNoOpTransition = errors.New("no-op transition")

// RejectionKind tells why a transition request was rejected.
type RejectionKind int

const (
	NotRejected RejectionKind = iota
	NoOpTransition
	IllegalTransition
	Unauthorized
)

func (k RejectionKind) String() string {
	switch k {
	case NotRejected:
		return "none"
	case NoOpTransition:
		return "no_op"
	case IllegalTransition:
		return "illegal"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// TransitionResult is the answer to one transition request. It is approved
// with the new status, or rejected with a kind and, for Unauthorized, the
// permission that was missing.
type TransitionResult struct {
	from       order.Status
	to         order.Status
	rejection  RejectionKind
	permission access.Permission
	decision   access.Decision
}

func (r TransitionResult) IsApproved() bool {
	return r.rejection == NotRejected && r.decision.IsApproved()
}

// NewStatus is the requested status for approvals and Unknown otherwise.
func (r TransitionResult) NewStatus() order.Status {
	if !r.IsApproved() {
		return order.Unknown
	}
	return r.to
}

func (r TransitionResult) From() order.Status {
	return r.from
}

func (r TransitionResult) To() order.Status {
	return r.to
}

func (r TransitionResult) Rejection() RejectionKind {
	return r.rejection
}

// Permission is the permission the transition required. It is empty for
// no-op and illegal requests.
func (r TransitionResult) Permission() access.Permission {
	return r.permission
}

// Err maps a rejection to its typed error and returns nil for approvals:
// ErrNoOpTransition, *order.IllegalTransitionError or *access.AccessDeniedError.
func (r TransitionResult) Err() error {
	switch r.rejection {
	case NotRejected:
		return r.decision.Err()
	case NoOpTransition:
		return fmt.Errorf("%w: order is already %s", ErrNoOpTransition, r.from)
	case IllegalTransition:
		return &order.IllegalTransitionError{From: r.from, To: r.to}
	default:
		return r.decision.Err()
	}
}

// DispatchCoordinator composes the guard and the lifecycle into one decision
// for a single requested transition. It performs no persistence and no
// locking: callers store the new status under the storage layer's
// compare-and-set.
type DispatchCoordinator struct {
	guard     AuthorizationGuard
	lifecycle order.Lifecycle
}

// NewDispatchCoordinator checks that every permission named by the lifecycle is
// registered in the guard's catalog, so a mismatched table fails at startup
// instead of denying requests one by one.
func NewDispatchCoordinator(guard AuthorizationGuard, lifecycle order.Lifecycle) (DispatchCoordinator, error) {
	var problems []error
	for _, p := range lifecycle.Permissions() {
		if !guard.Catalog().Has(p) {
			problems = append(problems, &access.UnknownPermissionError{Permission: p})
		}
	}
	if err := errors.Join(problems...); err != nil {
		return DispatchCoordinator{}, fmt.Errorf("dispatch coordinator: %w", err)
	}
	return DispatchCoordinator{guard: guard, lifecycle: lifecycle}, nil
}

// MustDispatchCoordinator is NewDispatchCoordinator for the default tables.
func MustDispatchCoordinator(guard AuthorizationGuard, lifecycle order.Lifecycle) DispatchCoordinator {
	c, err := NewDispatchCoordinator(guard, lifecycle)
	if err != nil {
		panic(err)
	}
	return c
}

func (c DispatchCoordinator) Lifecycle() order.Lifecycle {
	return c.lifecycle
}

func (c DispatchCoordinator) Guard() AuthorizationGuard {
	return c.guard
}

// RequestTransition decides whether role may move an order from current to
// requested. The checks run in order: no-op, legality, permission.
func (c DispatchCoordinator) RequestTransition(role access.Role, current, requested order.Status) TransitionResult {
	result := TransitionResult{from: current, to: requested}

	if current == requested {
		result.rejection = NoOpTransition
		return result
	}

	permission, err := c.lifecycle.RequiredPermissionFor(current, requested)
	if err != nil {
		result.rejection = IllegalTransition
		return result
	}

	result.permission = permission
	result.decision = c.guard.Check(role, permission)
	if !result.decision.IsApproved() {
		result.rejection = Unauthorized
	}
	return result
}

// AllowedNextStatuses lists the statuses role may move an order to from
// current, in lifecycle order.
func (c DispatchCoordinator) AllowedNextStatuses(role access.Role, current order.Status) []order.Status {
	var out []order.Status
	for _, to := range c.lifecycle.NextStatuses(current) {
		if c.RequestTransition(role, current, to).IsApproved() {
			out = append(out, to)
		}
	}
	return out
}
