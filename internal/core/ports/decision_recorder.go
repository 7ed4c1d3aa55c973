package ports

import (
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
)

// Transition outcomes reported to a DecisionRecorder.
const (
	OutcomeApproved     = "approved"
	OutcomeNoOp         = "no_op"
	OutcomeIllegal      = "illegal"
	OutcomeUnauthorized = "unauthorized"
	OutcomeConflict     = "conflict"
)

// DecisionRecorder observes authorization outcomes. Implementations must be
// safe for concurrent use and must not block.
type DecisionRecorder interface {
	// RecordCheck reports one permission check.
	RecordCheck(role access.Role, permission access.Permission, approved bool)

	// RecordTransition reports one transition request and its outcome.
	RecordTransition(role access.Role, from, to order.Status, outcome string)
}

// NopDecisionRecorder discards everything.
type NopDecisionRecorder struct{}

func (NopDecisionRecorder) RecordCheck(access.Role, access.Permission, bool) {}

func (NopDecisionRecorder) RecordTransition(access.Role, order.Status, order.Status, string) {}
