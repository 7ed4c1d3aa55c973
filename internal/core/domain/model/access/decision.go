package access

import (
	"errors"
	"fmt"
)

// ErrAccessDenied is the sentinel behind every denied Decision turned into an error.
var ErrAccessDenied = errors.New("access denied")

// AccessDeniedError carries the denial reason, which names the missing
// permission or minimum role.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccessDenied, e.Reason)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// Decision is the outcome of one authorization check: approved, or denied with
// a reason. The zero value is a denial.
type Decision struct {
	approved bool
	reason   string
}

func Approve() Decision {
	return Decision{approved: true}
}

func Deny(reason string) Decision {
	return Decision{reason: reason}
}

func (d Decision) IsApproved() bool {
	return d.approved
}

// Reason is empty for approvals.
func (d Decision) Reason() string {
	if d.approved {
		return ""
	}
	if d.reason == "" {
		return "denied"
	}
	return d.reason
}

// Err returns nil for approvals and an *AccessDeniedError otherwise.
func (d Decision) Err() error {
	if d.approved {
		return nil
	}
	return &AccessDeniedError{Reason: d.Reason()}
}

func (d Decision) String() string {
	if d.approved {
		return "approved"
	}
	return "denied: " + d.Reason()
}
