package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions (see DefaultLifecycle for the permission on each edge):
//
//	pending ──> assigned ──> in_progress ──> delivered
//	   │  ^        │  │           │  └─────> failed
//	   │  └────────┘  │           │
//	   v              v           v
//	cancelled <───────┴───────────┘
//
// Status is a value object; it is persisted and transported by its wire name.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. The order waits for a driver and a vehicle.
	Pending

	// Assigned indicates a driver and a vehicle were attached to the order.
	Assigned

	// InProgress indicates the driver started the delivery.
	InProgress

	// Delivered is a terminal status: the order reached the customer.
	Delivered

	// Cancelled is a terminal status reachable from every non-terminal status.
	Cancelled

	// Failed is a terminal status: delivery was attempted and did not succeed.
	Failed
)

// statusNames holds the wire names of the valid statuses.
var statusNames = map[Status]string{
	Pending:    "pending",
	Assigned:   "assigned",
	InProgress: "in_progress",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
	Failed:     "failed",
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Assigned, InProgress, Delivered, Cancelled, Failed}
}

// ActiveStatuses returns the non-terminal statuses in lifecycle order.
func ActiveStatuses() []Status {
	return []Status{Pending, Assigned, InProgress}
}

// ParseStatus maps a wire name to a Status.
//
// Returns:
//   - the matching Status
//   - a ValueIsInvalidError if the name is unknown
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, wire := range statusNames {
		if wire == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is valid.
//
// Unknown (0) and any value outside the declared constants are invalid.
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown" for invalid values.
// It is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// RequiresAssignment reports whether an order in s must carry a driver and a vehicle.
func (s Status) RequiresAssignment() bool {
	return s == Assigned || s == InProgress || s == Delivered || s == Failed
}

// MarshalText renders the wire name.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses the wire name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
