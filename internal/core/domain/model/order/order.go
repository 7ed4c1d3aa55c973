package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// MaxReferenceLength bounds the customer-facing order code.
	MaxReferenceLength = 64
	// MaxReasonLength bounds the failure reason.
	MaxReasonLength = 500
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// TransitionDetails carries the data some transitions need: the driver and
// vehicle for an assignment and the reason for a failure. Fields a transition
// does not need are ignored.
type TransitionDetails struct {
	DriverID  *kernel.UUID
	VehicleID *kernel.UUID
	Reason    string
}

// Order is the aggregate root of one delivery order inside a tenant.
//
// Order follows these invariants:
//   - id and tenant id are valid identifiers
//   - reference is a non-empty single line of at most MaxReferenceLength characters
//   - driver and vehicle are both set exactly when the status requires an assignment
//     (cancelled orders keep whatever assignment they had)
//   - failed orders carry a reason
//   - version starts at 1 and grows by one with every applied transition
//
// Order does not decide who may change its status. Callers obtain an approval
// from the dispatch coordinator first and then call ApplyTransition.
type Order struct {
	id       kernel.UUID
	tenantID kernel.UUID

	// reference is the customer-facing order code
	reference string

	driverID  *kernel.UUID
	vehicleID *kernel.UUID

	status        Status
	failureReason string

	// version is compared by the repository on update
	version   int64
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a pending order at version 1.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), actor.TenantID(), "ORD-1042", time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id, tenantID kernel.UUID, reference string, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		version:       1,
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setReference(reference),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. It applies the same field
// validation as NewOrder and additionally checks that the stored status agrees
// with the stored assignment and failure reason.
func RestoreOrder(
	id, tenantID kernel.UUID,
	reference string,
	driverID, vehicleID *kernel.UUID,
	status Status,
	failureReason string,
	version int64,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		driverID:      driverID,
		vehicleID:     vehicleID,
		status:        status,
		failureReason: failureReason,
		version:       version,
		updatedAt:     updatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setReference(reference),
		status.Validate(),
		validateVersion(version),
	); err != nil {
		return nil, err
	}
	if err := o.validateState(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) TenantID() kernel.UUID {
	return o.tenantID
}

func (o *Order) Reference() string {
	return o.reference
}

// DriverID returns nil while unassigned.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// VehicleID returns nil while unassigned.
func (o *Order) VehicleID() *kernel.UUID {
	return o.vehicleID
}

func (o *Order) Status() Status {
	return o.status
}

// FailureReason is empty unless the order failed.
func (o *Order) FailureReason() string {
	return o.failureReason
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ApplyTransition moves the order to an already-authorized status.
//
// Business rules:
//   - the target must be a valid status different from the current one
//   - a terminal order never changes status
//   - moving to Assigned requires DriverID and VehicleID
//   - moving to Pending clears the assignment
//   - moving to Failed requires a Reason
//
// On success the version grows by one and updatedAt becomes now. On error the
// order is left untouched.
//
// The transition table itself is enforced by the dispatch coordinator; this
// method keeps only the rules that hold for every table (no self edge, nothing
// leaves a terminal status).
func (o *Order) ApplyTransition(to Status, details TransitionDetails, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if o.status == to || o.status.IsTerminal() {
		return &IllegalTransitionError{From: o.status, To: to}
	}

	next := *o
	switch to {
	case Assigned:
		if err := next.setAssignment(details.DriverID, details.VehicleID); err != nil {
			return err
		}
	case Pending:
		next.driverID = nil
		next.vehicleID = nil
	case Failed:
		if err := next.setFailureReason(details.Reason); err != nil {
			return err
		}
	}
	next.status = to

	if err := next.validateState(); err != nil {
		return err
	}

	next.version++
	next.updatedAt = now.UTC()
	*o = next
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant id", err)
	}
	o.tenantID = tenantID
	return nil
}

func (o *Order) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	if strings.ContainsAny(reference, "\r\n") {
		return errs.NewValueIsInvalidErrorWithCause("reference is invalid", errors.New("must be a single line"))
	}
	if n := len([]rune(reference)); n > MaxReferenceLength {
		return errs.NewValueIsOutOfRangeError("reference length", n, 1, MaxReferenceLength)
	}
	o.reference = reference
	return nil
}

func (o *Order) setAssignment(driverID, vehicleID *kernel.UUID) error {
	var problems []error
	if driverID == nil {
		problems = append(problems, errs.NewValueIsRequiredError("driver id"))
	} else if err := driverID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("driver id", err))
	}
	if vehicleID == nil {
		problems = append(problems, errs.NewValueIsRequiredError("vehicle id"))
	} else if err := vehicleID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("vehicle id", err))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	d, v := *driverID, *vehicleID
	o.driverID = &d
	o.vehicleID = &v
	return nil
}

func (o *Order) setFailureReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("failure reason")
	}
	if n := len([]rune(reason)); n > MaxReasonLength {
		return errs.NewValueIsOutOfRangeError("failure reason length", n, 1, MaxReasonLength)
	}
	o.failureReason = reason
	return nil
}

// validateState checks that assignment and failure data agree with the status.
func (o *Order) validateState() error {
	assigned := o.driverID != nil && o.vehicleID != nil
	partial := (o.driverID == nil) != (o.vehicleID == nil)

	switch {
	case partial:
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment is invalid",
			errors.New("driver and vehicle must be set together"),
		)
	case o.status.RequiresAssignment() && !assigned:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver and vehicle", o.status),
		)
	case o.status == Pending && assigned:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver and vehicle", o.status),
		)
	case o.status == Failed && strings.TrimSpace(o.failureReason) == "":
		return errs.NewValueIsRequiredError("failure reason")
	case o.status != Failed && o.failureReason != "":
		return errs.NewValueIsInvalidErrorWithCause(
			"failure reason is invalid",
			fmt.Errorf("%s orders have no failure reason", o.status),
		)
	}
	return nil
}

func validateVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsOutOfRangeError("version", version, 1, "∞")
	}
	return nil
}
