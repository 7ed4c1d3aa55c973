package order

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/pkg/errs"
)

// ErrIllegalTransition marks a (from, to) pair that is not in the transition table.
var ErrIllegalTransition = errors.New("illegal transition")

// IllegalTransitionError names the attempted pair.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Transition is one directed edge of the lifecycle.
type Transition struct {
	From Status
	To   Status
}

func (t Transition) String() string {
	return t.From.String() + " -> " + t.To.String()
}

// Rule tags a transition with the permission required to request it.
type Rule struct {
	Transition
	Permission access.Permission
}

// defaultRules is the application transition table.
func defaultRules() []Rule {
	return []Rule{
		{Transition{Pending, Assigned}, access.OrdersAssign},
		{Transition{Pending, Cancelled}, access.OrdersWrite},
		{Transition{Assigned, InProgress}, access.OrdersProgress},
		{Transition{Assigned, Pending}, access.OrdersAssign},
		{Transition{InProgress, Delivered}, access.OrdersProgress},
		{Transition{InProgress, Failed}, access.OrdersProgress},
		// Administrative overrides.
		{Transition{Assigned, Cancelled}, access.OrdersCancel},
		{Transition{InProgress, Cancelled}, access.OrdersCancel},
	}
}

// Lifecycle is the immutable transition table. The zero value has no legal
// transitions; build one with DefaultLifecycle or NewLifecycle.
type Lifecycle struct {
	rules map[Transition]access.Permission
}

// DefaultLifecycle returns the application transition table.
func DefaultLifecycle() Lifecycle {
	l, err := NewLifecycle(defaultRules())
	if err != nil {
		panic(fmt.Sprintf("order: default lifecycle: %v", err))
	}
	return l
}

// NewLifecycle validates and copies rules. It rejects invalid statuses, self
// edges, edges out of a terminal status, malformed permissions and duplicate
// edges.
func NewLifecycle(rules []Rule) (Lifecycle, error) {
	table := make(map[Transition]access.Permission, len(rules))
	var problems []error
	for _, r := range rules {
		if err := errors.Join(r.From.Validate(), r.To.Validate(), r.Permission.Validate()); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", r.Transition, err))
			continue
		}
		if r.From == r.To {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"transition", fmt.Errorf("%s is a self edge", r.Transition)))
			continue
		}
		if r.From.IsTerminal() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"transition", fmt.Errorf("%s leaves terminal status %s", r.Transition, r.From)))
			continue
		}
		if _, dup := table[r.Transition]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"transition", fmt.Errorf("%s is declared twice", r.Transition)))
			continue
		}
		table[r.Transition] = r.Permission
	}
	if err := errors.Join(problems...); err != nil {
		return Lifecycle{}, err
	}
	return Lifecycle{rules: table}, nil
}

// IsLegalTransition reports whether (from, to) is in the table.
func (l Lifecycle) IsLegalTransition(from, to Status) bool {
	_, ok := l.rules[Transition{From: from, To: to}]
	return ok
}

// RequiredPermissionFor returns the permission tagged on (from, to), or an
// *IllegalTransitionError for pairs outside the table.
func (l Lifecycle) RequiredPermissionFor(from, to Status) (access.Permission, error) {
	p, ok := l.rules[Transition{From: from, To: to}]
	if !ok {
		return "", &IllegalTransitionError{From: from, To: to}
	}
	return p, nil
}

// NextStatuses lists the legal targets from a status in lifecycle order.
func (l Lifecycle) NextStatuses(from Status) []Status {
	var out []Status
	for _, to := range Statuses() {
		if l.IsLegalTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// Rules lists the table ordered by source then target.
func (l Lifecycle) Rules() []Rule {
	out := make([]Rule, 0, len(l.rules))
	for t, p := range l.rules {
		out = append(out, Rule{Transition: t, Permission: p})
	}
	slices.SortFunc(out, func(a, b Rule) int {
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		return int(a.To) - int(b.To)
	})
	return out
}

// Permissions lists the distinct permissions named by the table, sorted.
func (l Lifecycle) Permissions() []access.Permission {
	out := make([]access.Permission, 0, len(l.rules))
	for _, p := range l.rules {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
