package access

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// defaultRanks is the production rank table. Driver (chofer) outranks
// Operator; see TestDefaultRoleHierarchy_DriverOutranksOperator.
var defaultRanks = map[Role]int{
	Superadmin: 100,
	Admin:      80,
	Supervisor: 60,
	Driver:     50,
	Operator:   40,
	Customer:   10,
}

// RoleHierarchy orders roles by privilege rank. It is a value type with no
// mutators, so a hierarchy handed to a guard can never be re-ranked.
type RoleHierarchy struct {
	ranks [Customer + 1]int
}

// DefaultRoleHierarchy returns the production rank table.
func DefaultRoleHierarchy() RoleHierarchy {
	h, err := NewRoleHierarchy(defaultRanks)
	if err != nil {
		panic(fmt.Sprintf("access: default role hierarchy: %v", err))
	}
	return h
}

// NewRoleHierarchy builds a hierarchy from an explicit table. Every valid role
// needs exactly one positive rank; ties are allowed.
func NewRoleHierarchy(ranks map[Role]int) (RoleHierarchy, error) {
	var h RoleHierarchy
	var problems []error
	for role, rank := range ranks {
		if err := role.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if rank <= 0 {
			problems = append(problems, errs.NewValueIsOutOfRangeError("rank of "+role.String(), rank, 1, "∞"))
			continue
		}
		h.ranks[role] = rank
	}
	for _, role := range Roles() {
		if _, ok := ranks[role]; !ok {
			problems = append(problems, errs.NewValueIsRequiredError("rank of "+role.String()))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return RoleHierarchy{}, err
	}
	return h, nil
}

// Rank returns the role's privilege rank. Invalid roles rank 0, below every
// real role, and so does every role of a hierarchy not built by NewRoleHierarchy.
func (h RoleHierarchy) Rank(r Role) int {
	if r.Validate() != nil {
		return 0
	}
	return h.ranks[r]
}

// AtLeast reports whether a is at least as privileged as b.
// It is false whenever either role has no rank.
func (h RoleHierarchy) AtLeast(a, b Role) bool {
	ra, rb := h.Rank(a), h.Rank(b)
	return ra > 0 && rb > 0 && ra >= rb
}
