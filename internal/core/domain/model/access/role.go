package access

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"

	"golang.org/x/text/cases"
)

// Role is the category an actor belongs to. Roles are assigned by the identity
// provider and only read here.
type Role int

const (
	// RoleUnknown is the zero value and never passes validation.
	RoleUnknown Role = iota
	Superadmin
	Admin
	Supervisor
	Operator
	// Driver is the "chofer" role.
	Driver
	// Customer is the "cliente" role.
	Customer
)

// roleNames holds the wire names used in tokens, storage and API payloads.
var roleNames = map[Role]string{
	Superadmin: "superadmin",
	Admin:      "admin",
	Supervisor: "supervisor",
	Operator:   "operator",
	Driver:     "chofer",
	Customer:   "cliente",
}

// Roles returns every valid role in declaration order.
func Roles() []Role {
	return []Role{Superadmin, Admin, Supervisor, Operator, Driver, Customer}
}

// ParseRole maps a wire name to a Role, ignoring case and surrounding blanks.
func ParseRole(s string) (Role, error) {
	// Casers are stateful, so each call folds with its own.
	name := cases.Fold().String(strings.TrimSpace(s))
	for role, wire := range roleNames {
		if wire == name {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// MarshalText renders the wire name.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses the wire name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is an immutable set of roles stored as a bit mask.
type RoleSet uint16

// NewRoleSet builds a set; invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Validate() == nil {
			s |= 1 << uint(r)
		}
	}
	return s
}

func (s RoleSet) Contains(r Role) bool {
	if r.Validate() != nil {
		return false
	}
	return s&(1<<uint(r)) != 0
}

func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Roles lists the members in declaration order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(roleNames))
	for _, r := range Roles() {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(roleNames))
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
