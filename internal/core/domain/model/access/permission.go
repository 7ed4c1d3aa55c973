package access

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Permission names one controllable capability as "resource:action".
type Permission string

const (
	OrdersRead     Permission = "orders:read"
	OrdersWrite    Permission = "orders:write"
	OrdersAssign   Permission = "orders:assign"
	OrdersProgress Permission = "orders:progress"
	OrdersCancel   Permission = "orders:cancel"

	VehiclesRead   Permission = "vehicles:read"
	VehiclesWrite  Permission = "vehicles:write"
	VehiclesAssign Permission = "vehicles:assign"

	InventoryRead      Permission = "inventory:read"
	InventoryWrite     Permission = "inventory:write"
	InventoryReconcile Permission = "inventory:reconcile"

	ReportsRead   Permission = "reports:read"
	BillingManage Permission = "billing:manage"
	UsersManage   Permission = "users:manage"
	TenantsManage Permission = "tenants:manage"
)

func (p Permission) String() string {
	return string(p)
}

// Resource is the part before the colon.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

// Action is the part after the colon.
func (p Permission) Action() string {
	_, action, _ := strings.Cut(string(p), ":")
	return action
}

// Validate checks the "resource:action" shape.
func (p Permission) Validate() error {
	resource, action, ok := strings.Cut(string(p), ":")
	if !ok || resource == "" || action == "" || strings.ContainsAny(string(p), " \t\n") {
		return errs.NewValueIsInvalidErrorWithCause(
			"permission is invalid",
			fmt.Errorf("%q is not of the form resource:action", string(p)),
		)
	}
	return nil
}
