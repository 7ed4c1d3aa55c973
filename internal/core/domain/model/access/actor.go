package access

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of one request: who they are, which tenant
// they act for, and their role.
type Actor struct {
	userID   kernel.UUID
	tenantID kernel.UUID
	role     Role

	guard guard.ConstructorGuard
}

func NewActor(userID, tenantID kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(userID.Validate(), tenantID.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{
		userID:   userID,
		tenantID: tenantID,
		role:     role,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) UserID() kernel.UUID {
	return a.userID
}

func (a Actor) TenantID() kernel.UUID {
	return a.tenantID
}

func (a Actor) Role() Role {
	return a.role
}
