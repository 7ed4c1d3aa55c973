package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetActorPermissionsQueryIsNotConstructed = errors.New(
		"GetActorPermissionsQuery must be created via NewGetActorPermissionsQuery constructor",
	)
)

// GetActorPermissionsQuery lists what the actor's role is granted. Clients use
// it to hide actions the server would refuse.
type GetActorPermissionsQuery struct {
	actor access.Actor
	guard guard.ConstructorGuard
}

func NewGetActorPermissionsQuery(actor access.Actor) (GetActorPermissionsQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetActorPermissionsQuery{}, err
	}
	return GetActorPermissionsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActorPermissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetActorPermissionsQueryIsNotConstructed)
}

func (q GetActorPermissionsQuery) Actor() access.Actor {
	return q.actor
}

type GetActorPermissionsQueryResponse struct {
	UserID      string
	TenantID    string
	Role        access.Role
	Permissions []access.Permission
}
