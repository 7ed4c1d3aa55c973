package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
)

type GetActorPermissionsQueryHandler struct {
	guard services.AuthorizationGuard
}

func NewGetActorPermissionsQueryHandler(guard services.AuthorizationGuard) GetActorPermissionsQueryHandler {
	return GetActorPermissionsQueryHandler{guard: guard}
}

// Handle needs no permission: every authenticated actor may see its own grants.
// Permissions are sorted by name.
func (h GetActorPermissionsQueryHandler) Handle(
	_ context.Context,
	query GetActorPermissionsQuery,
) (GetActorPermissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetActorPermissionsQueryResponse{}, err
	}

	actor := query.Actor()
	return GetActorPermissionsQueryResponse{
		UserID:      actor.UserID().String(),
		TenantID:    actor.TenantID().String(),
		Role:        actor.Role(),
		Permissions: h.guard.Catalog().PermissionsFor(actor.Role()),
	}, nil
}
