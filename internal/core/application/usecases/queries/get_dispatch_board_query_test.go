package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetDispatchBoardQuery(t *testing.T) {
	t.Run("should create query for authenticated actor", func(t *testing.T) {
		actor := newActorIn(t, kernel.NewUUID(), access.Operator)

		query, err := queries.NewGetDispatchBoardQuery(actor)

		require.NoError(t, err)
		assert.NoError(t, query.Validate())
		assert.Equal(t, actor, query.Actor())
	})

	t.Run("should reject zero actor", func(t *testing.T) {
		_, err := queries.NewGetDispatchBoardQuery(access.Actor{})

		assert.ErrorIs(t, err, access.ErrActorIsNotConstructed)
	})

	t.Run("should reject zero value query", func(t *testing.T) {
		var query queries.GetDispatchBoardQuery

		assert.ErrorIs(t, query.Validate(), queries.ErrGetDispatchBoardQueryIsNotConstructed)
	})
}

func TestGetDispatchBoardQueryHandler_Denied(t *testing.T) {
	// Given
	catalog := access.MustPermissionCatalog(map[access.Permission][]access.Role{
		access.OrdersRead: {access.Admin},
	})
	guard := services.NewAuthorizationGuard(catalog, access.DefaultRoleHierarchy())
	recorder := &MockDecisionRecorder{}
	recorder.On("RecordCheck", access.Customer, access.OrdersRead, false).Return().Once()
	handler := queries.NewGetDispatchBoardQueryHandler(nil, guard, newCoordinator(), recorder)
	query, err := queries.NewGetDispatchBoardQuery(newActorIn(t, kernel.NewUUID(), access.Customer))
	require.NoError(t, err)

	// When
	board, err := handler.Handle(t.Context(), query)

	// Then
	require.ErrorIs(t, err, access.ErrAccessDenied)
	assert.Contains(t, err.Error(), "missing permission: orders:read")
	assert.Empty(t, board.Columns)
	recorder.AssertExpectations(t)
}

func TestGetDispatchBoardQueryHandler_RejectsUnconstructedQuery(t *testing.T) {
	handler := queries.NewGetDispatchBoardQueryHandler(nil, newGuard(), newCoordinator(), &MockDecisionRecorder{})

	_, err := handler.Handle(t.Context(), queries.GetDispatchBoardQuery{})

	assert.ErrorIs(t, err, queries.ErrGetDispatchBoardQueryIsNotConstructed)
}
