package queries

import (
	"context"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDispatchBoardQueryHandler reads the board straight from the orders table.
// It requires orders:read.
type GetDispatchBoardQueryHandler struct {
	db          *gorm.DB
	guard       services.AuthorizationGuard
	coordinator services.DispatchCoordinator
	recorder    ports.DecisionRecorder
}

func NewGetDispatchBoardQueryHandler(
	db *gorm.DB,
	guard services.AuthorizationGuard,
	coordinator services.DispatchCoordinator,
	recorder ports.DecisionRecorder,
) GetDispatchBoardQueryHandler {
	return GetDispatchBoardQueryHandler{
		db:          db,
		guard:       guard,
		coordinator: coordinator,
		recorder:    recorder,
	}
}

// Handle returns a column for every active status, in lifecycle order, even
// when it is empty. Cards are sorted by last update, oldest first.
func (h GetDispatchBoardQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchBoardQuery,
) (GetDispatchBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDispatchBoardQueryResponse{}, err
	}

	role := query.Actor().Role()
	decision := h.guard.Check(role, access.OrdersRead)
	h.recorder.RecordCheck(role, access.OrdersRead, decision.IsApproved())
	if err := decision.Err(); err != nil {
		return GetDispatchBoardQueryResponse{}, err
	}

	active := order.ActiveStatuses()
	columns := make([]DispatchBoardColumn, len(active))
	index := make(map[order.Status]int, len(active))
	names := make([]string, len(active))
	for i, status := range active {
		columns[i] = DispatchBoardColumn{
			Status:      status,
			AllowedNext: h.coordinator.AllowedNextStatuses(role, status),
			Cards:       make([]DispatchBoardCard, 0),
		}
		index[status] = i
		names[i] = status.String()
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			reference,
			driver_id,
			vehicle_id,
			status,
			version,
			updated_at
		FROM orders
		WHERE tenant_id = ? AND status IN ?
		ORDER BY updated_at, id
	`, query.Actor().TenantID().Bytes(), names).Rows()
	if err != nil {
		return GetDispatchBoardQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			card                DispatchBoardCard
			id                  uuid.UUID
			driverID, vehicleID uuid.NullUUID
			statusName          string
		)

		if err = rows.Scan(
			&id,
			&card.Reference,
			&driverID,
			&vehicleID,
			&statusName,
			&card.Version,
			&card.UpdatedAt,
		); err != nil {
			return GetDispatchBoardQueryResponse{}, err
		}

		if card.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return GetDispatchBoardQueryResponse{}, err
		}
		if card.DriverID, err = optionalUUID(driverID); err != nil {
			return GetDispatchBoardQueryResponse{}, err
		}
		if card.VehicleID, err = optionalUUID(vehicleID); err != nil {
			return GetDispatchBoardQueryResponse{}, err
		}
		card.UpdatedAt = card.UpdatedAt.UTC()

		status, parseErr := order.ParseStatus(statusName)
		if parseErr != nil {
			return GetDispatchBoardQueryResponse{}, parseErr
		}
		i := index[status]
		columns[i].Cards = append(columns[i].Cards, card)
	}

	if err = rows.Err(); err != nil {
		return GetDispatchBoardQueryResponse{}, err
	}

	return GetDispatchBoardQueryResponse{Columns: columns}, nil
}

func optionalUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	u, err := kernel.UUIDFromGoogle(id.UUID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
