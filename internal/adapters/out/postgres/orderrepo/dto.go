// Package orderrepo maps order aggregates to the orders table and implements
// ports.OrderRepository with GORM.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row shape of the orders table. The schema itself is owned
// by the embedded migrations.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null"`
	Reference     string     `gorm:"size:64;not null"`
	DriverID      *uuid.UUID `gorm:"type:uuid"`
	VehicleID     *uuid.UUID `gorm:"type:uuid"`
	Status        string     `gorm:"size:16;not null"`
	FailureReason string     `gorm:"size:500;not null"`
	Version       int64      `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime:false"`
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		TenantID:      aggregate.TenantID().Bytes(),
		Reference:     aggregate.Reference(),
		DriverID:      optionalID(aggregate.DriverID()),
		VehicleID:     optionalID(aggregate.VehicleID()),
		Status:        aggregate.Status().String(),
		FailureReason: aggregate.FailureReason(),
		Version:       aggregate.Version(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

// toDomain rebuilds the aggregate with RestoreOrder, which rejects rows whose
// status and assignment disagree.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromGoogle(dto.TenantID)
	if err != nil {
		return nil, err
	}

	driverID, err := restoreOptionalID(dto.DriverID)
	if err != nil {
		return nil, err
	}

	vehicleID, err := restoreOptionalID(dto.VehicleID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		tenantID,
		dto.Reference,
		driverID,
		vehicleID,
		status,
		dto.FailureReason,
		dto.Version,
		dto.UpdatedAt,
	)
}

// toDomainList converts rows in order.
func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
