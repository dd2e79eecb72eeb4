package returnrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/pkg/errs"
)

// GormReturnShipmentRepository implements ports.ReturnShipmentRepository using GORM.
type GormReturnShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

func NewGormReturnShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormReturnShipmentRepository {
	return &GormReturnShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormReturnShipmentRepository) Add(ctx context.Context, aggregate *returns.ReturnShipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	aggregate.AssignID(dto.ID)

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status and carrier fields. Lines never change after Add.
func (r *GormReturnShipmentRepository) Update(ctx context.Context, aggregate *returns.ReturnShipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ReturnShipmentDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "carrier_order_id", "carrier_shipment_id", "awb_code", "carrier_response", "updated_at").
		Omit(clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("return shipment", dto.ID)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReturnShipmentRepository) Get(ctx context.Context, id int64) (*returns.ReturnShipment, error) {
	var dto ReturnShipmentDTO
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("return shipment", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormReturnShipmentRepository) ReturnedQuantities(ctx context.Context, shipmentID int64) (map[int64]int, error) {
	var rows []struct {
		ProductID int64
		Returned  int
	}
	err := r.db.WithContext(ctx).
		Table("return_shipment_products AS l").
		Select("l.product_id, SUM(l.quantity) AS returned").
		Joins("JOIN return_shipments AS r ON r.id = l.return_shipment_id").
		Where("r.shipment_id = ? AND r.status <> ?", shipmentID, returns.Cancelled.String()).
		Group("l.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	returned := make(map[int64]int, len(rows))
	for _, row := range rows {
		returned[row.ProductID] = row.Returned
	}
	return returned, nil
}
