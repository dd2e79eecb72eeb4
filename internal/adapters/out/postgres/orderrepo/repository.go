package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GormPurchaseOrderRepository implements ports.PurchaseOrderRepository using GORM.
type GormPurchaseOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

func NewGormPurchaseOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves a purchase order by id.
func (r *GormPurchaseOrderRepository) Get(ctx context.Context, id int64) (*order.PurchaseOrder, error) {
	var dto PurchaseOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("purchase order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update saves the status and receipt of an existing purchase order.
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, aggregate *order.PurchaseOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PurchaseOrderDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "receipt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("purchase order", dto.ID)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Summary retrieves an order summary with its delivery address.
func (r *GormPurchaseOrderRepository) Summary(ctx context.Context, summaryID int64) (*order.Summary, error) {
	var dto OrderSummaryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", summaryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order summary", summaryID)
		}
		return nil, err
	}

	return summaryToDomain(dto), nil
}
