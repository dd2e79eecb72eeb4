// Package auditrepo stores the business audit trail.
package auditrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogDTO is one audit entry. CorrelationID groups entries written for the same
// request when the caller supplies one.
type AuditLogDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CorrelationID *uuid.UUID `gorm:"type:uuid;index"`
	ActorID       int64      `gorm:"index"`
	Message       string
	Route         string    `gorm:"index"`
	CreatedAt     time.Time `gorm:"index"`
}

func (AuditLogDTO) TableName() string {
	return "audit_logs"
}

// GormAuditLog implements ports.AuditLog. It writes outside any unit of work: an
// entry is recorded after the business transaction has committed.
type GormAuditLog struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db, now: time.Now}
}

type correlationKey struct{}

// WithCorrelationID attaches a request id that LogData copies into every entry.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func (l *GormAuditLog) LogData(ctx context.Context, actorID int64, message, route string) error {
	dto := AuditLogDTO{
		ID:        uuid.New(),
		ActorID:   actorID,
		Message:   message,
		Route:     route,
		CreatedAt: l.now().UTC(),
	}
	if id, ok := ctx.Value(correlationKey{}).(uuid.UUID); ok {
		dto.CorrelationID = &id
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}
