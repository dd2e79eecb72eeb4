// Package clientrepo reads client accounts and their carrier credentials.
package clientrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ClientDTO is a tenant of the platform with its carrier account.
type ClientDTO struct {
	ID                 int64 `gorm:"primaryKey"`
	CompanyName        string
	ShiprocketEmail    string
	ShiprocketPassword string
}

func (ClientDTO) TableName() string {
	return "clients"
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Get retrieves a client by ID.
func (r *GormClientRepository) Get(ctx context.Context, id int64) (ports.Client, error) {
	var dto ClientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Client{}, errs.NewObjectNotFoundError("client", id)
		}
		return ports.Client{}, err
	}

	return ports.Client{
		ID:          dto.ID,
		CompanyName: dto.CompanyName,
		Credentials: ports.CarrierCredentials{
			Email:    dto.ShiprocketEmail,
			Password: dto.ShiprocketPassword,
		},
	}, nil
}
