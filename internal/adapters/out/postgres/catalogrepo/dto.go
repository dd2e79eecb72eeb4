// Package catalogrepo reads products, package types and pickup locations. The catalog
// is owned by the storefront; fulfillment never writes it.
package catalogrepo

import (
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
)

// DimensionsDTO stores measurements in centimetres. A product whose measurements were
// never entered has NULL sides.
type DimensionsDTO struct {
	Length  *float64
	Breadth *float64
	Height  *float64
}

func (d DimensionsDTO) toDomain() (kernel.Dimensions, error) {
	if d.Length == nil || d.Breadth == nil || d.Height == nil {
		return kernel.UnknownDimensions(), nil
	}
	return kernel.NewDimensions(*d.Length, *d.Breadth, *d.Height)
}

func dimensionsFromDomain(d kernel.Dimensions) DimensionsDTO {
	if !d.IsKnown() {
		return DimensionsDTO{}
	}
	l, b, h := d.Length(), d.Breadth(), d.Height()
	return DimensionsDTO{Length: &l, Breadth: &b, Height: &h}
}

type ProductDTO struct {
	ID               int64 `gorm:"primaryKey"`
	ClientID         int64 `gorm:"index"`
	Title            string
	SKU              string
	Price            decimal.Decimal `gorm:"type:numeric(12,2)"`
	Dimensions       DimensionsDTO   `gorm:"embedded"`
	WeightKg         decimal.Decimal `gorm:"type:numeric(10,3)"`
	ReturnWindowDays *int
}

func (ProductDTO) TableName() string {
	return "products"
}

type PackageTypeDTO struct {
	ID          int64 `gorm:"primaryKey"`
	ClientID    int64 `gorm:"index"`
	Name        string
	Kind        string
	Dimensions  DimensionsDTO   `gorm:"embedded"`
	MaxWeightKg decimal.Decimal `gorm:"type:numeric(10,3)"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
}

func (PackageTypeDTO) TableName() string {
	return "package_types"
}

type PickupLocationDTO struct {
	ID         int64 `gorm:"primaryKey"`
	ClientID   int64 `gorm:"index"`
	Nickname   string
	PostalCode string
	Address    string
	City       string
	State      string
	Phone      string
}

func (PickupLocationDTO) TableName() string {
	return "pickup_locations"
}

// ToProduct converts a row into a catalog product.
func ToProduct(dto ProductDTO) (catalog.Product, error) {
	dims, err := dto.Dimensions.toDomain()
	if err != nil {
		return catalog.Product{}, err
	}
	weight, err := kernel.NewWeight(dto.WeightKg)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.NewProduct(dto.ID, dto.Title, dto.SKU, dto.Price, dims, weight, dto.ReturnWindowDays)
}

// FromProduct is used by tests and seeders.
func FromProduct(clientID int64, p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:               p.ID(),
		ClientID:         clientID,
		Title:            p.Title(),
		SKU:              p.SKU(),
		Price:            p.Price(),
		Dimensions:       dimensionsFromDomain(p.Dimensions()),
		WeightKg:         p.Weight().Kilograms(),
		ReturnWindowDays: p.ReturnWindowDays(),
	}
}

// ToPackageType converts a row into a package type.
func ToPackageType(dto PackageTypeDTO) (catalog.PackageType, error) {
	dims, err := dto.Dimensions.toDomain()
	if err != nil {
		return catalog.PackageType{}, err
	}
	maxWeight, err := kernel.NewWeight(dto.MaxWeightKg)
	if err != nil {
		return catalog.PackageType{}, err
	}
	return catalog.NewPackageType(dto.ID, dto.Name, dto.Kind, dims, maxWeight, dto.Price)
}

func FromPackageType(clientID int64, pt catalog.PackageType) PackageTypeDTO {
	return PackageTypeDTO{
		ID:          pt.ID(),
		ClientID:    clientID,
		Name:        pt.Name(),
		Kind:        pt.Kind(),
		Dimensions:  dimensionsFromDomain(pt.Dimensions()),
		MaxWeightKg: pt.MaxWeight().Kilograms(),
		Price:       pt.Price(),
	}
}

func ToPickupLocation(dto PickupLocationDTO) catalog.PickupLocation {
	return catalog.PickupLocation{
		ID:         dto.ID,
		ClientID:   dto.ClientID,
		Nickname:   dto.Nickname,
		PostalCode: dto.PostalCode,
		Address:    dto.Address,
		City:       dto.City,
		State:      dto.State,
		Phone:      dto.Phone,
	}
}

func FromPickupLocation(loc catalog.PickupLocation) PickupLocationDTO {
	return PickupLocationDTO{
		ID:         loc.ID,
		ClientID:   loc.ClientID,
		Nickname:   loc.Nickname,
		PostalCode: loc.PostalCode,
		Address:    loc.Address,
		City:       loc.City,
		State:      loc.State,
		Phone:      loc.Phone,
	}
}
