package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	BaseModel
	Code        string           `gorm:"type:varchar(50);index" json:"code" validate:"required"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Supplier    string           `gorm:"type:varchar(255)" json:"supplier"`
	Description string           `json:"description"`
	Stock       int              `gorm:"default:0" json:"stock" validate:"gte=0"`
	Price       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price,omitempty"`

	UnitID     uuid.UUID `gorm:"type:uuid;not null" json:"unit_id" validate:"uuid_required"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null" json:"category_id" validate:"uuid_required"`

	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty" validate:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Skus     []Sku     `json:"skus,omitempty" validate:"-"`
}
