package model

import "github.com/google/uuid"

// SkuStatus is the lifecycle state of a single trackable unit. It only moves
// through the lending coordinator (or the admin reset), never through a plain
// edit.
type SkuStatus string

const (
	SkuNotUsed   SkuStatus = "not_used"
	SkuBorrowing SkuStatus = "borrowing"
	SkuReady     SkuStatus = "ready"
)

// Sku codes stay unique across active AND soft-deleted rows, so a retired code
// can never be handed out again to a different physical unit (QR labels stay
// unambiguous). Hence the uniqueIndex instead of a partial one.
type Sku struct {
	BaseModel
	Code   string    `gorm:"type:varchar(60);uniqueIndex;not null" json:"code"`
	Color  string    `gorm:"type:varchar(50)" json:"color"`
	Status SkuStatus `gorm:"type:varchar(20);not null;default:'not_used'" json:"status"`

	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id" validate:"uuid_required"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null" json:"warehouse_id" validate:"uuid_required"`

	Item      *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty" validate:"-"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty" validate:"-"`
}
