package model

// Master data: Category, Unit and Warehouse. All three participate in the
// soft-delete/restore lifecycle; Category and Unit additionally contribute
// segments to an Item's composite full code.

type Category struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Code   string `gorm:"type:varchar(50)" json:"code"`
	Status string `gorm:"type:varchar(20)" json:"status"`

	Items []Item `json:"items,omitempty" validate:"-"`
}

type Unit struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Status string `gorm:"type:varchar(20)" json:"status"`

	Items []Item `json:"items,omitempty" validate:"-"`
}

type Warehouse struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address string `gorm:"type:varchar(255)" json:"address"`
	Status  string `gorm:"type:varchar(20)" json:"status"`

	Skus []Sku `json:"skus,omitempty" validate:"-"`
}
