package model

import (
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanBorrowing LoanStatus = "borrowing"
	LoanReturned  LoanStatus = "returned"
)

type LoanDetailStatus string

const (
	DetailBorrowed LoanDetailStatus = "borrowed"
	DetailReturned LoanDetailStatus = "returned"
)

// Loan groups one borrower's checkout of one or more SKUs. Status is derived
// from the details on every mutation (returned only when every detail is
// returned) and must never be set independently.
type Loan struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phone_number" validate:"required,phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Necessity   string    `gorm:"type:varchar(255)" json:"necessity"`
	Note        string    `json:"note"`
	LoanDate    time.Time `gorm:"not null" json:"loan_date"`

	Status LoanStatus `gorm:"type:varchar(20);not null;default:'borrowing'" json:"status"`

	Details []LoanDetail `gorm:"foreignKey:LoanID" json:"loan_details" validate:"-"`
}

type LoanDetail struct {
	BaseModel
	LoanID uuid.UUID `gorm:"type:uuid;not null;index" json:"loan_id"`
	SkuID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sku_id" validate:"uuid_required"`
	Qty    int       `gorm:"not null" json:"qty" validate:"required,gt=0"`

	ReturnDate       time.Time  `json:"return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`

	Status LoanDetailStatus `gorm:"type:varchar(20);not null;default:'borrowed'" json:"status"`

	Sku *Sku `gorm:"foreignKey:SkuID" json:"sku,omitempty" validate:"-"`
}

// DeriveStatus recomputes the aggregate loan status from the details.
func (l *Loan) DeriveStatus() LoanStatus {
	if len(l.Details) == 0 {
		return LoanBorrowing
	}
	for _, d := range l.Details {
		if d.Status != DetailReturned {
			return LoanBorrowing
		}
	}
	return LoanReturned
}
