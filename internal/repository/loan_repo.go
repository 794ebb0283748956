package repository

import (
	"errors"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanRepository interface {
	Create(tx *gorm.DB, loan *model.Loan) error
	Save(tx *gorm.DB, loan *model.Loan) error
	SaveDetail(tx *gorm.DB, detail *model.LoanDetail) error
	FindByID(id uuid.UUID) (*model.Loan, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Loan, error)
	FindPage(page, limit int) ([]model.Loan, int64, error)
	// CountOpenDetailsBySku counts loan details still out for the SKU. Run on
	// the lending transaction it guards.
	CountOpenDetailsBySku(tx *gorm.DB, skuID uuid.UUID) (int64, error)
	// FindActiveLoanBySku resolves the loan whose open detail references the
	// SKU, or NotFound.
	FindActiveLoanBySku(skuID uuid.UUID) (*model.Loan, error)
}

type loanRepo struct {
	db *gorm.DB
}

func NewLoanRepo(db *gorm.DB) LoanRepository {
	return &loanRepo{db}
}

func (r *loanRepo) Create(tx *gorm.DB, loan *model.Loan) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(loan).Error
}

func (r *loanRepo) Save(tx *gorm.DB, loan *model.Loan) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(loan).Error
}

func (r *loanRepo) SaveDetail(tx *gorm.DB, detail *model.LoanDetail) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(detail).Error
}

func (r *loanRepo) FindByID(id uuid.UUID) (*model.Loan, error) {
	var loan model.Loan
	err := r.db.Preload("Details").
		Preload("Details.Sku").Preload("Details.Sku.Item").
		Preload("Details.Sku.Warehouse").
		First(&loan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "loan", ID: id.String()}
		}
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Loan, error) {
	if tx == nil {
		tx = r.db
	}
	var loan model.Loan
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Preload("Details").
		First(&loan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "loan", ID: id.String()}
		}
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) FindPage(page, limit int) ([]model.Loan, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var total int64
	if err := r.db.Model(&model.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var loans []model.Loan
	err := r.db.Preload("Details").
		Preload("Details.Sku").Preload("Details.Sku.Item").
		Preload("Details.Sku.Warehouse").
		Order("loan_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&loans).Error
	return loans, total, err
}

func (r *loanRepo) CountOpenDetailsBySku(tx *gorm.DB, skuID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	err := tx.Model(&model.LoanDetail{}).
		Where("sku_id = ? AND status = ?", skuID, model.DetailBorrowed).
		Count(&n).Error
	return n, err
}

func (r *loanRepo) FindActiveLoanBySku(skuID uuid.UUID) (*model.Loan, error) {
	var detail model.LoanDetail
	err := r.db.
		Where("sku_id = ? AND status = ?", skuID, model.DetailBorrowed).
		First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "active loan for sku", ID: skuID.String()}
		}
		return nil, err
	}
	return r.FindByID(detail.LoanID)
}
