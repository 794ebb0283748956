package repository

import (
	"errors"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SkuRepository interface {
	Create(tx *gorm.DB, sku *model.Sku) error
	Save(sku *model.Sku) error
	FindByID(id uuid.UUID) (*model.Sku, error)
	FindDeletedByID(id uuid.UUID) (*model.Sku, error)
	FindAll() ([]model.Sku, error)
	FindDeleted() ([]model.Sku, error)
	// FindByCode resolves an exact active code match.
	FindByCode(code string) (*model.Sku, error)
	// SearchByCode is the best-effort substring fallback for scans.
	SearchByCode(fragment string) (*model.Sku, error)
	// CountByItem counts the item's SKUs including soft-deleted ones, so a
	// retired sequence number is never reissued.
	CountByItem(tx *gorm.DB, itemID uuid.UUID) (int64, error)
	// CountByCode scans the active+deleted code namespace.
	CountByCode(tx *gorm.DB, code string, excludeID uuid.UUID) (int64, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SkuStatus) error
	SoftDelete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	HardDelete(id uuid.UUID) error
	Store() *RecoverableStore[model.Sku]
}

type skuRepo struct {
	*RecoverableStore[model.Sku]
	db *gorm.DB
}

func NewSkuRepo(db *gorm.DB) SkuRepository {
	return &skuRepo{NewRecoverableStore[model.Sku](db, "sku"), db}
}

func (r *skuRepo) Store() *RecoverableStore[model.Sku] { return r.RecoverableStore }

func (r *skuRepo) Create(tx *gorm.DB, sku *model.Sku) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(sku).Error
}

func (r *skuRepo) FindByID(id uuid.UUID) (*model.Sku, error) {
	var sku model.Sku
	err := r.db.Preload("Item").Preload("Item.Unit").Preload("Item.Category").
		Preload("Warehouse").First(&sku, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "sku", ID: id.String()}
		}
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) FindAll() ([]model.Sku, error) {
	var skus []model.Sku
	err := r.db.Preload("Item").Preload("Warehouse").Find(&skus).Error
	return skus, err
}

func (r *skuRepo) FindDeleted() ([]model.Sku, error) {
	var skus []model.Sku
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL").
		Preload("Item").Preload("Warehouse").Find(&skus).Error
	return skus, err
}

func (r *skuRepo) FindByCode(code string) (*model.Sku, error) {
	var sku model.Sku
	err := r.db.Preload("Item").Preload("Item.Unit").Preload("Item.Category").
		Preload("Warehouse").First(&sku, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "sku", ID: code}
		}
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) SearchByCode(fragment string) (*model.Sku, error) {
	var sku model.Sku
	err := r.db.Preload("Item").Preload("Item.Unit").Preload("Item.Category").
		Preload("Warehouse").
		Where("code LIKE ?", "%"+fragment+"%").
		Order("code").First(&sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "sku", ID: fragment}
		}
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) CountByItem(tx *gorm.DB, itemID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	err := tx.Unscoped().Model(&model.Sku{}).
		Where("item_id = ?", itemID).Count(&n).Error
	return n, err
}

func (r *skuRepo) CountByCode(tx *gorm.DB, code string, excludeID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	q := tx.Unscoped().Model(&model.Sku{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}

// UpdateStatus runs on the caller's transaction so SKU state and loan state
// move together or not at all.
func (r *skuRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SkuStatus) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Sku{}).Where("id = ?", id).
		Update("status", status).Error
}
