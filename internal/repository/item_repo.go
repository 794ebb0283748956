package repository

import (
	"errors"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	Save(item *model.Item) error
	FindByID(id uuid.UUID) (*model.Item, error)
	FindDeletedByID(id uuid.UUID) (*model.Item, error)
	FindAll() ([]model.Item, error)
	FindDeleted() ([]model.Item, error)
	// CountActiveByCode counts non-deleted items carrying the code, minus
	// excludeID (used during edit-in-place).
	CountActiveByCode(code string, excludeID uuid.UUID) (int64, error)
	SoftDelete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	HardDelete(id uuid.UUID) error
	Store() *RecoverableStore[model.Item]
}

type itemRepo struct {
	*RecoverableStore[model.Item]
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{NewRecoverableStore[model.Item](db, "item"), db}
}

func (r *itemRepo) Store() *RecoverableStore[model.Item] { return r.RecoverableStore }

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.Preload("Unit").Preload("Category").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "item", ID: id.String()}
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Preload("Unit").Preload("Category").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindDeleted() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL").
		Preload("Unit").Preload("Category").Find(&items).Error
	return items, err
}

func (r *itemRepo) CountActiveByCode(code string, excludeID uuid.UUID) (int64, error) {
	var n int64
	q := r.db.Model(&model.Item{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}
