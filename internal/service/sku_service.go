package service

import (
	"errors"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateSkuRequest struct {
	ItemID      uuid.UUID `json:"item_id" validate:"uuid_required"`
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"uuid_required"`
	Color       string    `json:"color"`
}

type UpdateSkuRequest struct {
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	Color       *string    `json:"color"`
}

type SkuService interface {
	CreateSku(req *CreateSkuRequest, actorID string) (*model.Sku, error)
	UpdateSku(id uuid.UUID, req *UpdateSkuRequest, actorID string) (*model.Sku, error)
	GetSkus() ([]model.Sku, error)
	GetDeletedSkus() ([]model.Sku, error)
	GetSkuByID(id uuid.UUID) (*model.Sku, error)
	SoftDeleteSku(id uuid.UUID, actorID string) error
	RestoreSku(id uuid.UUID, actorID string) error
	HardDeleteSku(id uuid.UUID) error
	// ResetSku is the administrative ready -> not_used override.
	ResetSku(id uuid.UUID, actorID string) (*model.Sku, error)
	// LookupByCode resolves a scanned or typed code: exact match first, then
	// best-effort substring.
	LookupByCode(code string) (*model.Sku, error)
}

type skuService struct {
	skuRepo    repository.SkuRepository
	itemRepo   repository.ItemRepository
	warehouses *repository.RecoverableStore[model.Warehouse]
	db         *gorm.DB
	locks      *LockTable
	wsHub      *ws.Hub
}

func NewSkuService(
	skuRepo repository.SkuRepository,
	itemRepo repository.ItemRepository,
	warehouses *repository.RecoverableStore[model.Warehouse],
	db *gorm.DB,
	locks *LockTable,
	hub *ws.Hub,
) SkuService {
	return &skuService{
		skuRepo:    skuRepo,
		itemRepo:   itemRepo,
		warehouses: warehouses,
		db:         db,
		locks:      locks,
		wsHub:      hub,
	}
}

// CreateSku derives the next sequential code for the item and persists the
// SKU as not_used. Code derivation and insert run under the sku namespace
// lock plus one transaction, so two concurrent creators cannot mint the same
// sequence number.
func (s *skuService) CreateSku(req *CreateSkuRequest, actorID string) (*model.Sku, error) {
	if req.ItemID == uuid.Nil || req.WarehouseID == uuid.Nil {
		return nil, &apperr.ValidationError{Fields: []string{"item_id and warehouse_id are required"}}
	}

	s.locks.Lock("sku:code")
	defer s.locks.Unlock("sku:code")

	var sku *model.Sku
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.Store().WithTx(tx).FindByID(req.ItemID)
		if err != nil {
			return err
		}
		if _, err := s.warehouses.WithTx(tx).FindByID(req.WarehouseID); err != nil {
			return err
		}

		code, err := NextSkuCode(tx, s.skuRepo, item)
		if err != nil {
			return err
		}
		if err := ValidateUniqueSkuCode(tx, s.skuRepo, code, uuid.Nil); err != nil {
			return err
		}

		sku = &model.Sku{
			Code:        code,
			Color:       req.Color,
			Status:      model.SkuNotUsed,
			ItemID:      item.ID,
			WarehouseID: req.WarehouseID,
		}
		sku.CreatedBy = actorID
		sku.UpdatedBy = actorID
		return s.skuRepo.Create(tx, sku)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.skuRepo.FindByID(sku.ID)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{Type: "sku_update", Action: "created", Payload: created, Actor: actorID})
	return created, nil
}

// UpdateSku re-assigns warehouse or color. Code and status are not client
// writable: code only moves through the generator, status only through the
// lending coordinator.
func (s *skuService) UpdateSku(id uuid.UUID, req *UpdateSkuRequest, actorID string) (*model.Sku, error) {
	sku, err := s.skuRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != nil {
		if _, err := s.warehouses.FindByID(*req.WarehouseID); err != nil {
			return nil, err
		}
		sku.WarehouseID = *req.WarehouseID
	}
	if req.Color != nil {
		sku.Color = *req.Color
	}
	sku.UpdatedBy = actorID
	sku.Item = nil
	sku.Warehouse = nil
	if err := s.skuRepo.Save(sku); err != nil {
		return nil, err
	}
	updated, err := s.skuRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{Type: "sku_update", Action: "updated", Payload: updated, Actor: actorID})
	return updated, nil
}

func (s *skuService) GetSkus() ([]model.Sku, error)        { return s.skuRepo.FindAll() }
func (s *skuService) GetDeletedSkus() ([]model.Sku, error) { return s.skuRepo.FindDeleted() }

func (s *skuService) GetSkuByID(id uuid.UUID) (*model.Sku, error) {
	return s.skuRepo.FindByID(id)
}

// SoftDeleteSku rejects deletion while the SKU is out on loan.
func (s *skuService) SoftDeleteSku(id uuid.UUID, actorID string) error {
	s.locks.Lock("sku:" + id.String())
	defer s.locks.Unlock("sku:" + id.String())

	sku, err := s.skuRepo.FindByID(id)
	if err != nil {
		return err
	}
	if sku.Status == model.SkuBorrowing {
		return &apperr.InvalidStateError{
			Op:     "soft delete sku",
			Reason: "sku is currently borrowed; process the return first",
		}
	}
	if err := s.skuRepo.SoftDelete(id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{Type: "sku_update", Action: "soft_deleted", Payload: id, Actor: actorID})
	return nil
}

// RestoreSku brings a SKU back from the recycle bin. Its code stayed reserved
// while deleted, so a collision means the namespace was tampered with; the
// restore is rejected rather than resurrecting an ambiguous code.
func (s *skuService) RestoreSku(id uuid.UUID, actorID string) error {
	s.locks.Lock("sku:code")
	defer s.locks.Unlock("sku:code")

	deleted, err := s.skuRepo.FindDeletedByID(id)
	if err != nil {
		return err
	}
	if err := ValidateUniqueSkuCode(nil, s.skuRepo, deleted.Code, id); err != nil {
		var dup *apperr.DuplicateCodeError
		if errors.As(err, &dup) {
			return &apperr.ConflictError{
				Reason: "cannot restore sku: code " + deleted.Code + " collides with another sku",
			}
		}
		return err
	}
	if err := s.skuRepo.Restore(id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{Type: "sku_update", Action: "restored", Payload: id, Actor: actorID})
	return nil
}

func (s *skuService) HardDeleteSku(id uuid.UUID) error {
	return s.skuRepo.HardDelete(id)
}

func (s *skuService) ResetSku(id uuid.UUID, actorID string) (*model.Sku, error) {
	s.locks.Lock("sku:" + id.String())
	defer s.locks.Unlock("sku:" + id.String())

	sku, err := s.skuRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := Transition(sku, model.SkuNotUsed); err != nil {
		return nil, err
	}
	sku.UpdatedBy = actorID
	sku.Item = nil
	sku.Warehouse = nil
	if err := s.skuRepo.Save(sku); err != nil {
		return nil, err
	}
	reset, err := s.skuRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{Type: "sku_update", Action: "reset", Payload: reset, Actor: actorID})
	return reset, nil
}

func (s *skuService) LookupByCode(code string) (*model.Sku, error) {
	sku, err := s.skuRepo.FindByCode(code)
	if err == nil {
		return sku, nil
	}
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	return s.skuRepo.SearchByCode(code)
}
