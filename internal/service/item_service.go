package service

import (
	"fmt"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/internal/ws"
	"go-inventory-sku/pkg/validator"

	"github.com/google/uuid"
)

// ItemView decorates an item with its composite display code.
type ItemView struct {
	model.Item
	FullCode string `json:"full_code"`
}

type ItemService interface {
	CreateItem(req *model.Item, actorID string) (*ItemView, error)
	UpdateItem(id uuid.UUID, req *model.Item, actorID string) (*ItemView, error)
	GetItems() ([]ItemView, error)
	GetDeletedItems() ([]ItemView, error)
	GetItemByID(id uuid.UUID) (*ItemView, error)
	SoftDeleteItem(id uuid.UUID, actorID string) error
	RestoreItem(id uuid.UUID, actorID string) error
	HardDeleteItem(id uuid.UUID) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	codeMu   *LockTable
	wsHub    *ws.Hub
}

func NewItemService(itemRepo repository.ItemRepository, hub *ws.Hub) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		codeMu:   NewLockTable(),
		wsHub:    hub,
	}
}

func toItemView(item model.Item) ItemView {
	return ItemView{Item: item, FullCode: ComposeFullCode(&item)}
}

func (s *itemService) CreateItem(req *model.Item, actorID string) (*ItemView, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.Stock < 0 {
		return nil, &apperr.ValidationError{Fields: []string{"stock: must not be negative"}}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, &apperr.ValidationError{Fields: []string{"price: must not be negative"}}
	}

	// Uniqueness check and insert are one logical step
	s.codeMu.Lock("item")
	defer s.codeMu.Unlock("item")

	if err := ValidateUniqueItemCode(s.itemRepo, req.Code, uuid.Nil); err != nil {
		return nil, err
	}

	req.CreatedBy = actorID
	req.UpdatedBy = actorID
	if err := s.itemRepo.Create(req); err != nil {
		return nil, err
	}

	created, err := s.itemRepo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{Type: "item_update", Action: "created", Payload: created, Actor: actorID})
	view := toItemView(*created)
	return &view, nil
}

func (s *itemService) UpdateItem(id uuid.UUID, req *model.Item, actorID string) (*ItemView, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.Stock < 0 {
		return nil, &apperr.ValidationError{Fields: []string{"stock: must not be negative"}}
	}

	s.codeMu.Lock("item")
	defer s.codeMu.Unlock("item")

	existing, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Code != existing.Code {
		if err := ValidateUniqueItemCode(s.itemRepo, req.Code, id); err != nil {
			return nil, err
		}
	}

	existing.Name = req.Name
	existing.Code = req.Code
	existing.Supplier = req.Supplier
	existing.Description = req.Description
	existing.Stock = req.Stock
	existing.Price = req.Price
	existing.UnitID = req.UnitID
	existing.CategoryID = req.CategoryID
	existing.UpdatedBy = actorID

	if err := s.itemRepo.Save(existing); err != nil {
		return nil, err
	}

	updated, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{Type: "item_update", Action: "updated", Payload: updated, Actor: actorID})
	view := toItemView(*updated)
	return &view, nil
}

func (s *itemService) GetItems() ([]ItemView, error) {
	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = toItemView(it)
	}
	return views, nil
}

func (s *itemService) GetDeletedItems() ([]ItemView, error) {
	items, err := s.itemRepo.FindDeleted()
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = toItemView(it)
	}
	return views, nil
}

func (s *itemService) GetItemByID(id uuid.UUID) (*ItemView, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	view := toItemView(*item)
	return &view, nil
}

func (s *itemService) SoftDeleteItem(id uuid.UUID, actorID string) error {
	if err := s.itemRepo.SoftDelete(id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{Type: "item_update", Action: "soft_deleted", Payload: id, Actor: actorID})
	return nil
}

// RestoreItem brings an item out of the recycle bin unless its code has been
// taken by an active item in the meantime.
func (s *itemService) RestoreItem(id uuid.UUID, actorID string) error {
	s.codeMu.Lock("item")
	defer s.codeMu.Unlock("item")

	deleted, err := s.itemRepo.FindDeletedByID(id)
	if err != nil {
		return err
	}
	n, err := s.itemRepo.CountActiveByCode(deleted.Code, uuid.Nil)
	if err != nil {
		return err
	}
	if n > 0 {
		return &apperr.ConflictError{
			Reason: fmt.Sprintf("cannot restore item: code %q is now used by an active item", deleted.Code),
		}
	}
	if err := s.itemRepo.Restore(id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{Type: "item_update", Action: "restored", Payload: id, Actor: actorID})
	return nil
}

func (s *itemService) HardDeleteItem(id uuid.UUID) error {
	return s.itemRepo.HardDelete(id)
}
