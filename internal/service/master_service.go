package service

import (
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/internal/ws"
	"go-inventory-sku/pkg/validator"

	"github.com/google/uuid"
)

// MasterService is the shared lifecycle service behind categories, units and
// warehouses: plain CRUD plus the recoverable-store triple. The three kinds
// behave identically, so one generic service covers them.
type MasterService[T any] struct {
	store *repository.RecoverableStore[T]
	wsHub *ws.Hub
}

func NewMasterService[T any](store *repository.RecoverableStore[T], hub *ws.Hub) *MasterService[T] {
	return &MasterService[T]{store: store, wsHub: hub}
}

func (s *MasterService[T]) Create(rec *T, actorID string) error {
	if errs := validator.ValidateStruct(rec); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.store.Create(rec); err != nil {
		return err
	}
	s.publish("created", rec, actorID)
	return nil
}

func (s *MasterService[T]) Update(id uuid.UUID, apply func(*T), actorID string) (*T, error) {
	existing, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	apply(existing)
	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.store.Save(existing); err != nil {
		return nil, err
	}
	s.publish("updated", existing, actorID)
	return existing, nil
}

func (s *MasterService[T]) Get(id uuid.UUID) (*T, error) {
	return s.store.FindByID(id)
}

func (s *MasterService[T]) List() ([]T, error) {
	return s.store.List(false)
}

func (s *MasterService[T]) ListDeleted() ([]T, error) {
	return s.store.ListDeleted()
}

func (s *MasterService[T]) SoftDelete(id uuid.UUID, actorID string) error {
	if err := s.store.SoftDelete(id); err != nil {
		return err
	}
	s.publish("soft_deleted", id, actorID)
	return nil
}

func (s *MasterService[T]) Restore(id uuid.UUID, actorID string) error {
	if err := s.store.Restore(id); err != nil {
		return err
	}
	s.publish("restored", id, actorID)
	return nil
}

func (s *MasterService[T]) HardDelete(id uuid.UUID) error {
	err := s.store.HardDelete(id)
	if err == nil {
		s.publish("hard_deleted", id, "")
	}
	return err
}

func (s *MasterService[T]) publish(action string, payload interface{}, actorID string) {
	s.wsHub.Publish(ws.Event{Type: "master_update", Action: action, Payload: payload, Actor: actorID})
}
