package repository

import (
	"errors"

	"go-inventory-sku/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecoverableStore is the generic soft-delete/restore primitive every record
// kind goes through. It only ever touches the record's own deleted_at column;
// cross-entity preconditions (a borrowed SKU, a colliding code) are the
// owning service's job before it calls in here.
type RecoverableStore[T any] struct {
	db   *gorm.DB
	kind string
}

func NewRecoverableStore[T any](db *gorm.DB, kind string) *RecoverableStore[T] {
	return &RecoverableStore[T]{db: db, kind: kind}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *RecoverableStore[T]) WithTx(tx *gorm.DB) *RecoverableStore[T] {
	return &RecoverableStore[T]{db: tx, kind: s.kind}
}

func (s *RecoverableStore[T]) Kind() string { return s.kind }

func (s *RecoverableStore[T]) Create(rec *T) error {
	return s.db.Create(rec).Error
}

func (s *RecoverableStore[T]) Save(rec *T) error {
	return s.db.Save(rec).Error
}

func (s *RecoverableStore[T]) FindByID(id uuid.UUID) (*T, error) {
	var rec T
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: s.kind, ID: id.String()}
		}
		return nil, err
	}
	return &rec, nil
}

// FindDeletedByID looks up a record sitting in the recycle bin.
func (s *RecoverableStore[T]) FindDeletedByID(id uuid.UUID) (*T, error) {
	var rec T
	err := s.db.Unscoped().
		First(&rec, "id = ? AND deleted_at IS NOT NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: s.kind, ID: id.String()}
		}
		return nil, err
	}
	return &rec, nil
}

// List returns active records; with includeDeleted it returns the whole
// unscoped set so the caller can partition for recycle-bin views.
func (s *RecoverableStore[T]) List(includeDeleted bool) ([]T, error) {
	var recs []T
	q := s.db
	if includeDeleted {
		q = q.Unscoped()
	}
	err := q.Find(&recs).Error
	return recs, err
}

// ListDeleted returns only the recycle-bin partition.
func (s *RecoverableStore[T]) ListDeleted() ([]T, error) {
	var recs []T
	err := s.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&recs).Error
	return recs, err
}

// SoftDelete stamps deleted_at. NotFound when no active record matches.
func (s *RecoverableStore[T]) SoftDelete(id uuid.UUID) error {
	var rec T
	res := s.db.Where("id = ?", id).Delete(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Kind: s.kind, ID: id.String()}
	}
	return nil
}

// Restore clears deleted_at. NotFound when the record is not soft-deleted;
// code collisions with active records must be checked by the caller first.
func (s *RecoverableStore[T]) Restore(id uuid.UUID) error {
	var rec T
	res := s.db.Unscoped().Model(&rec).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Kind: s.kind, ID: id.String()}
	}
	return nil
}

// HardDelete permanently removes a record, but only out of the recycle bin.
func (s *RecoverableStore[T]) HardDelete(id uuid.UUID) error {
	if _, err := s.FindDeletedByID(id); err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return &apperr.InvalidStateError{
				Op:     "hard delete " + s.kind,
				Reason: "record must be soft-deleted first",
			}
		}
		return err
	}
	var rec T
	return s.db.Unscoped().Where("id = ?", id).Delete(&rec).Error
}
