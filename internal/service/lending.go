package service

import (
	"errors"
	"sort"
	"time"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanDetailRequest struct {
	SkuID      uuid.UUID `json:"sku_id" validate:"uuid_required"`
	Qty        int       `json:"qty" validate:"required,gt=0"`
	ReturnDate time.Time `json:"return_date"`
}

type CreateLoanRequest struct {
	Name        string              `json:"name" validate:"required"`
	PhoneNumber string              `json:"phone_number" validate:"required,phone"`
	Email       string              `json:"email" validate:"omitempty,email"`
	Necessity   string              `json:"necessity"`
	Note        string              `json:"note"`
	LoanDate    time.Time           `json:"loan_date"`
	Details     []LoanDetailRequest `json:"details" validate:"required,min=1,dive"`
}

type ReturnLoanRequest struct {
	ReturnDate time.Time   `json:"return_date"`
	Note       string      `json:"note"`
	DetailIDs  []uuid.UUID `json:"detail_ids"`
}

// LendingService is the single entry point that keeps Loan and SKU state
// jointly consistent. SKU statuses move here and nowhere else (except the
// admin reset); the parent loan status is recomputed from its details on
// every mutation.
type LendingService interface {
	CreateLoan(req *CreateLoanRequest, actorID string) (*model.Loan, error)
	ReturnLoan(loanID uuid.UUID, req *ReturnLoanRequest, actorID string) (*model.Loan, error)
	ActiveLoanFor(skuID uuid.UUID) (*model.Loan, error)
	GetLoans(page, limit int) ([]model.Loan, int64, error)
	GetLoanByID(id uuid.UUID) (*model.Loan, error)
}

type lendingService struct {
	loanRepo repository.LoanRepository
	skuRepo  repository.SkuRepository
	db       *gorm.DB
	locks    *LockTable
	wsHub    *ws.Hub
}

func NewLendingService(
	loanRepo repository.LoanRepository,
	skuRepo repository.SkuRepository,
	db *gorm.DB,
	locks *LockTable,
	hub *ws.Hub,
) LendingService {
	return &lendingService{
		loanRepo: loanRepo,
		skuRepo:  skuRepo,
		db:       db,
		locks:    locks,
		wsHub:    hub,
	}
}

// lockSkus acquires the per-SKU locks in a stable order so two overlapping
// loans can never deadlock, and returns the matching unlock.
func (s *lendingService) lockSkus(ids []uuid.UUID) func() {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "sku:" + id.String()
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.locks.Lock(k)
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			s.locks.Unlock(keys[i])
		}
	}
}

// CreateLoan validates the borrower, then atomically checks every requested
// SKU (exists, not deleted, not already out, qty within item stock), writes
// the loan with its details and drives each SKU to borrowing. Any failing
// detail aborts the whole call.
func (s *lendingService) CreateLoan(req *CreateLoanRequest, actorID string) (*model.Loan, error) {
	if errs := validateStruct(req); errs != nil {
		return nil, errs
	}

	seen := make(map[uuid.UUID]bool, len(req.Details))
	skuIDs := make([]uuid.UUID, 0, len(req.Details))
	for _, d := range req.Details {
		if seen[d.SkuID] {
			return nil, &apperr.ValidationError{
				Fields: []string{"details: sku " + d.SkuID.String() + " requested twice"},
			}
		}
		seen[d.SkuID] = true
		skuIDs = append(skuIDs, d.SkuID)
	}

	unlock := s.lockSkus(skuIDs)
	defer unlock()

	loanDate := req.LoanDate
	if loanDate.IsZero() {
		loanDate = time.Now()
	}

	loan := &model.Loan{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Necessity:   req.Necessity,
		Note:        req.Note,
		LoanDate:    loanDate,
		Status:      model.LoanBorrowing,
	}
	loan.CreatedBy = actorID
	loan.UpdatedBy = actorID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range req.Details {
			sku, err := s.findSkuForUpdate(tx, d.SkuID)
			if err != nil {
				return err
			}
			if n, err := s.loanRepo.CountOpenDetailsBySku(tx, sku.ID); err != nil {
				return err
			} else if n > 0 {
				return &apperr.InvalidStateError{
					Op:     "create loan",
					Reason: "sku " + sku.Code + " is already out on another loan",
				}
			}
			if !CanTransition(sku.Status, model.SkuBorrowing) {
				return &apperr.InvalidStateError{
					Op:     "create loan",
					Reason: "sku " + sku.Code + " is not available for lending (status " + string(sku.Status) + ")",
				}
			}
			// Preload("Item") skips soft-deleted parents; a nil Item means
			// the item sits in the recycle bin and its units must not go out.
			if sku.Item == nil {
				return &apperr.InvalidStateError{
					Op:     "create loan",
					Reason: "sku " + sku.Code + " belongs to a deleted item",
				}
			}
			if d.Qty > sku.Item.Stock {
				return &apperr.ValidationError{
					Fields: []string{"qty: exceeds stock of item " + sku.Item.Code},
				}
			}

			loan.Details = append(loan.Details, model.LoanDetail{
				SkuID:      sku.ID,
				Qty:        d.Qty,
				ReturnDate: d.ReturnDate,
				Status:     model.DetailBorrowed,
			})
		}

		if err := s.loanRepo.Create(tx, loan); err != nil {
			return err
		}

		for _, d := range req.Details {
			if err := s.skuRepo.UpdateStatus(tx, d.SkuID, model.SkuBorrowing); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.loanRepo.FindByID(loan.ID)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{Type: "loan_update", Action: "created", Payload: created, Actor: actorID})
	return created, nil
}

// ReturnLoan marks the requested details (or every open one) returned, moves
// their SKUs borrowing -> ready, and recomputes the parent status.
func (s *lendingService) ReturnLoan(loanID uuid.UUID, req *ReturnLoanRequest, actorID string) (*model.Loan, error) {
	if req == nil {
		req = &ReturnLoanRequest{}
	}
	returnedAt := req.ReturnDate
	if returnedAt.IsZero() {
		returnedAt = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		loan, err := s.loanRepo.FindByIDForUpdate(tx, loanID)
		if err != nil {
			return err
		}

		targets, err := selectReturnTargets(loan, req.DetailIDs)
		if err != nil {
			return err
		}

		for _, idx := range targets {
			detail := &loan.Details[idx]
			detail.Status = model.DetailReturned
			detail.ActualReturnDate = &returnedAt
			if err := s.loanRepo.SaveDetail(tx, detail); err != nil {
				return err
			}

			sku, err := s.findSkuForUpdate(tx, detail.SkuID)
			if err != nil {
				return err
			}
			if err := Transition(sku, model.SkuReady); err != nil {
				return err
			}
			if err := s.skuRepo.UpdateStatus(tx, sku.ID, model.SkuReady); err != nil {
				return err
			}
		}

		loan.Status = loan.DeriveStatus()
		if req.Note != "" {
			loan.Note = req.Note
		}
		loan.UpdatedBy = actorID
		loan.Details = nil // already persisted above; avoid re-saving associations
		return s.loanRepo.Save(tx, loan)
	})
	if err != nil {
		return nil, err
	}

	returned, err := s.loanRepo.FindByID(loanID)
	if err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.Event{Type: "loan_update", Action: "returned", Payload: returned, Actor: actorID})
	return returned, nil
}

// ActiveLoanFor returns the loan whose open detail references the SKU. Reads
// the same rows CreateLoan/ReturnLoan write, so callers deciding between
// "borrow" and "return" see coordinator state, not a projection.
func (s *lendingService) ActiveLoanFor(skuID uuid.UUID) (*model.Loan, error) {
	return s.loanRepo.FindActiveLoanBySku(skuID)
}

func (s *lendingService) GetLoans(page, limit int) ([]model.Loan, int64, error) {
	return s.loanRepo.FindPage(page, limit)
}

func (s *lendingService) GetLoanByID(id uuid.UUID) (*model.Loan, error) {
	return s.loanRepo.FindByID(id)
}

// findSkuForUpdate loads an active SKU with its item inside the transaction.
// Soft-deleted SKUs are invisible here, which is exactly the §4.4 guard.
func (s *lendingService) findSkuForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sku, error) {
	var sku model.Sku
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Preload("Item").
		First(&sku, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Kind: "sku", ID: id.String()}
		}
		return nil, err
	}
	return &sku, nil
}

// selectReturnTargets resolves which detail indexes to return: the requested
// ids (each must belong to the loan and still be open) or every open detail.
func selectReturnTargets(loan *model.Loan, detailIDs []uuid.UUID) ([]int, error) {
	var targets []int
	if len(detailIDs) == 0 {
		for i := range loan.Details {
			if loan.Details[i].Status == model.DetailBorrowed {
				targets = append(targets, i)
			}
		}
		if len(targets) == 0 {
			return nil, &apperr.InvalidStateError{
				Op:     "return loan",
				Reason: "loan has no open details",
			}
		}
		return targets, nil
	}

	byID := make(map[uuid.UUID]int, len(loan.Details))
	for i := range loan.Details {
		byID[loan.Details[i].ID] = i
	}
	seen := make(map[uuid.UUID]bool, len(detailIDs))
	for _, id := range detailIDs {
		if seen[id] {
			return nil, &apperr.ValidationError{
				Fields: []string{"detail_ids: detail " + id.String() + " requested twice"},
			}
		}
		seen[id] = true
		idx, ok := byID[id]
		if !ok {
			return nil, &apperr.NotFoundError{Kind: "loan detail", ID: id.String()}
		}
		if loan.Details[idx].Status != model.DetailBorrowed {
			return nil, &apperr.InvalidStateError{
				Op:     "return loan",
				Reason: "detail " + id.String() + " is already returned",
			}
		}
		targets = append(targets, idx)
	}
	return targets, nil
}
