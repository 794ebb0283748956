package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
)

type fixtures struct {
	db         *gorm.DB
	itemRepo   repository.ItemRepository
	skuRepo    repository.SkuRepository
	loanRepo   repository.LoanRepository
	warehouses *repository.RecoverableStore[model.Warehouse]
	locks      *LockTable

	items   ItemService
	skus    SkuService
	lending LendingService
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Shared-cache in-memory database scoped to the test name so parallel
	// tests never see each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// A single connection keeps the in-memory database alive and forces the
	// same serialization the keyed locks already guarantee.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Unit{},
		&model.Warehouse{},
		&model.Item{},
		&model.Sku{},
		&model.Loan{},
		&model.LoanDetail{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setup(t *testing.T) *fixtures {
	t.Helper()

	db := setupDB(t)
	itemRepo := repository.NewItemRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	warehouses := repository.NewRecoverableStore[model.Warehouse](db, "warehouse")
	locks := NewLockTable()

	return &fixtures{
		db:         db,
		itemRepo:   itemRepo,
		skuRepo:    skuRepo,
		loanRepo:   loanRepo,
		warehouses: warehouses,
		locks:      locks,
		items:      NewItemService(itemRepo, nil),
		skus:       NewSkuService(skuRepo, itemRepo, warehouses, db, locks, nil),
		lending:    NewLendingService(loanRepo, skuRepo, db, locks, nil),
	}
}

func (f *fixtures) seedMasters(t *testing.T) (*model.Category, *model.Unit, *model.Warehouse) {
	t.Helper()

	cat := &model.Category{Name: "Apparel", Code: "APP", Status: "active"}
	unit := &model.Unit{Name: "PCS", Status: "active"}
	wh := &model.Warehouse{Name: "Main", Address: "Jl. Gudang 1", Status: "active"}
	for _, rec := range []any{cat, unit, wh} {
		if err := f.db.Create(rec).Error; err != nil {
			t.Fatalf("seed master: %v", err)
		}
	}
	return cat, unit, wh
}

func (f *fixtures) seedItem(t *testing.T, code string, stock int) (*model.Item, *model.Warehouse) {
	t.Helper()

	cat, unit, wh := f.seedMasters(t)
	price := decimal.NewFromInt(150000)
	item := &model.Item{
		Code:       code,
		Name:       "Kaos Polos",
		Supplier:   "CV Sumber Kain",
		Stock:      stock,
		Price:      &price,
		UnitID:     unit.ID,
		CategoryID: cat.ID,
	}
	if err := f.db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	item.Category = cat
	item.Unit = unit
	return item, wh
}

func (f *fixtures) seedSku(t *testing.T, item *model.Item, wh *model.Warehouse) *model.Sku {
	t.Helper()

	sku, err := f.skus.CreateSku(&CreateSkuRequest{
		ItemID:      item.ID,
		WarehouseID: wh.ID,
		Color:       "Black",
	}, "tester")
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	return sku
}

func (f *fixtures) borrow(t *testing.T, sku *model.Sku) *model.Loan {
	t.Helper()

	loan, err := f.lending.CreateLoan(validLoanRequest(sku.ID, 1), "tester")
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	return loan
}

func (f *fixtures) returnAll(t *testing.T, loanID uuid.UUID) *model.Loan {
	t.Helper()

	loan, err := f.lending.ReturnLoan(loanID, &ReturnLoanRequest{}, "tester")
	if err != nil {
		t.Fatalf("return loan: %v", err)
	}
	return loan
}

func validLoanRequest(skuID uuid.UUID, qty int) *CreateLoanRequest {
	return &CreateLoanRequest{
		Name:        "Budi Santoso",
		PhoneNumber: "081234567890",
		Email:       "budi@example.com",
		Necessity:   "Event kantor",
		Details: []LoanDetailRequest{
			{SkuID: skuID, Qty: qty},
		},
	}
}
