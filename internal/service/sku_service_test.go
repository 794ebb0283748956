package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
)

func TestCreateSku(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)

	sku := f.seedSku(t, item, wh)
	if sku.Code != "TSHIRT-001" {
		t.Fatalf("code = %q", sku.Code)
	}
	if sku.Status != model.SkuNotUsed {
		t.Fatalf("new sku status = %s, want not_used", sku.Status)
	}
	if sku.Item == nil || sku.Item.Code != "TSHIRT" {
		t.Fatalf("item not preloaded: %+v", sku.Item)
	}
	if sku.Warehouse == nil || sku.Warehouse.ID != wh.ID {
		t.Fatalf("warehouse not preloaded: %+v", sku.Warehouse)
	}
}

func TestCreateSkuUnknownReferences(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)

	var nf *apperr.NotFoundError
	_, err := f.skus.CreateSku(&CreateSkuRequest{ItemID: uuid.New(), WarehouseID: wh.ID}, "tester")
	if !errors.As(err, &nf) {
		t.Fatalf("unknown item: want NotFoundError, got %v", err)
	}
	_, err = f.skus.CreateSku(&CreateSkuRequest{ItemID: item.ID, WarehouseID: uuid.New()}, "tester")
	if !errors.As(err, &nf) {
		t.Fatalf("unknown warehouse: want NotFoundError, got %v", err)
	}
}

func TestUpdateSkuLeavesCodeAndStatusAlone(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	other := &model.Warehouse{Name: "Annex", Status: "active"}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}

	color := "Red"
	updated, err := f.skus.UpdateSku(sku.ID, &UpdateSkuRequest{WarehouseID: &other.ID, Color: &color}, "tester")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Color != "Red" || updated.WarehouseID != other.ID {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Code != sku.Code || updated.Status != sku.Status {
		t.Fatalf("code/status drifted: %q %s", updated.Code, updated.Status)
	}
}

func TestSoftDeleteBorrowedSkuRejected(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)
	loan := f.borrow(t, sku)

	err := f.skus.SoftDeleteSku(sku.ID, "tester")
	var invalid *apperr.InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidStateError while borrowed, got %v", err)
	}

	// After the return the same delete goes through.
	f.returnAll(t, loan.ID)
	if err := f.skus.SoftDeleteSku(sku.ID, "tester"); err != nil {
		t.Fatalf("soft delete after return: %v", err)
	}

	deleted, err := f.skus.GetDeletedSkus()
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != sku.ID {
		t.Fatalf("recycle bin = %+v", deleted)
	}
	if _, err := f.skus.GetSkuByID(sku.ID); err == nil {
		t.Fatal("soft-deleted sku still visible to active reads")
	}
}

func TestRestoreSku(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	if err := f.skus.SoftDeleteSku(sku.ID, "tester"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := f.skus.RestoreSku(sku.ID, "tester"); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored, err := f.skus.GetSkuByID(sku.ID)
	if err != nil {
		t.Fatalf("get after restore: %v", err)
	}
	if restored.Code != "TSHIRT-001" || restored.Status != model.SkuNotUsed {
		t.Fatalf("restored sku = %q %s", restored.Code, restored.Status)
	}
}

func TestRestoreSkuNotInRecycleBin(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	err := f.skus.RestoreSku(sku.ID, "tester")
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("restoring an active sku: want NotFoundError, got %v", err)
	}
}

func TestHardDeleteRequiresSoftDeleteFirst(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	err := f.skus.HardDeleteSku(sku.ID)
	var invalid *apperr.InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("hard delete of active sku: want InvalidStateError, got %v", err)
	}

	if err := f.skus.SoftDeleteSku(sku.ID, "tester"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := f.skus.HardDeleteSku(sku.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	var nf *apperr.NotFoundError
	if err := f.skus.RestoreSku(sku.ID, "tester"); !errors.As(err, &nf) {
		t.Fatalf("hard-deleted sku must be gone for good, got %v", err)
	}
}

func TestResetSku(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	// Fresh SKUs have nothing to reset.
	var invalid *apperr.InvalidTransitionError
	if _, err := f.skus.ResetSku(sku.ID, "admin"); !errors.As(err, &invalid) {
		t.Fatalf("reset from not_used: want InvalidTransitionError, got %v", err)
	}

	loan := f.borrow(t, sku)
	if _, err := f.skus.ResetSku(sku.ID, "admin"); !errors.As(err, &invalid) {
		t.Fatalf("reset from borrowing: want InvalidTransitionError, got %v", err)
	}

	f.returnAll(t, loan.ID)
	reset, err := f.skus.ResetSku(sku.ID, "admin")
	if err != nil {
		t.Fatalf("reset from ready: %v", err)
	}
	if reset.Status != model.SkuNotUsed {
		t.Fatalf("status = %s, want not_used", reset.Status)
	}

	stored, err := f.skus.GetSkuByID(sku.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != model.SkuNotUsed {
		t.Fatalf("persisted status = %s, want not_used", stored.Status)
	}
	if stored.UpdatedBy != "admin" {
		t.Fatalf("persisted updated_by = %q, want the resetting operator", stored.UpdatedBy)
	}
}

func TestLookupByCode(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	first := f.seedSku(t, item, wh)
	f.seedSku(t, item, wh)

	exact, err := f.skus.LookupByCode("TSHIRT-001")
	if err != nil {
		t.Fatalf("exact lookup: %v", err)
	}
	if exact.ID != first.ID {
		t.Fatalf("exact lookup resolved %q", exact.Code)
	}

	// A scanned fragment falls back to substring search, lowest code first.
	partial, err := f.skus.LookupByCode("SHIRT")
	if err != nil {
		t.Fatalf("substring lookup: %v", err)
	}
	if partial.Code != "TSHIRT-001" {
		t.Fatalf("substring lookup resolved %q", partial.Code)
	}

	var nf *apperr.NotFoundError
	if _, err := f.skus.LookupByCode("NOPE-999"); !errors.As(err, &nf) {
		t.Fatalf("unknown code: want NotFoundError, got %v", err)
	}
}
