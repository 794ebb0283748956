package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
)

func TestComposeFullCode(t *testing.T) {
	item := &model.Item{
		Code:     "TSHIRT",
		Category: &model.Category{Code: "APP"},
		Unit:     &model.Unit{Name: "PCS"},
	}
	if got := ComposeFullCode(item); got != "TSHIRT-APP-PCS" {
		t.Fatalf("full code = %q", got)
	}
}

func TestComposeFullCodeSkipsMissingSegments(t *testing.T) {
	item := &model.Item{Code: "TSHIRT"}
	if got := ComposeFullCode(item); got != "TSHIRT" {
		t.Fatalf("full code = %q", got)
	}

	item.Unit = &model.Unit{Name: "PCS"}
	if got := ComposeFullCode(item); got != "TSHIRT-PCS" {
		t.Fatalf("full code = %q", got)
	}
}

func TestNextSkuCodeCountsSoftDeleted(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)

	first := f.seedSku(t, item, wh)
	if first.Code != "TSHIRT-001" {
		t.Fatalf("first code = %q", first.Code)
	}
	second := f.seedSku(t, item, wh)
	if second.Code != "TSHIRT-002" {
		t.Fatalf("second code = %q", second.Code)
	}

	// Retiring a SKU must not free its sequence number.
	if err := f.skus.SoftDeleteSku(second.ID, "tester"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	third := f.seedSku(t, item, wh)
	if third.Code != "TSHIRT-003" {
		t.Fatalf("code after soft delete = %q, want TSHIRT-003", third.Code)
	}
}

func TestValidateUniqueSkuCodeSeesDeletedRows(t *testing.T) {
	f := setup(t)
	item, wh := f.seedItem(t, "TSHIRT", 10)
	sku := f.seedSku(t, item, wh)

	if err := f.skus.SoftDeleteSku(sku.ID, "tester"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	err := ValidateUniqueSkuCode(f.db, f.skuRepo, sku.Code, uuid.Nil)
	var dup *apperr.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateCodeError for retired code, got %v", err)
	}
	if dup.Code != sku.Code {
		t.Fatalf("duplicate code = %q, want %q", dup.Code, sku.Code)
	}

	// The record itself is excluded when validating an edit in place.
	if err := ValidateUniqueSkuCode(f.db, f.skuRepo, sku.Code, sku.ID); err != nil {
		t.Fatalf("exclude self: %v", err)
	}
}

func TestValidateUniqueItemCodeIgnoresDeletedRows(t *testing.T) {
	f := setup(t)
	item, _ := f.seedItem(t, "TSHIRT", 10)

	err := ValidateUniqueItemCode(f.itemRepo, "TSHIRT", uuid.Nil)
	var dup *apperr.DuplicateCodeError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateCodeError, got %v", err)
	}

	// Item codes live in the active namespace only. Once the item is in the
	// recycle bin its code is available again.
	if err := f.items.SoftDeleteItem(item.ID, "tester"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := ValidateUniqueItemCode(f.itemRepo, "TSHIRT", uuid.Nil); err != nil {
		t.Fatalf("deleted item code should be reusable: %v", err)
	}
}
