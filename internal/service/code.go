package service

import (
	"fmt"
	"strings"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComposeFullCode builds the composite display code from the item code, the
// category code and the unit name, skipping segments that are missing. Pure;
// callers pass an item with its references preloaded.
func ComposeFullCode(item *model.Item) string {
	var parts []string
	if item.Code != "" {
		parts = append(parts, item.Code)
	}
	if item.Category != nil && item.Category.Code != "" {
		parts = append(parts, item.Category.Code)
	}
	if item.Unit != nil && item.Unit.Name != "" {
		parts = append(parts, item.Unit.Name)
	}
	return strings.Join(parts, "-")
}

// NextSkuCode derives "<item code>-NNN" from the item's SKU count including
// soft-deleted rows, so a retired sequence number never comes back.
func NextSkuCode(tx *gorm.DB, skuRepo repository.SkuRepository, item *model.Item) (string, error) {
	n, err := skuRepo.CountByItem(tx, item.ID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", item.Code, n+1), nil
}

// ValidateUniqueSkuCode scans the active+deleted SKU namespace. Must run on
// the same transaction as the write it guards.
func ValidateUniqueSkuCode(tx *gorm.DB, skuRepo repository.SkuRepository, code string, excludeID uuid.UUID) error {
	n, err := skuRepo.CountByCode(tx, code, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &apperr.DuplicateCodeError{Kind: "sku", Code: code}
	}
	return nil
}

// ValidateUniqueItemCode scans active items only: a soft-deleted item parks
// its code in the recycle bin and frees it for reuse, and the collision is
// re-checked if that item ever comes back.
func ValidateUniqueItemCode(itemRepo repository.ItemRepository, code string, excludeID uuid.UUID) error {
	n, err := itemRepo.CountActiveByCode(code, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &apperr.DuplicateCodeError{Kind: "item", Code: code}
	}
	return nil
}
