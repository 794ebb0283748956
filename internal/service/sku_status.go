package service

import (
	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
)

// SKU lifecycle: not_used -> borrowing -> ready -> borrowing -> ... The only
// backward edge is the explicit admin reset ready -> not_used. Transitions are
// requested exclusively by the lending coordinator (and the reset endpoint),
// as the last step of the operation that justifies them.
var skuTransitions = map[model.SkuStatus]map[model.SkuStatus]bool{
	model.SkuNotUsed:   {model.SkuBorrowing: true},
	model.SkuBorrowing: {model.SkuReady: true},
	model.SkuReady:     {model.SkuBorrowing: true, model.SkuNotUsed: true},
}

// CanTransition reports whether the edge exists in the lifecycle graph.
func CanTransition(from, to model.SkuStatus) bool {
	return skuTransitions[from][to]
}

// Transition validates the requested edge and applies it to the in-memory
// record. Persisting the change is the caller's job, on the same transaction
// as whatever triggered it.
func Transition(sku *model.Sku, to model.SkuStatus) error {
	if !CanTransition(sku.Status, to) {
		return &apperr.InvalidTransitionError{From: string(sku.Status), To: string(to)}
	}
	sku.Status = to
	return nil
}
