package service

import (
	"fmt"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/pkg/validator"
)

// validateStruct runs tag validation and folds the failures into one
// ValidationError listing every offending field.
func validateStruct(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	return validationError(errs)
}

func validationError(errs []*validator.ErrorResponse) error {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = fmt.Sprintf("%s: failed on %q", e.FailedField, e.Tag)
	}
	return &apperr.ValidationError{Fields: fields}
}
