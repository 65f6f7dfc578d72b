package controller

import (
	"pdf-insight-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct folds the first tag violation into the app error taxonomy.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return &apperrors.ValidationError{
			Field:  verrs[0].Field(),
			Reason: "failed on rule " + verrs[0].Tag(),
		}
	}
	return err
}
