package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

var validate = validator.New()

// Validate checks struct tags on a request payload and converts failures
// into field-keyed validation errors.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid request payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid request payload", details)
}
