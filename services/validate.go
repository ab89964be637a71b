package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/models"
)

var validate = validator.New()

// validateRequest normalizes and validates a request struct, returning a validation error on failure.
func validateRequest(req interface{}) error {
	if err := models.Normalize(req); err != nil {
		return apiError.Validation(err.Error())
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apiError.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apiError.Validation(strings.Join(msgs, "; "))
}
