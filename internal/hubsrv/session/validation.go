package session

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mentorhub/mentorhub/internal/common/apperrors"
	"github.com/mentorhub/mentorhub/pkg/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// V returns the shared validator instance with the domain tags registered:
// lessonDuration, lessonTopic, masteryLevel, and timezoneName.
func V() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("lessonDuration", func(fl validator.FieldLevel) bool {
			return types.IsValidDuration(int(fl.Field().Int()))
		})
		validate.RegisterValidation("lessonTopic", func(fl validator.FieldLevel) bool {
			return types.IsValidTopic(fl.Field().String())
		})
		validate.RegisterValidation("masteryLevel", func(fl validator.FieldLevel) bool {
			return types.IsValidMasteryLevel(int(fl.Field().Int()))
		})
		validate.RegisterValidation("timezoneName", func(fl validator.FieldLevel) bool {
			_, err := time.LoadLocation(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// validateStruct runs the validator and converts failures into a request
// error whose message names the offending fields.
func validateStruct(s any) apperrors.Error {
	err := V().Struct(s)
	if err == nil {
		return nil
	}
	validatorErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrValidationFailed
	}
	msg := "invalid fields:"
	for _, e := range validatorErrors {
		msg += " " + e.Field()
	}
	return ErrValidationFailed.Msg(msg)
}
