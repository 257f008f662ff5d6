package usecase

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/taskboard/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("palette", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseColor(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("collection_name", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= domain.MaxCollectionNameLength
	})
	return v
}

// CollectionInput is the validated form of a create-collection request.
type CollectionInput struct {
	Name  string `validate:"required,collection_name"`
	Color string `validate:"required,palette"`
}

// TaskInput is the validated form of a create-task request.
type TaskInput struct {
	CollectionID string `validate:"required"`
	Content      string `validate:"required"`
}

// Validate runs struct validation and converts failures into INVALID domain errors.
func Validate(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid input", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return domain.Validation(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "collection_name":
		return fmt.Sprintf("%s must be at most %d characters", field, domain.MaxCollectionNameLength)
	case "palette":
		return fmt.Sprintf("%s must be one of the theme colors", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
