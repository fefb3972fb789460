package items

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Lelo88/inventory-api/internal/httpx"
)

// ValidationError agrupa los campos que no cumplen el schema del payload.
// errors.Is(err, ErrorInvalidInput) es true.
type ValidationError struct {
	Fields []httpx.FieldError
}

func (validationError *ValidationError) Error() string {
	names := make([]string, 0, len(validationError.Fields))
	for _, field := range validationError.Fields {
		names = append(names, field.Field+" ("+field.Rule+")")
	}
	return "invalid input: " + strings.Join(names, ", ")
}

func (validationError *ValidationError) Unwrap() error {
	return ErrorInvalidInput
}

// Validator valida payloads de items con tags `validate`.
type Validator struct {
	validate *validator.Validate
}

// NewValidator configura el validador con nombres de campo según el tag json.
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Struct valida un payload y devuelve *ValidationError si algún campo falla.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	fields := make([]httpx.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, httpx.FieldError{
			Field: fieldError.Field(),
			Rule:  fieldError.Tag(),
		})
	}
	return &ValidationError{Fields: fields}
}
