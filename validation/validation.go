// Package validation checks request payloads against their `binding` struct
// tags, the same tags gin evaluates when it binds a request body.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"devtrack/models"
)

// TagName is the struct tag holding the rules.
const TagName = "binding"

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName(TagName)
		if err := Register(v); err != nil {
			panic(fmt.Sprintf("validation: register: %v", err))
		}
		validate = v
	})
	return validate
}

// Register adds the custom rules and JSON field naming to v. It is applied
// to gin's binding engine as well so both report identical field errors.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	return v.RegisterValidation("notblank", validators.NotBlank)
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// Fields validates s and returns one FieldError per failing field, or nil.
func Fields(s any) []models.FieldError {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	if fields, ok := FromError(err); ok {
		return fields
	}
	return []models.FieldError{{Field: "body", Message: err.Error()}}
}

// Struct validates s and returns a *models.ValidationError when it fails.
func Struct(s any) error {
	if fields := Fields(s); len(fields) > 0 {
		return &models.ValidationError{Errors: fields}
	}
	return nil
}

// FromError extracts field errors from a validator failure, including one
// wrapped by gin's binding.
func FromError(err error) ([]models.FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return fields, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "required"
	case "max":
		return fmt.Sprintf("max %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
