package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks the `validate` tags of service inputs. Field errors are
// reported under the json name so they line up with the request body.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages maps "field.rule" (e.g. "pickup_address.max") to the message shown for it
type fieldMessages map[string]string

// checkStruct runs the tag rules of input and records one message per failed rule in verr.
// Only a malformed input (not a failed rule) is returned as an error.
func checkStruct(input any, messages fieldMessages, verr *ValidationError) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	for _, fieldErr := range fieldErrs {
		field := fieldErr.Field()
		message, ok := messages[field+"."+fieldErr.Tag()]
		if !ok {
			message = fmt.Sprintf("The %s field is invalid.", strings.ReplaceAll(field, "_", " "))
		}
		verr.Add(field, message)
	}
	return nil
}
